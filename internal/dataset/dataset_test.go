package dataset

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = `country,year,life_expectancy,total_fertility,population,continent
Chile,1950,54.8,4.9,6100000,Americas
Chile,1951,55.1,4.8,6250000,Americas
Kenya,1950,42.3,7.5,6000000,Africa
`

func TestRead(t *testing.T) {
	res, err := Read(strings.NewReader(sampleCSV), DefaultColumns())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(res.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(res.Records))
	}
	if len(res.Problems) != 0 {
		t.Errorf("expected no problems, got %v", res.Problems)
	}

	r := res.Records[0]
	if r.Entity != "Chile" || r.Year != 1950 {
		t.Errorf("unexpected key %s/%d", r.Entity, r.Year)
	}
	if r.X != 4.9 || r.Y != 54.8 || r.Size != 6100000 {
		t.Errorf("columns mapped wrong: %+v", r)
	}
	if r.Category != "Americas" {
		t.Errorf("expected category Americas, got %s", r.Category)
	}
}

func TestRead_MalformedRows(t *testing.T) {
	input := `country,year,life_expectancy,total_fertility,population,continent
Chile,1950,54.8,4.9,6100000,Americas
Chile,nineteen,54.8,4.9,6100000,Americas
,1950,54.8,4.9,6100000,Americas
Peru,1950,abc,4.9,6100000,Americas
Peru,1951,50.1,4.9
Bolivia,1950,NaN,4.9,2700000,Americas
Bolivia,1951,40.2,Inf,2700000,Americas
Bolivia,1952,40.9,4.8,-Inf,Americas
`
	res, err := Read(strings.NewReader(input), DefaultColumns())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(res.Records) != 1 {
		t.Errorf("expected 1 good record, got %d", len(res.Records))
	}
	if len(res.Problems) != 7 {
		t.Fatalf("expected 7 problems, got %d: %v", len(res.Problems), res.Problems)
	}
	for _, p := range res.Problems[4:] {
		if !strings.Contains(p.Error(), "non-finite number") {
			t.Errorf("expected non-finite diagnostic, got %v", p)
		}
	}
	for _, r := range res.Records {
		if math.IsNaN(r.X) || math.IsInf(r.Y, 0) || math.IsInf(r.Size, 0) {
			t.Errorf("non-finite record loaded: %+v", r)
		}
	}

	var die *DataIntegrityError
	if !errors.As(res.Problems[0], &die) {
		t.Fatalf("expected DataIntegrityError, got %T", res.Problems[0])
	}
	if die.Line != 3 {
		t.Errorf("expected line 3, got %d", die.Line)
	}
	if !errors.Is(res.Problems[0], ErrDataIntegrity) {
		t.Error("problem should wrap ErrDataIntegrity")
	}
}

func TestRead_MissingColumn(t *testing.T) {
	_, err := Read(strings.NewReader("country,year\nChile,1950\n"), DefaultColumns())
	if err == nil {
		t.Fatal("expected error for missing column")
	}
}

func TestRead_Empty(t *testing.T) {
	if _, err := Read(strings.NewReader(""), DefaultColumns()); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestRead_CustomColumns(t *testing.T) {
	cols := Columns{Entity: "id", Year: "t", X: "a", Y: "b", Size: "n", Category: "group"}
	input := "t,id,a,b,n,group\n2001,x1,1,2,3,g\n"
	res, err := Read(strings.NewReader(input), cols)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	want := Record{Entity: "x1", Year: 2001, X: 1, Y: 2, Size: 3, Category: "g"}
	if len(res.Records) != 1 || res.Records[0] != want {
		t.Errorf("got %+v, want %+v", res.Records, want)
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	records := Synthesize(SynthOptions{Entities: 4, MinYear: 2000, MaxYear: 2003, Seed: 7})

	path := filepath.Join(t.TempDir(), "data.csv")
	var buf bytes.Buffer
	if err := WriteCSV(&buf, records, DefaultColumns()); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	res, err := Load(path, DefaultColumns())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(res.Records) != len(records) {
		t.Fatalf("expected %d records, got %d", len(records), len(res.Records))
	}
	for i := range records {
		if res.Records[i] != records[i] {
			t.Errorf("record %d: got %+v, want %+v", i, res.Records[i], records[i])
		}
	}
}

func TestValidate(t *testing.T) {
	records := []Record{
		{Entity: "A", Year: 1950},
		{Entity: "A", Year: 1951},
		{Entity: "A", Year: 1950},
		{Entity: "A", Year: 1950},
		{Entity: "B", Year: 1950},
	}
	problems := Validate(records)
	if len(problems) != 1 {
		t.Fatalf("expected 1 duplicate, got %d", len(problems))
	}
	var die *DataIntegrityError
	if !errors.As(problems[0], &die) || die.Entity != "A" || die.Year != 1950 {
		t.Errorf("unexpected problem: %v", problems[0])
	}
}

func TestFrameCache(t *testing.T) {
	records := []Record{
		{Entity: "A", Year: 1950},
		{Entity: "B", Year: 1950},
		{Entity: "A", Year: 1951},
	}
	fc := NewFrameCache(records)

	if got := fc.Frame(1950); len(got) != 2 {
		t.Errorf("expected 2 records for 1950, got %d", len(got))
	}
	if got := fc.Frame(1952); len(got) != 0 {
		t.Errorf("expected empty frame for 1952, got %d", len(got))
	}
	fc.Frame(1950)
	if fc.Len() != 2 {
		t.Errorf("expected 2 cached years, got %d", fc.Len())
	}
}

func TestHelpers(t *testing.T) {
	records := []Record{
		{Entity: "B", Year: 1951, X: 3, Category: "Asia"},
		{Entity: "A", Year: 1950, X: 5, Category: "Europe"},
		{Entity: "A", Year: 1951, X: 1, Category: "Europe"},
	}

	if got := Max(records, func(r Record) float64 { return r.X }); got != 5 {
		t.Errorf("Max = %v, want 5", got)
	}
	if got := Max(nil, func(r Record) float64 { return r.X }); got != 0 {
		t.Errorf("Max(nil) = %v, want 0", got)
	}
	if got := Years(records); len(got) != 2 || got[0] != 1950 {
		t.Errorf("Years = %v", got)
	}
	if got := Entities(records); len(got) != 2 || got[0] != "A" {
		t.Errorf("Entities = %v", got)
	}
	if got := Categories(records); len(got) != 2 || got[1] != "Europe" {
		t.Errorf("Categories = %v", got)
	}
	counts := CountByYear(records, 1950, 1952)
	if len(counts) != 3 || counts[0] != 1 || counts[1] != 2 || counts[2] != 0 {
		t.Errorf("CountByYear = %v", counts)
	}
}

func TestSynthesize(t *testing.T) {
	opts := SynthOptions{Entities: 10, MinYear: 1950, MaxYear: 1960, Seed: 42, Sparse: 0.5}
	a := Synthesize(opts)
	b := Synthesize(opts)

	if len(a) == 0 {
		t.Fatal("expected records")
	}
	if len(a) != len(b) {
		t.Fatalf("not deterministic: %d vs %d records", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("record %d differs between runs", i)
		}
	}
	if problems := Validate(a); len(problems) != 0 {
		t.Errorf("synthetic data has duplicates: %v", problems)
	}
	for _, r := range a {
		if r.Year < 1950 || r.Year > 1960 {
			t.Errorf("year %d out of range", r.Year)
		}
		if r.X <= 0 || r.Y <= 0 || r.Size <= 0 {
			t.Errorf("non-positive indicator in %+v", r)
		}
	}

	if got := Synthesize(SynthOptions{Entities: 0, MinYear: 1950, MaxYear: 1960}); got != nil {
		t.Error("expected nil for zero entities")
	}
}
