package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/trendscatter/internal/automation"
	"github.com/san-kum/trendscatter/internal/config"
	"github.com/san-kum/trendscatter/internal/dataset"
	"github.com/san-kum/trendscatter/internal/engine"
	"github.com/san-kum/trendscatter/internal/export"
	"github.com/san-kum/trendscatter/internal/render"
	"github.com/san-kum/trendscatter/internal/schedule"
	"github.com/san-kum/trendscatter/internal/theme"
	"github.com/san-kum/trendscatter/internal/viz"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configFile string
	runsDir    string
	logFile    string
	verbose    bool
	// watch
	maxTicks int
	// frames
	outFile string
	// sample
	preset   string
	entities int
	seed     int64
)

// main registers the commands and runs the one named on the command line.
// With no subcommand it plays the chart in the terminal.
func main() {
	rootCmd := &cobra.Command{
		Use:   "trendscatter [csv]",
		Short: "time-animated scatterplot of per-entity yearly indicators",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPlay,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&runsDir, "runs", ".trendscatter", "directory for rendered runs")
	pf.StringVar(&logFile, "log", "", "write logs to this file")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.String("data", config.DefaultDataPath, "dataset csv")
	pf.Int("min-year", config.DefaultMinYear, "first year")
	pf.Int("max-year", config.DefaultMaxYear, "last year")
	pf.Int("interval", config.DefaultIntervalMS, "animation interval in milliseconds")
	pf.String("theme", config.DefaultTheme, "color theme")

	playCmd := &cobra.Command{
		Use:   "play [csv]",
		Short: "play the chart in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPlay,
	}
	playCmd.Flags().Bool("autoplay", true, "start playing once loaded")
	rootCmd.Flags().Bool("autoplay", true, "start playing once loaded")

	watchCmd := &cobra.Command{
		Use:   "watch [csv]",
		Short: "play without a terminal UI, printing each year",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runWatch,
	}
	watchCmd.Flags().IntVar(&maxTicks, "ticks", 0, "stop after this many years (0 plays until interrupted)")

	renderCmd := &cobra.Command{
		Use:   "render [csv]",
		Short: "render one SVG per year into a new run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRender,
	}

	framesCmd := &cobra.Command{
		Use:   "frames [csv]",
		Short: "dump every year's points as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runFrames,
	}
	framesCmd.Flags().StringVarP(&outFile, "out", "o", "", "write to file instead of stdout")

	inspectCmd := &cobra.Command{
		Use:   "inspect [csv]",
		Short: "summarize a dataset",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInspect,
	}

	sampleCmd := &cobra.Command{
		Use:   "sample [csv]",
		Short: "write a synthetic dataset",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSample,
	}
	sampleCmd.Flags().StringVar(&preset, "preset", "world", "sample preset")
	sampleCmd.Flags().IntVar(&entities, "entities", 0, "override the preset's entity count")
	sampleCmd.Flags().Int64Var(&seed, "seed", 0, "override the preset's seed")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list sample presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-8s %3d entities  %d-%d\n", name, p.Entities, p.MinYear, p.MaxYear)
			}
		},
	}

	listCmd := &cobra.Command{
		Use:   "runs",
		Short: "list rendered runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a rendered run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	scriptCmd := &cobra.Command{
		Use:   "script [scenario.yaml] [csv]",
		Short: "replay a scripted scenario and check each step",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runScript,
	}

	themesCmd := &cobra.Command{
		Use:   "themes",
		Short: "list color themes",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range theme.Names() {
				fmt.Println(name)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "show or write configuration",
	}
	configCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "print the effective configuration",
			RunE:  showConfig,
		},
		&cobra.Command{
			Use:   "init [path]",
			Short: "write a default config file",
			Args:  cobra.MaximumNArgs(1),
			RunE:  initConfig,
		},
	)

	rootCmd.AddCommand(playCmd, watchCmd, renderCmd, framesCmd, inspectCmd, sampleCmd, presetsCmd, listCmd, plotCmd, scriptCmd, themesCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var flagKeys = map[string]string{
	"data":                  "data",
	"min_year":              "min-year",
	"max_year":              "max-year",
	"animation_interval_ms": "interval",
	"theme":                 "theme",
	"autoplay":              "autoplay",
}

// loadConfig layers, from lowest precedence: defaults, the config file,
// TRENDSCATTER_* variables, flags set on the command line, then the
// positional csv argument.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	v, err := config.NewViper(configFile)
	if err != nil {
		return nil, err
	}
	for key, name := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}
	cfg, err := config.FromViper(v)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if len(args) > 0 {
		cfg.DataPath = args[0]
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, quiet bool) (*slog.Logger, func(), error) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	var w io.Writer = cmd.ErrOrStderr()
	closer := func() {}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, err
		}
		w, closer = f, func() { f.Close() }
	} else if quiet {
		w = io.Discard
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closer, nil
}

func engineConfig(cfg *config.Config, logger *slog.Logger) engine.Config {
	return engine.Config{
		MinYear:  cfg.MinYear,
		MaxYear:  cfg.MaxYear,
		Interval: cfg.Interval(),
		Layout: render.Layout{
			Width:     cfg.PlotWidth(),
			Height:    cfg.PlotHeight(),
			RadiusMax: cfg.Chart.RadiusMax,
		},
		Logger: logger,
	}
}

func loadDataset(cfg *config.Config, logger *slog.Logger) (*dataset.LoadResult, error) {
	res, err := dataset.Load(cfg.DataPath, cfg.Columns)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w (try: trendscatter sample %s)", err, cfg.DataPath)
	}
	if err != nil {
		return nil, err
	}
	for _, p := range res.Problems {
		logger.Warn("skipped row", "component", "dataset", "err", p)
	}
	return res, nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cmd, true)
	if err != nil {
		return err
	}
	defer closeLog()

	opts := viz.Options{
		Title:    "trendscatter · " + cfg.DataPath,
		Theme:    cfg.Theme,
		Autoplay: cfg.Autoplay,
		Logger:   logger,
		Load:     func() (*dataset.LoadResult, error) { return loadDataset(cfg, logger) },
	}
	return viz.Run(engineConfig(cfg, logger), opts)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cmd, false)
	if err != nil {
		return err
	}
	defer closeLog()

	res, err := loadDataset(cfg, logger)
	if err != nil {
		return err
	}

	loop := schedule.NewLoop(16)
	ecfg := engineConfig(cfg, logger)
	ecfg.Clock = schedule.RealClock{}
	ecfg.Dispatch = loop.Dispatch
	eng := engine.New(ecfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	var initErr error
	loop.Post(func() {
		if initErr = eng.Initialize(res.Records); initErr != nil {
			loop.Close()
			return
		}
		eng.Controls.OnChange(func() {
			fmt.Fprintf(out, "label %s (%s)\n", eng.Controls.Label(), eng.Controls.Indicator())
		})
		eng.Store.RegisterComponent(&tickPrinter{eng: eng, out: out, limit: maxTicks, done: func() {
			eng.Scheduler.Stop()
			loop.Close()
		}})
		if initErr = eng.Store.ToggleAnimation(); initErr != nil {
			loop.Close()
		}
	})

	err = loop.Run(ctx)
	eng.Scheduler.Stop()
	if initErr != nil {
		return fmt.Errorf("initialize: %w", initErr)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// tickPrinter reports every broadcast while watching.
type tickPrinter struct {
	eng   *engine.Engine
	out   io.Writer
	limit int
	seen  int
	done  func()
}

func (p *tickPrinter) Update() {
	sel := p.eng.Store.Selection()
	st := p.eng.Renderer.Stats()
	fmt.Fprintf(p.out, "year %d  visible %3d  +%d ~%d -%d\n",
		sel.Year, p.eng.Scene.Len(), st.Entered, st.Updated, st.Exited)
	if p.eng.Scheduler.Ticks() > p.seen {
		p.seen = p.eng.Scheduler.Ticks()
		if p.limit > 0 && p.seen >= p.limit {
			p.done()
		}
	}
}

func sweepFrames(cfg *config.Config, logger *slog.Logger, fn func(*engine.Engine, engine.Frame) error) error {
	res, err := loadDataset(cfg, logger)
	if err != nil {
		return err
	}
	ecfg := engineConfig(cfg, logger)
	ecfg.Clock = schedule.NewFakeClock(time.Unix(0, 0))
	eng := engine.New(ecfg)
	if err := eng.Initialize(res.Records); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	return eng.Sweep(func(f engine.Frame) error { return fn(eng, f) })
}

func runScript(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, args[1:])
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cmd, false)
	if err != nil {
		return err
	}
	defer closeLog()

	res, err := loadDataset(cfg, logger)
	if err != nil {
		return err
	}
	clock := schedule.NewFakeClock(time.Unix(0, 0))
	ecfg := engineConfig(cfg, logger)
	ecfg.Clock = clock
	eng := engine.New(ecfg)
	if err := eng.Initialize(res.Records); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	if sc.Name != "" {
		fmt.Printf("scenario: %s\n", sc.Name)
	}
	err = automation.RunScenario(eng, clock, sc, func(n int, step automation.Step, f engine.Frame) {
		fmt.Printf("%3d %-9s year %d  label %-5s %-7s visible %d\n",
			n, step.Action, f.Year, f.Label, eng.Controls.Indicator(), len(f.Items))
	})
	if err != nil {
		return err
	}
	fmt.Printf("ok: %d steps\n", len(sc.Steps))
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cmd, false)
	if err != nil {
		return err
	}
	defer closeLog()

	var (
		frames []export.Rendered
		opts   *export.SVGOptions
	)
	err = sweepFrames(cfg, logger, func(eng *engine.Engine, f engine.Frame) error {
		if opts == nil {
			opts = &export.SVGOptions{
				Width: cfg.PlotWidth(), Height: cfg.PlotHeight(),
				Top: cfg.Chart.Margin.Top, Right: cfg.Chart.Margin.Right,
				Bottom: cfg.Chart.Margin.Bottom, Left: cfg.Chart.Margin.Left,
				Theme:      theme.Get(cfg.Theme),
				Categories: dataset.Categories(eng.Store.Records()),
			}
		}
		frames = append(frames, export.Rendered{
			Frame: export.NewFrameData(f),
			SVG:   export.FrameToSVG(f, eng.Scene.Axes(), *opts),
		})
		return nil
	})
	if err != nil {
		return err
	}

	st := export.New(runsDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(export.RunMetadata{
		Source:     cfg.DataPath,
		MinYear:    cfg.MinYear,
		MaxYear:    cfg.MaxYear,
		IntervalMS: cfg.IntervalMS,
		Theme:      cfg.Theme,
	}, frames)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	fmt.Printf("rendered %d years\n", len(frames))
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func runFrames(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cmd, false)
	if err != nil {
		return err
	}
	defer closeLog()

	data := export.ExportData{
		Source:     cfg.DataPath,
		MinYear:    cfg.MinYear,
		MaxYear:    cfg.MaxYear,
		IntervalMS: cfg.IntervalMS,
	}
	err = sweepFrames(cfg, logger, func(_ *engine.Engine, f engine.Frame) error {
		data.Frames = append(data.Frames, export.NewFrameData(f))
		return nil
	})
	if err != nil {
		return err
	}
	if outFile != "" {
		return export.ExportJSON(outFile, data)
	}
	return export.WriteJSON(cmd.OutOrStdout(), data)
}

// collectProblems returns the load diagnostics followed by duplicate records,
// leaving res.Problems untouched.
func collectProblems(res *dataset.LoadResult) []error {
	dups := dataset.Validate(res.Records)
	problems := make([]error, 0, len(res.Problems)+len(dups))
	problems = append(problems, res.Problems...)
	return append(problems, dups...)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	res, err := dataset.Load(cfg.DataPath, cfg.Columns)
	if err != nil {
		return err
	}
	records := res.Records

	years := dataset.Years(records)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "file\t%s\n", cfg.DataPath)
	fmt.Fprintf(w, "records\t%d\n", len(records))
	fmt.Fprintf(w, "entities\t%d\n", len(dataset.Entities(records)))
	fmt.Fprintf(w, "categories\t%v\n", dataset.Categories(records))
	if len(years) > 0 {
		fmt.Fprintf(w, "years in data\t%d-%d\n", years[0], years[len(years)-1])
	}
	fmt.Fprintf(w, "configured range\t%d-%d\n", cfg.MinYear, cfg.MaxYear)
	fmt.Fprintf(w, "max %s\t%g\n", cfg.Columns.X, dataset.Max(records, func(r dataset.Record) float64 { return r.X }))
	fmt.Fprintf(w, "max %s\t%g\n", cfg.Columns.Y, dataset.Max(records, func(r dataset.Record) float64 { return r.Y }))
	fmt.Fprintf(w, "max %s\t%g\n", cfg.Columns.Size, dataset.Max(records, func(r dataset.Record) float64 { return r.Size }))
	if err := w.Flush(); err != nil {
		return err
	}

	problems := collectProblems(res)
	if len(problems) > 0 {
		fmt.Printf("\n%d problems:\n", len(problems))
		for _, p := range problems {
			fmt.Printf("  %v\n", p)
		}
	}

	counts := dataset.CountByYear(records, cfg.MinYear, cfg.MaxYear)
	if len(counts) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(counts,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("entities per year, %d-%d", cfg.MinYear, cfg.MaxYear)),
		))
	}
	return nil
}

func runSample(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	opts := config.GetPreset(preset)
	if opts == nil {
		return fmt.Errorf("unknown preset: %s (have %v)", preset, config.ListPresets())
	}
	if entities > 0 {
		opts.Entities = entities
	}
	if seed != 0 {
		opts.Seed = seed
	}

	records := dataset.Synthesize(*opts)
	f, err := os.Create(cfg.DataPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := dataset.WriteCSV(f, records, cfg.Columns); err != nil {
		return fmt.Errorf("write sample: %w", err)
	}
	fmt.Printf("wrote %d records for %d entities to %s\n", len(records), opts.Entities, cfg.DataPath)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := export.New(runsDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tTIME\tYEARS\tFRAMES\tTHEME")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d-%d\t%d\t%s\n",
			run.ID,
			run.Source,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.MinYear,
			run.MaxYear,
			len(run.Files),
			run.Theme,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := export.New(runsDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	points, err := st.LoadPoints(runID)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		return fmt.Errorf("no data to plot")
	}

	years := make([]int, 0, len(points))
	for y := range points {
		years = append(years, y)
	}
	sort.Ints(years)

	counts := make([]float64, len(years))
	spread := make([]float64, len(years))
	for i, y := range years {
		counts[i] = float64(len(points[y]))
		lo, hi := 0.0, 0.0
		for j, p := range points[y] {
			if j == 0 || p.CX < lo {
				lo = p.CX
			}
			if j == 0 || p.CX > hi {
				hi = p.CX
			}
		}
		spread[i] = hi - lo
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("source: %s\n", meta.Source)
	fmt.Printf("years: %d-%d\n\n", years[0], years[len(years)-1])

	for _, series := range []struct {
		caption string
		data    []float64
	}{
		{"visible entities", counts},
		{"horizontal spread (px)", spread},
	} {
		fmt.Println(asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		))
		fmt.Println()
	}
	return nil
}

func showConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "trendscatter.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
