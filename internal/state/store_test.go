package state_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/trendscatter/internal/dataset"
	"github.com/san-kum/trendscatter/internal/state"
)

type recorder struct {
	name  string
	log   *[]string
	store *state.Store
	seen  []state.Selection
}

func (r *recorder) Update() {
	*r.log = append(*r.log, r.name)
	r.seen = append(r.seen, r.store.Selection())
}

type resizer struct{ resized int }

func (r *resizer) Update() {}
func (r *resizer) Resize() { r.resized++ }

type fakeAnimator struct{ starts, stops int }

func (a *fakeAnimator) Start() { a.starts++ }
func (a *fakeAnimator) Stop()  { a.stops++ }

var records = []dataset.Record{
	{Entity: "A", Year: 1950},
	{Entity: "A", Year: 1951},
}

var _ = Describe("YearRange", func() {
	It("walks cyclically", func() {
		r, err := state.NewYearRange(1950, 2015)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Len()).To(Equal(66))
		Expect(r.Next(1950)).To(Equal(1951))
		Expect(r.Next(2015)).To(Equal(1950))
		Expect(r.Index(1949)).To(Equal(-1))
		Expect(r.Years()).To(HaveLen(66))
	})

	It("rejects inverted bounds", func() {
		_, err := state.NewYearRange(2000, 1999)
		Expect(err).To(MatchError(state.ErrInvalidRange))
	})

	It("supports a single-year range", func() {
		r, _ := state.NewYearRange(2000, 2000)
		Expect(r.Next(2000)).To(Equal(2000))
	})
})

var _ = Describe("Store", func() {
	var (
		store    *state.Store
		order    []string
		first    *recorder
		second   *recorder
		animator *fakeAnimator
	)

	BeforeEach(func() {
		order = nil
		store = state.New(1950, 1952, nil)
		first = &recorder{name: "renderer", log: &order, store: store}
		second = &recorder{name: "controls", log: &order, store: store}
		animator = &fakeAnimator{}
		store.SetAnimator(animator)
		store.RegisterComponent(first)
		store.RegisterComponent(second)
	})

	Describe("Initialize", func() {
		It("selects the first year and starts paused", func() {
			Expect(store.Initialize(records)).To(Succeed())
			Expect(store.Selection()).To(Equal(state.Selection{Year: 1950, Animating: false}))
			Expect(store.Years().Min()).To(Equal(1950))
			Expect(store.Years().Max()).To(Equal(1952))
			Expect(store.Records()).To(HaveLen(2))
			Expect(order).To(BeEmpty())
		})

		It("refuses a second call", func() {
			Expect(store.Initialize(records)).To(Succeed())
			Expect(store.Initialize(records)).To(MatchError(state.ErrDoubleInit))
		})

		It("refuses an empty dataset", func() {
			Expect(store.Initialize(nil)).To(MatchError(state.ErrNoData))
			Expect(store.Initialized()).To(BeFalse())
		})

		It("refuses inverted bounds", func() {
			s := state.New(2000, 1990, nil)
			Expect(s.Initialize(records)).To(MatchError(state.ErrInvalidRange))
		})
	})

	It("rejects operations before Initialize", func() {
		Expect(store.SetYear(1950)).To(MatchError(state.ErrNotInitialized))
		Expect(store.IncrementYear()).To(MatchError(state.ErrNotInitialized))
		Expect(store.ToggleAnimation()).To(MatchError(state.ErrNotInitialized))
		Expect(order).To(BeEmpty())
	})

	Context("once initialized", func() {
		BeforeEach(func() {
			Expect(store.Initialize(records)).To(Succeed())
		})

		It("broadcasts SetYear in registration order", func() {
			Expect(store.SetYear(1951)).To(Succeed())
			Expect(order).To(Equal([]string{"renderer", "controls"}))
			Expect(first.seen[0].Year).To(Equal(1951))
		})

		It("rejects out-of-range years without a broadcast", func() {
			err := store.SetYear(1990)
			Expect(err).To(MatchError(state.ErrInvalidYear))

			var iye *state.InvalidYearError
			Expect(errors.As(err, &iye)).To(BeTrue())
			Expect(iye.Year).To(Equal(1990))

			Expect(store.Selection().Year).To(Equal(1950))
			Expect(order).To(BeEmpty())
		})

		It("increments cyclically", func() {
			Expect(store.IncrementYear()).To(Succeed())
			Expect(store.Selection().Year).To(Equal(1951))
			Expect(store.IncrementYear()).To(Succeed())
			Expect(store.IncrementYear()).To(Succeed())
			Expect(store.Selection().Year).To(Equal(1950))
			Expect(order).To(HaveLen(6))
		})

		It("toggles animation as an involution and always broadcasts", func() {
			Expect(store.ToggleAnimation()).To(Succeed())
			Expect(store.Selection().Animating).To(BeTrue())
			Expect(animator.starts).To(Equal(1))

			Expect(store.ToggleAnimation()).To(Succeed())
			Expect(store.Selection().Animating).To(BeFalse())
			Expect(animator.stops).To(Equal(1))

			Expect(store.Selection().Year).To(Equal(1950))
			Expect(order).To(Equal([]string{"renderer", "controls", "renderer", "controls"}))
			Expect(second.seen[0].Animating).To(BeTrue())
			Expect(second.seen[1].Animating).To(BeFalse())
		})

		It("requires an animator to toggle", func() {
			s := state.New(1950, 1952, nil)
			Expect(s.Initialize(records)).To(Succeed())
			Expect(s.ToggleAnimation()).To(MatchError(state.ErrNoAnimator))
			Expect(s.Selection().Animating).To(BeFalse())
		})

		It("forwards Resize only to resizers", func() {
			r := &resizer{}
			store.RegisterComponent(r)
			store.Resize()
			Expect(r.resized).To(Equal(1))
		})
	})
})
