package sim_test

import (
	"bytes"
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/particlelife/internal/life"
	"github.com/san-kum/particlelife/internal/logging"
	"github.com/san-kum/particlelife/internal/sim"
)

type countMetric struct {
	count int
}

func (c *countMetric) Name() string                       { return "count" }
func (c *countMetric) Observe(s life.Snapshot, t float64) { c.count++ }
func (c *countMetric) Value() float64                     { return float64(c.count) }
func (c *countMetric) Reset()                             { c.count = 0 }

type speedMetric struct {
	last, sum float64
	n         int
}

func (m *speedMetric) Name() string { return "speed" }
func (m *speedMetric) Observe(s life.Snapshot, t float64) {
	m.last = math.Abs(s[0].VX)
	m.sum += m.last
	m.n++
}
func (m *speedMetric) Value() float64 { return m.sum / float64(m.n) }
func (m *speedMetric) Reset()         { m.sum, m.last, m.n = 0, 0, 0 }
func (m *speedMetric) Last() float64  { return m.last }

func newSim(seed uint64) (*life.Simulation, error) {
	p := life.DefaultParams()
	p.Count = 60
	p.M = 3
	return life.New(p, life.NewSource(seed))
}

func pair(forceFactor, rMax float64) *life.Simulation {
	rules, err := life.RuleMatrixFromRows([][]float64{{1}})
	Expect(err).NotTo(HaveOccurred())
	p := life.DefaultParams()
	p.RMax = rMax
	p.ForceFactor = forceFactor
	s, err := life.NewWithParticles(p, []life.Particle{
		life.NewParticle(0, 0, life.DefaultRadius, 0, 0),
		life.NewParticle(0.5, 0, life.DefaultRadius, 0, 1),
	}, rules)
	Expect(err).NotTo(HaveOccurred())
	return s
}

var _ = Describe("Runner", func() {
	var s *life.Simulation

	BeforeEach(func() {
		var err error
		s, err = newSim(1)
		Expect(err).NotTo(HaveOccurred())
	})

	It("advances one tick per iteration", func() {
		r := sim.New(s)
		res, err := r.Run(context.Background(), 25)

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Ticks).To(Equal(25))
		Expect(s.Tick()).To(Equal(25))
		Expect(res.Times).To(HaveLen(25))
		Expect(res.Times[24]).To(BeNumerically("~", 0.25, 1e-12))
		Expect(res.Final).To(HaveLen(60))
	})

	It("matches stepping the simulation by hand", func() {
		manual, err := newSim(1)
		Expect(err).NotTo(HaveOccurred())
		for i := 0; i < 10; i++ {
			manual.Step()
		}

		res, err := sim.New(s).Run(context.Background(), 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Final).To(Equal(manual.Snapshot()))
	})

	It("records metric values and per-tick series", func() {
		r := sim.New(s)
		count := &countMetric{count: 99}
		speed := &speedMetric{}
		r.AddMetric(count)
		r.AddMetric(speed)

		res, err := r.Run(context.Background(), 10)
		Expect(err).NotTo(HaveOccurred())

		Expect(res.Metrics).To(HaveKeyWithValue("count", 10.0))
		Expect(res.Series["count"]).To(Equal([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}))
		Expect(res.Series["speed"]).To(HaveLen(10))
		Expect(res.Series["speed"][9]).To(Equal(math.Abs(res.Final[0].VX)))
	})

	It("notifies observers after every tick", func() {
		r := sim.New(s)
		var ticks []int
		r.AddObserver(sim.ObserverFunc(func(snap life.Snapshot, tick int, t float64) {
			ticks = append(ticks, tick)
			Expect(snap).To(HaveLen(60))
		}))

		_, err := r.Run(context.Background(), 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(ticks).To(Equal([]int{1, 2, 3}))
	})

	It("does nothing for zero ticks", func() {
		before := s.Snapshot()
		res, err := sim.New(s).Run(context.Background(), 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Ticks).To(BeZero())
		Expect(res.Final).To(Equal(before))
	})

	It("rejects negative tick counts", func() {
		_, err := sim.New(s).Run(context.Background(), -1)
		Expect(errors.Is(err, life.ErrInvalidParams)).To(BeTrue())
	})

	It("stops when the context is canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		r := sim.New(s)
		r.AddObserver(sim.ObserverFunc(func(_ life.Snapshot, tick int, _ float64) {
			if tick == 5 {
				cancel()
			}
		}))

		res, err := r.Run(ctx, 100)
		Expect(errors.Is(err, sim.ErrCanceled)).To(BeTrue())
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		Expect(res.Ticks).To(Equal(5))
	})

	It("reports divergence with the failing tick", func() {
		var buf bytes.Buffer
		r := sim.New(pair(math.MaxFloat64, 2), sim.WithLogger(logging.New("error", &buf)))

		_, err := r.Run(context.Background(), 10)
		Expect(errors.Is(err, sim.ErrDiverged)).To(BeTrue())

		var se *sim.SimError
		Expect(errors.As(err, &se)).To(BeTrue())
		Expect(se.Tick).To(Equal(1))
		Expect(buf.String()).To(ContainSubstring("non-finite"))
	})

	It("skips the divergence check when validation is off", func() {
		_, err := sim.New(pair(math.MaxFloat64, 2), sim.WithValidation(false)).Run(context.Background(), 3)
		Expect(err).NotTo(HaveOccurred())
	})

	It("logs the setup at debug level", func() {
		var buf bytes.Buffer
		_, err := sim.New(s, sim.WithLogger(logging.New("debug", &buf))).Run(context.Background(), 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(ContainSubstring("friction_factor="))
		Expect(buf.String()).To(ContainSubstring("rules[2]"))
	})
})

var _ = Describe("RunWithCallback", func() {
	It("passes the pre-step snapshot and stops on false", func() {
		s, err := newSim(2)
		Expect(err).NotTo(HaveOccurred())

		var seen []int
		err = sim.New(s).RunWithCallback(context.Background(), 0, func(snap life.Snapshot, tick int) bool {
			seen = append(seen, tick)
			return tick < 4
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(seen).To(Equal([]int{0, 1, 2, 3, 4}))
		Expect(s.Tick()).To(Equal(4))
	})

	It("honors a tick limit", func() {
		s, err := newSim(2)
		Expect(err).NotTo(HaveOccurred())

		err = sim.New(s).RunWithCallback(context.Background(), 7, func(life.Snapshot, int) bool { return true })
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Tick()).To(Equal(7))
	})

	It("returns ErrCanceled for a done context", func() {
		s, err := newSim(2)
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err = sim.New(s).RunWithCallback(ctx, 0, func(life.Snapshot, int) bool { return true })
		Expect(errors.Is(err, sim.ErrCanceled)).To(BeTrue())
	})
})

var _ = Describe("Ensemble", func() {
	It("runs one member per seed in seed order", func() {
		seeds := sim.SeedRange(10, 4)
		Expect(seeds).To(Equal([]uint64{10, 11, 12, 13}))

		results, err := sim.NewEnsemble(newSim, seeds).
			WithMetrics(func() []sim.Metric { return []sim.Metric{&countMetric{}} }).
			Run(context.Background(), 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(4))

		for i, res := range results {
			Expect(res.Metrics["count"]).To(Equal(5.0))

			s, err := newSim(seeds[i])
			Expect(err).NotTo(HaveOccurred())
			_, err = sim.New(s).Run(context.Background(), 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Final).To(Equal(s.Snapshot()))
		}
	})

	It("fails when a member cannot be built", func() {
		build := func(seed uint64) (*life.Simulation, error) {
			if seed == 3 {
				return nil, errors.New("boom")
			}
			return newSim(seed)
		}
		_, err := sim.NewEnsemble(build, sim.SeedRange(1, 4)).Run(context.Background(), 1)
		Expect(err).To(MatchError(ContainSubstring("seed 3: boom")))
	})
})

var _ = Describe("SimError", func() {
	It("unwraps to its sentinel", func() {
		err := &sim.SimError{Tick: 3, Time: 0.03, Message: "x", Wrapped: sim.ErrDiverged}
		Expect(err.Error()).To(ContainSubstring("tick 3"))
		Expect(errors.Is(err, sim.ErrDiverged)).To(BeTrue())
	})
})

var _ = Describe("Result", func() {
	It("reports zero throughput without elapsed time", func() {
		Expect((&sim.Result{Ticks: 10}).TicksPerSecond()).To(BeZero())
	})
})
