package sim

import (
	"time"

	"github.com/san-kum/particlelife/internal/life"
)

// Metric accumulates a scalar over the ticks of a run.
type Metric interface {
	Name() string
	Observe(s life.Snapshot, t float64)
	Value() float64
	Reset()
}

// Sampler is implemented by metrics that can report their most recent
// observation. The runner records it as the per-tick series; other metrics
// contribute their running Value.
type Sampler interface {
	Last() float64
}

// Observer sees the population after every tick. The snapshot is reused
// between calls; clone it to keep it.
type Observer interface {
	OnStep(s life.Snapshot, tick int, t float64)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(s life.Snapshot, tick int, t float64)

func (f ObserverFunc) OnStep(s life.Snapshot, tick int, t float64) { f(s, tick, t) }

type Result struct {
	Ticks   int
	Times   []float64
	Series  map[string][]float64
	Metrics map[string]float64
	Final   life.Snapshot
	Elapsed time.Duration
}

// TicksPerSecond is the measured stepping throughput.
func (r *Result) TicksPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Ticks) / r.Elapsed.Seconds()
}
