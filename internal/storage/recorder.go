package storage

import (
	"github.com/san-kum/bhsim/internal/dynamo"
	"github.com/san-kum/bhsim/internal/metrics"
	"github.com/san-kum/bhsim/internal/quadtree"
)

// Recorder is an observer that samples diagnostics every Every steps.
// Potential energy is only computed up to PotentialLimit particles and
// is left at zero above it.
type Recorder struct {
	Every          int
	PotentialLimit int
	G              float64
	Damping        float64

	series []Sample
}

func NewRecorder(params dynamo.Params, every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{
		Every:          every,
		PotentialLimit: metrics.DefaultPotentialLimit,
		G:              params.G,
		Damping:        params.Damping,
	}
}

func (r *Recorder) OnStep(f *dynamo.Frame) {
	if f.Step%r.Every != 0 {
		return
	}

	p := metrics.Momentum(f.Particles)
	s := Sample{
		Time:    f.Time,
		Kinetic: metrics.Kinetic(f.Particles),
		Px:      p[0],
		Py:      p[1],
		Visits:  f.Stats.Visits,
		Nodes:   f.Stats.Nodes,
		Depth:   f.Stats.Depth,
		Dropped: f.Stats.Dropped,
	}
	if len(f.Particles) <= r.PotentialLimit {
		s.Potential = quadtree.Potential(f.Particles, r.G, r.Damping)
	}
	r.series = append(r.series, s)
}

func (r *Recorder) Series() []Sample { return r.series }

func (r *Recorder) Reset() { r.series = r.series[:0] }

// Column extracts one named diagnostics column from series.
func Column(series []Sample, name string) ([]float64, bool) {
	var get func(Sample) float64
	switch name {
	case "time":
		get = func(s Sample) float64 { return s.Time }
	case "kinetic":
		get = func(s Sample) float64 { return s.Kinetic }
	case "potential":
		get = func(s Sample) float64 { return s.Potential }
	case "total":
		get = func(s Sample) float64 { return s.Kinetic + s.Potential }
	case "px":
		get = func(s Sample) float64 { return s.Px }
	case "py":
		get = func(s Sample) float64 { return s.Py }
	case "visits":
		get = func(s Sample) float64 { return float64(s.Visits) }
	case "nodes":
		get = func(s Sample) float64 { return float64(s.Nodes) }
	case "depth":
		get = func(s Sample) float64 { return float64(s.Depth) }
	case "dropped":
		get = func(s Sample) float64 { return float64(s.Dropped) }
	default:
		return nil, false
	}

	out := make([]float64, len(series))
	for i, s := range series {
		out[i] = get(s)
	}
	return out, true
}
