package sim

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/bhsim/internal/dynamo"
	"github.com/san-kum/bhsim/internal/quadtree"
)

// minChunk keeps tiny systems on the calling goroutine.
const minChunk = 256

// Simulator owns one particle set and advances it one step at a time:
// build tree, evaluate every particle, integrate every particle.
type Simulator struct {
	params     dynamo.Params
	particles  []dynamo.Particle
	tree       *quadtree.Tree
	integrator dynamo.Integrator
	acc        []mgl64.Vec2
	visits     []int
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
	step       int
	t          float64
}

// New takes ownership of particles; callers keep a clone if they need the
// initial conditions.
func New(particles []dynamo.Particle, params dynamo.Params, integ dynamo.Integrator) (*Simulator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if integ == nil {
		return nil, fmt.Errorf("%w: integrator is required", dynamo.ErrParameterBounds)
	}
	return &Simulator{
		params:     params,
		particles:  particles,
		tree:       quadtree.New(quadtree.OptionsFrom(params)),
		integrator: integ,
		acc:        make([]mgl64.Vec2, len(particles)),
		visits:     make([]int, len(particles)),
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
	}, nil
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Params() dynamo.Params { return s.params }
func (s *Simulator) Time() float64         { return s.t }
func (s *Simulator) Steps() int            { return s.step }

// Particles exposes the live particle slice. Treat it as read-only.
func (s *Simulator) Particles() []dynamo.Particle { return s.particles }

// Tree is the tree of the last completed step.
func (s *Simulator) Tree() *quadtree.Tree { return s.tree }

// SetTrace selects the particle whose traversal boxes are reported in
// Frame.Trace. A negative index disables tracing.
func (s *Simulator) SetTrace(i int) { s.params.TraceIndex = i }

// Step advances the simulation by one dt and returns the resulting frame.
func (s *Simulator) Step() (*dynamo.Frame, error) {
	if err := s.tree.Build(s.particles, s.params.Bounds); err != nil {
		return nil, &dynamo.SimulationError{Step: s.step, Time: s.t, Wrapped: err}
	}
	stats := s.tree.Stats()

	if err := s.evaluate(); err != nil {
		return nil, &dynamo.SimulationError{Step: s.step, Time: s.t, Wrapped: err}
	}
	for _, v := range s.visits {
		stats.Visits += v
	}

	trace := s.trace()

	s.integrator.Step(s.particles, s.acc, s.params.Dt)
	s.step++
	s.t += s.params.Dt

	if s.params.ValidateState {
		for i := range s.particles {
			if !s.particles[i].IsValid() {
				return nil, &dynamo.SimulationError{
					Step:    s.step,
					Time:    s.t,
					Wrapped: fmt.Errorf("%w: particle %d", dynamo.ErrInvalidState, i),
				}
			}
		}
	}

	frame := &dynamo.Frame{
		Step:      s.step,
		Time:      s.t,
		Particles: dynamo.Clone(s.particles),
		Trace:     trace,
		Stats:     stats,
	}

	for _, m := range s.metrics {
		m.Observe(frame)
	}
	for _, obs := range s.observers {
		obs.OnStep(frame)
	}

	return frame, nil
}

// evaluate fills s.acc from the frozen tree. Workers write disjoint index
// ranges, so no locking is needed.
func (s *Simulator) evaluate() error {
	theta := s.params.Theta
	work := func(start, end int) error {
		for i := start; i < end; i++ {
			s.acc[i], s.visits[i] = s.tree.Accumulate(i, theta, nil)
		}
		return nil
	}
	return dynamo.ParallelFor(len(s.particles), s.params.Workers, minChunk, work)
}

func (s *Simulator) trace() []dynamo.Rect {
	i := s.params.TraceIndex
	if i < 0 || i >= len(s.particles) {
		return nil
	}
	boxes := make([]dynamo.Rect, 0, 64)
	s.tree.Accumulate(i, s.params.Theta, func(r dynamo.Rect) {
		boxes = append(boxes, r)
	})
	return boxes
}

// Run advances steps times, stopping early if ctx is done between steps.
func (s *Simulator) Run(ctx context.Context, steps int) (*dynamo.Result, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("%w: steps must be positive, got %d", dynamo.ErrParameterBounds, steps)
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result := &dynamo.Result{Metrics: make(map[string]float64)}
	collect := func() {
		result.Steps = s.step
		result.Time = s.t
		result.Final = dynamo.Clone(s.particles)
		for _, m := range s.metrics {
			result.Metrics[m.Name()] = m.Value()
		}
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			collect()
			return result, fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		if _, err := s.Step(); err != nil {
			collect()
			return result, err
		}
	}

	collect()
	return result, nil
}
