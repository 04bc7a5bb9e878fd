package dynamo

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Particle is a point mass. Velocity is written by force evaluation,
// position by the integrator.
type Particle struct {
	Pos  mgl64.Vec2
	Vel  mgl64.Vec2
	Mass float64
}

func (p Particle) IsValid() bool {
	for _, v := range [...]float64{p.Pos[0], p.Pos[1], p.Vel[0], p.Vel[1]} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Speed returns |vx|+|vy|, the measure the renderer maps to color.
func (p Particle) Speed() float64 {
	return math.Abs(p.Vel[0]) + math.Abs(p.Vel[1])
}

func Clone(ps []Particle) []Particle {
	c := make([]Particle, len(ps))
	copy(c, ps)
	return c
}

func TotalMass(ps []Particle) float64 {
	m := 0.0
	for i := range ps {
		m += ps[i].Mass
	}
	return m
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	W float64 `yaml:"w" json:"w"`
	H float64 `yaml:"h" json:"h"`
}

// Contains reports whether p lies in [X, X+W) x [Y, Y+H).
func (r Rect) Contains(p mgl64.Vec2) bool {
	return p[0] >= r.X && p[0] < r.X+r.W && p[1] >= r.Y && p[1] < r.Y+r.H
}

func (r Rect) Center() mgl64.Vec2 {
	return mgl64.Vec2{r.X + r.W/2, r.Y + r.H/2}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%.2f,%.2f %.2fx%.2f)", r.X, r.Y, r.W, r.H)
}

// Params holds every tunable of a simulation. It replaces free-standing
// globals so several simulations can run side by side.
type Params struct {
	Dt      float64
	G       float64
	Theta   float64
	Damping float64
	Bounds  Rect

	// MaxDepth bounds tree recursion; deeper particle groups become one bucket.
	MaxDepth int
	// MaxNodes caps the node arena. Zero means unlimited.
	MaxNodes int
	// ClosedBoundary keeps particles lying exactly on the right or bottom
	// edge of Bounds instead of dropping them.
	ClosedBoundary bool

	Workers       int
	TraceIndex    int
	ValidateState bool
}

const (
	DefaultMaxDepth = 32
	MaxTreeDepth    = 64
)

// DefaultParams mirrors the galaxy demo: an 800x600 world with a heavy core.
func DefaultParams() Params {
	return Params{
		Dt:            0.00005,
		G:             10,
		Theta:         0.6,
		Damping:       1,
		Bounds:        Rect{X: 0, Y: 0, W: 800, H: 600},
		MaxDepth:      DefaultMaxDepth,
		Workers:       1,
		TraceIndex:    -1,
		ValidateState: true,
	}
}

func (p Params) Validate() error {
	switch {
	case !(p.Dt > 0) || math.IsInf(p.Dt, 0):
		return fmt.Errorf("%w: dt must be positive, got %g", ErrParameterBounds, p.Dt)
	case math.IsNaN(p.G) || math.IsInf(p.G, 0):
		return fmt.Errorf("%w: g must be finite, got %g", ErrParameterBounds, p.G)
	case !(p.Theta >= 0):
		return fmt.Errorf("%w: theta must be non-negative, got %g", ErrParameterBounds, p.Theta)
	case !(p.Damping >= 0):
		return fmt.Errorf("%w: damping must be non-negative, got %g", ErrParameterBounds, p.Damping)
	case !(p.Bounds.W > 0) || !(p.Bounds.H > 0):
		return fmt.Errorf("%w: bounds must have positive size, got %s", ErrParameterBounds, p.Bounds)
	case p.MaxDepth < 1 || p.MaxDepth > MaxTreeDepth:
		return fmt.Errorf("%w: max depth must be in [1, %d], got %d", ErrParameterBounds, MaxTreeDepth, p.MaxDepth)
	case p.MaxNodes < 0:
		return fmt.Errorf("%w: max nodes must be non-negative, got %d", ErrParameterBounds, p.MaxNodes)
	case p.Workers < 0:
		return fmt.Errorf("%w: workers must be non-negative, got %d", ErrParameterBounds, p.Workers)
	}
	return nil
}

// Stats describes one step's tree and traversal.
type Stats struct {
	Nodes    int
	Depth    int
	Buckets  int
	Dropped  int
	Visits   int
	RootMass float64
	RootCOM  mgl64.Vec2
}

// Frame is the snapshot observers receive after each step.
type Frame struct {
	Step      int
	Time      float64
	Particles []Particle
	// Trace lists the boxes at which traversal for Params.TraceIndex
	// stopped and used an aggregate mass.
	Trace []Rect
	Stats Stats
}

type Integrator interface {
	Name() string
	Step(ps []Particle, acc []mgl64.Vec2, dt float64)
}

type Metric interface {
	Name() string
	Observe(f *Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(f *Frame)
}

type Result struct {
	Steps   int
	Time    float64
	Metrics map[string]float64
	Final   []Particle
}
