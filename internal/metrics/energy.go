package metrics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/bhsim/internal/dynamo"
	"github.com/san-kum/bhsim/internal/quadtree"
)

// DefaultPotentialLimit is the largest system for which the O(n²)
// potential energy is computed each frame.
const DefaultPotentialLimit = 2000

func Kinetic(ps []dynamo.Particle) float64 {
	ke := 0.0
	for i := range ps {
		ke += 0.5 * ps[i].Mass * ps[i].Vel.Dot(ps[i].Vel)
	}
	return ke
}

func Momentum(ps []dynamo.Particle) mgl64.Vec2 {
	var p mgl64.Vec2
	for i := range ps {
		p = p.Add(ps[i].Vel.Mul(ps[i].Mass))
	}
	return p
}

// KineticEnergy averages total kinetic energy over observed frames.
type KineticEnergy struct {
	name    string
	total   float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(f *dynamo.Frame) {
	k.total += Kinetic(f.Particles)
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

func (k *KineticEnergy) Reset() {
	k.total = 0
	k.samples = 0
}

// EnergyDrift tracks the largest relative departure of total energy from
// its first observed value. Above limit particles only kinetic energy is
// tracked.
type EnergyDrift struct {
	name          string
	g             float64
	damping       float64
	limit         int
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(g, damping float64, limit int) *EnergyDrift {
	if limit <= 0 {
		limit = DefaultPotentialLimit
	}
	return &EnergyDrift{
		name:    "energy_drift",
		g:       g,
		damping: damping,
		limit:   limit,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Energy(ps []dynamo.Particle) float64 {
	energy := Kinetic(ps)
	if len(ps) <= e.limit {
		energy += quadtree.Potential(ps, e.g, e.damping)
	}
	return energy
}

func (e *EnergyDrift) Observe(f *dynamo.Frame) {
	energy := e.Energy(f.Particles)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// MomentumDrift is the largest |P - P0| seen. Tree forces are not pairwise
// symmetric, so it grows with theta.
type MomentumDrift struct {
	name     string
	initial  mgl64.Vec2
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(f *dynamo.Frame) {
	p := Momentum(f.Particles)
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, p.Sub(m.initial).Len())
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = mgl64.Vec2{}
	m.maxDrift = 0
	m.samples = 0
}
