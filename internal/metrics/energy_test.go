package metrics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/bhsim/internal/dynamo"
)

func frame(ps ...dynamo.Particle) *dynamo.Frame {
	return &dynamo.Frame{Particles: ps}
}

func TestKineticEnergy(t *testing.T) {
	m := NewKineticEnergy()

	m.Observe(frame(dynamo.Particle{Vel: mgl64.Vec2{3, 4}, Mass: 2}))
	m.Observe(frame(dynamo.Particle{Vel: mgl64.Vec2{0, 1}, Mass: 2}))

	if math.Abs(m.Value()-13) > 1e-12 {
		t.Errorf("expected mean energy 13, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift(1, 0, 0)

	a := dynamo.Particle{Pos: mgl64.Vec2{0, 0}, Mass: 2}
	b := dynamo.Particle{Pos: mgl64.Vec2{3, 4}, Mass: 3}

	m.Observe(frame(a, b))
	if m.Value() != 0 {
		t.Errorf("expected no drift on first frame, got %f", m.Value())
	}

	// E0 = -1.2; adding 0.6 of kinetic energy halves it.
	b.Vel = mgl64.Vec2{math.Sqrt(0.4), 0}
	m.Observe(frame(a, b))
	if math.Abs(m.Value()-0.5) > 1e-9 {
		t.Errorf("expected drift 0.5, got %f", m.Value())
	}
}

func TestEnergyDrift_SkipsPotentialAboveLimit(t *testing.T) {
	m := NewEnergyDrift(1, 0, 1)
	ps := []dynamo.Particle{
		{Pos: mgl64.Vec2{0, 0}, Vel: mgl64.Vec2{1, 0}, Mass: 1},
		{Pos: mgl64.Vec2{1, 0}, Mass: 1},
	}
	if got := m.Energy(ps); got != 0.5 {
		t.Errorf("expected kinetic only energy 0.5, got %f", got)
	}
}

func TestMomentumDrift(t *testing.T) {
	m := NewMomentumDrift()

	m.Observe(frame(dynamo.Particle{Vel: mgl64.Vec2{1, 0}, Mass: 2}))
	m.Observe(frame(dynamo.Particle{Vel: mgl64.Vec2{1, 2}, Mass: 2}))
	m.Observe(frame(dynamo.Particle{Vel: mgl64.Vec2{1, 1}, Mass: 2}))

	if math.Abs(m.Value()-4) > 1e-12 {
		t.Errorf("expected max drift 4, got %f", m.Value())
	}
}

func TestTraversalMetrics(t *testing.T) {
	visits := NewNodeVisits()
	dropped := NewDropped()

	ps := make([]dynamo.Particle, 10)
	for _, s := range []dynamo.Stats{{Visits: 100, Dropped: 2}, {Visits: 300, Dropped: 1}} {
		f := &dynamo.Frame{Particles: ps, Stats: s}
		visits.Observe(f)
		dropped.Observe(f)
	}

	if visits.Value() != 20 {
		t.Errorf("expected 20 visits per particle, got %f", visits.Value())
	}
	if dropped.Value() != 2 {
		t.Errorf("expected max dropped 2, got %f", dropped.Value())
	}

	visits.Reset()
	dropped.Reset()
	if visits.Value() != 0 || dropped.Value() != 0 {
		t.Error("expected zero after reset")
	}
}
