package dynamo

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestRect_ContainsHalfOpen(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 10, H: 5}

	tests := []struct {
		name string
		p    mgl64.Vec2
		want bool
	}{
		{"origin", mgl64.Vec2{0, 0}, true},
		{"interior", mgl64.Vec2{4.5, 2.5}, true},
		{"right edge", mgl64.Vec2{10, 2}, false},
		{"bottom edge", mgl64.Vec2{3, 5}, false},
		{"just inside", mgl64.Vec2{math.Nextafter(10, 0), math.Nextafter(5, 0)}, true},
		{"negative", mgl64.Vec2{-0.1, 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestParticle_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		p     Particle
		valid bool
	}{
		{"finite", Particle{Pos: mgl64.Vec2{1, 2}, Vel: mgl64.Vec2{3, 4}, Mass: 1}, true},
		{"nan position", Particle{Pos: mgl64.Vec2{math.NaN(), 0}}, false},
		{"inf velocity", Particle{Vel: mgl64.Vec2{0, math.Inf(-1)}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestParams_Validate(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("default params invalid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(p *Params)
	}{
		{"zero dt", func(p *Params) { p.Dt = 0 }},
		{"nan dt", func(p *Params) { p.Dt = math.NaN() }},
		{"negative theta", func(p *Params) { p.Theta = -0.1 }},
		{"negative damping", func(p *Params) { p.Damping = -1 }},
		{"infinite g", func(p *Params) { p.G = math.Inf(1) }},
		{"flat bounds", func(p *Params) { p.Bounds.H = 0 }},
		{"zero depth", func(p *Params) { p.MaxDepth = 0 }},
		{"deep tree", func(p *Params) { p.MaxDepth = MaxTreeDepth + 1 }},
		{"negative nodes", func(p *Params) { p.MaxNodes = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			if !errors.Is(err, ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

func TestParallelFor_CoversRange(t *testing.T) {
	for _, workers := range []int{1, 2, 3, 8} {
		n := 1003
		hits := make([]int32, n)
		err := ParallelFor(n, workers, 16, func(start, end int) error {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("workers=%d: unexpected error %v", workers, err)
		}
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("workers=%d: index %d visited %d times", workers, i, h)
			}
		}
	}
}

func TestParallelFor_ReturnsChunkError(t *testing.T) {
	boom := errors.New("chunk failed")
	for _, workers := range []int{1, 4} {
		var calls int32
		err := ParallelFor(1000, workers, 16, func(start, end int) error {
			atomic.AddInt32(&calls, 1)
			if start == 0 {
				return boom
			}
			return nil
		})
		if !errors.Is(err, boom) {
			t.Errorf("workers=%d: expected chunk error, got %v", workers, err)
		}
		if calls == 0 {
			t.Errorf("workers=%d: fn never called", workers)
		}
	}
}

func TestSimulationError_Unwrap(t *testing.T) {
	err := &SimulationError{Step: 3, Time: 0.3, Wrapped: ErrInvalidState}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("expected SimulationError to unwrap to ErrInvalidState")
	}
	if err.Error() != ErrInvalidState.Error() {
		t.Errorf("unexpected message %q", err.Error())
	}
}
