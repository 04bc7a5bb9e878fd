package integrators

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/bhsim/internal/dynamo"
)

// Euler applies the accumulated acceleration to velocity, then advances
// position with the updated velocity.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(ps []dynamo.Particle, acc []mgl64.Vec2, dt float64) {
	for i := range ps {
		p := &ps[i]
		p.Vel = p.Vel.Add(acc[i].Mul(dt))
		p.Pos = p.Pos.Add(p.Vel.Mul(dt))
	}
}
