package integrators

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/bhsim/internal/dynamo"
)

func BenchmarkEuler(b *testing.B) {
	integrator := NewEuler()
	ps := make([]dynamo.Particle, 10000)
	acc := make([]mgl64.Vec2, len(ps))
	for i := range acc {
		acc[i] = mgl64.Vec2{1, -1}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integrator.Step(ps, acc, 0.01)
	}
}
