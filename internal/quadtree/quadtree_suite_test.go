package quadtree

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/bhsim/internal/dynamo"
)

func TestQuadtree(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Quadtree Suite")
}

var world = dynamo.Rect{X: 0, Y: 0, W: 800, H: 600}

func randomParticles(rng *rand.Rand, n int, r dynamo.Rect) []dynamo.Particle {
	ps := make([]dynamo.Particle, n)
	for i := range ps {
		ps[i] = dynamo.Particle{
			Pos:  mgl64.Vec2{r.X + rng.Float64()*r.W, r.Y + rng.Float64()*r.H},
			Vel:  mgl64.Vec2{rng.NormFloat64(), rng.NormFloat64()},
			Mass: 1 + rng.Float64()*99,
		}
	}
	return ps
}

func defaultOptions() Options {
	return Options{G: 10, Damping: 1, MaxDepth: dynamo.DefaultMaxDepth}
}
