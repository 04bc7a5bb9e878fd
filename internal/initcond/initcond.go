// Package initcond generates seeded starting particle sets.
package initcond

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/bhsim/internal/dynamo"
)

// Generator builds n particles inside bounds. g is the gravitational
// constant the run will use, for generators that start on orbits.
type Generator func(n int, bounds dynamo.Rect, g float64, rng *rand.Rand) []dynamo.Particle

const (
	CoreMass   = 2e9
	DiskInner  = 20
	DiskOuter  = 200
	DiskSpin   = 10000
	MinMass    = 1e4
	MaxMass    = 1e7
	RingsInner = 0.1
)

var generators = map[string]Generator{
	"galaxy":    Galaxy,
	"uniform":   Uniform,
	"twobody":   TwoBody,
	"rings":     Rings,
	"collision": Collision,
}

func Get(name string) (Generator, error) {
	g, ok := generators[name]
	if !ok {
		return nil, fmt.Errorf("unknown generator: %s", name)
	}
	return g, nil
}

func Names() []string {
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Galaxy is the classic demo: a heavy core at the center of bounds and a
// disk of massive particles spinning around it.
func Galaxy(n int, bounds dynamo.Rect, g float64, rng *rand.Rand) []dynamo.Particle {
	ps := make([]dynamo.Particle, n)
	disk(ps, bounds.Center(), 1, rng)
	if n > 0 {
		ps[0] = dynamo.Particle{Pos: bounds.Center(), Mass: CoreMass}
	}
	return ps
}

// disk fills ps with particles on integer radii in [DiskInner, DiskOuter)
// scaled by scale, spinning clockwise in screen coordinates.
func disk(ps []dynamo.Particle, c mgl64.Vec2, scale float64, rng *rand.Rand) {
	for i := range ps {
		r := float64(DiskInner+rng.Intn(DiskOuter-DiskInner)) * scale
		angle := rng.Float64() * 2 * math.Pi
		pos := mgl64.Vec2{c[0] + r*math.Cos(angle), c[1] + r*math.Sin(angle)}
		ps[i] = dynamo.Particle{
			Pos: pos,
			Vel: mgl64.Vec2{
				(pos[1] - c[1]) * DiskSpin / r,
				-(pos[0] - c[0]) * DiskSpin / r,
			},
			Mass: MinMass + rng.Float64()*(MaxMass-MinMass),
		}
	}
}

// Uniform scatters particles at rest over the whole of bounds.
func Uniform(n int, bounds dynamo.Rect, g float64, rng *rand.Rand) []dynamo.Particle {
	ps := make([]dynamo.Particle, n)
	for i := range ps {
		ps[i] = dynamo.Particle{
			Pos:  mgl64.Vec2{bounds.X + rng.Float64()*bounds.W, bounds.Y + rng.Float64()*bounds.H},
			Mass: 1 + rng.Float64()*99,
		}
	}
	return ps
}

// TwoBody places a light body on a circular orbit around a heavy one.
// n is ignored beyond two.
func TwoBody(n int, bounds dynamo.Rect, g float64, rng *rand.Rand) []dynamo.Particle {
	const (
		heavy = 1e6
		light = 1
	)
	c := bounds.Center()
	r := math.Min(bounds.W, bounds.H) / 4
	v := math.Sqrt(g * heavy / r)
	return []dynamo.Particle{
		{Pos: c, Mass: heavy},
		{Pos: mgl64.Vec2{c[0] + r, c[1]}, Vel: mgl64.Vec2{0, v}, Mass: light},
	}
}

// Rings puts light test particles on circular orbits around a central mass,
// radii spread evenly out to a third of the smaller side of bounds.
func Rings(n int, bounds dynamo.Rect, g float64, rng *rand.Rand) []dynamo.Particle {
	ps := make([]dynamo.Particle, n)
	if n == 0 {
		return ps
	}
	c := bounds.Center()
	extent := math.Min(bounds.W, bounds.H) / 3
	ps[0] = dynamo.Particle{Pos: c, Mass: CoreMass}

	for i := 1; i < n; i++ {
		d := extent * (RingsInner + (1-RingsInner)*float64(i)/float64(n))
		v := math.Sqrt(g * CoreMass / d)
		theta := rng.Float64() * 2 * math.Pi
		ps[i] = dynamo.Particle{
			Pos:  mgl64.Vec2{c[0] + d*math.Cos(theta), c[1] + d*math.Sin(theta)},
			Vel:  mgl64.Vec2{-v * math.Sin(theta), v * math.Cos(theta)},
			Mass: 1,
		}
	}
	return ps
}

// Collision sends two half-size galaxies at each other along the x axis.
func Collision(n int, bounds dynamo.Rect, g float64, rng *rand.Rand) []dynamo.Particle {
	ps := make([]dynamo.Particle, n)
	if n == 0 {
		return ps
	}
	c := bounds.Center()
	offset := bounds.W / 4
	approach := math.Sqrt(g*CoreMass/(2*offset)) / 2

	half := n / 2
	for k, part := range [2][]dynamo.Particle{ps[:half], ps[half:]} {
		sign := float64(1 - 2*k)
		center := mgl64.Vec2{c[0] - sign*offset, c[1]}
		disk(part, center, 0.5, rng)
		for i := range part {
			part[i].Vel[0] += sign * approach
		}
		if len(part) > 0 {
			part[0] = dynamo.Particle{Pos: center, Vel: mgl64.Vec2{sign * approach, 0}, Mass: CoreMass}
		}
	}
	return ps
}
