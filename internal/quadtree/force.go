package quadtree

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/bhsim/internal/dynamo"
)

// Accumulate returns the acceleration on particle i and the number of nodes
// visited. visit, when non-nil, receives the bounds of every node treated as
// a single mass; it never affects the result.
func (t *Tree) Accumulate(i int, theta float64, visit func(dynamo.Rect)) (mgl64.Vec2, int) {
	var acc mgl64.Vec2
	if len(t.nodes) == 0 {
		return acc, 0
	}
	visits := t.accumulate(0, i, t.particles[i].Pos, theta, visit, &acc)
	return acc, visits
}

func (t *Tree) accumulate(idx int32, i int, p mgl64.Vec2, theta float64, visit func(dynamo.Rect), acc *mgl64.Vec2) int {
	n := &t.nodes[idx]
	if n.Kind == Empty || n.Mass == 0 {
		return 1
	}

	dApprox := math.Abs(n.COM[0]-p[0]) + math.Abs(n.COM[1]-p[1])
	if dApprox == 0 {
		return 1
	}

	if n.Kind == Internal && n.Width()/dApprox > theta {
		visits := 1
		for q := int32(0); q < 4; q++ {
			visits += t.accumulate(n.child+q, i, p, theta, visit, acc)
		}
		return visits
	}

	if visit != nil {
		visit(n.Bounds())
	}

	if n.IsBucket() && t.holds(n, i) {
		for _, j := range t.order[n.start:n.end] {
			if int(j) == i {
				continue
			}
			o := &t.particles[j]
			*acc = acc.Add(Pull(p, o.Pos, o.Mass, t.opts.G, t.opts.Damping))
		}
		return 1
	}

	*acc = acc.Add(Pull(p, n.COM, n.Mass, t.opts.G, t.opts.Damping))
	return 1
}

func (t *Tree) holds(n *Node, i int) bool {
	for _, j := range t.order[n.start:n.end] {
		if int(j) == i {
			return true
		}
	}
	return false
}

// Pull is the softened acceleration at p toward a mass m at q:
// G*m/(d²+damping) along the unit vector p→q. Points at zero Manhattan
// distance exert nothing.
func Pull(p, q mgl64.Vec2, m, g, damping float64) mgl64.Vec2 {
	dx, dy := q[0]-p[0], q[1]-p[1]
	if math.Abs(dx)+math.Abs(dy) == 0 {
		return mgl64.Vec2{}
	}
	d2 := dx*dx + dy*dy
	s := g * m / (d2 + damping) / math.Sqrt(d2)
	return mgl64.Vec2{dx * s, dy * s}
}

// Direct sums Pull over every other particle. It is the O(n) per particle
// reference the tree converges to at theta = 0.
func Direct(ps []dynamo.Particle, i int, g, damping float64) mgl64.Vec2 {
	var acc mgl64.Vec2
	p := ps[i].Pos
	for j := range ps {
		if j == i {
			continue
		}
		acc = acc.Add(Pull(p, ps[j].Pos, ps[j].Mass, g, damping))
	}
	return acc
}

// Potential is the softened pairwise potential energy, -G*mi*mj/sqrt(d²+damping).
func Potential(ps []dynamo.Particle, g, damping float64) float64 {
	pe := 0.0
	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			d := ps[j].Pos.Sub(ps[i].Pos)
			r := math.Sqrt(d.Dot(d) + damping)
			if r == 0 {
				continue
			}
			pe -= g * ps[i].Mass * ps[j].Mass / r
		}
	}
	return pe
}
