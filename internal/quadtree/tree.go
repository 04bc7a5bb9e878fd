package quadtree

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/bhsim/internal/dynamo"
)

type Options struct {
	G       float64
	Damping float64
	// MaxDepth stops subdivision; remaining particles share one bucket leaf.
	MaxDepth int
	// MaxNodes caps the arena. Zero means unlimited.
	MaxNodes       int
	ClosedBoundary bool
}

func OptionsFrom(p dynamo.Params) Options {
	return Options{
		G:              p.G,
		Damping:        p.Damping,
		MaxDepth:       p.MaxDepth,
		MaxNodes:       p.MaxNodes,
		ClosedBoundary: p.ClosedBoundary,
	}
}

// Tree is a per-step Barnes-Hut quadtree over a particle slice.
type Tree struct {
	opts      Options
	nodes     []Node
	order     []int32
	particles []dynamo.Particle

	depth   int
	buckets int
	dropped int
}

func New(opts Options) *Tree {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = dynamo.DefaultMaxDepth
	}
	return &Tree{opts: opts}
}

func (t *Tree) Options() Options { return t.opts }

// Build discards the previous tree and partitions particles inside bounds.
// Particles are read, never written. The tree keeps a reference to the
// slice, so positions must not change until evaluation is done.
func (t *Tree) Build(particles []dynamo.Particle, bounds dynamo.Rect) error {
	t.nodes = t.nodes[:0]
	t.order = t.order[:0]
	t.particles = particles
	t.depth, t.buckets, t.dropped = 0, 0, 0

	for i := range particles {
		t.order = append(t.order, int32(i))
	}
	t.nodes = append(t.nodes, Node{bounds: boxOf(bounds, t.opts.ClosedBoundary)})

	n, err := t.build(0, 0, int32(len(t.order)), 0)
	if err != nil {
		t.nodes = t.nodes[:0]
		return err
	}
	t.dropped = len(particles) - int(n)
	return nil
}

// build fills node idx from order[lo:hi]. Contained particles are moved to
// the front of the range; their count is returned.
func (t *Tree) build(idx, lo, hi int32, depth int) (int32, error) {
	b := t.nodes[idx].bounds

	k := lo
	mass := 0.0
	var weighted mgl64.Vec2
	for j := lo; j < hi; j++ {
		p := &t.particles[t.order[j]]
		if !b.contains(p.Pos) {
			continue
		}
		t.order[k], t.order[j] = t.order[j], t.order[k]
		k++
		mass += p.Mass
		weighted = weighted.Add(p.Pos.Mul(p.Mass))
	}

	count := k - lo
	depth32 := int32(depth)
	if depth > t.depth {
		t.depth = depth
	}

	switch {
	case count == 0:
		t.nodes[idx] = Node{Kind: Empty, bounds: b, depth: depth32}
		return 0, nil
	case count == 1:
		p := &t.particles[t.order[lo]]
		t.nodes[idx] = Node{Kind: Leaf, Mass: p.Mass, COM: p.Pos, bounds: b, start: lo, end: k, depth: depth32}
		return 1, nil
	}

	n := Node{Mass: mass, bounds: b, depth: depth32}
	if mass > 0 {
		n.COM = weighted.Mul(1 / mass)
	}

	if depth >= t.opts.MaxDepth {
		n.Kind = Leaf
		n.start, n.end = lo, k
		t.nodes[idx] = n
		t.buckets++
		return count, nil
	}

	if t.opts.MaxNodes > 0 && len(t.nodes)+4 > t.opts.MaxNodes {
		return 0, fmt.Errorf("%w: %d nodes at depth %d", dynamo.ErrAllocation, len(t.nodes), depth)
	}

	child := int32(len(t.nodes))
	for _, q := range b.quadrants() {
		t.nodes = append(t.nodes, Node{bounds: q})
	}
	n.Kind = Internal
	n.child = child
	t.nodes[idx] = n

	cur := lo
	for q := int32(0); q < 4; q++ {
		c, err := t.build(child+q, cur, k, depth+1)
		if err != nil {
			return 0, err
		}
		cur += c
	}
	return count, nil
}

func (t *Tree) Len() int { return len(t.nodes) }

func (t *Tree) Root() *Node {
	if len(t.nodes) == 0 {
		return nil
	}
	return &t.nodes[0]
}

// Node returns the arena entry at idx. The pointer is valid until the next Build.
func (t *Tree) Node(idx int32) *Node { return &t.nodes[idx] }

// Occupants returns the particle indices held by a leaf.
func (t *Tree) Occupants(n *Node) []int32 {
	if n.Kind != Leaf {
		return nil
	}
	return t.order[n.start:n.end]
}

func (t *Tree) Depth() int   { return t.depth }
func (t *Tree) Buckets() int { return t.buckets }

// Dropped counts particles outside the root bounds at the last Build.
func (t *Tree) Dropped() int { return t.dropped }

// Walk visits nodes depth first, parents before children. Returning false
// from fn skips that node's subtree.
func (t *Tree) Walk(fn func(idx int32, n *Node) bool) {
	if len(t.nodes) == 0 {
		return
	}
	t.walk(0, fn)
}

func (t *Tree) walk(idx int32, fn func(idx int32, n *Node) bool) {
	n := &t.nodes[idx]
	if !fn(idx, n) {
		return
	}
	if c, ok := n.Children(); ok {
		for _, ci := range c {
			t.walk(ci, fn)
		}
	}
}

func (t *Tree) Stats() dynamo.Stats {
	s := dynamo.Stats{
		Nodes:   len(t.nodes),
		Depth:   t.depth,
		Buckets: t.buckets,
		Dropped: t.dropped,
	}
	if root := t.Root(); root != nil {
		s.RootMass = root.Mass
		s.RootCOM = root.COM
	}
	return s
}
