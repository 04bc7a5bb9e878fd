package quadtree

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/bhsim/internal/dynamo"
)

var _ = Describe("Tree.Build", func() {
	var tree *Tree

	BeforeEach(func() {
		tree = New(defaultOptions())
	})

	It("returns an empty root for no particles", func() {
		Expect(tree.Build(nil, world)).To(Succeed())
		root := tree.Root()
		Expect(root.Kind).To(Equal(Empty))
		Expect(root.Mass).To(BeZero())
		Expect(tree.Len()).To(Equal(1))
	})

	It("makes a single particle a leaf at its own position", func() {
		ps := []dynamo.Particle{{Pos: mgl64.Vec2{10, 20}, Mass: 5}}
		Expect(tree.Build(ps, world)).To(Succeed())
		root := tree.Root()
		Expect(root.Kind).To(Equal(Leaf))
		Expect(root.Mass).To(Equal(5.0))
		Expect(root.COM).To(Equal(mgl64.Vec2{10, 20}))
		Expect(tree.Occupants(root)).To(ConsistOf(int32(0)))
	})

	It("does not modify particles", func() {
		ps := randomParticles(rand.New(rand.NewSource(1)), 200, world)
		before := dynamo.Clone(ps)
		Expect(tree.Build(ps, world)).To(Succeed())
		Expect(ps).To(Equal(before))
	})

	It("tiles internal nodes into four equal quadrants", func() {
		ps := randomParticles(rand.New(rand.NewSource(2)), 300, world)
		Expect(tree.Build(ps, world)).To(Succeed())

		tree.Walk(func(idx int32, n *Node) bool {
			c, ok := n.Children()
			if !ok {
				return true
			}
			b := n.Bounds()
			tl, tr, bl, br := tree.Node(c[0]).Bounds(), tree.Node(c[1]).Bounds(), tree.Node(c[2]).Bounds(), tree.Node(c[3]).Bounds()
			Expect(tl.X).To(Equal(b.X))
			Expect(tl.Y).To(Equal(b.Y))
			Expect(tr.X).To(BeNumerically("~", tl.X+tl.W, 1e-9))
			Expect(bl.Y).To(BeNumerically("~", tl.Y+tl.H, 1e-9))
			Expect(br.X).To(Equal(tr.X))
			Expect(br.Y).To(Equal(bl.Y))
			Expect(tl.W*tl.H + tr.W*tr.H + bl.W*bl.H + br.W*br.H).To(BeNumerically("~", b.W*b.H, 1e-9*b.W*b.H))
			return true
		})
	})

	DescribeTable("conserves mass",
		func(n int, seed int64) {
			ps := randomParticles(rand.New(rand.NewSource(seed)), n, world)
			Expect(tree.Build(ps, world)).To(Succeed())

			total := dynamo.TotalMass(ps)
			Expect(tree.Root().Mass).To(BeNumerically("~", total, 1e-9*total))

			tree.Walk(func(idx int32, node *Node) bool {
				c, ok := node.Children()
				if !ok {
					return true
				}
				sum := 0.0
				for _, ci := range c {
					sum += tree.Node(ci).Mass
				}
				Expect(node.Mass).To(BeNumerically("~", sum, 1e-9*node.Mass))
				return true
			})
		},
		Entry("10 particles", 10, int64(3)),
		Entry("100 particles", 100, int64(4)),
		Entry("10000 particles", 10000, int64(5)),
	)

	DescribeTable("places the root center of mass at the weighted mean",
		func(n int, seed int64) {
			ps := randomParticles(rand.New(rand.NewSource(seed)), n, world)
			Expect(tree.Build(ps, world)).To(Succeed())

			var weighted mgl64.Vec2
			for _, p := range ps {
				weighted = weighted.Add(p.Pos.Mul(p.Mass))
			}
			want := weighted.Mul(1 / dynamo.TotalMass(ps))
			got := tree.Root().COM
			Expect(got.Sub(want).Len() / want.Len()).To(BeNumerically("<", 1e-4))
		},
		Entry("10 particles", 10, int64(6)),
		Entry("100 particles", 100, int64(7)),
		Entry("10000 particles", 10000, int64(8)),
	)

	It("puts every in-bounds particle in exactly one leaf", func() {
		ps := randomParticles(rand.New(rand.NewSource(9)), 2000, world)
		ps = append(ps,
			dynamo.Particle{Pos: mgl64.Vec2{800, 100}, Mass: 1},
			dynamo.Particle{Pos: mgl64.Vec2{100, 600}, Mass: 1},
		)
		Expect(tree.Build(ps, world)).To(Succeed())

		seen := make([]int, len(ps))
		tree.Walk(func(idx int32, n *Node) bool {
			for _, j := range tree.Occupants(n) {
				seen[j]++
			}
			return true
		})

		for i := 0; i < 2000; i++ {
			Expect(seen[i]).To(Equal(1), "particle %d", i)
		}
		Expect(seen[2000]).To(BeZero())
		Expect(seen[2001]).To(BeZero())
		Expect(tree.Dropped()).To(Equal(2))
	})

	It("keeps empty regions free of NaN", func() {
		ps := []dynamo.Particle{
			{Pos: mgl64.Vec2{1, 1}, Mass: 3},
			{Pos: mgl64.Vec2{2, 2}, Mass: 4},
		}
		Expect(tree.Build(ps, world)).To(Succeed())

		empties := 0
		tree.Walk(func(idx int32, n *Node) bool {
			Expect(math.IsNaN(n.COM[0]) || math.IsNaN(n.COM[1])).To(BeFalse())
			if n.Kind == Empty {
				empties++
				Expect(n.Mass).To(BeZero())
				Expect(n.COM).To(Equal(mgl64.Vec2{}))
			}
			return true
		})
		Expect(empties).To(BeNumerically(">", 0))
	})

	It("buckets coincident particles at the depth limit", func() {
		ps := make([]dynamo.Particle, 5)
		for i := range ps {
			ps[i] = dynamo.Particle{Pos: mgl64.Vec2{123.25, 77.5}, Mass: 2}
		}
		ps = append(ps, dynamo.Particle{Pos: mgl64.Vec2{600, 400}, Mass: 1})

		tree = New(Options{G: 1, Damping: 0, MaxDepth: 12})
		Expect(tree.Build(ps, world)).To(Succeed())
		Expect(tree.Buckets()).To(Equal(1))
		Expect(tree.Depth()).To(BeNumerically("<=", 12))

		var bucket *Node
		tree.Walk(func(idx int32, n *Node) bool {
			if n.IsBucket() {
				bucket = n
			}
			return true
		})
		Expect(bucket).NotTo(BeNil())
		Expect(bucket.Count()).To(Equal(5))
		Expect(bucket.Mass).To(Equal(10.0))
	})

	It("drops particles on the outer edge unless the boundary is closed", func() {
		ps := []dynamo.Particle{
			{Pos: mgl64.Vec2{800, 600}, Mass: 1},
			{Pos: mgl64.Vec2{800, 10}, Mass: 1},
			{Pos: mgl64.Vec2{400, 300}, Mass: 1},
		}
		Expect(tree.Build(ps, world)).To(Succeed())
		Expect(tree.Dropped()).To(Equal(2))
		Expect(tree.Root().Mass).To(Equal(1.0))

		opts := defaultOptions()
		opts.ClosedBoundary = true
		closed := New(opts)
		Expect(closed.Build(ps, world)).To(Succeed())
		Expect(closed.Dropped()).To(BeZero())
		Expect(closed.Root().Mass).To(Equal(3.0))

		leaves := 0
		closed.Walk(func(idx int32, n *Node) bool {
			leaves += n.Count()
			return true
		})
		Expect(leaves).To(Equal(3))
	})

	It("fails with ErrAllocation when the node budget is exhausted", func() {
		opts := defaultOptions()
		opts.MaxNodes = 9
		tree = New(opts)
		ps := randomParticles(rand.New(rand.NewSource(10)), 100, world)
		err := tree.Build(ps, world)
		Expect(err).To(MatchError(dynamo.ErrAllocation))
		Expect(tree.Root()).To(BeNil())
	})

	It("reuses its arena across builds", func() {
		rng := rand.New(rand.NewSource(11))
		Expect(tree.Build(randomParticles(rng, 1000, world), world)).To(Succeed())
		big := tree.Len()

		small := randomParticles(rng, 3, world)
		Expect(tree.Build(small, world)).To(Succeed())
		Expect(tree.Len()).To(BeNumerically("<", big))
		Expect(tree.Root().Mass).To(BeNumerically("~", dynamo.TotalMass(small), 1e-12))
	})
})
