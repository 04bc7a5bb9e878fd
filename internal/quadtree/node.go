package quadtree

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/bhsim/internal/dynamo"
)

type Kind uint8

const (
	Empty Kind = iota
	Leaf
	Internal
)

func (k Kind) String() string {
	switch k {
	case Leaf:
		return "leaf"
	case Internal:
		return "internal"
	default:
		return "empty"
	}
}

// Quadrant order of an internal node's children.
const (
	TopLeft = iota
	TopRight
	BottomLeft
	BottomRight
)

// box stores edges rather than origin+size so that siblings share the
// exact same split coordinate.
type box struct {
	x0, y0, x1, y1 float64
	// closed right/bottom edge, set only along the root's outer boundary
	cx, cy bool
}

func boxOf(r dynamo.Rect, closed bool) box {
	return box{x0: r.X, y0: r.Y, x1: r.X + r.W, y1: r.Y + r.H, cx: closed, cy: closed}
}

func (b box) contains(p mgl64.Vec2) bool {
	inX := p[0] >= b.x0 && (p[0] < b.x1 || (b.cx && p[0] == b.x1))
	inY := p[1] >= b.y0 && (p[1] < b.y1 || (b.cy && p[1] == b.y1))
	return inX && inY
}

func (b box) quadrants() [4]box {
	mx := b.x0 + (b.x1-b.x0)*0.5
	my := b.y0 + (b.y1-b.y0)*0.5
	return [4]box{
		TopLeft:     {x0: b.x0, y0: b.y0, x1: mx, y1: my},
		TopRight:    {x0: mx, y0: b.y0, x1: b.x1, y1: my, cx: b.cx},
		BottomLeft:  {x0: b.x0, y0: my, x1: mx, y1: b.y1, cy: b.cy},
		BottomRight: {x0: mx, y0: my, x1: b.x1, y1: b.y1, cx: b.cx, cy: b.cy},
	}
}

func (b box) rect() dynamo.Rect {
	return dynamo.Rect{X: b.x0, Y: b.y0, W: b.x1 - b.x0, H: b.y1 - b.y0}
}

// Node is one arena entry.
type Node struct {
	Kind Kind
	Mass float64
	// COM is only meaningful when Mass > 0.
	COM mgl64.Vec2

	bounds box
	child  int32
	start  int32
	end    int32
	depth  int32
}

func (n *Node) Bounds() dynamo.Rect { return n.bounds.rect() }
func (n *Node) Width() float64      { return n.bounds.x1 - n.bounds.x0 }
func (n *Node) Depth() int          { return int(n.depth) }

// Count is the number of particles held by a leaf.
func (n *Node) Count() int {
	if n.Kind != Leaf {
		return 0
	}
	return int(n.end - n.start)
}

// IsBucket reports a leaf created by the depth guard.
func (n *Node) IsBucket() bool { return n.Kind == Leaf && n.end-n.start > 1 }

// Children returns the arena indices of an internal node's quadrants.
func (n *Node) Children() (c [4]int32, ok bool) {
	if n.Kind != Internal {
		return c, false
	}
	for q := range c {
		c[q] = n.child + int32(q)
	}
	return c, true
}
