package metrics

import (
	"github.com/san-kum/bhsim/internal/dynamo"
)

// NodeVisits is the mean number of nodes a single particle's traversal
// touches per step.
type NodeVisits struct {
	name      string
	visits    int
	particles int
}

func NewNodeVisits() *NodeVisits {
	return &NodeVisits{name: "node_visits"}
}

func (n *NodeVisits) Name() string {
	return n.name
}

func (n *NodeVisits) Observe(f *dynamo.Frame) {
	n.visits += f.Stats.Visits
	n.particles += len(f.Particles)
}

func (n *NodeVisits) Value() float64 {
	if n.particles == 0 {
		return 0
	}
	return float64(n.visits) / float64(n.particles)
}

func (n *NodeVisits) Reset() {
	n.visits = 0
	n.particles = 0
}

// Dropped is the most particles found outside the world bounds in any step.
type Dropped struct {
	name string
	max  int
}

func NewDropped() *Dropped {
	return &Dropped{name: "dropped"}
}

func (d *Dropped) Name() string {
	return d.name
}

func (d *Dropped) Observe(f *dynamo.Frame) {
	d.max = max(d.max, f.Stats.Dropped)
}

func (d *Dropped) Value() float64 {
	return float64(d.max)
}

func (d *Dropped) Reset() {
	d.max = 0
}
