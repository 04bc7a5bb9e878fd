package experiment

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/san-kum/bhsim/internal/config"
	"github.com/san-kum/bhsim/internal/dynamo"
	"github.com/san-kum/bhsim/internal/sim"
)

const DefaultIntegrator = "euler"

// Experiment is one seeded run described by a config.
type Experiment struct {
	cfg        config.Config
	simulator  *sim.Simulator
	initial    []dynamo.Particle
	randSource *rand.Rand
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{
		cfg:        *cfg,
		randSource: rand.New(rand.NewSource(cfg.Seed)),
	}
}

func (e *Experiment) Config() config.Config { return e.cfg }

// Setup generates the initial particles and wires a simulator with the
// registry's integrator and metrics.
func (e *Experiment) Setup(reg *Registry, metrics []dynamo.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	gen, err := reg.GetGenerator(e.cfg.Generator)
	if err != nil {
		return err
	}
	integ, err := reg.GetIntegrator(DefaultIntegrator)
	if err != nil {
		return err
	}

	params := e.cfg.Params()
	e.initial = gen(e.cfg.Particles, params.Bounds, params.G, e.randSource)

	s, err := sim.New(dynamo.Clone(e.initial), params, integ)
	if err != nil {
		return err
	}
	for _, m := range metrics {
		s.AddMetric(m)
	}
	e.simulator = s
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.cfg.Steps)
}

// Initial returns the generated starting particles.
func (e *Experiment) Initial() []dynamo.Particle { return e.initial }

// GetSimulator returns the underlying simulator for adding observers.
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}
