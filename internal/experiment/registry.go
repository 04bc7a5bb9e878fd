package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/bhsim/internal/dynamo"
	"github.com/san-kum/bhsim/internal/initcond"
	"github.com/san-kum/bhsim/internal/integrators"
	"github.com/san-kum/bhsim/internal/metrics"
)

type Registry struct {
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }

	return r
}

func (r *Registry) GetGenerator(name string) (initcond.Generator, error) {
	return initcond.Get(name)
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListGenerators() []string {
	return initcond.Names()
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(params dynamo.Params) []dynamo.Metric {
	return []dynamo.Metric{
		metrics.NewKineticEnergy(),
		metrics.NewEnergyDrift(params.G, params.Damping, metrics.DefaultPotentialLimit),
		metrics.NewMomentumDrift(),
		metrics.NewNodeVisits(),
		metrics.NewDropped(),
	}
}
