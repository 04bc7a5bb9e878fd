package analysis

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/bhsim/internal/dynamo"
	"github.com/san-kum/bhsim/internal/quadtree"
)

// SweepPoint summarizes tree accuracy at one opening threshold.
type SweepPoint struct {
	Theta      float64
	MeanVisits float64
	MeanError  float64
	MaxError   float64
}

// ThetaSweep builds one tree over ps and, for each theta, compares tree
// accelerations of up to sample evenly spaced particles with direct
// summation. Errors are relative to the direct magnitude. Particles outside
// bounds or with zero direct force are skipped.
func ThetaSweep(ps []dynamo.Particle, opts quadtree.Options, bounds dynamo.Rect, thetas []float64, sample int) ([]SweepPoint, error) {
	tree := quadtree.New(opts)
	if err := tree.Build(ps, bounds); err != nil {
		return nil, err
	}

	if sample <= 0 || sample > len(ps) {
		sample = len(ps)
	}
	stride := 1
	if sample > 0 {
		stride = len(ps) / sample
	}

	var idx []int
	var refs []mgl64.Vec2
	for i := 0; i < len(ps) && len(idx) < sample; i += stride {
		if !bounds.Contains(ps[i].Pos) {
			continue
		}
		ref := quadtree.Direct(ps, i, opts.G, opts.Damping)
		if ref.Len() == 0 {
			continue
		}
		idx = append(idx, i)
		refs = append(refs, ref)
	}

	results := make([]SweepPoint, 0, len(thetas))
	for _, theta := range thetas {
		point := SweepPoint{Theta: theta}
		for k, i := range idx {
			acc, visits := tree.Accumulate(i, theta, nil)
			e := acc.Sub(refs[k]).Len() / refs[k].Len()
			point.MeanVisits += float64(visits)
			point.MeanError += e
			point.MaxError = max(point.MaxError, e)
		}
		if len(idx) > 0 {
			point.MeanVisits /= float64(len(idx))
			point.MeanError /= float64(len(idx))
		}
		results = append(results, point)
	}
	return results, nil
}
