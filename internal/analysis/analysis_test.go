package analysis

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/bhsim/internal/dynamo"
	"github.com/san-kum/bhsim/internal/quadtree"
)

func TestDominantFrequency(t *testing.T) {
	const (
		dt   = 0.01
		freq = 5.0
	)
	series := make([]float64, 1000)
	for i := range series {
		series[i] = 3 + math.Sin(2*math.Pi*freq*float64(i)*dt)
	}

	got := DominantFrequency(series, dt)
	if math.Abs(got-freq) > 0.1 {
		t.Errorf("expected dominant frequency %.1f, got %.3f", freq, got)
	}

	freqs, power := PowerSpectrum(series, dt)
	if len(freqs) != 501 || len(power) != 501 {
		t.Fatalf("expected 501 bins, got %d/%d", len(freqs), len(power))
	}
	if power[0] > 1e-9 {
		t.Errorf("expected mean removed, bin 0 power %g", power[0])
	}
}

func TestPowerSpectrum_Degenerate(t *testing.T) {
	if f, p := PowerSpectrum([]float64{1}, 0.1); f != nil || p != nil {
		t.Error("expected nil spectrum for one sample")
	}
	if f := DominantFrequency([]float64{2, 2, 2, 2}, 0.1); f != 0 {
		t.Errorf("expected 0 for flat series, got %f", f)
	}
}

func TestThetaSweep(t *testing.T) {
	bounds := dynamo.Rect{W: 800, H: 600}
	rng := rand.New(rand.NewSource(11))
	ps := make([]dynamo.Particle, 400)
	for i := range ps {
		ps[i] = dynamo.Particle{
			Pos:  mgl64.Vec2{rng.Float64() * 800, rng.Float64() * 600},
			Mass: 1 + rng.Float64()*10,
		}
	}

	opts := quadtree.Options{G: 10, Damping: 1, MaxDepth: dynamo.DefaultMaxDepth}
	points, err := ThetaSweep(ps, opts, bounds, []float64{0, 0.5, 2}, 50)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}

	if points[0].MaxError > 1e-9 {
		t.Errorf("expected exact forces at theta 0, got max error %g", points[0].MaxError)
	}
	for i := 1; i < len(points); i++ {
		if points[i].MeanVisits > points[i-1].MeanVisits {
			t.Errorf("visits grew from theta %.1f to %.1f", points[i-1].Theta, points[i].Theta)
		}
	}
	if points[2].MeanError <= points[0].MeanError {
		t.Errorf("expected coarse theta to lose accuracy: %+v", points)
	}
}

func TestThetaSweep_AllocationFailure(t *testing.T) {
	ps := []dynamo.Particle{
		{Pos: mgl64.Vec2{1, 1}, Mass: 1},
		{Pos: mgl64.Vec2{2, 2}, Mass: 1},
	}
	opts := quadtree.Options{G: 1, MaxDepth: 8, MaxNodes: 1}
	if _, err := ThetaSweep(ps, opts, dynamo.Rect{W: 10, H: 10}, []float64{0.5}, 0); err == nil {
		t.Error("expected build error")
	}
}

func TestRadialProfile(t *testing.T) {
	c := mgl64.Vec2{100, 100}
	ps := []dynamo.Particle{
		{Pos: mgl64.Vec2{105, 100}, Vel: mgl64.Vec2{0, 2}, Mass: 1},
		{Pos: mgl64.Vec2{100, 115}, Vel: mgl64.Vec2{-4, 0}, Mass: 3},
		{Pos: mgl64.Vec2{100, 85}, Vel: mgl64.Vec2{0, 0}, Mass: 1},
		{Pos: mgl64.Vec2{200, 100}, Mass: 50},
		{Pos: c, Mass: 1e6},
	}

	bins := RadialProfile(ps, c, 2, 20)
	if len(bins) != 2 {
		t.Fatalf("expected 2 bins, got %d", len(bins))
	}
	if bins[0].Count != 1 || bins[0].R != 5 || bins[0].Vt != 2 {
		t.Errorf("unexpected inner bin %+v", bins[0])
	}
	if bins[1].Count != 2 || bins[1].Mass != 4 || bins[1].Vt != 3 {
		t.Errorf("unexpected outer bin %+v", bins[1])
	}
}

func TestScatterToASCII(t *testing.T) {
	out := ScatterToASCII([]float64{-1, 0, 1}, []float64{-1, 0, 1}, 20, 10)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(lines))
	}
	if strings.Count(out, "•") != 3 {
		t.Errorf("expected 3 points, got:\n%s", out)
	}
	if ScatterToASCII(nil, nil, 10, 10) != "" {
		t.Error("expected empty plot for no points")
	}
}
