package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the one-sided power spectrum of a series sampled
// every dt. The mean is removed first so bin 0 carries no offset.
func PowerSpectrum(series []float64, dt float64) (freqs, power []float64) {
	n := len(series)
	if n < 2 || dt <= 0 {
		return nil, nil
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range series {
		centered[i] = v - mean
	}

	spectrum := fft.FFTReal(centered)
	bins := n/2 + 1
	freqs = make([]float64, bins)
	power = make([]float64, bins)
	for k := 0; k < bins; k++ {
		freqs[k] = float64(k) / (float64(n) * dt)
		a := cmplx.Abs(spectrum[k])
		power[k] = a * a / float64(n)
	}
	return freqs, power
}

// DominantFrequency is the frequency of the strongest non-zero bin, or 0
// for a flat series.
func DominantFrequency(series []float64, dt float64) float64 {
	freqs, power := PowerSpectrum(series, dt)
	best, bestPower := 0.0, 0.0
	for k := 1; k < len(power); k++ {
		if power[k] > bestPower && !math.IsNaN(power[k]) {
			best, bestPower = freqs[k], power[k]
		}
	}
	return best
}
