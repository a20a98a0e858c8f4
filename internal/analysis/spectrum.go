package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PaddedLength returns the smallest power of two >= n.
func PaddedLength(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// PowerSpectrum returns the magnitudes of the first half of the DFT of data
// after removing its mean and zero-padding it to a power of two.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return []float64{}
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	padded := make([]float64, PaddedLength(len(data)))
	for i, v := range data {
		padded[i] = v - mean
	}

	spectrum := fft.FFTReal(padded)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}

	return ps
}

// DominantBin is the index of the largest magnitude, ignoring the DC bin.
// It returns 0 when no bin carries energy.
func DominantBin(ps []float64) int {
	best, bestVal := 0, 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > bestVal {
			best, bestVal = i, ps[i]
		}
	}
	return best
}

// BinPeriod converts a spectrum bin of a series of n samples taken every dt
// into a period in simulated time.
func BinPeriod(bin, n int, dt float64) float64 {
	if bin <= 0 {
		return math.Inf(1)
	}
	return float64(PaddedLength(n)) * dt / float64(bin)
}
