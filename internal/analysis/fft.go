package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/san-kum/tgsim/internal/controllers"
)

var ErrShortTrace = errors.New("analysis: trace too short")

// FFT transforms data, zero padding it to the next power of two.
func FFT(data []float64) []complex128 {
	n := 1
	for n < len(data) {
		n <<= 1
	}
	in := make([]complex128, n)
	for i, v := range data {
		in[i] = complex(v, 0)
	}
	return fft(in)
}

func fft(x []complex128) []complex128 {
	n := len(x)
	if n <= 1 {
		return x
	}

	even := make([]complex128, n/2)
	odd := make([]complex128, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = x[2*i]
		odd[i] = x[2*i+1]
	}

	feven := fft(even)
	fodd := fft(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}
	return result
}

// PowerSpectrum returns the magnitude of each non-negative frequency bin.
func PowerSpectrum(data []float64) []float64 {
	f := FFT(data)
	ps := make([]float64, len(f)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(f[i])
	}
	return ps
}

// DominantFrequency returns the strongest non-zero frequency in data,
// sampled every dt seconds, and its magnitude. The mean is removed first.
func DominantFrequency(data []float64, dt float64) (float64, float64, error) {
	if len(data) < 4 {
		return 0, 0, ErrShortTrace
	}
	if !(dt > 0) {
		return 0, 0, errors.New("analysis: dt must be positive")
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))
	centred := make([]float64, len(data))
	for i, v := range data {
		centred[i] = v - mean
	}

	ps := PowerSpectrum(centred)
	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	n := 2 * len(ps)
	return float64(best) / (float64(n) * dt), ps[best], nil
}

// Heights pulls the vertical position out of a trace.
func Heights(trace []controllers.Sample) []float64 {
	ys := make([]float64, len(trace))
	for i, s := range trace {
		ys[i] = s.Position.Y
	}
	return ys
}
