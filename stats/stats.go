// Package stats runs quick statistical sanity checks over generator output.
//
// These are smoke tests for broken streams, not a replacement for a full
// battery such as TestU01.
package stats

import (
	"math"

	"github.com/pkg/errors"
	"github.com/tutils/sprng"
)

// Buckets is the number of equal-width cells used for the frequency test.
const Buckets = 256

// ErrSample is returned when too few draws are requested to be meaningful.
var ErrSample = errors.New("stats: sample too small")

// MinSamples is the smallest sample Analyze accepts.
const MinSamples = 10 * Buckets

// Analysis holds the results for one stream.
type Analysis struct {
	Length          int
	Mean            float64
	Variance        float64
	ChiSquare       float64
	MinFreq         int
	MaxFreq         int
	ShannonEntropy  float64
	Autocorrelation float64
}

// Analyze draws n doubles from g and summarizes them.
func Analyze(g sprng.Generator, n int) (Analysis, error) {
	if n < MinSamples {
		return Analysis{}, errors.Wrapf(ErrSample, "%d draws, need at least %d", n, MinSamples)
	}
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = g.Float64()
	}
	return AnalyzeFloats(xs), nil
}

// AnalyzeFloats summarizes values that should be uniform on [0,1).
func AnalyzeFloats(xs []float64) Analysis {
	if len(xs) == 0 {
		return Analysis{}
	}
	counts := make([]int, Buckets)
	for _, x := range xs {
		b := int(x * Buckets)
		switch {
		case b < 0:
			b = 0
		case b >= Buckets:
			b = Buckets - 1
		}
		counts[b]++
	}

	mean, variance := moments(xs)
	a := Analysis{
		Length:          len(xs),
		Mean:            mean,
		Variance:        variance,
		ChiSquare:       chiSquare(counts, len(xs)),
		ShannonEntropy:  entropy(counts, len(xs)),
		Autocorrelation: correlation(xs[:len(xs)-1], xs[1:]),
	}
	a.MinFreq, a.MaxFreq = counts[0], counts[0]
	for _, c := range counts[1:] {
		a.MinFreq = min(a.MinFreq, c)
		a.MaxFreq = max(a.MaxFreq, c)
	}
	return a
}

// CrossCorrelation draws n doubles from each of a and b and returns their
// Pearson correlation. Independent streams give values near zero.
func CrossCorrelation(a, b sprng.Generator, n int) (float64, error) {
	if n < MinSamples {
		return 0, errors.Wrapf(ErrSample, "%d draws, need at least %d", n, MinSamples)
	}
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = a.Float64()
		ys[i] = b.Float64()
	}
	return correlation(xs, ys), nil
}

// Passes reports whether a looks like a uniform i.i.d. sample, allowing
// sigma standard deviations on every statistic.
func (a Analysis) Passes(sigma float64) bool {
	if a.Length < 2 {
		return false
	}
	n := float64(a.Length)
	df := float64(Buckets - 1)
	return math.Abs(a.Mean-0.5) <= sigma*math.Sqrt(1.0/12/n) &&
		math.Abs(a.ChiSquare-df) <= sigma*math.Sqrt(2*df) &&
		math.Abs(a.Autocorrelation) <= sigma/math.Sqrt(n)
}

func moments(xs []float64) (mean, variance float64) {
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	for _, x := range xs {
		d := x - mean
		variance += d * d
	}
	variance /= float64(len(xs))
	return mean, variance
}

func chiSquare(counts []int, n int) float64 {
	expected := float64(n) / float64(len(counts))
	var chi float64
	for _, c := range counts {
		d := float64(c) - expected
		chi += d * d / expected
	}
	return chi
}

// entropy is in bits per bucket symbol, at most log2(Buckets).
func entropy(counts []int, n int) float64 {
	var h float64
	for _, c := range counts {
		if c > 0 {
			p := float64(c) / float64(n)
			h -= p * math.Log2(p)
		}
	}
	return h
}

func correlation(xs, ys []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	mx, vx := moments(xs)
	my, vy := moments(ys)
	if vx == 0 || vy == 0 {
		return 0
	}
	var cov float64
	for i := 0; i < n; i++ {
		cov += (xs[i] - mx) * (ys[i] - my)
	}
	cov /= float64(n)
	return cov / math.Sqrt(vx*vy)
}
