package stats

import (
	"errors"
	"math"
	"testing"

	"github.com/tutils/sprng"
	"github.com/tutils/sprng/factory"
	"github.com/tutils/sprng/sprngtest"
)

func initGen(t *testing.T, typ sprng.Type, index, count int) sprng.Generator {
	t.Helper()
	reg, _ := sprngtest.NewRegistry()
	g, err := factory.Init(typ, index, count, 985456376, 0, sprng.WithRegistry(reg))
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestAnalyzeGenerators(t *testing.T) {
	for _, typ := range []sprng.Type{sprng.LFG, sprng.LCG, sprng.LCG64} {
		t.Run(typ.String(), func(t *testing.T) {
			a, err := Analyze(initGen(t, typ, 0, 1), 200000)
			if err != nil {
				t.Fatal(err)
			}
			if !a.Passes(6) {
				t.Fatalf("analysis failed: %+v", a)
			}
			if a.ShannonEntropy < 7.99 || a.ShannonEntropy > 8 {
				t.Fatalf("entropy %v", a.ShannonEntropy)
			}
			if math.Abs(a.Variance-1.0/12) > 0.002 {
				t.Fatalf("variance %v", a.Variance)
			}
		})
	}
}

func TestCrossCorrelation(t *testing.T) {
	for _, typ := range []sprng.Type{sprng.LFG, sprng.LCG, sprng.LCG64} {
		t.Run(typ.String(), func(t *testing.T) {
			r, err := CrossCorrelation(initGen(t, typ, 0, 2), initGen(t, typ, 1, 2), 100000)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(r) > 6/math.Sqrt(100000) {
				t.Fatalf("streams correlated: %v", r)
			}
		})
	}
}

func TestDegenerateSample(t *testing.T) {
	xs := make([]float64, MinSamples)
	for i := range xs {
		xs[i] = 0.25
	}
	a := AnalyzeFloats(xs)
	if a.Passes(6) {
		t.Fatalf("constant sample passed: %+v", a)
	}
	if a.ShannonEntropy != 0 || a.MaxFreq != MinSamples || a.MinFreq != 0 {
		t.Fatalf("unexpected %+v", a)
	}

	ramp := make([]float64, MinSamples)
	for i := range ramp {
		ramp[i] = float64(i) / float64(len(ramp))
	}
	if a := AnalyzeFloats(ramp); a.Passes(6) {
		t.Fatalf("ramp passed: %+v", a)
	}
}

func TestSampleTooSmall(t *testing.T) {
	g := initGen(t, sprng.LCG, 0, 1)
	if _, err := Analyze(g, 10); !errors.Is(err, ErrSample) {
		t.Fatalf("Analyze: %v", err)
	}
	if _, err := CrossCorrelation(g, g, 10); !errors.Is(err, ErrSample) {
		t.Fatalf("CrossCorrelation: %v", err)
	}
	if a := AnalyzeFloats(nil); a.Length != 0 {
		t.Fatalf("empty: %+v", a)
	}
}
