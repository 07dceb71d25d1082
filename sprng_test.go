package sprng_test

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/tutils/sprng"
	"github.com/tutils/sprng/lcg"
	"github.com/tutils/sprng/sprngtest"
)

func TestTypeFromInt(t *testing.T) {
	tests := []struct {
		id   int
		want sprng.Type
		err  error
	}{
		{0, sprng.LFG, nil},
		{1, sprng.LCG, nil},
		{2, sprng.LCG64, nil},
		{3, 0, sprng.ErrReservedType},
		{4, 0, sprng.ErrReservedType},
		{5, 0, sprng.ErrReservedType},
		{6, 0, sprng.ErrUnknownType},
		{-1, 0, sprng.ErrUnknownType},
	}
	for _, tt := range tests {
		got, err := sprng.TypeFromInt(tt.id)
		if !errors.Is(err, tt.err) || (tt.err == nil && got != tt.want) {
			t.Errorf("TypeFromInt(%d) = %v, %v", tt.id, got, err)
		}
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		s    string
		want sprng.Type
		err  error
	}{
		{"lfg", sprng.LFG, nil},
		{"LCG", sprng.LCG, nil},
		{"Lcg64", sprng.LCG64, nil},
		{"2", sprng.LCG64, nil},
		{"pmlcg", 0, sprng.ErrReservedType},
		{"4", 0, sprng.ErrReservedType},
		{"mt19937", 0, sprng.ErrUnknownType},
		{"17", 0, sprng.ErrUnknownType},
	}
	for _, tt := range tests {
		got, err := sprng.ParseType(tt.s)
		if !errors.Is(err, tt.err) || (tt.err == nil && got != tt.want) {
			t.Errorf("ParseType(%q) = %v, %v", tt.s, got, err)
		}
	}
}

func TestTypeNames(t *testing.T) {
	if sprng.LCG64.String() != "LCG64" || sprng.Type(9).String() != "Type(9)" {
		t.Fatal("String")
	}
	if !strings.Contains(sprng.LCG.Describe(), "48 bit") || sprng.CMRG.Describe() != "CMRG" {
		t.Fatal("Describe")
	}
	if sprng.LCG.MaxStreams() != 1<<19 || sprng.MLFG.MaxStreams() != 0 {
		t.Fatal("MaxStreams")
	}
	if sprng.PMLCG.Valid() || !sprng.LFG.Valid() {
		t.Fatal("Valid")
	}
}

func TestFloat32(t *testing.T) {
	tests := []struct {
		in   float64
		want float32
	}{
		{0, 0},
		{0.5, 0.5},
		{1 - 0x1p-53, 1 - 0x1p-24},
		{0x1p-25, 0},
	}
	for _, tt := range tests {
		if got := sprng.Float32(tt.in); got != tt.want {
			t.Errorf("Float32(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDescribe(t *testing.T) {
	want := "Lagged Fibonacci Generator:\n  seed = 4,\n  stream_number = 2,\n  parameter = 1\n"
	if got := sprng.Describe(sprng.LFG, 4, 2, 1); got != want {
		t.Fatalf("got %q", got)
	}
}

func TestSpacing(t *testing.T) {
	if got := sprng.Spacing(11, 1000); got != 11 {
		t.Fatalf("small spacing %d", got)
	}
	if got := sprng.Spacing(math.MaxInt32, 1000); got != math.MaxInt32 {
		t.Fatalf("max spacing %d", got)
	}
	x := int64(math.MaxInt32) + 5
	if got := sprng.Spacing(x, 1000); int64(got) != 1000+x%1000 {
		t.Fatalf("folded spacing %d", got)
	}
}

func TestCheckArguments(t *testing.T) {
	reg, logs := sprngtest.NewRegistry()
	if n, err := reg.CheckStream(sprng.LCG, 0, 0); err != nil || n != 1 {
		t.Fatalf("CheckStream(0, 0) = %d, %v", n, err)
	}
	if !strings.Contains(logs.String(), "total streams <= 0") {
		t.Fatalf("missing warning: %s", logs)
	}
	for _, idx := range []int{-1, 3} {
		if _, err := reg.CheckStream(sprng.LCG, idx, 3); !errors.Is(err, sprng.ErrStreamIndex) {
			t.Errorf("CheckStream(%d, 3) = %v", idx, err)
		}
	}

	logs.Reset()
	if _, err := reg.CheckStream(sprng.LCG, 1<<19, 1<<20); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(logs.String(), "independence cannot be guaranteed") {
		t.Fatalf("missing warning: %s", logs)
	}

	logs.Reset()
	if p := reg.CheckParam(sprng.LCG, 9, 7); p != 0 || !strings.Contains(logs.String(), `"param":9`) {
		t.Fatalf("CheckParam = %d, logs %s", p, logs)
	}
	if p := reg.CheckParam(sprng.LCG, 6, 7); p != 6 {
		t.Fatalf("CheckParam = %d", p)
	}
	if n := reg.CheckSpawn(sprng.LCG, -2); n != 1 {
		t.Fatalf("CheckSpawn = %d", n)
	}

	if err := sprng.CheckType(1, sprng.LCG); err != nil {
		t.Fatal(err)
	}
	if err := sprng.CheckType(2, sprng.LCG); !errors.Is(err, sprng.ErrTypeMismatch) {
		t.Fatal(err)
	}
	if err := sprng.CheckType(5, sprng.LCG); !errors.Is(err, sprng.ErrReservedType) {
		t.Fatal(err)
	}
}

func TestRegistry(t *testing.T) {
	reg, logs := sprngtest.NewRegistry()
	reg.Opened(sprng.LCG)
	reg.Opened(sprng.LCG)
	reg.Closed(sprng.LCG)
	if reg.Streams(sprng.LCG) != 1 || reg.Streams(sprng.LFG) != 0 || reg.Streams(sprng.Type(42)) != 0 {
		t.Fatal("Streams")
	}
	if p := reg.FirstParam(sprng.LFG, 3); p != 3 {
		t.Fatalf("first FirstParam = %d", p)
	}
	if p := reg.FirstParam(sprng.LFG, 5); p != 3 {
		t.Fatalf("second FirstParam = %d", p)
	}

	reg.Warn(sprng.LCG64).Msg("hello")
	if !strings.Contains(logs.String(), `"gen":"LCG64"`) {
		t.Fatalf("missing gen field: %s", logs)
	}

	reg.Reset()
	if reg.Streams(sprng.LCG) != 0 || reg.FirstParam(sprng.LFG, 5) != 5 {
		t.Fatal("Reset")
	}
}

func TestRegistryOverLimit(t *testing.T) {
	reg, logs := sprngtest.NewRegistry()
	for i := 0; i <= sprng.LCG.MaxStreams(); i++ {
		reg.Opened(sprng.LCG)
	}
	if n := strings.Count(logs.String(), "exceeds the independence limit"); n != 1 {
		t.Fatalf("%d over-limit warnings", n)
	}
}

func TestLocked(t *testing.T) {
	reg, _ := sprngtest.NewRegistry()
	opt := sprng.WithRegistry(reg)
	shared := sprng.Locked(sprngtest.MustInit(t, func(opts ...sprng.Option) sprng.Generator { return lcg.New(opts...) }, 0, 1, 3, 0, opt))
	ref := sprngtest.MustInit(t, func(opts ...sprng.Option) sprng.Generator { return lcg.New(opts...) }, 0, 1, 3, 0, opt)

	const workers, draws = 8, 500
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < draws; j++ {
				shared.Int()
			}
		}()
	}
	wg.Wait()

	for i := 0; i < workers*draws; i++ {
		ref.Int()
	}
	if shared.Int() != ref.Int() {
		t.Fatal("locked generator lost draws")
	}
	if shared.Type() != sprng.LCG || shared.Seed() != 3 || shared.String() != ref.String() {
		t.Fatal("locked generator does not delegate")
	}
	b1, _ := shared.MarshalBinary()
	b2, _ := ref.MarshalBinary()
	if string(b1) != string(b2) {
		t.Fatal("locked state differs")
	}
}

func TestSource(t *testing.T) {
	reg, _ := sprngtest.NewRegistry()
	g := sprngtest.MustInit(t, func(opts ...sprng.Option) sprng.Generator { return lcg.New(opts...) }, 0, 1, 7, 0, sprng.WithRegistry(reg))
	src := sprng.NewSource(g)
	if src.Generator() != g {
		t.Fatal("Generator")
	}

	r := rand.New(src)
	for i := 0; i < 1000; i++ {
		if v := r.Int63(); v < 0 {
			t.Fatalf("Int63() = %d", v)
		}
		if v := r.Intn(10); v < 0 || v >= 10 {
			t.Fatalf("Intn(10) = %d", v)
		}
	}

	src.Seed(7)
	a := src.Uint64()
	src.Seed(7)
	if b := src.Uint64(); a != b {
		t.Fatalf("reseeded source differs: %x %x", a, b)
	}
	if reg.Streams(sprng.LCG) != 1 {
		t.Fatalf("reseeding leaked streams: %d", reg.Streams(sprng.LCG))
	}
}

type failingGen struct {
	sprng.Generator
}

func (failingGen) Free() {}

func (failingGen) Init(int, int, int, int) error {
	return sprng.ErrParameter
}

func TestSourceSeedFailure(t *testing.T) {
	defer func() {
		err, ok := recover().(error)
		if !ok || !errors.Is(err, sprng.ErrParameter) {
			t.Fatalf("recovered %v", err)
		}
	}()
	sprng.NewSource(failingGen{}).Seed(1)
	t.Fatal("Seed did not panic")
}
