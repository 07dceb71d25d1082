package sprng

import "sync"

var _ Generator = &lockedGenerator{}

// lockedGenerator serializes access to a shared generator.
type lockedGenerator struct {
	g  Generator
	mu sync.Mutex
}

// Locked wraps g so it may be used from several goroutines. Children returned
// by Spawn are not wrapped.
func Locked(g Generator) Generator {
	if l, ok := g.(*lockedGenerator); ok {
		return l
	}
	return &lockedGenerator{g: g}
}

func (l *lockedGenerator) Type() Type {
	return l.g.Type()
}

func (l *lockedGenerator) Init(streamIndex, streamCount, seed, param int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.g.Init(streamIndex, streamCount, seed, param)
}

func (l *lockedGenerator) Int() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.g.Int()
}

func (l *lockedGenerator) Float32() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.g.Float32()
}

func (l *lockedGenerator) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.g.Float64()
}

func (l *lockedGenerator) Spawn(n int) ([]Generator, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.g.Spawn(n)
}

func (l *lockedGenerator) Seed() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.g.Seed()
}

func (l *lockedGenerator) Free() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.g.Free()
}

func (l *lockedGenerator) MarshalBinary() ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.g.MarshalBinary()
}

func (l *lockedGenerator) UnmarshalBinary(data []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.g.UnmarshalBinary(data)
}

func (l *lockedGenerator) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.g.String()
}
