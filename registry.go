package sprng

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/tutils/sprng/counter"
	"golang.org/x/term"
)

const numTypes = int(PMLCG) + 1

// Registry counts open streams per generator type and receives the warnings
// generators raise when they correct an argument or cannot guarantee
// independence. Counts are advisory and never affect generated values.
type Registry struct {
	open   [numTypes]counter.Counter
	params [numTypes]int32
	logger atomic.Pointer[zerolog.Logger]
}

// DefaultRegistry is used by generators built without WithRegistry.
var DefaultRegistry = NewRegistry(NewConsoleLogger(os.Stderr))

// NewRegistry returns an empty registry logging to logger.
func NewRegistry(logger zerolog.Logger) *Registry {
	r := &Registry{}
	for i := range r.open {
		r.open[i] = counter.New()
	}
	r.SetLogger(logger)
	return r
}

// NewConsoleLogger returns a human readable logger on out, colored only when
// out is a terminal.
func NewConsoleLogger(out io.Writer) zerolog.Logger {
	cw := zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = out
		w.TimeFormat = "15:04:05.000"
		w.NoColor = !IsTerminal(out)
	})
	return zerolog.New(cw).With().Timestamp().Logger()
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Logger returns the registry's logger.
func (r *Registry) Logger() *zerolog.Logger {
	return r.logger.Load()
}

// SetLogger replaces the registry's logger.
func (r *Registry) SetLogger(logger zerolog.Logger) {
	r.logger.Store(&logger)
}

// Warn starts a warning event tagged with the generator type.
func (r *Registry) Warn(t Type) *zerolog.Event {
	return r.Logger().Warn().Str("gen", t.String())
}

// Opened records a new stream of type t.
func (r *Registry) Opened(t Type) {
	n := r.open[t].Add(1)
	if max := t.MaxStreams(); max > 0 && n == int64(max)+1 {
		r.Warn(t).Int64("open", n).Int("max", max).
			Msg("number of open streams exceeds the independence limit")
	}
}

// Closed records a freed stream of type t.
func (r *Registry) Closed(t Type) {
	r.open[t].Add(-1)
}

// Streams returns the number of open streams of type t.
func (r *Registry) Streams(t Type) int64 {
	if t < 0 || int(t) >= numTypes {
		return 0
	}
	return r.open[t].Value()
}

// FirstParam records param as the parameter for type t unless one was
// already recorded, and returns the recorded one.
func (r *Registry) FirstParam(t Type, param int) int {
	if atomic.CompareAndSwapInt32(&r.params[t], 0, int32(param)+1) {
		return param
	}
	return int(atomic.LoadInt32(&r.params[t])) - 1
}

// Reset zeroes every count and forgets recorded parameters.
func (r *Registry) Reset() {
	for i := range r.open {
		r.open[i].Reset()
		atomic.StoreInt32(&r.params[i], 0)
	}
}
