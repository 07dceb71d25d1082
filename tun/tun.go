// Package tun defines a bidirectional message tunnel between a server and
// its clients. Implementations live in sub-packages.
package tun

import (
	"context"
	"io"
)

// Addr is a tunnel address.
type Addr interface {
	String() string
}

// Handler serves one tunnel. r and w are only valid until ServeTun returns.
type Handler interface {
	ServeTun(ctx context.Context, r io.Reader, w io.Writer)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, r io.Reader, w io.Writer)

// ServeTun calls f.
func (f HandlerFunc) ServeTun(ctx context.Context, r io.Reader, w io.Writer) {
	f(ctx, r, w)
}

// Server accepts tunnels and hands each one to its Handler.
type Server interface {
	Handler() Handler
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// Client dials one tunnel and serves it with its Handler.
type Client interface {
	Handler() Handler
	DialAndServe(ctx context.Context) error
}

// TunIDContextKey is the context key of the per-connection tunnel id, an int64.
type TunIDContextKey struct{}

// TunID returns the tunnel id stored in ctx by the server.
func TunID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(TunIDContextKey{}).(int64)
	return id, ok
}
