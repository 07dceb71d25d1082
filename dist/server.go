// Package dist hands out streams to remote workers. A coordinator assigns
// ranks 0..size-1 in connection order and sends each worker the packed state
// of its stream, so workers never need to agree on a seed themselves.
package dist

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tutils/sprng"
	"github.com/tutils/sprng/factory"
	"github.com/tutils/sprng/tun"
)

// ErrExhausted is sent to workers connecting after every rank was assigned.
var ErrExhausted = errors.New("dist: all ranks assigned")

var _ tun.Handler = &Server{}

// Server is a tun.Handler assigning one stream per tunnel.
type Server struct {
	typ   sprng.Type
	size  int
	seed  int
	param int
	opts  *Options
	next  atomic.Int64
}

// NewServer returns a coordinator for size streams of type t.
func NewServer(t sprng.Type, size, seed, param int, opts ...Option) (*Server, error) {
	if _, err := sprng.TypeFromInt(int(t)); err != nil {
		return nil, err
	}
	if size <= 0 || size > t.MaxStreams() {
		return nil, errors.Wrapf(sprng.ErrStreamIndex, "job size %d for %s", size, t)
	}
	return &Server{
		typ:   t,
		size:  size,
		seed:  seed,
		param: param,
		opts:  NewOptions(opts...),
	}, nil
}

// Issued returns how many ranks were handed out.
func (s *Server) Issued() int {
	return int(min(s.next.Load(), int64(s.size)))
}

// Assign builds the assignment for the next rank.
func (s *Server) Assign() (*Assignment, error) {
	rank := s.next.Add(1) - 1
	if rank >= int64(s.size) {
		return nil, errors.Wrapf(ErrExhausted, "%d of %d", s.size, s.size)
	}
	g, err := factory.Init(s.typ, int(rank), s.size, s.seed, s.param, s.opts.GenOpts...)
	if err != nil {
		return nil, err
	}
	defer g.Free()
	state, err := g.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return &Assignment{
		Rank:   int(rank),
		Size:   s.size,
		Type:   s.typ,
		Worker: uuid.New(),
		State:  state,
	}, nil
}

// ServeTun implements tun.Handler.
func (s *Server) ServeTun(ctx context.Context, r io.Reader, w io.Writer) {
	tunID, _ := tun.TunID(ctx)
	if s.opts.Crypt != nil {
		w = s.opts.Crypt.NewEncoder(w)
		if c, ok := w.(io.Closer); ok {
			defer c.Close()
		}
	}

	a, err := s.Assign()
	if err != nil {
		s.opts.Logger.Warn().Err(err).Int64("tun", tunID).Msg("assignment refused")
		refusal := err
		if err := writeFrame(w, CmdError, func(w io.Writer) error { return PackBodyError(w, refusal) }); err != nil {
			s.opts.Logger.Error().Err(err).Int64("tun", tunID).Msg("send error frame")
		}
		return
	}
	if err := writeFrame(w, CmdAssign, func(w io.Writer) error { return PackBodyAssign(w, a) }); err != nil {
		s.opts.Logger.Error().Err(err).Int64("tun", tunID).Int("rank", a.Rank).Msg("send assignment")
		return
	}
	s.opts.Logger.Info().
		Int64("tun", tunID).
		Int("rank", a.Rank).
		Int("size", a.Size).
		Str("worker", a.Worker.String()).
		Msg("stream assigned")
}
