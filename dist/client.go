package dist

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/tutils/sprng"
	"github.com/tutils/sprng/factory"
	"github.com/tutils/sprng/tun"
	"github.com/tutils/sprng/tun/websocket"
)

// ReadAssignment reads one frame from r. A CmdError frame is returned as an
// error carrying the coordinator's message.
func ReadAssignment(r io.Reader) (*Assignment, error) {
	cmd, err := UnpackHeader(r)
	if err != nil {
		return nil, errors.WithMessage(err, "read header")
	}
	switch cmd {
	case CmdAssign:
		return UnpackBodyAssign(r)
	case CmdError:
		msg, err := UnpackBodyError(r)
		if err != nil {
			return nil, err
		}
		return nil, errors.Wrap(msg, "coordinator")
	default:
		return nil, errors.Wrapf(ErrFrame, "unknown command %d", cmd)
	}
}

// Restore unpacks the generator carried by a and checks it matches a.
func Restore(a *Assignment, opts ...sprng.Option) (sprng.Generator, error) {
	g, err := factory.Unpack(a.State, opts...)
	if err != nil {
		return nil, errors.WithMessagef(err, "restore rank %d", a.Rank)
	}
	if g.Type() != a.Type {
		g.Free()
		return nil, errors.Wrapf(sprng.ErrTypeMismatch, "assignment says %s, state is %s", a.Type, g.Type())
	}
	return g, nil
}

// Fetch dials the coordinator at addr and returns this worker's assignment
// and restored stream.
func Fetch(ctx context.Context, addr string, opts ...Option) (*Assignment, sprng.Generator, error) {
	o := NewOptions(opts...)
	var (
		a       *Assignment
		readErr error
	)
	h := tun.HandlerFunc(func(ctx context.Context, r io.Reader, w io.Writer) {
		if o.Crypt != nil {
			r = o.Crypt.NewDecoder(r)
			if c, ok := r.(io.Closer); ok {
				defer c.Close()
			}
		}
		a, readErr = ReadAssignment(r)
	})
	c := websocket.NewClient(tun.WithConnectAddress(addr), tun.WithClientHandler(h))
	if err := c.DialAndServe(ctx); err != nil {
		return nil, nil, errors.WithMessagef(err, "dial %s", addr)
	}
	if readErr != nil {
		return nil, nil, readErr
	}
	g, err := Restore(a, o.GenOpts...)
	if err != nil {
		return nil, nil, err
	}
	o.Logger.Debug().Int("rank", a.Rank).Int("size", a.Size).Str("worker", a.Worker.String()).Msg("stream fetched")
	return a, g, nil
}
