package websocket

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tutils/sprng/tun"
)

var _ tun.Client = &client{}

type client struct {
	opts tun.ClientOptions
}

func (c *client) Handler() tun.Handler {
	return c.opts.Handler
}

// DialAndServe dials the server and runs the handler until it returns.
// Cancelling ctx unblocks pending reads.
func (c *client) DialAndServe(ctx context.Context) error {
	if _, _, err := parseAddr(c.opts.Address); err != nil {
		return err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.opts.Address, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	h := c.Handler()
	if h == nil {
		return nil
	}

	extendDeadline(conn)
	pong := conn.PingHandler()
	conn.SetPingHandler(func(appData string) error {
		extendDeadline(conn)
		return pong(appData)
	})
	stop := context.AfterFunc(ctx, func() {
		conn.SetReadDeadline(time.Now())
	})
	defer stop()

	st := newStream(conn)
	h.ServeTun(ctx, st, st)
	st.close()
	return nil
}

// NewClient returns a websocket tunnel client.
func NewClient(opts ...tun.ClientOption) tun.Client {
	opt := tun.NewClientOptions(opts...)
	return &client{
		opts: *opt,
	}
}
