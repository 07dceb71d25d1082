package websocket

import (
	"context"
	"net"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/tutils/sprng/tun"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4 << 10,
	WriteBufferSize: 4 << 10,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var _ tun.Server = &server{}
var _ http.Handler = &server{}

type server struct {
	opts  tun.ServerOptions
	srv   *http.Server
	tunID atomic.Int64
}

func (s *server) Handler() tun.Handler {
	return s.opts.Handler
}

// ServeHTTP upgrades the request and serves the tunnel. Requests that did
// not pass through ListenAndServe get their tunnel id here.
func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.opts.Logger.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()
	h := s.Handler()
	if h == nil {
		return
	}

	ctx := r.Context()
	if _, ok := tun.TunID(ctx); !ok {
		ctx = context.WithValue(ctx, tun.TunIDContextKey{}, s.tunID.Add(1))
	}
	pingCtx, stopPing := context.WithCancel(ctx)
	go keepalive(pingCtx, conn)

	st := newStream(conn)
	h.ServeTun(ctx, st, st)
	stopPing()
	st.close()
}

func (s *server) ListenAndServe() error {
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// NewServer returns a websocket tunnel server for the listen address
// option. The result is also an http.Handler for mounting elsewhere.
func NewServer(opts ...tun.ServerOption) (tun.Server, error) {
	opt := tun.NewServerOptions(opts...)
	host, path, err := parseAddr(opt.Address)
	if err != nil {
		return nil, err
	}

	s := &server{
		opts: *opt,
	}
	mux := http.NewServeMux()
	mux.Handle(path, s)
	s.srv = &http.Server{
		Addr:    host,
		Handler: mux,
		ConnContext: func(ctx context.Context, c net.Conn) context.Context {
			return context.WithValue(ctx, tun.TunIDContextKey{}, s.tunID.Add(1))
		},
	}
	return s, nil
}
