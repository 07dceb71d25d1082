// Package websocket carries tunnels over websocket binary messages.
package websocket

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

const (
	readTimeout  = 15 * time.Second
	pingPeriod   = 10 * time.Second
	writeTimeout = time.Second
)

// parseAddr splits a ws:// or wss:// tunnel address into host and request path.
func parseAddr(rawURL string) (host, path string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", errors.Wrapf(err, "parse tunnel address %q", rawURL)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return "", "", errors.Errorf("tunnel address %q: scheme must be ws or wss", rawURL)
	}
	return u.Host, u.RequestURI(), nil
}

var empty = bytes.NewReader(nil)

// stream joins binary messages into one byte stream and sends every Write
// as one binary message. Text messages are skipped.
type stream struct {
	conn *websocket.Conn
	cur  io.Reader
	wmu  sync.Mutex
}

func newStream(conn *websocket.Conn) *stream {
	return &stream{conn: conn, cur: empty}
}

func (s *stream) Read(p []byte) (int, error) {
	for {
		n, err := s.cur.Read(p)
		if err != io.EOF || n > 0 {
			return n, err
		}
		typ, r, err := s.conn.NextReader()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return 0, io.EOF
			}
			return 0, err
		}
		if typ == websocket.BinaryMessage {
			s.cur = r
		}
	}
}

func (s *stream) Write(p []byte) (int, error) {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	if err := s.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// close tells the peer the tunnel ended normally.
func (s *stream) close() {
	s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeTimeout))
}

// extendDeadline pushes the read deadline forward on every control frame.
func extendDeadline(conn *websocket.Conn) {
	conn.SetReadDeadline(time.Now().Add(readTimeout))
}

// keepalive pings the peer until ctx is done and drops the connection when
// no pong arrives within readTimeout.
func keepalive(ctx context.Context, conn *websocket.Conn) {
	extendDeadline(conn)
	conn.SetPongHandler(func(string) error {
		extendDeadline(conn)
		return nil
	})
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
		case <-ctx.Done():
			return
		}
	}
}
