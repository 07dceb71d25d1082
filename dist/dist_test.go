package dist

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tutils/sprng"
	"github.com/tutils/sprng/crypt/xor"
	"github.com/tutils/sprng/factory"
	"github.com/tutils/sprng/sprngtest"
	"github.com/tutils/sprng/tun"
	"github.com/tutils/sprng/tun/websocket"
)

func startCoordinator(t *testing.T, s *Server) string {
	t.Helper()
	ws, err := websocket.NewServer(tun.WithServerHandler(s))
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(ws.(http.Handler))
	t.Cleanup(ts.Close)
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/stream"
}

func TestFetch(t *testing.T) {
	for _, typ := range []sprng.Type{sprng.LFG, sprng.LCG, sprng.LCG64} {
		t.Run(typ.String(), func(t *testing.T) {
			reg, _ := sprngtest.NewRegistry()
			var logs bytes.Buffer
			s, err := NewServer(typ, 3, 4711, 0,
				WithGeneratorOptions(sprng.WithRegistry(reg)),
				WithLogger(zerolog.New(&logs)))
			if err != nil {
				t.Fatal(err)
			}
			addr := startCoordinator(t, s)

			seen := map[int]bool{}
			workers := map[uuid.UUID]bool{}
			for i := 0; i < 3; i++ {
				a, g, err := Fetch(context.Background(), addr, WithGeneratorOptions(sprng.WithRegistry(reg)))
				if err != nil {
					t.Fatal(err)
				}
				if a.Size != 3 || a.Type != typ || seen[a.Rank] || workers[a.Worker] {
					t.Fatalf("bad assignment %+v", a)
				}
				seen[a.Rank] = true
				workers[a.Worker] = true

				ref, err := factory.Init(typ, a.Rank, 3, 4711, 0, sprng.WithRegistry(reg))
				if err != nil {
					t.Fatal(err)
				}
				for j := 0; j < 100; j++ {
					if x, y := g.Int(), ref.Int(); x != y {
						t.Fatalf("rank %d draw %d: %d != %d", a.Rank, j, x, y)
					}
				}
				g.Free()
				ref.Free()
			}

			_, _, err = Fetch(context.Background(), addr, WithGeneratorOptions(sprng.WithRegistry(reg)))
			if err == nil || !strings.Contains(err.Error(), ErrExhausted.Error()) {
				t.Fatalf("fourth fetch: %v", err)
			}
			if s.Issued() != 3 {
				t.Fatalf("issued %d", s.Issued())
			}
			if n := reg.Streams(typ); n != 0 {
				t.Fatalf("%d streams left open", n)
			}
			if !strings.Contains(logs.String(), "stream assigned") || !strings.Contains(logs.String(), "assignment refused") {
				t.Fatalf("missing logs: %s", logs.String())
			}
		})
	}
}

func TestFetchConcurrent(t *testing.T) {
	reg, _ := sprngtest.NewRegistry()
	s, err := NewServer(sprng.LCG, 16, 1, 0, WithGeneratorOptions(sprng.WithRegistry(reg)))
	if err != nil {
		t.Fatal(err)
	}
	addr := startCoordinator(t, s)

	var (
		mu    sync.Mutex
		ranks = map[int]bool{}
		wg    sync.WaitGroup
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, g, err := Fetch(context.Background(), addr, WithGeneratorOptions(sprng.WithRegistry(reg)))
			if err != nil {
				t.Error(err)
				return
			}
			g.Free()
			mu.Lock()
			ranks[a.Rank] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	if len(ranks) != 16 {
		t.Fatalf("%d distinct ranks", len(ranks))
	}
}

func TestFetchWithCrypt(t *testing.T) {
	reg, _ := sprngtest.NewRegistry()
	genOpts := WithGeneratorOptions(sprng.WithRegistry(reg))
	newCrypt := func(seed int64) Option {
		c, err := xor.NewCrypt(seed, xor.WithGeneratorOptions(sprng.WithRegistry(reg)))
		if err != nil {
			t.Fatal(err)
		}
		return WithCrypt(c)
	}
	s, err := NewServer(sprng.LCG64, 2, 9, 1, genOpts, newCrypt(42))
	if err != nil {
		t.Fatal(err)
	}
	addr := startCoordinator(t, s)

	a, g, err := Fetch(context.Background(), addr, genOpts, newCrypt(42))
	if err != nil {
		t.Fatal(err)
	}
	if a.Rank != 0 || g.Type() != sprng.LCG64 {
		t.Fatalf("got %+v", a)
	}

	if _, _, err := Fetch(context.Background(), addr, genOpts, newCrypt(43)); err == nil {
		t.Fatal("fetch with the wrong key succeeded")
	}
}

func TestNewServerErrors(t *testing.T) {
	if _, err := NewServer(sprng.MLFG, 1, 0, 0); !errors.Is(err, sprng.ErrReservedType) {
		t.Fatalf("reserved: %v", err)
	}
	if _, err := NewServer(sprng.LCG, 0, 0, 0); !errors.Is(err, sprng.ErrStreamIndex) {
		t.Fatalf("size 0: %v", err)
	}
	if _, err := NewServer(sprng.LCG, sprng.LCG.MaxStreams()+1, 0, 0); !errors.Is(err, sprng.ErrStreamIndex) {
		t.Fatalf("too many: %v", err)
	}
}

func TestRestoreTypeMismatch(t *testing.T) {
	reg, _ := sprngtest.NewRegistry()
	s, err := NewServer(sprng.LCG, 1, 0, 0, WithGeneratorOptions(sprng.WithRegistry(reg)))
	if err != nil {
		t.Fatal(err)
	}
	a, err := s.Assign()
	if err != nil {
		t.Fatal(err)
	}
	a.Type = sprng.LFG
	if _, err := Restore(a, sprng.WithRegistry(reg)); !errors.Is(err, sprng.ErrTypeMismatch) {
		t.Fatalf("got %v", err)
	}
	if reg.Streams(sprng.LCG) != 0 {
		t.Fatal("mismatched generator not freed")
	}
}
