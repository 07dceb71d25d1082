package dist

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/tutils/sprng"
	"github.com/tutils/sprng/store"
)

func TestAssignFrame(t *testing.T) {
	a := &Assignment{
		Rank:   3,
		Size:   8,
		Type:   sprng.LCG64,
		Worker: uuid.New(),
		State:  []byte{1, 2, 3, 4, 5},
	}
	var buf bytes.Buffer
	if err := PackBodyAssign(&buf, a); err != nil {
		t.Fatal(err)
	}
	if want := 4 + 4 + 4 + 16 + 4 + len(a.State); buf.Len() != want {
		t.Fatalf("frame is %d bytes, want %d", buf.Len(), want)
	}
	if b := buf.Bytes(); b[3] != 3 || b[7] != 8 || b[11] != 2 || b[31] != 5 {
		t.Fatalf("unexpected layout % x", b[:32])
	}

	got, err := UnpackBodyAssign(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.Rank != a.Rank || got.Size != a.Size || got.Type != a.Type || got.Worker != a.Worker || !bytes.Equal(got.State, a.State) {
		t.Fatalf("got %+v, want %+v", got, a)
	}
}

func TestAssignFrameErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := PackBodyAssign(&buf, &Assignment{State: make([]byte, MaxStateSize+1)}); !errors.Is(err, ErrFrame) {
		t.Fatalf("oversized pack: %v", err)
	}

	buf.Reset()
	if err := PackBodyAssign(&buf, &Assignment{State: []byte{1, 2, 3}}); err != nil {
		t.Fatal(err)
	}
	b := buf.Bytes()
	if _, err := UnpackBodyAssign(bytes.NewReader(b[:len(b)-1])); !errors.Is(err, store.ErrShortBuffer) {
		t.Fatalf("truncated: %v", err)
	}

	huge := append([]byte(nil), b[:28]...)
	huge = append(huge, 0xff, 0xff, 0xff, 0xff)
	if _, err := UnpackBodyAssign(bytes.NewReader(huge)); !errors.Is(err, ErrFrame) {
		t.Fatalf("huge length: %v", err)
	}
}

func TestErrorFrame(t *testing.T) {
	var buf bytes.Buffer
	if err := PackBodyError(&buf, errors.New("no more ranks")); err != nil {
		t.Fatal(err)
	}
	msg, err := UnpackBodyError(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if msg.Error() != "no more ranks" {
		t.Fatalf("got %q", msg)
	}
}

func TestReadAssignmentUnknownCmd(t *testing.T) {
	if _, err := ReadAssignment(bytes.NewReader([]byte{9})); !errors.Is(err, ErrFrame) {
		t.Fatalf("got %v", err)
	}
	if _, err := ReadAssignment(bytes.NewReader(nil)); err == nil {
		t.Fatal("empty frame accepted")
	}
}
