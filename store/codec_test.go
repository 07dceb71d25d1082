package store

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncoderDecoder(t *testing.T) {
	buf := &bytes.Buffer{}
	e := NewEncoder(buf)
	Put(e, int32(2))
	Put(e, uint64(0xfedcba9876543210))
	PutArray(e, []uint32{7, 8, 9})
	if err := e.Err(); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 4+8+12 {
		t.Fatalf("encoded %d bytes", buf.Len())
	}

	d := NewDecoder(bytes.NewReader(buf.Bytes()))
	typ := Get[int32](d)
	state := Get[uint64](d)
	words := GetArray[uint32](d, 3)
	if err := d.Err(); err != nil {
		t.Fatal(err)
	}
	if typ != 2 || state != 0xfedcba9876543210 || len(words) != 3 || words[2] != 9 {
		t.Fatalf("decoded %d %x %v", typ, state, words)
	}
}

func TestDecoderStickyError(t *testing.T) {
	d := NewDecoder(bytes.NewReader([]byte{0, 0, 0, 1, 0xff}))
	if v := Get[int32](d); v != 1 {
		t.Fatalf("first field = %d", v)
	}
	if v := Get[uint64](d); v != 0 {
		t.Fatalf("truncated field = %d", v)
	}
	if v := Get[int32](d); v != 0 {
		t.Fatalf("field after error = %d", v)
	}
	if !errors.Is(d.Err(), ErrShortBuffer) {
		t.Fatalf("err = %v", d.Err())
	}
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) {
	return 0, errors.New("closed")
}

func TestEncoderStickyError(t *testing.T) {
	e := NewEncoder(failWriter{})
	Put(e, int32(1))
	Put(e, int32(2))
	if e.Err() == nil {
		t.Fatal("expected error")
	}
}
