package dist

import (
	"bytes"
	"io"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tutils/sprng"
	"github.com/tutils/sprng/store"
)

// Cmd is command code of a coordinator frame
type Cmd int8

// command values
const (
	CmdAssign Cmd = iota
	CmdError
)

// MaxStateSize bounds the packed state accepted in an assignment.
const MaxStateSize = 1 << 20

// ErrFrame is returned for a malformed frame.
var ErrFrame = errors.New("dist: malformed frame")

// Assignment is what a worker receives: its place in the job and the packed
// state of its stream.
type Assignment struct {
	Rank   int
	Size   int
	Type   sprng.Type
	Worker uuid.UUID
	State  []byte
}

func PackHeader(w io.Writer, cmd Cmd) error {
	return store.StoreValue(w, int8(cmd))
}

func UnpackHeader(r io.Reader) (cmd Cmd, err error) {
	v, err := store.LoadValue[int8](r)
	return Cmd(v), err
}

func PackBodyAssign(w io.Writer, a *Assignment) error {
	if len(a.State) > MaxStateSize {
		return errors.Wrapf(ErrFrame, "state of %d bytes", len(a.State))
	}
	e := store.NewEncoder(w)
	store.Put(e, int32(a.Rank))
	store.Put(e, int32(a.Size))
	store.Put(e, int32(a.Type))
	store.PutArray(e, a.Worker[:])
	store.Put(e, uint32(len(a.State)))
	store.PutArray(e, a.State)
	return e.Err()
}

func UnpackBodyAssign(r io.Reader) (*Assignment, error) {
	d := store.NewDecoder(r)
	a := &Assignment{
		Rank: int(store.Get[int32](d)),
		Size: int(store.Get[int32](d)),
		Type: sprng.Type(store.Get[int32](d)),
	}
	copy(a.Worker[:], store.GetArray[uint8](d, len(a.Worker)))
	n := store.Get[uint32](d)
	if d.Err() == nil && n > MaxStateSize {
		return nil, errors.Wrapf(ErrFrame, "state of %d bytes", n)
	}
	a.State = store.GetArray[uint8](d, int(n))
	if err := d.Err(); err != nil {
		return nil, errors.WithMessage(err, "unpack assignment")
	}
	return a, nil
}

func PackBodyError(w io.Writer, msg error) error {
	b := []byte(msg.Error())
	if len(b) > 1<<15-1 {
		b = b[:1<<15-1]
	}
	e := store.NewEncoder(w)
	store.Put(e, int16(len(b)))
	store.PutArray(e, b)
	return e.Err()
}

func UnpackBodyError(r io.Reader) (msg error, err error) {
	d := store.NewDecoder(r)
	n := store.Get[int16](d)
	if d.Err() == nil && n < 0 {
		return nil, errors.Wrapf(ErrFrame, "error length %d", n)
	}
	b := store.GetArray[uint8](d, int(n))
	if err := d.Err(); err != nil {
		return nil, errors.WithMessage(err, "unpack error")
	}
	return errors.New(string(b)), nil
}

// writeFrame sends header and body in a single Write so message based
// tunnels deliver the frame as one message.
func writeFrame(w io.Writer, cmd Cmd, body func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := PackHeader(&buf, cmd); err != nil {
		return err
	}
	if err := body(&buf); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
