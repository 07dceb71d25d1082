// Package store encodes fixed-width integers as big-endian bytes.
//
// Values carry no length prefix or delimiter. The width of each value comes
// from its Go type, so the reader must know the field order in advance.
package store

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// ErrShortBuffer is returned when a load runs out of input.
var ErrShortBuffer = errors.New("store: short buffer")

// Integer is a fixed-width integer type.
type Integer interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Size returns the encoded width of T in bytes.
func Size[T Integer]() int {
	var v T
	return binary.Size(v)
}

// StoreValue writes v most significant byte first.
func StoreValue[T Integer](w io.Writer, v T) error {
	return binary.Write(w, binary.BigEndian, v)
}

// LoadValue reads one T written by StoreValue.
func LoadValue[T Integer](r io.Reader) (T, error) {
	var v T
	if err := binary.Read(r, binary.BigEndian, &v); err != nil {
		return 0, short(err, "load %T", v)
	}
	return v, nil
}

// StoreArray writes every element of vs back to back.
func StoreArray[T Integer](w io.Writer, vs []T) error {
	for _, v := range vs {
		if err := StoreValue(w, v); err != nil {
			return err
		}
	}
	return nil
}

// LoadArray reads n elements written by StoreArray.
func LoadArray[T Integer](r io.Reader, n int) ([]T, error) {
	if n < 0 {
		return nil, errors.Errorf("store: negative array length %d", n)
	}
	vs := make([]T, n)
	for i := range vs {
		v, err := LoadValue[T](r)
		if err != nil {
			return nil, errors.WithMessagef(err, "element %d of %d", i, n)
		}
		vs[i] = v
	}
	return vs, nil
}

func short(err error, format string, args ...interface{}) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errors.Wrapf(ErrShortBuffer, format, args...)
	}
	return errors.Wrapf(err, format, args...)
}
