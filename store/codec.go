package store

import "io"

// Encoder writes a fixed sequence of fields and keeps the first error, so a
// record can be written without checking every field.
type Encoder struct {
	w   io.Writer
	err error
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Err returns the first error encountered.
func (e *Encoder) Err() error {
	return e.err
}

// Put writes v unless an earlier write failed.
func Put[T Integer](e *Encoder, v T) {
	if e.err == nil {
		e.err = StoreValue(e.w, v)
	}
}

// PutArray writes vs unless an earlier write failed.
func PutArray[T Integer](e *Encoder, vs []T) {
	if e.err == nil {
		e.err = StoreArray(e.w, vs)
	}
}

// Decoder reads a fixed sequence of fields and keeps the first error. After
// an error every further read returns the zero value.
type Decoder struct {
	r   io.Reader
	err error
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Err returns the first error encountered.
func (d *Decoder) Err() error {
	return d.err
}

// Get reads one T.
func Get[T Integer](d *Decoder) T {
	if d.err != nil {
		return 0
	}
	v, err := LoadValue[T](d.r)
	d.err = err
	return v
}

// GetArray reads n values of T.
func GetArray[T Integer](d *Decoder, n int) []T {
	if d.err != nil {
		return nil
	}
	vs, err := LoadArray[T](d.r, n)
	d.err = err
	return vs
}
