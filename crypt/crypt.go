package crypt

import (
	"io"
)

// Crypt wraps a reader and writer with a matching transform.
type Crypt interface {
	NewEncoder(w io.Writer) io.Writer
	NewDecoder(r io.Reader) io.Reader
}
