package sprng

import "github.com/pkg/errors"

// errors
var (
	ErrUnknownType    = errors.New("sprng: unknown generator type")
	ErrReservedType   = errors.New("sprng: generator type is reserved")
	ErrTypeMismatch   = errors.New("sprng: generator type mismatch")
	ErrStreamIndex    = errors.New("sprng: stream index out of range")
	ErrParameter      = errors.New("sprng: parameter out of range")
	ErrCorrupt        = errors.New("sprng: corrupt generator state")
	ErrNotInitialized = errors.New("sprng: generator not initialized")
)
