package sprng

import (
	"math"

	"github.com/pkg/errors"
)

// CheckStream validates the stream arguments of Init. A non-positive count
// becomes 1 with a warning. The returned count is the one to use.
func (r *Registry) CheckStream(t Type, index, count int) (int, error) {
	if count <= 0 {
		r.Warn(t).Int("total", count).Msg("total streams <= 0, using 1")
		count = 1
	}
	if index < 0 || index >= count {
		return count, errors.Wrapf(ErrStreamIndex, "stream %d not in [0, %d)", index, count)
	}
	if index > math.MaxInt32 {
		return count, errors.Wrapf(ErrStreamIndex, "stream %d does not fit in 32 bits", index)
	}
	if max := t.MaxStreams(); index >= max {
		r.Warn(t).Int("stream", index).Int("max", max).
			Msg("stream number exceeds the number of independent streams, independence cannot be guaranteed")
	}
	return count, nil
}

// CheckParam returns param, or 0 with a warning when param is not in [0, n).
func (r *Registry) CheckParam(t Type, param, n int) int {
	if param < 0 || param >= n {
		r.Warn(t).Int("param", param).Msg("invalid parameter, using default parameter 0")
		return 0
	}
	return param
}

// CheckSpawn returns n, or 1 with a warning when n <= 0.
func (r *Registry) CheckSpawn(t Type, n int) int {
	if n <= 0 {
		r.Warn(t).Int("n", n).Msg("spawn count <= 0, using 1")
		return 1
	}
	return n
}

// CheckType verifies a serialized type id names want.
func CheckType(id int, want Type) error {
	t, err := TypeFromInt(id)
	if err != nil {
		return err
	}
	if t != want {
		return errors.Wrapf(ErrTypeMismatch, "state is %s, generator is %s", t, want)
	}
	return nil
}

// Spacing fits a spawn spacing into 32 bits. Values that do not fit are
// folded to m plus their residue mod m, so positions derived from them wrap
// to the same place modulo m and still exceed m.
func Spacing(x int64, m int) int32 {
	if x <= math.MaxInt32 {
		return int32(x)
	}
	return int32(int64(m) + x%int64(m))
}
