package lfg

// lags describes one valid (L, K) pair. lsbs words starting at first have
// their low bit forced to 1 so the additive recurrence reaches full period.
type lags struct {
	L, K  int
	lsbs  int
	first int
}

// Params lists the valid lag pairs, indexed by the parameter.
var Params = [...]lags{
	{1279, 861, 1, 233},
	{17, 5, 1, 10},
	{31, 6, 1, 2},
	{55, 24, 1, 11},
	{63, 31, 1, 14},
	{127, 97, 1, 21},
	{521, 353, 1, 100},
	{521, 168, 1, 83},
	{607, 334, 1, 166},
	{607, 273, 1, 105},
	{1279, 418, 1, 208},
}

// NumParams is the number of valid parameters.
const NumParams = len(Params)

// Lags returns the (L, K) pair of param.
func Lags(param int) (l, k int) {
	p := Params[param]
	return p.L, p.K
}
