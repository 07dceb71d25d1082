package primes

// Table parameters. The 32-bit table feeds the 48-bit LCG, the 64-bit table
// feeds LCG64. Both minimums are the square root of the matching maximum.
const (
	Max32       = 11863285
	Min32       = 3444
	MaxOffset32 = 779156
	Step32      = 1000

	Max64       = 3037000501
	Min64       = 55108
	MaxOffset64 = 146138719
	Step64      = 10000
)

var (
	table32 = NewTable(Max32, Min32, MaxOffset32, Step32)
	table64 = NewTable(Max64, Min64, MaxOffset64, Step64)
)

// Prime32 returns the offset-th prime of the 32-bit table.
func Prime32(offset int) (uint32, error) {
	return table32.Prime(offset)
}

// Primes32 returns n primes of the 32-bit table starting at offset.
func Primes32(n, offset int) ([]uint32, error) {
	return table32.Primes(n, offset)
}

// Prime64 returns the offset-th prime of the 64-bit table.
func Prime64(offset int) (uint32, error) {
	return table64.Prime(offset)
}

// Primes64 returns n primes of the 64-bit table starting at offset.
func Primes64(n, offset int) ([]uint32, error) {
	return table64.Primes(n, offset)
}
