// Package jump advances affine congruential recurrences in logarithmic time.
package jump

// Affine returns (A, C) such that applying x = a*x + c n times equals
// x = A*x + C, all modulo 2^64. Results for a smaller power-of-two modulus
// are obtained by masking.
func Affine(a, c, n uint64) (A, C uint64) {
	A, C = 1, 0
	for n > 0 {
		if n&1 == 1 {
			A, C = A*a, C*a+c
		}
		c = c*a + c
		a = a * a
		n >>= 1
	}
	return A, C
}

// Advance applies x = a*x + c to x n times.
func Advance(x, a, c, n uint64) uint64 {
	A, C := Affine(a, c, n)
	return A*x + C
}
