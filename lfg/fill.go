package lfg

import "math/bits"

const (
	gs0     = 0x372f05ac
	intMask = 0x7fffffff
	// spawn index words carry 31 bits each
	wordBits = 31
	topBit   = 1 << (wordBits - 1)
	regMask  = 0x1b
)

var adv64 = [4][2]uint32{
	{0xb0000000, 0x1b},
	{0x60000000, 0x2d},
	{0xc0000000, 0x5a},
	{0x80000000, 0xaf},
}

func parity(x uint32) uint32 {
	return uint32(bits.OnesCount32(x) & 1)
}

// advanceReg steps the 64-bit feedback register used to fill the lanes.
func advanceReg(reg *[2]uint32) {
	var n [2]uint32
	temp := uint32(regMask) << 27
	for i := 27; i >= 0; i-- {
		n[0] = n[0]<<1 | parity(reg[0]&temp)
		n[1] = n[1]<<1 | parity(reg[1]&temp)
		temp >>= 1
	}
	for i := 28; i < 32; i++ {
		t := parity(reg[0]&(uint32(regMask)<<i)) ^ parity(reg[1]&(uint32(regMask)>>(32-i)))
		n[0] |= t << i
		t = parity(reg[0]&adv64[i-28][0]) ^ parity(reg[1]&adv64[i-28][1])
		n[1] |= t << i
	}
	reg[0], reg[1] = n[0], n[1]
}

// mix is the splitmix64 finalizer.
func mix(z uint64) uint64 {
	z = (z ^ z>>30) * 0xbf58476d1ce4e5b9
	z = (z ^ z>>27) * 0x94d049bb133111eb
	return z ^ z>>31
}

// regSeed folds every word of index into the starting register, so
// neighbouring indices start the register at unrelated points.
func regSeed(index []uint32, seed uint32) [2]uint32 {
	h := mix(uint64(seed))
	for _, w := range index {
		h = mix(h ^ uint64(w))
	}
	temp := [2]uint32{uint32(h), uint32(h >> 32)}
	if temp == [2]uint32{} {
		temp[0] = gs0
	}
	return temp
}

// fill writes the initial contents of one lane. index holds the lane's
// spawn index, least significant word first.
func fill(index, r []uint32, p lags, seed uint32) {
	temp := regSeed(index, seed)
	advanceReg(&temp)
	advanceReg(&temp)

	r[0] = (intMask & index[0]) << 1
	for i := 1; i < p.L-1; i++ {
		advanceReg(&temp)
		r[i] = (intMask & (temp[0] ^ index[i])) << 1
	}
	r[p.L-1] = 0
	for i := p.first; i < p.first+p.lsbs; i++ {
		r[i] |= 1
	}
}

// double sets a to 2*b and reports whether the top bit was lost. a and b
// may be the same slice.
func double(a, b []uint32) (overflow bool) {
	n := len(b)
	overflow = b[n-1]&topBit != 0
	for i := n - 1; i > 0; i-- {
		a[i] = (b[i]<<1 | b[i-1]>>(wordBits-1)) & intMask
	}
	a[0] = (b[0] << 1) & intMask
	return overflow
}

// highWords reports whether any word above the lowest is set.
func highWords(index []uint32) bool {
	for _, w := range index[1:] {
		if w != 0 {
			return true
		}
	}
	return false
}
