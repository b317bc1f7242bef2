package selector

import (
	"math/big"
	"math/bits"
)

// Field modulus limbs, least significant first.
// p = 2^251 + 17 * 2^192 + 1
var q = [4]uint64{1, 0, 0, 0x0800000000000011}

// -p^-1 mod 2^64
const qInvNeg uint64 = 0xffffffffffffffff

// r2 is (2^256)^2 mod p, used to move a packed integer into Montgomery form.
var r2 [4]uint64

func init() {
	p := limbsToBig(q)
	r := new(big.Int).Lsh(big.NewInt(1), 512)
	r.Mod(r, p)
	r2 = bigToLimbs(r)
}

// madd0 returns hi such that hi*2^64 + lo = a*b + c.
func madd0(a, b, c uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	_, carry := bits.Add64(lo, c, 0)
	hi, _ = bits.Add64(hi, 0, carry)
	return hi
}

// madd1 returns (hi, lo) such that hi*2^64 + lo = a*b + c.
func madd1(a, b, c uint64) (uint64, uint64) {
	hi, lo := bits.Mul64(a, b)
	lo, carry := bits.Add64(lo, c, 0)
	hi, _ = bits.Add64(hi, 0, carry)
	return hi, lo
}

// madd2 returns (hi, lo) such that hi*2^64 + lo = a*b + c + d.
func madd2(a, b, c, d uint64) (uint64, uint64) {
	hi, lo := bits.Mul64(a, b)
	c, carry := bits.Add64(c, d, 0)
	hi, _ = bits.Add64(hi, 0, carry)
	lo, carry = bits.Add64(lo, c, 0)
	hi, _ = bits.Add64(hi, 0, carry)
	return hi, lo
}

// montMul computes x*y*2^-256 mod p with the CIOS method. Inputs must be < p.
func montMul(x, y [4]uint64) [4]uint64 {
	var t [5]uint64
	for i := 0; i < 4; i++ {
		var c uint64
		for j := 0; j < 4; j++ {
			c, t[j] = madd2(x[j], y[i], t[j], c)
		}
		var carry uint64
		t[4], carry = bits.Add64(t[4], c, 0)

		m := t[0] * qInvNeg
		c = madd0(m, q[0], t[0])
		for j := 1; j < 4; j++ {
			c, t[j-1] = madd2(m, q[j], t[j], c)
		}
		t[3], c = bits.Add64(t[4], c, 0)
		t[4] = carry + c
	}

	z := [4]uint64{t[0], t[1], t[2], t[3]}
	if t[4] != 0 || !less(z, q) {
		var b uint64
		z[0], b = bits.Sub64(z[0], q[0], 0)
		z[1], b = bits.Sub64(z[1], q[1], b)
		z[2], b = bits.Sub64(z[2], q[2], b)
		z[3], _ = bits.Sub64(z[3], q[3], b)
	}
	return z
}

func less(a, b [4]uint64) bool {
	for i := 3; i >= 0; i-- {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// pack folds up to 32 bytes into limbs by repeated shift-left-by-8.
func pack(data []byte) [4]uint64 {
	var z [4]uint64
	for _, b := range data {
		z[3] = z[3]<<8 | z[2]>>56
		z[2] = z[2]<<8 | z[1]>>56
		z[1] = z[1]<<8 | z[0]>>56
		z[0] = z[0]<<8 | uint64(b)
	}
	return z
}

// toMontgomery maps a canonical value below p to its Montgomery limbs.
func toMontgomery(a [4]uint64) [4]uint64 {
	return montMul(a, r2)
}

// fromMontgomery maps Montgomery limbs back to the canonical value.
func fromMontgomery(a [4]uint64) [4]uint64 {
	return montMul(a, [4]uint64{1, 0, 0, 0})
}

func limbsToBig(z [4]uint64) *big.Int {
	out := new(big.Int)
	for i := 3; i >= 0; i-- {
		out.Lsh(out, 64)
		out.Or(out, new(big.Int).SetUint64(z[i]))
	}
	return out
}

func bigToLimbs(v *big.Int) [4]uint64 {
	var z [4]uint64
	words := new(big.Int).Set(v)
	mask := new(big.Int).SetUint64(^uint64(0))
	for i := 0; i < 4; i++ {
		z[i] = new(big.Int).And(words, mask).Uint64()
		words.Rsh(words, 64)
	}
	return z
}

func limbsToBytes(z [4]uint64) [32]byte {
	var out [32]byte
	for i := 0; i < 4; i++ {
		w := z[3-i]
		for j := 0; j < 8; j++ {
			out[i*8+j] = byte(w >> (56 - 8*j))
		}
	}
	return out
}
