// Package introspect provides the felt-level helpers shared by every
// component of the introspection toolkit.
//
// This package includes:
// - Conversions between Go integers, big.Int, bools and *felt.Felt
// - Signed integers mapped into the field (negative values are p - |x|)
// - Short string and 31-byte word packing
// - The Stark field modulus
//
// The toolkit itself lives in sub-packages:
//
//	serde     - felt/byte cursors, error kinds, Serde and ISerde primitives
//	selector  - ASCII and keccak selectors
//	typedef   - the TypeDef model, its codec and the reference library
//	value     - runtime values described by a TypeDef
//	transcode - TypeDef driven transcoding into JSON, CBOR, felts or values
//	events    - schema-evolution and row-mutation event codec
//	syntax    - Cairo lexer, token streams and the concrete syntax tree
//	ast       - Cairo AST and printer
//	derive    - Introspect / ISerde / Fuzzable code generation
//	table     - table and column-set code generation
//	plugin    - macro entry points
//
// Example usage:
//
//	import "github.com/cartridge-gg/introspect"
//
//	f := introspect.FeltFromShortString("Point")
//	s := introspect.ShortStringFromFelt(f) // "Point"
package introspect

import (
	"math/big"
	"strings"

	"github.com/NethermindEth/juno/core/felt"
)

// WordSize is the number of payload bytes a felt carries in byte array layouts.
const WordSize = 31

var (
	modulus     *big.Int
	halfModulus *big.Int
)

func init() {
	// p = 2^251 + 17 * 2^192 + 1
	modulus = new(big.Int).Lsh(big.NewInt(1), 251)
	modulus.Add(modulus, new(big.Int).Lsh(big.NewInt(17), 192))
	modulus.Add(modulus, big.NewInt(1))

	halfModulus = new(big.Int).Rsh(modulus, 1)
}

// Modulus returns a copy of the Stark field modulus.
func Modulus() *big.Int {
	return new(big.Int).Set(modulus)
}

// ============================================================================
// Integer conversions
// ============================================================================

// FeltFromUint converts uint64 to *felt.Felt
func FeltFromUint(value uint64) *felt.Felt {
	return new(felt.Felt).SetUint64(value)
}

// UintFromFelt converts *felt.Felt to uint64, returning 0 when it does not fit.
func UintFromFelt(f *felt.Felt) uint64 {
	v, _ := Uint64FromFelt(f)
	return v
}

// Uint64FromFelt converts *felt.Felt to uint64 and reports whether it fit.
func Uint64FromFelt(f *felt.Felt) (uint64, bool) {
	if f == nil {
		return 0, true
	}
	bigInt := f.BigInt(new(big.Int))
	if !bigInt.IsUint64() {
		return 0, false
	}
	return bigInt.Uint64(), true
}

// FeltFromInt converts int64 to *felt.Felt. Negative values wrap around the
// field modulus the same way Cairo stores signed integers.
func FeltFromInt(value int64) *felt.Felt {
	if value < 0 {
		return FeltFromBigInt(big.NewInt(value))
	}
	return new(felt.Felt).SetUint64(uint64(value))
}

// IntFromFelt converts *felt.Felt to int64, returning 0 when it does not fit.
func IntFromFelt(f *felt.Felt) int64 {
	v := SignedBigIntFromFelt(f)
	if !v.IsInt64() {
		return 0
	}
	return v.Int64()
}

// SignedBigIntFromFelt interprets felts above p/2 as negative numbers.
func SignedBigIntFromFelt(f *felt.Felt) *big.Int {
	v := BigIntFromFelt(f)
	if v.Cmp(halfModulus) > 0 {
		v.Sub(v, modulus)
	}
	return v
}

// FeltFromBigInt converts *big.Int to *felt.Felt, reducing it modulo p.
func FeltFromBigInt(value *big.Int) *felt.Felt {
	if value == nil {
		return new(felt.Felt)
	}
	reduced := new(big.Int).Mod(value, modulus)
	return new(felt.Felt).SetBytes(reduced.Bytes())
}

// BigIntFromFelt converts *felt.Felt to *big.Int
func BigIntFromFelt(f *felt.Felt) *big.Int {
	if f == nil {
		return big.NewInt(0)
	}
	return f.BigInt(new(big.Int))
}

// FeltFromBool converts bool to *felt.Felt
func FeltFromBool(value bool) *felt.Felt {
	if value {
		return FeltFromUint(1)
	}
	return FeltFromUint(0)
}

// BoolFromFelt converts *felt.Felt to bool
func BoolFromFelt(f *felt.Felt) bool {
	return f != nil && !f.IsZero()
}

// FeltFromHex parses a 0x-prefixed or decimal string.
func FeltFromHex(s string) (*felt.Felt, error) {
	return new(felt.Felt).SetString(s)
}

// Felts is a shorthand for building felt slices out of small integers.
func Felts(values ...uint64) []*felt.Felt {
	out := make([]*felt.Felt, len(values))
	for i, v := range values {
		out[i] = FeltFromUint(v)
	}
	return out
}

// ============================================================================
// Byte conversions
// ============================================================================

// FeltFromBytes converts a big-endian byte slice to *felt.Felt. Only the
// first 31 bytes are used so the result always fits the field.
func FeltFromBytes(data []byte) *felt.Felt {
	if len(data) == 0 {
		return new(felt.Felt)
	}
	if len(data) > WordSize {
		data = data[:WordSize]
	}
	return new(felt.Felt).SetBytes(data)
}

// BytesFromFelt returns the 32-byte big-endian representation of f.
func BytesFromFelt(f *felt.Felt) []byte {
	if f == nil {
		return make([]byte, 32)
	}
	bytes := f.Bytes()
	return bytes[:]
}

// WordFromFelt returns the low n bytes of f and reports whether every
// higher byte is zero.
func WordFromFelt(f *felt.Felt, n int) ([]byte, bool) {
	bytes := BytesFromFelt(f)
	for _, b := range bytes[:32-n] {
		if b != 0 {
			return nil, false
		}
	}
	return bytes[32-n:], true
}

// FeltFromShortString packs an ASCII string of at most 31 bytes.
func FeltFromShortString(s string) *felt.Felt {
	return FeltFromBytes([]byte(s))
}

// ShortStringFromFelt unpacks a short string, dropping leading zero bytes.
func ShortStringFromFelt(f *felt.Felt) string {
	bytes := BytesFromFelt(f)
	return strings.TrimLeft(string(bytes), "\x00")
}
