package serde

import (
	"math/big"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/holiman/uint256"

	"github.com/cartridge-gg/introspect"
)

// FeltSource reads one felt at a time.
type FeltSource interface {
	Next() (*felt.Felt, error)
	IsEOF() bool
	Pos() int
}

// FeltReader is a cursor over a felt slice.
type FeltReader struct {
	felts []*felt.Felt
	pos   int
}

var _ FeltSource = &FeltReader{}

func NewFeltReader(felts []*felt.Felt) *FeltReader {
	return &FeltReader{felts: felts}
}

// Next returns the next felt or an Eof error once the slice is exhausted.
func (r *FeltReader) Next() (*felt.Felt, error) {
	if r.pos >= len(r.felts) {
		return nil, Eof()
	}
	f := r.felts[r.pos]
	r.pos++
	if f == nil {
		f = new(felt.Felt)
	}
	return f, nil
}

// Peek returns the next felt without consuming it.
func (r *FeltReader) Peek() (*felt.Felt, error) {
	if r.pos >= len(r.felts) {
		return nil, Eof()
	}
	return r.felts[r.pos], nil
}

func (r *FeltReader) IsEOF() bool {
	return r.pos >= len(r.felts)
}

func (r *FeltReader) Pos() int {
	return r.pos
}

func (r *FeltReader) Remaining() int {
	return len(r.felts) - r.pos
}

// Rest consumes and returns every remaining felt.
func (r *FeltReader) Rest() []*felt.Felt {
	rest := r.felts[r.pos:]
	r.pos = len(r.felts)
	return rest
}

// ExpectEOF fails with NotEof when felts remain.
func (r *FeltReader) ExpectEOF() error {
	if !r.IsEOF() {
		return NotEof()
	}
	return nil
}

// Item runs decode and reports an Eof hit after the item started as UnexpectedEof.
func Item[T any](src FeltSource, decode func(FeltSource) (T, error)) (T, error) {
	start := src.Pos()
	v, err := decode(src)
	if err != nil && src.Pos() > start {
		err = Promote(err)
	}
	return v, err
}

// ============================================================================
// Primitive reads
// ============================================================================

var (
	maxU128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	minI128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	maxI128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
)

// MaxUsize bounds every length prefix (Cairo usize is a u32).
const MaxUsize = 1<<32 - 1

func ReadFelt(src FeltSource) (*felt.Felt, error) {
	return src.Next()
}

// ReadUint reads an unsigned integer of the given bit width (at most 64).
func ReadUint(src FeltSource, bits uint, target string) (uint64, error) {
	f, err := src.Next()
	if err != nil {
		return 0, err
	}
	v, ok := introspect.Uint64FromFelt(f)
	if !ok || (bits < 64 && v >= 1<<bits) {
		return 0, OutOfRange(target, f)
	}
	return v, nil
}

func ReadU8(src FeltSource) (uint8, error) {
	v, err := ReadUint(src, 8, "u8")
	return uint8(v), err
}

func ReadU16(src FeltSource) (uint16, error) {
	v, err := ReadUint(src, 16, "u16")
	return uint16(v), err
}

func ReadU32(src FeltSource) (uint32, error) {
	v, err := ReadUint(src, 32, "u32")
	return uint32(v), err
}

func ReadU64(src FeltSource) (uint64, error) {
	return ReadUint(src, 64, "u64")
}

// ReadUsize reads a length prefix.
func ReadUsize(src FeltSource) (int, error) {
	v, err := ReadUint(src, 32, "usize")
	return int(v), err
}

func ReadU128(src FeltSource) (*big.Int, error) {
	f, err := src.Next()
	if err != nil {
		return nil, err
	}
	v := introspect.BigIntFromFelt(f)
	if v.Cmp(maxU128) > 0 {
		return nil, OutOfRange("u128", f)
	}
	return v, nil
}

// ReadInt reads a signed integer of the given bit width (at most 64).
func ReadInt(src FeltSource, bits uint, target string) (int64, error) {
	f, err := src.Next()
	if err != nil {
		return 0, err
	}
	v := introspect.SignedBigIntFromFelt(f)
	if !v.IsInt64() {
		return 0, OutOfRange(target, f)
	}
	i := v.Int64()
	if bits < 64 {
		limit := int64(1) << (bits - 1)
		if i < -limit || i >= limit {
			return 0, OutOfRange(target, f)
		}
	}
	return i, nil
}

func ReadI8(src FeltSource) (int8, error) {
	v, err := ReadInt(src, 8, "i8")
	return int8(v), err
}

func ReadI16(src FeltSource) (int16, error) {
	v, err := ReadInt(src, 16, "i16")
	return int16(v), err
}

func ReadI32(src FeltSource) (int32, error) {
	v, err := ReadInt(src, 32, "i32")
	return int32(v), err
}

func ReadI64(src FeltSource) (int64, error) {
	return ReadInt(src, 64, "i64")
}

func ReadI128(src FeltSource) (*big.Int, error) {
	f, err := src.Next()
	if err != nil {
		return nil, err
	}
	v := introspect.SignedBigIntFromFelt(f)
	if !FitsI128(v) {
		return nil, OutOfRange("i128", f)
	}
	return v, nil
}

// FitsI128 reports whether v is in [-2^127, 2^127).
func FitsI128(v *big.Int) bool {
	return v.Cmp(minI128) >= 0 && v.Cmp(maxI128) <= 0
}

func ReadBool(src FeltSource) (bool, error) {
	f, err := src.Next()
	if err != nil {
		return false, err
	}
	switch v, ok := introspect.Uint64FromFelt(f); {
	case ok && v == 0:
		return false, nil
	case ok && v == 1:
		return true, nil
	default:
		return false, PrimitiveFromFelt("bool", f)
	}
}

// ReadU256 reads the low then the high 128-bit limb.
func ReadU256(src FeltSource) (*uint256.Int, error) {
	low, err := ReadU128(src)
	if err != nil {
		return nil, err
	}
	high, err := ReadU128(src)
	if err != nil {
		return nil, Promote(err)
	}
	v := new(big.Int).Lsh(high, 128)
	v.Or(v, low)
	out, _ := uint256.FromBig(v)
	return out, nil
}

// ReadU512 reads four 128-bit limbs, least significant first.
func ReadU512(src FeltSource) (*big.Int, error) {
	out := new(big.Int)
	for i := 0; i < 4; i++ {
		limb, err := ReadU128(src)
		if err != nil {
			if i > 0 {
				err = Promote(err)
			}
			return nil, err
		}
		out.Or(out, limb.Lsh(limb, uint(128*i)))
	}
	return out, nil
}

var maxEthAddress = new(big.Int).Lsh(big.NewInt(1), 160)

// ReadEthAddress reads a felt holding a 20-byte Ethereum address.
func ReadEthAddress(src FeltSource) (*felt.Felt, error) {
	f, err := src.Next()
	if err != nil {
		return nil, err
	}
	if !FitsEthAddress(f) {
		return nil, OutOfRange("EthAddress", f)
	}
	return f, nil
}

// FitsEthAddress reports whether f is below 2^160.
func FitsEthAddress(f *felt.Felt) bool {
	return introspect.BigIntFromFelt(f).Cmp(maxEthAddress) < 0
}

// ReadBytes31 reads a felt whose high byte is zero and returns the 31 payload bytes.
func ReadBytes31(src FeltSource) ([]byte, error) {
	f, err := src.Next()
	if err != nil {
		return nil, err
	}
	word, ok := introspect.WordFromFelt(f, introspect.WordSize)
	if !ok {
		return nil, InvalidBytes31Encoding(f)
	}
	return word, nil
}

// ReadShortString reads a packed ASCII string of at most 31 bytes.
func ReadShortString(src FeltSource) (string, error) {
	word, err := ReadBytes31(src)
	if err != nil {
		return "", err
	}
	i := 0
	for i < len(word) && word[i] == 0 {
		i++
	}
	if err := CheckUTF8(word[i:]); err != nil {
		return "", err
	}
	return string(word[i:]), nil
}

// ============================================================================
// Byte sources
// ============================================================================

// ByteSource reads one byte at a time.
type ByteSource interface {
	NextByte() (byte, error)
	IsEOF() bool
}

// ByteReader is a cursor over a byte slice.
type ByteReader struct {
	data []byte
	pos  int
}

var _ ByteSource = &ByteReader{}

func NewByteReader(data []byte) *ByteReader {
	return &ByteReader{data: data}
}

func (r *ByteReader) NextByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, Eof()
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// Read consumes exactly n bytes.
func (r *ByteReader) Read(n int) ([]byte, error) {
	if r.pos+n > len(r.data) {
		if r.pos >= len(r.data) {
			return nil, Eof()
		}
		return nil, UnexpectedEof()
	}
	out := r.data[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

func (r *ByteReader) IsEOF() bool {
	return r.pos >= len(r.data)
}

func (r *ByteReader) Remaining() int {
	return len(r.data) - r.pos
}
