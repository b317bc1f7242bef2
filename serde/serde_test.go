package serde

import (
	"bytes"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/holiman/uint256"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartridge-gg/introspect"
)

func reader(values ...uint64) *FeltReader {
	return NewFeltReader(introspect.Felts(values...))
}

func TestFeltReaderEOF(t *testing.T) {
	t.Parallel()

	r := reader(1, 2)
	require.Equal(t, 2, r.Remaining())

	v, err := ReadU8(r)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), v)

	require.ErrorIs(t, r.ExpectEOF(), ErrNotEof)

	_, err = r.Next()
	require.NoError(t, err)
	require.True(t, r.IsEOF())
	require.NoError(t, r.ExpectEOF())

	_, err = r.Next()
	require.ErrorIs(t, err, ErrEof)
}

func TestPrimitiveRanges(t *testing.T) {
	t.Parallel()

	_, err := ReadU8(reader(256))
	require.ErrorIs(t, err, ErrOutOfRange)

	v16, err := ReadU16(reader(65535))
	require.NoError(t, err)
	assert.Equal(t, uint16(65535), v16)

	_, err = ReadU32(reader(1 << 32))
	require.ErrorIs(t, err, ErrOutOfRange)

	_, err = ReadBool(reader(2))
	require.ErrorIs(t, err, ErrPrimitiveFromFelt)

	b, err := ReadBool(reader(1))
	require.NoError(t, err)
	assert.True(t, b)
}

func TestSignedReads(t *testing.T) {
	t.Parallel()

	r := NewFeltReader([]*felt.Felt{
		introspect.FeltFromInt(-128),
		introspect.FeltFromInt(-129),
		introspect.FeltFromInt(-1),
	})

	v8, err := ReadI8(r)
	require.NoError(t, err)
	assert.Equal(t, int8(-128), v8)

	_, err = ReadI8(r)
	require.ErrorIs(t, err, ErrOutOfRange)

	v128, err := ReadI128(r)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), v128.Int64())
}

func TestU256RoundTrip(t *testing.T) {
	t.Parallel()

	v := uint256.MustFromHex("0x1234567890abcdef1234567890abcdef00000000000000000000000000000001")
	w := NewFeltWriter(2)
	WriteU256(w, v)
	require.Equal(t, 2, w.Len())
	assert.Equal(t, uint64(1), introspect.UintFromFelt(w.Felts()[0]))

	got, err := ReadU256(NewFeltReader(w.Felts()))
	require.NoError(t, err)
	assert.True(t, v.Eq(got))

	_, err = ReadU256(NewFeltReader(w.Felts()[:1]))
	require.ErrorIs(t, err, ErrUnexpectedEof)
}

func TestU512RoundTrip(t *testing.T) {
	t.Parallel()

	v, ok := new(big.Int).SetString("1"+strings.Repeat("0", 150), 10)
	require.True(t, ok)

	w := NewFeltWriter(4)
	WriteU512(w, v)
	require.Equal(t, 4, w.Len())

	got, err := ReadU512(NewFeltReader(w.Felts()))
	require.NoError(t, err)
	assert.Equal(t, 0, v.Cmp(got))
}

func TestByteArrayLayout(t *testing.T) {
	t.Parallel()

	full := "abcdefghijklmnopqrstuvwxyz01234"
	w := NewFeltWriter(4)
	WriteString(w, full)
	require.Equal(t, []*felt.Felt{
		introspect.FeltFromUint(1),
		introspect.FeltFromShortString(full),
		introspect.FeltFromUint(0),
		introspect.FeltFromUint(0),
	}, w.Felts())

	s, err := ReadString(NewFeltReader(w.Felts()))
	require.NoError(t, err)
	assert.Equal(t, full, s)

	w.Reset()
	WriteString(w, "ab")
	require.Equal(t, []*felt.Felt{
		introspect.FeltFromUint(0),
		introspect.FeltFromUint(0x6162),
		introspect.FeltFromUint(2),
	}, w.Felts())
}

func TestByteArrayErrors(t *testing.T) {
	t.Parallel()

	_, err := ReadByteArray(reader(0, 0x6162))
	require.ErrorIs(t, err, ErrUnexpectedEof)

	_, err = ReadByteArray(reader(0, 0x616263, 2))
	require.ErrorIs(t, err, ErrInvalidByteArray)

	_, err = ReadByteArray(reader(0, 0, 31))
	require.ErrorIs(t, err, ErrInvalidLen)

	// a huge word count fails on the missing words instead of allocating
	_, err = ReadByteArray(reader(0xffffffff))
	require.ErrorIs(t, err, ErrUnexpectedEof)

	_, err = ReadByteArray(reader(0xffffffff, 0x61))
	require.ErrorIs(t, err, ErrUnexpectedEof)

	_, err = ReadString(NewFeltReader([]*felt.Felt{
		introspect.FeltFromUint(0),
		introspect.FeltFromBytes([]byte{0x61, 0xff}),
		introspect.FeltFromUint(2),
	}))
	var serr *Error
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, KindUtf8, serr.Kind)
	assert.Equal(t, 1, serr.ValidUpTo)
}

func TestIByteArrayBoundaries(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 30, 31, 32, 62} {
		data := bytes.Repeat([]byte{'x'}, n)
		w := NewFeltWriter(0)
		WriteIByteArray(w, data)
		require.Equal(t, IByteArrayLen(n), w.Len(), "length %d", n)

		r := NewFeltReader(w.Felts())
		got, err := ReadIByteArray(r)
		require.NoError(t, err, "length %d", n)
		require.True(t, r.IsEOF())
		assert.Equal(t, data, append([]byte{}, got...), "length %d", n)
	}
}

func TestIByteArrayErrors(t *testing.T) {
	t.Parallel()

	var word [32]byte
	word[0] = 0x05
	_, err := ReadIByteArray(NewFeltReader([]*felt.Felt{new(felt.Felt).SetBytes(word[:])}))
	require.ErrorIs(t, err, ErrInvalidByteArray)

	// a full non-final word with nothing after it
	word[0] = 0
	_, err = ReadIByteArray(NewFeltReader([]*felt.Felt{new(felt.Felt).SetBytes(word[:])}))
	require.ErrorIs(t, err, ErrUnexpectedEof)

	word[0] = HeaderLast | HeaderShort
	word[1] = 2
	word[10] = 1
	_, err = ReadIByteArray(NewFeltReader([]*felt.Felt{new(felt.Felt).SetBytes(word[:])}))
	require.ErrorIs(t, err, ErrInvalidByteArray)
}

func TestDataFlag(t *testing.T) {
	t.Parallel()

	id := introspect.FeltFromShortString("key")
	flagged, err := FlagData(id)
	require.NoError(t, err)
	require.False(t, flagged.Equal(id))

	back, ok := SplitData(flagged)
	require.True(t, ok)
	assert.True(t, back.Equal(id))

	_, ok = SplitData(id)
	assert.False(t, ok)
}

func TestDrain(t *testing.T) {
	t.Parallel()

	got, err := Drain(reader(1, 2, 3), ReadU8)
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 2, 3}, got)

	got, err = Drain(reader(), ReadU8)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = Drain(reader(1, 2), ReadU256)
	require.NoError(t, err)

	_, err = Drain(reader(1, 2, 3), ReadU256)
	require.ErrorIs(t, err, ErrUnexpectedEof)
}

func TestOptionTags(t *testing.T) {
	t.Parallel()

	w := NewFeltWriter(4)
	Serde.WriteOptionTag(w, true)
	Serde.WriteOptionTag(w, false)
	ISerde.WriteOptionTag(w, true)
	ISerde.WriteOptionTag(w, false)
	assert.Equal(t, introspect.Felts(0, 1, 1, 0), w.Felts())

	some, err := Serde.ReadOptionTag(reader(1), "Option")
	require.NoError(t, err)
	assert.False(t, some)

	_, err = ISerde.ReadOptionTag(reader(2), "Option")
	require.ErrorIs(t, err, ErrInvalidTag)

	framing, err := ParseFraming("ISerde")
	require.NoError(t, err)
	assert.Equal(t, ISerde, framing)
}

func TestByteArrayProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	for _, framing := range []Framing{Serde, ISerde} {
		framing := framing
		properties.Property(framing.String()+" byte arrays round trip", prop.ForAll(
			func(data []byte) bool {
				w := NewFeltWriter(0)
				framing.WriteBytes(w, data)
				if w.Len() != framing.BytesLen(len(data)) {
					return false
				}
				r := NewFeltReader(w.Felts())
				got, err := framing.ReadBytes(r)
				return err == nil && r.IsEOF() && bytes.Equal(got, data)
			},
			gen.SliceOf(gen.UInt8()),
		))
	}

	properties.TestingRun(t)
}

func TestCheckUTF8(t *testing.T) {
	t.Parallel()

	require.NoError(t, CheckUTF8([]byte("héllo")))

	var serr *Error
	require.True(t, errors.As(CheckUTF8([]byte{'a', 0xe2, 0x82}), &serr))
	assert.Equal(t, 1, serr.ValidUpTo)
	assert.Equal(t, 0, serr.ErrorLen)
}
