package value

import (
	"math/big"
	"testing"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartridge-gg/introspect"
	"github.com/cartridge-gg/introspect/selector"
	"github.com/cartridge-gg/introspect/serde"
	"github.com/cartridge-gg/introspect/typedef"
)

func shapeEnum(t *testing.T) *typedef.Enum {
	e, err := typedef.NewEnum("Shape", nil, []typedef.VariantDef{
		{Selector: *selector.Keccak("Circle"), Name: "Circle", TypeDef: typedef.U32},
		{Selector: *selector.Keccak("Empty"), Name: "Empty", TypeDef: typedef.None},
	})
	require.NoError(t, err)
	return e
}

func TestOptionEncoding(t *testing.T) {
	t.Parallel()

	def := typedef.Option{Elem: typedef.U32}

	felts, err := EncodeFelts(Some(Uint(7)), def, serde.Serde)
	require.NoError(t, err)
	assert.Equal(t, introspect.Felts(0, 7), felts)

	felts, err = EncodeFelts(Option{}, def, serde.Serde)
	require.NoError(t, err)
	assert.Equal(t, introspect.Felts(1), felts)

	felts, err = EncodeFelts(Option{}, def, serde.ISerde)
	require.NoError(t, err)
	assert.Equal(t, introspect.Felts(0), felts)

	v, err := DecodeFelts(def, introspect.Felts(0, 7), serde.Serde)
	require.NoError(t, err)
	assert.True(t, Equal(Some(Uint(7)), v))
}

func TestResultEncoding(t *testing.T) {
	t.Parallel()

	def := typedef.Result{Ok: typedef.U8, Err: typedef.ByteArray}

	felts, err := EncodeFelts(Ok(Uint(3)), def, serde.ISerde)
	require.NoError(t, err)
	assert.Equal(t, introspect.Felts(0, 3), felts)

	felts, err = EncodeFelts(Err(Bytes("ab")), def, serde.Serde)
	require.NoError(t, err)
	assert.Equal(t, introspect.Felts(1, 0, 0x6162, 2), felts)

	_, err = DecodeFelts(def, introspect.Felts(2, 0), serde.Serde)
	require.ErrorIs(t, err, serde.ErrInvalidTag)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	shape := shapeEnum(t)
	def := &typedef.Struct{
		Name: "Everything",
		Members: []typedef.MemberDef{
			{Name: "felt", TypeDef: typedef.Felt252},
			{Name: "flag", TypeDef: typedef.Bool},
			{Name: "small", TypeDef: typedef.I8},
			{Name: "wide", TypeDef: typedef.U256},
			{Name: "huge", TypeDef: typedef.U512},
			{Name: "signed", TypeDef: typedef.I128},
			{Name: "name", TypeDef: typedef.Utf8String},
			{Name: "short", TypeDef: typedef.ShortUtf8},
			{Name: "pair", TypeDef: typedef.Tuple{Elements: []typedef.TypeDef{typedef.U16, typedef.Bool}}},
			{Name: "list", TypeDef: typedef.Array{Elem: typedef.U64}},
			{Name: "fixed", TypeDef: typedef.FixedArray{Elem: typedef.U8, Size: 2}},
			{Name: "empty", TypeDef: typedef.FixedArray{Elem: typedef.U8, Size: 0}},
			{Name: "shape", TypeDef: shape},
			{Name: "maybe", TypeDef: typedef.Nullable{Elem: typedef.ContractAddress}},
			{Name: "custom", TypeDef: typedef.Custom{Encoding: "raw"}},
			{Name: "json", TypeDef: typedef.ByteArrayEncoded{Encoding: "json"}},
		},
	}

	huge, ok := new(big.Int).SetString("123456789012345678901234567890123456789012345678901234567890", 10)
	require.True(t, ok)

	v := &Struct{
		Name: "Everything",
		Members: []Member{
			{Name: "felt", Value: FeltFrom(0xabc)},
			{Name: "flag", Value: Bool(true)},
			{Name: "small", Value: Int(-5)},
			{Name: "wide", Value: U256{Value: uint256.MustFromDecimal("340282366920938463463374607431768211457")}},
			{Name: "huge", Value: BigUint{Value: huge}},
			{Name: "signed", Value: BigInt{Value: big.NewInt(-42)}},
			{Name: "name", Value: String("héllo wörld, this string is longer than one word")},
			{Name: "short", Value: String("short")},
			{Name: "pair", Value: Tuple{Uint(9), Bool(false)}},
			{Name: "list", Value: Array{Uint(1), Uint(2), Uint(3)}},
			{Name: "fixed", Value: FixedArray{Uint(4), Uint(5)}},
			{Name: "empty", Value: FixedArray{}},
			{Name: "shape", Value: &Enum{Name: "Shape", Variant: "Circle", Selector: *selector.Keccak("Circle"), Value: Uint(10)}},
			{Name: "maybe", Value: Nullable{NotNull: true, Value: FeltFrom(0x1234)}},
			{Name: "custom", Value: Custom{Encoding: "raw", Values: introspect.Felts(1, 2)}},
			{Name: "json", Value: EncodedBytes{Encoding: "json", Bytes: []byte(`{"a":1}`)}},
		},
	}

	for _, framing := range []serde.Framing{serde.Serde, serde.ISerde} {
		felts, err := EncodeFelts(v, def, framing)
		require.NoError(t, err, framing.String())

		got, err := DecodeFelts(def, felts, framing)
		require.NoError(t, err, framing.String())
		assert.True(t, Equal(v, got), framing.String())

		again, err := EncodeFelts(got, def, framing)
		require.NoError(t, err)
		assert.Equal(t, felts, again)
	}
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	shape := shapeEnum(t)
	_, err := DecodeFelts(shape, introspect.Felts(99), serde.Serde)
	require.ErrorIs(t, err, serde.ErrInvalidEnumSelector)

	_, err = DecodeFelts(typedef.Tuple{Elements: []typedef.TypeDef{typedef.U8, typedef.U8}}, introspect.Felts(1), serde.Serde)
	require.ErrorIs(t, err, serde.ErrUnexpectedEof)

	_, err = DecodeFelts(typedef.U8, introspect.Felts(1, 2), serde.Serde)
	require.ErrorIs(t, err, serde.ErrNotEof)

	_, err = DecodeFelts(typedef.Ref{ID: *introspect.FeltFromUint(1)}, introspect.Felts(1), serde.Serde)
	require.ErrorIs(t, err, serde.ErrInvariantViolation)

	_, err = DecodeFelts(typedef.Felt252Dict{Elem: typedef.U8}, introspect.Felts(0), serde.Serde)
	require.ErrorIs(t, err, serde.ErrInvalidEncoding)

	var tooBig felt.Felt
	tooBig.SetBytes(append([]byte{1}, make([]byte, 20)...))
	_, err = DecodeFelts(typedef.EthAddress, []*felt.Felt{&tooBig}, serde.Serde)
	require.ErrorIs(t, err, serde.ErrOutOfRange)
}

func TestEncodeMismatch(t *testing.T) {
	t.Parallel()

	_, err := EncodeFelts(Bool(true), typedef.U8, serde.Serde)
	require.ErrorIs(t, err, serde.ErrInvalidEncoding)

	_, err = EncodeFelts(Uint(256), typedef.U8, serde.Serde)
	require.ErrorIs(t, err, serde.ErrMessage)

	_, err = EncodeFelts(FixedArray{Uint(1)}, typedef.FixedArray{Elem: typedef.U8, Size: 2}, serde.Serde)
	require.ErrorIs(t, err, serde.ErrUnexpectedLen)
}

func TestEncodeRangeChecks(t *testing.T) {
	t.Parallel()

	limit := new(big.Int).Lsh(big.NewInt(1), 127)
	_, err := EncodeFelts(BigInt{Value: limit}, typedef.I128, serde.Serde)
	require.ErrorIs(t, err, serde.ErrMessage)
	_, err = EncodeFelts(BigInt{Value: new(big.Int).Neg(new(big.Int).Add(limit, big.NewInt(1)))}, typedef.I128, serde.Serde)
	require.ErrorIs(t, err, serde.ErrMessage)

	felts, err := EncodeFelts(BigInt{Value: new(big.Int).Neg(limit)}, typedef.I128, serde.Serde)
	require.NoError(t, err)
	back, err := DecodeFelts(typedef.I128, felts, serde.Serde)
	require.NoError(t, err)
	assert.Zero(t, back.(BigInt).Value.Cmp(new(big.Int).Neg(limit)))

	var addr Felt
	addr.Value.SetBytes(append([]byte{1}, make([]byte, 20)...))
	_, err = EncodeFelts(addr, typedef.EthAddress, serde.Serde)
	require.ErrorIs(t, err, serde.ErrMessage)

	addr.Value.SetUint64(0xabc)
	_, err = EncodeFelts(addr, typedef.EthAddress, serde.Serde)
	require.NoError(t, err)
}
