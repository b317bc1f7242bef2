package transcode

import (
	"math/big"
	"testing"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/cockroachdb/errors"
	"github.com/fxamacker/cbor/v2"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartridge-gg/introspect"
	"github.com/cartridge-gg/introspect/selector"
	"github.com/cartridge-gg/introspect/serde"
	"github.com/cartridge-gg/introspect/typedef"
	"github.com/cartridge-gg/introspect/value"
)

func point() *typedef.Struct {
	return &typedef.Struct{
		Name: "P",
		Members: []typedef.MemberDef{
			{Name: "x", TypeDef: typedef.U128},
			{Name: "y", TypeDef: typedef.U128},
		},
	}
}

func TestStructToJSON(t *testing.T) {
	t.Parallel()

	out, err := ToJSON(point(), introspect.Felts(100, 200), serde.Serde)
	require.NoError(t, err)
	assert.Equal(t, `{"x":"100","y":"200"}`, string(out))
}

func TestJSONShapes(t *testing.T) {
	t.Parallel()

	shape, err := typedef.NewEnum("Shape", nil, []typedef.VariantDef{
		{Selector: *selector.Keccak("Circle"), Name: "Circle", TypeDef: typedef.U32},
		{Selector: *selector.Keccak("Empty"), Name: "Empty", TypeDef: typedef.None},
	})
	require.NoError(t, err)

	tests := []struct {
		name  string
		def   typedef.TypeDef
		felts []*felt.Felt
		want  string
	}{
		{"small ints are numbers", typedef.Tuple{Elements: []typedef.TypeDef{typedef.U8, typedef.I32}}, []*felt.Felt{introspect.FeltFromUint(7), introspect.FeltFromInt(-3)}, `[7,-3]`},
		{"array", typedef.Array{Elem: typedef.Bool}, introspect.Felts(2, 1, 0), `[true,false]`},
		{"empty fixed array", typedef.FixedArray{Elem: typedef.U8, Size: 0}, nil, `[]`},
		{"felt is hex", typedef.ContractAddress, introspect.Felts(0xabc), `"0xabc"`},
		{"u256 is decimal", typedef.U256, introspect.Felts(1, 1), `"340282366920938463463374607431768211457"`},
		{"option none", typedef.Option{Elem: typedef.U32}, introspect.Felts(1), `null`},
		{"option some", typedef.Option{Elem: typedef.U32}, introspect.Felts(0, 9), `9`},
		{"result ok", typedef.Result{Ok: typedef.U8, Err: typedef.U8}, introspect.Felts(0, 4), `{"Ok":4}`},
		{"result err", typedef.Result{Ok: typedef.U8, Err: typedef.Bool}, introspect.Felts(1, 1), `{"Err":true}`},
		{"enum", shape, []*felt.Felt{selector.Keccak("Circle"), introspect.FeltFromUint(5)}, `{"Circle":5}`},
		{"unit variant", shape, []*felt.Felt{selector.Keccak("Empty")}, `{"Empty":null}`},
		{"byte array is hex", typedef.ByteArray, introspect.Felts(0, 0x6162, 2), `"0x6162"`},
		{"utf8 is a string", typedef.Utf8String, introspect.Felts(0, 0x6162, 2), `"ab"`},
		{"custom", typedef.Custom{Encoding: "raw"}, introspect.Felts(2, 1, 2), `["0x1","0x2"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ToJSON(tt.def, tt.felts, serde.Serde)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
		})
	}
}

func TestJSONEncodedBytes(t *testing.T) {
	t.Parallel()

	w := serde.NewFeltWriter(4)
	serde.WriteByteArray(w, []byte(`{ "a": 1 }`))

	out, err := ToJSON(typedef.ByteArrayEncoded{Encoding: "json"}, w.Felts(), serde.Serde)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(out))
}

func TestJSONMap(t *testing.T) {
	t.Parallel()

	s := NewJSONSink()
	require.NoError(t, s.BeginMap(2))
	require.NoError(t, s.Key("a"))
	require.NoError(t, s.Uint(typedef.KindU8, 1))
	require.NoError(t, s.Key("b"))
	require.NoError(t, s.BeginSeq(typedef.KindArray, 0))
	require.NoError(t, s.EndSeq())
	require.NoError(t, s.EndMap())
	assert.Equal(t, `{"a":1,"b":[]}`, string(s.Document()))
	assert.Contains(t, string(s.Pretty()), "\n")

	require.Error(t, NewJSONSink().Key("a"))
}

func TestCBOR(t *testing.T) {
	t.Parallel()

	out, err := ToCBOR(point(), introspect.Felts(100, 200), serde.Serde)
	require.NoError(t, err)

	var decoded map[string][]byte
	require.NoError(t, cbor.Unmarshal(out, &decoded))
	assert.Equal(t, []byte{100}, decoded["x"])
	assert.Equal(t, []byte{200}, decoded["y"])
}

func everything(t *testing.T) (typedef.TypeDef, value.Value) {
	shape, err := typedef.NewEnum("Shape", []typedef.Attribute{typedef.NewAttribute(selector.MustASCII("tag"), nil)}, []typedef.VariantDef{
		{Selector: *selector.Keccak("Circle"), Name: "Circle", TypeDef: typedef.U32},
		{Selector: *selector.Keccak("Square"), Name: "Square", TypeDef: typedef.Tuple{Elements: []typedef.TypeDef{typedef.U8, typedef.U8}}},
	})
	require.NoError(t, err)

	def := &typedef.Struct{
		Name: "Everything",
		Members: []typedef.MemberDef{
			{Name: "id", TypeDef: typedef.Felt252},
			{Name: "wide", TypeDef: typedef.U256},
			{Name: "huge", TypeDef: typedef.U512},
			{Name: "signed", TypeDef: typedef.I128},
			{Name: "small", TypeDef: typedef.I16},
			{Name: "name", TypeDef: typedef.Utf8String},
			{Name: "label", TypeDef: typedef.ShortUtf8},
			{Name: "word", TypeDef: typedef.Bytes31},
			{Name: "list", TypeDef: typedef.Array{Elem: typedef.Option{Elem: typedef.U64}}},
			{Name: "fixed", TypeDef: typedef.FixedArray{Elem: typedef.Bool, Size: 2}},
			{Name: "shape", TypeDef: shape},
			{Name: "res", TypeDef: typedef.Result{Ok: typedef.U8, Err: typedef.ByteArray}},
			{Name: "maybe", TypeDef: typedef.Nullable{Elem: typedef.EthAddress}},
			{Name: "custom", TypeDef: typedef.Custom{Encoding: "raw"}},
			{Name: "blob", TypeDef: typedef.ByteArrayEncoded{Encoding: "json"}},
			{Name: "tag", TypeDef: typedef.Bytes31Encoded{Encoding: "ascii"}},
			{Name: "unit", TypeDef: typedef.None},
		},
	}

	huge, ok := new(big.Int).SetString("98765432109876543210987654321098765432109876543210", 10)
	require.True(t, ok)

	v := &value.Struct{
		Name: "Everything",
		Members: []value.Member{
			{Name: "id", Value: value.FeltFrom(0xdead)},
			{Name: "wide", Value: value.U256{Value: uint256.NewInt(0).Lsh(uint256.NewInt(3), 200)}},
			{Name: "huge", Value: value.BigUint{Value: huge}},
			{Name: "signed", Value: value.BigInt{Value: big.NewInt(-77)}},
			{Name: "small", Value: value.Int(-300)},
			{Name: "name", Value: value.String("a string comfortably longer than thirty one bytes")},
			{Name: "label", Value: value.String("label")},
			{Name: "word", Value: value.Bytes("abcdefghijklmnopqrstuvwxyz01234")},
			{Name: "list", Value: value.Array{value.Some(value.Uint(1)), value.Option{}}},
			{Name: "fixed", Value: value.FixedArray{value.Bool(true), value.Bool(false)}},
			{Name: "shape", Value: &value.Enum{
				Name:       "Shape",
				Attributes: shape.Attributes,
				Variant:    "Square",
				Selector:   *selector.Keccak("Square"),
				Value:      value.Tuple{value.Uint(2), value.Uint(3)},
			}},
			{Name: "res", Value: value.Err(value.Bytes("bad"))},
			{Name: "maybe", Value: value.Nullable{NotNull: true, Value: value.FeltFrom(0xbeef)}},
			{Name: "custom", Value: value.Custom{Encoding: "raw", Values: introspect.Felts(9, 8, 7)}},
			{Name: "blob", Value: value.EncodedBytes{Encoding: "json", Bytes: []byte(`[1,2]`)}},
			{Name: "tag", Value: value.EncodedBytes{Encoding: "ascii", Bytes: []byte("0123456789012345678901234567890")}},
			{Name: "unit", Value: value.None{}},
		},
	}
	return def, v
}

func TestBinaryValueBinaryIdentity(t *testing.T) {
	t.Parallel()

	def, v := everything(t)

	for _, framing := range []serde.Framing{serde.Serde, serde.ISerde} {
		felts, err := value.EncodeFelts(v, def, framing)
		require.NoError(t, err, framing.String())

		got, err := ToValue(def, felts, framing)
		require.NoError(t, err, framing.String())
		assert.True(t, value.Equal(v, got), framing.String())

		again, err := value.EncodeFelts(got, def, framing)
		require.NoError(t, err)
		assert.Equal(t, felts, again, framing.String())

		direct, err := value.DecodeFelts(def, felts, framing)
		require.NoError(t, err)
		assert.True(t, value.Equal(direct, got))
	}
}

func TestReframe(t *testing.T) {
	t.Parallel()

	def, v := everything(t)

	serdeFelts, err := value.EncodeFelts(v, def, serde.Serde)
	require.NoError(t, err)
	iserdeFelts, err := value.EncodeFelts(v, def, serde.ISerde)
	require.NoError(t, err)

	out, err := Reframe(def, serdeFelts, serde.Serde, serde.ISerde)
	require.NoError(t, err)
	assert.Equal(t, iserdeFelts, out)

	back, err := Reframe(def, out, serde.ISerde, serde.Serde)
	require.NoError(t, err)
	assert.Equal(t, serdeFelts, back)
}

func TestErrorSides(t *testing.T) {
	t.Parallel()

	_, err := ToJSON(typedef.U8, introspect.Felts(300), serde.Serde)
	require.ErrorIs(t, err, serde.ErrOutOfRange)
	side, ok := SideOf(err)
	require.True(t, ok)
	assert.Equal(t, Deserialize, side)

	_, err = ToJSON(point(), introspect.Felts(1), serde.Serde)
	require.ErrorIs(t, err, serde.ErrUnexpectedEof)

	_, err = ToJSON(typedef.U8, introspect.Felts(1, 2), serde.Serde)
	require.ErrorIs(t, err, serde.ErrNotEof)

	_, err = ToJSON(typedef.Ref{ID: *introspect.FeltFromUint(0xaa)}, introspect.Felts(1), serde.Serde)
	require.ErrorIs(t, err, serde.ErrInvariantViolation)

	_, err = ToJSON(typedef.Felt252Dict{Elem: typedef.U8}, introspect.Felts(0), serde.Serde)
	require.ErrorIs(t, err, serde.ErrInvalidEncoding)

	_, err = Reframe(typedef.U128, introspect.Felts(1), serde.Serde, serde.ISerde)
	require.NoError(t, err)

	err = TranscodeFelts(typedef.U8, introspect.Felts(1), serde.Serde, failingSink{})
	require.Error(t, err)
	side, ok = SideOf(err)
	require.True(t, ok)
	assert.Equal(t, Serialize, side)
	assert.True(t, errors.Is(err, errSinkFull))
}

var errSinkFull = errors.New("sink full")

type failingSink struct {
	*ValueSink
}

func (failingSink) Uint(typedef.Kind, uint64) error {
	return errSinkFull
}
