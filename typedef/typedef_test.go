package typedef

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartridge-gg/introspect"
	"github.com/cartridge-gg/introspect/selector"
	"github.com/cartridge-gg/introspect/serde"
)

func point() *Struct {
	return &Struct{
		Name: "Point",
		Members: []MemberDef{
			{Name: "x", TypeDef: U32},
			{Name: "y", TypeDef: U32},
		},
	}
}

func randomName(rng *rand.Rand) string {
	const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_é"
	runes := []rune(letters)
	n := rng.Intn(40)
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteRune(runes[rng.Intn(len(runes))])
	}
	return b.String()
}

func randomAttributes(rng *rand.Rand) []Attribute {
	n := rng.Intn(3)
	var attrs []Attribute
	for i := 0; i < n; i++ {
		a := Attribute{ID: *selector.MustASCII(fmt.Sprintf("attr%d", i))}
		if rng.Intn(2) == 0 {
			a.Data = []byte(randomName(rng))
		}
		attrs = append(attrs, a)
	}
	return attrs
}

func randomTypeDef(rng *rand.Rand, depth int) TypeDef {
	if depth <= 0 {
		return Scalar(Kind(rng.Intn(int(KindUtf8String) + 1)))
	}
	switch rng.Intn(14) {
	case 0:
		return ByteArrayEncoded{Encoding: randomName(rng)}
	case 1:
		return Bytes31Encoded{Encoding: randomName(rng)}
	case 2:
		elems := make([]TypeDef, rng.Intn(4))
		for i := range elems {
			elems[i] = randomTypeDef(rng, depth-1)
		}
		return Tuple{Elements: elems}
	case 3:
		return Array{Elem: randomTypeDef(rng, depth-1)}
	case 4:
		return FixedArray{Elem: randomTypeDef(rng, depth-1), Size: rng.Uint32()}
	case 5:
		return Felt252Dict{Elem: randomTypeDef(rng, depth-1)}
	case 6:
		s := &Struct{Name: randomName(rng), Attributes: randomAttributes(rng)}
		for i := rng.Intn(4); i > 0; i-- {
			s.Members = append(s.Members, MemberDef{
				Name:       randomName(rng),
				Attributes: randomAttributes(rng),
				TypeDef:    randomTypeDef(rng, depth-1),
			})
		}
		return s
	case 7:
		var variants []VariantDef
		for i := rng.Intn(4); i > 0; i-- {
			name := randomName(rng)
			variants = append(variants, VariantDef{
				Selector:   *selector.Keccak(name + string(rune('a'+i))),
				Name:       name,
				Attributes: randomAttributes(rng),
				TypeDef:    randomTypeDef(rng, depth-1),
			})
		}
		e, err := NewEnum(randomName(rng), randomAttributes(rng), variants)
		if err != nil {
			panic(err)
		}
		return e
	case 8:
		return Option{Elem: randomTypeDef(rng, depth-1)}
	case 9:
		return Result{Ok: randomTypeDef(rng, depth-1), Err: randomTypeDef(rng, depth-1)}
	case 10:
		return Nullable{Elem: randomTypeDef(rng, depth-1)}
	case 11:
		return Custom{Encoding: randomName(rng)}
	default:
		return randomTypeDef(rng, depth-1)
	}
}

func TestRoundTripProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	for _, framing := range []serde.Framing{serde.Serde, serde.ISerde} {
		framing := framing
		properties.Property(framing.String()+" decode(encode(t)) == t", prop.ForAll(
			func(seed int64) bool {
				def := randomTypeDef(rand.New(rand.NewSource(seed)), 4)
				felts, err := EncodeFelts(def, framing)
				if err != nil {
					return false
				}
				got, err := DecodeFelts(felts, framing)
				if err != nil || !Equal(def, got) {
					return false
				}
				again, err := EncodeFelts(got, framing)
				return err == nil && assert.ObjectsAreEqual(felts, again)
			},
			gen.Int64(),
		))
	}

	properties.Property("json round trip", prop.ForAll(
		func(seed int64) bool {
			def := randomTypeDef(rand.New(rand.NewSource(seed)), 4)
			data, err := MarshalJSON(def)
			if err != nil {
				return false
			}
			got, err := ParseJSON(data)
			return err == nil && Equal(def, got)
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}

func TestEncodeLayout(t *testing.T) {
	t.Parallel()

	felts, err := EncodeFelts(Option{Elem: U32}, serde.Serde)
	require.NoError(t, err)
	require.Equal(t, []*felt.Felt{
		selector.MustASCII("Option"),
		selector.MustASCII("U32"),
	}, felts)

	felts, err = EncodeFelts(FixedArray{Elem: U8, Size: 0}, serde.Serde)
	require.NoError(t, err)
	require.Equal(t, []*felt.Felt{
		selector.MustASCII("FixedArray"),
		selector.MustASCII("U8"),
		introspect.FeltFromUint(0),
	}, felts)

	felts, err = EncodeFelts(point(), serde.Serde)
	require.NoError(t, err)
	expected := []*felt.Felt{selector.MustASCII("Struct")}
	expected = append(expected, introspect.Felts(0, 0x506f696e74, 5)...) // "Point"
	expected = append(expected, introspect.Felts(0, 2)...)                // no attributes, two members
	expected = append(expected, introspect.Felts(0, 'x', 1, 0)...)
	expected = append(expected, selector.MustASCII("U32"))
	expected = append(expected, introspect.Felts(0, 'y', 1, 0)...)
	expected = append(expected, selector.MustASCII("U32"))
	require.Equal(t, expected, felts)
}

func TestEncodeRejectsUnknownScalar(t *testing.T) {
	t.Parallel()

	for _, k := range []Kind{KindStruct, numKinds, numKinds + 7} {
		w := serde.NewFeltWriter(0)
		require.NotPanics(t, func() {
			err := Encode(w, Scalar(k), serde.Serde)
			require.ErrorIs(t, err, serde.ErrInvalidEncoding)
		})
		assert.Empty(t, w.Felts())
	}
}

func TestAttributeFramings(t *testing.T) {
	t.Parallel()

	attrs := []Attribute{
		{ID: *selector.MustASCII("key")},
		{ID: *selector.MustASCII("name"), Data: []byte("renamed")},
		{ID: *selector.MustASCII("empty"), Data: []byte{}},
	}

	for _, framing := range []serde.Framing{serde.Serde, serde.ISerde} {
		w := serde.NewFeltWriter(0)
		require.NoError(t, EncodeAttributes(w, attrs, framing))

		r := serde.NewFeltReader(w.Felts())
		got, err := DecodeAttributes(r, framing)
		require.NoError(t, err, framing.String())
		require.True(t, r.IsEOF())
		require.True(t, attributesEqual(attrs, got), framing.String())
	}

	w := serde.NewFeltWriter(0)
	require.NoError(t, EncodeAttribute(w, attrs[0], serde.Serde))
	assert.Equal(t, []*felt.Felt{selector.MustASCII("key"), introspect.FeltFromUint(1)}, w.Felts())

	w.Reset()
	require.NoError(t, EncodeAttribute(w, attrs[0], serde.ISerde))
	assert.Equal(t, []*felt.Felt{selector.MustASCII("key")}, w.Felts())
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	_, err := DecodeFelts(introspect.Felts(0x1234), serde.Serde)
	require.ErrorIs(t, err, serde.ErrInvalidTag)

	_, err = DecodeFelts([]*felt.Felt{selector.MustASCII("Array")}, serde.Serde)
	require.ErrorIs(t, err, serde.ErrUnexpectedEof)

	_, err = DecodeFelts(nil, serde.Serde)
	require.ErrorIs(t, err, serde.ErrEof)

	_, err = DecodeFelts([]*felt.Felt{selector.MustASCII("U8"), selector.MustASCII("U8")}, serde.Serde)
	require.ErrorIs(t, err, serde.ErrTrailingData)

	deep := make([]*felt.Felt, 0, MaxDepth+2)
	for i := 0; i < MaxDepth+2; i++ {
		deep = append(deep, selector.MustASCII("Array"))
	}
	deep = append(deep, selector.MustASCII("U8"))
	_, err = DecodeFelts(deep, serde.Serde)
	require.ErrorIs(t, err, serde.ErrInvalidEncoding)
}

func TestEnumInvariants(t *testing.T) {
	t.Parallel()

	sel := selector.Keccak("A")
	_, err := NewEnum("E", nil, []VariantDef{
		{Selector: *sel, Name: "A", TypeDef: None},
		{Selector: *sel, Name: "B", TypeDef: None},
	})
	require.ErrorIs(t, err, serde.ErrInvariantViolation)

	e, err := NewEnum("E", nil, []VariantDef{
		{Selector: *selector.Keccak("B"), Name: "B", TypeDef: U8},
		{Selector: *sel, Name: "A", TypeDef: None},
	})
	require.NoError(t, err)
	require.NoError(t, e.Validate())
	assert.Equal(t, "B", e.OrderedVariants()[0].Name)

	v, ok := e.Variant(sel)
	require.True(t, ok)
	assert.Equal(t, "A", v.Name)

	e.Order = e.Order[:1]
	require.ErrorIs(t, e.Validate(), serde.ErrInvariantViolation)
}

func TestTupleReducer(t *testing.T) {
	t.Parallel()

	assert.Equal(t, None, Tuple{}.ToTypeDef())
	assert.Equal(t, U8, Tuple{Elements: []TypeDef{U8}}.ToTypeDef())
	pair := Tuple{Elements: []TypeDef{U8, Bool}}
	assert.True(t, Equal(pair, pair.ToTypeDef()))
}

func TestLibraryExpand(t *testing.T) {
	t.Parallel()

	lib := NewLibrary()
	id := introspect.FeltFromUint(0xAA)
	lib.Add(id, U32)

	got, err := lib.Expand(Array{Elem: Ref{ID: *id}})
	require.NoError(t, err)
	assert.True(t, Equal(Array{Elem: U32}, got))

	nested := &Struct{Name: "S", Members: []MemberDef{
		{Name: "a", TypeDef: Option{Elem: Ref{ID: *id}}},
		{Name: "b", TypeDef: Tuple{Elements: []TypeDef{Ref{ID: *id}, Bool}}},
	}}
	var def TypeDef = nested
	require.NoError(t, lib.ExpandInPlace(&def))
	assert.False(t, HasRef(def))
	assert.True(t, Equal(Option{Elem: U32}, nested.Members[0].TypeDef))

	_, err = lib.Expand(Ref{ID: *introspect.FeltFromUint(0xBB)})
	require.ErrorIs(t, err, serde.ErrInvariantViolation)
}

func TestLibraryCycle(t *testing.T) {
	t.Parallel()

	lib := NewLibrary()
	id := introspect.FeltFromUint(0xAA)
	lib.Add(id, Ref{ID: *id})

	_, err := lib.Expand(Ref{ID: *id})
	require.ErrorIs(t, err, serde.ErrInvariantViolation)

	var def TypeDef = Array{Elem: Ref{ID: *id}}
	require.ErrorIs(t, lib.ExpandInPlace(&def), serde.ErrInvariantViolation)

	// a diamond is not a cycle
	other := introspect.FeltFromUint(0xCC)
	lib.Add(other, U8)
	got, err := lib.Expand(Tuple{Elements: []TypeDef{Ref{ID: *other}, Ref{ID: *other}}})
	require.NoError(t, err)
	assert.True(t, Equal(Tuple{Elements: []TypeDef{U8, U8}}, got))
}

func TestJSONNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "u32", JSONName(KindU32))
	assert.Equal(t, "felt252_dict", JSONName(KindFelt252Dict))
	assert.Equal(t, "byte_array_encoded", JSONName(KindByteArrayEncoded))

	def, err := ParseJSON([]byte(`{"type":"array","elem":{"type":"u8"}}`))
	require.NoError(t, err)
	assert.True(t, Equal(Array{Elem: U8}, def))

	_, err = ParseJSON([]byte(`{"type":"u7"}`))
	require.Error(t, err)
}

func TestCairoPrinter(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "introspect::TypeDef::U32", Cairo(U32, "introspect"))
	assert.Equal(t,
		"introspect::TypeDef::Array(BoxTrait::new(introspect::TypeDef::Felt252))",
		Cairo(Array{Elem: Felt252}, "introspect"),
	)
	assert.Equal(t,
		`ix::TypeDef::Struct(ix::StructDef { name: "Point", attributes: [].span(), members: [`+
			`ix::MemberDef { name: "x", attributes: [].span(), type_def: ix::TypeDef::U32 }, `+
			`ix::MemberDef { name: "y", attributes: [].span(), type_def: ix::TypeDef::U32 }].span() })`,
		Cairo(point(), "ix"),
	)
	assert.Equal(t, `"a\"b\x00"`, CairoString("a\"b\x00"))
}

func TestFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Array<U32>", Format(Array{Elem: U32}))
	assert.Equal(t, "(U8,)", Format(Tuple{Elements: []TypeDef{U8}}))
	assert.Equal(t, "()", Format(Tuple{}))
	assert.Equal(t, "struct Point { x: U32, y: U32 }", Format(point()))
}
