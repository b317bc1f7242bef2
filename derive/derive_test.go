package derive

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartridge-gg/introspect/ast"
	"github.com/cartridge-gg/introspect/selector"
	"github.com/cartridge-gg/introspect/typedef"
)

func parseItem(t *testing.T, src string) ast.Item {
	t.Helper()
	f, err := ast.ParseFile(src)
	require.NoError(t, err)
	require.Len(t, f.Items, 1)
	return f.Items[0]
}

func extract(t *testing.T, src string) Type {
	t.Helper()
	ty, err := Extract(parseItem(t, src))
	require.NoError(t, err)
	return ty
}

func TestExtractStruct(t *testing.T) {
	ty := extract(t, `
#[derive(Drop, Serde)]
#[attribute('table_kind', "log")]
struct Player {
    #[key]
    id: felt252,
    #[name("display_name")]
    name: ByteArray,
    #[id(7)]
    #[index]
    score: u32,
}`)
	s, ok := ty.(*IStruct)
	require.True(t, ok)
	assert.Equal(t, "Player", s.Name)
	assert.Equal(t, []string{"Drop", "Serde"}, s.Derives)
	assert.Equal(t, []IAttribute{{Name: "table_kind", Data: []byte("log")}}, s.Attributes)
	require.Len(t, s.Members, 3)

	id := s.Members[0]
	assert.True(t, id.Key)
	assert.Equal(t, []IAttribute{{Name: AttrKey}}, id.Attributes)
	assert.Equal(t, *selector.Keccak("id"), id.ID)

	name := s.Members[1]
	assert.Equal(t, "name", name.Field)
	assert.Equal(t, "display_name", name.Name)
	assert.Equal(t, *selector.Keccak("display_name"), name.ID)

	score := s.Members[2]
	assert.True(t, score.Index)
	assert.Equal(t, uint64(7), score.ID.Uint64())

	stripped := ast.ToCairo(s.Stripped())
	assert.Contains(t, stripped, "#[derive(Drop, Serde)]")
	assert.NotContains(t, stripped, "#[key]")
	assert.NotContains(t, stripped, "#[attribute")
	assert.NotContains(t, stripped, "#[name")
}

func TestExtractEnum(t *testing.T) {
	ty := extract(t, `
enum Shape {
    Circle: u32,
    #[id('sq')]
    Square: (u32, u32),
    Empty,
}`)
	e, ok := ty.(*IEnum)
	require.True(t, ok)
	require.Len(t, e.Variants, 3)
	assert.Equal(t, *selector.Keccak("Circle"), e.Variants[0].Selector)
	assert.Equal(t, *selector.MustASCII("sq"), e.Variants[1].Selector)
	assert.Nil(t, e.Variants[2].Type)
}

func TestExtractErrors(t *testing.T) {
	cases := map[string]struct {
		src  string
		kind ErrorKind
	}{
		"duplicate key": {
			src:  "struct A { #[key] #[key] a: u8 }",
			kind: KindDuplicateAttribute,
		},
		"duplicate user attribute": {
			src:  "struct A { #[attribute('x')] #[attribute('x')] a: u8 }",
			kind: KindDuplicateAttribute,
		},
		"duplicate selector": {
			src:  "enum E { #[id(1)] A, #[id(1)] B }",
			kind: KindDuplicateSelector,
		},
		"renamed member collides": {
			src:  "struct A { a: u8, #[name(\"a\")] b: u8 }",
			kind: KindDuplicateSelector,
		},
		"raw on number": {
			src:  "struct A { #[raw] a: u8 }",
			kind: KindInvalidAttribute,
		},
		"raw and encoded": {
			src:  "struct A { #[raw] #[encoded(\"hex\")] a: ByteArray }",
			kind: KindInvalidAttribute,
		},
		"key with argument": {
			src:  "struct A { #[key(1)] a: u8 }",
			kind: KindInvalidAttribute,
		},
		"key on variant": {
			src:  "enum E { #[key] A }",
			kind: KindInvalidAttribute,
		},
		"bad id": {
			src:  "struct A { #[id(zz)] a: u8 }",
			kind: KindInvalidAttribute,
		},
		"function": {
			src:  "fn f() {}",
			kind: KindUnsupportedItem,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Extract(parseItem(t, tc.src))
			require.Error(t, err)
			assert.True(t, IsKind(err, tc.kind), err.Error())
		})
	}
}

func TestErrorIs(t *testing.T) {
	_, err := Extract(parseItem(t, "struct A { #[key] #[key] a: u8 }"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateAttribute))
	assert.False(t, errors.Is(err, ErrDuplicateSelector))
	assert.Contains(t, err.Error(), "A.a")
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestCodeBuilder(t *testing.T) {
	var c code
	c.open("fn f() -> %s", "u8")
	c.line("0")
	c.close("%d")
	c.open("match x")
	c.close(",")
	assert.Equal(t, "fn f() -> u8 {\n    0\n}%d\nmatch x {\n},\n", c.String())
}

func TestGenerics(t *testing.T) {
	ty := extract(t, "struct Wrapper<T, U, const N: u32, +Drop<T>> { a: T, b: U }")
	g := ty.TypeGenerics()
	assert.Equal(t, []string{"T", "U"}, g.TypeNames())
	assert.Equal(t, "<T, U, N>", g.UseSite())
	assert.Equal(t, "::<T, U, N>", g.CallSite())
	assert.Equal(t, "<T, U, const N: u32, +Drop<T>, +Introspect<T>, +Introspect<U>>", g.Impl("Introspect"))
	assert.Equal(t, "Wrapper<T, U, N>", FullType(ty))

	plain := extract(t, "struct P { a: u8 }").TypeGenerics()
	assert.Equal(t, "", plain.UseSite())
	assert.Equal(t, "", plain.CallSite())
	assert.Equal(t, "", plain.Impl("Introspect"))
}

func TestStaticTypeDef(t *testing.T) {
	cases := map[string]struct {
		mod  TypeMod
		want typedef.TypeDef
	}{
		"u32":                        {want: typedef.U32},
		"core::integer::u128":        {want: typedef.U128},
		"ByteArray":                  {want: typedef.Utf8String},
		"bytes31":                    {want: typedef.ShortUtf8},
		"ContractAddress":            {want: typedef.ContractAddress},
		"()":                         {want: typedef.None},
		"(u8, bool)":                 {want: typedef.Tuple{Elements: []typedef.TypeDef{typedef.U8, typedef.Bool}}},
		"Array<u8>":                  {want: typedef.Array{Elem: typedef.U8}},
		"Span<felt252>":              {want: typedef.Array{Elem: typedef.Felt252}},
		"Option<Array<u16>>":         {want: typedef.Option{Elem: typedef.Array{Elem: typedef.U16}}},
		"Result<u8, felt252>":        {want: typedef.Result{Ok: typedef.U8, Err: typedef.Felt252}},
		"Nullable<i64>":              {want: typedef.Nullable{Elem: typedef.I64}},
		"Felt252Dict<u8>":            {want: typedef.Felt252Dict{Elem: typedef.U8}},
		"[u8; 4]":                    {want: typedef.FixedArray{Elem: typedef.U8, Size: 4}},
		"ByteArray ":                 {mod: TypeMod{Raw: true}, want: typedef.ByteArray},
		"bytes31 ":                   {mod: TypeMod{Encoding: "ascii"}, want: typedef.Bytes31Encoded{Encoding: "ascii"}},
		"Array<ByteArray>":           {mod: TypeMod{Raw: true}, want: typedef.Array{Elem: typedef.Utf8String}},
		"(ContractAddress, bytes31)": {want: typedef.Tuple{Elements: []typedef.TypeDef{typedef.ContractAddress, typedef.ShortUtf8}}},
	}
	for src, tc := range cases {
		ty, err := ast.ParseType(src)
		require.NoError(t, err, src)
		got, ok := StaticTypeDef(ty, tc.mod)
		require.True(t, ok, src)
		assert.True(t, typedef.Equal(tc.want, got), "%s: got %s", src, typedef.Format(got))
	}

	for _, src := range []string{"Point", "Array<Point>", "Option<T>", "Box<u8>"} {
		ty, err := ast.ParseType(src)
		require.NoError(t, err)
		_, ok := StaticTypeDef(ty, TypeMod{})
		assert.False(t, ok, src)
	}
}

func TestTypeWriterMatchesTypeDefPrinter(t *testing.T) {
	for _, src := range []string{"u32", "Array<Option<u8>>", "(u8, (bool, felt252))", "[u16; 3]", "Result<u8, ByteArray>", "()"} {
		ty, err := ast.ParseType(src)
		require.NoError(t, err)
		def, ok := StaticTypeDef(ty, TypeMod{})
		require.True(t, ok)
		tw := NewTypeWriter(DefaultConfig())
		assert.Equal(t, typedef.Cairo(def, "introspect"), tw.Expr(ty, TypeMod{}), src)
		assert.Empty(t, tw.Children())
	}
}

func TestTypeWriterChildren(t *testing.T) {
	ty := extract(t, "struct S { a: Inner, b: Array<Inner>, c: Option<Other>, d: u8 }")
	def, tw, err := DefExpr(ty, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"Inner", "Other"}, tw.Children())
	assert.Contains(t, def, "introspect::TypeDef::Array(BoxTrait::new(introspect::Introspect::<Inner>::type_def()))")
	assert.Equal(t,
		"introspect::merge_defs(array![introspect::child_defs::<Inner>(), introspect::child_defs::<Other>()])",
		tw.ChildDefs())
}

func TestDefExprMatchesTypeDefPrinter(t *testing.T) {
	ty := extract(t, `
#[attribute('kind')]
struct Point {
    #[key]
    x: u32,
    #[raw]
    label: ByteArray,
}`)
	def, _, err := DefExpr(ty, DefaultConfig())
	require.NoError(t, err)

	want := &typedef.Struct{
		Name:       "Point",
		Attributes: []typedef.Attribute{typedef.NewAttribute(selector.MustASCII("kind"), nil)},
		Members: []typedef.MemberDef{
			{Name: "x", Attributes: []typedef.Attribute{typedef.NewAttribute(selector.MustASCII("key"), nil)}, TypeDef: typedef.U32},
			{Name: "label", TypeDef: typedef.ByteArray},
		},
	}
	assert.Equal(t, typedef.Cairo(want, "introspect"), def)

	enum := extract(t, "enum E { A: u8, B }")
	def, _, err = DefExpr(enum, DefaultConfig())
	require.NoError(t, err)
	wantEnum, err := typedef.NewEnum("E", nil, []typedef.VariantDef{
		{Selector: *selector.Keccak("A"), Name: "A", TypeDef: typedef.U8},
		{Selector: *selector.Keccak("B"), Name: "B", TypeDef: typedef.None},
	})
	require.NoError(t, err)
	assert.Equal(t, typedef.Cairo(wantEnum, "introspect"), def)
}

func TestEmittedCodeParses(t *testing.T) {
	sources := []string{
		"struct Point { x: u32, y: u32 }",
		"struct Empty {}",
		"struct Wrapper<T> { inner: T, list: Array<T> }",
		"struct Nested { p: Point, ps: Span<Point>, tag: Option<ByteArray> }",
		"enum Shape { Circle: u32, Square: (u32, u32), Unit: (), Empty }",
		"enum Either<L, R> { Left: L, Right: R }",
	}
	cfg := DefaultConfig()
	for _, src := range sources {
		ty := extract(t, src)
		for _, name := range Names() {
			out, err := Emit(name, ty, cfg)
			require.NoError(t, err, "%s %s", name, src)
			items, err := ParseGenerated(ty.Ident(), out)
			require.NoError(t, err, "%s:\n%s", name, out)
			require.Len(t, items, 1)
			_, ok := items[0].(*ast.Impl)
			assert.True(t, ok)
		}
	}
}

func TestEmitIntrospect(t *testing.T) {
	out, err := EmitIntrospect(extract(t, "struct Wrapper<T> { inner: T }"), DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, out, "impl WrapperIntrospect<T, +introspect::Introspect<T>> of introspect::Introspect<Wrapper<T>> {")
	assert.Contains(t, out, "introspect::Introspect::<T>::type_def()")
	assert.Contains(t, out, "introspect::child_defs::<T>()")
}

func TestEmitIntrospectRef(t *testing.T) {
	out, err := EmitIntrospectRef(extract(t, "struct Point { x: u32 }"), DefaultConfig())
	require.NoError(t, err)
	id := selector.Keccak("Point").String()
	assert.Contains(t, out, "introspect::TypeDef::Ref("+id+")")
	assert.Contains(t, out, "array![("+id+", introspect::TypeDef::Struct(")

	out, err = EmitIntrospectRef(extract(t, "#[id(42)] struct Point { x: u32 }"), DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, out, "introspect::TypeDef::Ref(0x2a)")

	out, err = EmitIntrospectRef(extract(t, "struct Box2<T> { v: T }"), DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, out, "introspect::TypeDef::Ref(introspect::type_id(@def))")
}

func TestEmitISerde(t *testing.T) {
	out, err := EmitISerde(extract(t, "struct Point { x: u32, y: u32 }"), DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, out, "introspect::ISerde::iserialize(self.x, ref output);")
	assert.Contains(t, out, "let __field_y = introspect::ISerde::ideserialize(ref serialized)?;")
	assert.Contains(t, out, "Option::Some(Point { x: __field_x, y: __field_y })")

	out, err = EmitISerde(extract(t, "struct Frame { serialized: u8, x: u8 }"), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "::ideserialize(ref serialized)?;"))
	assert.NotContains(t, out, "let serialized =")
	assert.Contains(t, out, "Option::Some(Frame { serialized: __field_serialized, x: __field_x })")
	_, err = ParseGenerated("Frame", out)
	require.NoError(t, err)

	out, err = EmitISerde(extract(t, "enum Shape { Circle: u32, Empty }"), DefaultConfig())
	require.NoError(t, err)
	circle := selector.Keccak("Circle").String()
	assert.Contains(t, out, "output.append("+circle+");")
	assert.Contains(t, out, "if selector == "+circle+" {")
	assert.Contains(t, out, "return Option::Some(Shape::Empty);")
}

func TestEmitFuzzable(t *testing.T) {
	out, err := EmitFuzzable(extract(t, "enum Shape { Circle: u32, Square: u8, Empty }"), DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, out, "match introspect::fuzz::index(3) {")
	assert.Contains(t, out, "0 => Shape::Circle(introspect::Fuzzable::generate()),")
	assert.Contains(t, out, "_ => Shape::Empty,")

	_, err = EmitFuzzable(extract(t, "enum Never {}"), DefaultConfig())
	assert.True(t, IsKind(err, KindUnsupportedItem))
}

func TestDerive(t *testing.T) {
	item := parseItem(t, "struct Point { x: u32 }")
	items, err := Derive(item, []string{Introspect, ISerde, Fuzzable}, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, items, 3)
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = ast.ItemName(it)
	}
	assert.Equal(t, []string{"PointIntrospect", "PointISerde", "PointFuzzable"}, names)

	_, err = Derive(item, []string{Introspect, IntrospectRef}, DefaultConfig())
	assert.True(t, IsKind(err, KindInvalidAttribute))

	_, err = Derive(item, []string{ISerde, ISerde}, DefaultConfig())
	assert.True(t, IsKind(err, KindDuplicateAttribute))

	_, err = Derive(item, []string{"Nope"}, DefaultConfig())
	assert.True(t, IsKind(err, KindInvalidAttribute))
}

func TestCustomPath(t *testing.T) {
	cfg := Config{IntrospectPath: "lib::meta", TablePath: "lib::table"}
	items, err := Derive(parseItem(t, "struct P { a: Other }"), []string{Introspect}, cfg)
	require.NoError(t, err)
	out := ast.ToCairo(items[0])
	assert.Contains(t, out, "of lib::meta::Introspect<P>")
	assert.Contains(t, out, "lib::meta::child_defs::<Other>()")
}

func TestParseGeneratedError(t *testing.T) {
	_, err := ParseGenerated("Point", "impl Broken of {")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindParseError))
	diags := Diagnostics(err)
	require.NotEmpty(t, diags)
	assert.Contains(t, err.Error(), "parse_error in Point")
}

func TestDiagnosticsFromDeriveError(t *testing.T) {
	_, err := Extract(parseItem(t, "fn f() {}"))
	diags := Diagnostics(err)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "unsupported_item in f")
	assert.Nil(t, Diagnostics(nil))
}
