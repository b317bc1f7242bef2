package ast

import (
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartridge-gg/introspect/syntax"
)

// Sources already in printer layout, so printing reproduces them exactly.
var canonical = []string{
	`#[derive(Drop, Serde)]
pub struct Point<T> {
    #[key]
    x: T,
    pub y: Array<u8>,
}
`,
	`enum Shape {
    Circle: u32,
    #[id('sq')]
    Square: (u32, u32),
    Empty,
}
`,
	`fn add(a: u32, ref b: u32) -> u32 {
    let c = a + b * 2;
    if c > 10 {
        return c;
    }
    c
}
`,
	`trait Area<T> {
    fn area(self: @T) -> u32;
}

impl AreaImpl<T, +Drop<T>> of Area<T> {
    fn area(self: @T) -> u32 {
        0
    }
}
`,
	`fn f(x: Option<u32>) -> u32 {
    match x {
        Option::Some(v) => v,
        Option::None => 0,
    }
}
`,
	`use core::{array::ArrayTrait, num::traits::Zero as Z};

mod inner;

pub(crate) const MAX: u32 = 0x10;

type Pair<T> = (T, T);

extern fn hash(a: felt252) -> felt252 nopanic;

impl Alias = AreaImpl<u8>;
`,
	`fn g() {
    let mut total = 0;
    for i in 0..10 {
        total += i;
    }
    while total > 0 {
        total -= 1;
    }
    let p = Point { x: 1, ..base };
    let f = |a, b| a + b;
    let Point { x, y: _ } = p;
    loop {
        break;
    }
    println!("{}", @p.x);
}
`,
}

func TestPrintCanonical(t *testing.T) {
	for _, src := range canonical {
		f, err := ParseFile(src)
		require.NoError(t, err, src)
		assert.Equal(t, src, ToCairo(f))
	}
}

func TestPrintParseRoundTrip(t *testing.T) {
	for _, src := range canonical {
		f, err := ParseFile(src)
		require.NoError(t, err)
		again, err := ParseFile(ToCairo(f))
		require.NoError(t, err)
		assert.True(t, Equal(f, again), src)
	}
}

func TestMacroPlaceholders(t *testing.T) {
	f, err := ParseFile("macro add { ($a:expr, $b:expr) => { $a + $b }; }")
	require.NoError(t, err)
	out := ToCairo(f)
	assert.Contains(t, out, "($a:expr, $b:expr) => {$a + $b};")
	assert.NotContains(t, out, "$ ")
	assert.Equal(t, len(out), SizeHint(f))

	again, err := ParseFile(out)
	require.NoError(t, err)
	assert.True(t, Equal(f, again))
}

func TestSizeHint(t *testing.T) {
	for _, src := range canonical {
		f, err := ParseFile(src)
		require.NoError(t, err)
		assert.Equal(t, len(ToCairo(f)), SizeHint(f))
	}
}

func TestExprPrinting(t *testing.T) {
	cases := map[string]string{
		"(x,)":              "(x,)",
		"()":                "()",
		"(a, b)":            "(a, b)",
		"a+b*c":             "a + b * c",
		"a.b.c(1)":          "a.b.c(1)",
		"0..10":             "0..10",
		"0..=n":             "0..=n",
		"x=y=1":             "x = y = 1",
		"-a*b":              "-a * b",
		"array![1,2,3]":     "array![1, 2, 3]",
		"Point{x:1,y}":      "Point { x: 1, y }",
		"Empty{}":           "Empty {}",
		"|a,b|a+b":          "|a, b| a + b",
		"||1":               "|| 1",
		"foo::<u32>(x)":     "foo::<u32>(x)",
		"x?":                "x?",
		"a[0]":              "a[0]",
		"[0;4]":             "[0; 4]",
		"[1,2]":             "[1, 2]",
		"@self.x":           "@self.x",
		"f(ref a, name: b)": "f(ref a, name: b)",
		"if a {1} else {2}": "if a {\n    1\n} else {\n    2\n}",
		"'abc'_u8 + \"s\"":  "'abc'_u8 + \"s\"",
		"t.0.1":             "t.0.1",
	}
	for src, want := range cases {
		e, err := ParseExpr(src)
		require.NoError(t, err, src)
		assert.Equal(t, want, ToCairo(e), src)
	}
}

func TestParseErrors(t *testing.T) {
	_, err := ParseFile("struct {")
	require.Error(t, err)
	var syntaxErr *syntax.SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)

	_, err = ParseExpr("a b")
	assert.Error(t, err)

	_, err = ParseExpr("'open")
	assert.Error(t, err)
}

func TestFromSyntaxRejectsForeignNodes(t *testing.T) {
	db := syntax.NewDB()
	_, err := FromSyntax(db, &syntax.Node{Kind: syntax.GenericParamType})
	require.Error(t, err)
	assert.Len(t, db.Diagnostics(), 1)
}

func TestFromSyntaxEmptyListsAreNil(t *testing.T) {
	f, err := ParseFile("struct S {}\n")
	require.NoError(t, err)
	s := f.Items[0].(*Struct)
	assert.Nil(t, s.Attributes)
	assert.Nil(t, s.Members)
	assert.Nil(t, s.Generics)
	assert.True(t, Equal(s, &Struct{Name: "S"}))
}

func TestParseItemAndArgs(t *testing.T) {
	item, err := ParseItem(syntax.MustFromString("#[table]\nstruct T { #[key] id: u32 }"))
	require.NoError(t, err)
	assert.Equal(t, "T", ItemName(item))

	args, err := ParseArgs(syntax.MustFromString("'abc', n: 3"))
	require.NoError(t, err)
	require.Len(t, args, 2)
	assert.Nil(t, args[0].Name)
	assert.Equal(t, "n", *args[1].Name)
	assert.Equal(t, &Number{Text: "3"}, args[1].Value)
}

func TestSplitDerives(t *testing.T) {
	f, err := ParseFile("#[derive(Drop, Introspect)]\n#[table]\n#[derive(core::serde::Serde)]\nstruct S {}\n")
	require.NoError(t, err)
	attrs := f.Items[0].(*Struct).Attributes

	derives, rest := SplitDerives(attrs)
	require.Len(t, derives, 3)
	assert.Equal(t, "Drop", ToCairo(derives[0]))
	assert.Equal(t, "core::serde::Serde", ToCairo(derives[2]))
	require.Len(t, rest, 1)
	assert.Equal(t, "table", rest[0].Name())

	assert.Equal(t, []string{"Drop", "Introspect", "Serde"}, DeriveNames(attrs))
	assert.True(t, HasDerive(attrs, "Introspect"))
	assert.False(t, HasDerive(attrs, "Fuzzable"))

	assert.Equal(t, "#[derive(Drop, Serde)]", ToCairo(DeriveAttr("Drop", "Serde")))
	assert.Equal(t, "#[key]", ToCairo(NewAttribute("key")))
	assert.Equal(t, "#[name(\"x\")]", ToCairo(NewAttribute("name", &String{Text: `"x"`})))
}

func TestCollections(t *testing.T) {
	items := []Raw{"a", "b"}
	cases := []struct {
		write func(w Writer)
		want  string
	}{
		{func(w Writer) { Join(w, items, " + ") }, "a + b"},
		{func(w Writer) { TerminateEach(w, items, ";") }, "a;b;"},
		{func(w Writer) { BracedCSV(w, items) }, "{a, b}"},
		{func(w Writer) { AngledCSV(w, items) }, "<a, b>"},
		{func(w Writer) { BarredCSV(w, items) }, "|a, b|"},
		{func(w Writer) { ArrayMacro(w, items) }, "array![a, b]"},
		{func(w Writer) { SpanLiteral(w, items) }, "[a, b].span()"},
		{func(w Writer) { Fields(w, items) }, "a,\nb,\n"},
		{func(w Writer) { BlockOf(w, []Raw{}) }, ""},
		{func(w Writer) { Wrapped(w, Brackets, Raw("x")) }, "[x]"},
		{func(w Writer) { Suffixed(w, Raw("x"), "?") }, "x?"},
		{func(w Writer) { Braced(w, func() { OnePerLine(w, items) }) }, "{\n    a\n    b\n}"},
	}
	for _, c := range cases {
		got := ToCairo(Func(c.write))
		assert.Equal(t, c.want, got)
		assert.Equal(t, len(got), SizeHint(Func(c.write)))
	}
}

var binaryOps = []string{"+", "-", "*", "/", "%", "==", "!=", "<", ">", "<=", ">=", "&", "^", "|", "&&", "||"}

// buildExpr turns seeds into a binary tree whose nested operands are
// parenthesized, so printing it is unambiguous.
func buildExpr(seeds []int) Expr {
	switch len(seeds) {
	case 0:
		return &Number{Text: "0"}
	case 1:
		if seeds[0]%2 == 0 {
			return &Number{Text: strconv.Itoa(seeds[0])}
		}
		return NewPath("v" + strconv.Itoa(seeds[0]))
	}
	mid := len(seeds) / 2
	wrap := func(e Expr) Expr {
		if _, ok := e.(*Binary); ok {
			return &Parenthesized{Expr: e}
		}
		return e
	}
	return &Binary{
		LHS: wrap(buildExpr(seeds[:mid])),
		Op:  binaryOps[seeds[mid]%len(binaryOps)],
		RHS: wrap(buildExpr(seeds[mid:])),
	}
}

func TestExprRoundTripProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("print then parse yields an equal tree", prop.ForAll(
		func(seeds []int) bool {
			e := buildExpr(seeds)
			again, err := ParseExpr(ToCairo(e))
			return err == nil && Equal(e, again)
		},
		gen.SliceOf(gen.IntRange(0, 1000)),
	))

	properties.Property("size hint is exact", prop.ForAll(
		func(seeds []int) bool {
			e := buildExpr(seeds)
			return SizeHint(e) == len(ToCairo(e))
		},
		gen.SliceOf(gen.IntRange(0, 1000)),
	))

	properties.TestingRun(t)
}
