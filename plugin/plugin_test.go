package plugin

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartridge-gg/introspect/ast"
	"github.com/cartridge-gg/introspect/derive"
	"github.com/cartridge-gg/introspect/selector"
	"github.com/cartridge-gg/introspect/syntax"
)

func ts(src string) *syntax.TokenStream {
	return syntax.MustFromString(src)
}

func TestRegistry(t *testing.T) {
	p := New(derive.DefaultConfig())
	attributes, derives, inlines := p.Names()
	assert.Equal(t, []string{"column_set", "introspect", "table"}, attributes)
	assert.Equal(t, []string{"Fuzzable", "ISerde", "Introspect", "IntrospectRef"}, derives)
	assert.Equal(t, []string{"id", "type_def"}, inlines)

	_, ok := p.Derive("Serde")
	assert.False(t, ok)
}

func TestDeriveMacro(t *testing.T) {
	p := New(derive.DefaultConfig())
	m, ok := p.Derive(derive.ISerde)
	require.True(t, ok)

	res := m(ts("#[derive(Drop)]\nstruct Point { x: u32, y: u32 }"))
	require.False(t, res.Failed(), res.Diagnostics)
	assert.Equal(t, 0, res.ExitCode())
	f, err := ast.ParseFile(res.String())
	require.NoError(t, err)
	require.Len(t, f.Items, 1)
	assert.Equal(t, "PointISerde", ast.ItemName(f.Items[0]))
}

func TestDeriveMacroFailure(t *testing.T) {
	p := New(derive.DefaultConfig())
	m, _ := p.Derive(derive.Introspect)

	res := m(ts("enum E { #[id(1)] A, #[id(1)] B }"))
	assert.True(t, res.Failed())
	assert.Equal(t, 1, res.ExitCode())
	assert.True(t, res.TokenStream.IsEmpty())
	require.Len(t, res.Diagnostics, 1)
	assert.Contains(t, res.Diagnostics[0].Message, "duplicate_selector")

	res = m(ts("struct {"))
	assert.True(t, res.Failed())
	assert.NotEmpty(t, res.Diagnostics)
}

func TestTableAttribute(t *testing.T) {
	p := New(derive.DefaultConfig())
	m, ok := p.Attribute(AttrTable)
	require.True(t, ok)

	res := m(ts(`name: "players"`), ts("struct Player { #[key] id: felt252, score: u32 }"))
	require.False(t, res.Failed(), res.Diagnostics)
	out := res.String()
	assert.Contains(t, out, "struct Player {\n    id: felt252,")
	assert.Contains(t, out, "impl PlayerTable of introspect::table::TableSchema<Player>")
	assert.Contains(t, out, `"players"`)

	res = m(ts(""), ts("struct Bad { a: u8, #[key] b: u8 }"))
	assert.True(t, res.Failed())
	assert.Contains(t, res.Diagnostics[0].Message, "keys_not_first")
}

func TestIntrospectAttribute(t *testing.T) {
	p := New(derive.Config{IntrospectPath: "introspect", TablePath: "introspect::table", Fuzz: true})
	m, _ := p.Attribute(AttrIntrospect)

	res := m(ts(""), ts("struct Point { #[name(\"px\")] x: u32 }"))
	require.False(t, res.Failed(), res.Diagnostics)
	f, err := ast.ParseFile(res.String())
	require.NoError(t, err)
	names := make([]string, len(f.Items))
	for i, it := range f.Items {
		names[i] = ast.ItemName(it)
	}
	assert.Equal(t, []string{"Point", "PointIntrospect", "PointISerde", "PointFuzzable"}, names)
	assert.NotContains(t, res.String(), "#[name")

	res = m(ts("reference"), ts("struct Point { x: u32 }"))
	require.False(t, res.Failed(), res.Diagnostics)
	assert.Contains(t, res.String(), "introspect::TypeDef::Ref(")

	res = m(ts("other"), ts("struct Point { x: u32 }"))
	assert.True(t, res.Failed())
}

func TestInlineMacros(t *testing.T) {
	p := New(derive.DefaultConfig())
	id, _ := p.Inline(InlineID)
	res := id(ts("'abc'"))
	require.False(t, res.Failed())
	assert.Equal(t, selector.MustASCII("abc").String(), res.String())

	res = id(ts(`"transfer"`))
	assert.Equal(t, selector.Keccak("transfer").String(), res.String())

	res = id(ts("not an id"))
	assert.True(t, res.Failed())

	typeDef, _ := p.Inline(InlineTypeDef)
	res = typeDef(ts("Array<u8>"))
	require.False(t, res.Failed())
	assert.Equal(t, "introspect::TypeDef::Array(BoxTrait::new(introspect::TypeDef::U8))", res.String())

	res = typeDef(ts("Point"))
	assert.Equal(t, "introspect::Introspect::<Point>::type_def()", res.String())
}

func TestExpandFile(t *testing.T) {
	p := New(derive.DefaultConfig())
	out, err := p.ExpandFile(`
#[derive(Drop, ISerde)]
#[table]
struct Player {
    #[key]
    id: felt252,
    score: u32,
}

mod inner {
    #[derive(Introspect, Serde)]
    enum Kind {
        A,
        B: u8,
    }
}

fn selectors() -> (felt252, felt252) {
    (id!('abc'), id!("Player"))
}
`)
	require.NoError(t, err)
	assert.Contains(t, out, "#[derive(Drop)]\nstruct Player {")
	assert.Contains(t, out, "impl PlayerTable of")
	assert.Contains(t, out, "impl PlayerISerde of")
	assert.Contains(t, out, "#[derive(Serde)]\n    enum Kind {")
	assert.Contains(t, out, "impl KindIntrospect of introspect::Introspect<Kind>")
	assert.Contains(t, out, "("+selector.MustASCII("abc").String()+", "+selector.Keccak("Player").String()+")")
	assert.NotContains(t, out, "#[table]")
	assert.NotContains(t, out, "#[key]")

	_, err = ast.ParseFile(out)
	require.NoError(t, err)
}

func TestExpandFileReportsFailures(t *testing.T) {
	p := New(derive.DefaultConfig())
	out, err := p.ExpandFile(`
#[table]
struct Bad {
    a: u8,
    #[key]
    b: u8,
}

#[derive(Introspect)]
struct Good {
    a: u8,
}
`)
	require.Error(t, err)
	var me *MacroError
	require.True(t, errors.As(err, &me))
	require.Len(t, me.Diagnostics, 1)
	assert.Contains(t, me.Diagnostics[0].Message, "keys_not_first")
	assert.Contains(t, out, "#[table]\nstruct Bad")
	assert.Contains(t, out, "impl GoodIntrospect of")
}
