package derive

import (
	"fmt"
	"strings"

	"github.com/cartridge-gg/introspect/typedef"
)

// code accumulates generated Cairo source. Indentation is cosmetic: the
// result is re-parsed and re-printed before it leaves the package.
type code struct {
	b      strings.Builder
	indent int
}

func (c *code) line(format string, args ...any) {
	if format == "" {
		c.b.WriteByte('\n')
		return
	}
	c.b.WriteString(strings.Repeat("    ", c.indent))
	fmt.Fprintf(&c.b, format, args...)
	c.b.WriteByte('\n')
}

// open writes a line ending in "{" and indents what follows.
func (c *code) open(format string, args ...any) {
	c.line(format+" {", args...)
	c.indent++
}

func (c *code) close(suffix string) {
	c.indent--
	c.line("}%s", suffix)
}

func (c *code) String() string {
	return c.b.String()
}

func typedefAttributes(attrs []IAttribute) ([]typedef.Attribute, error) {
	if len(attrs) == 0 {
		return nil, nil
	}
	out := make([]typedef.Attribute, len(attrs))
	for i, a := range attrs {
		t, err := a.TypeDef()
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

// implHead prints "impl NameSuffix<...> of Trait<Type>".
func implHead(t Type, suffix, trait string, bounds ...string) string {
	return fmt.Sprintf("impl %s%s%s of %s<%s>", t.Ident(), suffix, t.TypeGenerics().Impl(bounds...), trait, FullType(t))
}
