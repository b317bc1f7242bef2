package derive

import (
	"strings"

	"github.com/cartridge-gg/introspect/ast"
)

func isUnit(ty ast.Expr) bool {
	if ty == nil {
		return true
	}
	t, ok := ty.(*ast.Tuple)
	return ok && len(t.Elements) == 0
}

// EmitISerde prints an ISerde impl: members in declaration order, enums as
// the variant selector followed by the payload.
func EmitISerde(t Type, cfg Config) (string, error) {
	trait := cfg.Path("ISerde")
	full := FullType(t)
	var c code
	c.open("%s", implHead(t, "ISerde", trait, trait, "Drop"))
	switch x := t.(type) {
	case *IStruct:
		c.open("fn iserialize(self: @%s, ref output: Array<felt252>)", full)
		for _, m := range x.Members {
			c.line("%s::iserialize(self.%s, ref output);", trait, m.Field)
		}
		c.close("")
		c.line("")
		c.open("fn ideserialize(ref serialized: Span<felt252>) -> Option<%s>", full)
		// locals are prefixed so a member can't shadow `serialized`
		fields := make([]string, len(x.Members))
		for i, m := range x.Members {
			c.line("let __field_%s = %s::ideserialize(ref serialized)?;", m.Field, trait)
			fields[i] = m.Field + ": __field_" + m.Field
		}
		if len(fields) == 0 {
			c.line("Option::Some(%s {})", x.Decl)
		} else {
			c.line("Option::Some(%s { %s })", x.Decl, strings.Join(fields, ", "))
		}
		c.close("")
	case *IEnum:
		c.open("fn iserialize(self: @%s, ref output: Array<felt252>)", full)
		c.open("match self")
		for _, v := range x.Variants {
			switch {
			case v.Type == nil:
				c.open("%s::%s =>", x.Decl, v.Variant)
			case isUnit(v.Type):
				c.open("%s::%s(_) =>", x.Decl, v.Variant)
			default:
				c.open("%s::%s(value) =>", x.Decl, v.Variant)
			}
			c.line("output.append(%s);", v.Selector.String())
			if !isUnit(v.Type) {
				c.line("%s::iserialize(value, ref output);", trait)
			}
			c.close(",")
		}
		c.close("")
		c.close("")
		c.line("")
		c.open("fn ideserialize(ref serialized: Span<felt252>) -> Option<%s>", full)
		c.line("let selector = *serialized.pop_front()?;")
		for _, v := range x.Variants {
			c.open("if selector == %s", v.Selector.String())
			switch {
			case v.Type == nil:
				c.line("return Option::Some(%s::%s);", x.Decl, v.Variant)
			case isUnit(v.Type):
				c.line("return Option::Some(%s::%s(()));", x.Decl, v.Variant)
			default:
				c.line("return Option::Some(%s::%s(%s::ideserialize(ref serialized)?));", x.Decl, v.Variant, trait)
			}
			c.close("")
		}
		c.line("Option::None")
		c.close("")
	default:
		return "", newError(KindUnsupportedItem, t.Ident(), "", "unknown item kind %T", t)
	}
	c.close("")
	return c.String(), nil
}
