package derive

import (
	"strconv"
	"strings"
)

// EmitFuzzable prints a Fuzzable impl. Structs generate every member;
// enums pick a variant uniformly and generate its payload.
func EmitFuzzable(t Type, cfg Config) (string, error) {
	trait := cfg.Path("Fuzzable")
	var c code
	c.open("%s", implHead(t, "Fuzzable", trait, trait, "Drop"))
	c.open("fn generate() -> %s", FullType(t))
	switch x := t.(type) {
	case *IStruct:
		fields := make([]string, len(x.Members))
		for i, m := range x.Members {
			fields[i] = m.Field + ": " + trait + "::generate()"
		}
		if len(fields) == 0 {
			c.line("%s {}", x.Decl)
		} else {
			c.line("%s { %s }", x.Decl, strings.Join(fields, ", "))
		}
	case *IEnum:
		if len(x.Variants) == 0 {
			return "", newError(KindUnsupportedItem, x.Decl, "", "cannot generate values of an enum without variants")
		}
		c.open("match %s(%d)", cfg.Path("fuzz::index"), len(x.Variants))
		for i, v := range x.Variants {
			arm := "_"
			if i < len(x.Variants)-1 {
				arm = strconv.Itoa(i)
			}
			switch {
			case v.Type == nil:
				c.line("%s => %s::%s,", arm, x.Decl, v.Variant)
			case isUnit(v.Type):
				c.line("%s => %s::%s(()),", arm, x.Decl, v.Variant)
			default:
				c.line("%s => %s::%s(%s::generate()),", arm, x.Decl, v.Variant, trait)
			}
		}
		c.close("")
	default:
		return "", newError(KindUnsupportedItem, t.Ident(), "", "unknown item kind %T", t)
	}
	c.close("")
	c.close("")
	return c.String(), nil
}
