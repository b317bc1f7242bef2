package derive

import (
	"fmt"
	"strings"

	"github.com/NethermindEth/juno/core/felt"

	"github.com/cartridge-gg/introspect/selector"
	"github.com/cartridge-gg/introspect/typedef"
)

// DefExpr prints the full TypeDef constructor of t and returns the writer
// holding the deferred child types.
func DefExpr(t Type, cfg Config) (string, *TypeWriter, error) {
	tw := NewTypeWriter(cfg)
	path := cfg.IntrospectPath
	switch x := t.(type) {
	case *IStruct:
		attrs, err := typedefAttributes(x.Attributes)
		if err != nil {
			return "", nil, invalidAttribute(x.Decl, "", "%v", err)
		}
		members := make([]string, len(x.Members))
		for i, m := range x.Members {
			mattrs, err := typedefAttributes(m.Attributes)
			if err != nil {
				return "", nil, invalidAttribute(x.Decl, m.Field, "%v", err)
			}
			members[i] = typedef.CairoMember(m.Name, mattrs, tw.Expr(m.Type, m.Mod), path)
		}
		return fmt.Sprintf("%s::TypeDef::Struct(%s::StructDef { name: %s, attributes: %s, members: [%s].span() })",
			path, path, typedef.CairoString(x.Name), typedef.CairoAttributes(attrs, path), strings.Join(members, ", ")), tw, nil
	case *IEnum:
		attrs, err := typedefAttributes(x.Attributes)
		if err != nil {
			return "", nil, invalidAttribute(x.Decl, "", "%v", err)
		}
		variants := make([]string, len(x.Variants))
		for i, v := range x.Variants {
			vattrs, err := typedefAttributes(v.Attributes)
			if err != nil {
				return "", nil, invalidAttribute(x.Decl, v.Variant, "%v", err)
			}
			variants[i] = typedef.CairoVariant(&v.Selector, v.Name, vattrs, tw.Expr(v.Type, v.Mod), path)
		}
		return fmt.Sprintf("%s::TypeDef::Enum(%s::EnumDef { name: %s, attributes: %s, variants: [%s].span() })",
			path, path, typedef.CairoString(x.Name), typedef.CairoAttributes(attrs, path), strings.Join(variants, ", ")), tw, nil
	}
	return "", nil, newError(KindUnsupportedItem, t.Ident(), "", "unknown item kind %T", t)
}

// TypeID is the id a referenced type is registered under: the #[id]
// override, or the keccak selector of the reported name.
func TypeID(t Type) *felt.Felt {
	switch x := t.(type) {
	case *IStruct:
		if x.ID != nil {
			return x.ID
		}
		return selector.Keccak(x.Name)
	case *IEnum:
		if x.ID != nil {
			return x.ID
		}
		return selector.Keccak(x.Name)
	}
	return selector.Keccak(t.Ident())
}

func childDefsSignature(cfg Config) string {
	return fmt.Sprintf("fn child_defs() -> Array<(felt252, %s)>", cfg.Path("TypeDef"))
}

// EmitIntrospect prints an Introspect impl whose type_def is the full
// definition of t.
func EmitIntrospect(t Type, cfg Config) (string, error) {
	def, tw, err := DefExpr(t, cfg)
	if err != nil {
		return "", err
	}
	trait := cfg.Path("Introspect")
	var c code
	c.open("%s", implHead(t, "Introspect", trait, trait))
	c.open("fn type_def() -> %s", cfg.Path("TypeDef"))
	c.line("%s", def)
	c.close("")
	c.line("")
	c.open("%s", childDefsSignature(cfg))
	c.line("%s", tw.ChildDefs())
	c.close("")
	c.close("")
	return c.String(), nil
}

// EmitIntrospectRef prints an Introspect impl whose type_def is a Ref to
// the type's id; the full definition travels in child_defs. Generic types
// compute the id from the definition at runtime.
func EmitIntrospectRef(t Type, cfg Config) (string, error) {
	def, tw, err := DefExpr(t, cfg)
	if err != nil {
		return "", err
	}
	trait := cfg.Path("Introspect")
	var c code
	c.open("%s", implHead(t, "Introspect", trait, trait))
	c.open("fn type_def() -> %s", cfg.Path("TypeDef"))
	if t.TypeGenerics().IsEmpty() {
		c.line("%s", typedef.Cairo(typedef.Ref{ID: *TypeID(t)}, cfg.IntrospectPath))
	} else {
		c.line("let def = %s;", def)
		c.line("%s(%s(@def))", cfg.Path("TypeDef::Ref"), cfg.Path("type_id"))
	}
	c.close("")
	c.line("")
	c.open("%s", childDefsSignature(cfg))
	if t.TypeGenerics().IsEmpty() {
		c.line("%s", tw.ChildDefs(fmt.Sprintf("array![(%s, %s)]", TypeID(t).String(), def)))
	} else {
		c.line("let def = %s;", def)
		c.line("%s", tw.ChildDefs(fmt.Sprintf("array![(%s(@def), def)]", cfg.Path("type_id"))))
	}
	c.close("")
	c.close("")
	return c.String(), nil
}
