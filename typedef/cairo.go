package typedef

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/NethermindEth/juno/core/felt"
)

// Cairo prints the constructor expression that builds t with the runtime
// library found at path (e.g. "introspect").
func Cairo(t TypeDef, path string) string {
	var b strings.Builder
	writeCairo(&b, t, path)
	return b.String()
}

func writeCairo(b *strings.Builder, t TypeDef, path string) {
	fmt.Fprintf(b, "%s::TypeDef::%s", path, t.Kind())

	switch x := t.(type) {
	case Scalar:
	case ByteArrayEncoded:
		fmt.Fprintf(b, "(%s)", CairoString(x.Encoding))
	case Bytes31Encoded:
		fmt.Fprintf(b, "(%s)", CairoString(x.Encoding))
	case Custom:
		fmt.Fprintf(b, "(%s)", CairoString(x.Encoding))
	case Tuple:
		b.WriteString("([")
		for i, e := range x.Elements {
			if i > 0 {
				b.WriteString(", ")
			}
			writeCairo(b, e, path)
		}
		b.WriteString("].span())")
	case Array:
		writeBoxed(b, x.Elem, path)
	case Felt252Dict:
		writeBoxed(b, x.Elem, path)
	case Option:
		writeBoxed(b, x.Elem, path)
	case Nullable:
		writeBoxed(b, x.Elem, path)
	case FixedArray:
		fmt.Fprintf(b, "(BoxTrait::new(%s::FixedArrayDef { type_def: ", path)
		writeCairo(b, x.Elem, path)
		fmt.Fprintf(b, ", size: %d }))", x.Size)
	case Result:
		fmt.Fprintf(b, "(BoxTrait::new(%s::ResultDef { ok: ", path)
		writeCairo(b, x.Ok, path)
		b.WriteString(", err: ")
		writeCairo(b, x.Err, path)
		b.WriteString(" }))")
	case Ref:
		fmt.Fprintf(b, "(%s)", x.ID.String())
	case *Struct:
		fmt.Fprintf(b, "(%s::StructDef { name: %s, attributes: %s, members: [", path, CairoString(x.Name), CairoAttributes(x.Attributes, path))
		for i, m := range x.Members {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(CairoMember(m.Name, m.Attributes, Cairo(m.TypeDef, path), path))
		}
		b.WriteString("].span() })")
	case *Enum:
		fmt.Fprintf(b, "(%s::EnumDef { name: %s, attributes: %s, variants: [", path, CairoString(x.Name), CairoAttributes(x.Attributes, path))
		for i, v := range x.OrderedVariants() {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(CairoVariant(&v.Selector, v.Name, v.Attributes, Cairo(v.TypeDef, path), path))
		}
		b.WriteString("].span() })")
	}
}

func writeBoxed(b *strings.Builder, inner TypeDef, path string) {
	b.WriteString("(BoxTrait::new(")
	writeCairo(b, inner, path)
	b.WriteString("))")
}

// CairoMember prints a MemberDef constructor around an already printed type_def.
func CairoMember(name string, attrs []Attribute, typeDef, path string) string {
	return fmt.Sprintf("%s::MemberDef { name: %s, attributes: %s, type_def: %s }",
		path, CairoString(name), CairoAttributes(attrs, path), typeDef)
}

// CairoVariant prints a VariantDef constructor around an already printed type_def.
func CairoVariant(sel *felt.Felt, name string, attrs []Attribute, typeDef, path string) string {
	return fmt.Sprintf("%s::VariantDef { selector: %s, name: %s, attributes: %s, type_def: %s }",
		path, sel.String(), CairoString(name), CairoAttributes(attrs, path), typeDef)
}

// CairoAttributes prints an attribute span literal.
func CairoAttributes(attrs []Attribute, path string) string {
	if len(attrs) == 0 {
		return "[].span()"
	}
	parts := make([]string, len(attrs))
	for i, a := range attrs {
		data := "Option::None"
		if a.Data != nil {
			data = fmt.Sprintf("Option::Some(%s)", CairoBytes(a.Data))
		}
		parts[i] = fmt.Sprintf("%s::Attribute { id: %s, data: %s }", path, a.ID.String(), data)
	}
	return "[" + strings.Join(parts, ", ") + "].span()"
}

// CairoString prints s as a Cairo ByteArray literal.
func CairoString(s string) string {
	return CairoBytes([]byte(s))
}

// CairoBytes prints b as a Cairo ByteArray literal, escaping anything that
// is not printable ASCII.
func CairoBytes(data []byte) string {
	var b strings.Builder
	b.Grow(len(data) + 2)
	b.WriteByte('"')
	for len(data) > 0 {
		_, size := utf8.DecodeRune(data)
		c := data[0]
		switch {
		case c == '"' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '\n':
			b.WriteString(`\n`)
		case size == 1 && c >= 0x20 && c < 0x7f:
			b.WriteByte(c)
		default:
			for _, x := range data[:size] {
				fmt.Fprintf(&b, `\x%02x`, x)
			}
		}
		data = data[size:]
	}
	b.WriteByte('"')
	return b.String()
}
