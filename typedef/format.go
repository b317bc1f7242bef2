package typedef

import (
	"fmt"
	"strings"

	"github.com/turbolent/prettier"
)

const maxLineWidth = 80

var listSeparatorDoc prettier.Doc = prettier.Concat{
	prettier.Text(","),
	prettier.Line{},
}

// Doc renders t as a human-readable document.
func Doc(t TypeDef) prettier.Doc {
	switch x := t.(type) {
	case nil:
		return prettier.Text("<nil>")
	case Scalar:
		return prettier.Text(x.Kind().String())
	case ByteArrayEncoded:
		return prettier.Text(fmt.Sprintf("ByteArrayEncoded(%q)", x.Encoding))
	case Bytes31Encoded:
		return prettier.Text(fmt.Sprintf("Bytes31Encoded(%q)", x.Encoding))
	case Custom:
		return prettier.Text(fmt.Sprintf("Custom(%q)", x.Encoding))
	case Ref:
		return prettier.Text(fmt.Sprintf("Ref(%s)", x.ID.String()))
	case Tuple:
		if len(x.Elements) == 0 {
			return prettier.Text("()")
		}
		docs := make([]prettier.Doc, len(x.Elements))
		for i, e := range x.Elements {
			docs[i] = Doc(e)
		}
		if len(docs) == 1 {
			docs[0] = prettier.Concat{docs[0], prettier.Text(",")}
		}
		return prettier.WrapParentheses(prettier.Join(listSeparatorDoc, docs...), prettier.SoftLine{})
	case Array:
		return generic("Array", Doc(x.Elem))
	case Felt252Dict:
		return generic("Felt252Dict", Doc(x.Elem))
	case Option:
		return generic("Option", Doc(x.Elem))
	case Nullable:
		return generic("Nullable", Doc(x.Elem))
	case Result:
		return generic("Result", Doc(x.Ok), Doc(x.Err))
	case FixedArray:
		return prettier.WrapBrackets(
			prettier.Concat{Doc(x.Elem), prettier.Text(fmt.Sprintf("; %d", x.Size))},
			prettier.SoftLine{},
		)
	case *Struct:
		fields := make([]prettier.Doc, len(x.Members))
		for i, m := range x.Members {
			fields[i] = fieldDoc(m.Name, len(m.Attributes), Doc(m.TypeDef))
		}
		return block("struct "+x.Name, len(x.Attributes), fields)
	case *Enum:
		variants := make([]prettier.Doc, 0, len(x.Order))
		for _, v := range x.OrderedVariants() {
			variants = append(variants, fieldDoc(
				fmt.Sprintf("%s[%s]", v.Name, v.Selector.String()), len(v.Attributes), Doc(v.TypeDef)))
		}
		return block("enum "+x.Name, len(x.Attributes), variants)
	}
	return prettier.Text(fmt.Sprintf("<%T>", t))
}

func generic(name string, args ...prettier.Doc) prettier.Doc {
	return prettier.Concat{
		prettier.Text(name),
		prettier.Group{
			Doc: prettier.Concat{
				prettier.Text("<"),
				prettier.Indent{
					Doc: prettier.Concat{
						prettier.SoftLine{},
						prettier.Join(listSeparatorDoc, args...),
					},
				},
				prettier.SoftLine{},
				prettier.Text(">"),
			},
		},
	}
}

func fieldDoc(name string, attrs int, typeDoc prettier.Doc) prettier.Doc {
	prefix := name
	if attrs > 0 {
		prefix = fmt.Sprintf("%s #%d", name, attrs)
	}
	return prettier.Concat{prettier.Text(prefix + ": "), typeDoc}
}

func block(head string, attrs int, items []prettier.Doc) prettier.Doc {
	if attrs > 0 {
		head = fmt.Sprintf("%s #%d", head, attrs)
	}
	if len(items) == 0 {
		return prettier.Text(head + " {}")
	}
	return prettier.Concat{
		prettier.Text(head + " "),
		prettier.WrapBraces(prettier.Join(listSeparatorDoc, items...), prettier.Line{}),
	}
}

// Format renders t with prettier at the default line width.
func Format(t TypeDef) string {
	var b strings.Builder
	prettier.Prettier(&b, Doc(t), maxLineWidth, "    ")
	return b.String()
}
