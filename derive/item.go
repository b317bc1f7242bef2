package derive

import (
	"strconv"
	"strings"

	"github.com/NethermindEth/juno/core/felt"

	"github.com/cartridge-gg/introspect/ast"
	"github.com/cartridge-gg/introspect/selector"
	"github.com/cartridge-gg/introspect/typedef"
)

// Helper attribute names. They are consumed by the walk and stripped from
// re-printed items; everything else, #[derive] included, is propagated.
const (
	AttrRaw           = "raw"
	AttrEncoded       = "encoded"
	AttrName          = "name"
	AttrID            = "id"
	AttrKey           = "key"
	AttrIndex         = "index"
	AttrSkip          = "skip"
	AttrSkipAccessors = "skip_accessors"
	AttrAttribute     = "attribute"
)

var helperAttributes = map[string]bool{
	AttrRaw: true, AttrEncoded: true, AttrName: true, AttrID: true, AttrKey: true,
	AttrIndex: true, AttrSkip: true, AttrSkipAccessors: true, AttrAttribute: true,
}

// IsHelperAttribute reports whether name is consumed by the attribute walk.
func IsHelperAttribute(name string) bool {
	return helperAttributes[name]
}

// TypeMod overrides how a byte field is described.
type TypeMod struct {
	Raw      bool
	Encoding string
}

func (m TypeMod) IsZero() bool {
	return !m.Raw && m.Encoding == ""
}

// IAttribute is a runtime attribute attached to a type, member or variant.
type IAttribute struct {
	Name string
	Data []byte
}

// TypeDef converts the attribute to its wire form; the id is the ASCII
// selector of the name.
func (a IAttribute) TypeDef() (typedef.Attribute, error) {
	id, err := selector.ASCII(a.Name)
	if err != nil {
		return typedef.Attribute{}, err
	}
	return typedef.NewAttribute(id, a.Data), nil
}

type IMember struct {
	Field      string // declared name
	Name       string // reported name
	Type       ast.Expr
	Attributes []IAttribute
	Mod        TypeMod
	ID         felt.Felt
	Key        bool
	Index      bool
	Skip       bool
}

type IVariant struct {
	Variant    string // declared name
	Name       string // reported name
	Type       ast.Expr
	Attributes []IAttribute
	Mod        TypeMod
	Selector   felt.Felt
}

// Type is an extracted *IStruct or *IEnum.
type Type interface {
	Ident() string
	TypeGenerics() Generics
	// Stripped is the source item without helper attributes.
	Stripped() ast.Item
}

type IStruct struct {
	Decl          string
	Name          string
	Generics      Generics
	Attributes    []IAttribute
	Derives       []string
	Members       []IMember
	SkipAccessors bool
	ID            *felt.Felt // set by #[id] on the item
	item          *ast.Struct
}

type IEnum struct {
	Decl       string
	Name       string
	Generics   Generics
	Attributes []IAttribute
	Derives    []string
	Variants   []IVariant
	ID         *felt.Felt
	item       *ast.Enum
}

func (s *IStruct) Ident() string          { return s.Decl }
func (s *IStruct) TypeGenerics() Generics { return s.Generics }
func (s *IStruct) Stripped() ast.Item     { return s.item }
func (e *IEnum) Ident() string            { return e.Decl }
func (e *IEnum) TypeGenerics() Generics   { return e.Generics }
func (e *IEnum) Stripped() ast.Item       { return e.item }

// FullType prints the type with its use-site generics, e.g. Point<T>.
func FullType(t Type) string {
	return t.Ident() + t.TypeGenerics().UseSite()
}

// Extract runs the attribute walk over a struct or enum.
func Extract(item ast.Item) (Type, error) {
	switch x := item.(type) {
	case *ast.Struct:
		return extractStruct(x)
	case *ast.Enum:
		return extractEnum(x)
	}
	name := ast.ItemName(item)
	return nil, newError(KindUnsupportedItem, name, "", "only structs and enums can be derived")
}

// walked holds the helper attributes found on one declaration.
type walked struct {
	name          string
	id            *felt.Felt
	mod           TypeMod
	key           bool
	index         bool
	skip          bool
	skipAccessors bool
	attributes    []IAttribute
	rest          []ast.Attribute
}

func walk(attrs []ast.Attribute, item, field string) (walked, error) {
	var w walked
	seen := make(map[string]bool)
	userAttrs := make(map[string]bool)
	for _, a := range attrs {
		name := a.Name()
		if !helperAttributes[name] {
			w.rest = append(w.rest, a)
			continue
		}
		if name != AttrAttribute {
			if seen[name] {
				return w, duplicateAttribute(item, field, name)
			}
			seen[name] = true
		}
		args := attributeArgs(a)

		switch name {
		case AttrRaw, AttrKey, AttrIndex, AttrSkip, AttrSkipAccessors:
			if len(args) != 0 {
				return w, invalidAttribute(item, field, "#[%s] takes no arguments", name)
			}
			switch name {
			case AttrRaw:
				w.mod.Raw = true
			case AttrKey:
				w.key = true
			case AttrIndex:
				w.index = true
			case AttrSkip:
				w.skip = true
			case AttrSkipAccessors:
				w.skipAccessors = true
			}
		case AttrEncoded, AttrName:
			if len(args) != 1 {
				return w, invalidAttribute(item, field, "#[%s] takes exactly one argument", name)
			}
			text, ok := LiteralText(args[0].Value)
			if !ok || text == "" {
				return w, invalidAttribute(item, field, "#[%s] expects a non-empty string", name)
			}
			if name == AttrEncoded {
				w.mod.Encoding = text
			} else {
				w.name = text
			}
		case AttrID:
			if len(args) != 1 {
				return w, invalidAttribute(item, field, "#[id] takes exactly one argument")
			}
			id, err := selector.ParseID(ast.ToCairo(args[0].Value))
			if err != nil {
				return w, invalidAttribute(item, field, "%v", err)
			}
			w.id = id
		case AttrAttribute:
			if len(args) < 1 || len(args) > 2 {
				return w, invalidAttribute(item, field, "#[attribute] takes a name and optional data")
			}
			attrName, ok := LiteralText(args[0].Value)
			if !ok || attrName == "" {
				return w, invalidAttribute(item, field, "#[attribute] name must be a string")
			}
			if len(attrName) > selector.MaxASCIILen {
				return w, invalidAttribute(item, field, "attribute name %q is longer than %d bytes", attrName, selector.MaxASCIILen)
			}
			if userAttrs[attrName] {
				return w, duplicateAttribute(item, field, "attribute("+attrName+")")
			}
			userAttrs[attrName] = true
			ia := IAttribute{Name: attrName}
			if len(args) == 2 {
				data, ok := LiteralText(args[1].Value)
				if !ok {
					return w, invalidAttribute(item, field, "#[attribute] data must be a string")
				}
				ia.Data = []byte(data)
			}
			w.attributes = append(w.attributes, ia)
		}
	}
	if w.mod.Raw && w.mod.Encoding != "" {
		return w, invalidAttribute(item, field, "#[raw] and #[encoded] are exclusive")
	}
	if w.index {
		w.attributes = append(w.attributes, IAttribute{Name: AttrIndex})
	}
	if w.key {
		w.attributes = append(w.attributes, IAttribute{Name: AttrKey})
	}
	return w, nil
}

func attributeArgs(a ast.Attribute) []ast.Arg {
	if a.Args == nil {
		return nil
	}
	return a.Args.Args
}

// LiteralText unquotes a string, short string or bare identifier.
func LiteralText(e ast.Expr) (string, bool) {
	switch x := e.(type) {
	case *ast.String:
		if s, err := strconv.Unquote(x.Text); err == nil {
			return s, true
		}
		return strings.Trim(x.Text, `"`), true
	case *ast.ShortString:
		text := x.Text
		if end := strings.LastIndexByte(text, '\''); end > 0 {
			text = text[1:end]
		}
		return text, true
	case *ast.Path:
		return x.Ident()
	}
	return "", false
}

// byteType reports whether ty may carry #[raw] or #[encoded].
func byteType(ty ast.Expr) bool {
	p, ok := ty.(*ast.Path)
	if !ok || len(p.Segments) == 0 {
		return false
	}
	last := p.Last()
	return last.GenericArgs == nil && (last.Name == "ByteArray" || last.Name == "bytes31")
}

func checkMod(mod TypeMod, ty ast.Expr, item, field string) error {
	if mod.IsZero() {
		return nil
	}
	if ty == nil || !byteType(ty) {
		return invalidAttribute(item, field, "#[raw] and #[encoded] apply to ByteArray and bytes31 only")
	}
	return nil
}

func extractStruct(s *ast.Struct) (*IStruct, error) {
	top, err := walk(s.Attributes, s.Name, "")
	if err != nil {
		return nil, err
	}
	if top.key || top.index || top.skip || !top.mod.IsZero() {
		return nil, invalidAttribute(s.Name, "", "member attribute used on the struct")
	}
	out := &IStruct{
		Decl:          s.Name,
		Name:          s.Name,
		Generics:      NewGenerics(s.Generics),
		Attributes:    top.attributes,
		Derives:       ast.DeriveNames(s.Attributes),
		SkipAccessors: top.skipAccessors,
		ID:            top.id,
	}
	if top.name != "" {
		out.Name = top.name
	}

	stripped := *s
	stripped.Attributes = top.rest
	stripped.Members = nil
	ids := make(selector.Set)
	for _, m := range s.Members {
		w, err := walk(m.Attributes, s.Name, m.Name)
		if err != nil {
			return nil, err
		}
		if w.skipAccessors {
			return nil, invalidAttribute(s.Name, m.Name, "#[skip_accessors] applies to the struct")
		}
		if err := checkMod(w.mod, m.Type, s.Name, m.Name); err != nil {
			return nil, err
		}
		im := IMember{
			Field:      m.Name,
			Name:       m.Name,
			Type:       m.Type,
			Attributes: w.attributes,
			Mod:        w.mod,
			Key:        w.key,
			Index:      w.index,
			Skip:       w.skip,
		}
		if w.name != "" {
			im.Name = w.name
		}
		if w.id != nil {
			im.ID = *w.id
		} else {
			im.ID = *selector.Keccak(im.Name)
		}
		if prev, ok := ids.Add(&im.ID, im.Field); !ok {
			return nil, newError(KindDuplicateSelector, s.Name, m.Name, "id %s already used by %s", im.ID.String(), prev)
		}
		out.Members = append(out.Members, im)

		sm := m
		sm.Attributes = w.rest
		stripped.Members = append(stripped.Members, sm)
	}
	out.item = &stripped
	return out, nil
}

func extractEnum(e *ast.Enum) (*IEnum, error) {
	top, err := walk(e.Attributes, e.Name, "")
	if err != nil {
		return nil, err
	}
	if top.key || top.index || top.skip || top.skipAccessors || !top.mod.IsZero() {
		return nil, invalidAttribute(e.Name, "", "member attribute used on the enum")
	}
	out := &IEnum{
		Decl:       e.Name,
		Name:       e.Name,
		Generics:   NewGenerics(e.Generics),
		Attributes: top.attributes,
		Derives:    ast.DeriveNames(e.Attributes),
		ID:         top.id,
	}
	if top.name != "" {
		out.Name = top.name
	}

	stripped := *e
	stripped.Attributes = top.rest
	stripped.Variants = nil
	selectors := make(selector.Set)
	for _, v := range e.Variants {
		w, err := walk(v.Attributes, e.Name, v.Name)
		if err != nil {
			return nil, err
		}
		if w.key || w.index || w.skip || w.skipAccessors {
			return nil, invalidAttribute(e.Name, v.Name, "column attribute used on a variant")
		}
		if err := checkMod(w.mod, v.Type, e.Name, v.Name); err != nil {
			return nil, err
		}
		iv := IVariant{
			Variant:    v.Name,
			Name:       v.Name,
			Type:       v.Type,
			Attributes: w.attributes,
			Mod:        w.mod,
		}
		if w.name != "" {
			iv.Name = w.name
		}
		if w.id != nil {
			iv.Selector = *w.id
		} else {
			iv.Selector = *selector.Keccak(iv.Name)
		}
		if prev, ok := selectors.Add(&iv.Selector, iv.Variant); !ok {
			return nil, newError(KindDuplicateSelector, e.Name, v.Name, "selector %s already used by %s", iv.Selector.String(), prev)
		}
		out.Variants = append(out.Variants, iv)

		sv := v
		sv.Attributes = w.rest
		stripped.Variants = append(stripped.Variants, sv)
	}
	out.item = &stripped
	return out, nil
}
