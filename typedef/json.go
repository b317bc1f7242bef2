package typedef

import (
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/cockroachdb/errors"
)

// jsonDef is the JSON form of a TypeDef:
//
//	{"type": "u32"}
//	{"type": "array", "elem": {...}}
//	{"type": "struct", "name": "P", "members": [{"name": "x", "type_def": {...}}]}
type jsonDef struct {
	Type       string          `json:"type"`
	Name       string          `json:"name,omitempty"`
	Encoding   string          `json:"encoding,omitempty"`
	ID         *felt.Felt      `json:"id,omitempty"`
	Elem       *jsonDef        `json:"elem,omitempty"`
	Size       *uint32         `json:"size,omitempty"`
	Elements   []*jsonDef      `json:"elements,omitempty"`
	Ok         *jsonDef        `json:"ok,omitempty"`
	Err        *jsonDef        `json:"err,omitempty"`
	Attributes []jsonAttribute `json:"attributes,omitempty"`
	Members    []jsonMember    `json:"members,omitempty"`
	Variants   []jsonMember    `json:"variants,omitempty"`
}

type jsonAttribute struct {
	ID   *felt.Felt `json:"id"`
	Data *string    `json:"data,omitempty"`
}

type jsonMember struct {
	Selector   *felt.Felt      `json:"selector,omitempty"`
	Name       string          `json:"name"`
	Attributes []jsonAttribute `json:"attributes,omitempty"`
	TypeDef    *jsonDef        `json:"type_def"`
}

// JSONName is the snake_case name of k used in the JSON form.
func JSONName(k Kind) string {
	name := k.String()
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

var kindByJSONName = func() map[string]Kind {
	m := make(map[string]Kind, numKinds)
	for k := Kind(0); k < numKinds; k++ {
		m[JSONName(k)] = k
	}
	return m
}()

// MarshalJSON encodes t in its JSON form.
func MarshalJSON(t TypeDef) ([]byte, error) {
	d, err := toJSON(t)
	if err != nil {
		return nil, err
	}
	return json.Marshal(d)
}

// ParseJSON decodes the JSON form produced by MarshalJSON.
func ParseJSON(data []byte) (TypeDef, error) {
	var d jsonDef
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(err, "parse typedef json")
	}
	return fromJSON(&d)
}

func toJSON(t TypeDef) (*jsonDef, error) {
	if t == nil {
		return nil, errors.New("nil TypeDef")
	}
	d := &jsonDef{Type: JSONName(t.Kind())}
	var err error

	switch x := t.(type) {
	case Scalar:
	case ByteArrayEncoded:
		d.Encoding = x.Encoding
	case Bytes31Encoded:
		d.Encoding = x.Encoding
	case Custom:
		d.Encoding = x.Encoding
	case Tuple:
		d.Elements = make([]*jsonDef, len(x.Elements))
		for i, e := range x.Elements {
			if d.Elements[i], err = toJSON(e); err != nil {
				return nil, err
			}
		}
	case Array:
		d.Elem, err = toJSON(x.Elem)
	case FixedArray:
		size := x.Size
		d.Size = &size
		d.Elem, err = toJSON(x.Elem)
	case Felt252Dict:
		d.Elem, err = toJSON(x.Elem)
	case Option:
		d.Elem, err = toJSON(x.Elem)
	case Nullable:
		d.Elem, err = toJSON(x.Elem)
	case Result:
		if d.Ok, err = toJSON(x.Ok); err != nil {
			return nil, err
		}
		d.Err, err = toJSON(x.Err)
	case Ref:
		id := x.ID
		d.ID = &id
	case *Struct:
		d.Name = x.Name
		d.Attributes = attributesToJSON(x.Attributes)
		d.Members = make([]jsonMember, len(x.Members))
		for i, m := range x.Members {
			if d.Members[i], err = memberToJSON(nil, m.Name, m.Attributes, m.TypeDef); err != nil {
				return nil, err
			}
		}
	case *Enum:
		d.Name = x.Name
		d.Attributes = attributesToJSON(x.Attributes)
		for _, v := range x.OrderedVariants() {
			sel := v.Selector
			m, err := memberToJSON(&sel, v.Name, v.Attributes, v.TypeDef)
			if err != nil {
				return nil, err
			}
			d.Variants = append(d.Variants, m)
		}
	default:
		return nil, errors.Newf("unhandled %T", t)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func memberToJSON(sel *felt.Felt, name string, attrs []Attribute, t TypeDef) (jsonMember, error) {
	d, err := toJSON(t)
	if err != nil {
		return jsonMember{}, errors.Wrapf(err, "member %s", name)
	}
	return jsonMember{Selector: sel, Name: name, Attributes: attributesToJSON(attrs), TypeDef: d}, nil
}

func attributesToJSON(attrs []Attribute) []jsonAttribute {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]jsonAttribute, len(attrs))
	for i, a := range attrs {
		id := a.ID
		out[i].ID = &id
		if a.Data != nil {
			s := "0x" + hex.EncodeToString(a.Data)
			out[i].Data = &s
		}
	}
	return out
}

func fromJSON(d *jsonDef) (TypeDef, error) {
	if d == nil {
		return nil, errors.New("missing type definition")
	}
	kind, ok := kindByJSONName[d.Type]
	if !ok {
		return nil, errors.WithHint(errors.Newf("unknown type %q", d.Type), `types are snake_case, e.g. "u32" or "byte_array"`)
	}
	if kind.IsScalar() {
		return Scalar(kind), nil
	}

	switch kind {
	case KindByteArrayEncoded:
		return ByteArrayEncoded{Encoding: d.Encoding}, nil
	case KindBytes31Encoded:
		return Bytes31Encoded{Encoding: d.Encoding}, nil
	case KindCustom:
		return Custom{Encoding: d.Encoding}, nil
	case KindTuple:
		elems := make([]TypeDef, len(d.Elements))
		for i, e := range d.Elements {
			t, err := fromJSON(e)
			if err != nil {
				return nil, err
			}
			elems[i] = t
		}
		return Tuple{Elements: elems}, nil
	case KindArray, KindFixedArray, KindFelt252Dict, KindOption, KindNullable:
		elem, err := fromJSON(d.Elem)
		if err != nil {
			return nil, errors.Wrapf(err, "%s element", d.Type)
		}
		switch kind {
		case KindArray:
			return Array{Elem: elem}, nil
		case KindFixedArray:
			if d.Size == nil {
				return nil, errors.New("fixed_array requires size")
			}
			return FixedArray{Elem: elem, Size: *d.Size}, nil
		case KindFelt252Dict:
			return Felt252Dict{Elem: elem}, nil
		case KindOption:
			return Option{Elem: elem}, nil
		default:
			return Nullable{Elem: elem}, nil
		}
	case KindResult:
		ok, err := fromJSON(d.Ok)
		if err != nil {
			return nil, errors.Wrap(err, "result ok")
		}
		e, err := fromJSON(d.Err)
		if err != nil {
			return nil, errors.Wrap(err, "result err")
		}
		return Result{Ok: ok, Err: e}, nil
	case KindRef:
		if d.ID == nil {
			return nil, errors.New("ref requires id")
		}
		return Ref{ID: *d.ID}, nil
	case KindStruct:
		attrs, err := attributesFromJSON(d.Attributes)
		if err != nil {
			return nil, err
		}
		s := &Struct{Name: d.Name, Attributes: attrs}
		for _, m := range d.Members {
			member, err := memberFromJSON(m)
			if err != nil {
				return nil, errors.Wrapf(err, "struct %s", d.Name)
			}
			s.Members = append(s.Members, member)
		}
		return s, nil
	case KindEnum:
		attrs, err := attributesFromJSON(d.Attributes)
		if err != nil {
			return nil, err
		}
		variants := make([]VariantDef, 0, len(d.Variants))
		for _, v := range d.Variants {
			member, err := memberFromJSON(v)
			if err != nil {
				return nil, errors.Wrapf(err, "enum %s", d.Name)
			}
			if v.Selector == nil {
				return nil, errors.Newf("enum %s: variant %s requires selector", d.Name, v.Name)
			}
			variants = append(variants, VariantDef{
				Selector:   *v.Selector,
				Name:       member.Name,
				Attributes: member.Attributes,
				TypeDef:    member.TypeDef,
			})
		}
		return NewEnum(d.Name, attrs, variants)
	}
	return nil, errors.Newf("unhandled kind %s", kind)
}

func memberFromJSON(m jsonMember) (MemberDef, error) {
	attrs, err := attributesFromJSON(m.Attributes)
	if err != nil {
		return MemberDef{}, err
	}
	t, err := fromJSON(m.TypeDef)
	if err != nil {
		return MemberDef{}, errors.Wrapf(err, "member %s", m.Name)
	}
	return MemberDef{Name: m.Name, Attributes: attrs, TypeDef: t}, nil
}

func attributesFromJSON(attrs []jsonAttribute) ([]Attribute, error) {
	var out []Attribute
	for _, a := range attrs {
		if a.ID == nil {
			return nil, errors.New("attribute requires id")
		}
		attr := Attribute{ID: *a.ID}
		if a.Data != nil {
			data, err := hex.DecodeString(strings.TrimPrefix(*a.Data, "0x"))
			if err != nil {
				return nil, errors.Wrapf(err, "attribute %s data", a.ID.String())
			}
			attr.Data = data
		}
		out = append(out, attr)
	}
	return out, nil
}

// MarshalJSON encodes a as {"id": "0x..", "data": "0x.."}.
func (a Attribute) MarshalJSON() ([]byte, error) {
	return json.Marshal(attributesToJSON([]Attribute{a})[0])
}

func (a *Attribute) UnmarshalJSON(data []byte) error {
	var j jsonAttribute
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	attrs, err := attributesFromJSON([]jsonAttribute{j})
	if err != nil {
		return err
	}
	*a = attrs[0]
	return nil
}

// Def wraps a TypeDef so it can sit in a struct that is marshaled to JSON.
type Def struct {
	TypeDef
}

func (d Def) MarshalJSON() ([]byte, error) {
	return MarshalJSON(d.TypeDef)
}

func (d *Def) UnmarshalJSON(data []byte) error {
	t, err := ParseJSON(data)
	if err != nil {
		return err
	}
	d.TypeDef = t
	return nil
}
