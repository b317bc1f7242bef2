// Package typedef implements the TypeDef model: a closed tagged union of type
// descriptors with a deterministic felt encoding in both framings, a JSON
// form, a Cairo constructor printer and a library that resolves Ref ids.
package typedef

import (
	"bytes"
	"fmt"

	"github.com/NethermindEth/juno/core/felt"

	"github.com/cartridge-gg/introspect/serde"
)

// TypeDef describes the layout of a value on the wire.
type TypeDef interface {
	Kind() Kind
}

// Scalar is every payload-free variant.
type Scalar Kind

func (s Scalar) Kind() Kind { return Kind(s) }

var (
	None               = Scalar(KindNone)
	Felt252            = Scalar(KindFelt252)
	Bool               = Scalar(KindBool)
	U8                 = Scalar(KindU8)
	U16                = Scalar(KindU16)
	U32                = Scalar(KindU32)
	U64                = Scalar(KindU64)
	U128               = Scalar(KindU128)
	U256               = Scalar(KindU256)
	U512               = Scalar(KindU512)
	I8                 = Scalar(KindI8)
	I16                = Scalar(KindI16)
	I32                = Scalar(KindI32)
	I64                = Scalar(KindI64)
	I128               = Scalar(KindI128)
	ShortUtf8          = Scalar(KindShortUtf8)
	Bytes31            = Scalar(KindBytes31)
	ClassHash          = Scalar(KindClassHash)
	ContractAddress    = Scalar(KindContractAddress)
	EthAddress         = Scalar(KindEthAddress)
	StorageAddress     = Scalar(KindStorageAddress)
	StorageBaseAddress = Scalar(KindStorageBaseAddress)
	ByteArray          = Scalar(KindByteArray)
	Utf8String         = Scalar(KindUtf8String)
)

// Attribute is a tagged piece of metadata. A nil Data means no data.
type Attribute struct {
	ID   felt.Felt
	Data []byte
}

func NewAttribute(id *felt.Felt, data []byte) Attribute {
	return Attribute{ID: *id, Data: data}
}

func (a Attribute) Equal(b Attribute) bool {
	if !a.ID.Equal(&b.ID) || (a.Data == nil) != (b.Data == nil) {
		return false
	}
	return bytes.Equal(a.Data, b.Data)
}

type ByteArrayEncoded struct {
	Encoding string
}

type Bytes31Encoded struct {
	Encoding string
}

type Tuple struct {
	Elements []TypeDef
}

type Array struct {
	Elem TypeDef
}

type FixedArray struct {
	Elem TypeDef
	Size uint32
}

type Felt252Dict struct {
	Elem TypeDef
}

type MemberDef struct {
	Name       string
	Attributes []Attribute
	TypeDef    TypeDef
}

type Struct struct {
	Name       string
	Attributes []Attribute
	Members    []MemberDef
}

type VariantDef struct {
	Selector   felt.Felt
	Name       string
	Attributes []Attribute
	TypeDef    TypeDef
}

// Enum keeps its variants keyed by selector; Order fixes iteration and equality.
type Enum struct {
	Name       string
	Attributes []Attribute
	Variants   map[felt.Felt]VariantDef
	Order      []felt.Felt
}

type Option struct {
	Elem TypeDef
}

type Result struct {
	Ok  TypeDef
	Err TypeDef
}

type Nullable struct {
	Elem TypeDef
}

// Ref points at a definition stored in a Library.
type Ref struct {
	ID felt.Felt
}

// Custom is an opaque, length-prefixed felt payload labelled by Encoding.
type Custom struct {
	Encoding string
}

func (ByteArrayEncoded) Kind() Kind { return KindByteArrayEncoded }
func (Bytes31Encoded) Kind() Kind   { return KindBytes31Encoded }
func (Tuple) Kind() Kind            { return KindTuple }
func (Array) Kind() Kind            { return KindArray }
func (FixedArray) Kind() Kind       { return KindFixedArray }
func (Felt252Dict) Kind() Kind      { return KindFelt252Dict }
func (*Struct) Kind() Kind          { return KindStruct }
func (*Enum) Kind() Kind            { return KindEnum }
func (Option) Kind() Kind           { return KindOption }
func (Result) Kind() Kind           { return KindResult }
func (Nullable) Kind() Kind         { return KindNullable }
func (Ref) Kind() Kind              { return KindRef }
func (Custom) Kind() Kind           { return KindCustom }

// ToTypeDef collapses () to None and (T,) to T.
func (t Tuple) ToTypeDef() TypeDef {
	switch len(t.Elements) {
	case 0:
		return None
	case 1:
		return t.Elements[0]
	default:
		return t
	}
}

// NewEnum builds an enum, rejecting duplicate selectors.
func NewEnum(name string, attributes []Attribute, variants []VariantDef) (*Enum, error) {
	e := &Enum{
		Name:       name,
		Attributes: attributes,
		Variants:   make(map[felt.Felt]VariantDef, len(variants)),
		Order:      make([]felt.Felt, 0, len(variants)),
	}
	for _, v := range variants {
		if prev, ok := e.Variants[v.Selector]; ok {
			return nil, serde.InvariantViolation(
				"enum %s: variants %s and %s share selector %s", name, prev.Name, v.Name, v.Selector.String())
		}
		e.Variants[v.Selector] = v
		e.Order = append(e.Order, v.Selector)
	}
	return e, nil
}

// Variant looks up a variant by selector.
func (e *Enum) Variant(sel *felt.Felt) (VariantDef, bool) {
	v, ok := e.Variants[*sel]
	return v, ok
}

// OrderedVariants returns the variants in declaration order.
func (e *Enum) OrderedVariants() []VariantDef {
	out := make([]VariantDef, 0, len(e.Order))
	for _, sel := range e.Order {
		out = append(out, e.Variants[sel])
	}
	return out
}

// Validate checks the Order/Variants invariant.
func (e *Enum) Validate() error {
	if len(e.Order) != len(e.Variants) {
		return serde.InvariantViolation("enum %s: %d ordered selectors for %d variants", e.Name, len(e.Order), len(e.Variants))
	}
	for _, sel := range e.Order {
		if _, ok := e.Variants[sel]; !ok {
			return serde.InvariantViolation("enum %s: ordered selector %s has no variant", e.Name, sel.String())
		}
	}
	return nil
}

// Member returns the member with the given name.
func (s *Struct) Member(name string) (MemberDef, bool) {
	for _, m := range s.Members {
		if m.Name == name {
			return m, true
		}
	}
	return MemberDef{}, false
}

// ============================================================================
// Equality
// ============================================================================

// Equal reports structural equality. Enum variants compare in Order.
func Equal(a, b TypeDef) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Scalar:
		return true
	case ByteArrayEncoded:
		return x.Encoding == b.(ByteArrayEncoded).Encoding
	case Bytes31Encoded:
		return x.Encoding == b.(Bytes31Encoded).Encoding
	case Custom:
		return x.Encoding == b.(Custom).Encoding
	case Tuple:
		y := b.(Tuple)
		if len(x.Elements) != len(y.Elements) {
			return false
		}
		for i := range x.Elements {
			if !Equal(x.Elements[i], y.Elements[i]) {
				return false
			}
		}
		return true
	case Array:
		return Equal(x.Elem, b.(Array).Elem)
	case FixedArray:
		y := b.(FixedArray)
		return x.Size == y.Size && Equal(x.Elem, y.Elem)
	case Felt252Dict:
		return Equal(x.Elem, b.(Felt252Dict).Elem)
	case Option:
		return Equal(x.Elem, b.(Option).Elem)
	case Nullable:
		return Equal(x.Elem, b.(Nullable).Elem)
	case Result:
		y := b.(Result)
		return Equal(x.Ok, y.Ok) && Equal(x.Err, y.Err)
	case Ref:
		y := b.(Ref)
		return x.ID.Equal(&y.ID)
	case *Struct:
		y := b.(*Struct)
		if x.Name != y.Name || !attributesEqual(x.Attributes, y.Attributes) || len(x.Members) != len(y.Members) {
			return false
		}
		for i := range x.Members {
			mx, my := x.Members[i], y.Members[i]
			if mx.Name != my.Name || !attributesEqual(mx.Attributes, my.Attributes) || !Equal(mx.TypeDef, my.TypeDef) {
				return false
			}
		}
		return true
	case *Enum:
		y := b.(*Enum)
		if x.Name != y.Name || !attributesEqual(x.Attributes, y.Attributes) || len(x.Order) != len(y.Order) {
			return false
		}
		for i := range x.Order {
			if !x.Order[i].Equal(&y.Order[i]) {
				return false
			}
			vx, vy := x.Variants[x.Order[i]], y.Variants[y.Order[i]]
			if vx.Name != vy.Name || !attributesEqual(vx.Attributes, vy.Attributes) || !Equal(vx.TypeDef, vy.TypeDef) {
				return false
			}
		}
		return true
	default:
		panic(fmt.Sprintf("typedef: unhandled %T", a))
	}
}

func attributesEqual(a, b []Attribute) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// HasRef reports whether t contains a Ref anywhere.
func HasRef(t TypeDef) bool {
	found := false
	Walk(t, func(t TypeDef) bool {
		if _, ok := t.(Ref); ok {
			found = true
		}
		return !found
	})
	return found
}

// Walk visits t and its children depth first until visit returns false.
func Walk(t TypeDef, visit func(TypeDef) bool) bool {
	if !visit(t) {
		return false
	}
	for _, child := range Children(t) {
		if !Walk(child, visit) {
			return false
		}
	}
	return true
}

// Children returns the directly nested definitions of t.
func Children(t TypeDef) []TypeDef {
	switch x := t.(type) {
	case Tuple:
		return x.Elements
	case Array:
		return []TypeDef{x.Elem}
	case FixedArray:
		return []TypeDef{x.Elem}
	case Felt252Dict:
		return []TypeDef{x.Elem}
	case Option:
		return []TypeDef{x.Elem}
	case Nullable:
		return []TypeDef{x.Elem}
	case Result:
		return []TypeDef{x.Ok, x.Err}
	case *Struct:
		out := make([]TypeDef, len(x.Members))
		for i, m := range x.Members {
			out[i] = m.TypeDef
		}
		return out
	case *Enum:
		out := make([]TypeDef, 0, len(x.Order))
		for _, v := range x.OrderedVariants() {
			out = append(out, v.TypeDef)
		}
		return out
	}
	return nil
}
