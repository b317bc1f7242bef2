package typedef

import (
	"fmt"

	"github.com/NethermindEth/juno/core/felt"

	"github.com/cartridge-gg/introspect/serde"
)

// MaxDepth bounds nesting when decoding untrusted input.
const MaxDepth = 128

// Encode writes t: its kind selector followed by the payload in declaration
// order. Names always use the Cairo ByteArray layout; attribute data follows
// the framing.
func Encode(w serde.FeltSink, t TypeDef, framing serde.Framing) error {
	if t == nil {
		return serde.InvariantViolation("nil TypeDef")
	}
	// the selector table only covers known kinds
	if s, ok := t.(Scalar); ok && !Kind(s).IsScalar() {
		return serde.InvalidEncoding("%s is not a scalar kind", Kind(s))
	}
	w.WriteFelt(t.Kind().Selector())

	switch x := t.(type) {
	case ByteArrayEncoded:
		serde.WriteString(w, x.Encoding)
	case Bytes31Encoded:
		serde.WriteString(w, x.Encoding)
	case Custom:
		serde.WriteString(w, x.Encoding)
	case Tuple:
		return encodeList(w, x.Elements, framing)
	case Array:
		return Encode(w, x.Elem, framing)
	case FixedArray:
		if err := Encode(w, x.Elem, framing); err != nil {
			return err
		}
		serde.WriteUint(w, uint64(x.Size))
	case Felt252Dict:
		return Encode(w, x.Elem, framing)
	case Option:
		return Encode(w, x.Elem, framing)
	case Nullable:
		return Encode(w, x.Elem, framing)
	case Result:
		if err := Encode(w, x.Ok, framing); err != nil {
			return err
		}
		return Encode(w, x.Err, framing)
	case Ref:
		w.WriteFelt(&x.ID)
	case *Struct:
		serde.WriteString(w, x.Name)
		if err := EncodeAttributes(w, x.Attributes, framing); err != nil {
			return err
		}
		return serde.WriteList(w, x.Members, func(w serde.FeltSink, m MemberDef) error {
			return encodeMember(w, m, framing)
		})
	case *Enum:
		if err := x.Validate(); err != nil {
			return err
		}
		serde.WriteString(w, x.Name)
		if err := EncodeAttributes(w, x.Attributes, framing); err != nil {
			return err
		}
		return serde.WriteList(w, x.OrderedVariants(), func(w serde.FeltSink, v VariantDef) error {
			w.WriteFelt(&v.Selector)
			return encodeMember(w, MemberDef{Name: v.Name, Attributes: v.Attributes, TypeDef: v.TypeDef}, framing)
		})
	default:
		panic(fmt.Sprintf("typedef: unhandled %T", t))
	}
	return nil
}

func encodeList(w serde.FeltSink, defs []TypeDef, framing serde.Framing) error {
	return serde.WriteList(w, defs, func(w serde.FeltSink, t TypeDef) error {
		return Encode(w, t, framing)
	})
}

func encodeMember(w serde.FeltSink, m MemberDef, framing serde.Framing) error {
	serde.WriteString(w, m.Name)
	if err := EncodeAttributes(w, m.Attributes, framing); err != nil {
		return err
	}
	return Encode(w, m.TypeDef, framing)
}

// EncodeAttributes writes a length-prefixed attribute list.
func EncodeAttributes(w serde.FeltSink, attrs []Attribute, framing serde.Framing) error {
	return serde.WriteList(w, attrs, func(w serde.FeltSink, a Attribute) error {
		return EncodeAttribute(w, a, framing)
	})
}

// EncodeAttribute writes one attribute. Serde: id then Option<ByteArray>.
// ISerde: id flagged with HeaderData when data follows as a self-delimited
// byte array.
func EncodeAttribute(w serde.FeltSink, a Attribute, framing serde.Framing) error {
	if framing == serde.ISerde {
		if a.Data == nil {
			if _, flagged := serde.SplitData(&a.ID); flagged {
				return serde.InvalidEncoding("attribute id %s uses reserved header bits", a.ID.String())
			}
			w.WriteFelt(&a.ID)
			return nil
		}
		id, err := serde.FlagData(&a.ID)
		if err != nil {
			return err
		}
		w.WriteFelt(id)
		serde.WriteIByteArray(w, a.Data)
		return nil
	}

	w.WriteFelt(&a.ID)
	framing.WriteOptionTag(w, a.Data != nil)
	if a.Data != nil {
		serde.WriteByteArray(w, a.Data)
	}
	return nil
}

// EncodeFelts is Encode into a fresh slice.
func EncodeFelts(t TypeDef, framing serde.Framing) ([]*felt.Felt, error) {
	w := serde.NewFeltWriter(16)
	if err := Encode(w, t, framing); err != nil {
		return nil, err
	}
	return w.Felts(), nil
}

// ============================================================================
// Decoding
// ============================================================================

// Decode reads one TypeDef. Unknown selectors yield InvalidTag.
func Decode(src serde.FeltSource, framing serde.Framing) (TypeDef, error) {
	return decode(src, framing, 0)
}

// DecodeFelts decodes exactly one TypeDef from felts.
func DecodeFelts(felts []*felt.Felt, framing serde.Framing) (TypeDef, error) {
	r := serde.NewFeltReader(felts)
	t, err := Decode(r, framing)
	if err != nil {
		return nil, err
	}
	if !r.IsEOF() {
		return nil, serde.TrailingData()
	}
	return t, nil
}

func decode(src serde.FeltSource, framing serde.Framing, depth int) (TypeDef, error) {
	if depth > MaxDepth {
		return nil, serde.InvalidEncoding("type nesting exceeds %d", MaxDepth)
	}
	tag, err := src.Next()
	if err != nil {
		return nil, err
	}
	kind, ok := KindFromSelector(tag)
	if !ok {
		return nil, serde.InvalidTag("TypeDef", tag)
	}

	t, err := decodePayload(src, kind, framing, depth)
	if err != nil {
		return nil, serde.Promote(err)
	}
	return t, nil
}

func decodePayload(src serde.FeltSource, kind Kind, framing serde.Framing, depth int) (TypeDef, error) {
	if kind.IsScalar() {
		return Scalar(kind), nil
	}

	inner := func() (TypeDef, error) {
		return decode(src, framing, depth+1)
	}

	switch kind {
	case KindByteArrayEncoded:
		s, err := serde.ReadString(src)
		return ByteArrayEncoded{Encoding: s}, err
	case KindBytes31Encoded:
		s, err := serde.ReadString(src)
		return Bytes31Encoded{Encoding: s}, err
	case KindCustom:
		s, err := serde.ReadString(src)
		return Custom{Encoding: s}, err
	case KindTuple:
		elems, err := serde.ReadList(src, func(src serde.FeltSource) (TypeDef, error) {
			return decode(src, framing, depth+1)
		})
		return Tuple{Elements: elems}, err
	case KindArray:
		elem, err := inner()
		return Array{Elem: elem}, err
	case KindFixedArray:
		elem, err := inner()
		if err != nil {
			return nil, err
		}
		size, err := serde.ReadU32(src)
		return FixedArray{Elem: elem, Size: size}, err
	case KindFelt252Dict:
		elem, err := inner()
		return Felt252Dict{Elem: elem}, err
	case KindOption:
		elem, err := inner()
		return Option{Elem: elem}, err
	case KindNullable:
		elem, err := inner()
		return Nullable{Elem: elem}, err
	case KindResult:
		ok, err := inner()
		if err != nil {
			return nil, err
		}
		e, err := inner()
		return Result{Ok: ok, Err: e}, err
	case KindRef:
		id, err := src.Next()
		if err != nil {
			return nil, err
		}
		return Ref{ID: *id}, nil
	case KindStruct:
		return decodeStruct(src, framing, depth)
	case KindEnum:
		return decodeEnum(src, framing, depth)
	}
	return nil, serde.InvalidEncoding("unhandled kind %s", kind)
}

func decodeStruct(src serde.FeltSource, framing serde.Framing, depth int) (TypeDef, error) {
	name, err := serde.ReadString(src)
	if err != nil {
		return nil, err
	}
	attrs, err := DecodeAttributes(src, framing)
	if err != nil {
		return nil, err
	}
	members, err := serde.ReadList(src, func(src serde.FeltSource) (MemberDef, error) {
		return decodeMember(src, framing, depth)
	})
	if err != nil {
		return nil, err
	}
	return &Struct{Name: name, Attributes: attrs, Members: members}, nil
}

func decodeEnum(src serde.FeltSource, framing serde.Framing, depth int) (TypeDef, error) {
	name, err := serde.ReadString(src)
	if err != nil {
		return nil, err
	}
	attrs, err := DecodeAttributes(src, framing)
	if err != nil {
		return nil, err
	}
	variants, err := serde.ReadList(src, func(src serde.FeltSource) (VariantDef, error) {
		sel, err := src.Next()
		if err != nil {
			return VariantDef{}, err
		}
		m, err := decodeMember(src, framing, depth)
		if err != nil {
			return VariantDef{}, serde.Promote(err)
		}
		return VariantDef{Selector: *sel, Name: m.Name, Attributes: m.Attributes, TypeDef: m.TypeDef}, nil
	})
	if err != nil {
		return nil, err
	}
	return NewEnum(name, attrs, variants)
}

func decodeMember(src serde.FeltSource, framing serde.Framing, depth int) (MemberDef, error) {
	name, err := serde.ReadString(src)
	if err != nil {
		return MemberDef{}, err
	}
	attrs, err := DecodeAttributes(src, framing)
	if err != nil {
		return MemberDef{}, serde.Promote(err)
	}
	t, err := decode(src, framing, depth+1)
	if err != nil {
		return MemberDef{}, serde.Promote(err)
	}
	return MemberDef{Name: name, Attributes: attrs, TypeDef: t}, nil
}

// DecodeAttributes reads a length-prefixed attribute list.
func DecodeAttributes(src serde.FeltSource, framing serde.Framing) ([]Attribute, error) {
	return serde.ReadList(src, func(src serde.FeltSource) (Attribute, error) {
		return DecodeAttribute(src, framing)
	})
}

// DecodeAttribute reads one attribute.
func DecodeAttribute(src serde.FeltSource, framing serde.Framing) (Attribute, error) {
	id, err := src.Next()
	if err != nil {
		return Attribute{}, err
	}

	if framing == serde.ISerde {
		bare, hasData := serde.SplitData(id)
		if !hasData {
			return Attribute{ID: *bare}, nil
		}
		data, err := serde.ReadIByteArray(src)
		if err != nil {
			return Attribute{}, serde.Promote(err)
		}
		return Attribute{ID: *bare, Data: nonNil(data)}, nil
	}

	some, err := framing.ReadOptionTag(src, "Attribute.data")
	if err != nil {
		return Attribute{}, serde.Promote(err)
	}
	if !some {
		return Attribute{ID: *id}, nil
	}
	data, err := serde.ReadByteArray(src)
	if err != nil {
		return Attribute{}, serde.Promote(err)
	}
	return Attribute{ID: *id, Data: nonNil(data)}, nil
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
