package transcode

import (
	"math/big"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/holiman/uint256"

	"github.com/cartridge-gg/introspect/serde"
	"github.com/cartridge-gg/introspect/typedef"
	"github.com/cartridge-gg/introspect/value"
)

type valueFrame struct {
	kind typedef.Kind

	items  []value.Value
	strct  *value.Struct
	field  typedef.MemberDef
	enum   *value.Enum
	result bool
	some   value.Value
}

// ValueSink builds the value.Value the stream describes.
type ValueSink struct {
	stack []*valueFrame
	root  value.Value
}

var _ Serializer = &ValueSink{}

func NewValueSink() *ValueSink {
	return &ValueSink{}
}

// Value returns the completed value, or nil while containers are open.
func (s *ValueSink) Value() value.Value {
	if len(s.stack) > 0 {
		return nil
	}
	return s.root
}

// ToValue transcodes felts laid out by t into a value.
func ToValue(t typedef.TypeDef, felts []*felt.Felt, framing serde.Framing) (value.Value, error) {
	s := NewValueSink()
	if err := TranscodeFelts(t, felts, framing, s); err != nil {
		return nil, err
	}
	return s.Value(), nil
}

func (s *ValueSink) push(f *valueFrame) {
	s.stack = append(s.stack, f)
}

func (s *ValueSink) pop(kinds ...typedef.Kind) (*valueFrame, error) {
	if len(s.stack) == 0 {
		return nil, serde.InvariantViolation("no open container")
	}
	top := s.stack[len(s.stack)-1]
	for _, k := range kinds {
		if top.kind == k {
			s.stack = s.stack[:len(s.stack)-1]
			return top, nil
		}
	}
	return nil, serde.InvariantViolation("cannot close %s here", top.kind)
}

// emit hands a finished value to the innermost open container. Options
// close as soon as their payload arrives.
func (s *ValueSink) emit(v value.Value) error {
	if len(s.stack) == 0 {
		s.root = v
		return nil
	}
	top := s.stack[len(s.stack)-1]
	switch top.kind {
	case typedef.KindTuple, typedef.KindArray, typedef.KindFixedArray:
		top.items = append(top.items, v)
	case typedef.KindStruct:
		top.strct.Members = append(top.strct.Members, value.Member{
			Name:       top.field.Name,
			Attributes: top.field.Attributes,
			Value:      v,
		})
	case typedef.KindEnum, typedef.KindResult:
		top.some = v
	case typedef.KindOption:
		s.stack = s.stack[:len(s.stack)-1]
		return s.emit(value.Some(v))
	case typedef.KindNullable:
		s.stack = s.stack[:len(s.stack)-1]
		return s.emit(value.Nullable{NotNull: true, Value: v})
	default:
		return serde.InvariantViolation("unexpected value inside %s", top.kind)
	}
	return nil
}

func (s *ValueSink) Unit() error {
	return s.emit(value.None{})
}

func (s *ValueSink) Bool(v bool) error {
	return s.emit(value.Bool(v))
}

func (s *ValueSink) Uint(_ typedef.Kind, v uint64) error {
	return s.emit(value.Uint(v))
}

func (s *ValueSink) Int(_ typedef.Kind, v int64) error {
	return s.emit(value.Int(v))
}

func (s *ValueSink) BigUint(kind typedef.Kind, v *big.Int) error {
	if kind == typedef.KindU256 {
		u, overflow := uint256.FromBig(v)
		if overflow {
			return serde.Message("%s overflows u256", v.String())
		}
		return s.emit(value.U256{Value: u})
	}
	return s.emit(value.BigUint{Value: v})
}

func (s *ValueSink) BigInt(_ typedef.Kind, v *big.Int) error {
	return s.emit(value.BigInt{Value: v})
}

func (s *ValueSink) Felt(_ typedef.Kind, v *felt.Felt) error {
	return s.emit(value.FeltOf(v))
}

func (s *ValueSink) Bytes(v []byte) error {
	return s.emit(value.Bytes(v))
}

func (s *ValueSink) String(_ typedef.Kind, v string) error {
	return s.emit(value.String(v))
}

func (s *ValueSink) Bytes31(v []byte) error {
	return s.emit(value.Bytes(v))
}

func (s *ValueSink) EncodedBytes(_ typedef.Kind, encoding string, v []byte) error {
	return s.emit(value.EncodedBytes{Encoding: encoding, Bytes: v})
}

func (s *ValueSink) Custom(encoding string, values []*felt.Felt) error {
	return s.emit(value.Custom{Encoding: encoding, Values: values})
}

func (s *ValueSink) BeginSeq(kind typedef.Kind, n int) error {
	s.push(&valueFrame{kind: kind, items: make([]value.Value, 0, min(n, 1024))})
	return nil
}

func (s *ValueSink) EndSeq() error {
	f, err := s.pop(typedef.KindTuple, typedef.KindArray, typedef.KindFixedArray)
	if err != nil {
		return err
	}
	switch f.kind {
	case typedef.KindTuple:
		return s.emit(value.Tuple(f.items))
	case typedef.KindArray:
		return s.emit(value.Array(f.items))
	default:
		return s.emit(value.FixedArray(f.items))
	}
}

func (s *ValueSink) BeginStruct(def *typedef.Struct) error {
	s.push(&valueFrame{
		kind: typedef.KindStruct,
		strct: &value.Struct{
			Name:       def.Name,
			Attributes: def.Attributes,
			Members:    make([]value.Member, 0, len(def.Members)),
		},
	})
	return nil
}

func (s *ValueSink) Field(m typedef.MemberDef) error {
	if len(s.stack) == 0 || s.stack[len(s.stack)-1].kind != typedef.KindStruct {
		return serde.InvariantViolation("field %q outside of a struct", m.Name)
	}
	s.stack[len(s.stack)-1].field = m
	return nil
}

func (s *ValueSink) EndStruct() error {
	f, err := s.pop(typedef.KindStruct)
	if err != nil {
		return err
	}
	return s.emit(f.strct)
}

func (s *ValueSink) BeginVariant(owner typedef.TypeDef, v typedef.VariantDef) error {
	switch o := owner.(type) {
	case *typedef.Enum:
		s.push(&valueFrame{kind: typedef.KindEnum, enum: &value.Enum{
			Name:              o.Name,
			Attributes:        o.Attributes,
			Variant:           v.Name,
			Selector:          v.Selector,
			VariantAttributes: v.Attributes,
		}})
	case typedef.Result:
		s.push(&valueFrame{kind: typedef.KindResult, result: v.Selector.IsZero()})
	default:
		return serde.InvariantViolation("variant of %T", owner)
	}
	return nil
}

func (s *ValueSink) EndVariant() error {
	f, err := s.pop(typedef.KindEnum, typedef.KindResult)
	if err != nil {
		return err
	}
	if f.kind == typedef.KindResult {
		return s.emit(value.Result{Ok: f.result, Value: f.some})
	}
	f.enum.Value = f.some
	return s.emit(f.enum)
}

func (s *ValueSink) Option(owner typedef.TypeDef, some bool) error {
	kind := owner.Kind()
	if !some {
		if kind == typedef.KindNullable {
			return s.emit(value.Nullable{})
		}
		return s.emit(value.Option{})
	}
	s.push(&valueFrame{kind: kind})
	return nil
}

func (s *ValueSink) BeginMap(int) error {
	return serde.InvalidEncoding("maps have no value form")
}

func (s *ValueSink) Key(string) error {
	return serde.InvalidEncoding("maps have no value form")
}

func (s *ValueSink) EndMap() error {
	return serde.InvalidEncoding("maps have no value form")
}
