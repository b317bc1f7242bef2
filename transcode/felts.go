package transcode

import (
	"math/big"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/holiman/uint256"

	"github.com/cartridge-gg/introspect/serde"
	"github.com/cartridge-gg/introspect/typedef"
)

// FeltSink re-encodes the stream into felts using its own framing, which
// turns Transcode into a Serde <-> ISerde converter.
type FeltSink struct {
	w       *serde.FeltWriter
	framing serde.Framing
}

var _ Serializer = &FeltSink{}

func NewFeltSink(framing serde.Framing) *FeltSink {
	return &FeltSink{w: serde.NewFeltWriter(16), framing: framing}
}

func (s *FeltSink) Felts() []*felt.Felt {
	return s.w.Felts()
}

// Reframe converts felts laid out by t from one framing to another.
func Reframe(t typedef.TypeDef, felts []*felt.Felt, from, to serde.Framing) ([]*felt.Felt, error) {
	s := NewFeltSink(to)
	if err := TranscodeFelts(t, felts, from, s); err != nil {
		return nil, err
	}
	return s.Felts(), nil
}

func (s *FeltSink) Unit() error {
	return nil
}

func (s *FeltSink) Bool(v bool) error {
	serde.WriteBool(s.w, v)
	return nil
}

func (s *FeltSink) Uint(_ typedef.Kind, v uint64) error {
	serde.WriteUint(s.w, v)
	return nil
}

func (s *FeltSink) Int(_ typedef.Kind, v int64) error {
	serde.WriteInt(s.w, v)
	return nil
}

func (s *FeltSink) BigUint(kind typedef.Kind, v *big.Int) error {
	switch kind {
	case typedef.KindU256:
		u, overflow := uint256.FromBig(v)
		if overflow {
			return serde.Message("%s overflows u256", v.String())
		}
		serde.WriteU256(s.w, u)
	case typedef.KindU512:
		serde.WriteU512(s.w, v)
	default:
		serde.WriteBigInt(s.w, v)
	}
	return nil
}

func (s *FeltSink) BigInt(_ typedef.Kind, v *big.Int) error {
	serde.WriteBigInt(s.w, v)
	return nil
}

func (s *FeltSink) Felt(_ typedef.Kind, v *felt.Felt) error {
	s.w.WriteFelt(v)
	return nil
}

func (s *FeltSink) Bytes(v []byte) error {
	s.framing.WriteBytes(s.w, v)
	return nil
}

func (s *FeltSink) String(kind typedef.Kind, v string) error {
	if kind == typedef.KindShortUtf8 {
		return serde.WriteBytes31(s.w, []byte(v))
	}
	s.framing.WriteBytes(s.w, []byte(v))
	return nil
}

func (s *FeltSink) Bytes31(v []byte) error {
	return serde.WriteBytes31(s.w, v)
}

func (s *FeltSink) EncodedBytes(kind typedef.Kind, _ string, v []byte) error {
	if kind == typedef.KindBytes31Encoded {
		return serde.WriteBytes31(s.w, v)
	}
	s.framing.WriteBytes(s.w, v)
	return nil
}

func (s *FeltSink) Custom(_ string, values []*felt.Felt) error {
	serde.WriteFelts(s.w, values)
	return nil
}

func (s *FeltSink) BeginSeq(kind typedef.Kind, n int) error {
	if kind == typedef.KindArray {
		serde.WriteUint(s.w, uint64(n))
	}
	return nil
}

func (s *FeltSink) EndSeq() error {
	return nil
}

func (s *FeltSink) BeginStruct(*typedef.Struct) error {
	return nil
}

func (s *FeltSink) Field(typedef.MemberDef) error {
	return nil
}

func (s *FeltSink) EndStruct() error {
	return nil
}

// BeginVariant writes the selector, which for Result arms is the 0/1 tag.
func (s *FeltSink) BeginVariant(_ typedef.TypeDef, v typedef.VariantDef) error {
	s.w.WriteFelt(&v.Selector)
	return nil
}

func (s *FeltSink) EndVariant() error {
	return nil
}

func (s *FeltSink) Option(_ typedef.TypeDef, some bool) error {
	s.framing.WriteOptionTag(s.w, some)
	return nil
}

func (s *FeltSink) BeginMap(int) error {
	return serde.InvalidEncoding("maps have no felt encoding")
}

func (s *FeltSink) Key(string) error {
	return serde.InvalidEncoding("maps have no felt encoding")
}

func (s *FeltSink) EndMap() error {
	return serde.InvalidEncoding("maps have no felt encoding")
}
