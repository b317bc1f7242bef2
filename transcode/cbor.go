package transcode

import (
	"bytes"
	"io"
	"math/big"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/fxamacker/cbor/v2"

	"github.com/cartridge-gg/introspect/serde"
	"github.com/cartridge-gg/introspect/typedef"
)

// CBOREncMode uses preferred serialization and allows indefinite-length
// containers; big signed integers use bignum tags.
var CBOREncMode = func() cbor.EncMode {
	options := cbor.PreferredUnsortedEncOptions()
	options.IndefLength = cbor.IndefLengthAllowed
	encMode, err := options.EncMode()
	if err != nil {
		panic(err)
	}
	return encMode
}()

// CBORSink streams the same data model as JSONSink into CBOR. Containers are
// indefinite-length, felts are 32-byte big-endian byte strings and unsigned
// integers wider than 64 bits are minimal big-endian byte strings.
type CBORSink struct {
	enc   *cbor.Encoder
	depth int
}

var _ Serializer = &CBORSink{}

func NewCBORSink(w io.Writer) *CBORSink {
	return &CBORSink{enc: CBOREncMode.NewEncoder(w)}
}

// ToCBOR transcodes felts laid out by t into CBOR.
func ToCBOR(t typedef.TypeDef, felts []*felt.Felt, framing serde.Framing) ([]byte, error) {
	var buf bytes.Buffer
	if err := TranscodeFelts(t, felts, framing, NewCBORSink(&buf)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *CBORSink) open(start func() error) error {
	s.depth++
	return start()
}

func (s *CBORSink) close() error {
	if s.depth == 0 {
		return serde.InvariantViolation("unbalanced cbor container")
	}
	s.depth--
	return s.enc.EndIndefinite()
}

func (s *CBORSink) Unit() error {
	return s.enc.Encode(nil)
}

func (s *CBORSink) Bool(v bool) error {
	return s.enc.Encode(v)
}

func (s *CBORSink) Uint(_ typedef.Kind, v uint64) error {
	return s.enc.Encode(v)
}

func (s *CBORSink) Int(_ typedef.Kind, v int64) error {
	return s.enc.Encode(v)
}

func (s *CBORSink) BigUint(_ typedef.Kind, v *big.Int) error {
	return s.enc.Encode(v.Bytes())
}

func (s *CBORSink) BigInt(_ typedef.Kind, v *big.Int) error {
	return s.enc.Encode(v)
}

func (s *CBORSink) Felt(_ typedef.Kind, v *felt.Felt) error {
	b := v.Bytes()
	return s.enc.Encode(b[:])
}

func (s *CBORSink) Bytes(v []byte) error {
	return s.enc.Encode(v)
}

func (s *CBORSink) String(_ typedef.Kind, v string) error {
	return s.enc.Encode(v)
}

func (s *CBORSink) Bytes31(v []byte) error {
	return s.enc.Encode(v)
}

func (s *CBORSink) EncodedBytes(_ typedef.Kind, _ string, v []byte) error {
	return s.enc.Encode(v)
}

func (s *CBORSink) Custom(_ string, values []*felt.Felt) error {
	if err := s.open(s.enc.StartIndefiniteArray); err != nil {
		return err
	}
	for _, f := range values {
		if err := s.Felt(typedef.KindFelt252, f); err != nil {
			return err
		}
	}
	return s.close()
}

func (s *CBORSink) BeginSeq(typedef.Kind, int) error {
	return s.open(s.enc.StartIndefiniteArray)
}

func (s *CBORSink) EndSeq() error {
	return s.close()
}

func (s *CBORSink) BeginStruct(*typedef.Struct) error {
	return s.open(s.enc.StartIndefiniteMap)
}

func (s *CBORSink) Field(m typedef.MemberDef) error {
	return s.enc.Encode(m.Name)
}

func (s *CBORSink) EndStruct() error {
	return s.close()
}

func (s *CBORSink) BeginVariant(_ typedef.TypeDef, v typedef.VariantDef) error {
	if err := s.open(s.enc.StartIndefiniteMap); err != nil {
		return err
	}
	return s.enc.Encode(v.Name)
}

func (s *CBORSink) EndVariant() error {
	return s.close()
}

func (s *CBORSink) Option(_ typedef.TypeDef, some bool) error {
	if some {
		return nil
	}
	return s.enc.Encode(nil)
}

func (s *CBORSink) BeginMap(int) error {
	return s.open(s.enc.StartIndefiniteMap)
}

func (s *CBORSink) Key(k string) error {
	return s.enc.Encode(k)
}

func (s *CBORSink) EndMap() error {
	return s.close()
}
