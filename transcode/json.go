package transcode

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"math/big"
	"strconv"
	"unicode/utf8"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/tidwall/pretty"

	"github.com/cartridge-gg/introspect/serde"
	"github.com/cartridge-gg/introspect/typedef"
)

type jsonFrame struct {
	object bool
	count  int
}

// JSONSink writes one JSON document. Integers up to 64 bits are numbers,
// wider integers are decimal strings, felts and raw bytes are 0x-hex.
type JSONSink struct {
	buf   bytes.Buffer
	stack []jsonFrame
}

var _ Serializer = &JSONSink{}

func NewJSONSink() *JSONSink {
	return &JSONSink{}
}

// Document returns the compact document.
func (s *JSONSink) Document() []byte {
	return s.buf.Bytes()
}

// Pretty returns the document indented for humans.
func (s *JSONSink) Pretty() []byte {
	return pretty.Pretty(s.buf.Bytes())
}

// ToJSON transcodes felts laid out by t into compact JSON.
func ToJSON(t typedef.TypeDef, felts []*felt.Felt, framing serde.Framing) ([]byte, error) {
	s := NewJSONSink()
	if err := TranscodeFelts(t, felts, framing, s); err != nil {
		return nil, err
	}
	return s.Document(), nil
}

// before separates array items. Object members are separated by Field/Key.
func (s *JSONSink) before() {
	if len(s.stack) == 0 {
		return
	}
	top := &s.stack[len(s.stack)-1]
	if top.object {
		return
	}
	if top.count > 0 {
		s.buf.WriteByte(',')
	}
	top.count++
}

func (s *JSONSink) raw(text string) error {
	s.before()
	s.buf.WriteString(text)
	return nil
}

func (s *JSONSink) quoted(text string) error {
	s.before()
	s.writeString(text)
	return nil
}

func (s *JSONSink) writeString(text string) {
	b, _ := json.Marshal(text)
	s.buf.Write(b)
}

func (s *JSONSink) open(delim byte, object bool) {
	s.before()
	s.buf.WriteByte(delim)
	s.stack = append(s.stack, jsonFrame{object: object})
}

func (s *JSONSink) close(delim byte) error {
	if len(s.stack) == 0 {
		return serde.InvariantViolation("unbalanced %q", delim)
	}
	s.stack = s.stack[:len(s.stack)-1]
	s.buf.WriteByte(delim)
	return nil
}

func (s *JSONSink) key(k string) error {
	if len(s.stack) == 0 || !s.stack[len(s.stack)-1].object {
		return serde.InvariantViolation("key %q outside of an object", k)
	}
	top := &s.stack[len(s.stack)-1]
	if top.count > 0 {
		s.buf.WriteByte(',')
	}
	top.count++
	s.writeString(k)
	s.buf.WriteByte(':')
	return nil
}

func (s *JSONSink) Unit() error {
	return s.raw("null")
}

func (s *JSONSink) Bool(v bool) error {
	return s.raw(strconv.FormatBool(v))
}

func (s *JSONSink) Uint(_ typedef.Kind, v uint64) error {
	return s.raw(strconv.FormatUint(v, 10))
}

func (s *JSONSink) Int(_ typedef.Kind, v int64) error {
	return s.raw(strconv.FormatInt(v, 10))
}

func (s *JSONSink) BigUint(_ typedef.Kind, v *big.Int) error {
	return s.quoted(v.String())
}

func (s *JSONSink) BigInt(_ typedef.Kind, v *big.Int) error {
	return s.quoted(v.String())
}

func (s *JSONSink) Felt(_ typedef.Kind, v *felt.Felt) error {
	return s.quoted(v.String())
}

func (s *JSONSink) Bytes(v []byte) error {
	return s.quoted(hexBytes(v))
}

func (s *JSONSink) String(_ typedef.Kind, v string) error {
	return s.quoted(v)
}

func (s *JSONSink) Bytes31(v []byte) error {
	return s.quoted(hexBytes(v))
}

// EncodedBytes embeds "json" payloads verbatim, prints utf-8 labels as
// strings and falls back to hex.
func (s *JSONSink) EncodedBytes(_ typedef.Kind, encoding string, v []byte) error {
	switch encoding {
	case "json":
		if json.Valid(v) {
			var compact bytes.Buffer
			if err := json.Compact(&compact, v); err == nil {
				return s.raw(compact.String())
			}
		}
	case "utf8", "utf-8", "string":
		if utf8.Valid(v) {
			return s.quoted(string(v))
		}
	}
	return s.quoted(hexBytes(v))
}

func (s *JSONSink) Custom(_ string, values []*felt.Felt) error {
	s.open('[', false)
	for _, f := range values {
		if err := s.quoted(f.String()); err != nil {
			return err
		}
	}
	return s.close(']')
}

func (s *JSONSink) BeginSeq(typedef.Kind, int) error {
	s.open('[', false)
	return nil
}

func (s *JSONSink) EndSeq() error {
	return s.close(']')
}

func (s *JSONSink) BeginStruct(*typedef.Struct) error {
	s.open('{', true)
	return nil
}

func (s *JSONSink) Field(m typedef.MemberDef) error {
	return s.key(m.Name)
}

func (s *JSONSink) EndStruct() error {
	return s.close('}')
}

func (s *JSONSink) BeginVariant(_ typedef.TypeDef, v typedef.VariantDef) error {
	s.open('{', true)
	return s.key(v.Name)
}

func (s *JSONSink) EndVariant() error {
	return s.close('}')
}

func (s *JSONSink) Option(_ typedef.TypeDef, some bool) error {
	if some {
		return nil
	}
	return s.raw("null")
}

func (s *JSONSink) BeginMap(int) error {
	s.open('{', true)
	return nil
}

func (s *JSONSink) Key(k string) error {
	return s.key(k)
}

func (s *JSONSink) EndMap() error {
	return s.close('}')
}

func hexBytes(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}
