// Package transcode walks a TypeDef over a felt source and replays the
// decoded value into a Serializer. The same walk turns felts into JSON or
// CBOR, re-frames them between Serde and ISerde, or builds a value.Value.
//
// Ref must be expanded before transcoding. Felt252Dict has no wire form and
// is rejected.
package transcode

import (
	"math/big"

	"github.com/NethermindEth/juno/core/felt"

	"github.com/cartridge-gg/introspect"
	"github.com/cartridge-gg/introspect/serde"
	"github.com/cartridge-gg/introspect/typedef"
	"github.com/cartridge-gg/introspect/value"
)

// Serializer receives one value as a stream of calls. Scalars carry the
// TypeDef kind they were read as so binary sinks can re-encode them.
type Serializer interface {
	Unit() error
	Bool(v bool) error
	Uint(kind typedef.Kind, v uint64) error
	Int(kind typedef.Kind, v int64) error
	BigUint(kind typedef.Kind, v *big.Int) error
	BigInt(kind typedef.Kind, v *big.Int) error
	Felt(kind typedef.Kind, v *felt.Felt) error
	Bytes(v []byte) error
	String(kind typedef.Kind, v string) error
	Bytes31(v []byte) error
	EncodedBytes(kind typedef.Kind, encoding string, v []byte) error
	Custom(encoding string, values []*felt.Felt) error

	// BeginSeq opens a Tuple, Array or FixedArray of n items.
	BeginSeq(kind typedef.Kind, n int) error
	EndSeq() error

	BeginStruct(def *typedef.Struct) error
	Field(m typedef.MemberDef) error
	EndStruct() error

	// BeginVariant opens an Enum variant or a Result arm. For Result the
	// variant selector is the wire tag (0 for Ok, 1 for Err).
	BeginVariant(owner typedef.TypeDef, v typedef.VariantDef) error
	EndVariant() error

	// Option announces an Option or Nullable; the payload follows only
	// when some is true.
	Option(owner typedef.TypeDef, some bool) error

	BeginMap(n int) error
	Key(k string) error
	EndMap() error
}

var (
	okTag  = introspect.FeltFromUint(0)
	errTag = introspect.FeltFromUint(1)
)

// ResultVariants returns the two arms of a Result as variant definitions.
func ResultVariants(r typedef.Result) (ok, err typedef.VariantDef) {
	return typedef.VariantDef{Selector: *okTag, Name: "Ok", TypeDef: r.Ok},
		typedef.VariantDef{Selector: *errTag, Name: "Err", TypeDef: r.Err}
}

// Transcode reads exactly one value laid out by t from src and writes it to out.
func Transcode(t typedef.TypeDef, src serde.FeltSource, framing serde.Framing, out Serializer) error {
	tc := &transcoder{src: src, framing: framing, out: out}
	start := src.Pos()
	err := tc.value(t)
	if e, ok := err.(*Error); ok && e.Side == Deserialize && src.Pos() > start {
		e.Err = serde.Promote(e.Err)
	}
	return err
}

// TranscodeFelts transcodes felts and requires them to be fully consumed.
func TranscodeFelts(t typedef.TypeDef, felts []*felt.Felt, framing serde.Framing, out Serializer) error {
	r := serde.NewFeltReader(felts)
	if err := Transcode(t, r, framing, out); err != nil {
		return err
	}
	if err := r.ExpectEOF(); err != nil {
		return deserializeErr(err)
	}
	return nil
}

type transcoder struct {
	src     serde.FeltSource
	framing serde.Framing
	out     Serializer
}

func (tc *transcoder) value(t typedef.TypeDef) error {
	switch x := t.(type) {
	case typedef.Scalar:
		return tc.scalar(typedef.Kind(x))
	case typedef.ByteArrayEncoded:
		b, err := tc.framing.ReadBytes(tc.src)
		if err != nil {
			return deserializeErr(err)
		}
		return serializeErr(tc.out.EncodedBytes(typedef.KindByteArrayEncoded, x.Encoding, b))
	case typedef.Bytes31Encoded:
		b, err := serde.ReadBytes31(tc.src)
		if err != nil {
			return deserializeErr(err)
		}
		return serializeErr(tc.out.EncodedBytes(typedef.KindBytes31Encoded, x.Encoding, b))
	case typedef.Custom:
		felts, err := serde.ReadFelts(tc.src)
		if err != nil {
			return deserializeErr(err)
		}
		return serializeErr(tc.out.Custom(x.Encoding, felts))
	case typedef.Tuple:
		return tc.seq(typedef.KindTuple, len(x.Elements), func(i int) typedef.TypeDef { return x.Elements[i] })
	case typedef.Array:
		n, err := serde.ReadUsize(tc.src)
		if err != nil {
			return deserializeErr(err)
		}
		return tc.seq(typedef.KindArray, n, func(int) typedef.TypeDef { return x.Elem })
	case typedef.FixedArray:
		return tc.seq(typedef.KindFixedArray, int(x.Size), func(int) typedef.TypeDef { return x.Elem })
	case *typedef.Struct:
		if err := tc.out.BeginStruct(x); err != nil {
			return serializeErr(err)
		}
		for _, m := range x.Members {
			if err := tc.out.Field(m); err != nil {
				return serializeErr(err)
			}
			if err := tc.value(m.TypeDef); err != nil {
				return err
			}
		}
		return serializeErr(tc.out.EndStruct())
	case *typedef.Enum:
		sel, err := tc.src.Next()
		if err != nil {
			return deserializeErr(err)
		}
		variant, ok := x.Variant(sel)
		if !ok {
			return deserializeErr(serde.InvalidEnumSelector(x.Name, sel))
		}
		return tc.variant(x, variant)
	case typedef.Result:
		isOk, err := serde.ReadResultTag(tc.src)
		if err != nil {
			return deserializeErr(err)
		}
		okArm, errArm := ResultVariants(x)
		if isOk {
			return tc.variant(x, okArm)
		}
		return tc.variant(x, errArm)
	case typedef.Option:
		return tc.option(x, x.Elem, "Option")
	case typedef.Nullable:
		return tc.option(x, x.Elem, "Nullable")
	case typedef.Felt252Dict:
		return deserializeErr(serde.InvalidEncoding("Felt252Dict is not transcodable"))
	case typedef.Ref:
		return deserializeErr(serde.InvariantViolation("unresolved reference %s", x.ID.String()))
	}
	return deserializeErr(serde.InvalidEncoding("unsupported type %T", t))
}

func (tc *transcoder) seq(kind typedef.Kind, n int, elem func(int) typedef.TypeDef) error {
	if err := tc.out.BeginSeq(kind, n); err != nil {
		return serializeErr(err)
	}
	for i := 0; i < n; i++ {
		if err := tc.value(elem(i)); err != nil {
			return err
		}
	}
	return serializeErr(tc.out.EndSeq())
}

func (tc *transcoder) variant(owner typedef.TypeDef, v typedef.VariantDef) error {
	if err := tc.out.BeginVariant(owner, v); err != nil {
		return serializeErr(err)
	}
	if err := tc.value(v.TypeDef); err != nil {
		return err
	}
	return serializeErr(tc.out.EndVariant())
}

func (tc *transcoder) option(owner, elem typedef.TypeDef, what string) error {
	some, err := tc.framing.ReadOptionTag(tc.src, what)
	if err != nil {
		return deserializeErr(err)
	}
	if err := tc.out.Option(owner, some); err != nil {
		return serializeErr(err)
	}
	if !some {
		return nil
	}
	return tc.value(elem)
}

func (tc *transcoder) scalar(kind typedef.Kind) error {
	src, out := tc.src, tc.out

	switch kind {
	case typedef.KindNone:
		return serializeErr(out.Unit())
	case typedef.KindFelt252, typedef.KindClassHash, typedef.KindContractAddress,
		typedef.KindStorageAddress, typedef.KindStorageBaseAddress:
		f, err := src.Next()
		if err != nil {
			return deserializeErr(err)
		}
		return serializeErr(out.Felt(kind, f))
	case typedef.KindEthAddress:
		f, err := serde.ReadEthAddress(src)
		if err != nil {
			return deserializeErr(err)
		}
		return serializeErr(out.Felt(kind, f))
	case typedef.KindBool:
		b, err := serde.ReadBool(src)
		if err != nil {
			return deserializeErr(err)
		}
		return serializeErr(out.Bool(b))
	case typedef.KindU8, typedef.KindU16, typedef.KindU32, typedef.KindU64:
		v, err := serde.ReadUint(src, value.UintBits(kind), kind.String())
		if err != nil {
			return deserializeErr(err)
		}
		return serializeErr(out.Uint(kind, v))
	case typedef.KindI8, typedef.KindI16, typedef.KindI32, typedef.KindI64:
		v, err := serde.ReadInt(src, value.UintBits(kind), kind.String())
		if err != nil {
			return deserializeErr(err)
		}
		return serializeErr(out.Int(kind, v))
	case typedef.KindU128:
		v, err := serde.ReadU128(src)
		if err != nil {
			return deserializeErr(err)
		}
		return serializeErr(out.BigUint(kind, v))
	case typedef.KindU256:
		v, err := serde.ReadU256(src)
		if err != nil {
			return deserializeErr(err)
		}
		return serializeErr(out.BigUint(kind, v.ToBig()))
	case typedef.KindU512:
		v, err := serde.ReadU512(src)
		if err != nil {
			return deserializeErr(err)
		}
		return serializeErr(out.BigUint(kind, v))
	case typedef.KindI128:
		v, err := serde.ReadI128(src)
		if err != nil {
			return deserializeErr(err)
		}
		return serializeErr(out.BigInt(kind, v))
	case typedef.KindShortUtf8:
		s, err := serde.ReadShortString(src)
		if err != nil {
			return deserializeErr(err)
		}
		return serializeErr(out.String(kind, s))
	case typedef.KindBytes31:
		b, err := serde.ReadBytes31(src)
		if err != nil {
			return deserializeErr(err)
		}
		return serializeErr(out.Bytes31(b))
	case typedef.KindByteArray:
		b, err := tc.framing.ReadBytes(src)
		if err != nil {
			return deserializeErr(err)
		}
		return serializeErr(out.Bytes(b))
	case typedef.KindUtf8String:
		s, err := tc.framing.ReadString(src)
		if err != nil {
			return deserializeErr(err)
		}
		return serializeErr(out.String(kind, s))
	}
	return deserializeErr(serde.InvalidEncoding("unsupported scalar %s", kind))
}
