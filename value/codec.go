package value

import (
	"math/big"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/holiman/uint256"

	"github.com/cartridge-gg/introspect"
	"github.com/cartridge-gg/introspect/serde"
	"github.com/cartridge-gg/introspect/typedef"
)

// Decode reads one value laid out by t. Ref must be expanded beforehand.
func Decode(t typedef.TypeDef, src serde.FeltSource, framing serde.Framing) (Value, error) {
	start := src.Pos()
	v, err := decode(t, src, framing)
	if err != nil && src.Pos() > start {
		err = serde.Promote(err)
	}
	return v, err
}

// DecodeFelts decodes exactly one value from felts.
func DecodeFelts(t typedef.TypeDef, felts []*felt.Felt, framing serde.Framing) (Value, error) {
	r := serde.NewFeltReader(felts)
	v, err := Decode(t, r, framing)
	if err != nil {
		return nil, err
	}
	if err := r.ExpectEOF(); err != nil {
		return nil, err
	}
	return v, nil
}

func decode(t typedef.TypeDef, src serde.FeltSource, framing serde.Framing) (Value, error) {
	switch x := t.(type) {
	case typedef.Scalar:
		return decodeScalar(typedef.Kind(x), src, framing)
	case typedef.ByteArrayEncoded:
		b, err := framing.ReadBytes(src)
		if err != nil {
			return nil, err
		}
		return EncodedBytes{Encoding: x.Encoding, Bytes: b}, nil
	case typedef.Bytes31Encoded:
		b, err := serde.ReadBytes31(src)
		if err != nil {
			return nil, err
		}
		return EncodedBytes{Encoding: x.Encoding, Bytes: b}, nil
	case typedef.Tuple:
		out := make(Tuple, len(x.Elements))
		for i, e := range x.Elements {
			v, err := Decode(e, src, framing)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case typedef.Array:
		items, err := serde.ReadList(src, func(src serde.FeltSource) (Value, error) {
			return Decode(x.Elem, src, framing)
		})
		if err != nil {
			return nil, err
		}
		return Array(items), nil
	case typedef.FixedArray:
		out := make(FixedArray, 0, min(int(x.Size), 1024))
		for i := uint32(0); i < x.Size; i++ {
			v, err := Decode(x.Elem, src, framing)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case typedef.Felt252Dict:
		return nil, serde.InvalidEncoding("Felt252Dict values are not serializable")
	case *typedef.Struct:
		s := &Struct{Name: x.Name, Attributes: x.Attributes, Members: make([]Member, len(x.Members))}
		for i, m := range x.Members {
			v, err := Decode(m.TypeDef, src, framing)
			if err != nil {
				return nil, err
			}
			s.Members[i] = Member{Name: m.Name, Attributes: m.Attributes, Value: v}
		}
		return s, nil
	case *typedef.Enum:
		sel, err := src.Next()
		if err != nil {
			return nil, err
		}
		variant, ok := x.Variant(sel)
		if !ok {
			return nil, serde.InvalidEnumSelector(x.Name, sel)
		}
		v, err := Decode(variant.TypeDef, src, framing)
		if err != nil {
			return nil, err
		}
		return &Enum{
			Name:              x.Name,
			Attributes:        x.Attributes,
			Variant:           variant.Name,
			Selector:          variant.Selector,
			VariantAttributes: variant.Attributes,
			Value:             v,
		}, nil
	case typedef.Option:
		some, err := framing.ReadOptionTag(src, "Option")
		if err != nil || !some {
			return Option{}, err
		}
		v, err := Decode(x.Elem, src, framing)
		if err != nil {
			return nil, err
		}
		return Some(v), nil
	case typedef.Nullable:
		notNull, err := framing.ReadOptionTag(src, "Nullable")
		if err != nil || !notNull {
			return Nullable{}, err
		}
		v, err := Decode(x.Elem, src, framing)
		if err != nil {
			return nil, err
		}
		return Nullable{NotNull: true, Value: v}, nil
	case typedef.Result:
		ok, err := serde.ReadResultTag(src)
		if err != nil {
			return nil, err
		}
		inner := x.Err
		if ok {
			inner = x.Ok
		}
		v, err := Decode(inner, src, framing)
		if err != nil {
			return nil, err
		}
		return Result{Ok: ok, Value: v}, nil
	case typedef.Custom:
		felts, err := serde.ReadFelts(src)
		if err != nil {
			return nil, err
		}
		return Custom{Encoding: x.Encoding, Values: felts}, nil
	case typedef.Ref:
		return nil, serde.InvariantViolation("unresolved reference %s", x.ID.String())
	}
	return nil, serde.InvalidEncoding("unsupported type %T", t)
}

func decodeScalar(kind typedef.Kind, src serde.FeltSource, framing serde.Framing) (Value, error) {
	switch kind {
	case typedef.KindNone:
		return None{}, nil
	case typedef.KindFelt252, typedef.KindClassHash, typedef.KindContractAddress,
		typedef.KindStorageAddress, typedef.KindStorageBaseAddress:
		f, err := src.Next()
		if err != nil {
			return nil, err
		}
		return FeltOf(f), nil
	case typedef.KindEthAddress:
		f, err := serde.ReadEthAddress(src)
		if err != nil {
			return nil, err
		}
		return FeltOf(f), nil
	case typedef.KindBool:
		b, err := serde.ReadBool(src)
		return Bool(b), err
	case typedef.KindU8, typedef.KindU16, typedef.KindU32, typedef.KindU64:
		v, err := serde.ReadUint(src, UintBits(kind), kind.String())
		return Uint(v), err
	case typedef.KindI8, typedef.KindI16, typedef.KindI32, typedef.KindI64:
		v, err := serde.ReadInt(src, UintBits(kind), kind.String())
		return Int(v), err
	case typedef.KindU128:
		v, err := serde.ReadU128(src)
		return BigUint{Value: v}, err
	case typedef.KindI128:
		v, err := serde.ReadI128(src)
		return BigInt{Value: v}, err
	case typedef.KindU256:
		v, err := serde.ReadU256(src)
		return U256{Value: v}, err
	case typedef.KindU512:
		v, err := serde.ReadU512(src)
		return BigUint{Value: v}, err
	case typedef.KindShortUtf8:
		s, err := serde.ReadShortString(src)
		return String(s), err
	case typedef.KindBytes31:
		b, err := serde.ReadBytes31(src)
		return Bytes(b), err
	case typedef.KindByteArray:
		b, err := framing.ReadBytes(src)
		return Bytes(b), err
	case typedef.KindUtf8String:
		s, err := framing.ReadString(src)
		return String(s), err
	}
	return nil, serde.InvalidEncoding("unsupported scalar %s", kind)
}

// UintBits returns the bit width of a fixed-size integer kind.
func UintBits(kind typedef.Kind) uint {
	switch kind {
	case typedef.KindU8, typedef.KindI8:
		return 8
	case typedef.KindU16, typedef.KindI16:
		return 16
	case typedef.KindU32, typedef.KindI32:
		return 32
	case typedef.KindU64, typedef.KindI64:
		return 64
	case typedef.KindU128, typedef.KindI128:
		return 128
	case typedef.KindU256:
		return 256
	case typedef.KindU512:
		return 512
	}
	return 0
}

// ============================================================================
// Encoding
// ============================================================================

// Encode writes v laid out by t.
func Encode(w serde.FeltSink, v Value, t typedef.TypeDef, framing serde.Framing) error {
	mismatch := func() error {
		return serde.InvalidEncoding("value %T does not match %s", v, t.Kind())
	}

	switch x := t.(type) {
	case typedef.Scalar:
		return encodeScalar(w, v, typedef.Kind(x), framing)
	case typedef.ByteArrayEncoded:
		b, ok := v.(EncodedBytes)
		if !ok {
			return mismatch()
		}
		framing.WriteBytes(w, b.Bytes)
	case typedef.Bytes31Encoded:
		b, ok := v.(EncodedBytes)
		if !ok {
			return mismatch()
		}
		return serde.WriteBytes31(w, b.Bytes)
	case typedef.Tuple:
		tv, ok := v.(Tuple)
		if !ok || len(tv) != len(x.Elements) {
			return mismatch()
		}
		for i, e := range x.Elements {
			if err := Encode(w, tv[i], e, framing); err != nil {
				return err
			}
		}
	case typedef.Array:
		av, ok := v.(Array)
		if !ok {
			return mismatch()
		}
		return serde.WriteList(w, av, func(w serde.FeltSink, item Value) error {
			return Encode(w, item, x.Elem, framing)
		})
	case typedef.FixedArray:
		fv, ok := v.(FixedArray)
		if !ok {
			return mismatch()
		}
		if uint64(len(fv)) != uint64(x.Size) {
			return serde.UnexpectedLen("FixedArray", uint64(x.Size), uint64(len(fv)))
		}
		for _, item := range fv {
			if err := Encode(w, item, x.Elem, framing); err != nil {
				return err
			}
		}
	case typedef.Felt252Dict:
		return serde.InvalidEncoding("Felt252Dict values are not serializable")
	case *typedef.Struct:
		sv, ok := v.(*Struct)
		if !ok || len(sv.Members) != len(x.Members) {
			return mismatch()
		}
		for i, m := range x.Members {
			if err := Encode(w, sv.Members[i].Value, m.TypeDef, framing); err != nil {
				return err
			}
		}
	case *typedef.Enum:
		ev, ok := v.(*Enum)
		if !ok {
			return mismatch()
		}
		variant, ok := x.Variant(&ev.Selector)
		if !ok {
			return serde.InvalidEnumSelector(x.Name, &ev.Selector)
		}
		w.WriteFelt(&variant.Selector)
		return Encode(w, ev.Value, variant.TypeDef, framing)
	case typedef.Option:
		ov, ok := v.(Option)
		if !ok {
			return mismatch()
		}
		framing.WriteOptionTag(w, ov.Some)
		if ov.Some {
			return Encode(w, ov.Value, x.Elem, framing)
		}
	case typedef.Nullable:
		nv, ok := v.(Nullable)
		if !ok {
			return mismatch()
		}
		framing.WriteOptionTag(w, nv.NotNull)
		if nv.NotNull {
			return Encode(w, nv.Value, x.Elem, framing)
		}
	case typedef.Result:
		rv, ok := v.(Result)
		if !ok {
			return mismatch()
		}
		serde.WriteResultTag(w, rv.Ok)
		if rv.Ok {
			return Encode(w, rv.Value, x.Ok, framing)
		}
		return Encode(w, rv.Value, x.Err, framing)
	case typedef.Custom:
		cv, ok := v.(Custom)
		if !ok {
			return mismatch()
		}
		serde.WriteFelts(w, cv.Values)
	case typedef.Ref:
		return serde.InvariantViolation("unresolved reference %s", x.ID.String())
	default:
		return serde.InvalidEncoding("unsupported type %T", t)
	}
	return nil
}

// EncodeFelts is Encode into a fresh slice.
func EncodeFelts(v Value, t typedef.TypeDef, framing serde.Framing) ([]*felt.Felt, error) {
	w := serde.NewFeltWriter(8)
	if err := Encode(w, v, t, framing); err != nil {
		return nil, err
	}
	return w.Felts(), nil
}

func encodeScalar(w serde.FeltSink, v Value, kind typedef.Kind, framing serde.Framing) error {
	mismatch := func() error {
		return serde.InvalidEncoding("value %T does not match %s", v, kind)
	}

	switch kind {
	case typedef.KindNone:
		if _, ok := v.(None); !ok {
			return mismatch()
		}
	case typedef.KindFelt252, typedef.KindClassHash, typedef.KindContractAddress,
		typedef.KindEthAddress, typedef.KindStorageAddress, typedef.KindStorageBaseAddress:
		f, ok := v.(Felt)
		if !ok {
			return mismatch()
		}
		if kind == typedef.KindEthAddress && !serde.FitsEthAddress(&f.Value) {
			return serde.Message("%s overflows %s", f.Value.String(), kind)
		}
		w.WriteFelt(&f.Value)
	case typedef.KindBool:
		b, ok := v.(Bool)
		if !ok {
			return mismatch()
		}
		serde.WriteBool(w, bool(b))
	case typedef.KindU8, typedef.KindU16, typedef.KindU32, typedef.KindU64:
		u, ok := v.(Uint)
		if !ok {
			return mismatch()
		}
		if bits := UintBits(kind); bits < 64 && uint64(u) >= 1<<bits {
			return serde.Message("%d overflows %s", uint64(u), kind)
		}
		serde.WriteUint(w, uint64(u))
	case typedef.KindI8, typedef.KindI16, typedef.KindI32, typedef.KindI64:
		i, ok := v.(Int)
		if !ok {
			return mismatch()
		}
		if bits := UintBits(kind); bits < 64 {
			limit := int64(1) << (bits - 1)
			if int64(i) < -limit || int64(i) >= limit {
				return serde.Message("%d overflows %s", int64(i), kind)
			}
		}
		serde.WriteInt(w, int64(i))
	case typedef.KindU128, typedef.KindU512:
		u, ok := v.(BigUint)
		if !ok || u.Value == nil || u.Value.Sign() < 0 || u.Value.BitLen() > int(UintBits(kind)) {
			return mismatch()
		}
		if kind == typedef.KindU512 {
			serde.WriteU512(w, u.Value)
		} else {
			serde.WriteBigInt(w, u.Value)
		}
	case typedef.KindI128:
		i, ok := v.(BigInt)
		if !ok || i.Value == nil {
			return mismatch()
		}
		if !serde.FitsI128(i.Value) {
			return serde.Message("%s overflows %s", i.Value.String(), kind)
		}
		serde.WriteBigInt(w, i.Value)
	case typedef.KindU256:
		u, ok := v.(U256)
		if !ok {
			return mismatch()
		}
		serde.WriteU256(w, u.Value)
	case typedef.KindShortUtf8:
		s, ok := v.(String)
		if !ok {
			return mismatch()
		}
		return serde.WriteBytes31(w, []byte(s))
	case typedef.KindBytes31:
		b, ok := v.(Bytes)
		if !ok {
			return mismatch()
		}
		return serde.WriteBytes31(w, b)
	case typedef.KindByteArray:
		b, ok := v.(Bytes)
		if !ok {
			return mismatch()
		}
		framing.WriteBytes(w, b)
	case typedef.KindUtf8String:
		s, ok := v.(String)
		if !ok {
			return mismatch()
		}
		framing.WriteBytes(w, []byte(s))
	default:
		return serde.InvalidEncoding("unsupported scalar %s", kind)
	}
	return nil
}

// ============================================================================
// Constructors for common payloads
// ============================================================================

func U128(v uint64) BigUint {
	return BigUint{Value: new(big.Int).SetUint64(v)}
}

func U256From(v uint64) U256 {
	return U256{Value: uint256.NewInt(v)}
}

func FeltFrom(v uint64) Felt {
	return FeltOf(introspect.FeltFromUint(v))
}
