// Package value is the runtime mirror of typedef: a Value holds data laid
// out by a TypeDef and converts to and from felts in either framing.
package value

import (
	"bytes"
	"math/big"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/holiman/uint256"

	"github.com/cartridge-gg/introspect/typedef"
)

// Value is one of the types below.
type Value interface {
	isValue()
}

type (
	// None is the unit value.
	None struct{}

	// Felt holds Felt252 and the address/hash kinds.
	Felt struct {
		Value felt.Felt
	}

	Bool bool

	// Uint holds u8..u64.
	Uint uint64

	// Int holds i8..i64.
	Int int64

	// BigUint holds u128 and u512.
	BigUint struct {
		Value *big.Int
	}

	// BigInt holds i128.
	BigInt struct {
		Value *big.Int
	}

	U256 struct {
		Value *uint256.Int
	}

	// Bytes holds ByteArray and Bytes31 payloads.
	Bytes []byte

	// String holds Utf8String and ShortUtf8 payloads.
	String string

	Tuple []Value

	Array []Value

	FixedArray []Value

	Member struct {
		Name       string
		Attributes []typedef.Attribute
		Value      Value
	}

	Struct struct {
		Name       string
		Attributes []typedef.Attribute
		Members    []Member
	}

	Enum struct {
		Name              string
		Attributes        []typedef.Attribute
		Variant           string
		Selector          felt.Felt
		VariantAttributes []typedef.Attribute
		Value             Value
	}

	Option struct {
		Some  bool
		Value Value
	}

	Result struct {
		Ok    bool
		Value Value
	}

	Nullable struct {
		NotNull bool
		Value   Value
	}

	// Custom is an opaque felt payload tagged by its encoding label.
	Custom struct {
		Encoding string
		Values   []*felt.Felt
	}

	// EncodedBytes is a byte payload whose interpretation is named by Encoding.
	EncodedBytes struct {
		Encoding string
		Bytes    []byte
	}
)

func (None) isValue()         {}
func (Felt) isValue()         {}
func (Bool) isValue()         {}
func (Uint) isValue()         {}
func (Int) isValue()          {}
func (BigUint) isValue()      {}
func (BigInt) isValue()       {}
func (U256) isValue()         {}
func (Bytes) isValue()        {}
func (String) isValue()       {}
func (Tuple) isValue()        {}
func (Array) isValue()        {}
func (FixedArray) isValue()   {}
func (*Struct) isValue()      {}
func (*Enum) isValue()        {}
func (Option) isValue()       {}
func (Result) isValue()       {}
func (Nullable) isValue()     {}
func (Custom) isValue()       {}
func (EncodedBytes) isValue() {}

func Some(v Value) Option {
	return Option{Some: true, Value: v}
}

func Ok(v Value) Result {
	return Result{Ok: true, Value: v}
}

func Err(v Value) Result {
	return Result{Value: v}
}

func FeltOf(f *felt.Felt) Felt {
	return Felt{Value: *f}
}

// Equal reports deep equality, comparing big integers by value.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case None:
		_, ok := b.(None)
		return ok
	case Felt:
		y, ok := b.(Felt)
		return ok && x.Value.Equal(&y.Value)
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Uint:
		y, ok := b.(Uint)
		return ok && x == y
	case Int:
		y, ok := b.(Int)
		return ok && x == y
	case BigUint:
		y, ok := b.(BigUint)
		return ok && bigEqual(x.Value, y.Value)
	case BigInt:
		y, ok := b.(BigInt)
		return ok && bigEqual(x.Value, y.Value)
	case U256:
		y, ok := b.(U256)
		return ok && x.Value.Eq(y.Value)
	case Bytes:
		y, ok := b.(Bytes)
		return ok && bytes.Equal(x, y)
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Tuple:
		y, ok := b.(Tuple)
		return ok && listEqual(x, y)
	case Array:
		y, ok := b.(Array)
		return ok && listEqual(x, y)
	case FixedArray:
		y, ok := b.(FixedArray)
		return ok && listEqual(x, y)
	case *Struct:
		y, ok := b.(*Struct)
		if !ok || x.Name != y.Name || !attrsEqual(x.Attributes, y.Attributes) || len(x.Members) != len(y.Members) {
			return false
		}
		for i := range x.Members {
			mx, my := x.Members[i], y.Members[i]
			if mx.Name != my.Name || !attrsEqual(mx.Attributes, my.Attributes) || !Equal(mx.Value, my.Value) {
				return false
			}
		}
		return true
	case *Enum:
		y, ok := b.(*Enum)
		return ok && x.Name == y.Name && x.Variant == y.Variant && x.Selector.Equal(&y.Selector) &&
			attrsEqual(x.Attributes, y.Attributes) && attrsEqual(x.VariantAttributes, y.VariantAttributes) &&
			Equal(x.Value, y.Value)
	case Option:
		y, ok := b.(Option)
		return ok && x.Some == y.Some && (!x.Some || Equal(x.Value, y.Value))
	case Result:
		y, ok := b.(Result)
		return ok && x.Ok == y.Ok && Equal(x.Value, y.Value)
	case Nullable:
		y, ok := b.(Nullable)
		return ok && x.NotNull == y.NotNull && (!x.NotNull || Equal(x.Value, y.Value))
	case Custom:
		y, ok := b.(Custom)
		if !ok || x.Encoding != y.Encoding || len(x.Values) != len(y.Values) {
			return false
		}
		for i := range x.Values {
			if !x.Values[i].Equal(y.Values[i]) {
				return false
			}
		}
		return true
	case EncodedBytes:
		y, ok := b.(EncodedBytes)
		return ok && x.Encoding == y.Encoding && bytes.Equal(x.Bytes, y.Bytes)
	}
	return false
}

func bigEqual(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
}

func listEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func attrsEqual(a, b []typedef.Attribute) bool {
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
