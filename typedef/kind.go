package typedef

import (
	"github.com/NethermindEth/juno/core/felt"

	"github.com/cartridge-gg/introspect/selector"
)

// Kind is the closed set of TypeDef variants.
type Kind uint8

const (
	KindNone Kind = iota
	KindFelt252
	KindBool
	KindU8
	KindU16
	KindU32
	KindU64
	KindU128
	KindU256
	KindU512
	KindI8
	KindI16
	KindI32
	KindI64
	KindI128
	KindShortUtf8
	KindBytes31
	KindClassHash
	KindContractAddress
	KindEthAddress
	KindStorageAddress
	KindStorageBaseAddress
	KindByteArray
	KindUtf8String
	KindByteArrayEncoded
	KindBytes31Encoded
	KindTuple
	KindArray
	KindFixedArray
	KindFelt252Dict
	KindStruct
	KindEnum
	KindOption
	KindResult
	KindNullable
	KindRef
	KindCustom

	numKinds
)

var kindNames = [numKinds]string{
	KindNone:               "None",
	KindFelt252:            "Felt252",
	KindBool:               "Bool",
	KindU8:                 "U8",
	KindU16:                "U16",
	KindU32:                "U32",
	KindU64:                "U64",
	KindU128:               "U128",
	KindU256:               "U256",
	KindU512:               "U512",
	KindI8:                 "I8",
	KindI16:                "I16",
	KindI32:                "I32",
	KindI64:                "I64",
	KindI128:               "I128",
	KindShortUtf8:          "ShortUtf8",
	KindBytes31:            "Bytes31",
	KindClassHash:          "ClassHash",
	KindContractAddress:    "ContractAddress",
	KindEthAddress:         "EthAddress",
	KindStorageAddress:     "StorageAddress",
	KindStorageBaseAddress: "StorageBaseAddress",
	KindByteArray:          "ByteArray",
	KindUtf8String:         "Utf8String",
	KindByteArrayEncoded:   "ByteArrayEncoded",
	KindBytes31Encoded:     "Bytes31Encoded",
	KindTuple:              "Tuple",
	KindArray:              "Array",
	KindFixedArray:         "FixedArray",
	KindFelt252Dict:        "Felt252Dict",
	KindStruct:             "Struct",
	KindEnum:               "Enum",
	KindOption:             "Option",
	KindResult:             "Result",
	KindNullable:           "Nullable",
	KindRef:                "Ref",
	KindCustom:             "Custom",
}

var (
	kindSelectors  [numKinds]felt.Felt
	kindBySelector = make(map[felt.Felt]Kind, numKinds)
)

func init() {
	for k := Kind(0); k < numKinds; k++ {
		sel := selector.MustASCII(kindNames[k])
		kindSelectors[k] = *sel
		kindBySelector[*sel] = k
	}
}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return "Unknown"
}

// Selector returns the wire tag of k.
func (k Kind) Selector() *felt.Felt {
	sel := kindSelectors[k]
	return &sel
}

// KindFromSelector maps a wire tag back to its kind.
func KindFromSelector(sel *felt.Felt) (Kind, bool) {
	k, ok := kindBySelector[*sel]
	return k, ok
}

// KindFromName maps a variant name ("U32", "ByteArray", ...) to its kind.
func KindFromName(name string) (Kind, bool) {
	for k := Kind(0); k < numKinds; k++ {
		if kindNames[k] == name {
			return k, true
		}
	}
	return 0, false
}

// IsScalar reports whether k carries no payload.
func (k Kind) IsScalar() bool {
	return k <= KindUtf8String
}

// IsPrimary reports whether k fits in one felt and can identify a row.
func (k Kind) IsPrimary() bool {
	switch k {
	case KindFelt252, KindBool,
		KindU8, KindU16, KindU32, KindU64, KindU128,
		KindI8, KindI16, KindI32, KindI64, KindI128,
		KindShortUtf8, KindBytes31,
		KindClassHash, KindContractAddress, KindEthAddress,
		KindStorageAddress, KindStorageBaseAddress:
		return true
	}
	return false
}
