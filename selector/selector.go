// Package selector computes the felt identifiers used as tags on the wire:
// ASCII selectors for type and event names, and starknet keccak selectors
// for variants, columns and tables.
package selector

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/cockroachdb/errors"
	"golang.org/x/crypto/sha3"
)

// MaxASCIILen is the longest name that packs into a single felt.
const MaxASCIILen = 31

// ErrTooLong is returned for ASCII names longer than MaxASCIILen bytes.
var ErrTooLong = errors.New("name does not fit in a felt")

// Limbs returns the Montgomery form of the big-endian packed name, least
// significant limb first.
func Limbs(name string) ([4]uint64, error) {
	if len(name) > MaxASCIILen {
		return [4]uint64{}, errors.Wrapf(ErrTooLong, "%q is %d bytes", name, len(name))
	}
	return toMontgomery(pack([]byte(name))), nil
}

// ASCII packs name big-endian into a felt.
func ASCII(name string) (*felt.Felt, error) {
	limbs, err := Limbs(name)
	if err != nil {
		return nil, err
	}
	word := limbsToBytes(fromMontgomery(limbs))
	return new(felt.Felt).SetBytes(word[:]), nil
}

// MustASCII is ASCII for names known at compile time.
func MustASCII(name string) *felt.Felt {
	f, err := ASCII(name)
	if err != nil {
		panic(err)
	}
	return f
}

var mask250 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 250), big.NewInt(1))

// Keccak returns the starknet keccak of name: Keccak-256 masked to 250 bits.
func Keccak(name string) *felt.Felt {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(name))
	v := new(big.Int).SetBytes(h.Sum(nil))
	v.And(v, mask250)
	return new(felt.Felt).SetBytes(v.Bytes())
}

// ParseID interprets an id literal:
//
//	'abc'  ASCII selector
//	"abc"  keccak selector
//	0x1f   hex value
//	31     decimal value
func ParseID(literal string) (*felt.Felt, error) {
	lit := strings.TrimSpace(literal)
	switch {
	case len(lit) >= 2 && lit[0] == '\'' && lit[len(lit)-1] == '\'':
		return ASCII(lit[1 : len(lit)-1])
	case len(lit) >= 2 && lit[0] == '"' && lit[len(lit)-1] == '"':
		s, err := strconv.Unquote(lit)
		if err != nil {
			s = lit[1 : len(lit)-1]
		}
		return Keccak(s), nil
	case strings.HasPrefix(lit, "0x") || strings.HasPrefix(lit, "0X"):
		v, ok := new(big.Int).SetString(lit[2:], 16)
		if !ok {
			return nil, errors.Newf("invalid hex id %q", literal)
		}
		return fromBig(v, literal)
	default:
		v, ok := new(big.Int).SetString(lit, 10)
		if !ok {
			return nil, errors.WithHint(
				errors.Newf("invalid id %q", literal),
				"use 'short', \"keccak\", 0x-hex or a decimal number",
			)
		}
		return fromBig(v, literal)
	}
}

func fromBig(v *big.Int, literal string) (*felt.Felt, error) {
	if v.Sign() < 0 || v.Cmp(limbsToBig(q)) >= 0 {
		return nil, errors.Newf("id %q is outside the field", literal)
	}
	return new(felt.Felt).SetBytes(v.Bytes()), nil
}

// Set tracks selectors already taken within one scope.
type Set map[felt.Felt]string

// Add records sel for name and returns the name that already owns it, if any.
func (s Set) Add(sel *felt.Felt, name string) (string, bool) {
	if prev, ok := s[*sel]; ok {
		return prev, false
	}
	s[*sel] = name
	return "", true
}
