package selector

import (
	"math/big"
	"strings"
	"testing"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/utils"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shortName() gopter.Gen {
	return gen.AnyString().Map(func(s string) string {
		b := make([]byte, 0, MaxASCIILen)
		for _, r := range s {
			if len(b) == MaxASCIILen {
				break
			}
			b = append(b, byte(r%95)+0x20)
		}
		return string(b)
	})
}

// reference packs the name into a big.Int and multiplies by 2^256 mod p.
func reference(name string) *big.Int {
	p := limbsToBig(q)
	v := new(big.Int).SetBytes([]byte(name))
	v.Lsh(v, 256)
	return v.Mod(v, p)
}

func TestASCIIProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("montgomery limbs match the reference", prop.ForAll(
		func(name string) bool {
			limbs, err := Limbs(name)
			return err == nil && limbsToBig(limbs).Cmp(reference(name)) == 0
		},
		shortName(),
	))

	properties.Property("selector value is the packed name", prop.ForAll(
		func(name string) bool {
			f, err := ASCII(name)
			if err != nil {
				return false
			}
			return f.Equal(new(felt.Felt).SetBytes([]byte(name)))
		},
		shortName(),
	))

	properties.Property("distinct names give distinct selectors", prop.ForAll(
		func(a, b string) bool {
			fa, _ := ASCII(a)
			fb, _ := ASCII(b)
			// leading NULs pack to the same value
			same := strings.TrimLeft(a, "\x00") == strings.TrimLeft(b, "\x00")
			return fa.Equal(fb) == same
		},
		shortName(), shortName(),
	))

	properties.Property("montgomery round trip", prop.ForAll(
		func(a, b, c uint64) bool {
			x := [4]uint64{a, b, c, 0x07ff}
			return fromMontgomery(toMontgomery(x)) == x
		},
		gen.UInt64(), gen.UInt64(), gen.UInt64(),
	))

	properties.TestingRun(t)
}

func TestASCIIKnownValues(t *testing.T) {
	t.Parallel()

	f, err := ASCII("CreateTable")
	require.NoError(t, err)
	assert.Equal(t, "0x4372656174655461626c65", f.String())

	f, err = ASCII("")
	require.NoError(t, err)
	assert.True(t, f.IsZero())

	_, err = ASCII(strings.Repeat("a", 32))
	require.ErrorIs(t, err, ErrTooLong)
}

func TestKeccak(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"0x83afd3f4caedc6eebf44246fe54e38c95e3179a5ec9ea81740eca5b482d12e",
		Keccak("transfer").String(),
	)

	for _, name := range []string{"Point", "x", "balance_of", "", "a much longer name that spans more than one word"} {
		assert.True(t, Keccak(name).Equal(utils.GetSelectorFromNameFelt(name)), name)
	}
}

func TestParseID(t *testing.T) {
	t.Parallel()

	f, err := ParseID("'abc'")
	require.NoError(t, err)
	assert.Equal(t, "0x616263", f.String())

	f, err = ParseID(`"Point"`)
	require.NoError(t, err)
	assert.True(t, f.Equal(Keccak("Point")))

	f, err = ParseID("0x1f")
	require.NoError(t, err)
	assert.Equal(t, "0x1f", f.String())

	f, err = ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, "0x2a", f.String())

	_, err = ParseID("abc")
	require.Error(t, err)

	_, err = ParseID("0x" + strings.Repeat("f", 64))
	require.Error(t, err)
}

func TestSet(t *testing.T) {
	t.Parallel()

	s := Set{}
	_, ok := s.Add(Keccak("A"), "A")
	require.True(t, ok)
	prev, ok := s.Add(Keccak("A"), "B")
	require.False(t, ok)
	assert.Equal(t, "A", prev)
}
