package serde

import (
	"math/big"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/holiman/uint256"

	"github.com/cartridge-gg/introspect"
)

// FeltSink accepts felts one at a time.
type FeltSink interface {
	WriteFelt(f *felt.Felt)
}

// FeltWriter accumulates felts in order.
type FeltWriter struct {
	felts []*felt.Felt
}

var _ FeltSink = &FeltWriter{}

func NewFeltWriter(capacity int) *FeltWriter {
	return &FeltWriter{felts: make([]*felt.Felt, 0, capacity)}
}

func (w *FeltWriter) WriteFelt(f *felt.Felt) {
	if f == nil {
		f = new(felt.Felt)
	}
	w.felts = append(w.felts, f)
}

// Felts returns the accumulated felts. The slice is owned by the writer.
func (w *FeltWriter) Felts() []*felt.Felt {
	return w.felts
}

func (w *FeltWriter) Len() int {
	return len(w.felts)
}

func (w *FeltWriter) Reset() {
	w.felts = w.felts[:0]
}

func WriteUint(w FeltSink, v uint64) {
	w.WriteFelt(introspect.FeltFromUint(v))
}

func WriteInt(w FeltSink, v int64) {
	w.WriteFelt(introspect.FeltFromInt(v))
}

func WriteBool(w FeltSink, v bool) {
	w.WriteFelt(introspect.FeltFromBool(v))
}

// WriteBigInt writes v reduced into the field, so negative values become p - |v|.
func WriteBigInt(w FeltSink, v *big.Int) {
	w.WriteFelt(introspect.FeltFromBigInt(v))
}

var mask128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// WriteU256 writes the low then the high 128-bit limb.
func WriteU256(w FeltSink, v *uint256.Int) {
	if v == nil {
		v = new(uint256.Int)
	}
	b := v.ToBig()
	w.WriteFelt(introspect.FeltFromBigInt(new(big.Int).And(b, mask128)))
	w.WriteFelt(introspect.FeltFromBigInt(new(big.Int).Rsh(b, 128)))
}

// WriteU512 writes four 128-bit limbs, least significant first.
func WriteU512(w FeltSink, v *big.Int) {
	rest := new(big.Int)
	if v != nil {
		rest.Set(v)
	}
	for i := 0; i < 4; i++ {
		w.WriteFelt(introspect.FeltFromBigInt(new(big.Int).And(rest, mask128)))
		rest.Rsh(rest, 128)
	}
}

// WriteBytes31 packs up to 31 bytes into the low bytes of one felt.
func WriteBytes31(w FeltSink, b []byte) error {
	if len(b) > introspect.WordSize {
		return InvalidLen("bytes31", uint64(len(b)), introspect.WordSize)
	}
	w.WriteFelt(introspect.FeltFromBytes(b))
	return nil
}
