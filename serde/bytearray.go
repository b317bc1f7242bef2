package serde

import (
	"github.com/NethermindEth/juno/core/felt"

	"github.com/cartridge-gg/introspect"
)

// ============================================================================
// Cairo ByteArray layout (Serde framing)
// ============================================================================

// WriteByteArray writes the Cairo ByteArray layout: the number of full
// 31-byte words, each full word, the pending word and its length.
func WriteByteArray(w FeltSink, b []byte) {
	fullWords := len(b) / introspect.WordSize
	remainder := len(b) % introspect.WordSize

	WriteUint(w, uint64(fullWords))
	for i := 0; i < fullWords; i++ {
		w.WriteFelt(introspect.FeltFromBytes(b[i*introspect.WordSize : (i+1)*introspect.WordSize]))
	}
	w.WriteFelt(introspect.FeltFromBytes(b[fullWords*introspect.WordSize:]))
	WriteUint(w, uint64(remainder))
}

// WriteString writes s as a Cairo ByteArray.
func WriteString(w FeltSink, s string) {
	WriteByteArray(w, []byte(s))
}

// ByteArrayLen returns the number of felts WriteByteArray emits for n bytes.
func ByteArrayLen(n int) int {
	return n/introspect.WordSize + 3
}

// ReadByteArray reads the Cairo ByteArray layout.
func ReadByteArray(src FeltSource) ([]byte, error) {
	fullWords, err := ReadUsize(src)
	if err != nil {
		return nil, err
	}

	// the length is untrusted until the words are actually read
	out := make([]byte, 0, min(fullWords, 1024)*introspect.WordSize)
	for i := 0; i < fullWords; i++ {
		f, err := src.Next()
		if err != nil {
			return nil, Promote(err)
		}
		word, ok := introspect.WordFromFelt(f, introspect.WordSize)
		if !ok {
			return nil, InvalidByteArray("full word exceeds 31 bytes")
		}
		out = append(out, word...)
	}

	pending, err := src.Next()
	if err != nil {
		return nil, Promote(err)
	}
	pendingLen, err := ReadUint(src, 32, "pending_word_len")
	if err != nil {
		return nil, Promote(err)
	}
	if pendingLen >= introspect.WordSize {
		return nil, InvalidLen("pending_word_len", pendingLen, introspect.WordSize-1)
	}
	word, ok := introspect.WordFromFelt(pending, int(pendingLen))
	if !ok {
		return nil, InvalidByteArray("pending word longer than its length")
	}
	return append(out, word...), nil
}

// ReadString reads a Cairo ByteArray and validates it as UTF-8.
func ReadString(src FeltSource) (string, error) {
	b, err := ReadByteArray(src)
	if err != nil {
		return "", err
	}
	if err := CheckUTF8(b); err != nil {
		return "", err
	}
	return string(b), nil
}

// ============================================================================
// Self-delimited byte arrays (ISerde framing)
// ============================================================================

// Header bits carried in byte 0 of every ISerde byte array felt.
const (
	HeaderLast  byte = 0x01
	HeaderShort byte = 0x02

	// HeaderData marks an attribute id felt followed by its data.
	HeaderData byte = 0x04

	headerMask = HeaderLast | HeaderShort
	shortMax   = introspect.WordSize - 1
)

// WriteIByteArray writes b as a sequence of headed felts. Every felt but the
// last carries 31 payload bytes; the last is either a full word (0x01) or a
// short word (0x03) whose length sits in byte 1.
func WriteIByteArray(w FeltSink, b []byte) {
	for {
		var word [32]byte
		switch n := len(b); {
		case n > introspect.WordSize:
			copy(word[1:], b[:introspect.WordSize])
			b = b[introspect.WordSize:]
		case n == introspect.WordSize:
			word[0] = HeaderLast
			copy(word[1:], b)
			b = nil
		default:
			word[0] = HeaderLast | HeaderShort
			word[1] = byte(n)
			copy(word[32-n:], b)
			b = nil
		}
		w.WriteFelt(new(felt.Felt).SetBytes(word[:]))
		if b == nil {
			return
		}
	}
}

// IByteArrayLen returns the number of felts WriteIByteArray emits for n bytes.
func IByteArrayLen(n int) int {
	if n == 0 {
		return 1
	}
	return (n + introspect.WordSize - 1) / introspect.WordSize
}

// ReadIByteArray reads a self-delimited byte array.
func ReadIByteArray(src FeltSource) ([]byte, error) {
	var out []byte
	for first := true; ; first = false {
		f, err := src.Next()
		if err != nil {
			if !first {
				err = Promote(err)
			}
			return nil, err
		}
		word := f.Bytes()
		switch word[0] {
		case 0:
			out = append(out, word[1:]...)
		case HeaderLast:
			return append(out, word[1:]...), nil
		case HeaderLast | HeaderShort:
			n := int(word[1])
			if n > shortMax {
				return nil, InvalidLen("short word", uint64(n), shortMax)
			}
			for _, b := range word[2 : 32-n] {
				if b != 0 {
					return nil, InvalidByteArray("non-zero padding in short word")
				}
			}
			return append(out, word[32-n:]...), nil
		default:
			return nil, InvalidByteArray("unknown header")
		}
	}
}

// ReadIString reads a self-delimited byte array and validates it as UTF-8.
func ReadIString(src FeltSource) (string, error) {
	b, err := ReadIByteArray(src)
	if err != nil {
		return "", err
	}
	if err := CheckUTF8(b); err != nil {
		return "", err
	}
	return string(b), nil
}

// ============================================================================
// Attribute id flag
// ============================================================================

// FlagData sets HeaderData in the top byte of id. The id must leave the
// header bits free.
func FlagData(id *felt.Felt) (*felt.Felt, error) {
	word := id.Bytes()
	if word[0]&^headerMask != 0 {
		return nil, InvalidEncoding("attribute id %s uses reserved header bits", id.String())
	}
	word[0] |= HeaderData
	return new(felt.Felt).SetBytes(word[:]), nil
}

// SplitData clears HeaderData from f and reports whether it was set.
func SplitData(f *felt.Felt) (*felt.Felt, bool) {
	word := f.Bytes()
	if word[0]&HeaderData == 0 {
		return f, false
	}
	word[0] &^= HeaderData
	return new(felt.Felt).SetBytes(word[:]), true
}

// ============================================================================
// Lists
// ============================================================================

// Drain reads items until src is exhausted. Only valid for the last field of
// a message.
func Drain[T any](src FeltSource, item func(FeltSource) (T, error)) ([]T, error) {
	var out []T
	for !src.IsEOF() {
		v, err := Item(src, item)
		if err != nil {
			return nil, Promote(err)
		}
		out = append(out, v)
	}
	return out, nil
}

// ReadList reads a length-prefixed list.
func ReadList[T any](src FeltSource, item func(FeltSource) (T, error)) ([]T, error) {
	n, err := ReadUsize(src)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, min(n, 1024))
	for i := 0; i < n; i++ {
		v, err := item(src)
		if err != nil {
			return nil, Promote(err)
		}
		out = append(out, v)
	}
	return out, nil
}

// WriteList writes a length-prefixed list.
func WriteList[T any](w FeltSink, items []T, item func(FeltSink, T) error) error {
	WriteUint(w, uint64(len(items)))
	for _, v := range items {
		if err := item(w, v); err != nil {
			return err
		}
	}
	return nil
}

// ReadFelts reads a length-prefixed felt span.
func ReadFelts(src FeltSource) ([]*felt.Felt, error) {
	return ReadList(src, ReadFelt)
}

// WriteFelts writes a length-prefixed felt span.
func WriteFelts(w FeltSink, felts []*felt.Felt) {
	WriteUint(w, uint64(len(felts)))
	for _, f := range felts {
		w.WriteFelt(f)
	}
}
