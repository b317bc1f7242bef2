package serde

import (
	"strings"

	"github.com/NethermindEth/juno/core/felt"
)

// Framing selects between the two wire layouts. They differ in how byte
// arrays and option-like tags are written; everything else is shared.
type Framing int

const (
	// Serde is the native Cairo layout.
	Serde Framing = iota
	// ISerde uses self-delimited byte arrays and presence flags.
	ISerde
)

func (f Framing) String() string {
	switch f {
	case Serde:
		return "serde"
	case ISerde:
		return "iserde"
	default:
		return "unknown"
	}
}

// ParseFraming accepts "serde" or "iserde" in any case.
func ParseFraming(s string) (Framing, error) {
	switch strings.ToLower(s) {
	case "serde":
		return Serde, nil
	case "iserde":
		return ISerde, nil
	default:
		return 0, Message("unknown framing %q", s)
	}
}

func (f Framing) WriteBytes(w FeltSink, b []byte) {
	if f == ISerde {
		WriteIByteArray(w, b)
		return
	}
	WriteByteArray(w, b)
}

func (f Framing) ReadBytes(src FeltSource) ([]byte, error) {
	if f == ISerde {
		return ReadIByteArray(src)
	}
	return ReadByteArray(src)
}

func (f Framing) ReadString(src FeltSource) (string, error) {
	if f == ISerde {
		return ReadIString(src)
	}
	return ReadString(src)
}

// BytesLen returns the felt count of an n byte array in this framing.
func (f Framing) BytesLen(n int) int {
	if f == ISerde {
		return IByteArrayLen(n)
	}
	return ByteArrayLen(n)
}

// Option tags: Serde writes Some=0/None=1, ISerde writes None=0/Some=1.
func (f Framing) optionTag(some bool) uint64 {
	if some == (f == ISerde) {
		return 1
	}
	return 0
}

// WriteOptionTag writes the discriminant of an Option or Nullable.
func (f Framing) WriteOptionTag(w FeltSink, some bool) {
	WriteUint(w, f.optionTag(some))
}

// ReadOptionTag reads the discriminant of an Option or Nullable.
func (f Framing) ReadOptionTag(src FeltSource, what string) (bool, error) {
	tag, err := src.Next()
	if err != nil {
		return false, err
	}
	switch {
	case isSmall(tag, f.optionTag(true)):
		return true, nil
	case isSmall(tag, f.optionTag(false)):
		return false, nil
	default:
		return false, InvalidTag(what, tag)
	}
}

// WriteResultTag writes Ok=0, Err=1 in both framings.
func WriteResultTag(w FeltSink, ok bool) {
	if ok {
		WriteUint(w, 0)
		return
	}
	WriteUint(w, 1)
}

// ReadResultTag reads a Result discriminant and reports whether it is Ok.
func ReadResultTag(src FeltSource) (bool, error) {
	tag, err := src.Next()
	if err != nil {
		return false, err
	}
	switch {
	case isSmall(tag, 0):
		return true, nil
	case isSmall(tag, 1):
		return false, nil
	default:
		return false, InvalidTag("Result", tag)
	}
}

func isSmall(f *felt.Felt, v uint64) bool {
	var want felt.Felt
	want.SetUint64(v)
	return f.Equal(&want)
}
