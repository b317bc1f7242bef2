package serde

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/NethermindEth/juno/core/felt"
)

// Kind categorizes a decoding error. The set is closed.
type Kind string

const (
	KindEof                      Kind = "eof"
	KindUnexpectedEof            Kind = "unexpected_eof"
	KindNotEof                   Kind = "not_eof"
	KindInvalidTag               Kind = "invalid_tag"
	KindInvalidLen               Kind = "invalid_len"
	KindOutOfRangeFeltConversion Kind = "out_of_range_felt_conversion"
	KindInvalidByteArray         Kind = "invalid_byte_array"
	KindInvalidBytes31Encoding   Kind = "invalid_bytes31_encoding"
	KindUtf8                     Kind = "utf8"
	KindTrailingData             Kind = "trailing_data"
	KindInvariantViolation       Kind = "invariant_violation"
	KindInvalidEncoding          Kind = "invalid_encoding"
	KindPrimitiveFromFelt        Kind = "primitive_from_felt"
	KindInvalidEnumSelector      Kind = "invalid_enum_selector"
	KindUnexpectedLen            Kind = "unexpected_len"
	KindMessage                  Kind = "message"
)

// Error is the structured error returned by every deserializer. Only the
// fields relevant to Kind are set.
type Error struct {
	Kind      Kind
	What      string
	Value     string
	Len       uint64
	Max       uint64
	ValidUpTo int
	ErrorLen  int
	Detail    string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(string(e.Kind))

	switch e.Kind {
	case KindInvalidTag:
		fmt.Fprintf(&b, ": invalid %s tag %s", e.What, e.Value)
	case KindInvalidLen:
		fmt.Fprintf(&b, ": %s length %d exceeds %d", e.What, e.Len, e.Max)
	case KindOutOfRangeFeltConversion, KindPrimitiveFromFelt:
		fmt.Fprintf(&b, ": %s does not fit %s", e.Value, e.What)
	case KindUtf8:
		fmt.Fprintf(&b, ": invalid utf-8 after %d bytes", e.ValidUpTo)
		if e.ErrorLen > 0 {
			fmt.Fprintf(&b, " (%d invalid)", e.ErrorLen)
		}
	case KindInvalidEnumSelector:
		fmt.Fprintf(&b, ": %s has no variant %s", e.What, e.Value)
	case KindUnexpectedLen:
		fmt.Fprintf(&b, ": %s expected length %d, got %d", e.What, e.Max, e.Len)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	return b.String()
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Sentinels for errors.Is checks.
var (
	ErrEof                 = &Error{Kind: KindEof}
	ErrUnexpectedEof       = &Error{Kind: KindUnexpectedEof}
	ErrNotEof              = &Error{Kind: KindNotEof}
	ErrInvalidTag          = &Error{Kind: KindInvalidTag}
	ErrInvalidLen          = &Error{Kind: KindInvalidLen}
	ErrOutOfRange          = &Error{Kind: KindOutOfRangeFeltConversion}
	ErrInvalidByteArray    = &Error{Kind: KindInvalidByteArray}
	ErrInvalidBytes31      = &Error{Kind: KindInvalidBytes31Encoding}
	ErrUtf8                = &Error{Kind: KindUtf8}
	ErrTrailingData        = &Error{Kind: KindTrailingData}
	ErrInvariantViolation  = &Error{Kind: KindInvariantViolation}
	ErrInvalidEncoding     = &Error{Kind: KindInvalidEncoding}
	ErrPrimitiveFromFelt   = &Error{Kind: KindPrimitiveFromFelt}
	ErrInvalidEnumSelector = &Error{Kind: KindInvalidEnumSelector}
	ErrUnexpectedLen       = &Error{Kind: KindUnexpectedLen}
	ErrMessage             = &Error{Kind: KindMessage}
)

func Eof() error {
	return &Error{Kind: KindEof}
}

func UnexpectedEof() error {
	return &Error{Kind: KindUnexpectedEof}
}

func NotEof() error {
	return &Error{Kind: KindNotEof}
}

func InvalidTag(what string, value *felt.Felt) error {
	return &Error{Kind: KindInvalidTag, What: what, Value: value.String()}
}

func InvalidLen(what string, length, max uint64) error {
	return &Error{Kind: KindInvalidLen, What: what, Len: length, Max: max}
}

func OutOfRange(target string, value *felt.Felt) error {
	return &Error{Kind: KindOutOfRangeFeltConversion, What: target, Value: value.String()}
}

func InvalidByteArray(detail string) error {
	return &Error{Kind: KindInvalidByteArray, Detail: detail}
}

func InvalidBytes31Encoding(value *felt.Felt) error {
	return &Error{Kind: KindInvalidBytes31Encoding, Value: value.String()}
}

func Utf8(validUpTo, errorLen int) error {
	return &Error{Kind: KindUtf8, ValidUpTo: validUpTo, ErrorLen: errorLen}
}

func TrailingData() error {
	return &Error{Kind: KindTrailingData}
}

func InvariantViolation(format string, args ...any) error {
	return &Error{Kind: KindInvariantViolation, Detail: fmt.Sprintf(format, args...)}
}

func InvalidEncoding(format string, args ...any) error {
	return &Error{Kind: KindInvalidEncoding, Detail: fmt.Sprintf(format, args...)}
}

func PrimitiveFromFelt(target string, value *felt.Felt) error {
	return &Error{Kind: KindPrimitiveFromFelt, What: target, Value: value.String()}
}

func InvalidEnumSelector(enum string, selector *felt.Felt) error {
	return &Error{Kind: KindInvalidEnumSelector, What: enum, Value: selector.String()}
}

func UnexpectedLen(what string, expected, got uint64) error {
	return &Error{Kind: KindUnexpectedLen, What: what, Max: expected, Len: got}
}

func Message(format string, args ...any) error {
	return &Error{Kind: KindMessage, Detail: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is a serde error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// Promote turns an Eof into UnexpectedEof. Used once an item has started.
func Promote(err error) error {
	if IsKind(err, KindEof) {
		return UnexpectedEof()
	}
	return err
}

// CheckUTF8 validates b and reports the first invalid position.
func CheckUTF8(b []byte) error {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			if !utf8.FullRune(b[i:]) {
				// truncated sequence at the end of input
				return Utf8(i, 0)
			}
			return Utf8(i, 1)
		}
		i += size
	}
	return nil
}
