package derive

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/cartridge-gg/introspect/syntax"
)

// ErrorKind categorizes a derive-time failure.
type ErrorKind string

const (
	KindDuplicateAttribute ErrorKind = "duplicate_attribute"
	KindDuplicateSelector  ErrorKind = "duplicate_selector"
	KindInvalidAttribute   ErrorKind = "invalid_attribute"
	KindUnsupportedItem    ErrorKind = "unsupported_item"
	KindKeysNotFirst       ErrorKind = "keys_not_first"
	KindParseError         ErrorKind = "parse_error"
)

// Error is returned by every extraction and emission step. Item names the
// type being derived; Field the member or variant, when there is one.
type Error struct {
	Kind   ErrorKind
	Item   string
	Field  string
	Detail string
	Cause  error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	switch {
	case e.Item != "" && e.Field != "":
		msg += fmt.Sprintf(" in %s.%s", e.Item, e.Field)
	case e.Item != "":
		msg += " in " + e.Item
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrDuplicateAttribute = &Error{Kind: KindDuplicateAttribute}
	ErrDuplicateSelector  = &Error{Kind: KindDuplicateSelector}
	ErrInvalidAttribute   = &Error{Kind: KindInvalidAttribute}
	ErrUnsupportedItem    = &Error{Kind: KindUnsupportedItem}
	ErrKeysNotFirst       = &Error{Kind: KindKeysNotFirst}
	ErrParseError         = &Error{Kind: KindParseError}
)

// NewError builds a derive error with a stack trace.
func NewError(kind ErrorKind, item, field, format string, args ...any) error {
	return newError(kind, item, field, format, args...)
}

func newError(kind ErrorKind, item, field, format string, args ...any) error {
	return errors.WithStack(&Error{Kind: kind, Item: item, Field: field, Detail: fmt.Sprintf(format, args...)})
}

// DuplicateAttribute reports an attribute given more than once.
func DuplicateAttribute(item, field, name string) error {
	return duplicateAttribute(item, field, name)
}

func duplicateAttribute(item, field, name string) error {
	return errors.WithHint(
		newError(KindDuplicateAttribute, item, field, "#[%s] given more than once", name),
		"keep a single occurrence of the attribute",
	)
}

func invalidAttribute(item, field, format string, args ...any) error {
	return newError(KindInvalidAttribute, item, field, format, args...)
}

// IsKind reports whether err is a derive error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// Diagnostics turns err into host diagnostics. Parse failures keep the
// parser's own diagnostics.
func Diagnostics(err error) []syntax.Diagnostic {
	if err == nil {
		return nil
	}
	var se *syntax.SyntaxError
	if errors.As(err, &se) {
		return se.Diagnostics
	}
	return []syntax.Diagnostic{{Severity: syntax.SeverityError, Message: err.Error()}}
}
