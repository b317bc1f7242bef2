package transcode

import (
	"github.com/cockroachdb/errors"
)

// Side tells which half of the pipeline failed.
type Side int

const (
	Deserialize Side = iota
	Serialize
)

func (s Side) String() string {
	if s == Serialize {
		return "serialize"
	}
	return "deserialize"
}

// Error tags a failure with the side it came from. Err is a *serde.Error on
// the deserialize side and whatever the Serializer returned otherwise.
type Error struct {
	Side Side
	Err  error
}

func (e *Error) Error() string {
	return e.Side.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func deserializeErr(err error) error {
	return tag(Deserialize, err)
}

func serializeErr(err error) error {
	return tag(Serialize, err)
}

func tag(side Side, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Side: side, Err: err}
}

// SideOf reports the side of a transcoding error.
func SideOf(err error) (Side, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Side, true
	}
	return 0, false
}
