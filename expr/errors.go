package expr

import (
	"errors"
	"strings"
)

// ErrEmpty is wrapped by the ParseError returned for blank formulas.
var ErrEmpty = errors.New("expr: empty expression")

// ParseError reports a formula that is not valid calculator syntax.
type ParseError struct {
	Source string
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	return "expr: " + e.Msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// newParseError keeps the first line of an underlying parser error; the
// remaining lines are a source snippet that the editor renders itself.
func newParseError(source string, err error) *ParseError {
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return &ParseError{Source: source, Msg: strings.TrimSpace(msg), Err: err}
}
