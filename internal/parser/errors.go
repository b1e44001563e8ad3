package parser

import (
	"errors"
	"fmt"
)

var (
	ErrWordTooLong         = errors.New("word too long")
	ErrEmptyLine           = errors.New("empty line")
	ErrDanglingPipe        = errors.New("no command after pipe ('|')")
	ErrMissingPath         = errors.New("no filepath after redirect")
	ErrMisplacedBackground = errors.New("'&' must be the last word of the line")
	ErrTooManyArgs         = errors.New("too many arguments")
	ErrBuiltinPipeline     = errors.New("builtin cannot be piped or run in the background")
)

// ParseError is returned when a token sequence doesn't fit the command
// grammar. Token is the token the parser was looking at.
type ParseError struct {
	Token Token
	Err   error
}

func (e *ParseError) Error() string {
	if e.Token.Kind == TokenEnd {
		return e.Err.Error()
	}

	return fmt.Sprintf("%s (at %q, word %d)", e.Err, e.Token.Text, e.Token.Pos+1)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
