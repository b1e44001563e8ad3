package parser

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// DefaultMaxWordSize is the longest word accepted on a line, in bytes.
const DefaultMaxWordSize = 256

// Tokenizer reads lines from an input stream and classifies their words.
type Tokenizer struct {
	r           *bufio.Reader
	maxWordSize int
}

// TokenizerOption configures a Tokenizer.
type TokenizerOption func(*Tokenizer)

// WithMaxWordSize sets the longest word accepted on a line.
func WithMaxWordSize(n int) TokenizerOption {
	return func(t *Tokenizer) {
		t.maxWordSize = n
	}
}

// NewTokenizer creates a Tokenizer reading from r.
func NewTokenizer(r io.Reader, opts ...TokenizerOption) *Tokenizer {
	t := &Tokenizer{
		r:           bufio.NewReader(r),
		maxWordSize: DefaultMaxWordSize,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// ReadLine consumes one line and returns its tokens, terminated by a
// TokenEnd, along with the number of bytes the reconstructed display line
// needs.
//
// ReadLine returns io.EOF if the stream ends before a newline. A word longer
// than the configured maximum returns ErrWordTooLong after discarding the
// rest of the line.
func (t *Tokenizer) ReadLine() ([]Token, int, error) {
	var (
		words []string
		word  strings.Builder
	)

	for {
		c, err := t.r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, 0, io.EOF
			}

			return nil, 0, err
		}

		switch c {
		case '\n':
			if word.Len() > 0 {
				words = append(words, word.String())
			}

			return classify(words), lineSize(words), nil
		case ' ', '\t', '\r':
			if word.Len() > 0 {
				words = append(words, word.String())
				word.Reset()
			}
		default:
			if word.Len() >= t.maxWordSize {
				if err := t.discardLine(); err != nil {
					return nil, 0, err
				}

				return nil, 0, ErrWordTooLong
			}

			word.WriteByte(c)
		}
	}
}

func (t *Tokenizer) discardLine() error {
	_, err := t.r.ReadSlice('\n')
	for errors.Is(err, bufio.ErrBufferFull) {
		_, err = t.r.ReadSlice('\n')
	}

	if errors.Is(err, io.EOF) {
		return io.EOF
	}

	return err
}

// Tokenize classifies the words of line, which is treated as a complete
// line with or without its trailing newline.
func Tokenize(line string, opts ...TokenizerOption) ([]Token, int, error) {
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}

	return NewTokenizer(strings.NewReader(line), opts...).ReadLine()
}

// lineSize is the length of words joined by single spaces.
func lineSize(words []string) int {
	if len(words) == 0 {
		return 0
	}

	n := len(words) - 1
	for _, w := range words {
		n += len(w)
	}

	return n
}
