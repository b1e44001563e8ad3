// Package parser turns input lines into jobs.
//
// A Tokenizer splits a line into whitespace-separated words and classifies
// each one by its position and text. Parse then walks the tokens once and
// fills in a jobmanager.Job: its pipeline of Processes, their arguments and
// redirects, its mode and its display line.
//
// Operators are only recognised as standalone words:
//
//	line     ::= stage ('|' stage)* ('&')?
//	stage    ::= command arg* redirect*
//	redirect ::= '<' path | '>' path
package parser

import (
	"fmt"

	"github.com/nixpig/jobsh/internal/jobmanager"
)

// DefaultMaxArgs is the most arguments a single command may take.
const DefaultMaxArgs = 8

type parseConfig struct {
	maxArgs int
}

// ParseOption configures Parse.
type ParseOption func(*parseConfig)

// WithMaxArgs sets the most arguments a single command may take.
func WithMaxArgs(n int) ParseOption {
	return func(c *parseConfig) {
		c.maxArgs = n
	}
}

// Parse fills in job from tokens, which must be terminated by a TokenEnd.
// The job's first Process is filled in place; each pipe adds another.
//
// On failure Parse returns a *ParseError. The job may be partially filled
// and should be discarded.
func Parse(job *jobmanager.Job, tokens []Token, opts ...ParseOption) error {
	cfg := parseConfig{maxArgs: DefaultMaxArgs}
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != TokenEnd {
		return fmt.Errorf("parse: token sequence not terminated")
	}

	if tokens[0].Kind == TokenEnd {
		return &ParseError{Token: tokens[0], Err: ErrEmptyLine}
	}

	proc := job.LastProcess()
	builtin := false

	for i, tok := range tokens[:len(tokens)-1] {
		next := tokens[i+1]

		switch tok.Kind {
		case TokenCommand:
			proc.Path = tok.Text

		case TokenBuiltinCommand:
			if i > 0 {
				return &ParseError{Token: tok, Err: ErrBuiltinPipeline}
			}

			proc.Path = tok.Text
			builtin = true
			job.SetMode(jobmanager.JobModeBuiltin)

		case TokenArgument:
			if tok.ArgIndex > cfg.maxArgs {
				return &ParseError{
					Token: tok,
					Err:   fmt.Errorf("%w (max %d)", ErrTooManyArgs, cfg.maxArgs),
				}
			}

			proc.SetArg(tok.ArgIndex, tok.Text)

		case TokenFilePath:
			switch tokens[i-1].Kind {
			case TokenReadRedirect:
				proc.ReadPath = tok.Text
			case TokenWriteRedirect:
				proc.WritePath = tok.Text
			}

		case TokenPipe:
			if next.Kind == TokenEnd {
				return &ParseError{Token: tok, Err: ErrDanglingPipe}
			}

			if builtin {
				return &ParseError{Token: tok, Err: ErrBuiltinPipeline}
			}

			proc = job.AddProcess()

		case TokenReadRedirect, TokenWriteRedirect:
			if next.Kind != TokenFilePath {
				return &ParseError{Token: tok, Err: ErrMissingPath}
			}

		case TokenBackground:
			if next.Kind != TokenEnd {
				return &ParseError{Token: tok, Err: ErrMisplacedBackground}
			}

			if builtin {
				return &ParseError{Token: tok, Err: ErrBuiltinPipeline}
			}

			job.SetMode(jobmanager.JobModeBackground)
		}

		job.AppendLine(tok.Text)
	}

	return nil
}
