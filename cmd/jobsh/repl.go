package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/nixpig/jobsh/internal/parser"
	"github.com/nixpig/jobsh/internal/shell"
)

type repl struct {
	prompt    string
	maxArgs   int
	tokenizer *parser.Tokenizer
	shell     *shell.Shell
	out       io.Writer
	logger    *slog.Logger
}

// run reads and executes lines until the input ends. Every cycle sweeps the
// background jobs once before the new line is parsed.
func (r *repl) run() error {
	for {
		fmt.Fprint(r.out, r.prompt)

		tokens, size, err := r.tokenizer.ReadLine()
		if errors.Is(err, io.EOF) {
			r.logger.Debug("end of input")
			return nil
		}

		r.shell.Sweep()

		if err != nil {
			if !errors.Is(err, parser.ErrWordTooLong) {
				return fmt.Errorf("read line: %w", err)
			}

			r.shell.Reportf("%v", err)
			continue
		}

		r.execute(tokens, size)
	}
}

func (r *repl) execute(tokens []parser.Token, size int) {
	// Blank lines only sweep.
	if len(tokens) == 1 && tokens[0].Kind == parser.TokenEnd {
		return
	}

	table := r.shell.Table()
	job := table.Create(size)

	if err := parser.Parse(job, tokens, parser.WithMaxArgs(r.maxArgs)); err != nil {
		r.shell.Reportf("%v", err)
		return
	}

	table.Activate(job)

	outcome := r.shell.Dispatch(r.shell.Launch(job))
	r.logger.Debug("job dispatched", "id", job.ID(), "job", job.Key(), "outcome", outcome)

	table.ReclaimFinished()
}
