package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nixpig/jobsh/internal/jobmanager"
	"github.com/nixpig/jobsh/internal/parser"
	"github.com/nixpig/jobsh/internal/shell"
	"github.com/stretchr/testify/require"
)

type replResult struct {
	err    error
	out    string
	errOut string
	table  *jobmanager.Table
}

func runREPL(t *testing.T, input string) replResult {
	t.Helper()

	devNull, err := os.Open(os.DevNull)
	require.NoError(t, err)
	t.Cleanup(func() { devNull.Close() })

	stdout, err := os.Create(filepath.Join(t.TempDir(), "stdout"))
	require.NoError(t, err)
	t.Cleanup(func() { stdout.Close() })

	logger := slog.New(slog.DiscardHandler)
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	table := jobmanager.NewTable(logger)

	r := &repl{
		prompt:    "$ ",
		maxArgs:   parser.DefaultMaxArgs,
		tokenizer: parser.NewTokenizer(strings.NewReader(input)),
		shell: shell.New(
			table,
			logger,
			shell.WithOutput(out, errOut),
			shell.WithStdio(devNull, stdout, stdout),
		),
		out:    out,
		logger: logger,
	}

	err = r.run()

	return replResult{err: err, out: out.String(), errOut: errOut.String(), table: table}
}

func TestREPL(t *testing.T) {
	t.Run("Test end of input exits cleanly", func(t *testing.T) {
		res := runREPL(t, "")

		if res.err != nil {
			t.Errorf("expected not to get error: got '%v'", res.err)
		}

		if res.out != "$ " {
			t.Errorf("expected output: got '%v', want '%v'", res.out, "$ ")
		}
	})

	t.Run("Test runs foreground job and reclaims it", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		res := runREPL(t, "echo one two > "+path+"\n")

		require.NoError(t, res.err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		if string(data) != "one two\n" {
			t.Errorf("expected file content: got '%s', want '%s'", data, "one two\n")
		}

		if res.table.Len() != 0 || len(res.table.Finished()) != 0 {
			t.Errorf("expected table to be empty")
		}
	})

	t.Run("Test parse errors are reported and discarded", func(t *testing.T) {
		res := runREPL(t, "ls |\n\njobs\n")

		require.NoError(t, res.err)

		if !strings.Contains(res.errOut, "jobsh: ") {
			t.Errorf("expected diagnostic: got '%s'", res.errOut)
		}

		if strings.Count(res.errOut, "\n") != 1 {
			t.Errorf("expected blank line to be silent: got '%s'", res.errOut)
		}

		if res.out != "$ $ $ $ " {
			t.Errorf("expected only prompts: got '%v'", res.out)
		}
	})

	t.Run("Test oversized word skips the line", func(t *testing.T) {
		res := runREPL(t, "echo "+strings.Repeat("x", 400)+"\n")

		require.NoError(t, res.err)

		if !strings.Contains(res.errOut, parser.ErrWordTooLong.Error()) {
			t.Errorf("expected word too long: got '%s'", res.errOut)
		}
	})

	t.Run("Test builtin with no jobs", func(t *testing.T) {
		res := runREPL(t, "fg 3\n")

		require.NoError(t, res.err)

		if !strings.Contains(res.errOut, "no job id: 3.") {
			t.Errorf("expected diagnostic: got '%s'", res.errOut)
		}
	})
}
