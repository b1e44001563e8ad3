package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/nixpig/jobsh/internal/jobmanager"
	"github.com/nixpig/jobsh/internal/parser"
	"github.com/nixpig/jobsh/internal/shell"
	"github.com/spf13/cobra"
)

func rootCmd() *cobra.Command {
	cfg := &config{}

	c := &cobra.Command{
		Use:           "jobsh",
		Short:         "Line-oriented shell with job control",
		Example:       "jobsh --prompt '> ' --debug",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.loadFile(cmd.Flags()); err != nil {
				return err
			}

			if err := cfg.validate(); err != nil {
				return err
			}

			logger := newLogger(cmd.ErrOrStderr(), cfg.debug)

			return runShell(cfg, logger)
		},
	}

	bindFlags(c.Flags(), cfg)

	return c
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// runShell installs the shell signal preset, takes the terminal if stdin is
// one, and reads commands from stdin until it ends.
func runShell(cfg *config, logger *slog.Logger) error {
	signals := shell.InstallShellSignals(logger)
	defer signals.Restore()

	term := shell.NewTerminal(os.Stdin, signals)
	if err := term.Reclaim(); err != nil {
		logger.Warn("take terminal", "err", err)
	}

	sh := shell.New(
		jobmanager.NewTable(logger),
		logger,
		shell.WithTerminal(term),
	)

	r := &repl{
		prompt:    cfg.prompt,
		maxArgs:   cfg.maxArgs,
		tokenizer: parser.NewTokenizer(os.Stdin, parser.WithMaxWordSize(cfg.maxWordSize)),
		shell:     sh,
		out:       os.Stdout,
		logger:    logger,
	}

	return r.run()
}
