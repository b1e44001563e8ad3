// Package shell runs parsed jobs as process groups and tracks them until they
// finish.
//
// A Shell is the single context object for job control: it owns the job
// table, the terminal and the wait source. Launch spawns a job's pipeline,
// WaitForeground blocks until the foreground job finishes or stops, and Sweep
// collects background status changes without blocking. Dispatch ties these
// together for one input cycle.
//
// A Shell is not safe for concurrent use.
package shell

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nixpig/jobsh/internal/jobmanager"
	"golang.org/x/sys/unix"
)

// Outcome is what a launch, wait or builtin leaves the input cycle to do.
type Outcome int

const (
	// OutcomeNone means there is nothing left to do this cycle.
	OutcomeNone Outcome = iota

	// OutcomeForeground means the current job owns the terminal and must be
	// waited for.
	OutcomeForeground

	// OutcomeBackground means the current job was started detached.
	OutcomeBackground

	// OutcomeStopped means the foreground job was stopped.
	OutcomeStopped

	// OutcomeDone means the foreground job finished.
	OutcomeDone

	// OutcomeKilled means the foreground job was killed.
	OutcomeKilled
)

var outcomes = []string{
	"None",
	"Foreground",
	"Background",
	"Stopped",
	"Done",
	"Killed",
}

func (o Outcome) String() string {
	if int(o) < 0 || int(o) >= len(outcomes) {
		return "Unknown"
	}

	return outcomes[o]
}

// Waiter reports status changes of the shell's children. It has the
// semantics of wait4(-1, ...) with the given options.
type Waiter interface {
	Wait(options int) (pid int, status unix.WaitStatus, err error)
}

// WaitFunc adapts a function to a Waiter.
type WaitFunc func(options int) (int, unix.WaitStatus, error)

func (f WaitFunc) Wait(options int) (int, unix.WaitStatus, error) {
	return f(options)
}

// SignalFunc sends sig to pid, with the semantics of kill(2).
type SignalFunc func(pid int, sig unix.Signal) error

// Shell holds the job-control state of one interactive session.
type Shell struct {
	table  *jobmanager.Table
	logger *slog.Logger

	// out receives job listings and notices, errOut diagnostics.
	out    io.Writer
	errOut io.Writer

	// stdin, stdout and stderr are handed to stages with no pipe or redirect.
	stdin  *os.File
	stdout *os.File
	stderr *os.File

	term   Terminal
	waiter Waiter
	signal SignalFunc

	// notices are background changes seen while blocked on the foreground
	// job. They are printed by the next Sweep.
	notices []string
}

// Option configures a Shell.
type Option func(*Shell)

// WithOutput sets where notices and diagnostics are written.
func WithOutput(out, errOut io.Writer) Option {
	return func(s *Shell) {
		s.out = out
		s.errOut = errOut
	}
}

// WithStdio sets the streams inherited by stages that have no pipe or
// redirect on that side.
func WithStdio(stdin, stdout, stderr *os.File) Option {
	return func(s *Shell) {
		s.stdin = stdin
		s.stdout = stdout
		s.stderr = stderr
	}
}

// WithTerminal sets the controlling terminal.
func WithTerminal(term Terminal) Option {
	return func(s *Shell) {
		s.term = term
	}
}

// WithWaiter sets the source of child status changes.
func WithWaiter(w Waiter) Option {
	return func(s *Shell) {
		s.waiter = w
	}
}

// WithSignaller sets how signals are sent to process groups.
func WithSignaller(fn SignalFunc) Option {
	return func(s *Shell) {
		s.signal = fn
	}
}

// New creates a Shell around table. Without options it uses the process'
// own stdio, no terminal, wait4(2) and kill(2).
func New(table *jobmanager.Table, logger *slog.Logger, opts ...Option) *Shell {
	s := &Shell{
		table:  table,
		logger: logger,
		out:    os.Stdout,
		errOut: os.Stderr,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		term:   noTerminal{},
		waiter: WaitFunc(wait4),
		signal: unix.Kill,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Table returns the job table of the Shell.
func (s *Shell) Table() *jobmanager.Table {
	return s.table
}

// Dispatch finishes the input cycle for outcome: a foreground job is waited
// for and the terminal taken back, a background job is announced.
func (s *Shell) Dispatch(outcome Outcome) Outcome {
	job := s.table.Current()
	if job == nil {
		return OutcomeNone
	}

	switch outcome {
	case OutcomeForeground:
		result := s.WaitForeground(job)

		if err := s.term.Reclaim(); err != nil {
			s.reportf("reclaim terminal: %v", err)
		}

		return result

	case OutcomeBackground:
		fmt.Fprintf(s.out, "[%d] %d %s\n", job.ID(), job.Pgid(), job.Line())
	}

	return outcome
}

// Reportf writes a diagnostic for the user.
func (s *Shell) Reportf(format string, args ...any) {
	s.reportf(format, args...)
}

func (s *Shell) reportf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	fmt.Fprintf(s.errOut, "jobsh: %s\n", msg)

	s.logger.Debug("report", "msg", msg)
}

// notify prints the state of job as a notice.
func (s *Shell) notify(job *jobmanager.Job) {
	fmt.Fprintln(s.out, notice(job))
}

func notice(job *jobmanager.Job) string {
	return fmt.Sprintf("[%d] %s %s", job.ID(), job.State(), job.Line())
}
