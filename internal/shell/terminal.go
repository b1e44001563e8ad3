package shell

import (
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Terminal controls which process group owns the controlling terminal.
type Terminal interface {
	// Ctty returns the terminal descriptor, and false if there is no
	// terminal to hand to jobs.
	Ctty() (int, bool)

	// SetForeground gives the terminal to the process group pgid.
	SetForeground(pgid int) error

	// Reclaim gives the terminal back to the shell's own process group.
	Reclaim() error
}

type tty struct {
	fd      int
	signals *ShellSignals
}

// NewTerminal returns the Terminal for f, or one that does nothing if f is
// not a terminal (e.g. input is piped in).
func NewTerminal(f *os.File, signals *ShellSignals) Terminal {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return noTerminal{}
	}

	return &tty{fd: fd, signals: signals}
}

func (t *tty) Ctty() (int, bool) {
	return t.fd, true
}

func (t *tty) SetForeground(pgid int) error {
	return t.signals.withTTOUIgnored(func() error {
		return unix.IoctlSetPointerInt(t.fd, unix.TIOCSPGRP, pgid)
	})
}

func (t *tty) Reclaim() error {
	return t.SetForeground(unix.Getpgrp())
}

type noTerminal struct{}

func (noTerminal) Ctty() (int, bool) { return -1, false }
func (noTerminal) SetForeground(int) error { return nil }
func (noTerminal) Reclaim() error { return nil }
