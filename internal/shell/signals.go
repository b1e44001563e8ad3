package shell

import (
	"log/slog"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// jobControlSignals are the signals a terminal sends to stop a process group.
var jobControlSignals = []os.Signal{unix.SIGTTOU, unix.SIGTTIN, unix.SIGTSTP}

// ShellSignals is the signal preset for the shell process itself.
//
// The job-control signals are caught and dropped rather than ignored: the
// shell is never stopped by them, and because caught dispositions revert to
// the default across exec, spawned stages still stop on Ctrl+Z or when they
// touch the terminal from the background. Ignored dispositions would be
// inherited instead.
type ShellSignals struct {
	ch     chan os.Signal
	logger *slog.Logger
	done   chan struct{}
}

// InstallShellSignals applies the shell preset. Call Restore on shutdown.
func InstallShellSignals(logger *slog.Logger) *ShellSignals {
	s := &ShellSignals{
		ch:     make(chan os.Signal, 8),
		logger: logger,
		done:   make(chan struct{}),
	}

	signal.Notify(s.ch, jobControlSignals...)

	go s.drain()

	return s
}

func (s *ShellSignals) drain() {
	defer close(s.done)

	for sig := range s.ch {
		s.logger.Debug("drop job control signal", "signal", sig)
	}
}

// Restore puts the default dispositions back.
func (s *ShellSignals) Restore() {
	signal.Stop(s.ch)
	signal.Reset(jobControlSignals...)

	close(s.ch)
	<-s.done
}

// withTTOUIgnored runs fn with SIGTTOU ignored. A caught SIGTTOU would make
// tcsetpgrp from a background process group restart forever.
func (s *ShellSignals) withTTOUIgnored(fn func() error) error {
	if s == nil {
		return fn()
	}

	signal.Ignore(unix.SIGTTOU)
	defer signal.Notify(s.ch, unix.SIGTTOU)

	return fn()
}

// childProcAttr is the preset for spawned stages: a new process group led by
// the stage when pgid is 0, otherwise the existing group pgid. A foreground
// leader is given the terminal ctty before exec, so the job owns it before
// it can read from it.
func childProcAttr(pgid int, foreground bool, ctty int) *unix.SysProcAttr {
	attr := &unix.SysProcAttr{
		Setpgid: true,
		Pgid:    pgid,
	}

	if foreground {
		attr.Foreground = true
		attr.Ctty = ctty
	}

	return attr
}
