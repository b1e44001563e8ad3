package jobmanager

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// Process is one stage of a Job's pipeline.
type Process struct {
	// Pid is zero until the process has been spawned.
	Pid int

	// Path is the command as typed; it is resolved against PATH at spawn.
	Path string

	// Args holds the arguments after the command, in order.
	Args []string

	// ReadPath and WritePath are the '<' and '>' redirect targets, if any.
	ReadPath  string
	WritePath string

	// Stdin and Stdout are only set while the executor wires the stage up.
	// Nil means the shell's own stdin/stdout.
	Stdin  *os.File
	Stdout *os.File

	Status unix.WaitStatus
	Reaped bool
}

// SetArg stores arg in the 1-based argument slot idx. Slots between the
// current end and idx are left empty.
func (p *Process) SetArg(idx int, arg string) {
	for len(p.Args) < idx {
		p.Args = append(p.Args, "")
	}

	p.Args[idx-1] = arg
}

// CloseFiles closes and clears the transient descriptors.
func (p *Process) CloseFiles() error {
	var errs []error

	if p.Stdin != nil {
		errs = append(errs, p.Stdin.Close())
		p.Stdin = nil
	}

	if p.Stdout != nil {
		errs = append(errs, p.Stdout.Close())
		p.Stdout = nil
	}

	return errors.Join(errs...)
}

// ReplaceStdin swaps in f as the stage input, closing any previous one.
func (p *Process) ReplaceStdin(f *os.File) {
	if p.Stdin != nil {
		p.Stdin.Close()
	}

	p.Stdin = f
}

// ReplaceStdout swaps in f as the stage output, closing any previous one.
func (p *Process) ReplaceStdout(f *os.File) {
	if p.Stdout != nil {
		p.Stdout.Close()
	}

	p.Stdout = f
}
