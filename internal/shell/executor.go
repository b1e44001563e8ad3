package shell

import (
	"os"
	"os/exec"

	"github.com/nixpig/jobsh/internal/jobmanager"
)

// Launch starts job. Builtin jobs run in the shell and return the builtin's
// outcome. Other jobs become the current job and have their pipeline spawned
// into one process group.
//
// A stage whose redirect cannot be opened, or which cannot be spawned, is
// reported and skipped; the rest of the pipeline still runs. If no stage runs
// at all the job is finished immediately and Launch returns OutcomeNone.
func (s *Shell) Launch(job *jobmanager.Job) Outcome {
	if job.Mode() == jobmanager.JobModeBuiltin {
		return s.runBuiltin(job.Processes()[0])
	}

	s.table.SetCurrent(job)

	s.spawnPipeline(job)

	if job.Pending() == 0 {
		s.finalize(job)
		return OutcomeNone
	}

	if job.Mode() == jobmanager.JobModeBackground {
		return OutcomeBackground
	}

	return OutcomeForeground
}

func (s *Shell) spawnPipeline(job *jobmanager.Job) {
	procs := job.Processes()

	var nextStdin *os.File
	for i, p := range procs {
		p.Stdin, nextStdin = nextStdin, nil

		if i < len(procs)-1 {
			r, w, err := os.Pipe()
			if err != nil {
				s.reportf("pipe: %v", err)
			} else {
				p.Stdout = w
				nextStdin = r
			}
		}

		if err := openRedirects(p); err != nil {
			s.reportf("%v (skipping '%s')", err, p.Path)
			s.closeStage(job, p)
			continue
		}

		if err := s.spawn(job, p); err != nil {
			s.reportf("%v", err)
			s.closeStage(job, p)
			continue
		}

		s.closeStage(job, p)
	}
}

// openRedirects opens the stage's redirect targets. An explicit redirect
// takes the place of the pipe on that side.
func openRedirects(p *jobmanager.Process) error {
	if p.ReadPath != "" {
		f, err := os.Open(p.ReadPath)
		if err != nil {
			return err
		}

		p.ReplaceStdin(f)
	}

	if p.WritePath != "" {
		f, err := os.OpenFile(
			p.WritePath,
			os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
			0o644,
		)
		if err != nil {
			return err
		}

		p.ReplaceStdout(f)
	}

	return nil
}

func (s *Shell) spawn(job *jobmanager.Job, p *jobmanager.Process) error {
	leader := job.Pgid() == 0
	ctty, isTTY := s.term.Ctty()
	foreground := leader && isTTY && job.Mode() == jobmanager.JobModeForeground

	cmd := exec.Command(p.Path, p.Args...)
	cmd.Stdin = fileOr(p.Stdin, s.stdin)
	cmd.Stdout = fileOr(p.Stdout, s.stdout)
	cmd.Stderr = s.stderr
	cmd.SysProcAttr = childProcAttr(job.Pgid(), foreground, ctty)

	if err := cmd.Start(); err != nil {
		return err
	}

	p.Pid = cmd.Process.Pid

	if leader {
		job.SetPgid(p.Pid)
	}

	job.ProcessStarted()

	if job.State() == jobmanager.JobStatePending {
		if err := job.SetState(jobmanager.JobStateRunning); err != nil {
			s.logger.Warn("start job", "id", job.ID(), "err", err)
		}
	}

	// Children are reaped with wait4 on any pid, not through os.Process.
	if err := cmd.Process.Release(); err != nil {
		s.logger.Warn("release process", "pid", p.Pid, "err", err)
	}

	s.logger.Debug(
		"spawn process",
		"id", job.ID(),
		"job", job.Key(),
		"pid", p.Pid,
		"pgid", job.Pgid(),
		"path", p.Path,
	)

	return nil
}

// closeStage closes the descriptors handed to a stage. Once spawned, the
// child holds its own copies.
func (s *Shell) closeStage(job *jobmanager.Job, p *jobmanager.Process) {
	if err := p.CloseFiles(); err != nil {
		s.logger.Warn("close stage files", "id", job.ID(), "path", p.Path, "err", err)
	}
}

func fileOr(f, fallback *os.File) *os.File {
	if f != nil {
		return f
	}

	return fallback
}
