package shell

import (
	"errors"
	"fmt"

	"github.com/nixpig/jobsh/internal/jobmanager"
	"golang.org/x/sys/unix"
)

type transition int

const (
	transitionNone transition = iota
	transitionStopped
	transitionFinished
)

// WaitForeground blocks until job has finished or been stopped.
//
// Status changes of other jobs seen meanwhile are applied, and their notices
// held back until the next Sweep. If waiting fails for any reason other than
// there being no children left, the job is left running in the background.
func (s *Shell) WaitForeground(job *jobmanager.Job) Outcome {
	for job.Pending() > 0 {
		pid, status, err := s.waiter.Wait(unix.WUNTRACED)
		if err != nil {
			if errors.Is(err, unix.ECHILD) {
				break
			}

			s.reportf("wait: %v", err)
			job.SetMode(jobmanager.JobModeBackground)

			return OutcomeBackground
		}

		owner, p := s.table.FindByPid(pid)
		if owner == nil {
			s.logger.Debug("reap unknown child", "pid", pid)
			continue
		}

		t := s.apply(owner, p, status)

		if owner != job {
			s.holdNotice(owner, t)
			continue
		}

		if t == transitionStopped {
			s.notify(job)
			return OutcomeStopped
		}
	}

	s.finalize(job)

	if job.State() == jobmanager.JobStateKilled {
		return OutcomeKilled
	}

	return OutcomeDone
}

// Sweep collects every pending status change of background jobs without
// blocking, printing a notice for each job that stopped or finished. Notices
// held back by WaitForeground are printed first.
func (s *Shell) Sweep() {
	for _, n := range s.notices {
		fmt.Fprintln(s.out, n)
	}

	s.notices = nil

	for {
		pid, status, err := s.waiter.Wait(unix.WUNTRACED | unix.WNOHANG)
		if err != nil {
			if !errors.Is(err, unix.ECHILD) {
				s.reportf("wait: %v", err)
			}

			return
		}

		if pid == 0 {
			return
		}

		owner, p := s.table.FindByPid(pid)
		if owner == nil {
			s.logger.Debug("reap unknown child", "pid", pid)
			continue
		}

		switch s.apply(owner, p, status) {
		case transitionStopped:
			s.notify(owner)
		case transitionFinished:
			s.finalize(owner)
			s.notify(owner)
		}
	}
}

func (s *Shell) holdNotice(job *jobmanager.Job, t transition) {
	switch t {
	case transitionStopped:
		s.notices = append(s.notices, notice(job))
	case transitionFinished:
		s.finalize(job)
		s.notices = append(s.notices, notice(job))
	}
}

// apply records status for process p of job.
//
// A process that exits, or dies from any signal, is reaped. SIGKILL and
// SIGTERM additionally mark the job Killed and take the rest of its group
// down with it, once. A stop marks the job Stopped, unless it already is.
func (s *Shell) apply(
	job *jobmanager.Job,
	p *jobmanager.Process,
	status unix.WaitStatus,
) transition {
	s.logger.Debug(
		"child status",
		"id", job.ID(),
		"job", job.Key(),
		"pid", p.Pid,
		"status", uint32(status),
	)

	switch {
	case status.Stopped():
		if job.State() == jobmanager.JobStateStopped {
			return transitionNone
		}

		if err := job.SetState(jobmanager.JobStateStopped); err != nil {
			s.logger.Warn("stop job", "id", job.ID(), "err", err)
			return transitionNone
		}

		return transitionStopped

	case status.Exited():
		p.Status = status
		job.ProcessReaped(p)

	case status.Signaled():
		if sig := status.Signal(); sig == unix.SIGKILL || sig == unix.SIGTERM {
			s.kill(job)
		}

		p.Status = status
		job.ProcessReaped(p)

	default:
		return transitionNone
	}

	if job.Pending() == 0 {
		return transitionFinished
	}

	return transitionNone
}

// kill marks job Killed and sends SIGKILL to its group, the first time only.
func (s *Shell) kill(job *jobmanager.Job) {
	if job.State() == jobmanager.JobStateKilled {
		return
	}

	if err := job.SetState(jobmanager.JobStateKilled); err != nil {
		s.logger.Warn("kill job", "id", job.ID(), "err", err)
		return
	}

	if err := s.signal(-job.Pgid(), unix.SIGKILL); err != nil &&
		!errors.Is(err, unix.ESRCH) {
		s.reportf("kill job %d: %v", job.ID(), err)
	}
}

// finalize moves job from the active list to the finished list.
func (s *Shell) finalize(job *jobmanager.Job) {
	if job.State() != jobmanager.JobStateKilled {
		if err := job.SetState(jobmanager.JobStateDone); err != nil {
			s.logger.Warn("finish job", "id", job.ID(), "err", err)
		}
	}

	s.table.Remove(job.ID())
	s.table.Finish(job)
}

func wait4(options int) (int, unix.WaitStatus, error) {
	var status unix.WaitStatus

	for {
		pid, err := unix.Wait4(-1, &status, options, nil)
		if errors.Is(err, unix.EINTR) {
			continue
		}

		return pid, status, err
	}
}
