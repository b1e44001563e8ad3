package shell

import (
	"fmt"
	"strconv"

	"github.com/nixpig/jobsh/internal/jobmanager"
	"golang.org/x/sys/unix"
)

type builtinFunc func(s *Shell, args []string) Outcome

var builtins = map[string]builtinFunc{
	"jobs": jobsBuiltin,
	"fg":   fgBuiltin,
	"bg":   bgBuiltin,
}

func (s *Shell) runBuiltin(p *jobmanager.Process) Outcome {
	fn, ok := builtins[p.Path]
	if !ok {
		s.reportf("%s: not a builtin", p.Path)
		return OutcomeNone
	}

	return fn(s, p.Args)
}

// jobsBuiltin lists the active jobs, oldest first.
func jobsBuiltin(s *Shell, _ []string) Outcome {
	for job := range s.table.Active() {
		fmt.Fprintf(s.out, "[%d] %s %s\n", job.ID(), job.State(), job.Line())
	}

	return OutcomeNone
}

// fgBuiltin resumes a stopped job in the foreground. The caller waits for it.
func fgBuiltin(s *Shell, args []string) Outcome {
	job, ok := s.stoppedJob("fg", args)
	if !ok {
		return OutcomeNone
	}

	s.table.SetCurrent(job)
	job.SetMode(jobmanager.JobModeForeground)

	if err := s.term.SetForeground(job.Pgid()); err != nil {
		s.reportf("fg: %v", err)
	}

	if err := s.resume(job); err != nil {
		s.reportf("fg: %v", err)
		return OutcomeNone
	}

	fmt.Fprintf(s.out, "fg [%d] %s\n", job.ID(), job.Line())

	return OutcomeForeground
}

// bgBuiltin resumes a stopped job in the background.
func bgBuiltin(s *Shell, args []string) Outcome {
	job, ok := s.stoppedJob("bg", args)
	if !ok {
		return OutcomeNone
	}

	job.SetMode(jobmanager.JobModeBackground)

	if err := s.resume(job); err != nil {
		s.reportf("bg: %v", err)
		return OutcomeNone
	}

	fmt.Fprintf(s.out, "bg [%d] %s\n", job.ID(), job.Line())

	return OutcomeNone
}

// stoppedJob looks up the stopped active job named by args[0].
func (s *Shell) stoppedJob(name string, args []string) (*jobmanager.Job, bool) {
	if len(args) == 0 {
		s.reportf("%s: usage: %s <job-id>", name, name)
		return nil, false
	}

	if id, err := strconv.Atoi(args[0]); err == nil {
		job, err := s.table.Find(id)
		if err == nil && job.State() == jobmanager.JobStateStopped {
			return job, true
		}
	}

	s.reportf("no job id: %s.", args[0])

	return nil, false
}

// resume continues every process in the job's group.
func (s *Shell) resume(job *jobmanager.Job) error {
	if err := s.signal(-job.Pgid(), unix.SIGCONT); err != nil {
		return fmt.Errorf("continue job %d: %w", job.ID(), err)
	}

	return job.SetState(jobmanager.JobStateRunning)
}
