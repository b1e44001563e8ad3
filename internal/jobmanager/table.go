package jobmanager

import (
	"fmt"
	"iter"
	"log/slog"
	"slices"
)

type jobList struct {
	name string
	jobs []*Job
}

func (l *jobList) push(j *Job) {
	j.list = l
	l.jobs = append(l.jobs, j)
}

func (l *jobList) unlink(id int) *Job {
	idx := slices.IndexFunc(l.jobs, func(j *Job) bool { return j.id == id })
	if idx < 0 {
		return nil
	}

	j := l.jobs[idx]
	l.jobs = slices.Delete(l.jobs, idx, idx+1)
	j.list = nil

	return j
}

// Table is responsible for holding the Jobs of a shell session.
//
// Active Jobs are Pending, Running or Stopped. Jobs that reach Done or Killed
// are moved to the finished list and dropped by ReclaimFinished once the
// current input cycle is over. A Job is only ever in one list.
//
// Table is not safe for concurrent use; the shell touches it from a single
// goroutine between wait calls.
type Table struct {
	active   jobList
	finished jobList
	current  *Job

	logger *slog.Logger
}

// NewTable creates an empty Table.
func NewTable(logger *slog.Logger) *Table {
	return &Table{
		active:   jobList{name: "active"},
		finished: jobList{name: "finished"},
		logger:   logger,
	}
}

// NextID returns one more than the largest id among active Jobs, or 1 if
// there are none.
func (t *Table) NextID() int {
	highest := 0
	for _, j := range t.active.jobs {
		if j.id > highest {
			highest = j.id
		}
	}

	return highest + 1
}

// Create returns a new Pending, Foreground Job with one empty Process
// attached, ready to be filled in by the parser. The Job is not added to the
// Table until Activate is called.
func (t *Table) Create(lineCap int) *Job {
	return newJob(t.NextID(), lineCap)
}

// Activate adds j to the active list. Builtin Jobs are never tracked.
func (t *Table) Activate(j *Job) {
	if j.mode == JobModeBuiltin {
		return
	}

	t.active.push(j)

	t.logger.Debug("activate job", "id", j.id, "job", j.key, "line", j.Line())
}

// Remove unlinks the active Job with the given id. It is a no-op if there is
// no such Job.
func (t *Table) Remove(id int) {
	if j := t.active.unlink(id); j != nil {
		t.logger.Debug("remove job", "id", id, "job", j.key)
	}
}

// Finish moves an unlinked Job to the finished list.
//
// Finishing a Job that is still linked means the Table's bookkeeping is
// broken, so Finish panics rather than returning an error.
func (t *Table) Finish(j *Job) {
	if j.list != nil {
		panic(fmt.Errorf(
			"finish job %d in %s list: %w",
			j.id,
			j.list.name,
			ErrJobStillLinked,
		))
	}

	t.finished.push(j)

	t.logger.Debug("finish job", "id", j.id, "job", j.key, "state", j.state)
}

// ReclaimFinished drops every finished Job and returns how many there were.
// Any descriptor a Process still holds is closed.
func (t *Table) ReclaimFinished() int {
	n := len(t.finished.jobs)

	for _, j := range t.finished.jobs {
		for _, p := range j.procs {
			if err := p.CloseFiles(); err != nil {
				t.logger.Warn("close process files", "job", j.key, "err", err)
			}
		}

		if t.current == j {
			t.current = nil
		}

		j.list = nil
	}

	t.finished.jobs = nil

	return n
}

// Active returns an iterator over active Jobs in the order they were added.
func (t *Table) Active() iter.Seq[*Job] {
	return slices.Values(t.active.jobs)
}

// Len returns the number of active Jobs.
func (t *Table) Len() int {
	return len(t.active.jobs)
}

// Finished returns the Jobs awaiting reclamation.
func (t *Table) Finished() []*Job {
	return slices.Clone(t.finished.jobs)
}

// Find returns the active Job with the given id or ErrJobNotFound if it
// doesn't exist.
func (t *Table) Find(id int) (*Job, error) {
	for _, j := range t.active.jobs {
		if j.id == id {
			return j, nil
		}
	}

	return nil, ErrJobNotFound
}

// FindByPid returns the active Job and unreaped Process with the given pid.
func (t *Table) FindByPid(pid int) (*Job, *Process) {
	for _, j := range t.active.jobs {
		for _, p := range j.procs {
			if p.Pid == pid && !p.Reaped {
				return j, p
			}
		}
	}

	return nil, nil
}

// Current returns the Job associated with the terminal, if any.
func (t *Table) Current() *Job {
	return t.current
}

// SetCurrent associates j with the terminal.
func (t *Table) SetCurrent(j *Job) {
	t.current = j
}
