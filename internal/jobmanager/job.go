package jobmanager

import (
	"strings"

	"github.com/google/uuid"
)

// Job represents one submitted command line. It owns the Processes of its
// pipeline and tracks how many of them have not been reaped yet.
type Job struct {
	id  int
	key string

	pgid    int
	line    strings.Builder
	state   JobState
	mode    JobMode
	procs   []*Process
	pending int

	// list is the table list currently holding the job, nil when unlinked.
	list *jobList
}

// newJob creates a Pending, Foreground Job with one empty Process attached.
// The display line is preallocated to lineCap bytes.
func newJob(id int, lineCap int) *Job {
	j := &Job{
		id:    id,
		key:   uuid.NewString(),
		state: JobStatePending,
		mode:  JobModeForeground,
		procs: []*Process{{}},
	}

	j.line.Grow(lineCap)

	return j
}

// ID returns the ID of the Job.
func (j *Job) ID() int {
	return j.id
}

// Key returns a UUID unique to this Job for the lifetime of the program. IDs
// are reused, so log records use Key to tell Jobs apart.
func (j *Job) Key() string {
	return j.key
}

// Pgid returns the process group of the Job, or 0 if nothing has spawned.
func (j *Job) Pgid() int {
	return j.pgid
}

// SetPgid records the process group led by the first spawned process.
func (j *Job) SetPgid(pgid int) {
	j.pgid = pgid
}

// Line returns the display line reconstructed from the parsed tokens.
func (j *Job) Line() string {
	return j.line.String()
}

// AppendLine adds word to the display line, space separated.
func (j *Job) AppendLine(word string) {
	if j.line.Len() > 0 {
		j.line.WriteByte(' ')
	}

	j.line.WriteString(word)
}

// State returns the state of the Job.
func (j *Job) State() JobState {
	return j.state
}

// SetState moves the Job to s, or returns an InvalidStateError if the Job
// cannot go from its current state to s.
func (j *Job) SetState(s JobState) error {
	if !j.state.canTransition(s) {
		return NewInvalidStateError(j.state, s)
	}

	j.state = s

	return nil
}

// Mode returns the mode of the Job.
func (j *Job) Mode() JobMode {
	return j.mode
}

// SetMode sets the mode of the Job.
func (j *Job) SetMode(m JobMode) {
	j.mode = m
}

// Processes returns the pipeline of the Job in execution order.
func (j *Job) Processes() []*Process {
	return j.procs
}

// LastProcess returns the stage currently being filled in by the parser.
func (j *Job) LastProcess() *Process {
	return j.procs[len(j.procs)-1]
}

// AddProcess appends a new empty stage to the pipeline and returns it.
func (j *Job) AddProcess() *Process {
	p := &Process{}
	j.procs = append(j.procs, p)

	return p
}

// Pending returns the number of spawned processes not reaped yet.
func (j *Job) Pending() int {
	return j.pending
}

// ProcessStarted records that a process of the Job has been spawned.
func (j *Job) ProcessStarted() {
	j.pending++
}

// ProcessReaped marks p reaped and decrements the outstanding count.
func (j *Job) ProcessReaped(p *Process) {
	if p.Reaped {
		return
	}

	p.Reaped = true
	j.pending--
}

// Linked reports whether the Job is held by one of the table's lists.
func (j *Job) Linked() bool {
	return j.list != nil
}
