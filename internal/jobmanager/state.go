package jobmanager

type JobState int

const (
	// JobStateUnknown indicates the state of the job is unknown. It's used as
	// the zero value for functions that return a (possibly absent) JobState.
	JobStateUnknown JobState = iota

	// JobStatePending indicates the job has been parsed but none of its
	// processes have been spawned yet.
	JobStatePending

	// JobStateRunning indicates at least one process of the job has been
	// spawned, in the foreground or the background.
	JobStateRunning

	// JobStateStopped indicates the job's process group received a stop
	// signal, e.g. Ctrl+Z or SIGTTIN from reading the terminal in the
	// background.
	JobStateStopped

	// JobStateDone indicates every process of the job has exited.
	JobStateDone

	// JobStateKilled indicates the job was terminated by SIGKILL or SIGTERM.
	JobStateKilled
)

// NOTE: This slice needs to be kept in sync with any changes to the JobState
// values. The labels are user-visible in `jobs` output and notices.
var jobStates = []string{
	"Unknown",
	"Pending",
	"Running",
	"Stopped",
	"Done",
	"Killed",
}

// String implements the Stringer interface for JobState and returns a string
// representation of the JobState by using the int value to index into a slice.
func (s JobState) String() string {
	if int(s) < 0 || int(s) >= len(jobStates) {
		return jobStates[0]
	}

	return jobStates[s]
}

// Finished reports whether s is a terminal state.
func (s JobState) Finished() bool {
	return s == JobStateDone || s == JobStateKilled
}

// canTransition reports whether a job may move from s to n.
func (s JobState) canTransition(n JobState) bool {
	switch s {
	case JobStatePending:
		// A job where no stage could be spawned goes straight to Done.
		return n == JobStateRunning || n == JobStateDone
	case JobStateRunning:
		return n == JobStateStopped || n == JobStateDone || n == JobStateKilled
	case JobStateStopped:
		return n == JobStateRunning || n == JobStateDone || n == JobStateKilled
	case JobStateKilled:
		return n == JobStateKilled
	}

	return false
}

// JobMode is how the job relates to the controlling terminal.
type JobMode int

const (
	JobModeForeground JobMode = iota
	JobModeBackground
	JobModeBuiltin
)

var jobModes = []string{
	"Foreground",
	"Background",
	"Builtin",
}

func (m JobMode) String() string {
	if int(m) < 0 || int(m) >= len(jobModes) {
		return "Unknown"
	}

	return jobModes[m]
}
