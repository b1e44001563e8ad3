package shell_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/nixpig/jobsh/internal/jobmanager"
	"github.com/nixpig/jobsh/internal/shell"
	"golang.org/x/sys/unix"
)

type waitEvent struct {
	pid    int
	status unix.WaitStatus
	err    error
}

// fakeWaiter replays events. Once they run out it reports no change for
// non-blocking waits and no children for blocking ones.
type fakeWaiter struct {
	events  []waitEvent
	options []int
}

func (w *fakeWaiter) Wait(options int) (int, unix.WaitStatus, error) {
	w.options = append(w.options, options)

	if len(w.events) == 0 {
		if options&unix.WNOHANG != 0 {
			return 0, 0, nil
		}

		return -1, 0, unix.ECHILD
	}

	e := w.events[0]
	w.events = w.events[1:]

	return e.pid, e.status, e.err
}

func exited(code int) unix.WaitStatus {
	return unix.WaitStatus(code << 8)
}

func signaled(sig unix.Signal) unix.WaitStatus {
	return unix.WaitStatus(sig)
}

func stopped(sig unix.Signal) unix.WaitStatus {
	return unix.WaitStatus(int(sig)<<8 | 0x7f)
}

type sentSignal struct {
	pid int
	sig unix.Signal
}

type testShell struct {
	*shell.Shell
	table   *jobmanager.Table
	waiter  *fakeWaiter
	signals []sentSignal
	out     *bytes.Buffer
	errOut  *bytes.Buffer
}

func newFakeShell(t *testing.T, events ...waitEvent) *testShell {
	t.Helper()

	ts := &testShell{
		table:  jobmanager.NewTable(slog.New(slog.DiscardHandler)),
		waiter: &fakeWaiter{events: events},
		out:    &bytes.Buffer{},
		errOut: &bytes.Buffer{},
	}

	ts.Shell = shell.New(
		ts.table,
		slog.New(slog.DiscardHandler),
		shell.WithOutput(ts.out, ts.errOut),
		shell.WithWaiter(ts.waiter),
		shell.WithSignaller(func(pid int, sig unix.Signal) error {
			ts.signals = append(ts.signals, sentSignal{pid, sig})
			return nil
		}),
	)

	return ts
}

// addRunningJob puts a job into the table as if its pipeline had been
// spawned with the given pids.
func (ts *testShell) addRunningJob(
	t *testing.T,
	mode jobmanager.JobMode,
	line string,
	pids ...int,
) *jobmanager.Job {
	t.Helper()

	job := ts.table.Create(len(line))
	job.AppendLine(line)
	job.SetMode(mode)

	for i, pid := range pids {
		p := job.LastProcess()
		if i > 0 {
			p = job.AddProcess()
		}

		p.Path = "sleep"
		p.Pid = pid
		job.ProcessStarted()
	}

	job.SetPgid(pids[0])

	if err := job.SetState(jobmanager.JobStateRunning); err != nil {
		t.Fatalf("expected not to receive error: got '%v'", err)
	}

	ts.table.Activate(job)

	return job
}

func testOutcome(t *testing.T, got, want shell.Outcome) {
	t.Helper()

	if got != want {
		t.Errorf("expected outcome: got '%s', want '%s'", got, want)
	}
}

func testJobState(t *testing.T, job *jobmanager.Job, want jobmanager.JobState) {
	t.Helper()

	if got := job.State(); got != want {
		t.Errorf("expected state: got '%s', want '%s'", got, want)
	}
}

func testOutput(t *testing.T, got *bytes.Buffer, want string) {
	t.Helper()

	if got.String() != want {
		t.Errorf("expected output: got '%s', want '%s'", got.String(), want)
	}
}

func TestOutcomeLabels(t *testing.T) {
	if got := shell.OutcomeStopped.String(); got != "Stopped" {
		t.Errorf("expected label: got '%s', want '%s'", got, "Stopped")
	}

	if got := shell.Outcome(-1).String(); got != "Unknown" {
		t.Errorf("expected label: got '%s', want '%s'", got, "Unknown")
	}
}

func TestDispatch(t *testing.T) {
	t.Run("Test background announcement", func(t *testing.T) {
		ts := newFakeShell(t)
		job := ts.addRunningJob(t, jobmanager.JobModeBackground, "sleep 5 &", 40)
		ts.table.SetCurrent(job)

		testOutcome(t, ts.Dispatch(shell.OutcomeBackground), shell.OutcomeBackground)
		testOutput(t, ts.out, "[1] 40 sleep 5 &\n")
	})

	t.Run("Test foreground is waited for", func(t *testing.T) {
		ts := newFakeShell(t, waitEvent{pid: 40, status: exited(0)})
		job := ts.addRunningJob(t, jobmanager.JobModeForeground, "sleep 5", 40)
		ts.table.SetCurrent(job)

		testOutcome(t, ts.Dispatch(shell.OutcomeForeground), shell.OutcomeDone)
		testJobState(t, job, jobmanager.JobStateDone)
	})

	t.Run("Test nothing current", func(t *testing.T) {
		ts := newFakeShell(t)

		testOutcome(t, ts.Dispatch(shell.OutcomeForeground), shell.OutcomeNone)
	})
}

func TestReport(t *testing.T) {
	ts := newFakeShell(t)

	ts.Reportf("parse: %s", "boom")

	if !strings.Contains(ts.errOut.String(), "jobsh: parse: boom") {
		t.Errorf("expected diagnostic: got '%s'", ts.errOut.String())
	}
}
