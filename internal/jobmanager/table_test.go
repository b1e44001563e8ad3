package jobmanager_test

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/nixpig/jobsh/internal/jobmanager"
)

func activeIDs(table *jobmanager.Table) []int {
	var ids []int
	for j := range table.Active() {
		ids = append(ids, j.ID())
	}

	return ids
}

func TestTable(t *testing.T) {
	t.Run("Test ids on empty table", func(t *testing.T) {
		table := newTestTable(t)

		if id := table.NextID(); id != 1 {
			t.Errorf("expected id: got '%d', want '%d'", id, 1)
		}
	})

	t.Run("Test ids are max plus one", func(t *testing.T) {
		table := newTestTable(t)

		first := table.Create(0)
		table.Activate(first)

		second := table.Create(0)
		table.Activate(second)

		if second.ID() != 2 {
			t.Errorf("expected id: got '%d', want '%d'", second.ID(), 2)
		}

		table.Remove(first.ID())

		if id := table.NextID(); id != 3 {
			t.Errorf("expected id: got '%d', want '%d'", id, 3)
		}

		table.Remove(second.ID())

		if id := table.NextID(); id != 1 {
			t.Errorf("expected reused id: got '%d', want '%d'", id, 1)
		}
	})

	t.Run("Test next id never collides with active ids", func(t *testing.T) {
		table := newTestTable(t)
		rng := rand.New(rand.NewPCG(1, 2))

		for range 500 {
			if rng.IntN(3) > 0 || table.Len() == 0 {
				table.Activate(table.Create(0))
			} else {
				ids := activeIDs(table)
				table.Remove(ids[rng.IntN(len(ids))])
			}

			if slices.Contains(activeIDs(table), table.NextID()) {
				t.Fatalf(
					"expected next id not to be active: got '%d' in '%v'",
					table.NextID(),
					activeIDs(table),
				)
			}
		}
	})

	t.Run("Test builtin jobs are never activated", func(t *testing.T) {
		table := newTestTable(t)

		job := table.Create(0)
		job.SetMode(jobmanager.JobModeBuiltin)
		table.Activate(job)

		if table.Len() != 0 {
			t.Errorf("expected no active jobs: got '%d'", table.Len())
		}
	})

	t.Run("Test active jobs in insertion order", func(t *testing.T) {
		table := newTestTable(t)

		for range 3 {
			table.Activate(table.Create(0))
		}

		if got := activeIDs(table); !slices.Equal(got, []int{1, 2, 3}) {
			t.Errorf("expected ids: got '%v', want '%v'", got, []int{1, 2, 3})
		}
	})

	t.Run("Test remove absent job is a no-op", func(t *testing.T) {
		table := newTestTable(t)
		table.Activate(table.Create(0))

		table.Remove(42)

		if table.Len() != 1 {
			t.Errorf("expected active jobs: got '%d', want '%d'", table.Len(), 1)
		}
	})

	t.Run("Test find", func(t *testing.T) {
		table := newTestTable(t)

		job := table.Create(0)
		table.Activate(job)

		got, err := table.Find(job.ID())
		if err != nil {
			t.Errorf("expected not to receive error: got '%v'", err)
		}

		if got != job {
			t.Errorf("expected to find job '%d'", job.ID())
		}

		if _, err := table.Find(99); !errors.Is(err, jobmanager.ErrJobNotFound) {
			t.Errorf("expected to receive ErrJobNotFound: got '%v'", err)
		}
	})

	t.Run("Test find by pid skips reaped processes", func(t *testing.T) {
		table := newTestTable(t)

		job := table.Create(0)
		job.Processes()[0].Pid = 1234
		table.Activate(job)

		if got, p := table.FindByPid(1234); got != job || p == nil {
			t.Errorf("expected to find owner of pid '%d'", 1234)
		}

		job.ProcessReaped(job.Processes()[0])

		if got, _ := table.FindByPid(1234); got != nil {
			t.Errorf("expected reaped pid not to match: got job '%d'", got.ID())
		}
	})

	t.Run("Test finish and reclaim", func(t *testing.T) {
		table := newTestTable(t)

		job := table.Create(0)
		table.Activate(job)
		table.SetCurrent(job)

		table.Remove(job.ID())
		table.Finish(job)

		if table.Len() != 0 {
			t.Errorf("expected no active jobs: got '%d'", table.Len())
		}

		if len(table.Finished()) != 1 {
			t.Errorf(
				"expected finished jobs: got '%d', want '%d'",
				len(table.Finished()),
				1,
			)
		}

		if n := table.ReclaimFinished(); n != 1 {
			t.Errorf("expected reclaimed jobs: got '%d', want '%d'", n, 1)
		}

		if len(table.Finished()) != 0 {
			t.Errorf("expected no finished jobs: got '%d'", len(table.Finished()))
		}

		if table.Current() != nil {
			t.Errorf("expected current job to be cleared")
		}
	})

	t.Run("Test finishing a linked job panics", func(t *testing.T) {
		table := newTestTable(t)

		job := table.Create(0)
		table.Activate(job)

		defer func() {
			r := recover()
			if r == nil {
				t.Fatalf("expected finish of linked job to panic")
			}

			err, ok := r.(error)
			if !ok || !errors.Is(err, jobmanager.ErrJobStillLinked) {
				t.Errorf("expected ErrJobStillLinked: got '%v'", r)
			}
		}()

		table.Finish(job)
	})
}
