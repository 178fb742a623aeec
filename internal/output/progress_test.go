package output

import (
	"io"
	"testing"
)

// The collect entry point drives one reporter through several runs in a
// row, so Start after Done must begin a clean bar on a live writer.
func TestConsoleProgressReuse(t *testing.T) {
	reporter := NewConsoleProgress()
	reporter.out = io.Discard

	for run := 0; run < 3; run++ {
		reporter.Start(2)

		previous := reporter.writer

		reporter.Increment()
		reporter.Increment()
		reporter.Done()

		if reporter.tracker.Value() != 2 {
			t.Fatalf("run %d: tracker value = %d, want 2", run, reporter.tracker.Value())
		}
		if !reporter.tracker.IsDone() {
			t.Fatalf("run %d: tracker not marked done", run)
		}
		if previous != reporter.writer {
			t.Fatalf("run %d: writer replaced mid-run", run)
		}
	}
}

func TestConsoleProgressFreshWriterPerRun(t *testing.T) {
	reporter := NewConsoleProgress()
	reporter.out = io.Discard

	reporter.Start(1)
	first := reporter.writer
	reporter.Increment()
	reporter.Done()

	reporter.Start(1)
	defer reporter.Done()

	if reporter.writer == first {
		t.Fatal("a new run must not reuse the stopped writer")
	}
	if reporter.tracker.Value() != 0 {
		t.Fatalf("new run's tracker started at %d, want 0", reporter.tracker.Value())
	}
}
