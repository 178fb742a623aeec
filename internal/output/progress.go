package output

import (
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
)

// ConsoleProgress renders harvest progress as a terminal progress bar. It
// satisfies the harvest loop's reporter contract. One reporter is reused
// across runs; each Start owns a fresh writer and tracker, so a finished
// run leaves nothing rendering.
type ConsoleProgress struct {
	out     io.Writer
	writer  progress.Writer
	tracker *progress.Tracker
}

// NewConsoleProgress creates a console progress reporter.
func NewConsoleProgress() *ConsoleProgress {
	return &ConsoleProgress{out: os.Stdout}
}

// Start begins a bar for one harvest run.
func (p *ConsoleProgress) Start(total int) {
	writer := progress.NewWriter()
	writer.SetOutputWriter(p.out)
	writer.SetTrackerLength(40)
	writer.SetUpdateFrequency(250 * time.Millisecond)
	writer.Style().Visibility.ETA = true
	writer.Style().Visibility.Speed = true

	p.writer = writer
	p.tracker = &progress.Tracker{
		Message: "harvesting matches",
		Total:   int64(total),
		Units:   progress.UnitsDefault,
	}

	writer.AppendTracker(p.tracker)
	go writer.Render()
}

// Increment advances the bar by one completed task.
func (p *ConsoleProgress) Increment() {
	if p.tracker != nil {
		p.tracker.Increment(1)
	}
}

// Done completes the bar and stops rendering.
func (p *ConsoleProgress) Done() {
	if p.tracker != nil {
		p.tracker.MarkAsDone()
	}
	if p.writer != nil {
		p.writer.Stop()
	}
}
