package harvest

// Reporter receives incremental completion counts during a run. Progress is
// an observable side effect only; it never influences the returned result.
type Reporter interface {
	// Start announces the total task count before the first attempt.
	Start(total int)
	// Increment records one completed first-pass task.
	Increment()
	// Done marks the end of the run, including the retry pass.
	Done()
}

// NoopReporter discards all progress events.
type NoopReporter struct{}

// Start does nothing.
func (NoopReporter) Start(total int) {}

// Increment does nothing.
func (NoopReporter) Increment() {}

// Done does nothing.
func (NoopReporter) Done() {}
