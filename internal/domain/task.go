package domain

// TaskState tracks a harvest task through the two-pass lifecycle.
type TaskState int

const (
	// TaskPending means the task has not been attempted yet.
	TaskPending TaskState = iota

	// TaskInFlight means a worker currently owns the task.
	TaskInFlight

	// TaskSucceeded means a record was produced.
	TaskSucceeded

	// TaskFailedFirstAttempt means the first pass failed; the task is
	// eligible for exactly one sequential retry.
	TaskFailedFirstAttempt

	// TaskFailedFinal means both attempts failed.
	TaskFailedFinal
)

// String returns the string representation of a task state.
func (s TaskState) String() string {
	switch s {
	case TaskPending:
		return "pending"
	case TaskInFlight:
		return "in_flight"
	case TaskSucceeded:
		return "succeeded"
	case TaskFailedFirstAttempt:
		return "failed_first_attempt"
	case TaskFailedFinal:
		return "failed_final"
	default:
		return "unknown"
	}
}

// Task is one page to fetch and assemble.
type Task struct {
	Identity Identity
	URL      string
}

// RawRecord maps canonical field keys to raw string values exactly as they
// appear on the page, before normalization. A key is present only if it was
// found; absence is distinct from present-but-empty.
type RawRecord map[string]string

// FieldMap maps a source-language label to a canonical field key. Defined
// once per target site and never mutated.
type FieldMap map[string]string
