package domain

import "time"

// RunStatus is the lifecycle state of a collection run.
type RunStatus string

// Run lifecycle states. A run moves Idle -> Running and terminates in
// Completed or Failed; a terminate request moves Running -> Cancelling
// before the run settles in Completed.
const (
	RunIdle       RunStatus = "idle"
	RunRunning    RunStatus = "running"
	RunCancelling RunStatus = "cancelling"
	RunCompleted  RunStatus = "completed"
	RunFailed     RunStatus = "failed"
)

// Terminal reports whether the status is an end state.
func (s RunStatus) Terminal() bool {
	return s == RunCompleted || s == RunFailed
}

// Progress describes how far a run has advanced. Determinate progress
// carries a completion fraction; indeterminate progress only signals
// that work is still happening (page-by-page pagination with no known
// total).
type Progress struct {
	// Determinate is true when Fraction is meaningful.
	Determinate bool

	// Fraction is the completed share of the run, in [0, 1].
	Fraction float64
}

// CombinationOutcome records the result of one (term, type) combination
// within a run. Failures are isolated per combination: a failed
// combination carries its error message here while siblings proceed.
type CombinationOutcome struct {
	// Query is the combination.
	Query Query

	// Records is the number of records collected.
	Records int

	// Err is the failure message, empty on success.
	Err string
}

// Failed reports whether the combination ended in error.
func (c CombinationOutcome) Failed() bool {
	return c.Err != ""
}

// RunState is a point-in-time snapshot of one collection run. It is
// owned by a single runner instance and exposed to callers by value so
// polling never observes partial mutation.
type RunState struct {
	// RunID uniquely identifies the run.
	RunID string

	// Repository is the repository being collected from.
	Repository string

	// Status is the current lifecycle state.
	Status RunStatus

	// Progress is the current progress indication.
	Progress Progress

	// LastMessage is the most recent status-bar style message.
	LastMessage string

	// Outcomes lists per-combination results, in combination order.
	// Populated as combinations complete.
	Outcomes []CombinationOutcome

	// StartedAt is when the run entered Running.
	StartedAt time.Time

	// EndedAt is when the run reached a terminal status.
	EndedAt time.Time
}

// RecordsCollected sums the records across all completed combinations.
func (s *RunState) RecordsCollected() int {
	total := 0
	for _, outcome := range s.Outcomes {
		total += outcome.Records
	}
	return total
}

// FailureCount counts the combinations that ended in error.
func (s *RunState) FailureCount() int {
	failed := 0
	for _, outcome := range s.Outcomes {
		if outcome.Failed() {
			failed++
		}
	}
	return failed
}

// RunRecord is the persisted summary of a finished run, kept in the
// run-history store.
type RunRecord struct {
	// ID is the run identifier (UUID).
	ID string

	// Repository is the repository collected from.
	Repository string

	// Terms and Types are the search parameters the run was configured with.
	Terms []string
	Types []string

	// Status is the terminal status of the run.
	Status RunStatus

	// Records is the total record count across combinations.
	Records int

	// Failures is the number of failed combinations.
	Failures int

	// Message is the final status message.
	Message string

	// StartedAt and EndedAt bound the run.
	StartedAt time.Time
	EndedAt   time.Time
}
