package vm

import "github.com/google/uuid"

// RunID identifies one Run call. A Registry and Program are often shared
// across concurrent runs, so every run-scoped log line and every error
// surfaced from a registry call carries its RunID to keep concurrent runs
// distinguishable.
type RunID string

func newRunID() RunID {
	return RunID(uuid.NewString())
}

func (id RunID) String() string { return string(id) }
