package app

import (
	"strings"
	"time"
)

// Operation identifies one invocation of the binary. Its ID is written into
// every log line so that the lines of one run can be grepped together.
type Operation struct {
	ID        string
	Name      string
	StartedAt time.Time
}

// NewOperation creates an operation named name starting at now.
// The ID is the UTC start time followed by the lower-cased name.
func NewOperation(name string, now time.Time) *Operation {
	now = now.UTC()
	id := now.Format("20060102T150405Z")
	if name != "" {
		id += "-" + strings.ToLower(name)
	}
	return &Operation{ID: id, Name: name, StartedAt: now}
}

// Elapsed returns the time since the operation started.
func (op *Operation) Elapsed(now time.Time) time.Duration {
	return now.Sub(op.StartedAt)
}
