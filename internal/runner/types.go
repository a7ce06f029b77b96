package runner

import (
	"log/slog"
	"time"

	"github.com/olealberto/msds-460-assignment-two/internal/cost"
	"github.com/olealberto/msds-460-assignment-two/internal/network"
	"github.com/olealberto/msds-460-assignment-two/internal/solver"
)

// Config holds runner configuration.
type Config struct {
	Parallel    bool
	MaxParallel int          // concurrent solves when Parallel is set (default: one per scenario)
	Logger      *slog.Logger // default: slog.Default()
}

// Status is the outcome of one scenario.
type Status string

const (
	StatusSolved Status = "solved"
	StatusFailed Status = "failed"
)

// Result is everything computed for one scenario. Schedule is nil when the
// solve failed; Cost is always present because it does not depend on the LP.
type Result struct {
	Scenario network.Scenario `json:"scenario"`
	Status   Status           `json:"status"`
	Schedule *solver.Schedule `json:"schedule,omitempty"`
	Cost     *cost.Record     `json:"cost"`
	Error    string           `json:"error,omitempty"`
	Elapsed  time.Duration    `json:"elapsed_ns"`

	Err error `json:"-"`
}

// Solved reports whether the scenario produced a schedule.
func (r Result) Solved() bool { return r.Status == StatusSolved }
