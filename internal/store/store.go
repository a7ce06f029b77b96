// Package store persists scenario runs.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/olealberto/msds-460-assignment-two/internal/runner"
)

var ErrNotFound = errors.New("store: run not found")

// Run is one persisted execution of the runner.
type Run struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Network   string          `json:"network"`
	Results   []runner.Result `json:"results"`
}

// Summary is the listing view of a Run.
type Summary struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Network   string    `json:"network"`
	Scenarios int       `json:"scenarios"`
	Failed    int       `json:"failed"`
}

// Store defines the contract for saving and retrieving runs.
type Store interface {
	Save(ctx context.Context, run *Run) error
	Get(ctx context.Context, id string) (*Run, error)
	List(ctx context.Context) ([]Summary, error) // newest first
	Delete(ctx context.Context, id string) error
}

// NewRun wraps results in a Run with a fresh ID.
func NewRun(network string, results []runner.Result) *Run {
	return &Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Network:   network,
		Results:   results,
	}
}

// Summarize returns the listing view of r.
func (r *Run) Summarize() Summary {
	s := Summary{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Network:   r.Network,
		Scenarios: len(r.Results),
	}
	for _, res := range r.Results {
		if !res.Solved() {
			s.Failed++
		}
	}
	return s
}

// ValidID reports whether id has the shape of a run ID. Only such IDs are
// ever used as file names or keys.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
