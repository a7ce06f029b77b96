package network

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfig marks a malformed activity network. It is fatal for every
	// scenario and is reported before any solve is attempted.
	ErrConfig = errors.New("invalid activity network")
	// ErrCycle is returned (wrapped together with ErrConfig) when the
	// precedence graph is not acyclic.
	ErrCycle = errors.New("precedence cycle detected")
)

// Scenario selects which duration table is used for every activity.
type Scenario string

const (
	Optimistic  Scenario = "optimistic"
	Pessimistic Scenario = "pessimistic"
	Expected    Scenario = "expected"
)

// Scenarios lists every scenario in reporting order.
var Scenarios = []Scenario{Optimistic, Pessimistic, Expected}

// Label returns the name used in the cost report ("best case", "worst case",
// "expected").
func (s Scenario) Label() string {
	switch s {
	case Optimistic:
		return "best case"
	case Pessimistic:
		return "worst case"
	default:
		return string(s)
	}
}

// Valid reports whether s is one of the three scenarios.
func (s Scenario) Valid() bool {
	return s == Optimistic || s == Pessimistic || s == Expected
}

// ParseScenario accepts a scenario name or one of its aliases.
func ParseScenario(s string) (Scenario, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "optimistic", "best", "best-case", "best_case":
		return Optimistic, nil
	case "pessimistic", "worst", "worst-case", "worst_case":
		return Pessimistic, nil
	case "expected":
		return Expected, nil
	}
	return "", fmt.Errorf("unknown scenario %q (use optimistic, pessimistic or expected)", s)
}

// ActivitySpec is the raw, unvalidated description of an activity.
type ActivitySpec struct {
	ID           string
	Durations    map[Scenario]float64
	Roles        []string
	Predecessors []string
}

// RateSpec is the raw hourly rate of a role.
type RateSpec struct {
	Role string
	Rate float64
}

// Definition is the static problem definition handed to New.
// Activity declaration order is the order of Activities.
type Definition struct {
	Name       string
	Activities []ActivitySpec
	Rates      []RateSpec
}

// Activity is a validated unit of project work.
type Activity struct {
	ID           string               `json:"id"`
	Durations    map[Scenario]float64 `json:"durations"`
	Roles        []string             `json:"roles"`
	Predecessors []string             `json:"predecessors"`
	Successors   []string             `json:"successors,omitempty"`
}

// Role is a labor category with an hourly billing rate.
type Role struct {
	ID   string  `json:"id"`
	Rate float64 `json:"rate"`
}

// Edge is a precedence constraint: To cannot start before From finishes.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}
