package cpm

import "github.com/olealberto/msds-460-assignment-two/internal/network"

// Tolerance is the absolute slack below which an activity counts as critical.
const Tolerance = 1e-9

// Result holds the complete critical path analysis for one scenario.
type Result struct {
	Scenario      network.Scenario
	Activities    map[string]*ActivitySchedule
	CriticalPath  []string // ordered activity IDs on critical path
	TotalDuration float64
	Waves         []Wave // activities sharing an earliest start
	TopoOrder     []string
}

// ActivitySchedule holds the scheduling info for a single activity.
type ActivitySchedule struct {
	ActivityID string
	Duration   float64
	ES, EF     float64 // earliest start/finish
	LS, LF     float64 // latest start/finish
	Slack      float64
	IsCritical bool
	Wave       int
}

// Wave represents a group of activities that can run in parallel.
type Wave struct {
	Index       int
	ActivityIDs []string
	Start       float64
	IsCritical  bool // true if wave contains critical path activities
}
