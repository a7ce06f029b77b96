// Package cost computes labor cost from declared durations, role sets and
// hourly rates. It never looks at a solved schedule.
package cost

import "github.com/olealberto/msds-460-assignment-two/internal/network"

// Record is the labor cost of one scenario.
type Record struct {
	Scenario network.Scenario `json:"scenario"`
	Lines    []Line           `json:"lines"` // declaration order
	ByRole   []RoleTotal      `json:"by_role"`
	Total    float64          `json:"total"`
}

// Line is the cost of one activity.
type Line struct {
	ActivityID   string      `json:"activity"`
	Duration     float64     `json:"duration"`
	HoursPerRole float64     `json:"hours_per_role"`
	Shares       []RoleShare `json:"shares"`
	Cost         float64     `json:"cost"`
}

// RoleShare is one role's slice of an activity.
type RoleShare struct {
	Role  string  `json:"role"`
	Hours float64 `json:"hours"`
	Rate  float64 `json:"rate"`
	Cost  float64 `json:"cost"`
}

// RoleTotal sums a role's hours and cost across the project.
type RoleTotal struct {
	Role  string  `json:"role"`
	Hours float64 `json:"hours"`
	Cost  float64 `json:"cost"`
}

// Calculate splits every activity's duration evenly across its required roles
// and prices each share at the role's hourly rate.
func Calculate(n *network.Network, sc network.Scenario) *Record {
	rec := &Record{Scenario: sc}
	byRole := make(map[string]*RoleTotal)

	for _, a := range n.Activities() {
		d := a.Durations[sc]
		line := Line{
			ActivityID:   a.ID,
			Duration:     d,
			HoursPerRole: d / float64(len(a.Roles)),
		}
		for _, role := range a.Roles {
			rate := n.Rate(role)
			share := RoleShare{Role: role, Hours: line.HoursPerRole, Rate: rate, Cost: line.HoursPerRole * rate}
			line.Shares = append(line.Shares, share)
			line.Cost += share.Cost

			rt, ok := byRole[role]
			if !ok {
				rt = &RoleTotal{Role: role}
				byRole[role] = rt
			}
			rt.Hours += share.Hours
			rt.Cost += share.Cost
		}
		rec.Lines = append(rec.Lines, line)
		rec.Total += line.Cost
	}

	for _, r := range n.RoleList() {
		if rt, ok := byRole[r.ID]; ok {
			rec.ByRole = append(rec.ByRole, *rt)
		}
	}

	return rec
}

// Line returns the cost line of activity id.
func (r *Record) Line(id string) (Line, bool) {
	for _, l := range r.Lines {
		if l.ActivityID == id {
			return l, true
		}
	}
	return Line{}, false
}
