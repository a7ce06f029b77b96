package solver

import "github.com/olealberto/msds-460-assignment-two/internal/network"

// Schedule is the verified optimum for one scenario.
type Schedule struct {
	Scenario       network.Scenario `json:"scenario"`
	Activities     []ActivityTimes  `json:"activities"` // declaration order
	Makespan       float64          `json:"makespan"`
	Objective      float64          `json:"objective"` // sum of end times
	StartsAtZero   []string         `json:"starts_at_zero"`
	EndsAtMakespan []string         `json:"ends_at_makespan"`
	CriticalPath   []string         `json:"critical_path"` // zero slack, topological order
	Assignments    []Assignment     `json:"assignments"`
	Variables      []Variable       `json:"variables"` // sorted by name

	index map[string]int
}

// ActivityTimes is the solved window of one activity.
type ActivityTimes struct {
	ID       string  `json:"id"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Duration float64 `json:"duration"`
	Slack    float64 `json:"slack"`
	Critical bool    `json:"critical"`
}

// Assignment is a certified (activity, role) worker indicator.
type Assignment struct {
	Activity string `json:"activity"`
	Role     string `json:"role"`
	Assigned bool   `json:"assigned"`
}

// Variable is a named model column and its solved value.
type Variable struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Times returns the solved window of activity id.
func (s *Schedule) Times(id string) (ActivityTimes, bool) {
	if s.index == nil {
		for _, at := range s.Activities {
			if at.ID == id {
				return at, true
			}
		}
		return ActivityTimes{}, false
	}
	i, ok := s.index[id]
	if !ok {
		return ActivityTimes{}, false
	}
	return s.Activities[i], true
}
