package cpm

import (
	"math"
	"sort"

	"github.com/olealberto/msds-460-assignment-two/internal/network"
)

// Analyze performs critical path method analysis on the network under the
// given scenario.
func Analyze(n *network.Network, sc network.Scenario) *Result {
	order := n.TopoOrder()

	result := &Result{
		Scenario:   sc,
		Activities: make(map[string]*ActivitySchedule, len(order)),
		TopoOrder:  order,
	}

	for _, id := range order {
		result.Activities[id] = &ActivitySchedule{ActivityID: id, Duration: n.Duration(id, sc)}
	}

	// Forward pass: compute ES and EF
	for _, id := range order {
		as := result.Activities[id]
		es := 0.0
		for _, pred := range n.Predecessors(id) {
			es = math.Max(es, result.Activities[pred].EF)
		}
		as.ES = es
		as.EF = es + as.Duration
	}

	total := 0.0
	for _, as := range result.Activities {
		total = math.Max(total, as.EF)
	}
	result.TotalDuration = total

	// Backward pass in reverse topological order; sinks finish at the
	// project end.
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		as := result.Activities[id]

		lf := total
		for _, succ := range n.Successors(id) {
			lf = math.Min(lf, result.Activities[succ].LS)
		}
		as.LF = lf
		as.LS = lf - as.Duration

		as.Slack = as.LS - as.ES
		if math.Abs(as.Slack) <= Tolerance {
			as.Slack = 0
		}
		as.IsCritical = as.Slack == 0
	}

	for _, id := range order {
		if result.Activities[id].IsCritical {
			result.CriticalPath = append(result.CriticalPath, id)
		}
	}

	result.Waves = computeWaves(result)

	return result
}

// computeWaves groups activities by their earliest start time.
func computeWaves(result *Result) []Wave {
	var starts []float64
	groups := make(map[float64][]string)
	for _, id := range result.TopoOrder {
		es := result.Activities[id].ES
		if _, ok := groups[es]; !ok {
			starts = append(starts, es)
		}
		groups[es] = append(groups[es], id)
	}
	sort.Float64s(starts)

	waves := make([]Wave, len(starts))
	for i, es := range starts {
		ids := groups[es]

		hasCritical := false
		for _, id := range ids {
			result.Activities[id].Wave = i
			if result.Activities[id].IsCritical {
				hasCritical = true
			}
		}

		// Critical activities first within a wave
		sort.SliceStable(ids, func(a, b int) bool {
			return result.Activities[ids[a]].IsCritical && !result.Activities[ids[b]].IsCritical
		})

		waves[i] = Wave{
			Index:       i,
			ActivityIDs: ids,
			Start:       es,
			IsCritical:  hasCritical,
		}
	}

	return waves
}
