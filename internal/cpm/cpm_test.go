package cpm

import (
	"strings"
	"testing"

	"github.com/olealberto/msds-460-assignment-two/internal/network"
)

type act struct {
	id    string
	d     float64
	after []string
}

func buildTestNetwork(t *testing.T, acts ...act) *network.Network {
	t.Helper()
	def := network.Definition{Rates: []network.RateSpec{{Role: "pm", Rate: 10}}}
	for _, a := range acts {
		def.Activities = append(def.Activities, network.ActivitySpec{
			ID:           a.id,
			Durations:    map[network.Scenario]float64{network.Optimistic: a.d, network.Pessimistic: a.d, network.Expected: a.d},
			Roles:        []string{"pm"},
			Predecessors: a.after,
		})
	}
	n, err := network.New(def)
	if err != nil {
		t.Fatalf("build network: %v", err)
	}
	return n
}

func TestAnalyze_LinearChain(t *testing.T) {
	// A -> B -> C (each duration 1)
	n := buildTestNetwork(t,
		act{"a", 1, nil},
		act{"b", 1, []string{"a"}},
		act{"c", 1, []string{"b"}},
	)

	result := Analyze(n, network.Expected)

	if result.TotalDuration != 3 {
		t.Errorf("expected total duration 3, got %v", result.TotalDuration)
	}
	if len(result.CriticalPath) != 3 {
		t.Errorf("expected 3 activities on critical path, got %d: %v", len(result.CriticalPath), result.CriticalPath)
	}
	if len(result.Waves) != 3 {
		t.Errorf("expected 3 waves, got %d", len(result.Waves))
	}

	assertSchedule(t, result.Activities["a"], 0, 1, 0, 1, 0, true)
	assertSchedule(t, result.Activities["b"], 1, 2, 1, 2, 0, true)
	assertSchedule(t, result.Activities["c"], 2, 3, 2, 3, 0, true)
}

func TestAnalyze_WithSlack(t *testing.T) {
	// A(5) -> B(1) -> D(1)
	// A(5) -> C(10) -> D(1)
	// Critical path should be A -> C -> D (total 16)
	n := buildTestNetwork(t,
		act{"a", 5, nil},
		act{"b", 1, []string{"a"}},
		act{"c", 10, []string{"a"}},
		act{"d", 1, []string{"b", "c"}},
	)

	result := Analyze(n, network.Expected)

	if result.TotalDuration != 16 {
		t.Errorf("expected total duration 16, got %v", result.TotalDuration)
	}
	if result.Activities["b"].IsCritical {
		t.Error("expected activity B to NOT be critical")
	}
	if result.Activities["b"].Slack != 9 {
		t.Errorf("expected B slack=9, got %v", result.Activities["b"].Slack)
	}
	if got := strings.Join(result.CriticalPath, ","); got != "a,c,d" {
		t.Errorf("expected critical path a,c,d, got %s", got)
	}
}

func TestAnalyze_ParallelIndependent(t *testing.T) {
	n := buildTestNetwork(t,
		act{"a", 2, nil},
		act{"b", 3, nil},
		act{"c", 1, nil},
	)

	result := Analyze(n, network.Expected)

	if len(result.Waves) != 1 {
		t.Errorf("expected 1 wave, got %d", len(result.Waves))
	}
	if len(result.Waves[0].ActivityIDs) != 3 {
		t.Errorf("expected 3 activities in wave 0, got %d", len(result.Waves[0].ActivityIDs))
	}
	// Critical activity sorted first within its wave
	if result.Waves[0].ActivityIDs[0] != "b" {
		t.Errorf("expected critical activity b first, got %v", result.Waves[0].ActivityIDs)
	}
	if result.TotalDuration != 3 {
		t.Errorf("expected total duration 3, got %v", result.TotalDuration)
	}
}

func TestAnalyze_ZeroDurationMilestone(t *testing.T) {
	// a(4) -> gate(0) -> b(2)
	n := buildTestNetwork(t,
		act{"a", 4, nil},
		act{"gate", 0, []string{"a"}},
		act{"b", 2, []string{"gate"}},
	)

	result := Analyze(n, network.Expected)

	assertSchedule(t, result.Activities["gate"], 4, 4, 4, 4, 0, true)
	if result.TotalDuration != 6 {
		t.Errorf("expected total duration 6, got %v", result.TotalDuration)
	}
}

func TestAnalyze_Builtin(t *testing.T) {
	n := network.Builtin()

	want := map[network.Scenario]float64{
		network.Optimistic:  336,
		network.Pessimistic: 452,
		network.Expected:    390,
	}
	for sc, makespan := range want {
		result := Analyze(n, sc)
		if result.TotalDuration != makespan {
			t.Errorf("%s: expected makespan %v, got %v", sc, makespan, result.TotalDuration)
		}
	}

	result := Analyze(n, network.Expected)
	want2 := "Describe_product,requirement_analysis,software_design,system_design,coding,unit_test,system_test,package,pricing_plan,client_proposal"
	if got := strings.Join(result.CriticalPath, ","); got != want2 {
		t.Errorf("unexpected critical path:\n got %s\nwant %s", got, want2)
	}
	if result.Activities["market_survey"].IsCritical {
		t.Error("expected market_survey to have slack")
	}
}

func assertSchedule(t *testing.T, as *ActivitySchedule, es, ef, ls, lf, slack float64, critical bool) {
	t.Helper()
	if as.ES != es {
		t.Errorf("activity %s: expected ES=%v, got %v", as.ActivityID, es, as.ES)
	}
	if as.EF != ef {
		t.Errorf("activity %s: expected EF=%v, got %v", as.ActivityID, ef, as.EF)
	}
	if as.LS != ls {
		t.Errorf("activity %s: expected LS=%v, got %v", as.ActivityID, ls, as.LS)
	}
	if as.LF != lf {
		t.Errorf("activity %s: expected LF=%v, got %v", as.ActivityID, lf, as.LF)
	}
	if as.Slack != slack {
		t.Errorf("activity %s: expected slack=%v, got %v", as.ActivityID, slack, as.Slack)
	}
	if as.IsCritical != critical {
		t.Errorf("activity %s: expected critical=%v, got %v", as.ActivityID, critical, as.IsCritical)
	}
}
