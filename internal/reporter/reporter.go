package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/olealberto/msds-460-assignment-two/internal/cost"
	"github.com/olealberto/msds-460-assignment-two/internal/network"
	"github.com/olealberto/msds-460-assignment-two/internal/runner"
	"github.com/olealberto/msds-460-assignment-two/internal/ui"
)

// WriteText writes the plain report for one scenario: the critical path
// boundary lines, every solved variable, then the cost breakdown.
func WriteText(w io.Writer, res runner.Result) error {
	var b strings.Builder

	if s := res.Schedule; s != nil {
		zero := toSet(s.StartsAtZero)
		last := toSet(s.EndsAtMakespan)

		b.WriteString("Critical Path time:\n")
		for _, at := range s.Activities {
			if zero[at.ID] {
				fmt.Fprintf(&b, "%s starts at time 0\n", at.ID)
			}
			if last[at.ID] {
				fmt.Fprintf(&b, "%s ends at %s hours in duration\n", at.ID, pyFloat(at.End))
			}
		}

		b.WriteString("\nSolution variable values:\n")
		for _, v := range s.Variables {
			fmt.Fprintf(&b, "%s = %s\n", v.Name, pyFloat(v.Value))
		}
	} else {
		fmt.Fprintf(&b, "Could not solve %s scenario: %s\n", res.Scenario.Label(), res.Error)
	}

	if res.Cost != nil {
		writeCost(&b, res.Cost)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteCost writes only the cost breakdown of rec.
func WriteCost(w io.Writer, rec *cost.Record) error {
	var b strings.Builder
	writeCost(&b, rec)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeCost(b *strings.Builder, rec *cost.Record) {
	for _, l := range rec.Lines {
		fmt.Fprintf(b, "Cost for %s (%s hours): $%.2f\n", l.ActivityID, number(l.Duration), l.Cost)
	}
	fmt.Fprintf(b, "\nTotal project cost for %s scenario: $%.2f\n", rec.Scenario.Label(), rec.Total)
}

// WriteSummary writes a colored overview of every scenario result.
func WriteSummary(w io.Writer, name string, results []runner.Result) {
	fmt.Fprintf(w, "\n🎯 %s\n", ui.BoldCyan("Critical Path Summary"))
	fmt.Fprintf(w, "%s\n", ui.Cyan("═════════════════════"))
	fmt.Fprintf(w, "Network:   %s\n\n", ui.Dim(name))

	solved, failed := 0, 0
	for _, res := range results {
		if !res.Solved() {
			failed++
			fmt.Fprintf(w, "  %s %-12s %s\n", ui.StatusIcon("failed"), ui.ScenarioName(string(res.Scenario)), ui.Red(res.Error))
			if res.Cost != nil {
				fmt.Fprintf(w, "      %s %s\n", ui.Dim("cost:"), ui.Bold(money(res.Cost.Total)))
			}
			continue
		}
		solved++

		s := res.Schedule
		fmt.Fprintf(w, "  %s %-12s makespan %s  cost %s  %s\n",
			ui.StatusIcon("solved"),
			ui.ScenarioName(string(res.Scenario)),
			ui.Bold(number(s.Makespan)+"h"),
			ui.Bold(money(res.Cost.Total)),
			ui.Dim(fmt.Sprintf("[%s]", res.Elapsed.Truncate(time.Microsecond))))
		fmt.Fprintf(w, "      %s %s\n", ui.BoldYellow("⚡"), ui.Yellow(strings.Join(s.CriticalPath, " → ")))
	}

	fmt.Fprintf(w, "\n%s\n", ui.Cyan("─────────────────────"))
	fmt.Fprintf(w, "Totals:  %s  %s\n",
		ui.Green(fmt.Sprintf("%d solved", solved)),
		ui.Red(fmt.Sprintf("%d failed", failed)))
}

// JSON returns machine-readable results for every scenario.
func JSON(name string, results []runner.Result) ([]byte, error) {
	type output struct {
		Network   string          `json:"network"`
		Scenarios []runner.Result `json:"scenarios"`
	}
	return json.MarshalIndent(output{Network: name, Scenarios: results}, "", "  ")
}

// WriteNetwork lists the activities of n with their durations and roles.
func WriteNetwork(w io.Writer, n *network.Network) {
	fmt.Fprintf(w, "🔗 %s\n", ui.BoldCyan(n.Name()))
	fmt.Fprintf(w, "Activities: %s  Roles: %s  Edges: %s\n\n",
		ui.Bold(n.Len()), ui.Bold(len(n.RoleList())), ui.Bold(len(n.Edges())))
	for _, a := range n.Activities() {
		var d []string
		for _, sc := range network.Scenarios {
			d = append(d, number(a.Durations[sc]))
		}
		fmt.Fprintf(w, "  %-22s %-12s %s\n", a.ID, ui.Dim(strings.Join(d, "/")), strings.Join(a.Roles, ", "))
	}
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// pyFloat formats v the way the solver listing has always printed it:
// integral values keep a trailing ".0".
func pyFloat(v float64) string {
	if v == 0 {
		return "0.0"
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e16 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
