package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/olealberto/msds-460-assignment-two/internal/cpm"
	"github.com/olealberto/msds-460-assignment-two/internal/network"
	"github.com/olealberto/msds-460-assignment-two/internal/ui"
)

// WriteDOT renders the precedence graph in Graphviz format with critical
// activities and edges drawn in red.
func WriteDOT(w io.Writer, n *network.Network, result *cpm.Result) error {
	critical := func(id string) bool {
		as, ok := result.Activities[id]
		return ok && as.IsCritical
	}

	lines := []string{
		"digraph critpath {",
		"  rankdir=LR;",
		"  node [shape=box, style=rounded];",
		"",
	}
	for _, a := range n.Activities() {
		as := result.Activities[a.ID]
		label := fmt.Sprintf("%s\\n%sh (ES %s, slack %s)", a.ID, number(as.Duration), number(as.ES), number(as.Slack))
		attrs := fmt.Sprintf(`label="%s"`, label)
		if critical(a.ID) {
			attrs += `, style="rounded,bold", color=red`
		}
		lines = append(lines, fmt.Sprintf("  %q [%s];", a.ID, attrs))
	}
	lines = append(lines, "")
	for _, e := range n.Edges() {
		style := ""
		if critical(e.From) && critical(e.To) {
			style = " [color=red, penwidth=2]"
		}
		lines = append(lines, fmt.Sprintf("  %q -> %q%s;", e.From, e.To, style))
	}
	lines = append(lines, "}")

	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

// WriteASCII prints activities grouped into waves of equal earliest start,
// each followed by the activities it unblocks.
func WriteASCII(w io.Writer, n *network.Network, result *cpm.Result) {
	fmt.Fprintf(w, "🔗 %s %s\n", ui.BoldCyan("Activity Graph"), ui.Dim("("+result.Scenario.Label()+")"))
	fmt.Fprintln(w, ui.Cyan("════════════════════"))
	fmt.Fprintln(w)

	for _, wave := range result.Waves {
		fmt.Fprintf(w, "%s 🌊 Wave %d at %sh %s\n",
			ui.Cyan("──"), wave.Index+1, number(wave.Start), ui.Cyan("──────────────────────────"))
		for _, id := range wave.ActivityIDs {
			as := result.Activities[id]
			crit := " "
			if as.IsCritical {
				crit = ui.BoldYellow("⚡")
			}
			fmt.Fprintf(w, "  %s [%s] %sh\n", crit, ui.ActivityName(id, as.IsCritical), number(as.Duration))
			for _, next := range n.Successors(id) {
				fmt.Fprintf(w, "      %s %s\n", ui.Dim("└──→"), next)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Critical path (%sh): %s\n", number(result.TotalDuration), ui.BoldYellow(strings.Join(result.CriticalPath, " → ")))
}
