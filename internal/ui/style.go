package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Sprint color functions for building styled strings.
var (
	Bold       = color.New(color.Bold).SprintFunc()
	Dim        = color.New(color.Faint).SprintFunc()
	Cyan       = color.New(color.FgCyan).SprintFunc()
	Green      = color.New(color.FgGreen).SprintFunc()
	Red        = color.New(color.FgRed).SprintFunc()
	Yellow     = color.New(color.FgYellow).SprintFunc()
	BoldCyan   = color.New(color.Bold, color.FgCyan).SprintFunc()
	BoldGreen  = color.New(color.Bold, color.FgGreen).SprintFunc()
	BoldRed    = color.New(color.Bold, color.FgRed).SprintFunc()
	BoldYellow = color.New(color.Bold, color.FgYellow).SprintFunc()
	BoldWhite  = color.New(color.Bold, color.FgWhite).SprintFunc()
)

// scenarioColors gives each scenario a stable color in summaries.
var scenarioColors = map[string]func(a ...interface{}) string{
	"optimistic":  BoldGreen,
	"pessimistic": BoldRed,
	"expected":    BoldCyan,
}

// ScenarioName returns a colored scenario name.
func ScenarioName(name string) string {
	if c, ok := scenarioColors[name]; ok {
		return c(name)
	}
	return Bold(name)
}

// StatusIcon returns a colored status icon for a scenario outcome.
func StatusIcon(status string) string {
	switch status {
	case "solved":
		return Green("✓")
	case "failed":
		return Red("✗")
	case "running":
		return Cyan("●")
	default:
		return Dim("◌")
	}
}

// ActivityName returns id highlighted when it lies on the critical path.
func ActivityName(id string, critical bool) string {
	if critical {
		return BoldYellow(id)
	}
	return id
}

// Banner writes a one-line heading for the given network.
func Banner(w io.Writer, network string) {
	fmt.Fprintf(w, "%s %s\n", BoldWhite("critpath"), Dim("· "+network))
}
