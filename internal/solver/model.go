package solver

import (
	"fmt"
	"strings"

	"github.com/olealberto/msds-460-assignment-two/internal/network"
)

// Kind is the domain of a model column.
type Kind int

const (
	Continuous Kind = iota // non-negative real
	Binary
)

// Op is the relation of a constraint row.
type Op int

const (
	EQ Op = iota
	GE
	LE
)

func (o Op) String() string {
	switch o {
	case GE:
		return ">="
	case LE:
		return "<="
	default:
		return "="
	}
}

// Column is a decision variable.
type Column struct {
	Name string
	Kind Kind
}

// Term is one coefficient of a constraint row.
type Term struct {
	Col  int
	Coef float64
}

// Row is a named linear constraint: sum(terms) op RHS.
type Row struct {
	Name  string
	Terms []Term
	Op    Op
	RHS   float64
}

type assignKey struct {
	activity, role string
}

// Model is the linear program for one network under one scenario. It is
// built fresh per scenario and shares nothing with other models.
type Model struct {
	Network   *network.Network
	Scenario  network.Scenario
	Columns   []Column
	Rows      []Row
	Objective []float64 // minimized

	start    map[string]int
	end      map[string]int
	assigned map[assignKey]int
}

// Build constructs the scheduling model:
//
//	end(a) - start(a) = duration(a)      for every activity
//	start(a) - end(p) >= 0               for every edge p -> a
//	assigned(a, r) = 1                   for every required role
//	minimize sum end(a)
func Build(n *network.Network, sc network.Scenario) *Model {
	m := &Model{
		Network:  n,
		Scenario: sc,
		start:    make(map[string]int, n.Len()),
		end:      make(map[string]int, n.Len()),
		assigned: make(map[assignKey]int),
	}

	for _, a := range n.Activities() {
		m.start[a.ID] = m.addColumn("start_"+a.ID, Continuous)
		m.end[a.ID] = m.addColumn("end_"+a.ID, Continuous)
	}
	for _, a := range n.Activities() {
		for _, role := range a.Roles {
			m.assigned[assignKey{a.ID, role}] = m.addColumn(fmt.Sprintf("assigned_%s_%s", a.ID, role), Binary)
		}
	}

	for _, a := range n.Activities() {
		m.Rows = append(m.Rows, Row{
			Name:  a.ID + "_duration",
			Terms: []Term{{Col: m.end[a.ID], Coef: 1}, {Col: m.start[a.ID], Coef: -1}},
			Op:    EQ,
			RHS:   a.Durations[sc],
		})
		for _, p := range a.Predecessors {
			m.Rows = append(m.Rows, Row{
				Name:  fmt.Sprintf("%s_predecessor_%s", a.ID, p),
				Terms: []Term{{Col: m.start[a.ID], Coef: 1}, {Col: m.end[p], Coef: -1}},
				Op:    GE,
				RHS:   0,
			})
		}
		for _, role := range a.Roles {
			m.Rows = append(m.Rows, Row{
				Name:  fmt.Sprintf("worker_assignment_%s_%s", a.ID, role),
				Terms: []Term{{Col: m.assigned[assignKey{a.ID, role}], Coef: 1}},
				Op:    EQ,
				RHS:   1,
			})
		}
	}

	m.Objective = make([]float64, len(m.Columns))
	for _, a := range n.Activities() {
		m.Objective[m.end[a.ID]] = 1
	}

	return m
}

func (m *Model) addColumn(name string, kind Kind) int {
	m.Columns = append(m.Columns, Column{Name: name, Kind: kind})
	return len(m.Columns) - 1
}

// StartColumn returns the column index of start(id).
func (m *Model) StartColumn(id string) (int, bool) {
	c, ok := m.start[id]
	return c, ok
}

// EndColumn returns the column index of end(id).
func (m *Model) EndColumn(id string) (int, bool) {
	c, ok := m.end[id]
	return c, ok
}

// AssignedColumn returns the column index of assigned(id, role).
func (m *Model) AssignedColumn(id, role string) (int, bool) {
	c, ok := m.assigned[assignKey{id, role}]
	return c, ok
}

// String renders the model in a readable LP-like text form.
func (m *Model) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "/* critical path: %s */\n", m.Scenario)
	b.WriteString("min: ")
	first := true
	for col, c := range m.Objective {
		if c == 0 {
			continue
		}
		if !first {
			b.WriteString(" + ")
		}
		first = false
		b.WriteString(m.Columns[col].Name)
	}
	b.WriteString(";\n")
	for _, r := range m.Rows {
		fmt.Fprintf(&b, "%s: ", r.Name)
		for i, t := range r.Terms {
			switch {
			case i == 0 && t.Coef < 0:
				b.WriteString("-")
			case i > 0 && t.Coef < 0:
				b.WriteString(" - ")
			case i > 0:
				b.WriteString(" + ")
			}
			b.WriteString(m.Columns[t.Col].Name)
		}
		fmt.Fprintf(&b, " %s %g;\n", r.Op, r.RHS)
	}
	var bins []string
	for _, c := range m.Columns {
		if c.Kind == Binary {
			bins = append(bins, c.Name)
		}
	}
	if len(bins) > 0 {
		fmt.Fprintf(&b, "bin %s;\n", strings.Join(bins, ", "))
	}
	return b.String()
}
