package solver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/draffensperger/golp"

	"github.com/olealberto/msds-460-assignment-two/internal/cpm"
	"github.com/olealberto/msds-460-assignment-two/internal/network"
)

var (
	// ErrInfeasible means the linear program has no optimal solution.
	ErrInfeasible = errors.New("schedule model is infeasible or unbounded")
	// ErrSolver means the optimizer failed or returned values that do not
	// satisfy the model.
	ErrSolver = errors.New("schedule solver failure")
)

// Tolerance bounds the disagreement accepted between the optimizer's values
// and the exact constraint arithmetic.
const Tolerance = 1e-6

// tieTolerance decides ties when reporting activities that end at the makespan.
const tieTolerance = 1e-9

// Solve builds the model for n under sc and solves it.
func Solve(ctx context.Context, n *network.Network, sc network.Scenario) (*Schedule, error) {
	return Build(n, sc).Solve(ctx)
}

// Solve hands the model to lp_solve and converts the optimum into a verified
// Schedule. No schedule is returned alongside an error.
func (m *Model) Solve(ctx context.Context) (*Schedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	values, err := m.optimize()
	if err != nil {
		return nil, fmt.Errorf("%s scenario: %w", m.Scenario, err)
	}

	s, err := m.extract(values)
	if err != nil {
		return nil, fmt.Errorf("%s scenario: %w", m.Scenario, err)
	}
	return s, nil
}

// optimize runs lp_solve on a fresh LP built from the model.
func (m *Model) optimize() ([]float64, error) {
	lp := golp.NewLP(0, len(m.Columns))

	for col, c := range m.Columns {
		lp.SetColName(col, c.Name)
		if c.Kind == Binary {
			lp.SetBinary(col, true)
		}
	}

	for _, r := range m.Rows {
		entries := make([]golp.Entry, len(r.Terms))
		for i, t := range r.Terms {
			entries[i] = golp.Entry{Col: t.Col, Val: t.Coef}
		}
		if err := lp.AddConstraintSparse(entries, constraintType(r.Op), r.RHS); err != nil {
			return nil, fmt.Errorf("%w: add constraint %s: %v", ErrSolver, r.Name, err)
		}
	}

	lp.SetObjFn(m.Objective)

	if err := statusError(lp.Solve()); err != nil {
		return nil, err
	}

	values := lp.Variables()
	if len(values) != len(m.Columns) {
		return nil, fmt.Errorf("%w: expected %d variable values, got %d", ErrSolver, len(m.Columns), len(values))
	}
	return values, nil
}

func constraintType(op Op) golp.ConstraintType {
	switch op {
	case GE:
		return golp.GE
	case LE:
		return golp.LE
	default:
		return golp.EQ
	}
}

// statusError maps an lp_solve result to the solver's error taxonomy.
func statusError(st golp.SolutionType) error {
	switch st {
	case golp.OPTIMAL:
		return nil
	case golp.INFEASIBLE, golp.UNBOUNDED:
		return fmt.Errorf("%w: lp_solve status %v", ErrInfeasible, st)
	default:
		return fmt.Errorf("%w: lp_solve status %v", ErrSolver, st)
	}
}

// extract verifies the raw optimum against the model and the forward-pass
// earliest finish times, then assembles the Schedule.
//
// Verified starts are rebuilt from the predecessors' reported ends so that
// precedence and the makespan hold exactly in float arithmetic, not just
// within Tolerance.
func (m *Model) extract(values []float64) (*Schedule, error) {
	n := m.Network
	oracle := cpm.Analyze(n, m.Scenario)

	s := &Schedule{
		Scenario:   m.Scenario,
		Activities: make([]ActivityTimes, 0, n.Len()),
		index:      make(map[string]int, n.Len()),
	}
	clean := make([]float64, len(values))
	times := make(map[string]ActivityTimes, n.Len())

	for _, id := range n.TopoOrder() {
		startCol, endCol := m.start[id], m.end[id]
		d := n.Duration(id, m.Scenario)

		rawStart, rawEnd := values[startCol], values[endCol]
		if rawStart < -Tolerance {
			return nil, fmt.Errorf("%w: %s starts at negative time %v", ErrSolver, id, rawStart)
		}
		if math.Abs(rawEnd-(rawStart+d)) > Tolerance {
			return nil, fmt.Errorf("%w: %s: end %v does not equal start %v + duration %v", ErrSolver, id, rawEnd, rawStart, d)
		}

		// Minimizing the sum of ends must land every activity on its
		// forward-pass earliest finish.
		cs := oracle.Activities[id]
		if math.Abs(rawEnd-cs.EF) > Tolerance {
			return nil, fmt.Errorf("%w: %s ends at %v, earliest finish is %v", ErrSolver, id, rawEnd, cs.EF)
		}

		start := 0.0
		for _, p := range n.Predecessors(id) {
			start = math.Max(start, times[p].End)
		}
		times[id] = ActivityTimes{
			ID:       id,
			Start:    start,
			End:      start + d,
			Duration: d,
			Slack:    cs.Slack,
			Critical: cs.IsCritical,
		}
	}

	for _, e := range n.Edges() {
		if values[m.start[e.To]] < values[m.end[e.From]]-Tolerance {
			return nil, fmt.Errorf("%w: %s starts at %v before predecessor %s ends at %v",
				ErrSolver, e.To, values[m.start[e.To]], e.From, values[m.end[e.From]])
		}
	}

	for _, a := range n.Activities() {
		at := times[a.ID]
		clean[m.start[a.ID]], clean[m.end[a.ID]] = at.Start, at.End
		s.index[a.ID] = len(s.Activities)
		s.Activities = append(s.Activities, at)
		s.Objective += at.End
		s.Makespan = math.Max(s.Makespan, at.End)
	}

	for _, a := range n.Activities() {
		for _, role := range a.Roles {
			col := m.assigned[assignKey{a.ID, role}]
			if math.Abs(values[col]-1) > Tolerance {
				return nil, fmt.Errorf("%w: assigned_%s_%s = %v, want 1", ErrSolver, a.ID, role, values[col])
			}
			clean[col] = 1
			s.Assignments = append(s.Assignments, Assignment{Activity: a.ID, Role: role, Assigned: true})
		}
	}

	for _, at := range s.Activities {
		if at.Start == 0 {
			s.StartsAtZero = append(s.StartsAtZero, at.ID)
		}
		if math.Abs(at.End-s.Makespan) <= tieTolerance {
			s.EndsAtMakespan = append(s.EndsAtMakespan, at.ID)
		}
	}
	s.CriticalPath = oracle.CriticalPath

	s.Variables = make([]Variable, len(m.Columns))
	for col, c := range m.Columns {
		s.Variables[col] = Variable{Name: c.Name, Value: clean[col]}
	}
	sort.Slice(s.Variables, func(i, j int) bool { return s.Variables[i].Name < s.Variables[j].Name })

	return s, nil
}
