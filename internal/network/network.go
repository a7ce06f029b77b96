package network

import (
	"fmt"
	"maps"
	"math"
	"slices"
)

// Network is an immutable, validated activity network.
type Network struct {
	name       string
	activities []*Activity
	index      map[string]*Activity
	roles      []Role
	rates      map[string]float64
	topo       []string
	sources    []string
	sinks      []string
}

// New validates def and constructs a Network from it. Every failure wraps
// ErrConfig.
func New(def Definition) (*Network, error) {
	if len(def.Activities) == 0 {
		return nil, fmt.Errorf("%w: no activities declared", ErrConfig)
	}

	n := &Network{
		name:  def.Name,
		index: make(map[string]*Activity, len(def.Activities)),
		rates: make(map[string]float64, len(def.Rates)),
	}

	for _, r := range def.Rates {
		if r.Role == "" {
			return nil, fmt.Errorf("%w: role with empty id", ErrConfig)
		}
		if _, dup := n.rates[r.Role]; dup {
			return nil, fmt.Errorf("%w: role %q declared twice", ErrConfig, r.Role)
		}
		if !(r.Rate > 0) || math.IsInf(r.Rate, 0) {
			return nil, fmt.Errorf("%w: role %q: hourly rate must be positive, got %v", ErrConfig, r.Role, r.Rate)
		}
		n.rates[r.Role] = r.Rate
		n.roles = append(n.roles, Role{ID: r.Role, Rate: r.Rate})
	}

	// Index all activities
	for _, spec := range def.Activities {
		if spec.ID == "" {
			return nil, fmt.Errorf("%w: activity with empty id", ErrConfig)
		}
		if _, dup := n.index[spec.ID]; dup {
			return nil, fmt.Errorf("%w: activity %q declared twice", ErrConfig, spec.ID)
		}

		a := &Activity{
			ID:           spec.ID,
			Durations:    make(map[Scenario]float64, len(Scenarios)),
			Roles:        append([]string(nil), spec.Roles...),
			Predecessors: append([]string(nil), spec.Predecessors...),
		}
		for _, sc := range Scenarios {
			d, ok := spec.Durations[sc]
			if !ok {
				return nil, fmt.Errorf("%w: activity %q: no %s duration", ErrConfig, spec.ID, sc)
			}
			if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
				return nil, fmt.Errorf("%w: activity %q: %s duration must be a non-negative number, got %v", ErrConfig, spec.ID, sc, d)
			}
			a.Durations[sc] = d
		}
		for sc := range spec.Durations {
			if !sc.Valid() {
				return nil, fmt.Errorf("%w: activity %q: unknown scenario %q", ErrConfig, spec.ID, sc)
			}
		}

		if len(a.Roles) == 0 {
			return nil, fmt.Errorf("%w: activity %q: no required roles", ErrConfig, spec.ID)
		}
		seen := make(map[string]bool, len(a.Roles))
		for _, role := range a.Roles {
			if _, ok := n.rates[role]; !ok {
				return nil, fmt.Errorf("%w: activity %q: undeclared role %q", ErrConfig, spec.ID, role)
			}
			if seen[role] {
				return nil, fmt.Errorf("%w: activity %q: role %q listed twice", ErrConfig, spec.ID, role)
			}
			seen[role] = true
		}

		n.index[a.ID] = a
		n.activities = append(n.activities, a)
	}

	// Wire successors; duplicate predecessor entries collapse to one edge.
	for _, a := range n.activities {
		var preds []string
		seen := make(map[string]bool, len(a.Predecessors))
		for _, p := range a.Predecessors {
			pred, ok := n.index[p]
			if !ok {
				return nil, fmt.Errorf("%w: activity %q: undeclared predecessor %q", ErrConfig, a.ID, p)
			}
			if seen[p] {
				continue
			}
			seen[p] = true
			preds = append(preds, p)
			pred.Successors = append(pred.Successors, a.ID)
		}
		a.Predecessors = preds
	}

	if cycle := n.detectCycle(); cycle != nil {
		return nil, fmt.Errorf("%w: %w: %v", ErrConfig, ErrCycle, cycle)
	}

	n.topo = n.topoSort()
	for _, a := range n.activities {
		if len(a.Predecessors) == 0 {
			n.sources = append(n.sources, a.ID)
		}
		if len(a.Successors) == 0 {
			n.sinks = append(n.sinks, a.ID)
		}
	}

	return n, nil
}

// detectCycle returns the cycle path if one exists, or nil if the graph is acyclic.
// Uses DFS with coloring: white (unvisited), gray (in progress), black (done).
func (n *Network) detectCycle() []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[string]int)
	parent := make(map[string]string)

	var dfs func(node string) []string
	dfs = func(node string) []string {
		color[node] = gray
		for _, next := range n.index[node].Successors {
			if color[next] == gray {
				// Found a cycle, reconstruct it
				cycle := []string{next, node}
				cur := node
				for cur != next {
					cur = parent[cur]
					cycle = append(cycle, cur)
				}
				for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}
				return cycle
			}
			if color[next] == white {
				parent[next] = node
				if cycle := dfs(next); cycle != nil {
					return cycle
				}
			}
		}
		color[node] = black
		return nil
	}

	for _, a := range n.activities {
		if color[a.ID] == white {
			if cycle := dfs(a.ID); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// topoSort performs Kahn's algorithm. Ready activities are released in
// declaration order so the result is deterministic.
func (n *Network) topoSort() []string {
	position := make(map[string]int, len(n.activities))
	inDegree := make(map[string]int, len(n.activities))
	for i, a := range n.activities {
		position[a.ID] = i
		inDegree[a.ID] = len(a.Predecessors)
	}

	ready := make([]bool, len(n.activities))
	for i, a := range n.activities {
		ready[i] = inDegree[a.ID] == 0
	}

	order := make([]string, 0, len(n.activities))
	for len(order) < len(n.activities) {
		next := -1
		for i, ok := range ready {
			if ok {
				next = i
				break
			}
		}
		if next < 0 {
			// unreachable once detectCycle has passed
			break
		}
		ready[next] = false
		a := n.activities[next]
		order = append(order, a.ID)
		for _, succ := range a.Successors {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				ready[position[succ]] = true
			}
		}
	}
	return order
}

// Name returns the network's display name (may be empty).
func (n *Network) Name() string { return n.name }

// Len returns the number of activities.
func (n *Network) Len() int { return len(n.activities) }

// Activities returns copies of the activities in declaration order.
func (n *Network) Activities() []*Activity {
	out := make([]*Activity, len(n.activities))
	for i, a := range n.activities {
		out[i] = a.clone()
	}
	return out
}

// Activity returns a copy of the activity with the given ID.
func (n *Network) Activity(id string) (*Activity, bool) {
	a, ok := n.index[id]
	if !ok {
		return nil, false
	}
	return a.clone(), true
}

func (a *Activity) clone() *Activity {
	return &Activity{
		ID:           a.ID,
		Durations:    maps.Clone(a.Durations),
		Roles:        slices.Clone(a.Roles),
		Predecessors: slices.Clone(a.Predecessors),
		Successors:   slices.Clone(a.Successors),
	}
}

// Duration returns the duration of activity id under scenario sc.
func (n *Network) Duration(id string, sc Scenario) float64 {
	if a, ok := n.index[id]; ok {
		return a.Durations[sc]
	}
	return 0
}

// Roles returns the roles required by activity id.
func (n *Network) Roles(id string) []string {
	if a, ok := n.index[id]; ok {
		return slices.Clone(a.Roles)
	}
	return nil
}

// Predecessors returns the activities that must finish before id starts.
func (n *Network) Predecessors(id string) []string {
	if a, ok := n.index[id]; ok {
		return slices.Clone(a.Predecessors)
	}
	return nil
}

// Successors returns the activities that wait on id.
func (n *Network) Successors(id string) []string {
	if a, ok := n.index[id]; ok {
		return slices.Clone(a.Successors)
	}
	return nil
}

// Rate returns the hourly rate of role.
func (n *Network) Rate(role string) float64 { return n.rates[role] }

// RoleList returns the declared roles in declaration order.
func (n *Network) RoleList() []Role { return slices.Clone(n.roles) }

// TopoOrder returns the activity IDs in a topological order.
func (n *Network) TopoOrder() []string { return slices.Clone(n.topo) }

// Sources returns activities without predecessors, in declaration order.
func (n *Network) Sources() []string { return slices.Clone(n.sources) }

// Sinks returns activities without successors, in declaration order.
func (n *Network) Sinks() []string { return slices.Clone(n.sinks) }

// Edges returns every precedence edge, grouped by successor in declaration order.
func (n *Network) Edges() []Edge {
	var edges []Edge
	for _, a := range n.activities {
		for _, p := range a.Predecessors {
			edges = append(edges, Edge{From: p, To: a.ID})
		}
	}
	return edges
}

// Definition returns a Definition that rebuilds an equal Network.
func (n *Network) Definition() Definition {
	def := Definition{Name: n.name}
	for _, r := range n.roles {
		def.Rates = append(def.Rates, RateSpec{Role: r.ID, Rate: r.Rate})
	}
	for _, a := range n.activities {
		durations := make(map[Scenario]float64, len(a.Durations))
		for sc, d := range a.Durations {
			durations[sc] = d
		}
		def.Activities = append(def.Activities, ActivitySpec{
			ID:           a.ID,
			Durations:    durations,
			Roles:        append([]string(nil), a.Roles...),
			Predecessors: append([]string(nil), a.Predecessors...),
		})
	}
	return def
}

// WithDuration returns a copy of the network with one duration replaced.
func (n *Network) WithDuration(id string, sc Scenario, d float64) (*Network, error) {
	def := n.Definition()
	for i := range def.Activities {
		if def.Activities[i].ID == id {
			def.Activities[i].Durations[sc] = d
			return New(def)
		}
	}
	return nil, fmt.Errorf("%w: unknown activity %q", ErrConfig, id)
}
