package schema

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// ErrCycle is matched by every *CycleError.
var ErrCycle = errors.New("schema: dependency cycle")

// CycleError names the tables Kahn's algorithm could not place.
type CycleError struct {
	Tables []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%v among tables: %s", ErrCycle, strings.Join(e.Tables, ", "))
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// Graph is the dependency graph of a table set. Edges run from a referenced
// table to the tables that reference it.
type Graph struct {
	Nodes    []string
	Edges    map[string][]string
	InDegree map[string]int
}

// BuildGraph derives the graph from foreign keys. References to tables outside
// the set and self-references do not constrain creation order.
func BuildGraph(tables []Table) (Graph, error) {
	g := Graph{
		Edges:    make(map[string][]string, len(tables)),
		InDegree: make(map[string]int, len(tables)),
	}
	for _, t := range tables {
		name := Ident(t.Name)
		if _, dup := g.InDegree[name]; dup {
			return Graph{}, fmt.Errorf("table %s declared twice", name)
		}
		g.Nodes = append(g.Nodes, name)
		g.InDegree[name] = 0
	}

	for _, t := range tables {
		from := Ident(t.Name)
		for _, fk := range t.ForeignKeys {
			dep, _, err := fk.Target()
			if err != nil {
				return Graph{}, fmt.Errorf("table %s: %w", from, err)
			}
			if dep == from {
				continue
			}
			if _, known := g.InDegree[dep]; !known {
				continue
			}
			if slices.Contains(g.Edges[dep], from) {
				continue
			}
			g.Edges[dep] = append(g.Edges[dep], from)
			g.InDegree[from]++
		}
	}
	return g, nil
}

// TopoSort orders the graph so every table follows the tables it references.
// On a cycle it returns the tables it could order plus a *CycleError; g is
// never modified.
func TopoSort(g Graph) ([]string, error) {
	indegree := make(map[string]int, len(g.InDegree))
	for k, v := range g.InDegree {
		indegree[k] = v
	}

	queue := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if indegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	order := make([]string, 0, len(g.Nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		for _, next := range g.Edges[n] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(order) != len(g.Nodes) {
		var stuck []string
		for _, n := range g.Nodes {
			if !slices.Contains(order, n) {
				stuck = append(stuck, n)
			}
		}
		return order, &CycleError{Tables: stuck}
	}
	return order, nil
}
