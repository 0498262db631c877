package graph

import (
	"container/heap"
	"fmt"
	"strings"

	"github.com/gianttproject/giantt/internal/core/item"
)

// Graph is the dependency graph over a set of items, built from their
// requires edges. Edges pointing at ids outside the set are excluded
// and reported via Unresolved.
type Graph struct {
	order      []string
	index      map[string]int
	dependsOn  map[string][]string
	dependents map[string][]string
	unresolved map[string][]string
}

// New builds a graph from items in their given order. The order is
// remembered and used as the tie-break during sorting.
func New(items []item.Item) *Graph {
	g := &Graph{
		order:      make([]string, 0, len(items)),
		index:      make(map[string]int, len(items)),
		dependsOn:  make(map[string][]string, len(items)),
		dependents: make(map[string][]string, len(items)),
		unresolved: map[string][]string{},
	}

	for _, it := range items {
		if _, dup := g.index[it.ID]; dup {
			continue
		}
		g.index[it.ID] = len(g.order)
		g.order = append(g.order, it.ID)
	}

	for _, it := range items {
		for _, dep := range it.Requires() {
			if _, known := g.index[dep]; !known {
				g.unresolved[it.ID] = append(g.unresolved[it.ID], dep)
				continue
			}
			g.dependsOn[it.ID] = append(g.dependsOn[it.ID], dep)
			g.dependents[dep] = append(g.dependents[dep], it.ID)
		}
	}

	return g
}

// Unresolved maps item ids to required ids that are not in the graph.
func (g *Graph) Unresolved() map[string][]string {
	return g.unresolved
}

// Dependents returns the ids that directly require id.
func (g *Graph) Dependents(id string) []string {
	return g.dependents[id]
}

// DependsOn returns the ids that id directly requires, excluding
// unresolved ones.
func (g *Graph) DependsOn(id string) []string {
	return g.dependsOn[id]
}

// Sort returns all ids in dependency order: every item after everything
// it requires. Among items whose dependencies are all placed, the one
// earliest in input order goes first, so input that is already sorted
// comes back unchanged. A cycle yields a *CycleError and no order.
func (g *Graph) Sort() ([]string, error) {
	inDegree := make(map[string]int, len(g.order))
	for _, id := range g.order {
		inDegree[id] = len(g.dependsOn[id])
	}

	ready := &indexHeap{}
	for i, id := range g.order {
		if inDegree[id] == 0 {
			heap.Push(ready, i)
		}
	}

	sorted := make([]string, 0, len(g.order))
	for ready.Len() > 0 {
		id := g.order[heap.Pop(ready).(int)]
		sorted = append(sorted, id)

		for _, dependent := range g.dependents[id] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				heap.Push(ready, g.index[dependent])
			}
		}
	}

	if len(sorted) != len(g.order) {
		return nil, &CycleError{Cycle: g.extractCycle(inDegree)}
	}
	return sorted, nil
}

// extractCycle walks depends-on edges among the unplaced nodes until a
// node repeats and returns the loop, closed with its first id.
func (g *Graph) extractCycle(inDegree map[string]int) []string {
	start := ""
	for _, id := range g.order {
		if inDegree[id] > 0 {
			start = id
			break
		}
	}
	if start == "" {
		return nil
	}

	seen := map[string]int{}
	var path []string
	for id := start; ; {
		if at, ok := seen[id]; ok {
			cycle := append([]string{}, path[at:]...)
			return append(cycle, id)
		}
		seen[id] = len(path)
		path = append(path, id)

		next := ""
		for _, dep := range g.dependsOn[id] {
			if inDegree[dep] > 0 {
				next = dep
				break
			}
		}
		if next == "" {
			return nil
		}
		id = next
	}
}

// CycleError reports a dependency cycle. Cycle lists the ids along the
// loop, with the first id repeated at the end.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return "dependency cycle: " + strings.Join(e.Cycle, " -> ")
}

// Validate reports a cycle without producing an order.
func (g *Graph) Validate() error {
	_, err := g.Sort()
	return err
}

// Chain returns the transitive requirements of id, nearest first. It
// stops following edges already visited, so diamonds appear once.
func (g *Graph) Chain(id string) ([]string, error) {
	if _, ok := g.index[id]; !ok {
		return nil, fmt.Errorf("unknown item %q", id)
	}

	var chain []string
	seen := map[string]bool{id: true}
	frontier := []string{id}
	for len(frontier) > 0 {
		var next []string
		for _, cur := range frontier {
			for _, dep := range g.dependsOn[cur] {
				if !seen[dep] {
					seen[dep] = true
					chain = append(chain, dep)
					next = append(next, dep)
				}
			}
		}
		frontier = next
	}
	return chain, nil
}

type indexHeap []int

func (h indexHeap) Len() int            { return len(h) }
func (h indexHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h indexHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *indexHeap) Push(x any)         { *h = append(*h, x.(int)) }
func (h *indexHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
