// Package community groups entities that are connected through relationships.
package community

import (
	"sort"

	"github.com/agenthands/ledger/internal/core/model"
)

const (
	AlgorithmComponents       = "components"
	AlgorithmLabelPropagation = "lpa"
)

// Detector partitions entity ids into groups of at least two members.
type Detector interface {
	Detect(nodes []string, edges []model.Relationship) ([][]string, error)
}

// NewDetector returns the detector for algorithm. Unknown names fall back to
// connected components.
func NewDetector(algorithm string) Detector {
	if algorithm == AlgorithmLabelPropagation {
		return NewLabelPropagationDetector()
	}
	return &ComponentDetector{}
}

// ComponentDetector reports connected components.
type ComponentDetector struct{}

func (d *ComponentDetector) Detect(nodes []string, edges []model.Relationship) ([][]string, error) {
	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n] = true
	}

	adj := make(map[string][]string)
	for _, e := range edges {
		// Only edges whose endpoints are both in the node list count.
		if !known[e.Entity1] || !known[e.Entity2] {
			continue
		}
		adj[e.Entity1] = append(adj[e.Entity1], e.Entity2)
		adj[e.Entity2] = append(adj[e.Entity2], e.Entity1)
	}

	visited := make(map[string]bool)
	var groups [][]string
	for _, n := range nodes {
		if visited[n] {
			continue
		}
		var component []string
		d.dfs(n, adj, visited, &component)
		if len(component) >= 2 {
			groups = append(groups, component)
		}
	}
	return Sorted(groups), nil
}

func (d *ComponentDetector) dfs(u string, adj map[string][]string, visited map[string]bool, component *[]string) {
	visited[u] = true
	*component = append(*component, u)
	for _, v := range adj[u] {
		if !visited[v] {
			d.dfs(v, adj, visited, component)
		}
	}
}

// Sorted orders members within each group and groups by their first member.
func Sorted(groups [][]string) [][]string {
	for _, g := range groups {
		sort.Strings(g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i][0] < groups[j][0] })
	return groups
}

// Clusters numbers groups from 1 in order.
func Clusters(groups [][]string) []model.Cluster {
	out := make([]model.Cluster, 0, len(groups))
	for i, g := range groups {
		out = append(out, model.Cluster{ID: i + 1, Members: g})
	}
	return out
}
