package community

import (
	"sort"

	"github.com/agenthands/ledger/internal/core/model"
)

// LabelPropagationDetector finds communities with label propagation. Nodes are
// visited in input order and ties go to the lexicographically largest label,
// so the result is deterministic.
type LabelPropagationDetector struct {
	MaxIterations int
}

func NewLabelPropagationDetector() *LabelPropagationDetector {
	return &LabelPropagationDetector{
		MaxIterations: 20,
	}
}

func (d *LabelPropagationDetector) Detect(nodes []string, edges []model.Relationship) ([][]string, error) {
	if len(nodes) == 0 {
		return nil, nil
	}

	// Repeated edges between the same pair (different relationship types)
	// strengthen the connection.
	adj := make(map[string]map[string]int, len(nodes))
	for _, n := range nodes {
		adj[n] = make(map[string]int)
	}
	for _, e := range edges {
		if _, ok := adj[e.Entity1]; !ok {
			continue
		}
		if _, ok := adj[e.Entity2]; !ok {
			continue
		}
		if e.Entity1 == e.Entity2 {
			continue
		}
		adj[e.Entity1][e.Entity2]++
		adj[e.Entity2][e.Entity1]++
	}

	labels := make(map[string]string, len(nodes))
	for _, n := range nodes {
		labels[n] = n
	}

	for iter := 0; iter < d.MaxIterations; iter++ {
		changed := 0
		for _, u := range nodes {
			neighbors := adj[u]
			if len(neighbors) == 0 {
				continue
			}

			counts := make(map[string]int)
			best := 0
			for v, weight := range neighbors {
				label := labels[v]
				counts[label] += weight
				if counts[label] > best {
					best = counts[label]
				}
			}

			var candidates []string
			for label, count := range counts {
				if count == best {
					candidates = append(candidates, label)
				}
			}
			sort.Strings(candidates)
			winner := candidates[len(candidates)-1]

			if labels[u] != winner {
				labels[u] = winner
				changed++
			}
		}
		if changed == 0 {
			break
		}
	}

	byLabel := make(map[string][]string)
	for _, n := range nodes {
		byLabel[labels[n]] = append(byLabel[labels[n]], n)
	}

	var groups [][]string
	for _, members := range byLabel {
		if len(members) >= 2 {
			groups = append(groups, members)
		}
	}
	return Sorted(groups), nil
}
