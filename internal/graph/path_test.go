package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func adjacency(edges ...[2]string) func(string) []string {
	adj := map[string][]string{}
	for _, e := range edges {
		adj[e[0]] = append(adj[e[0]], e[1])
		adj[e[1]] = append(adj[e[1]], e[0])
	}
	return func(u string) []string {
		out := make([]string, len(adj[u]))
		copy(out, adj[u])
		return out
	}
}

func TestShortestPath(t *testing.T) {
	chain := adjacency([2]string{"A", "B"}, [2]string{"B", "C"}, [2]string{"C", "D"})

	tests := []struct {
		name     string
		from, to string
		want     []string
	}{
		{"chain", "A", "D", []string{"A", "B", "C", "D"}},
		{"reverse chain", "D", "A", []string{"D", "C", "B", "A"}},
		{"self", "A", "A", []string{"A"}},
		{"unreachable", "A", "E", []string{}},
		{"direct", "B", "C", []string{"B", "C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShortestPath(chain, tt.from, tt.to))
		})
	}
}

func TestShortestPathPrefersFewerHops(t *testing.T) {
	// Long way round A-B-C-D-E plus a shortcut A-X-E.
	g := adjacency(
		[2]string{"A", "B"}, [2]string{"B", "C"}, [2]string{"C", "D"}, [2]string{"D", "E"},
		[2]string{"A", "X"}, [2]string{"X", "E"},
	)

	assert.Equal(t, []string{"A", "X", "E"}, ShortestPath(g, "A", "E"))
}

func TestShortestPathDeterministicTieBreak(t *testing.T) {
	g := adjacency(
		[2]string{"A", "M"}, [2]string{"M", "Z"},
		[2]string{"A", "C"}, [2]string{"C", "Z"},
	)

	for i := 0; i < 10; i++ {
		assert.Equal(t, []string{"A", "C", "Z"}, ShortestPath(g, "A", "Z"))
	}
}

func TestShortestPathCycle(t *testing.T) {
	g := adjacency([2]string{"A", "B"}, [2]string{"B", "C"}, [2]string{"C", "A"})

	assert.Equal(t, []string{"A", "C"}, ShortestPath(g, "A", "C"))
}
