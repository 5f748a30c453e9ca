package graph

import "sort"

// ShortestPath returns a minimum-hop path from `from` to `to`, both ends
// included. neighbors must return the friends of a user. A nil-length
// (empty, non-nil) slice means `to` is unreachable.
//
// Neighbours are expanded in sorted order so equal-length paths resolve
// the same way on every call.
func ShortestPath(neighbors func(string) []string, from, to string) []string {
	if from == to {
		return []string{from}
	}

	parent := map[string]string{from: ""}
	frontier := []string{from}

	for len(frontier) > 0 {
		var next []string
		for _, node := range frontier {
			adj := neighbors(node)
			sort.Strings(adj)
			for _, n := range adj {
				if _, seen := parent[n]; seen {
					continue
				}
				parent[n] = node
				if n == to {
					return buildPath(parent, from, to)
				}
				next = append(next, n)
			}
		}
		frontier = next
	}

	return []string{}
}

func buildPath(parent map[string]string, from, to string) []string {
	path := []string{to}
	for cur := to; cur != from; {
		cur = parent[cur]
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
