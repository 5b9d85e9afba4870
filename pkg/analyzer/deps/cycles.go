package deps

import (
	"sort"
	"strings"
)

// detectCycles enumerates the elementary cycles of a frozen graph.
//
// Depth-first search runs from each module in sorted order, keeping the
// current path and an on-stack set. A back-edge into a module on the
// stack emits the sub-path from that module to the current one as a
// cycle. Modules fully explored as a search root are never re-expanded
// as roots but stay eligible as intermediates in later searches.
// Rotations of the same sequence deduplicate by normalizing each cycle
// to start at its lexicographically smallest module path. Output is
// sorted by ascending length, then by normalized starting path.
func detectCycles(g *Graph) []Cycle {
	if len(g.Modules) == 0 {
		return nil
	}

	visited := make(map[string]bool, len(g.Modules))
	seen := make(map[string]bool)
	var cycles []Cycle

	var path []string
	onStack := make(map[string]int)

	var dfs func(node string)
	dfs = func(node string) {
		path = append(path, node)
		onStack[node] = len(path) - 1

		for _, next := range g.Out(node) {
			if at, ok := onStack[next]; ok {
				cycle := normalizeCycle(path[at:])
				key := strings.Join(cycle, "\x00")
				if !seen[key] {
					seen[key] = true
					cycles = append(cycles, Cycle{Paths: cycle})
				}
				continue
			}
			if !visited[next] {
				dfs(next)
			}
		}

		delete(onStack, node)
		path = path[:len(path)-1]
	}

	for _, m := range g.Modules {
		if visited[m.Path] {
			continue
		}
		dfs(m.Path)
		// Everything reached from this root is exhausted as a root.
		visited[m.Path] = true
	}

	sort.Slice(cycles, func(i, j int) bool {
		if len(cycles[i].Paths) != len(cycles[j].Paths) {
			return len(cycles[i].Paths) < len(cycles[j].Paths)
		}
		for k := range cycles[i].Paths {
			if cycles[i].Paths[k] != cycles[j].Paths[k] {
				return cycles[i].Paths[k] < cycles[j].Paths[k]
			}
		}
		return false
	})

	return cycles
}

// normalizeCycle rotates a cycle so it starts at its lexicographically
// smallest module path.
func normalizeCycle(cycle []string) []string {
	min := 0
	for i := 1; i < len(cycle); i++ {
		if cycle[i] < cycle[min] {
			min = i
		}
	}
	out := make([]string, 0, len(cycle))
	out = append(out, cycle[min:]...)
	out = append(out, cycle[:min]...)
	return out
}
