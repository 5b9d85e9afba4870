package deps

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// reachable computes forward reachability over internal edges from every
// root simultaneously and returns the visited set as a bitmap over module
// indices in the frozen graph's sorted order.
//
// A disconnected component with no root stays entirely unvisited; its
// members all become candidates even though intra-component edges exist,
// because a mutually-referencing but orphaned cluster is dead as a whole.
func reachable(g *Graph) *roaring.Bitmap {
	visited := roaring.New()

	var queue []string
	for i := range g.Modules {
		if IsRoot(&g.Modules[i]) {
			visited.Add(uint32(i))
			queue = append(queue, g.Modules[i].Path)
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range g.Out(cur) {
			idx, ok := g.index[next]
			if !ok {
				continue
			}
			if !visited.CheckedAdd(uint32(idx)) {
				continue
			}
			queue = append(queue, next)
		}
	}

	return visited
}

// unreachedModules lists the modules outside the visited set, in graph
// order, as dead-code candidate seeds.
func unreachedModules(g *Graph, visited *roaring.Bitmap) []*Module {
	var out []*Module
	for i := range g.Modules {
		if !visited.Contains(uint32(i)) {
			out = append(out, &g.Modules[i])
		}
	}
	return out
}
