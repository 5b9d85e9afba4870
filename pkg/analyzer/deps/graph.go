package deps

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Graph is the immutable node/edge set for one analysis run. The node set
// is exactly the catalog's file set at analysis start; it is append-only
// during build and frozen before cycle and reachability analysis.
type Graph struct {
	Modules []Module `json:"modules" toon:"modules"`
	Edges   []Edge   `json:"edges" toon:"edges"`

	frozen bool
	index  map[string]int
	out    map[string][]string
	in     map[string][]string
}

// edgeKey identifies an ordered module pair during the merge.
type edgeKey struct {
	from, to string
}

// fileResult is the worker-local output for one catalog file: the module
// and its resolved references. Results merge into the Graph in a single
// coordinating pass, never concurrently.
type fileResult struct {
	module Module
	refs   []Reference
	quoted []string
	stats  extraction
}

// buildGraph merges worker results into a Graph. The merge is idempotent:
// the same result set yields a bit-identical graph regardless of the
// order workers finished in, because modules and edges are sorted before
// the graph is returned. Self-references are dropped, parallel references
// merge summing counts and keeping the earliest line, and edges whose
// endpoint vanished from the catalog are dropped with a warning.
func buildGraph(results []fileResult, warn func(path, reason string)) (*Graph, int) {
	g := &Graph{}
	dropped := 0

	present := make(map[string]bool, len(results))
	for _, r := range results {
		present[r.module.Path] = true
	}

	edges := make(map[edgeKey]*Edge)
	for _, r := range results {
		g.Modules = append(g.Modules, r.module)

		for _, ref := range r.refs {
			if ref.Kind != KindInternal {
				continue
			}
			if ref.Target == ref.Source {
				dropped++
				continue
			}
			if !present[ref.Target] {
				warn(ref.Source, fmt.Sprintf("edge target %s vanished from catalog", ref.Target))
				dropped++
				continue
			}
			key := edgeKey{from: ref.Source, to: ref.Target}
			if e, ok := edges[key]; ok {
				e.Count++
				if ref.Line < e.Line {
					e.Line = ref.Line
				}
			} else {
				edges[key] = &Edge{From: ref.Source, To: ref.Target, Count: 1, Line: ref.Line}
			}
		}
	}

	for _, e := range edges {
		g.Edges = append(g.Edges, *e)
	}

	sort.Slice(g.Modules, func(i, j int) bool { return g.Modules[i].Path < g.Modules[j].Path })
	sort.Slice(g.Edges, func(i, j int) bool {
		if g.Edges[i].From != g.Edges[j].From {
			return g.Edges[i].From < g.Edges[j].From
		}
		return g.Edges[i].To < g.Edges[j].To
	})

	return g, dropped
}

// Freeze builds the lookup indices and marks the graph immutable.
// Cycle detection and reachability require a frozen graph.
func (g *Graph) Freeze() {
	if g.frozen {
		return
	}
	g.index = make(map[string]int, len(g.Modules))
	g.out = make(map[string][]string, len(g.Modules))
	g.in = make(map[string][]string, len(g.Modules))
	for i, m := range g.Modules {
		g.index[m.Path] = i
	}
	for _, e := range g.Edges {
		g.out[e.From] = append(g.out[e.From], e.To)
		g.in[e.To] = append(g.in[e.To], e.From)
	}
	g.frozen = true
}

// Module returns the module for a path, if present.
func (g *Graph) Module(path string) (*Module, bool) {
	i, ok := g.index[path]
	if !ok {
		return nil, false
	}
	return &g.Modules[i], true
}

// Out returns the successors of a module. Valid after Freeze.
func (g *Graph) Out(path string) []string { return g.out[path] }

// In returns the predecessors of a module. Valid after Freeze.
func (g *Graph) In(path string) []string { return g.in[path] }

// Fingerprint hashes the canonical module and edge sets. Two runs over an
// unchanged catalog produce the same fingerprint.
func (g *Graph) Fingerprint() string {
	h := xxhash.New()
	var buf [8]byte
	for _, m := range g.Modules {
		h.WriteString(m.Path)
		h.WriteString("\x00")
		h.WriteString(m.ContentHash)
		h.WriteString("\x00")
	}
	for _, e := range g.Edges {
		h.WriteString(e.From)
		h.WriteString("\x01")
		h.WriteString(e.To)
		binary.LittleEndian.PutUint64(buf[:], uint64(e.Count))
		h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], uint64(e.Line))
		h.Write(buf[:])
	}
	return strconv.FormatUint(h.Sum64(), 16)
}
