package deps

import (
	"sort"

	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Metrics holds optional structural statistics over the frozen graph.
type Metrics struct {
	ModuleMetrics []ModuleMetric `json:"module_metrics" toon:"module_metrics"`
	Density       float64        `json:"density" toon:"density"`
	AvgDegree     float64        `json:"avg_degree" toon:"avg_degree"`
	Components    int            `json:"components" toon:"components"`
	LargestSCC    int            `json:"largest_scc" toon:"largest_scc"`
	MostImported  []ModuleCount  `json:"most_imported" toon:"most_imported"`
}

// ModuleMetric is the per-module slice of Metrics.
type ModuleMetric struct {
	Path      string  `json:"path" toon:"path"`
	PageRank  float64 `json:"pagerank" toon:"pagerank"`
	InDegree  int     `json:"in_degree" toon:"in_degree"`
	OutDegree int     `json:"out_degree" toon:"out_degree"`
}

// ModuleCount pairs a module with how many modules import it.
type ModuleCount struct {
	Path  string `json:"path" toon:"path"`
	Count int    `json:"count" toon:"count"`
}

// computeMetrics calculates PageRank, degrees, density, and component
// statistics. Runs single-threaded on the frozen graph.
func computeMetrics(g *Graph) *Metrics {
	m := &Metrics{}
	n := len(g.Modules)
	if n == 0 {
		return m
	}

	directed := simple.NewDirectedGraph()
	undirected := simple.NewUndirectedGraph()
	idOf := make(map[string]int64, n)
	pathOf := make(map[int64]string, n)
	for i, mod := range g.Modules {
		id := int64(i)
		idOf[mod.Path] = id
		pathOf[id] = mod.Path
		directed.AddNode(simple.Node(id))
		undirected.AddNode(simple.Node(id))
	}
	for _, e := range g.Edges {
		f, t := idOf[e.From], idOf[e.To]
		directed.SetEdge(simple.Edge{F: simple.Node(f), T: simple.Node(t)})
		if !undirected.HasEdgeBetween(f, t) {
			undirected.SetEdge(simple.Edge{F: simple.Node(f), T: simple.Node(t)})
		}
	}

	ranks := network.PageRank(directed, 0.85, 1e-6)

	inDeg := make(map[string]int, n)
	outDeg := make(map[string]int, n)
	for _, e := range g.Edges {
		outDeg[e.From]++
		inDeg[e.To]++
	}

	m.ModuleMetrics = make([]ModuleMetric, 0, n)
	totalDeg := 0
	for _, mod := range g.Modules {
		m.ModuleMetrics = append(m.ModuleMetrics, ModuleMetric{
			Path:      mod.Path,
			PageRank:  ranks[idOf[mod.Path]],
			InDegree:  inDeg[mod.Path],
			OutDegree: outDeg[mod.Path],
		})
		totalDeg += inDeg[mod.Path] + outDeg[mod.Path]
	}
	m.AvgDegree = float64(totalDeg) / float64(n)
	if n > 1 {
		m.Density = float64(len(g.Edges)) / float64(n*(n-1))
	}

	m.Components = len(topo.ConnectedComponents(undirected))
	for _, scc := range topo.TarjanSCC(directed) {
		if len(scc) > m.LargestSCC {
			m.LargestSCC = len(scc)
		}
	}

	ranked := make([]ModuleCount, 0, n)
	for _, mod := range g.Modules {
		if inDeg[mod.Path] > 0 {
			ranked = append(ranked, ModuleCount{Path: mod.Path, Count: inDeg[mod.Path]})
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Path < ranked[j].Path
	})
	if len(ranked) > 10 {
		ranked = ranked[:10]
	}
	m.MostImported = ranked

	return m
}
