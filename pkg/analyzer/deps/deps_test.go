package deps

import (
	"context"
	"sort"
	"testing"

	"github.com/vestigehq/vestige/pkg/source"
)

func analyzeFixture(t *testing.T, files map[string]string, opts ...Option) *Analysis {
	t.Helper()

	src := source.MapSource{}
	paths := make([]string, 0, len(files))
	for p, content := range files {
		src[p] = []byte(content)
		paths = append(paths, p)
	}
	sort.Strings(paths)

	a := New(opts...)
	analysis, err := a.Analyze(context.Background(), paths, src)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	return analysis
}

func TestEndToEndScenario(t *testing.T) {
	analysis := analyzeFixture(t, map[string]string{
		"main.py":   "import lib_a\n\nlib_a.run()\n",
		"lib_a.py":  "import lib_b\n\ndef run():\n    pass\n",
		"lib_b.py":  "import lib_a\n\ndef helper():\n    pass\n",
		"orphan.py": "def unused():\n    return 42\n",
	})

	if len(analysis.Cycles) != 1 {
		t.Fatalf("expected 1 cycle, got %d: %v", len(analysis.Cycles), analysis.Cycles)
	}
	cycle := analysis.Cycles[0]
	if len(cycle.Paths) != 2 || cycle.Paths[0] != "lib_a.py" || cycle.Paths[1] != "lib_b.py" {
		t.Errorf("cycle = %v, want [lib_a.py lib_b.py]", cycle.Paths)
	}

	if len(analysis.Candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %v", analysis.Candidates)
	}
	cand := analysis.Candidates[0]
	if cand.Path != "orphan.py" {
		t.Errorf("candidate = %s, want orphan.py", cand.Path)
	}
	if cand.Confidence != ConfidenceHigh {
		t.Errorf("confidence = %s, want high (reasons: %v)", cand.Confidence, cand.Reasons)
	}
	if len(cand.Reasons) == 0 {
		t.Error("candidate should carry reasons")
	}
}

func TestIdempotence(t *testing.T) {
	files := map[string]string{
		"main.py": "import a\nimport b\n",
		"a.py":    "import b\n",
		"b.py":    "import a\n",
		"c.py":    "x = 1\n",
	}

	first := analyzeFixture(t, files)
	second := analyzeFixture(t, files)

	if first.Graph.Fingerprint() != second.Graph.Fingerprint() {
		t.Error("fingerprints differ across identical runs")
	}
	if len(first.Cycles) != len(second.Cycles) {
		t.Fatal("cycle counts differ")
	}
	for i := range first.Cycles {
		a, b := first.Cycles[i].Paths, second.Cycles[i].Paths
		if len(a) != len(b) {
			t.Fatalf("cycle %d lengths differ", i)
		}
		for j := range a {
			if a[j] != b[j] {
				t.Errorf("cycle %d differs: %v vs %v", i, a, b)
			}
		}
	}
	for i := range first.Candidates {
		if first.Candidates[i].Path != second.Candidates[i].Path {
			t.Errorf("candidate order differs at %d", i)
		}
	}
}

func TestNoSelfLoops(t *testing.T) {
	analysis := analyzeFixture(t, map[string]string{
		"main.py": "import selfish\n",
		"selfish.py": "import selfish\n",
	})

	for _, e := range analysis.Graph.Edges {
		if e.From == e.To {
			t.Errorf("self-loop edge %s -> %s", e.From, e.To)
		}
	}
	if analysis.Summary.DroppedRefs == 0 {
		t.Error("self-import should be counted as a dropped reference")
	}
}

func TestCycleSoundnessAndCompleteness(t *testing.T) {
	analysis := analyzeFixture(t, map[string]string{
		"main.py": "import a\n",
		"a.py":    "import b\n",
		"b.py":    "import c\n",
		"c.py":    "import a\n",
	})

	if len(analysis.Cycles) != 1 {
		t.Fatalf("expected exactly 1 cycle, got %d: %v", len(analysis.Cycles), analysis.Cycles)
	}
	cycle := analysis.Cycles[0].Paths
	want := []string{"a.py", "b.py", "c.py"}
	if len(cycle) != 3 {
		t.Fatalf("cycle = %v, want %v", cycle, want)
	}
	for i := range want {
		if cycle[i] != want[i] {
			t.Errorf("cycle = %v, want %v", cycle, want)
		}
	}

	// Soundness: each consecutive pair, wrapping around, is a real edge.
	edgeSet := make(map[edgeKey]bool)
	for _, e := range analysis.Graph.Edges {
		edgeSet[edgeKey{e.From, e.To}] = true
	}
	for i := range cycle {
		from, to := cycle[i], cycle[(i+1)%len(cycle)]
		if !edgeSet[edgeKey{from, to}] {
			t.Errorf("cycle pair %s -> %s is not a graph edge", from, to)
		}
	}
}

func TestReachability(t *testing.T) {
	analysis := analyzeFixture(t, map[string]string{
		"main.py": "import x\n",
		"x.py":    "import y\n",
		"y.py":    "pass\n",
		"z.py":    "pass\n",
	})

	if len(analysis.Candidates) != 1 || analysis.Candidates[0].Path != "z.py" {
		t.Errorf("candidates = %v, want [z.py]", candidatePaths(analysis))
	}

	// Remove x -> y: both y and z become unreachable.
	analysis = analyzeFixture(t, map[string]string{
		"main.py": "import x\n",
		"x.py":    "pass\n",
		"y.py":    "pass\n",
		"z.py":    "pass\n",
	})

	got := candidatePaths(analysis)
	if len(got) != 2 || got[0] != "y.py" || got[1] != "z.py" {
		t.Errorf("candidates = %v, want [y.py z.py]", got)
	}
}

func candidatePaths(a *Analysis) []string {
	out := make([]string, 0, len(a.Candidates))
	for _, c := range a.Candidates {
		out = append(out, c.Path)
	}
	return out
}

func TestOrphanedClusterIsDead(t *testing.T) {
	analysis := analyzeFixture(t, map[string]string{
		"main.py": "pass\n",
		"ring_a.py": "import ring_b\n",
		"ring_b.py": "import ring_a\n",
	})

	got := candidatePaths(analysis)
	if len(got) != 2 || got[0] != "ring_a.py" || got[1] != "ring_b.py" {
		t.Errorf("candidates = %v, want the whole orphaned cluster", got)
	}
}

func TestEmptyCatalog(t *testing.T) {
	a := New()
	analysis, err := a.Analyze(context.Background(), nil, source.MapSource{})
	if err != nil {
		t.Fatalf("empty catalog should not error: %v", err)
	}
	if len(analysis.Graph.Modules) != 0 || len(analysis.Cycles) != 0 || len(analysis.Candidates) != 0 {
		t.Error("empty catalog should produce an empty analysis")
	}
}

func TestBinaryFileSkipped(t *testing.T) {
	src := source.MapSource{
		"main.py": []byte("pass\n"),
		"blob.py": {0x00, 0x01, 0x02},
	}

	a := New()
	analysis, err := a.Analyze(context.Background(), []string{"blob.py", "main.py"}, src)
	if err != nil {
		t.Fatal(err)
	}

	if len(analysis.Graph.Modules) != 1 {
		t.Errorf("binary file should be excluded from the graph, got %d modules", len(analysis.Graph.Modules))
	}
	if len(analysis.Warnings) != 1 || analysis.Warnings[0].Path != "blob.py" {
		t.Errorf("expected a warning for blob.py, got %v", analysis.Warnings)
	}
	if analysis.Summary.SkippedFiles != 1 {
		t.Errorf("SkippedFiles = %d, want 1", analysis.Summary.SkippedFiles)
	}
}

func TestSkippedFileCountExcludesEdgeWarnings(t *testing.T) {
	// Importing a skipped binary file adds a vanished-edge warning on top
	// of the skip warning; only the skip counts as a skipped file.
	src := source.MapSource{
		"main.py": []byte("import blob\n"),
		"blob.py": {0x00, 0x01, 0x02},
	}

	a := New()
	analysis, err := a.Analyze(context.Background(), []string{"blob.py", "main.py"}, src)
	if err != nil {
		t.Fatal(err)
	}

	if len(analysis.Warnings) != 2 {
		t.Fatalf("expected skip and vanished-edge warnings, got %v", analysis.Warnings)
	}
	if analysis.Summary.SkippedFiles != 1 {
		t.Errorf("SkippedFiles = %d, want 1", analysis.Summary.SkippedFiles)
	}
}

func TestFileSizeCeiling(t *testing.T) {
	big := make([]byte, 256)
	for i := range big {
		big[i] = 'a'
	}
	src := source.MapSource{
		"main.py": []byte("pass\n"),
		"big.py":  big,
	}

	a := New(WithMaxFileSize(64))
	analysis, err := a.Analyze(context.Background(), []string{"big.py", "main.py"}, src)
	if err != nil {
		t.Fatal(err)
	}
	if len(analysis.Graph.Modules) != 1 {
		t.Errorf("oversized file should be skipped, got %d modules", len(analysis.Graph.Modules))
	}
}

func TestGoModuleImportsAreInternal(t *testing.T) {
	src := source.MapSource{
		"go.mod":                  []byte("module example.com/acme\n\ngo 1.25\n"),
		"cmd/main.go":             []byte("package main\n\nimport \"example.com/acme/internal/store\"\n"),
		"internal/store/store.go": []byte("package store\n"),
	}

	a := New()
	analysis, err := a.Analyze(context.Background(), []string{"cmd/main.go", "internal/store/store.go"}, src)
	if err != nil {
		t.Fatal(err)
	}

	if len(analysis.Graph.Edges) != 1 {
		t.Fatalf("edges = %v, want one internal edge", analysis.Graph.Edges)
	}
	e := analysis.Graph.Edges[0]
	if e.From != "cmd/main.go" || e.To != "internal/store/store.go" {
		t.Errorf("edge = %s -> %s, want cmd/main.go -> internal/store/store.go", e.From, e.To)
	}
	if analysis.Summary.ExternalRefs != 0 {
		t.Errorf("ExternalRefs = %d, want 0", analysis.Summary.ExternalRefs)
	}
}

func TestCancellationBeforeWork(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := New()
	_, err := a.Analyze(ctx, []string{"main.py"}, source.MapSource{"main.py": []byte("pass\n")})
	if err == nil {
		t.Error("expected context error when cancelled before any work merged")
	}
}

func TestEdgeMerging(t *testing.T) {
	analysis := analyzeFixture(t, map[string]string{
		"main.py": "import util\nfrom util import helper\n",
		"util.py": "pass\n",
	})

	var edge *Edge
	for i := range analysis.Graph.Edges {
		if analysis.Graph.Edges[i].From == "main.py" {
			edge = &analysis.Graph.Edges[i]
		}
	}
	if edge == nil {
		t.Fatal("expected edge main.py -> util.py")
	}
	if edge.Count != 2 {
		t.Errorf("edge count = %d, want 2", edge.Count)
	}
	if edge.Line != 1 {
		t.Errorf("edge line = %d, want earliest line 1", edge.Line)
	}
}

func TestSummaryCounts(t *testing.T) {
	analysis := analyzeFixture(t, map[string]string{
		"main.py":     "import os\nimport util\nimport pkg.missing\n",
		"util.py":     "import sys\n",
		"pkg/mod.py":  "pass\n",
		"alone.py":    "pass\n",
	})

	s := analysis.Summary
	if s.TotalModules != 4 {
		t.Errorf("TotalModules = %d, want 4", s.TotalModules)
	}
	if s.InternalEdges != 1 {
		t.Errorf("InternalEdges = %d, want 1", s.InternalEdges)
	}
	if s.ExternalRefs != 2 {
		t.Errorf("ExternalRefs = %d, want 2 (os, sys)", s.ExternalRefs)
	}
	if s.UnresolvedRefs != 1 {
		t.Errorf("UnresolvedRefs = %d, want 1", s.UnresolvedRefs)
	}
	if s.IsolatedModules != 2 {
		t.Errorf("IsolatedModules = %d, want 2 (alone.py, pkg/mod.py)", s.IsolatedModules)
	}
}

func TestMetricsEnabled(t *testing.T) {
	analysis := analyzeFixture(t, map[string]string{
		"main.py": "import util\n",
		"util.py": "pass\n",
	}, WithMetrics(true))

	if analysis.Metrics == nil {
		t.Fatal("expected metrics")
	}
	if len(analysis.Metrics.ModuleMetrics) != 2 {
		t.Errorf("ModuleMetrics = %d, want 2", len(analysis.Metrics.ModuleMetrics))
	}
	if len(analysis.Metrics.MostImported) != 1 || analysis.Metrics.MostImported[0].Path != "util.py" {
		t.Errorf("MostImported = %v, want [util.py]", analysis.Metrics.MostImported)
	}
}
