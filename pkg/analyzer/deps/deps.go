// Package deps builds a file-level dependency graph from lexical import
// extraction, detects circular dependencies, and flags modules that are
// unreachable from any entry point as dead-code candidates with a
// confidence score.
package deps

import (
	"context"
	"encoding/hex"
	"sort"
	"strings"
	"sync"

	"github.com/vestigehq/vestige/internal/fileproc"
	"github.com/vestigehq/vestige/pkg/config"
	"github.com/vestigehq/vestige/pkg/lang"
	"github.com/vestigehq/vestige/pkg/source"
	"github.com/zeebo/blake3"
)

// ContentSource is an alias for source.ContentSource.
type ContentSource = source.ContentSource

// Analyzer runs the dependency and dead-code engine over a file catalog.
type Analyzer struct {
	cfg         *config.Config
	maxFileSize int64
	workers     int
	metrics     bool
	onProgress  func()
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithConfig applies analysis settings from a loaded config.
func WithConfig(cfg *config.Config) Option {
	return func(a *Analyzer) {
		a.cfg = cfg
		a.maxFileSize = cfg.Analysis.MaxFileSize
		a.workers = cfg.Analysis.Workers
		a.metrics = cfg.Analysis.Metrics
	}
}

// WithMaxFileSize sets the per-file size ceiling (0 = no limit).
func WithMaxFileSize(maxSize int64) Option {
	return func(a *Analyzer) {
		a.maxFileSize = maxSize
	}
}

// WithWorkers sets the extraction pool size (0 = 2x NumCPU).
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		a.workers = n
	}
}

// WithMetrics enables structural graph metrics on the result.
func WithMetrics(enabled bool) Option {
	return func(a *Analyzer) {
		a.metrics = enabled
	}
}

// WithProgress sets a callback invoked once per processed file.
func WithProgress(fn func()) Option {
	return func(a *Analyzer) {
		a.onProgress = fn
	}
}

// New creates a dependency analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{cfg: config.DefaultConfig()}
	a.maxFileSize = a.cfg.Analysis.MaxFileSize
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// warningLog collects non-fatal warnings from concurrent workers. Files
// skipped before extraction are counted apart from other warning kinds so
// the summary's skip total stays auditable.
type warningLog struct {
	mu      sync.Mutex
	list    []Warning
	skipped int
}

func (w *warningLog) add(path, reason string) {
	w.mu.Lock()
	w.list = append(w.list, Warning{Path: path, Reason: reason})
	w.mu.Unlock()
}

// addSkip records a warning for a file dropped from the catalog and bumps
// the skipped-file count.
func (w *warningLog) addSkip(path, reason string) {
	w.mu.Lock()
	w.list = append(w.list, Warning{Path: path, Reason: reason})
	w.skipped++
	w.mu.Unlock()
}

// Analyze runs the full engine: parallel extraction and resolution over
// the catalog, a single-threaded merge into the immutable graph, then
// cycle detection, reachability, and confidence scoring on the frozen
// graph.
//
// An empty catalog yields an empty analysis, not an error. Cancellation
// stops submission of new files; in-flight work finishes and merges, and
// the partial result is flagged. Per-file failures never abort the run.
func (a *Analyzer) Analyze(ctx context.Context, files []string, src ContentSource) (*Analysis, error) {
	warnings := &warningLog{}

	resolver := newResolver(files)
	resolver.goModule = goModulePath(src)
	results := fileproc.ForEachFileContext(ctx, files, a.workers,
		func(path string) (fileResult, error) {
			return a.processFile(path, src, resolver)
		},
		a.onProgress,
		func(path string, err error) {
			warnings.addSkip(path, err.Error())
		},
	)

	if err := ctx.Err(); err != nil && len(results) == 0 {
		return nil, err
	}

	// Everything below is the single coordinating pass; no worker runs
	// past this point.
	classifier := newRootClassifier(a.cfg.DeadCode.EntryPatterns)
	for i := range results {
		classifier.classify(&results[i].module, results[i].stats)
	}

	graph, dropped := buildGraph(results, warnings.add)
	graph.Freeze()

	cycles := detectCycles(graph)
	visited := reachable(graph)

	sc := newScorer(a.cfg.DeadCode.PluginPatterns, a.cfg.DeadCode.SkippedDirs, results)
	var candidates []Candidate
	for _, m := range unreachedModules(graph, visited) {
		candidates = append(candidates, sc.score(m))
	}
	sort.Slice(candidates, func(i, j int) bool {
		ri, rj := candidates[i].Confidence.rank(), candidates[j].Confidence.rank()
		if ri != rj {
			return ri < rj
		}
		return candidates[i].Path < candidates[j].Path
	})

	analysis := &Analysis{
		Graph:      graph,
		Cycles:     cycles,
		Candidates: candidates,
		Warnings:   warnings.list,
		Partial:    ctx.Err() != nil,
	}
	analysis.Summary = summarize(graph, cycles, candidates, warnings.skipped, dropped)

	if a.metrics {
		analysis.Metrics = computeMetrics(graph)
	}

	return analysis, nil
}

// goModulePath returns the module directive of a go.mod at the catalog
// root, or empty when the source has none. Go import paths carry it as a
// prefix on intra-repo imports.
func goModulePath(src ContentSource) string {
	content, err := src.Read("go.mod")
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(content), "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == "module" {
			return strings.Trim(fields[1], `"`)
		}
	}
	return ""
}

// processFile is the per-file worker: read, scan, resolve. Runs in the
// pool; touches no shared state beyond the read-only resolver.
func (a *Analyzer) processFile(path string, src ContentSource, r *resolver) (fileResult, error) {
	content, err := src.Read(path)
	if err != nil {
		return fileResult{}, err
	}
	if a.maxFileSize > 0 && int64(len(content)) > a.maxFileSize {
		return fileResult{}, errFileTooLarge
	}
	if isBinary(content) {
		return fileResult{}, errBinaryFile
	}

	l := lang.DetectLanguage(path)
	ex := extract(l, content)

	sum := blake3.Sum256(content)
	module := Module{
		Path:           path,
		Lang:           l.String(),
		Size:           int64(len(content)),
		Lines:          ex.Lines,
		ContentHash:    hex.EncodeToString(sum[:]),
		HasDynamicRefs: ex.Dynamic,
	}

	refs := make([]Reference, 0, len(ex.Refs))
	for _, raw := range ex.Refs {
		kind, target := r.resolve(path, l, raw.Token)
		switch kind {
		case KindExternal:
			module.ExternalRefs++
		case KindUnresolved:
			module.UnresolvedRefs++
		}
		refs = append(refs, Reference{
			Source: path,
			Token:  raw.Token,
			Line:   raw.Line,
			Kind:   kind,
			Target: target,
		})
	}

	return fileResult{module: module, refs: refs, quoted: ex.Quoted, stats: ex}, nil
}

func summarize(g *Graph, cycles []Cycle, candidates []Candidate, skipped int, dropped int) Summary {
	s := Summary{
		TotalModules:   len(g.Modules),
		InternalEdges:  len(g.Edges),
		CycleCount:     len(cycles),
		CandidateCount: len(candidates),
		SkippedFiles:   skipped,
		DroppedRefs:    dropped,
	}
	for _, m := range g.Modules {
		s.ExternalRefs += m.ExternalRefs
		s.UnresolvedRefs += m.UnresolvedRefs
		if len(g.Out(m.Path)) == 0 && len(g.In(m.Path)) == 0 {
			s.IsolatedModules++
		}
		if IsRoot(&m) {
			s.RootModules++
		}
	}
	for _, c := range candidates {
		s.SavingsLines += c.Lines
		s.SavingsBytes += c.Size
	}
	return s
}
