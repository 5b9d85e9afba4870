// Package analysis orchestrates dependency analysis runs for commands.
package analysis

import (
	"context"
	"path"
	"sort"
	"strings"

	"github.com/vestigehq/vestige/internal/vcs"
	"github.com/vestigehq/vestige/pkg/analyzer/deps"
	"github.com/vestigehq/vestige/pkg/config"
	"github.com/vestigehq/vestige/pkg/lang"
	"github.com/vestigehq/vestige/pkg/source"
)

// Service orchestrates dependency analysis operations.
type Service struct {
	config *config.Config
	opener vcs.Opener
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithOpener sets the VCS opener (for testing).
func WithOpener(opener vcs.Opener) Option {
	return func(s *Service) {
		s.opener = opener
	}
}

// New creates a new analysis service.
func New(opts ...Option) *Service {
	s := &Service{
		config: config.LoadOrDefault(),
		opener: vcs.DefaultOpener(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DepsOptions configures a dependency analysis run.
type DepsOptions struct {
	MaxFileSize int64
	Workers     int
	Metrics     bool
	OnProgress  func()
}

// AnalyzeDeps runs dependency analysis over files relative to root on the
// working tree.
func (s *Service) AnalyzeDeps(ctx context.Context, root string, files []string, opts DepsOptions) (*deps.Analysis, error) {
	analyzer := deps.New(s.analyzerOptions(opts)...)
	return analyzer.Analyze(ctx, files, source.NewFilesystemAt(root))
}

// AnalyzeDepsAtRevision runs dependency analysis over the tree at a git
// revision instead of the working tree. An empty revision means HEAD.
func (s *Service) AnalyzeDepsAtRevision(ctx context.Context, repoPath, rev string, opts DepsOptions) (*deps.Analysis, error) {
	repo, err := s.opener.PlainOpenWithDetect(repoPath)
	if err != nil {
		return nil, &RevisionError{Rev: rev, Err: err}
	}
	tree, err := repo.ResolveTree(rev)
	if err != nil {
		return nil, &RevisionError{Rev: rev, Err: err}
	}

	paths, err := tree.Paths()
	if err != nil {
		return nil, &RevisionError{Rev: rev, Err: err}
	}
	files := s.filterTreePaths(paths)

	analyzer := deps.New(s.analyzerOptions(opts)...)
	return analyzer.Analyze(ctx, files, source.NewTree(tree))
}

func (s *Service) analyzerOptions(opts DepsOptions) []deps.Option {
	analyzerOpts := []deps.Option{deps.WithConfig(s.config)}
	if opts.MaxFileSize > 0 {
		analyzerOpts = append(analyzerOpts, deps.WithMaxFileSize(opts.MaxFileSize))
	}
	if opts.Workers > 0 {
		analyzerOpts = append(analyzerOpts, deps.WithWorkers(opts.Workers))
	}
	if opts.Metrics {
		analyzerOpts = append(analyzerOpts, deps.WithMetrics(true))
	}
	if opts.OnProgress != nil {
		analyzerOpts = append(analyzerOpts, deps.WithProgress(opts.OnProgress))
	}
	return analyzerOpts
}

// filterTreePaths keeps supported source files from a git tree listing,
// applying the configured directory and pattern exclusions. Git trees are
// not walked by the filesystem scanner, so exclusions are re-applied here.
func (s *Service) filterTreePaths(paths []string) []string {
	excludedDirs := make(map[string]bool, len(s.config.Exclude.Dirs))
	for _, d := range s.config.Exclude.Dirs {
		excludedDirs[d] = true
	}

	var files []string
	for _, p := range paths {
		if lang.DetectLanguage(p) == lang.LangUnknown {
			continue
		}
		if hasExcludedSegment(p, excludedDirs) {
			continue
		}
		if matchesAnyPattern(path.Base(p), s.config.Exclude.Patterns) {
			continue
		}
		files = append(files, p)
	}
	sort.Strings(files)
	return files
}

func hasExcludedSegment(p string, dirs map[string]bool) bool {
	for _, seg := range strings.Split(path.Dir(p), "/") {
		if dirs[seg] {
			return true
		}
	}
	return false
}

func matchesAnyPattern(base string, patterns []string) bool {
	for _, pat := range patterns {
		if ok, err := path.Match(pat, base); err == nil && ok {
			return true
		}
	}
	return false
}

// RevisionError indicates a git revision could not be analyzed.
type RevisionError struct {
	Rev string
	Err error
}

func (e *RevisionError) Error() string {
	rev := e.Rev
	if rev == "" {
		rev = "HEAD"
	}
	return "cannot analyze revision " + rev + ": " + e.Err.Error()
}

func (e *RevisionError) Unwrap() error {
	return e.Err
}
