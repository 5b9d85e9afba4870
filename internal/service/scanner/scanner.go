// Package scanner provides the file discovery service used by commands.
package scanner

import (
	"path/filepath"

	"github.com/vestigehq/vestige/internal/scanner"
	"github.com/vestigehq/vestige/internal/vcs"
	"github.com/vestigehq/vestige/pkg/config"
	"github.com/vestigehq/vestige/pkg/lang"
)

// ScanResult contains the result of a file scan. Files are relative to Root,
// slash-separated, and sorted.
type ScanResult struct {
	Root           string
	Files          []string
	LanguageGroups map[lang.Language][]string
	RepoRoot       string
}

// Service provides file scanning functionality.
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

// New creates a new scanner service.
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

// ScanPath scans a single root directory. All returned paths are relative to
// the resolved root so they form one coherent module catalog.
func (s *Service) ScanPath(path string) (*ScanResult, error) {
	if path == "" {
		path = "."
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, &PathError{Path: path, Err: err}
	}

	scan := scanner.NewScanner(s.config)
	files, err := scan.ScanDir(absPath)
	if err != nil {
		return nil, &ScanError{Path: path, Err: err}
	}

	return &ScanResult{
		Root:           absPath,
		Files:          files,
		LanguageGroups: scan.GroupByLanguage(files),
	}, nil
}

// ScanPathForGit scans a root and also resolves the enclosing git repository.
// Returns an error when gitRequired is set and no repository is found.
func (s *Service) ScanPathForGit(path string, gitRequired bool) (*ScanResult, error) {
	result, err := s.ScanPath(path)
	if err != nil {
		return nil, err
	}

	repo, err := s.opener.PlainOpenWithDetect(result.Root)
	if err != nil {
		if gitRequired {
			return nil, &GitError{Err: err}
		}
		return result, nil
	}
	result.RepoRoot = repo.RepoPath()
	return result, nil
}

// FilterBySize drops files above maxSize, returning the kept paths and the
// number skipped. Paths are interpreted relative to root.
func (s *Service) FilterBySize(root string, files []string, maxSize int64) ([]string, int) {
	return scanner.FilterBySize(root, files, maxSize)
}

// PathError indicates an invalid path.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return "invalid path " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// ScanError indicates a scanning failure.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return "failed to scan directory " + e.Path + ": " + e.Err.Error()
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// GitError indicates the path is not inside a git repository.
type GitError struct {
	Err error
}

func (e *GitError) Error() string {
	return "not a git repository (or any parent): " + e.Err.Error()
}

func (e *GitError) Unwrap() error {
	return e.Err
}
