// Package source abstracts where file content is read from: the working
// tree, a git revision, or an in-memory map in tests.
package source

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/vestigehq/vestige/internal/vcs"
)

// ContentSource provides file content from a specific source.
type ContentSource interface {
	// Read returns the content of the file at path.
	Read(path string) ([]byte, error)
}

// FilesystemSource reads files from the local filesystem, optionally
// resolving catalog-relative paths against a root directory.
type FilesystemSource struct {
	root string
}

// NewFilesystem creates a source that reads paths as given.
func NewFilesystem() *FilesystemSource {
	return &FilesystemSource{}
}

// NewFilesystemAt creates a source that resolves paths relative to root.
func NewFilesystemAt(root string) *FilesystemSource {
	return &FilesystemSource{root: root}
}

// Read implements ContentSource.
func (f *FilesystemSource) Read(path string) ([]byte, error) {
	if f.root != "" {
		path = filepath.Join(f.root, filepath.FromSlash(path))
	}
	return os.ReadFile(path)
}

// TreeSource reads files from a git tree at a fixed revision.
// It is safe for concurrent use by multiple goroutines.
type TreeSource struct {
	tree vcs.Tree
	mu   sync.Mutex
}

// NewTree creates a source that reads from a git tree.
func NewTree(tree vcs.Tree) *TreeSource {
	return &TreeSource{tree: tree}
}

// Read implements ContentSource. It is safe for concurrent use.
func (t *TreeSource) Read(path string) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tree.File(path)
}

// MapSource serves content from an in-memory map. Intended for tests.
type MapSource map[string][]byte

// Read implements ContentSource.
func (m MapSource) Read(path string) ([]byte, error) {
	content, ok := m[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return content, nil
}
