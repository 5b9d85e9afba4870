package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vestigehq/vestige/internal/vcs"
	"github.com/vestigehq/vestige/pkg/config"
	"github.com/vestigehq/vestige/pkg/lang"
)

type stubOpener struct {
	root string
	err  error
}

func (o *stubOpener) PlainOpenWithDetect(path string) (vcs.Repository, error) {
	if o.err != nil {
		return nil, o.err
	}
	return &stubRepo{root: o.root}, nil
}

type stubRepo struct {
	root string
}

func (r *stubRepo) RepoPath() string { return r.root }

func (r *stubRepo) ResolveTree(string) (vcs.Tree, error) {
	return nil, errors.New("not implemented")
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScanPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.py", "import util\n")
	writeFile(t, dir, "util.py", "x = 1\n")
	writeFile(t, dir, "web/app.js", "const x = 1\n")
	writeFile(t, dir, "vendor/dep.py", "y = 2\n")
	writeFile(t, dir, "notes.txt", "not source\n")

	cfg := config.DefaultConfig()
	cfg.Exclude.Gitignore = false
	svc := New(WithConfig(cfg), WithOpener(&stubOpener{}))

	result, err := svc.ScanPath(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"main.py", "util.py", "web/app.js"}, result.Files)
	assert.Equal(t, dir, result.Root)
	assert.Equal(t, []string{"web/app.js"}, result.LanguageGroups[lang.LangJavaScript])
	assert.Len(t, result.LanguageGroups[lang.LangPython], 2)
}

func TestScanPathMissing(t *testing.T) {
	cfg := config.DefaultConfig()
	svc := New(WithConfig(cfg), WithOpener(&stubOpener{}))

	_, err := svc.ScanPath(filepath.Join(t.TempDir(), "does-not-exist"))
	var scanErr *ScanError
	require.ErrorAs(t, err, &scanErr)
}

func TestScanPathForGit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.py", "x = 1\n")

	cfg := config.DefaultConfig()
	cfg.Exclude.Gitignore = false

	t.Run("found", func(t *testing.T) {
		svc := New(WithConfig(cfg), WithOpener(&stubOpener{root: dir}))
		result, err := svc.ScanPathForGit(dir, true)
		require.NoError(t, err)
		assert.Equal(t, dir, result.RepoRoot)
	})

	t.Run("required but missing", func(t *testing.T) {
		svc := New(WithConfig(cfg), WithOpener(&stubOpener{err: errors.New("no repo")}))
		_, err := svc.ScanPathForGit(dir, true)
		var gitErr *GitError
		require.ErrorAs(t, err, &gitErr)
	})

	t.Run("optional and missing", func(t *testing.T) {
		svc := New(WithConfig(cfg), WithOpener(&stubOpener{err: errors.New("no repo")}))
		result, err := svc.ScanPathForGit(dir, false)
		require.NoError(t, err)
		assert.Empty(t, result.RepoRoot)
	})
}

func TestFilterBySize(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "small.py", "x = 1\n")
	writeFile(t, dir, "big.py", string(make([]byte, 100)))

	cfg := config.DefaultConfig()
	svc := New(WithConfig(cfg), WithOpener(&stubOpener{}))

	kept, skipped := svc.FilterBySize(dir, []string{"small.py", "big.py"}, 50)
	assert.Equal(t, []string{"small.py"}, kept)
	assert.Equal(t, 1, skipped)
}
