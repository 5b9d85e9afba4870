package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesystemSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.py")
	require.NoError(t, os.WriteFile(path, []byte("import os\n"), 0o644))

	src := NewFilesystem()
	content, err := src.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "import os\n", string(content))

	_, err = src.Read(filepath.Join(dir, "missing.py"))
	assert.Error(t, err)
}

func TestMapSource(t *testing.T) {
	src := MapSource{"lib/a.py": []byte("x = 1\n")}

	content, err := src.Read("lib/a.py")
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(content))

	_, err = src.Read("lib/b.py")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
