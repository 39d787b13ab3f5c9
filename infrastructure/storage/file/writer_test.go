package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_CreatesAndReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site", "index.html")
	w := NewWriter()

	require.NoError(t, w.Write(path, []byte("<p>极度恐慌</p>")))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<p>极度恐慌</p>", string(got))

	require.NoError(t, w.Write(path, []byte("<p>贪婪</p>")))
	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<p>贪婪</p>", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, defaultPerm, info.Mode().Perm())
}

func TestWriter_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")

	require.NoError(t, NewWriter().Write(path, []byte("x")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "index.html", entries[0].Name())
}

func TestWriter_FailureKeepsPreviousContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(path, []byte("previous"), 0o644))

	// a directory cannot be renamed over by a file, so the last step fails
	target := filepath.Join(dir, "taken")
	require.NoError(t, os.Mkdir(target, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "keep"), nil, 0o644))

	err := NewWriter().Write(target, []byte("new"))
	require.Error(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temp file must be cleaned up")
}
