package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohmanhakim/list-crawler/pkg/fileutil"
)

func TestEnsureDir(t *testing.T) {
	base := t.TempDir()

	err := fileutil.EnsureDir(base, "a", "b", "c")
	require.Nil(t, err)

	info, statErr := os.Stat(filepath.Join(base, "a", "b", "c"))
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())

	// Idempotent on an existing directory.
	assert.Nil(t, fileutil.EnsureDir(base, "a", "b", "c"))
}

func TestWriteFileAtomic(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "state", "seen.json")

	require.Nil(t, fileutil.WriteFileAtomic(path, []byte(`["a"]`)))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `["a"]`, string(got))

	// Overwrite replaces content completely.
	require.Nil(t, fileutil.WriteFileAtomic(path, []byte(`["a","b"]`)))
	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`, string(got))
}

func TestWriteFileAtomic_LeavesNoTempFiles(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "seen.json")

	require.Nil(t, fileutil.WriteFileAtomic(path, []byte("x")))

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "seen.json", entries[0].Name())
}

func TestOpenAppend(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "logs", "items.jsonl")

	f, err := fileutil.OpenAppend(path)
	require.Nil(t, err)
	_, writeErr := f.WriteString("one\n")
	require.NoError(t, writeErr)
	require.NoError(t, f.Close())

	f, err = fileutil.OpenAppend(path)
	require.Nil(t, err)
	_, writeErr = f.WriteString("two\n")
	require.NoError(t, writeErr)
	require.NoError(t, f.Close())

	got, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "one\ntwo\n", string(got))
}
