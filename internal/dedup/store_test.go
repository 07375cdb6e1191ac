package dedup_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rohmanhakim/list-crawler/internal/dedup"
)

func openStore(t *testing.T, dir string) *dedup.Store {
	t.Helper()
	return dedup.Open(dir, zap.NewNop().Sugar())
}

func TestOpen_EmptyDirectory(t *testing.T) {
	s := openStore(t, t.TempDir())

	assert.True(t, s.IsNewPage("http://example.com/page/1"))
	assert.True(t, s.IsNewItem("http://example.com/q/1"))
	assert.Equal(t, 0, s.PageCount())
	assert.Equal(t, 0, s.ItemCount())
}

func TestMarkAndQuery(t *testing.T) {
	s := openStore(t, t.TempDir())

	s.MarkPageSeen("http://example.com/page/1")
	s.MarkItemSeen("http://example.com/q/1")

	assert.False(t, s.IsNewPage("http://example.com/page/1"))
	assert.True(t, s.IsNewPage("http://example.com/page/2"))
	assert.False(t, s.IsNewItem("http://example.com/q/1"))
	assert.True(t, s.IsNewItem("http://example.com/q/2"))
}

func TestMark_NeverDuplicates(t *testing.T) {
	s := openStore(t, t.TempDir())

	for i := 0; i < 5; i++ {
		s.MarkPageSeen("http://example.com/page/1")
		s.MarkItemSeen("http://example.com/q/1")
	}

	assert.Equal(t, 1, s.PageCount())
	assert.Equal(t, 1, s.ItemCount())
}

func TestPersistAndReload(t *testing.T) {
	dir := t.TempDir()

	s := openStore(t, dir)
	s.MarkPageSeen("http://example.com/page/1")
	s.MarkPageSeen("http://example.com/page/2")
	s.MarkItemSeen("http://example.com/q/1")
	require.Nil(t, s.Persist())

	reloaded := openStore(t, dir)
	assert.False(t, reloaded.IsNewPage("http://example.com/page/1"))
	assert.False(t, reloaded.IsNewPage("http://example.com/page/2"))
	assert.False(t, reloaded.IsNewItem("http://example.com/q/1"))
	assert.Equal(t, 2, reloaded.PageCount())
	assert.Equal(t, 1, reloaded.ItemCount())
}

func TestPersist_SortedDeterministicFiles(t *testing.T) {
	dir := t.TempDir()

	s := openStore(t, dir)
	s.MarkPageSeen("http://example.com/b")
	s.MarkPageSeen("http://example.com/a")
	require.Nil(t, s.Persist())

	data, err := os.ReadFile(filepath.Join(dir, "seen_list_pages.json"))
	require.NoError(t, err)

	var entries []string
	require.NoError(t, json.Unmarshal(data, &entries))
	assert.Equal(t, []string{"http://example.com/a", "http://example.com/b"}, entries)
}

func TestOpen_CorruptStateFileDegradesToEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seen_list_pages.json"), []byte("not json"), 0644))

	s := openStore(t, dir)

	assert.Equal(t, 0, s.PageCount())
	assert.True(t, s.IsNewPage("http://example.com/page/1"))

	// The store is still usable and persists over the corrupt file.
	s.MarkPageSeen("http://example.com/page/1")
	require.Nil(t, s.Persist())

	reloaded := openStore(t, dir)
	assert.False(t, reloaded.IsNewPage("http://example.com/page/1"))
}
