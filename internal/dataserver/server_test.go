package dataserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohmanhakim/list-crawler/internal/logging"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "items.jsonl"), []byte(`{"url":"https://example.com/a"}`+"\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "archive"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "archive", "old.jsonl"), []byte("{}\n"), 0o644))

	return NewServer(dir, logging.NewNop()), dir
}

func get(t *testing.T, server *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	server, dir := newTestServer(t)

	rec := get(t, server, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, dir, body["data_dir"])
}

func TestListFilesRoot(t *testing.T) {
	server, _ := newTestServer(t)

	rec := get(t, server, "/api/files/")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Path    string     `json:"path"`
		Entries []FileInfo `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "/", body.Path)
	require.Len(t, body.Entries, 2)

	// Directories sort first.
	assert.Equal(t, "archive", body.Entries[0].Name)
	assert.True(t, body.Entries[0].IsDir)
	assert.Equal(t, "items.jsonl", body.Entries[1].Name)
	assert.False(t, body.Entries[1].IsDir)
	assert.Positive(t, body.Entries[1].Size)
	assert.NotEmpty(t, body.Entries[1].Modified)
}

func TestListFilesSingleFile(t *testing.T) {
	server, _ := newTestServer(t)

	rec := get(t, server, "/api/files/items.jsonl")
	require.Equal(t, http.StatusOK, rec.Code)

	var info FileInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "items.jsonl", info.Name)
	assert.False(t, info.IsDir)
}

func TestListFilesMissingPath(t *testing.T) {
	server, _ := newTestServer(t)

	rec := get(t, server, "/api/files/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadFile(t *testing.T) {
	server, _ := newTestServer(t)

	rec := get(t, server, "/files/items.jsonl")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://example.com/a")
}

func TestDownloadDirectoryRejected(t *testing.T) {
	server, _ := newTestServer(t)

	rec := get(t, server, "/files/archive")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPathTraversalRejected(t *testing.T) {
	server, dir := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(dir), "secret.txt"), []byte("secret"), 0o644))

	rec := get(t, server, "/files/..%2Fsecret.txt")
	assert.NotEqual(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")
}
