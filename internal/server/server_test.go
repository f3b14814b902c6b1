package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/seedling-dev/seedling/internal/livereload"
	"github.com/seedling-dev/seedling/internal/templates"
	"github.com/seedling-dev/seedling/internal/watcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemplatesDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "home.html"), []byte(testHomeTemplate), 0o644))
	return dir
}

func TestNewMissingTemplatesDir(t *testing.T) {
	cfg := testConfig()
	cfg.Templates.Dir = filepath.Join(t.TempDir(), "does-not-exist")

	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "templates directory")
}

func TestNewWithoutLiveReload(t *testing.T) {
	cfg := testConfig()
	cfg.Templates.Dir = writeTemplatesDir(t)
	cfg.Development.LiveReload = false

	s, err := New(cfg)
	require.NoError(t, err)
	assert.Nil(t, s.hub)
	assert.Nil(t, s.watcher)
}

func TestNewWithLiveReload(t *testing.T) {
	cfg := testConfig()
	cfg.Templates.Dir = writeTemplatesDir(t)
	cfg.Development.LiveReload = true

	s, err := New(cfg)
	require.NoError(t, err)
	defer s.Shutdown(context.Background())

	assert.NotNil(t, s.hub)
	assert.NotNil(t, s.watcher)
}

func TestLiveReloadScriptInjection(t *testing.T) {
	cfg := testConfig()
	cfg.Templates.Dir = writeTemplatesDir(t)
	cfg.Development.LiveReload = true

	s, err := New(cfg)
	require.NoError(t, err)
	defer s.Shutdown(context.Background())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	s.handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "new WebSocket")
}

func TestNoInjectionWithoutLiveReload(t *testing.T) {
	cfg := testConfig()
	cfg.Templates.Dir = writeTemplatesDir(t)
	cfg.Development.LiveReload = false

	s, err := New(cfg)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	s.handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "new WebSocket")
}

func TestHandleFileChangeInvalidatesTemplates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "home.html")
	require.NoError(t, os.WriteFile(path, []byte("before"), 0o644))

	cfg := testConfig()
	cfg.Templates.Dir = dir

	s := &Server{
		config: cfg,
		env:    templates.NewDirEnvironment(dir),
		hub:    livereload.NewHub(),
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	s.handleHome(w, req)
	assert.Contains(t, w.Body.String(), "before")

	require.NoError(t, os.WriteFile(path, []byte("after"), 0o644))
	require.NoError(t, s.handleFileChange([]watcher.ChangeEvent{
		{Type: watcher.EventTypeModified, Path: path},
	}))

	w = httptest.NewRecorder()
	s.handleHome(w, req)
	assert.Contains(t, w.Body.String(), "after")
}

func TestShutdownBeforeStart(t *testing.T) {
	cfg := testConfig()
	cfg.Templates.Dir = writeTemplatesDir(t)
	cfg.Development.LiveReload = false

	s, err := New(cfg)
	require.NoError(t, err)

	assert.NoError(t, s.Shutdown(context.Background()))
	// Shutdown is idempotent.
	assert.NoError(t, s.Shutdown(context.Background()))
}
