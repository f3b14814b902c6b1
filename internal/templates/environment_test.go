package templates

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	env := NewEnvironment(fstest.MapFS{
		"home.html": {Data: []byte(`<h1>{{ .title }}</h1>`)},
	})

	var buf bytes.Buffer
	err := env.Render(&buf, "home.html", Context{"title": "Home"})
	require.NoError(t, err)
	assert.Equal(t, "<h1>Home</h1>", buf.String())
}

func TestRenderMissingTemplate(t *testing.T) {
	env := NewEnvironment(fstest.MapFS{})

	var buf bytes.Buffer
	err := env.Render(&buf, "nope.html", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.html")
}

func TestRenderCachesParsedTemplates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "home.html")
	require.NoError(t, os.WriteFile(path, []byte("first"), 0o644))

	env := NewDirEnvironment(dir)

	var buf bytes.Buffer
	require.NoError(t, env.Render(&buf, "home.html", nil))
	assert.Equal(t, "first", buf.String())

	// A change on disk is invisible until the cache is invalidated.
	require.NoError(t, os.WriteFile(path, []byte("second"), 0o644))

	buf.Reset()
	require.NoError(t, env.Render(&buf, "home.html", nil))
	assert.Equal(t, "first", buf.String())

	env.Invalidate()

	buf.Reset()
	require.NoError(t, env.Render(&buf, "home.html", nil))
	assert.Equal(t, "second", buf.String())
}

func TestRenderConcurrent(t *testing.T) {
	env := NewEnvironment(fstest.MapFS{
		"home.html": {Data: []byte(`{{ .title }}`)},
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var buf bytes.Buffer
			assert.NoError(t, env.Render(&buf, "home.html", Context{"title": "x"}))
			assert.Equal(t, "x", buf.String())
		}()
	}
	wg.Wait()
}
