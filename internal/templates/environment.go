// Package templates provides the directory-backed template environment the
// server renders pages through.
//
// The environment's contract is deliberately small: given a template
// identifier and a context of key-value substitutions, produce rendered HTML
// or fail. Templates are parsed lazily and cached, so each file is parsed at
// most once between invalidations. The environment is safe for concurrent
// use; after construction the parse cache is the only mutable state.
package templates

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"sync"
)

// Context carries the values a template is rendered against.
type Context map[string]any

// Environment loads named templates from a filesystem and renders them
// against a Context.
type Environment struct {
	fsys fs.FS

	cacheMu sync.RWMutex
	cache   map[string]*template.Template
}

// NewEnvironment returns an Environment reading templates from fsys.
func NewEnvironment(fsys fs.FS) *Environment {
	return &Environment{
		fsys:  fsys,
		cache: make(map[string]*template.Template),
	}
}

// NewDirEnvironment returns an Environment reading templates from dir on
// disk.
func NewDirEnvironment(dir string) *Environment {
	return NewEnvironment(os.DirFS(dir))
}

// Render executes the named template against ctx and writes the result to
// out.
func (e *Environment) Render(out io.Writer, name string, ctx Context) error {
	tmpl, err := e.lookup(name)
	if err != nil {
		return err
	}
	if err := tmpl.Execute(out, ctx); err != nil {
		return fmt.Errorf("rendering template %q: %w", name, err)
	}
	return nil
}

// Invalidate drops all cached templates so the next render re-parses them
// from the filesystem. The file watcher calls this when template files
// change.
func (e *Environment) Invalidate() {
	e.cacheMu.Lock()
	e.cache = make(map[string]*template.Template)
	e.cacheMu.Unlock()
}

func (e *Environment) lookup(name string) (*template.Template, error) {
	e.cacheMu.RLock()
	tmpl := e.cache[name]
	e.cacheMu.RUnlock()
	if tmpl != nil {
		return tmpl, nil
	}

	tmpl, err := template.ParseFS(e.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("loading template %q: %w", name, err)
	}

	e.cacheMu.Lock()
	e.cache[name] = tmpl
	e.cacheMu.Unlock()

	return tmpl, nil
}
