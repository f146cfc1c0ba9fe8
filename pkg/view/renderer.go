package view

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Engine is the long-lived half of the view layer. It owns the
// configuration, the base function map, and the parse cache, and hands
// out per-request Renderers. All Engine methods are concurrent-safe.
type Engine struct {
	logger *slog.Logger
	config *Config
	funcs  template.FuncMap
	cache  map[string]*template.Template
	mu     sync.RWMutex
}

// NewEngine creates an Engine for the view root named in config. The
// root directory must exist; a nil config selects defaults.
func NewEngine(logger *slog.Logger, config *Config) (*Engine, error) {
	if config == nil {
		config = DefaultConfig()
	}
	info, err := os.Stat(config.Dir)
	if err != nil {
		return nil, fmt.Errorf("view root %q: %w", config.Dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("view root %q is not a directory", config.Dir)
	}

	e := &Engine{
		logger: logger,
		config: config,
		funcs:  baseFuncMap(),
		cache:  make(map[string]*template.Template),
	}
	logger.Info("View engine initialized", "dir", config.Dir, "ext", config.Ext)
	return e, nil
}

// SetConfig applies a new configuration and flushes the parse cache, so
// changes to the view root or extension take effect immediately.
func (e *Engine) SetConfig(config *Config) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.config = config
	e.cache = make(map[string]*template.Template)
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return *e.config
}

// FlushCache drops every cached parse. Subsequent renders re-read their
// view files from disk, which makes template edits visible without a
// restart.
func (e *Engine) FlushCache() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache = make(map[string]*template.Template)
	e.logger.Info("View cache flushed")
}

// ViewNames walks the view root and returns the logical names of every
// view file found under it.
func (e *Engine) ViewNames() ([]string, error) {
	cfg := e.GetConfig()
	root := filepath.Clean(cfg.Dir)

	var names []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, cfg.Ext) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		names = append(names, strings.TrimSuffix(filepath.ToSlash(rel), cfg.Ext))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk view root: %w", err)
	}
	return names, nil
}

// Renderer creates the per-request renderer bound to the given ambient
// context and output channel. A Renderer owns its capture stack
// exclusively and must not be shared across concurrently executing
// requests; nested renders within one request are ordinary recursive
// calls through the same Renderer.
func (e *Engine) Renderer(ctx *Context, out io.Writer) *Renderer {
	return &Renderer{engine: e, ctx: ctx, out: out}
}

// load returns the pristine parsed template for the view file at path.
// Cached parses are never executed directly; every render clones one, so
// the cache entry stays clonable.
func (e *Engine) load(path, name string) (*template.Template, error) {
	e.mu.RLock()
	cached, ok := e.cache[path]
	cacheEnabled := e.config.CacheEnabled
	e.mu.RUnlock()
	if ok {
		return cached, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New(name).Funcs(e.funcs).Parse(string(content))
	if err != nil {
		return nil, err
	}

	if cacheEnabled {
		e.mu.Lock()
		e.cache[path] = tmpl
		e.mu.Unlock()
	}
	return tmpl, nil
}

// Renderer executes views for a single request/response cycle. It is
// created per request via Engine.Renderer and is not safe for concurrent
// use; the capture stack it owns relies on strictly LIFO, single-threaded
// render calls.
type Renderer struct {
	engine  *Engine
	ctx     *Context
	out     io.Writer
	capture captureStack
}

// Context returns the ambient context the Renderer was created with.
func (r *Renderer) Context() *Context {
	return r.ctx
}

// Render resolves and executes the named view in emit mode: the captured
// output is sanitized exactly once and written to the renderer's output
// channel.
//
// A missing view is a soft failure: it is logged with the attempted path
// and nothing is emitted, leaving the surrounding request to continue.
// Errors raised by the view body itself propagate to the caller after the
// capture frame has been released.
func (r *Renderer) Render(name string, vars Vars) error {
	text, err := r.execute(name, vars)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			r.engine.logger.Warn("View not found, emitting nothing", "view", name, "path", nf.Path)
			return nil
		}
		return err
	}

	if r.engine.GetConfig().SanitizeOutput {
		text = Sanitize(text)
	}
	if _, err = io.WriteString(r.out, text); err != nil {
		return fmt.Errorf("emit view %q: %w", name, err)
	}
	return nil
}

// RenderString resolves and executes the named view in return mode: the
// captured text is returned raw, without sanitization, so callers nesting
// renders can re-process or re-embed it. Sanitization happens once, at
// the outermost emit boundary.
//
// A missing view returns "" and an error matching ErrTemplateNotFound.
func (r *Renderer) RenderString(name string, vars Vars) (string, error) {
	return r.execute(name, vars)
}

// execute runs the render state machine: resolve, open a capture frame,
// bind the scope, execute the view body, close the frame. Resolution
// happens before the frame is opened, so a missing view has no effect on
// capture state. The frame is released on every exit path, including
// panics out of the view body.
func (r *Renderer) execute(name string, vars Vars) (string, error) {
	cfg := r.engine.GetConfig()

	path, err := resolver{dir: cfg.Dir, ext: cfg.Ext}.resolve(name)
	if err != nil {
		return "", err
	}

	base, err := r.engine.load(path, name)
	if err != nil {
		return "", fmt.Errorf("parse view %q: %w", name, err)
	}
	tmpl, err := base.Clone()
	if err != nil {
		return "", fmt.Errorf("clone view %q: %w", name, err)
	}
	tmpl = tmpl.Funcs(r.funcs())

	scope := bindScope(r.ctx, r, vars)

	f := r.capture.open()
	closed := false
	defer func() {
		if !closed {
			_, _ = r.capture.close(f)
		}
	}()

	execErr := tmpl.Execute(&f.buf, scope)
	text, closeErr := r.capture.close(f)
	closed = true

	if execErr != nil {
		return "", fmt.Errorf("execute view %q: %w", name, execErr)
	}
	if closeErr != nil {
		return "", closeErr
	}
	return text, nil
}
