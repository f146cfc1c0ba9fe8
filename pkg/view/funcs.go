package view

import (
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"
)

// baseFuncMap returns the function map views are parsed with. The render
// and component entries are placeholders so that view files referencing
// them parse cleanly; every execution overrides them with closures bound
// to the current Renderer.
func baseFuncMap() template.FuncMap {
	return template.FuncMap{
		"render":    renderUnbound,
		"component": renderUnbound,
		"dict":      dict,
		"safe":      safe,
		"upper":     strings.ToUpper,
		"lower":     strings.ToLower,
		"trim":      strings.TrimSpace,
	}
}

// funcs returns the per-execution function map, with the nested-render
// entry points bound to this Renderer.
func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"render":    r.renderFunc,
		"component": r.componentFunc,
	}
}

func renderUnbound(string, ...any) (template.HTML, error) {
	return "", errors.New("render is only available during view execution")
}

// renderFunc is the `render` template function: a nested, return-mode
// render of another view, invoked as
//
//	{{render "partials/item" "title" .title "n" 3}}
//
// The result is raw captured text, embedded without sanitization; the
// pipeline runs once at the outermost emit boundary. A missing nested
// view logs a warning and yields nothing, so the surrounding page
// continues rendering.
func (r *Renderer) renderFunc(name string, pairs ...any) (template.HTML, error) {
	vars, err := dict(pairs...)
	if err != nil {
		return "", fmt.Errorf("render %q: %w", name, err)
	}
	text, err := r.RenderString(name, vars)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			r.engine.logger.Warn("Nested view not found, embedding nothing", "view", name, "path", nf.Path)
			return "", nil
		}
		return "", err
	}
	return template.HTML(text), nil
}

// componentFunc is the `component` template function: like render, but
// the name is looked up in the ambient component registry first.
func (r *Renderer) componentFunc(name string, pairs ...any) (template.HTML, error) {
	if r.ctx == nil || r.ctx.Components == nil {
		return "", nil
	}
	viewName := r.ctx.Components.Resolve(name)
	if viewName == "" {
		r.engine.logger.Warn("Unknown component, embedding nothing", "component", name)
		return "", nil
	}
	return r.renderFunc(viewName, pairs...)
}

// dict builds a Vars map from alternating key/value arguments. Keys must
// be strings.
func dict(pairs ...any) (Vars, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict requires an even number of arguments")
	}
	vars := make(Vars, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict key %v is not a string", pairs[i])
		}
		vars[key] = pairs[i+1]
	}
	return vars, nil
}

// safe marks s as trusted HTML, exempting it from contextual escaping.
func safe(s string) template.HTML {
	return template.HTML(s)
}

// Utils is the grab-bag helper object exposed to every view as `utils`.
type Utils struct{}

// Truncate cuts s down to at most n runes.
func (Utils) Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// FormatTime formats t using the given reference layout.
func (Utils) FormatTime(t time.Time, layout string) string {
	return t.Format(layout)
}

// Default returns v unless it is nil or an empty string, in which case
// fallback is returned.
func (Utils) Default(v, fallback any) any {
	if v == nil || v == "" {
		return fallback
	}
	return v
}
