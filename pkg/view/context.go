package view

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"html"
	"html/template"
	"net/http"
)

// SessionAccessor is the read surface the renderer exposes to views for
// the current request's session. The concrete implementation lives with
// the host (see pkg/session); the view layer never writes through it.
type SessionAccessor interface {
	Get(name string) any
	Has(name string) bool
}

// AuthAccessor reports the authentication state of the current request.
type AuthAccessor interface {
	// Check reports whether the request is authenticated.
	Check() bool
	// UserID returns the authenticated user's identifier, or "" when
	// Check is false.
	UserID() string
}

// Context is the ambient services object supplied once per request when a
// Renderer is created. It is shared, read-only from the renderer's
// perspective, across every render call (including nested ones) made
// through that Renderer. The renderer never mutates it.
type Context struct {
	Request    *http.Request
	Session    SessionAccessor
	Auth       AuthAccessor
	Security   *Security
	Components *Components
	Utils      *Utils

	// Services is an arbitrary name -> service lookup for anything the
	// host wants reachable from views beyond the fixed ambient set.
	Services map[string]any
}

// NewContext builds a Context with a fresh Security helper and empty
// component registry. Callers fill in the remaining fields as needed.
func NewContext(req *http.Request, sess SessionAccessor, auth AuthAccessor) *Context {
	return &Context{
		Request:    req,
		Session:    sess,
		Auth:       auth,
		Security:   NewSecurity(),
		Components: NewComponents(),
		Utils:      &Utils{},
	}
}

// Service looks up a host-registered service by name, returning nil when
// no such service exists.
func (c *Context) Service(name string) any {
	if c.Services == nil {
		return nil
	}
	return c.Services[name]
}

// Security is the per-request security helper exposed to every view. It
// carries the CSRF token for the request and escaping utilities.
type Security struct {
	token string
}

// NewSecurity creates a Security helper with a random CSRF token.
func NewSecurity() *Security {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return &Security{token: hex.EncodeToString(buf)}
}

// NewSecurityWithToken creates a Security helper reusing an existing
// token, typically the one stored in the session.
func NewSecurityWithToken(token string) *Security {
	return &Security{token: token}
}

// Token returns the CSRF token for the current request.
func (s *Security) Token() string { return s.token }

// FormField returns a hidden input carrying the CSRF token, for inclusion
// inside forms.
func (s *Security) FormField() template.HTML {
	return template.HTML(fmt.Sprintf(`<input type="hidden" name="_token" value="%s">`, html.EscapeString(s.token)))
}

// Escape HTML-escapes s. Views rendered through html/template get
// contextual escaping already; this exists for values assembled by hand.
func (s *Security) Escape(v string) string { return html.EscapeString(v) }

// Components is the registry of named components: reusable view fragments
// registered by the host under a short name, rendered from any view via
// the component template function.
type Components struct {
	views map[string]string
}

// NewComponents returns an empty component registry.
func NewComponents() *Components {
	return &Components{views: make(map[string]string)}
}

// Register binds name to the logical view that renders the component.
// Registering an existing name replaces the previous binding.
func (c *Components) Register(name, viewName string) {
	c.views[name] = viewName
}

// Resolve returns the logical view name registered under name, or "".
func (c *Components) Resolve(name string) string {
	return c.views[name]
}

// Names returns the registered component names. Order is unspecified.
func (c *Components) Names() []string {
	names := make([]string, 0, len(c.views))
	for name := range c.views {
		names = append(names, name)
	}
	return names
}
