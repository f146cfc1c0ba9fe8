package main

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/calyx-web/calyx/pkg/session"
	"github.com/calyx-web/calyx/pkg/view"
)

const sessionCookie = "calyx_session"

// Server holds the state and dependencies for page serving and the
// management API.
type Server struct {
	config   *Config
	db       *sql.DB
	logger   *slog.Logger
	engine   *view.Engine
	sessions *session.Store
	viewAPI  *ViewAPI
	mux      *http.ServeMux
}

// NewServer creates and initializes a new server instance with all its
// dependencies.
func NewServer(config *Config, db *sql.DB, logger *slog.Logger, engine *view.Engine, sessions *session.Store) *Server {
	s := &Server{
		config:   config,
		db:       db,
		logger:   logger,
		engine:   engine,
		sessions: sessions,
		mux:      http.NewServeMux(),
	}
	s.viewAPI = NewViewAPI(engine, logger)
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handlePage)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	admin := s.requireAdmin
	s.mux.Handle("GET /api/views", admin(http.HandlerFunc(s.viewAPI.handleListViews)))
	s.mux.Handle("POST /api/views/flush", admin(http.HandlerFunc(s.viewAPI.handleFlushCache)))
	s.mux.Handle("POST /api/views/preview", admin(http.HandlerFunc(s.viewAPI.handlePreview)))
	s.mux.Handle("POST /api/sanitize", admin(http.HandlerFunc(s.viewAPI.handleSanitize)))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// sessionAuth adapts session contents to the view layer's auth accessor.
// A session with a user_id value counts as authenticated.
type sessionAuth struct {
	userID string
}

func (a sessionAuth) Check() bool    { return a.userID != "" }
func (a sessionAuth) UserID() string { return a.userID }

// handlePage serves every page request: it loads or creates the client's
// session, builds the ambient context, and renders the view that the URL
// path maps to.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess := s.loadSession(w, r)

	ctx := view.NewContext(r, sess, sessionAuth{userID: sess.GetString("user_id")})
	ctx.Security = s.securityFor(sess)
	for name, viewName := range s.config.Server.Components {
		ctx.Components.Register(name, viewName)
	}

	name := s.viewNameFor(r.URL.Path)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := s.engine.Renderer(ctx, w).Render(name, nil); err != nil {
		s.logger.Error("Page render failed", "view", name, "path", r.URL.Path, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := s.sessions.Save(r.Context(), sess); err != nil {
		s.logger.Error("Failed to save session", "error", err)
	}
}

// loadSession returns the live session for the request's cookie, creating
// a fresh one (and setting the cookie) when the token is absent, unknown,
// or expired.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) *session.Session {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		sess, err := s.sessions.Get(r.Context(), cookie.Value)
		if err == nil {
			return sess
		}
		if !errors.Is(err, session.ErrNotFound) {
			s.logger.Error("Session lookup failed", "error", err)
		}
	}

	sess, err := s.sessions.Create(r.Context())
	if err != nil {
		s.logger.Error("Failed to create session", "error", err)
		// Fall back to an unpersisted session so the page still renders.
		sess = session.NewDetached()
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// securityFor returns the request's security helper, reusing the CSRF
// token already stored in the session or minting and storing a new one.
func (s *Server) securityFor(sess *session.Session) *view.Security {
	if token := sess.GetString("_token"); token != "" {
		return view.NewSecurityWithToken(token)
	}
	sec := view.NewSecurity()
	sess.Set("_token", sec.Token())
	return sec
}

// viewNameFor maps a URL path to the logical view name that renders it.
// The root path maps to the configured home view; everything else maps
// under pages/.
func (s *Server) viewNameFor(urlPath string) string {
	trimmed := strings.Trim(urlPath, "/")
	if trimmed == "" {
		return s.config.Server.HomeView
	}
	return "pages/" + trimmed
}
