package main

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/calyx-web/calyx/pkg/view"
)

// ViewAPI provides HTTP handlers for managing the view engine: listing
// views, flushing the parse cache, previewing renders, and running the
// sanitizer on arbitrary input.
type ViewAPI struct {
	engine *view.Engine
	logger *slog.Logger
}

// NewViewAPI creates a new view management API handler.
func NewViewAPI(engine *view.Engine, logger *slog.Logger) *ViewAPI {
	return &ViewAPI{engine: engine, logger: logger}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "failed to marshal response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// requireAdmin gates a handler behind the configured admin token. An
// empty configured token leaves the API open, which is the development
// default.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := s.config.Server.AdminToken
		if token != "" {
			got := r.Header.Get("X-Calyx-Admin-Token")
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				respondWithError(w, http.StatusUnauthorized, "invalid admin token")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// handleListViews responds with the logical names of every view under the
// configured root.
func (api *ViewAPI) handleListViews(w http.ResponseWriter, r *http.Request) {
	names, err := api.engine.ViewNames()
	if err != nil {
		api.logger.Error("Failed to list views", "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to list views")
		return
	}
	if names == nil {
		names = []string{}
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"views": names})
}

// handleFlushCache drops every cached parse so template edits take effect
// without a restart.
func (api *ViewAPI) handleFlushCache(w http.ResponseWriter, r *http.Request) {
	api.engine.FlushCache()
	w.WriteHeader(http.StatusNoContent)
}

// previewSession is the empty session preview renders see.
type previewSession struct{}

func (previewSession) Get(name string) any  { return nil }
func (previewSession) Has(name string) bool { return false }

type previewRequest struct {
	Name string    `json:"name"`
	Vars view.Vars `json:"vars"`
}

// handlePreview renders a named view with caller-supplied variables and
// returns the text. Output is raw unless ?sanitized=1 is set. The render
// runs against an empty ambient context, so previews never observe real
// session or auth state.
func (api *ViewAPI) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		respondWithError(w, http.StatusBadRequest, "name is required")
		return
	}

	ctx := view.NewContext(r, previewSession{}, sessionAuth{})
	text, err := api.engine.Renderer(ctx, io.Discard).RenderString(req.Name, req.Vars)
	if err != nil {
		var nf *view.NotFoundError
		if errors.As(err, &nf) {
			respondWithError(w, http.StatusNotFound, "view not found: "+req.Name)
			return
		}
		api.logger.Error("Preview render failed", "view", req.Name, "error", err)
		respondWithError(w, http.StatusInternalServerError, "render failed: "+err.Error())
		return
	}

	if r.URL.Query().Get("sanitized") == "1" {
		text = view.Sanitize(text)
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"name": req.Name, "output": text})
}

// handleSanitize runs the output sanitizer over the raw request body and
// returns the result as text.
func (api *ViewAPI) handleSanitize(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, view.Sanitize(string(body)))
}
