// Package server exposes the layout engine over HTTP.
//
// A single POST endpoint accepts a layout request (configuration plus
// tags) and streams back the rendered artifact in the requested format.
// Rendered artifacts are cached by content hash, so identical requests
// are served without re-running the placement search.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/fwilhelm/nimbus/pkg/buildinfo"
	"github.com/fwilhelm/nimbus/pkg/cache"
	"github.com/fwilhelm/nimbus/pkg/cloud"
	"github.com/fwilhelm/nimbus/pkg/errors"
	"github.com/fwilhelm/nimbus/pkg/export"
	"github.com/fwilhelm/nimbus/pkg/observability"
)

// artifactTTL bounds how long a rendered artifact stays cached.
const artifactTTL = 24 * time.Hour

// Config holds the server settings.
type Config struct {
	Addr   string
	Cache  cache.Cache
	Logger *log.Logger
}

// Server handles layout requests over HTTP.
type Server struct {
	cache  cache.Cache
	logger *log.Logger
	http   *http.Server
}

// New builds a server with its routes wired. A nil cache disables
// artifact caching, a nil logger falls back to the default logger.
func New(cfg Config) *Server {
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNullCache()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	s := &Server{
		cache:  cfg.Cache,
		logger: cfg.Logger,
	}
	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the server's HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Start listens on the configured address and blocks until the listener
// fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(errors.ErrCodeInternal, err, "serving on %s", s.http.Addr)
	}
	return nil
}

// Shutdown drains in-flight requests and closes the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(s.recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/cloud", s.handleCloud)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// layoutRequest is the wire format of POST /v1/cloud.
type layoutRequest struct {
	Config cloud.Config `json:"config"`
	Tags   []cloud.Tag  `json:"tags"`
	Format string       `json:"format"`
}

var formatContentTypes = map[string]string{
	"png":  "image/png",
	"svg":  "image/svg+xml",
	"json": "application/json",
}

func (s *Server) handleCloud(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decoding request body"))
		return
	}
	if req.Format == "" {
		req.Format = "png"
	}
	contentType, ok := formatContentTypes[req.Format]
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", req.Format))
		return
	}
	if len(req.Tags) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidTag, "request contains no tags"))
		return
	}

	key, err := requestKey(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if data, hit, err := s.cache.Get(r.Context(), key); err == nil && hit {
		observability.Cache().OnCacheHit(r.Context(), "artifact")
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("X-Cache", "hit")
		_, _ = w.Write(data)
		return
	}
	observability.Cache().OnCacheMiss(r.Context(), "artifact")

	data, err := s.render(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	err = cache.RetryWithBackoff(r.Context(), func() error {
		return s.cache.Set(r.Context(), key, data, artifactTTL)
	})
	if err != nil {
		s.logger.Warn("caching artifact failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(r.Context(), "artifact", len(data))
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Cache", "miss")
	_, _ = w.Write(data)
}

func (s *Server) render(ctx context.Context, req layoutRequest) ([]byte, error) {
	c, err := cloud.New(req.Config)
	if err != nil {
		return nil, err
	}
	results, err := c.Draw(ctx, req.Tags)
	if err != nil {
		return nil, err
	}
	cfg := c.Config()
	switch req.Format {
	case "svg":
		return export.RenderSVG(cfg, results), nil
	case "json":
		return export.RenderJSON(cfg, results)
	default:
		return export.RenderPNG(cfg, results)
	}
}

// requestKey derives the artifact cache key from the canonical JSON of
// the request, so equal requests share one cached artifact.
func requestKey(req layoutRequest) (string, error) {
	canonical, err := json.Marshal(req)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hashing request")
	}
	return cache.ArtifactKey(cache.Hash(canonical), req.Format), nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidTag, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	}
	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    string(code),
			"message": errors.UserMessage(err),
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		fmt.Fprintf(w, `{"error":{"code":"INTERNAL","message":"encoding response"}}`)
	}
}
