// Package chi exposes recipe extraction over HTTP using the chi router.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/reciparse"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DefaultMaxUploadSize caps raw upload bodies.
const DefaultMaxUploadSize = 32 << 20

// ShutdownTimeout is the time given for outstanding requests to finish before shutdown.
const ShutdownTimeout = 5 * time.Second

// Server serves the recipe extraction API.
type Server struct {
	ln     net.Listener
	server *http.Server
	router chi.Router

	// Addr is the address to listen on, such as ":8080".
	Addr string

	// Extractor runs the pipeline. Required.
	Extractor reciparse.RecipeExtractor

	// Store persists extracted recipes when set.
	Store reciparse.RecipeStore

	// MaxUploadSize limits raw uploads. Defaults to DefaultMaxUploadSize.
	MaxUploadSize int64

	Logger *slog.Logger
}

// NewServer returns a Server with its routes registered.
func NewServer() *Server {
	s := &Server{
		router:        chi.NewRouter(),
		MaxUploadSize: DefaultMaxUploadSize,
		Logger:        slog.New(slog.DiscardHandler),
	}
	s.server = &http.Server{Handler: s.router, ReadHeaderTimeout: 10 * time.Second}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.logRequests)

	s.router.Get("/health", s.handleHealth)
	s.router.Post("/recipes", s.handleCreateRecipe)
	return s
}

// Open starts listening on Addr and serves in the background.
func (s *Server) Open() (err error) {
	if s.Extractor == nil {
		return reciparse.Errorf(reciparse.EINVALID, "extractor required")
	}
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	go s.server.Serve(s.ln)
	return nil
}

// URL returns the base URL of the running server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// ServeHTTP routes a request.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func(begin time.Time) {
			s.Logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(begin),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}(time.Now())
		next.ServeHTTP(ww, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// createRecipeRequest is the JSON body accepted by POST /recipes.
type createRecipeRequest struct {
	URL string `json:"url"`
}

// handleCreateRecipe extracts a recipe from a URL (JSON body) or from a
// raw upload whose Content-Type names its media type.
func (s *Server) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")

	var recipe *reciparse.Recipe
	var err error
	if strings.HasPrefix(strings.ToLower(contentType), "application/json") {
		var req createRecipeRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			s.writeError(w, r, reciparse.Errorf(reciparse.EINVALID, "invalid JSON body: %v", err))
			return
		}
		src := reciparse.Classify(req.URL)
		if src.Kind != reciparse.SourceNetwork {
			s.writeError(w, r, reciparse.Errorf(reciparse.EINVALID, "url must be an absolute http(s) URL"))
			return
		}
		recipe, err = s.Extractor.Run(r.Context(), src)
	} else {
		media, ok := reciparse.ParseMediaType(contentType)
		if !ok {
			s.writeError(w, r, reciparse.Errorf(reciparse.EINVALID, "unsupported content type %q (supported: %s)", contentType, supportedMedia()))
			return
		}
		raw, rerr := io.ReadAll(http.MaxBytesReader(w, r.Body, s.MaxUploadSize))
		if rerr != nil {
			s.writeError(w, r, reciparse.Errorf(reciparse.EINVALID, "reading upload: %v", rerr))
			return
		}
		recipe, err = s.Extractor.Process(r.Context(), raw, media)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if s.Store != nil {
		path, err := s.Store.SaveRecipe(r.Context(), recipe)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("X-Recipe-Path", path)
	}

	writeJSON(w, http.StatusOK, recipe)
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
	Field string `json:"field,omitempty"`
}

// ErrorStatusCode maps an application error to an HTTP status.
func ErrorStatusCode(err error) int {
	var sv *reciparse.SchemaViolation
	if errors.As(err, &sv) {
		return http.StatusUnprocessableEntity
	}
	switch reciparse.ErrorCode(err) {
	case reciparse.EINVALID, reciparse.EENCODING:
		return http.StatusBadRequest
	case reciparse.ENOTFOUND:
		return http.StatusNotFound
	case reciparse.EFETCH, reciparse.EEXTRACT:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := ErrorStatusCode(err)
	if status == http.StatusInternalServerError {
		s.Logger.Error("http error", "method", r.Method, "path", r.URL.Path, "err", err)
	}

	resp := errorResponse{
		Error: reciparse.ErrorMessage(err),
		Stage: string(reciparse.ErrorStage(err)),
	}
	var sv *reciparse.SchemaViolation
	if errors.As(err, &sv) {
		resp.Field = sv.Field
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func supportedMedia() string {
	types := reciparse.MediaTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
