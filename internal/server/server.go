// Package server exposes the validator and template engines over HTTP,
// mirroring the consumer contract of the job workers.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"dialogue-workers/internal/catalog"
	"dialogue-workers/internal/common/logger"
)

// Server routes dialogue API requests over the current catalog snapshot.
type Server struct {
	store   *catalog.Store
	logger  logger.Logger
	schemas *schemas
	router  chi.Router
}

func New(store *catalog.Store, log logger.Logger) (*Server, error) {
	compiled, err := compileSchemas()
	if err != nil {
		return nil, err
	}

	s := &Server{
		store:   store,
		logger:  log.WithFields(map[string]interface{}{"component": "api-server"}),
		schemas: compiled,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)

	r.Get("/", s.handleStatus)
	r.Post("/validate_slots", s.handleValidateSlots)
	r.Post("/process_template", s.handleProcessTemplate)
	// The original service exposed template matching as /parse_template;
	// both names route to the same handler.
	r.Post("/parse_template", s.handleMatchTemplate)
	r.Post("/match_template", s.handleMatchTemplate)

	s.router = r
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestID tags every request with a uuid and logs the roundtrip.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)

		start := time.Now()
		next.ServeHTTP(w, r)

		s.logger.Info("request handled", map[string]interface{}{
			"requestId": id,
			"method":    r.Method,
			"path":      r.URL.Path,
			"duration":  time.Since(start).String(),
		})
	})
}

// response is the envelope of the original dialogue service.
type response struct {
	Code    int         `json:"code"`
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, resp response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("write response failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *Server) badRequest(w http.ResponseWriter, message string) {
	s.writeJSON(w, http.StatusBadRequest, response{
		Code:    1,
		Success: false,
		Message: message,
	})
}
