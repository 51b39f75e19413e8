// Package web serves a single-form HTML page over the agent.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultName pre-fills the form.
const DefaultName = "勝海舟"

// Invoker answers a query; *agent.Agent satisfies it.
type Invoker interface {
	Invoke(ctx context.Context, query string) (string, error)
}

// Server is the presentation shell.
type Server struct {
	agent  Invoker
	logger *slog.Logger
	server *http.Server
}

// NewServer creates a Server listening on addr. A nil logger uses slog.Default.
func NewServer(addr string, agent Invoker, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{agent: agent, logger: logger}
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routes of the shell.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleForm)
	mux.HandleFunc("POST /{$}", s.handleSearch)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	return s.withLogging(mux)
}

// ListenAndServe blocks until the server stops. It returns nil after
// Shutdown, including a Shutdown that happened before it was called.
func (s *Server) ListenAndServe() error {
	s.logger.Info("web shell listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, pageData{Name: DefaultName})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.PostFormValue("name"))
	data := pageData{Name: name}

	answer, err := s.agent.Invoke(r.Context(), name)
	if err == nil {
		data.Answer, err = renderMarkdown(answer)
	}
	if err != nil {
		s.logger.Warn("search failed", "error", err)
		data.Err = err.Error()
	}
	s.render(w, data)
}

func (s *Server) render(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Execute(w, data); err != nil {
		s.logger.Error("template render failed", "error", err)
	}
}
