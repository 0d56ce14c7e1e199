package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/matt-g-everett/ledtween/stream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatusSource reports the streamer state served on /status.
type StatusSource interface {
	Status() stream.Status
}

type Api struct {
	status    StatusSource
	gatherer  prometheus.Gatherer
	staticDir string
	logger    *slog.Logger
	router    chi.Router
}

// NewApi builds the router. A nil gatherer serves the default registry.
func NewApi(status StatusSource, gatherer prometheus.Gatherer, staticDir string, logger *slog.Logger) *Api {
	a := new(Api)
	a.status = status
	a.gatherer = gatherer
	if a.gatherer == nil {
		a.gatherer = prometheus.DefaultGatherer
	}
	a.staticDir = staticDir
	a.logger = logger
	if a.logger == nil {
		a.logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", a.healthz)
	r.Get("/status", a.statusHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{}))
	if staticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(staticDir)))
	}
	a.router = r

	return a
}

// Handler returns the HTTP handler.
func (a *Api) Handler() http.Handler { return a.router }

// Serve listens on addr until ctx is done, then shuts down gracefully.
func (a *Api) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("Listening...", "addr", addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("graceful shutdown did not complete", "error", err)
			return srv.Close()
		}
		return nil
	}
}

func (a *Api) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("ok"))
}

func (a *Api) statusHandler(w http.ResponseWriter, r *http.Request) {
	if a.status == nil {
		http.Error(w, "streamer not running", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(a.status.Status()); err != nil {
		a.logger.Error("status encode failed", "error", err)
	}
}
