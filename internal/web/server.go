package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/vbonduro/ecoleta/internal/photostore"
	"github.com/vbonduro/ecoleta/internal/service"
)

const shutdownTimeout = 10 * time.Second

type Options struct {
	// MaxUploadBytes caps the size of a create-point request body.
	MaxUploadBytes int64
	CORSOrigins    []string
}

type Server struct {
	service    *service.PointService
	photoStore photostore.PhotoStore
	mux        *http.ServeMux
	handler    http.Handler
	validate   *validator.Validate
	maxUpload  int64
	logger     *slog.Logger
}

func NewServer(svc *service.PointService, ps photostore.PhotoStore, opts Options, logger *slog.Logger) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}

	s := &Server{
		service:    svc,
		photoStore: ps,
		mux:        http.NewServeMux(),
		validate:   newValidator(),
		maxUpload:  opts.MaxUploadBytes,
		logger:     logger,
	}
	s.registerRoutes()

	s.handler = requestID(
		requestLogger(logger,
			recoverer(logger,
				corsHandler(opts.CORSOrigins)(
					securityHeaders(s.mux)))))
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /items", s.handleListItems)
	s.mux.HandleFunc("GET /points", s.handleListPoints)
	s.mux.HandleFunc("GET /points/{id}", s.handleShowPoint)
	s.mux.HandleFunc("POST /points", s.handleCreatePoint)
	s.mux.HandleFunc("GET /uploads/{filename}", s.handleGetUpload)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("stopping server")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
