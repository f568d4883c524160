package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/xhad/rasanlu/internal/types"
	"github.com/xhad/rasanlu/pkg/store"
	"golang.org/x/time/rate"
)

type Config struct {
	Addr         string
	CORS         bool
	RateLimit    float64 // mutating requests per second, 0 disables
	RateBurst    int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server exposes the store over HTTP.
type Server struct {
	config    Config
	store     *store.Store
	persister types.Persister
	hub       *Hub
	events    types.Publisher
	logger    *slog.Logger
	handler   http.Handler
}

func New(config Config, st *store.Store, persister types.Persister, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Addr == "" {
		config.Addr = "127.0.0.1:8088"
	}
	if config.RateBurst < 1 {
		config.RateBurst = 1
	}

	hub := NewHub(logger, config.CORS)
	st.Observe(hub.Publish)
	s := &Server{
		config:    config,
		store:     st,
		persister: persister,
		hub:       hub,
		events:    hub,
		logger:    logger,
	}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	registerResource(s, mux, "/common-example", examplesResource(s.store))
	registerResource(s, mux, "/regex-feature", regexFeaturesResource(s.store))
	registerResource(s, mux, "/entity-synonym", synonymsResource(s.store))
	mux.HandleFunc("POST /save", s.handleSave)
	mux.HandleFunc("GET /data", s.handleData)
	mux.HandleFunc("GET /data/{collection}", s.handleCollection)
	mux.HandleFunc("GET /ws", s.hub.ServeWS)
	mux.HandleFunc("GET /health", s.handleHealth)

	mws := []middleware{requestLogger(s.logger)}
	if s.config.CORS {
		mws = append(mws, cors)
	}
	if s.config.RateLimit > 0 {
		mws = append(mws, rateLimit(rate.NewLimiter(rate.Limit(s.config.RateLimit), s.config.RateBurst)))
	}
	return chain(mux, mws...)
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String(), "cors", s.config.CORS)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		s.hub.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
