// ABOUTME: HTTP server assembly: storage, auth pipeline, routes, and lifecycle
// ABOUTME: Owns graceful shutdown and the route-to-middleware wiring

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/wrkspot/customerd/internal/auth"
	"github.com/wrkspot/customerd/internal/config"
	"github.com/wrkspot/customerd/internal/customer"
	"github.com/wrkspot/customerd/internal/store"
)

// AdminRole is the role token required for privileged operations.
const AdminRole = "ROLE_ADMIN"

// Server is the customerd HTTP server.
type Server struct {
	cfg           *config.Config
	store         *store.SQLiteStore
	customers     *customer.Service
	authenticator *auth.Authenticator
	codec         *auth.Codec
	httpServer    *http.Server
	logger        *slog.Logger
}

// New creates a fully wired server: it opens the store, derives the signing
// key from configuration (fatal if the secret is not valid base64), and
// provisions the bootstrap administrator if configured and absent.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	key, err := auth.SigningKey(cfg.Auth.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("deriving signing key: %w", err)
	}

	sqlStore, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	s := &Server{
		cfg:           cfg,
		store:         sqlStore,
		customers:     customer.NewService(sqlStore, logger),
		authenticator: auth.NewAuthenticator(sqlStore, logger),
		codec:         auth.NewCodec(key, cfg.Auth.TokenTTL),
		logger:        logger.With("component", "server"),
	}

	if err := EnsureAdminUser(ctx, sqlStore, cfg.Admin, logger); err != nil {
		sqlStore.Close()
		return nil, fmt.Errorf("provisioning admin user: %w", err)
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// Handler builds the full request-processing chain: request logging, then
// bearer-token resolution, then the route table with its role gates.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health endpoints - no auth required
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/health/ready", s.handleReady)

	requireAuth := auth.RequireAuth()
	requireAdmin := auth.RequireRole(AdminRole)

	// Login is the only unauthenticated API endpoint
	mux.HandleFunc("/api/customers/authenticate", s.handleAuthenticate)

	// Only admins may create customer records
	mux.Handle("/api/customers/create", requireAdmin(http.HandlerFunc(s.handleCreateCustomers)))

	// Any authenticated user may read and compare
	mux.Handle("/api/customers", requireAuth(http.HandlerFunc(s.handleGetCustomers)))
	mux.Handle("/api/customers/only-in-a", requireAuth(http.HandlerFunc(s.handleOnlyInA)))
	mux.Handle("/api/customers/only-in-b", requireAuth(http.HandlerFunc(s.handleOnlyInB)))
	mux.Handle("/api/customers/in-both-a-and-b", requireAuth(http.HandlerFunc(s.handleInBoth)))

	authMiddleware := auth.Middleware(s.store, s.codec, s.logger)
	return requestLogger(s.logger)(authMiddleware(mux))
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.cfg.Server.HTTPAddr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.store.Close()
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("shutdown error", "error", err)
	}

	return s.store.Close()
}
