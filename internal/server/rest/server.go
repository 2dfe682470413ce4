// Package rest serves the JSON HTTP API used by browser clients.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type UserService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	DeleteAccount(ctx context.Context, userID, password string) error
}

type NoteService interface {
	List(ctx context.Context, userID string) ([]*models.Note, error)
	Create(ctx context.Context, userID, title, content string) (*models.Note, error)
	Update(ctx context.Context, userID, noteID, title, content string) (*models.Note, error)
	Delete(ctx context.Context, userID, noteID string) error
}

type ExportService interface {
	Export(ctx context.Context, userID string) (*services.ExportResult, error)
	List(ctx context.Context, userID string) ([]*models.Export, error)
	Link(ctx context.Context, userID, exportID string) (*services.ExportResult, error)
}

type HTTPServer struct {
	address   string
	users     UserService
	notes     NoteService
	exports   ExportService
	logger    logging.Logger
	jwtSecret []byte
}

func NewHTTPServer(a string, l logging.Logger, us UserService, ns NoteService, es ExportService, secretKey string) *HTTPServer {
	return &HTTPServer{
		address:   a,
		logger:    l.With("module", "http_server"),
		users:     us,
		notes:     ns,
		exports:   es,
		jwtSecret: []byte(secretKey),
	}
}

// Handler returns the routed API wrapped in logging and CORS middleware.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleStatus)

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/refresh", s.handleRefresh)
	mux.HandleFunc("PUT /api/auth/password", s.requireAuth(s.handleChangePassword))
	mux.HandleFunc("DELETE /api/auth/account", s.requireAuth(s.handleDeleteAccount))

	mux.HandleFunc("GET /api/notes", s.requireAuth(s.handleListNotes))
	mux.HandleFunc("POST /api/notes", s.requireAuth(s.handleCreateNote))
	mux.HandleFunc("POST /api/notes/export", s.requireAuth(s.handleExport))
	mux.HandleFunc("PUT /api/notes/{id}", s.requireAuth(s.handleUpdateNote))
	mux.HandleFunc("DELETE /api/notes/{id}", s.requireAuth(s.handleDeleteNote))

	mux.HandleFunc("GET /api/exports", s.requireAuth(s.handleListExports))
	mux.HandleFunc("GET /api/exports/{id}", s.requireAuth(s.handleExportLink))

	return s.logRequests(cors(mux))
}

// Run listens on the configured address and serves until ctx is done.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then shuts down,
// giving in-flight requests shutdownTimeout to finish.
func (s *HTTPServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
