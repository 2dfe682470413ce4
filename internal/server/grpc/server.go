// Package grpc exposes NotesService over gRPC. Messages use the JSON codec
// from internal/proto; the standard health service is served alongside.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gophnotes/internal/logging"
	pb "github.com/dmitrijs2005/gophnotes/internal/proto"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// UserService is the account API the handlers depend on.
type UserService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	DeleteAccount(ctx context.Context, userID, password string) error
}

// NoteService is the notes API the handlers depend on.
type NoteService interface {
	List(ctx context.Context, userID string) ([]*models.Note, error)
	Create(ctx context.Context, userID, title, content string) (*models.Note, error)
	Update(ctx context.Context, userID, noteID, title, content string) (*models.Note, error)
	Delete(ctx context.Context, userID, noteID string) error
}

// ExportService is the export API the handlers depend on.
type ExportService interface {
	Export(ctx context.Context, userID string) (*services.ExportResult, error)
	List(ctx context.Context, userID string) ([]*models.Export, error)
	Link(ctx context.Context, userID, exportID string) (*services.ExportResult, error)
}

type GRPCServer struct {
	pb.UnimplementedNotesServiceServer
	address   string
	users     UserService
	notes     NoteService
	exports   ExportService
	logger    logging.Logger
	jwtSecret []byte
	health    *health.Server
}

func NewGRPCServer(a string, l logging.Logger, us UserService, ns NoteService, es ExportService, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		notes:     ns,
		exports:   es,
		jwtSecret: []byte(secretKey),
		health:    health.NewServer(),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))
	pb.RegisterNotesServiceServer(srv, s)
	healthpb.RegisterHealthServer(srv, s.health)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	s.health.SetServingStatus(pb.ServiceName, healthpb.HealthCheckResponse_SERVING)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
