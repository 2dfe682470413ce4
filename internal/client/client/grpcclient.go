package client

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	pb "github.com/dmitrijs2005/gophnotes/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL  string
	conn         *grpc.ClientConn
	client       pb.NotesServiceClient
	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = access
	s.refreshToken = refresh
}

func isTokenExpired(err error) bool {
	st, ok := status.FromError(err)
	return ok && st.Code() == codes.Unauthenticated && st.Message() == common.ErrTokenExpired.Error()
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	accessToken, refreshToken := s.tokens()

	err := invoker(withAccessToken(ctx, accessToken), method, req, reply, cc, opts...)
	if err == nil || !isTokenExpired(err) || refreshToken == "" {
		return err
	}

	resp, rerr := s.client.RefreshToken(ctx, &pb.RefreshTokenRequest{RefreshToken: refreshToken})
	if rerr != nil {
		return rerr
	}
	s.setTokens(resp.AccessToken, resp.RefreshToken)

	return invoker(withAccessToken(ctx, resp.AccessToken), method, req, reply, cc, opts...)
}

func NewGRPCClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewNotesServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return ErrAlreadyExists
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &pb.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) Register(ctx context.Context, name, email, password string) error {
	_, err := s.client.Register(ctx, &pb.RegisterRequest{Name: name, Email: email, Password: password})
	return s.mapError(err)
}

// Login authenticates and remembers the issued tokens. The returned session
// carries the decoded data key.
func (s *GRPCClient) Login(ctx context.Context, email, password string) (*models.Session, error) {
	resp, err := s.client.Login(ctx, &pb.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, s.mapError(err)
	}

	key, err := hex.DecodeString(resp.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("malformed encryption key: %w", err)
	}

	s.setTokens(resp.AccessToken, resp.RefreshToken)

	session := &models.Session{DataKey: key}
	if resp.User != nil {
		session.UserID, session.Name, session.Email = resp.User.Id, resp.User.Name, resp.User.Email
	}
	return session, nil
}

// Logout forgets the tokens. The server side refresh token simply expires.
func (s *GRPCClient) Logout() {
	s.setTokens("", "")
}

func (s *GRPCClient) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	_, err := s.client.ChangePassword(ctx, &pb.ChangePasswordRequest{OldPassword: oldPassword, NewPassword: newPassword})
	return s.mapError(err)
}

func (s *GRPCClient) DeleteAccount(ctx context.Context, password string) error {
	if _, err := s.client.DeleteAccount(ctx, &pb.DeleteAccountRequest{Password: password}); err != nil {
		return s.mapError(err)
	}
	s.Logout()
	return nil
}

func noteFromPB(n *pb.Note) *models.EncryptedNote {
	return &models.EncryptedNote{
		ID:        n.Id,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: pb.AsTime(n.CreatedAt),
		UpdatedAt: pb.AsTime(n.UpdatedAt),
	}
}

func exportFromPB(e *pb.Export) *models.Export {
	return &models.Export{
		ID:        e.Id,
		Key:       e.Key,
		URL:       e.Url,
		NoteCount: e.NoteCount,
		CreatedAt: pb.AsTime(e.CreatedAt),
		ExpiresAt: pb.AsTime(e.ExpiresAt),
	}
}

func (s *GRPCClient) ListNotes(ctx context.Context) ([]*models.EncryptedNote, error) {
	resp, err := s.client.ListNotes(ctx, &pb.ListNotesRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	notes := make([]*models.EncryptedNote, 0, len(resp.Notes))
	for _, n := range resp.Notes {
		notes = append(notes, noteFromPB(n))
	}
	return notes, nil
}

func (s *GRPCClient) CreateNote(ctx context.Context, title, content string) (*models.EncryptedNote, error) {
	resp, err := s.client.CreateNote(ctx, &pb.CreateNoteRequest{Title: title, Content: content})
	if err != nil {
		return nil, s.mapError(err)
	}
	return noteFromPB(resp.Note), nil
}

func (s *GRPCClient) UpdateNote(ctx context.Context, id, title, content string) (*models.EncryptedNote, error) {
	resp, err := s.client.UpdateNote(ctx, &pb.UpdateNoteRequest{Id: id, Title: title, Content: content})
	if err != nil {
		return nil, s.mapError(err)
	}
	return noteFromPB(resp.Note), nil
}

func (s *GRPCClient) DeleteNote(ctx context.Context, id string) error {
	_, err := s.client.DeleteNote(ctx, &pb.DeleteNoteRequest{Id: id})
	return s.mapError(err)
}

func (s *GRPCClient) ExportNotes(ctx context.Context) (*models.Export, error) {
	resp, err := s.client.ExportNotes(ctx, &pb.ExportNotesRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return exportFromPB(resp.Export), nil
}

func (s *GRPCClient) ListExports(ctx context.Context) ([]*models.Export, error) {
	resp, err := s.client.ListExports(ctx, &pb.ListExportsRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	exports := make([]*models.Export, 0, len(resp.Exports))
	for _, e := range resp.Exports {
		exports = append(exports, exportFromPB(e))
	}
	return exports, nil
}

func (s *GRPCClient) GetExportLink(ctx context.Context, id string) (*models.Export, error) {
	resp, err := s.client.GetExportLink(ctx, &pb.GetExportLinkRequest{Id: id})
	if err != nil {
		return nil, s.mapError(err)
	}
	return exportFromPB(resp.Export), nil
}
