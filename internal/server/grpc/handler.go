package grpc

import (
	"context"
	"encoding/hex"
	"errors"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	pb "github.com/dmitrijs2005/gophnotes/internal/proto"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors to gRPC statuses. Unknown errors are logged
// and surface as a bare Internal.
func (s *GRPCServer) toStatus(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, "email already registered")
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "invalid credentials")
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	}
	s.logger.Error(ctx, op+" failed", "error", err)
	return status.Error(codes.Internal, "internal error")
}

func noteToPB(n *models.Note) *pb.Note {
	return &pb.Note{
		Id:        n.ID,
		UserId:    n.UserID,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: pb.Timestamp(n.CreatedAt),
		UpdatedAt: pb.Timestamp(n.UpdatedAt),
	}
}

func exportResultToPB(r *services.ExportResult) *pb.Export {
	return &pb.Export{Id: r.ID, Key: r.Key, Url: r.URL, NoteCount: r.NoteCount, CreatedAt: pb.Timestamp(r.CreatedAt), ExpiresAt: pb.Timestamp(r.ExpiresAt)}
}

func (s *GRPCServer) Ping(ctx context.Context, req *pb.PingRequest) (*pb.PingResponse, error) {
	return &pb.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *pb.RegisterRequest) (*pb.RegisterResponse, error) {
	s.logger.Info(ctx, "Registration request")

	user, err := s.users.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, "register", err)
	}

	s.logger.Info(ctx, "Registered", "user_id", user.ID)
	return &pb.RegisterResponse{UserId: user.ID}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *pb.LoginRequest) (*pb.LoginResponse, error) {
	result, err := s.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, "login", err)
	}
	defer common.WipeByteArray(result.DataKey)

	return &pb.LoginResponse{
		AccessToken:   result.Tokens.AccessToken,
		RefreshToken:  result.Tokens.RefreshToken,
		User:          &pb.User{Id: result.User.ID, Name: result.User.Name, Email: result.User.Email},
		EncryptionKey: hex.EncodeToString(result.DataKey),
	}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *pb.RefreshTokenRequest) (*pb.RefreshTokenResponse, error) {
	pair, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRefreshTokenExpired):
			return nil, status.Error(codes.Unauthenticated, common.ErrRefreshTokenExpired.Error())
		case errors.Is(err, common.ErrorNotFound):
			return nil, status.Error(codes.Unauthenticated, "invalid refresh token")
		}
		return nil, s.toStatus(ctx, "refresh token", err)
	}
	return &pb.RefreshTokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func (s *GRPCServer) ChangePassword(ctx context.Context, req *pb.ChangePasswordRequest) (*pb.ChangePasswordResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.users.ChangePassword(ctx, userID, req.OldPassword, req.NewPassword); err != nil {
		return nil, s.toStatus(ctx, "change password", err)
	}
	s.logger.Info(ctx, "Password changed")
	return &pb.ChangePasswordResponse{}, nil
}

func (s *GRPCServer) DeleteAccount(ctx context.Context, req *pb.DeleteAccountRequest) (*pb.DeleteAccountResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.users.DeleteAccount(ctx, userID, req.Password); err != nil {
		return nil, s.toStatus(ctx, "delete account", err)
	}
	s.logger.Info(ctx, "Account deleted")
	return &pb.DeleteAccountResponse{}, nil
}

func (s *GRPCServer) ListNotes(ctx context.Context, req *pb.ListNotesRequest) (*pb.ListNotesResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	notes, err := s.notes.List(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, "list notes", err)
	}
	resp := &pb.ListNotesResponse{Notes: make([]*pb.Note, 0, len(notes))}
	for _, n := range notes {
		resp.Notes = append(resp.Notes, noteToPB(n))
	}
	return resp, nil
}

func (s *GRPCServer) CreateNote(ctx context.Context, req *pb.CreateNoteRequest) (*pb.CreateNoteResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	note, err := s.notes.Create(ctx, userID, req.Title, req.Content)
	if err != nil {
		return nil, s.toStatus(ctx, "create note", err)
	}
	return &pb.CreateNoteResponse{Note: noteToPB(note)}, nil
}

func (s *GRPCServer) UpdateNote(ctx context.Context, req *pb.UpdateNoteRequest) (*pb.UpdateNoteResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	note, err := s.notes.Update(ctx, userID, req.Id, req.Title, req.Content)
	if err != nil {
		return nil, s.toStatus(ctx, "update note", err)
	}
	return &pb.UpdateNoteResponse{Note: noteToPB(note)}, nil
}

func (s *GRPCServer) DeleteNote(ctx context.Context, req *pb.DeleteNoteRequest) (*pb.DeleteNoteResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.notes.Delete(ctx, userID, req.Id); err != nil {
		return nil, s.toStatus(ctx, "delete note", err)
	}
	return &pb.DeleteNoteResponse{}, nil
}

func (s *GRPCServer) ExportNotes(ctx context.Context, req *pb.ExportNotesRequest) (*pb.ExportNotesResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	res, err := s.exports.Export(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, "export notes", err)
	}
	s.logger.Info(ctx, "Notes exported", "key", res.Key, "notes", res.NoteCount)
	return &pb.ExportNotesResponse{Export: exportResultToPB(res)}, nil
}

func (s *GRPCServer) ListExports(ctx context.Context, req *pb.ListExportsRequest) (*pb.ListExportsResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.exports.List(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, "list exports", err)
	}
	resp := &pb.ListExportsResponse{Exports: make([]*pb.Export, 0, len(items))}
	for _, e := range items {
		resp.Exports = append(resp.Exports, &pb.Export{Id: e.ID, Key: e.StorageKey, NoteCount: e.NoteCount, CreatedAt: pb.Timestamp(e.CreatedAt)})
	}
	return resp, nil
}

func (s *GRPCServer) GetExportLink(ctx context.Context, req *pb.GetExportLinkRequest) (*pb.GetExportLinkResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	res, err := s.exports.Link(ctx, userID, req.Id)
	if err != nil {
		return nil, s.toStatus(ctx, "export link", err)
	}
	return &pb.GetExportLinkResponse{Export: exportResultToPB(res)}, nil
}
