package proto

import (
	"context"

	"google.golang.org/grpc"
)

// NotesServiceClient is the client API for NotesService.
type NotesServiceClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error)
	ChangePassword(ctx context.Context, in *ChangePasswordRequest, opts ...grpc.CallOption) (*ChangePasswordResponse, error)
	DeleteAccount(ctx context.Context, in *DeleteAccountRequest, opts ...grpc.CallOption) (*DeleteAccountResponse, error)
	ListNotes(ctx context.Context, in *ListNotesRequest, opts ...grpc.CallOption) (*ListNotesResponse, error)
	CreateNote(ctx context.Context, in *CreateNoteRequest, opts ...grpc.CallOption) (*CreateNoteResponse, error)
	UpdateNote(ctx context.Context, in *UpdateNoteRequest, opts ...grpc.CallOption) (*UpdateNoteResponse, error)
	DeleteNote(ctx context.Context, in *DeleteNoteRequest, opts ...grpc.CallOption) (*DeleteNoteResponse, error)
	ExportNotes(ctx context.Context, in *ExportNotesRequest, opts ...grpc.CallOption) (*ExportNotesResponse, error)
	ListExports(ctx context.Context, in *ListExportsRequest, opts ...grpc.CallOption) (*ListExportsResponse, error)
	GetExportLink(ctx context.Context, in *GetExportLinkRequest, opts ...grpc.CallOption) (*GetExportLinkResponse, error)
}

type notesServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewNotesServiceClient(cc grpc.ClientConnInterface) NotesServiceClient {
	return &notesServiceClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	callOpts := append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, callOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *notesServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, NotesService_Ping_FullMethodName, in, opts)
}

func (c *notesServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, NotesService_Register_FullMethodName, in, opts)
}

func (c *notesServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, NotesService_Login_FullMethodName, in, opts)
}

func (c *notesServiceClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error) {
	return invoke[RefreshTokenResponse](ctx, c.cc, NotesService_RefreshToken_FullMethodName, in, opts)
}

func (c *notesServiceClient) ChangePassword(ctx context.Context, in *ChangePasswordRequest, opts ...grpc.CallOption) (*ChangePasswordResponse, error) {
	return invoke[ChangePasswordResponse](ctx, c.cc, NotesService_ChangePassword_FullMethodName, in, opts)
}

func (c *notesServiceClient) DeleteAccount(ctx context.Context, in *DeleteAccountRequest, opts ...grpc.CallOption) (*DeleteAccountResponse, error) {
	return invoke[DeleteAccountResponse](ctx, c.cc, NotesService_DeleteAccount_FullMethodName, in, opts)
}

func (c *notesServiceClient) ListNotes(ctx context.Context, in *ListNotesRequest, opts ...grpc.CallOption) (*ListNotesResponse, error) {
	return invoke[ListNotesResponse](ctx, c.cc, NotesService_ListNotes_FullMethodName, in, opts)
}

func (c *notesServiceClient) CreateNote(ctx context.Context, in *CreateNoteRequest, opts ...grpc.CallOption) (*CreateNoteResponse, error) {
	return invoke[CreateNoteResponse](ctx, c.cc, NotesService_CreateNote_FullMethodName, in, opts)
}

func (c *notesServiceClient) UpdateNote(ctx context.Context, in *UpdateNoteRequest, opts ...grpc.CallOption) (*UpdateNoteResponse, error) {
	return invoke[UpdateNoteResponse](ctx, c.cc, NotesService_UpdateNote_FullMethodName, in, opts)
}

func (c *notesServiceClient) DeleteNote(ctx context.Context, in *DeleteNoteRequest, opts ...grpc.CallOption) (*DeleteNoteResponse, error) {
	return invoke[DeleteNoteResponse](ctx, c.cc, NotesService_DeleteNote_FullMethodName, in, opts)
}

func (c *notesServiceClient) ExportNotes(ctx context.Context, in *ExportNotesRequest, opts ...grpc.CallOption) (*ExportNotesResponse, error) {
	return invoke[ExportNotesResponse](ctx, c.cc, NotesService_ExportNotes_FullMethodName, in, opts)
}

func (c *notesServiceClient) ListExports(ctx context.Context, in *ListExportsRequest, opts ...grpc.CallOption) (*ListExportsResponse, error) {
	return invoke[ListExportsResponse](ctx, c.cc, NotesService_ListExports_FullMethodName, in, opts)
}

func (c *notesServiceClient) GetExportLink(ctx context.Context, in *GetExportLinkRequest, opts ...grpc.CallOption) (*GetExportLinkResponse, error) {
	return invoke[GetExportLinkResponse](ctx, c.cc, NotesService_GetExportLink_FullMethodName, in, opts)
}
