package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "gophnotes.NotesService"

const (
	NotesService_Ping_FullMethodName           = "/gophnotes.NotesService/Ping"
	NotesService_Register_FullMethodName       = "/gophnotes.NotesService/Register"
	NotesService_Login_FullMethodName          = "/gophnotes.NotesService/Login"
	NotesService_RefreshToken_FullMethodName   = "/gophnotes.NotesService/RefreshToken"
	NotesService_ChangePassword_FullMethodName = "/gophnotes.NotesService/ChangePassword"
	NotesService_DeleteAccount_FullMethodName  = "/gophnotes.NotesService/DeleteAccount"
	NotesService_ListNotes_FullMethodName      = "/gophnotes.NotesService/ListNotes"
	NotesService_CreateNote_FullMethodName     = "/gophnotes.NotesService/CreateNote"
	NotesService_UpdateNote_FullMethodName     = "/gophnotes.NotesService/UpdateNote"
	NotesService_DeleteNote_FullMethodName     = "/gophnotes.NotesService/DeleteNote"
	NotesService_ExportNotes_FullMethodName    = "/gophnotes.NotesService/ExportNotes"
	NotesService_ListExports_FullMethodName    = "/gophnotes.NotesService/ListExports"
	NotesService_GetExportLink_FullMethodName  = "/gophnotes.NotesService/GetExportLink"
)

// NotesServiceServer is the server API for NotesService.
type NotesServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error)
	ChangePassword(context.Context, *ChangePasswordRequest) (*ChangePasswordResponse, error)
	DeleteAccount(context.Context, *DeleteAccountRequest) (*DeleteAccountResponse, error)
	ListNotes(context.Context, *ListNotesRequest) (*ListNotesResponse, error)
	CreateNote(context.Context, *CreateNoteRequest) (*CreateNoteResponse, error)
	UpdateNote(context.Context, *UpdateNoteRequest) (*UpdateNoteResponse, error)
	DeleteNote(context.Context, *DeleteNoteRequest) (*DeleteNoteResponse, error)
	ExportNotes(context.Context, *ExportNotesRequest) (*ExportNotesResponse, error)
	ListExports(context.Context, *ListExportsRequest) (*ListExportsResponse, error)
	GetExportLink(context.Context, *GetExportLinkRequest) (*GetExportLinkResponse, error)
}

// UnimplementedNotesServiceServer answers every method with codes.Unimplemented.
// Embed it to stay forward compatible when methods are added.
type UnimplementedNotesServiceServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedNotesServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, unimplemented("Ping")
}
func (UnimplementedNotesServiceServer) Register(context.Context, *RegisterRequest) (*RegisterResponse, error) {
	return nil, unimplemented("Register")
}
func (UnimplementedNotesServiceServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, unimplemented("Login")
}
func (UnimplementedNotesServiceServer) RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error) {
	return nil, unimplemented("RefreshToken")
}
func (UnimplementedNotesServiceServer) ChangePassword(context.Context, *ChangePasswordRequest) (*ChangePasswordResponse, error) {
	return nil, unimplemented("ChangePassword")
}
func (UnimplementedNotesServiceServer) DeleteAccount(context.Context, *DeleteAccountRequest) (*DeleteAccountResponse, error) {
	return nil, unimplemented("DeleteAccount")
}
func (UnimplementedNotesServiceServer) ListNotes(context.Context, *ListNotesRequest) (*ListNotesResponse, error) {
	return nil, unimplemented("ListNotes")
}
func (UnimplementedNotesServiceServer) CreateNote(context.Context, *CreateNoteRequest) (*CreateNoteResponse, error) {
	return nil, unimplemented("CreateNote")
}
func (UnimplementedNotesServiceServer) UpdateNote(context.Context, *UpdateNoteRequest) (*UpdateNoteResponse, error) {
	return nil, unimplemented("UpdateNote")
}
func (UnimplementedNotesServiceServer) DeleteNote(context.Context, *DeleteNoteRequest) (*DeleteNoteResponse, error) {
	return nil, unimplemented("DeleteNote")
}
func (UnimplementedNotesServiceServer) ExportNotes(context.Context, *ExportNotesRequest) (*ExportNotesResponse, error) {
	return nil, unimplemented("ExportNotes")
}
func (UnimplementedNotesServiceServer) ListExports(context.Context, *ListExportsRequest) (*ListExportsResponse, error) {
	return nil, unimplemented("ListExports")
}
func (UnimplementedNotesServiceServer) GetExportLink(context.Context, *GetExportLinkRequest) (*GetExportLinkResponse, error) {
	return nil, unimplemented("GetExportLink")
}

// unaryMethod builds the MethodDesc for one unary RPC.
func unaryMethod[Req, Resp any](name string, call func(NotesServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(NotesServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(NotesServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// NotesService_ServiceDesc is the grpc.ServiceDesc for NotesService.
var NotesService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*NotesServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("Ping", NotesServiceServer.Ping),
		unaryMethod("Register", NotesServiceServer.Register),
		unaryMethod("Login", NotesServiceServer.Login),
		unaryMethod("RefreshToken", NotesServiceServer.RefreshToken),
		unaryMethod("ChangePassword", NotesServiceServer.ChangePassword),
		unaryMethod("DeleteAccount", NotesServiceServer.DeleteAccount),
		unaryMethod("ListNotes", NotesServiceServer.ListNotes),
		unaryMethod("CreateNote", NotesServiceServer.CreateNote),
		unaryMethod("UpdateNote", NotesServiceServer.UpdateNote),
		unaryMethod("DeleteNote", NotesServiceServer.DeleteNote),
		unaryMethod("ExportNotes", NotesServiceServer.ExportNotes),
		unaryMethod("ListExports", NotesServiceServer.ListExports),
		unaryMethod("GetExportLink", NotesServiceServer.GetExportLink),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophnotes/notes.proto",
}

// RegisterNotesServiceServer registers srv on s.
func RegisterNotesServiceServer(s grpc.ServiceRegistrar, srv NotesServiceServer) {
	s.RegisterService(&NotesService_ServiceDesc, srv)
}
