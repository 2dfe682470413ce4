package grpc

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	pb "github.com/dmitrijs2005/gophnotes/internal/proto"
	"github.com/dmitrijs2005/gophnotes/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// publicMethods are NotesService calls that do not need an access token.
var publicMethods = map[string]struct{}{
	pb.NotesService_Ping_FullMethodName:         {},
	pb.NotesService_Register_FullMethodName:     {},
	pb.NotesService_Login_FullMethodName:        {},
	pb.NotesService_RefreshToken_FullMethodName: {},
}

func requiresToken(fullMethod string) bool {
	if !strings.HasPrefix(fullMethod, "/"+pb.ServiceName+"/") {
		return false
	}
	_, public := publicMethods[fullMethod]
	return !public
}

// accessTokenInterceptor validates the access_token metadata on protected
// methods and puts the user id into the context. An expired token is
// reported as Unauthenticated with the message "token expired", which the
// client uses as its cue to refresh.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if !requiresToken(info.FullMethod) {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	userID, err := auth.GetUserIDFromToken(accessToken, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
		}
		return nil, status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
	}

	ctx = logging.WithUserID(ctx, userID)

	return handler(ctx, req)
}

func userIDFromContext(ctx context.Context) (string, error) {
	userID := logging.UserID(ctx)
	if userID == "" {
		return "", status.Error(codes.Unauthenticated, "missing token")
	}
	return userID, nil
}
