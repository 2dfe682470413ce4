// Package client talks to the gophnotes backend.
//
// GRPCClient implements Client over NotesService. It keeps the access and
// refresh tokens from the last login, attaches the access token to every
// call through a unary interceptor and transparently refreshes it once when
// the server reports "token expired". gRPC status codes are mapped to the
// sentinel errors in errors.go so callers can match them with errors.Is.
//
// Note payloads pass through untouched: encryption and decryption happen in
// the services layer with the data key returned by Login.
package client
