// Package common contains shared constants and sentinel errors used across
// gophnotes components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// MinPasswordLength is the shortest password accepted at registration
// and on password change.
const MinPasswordLength = 6
