// Package common contains shared constants and sentinel errors used across
// FotoGen client components.
package common

const (
	// AuthorizationHeader carries the bearer token on outbound API requests.
	AuthorizationHeader = "Authorization"

	// RequestIDHeader correlates client log lines with backend traces.
	RequestIDHeader = "X-Request-ID"

	// BearerPrefix precedes the access token in AuthorizationHeader.
	BearerPrefix = "Bearer "
)
