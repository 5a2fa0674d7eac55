// Package common contains shared constants and helpers used across
// userdesk components.
package common

const (
	// AuthorizationHeaderName carries the bearer credential on outbound requests.
	AuthorizationHeaderName = "Authorization"

	// RequestIDHeaderName carries a per-request correlation id.
	RequestIDHeaderName = "X-Request-Id"

	// APIKeyHeaderName is the header some deployments of the remote
	// directory require in addition to the bearer credential.
	APIKeyHeaderName = "x-api-key"
)
