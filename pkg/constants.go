// Package pkg provides shared types and utilities for the easel API.
package pkg

// Common API path constants.
const (
	// BasePath is the root path for the API.
	BasePath = "/api/v1"

	// HealthCheckPath is the endpoint for health checks.
	HealthCheckPath = BasePath + "/ping"

	// SessionsPath is the collection endpoint for editor sessions.
	SessionsPath = BasePath + "/sessions"
)
