package constants

import "time"

const (
	DefaultTimeout     = 30 * time.Second
	HTTPClientTimeout  = 10 * time.Second
	ShutdownTimeout    = 10 * time.Second
	OAuthStateLifetime = 10 * time.Minute

	// Access tokens are refreshed when they expire within this window.
	TokenRefreshLeeway = 5 * time.Minute

	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes

	DefaultPageSize = 20
	MaxPageSize     = 100

	// Remote events are merged into list/search views within this window
	// around now, matching how far the original product looked in each
	// direction.
	RemoteLookbackDays  = 365
	RemoteLookaheadDays = 365
)
