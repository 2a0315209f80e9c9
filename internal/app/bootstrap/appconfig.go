// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings (ports, TLS, log level, CORS); everything specific
// to the library service lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Caller identification. Tokens and cookies are issued by the login
	// service; this app only verifies them.
	JWTSecret     string // HS256 key shared with the login service
	SessionKey    string // Cookie signing key
	SessionName   string // Cookie name
	SessionDomain string // Cookie domain (blank means current host)

	// Lifecycle notifications
	RedisURL      string // redis://... ; blank writes events to the log only
	NotifyChannel string // Pub/sub channel name

	// Audit logging: "all", "db", "log", or "off"
	AuditLogAdmin string
	AuditLogUser  string

	// Admin bootstrap. When AdminEmail is set, Startup creates the account
	// if it does not exist.
	AdminEmail    string
	AdminName     string
	AdminPassword string

	// Store call deadlines
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
}
