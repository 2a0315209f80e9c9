// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"

	"github.com/dalemusser/libraryhub/internal/app/system/auditlog"
	"github.com/dalemusser/libraryhub/internal/app/system/notify"
	"github.com/dalemusser/libraryhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for LibraryHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: LIBRARYHUB_MONGO_URI, LIBRARYHUB_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "library_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Caller identification
	{Name: "jwt_secret", Default: "", Desc: "HS256 secret for bearer tokens (required outside dev)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "libraryhub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Notifications
	{Name: "redis_url", Default: "", Desc: "Redis URL for lifecycle events (blank logs events only)"},
	{Name: "notify_channel", Default: notify.DefaultChannel, Desc: "Redis pub/sub channel for lifecycle events"},

	// Audit logging settings
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_user", Default: "all", Desc: "Requester event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Admin bootstrap
	{Name: "admin_email", Default: "", Desc: "Email of the admin account created on startup when missing"},
	{Name: "admin_name", Default: "Library Admin", Desc: "Display name of the bootstrapped admin"},
	{Name: "admin_password", Default: "", Desc: "Initial password of the bootstrapped admin"},

	// Store deadlines
	{Name: "timeout_short", Default: timeouts.DefaultShort.String(), Desc: "Deadline for single-document reads"},
	{Name: "timeout_medium", Default: timeouts.DefaultMedium.String(), Desc: "Deadline for lists, searches and writes"},
	{Name: "timeout_long", Default: timeouts.DefaultLong.String(), Desc: "Deadline for the fulfillment workflow"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, LIBRARYHUB_* for app) and
// command-line flags, merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "LIBRARYHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret:     appValues.String("jwt_secret"),
		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		RedisURL:      strings.TrimSpace(appValues.String("redis_url")),
		NotifyChannel: appValues.String("notify_channel"),

		AuditLogAdmin: appValues.String("audit_log_admin"),
		AuditLogUser:  appValues.String("audit_log_user"),

		AdminEmail:    strings.TrimSpace(appValues.String("admin_email")),
		AdminName:     appValues.String("admin_name"),
		AdminPassword: appValues.String("admin_password"),

		TimeoutShort:  appValues.Duration("timeout_short", timeouts.DefaultShort),
		TimeoutMedium: appValues.Duration("timeout_medium", timeouts.DefaultMedium),
		TimeoutLong:   appValues.Duration("timeout_long", timeouts.DefaultLong),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// Problems are caught here rather than on first use: a bad Mongo URI, a
// missing token secret in production, an unparsable Redis URL, or an
// unknown audit destination.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if strings.TrimSpace(appCfg.JWTSecret) == "" && coreCfg.Env != "dev" {
		return fmt.Errorf("jwt_secret is required when env is %q", coreCfg.Env)
	}

	if appCfg.RedisURL != "" {
		if _, err := redis.ParseURL(appCfg.RedisURL); err != nil {
			return fmt.Errorf("invalid redis_url: %w", err)
		}
	}

	for key, v := range map[string]string{
		"audit_log_admin": appCfg.AuditLogAdmin,
		"audit_log_user":  appCfg.AuditLogUser,
	} {
		if v != "" && !auditlog.ValidSetting(v) {
			return fmt.Errorf("%s must be one of all, db, log, off (got %q)", key, v)
		}
	}

	if appCfg.AdminPassword != "" && appCfg.AdminEmail == "" {
		logger.Warn("admin_password is set but admin_email is empty; no admin will be bootstrapped")
	}

	return nil
}
