// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/libraryhub/internal/app/store/audit"
	userstore "github.com/dalemusser/libraryhub/internal/app/store/users"
	"github.com/dalemusser/libraryhub/internal/app/system/auditlog"
	"github.com/dalemusser/libraryhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It applies
// the configured store deadlines and bootstraps the admin account.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})

	if appCfg.AdminEmail == "" {
		return nil
	}
	return ensureAdmin(ctx, appCfg, deps, newAuditLogger(appCfg, deps, logger), logger)
}

// ensureAdmin creates the configured admin account if no user with that
// email exists. An existing account is never modified.
func ensureAdmin(ctx context.Context, appCfg AppConfig, deps DBDeps, audit *auditlog.Logger, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	created, err := userstore.New(deps.MongoDatabase).EnsureAdmin(ctx, appCfg.AdminEmail, appCfg.AdminName, appCfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("bootstrap admin %s: %w", appCfg.AdminEmail, err)
	}
	if !created {
		logger.Debug("admin account already present", zap.String("email", appCfg.AdminEmail))
		return nil
	}
	logger.Info("admin account created", zap.String("email", appCfg.AdminEmail))
	audit.AdminBootstrapped(ctx, appCfg.AdminEmail)
	return nil
}

// newAuditLogger builds the audit logger for the configured destinations.
func newAuditLogger(appCfg AppConfig, deps DBDeps, logger *zap.Logger) *auditlog.Logger {
	var store *audit.Store
	if deps.MongoDatabase != nil {
		store = audit.New(deps.MongoDatabase)
	}
	return auditlog.New(store, logger, auditlog.Config{
		Admin: appCfg.AuditLogAdmin,
		User:  appCfg.AuditLogUser,
	})
}
