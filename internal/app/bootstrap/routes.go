// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	adminfeature "github.com/dalemusser/libraryhub/internal/app/features/admin"
	auditfeature "github.com/dalemusser/libraryhub/internal/app/features/auditlog"
	errorsfeature "github.com/dalemusser/libraryhub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/libraryhub/internal/app/features/health"
	requestsfeature "github.com/dalemusser/libraryhub/internal/app/features/requests"
	resourcesfeature "github.com/dalemusser/libraryhub/internal/app/features/resources"
	userinfofeature "github.com/dalemusser/libraryhub/internal/app/features/userinfo"
	"github.com/dalemusser/libraryhub/internal/app/services/catalog"
	"github.com/dalemusser/libraryhub/internal/app/services/fulfillment"
	"github.com/dalemusser/libraryhub/internal/app/services/requestlifecycle"
	"github.com/dalemusser/libraryhub/internal/app/store/audit"
	requeststore "github.com/dalemusser/libraryhub/internal/app/store/resourcerequests"
	resourcestore "github.com/dalemusser/libraryhub/internal/app/store/resources"
	userstore "github.com/dalemusser/libraryhub/internal/app/store/users"
	"github.com/dalemusser/libraryhub/internal/app/system/auditlog"
	"github.com/dalemusser/libraryhub/internal/app/system/auth"
	"github.com/dalemusser/libraryhub/internal/app/system/notify"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It builds the session manager, the
// stores and services over deps, and hands them to newRouter.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	sessionMgr, err := auth.NewSessionManager(auth.Config{
		JWTSecret:     appCfg.JWTSecret,
		SessionKey:    appCfg.SessionKey,
		SessionName:   appCfg.SessionName,
		SessionDomain: appCfg.SessionDomain,
		Secure:        coreCfg.Env == "prod",
	}, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Refresh the caller from the users collection on each request so role
	// changes and disabled accounts take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	auditLog := newAuditLogger(appCfg, deps, logger)
	notifier := notify.New(newPublisher(appCfg, deps, logger), logger)

	resources := resourcestore.New(deps.MongoDatabase)
	requests := requeststore.New(deps.MongoDatabase)

	return newRouter(routerDeps{
		Sessions:    sessionMgr,
		Health:      healthfeature.NewHandler(deps.MongoClient, deps.Redis, logger),
		Catalog:     catalog.New(resources, auditLog, logger),
		Lifecycle:   requestlifecycle.New(requests, auditLog, notifier, logger),
		Fulfillment: fulfillment.New(resources, requests, auditLog, notifier, logger),
		AuditEvents: audit.New(deps.MongoDatabase),
		UserNames:   userstore.New(deps.MongoDatabase),
	}, logger), nil
}

// newPublisher picks Redis pub/sub when configured and the structured log
// otherwise.
func newPublisher(appCfg AppConfig, deps DBDeps, logger *zap.Logger) notify.Publisher {
	if deps.Redis == nil {
		logger.Info("redis not configured; lifecycle events go to the log")
		return notify.LogPublisher{Log: logger}
	}
	return notify.NewRedisBus(deps.Redis, appCfg.NotifyChannel, logger)
}

// routerDeps is everything the router mounts. Health and AuditEvents may be
// nil, in which case their endpoints are not served.
type routerDeps struct {
	Sessions    *auth.SessionManager
	Health      *healthfeature.Handler
	Catalog     *catalog.Service
	Lifecycle   *requestlifecycle.Service
	Fulfillment *fulfillment.Service
	AuditEvents auditfeature.EventSource
	UserNames   auditfeature.NameLookup
}

func newRouter(d routerDeps, logger *zap.Logger) chi.Router {
	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if signed in.
	r.Use(d.Sessions.LoadSessionUser)
	// Caller address and user agent for audit events.
	r.Use(auditlog.CaptureRequest)

	// Health check endpoint for load balancers and orchestrators
	if d.Health != nil {
		r.Mount("/health", healthfeature.Routes(d.Health))
	}

	// Requester surface
	requestsHandler := requestsfeature.NewHandler(d.Lifecycle, errLog, logger)
	r.Mount("/api/user/resource-request", requestsfeature.Routes(requestsHandler, d.Sessions))

	userinfofeature.MountRoutes(r, userinfofeature.NewHandler())

	// Admin surface
	adminHandler := adminfeature.NewHandler(d.Lifecycle, d.Fulfillment, d.Catalog, errLog, logger)
	r.Mount("/api/admin", adminfeature.Routes(adminHandler, d.Sessions))

	if d.AuditEvents != nil {
		auditHandler := auditfeature.NewHandler(d.AuditEvents, d.UserNames, errLog, logger)
		r.Mount("/api/admin/audit", auditfeature.Routes(auditHandler, d.Sessions))
	}

	// Public catalog
	resourcesHandler := resourcesfeature.NewHandler(d.Catalog, errLog, logger)
	r.Mount("/api/resource", resourcesfeature.Routes(resourcesHandler))

	return r
}
