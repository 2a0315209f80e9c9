// internal/app/features/admin/routes.go
package admin

import (
	"github.com/dalemusser/libraryhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the admin endpoints, typically under "/api/admin".
//
//	adminH := admin.NewHandler(requestsSvc, fulfilSvc, catalogSvc, errLog, logger)
//	r.Mount("/api/admin", admin.Routes(adminH, sessionMgr))
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin"))

		// Requests
		pr.Get("/resource-requests", h.ServeRequestList)
		pr.Put("/resource-requests/{id}", h.HandleSetStatus)

		// Resources
		pr.Post("/add", h.HandleAdd)
		pr.Put("/resource/{id}", h.HandleUpdate)
		pr.Put("/delete/{id}", h.HandleSetActive)
	})

	return r
}
