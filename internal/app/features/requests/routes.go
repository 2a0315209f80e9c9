// internal/app/features/requests/routes.go
package requests

import (
	"github.com/dalemusser/libraryhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the user request endpoints, typically under
// "/api/user/resource-request".
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Post("/", h.HandleSubmit)
		pr.Get("/{userId}", h.ServeListForUser)
	})

	return r
}
