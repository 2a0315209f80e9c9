// internal/app/features/resources/routes.go
package resources

import "github.com/go-chi/chi/v5"

// Routes mounts the public catalog endpoints, typically under
// "/api/resource". Static paths are registered before "/{id}".
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/all", h.ServeAll)
	r.Get("/stats", h.ServeStats)
	r.Get("/search", h.ServeSearch)
	r.Get("/public", h.ServePublic)

	r.Get("/{id}", h.ServeResource)
	r.Post("/{id}/download", h.HandleDownload)

	return r
}
