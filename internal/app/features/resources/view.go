// internal/app/features/resources/view.go
package resources

import (
	"net/http"

	"github.com/dalemusser/libraryhub/internal/app/features/shared/respond"
	"github.com/go-chi/chi/v5"
)

// ServeResource returns one resource, active or not.
// GET /api/resource/{id}
func (h *Handler) ServeResource(w http.ResponseWriter, r *http.Request) {
	res, err := h.Catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Write(w, r, "get resource", err)
		return
	}
	respond.Message(w, http.StatusOK, "Resource found", res)
}

// HandleDownload counts a download.
// POST /api/resource/{id}/download
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Catalog.TrackDownload(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.ErrLog.Write(w, r, "track download", err)
		return
	}
	respond.Message(w, http.StatusOK, "Download tracked", nil)
}
