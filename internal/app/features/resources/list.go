// internal/app/features/resources/list.go
package resources

import (
	"net/http"

	"github.com/dalemusser/libraryhub/internal/app/features/shared/respond"
	"github.com/dalemusser/libraryhub/internal/app/services/catalog"
	"github.com/dalemusser/libraryhub/internal/app/system/normalize"
	"github.com/dalemusser/libraryhub/internal/app/system/paging"
	"github.com/dalemusser/libraryhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

// ServeAll lists every resource, including soft-deleted ones.
// GET /api/resource/all
func (h *Handler) ServeAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.Catalog.ListAll(r.Context())
	if err != nil {
		h.ErrLog.Write(w, r, "list resources", err)
		return
	}
	respond.Message(w, http.StatusOK, "All resources fetched successfully", list)
}

// ServeStats returns the dashboard summary.
// GET /api/resource/stats
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.Catalog.Stats(r.Context())
	if err != nil {
		h.ErrLog.Write(w, r, "resource stats", err)
		return
	}
	respond.Message(w, http.StatusOK, "Stats fetched successfully", st)
}

// ServeSearch searches active resources.
// GET /api/resource/search?q=&category=&resourceType=&publisher=&author=&page=&limit=
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	filters := catalog.Filters{
		Category:     models.Category(normalize.QueryParam(query.Get(r, "category"))),
		ResourceType: models.ResourceType(normalize.QueryParam(query.Get(r, "resourceType"))),
		Publisher:    models.Publisher(normalize.QueryParam(query.Get(r, "publisher"))),
		Author:       normalize.QueryParam(query.Get(r, "author")),
	}

	page, err := h.Catalog.Search(r.Context(), normalize.QueryParam(query.Get(r, "q")), filters, paging.Parse(r))
	if err != nil {
		h.ErrLog.Write(w, r, "search resources", err)
		return
	}
	respond.Page(w, "Search results", page.Items, page.Pagination)
}

// ServePublic lists active public resources.
// GET /api/resource/public?page=&limit=
func (h *Handler) ServePublic(w http.ResponseWriter, r *http.Request) {
	page, err := h.Catalog.FindActivePublic(r.Context(), paging.Parse(r))
	if err != nil {
		h.ErrLog.Write(w, r, "list public resources", err)
		return
	}
	respond.Page(w, "Public resources fetched successfully", page.Items, page.Pagination)
}
