// internal/app/features/admin/resources.go
package admin

import (
	"net/http"

	"github.com/dalemusser/libraryhub/internal/app/features/shared/respond"
	"github.com/dalemusser/libraryhub/internal/app/services/catalog"
	"github.com/dalemusser/libraryhub/internal/app/system/authz"
	"github.com/dalemusser/libraryhub/internal/domain/errs"
	"github.com/dalemusser/libraryhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type addBody struct {
	catalog.ResourceInput
	RequestID string `json:"requestId"`
}

type addResponse struct {
	Message       string          `json:"message"`
	Payload       models.Resource `json:"payload"`
	RequestLinked bool            `json:"requestLinked"`
	LinkReason    string          `json:"linkReason,omitempty"`
}

// HandleAdd creates a resource and, when requestId is present, fulfils that
// request. A failed link-back still returns 201; requestLinked reports it.
// POST /api/admin/add
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	_, _, actor, _ := authz.UserCtx(r)

	var body addBody
	if err := respond.Decode(r, &body); err != nil {
		h.ErrLog.Write(w, r, "decode resource", err)
		return
	}

	res, err := h.Fulfillment.FulfillRequest(r.Context(), actor, body.RequestID, body.ResourceInput)
	if err != nil {
		h.ErrLog.Write(w, r, "fulfill request", err)
		return
	}

	h.Log.Info("resource added",
		zap.String("resource_id", res.Resource.ID.Hex()),
		zap.Bool("link_attempted", res.Link.Attempted),
		zap.Bool("request_linked", res.Link.Linked))
	respond.JSON(w, http.StatusCreated, addResponse{
		Message:       "Resource added successfully",
		Payload:       res.Resource,
		RequestLinked: res.Link.Linked,
		LinkReason:    res.Link.Reason,
	})
}

// HandleUpdate edits a resource's catalog fields.
// PUT /api/admin/resource/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	_, _, actor, _ := authz.UserCtx(r)

	var in catalog.ResourceInput
	if err := respond.Decode(r, &in); err != nil {
		h.ErrLog.Write(w, r, "decode resource", err)
		return
	}

	updated, err := h.Catalog.Update(r.Context(), actor, chi.URLParam(r, "id"), in)
	if err != nil {
		h.ErrLog.Write(w, r, "update resource", err)
		return
	}
	respond.Message(w, http.StatusOK, "Resource updated successfully", updated)
}

type activeBody struct {
	IsActive *bool `json:"isActive"`
}

// HandleSetActive soft-deletes (isActive=false) or restores (isActive=true)
// a resource.
// PUT /api/admin/delete/{id}
func (h *Handler) HandleSetActive(w http.ResponseWriter, r *http.Request) {
	_, _, actor, _ := authz.UserCtx(r)
	id := chi.URLParam(r, "id")

	var body activeBody
	if err := respond.Decode(r, &body); err != nil {
		h.ErrLog.Write(w, r, "decode active flag", err)
		return
	}
	if body.IsActive == nil {
		h.ErrLog.Write(w, r, "set resource active", errs.Validation("isActive", "isActive status must be provided"))
		return
	}

	if *body.IsActive {
		res, err := h.Catalog.Restore(r.Context(), actor, id)
		if err != nil {
			h.ErrLog.Write(w, r, "restore resource", err)
			return
		}
		respond.Message(w, http.StatusOK, "Resource restored successfully", res)
		return
	}

	res, err := h.Catalog.SoftDelete(r.Context(), actor, id)
	if err != nil {
		h.ErrLog.Write(w, r, "soft delete resource", err)
		return
	}
	respond.Message(w, http.StatusOK, "Resource soft-deleted successfully", res)
}
