// internal/app/features/admin/requests.go
package admin

import (
	"net/http"

	"github.com/dalemusser/libraryhub/internal/app/features/shared/respond"
	"github.com/dalemusser/libraryhub/internal/app/system/authz"
	"github.com/dalemusser/libraryhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ServeRequestList lists every resource request, newest first.
// GET /api/admin/resource-requests
func (h *Handler) ServeRequestList(w http.ResponseWriter, r *http.Request) {
	list, err := h.Requests.ListAll(r.Context())
	if err != nil {
		h.ErrLog.Write(w, r, "list requests", err)
		return
	}
	respond.Message(w, http.StatusOK, "All resource requests fetched successfully", list)
}

type statusBody struct {
	Status models.RequestStatus `json:"status"`
}

// HandleSetStatus changes the status of one request.
// PUT /api/admin/resource-requests/{id}
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	_, _, actor, _ := authz.UserCtx(r)
	id := chi.URLParam(r, "id")

	var body statusBody
	if err := respond.Decode(r, &body); err != nil {
		h.ErrLog.Write(w, r, "decode status", err)
		return
	}

	updated, err := h.Requests.SetStatus(r.Context(), actor, id, body.Status)
	if err != nil {
		h.ErrLog.Write(w, r, "set request status", err)
		return
	}

	h.Log.Info("request status changed",
		zap.String("request_id", updated.ID.Hex()),
		zap.String("status", string(updated.Status)),
		zap.String("actor_id", actor.Hex()))
	respond.Message(w, http.StatusOK, "Status updated successfully", updated)
}
