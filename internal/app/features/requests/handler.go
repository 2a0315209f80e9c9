// internal/app/features/requests/handler.go
package requests

import (
	"net/http"

	uierrors "github.com/dalemusser/libraryhub/internal/app/features/errors"
	"github.com/dalemusser/libraryhub/internal/app/features/shared/respond"
	"github.com/dalemusser/libraryhub/internal/app/services/requestlifecycle"
	"github.com/dalemusser/libraryhub/internal/app/system/authz"
	"github.com/dalemusser/libraryhub/internal/domain/errs"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the signed-in user's resource request endpoints.
type Handler struct {
	Requests *requestlifecycle.Service
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
}

// NewHandler constructs a requests Handler.
func NewHandler(svc *requestlifecycle.Service, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Requests: svc,
		Log:      logger,
		ErrLog:   errLog,
	}
}

// HandleSubmit creates a request owned by the caller.
// POST /api/user/resource-request
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	_, name, uid, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.Write(w, r, "submit request", errs.Unauthenticated("Authentication required."))
		return
	}

	var in requestlifecycle.SubmitInput
	if err := respond.Decode(r, &in); err != nil {
		h.ErrLog.Write(w, r, "decode request", err)
		return
	}

	created, err := h.Requests.SubmitRequest(r.Context(), &requestlifecycle.Requester{ID: uid, Name: name}, in)
	if err != nil {
		h.ErrLog.Write(w, r, "submit request", err)
		return
	}

	h.Log.Info("resource request submitted",
		zap.String("request_id", created.ID.Hex()),
		zap.String("requester_id", uid.Hex()))
	respond.Message(w, http.StatusCreated, "Resource request submitted successfully", created)
}

// ServeListForUser lists the requests a user submitted. Callers may list
// their own requests; admins may list anyone's.
// GET /api/user/resource-request/{userId}
func (h *Handler) ServeListForUser(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "userId")
	owner, _ := primitive.ObjectIDFromHex(raw)
	if !authz.CanViewRequestsOf(r, owner) {
		h.ErrLog.Write(w, r, "list user requests", errs.Forbidden("You can only view your own requests."))
		return
	}

	list, err := h.Requests.ListForUser(r.Context(), raw)
	if err != nil {
		h.ErrLog.Write(w, r, "list user requests", err)
		return
	}
	respond.Message(w, http.StatusOK, "Fetched all resource requests by user successfully", list)
}
