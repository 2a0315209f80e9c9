// internal/app/features/admin/handler.go
package admin

import (
	uierrors "github.com/dalemusser/libraryhub/internal/app/features/errors"
	"github.com/dalemusser/libraryhub/internal/app/services/catalog"
	"github.com/dalemusser/libraryhub/internal/app/services/fulfillment"
	"github.com/dalemusser/libraryhub/internal/app/services/requestlifecycle"
	"go.uber.org/zap"
)

// Handler owns the admin endpoints: request review, resource creation and
// fulfillment, edits and soft deletes.
//
// It is constructed once at startup in bootstrap from the shared services.
type Handler struct {
	Requests    *requestlifecycle.Service
	Fulfillment *fulfillment.Service
	Catalog     *catalog.Service
	Log         *zap.Logger
	ErrLog      *uierrors.ErrorLogger
}

// NewHandler constructs an admin Handler.
func NewHandler(requests *requestlifecycle.Service, fulfil *fulfillment.Service, cat *catalog.Service, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Requests:    requests,
		Fulfillment: fulfil,
		Catalog:     cat,
		Log:         logger,
		ErrLog:      errLog,
	}
}
