// internal/app/features/resources/handler.go
package resources

import (
	uierrors "github.com/dalemusser/libraryhub/internal/app/features/errors"
	"github.com/dalemusser/libraryhub/internal/app/services/catalog"
	"go.uber.org/zap"
)

// Handler serves the public catalog: listing, search, lookup, stats and
// download tracking. None of its routes require a signed-in user.
type Handler struct {
	Catalog *catalog.Service
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
}

// NewHandler constructs a resources Handler.
func NewHandler(cat *catalog.Service, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Catalog: cat,
		Log:     logger,
		ErrLog:  errLog,
	}
}
