// internal/app/features/auditlog/handler.go
package auditlog

import (
	"context"

	uierrors "github.com/dalemusser/libraryhub/internal/app/features/errors"
	"github.com/dalemusser/libraryhub/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// EventSource reads audit events. audit.Store implements it.
type EventSource interface {
	Query(ctx context.Context, filter audit.QueryFilter) ([]audit.Event, error)
	CountByFilter(ctx context.Context, filter audit.QueryFilter) (int64, error)
}

// NameLookup resolves user ids to display names. userstore.Store
// implements it.
type NameLookup interface {
	NamesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error)
}

type Handler struct {
	Events EventSource
	Users  NameLookup // optional
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler constructs an audit log feature handler.
func NewHandler(events EventSource, users NameLookup, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Events: events,
		Users:  users,
		Log:    logger,
		ErrLog: errLog,
	}
}
