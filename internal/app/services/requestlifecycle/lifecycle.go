// Package requestlifecycle owns the state of user resource requests:
// submission, admin status changes and listing.
//
// Transitions are permissive. Any of Pending, Approved and Rejected may move
// to any other, including Rejected back to Pending. Status changes never
// touch the fulfillment link; only the fulfillment workflow sets it.
package requestlifecycle

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/libraryhub/internal/app/system/auditlog"
	"github.com/dalemusser/libraryhub/internal/app/system/notify"
	"github.com/dalemusser/libraryhub/internal/app/system/timeouts"
	"github.com/dalemusser/libraryhub/internal/domain/errs"
	"github.com/dalemusser/libraryhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Store is the request persistence the lifecycle needs. requeststore.Store
// implements it.
type Store interface {
	Create(ctx context.Context, req models.ResourceRequest) (models.ResourceRequest, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.ResourceRequest, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status models.RequestStatus) (models.ResourceRequest, error)
	ListByRequester(ctx context.Context, userID primitive.ObjectID) ([]models.ResourceRequest, error)
	ListAll(ctx context.Context) ([]models.ResourceRequest, error)
}

// Requester is the signed-in user submitting a request.
type Requester struct {
	ID   primitive.ObjectID
	Name string
}

type Service struct {
	store    Store
	audit    *auditlog.Logger
	notifier *notify.Notifier
	log      *zap.Logger
	now      func() time.Time
}

// New returns a lifecycle Service. audit and notifier may be nil.
func New(store Store, audit *auditlog.Logger, notifier *notify.Notifier, log *zap.Logger) *Service {
	return &Service{
		store:    store,
		audit:    audit,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// SubmitRequest validates in and stores a Pending request owned by
// requester with no fulfillment link.
func (s *Service) SubmitRequest(ctx context.Context, requester *Requester, in SubmitInput) (models.ResourceRequest, error) {
	if requester == nil || requester.ID.IsZero() {
		return models.ResourceRequest{}, errs.Unauthenticated("Authentication required.")
	}
	req, err := in.build(s.now())
	if err != nil {
		return models.ResourceRequest{}, err
	}
	req.Status = models.StatusPending
	req.RequestedByID = requester.ID
	req.RequestedByName = strings.TrimSpace(requester.Name)

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), s.log, "submit request")
	defer cancel()

	created, err := s.store.Create(ctx, req)
	if err != nil {
		return models.ResourceRequest{}, errs.Store("insert request", err)
	}
	s.audit.RequestSubmitted(ctx, requester.ID, created.ID, created.Title)
	return created, nil
}

// SetStatus moves a request to status and returns it. Only status and
// modified time are written.
func (s *Service) SetStatus(ctx context.Context, actorID primitive.ObjectID, requestID string, status models.RequestStatus) (models.ResourceRequest, error) {
	status = models.RequestStatus(strings.TrimSpace(string(status)))
	if !status.Valid() {
		return models.ResourceRequest{}, errs.Validation("status", "Invalid status value")
	}
	oid, err := parseID(requestID)
	if err != nil {
		return models.ResourceRequest{}, err
	}

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), s.log, "set request status")
	defer cancel()

	before, err := s.store.GetByID(ctx, oid)
	if err != nil {
		return models.ResourceRequest{}, storeErr("load request", requestID, err)
	}
	updated, err := s.store.SetStatus(ctx, oid, status)
	if err != nil {
		return models.ResourceRequest{}, storeErr("update request status", requestID, err)
	}

	s.audit.RequestStatusChanged(ctx, actorID, updated.RequestedByID, updated.ID, string(before.Status), string(updated.Status))
	s.notifier.StatusChanged(ctx, updated, before.Status)
	return updated, nil
}

// Get returns one request.
func (s *Service) Get(ctx context.Context, requestID string) (models.ResourceRequest, error) {
	oid, err := parseID(requestID)
	if err != nil {
		return models.ResourceRequest{}, err
	}
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), s.log, "get request")
	defer cancel()

	req, err := s.store.GetByID(ctx, oid)
	if err != nil {
		return models.ResourceRequest{}, storeErr("load request", requestID, err)
	}
	return req, nil
}

// ListForUser returns the requests userID submitted, newest first. A user
// with no requests gets an empty list.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]models.ResourceRequest, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(userID))
	if err != nil {
		return []models.ResourceRequest{}, nil
	}
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), s.log, "list user requests")
	defer cancel()

	out, err := s.store.ListByRequester(ctx, oid)
	if err != nil {
		return nil, errs.Store("list user requests", err)
	}
	if out == nil {
		out = []models.ResourceRequest{}
	}
	return out, nil
}

// ListAll returns every request, newest first. Callers gate it to admins.
func (s *Service) ListAll(ctx context.Context) ([]models.ResourceRequest, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), s.log, "list requests")
	defer cancel()

	out, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, errs.Store("list requests", err)
	}
	if out == nil {
		out = []models.ResourceRequest{}
	}
	return out, nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, errs.NotFound("resource request", id)
	}
	return oid, nil
}

func storeErr(op, id string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return errs.NotFound("resource request", id)
	}
	return errs.Store(op, err)
}
