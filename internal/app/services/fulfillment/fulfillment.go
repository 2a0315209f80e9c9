// Package fulfillment turns an admin's catalog entry into a Resource and,
// when a request id is given, links the originating request to it.
//
// The two writes are not transactional. The Resource insert is the primary
// step and its failure is returned. The link-back is secondary: if it fails
// the Resource stays, the failure is logged and audited, and the caller
// still gets a successful Result whose Link says what happened.
package fulfillment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/libraryhub/internal/app/services/catalog"
	"github.com/dalemusser/libraryhub/internal/app/system/auditlog"
	"github.com/dalemusser/libraryhub/internal/app/system/notify"
	"github.com/dalemusser/libraryhub/internal/app/system/timeouts"
	"github.com/dalemusser/libraryhub/internal/domain/errs"
	"github.com/dalemusser/libraryhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ResourceCreator inserts catalog entries. resourcestore.Store implements it.
type ResourceCreator interface {
	Create(ctx context.Context, r models.Resource) (models.Resource, error)
}

// RequestLinker marks a request fulfilled. requeststore.Store implements it.
type RequestLinker interface {
	MarkFulfilled(ctx context.Context, id, resourceID primitive.ObjectID, at time.Time) (models.ResourceRequest, error)
}

// Link reasons reported when a link-back was attempted and did not happen.
const (
	ReasonMalformedID = "malformed request id"
	ReasonNotFound    = "request not found"
	ReasonStoreError  = "store error"
)

// Link describes the link-back step.
type Link struct {
	Attempted bool
	Linked    bool
	Reason    string
}

// Result is the outcome of a fulfillment.
type Result struct {
	Resource models.Resource
	Link     Link
}

type Service struct {
	resources ResourceCreator
	requests  RequestLinker
	audit     *auditlog.Logger
	notifier  *notify.Notifier
	log       *zap.Logger
	now       func() time.Time
}

// New returns a fulfillment Service. audit and notifier may be nil.
func New(resources ResourceCreator, requests RequestLinker, audit *auditlog.Logger, notifier *notify.Notifier, log *zap.Logger) *Service {
	return &Service{
		resources: resources,
		requests:  requests,
		audit:     audit,
		notifier:  notifier,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateResource adds a Resource with no originating request.
func (s *Service) CreateResource(ctx context.Context, actorID primitive.ObjectID, in catalog.ResourceInput) (models.Resource, error) {
	res, err := s.FulfillRequest(ctx, actorID, "", in)
	return res.Resource, err
}

// FulfillRequest validates in, creates the Resource and, when requestID is
// not blank, links that request to it and marks it Approved.
func (s *Service) FulfillRequest(ctx context.Context, actorID primitive.ObjectID, requestID string, in catalog.ResourceInput) (Result, error) {
	r, err := in.Build()
	if err != nil {
		return Result{}, err
	}

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Long(), s.log, "fulfill request")
	defer cancel()

	created, err := s.resources.Create(ctx, r)
	if err != nil {
		return Result{}, errs.Store("insert resource", err)
	}
	s.audit.ResourceCreated(ctx, actorID, created.ID, created.Title)

	result := Result{Resource: created}
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return result, nil
	}
	result.Link = s.link(ctx, actorID, requestID, created)
	return result, nil
}

func (s *Service) link(ctx context.Context, actorID primitive.ObjectID, requestID string, created models.Resource) Link {
	l := Link{Attempted: true}

	oid, err := primitive.ObjectIDFromHex(requestID)
	if err != nil {
		l.Reason = ReasonMalformedID
		s.linkFailed(ctx, actorID, created, requestID, l.Reason, err)
		return l
	}

	req, err := s.requests.MarkFulfilled(ctx, oid, created.ID, s.now())
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		l.Reason = ReasonNotFound
		s.linkFailed(ctx, actorID, created, requestID, l.Reason, nil)
		return l
	case err != nil:
		l.Reason = ReasonStoreError
		s.linkFailed(ctx, actorID, created, requestID, l.Reason, err)
		return l
	}

	l.Linked = true
	s.audit.RequestFulfilled(ctx, actorID, req.RequestedByID, req.ID, created.ID)
	s.notifier.Fulfilled(ctx, req, created)
	return l
}

func (s *Service) linkFailed(ctx context.Context, actorID primitive.ObjectID, created models.Resource, requestID, reason string, cause error) {
	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("resource_id", created.ID.Hex()),
		zap.String("reason", reason),
	}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}
	s.log.Warn("resource created but request not linked", fields...)
	s.audit.RequestLinkFailed(ctx, actorID, created.ID, requestID, reason)
}
