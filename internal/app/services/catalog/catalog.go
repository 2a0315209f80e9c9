// Package catalog is the resource catalog query surface: public listing,
// search, admin edits, soft delete and restore, stats and download counts.
package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/libraryhub/internal/app/system/auditlog"
	"github.com/dalemusser/libraryhub/internal/app/system/paging"
	"github.com/dalemusser/libraryhub/internal/app/system/timeouts"
	"github.com/dalemusser/libraryhub/internal/domain/errs"
	"github.com/dalemusser/libraryhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Store is the persistence the catalog needs. resourcestore.Store
// implements it.
type Store interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Resource, error)
	Update(ctx context.Context, id primitive.ObjectID, mut models.Resource) (models.Resource, error)
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) (models.Resource, error)
	IncrementDownloads(ctx context.Context, id primitive.ObjectID) (models.Resource, error)
	Search(ctx context.Context, f models.ResourceFilter, skip, limit int64) ([]models.Resource, int64, error)
	ListAll(ctx context.Context) ([]models.Resource, error)
	Stats(ctx context.Context) (models.ResourceStats, error)
}

// Filters are the optional exact-match and author constraints of Search.
type Filters struct {
	Category     models.Category
	ResourceType models.ResourceType
	Publisher    models.Publisher
	Author       string
}

// Page is one page of resources.
type Page struct {
	Items      []models.Resource
	Pagination paging.Pagination
}

type Service struct {
	store Store
	audit *auditlog.Logger
	log   *zap.Logger
}

// New returns a catalog Service. audit may be nil.
func New(store Store, audit *auditlog.Logger, log *zap.Logger) *Service {
	return &Service{store: store, audit: audit, log: log}
}

// FindActivePublic lists active resources with Public access, newest first.
func (s *Service) FindActivePublic(ctx context.Context, page paging.Request) (Page, error) {
	return s.page(ctx, "list public resources", models.ResourceFilter{ActiveOnly: true, PublicOnly: true}, page)
}

// Search matches query literally and case-insensitively over title,
// abstract, content, keywords and author name, narrowed by filters. Only
// active resources are returned. No match is an empty page, not an error.
func (s *Service) Search(ctx context.Context, query string, filters Filters, page paging.Request) (Page, error) {
	f := models.ResourceFilter{
		Query:        strings.TrimSpace(query),
		Category:     models.Category(strings.TrimSpace(string(filters.Category))),
		ResourceType: models.ResourceType(strings.TrimSpace(string(filters.ResourceType))),
		Publisher:    models.Publisher(strings.TrimSpace(string(filters.Publisher))),
		Author:       strings.TrimSpace(filters.Author),
		ActiveOnly:   true,
	}
	return s.page(ctx, "search resources", f, page)
}

func (s *Service) page(ctx context.Context, op string, f models.ResourceFilter, page paging.Request) (Page, error) {
	if page.Page < 1 || page.Limit < 1 {
		page = paging.New("", "")
	}
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), s.log, op)
	defer cancel()

	items, total, err := s.store.Search(ctx, f, page.Skip(), page.Limit64())
	if err != nil {
		return Page{}, errs.Store(op, err)
	}
	if items == nil {
		items = []models.Resource{}
	}
	return Page{Items: items, Pagination: paging.Describe(total, page)}, nil
}

// Get returns a resource by id, active or not.
func (s *Service) Get(ctx context.Context, id string) (models.Resource, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.Resource{}, err
	}
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), s.log, "get resource")
	defer cancel()

	r, err := s.store.GetByID(ctx, oid)
	if err != nil {
		return models.Resource{}, storeErr("get resource", id, err)
	}
	return r, nil
}

// ListAll returns every resource, active and inactive, newest first.
func (s *Service) ListAll(ctx context.Context) ([]models.Resource, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), s.log, "list resources")
	defer cancel()

	items, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, errs.Store("list resources", err)
	}
	if items == nil {
		items = []models.Resource{}
	}
	return items, nil
}

// Update replaces the editable fields of a resource. Access is stored as
// {"Public"} whatever recognised levels the input names. Omitted keywords
// and file links keep their stored values.
func (s *Service) Update(ctx context.Context, actorID primitive.ObjectID, id string, in ResourceInput) (models.Resource, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.Resource{}, err
	}
	mut, err := in.Build()
	if err != nil {
		return models.Resource{}, err
	}

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), s.log, "update resource")
	defer cancel()

	r, err := s.store.Update(ctx, oid, mut)
	if err != nil {
		return models.Resource{}, storeErr("update resource", id, err)
	}
	s.audit.ResourceUpdated(ctx, actorID, r.ID, r.Title)
	return r, nil
}

// SoftDelete hides a resource from public listing and search. Repeating it
// is harmless. The resource stays fetchable by id.
func (s *Service) SoftDelete(ctx context.Context, actorID primitive.ObjectID, id string) (models.Resource, error) {
	r, err := s.setActive(ctx, id, false)
	if err != nil {
		return models.Resource{}, err
	}
	s.audit.ResourceDeactivated(ctx, actorID, r.ID, r.Title)
	return r, nil
}

// Restore makes a soft-deleted resource visible again.
func (s *Service) Restore(ctx context.Context, actorID primitive.ObjectID, id string) (models.Resource, error) {
	r, err := s.setActive(ctx, id, true)
	if err != nil {
		return models.Resource{}, err
	}
	s.audit.ResourceRestored(ctx, actorID, r.ID, r.Title)
	return r, nil
}

func (s *Service) setActive(ctx context.Context, id string, active bool) (models.Resource, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.Resource{}, err
	}
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), s.log, "set resource active")
	defer cancel()

	r, err := s.store.SetActive(ctx, oid, active)
	if err != nil {
		return models.Resource{}, storeErr("set resource active", id, err)
	}
	return r, nil
}

// Stats summarises the catalog for the admin dashboard.
func (s *Service) Stats(ctx context.Context) (models.ResourceStats, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), s.log, "resource stats")
	defer cancel()

	st, err := s.store.Stats(ctx)
	if err != nil {
		return models.ResourceStats{}, errs.Store("resource stats", err)
	}
	if st.Recent == nil {
		st.Recent = []models.Resource{}
	}
	if st.Popular == nil {
		st.Popular = []models.Resource{}
	}
	return st, nil
}

// TrackDownload increments the download counter of a resource.
func (s *Service) TrackDownload(ctx context.Context, id string) (models.Resource, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.Resource{}, err
	}
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), s.log, "track download")
	defer cancel()

	r, err := s.store.IncrementDownloads(ctx, oid)
	if err != nil {
		return models.Resource{}, storeErr("track download", id, err)
	}
	return r, nil
}

// parseID treats a malformed id as a resource that does not exist.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, errs.NotFound("resource", id)
	}
	return oid, nil
}

func storeErr(op, id string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return errs.NotFound("resource", id)
	}
	return errs.Store(op, err)
}
