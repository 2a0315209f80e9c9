package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/libraryhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given role and status.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role, status string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		LoginID:   email,
		Name:      name,
		Email:     email,
		EmailCI:   text.Fold(email),
		Role:      role,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateAdmin creates an active admin.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleAdmin, models.UserStatusActive)
}

// CreateDisabledUser creates a disabled regular user.
func (f *Fixtures) CreateDisabledUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleUser, models.UserStatusDisabled)
}

// CreateResource inserts an active public resource with the given title.
func (f *Fixtures) CreateResource(ctx context.Context, title string) models.Resource {
	f.t.Helper()

	now := time.Now().UTC()
	r := models.Resource{
		ID:       primitive.NewObjectID(),
		Title:    title,
		TitleCI:  text.Fold(title),
		Keywords: []string{},
		Access:   []models.Access{models.AccessPublic},
		IsActive: true,

		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("resources").InsertOne(ctx, r); err != nil {
		f.t.Fatalf("failed to create test resource: %v", err)
	}
	return r
}

// CreateRequest inserts a Pending request by requester.
func (f *Fixtures) CreateRequest(ctx context.Context, title string, requester primitive.ObjectID) models.ResourceRequest {
	f.t.Helper()

	now := time.Now().UTC()
	req := models.ResourceRequest{
		ID:               primitive.NewObjectID(),
		Title:            title,
		Authors:          []string{"Test Author"},
		ResourceType:     models.RequestTypeBook,
		Description:      "test description",
		Priority:         models.PriorityMedium,
		ReasonForRequest: "test reason",
		Status:           models.StatusPending,
		RequestedByID:    requester,
		RequestedByName:  "Test User",
		CreatedTime:      now,
		ModifiedTime:     now,
	}
	if _, err := f.db.Collection("resource_requests").InsertOne(ctx, req); err != nil {
		f.t.Fatalf("failed to create test request: %v", err)
	}
	return req
}
