// internal/app/store/resourcerequests/requeststore.go
package requeststore

import (
	"context"
	"time"

	"github.com/dalemusser/libraryhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("resource_requests")}
}

// Create inserts a new request with a fresh ID and timestamps. Status
// defaults to Pending; the fulfillment link always starts empty.
func (s *Store) Create(ctx context.Context, req models.ResourceRequest) (models.ResourceRequest, error) {
	now := time.Now().UTC()

	req.ID = primitive.NewObjectID()
	if req.Status == "" {
		req.Status = models.StatusPending
	}
	req.FulfilledByResourceID = nil
	req.FulfilledAt = nil
	req.CreatedTime = now
	req.ModifiedTime = now

	if _, err := s.c.InsertOne(ctx, req); err != nil {
		return models.ResourceRequest{}, err
	}
	return req, nil
}

// GetByID loads a request. Returns mongo.ErrNoDocuments if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.ResourceRequest, error) {
	var req models.ResourceRequest
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&req); err != nil {
		return models.ResourceRequest{}, err
	}
	return req, nil
}

// SetStatus writes status and modified_time only and returns the updated
// request. Returns mongo.ErrNoDocuments if absent.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status models.RequestStatus) (models.ResourceRequest, error) {
	return s.findOneAndSet(ctx, id, bson.M{
		"status":        status,
		"modified_time": time.Now().UTC(),
	})
}

// MarkFulfilled links the request to resourceID and approves it.
// Returns mongo.ErrNoDocuments if absent.
func (s *Store) MarkFulfilled(ctx context.Context, id, resourceID primitive.ObjectID, at time.Time) (models.ResourceRequest, error) {
	return s.findOneAndSet(ctx, id, bson.M{
		"fulfilled_by_resource_id": resourceID,
		"fulfilled_at":             at,
		"status":                   models.StatusApproved,
		"modified_time":            at,
	})
}

func (s *Store) findOneAndSet(ctx context.Context, id primitive.ObjectID, set bson.M) (models.ResourceRequest, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var req models.ResourceRequest
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&req); err != nil {
		return models.ResourceRequest{}, err
	}
	return req, nil
}

// ListByRequester returns the requests made by userID, newest first. It
// returns an empty slice (not nil) when there are none.
func (s *Store) ListByRequester(ctx context.Context, userID primitive.ObjectID) ([]models.ResourceRequest, error) {
	return s.find(ctx, bson.M{"requested_by_id": userID})
}

// ListAll returns every request, newest first.
func (s *Store) ListAll(ctx context.Context) ([]models.ResourceRequest, error) {
	return s.find(ctx, bson.M{})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.ResourceRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_time", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.ResourceRequest{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
