// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event categories
const (
	CategoryUser   = "user"   // actions taken by requesters
	CategoryAdmin  = "admin"  // catalog curation and request handling
	CategorySystem = "system" // startup and maintenance
)

// User event types
const (
	EventRequestSubmitted = "request_submitted"
)

// Admin event types
const (
	EventRequestStatusChanged = "request_status_changed"
	EventRequestFulfilled     = "request_fulfilled"
	EventRequestLinkFailed    = "request_link_failed"
	EventResourceCreated      = "resource_created"
	EventResourceUpdated      = "resource_updated"
	EventResourceDeactivated  = "resource_deactivated"
	EventResourceRestored     = "resource_restored"
)

// System event types
const (
	EventAdminBootstrapped = "admin_bootstrapped"
)

// Event represents an audit event.
type Event struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`

	// Event classification
	Category  string `bson:"category" json:"category"`
	EventType string `bson:"event_type" json:"eventType"`

	// Who
	UserID  *primitive.ObjectID `bson:"user_id,omitempty" json:"userId,omitempty"`   // affected user (the requester)
	ActorID *primitive.ObjectID `bson:"actor_id,omitempty" json:"actorId,omitempty"` // who performed the action

	// What
	RequestID  *primitive.ObjectID `bson:"request_id,omitempty" json:"requestId,omitempty"`
	ResourceID *primitive.ObjectID `bson:"resource_id,omitempty" json:"resourceId,omitempty"`

	// Context
	IP        string `bson:"ip" json:"ip"`
	UserAgent string `bson:"user_agent,omitempty" json:"userAgent,omitempty"`

	// Outcome
	Success       bool   `bson:"success" json:"success"`
	FailureReason string `bson:"failure_reason,omitempty" json:"failureReason,omitempty"`

	// Additional details (varies by event type)
	Details map[string]string `bson:"details,omitempty" json:"details,omitempty"`
}

// QueryFilter defines filters for querying audit events.
type QueryFilter struct {
	UserID     *primitive.ObjectID
	ActorID    *primitive.ObjectID
	RequestID  *primitive.ObjectID
	ResourceID *primitive.ObjectID
	Category   string
	EventType  string
	FailedOnly bool
	StartTime  *time.Time
	EndTime    *time.Time
	Limit      int64
	Offset     int64
}

// DefaultQueryLimit applies when QueryFilter.Limit is not positive.
const DefaultQueryLimit = 100

// Store manages audit event records.
type Store struct {
	c *mongo.Collection
}

// New creates a new audit Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// Indexes returns the index set for the audit_events collection.
func Indexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		// Query by time range (most recent first)
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_ts"),
		},
		// Query by user
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "timestamp", Value: -1},
			},
			Options: options.Index().SetName("idx_audit_user_ts"),
		},
		// History of one request
		{
			Keys: bson.D{
				{Key: "request_id", Value: 1},
				{Key: "timestamp", Value: -1},
			},
			Options: options.Index().SetName("idx_audit_request_ts"),
		},
		// Query by event type
		{
			Keys: bson.D{
				{Key: "category", Value: 1},
				{Key: "event_type", Value: 1},
				{Key: "timestamp", Value: -1},
			},
			Options: options.Index().SetName("idx_audit_cat_type_ts"),
		},
	}
}

// Log records an audit event.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, event)
	return err
}

// Query retrieves audit events matching the given filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit).
		SetSkip(filter.Offset)

	cursor, err := s.c.Find(ctx, buildQuery(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := []Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// CountByFilter returns the count of events matching the filter.
func (s *Store) CountByFilter(ctx context.Context, filter QueryFilter) (int64, error) {
	return s.c.CountDocuments(ctx, buildQuery(filter))
}

func buildQuery(filter QueryFilter) bson.M {
	query := bson.M{}

	if filter.UserID != nil {
		query["user_id"] = filter.UserID
	}
	if filter.ActorID != nil {
		query["actor_id"] = filter.ActorID
	}
	if filter.RequestID != nil {
		query["request_id"] = filter.RequestID
	}
	if filter.ResourceID != nil {
		query["resource_id"] = filter.ResourceID
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.EventType != "" {
		query["event_type"] = filter.EventType
	}
	if filter.FailedOnly {
		query["success"] = false
	}

	if filter.StartTime != nil || filter.EndTime != nil {
		timeQuery := bson.M{}
		if filter.StartTime != nil {
			timeQuery["$gte"] = *filter.StartTime
		}
		if filter.EndTime != nil {
			timeQuery["$lte"] = *filter.EndTime
		}
		query["timestamp"] = timeQuery
	}
	return query
}
