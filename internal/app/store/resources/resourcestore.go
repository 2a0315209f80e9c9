// internal/app/store/resources/resourcestore.go
package resourcestore

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/libraryhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StatsListSize is the length of the recent and popular lists in Stats.
const StatsListSize = 5

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("resources")}
}

// Create inserts a new Resource, setting ID, TitleCI and timestamps.
// The caller validates the fields.
func (s *Store) Create(ctx context.Context, r models.Resource) (models.Resource, error) {
	now := time.Now().UTC()

	r.ID = primitive.NewObjectID()
	r.TitleCI = text.Fold(r.Title)
	if r.Keywords == nil {
		r.Keywords = []string{}
	}
	r.CreatedAt = now
	r.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.Resource{}, err
	}
	return r, nil
}

// GetByID returns a resource by its ID, active or not.
// Returns mongo.ErrNoDocuments if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Resource, error) {
	var r models.Resource
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return models.Resource{}, err
	}
	return r, nil
}

// Update writes the mutable catalog fields and refreshes updated_at.
// Blank optional text and enum fields are removed from the document. Blank
// file_path and file_url, and nil keywords, keep the stored value so an edit
// that omits them does not detach an uploaded file. Activity, download count
// and created_at are left alone.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, mut models.Resource) (models.Resource, error) {
	set := bson.M{
		"title":      mut.Title,
		"title_ci":   text.Fold(mut.Title),
		"access":     mut.Access,
		"updated_at": time.Now().UTC(),
	}
	unset := bson.M{}
	optional := []struct {
		field, value string
	}{
		{"abstract", mut.Abstract},
		{"content", mut.Content},
		{"author_name", mut.AuthorName},
		{"category", string(mut.Category)},
		{"resource_type", string(mut.ResourceType)},
		{"publisher", string(mut.Publisher)},
	}
	for _, o := range optional {
		if o.value == "" {
			unset[o.field] = ""
		} else {
			set[o.field] = o.value
		}
	}
	if mut.Keywords != nil {
		set["keywords"] = mut.Keywords
	}
	if mut.FilePath != "" {
		set["file_path"] = mut.FilePath
	}
	if mut.FileURL != "" {
		set["file_url"] = mut.FileURL
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return s.findOneAndSet(ctx, id, update)
}

// SetActive sets is_active and returns the resource after the change.
// Setting the current value again succeeds. Returns mongo.ErrNoDocuments if absent.
func (s *Store) SetActive(ctx context.Context, id primitive.ObjectID, active bool) (models.Resource, error) {
	return s.findOneAndSet(ctx, id, bson.M{"$set": bson.M{
		"is_active":  active,
		"updated_at": time.Now().UTC(),
	}})
}

// IncrementDownloads adds one to download_count and returns the resource
// after the change. Returns mongo.ErrNoDocuments if absent.
func (s *Store) IncrementDownloads(ctx context.Context, id primitive.ObjectID) (models.Resource, error) {
	return s.findOneAndSet(ctx, id, bson.M{"$inc": bson.M{"download_count": 1}})
}

func (s *Store) findOneAndSet(ctx context.Context, id primitive.ObjectID, update bson.M) (models.Resource, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var r models.Resource
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&r); err != nil {
		return models.Resource{}, err
	}
	return r, nil
}

// Search returns one page of resources matching f, newest first, and the
// total number of matches.
func (s *Store) Search(ctx context.Context, f models.ResourceFilter, skip, limit int64) ([]models.Resource, int64, error) {
	filter := BuildFilter(f)

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip)
	if limit > 0 {
		opts.SetLimit(limit)
	}
	out, err := s.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListAll returns every resource, active or not, newest first.
func (s *Store) ListAll(ctx context.Context) ([]models.Resource, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	return s.find(ctx, bson.M{}, opts)
}

// Stats summarises the catalog: totals, distinct categories in use, and
// the most recent and most downloaded active resources.
func (s *Store) Stats(ctx context.Context) (models.ResourceStats, error) {
	var st models.ResourceStats
	var err error

	if st.TotalResources, err = s.c.CountDocuments(ctx, bson.M{}); err != nil {
		return st, err
	}
	active := bson.M{"is_active": true}
	if st.ActiveResources, err = s.c.CountDocuments(ctx, active); err != nil {
		return st, err
	}

	cats, err := s.c.Distinct(ctx, "category", bson.M{"category": bson.M{"$nin": bson.A{nil, ""}}})
	if err != nil {
		return st, err
	}
	st.CategoryCount = len(cats)

	recent := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(StatsListSize)
	if st.Recent, err = s.find(ctx, active, recent); err != nil {
		return st, err
	}

	popular := options.Find().
		SetSort(bson.D{{Key: "download_count", Value: -1}, {Key: "created_at", Value: -1}}).
		SetLimit(StatsListSize)
	if st.Popular, err = s.find(ctx, active, popular); err != nil {
		return st, err
	}
	return st, nil
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Resource, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Resource{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// searchFields are matched by the free-text query.
var searchFields = []string{"title", "abstract", "content", "keywords", "author_name"}

// BuildFilter translates f into a Mongo filter. Query and Author are
// matched as literal, case-insensitive substrings.
func BuildFilter(f models.ResourceFilter) bson.M {
	filter := bson.M{}
	if f.ActiveOnly {
		filter["is_active"] = true
	}
	if f.PublicOnly {
		filter["access"] = models.AccessPublic
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		rx := containsRegex(q)
		or := make(bson.A, 0, len(searchFields))
		for _, field := range searchFields {
			or = append(or, bson.M{field: rx})
		}
		filter["$or"] = or
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.ResourceType != "" {
		filter["resource_type"] = f.ResourceType
	}
	if f.Publisher != "" {
		filter["publisher"] = f.Publisher
	}
	if a := strings.TrimSpace(f.Author); a != "" {
		filter["author_name"] = containsRegex(a)
	}
	return filter
}

func containsRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}
