// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/libraryhub/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	sets := []struct {
		name   string
		models []mongo.IndexModel
	}{
		{"resources", resourceIndexes()},
		{"resource_requests", requestIndexes()},
		{"users", userIndexes()},
		{"audit_events", audit.Indexes()},
	}
	for _, s := range sets {
		if err := ensureIndexSet(ctx, db.Collection(s.name), s.models); err != nil {
			problems = append(problems, s.name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolVal(b *bool) bool { return b != nil && *b }

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func listExisting(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	existing := map[string]existingIndex{} // sig -> index
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		// Collection may not exist yet; CreateOne will create it.
		return existing
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing
}

// ensureIndexSet creates each desired index. An index with the same keys is
// reused when its uniqueness matches; otherwise (or when the name differs)
// it is dropped and recreated.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string
	existing := listExisting(ctx, coll)

	for _, m := range models {
		var name string
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()
		log := zap.L().With(
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", boolVal(unique)))

		if ex, ok := existing[sig]; ok {
			if boolVal(ex.Unique) == boolVal(unique) && (name == "" || ex.Name == name) {
				log.Debug("reusing existing index")
				continue
			}
			log.Info("replacing index", zap.String("existing", ex.Name))
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				log.Warn("drop existing index failed", zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, err))
				continue
			}
		}

		created, err := coll.Indexes().CreateOne(ctx, m)
		if err != nil {
			log.Warn("index ensure failed", zap.Duration("took", time.Since(start)), zap.Error(err))
			if isDuplicateKeyErr(err) && boolVal(unique) {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), name))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			}
			continue
		}
		log.Info("index ensured",
			zap.String("created_name", created),
			zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func resourceIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		// Public listing and search: active filter, newest first, stable tiebreak
		{
			Keys: bson.D{
				{Key: "is_active", Value: 1},
				{Key: "created_at", Value: -1},
				{Key: "_id", Value: -1},
			},
			Options: options.Index().SetName("idx_resources_active_created__id"),
		},
		// Admin "all resources" listing
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("idx_resources_created__id"),
		},
		// Exact-match filters
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "is_active", Value: 1}},
			Options: options.Index().SetName("idx_resources_category_active"),
		},
		{
			Keys:    bson.D{{Key: "resource_type", Value: 1}, {Key: "is_active", Value: 1}},
			Options: options.Index().SetName("idx_resources_type_active"),
		},
		// Most downloaded (stats)
		{
			Keys:    bson.D{{Key: "is_active", Value: 1}, {Key: "download_count", Value: -1}},
			Options: options.Index().SetName("idx_resources_active_downloads"),
		},
		// Title sort for admin screens
		{
			Keys:    bson.D{{Key: "title_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_resources_titleci__id"),
		},
	}
}

func requestIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		// "My requests", newest first
		{
			Keys: bson.D{
				{Key: "requested_by_id", Value: 1},
				{Key: "created_time", Value: -1},
				{Key: "_id", Value: -1},
			},
			Options: options.Index().SetName("idx_rr_requester_created__id"),
		},
		// Admin queue, newest first
		{
			Keys:    bson.D{{Key: "created_time", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("idx_rr_created__id"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_time", Value: -1}},
			Options: options.Index().SetName("idx_rr_status_created"),
		},
		// Which request did a resource fulfil
		{
			Keys:    bson.D{{Key: "fulfilled_by_resource_id", Value: 1}},
			Options: options.Index().SetName("idx_rr_fulfilled_by"),
		},
	}
}

func userIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		// Email must be unique across users (folded)
		{
			Keys: bson.D{{Key: "email_ci", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"email_ci": bson.M{"$type": "string"}}).
				SetName("uniq_users_emailci"),
		},
		{
			Keys:    bson.D{{Key: "login_id", Value: 1}},
			Options: options.Index().SetName("idx_users_loginid"),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_users_role_status"),
		},
	}
}
