// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/libraryhub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	// helper: ensure collection exists (with truthful logging) and then validator (if provided)
	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("users", usersSchema())
	ensure("resources", resourcesSchema())
	ensure("resource_requests", requestsSchema())

	// Append-only; no validator.
	ensure("audit_events", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Debug("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExistsErr(err) {
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

// enumOf converts a closed set of domain values into a schema enum.
func enumOf[T ~string](vals []T) bson.A {
	out := make(bson.A, 0, len(vals))
	for _, v := range vals {
		out = append(out, string(v))
	}
	return out
}

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "role", "status"},
			"properties": bson.M{
				"name":     bson.M{"bsonType": "string"},
				"email":    bson.M{"bsonType": bson.A{"string", "null"}},
				"email_ci": bson.M{"bsonType": bson.A{"string", "null"}},
				"role":     bson.M{"enum": bson.A{models.RoleAdmin, models.RoleUser}},
				"status":   bson.M{"enum": bson.A{models.UserStatusActive, models.UserStatusDisabled}},
			},
		},
	}
}

func resourcesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "title_ci", "is_active"},
			"properties": bson.M{
				"title":    nonBlank,
				"title_ci": nonBlank,

				// Enumerated fields are omitted from the document when unset.
				"category":      bson.M{"enum": enumOf(models.Categories)},
				"resource_type": bson.M{"enum": enumOf(models.ResourceTypes)},
				"publisher":     bson.M{"enum": enumOf(models.Publishers)},
				"access": bson.M{
					"bsonType": bson.A{"array", "null"},
					"items":    bson.M{"enum": enumOf(models.AccessLevels)},
				},

				"keywords":       bson.M{"bsonType": bson.A{"array", "null"}},
				"is_active":      bson.M{"bsonType": "bool"},
				"download_count": bson.M{"bsonType": bson.A{"long", "int"}, "minimum": 0},
			},
		},
	}
}

func requestsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "status", "requested_by_id"},
			"properties": bson.M{
				"title":           nonBlank,
				"authors":         bson.M{"bsonType": bson.A{"array", "null"}},
				"status":          bson.M{"enum": enumOf(models.RequestStatuses)},
				"priority":        bson.M{"enum": append(enumOf(models.Priorities), "")},
				"resource_type":   bson.M{"enum": append(enumOf(models.RequestTypes), "")},
				"requested_by_id": bson.M{"bsonType": "objectId"},
				"fulfilled_by_resource_id": bson.M{
					"bsonType": bson.A{"objectId", "null"},
				},
			},
		},
	}
}
