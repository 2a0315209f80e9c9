package validators_test

import (
	"testing"
	"time"

	"github.com/dalemusser/libraryhub/internal/app/system/validators"
	"github.com/dalemusser/libraryhub/internal/domain/models"
	"github.com/dalemusser/libraryhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("first EnsureAll failed: %v", err)
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	have := make(map[string]bool)
	for _, n := range names {
		have[n] = true
	}
	for _, want := range []string{"users", "resources", "resource_requests", "audit_events"} {
		if !have[want] {
			t.Errorf("expected collection %q to exist", want)
		}
	}
}

func TestEnsureAll_RejectsBadDocuments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	fx := testutil.NewFixtures(t, db)
	fx.CreateResource(ctx, "Intro to Topology")
	fx.CreateRequest(ctx, "Intro to Topology", primitive.NewObjectID())

	bad := []struct {
		coll string
		doc  bson.M
	}{
		{"resources", bson.M{"title": "   ", "title_ci": "x", "is_active": true}},
		{"resources", bson.M{"title": "Topology", "title_ci": "topology", "is_active": true, "category": "Astrology"}},
		{"resource_requests", bson.M{"title": "Topology", "status": "Lost", "requested_by_id": primitive.NewObjectID()}},
		{"users", bson.M{"name": "x", "role": "superadmin", "status": "active", "created_at": time.Now()}},
	}
	for _, b := range bad {
		if _, err := db.Collection(b.coll).InsertOne(ctx, b.doc); err == nil {
			t.Errorf("%s: expected insert of %v to be rejected", b.coll, b.doc)
		}
	}

	good := bson.M{"title": "Topology", "title_ci": "topology", "is_active": false, "category": string(models.CategoryMathematics)}
	if _, err := db.Collection("resources").InsertOne(ctx, good); err != nil {
		t.Errorf("valid resource rejected: %v", err)
	}
}
