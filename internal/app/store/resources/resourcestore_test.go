package resourcestore_test

import (
	"errors"
	"testing"
	"time"

	resourcestore "github.com/dalemusser/libraryhub/internal/app/store/resources"
	"github.com/dalemusser/libraryhub/internal/app/system/validators"
	"github.com/dalemusser/libraryhub/internal/domain/models"
	"github.com/dalemusser/libraryhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func newResource(title string) models.Resource {
	return models.Resource{
		Title:        title,
		Abstract:     "An abstract about " + title,
		Keywords:     []string{"alpha", "beta"},
		AuthorName:   "Ada Lovelace",
		Category:     models.CategoryMathematics,
		ResourceType: models.ResourceTypeBook,
		Publisher:    models.PublisherSpringer,
		Access:       []models.Access{models.AccessPublic},
		IsActive:     true,
	}
}

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := resourcestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newResource("Intro to Topology"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.TitleCI != "intro to topology" {
		t.Errorf("TitleCI: got %q", created.TitleCI)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "Intro to Topology" || !got.IsActive || !got.HasAccess(models.AccessPublic) {
		t.Errorf("unexpected resource: %+v", got)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := resourcestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, primitive.NewObjectID())
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestStore_SetActive_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := resourcestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newResource("Soft Delete Me"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		got, err := store.SetActive(ctx, created.ID, false)
		if err != nil {
			t.Fatalf("SetActive #%d failed: %v", i+1, err)
		}
		if got.IsActive {
			t.Errorf("SetActive #%d: expected inactive", i+1)
		}
	}

	// Still fetchable by id.
	if _, err := store.GetByID(ctx, created.ID); err != nil {
		t.Errorf("GetByID after soft delete: %v", err)
	}

	if _, err := store.SetActive(ctx, primitive.NewObjectID(), false); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments for unknown id, got %v", err)
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := resourcestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newResource("Old Title"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.IncrementDownloads(ctx, created.ID); err != nil {
		t.Fatalf("IncrementDownloads failed: %v", err)
	}

	mut := newResource("New Title")
	mut.Keywords = []string{}
	mut.Category = models.CategoryPhysics
	got, err := store.Update(ctx, created.ID, mut)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Title != "New Title" || got.TitleCI != "new title" {
		t.Errorf("title not updated: %+v", got)
	}
	if got.Category != models.CategoryPhysics {
		t.Errorf("Category: got %q", got.Category)
	}
	if got.Keywords == nil || len(got.Keywords) != 0 {
		t.Errorf("Keywords: got %#v, want empty", got.Keywords)
	}
	if got.DownloadCount != 1 {
		t.Errorf("DownloadCount: got %d, want 1", got.DownloadCount)
	}
	if !got.CreatedAt.Equal(created.CreatedAt.Truncate(time.Millisecond)) {
		t.Errorf("CreatedAt changed: %v -> %v", created.CreatedAt, got.CreatedAt)
	}
}

func TestStore_Update_BlankOptionalFieldsPassSchema(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	store := resourcestore.New(db)

	orig := newResource("Intro to Topology")
	orig.FilePath = "uploads/topology.pdf"
	orig.FileURL = "/uploads/topology.pdf"
	created, err := store.Create(ctx, orig)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.Update(ctx, created.ID, models.Resource{
		Title:  "Intro to Topology (2nd ed.)",
		Access: []models.Access{models.AccessPublic},
	})
	if err != nil {
		t.Fatalf("Update with blank enums failed: %v", err)
	}
	if got.Category != "" || got.ResourceType != "" || got.Publisher != "" || got.Abstract != "" {
		t.Errorf("optional fields not cleared: %+v", got)
	}
	if got.FilePath != orig.FilePath || got.FileURL != orig.FileURL {
		t.Errorf("file link lost: path=%q url=%q", got.FilePath, got.FileURL)
	}
	if len(got.Keywords) != 2 {
		t.Errorf("Keywords: got %v, want stored keywords kept", got.Keywords)
	}

	var raw bson.M
	if err := db.Collection("resources").FindOne(ctx, bson.M{"_id": created.ID}).Decode(&raw); err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	for _, field := range []string{"category", "resource_type", "publisher", "abstract"} {
		if _, present := raw[field]; present {
			t.Errorf("%s should be absent from the document, got %v", field, raw[field])
		}
	}
}

func TestStore_Search(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := resourcestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	topo := newResource("Intro to Topology")
	if _, err := store.Create(ctx, topo); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	algebra := newResource("Linear Algebra (2nd ed.)")
	algebra.Category = models.CategoryComputerScience
	if _, err := store.Create(ctx, algebra); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	hidden := newResource("Hidden Topology Notes")
	hidden.IsActive = false
	if _, err := store.Create(ctx, hidden); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	tests := []struct {
		name   string
		filter models.ResourceFilter
		want   int64
	}{
		{"query hit", models.ResourceFilter{Query: "topology", ActiveOnly: true}, 1},
		{"query miss", models.ResourceFilter{Query: "zzz-nothing", ActiveOnly: true}, 0},
		{"inactive included", models.ResourceFilter{Query: "topology"}, 2},
		{"literal parens", models.ResourceFilter{Query: "(2nd", ActiveOnly: true}, 1},
		{"keyword", models.ResourceFilter{Query: "BETA", ActiveOnly: true}, 2},
		{"category", models.ResourceFilter{Category: models.CategoryComputerScience, ActiveOnly: true}, 1},
		{"author", models.ResourceFilter{Author: "lovelace", ActiveOnly: true}, 2},
		{"public", models.ResourceFilter{ActiveOnly: true, PublicOnly: true}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := store.Search(ctx, tt.filter, 0, 50)
			if err != nil {
				t.Fatalf("Search failed: %v", err)
			}
			if total != tt.want || int64(len(items)) != tt.want {
				t.Errorf("got total=%d len=%d, want %d", total, len(items), tt.want)
			}
		})
	}

	items, total, err := store.Search(ctx, models.ResourceFilter{ActiveOnly: true}, 1, 1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if total != 2 || len(items) != 1 {
		t.Errorf("paged: got total=%d len=%d", total, len(items))
	}
	if len(items) == 1 && items[0].Title != "Intro to Topology" {
		t.Errorf("paged: expected oldest second, got %q", items[0].Title)
	}
}

func TestStore_StatsAndDownloads(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := resourcestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, _ := store.Create(ctx, newResource("A"))
	b := newResource("B")
	b.Category = models.CategoryPhysics
	bb, _ := store.Create(ctx, b)
	c := newResource("C")
	c.IsActive = false
	c.Category = ""
	if _, err := store.Create(ctx, c); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := store.IncrementDownloads(ctx, a.ID); err != nil {
			t.Fatalf("IncrementDownloads failed: %v", err)
		}
	}
	got, err := store.IncrementDownloads(ctx, bb.ID)
	if err != nil {
		t.Fatalf("IncrementDownloads failed: %v", err)
	}
	if got.DownloadCount != 1 {
		t.Errorf("DownloadCount: got %d, want 1", got.DownloadCount)
	}

	st, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if st.TotalResources != 3 || st.ActiveResources != 2 {
		t.Errorf("totals: got %d/%d", st.TotalResources, st.ActiveResources)
	}
	if st.CategoryCount != 2 {
		t.Errorf("CategoryCount: got %d, want 2", st.CategoryCount)
	}
	if len(st.Recent) != 2 || st.Recent[0].Title != "B" {
		t.Errorf("Recent: %+v", st.Recent)
	}
	if len(st.Popular) != 2 || st.Popular[0].Title != "A" {
		t.Errorf("Popular: %+v", st.Popular)
	}
}

func TestBuildFilter(t *testing.T) {
	f := resourcestore.BuildFilter(models.ResourceFilter{
		Query:      "a.b*",
		Category:   models.CategoryBiology,
		Author:     "  smith ",
		ActiveOnly: true,
		PublicOnly: true,
	})

	if f["is_active"] != true {
		t.Errorf("is_active: got %v", f["is_active"])
	}
	if f["access"] != models.AccessPublic {
		t.Errorf("access: got %v", f["access"])
	}
	if f["category"] != models.CategoryBiology {
		t.Errorf("category: got %v", f["category"])
	}
	or, ok := f["$or"].(bson.A)
	if !ok || len(or) != 5 {
		t.Fatalf("$or: got %#v", f["$or"])
	}
	rx := or[0].(bson.M)["title"].(primitive.Regex)
	if rx.Pattern != `a\.b\*` || rx.Options != "i" {
		t.Errorf("query regex: got %+v", rx)
	}
	author := f["author_name"].(primitive.Regex)
	if author.Pattern != "smith" {
		t.Errorf("author regex: got %+v", author)
	}
	if _, ok := f["resource_type"]; ok {
		t.Error("empty resource type should not constrain")
	}
}

func TestBuildFilter_Empty(t *testing.T) {
	if f := resourcestore.BuildFilter(models.ResourceFilter{Query: "   "}); len(f) != 0 {
		t.Errorf("expected empty filter, got %v", f)
	}
}
