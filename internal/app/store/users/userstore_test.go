package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/dalemusser/libraryhub/internal/app/store/users"
	"github.com/dalemusser/libraryhub/internal/domain/models"
	"github.com/dalemusser/libraryhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		Name:  "  Ada Lovelace ",
		Email: " Ada@Example.COM ",
		Role:  "User",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Name != "Ada Lovelace" || created.Email != "ada@example.com" {
		t.Errorf("normalization: got %q / %q", created.Name, created.Email)
	}
	if created.Role != models.RoleUser || created.Status != models.UserStatusActive {
		t.Errorf("role/status: got %q / %q", created.Role, created.Status)
	}
	if created.LoginID != "ada@example.com" {
		t.Errorf("LoginID: got %q", created.LoginID)
	}

	got, err := store.GetByEmail(ctx, "ADA@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("GetByEmail returned a different user")
	}
}

func TestStore_Create_InvalidRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{Name: "X", Email: "x@example.com", Role: "superuser"}); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestStore_EnsureAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.EnsureAdmin(ctx, "root@example.com", "Root", "s3cret-pass")
	if err != nil {
		t.Fatalf("EnsureAdmin failed: %v", err)
	}
	if !created {
		t.Error("expected admin to be created")
	}

	again, err := store.EnsureAdmin(ctx, "ROOT@example.com", "Root", "other")
	if err != nil {
		t.Fatalf("EnsureAdmin (second) failed: %v", err)
	}
	if again {
		t.Error("expected existing admin to be left alone")
	}

	u, err := store.GetByEmail(ctx, "root@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if u.Role != models.RoleAdmin {
		t.Errorf("Role: got %q", u.Role)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret-pass")); err != nil {
		t.Errorf("expected password to match: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("other")) == nil {
		t.Error("second EnsureAdmin must not change the password")
	}
}

func TestFetcher_FetchUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fetcher := userstore.NewFetcher(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, models.User{Name: "Grace", Email: "grace@example.com", Role: "admin"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	su, err := fetcher.FetchUser(ctx, u.ID.Hex())
	if err != nil {
		t.Fatalf("FetchUser failed: %v", err)
	}
	if su == nil || su.Name != "Grace" || !su.IsAdmin() {
		t.Fatalf("unexpected session user: %+v", su)
	}

	if err := store.SetStatus(ctx, u.ID, "disabled"); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	su, err = fetcher.FetchUser(ctx, u.ID.Hex())
	if err != nil || su != nil {
		t.Errorf("disabled user: got %+v, %v", su, err)
	}

	su, err = fetcher.FetchUser(ctx, primitive.NewObjectID().Hex())
	if err != nil || su != nil {
		t.Errorf("missing user: got %+v, %v", su, err)
	}
	su, err = fetcher.FetchUser(ctx, "bogus")
	if err != nil || su != nil {
		t.Errorf("malformed id: got %+v, %v", su, err)
	}

	if err := store.SetStatus(ctx, primitive.NewObjectID(), "active"); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("SetStatus unknown id: got %v", err)
	}
}

func TestStore_NamesByIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ada := fixtures.CreateUser(ctx, "Ada Lovelace", "ada@example.com", models.RoleUser, models.UserStatusActive)
	unknown := primitive.NewObjectID()

	names, err := store.NamesByIDs(ctx, []primitive.ObjectID{ada.ID, unknown})
	if err != nil {
		t.Fatalf("NamesByIDs: %v", err)
	}
	if names[ada.ID] != "Ada Lovelace" {
		t.Errorf("name: got %q", names[ada.ID])
	}
	if _, ok := names[unknown]; ok {
		t.Error("unknown id must be absent")
	}

	empty, err := store.NamesByIDs(ctx, nil)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("empty ids: got %v, %v", empty, err)
	}
}
