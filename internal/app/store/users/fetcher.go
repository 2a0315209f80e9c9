package userstore

import (
	"context"
	"errors"

	"github.com/dalemusser/libraryhub/internal/app/system/auth"
	"github.com/dalemusser/libraryhub/internal/app/system/normalize"
	"github.com/dalemusser/libraryhub/internal/app/system/timeouts"
	"github.com/dalemusser/libraryhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fetcher implements auth.UserFetcher to load fresh user data on each request.
type Fetcher struct {
	users *mongo.Collection
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{users: db.Collection("users")}
}

// FetchUser retrieves a user by ID. It returns (nil, nil) if the ID is
// malformed, the user does not exist, or the account is disabled.
func (f *Fetcher) FetchUser(ctx context.Context, userID string) (*auth.SessionUser, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var u models.User
	proj := options.FindOne().SetProjection(bson.M{
		"_id":      1,
		"name":     1,
		"login_id": 1,
		"email":    1,
		"role":     1,
		"status":   1,
	})
	if err := f.users.FindOne(ctx, bson.M{"_id": oid}, proj).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	if normalize.Status(u.Status) == models.UserStatusDisabled {
		return nil, nil
	}

	return &auth.SessionUser{
		ID:      u.ID.Hex(),
		Name:    u.Name,
		LoginID: u.LoginID,
		Email:   u.Email,
		Role:    normalize.Role(u.Role),
	}, nil
}
