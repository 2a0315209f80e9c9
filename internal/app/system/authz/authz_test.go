package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/libraryhub/internal/app/system/auth"
	"github.com/dalemusser/libraryhub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserCtx(t *testing.T) {
	id := primitive.NewObjectID()
	req := httptest.NewRequest("GET", "/test", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: id.Hex(), Name: "Ada", Role: "Admin"})

	role, name, uid, ok := authz.UserCtx(req)
	if !ok {
		t.Fatal("expected ok")
	}
	if role != "admin" {
		t.Errorf("role: got %q, want %q", role, "admin")
	}
	if name != "Ada" {
		t.Errorf("name: got %q", name)
	}
	if uid != id {
		t.Errorf("userID: got %s, want %s", uid.Hex(), id.Hex())
	}
}

func TestUserCtx_NoUser(t *testing.T) {
	role, _, uid, ok := authz.UserCtx(httptest.NewRequest("GET", "/test", nil))
	if ok || role != "visitor" || uid != primitive.NilObjectID {
		t.Errorf("got role=%q uid=%s ok=%v", role, uid.Hex(), ok)
	}
}

func TestUserCtx_MalformedID(t *testing.T) {
	req := auth.WithTestUser(httptest.NewRequest("GET", "/test", nil),
		&auth.SessionUser{ID: "not-an-objectid", Role: "admin"})
	if _, _, _, ok := authz.UserCtx(req); ok {
		t.Error("expected malformed id to fail closed")
	}
	if authz.IsAdmin(req) {
		t.Error("expected IsAdmin false for malformed id")
	}
}

func TestCanViewRequestsOf(t *testing.T) {
	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()

	tests := []struct {
		name string
		user *auth.SessionUser
		want bool
	}{
		{"owner", &auth.SessionUser{ID: owner.Hex(), Role: "user"}, true},
		{"other user", &auth.SessionUser{ID: other.Hex(), Role: "user"}, false},
		{"admin", &auth.SessionUser{ID: other.Hex(), Role: "admin"}, true},
		{"anonymous", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			if tt.user != nil {
				req = auth.WithTestUser(req, tt.user)
			}
			if got := authz.CanViewRequestsOf(req, owner); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
