package requests_test

import (
	"net/http"
	"testing"

	uierrors "github.com/dalemusser/libraryhub/internal/app/features/errors"
	"github.com/dalemusser/libraryhub/internal/app/features/requests"
	"github.com/dalemusser/libraryhub/internal/app/services/requestlifecycle"
	"github.com/dalemusser/libraryhub/internal/domain/models"
	"github.com/dalemusser/libraryhub/internal/testutil"
	"go.uber.org/zap"
)

type envelope[T any] struct {
	Message string `json:"message"`
	Payload T      `json:"payload"`
}

func newHandler(t *testing.T) *requests.Handler {
	t.Helper()
	logger := zap.NewNop()
	svc := requestlifecycle.New(testutil.NewMemRequests(), nil, nil, logger)
	return requests.NewHandler(svc, uierrors.NewErrorLogger(logger), logger)
}

func validBody() map[string]any {
	return map[string]any{
		"title":            "Intro to Topology",
		"authors":          []string{"J. Munkres"},
		"resourceType":     "Book",
		"description":      "Standard text",
		"priority":         "Medium",
		"reasonForRequest": "Course reading",
	}
}

func submit(t *testing.T, h *requests.Handler, user testutil.TestUser, body any) *testutil.ResponseRecorder {
	t.Helper()
	req := testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPost, "/api/user/resource-request", body), user)
	rec := testutil.NewRecorder()
	h.HandleSubmit(rec, req)
	return rec
}

func TestHandleSubmit_Created(t *testing.T) {
	h := newHandler(t)
	user := testutil.RegularUser()

	rec := submit(t, h, user, validBody())
	rec.AssertStatus(t, http.StatusCreated)

	var got envelope[models.ResourceRequest]
	rec.DecodeJSON(t, &got)
	if got.Message != "Resource request submitted successfully" {
		t.Errorf("message: got %q", got.Message)
	}
	if got.Payload.Status != models.StatusPending || got.Payload.FulfilledByResourceID != nil {
		t.Errorf("payload: status=%q link=%v", got.Payload.Status, got.Payload.FulfilledByResourceID)
	}
	if got.Payload.RequestedByID.Hex() != user.ID || got.Payload.RequestedByName != user.Name {
		t.Errorf("requester: got %s/%q", got.Payload.RequestedByID.Hex(), got.Payload.RequestedByName)
	}
}

func TestHandleSubmit_BadInput(t *testing.T) {
	h := newHandler(t)
	user := testutil.RegularUser()

	noTitle := validBody()
	delete(noTitle, "title")
	stringAuthors := validBody()
	stringAuthors["authors"] = "J. Munkres"

	tests := []struct {
		name string
		body any
		want string
	}{
		{"malformed json", `{"title":`, "Invalid request body"},
		{"missing title", noTitle, "Title is required."},
		{"authors not a list", stringAuthors, "Authors must be a list of names."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := submit(t, h, user, tt.body)
			rec.AssertStatus(t, http.StatusBadRequest)
			rec.AssertContains(t, tt.want)
		})
	}
}

func TestHandleSubmit_Anonymous(t *testing.T) {
	h := newHandler(t)
	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/user/resource-request", validBody())
	rec := testutil.NewRecorder()
	h.HandleSubmit(rec, req)
	rec.AssertStatus(t, http.StatusUnauthorized)
}

func TestServeListForUser(t *testing.T) {
	h := newHandler(t)
	owner := testutil.RegularUser()
	submit(t, h, owner, validBody()).AssertStatus(t, http.StatusCreated)

	list := func(viewer testutil.TestUser, userID string) *testutil.ResponseRecorder {
		req := testutil.NewAuthenticatedRequest(http.MethodGet, "/api/user/resource-request/"+userID, viewer)
		req = testutil.WithChiURLParam(req, "userId", userID)
		rec := testutil.NewRecorder()
		h.ServeListForUser(rec, req)
		return rec
	}

	t.Run("owner", func(t *testing.T) {
		rec := list(owner, owner.ID)
		rec.AssertStatus(t, http.StatusOK)
		var got envelope[[]models.ResourceRequest]
		rec.DecodeJSON(t, &got)
		if got.Message != "Fetched all resource requests by user successfully" || len(got.Payload) != 1 {
			t.Errorf("got %q with %d requests", got.Message, len(got.Payload))
		}
	})

	t.Run("admin", func(t *testing.T) {
		list(testutil.AdminUser(), owner.ID).AssertStatus(t, http.StatusOK)
	})

	t.Run("other user", func(t *testing.T) {
		list(testutil.RegularUser(), owner.ID).AssertStatus(t, http.StatusForbidden)
	})

	t.Run("no requests", func(t *testing.T) {
		other := testutil.RegularUser()
		rec := list(other, other.ID)
		rec.AssertStatus(t, http.StatusOK)
		rec.AssertContains(t, `"payload":[]`)
	})
}
