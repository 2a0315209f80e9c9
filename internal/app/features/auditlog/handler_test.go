package auditlog_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/libraryhub/internal/app/features/auditlog"
	uierrors "github.com/dalemusser/libraryhub/internal/app/features/errors"
	"github.com/dalemusser/libraryhub/internal/app/store/audit"
	"github.com/dalemusser/libraryhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeEvents struct {
	events []audit.Event
	last   audit.QueryFilter
	err    error
}

func (f *fakeEvents) Query(_ context.Context, filter audit.QueryFilter) ([]audit.Event, error) {
	f.last = filter
	return f.events, f.err
}

func (f *fakeEvents) CountByFilter(_ context.Context, _ audit.QueryFilter) (int64, error) {
	return int64(len(f.events)), f.err
}

type fakeNames map[primitive.ObjectID]string

func (n fakeNames) NamesByIDs(_ context.Context, _ []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	return n, nil
}

type listResponse struct {
	Message string `json:"message"`
	Payload []struct {
		EventType string `json:"eventType"`
		ActorName string `json:"actorName"`
		RequestID string `json:"requestId"`
	} `json:"payload"`
	Pagination struct {
		Total int64 `json:"total"`
	} `json:"pagination"`
}

func serve(h *auditlog.Handler, target string) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	h.ServeList(rec, testutil.NewAuthenticatedRequest(http.MethodGet, target, testutil.AdminUser()))
	return rec
}

func TestServeList_ResolvesNames(t *testing.T) {
	actor := primitive.NewObjectID()
	reqID := primitive.NewObjectID()
	src := &fakeEvents{events: []audit.Event{{
		ID:        primitive.NewObjectID(),
		Timestamp: time.Now(),
		Category:  audit.CategoryAdmin,
		EventType: audit.EventRequestStatusChanged,
		ActorID:   &actor,
		RequestID: &reqID,
		Success:   true,
	}}}
	logger := zap.NewNop()
	h := auditlog.NewHandler(src, fakeNames{actor: "Grace Admin"}, uierrors.NewErrorLogger(logger), logger)

	rec := serve(h, "/api/admin/audit?category=admin&requestId="+reqID.Hex()+"&page=2&limit=10")
	rec.AssertStatus(t, http.StatusOK)

	var got listResponse
	rec.DecodeJSON(t, &got)
	if len(got.Payload) != 1 || got.Payload[0].ActorName != "Grace Admin" || got.Payload[0].RequestID != reqID.Hex() {
		t.Errorf("payload: got %+v", got.Payload)
	}
	if got.Pagination.Total != 1 {
		t.Errorf("total: got %d", got.Pagination.Total)
	}

	if src.last.Category != "admin" || src.last.RequestID == nil || *src.last.RequestID != reqID {
		t.Errorf("filter: got %+v", src.last)
	}
	if src.last.Limit != 10 || src.last.Offset != 10 {
		t.Errorf("paging: limit=%d offset=%d", src.last.Limit, src.last.Offset)
	}
}

func TestServeList_BadFilters(t *testing.T) {
	logger := zap.NewNop()
	h := auditlog.NewHandler(&fakeEvents{}, nil, uierrors.NewErrorLogger(logger), logger)

	for _, target := range []string{
		"/api/admin/audit?requestId=xyz",
		"/api/admin/audit?startDate=yesterday",
		"/api/admin/audit?endDate=2024-13-40",
	} {
		serve(h, target).AssertStatus(t, http.StatusBadRequest)
	}
}

func TestServeList_StoreError(t *testing.T) {
	logger := zap.NewNop()
	h := auditlog.NewHandler(&fakeEvents{err: errors.New("timeout")}, nil, uierrors.NewErrorLogger(logger), logger)
	serve(h, "/api/admin/audit").AssertStatus(t, http.StatusInternalServerError)
}

func TestServeList_Empty(t *testing.T) {
	logger := zap.NewNop()
	h := auditlog.NewHandler(&fakeEvents{}, nil, uierrors.NewErrorLogger(logger), logger)
	rec := serve(h, "/api/admin/audit")
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"payload":[]`)
}
