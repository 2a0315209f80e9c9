// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/libraryhub/internal/app/features/shared/respond"
	"github.com/dalemusser/libraryhub/internal/app/store/audit"
	"github.com/dalemusser/libraryhub/internal/app/system/normalize"
	"github.com/dalemusser/libraryhub/internal/app/system/paging"
	"github.com/dalemusser/libraryhub/internal/app/system/timeouts"
	"github.com/dalemusser/libraryhub/internal/domain/errs"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// ServeList returns audit events newest first.
// GET /api/admin/audit?category=&eventType=&requestId=&resourceId=&userId=&actorId=&failed=&startDate=&endDate=&page=&limit=
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.ErrLog.Write(w, r, "parse audit filter", err)
		return
	}
	page := paging.Parse(r)
	filter.Limit = page.Limit64()
	filter.Offset = page.Skip()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.ErrLog.Write(w, r, "query audit events", errs.Store("query audit events", err))
		return
	}
	total, err := h.Events.CountByFilter(ctx, filter)
	if err != nil {
		h.ErrLog.Write(w, r, "count audit events", errs.Store("count audit events", err))
		return
	}

	names := h.resolveNames(r, events)

	items := make([]listItem, 0, len(events))
	for _, e := range events {
		item := listItem{
			ID:            e.ID.Hex(),
			Timestamp:     e.Timestamp,
			Category:      e.Category,
			EventType:     e.EventType,
			IP:            e.IP,
			Success:       e.Success,
			FailureReason: e.FailureReason,
			Details:       e.Details,
		}
		if e.ActorID != nil {
			item.ActorID = e.ActorID.Hex()
			item.ActorName = names[*e.ActorID]
		}
		if e.UserID != nil {
			item.UserID = e.UserID.Hex()
			item.UserName = names[*e.UserID]
		}
		if e.RequestID != nil {
			item.RequestID = e.RequestID.Hex()
		}
		if e.ResourceID != nil {
			item.ResourceID = e.ResourceID.Hex()
		}
		items = append(items, item)
	}

	respond.Page(w, "Audit events fetched successfully", items, paging.Describe(total, page))
}

// resolveNames batch-loads display names for actors and users. Lookup
// failures are logged and leave names empty.
func (h *Handler) resolveNames(r *http.Request, events []audit.Event) map[primitive.ObjectID]string {
	if h.Users == nil || len(events) == 0 {
		return nil
	}
	seen := make(map[primitive.ObjectID]struct{})
	var ids []primitive.ObjectID
	add := func(id *primitive.ObjectID) {
		if id == nil {
			return
		}
		if _, ok := seen[*id]; !ok {
			seen[*id] = struct{}{}
			ids = append(ids, *id)
		}
	}
	for _, e := range events {
		add(e.ActorID)
		add(e.UserID)
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "audit name lookup")
	defer cancel()

	names, err := h.Users.NamesByIDs(ctx, ids)
	if err != nil {
		h.Log.Warn("failed to fetch user names for audit log", zap.Error(err))
		return nil
	}
	return names
}

func parseFilter(r *http.Request) (audit.QueryFilter, error) {
	f := audit.QueryFilter{
		Category:   normalize.QueryParam(query.Get(r, "category")),
		EventType:  normalize.QueryParam(query.Get(r, "eventType")),
		FailedOnly: strings.EqualFold(normalize.QueryParam(query.Get(r, "failed")), "true"),
	}

	ids := []struct {
		param string
		dst   **primitive.ObjectID
	}{
		{"requestId", &f.RequestID},
		{"resourceId", &f.ResourceID},
		{"userId", &f.UserID},
		{"actorId", &f.ActorID},
	}
	for _, p := range ids {
		raw := normalize.QueryParam(query.Get(r, p.param))
		if raw == "" {
			continue
		}
		oid, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return audit.QueryFilter{}, errs.Validation(p.param, "%s is not a valid id.", p.param)
		}
		*p.dst = &oid
	}

	if raw := normalize.QueryParam(query.Get(r, "startDate")); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return audit.QueryFilter{}, errs.Validation("startDate", "startDate must be YYYY-MM-DD.")
		}
		f.StartTime = &t
	}
	if raw := normalize.QueryParam(query.Get(r, "endDate")); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return audit.QueryFilter{}, errs.Validation("endDate", "endDate must be YYYY-MM-DD.")
		}
		// End of day
		end := t.Add(24*time.Hour - time.Nanosecond)
		f.EndTime = &end
	}
	return f, nil
}
