package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/libraryhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MemResources is an in-memory stand-in for the resource store. It follows
// the Mongo store's contract: ErrNoDocuments for unknown ids, newest-first
// ordering, case-insensitive literal substring search. Setting Err makes
// every call fail with it.
type MemResources struct {
	mu    sync.Mutex
	items []models.Resource
	clock time.Time

	Err error
}

// NewMemResources returns an empty store.
func NewMemResources() *MemResources {
	return &MemResources{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// tick returns strictly increasing timestamps so ordering is deterministic.
func (m *MemResources) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *MemResources) Create(_ context.Context, r models.Resource) (models.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return models.Resource{}, m.Err
	}
	now := m.tick()
	r.ID = primitive.NewObjectID()
	r.TitleCI = text.Fold(r.Title)
	if r.Keywords == nil {
		r.Keywords = []string{}
	}
	r.CreatedAt, r.UpdatedAt = now, now
	m.items = append(m.items, r)
	return r, nil
}

func (m *MemResources) index(id primitive.ObjectID) int {
	for i := range m.items {
		if m.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *MemResources) GetByID(_ context.Context, id primitive.ObjectID) (models.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return models.Resource{}, m.Err
	}
	i := m.index(id)
	if i < 0 {
		return models.Resource{}, mongo.ErrNoDocuments
	}
	return m.items[i], nil
}

func (m *MemResources) mutate(id primitive.ObjectID, fn func(*models.Resource)) (models.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return models.Resource{}, m.Err
	}
	i := m.index(id)
	if i < 0 {
		return models.Resource{}, mongo.ErrNoDocuments
	}
	fn(&m.items[i])
	return m.items[i], nil
}

func (m *MemResources) Update(_ context.Context, id primitive.ObjectID, mut models.Resource) (models.Resource, error) {
	return m.mutate(id, func(r *models.Resource) {
		r.Title, r.TitleCI = mut.Title, text.Fold(mut.Title)
		r.Abstract, r.Content, r.AuthorName = mut.Abstract, mut.Content, mut.AuthorName
		r.Category, r.ResourceType, r.Publisher = mut.Category, mut.ResourceType, mut.Publisher
		r.Access = mut.Access
		if mut.Keywords != nil {
			r.Keywords = mut.Keywords
		}
		if mut.FilePath != "" {
			r.FilePath = mut.FilePath
		}
		if mut.FileURL != "" {
			r.FileURL = mut.FileURL
		}
		r.UpdatedAt = m.tick()
	})
}

func (m *MemResources) SetActive(_ context.Context, id primitive.ObjectID, active bool) (models.Resource, error) {
	return m.mutate(id, func(r *models.Resource) {
		r.IsActive = active
		r.UpdatedAt = m.tick()
	})
}

func (m *MemResources) IncrementDownloads(_ context.Context, id primitive.ObjectID) (models.Resource, error) {
	return m.mutate(id, func(r *models.Resource) { r.DownloadCount++ })
}

// newestFirst returns a copy of items matching keep, sorted newest first.
func (m *MemResources) newestFirst(keep func(models.Resource) bool) []models.Resource {
	out := []models.Resource{}
	for _, r := range m.items {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *MemResources) Search(_ context.Context, f models.ResourceFilter, skip, limit int64) ([]models.Resource, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, 0, m.Err
	}
	all := m.newestFirst(func(r models.Resource) bool { return matches(r, f) })
	total := int64(len(all))
	if skip >= total {
		return []models.Resource{}, total, nil
	}
	end := total
	if limit > 0 && skip+limit < total {
		end = skip + limit
	}
	return all[skip:end], total, nil
}

func (m *MemResources) ListAll(_ context.Context) ([]models.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.newestFirst(func(models.Resource) bool { return true }), nil
}

func (m *MemResources) Stats(_ context.Context) (models.ResourceStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return models.ResourceStats{}, m.Err
	}
	var st models.ResourceStats
	cats := map[models.Category]bool{}
	for _, r := range m.items {
		st.TotalResources++
		if r.IsActive {
			st.ActiveResources++
		}
		if r.Category != "" {
			cats[r.Category] = true
		}
	}
	st.CategoryCount = len(cats)

	active := m.newestFirst(func(r models.Resource) bool { return r.IsActive })
	st.Recent = firstN(active, 5)

	popular := append([]models.Resource(nil), active...)
	sort.SliceStable(popular, func(i, j int) bool { return popular[i].DownloadCount > popular[j].DownloadCount })
	st.Popular = firstN(popular, 5)
	return st, nil
}

func firstN(in []models.Resource, n int) []models.Resource {
	if len(in) > n {
		in = in[:n]
	}
	return append([]models.Resource{}, in...)
}

func matches(r models.Resource, f models.ResourceFilter) bool {
	if f.ActiveOnly && !r.IsActive {
		return false
	}
	if f.PublicOnly && !r.HasAccess(models.AccessPublic) {
		return false
	}
	if f.Category != "" && r.Category != f.Category {
		return false
	}
	if f.ResourceType != "" && r.ResourceType != f.ResourceType {
		return false
	}
	if f.Publisher != "" && r.Publisher != f.Publisher {
		return false
	}
	if a := strings.TrimSpace(f.Author); a != "" && !containsFold(r.AuthorName, a) {
		return false
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		hit := containsFold(r.Title, q) || containsFold(r.Abstract, q) ||
			containsFold(r.Content, q) || containsFold(r.AuthorName, q)
		for _, k := range r.Keywords {
			hit = hit || containsFold(k, q)
		}
		if !hit {
			return false
		}
	}
	return true
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// MemRequests is an in-memory stand-in for the resource request store.
type MemRequests struct {
	mu    sync.Mutex
	items []models.ResourceRequest
	clock time.Time

	Err error
}

// NewMemRequests returns an empty store.
func NewMemRequests() *MemRequests {
	return &MemRequests{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *MemRequests) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *MemRequests) Create(_ context.Context, req models.ResourceRequest) (models.ResourceRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return models.ResourceRequest{}, m.Err
	}
	now := m.tick()
	req.ID = primitive.NewObjectID()
	if req.Status == "" {
		req.Status = models.StatusPending
	}
	req.FulfilledByResourceID, req.FulfilledAt = nil, nil
	req.CreatedTime, req.ModifiedTime = now, now
	m.items = append(m.items, req)
	return req, nil
}

func (m *MemRequests) GetByID(_ context.Context, id primitive.ObjectID) (models.ResourceRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return models.ResourceRequest{}, m.Err
	}
	for _, r := range m.items {
		if r.ID == id {
			return r, nil
		}
	}
	return models.ResourceRequest{}, mongo.ErrNoDocuments
}

func (m *MemRequests) mutate(id primitive.ObjectID, fn func(*models.ResourceRequest)) (models.ResourceRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return models.ResourceRequest{}, m.Err
	}
	for i := range m.items {
		if m.items[i].ID == id {
			fn(&m.items[i])
			return m.items[i], nil
		}
	}
	return models.ResourceRequest{}, mongo.ErrNoDocuments
}

func (m *MemRequests) SetStatus(_ context.Context, id primitive.ObjectID, status models.RequestStatus) (models.ResourceRequest, error) {
	return m.mutate(id, func(r *models.ResourceRequest) {
		r.Status = status
		r.ModifiedTime = m.tick()
	})
}

func (m *MemRequests) MarkFulfilled(_ context.Context, id, resourceID primitive.ObjectID, at time.Time) (models.ResourceRequest, error) {
	return m.mutate(id, func(r *models.ResourceRequest) {
		rid, t := resourceID, at
		r.FulfilledByResourceID = &rid
		r.FulfilledAt = &t
		r.Status = models.StatusApproved
		r.ModifiedTime = at
	})
}

func (m *MemRequests) list(keep func(models.ResourceRequest) bool) ([]models.ResourceRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := []models.ResourceRequest{}
	for _, r := range m.items {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedTime.After(out[j].CreatedTime) })
	return out, nil
}

func (m *MemRequests) ListByRequester(_ context.Context, userID primitive.ObjectID) ([]models.ResourceRequest, error) {
	return m.list(func(r models.ResourceRequest) bool { return r.RequestedByID == userID })
}

func (m *MemRequests) ListAll(_ context.Context) ([]models.ResourceRequest, error) {
	return m.list(func(models.ResourceRequest) bool { return true })
}
