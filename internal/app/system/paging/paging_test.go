package paging

import (
	"net/http/httptest"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		limit     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", "", 1, DefaultLimit},
		{"explicit", "3", "20", 3, 20},
		{"zero page", "0", "10", 1, 10},
		{"negative page", "-2", "10", 1, 10},
		{"garbage", "abc", "xyz", 1, DefaultLimit},
		{"limit clamped", "1", "500", 1, MaxLimit},
		{"limit zero", "1", "0", 1, DefaultLimit},
		{"page capped", "999999999999999999", "50", MaxPage, 50},
		{"page beyond int", "99999999999999999999999", "50", MaxPage, 50},
		{"hugely negative page", "-99999999999999999999999", "50", 1, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.page, tt.limit)
			if got.Page != tt.wantPage || got.Limit != tt.wantLimit {
				t.Errorf("New(%q, %q) = %+v, want page=%d limit=%d", tt.page, tt.limit, got, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestSkip(t *testing.T) {
	if got := (Request{Page: 1, Limit: 12}).Skip(); got != 0 {
		t.Errorf("page 1 skip: got %d, want 0", got)
	}
	if got := (Request{Page: 3, Limit: 12}).Skip(); got != 24 {
		t.Errorf("page 3 skip: got %d, want 24", got)
	}
	if got := New("999999999999999999", "50").Skip(); got != int64(MaxPage-1)*MaxLimit {
		t.Errorf("capped page skip: got %d, want %d", got, int64(MaxPage-1)*MaxLimit)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		total     int64
		limit     int
		wantPages int64
	}{
		{0, 12, 0},
		{1, 12, 1},
		{12, 12, 1},
		{13, 12, 2},
		{100, 50, 2},
	}
	for _, tt := range tests {
		got := Describe(tt.total, Request{Page: 1, Limit: tt.limit})
		if got.Pages != tt.wantPages {
			t.Errorf("Describe(%d, limit %d).Pages = %d, want %d", tt.total, tt.limit, got.Pages, tt.wantPages)
		}
		if got.Total != tt.total {
			t.Errorf("Total: got %d, want %d", got.Total, tt.total)
		}
	}
}

func TestParse(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/resource/search?page=2&limit=5", nil)
	got := Parse(r)
	if got.Page != 2 || got.Limit != 5 {
		t.Errorf("Parse = %+v, want page=2 limit=5", got)
	}
}
