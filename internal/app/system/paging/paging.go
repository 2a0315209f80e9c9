// internal/app/system/paging/paging.go
package paging

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
)

// Catalog lists page with ?page=N&limit=M (1-based page). Limits are
// clamped to [1, MaxLimit].
const (
	DefaultLimit = 12
	MaxLimit     = 50

	// MaxPage keeps the skip offset representable. Pages past the data
	// simply come back empty.
	MaxPage = math.MaxInt32
)

// Request is a parsed page request.
type Request struct {
	Page  int
	Limit int
}

// Skip is the number of documents before this page.
func (p Request) Skip() int64 { return int64(p.Page-1) * int64(p.Limit) }

// Limit64 is Limit as int64 for Mongo's SetLimit.
func (p Request) Limit64() int64 { return int64(p.Limit) }

// Parse reads "page" and "limit" from the query string.
func Parse(r *http.Request) Request {
	return New(query.Get(r, "page"), query.Get(r, "limit"))
}

// New builds a Request from raw strings, applying defaults for missing or
// invalid values and clamping page to MaxPage and limit to MaxLimit.
func New(page, limit string) Request {
	p, err := strconv.Atoi(page)
	switch {
	case errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(strings.TrimSpace(page), "-"):
		p = MaxPage
	case err != nil || p < 1:
		p = 1
	case p > MaxPage:
		p = MaxPage
	}
	l, err := strconv.Atoi(limit)
	if err != nil || l < 1 {
		l = DefaultLimit
	}
	if l > MaxLimit {
		l = MaxLimit
	}
	return Request{Page: p, Limit: l}
}

// Pagination is the block returned alongside a page of results.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int64 `json:"pages"`
}

// Describe computes the pagination block for total matching documents.
func Describe(total int64, p Request) Pagination {
	pages := int64(0)
	if p.Limit > 0 {
		pages = (total + int64(p.Limit) - 1) / int64(p.Limit)
	}
	return Pagination{Total: total, Page: p.Page, Limit: p.Limit, Pages: pages}
}
