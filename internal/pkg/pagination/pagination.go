package pagination

import (
	"math"
	"strconv"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage bounds page so (page-1)*MaxLimit fits in an int32 skip.
	MaxPage = math.MaxInt32 / MaxLimit
)

// Pagination represents pagination metadata
type Pagination struct {
	Page    int   `json:"page"`
	Limit   int   `json:"pageSize"`
	Total   int64 `json:"totalCount"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"hasNext"`
	HasPrev bool  `json:"hasPrev"`
	Offset  int   `json:"-"`
}

// Request represents a pagination request from client
type Request struct {
	Page  int `json:"page" form:"page"`
	Limit int `json:"limit" form:"limit"`
}

// New creates a new pagination instance
func New(page, limit int, total int64) *Pagination {
	req := normalize(page, limit)

	pages := int(math.Ceil(float64(total) / float64(req.Limit)))
	if pages < 1 {
		pages = 1
	}

	return &Pagination{
		Page:    req.Page,
		Limit:   req.Limit,
		Total:   total,
		Pages:   pages,
		HasNext: req.Page < pages,
		HasPrev: req.Page > 1,
		Offset:  req.Skip(),
	}
}

// FromRequest creates a pagination request from raw query values.
// Missing or unparsable values fall back to page 1 and DefaultLimit.
func FromRequest(pageStr, limitStr string) Request {
	page, _ := strconv.Atoi(pageStr)
	limit, _ := strconv.Atoi(limitStr)
	return normalize(page, limit)
}

// Skip is the number of documents to skip: (page-1) * limit.
func (r Request) Skip() int {
	return (r.Page - 1) * r.Limit
}

func normalize(page, limit int) Request {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Request{Page: page, Limit: limit}
}
