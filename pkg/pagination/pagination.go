package pagination

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

// Params accepts both page-based and cursor-based query parameters.
// A cursor or an explicit limit selects keyset pagination.
type Params struct {
	Page    int    `form:"page" json:"page"`
	PerPage int    `form:"per_page" json:"per_page"`
	Cursor  string `form:"cursor" json:"cursor"`
	Limit   int    `form:"limit" json:"limit"`
}

// IsCursorBased returns true if cursor-based pagination is being used
func (p *Params) IsCursorBased() bool {
	return p.Cursor != "" || p.Limit > 0
}

// Normalize clamps values into their valid ranges
func (p *Params) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	p.PerPage = clamp(p.PerPage)
	if p.Limit == 0 && p.PerPage > 0 && p.Cursor != "" {
		p.Limit = p.PerPage
	}
	if p.IsCursorBased() {
		p.Limit = clamp(p.Limit)
	}
}

// Offset calculates the offset for page-based queries
func (p *Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

func clamp(n int) int {
	if n < 1 {
		return DefaultPerPage
	}
	if n > MaxPerPage {
		return MaxPerPage
	}
	return n
}

// Cursor is the decoded position of the last item of a page
type Cursor struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// DecodeCursor decodes a base64 cursor. An empty string yields nil.
func DecodeCursor(s string) (*Cursor, error) {
	if s == "" {
		return nil, nil
	}
	raw, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, "invalid cursor format")
	}
	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, errors.Wrap(err, "invalid cursor data")
	}
	return &c, nil
}

// EncodeCursor encodes an item position
func EncodeCursor(id string, createdAt time.Time) string {
	data, _ := json.Marshal(Cursor{ID: id, CreatedAt: createdAt})
	return base64.URLEncoding.EncodeToString(data)
}

// Result is a page of items. Page-based fields are set for offset
// pagination, NextCursor for keyset pagination.
type Result[T any] struct {
	Items       []T     `json:"items"`
	CurrentPage *int    `json:"current_page,omitempty"`
	TotalPages  *int    `json:"total_pages,omitempty"`
	Total       *int64  `json:"total,omitempty"`
	NextCursor  *string `json:"next_cursor,omitempty"`
	HasNext     bool    `json:"has_next"`
	HasPrev     bool    `json:"has_prev"`
	PerPage     int     `json:"per_page"`
}

// FromPage builds a page-based result
func FromPage[T any](items []T, page, perPage int, total int64) *Result[T] {
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	if items == nil {
		items = []T{}
	}
	return &Result[T]{
		Items:       items,
		CurrentPage: &page,
		TotalPages:  &totalPages,
		Total:       &total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
		PerPage:     perPage,
	}
}

// FromCursor builds a keyset result. items should hold up to limit+1 rows;
// the extra row only signals that another page exists.
func FromCursor[T any](items []T, limit int, hasPrev bool, position func(T) (string, time.Time)) *Result[T] {
	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}
	if items == nil {
		items = []T{}
	}

	res := &Result[T]{
		Items:   items,
		HasNext: hasMore,
		HasPrev: hasPrev,
		PerPage: limit,
	}
	if hasMore {
		id, createdAt := position(items[len(items)-1])
		next := EncodeCursor(id, createdAt)
		res.NextCursor = &next
	}
	return res
}

// Map converts the items of a result keeping its pagination metadata
func Map[T, U any](r *Result[T], fn func(T) U) *Result[U] {
	out := make([]U, len(r.Items))
	for i, item := range r.Items {
		out[i] = fn(item)
	}
	return &Result[U]{
		Items:       out,
		CurrentPage: r.CurrentPage,
		TotalPages:  r.TotalPages,
		Total:       r.Total,
		NextCursor:  r.NextCursor,
		HasNext:     r.HasNext,
		HasPrev:     r.HasPrev,
		PerPage:     r.PerPage,
	}
}
