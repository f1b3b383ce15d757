// Package dictionary models the searchable dictionary of signs.
package dictionary

//go:generate mockgen -source=entity.go -destination=../../mocks/dictionary/mock_repository.go -package=mock_dictionary

import (
	"context"
	"strings"
	"time"

	"github.com/signlearn/signlearn-hub/internal/domain/shared"
)

// SearchLimit caps results of the quick search endpoint.
const SearchLimit = 50

// Sign is a dictionary entry.
type Sign struct {
	ID          int64     `json:"id"`
	Word        string    `json:"word"`
	Description string    `json:"description"`
	Category    *string   `json:"category"`
	VideoURL    *string   `json:"video_url"`
	ImageURL    *string   `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// Query is a paginated listing request with optional search term.
type Query struct {
	Search     string
	Pagination shared.Pagination
}

// NewQuery normalizes page, limit and the search term.
func NewQuery(search string, page, limit int) (Query, error) {
	if limit < 0 || limit > shared.MaxPageSize {
		return Query{}, shared.NewDomainError("dictionary", "List", shared.ErrValueOutOfRange, "limit must be between 1 and 100")
	}
	if page < 0 {
		return Query{}, shared.NewDomainError("dictionary", "List", shared.ErrValueOutOfRange, "page must be positive")
	}
	return Query{
		Search:     strings.TrimSpace(search),
		Pagination: shared.NewPagination(page, limit),
	}, nil
}

// PageInfo describes the returned page.
type PageInfo struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Page is one page of signs.
type Page struct {
	Signs      []Sign   `json:"signs"`
	Pagination PageInfo `json:"pagination"`
}

// NewPage builds a page for the given query and total count.
func NewPage(q Query, signs []Sign, total int) Page {
	if signs == nil {
		signs = []Sign{}
	}
	return Page{
		Signs: signs,
		Pagination: PageInfo{
			Page:       q.Pagination.Page,
			Limit:      q.Pagination.Limit(),
			Total:      total,
			TotalPages: q.Pagination.TotalPages(total),
		},
	}
}

// Repository reads the dictionary.
type Repository interface {
	// List returns a page of signs ordered by word and the total match count.
	List(ctx context.Context, q Query) ([]Sign, int, error)

	// Get returns a sign or ErrSignNotFound.
	Get(ctx context.Context, id int64) (*Sign, error)

	// Search returns up to limit signs whose word or description matches term.
	Search(ctx context.Context, term string, limit int) ([]Sign, error)
}
