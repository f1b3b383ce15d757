package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/signlearn/signlearn-hub/internal/domain/dictionary"
	"github.com/signlearn/signlearn-hub/internal/domain/shared"
)

// DictionaryHandler serves dictionary reads.
type DictionaryHandler struct {
	signs dictionary.Repository
}

// NewDictionaryHandler creates a DictionaryHandler.
func NewDictionaryHandler(signs dictionary.Repository) *DictionaryHandler {
	return &DictionaryHandler{signs: signs}
}

// List returns one page of signs, optionally filtered by a search term.
func (h *DictionaryHandler) List(ctx context.Context, search string, page, limit int) (*dictionary.Page, error) {
	q, err := dictionary.NewQuery(search, page, limit)
	if err != nil {
		return nil, err
	}

	signs, total, err := h.signs.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list_signs: %w", err)
	}
	p := dictionary.NewPage(q, signs, total)
	return &p, nil
}

// Get returns one sign or ErrSignNotFound.
func (h *DictionaryHandler) Get(ctx context.Context, id int64) (*dictionary.Sign, error) {
	return h.signs.Get(ctx, id)
}

// Search returns up to SearchLimit signs matching term.
func (h *DictionaryHandler) Search(ctx context.Context, term string) ([]dictionary.Sign, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, shared.NewDomainError("dictionary", "Search", shared.ErrEmptyValue, "search query is required")
	}

	signs, err := h.signs.Search(ctx, term, dictionary.SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search_signs: %w", err)
	}
	if signs == nil {
		signs = []dictionary.Sign{}
	}
	return signs, nil
}
