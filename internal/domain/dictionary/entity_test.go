package dictionary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signlearn/signlearn-hub/internal/domain/shared"
)

func TestNewQuery(t *testing.T) {
	q, err := NewQuery("  hello ", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "hello", q.Search)
	assert.Equal(t, 1, q.Pagination.Page)
	assert.Equal(t, shared.DefaultPageSize, q.Pagination.Limit())

	_, err = NewQuery("", 1, 101)
	assert.True(t, shared.IsValidation(err))

	_, err = NewQuery("", -1, 10)
	assert.True(t, shared.IsValidation(err))
}

func TestNewPage(t *testing.T) {
	q, err := NewQuery("", 2, 20)
	require.NoError(t, err)

	p := NewPage(q, nil, 45)
	assert.NotNil(t, p.Signs)
	assert.Equal(t, PageInfo{Page: 2, Limit: 20, Total: 45, TotalPages: 3}, p.Pagination)
}
