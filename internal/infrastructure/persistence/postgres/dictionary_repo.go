package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/signlearn/signlearn-hub/internal/domain/dictionary"
	"github.com/signlearn/signlearn-hub/internal/domain/shared"
)

// DictionaryRepository implements dictionary.Repository for PostgreSQL.
type DictionaryRepository struct {
	conn *Connection
}

// NewDictionaryRepository creates a new DictionaryRepository.
func NewDictionaryRepository(conn *Connection) *DictionaryRepository {
	return &DictionaryRepository{conn: conn}
}

const signColumns = `id, word, description, category, video_url, image_url, created_at`

// List returns a page of signs and the total number of matches.
// An empty search term matches everything.
func (r *DictionaryRepository) List(ctx context.Context, q dictionary.Query) ([]dictionary.Sign, int, error) {
	where := `WHERE ($1 = '' OR word ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')`

	var total int
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM signs `+where, q.Search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count signs: %w", err)
	}

	query := `SELECT ` + signColumns + ` FROM signs ` + where + ` ORDER BY word LIMIT $2 OFFSET $3`
	rows, err := r.conn.Query(ctx, query, q.Search, q.Pagination.Limit(), q.Pagination.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list signs: %w", err)
	}
	defer rows.Close()

	signs, err := scanSigns(rows)
	if err != nil {
		return nil, 0, err
	}
	return signs, total, nil
}

// Get returns a sign by ID.
func (r *DictionaryRepository) Get(ctx context.Context, id int64) (*dictionary.Sign, error) {
	var s dictionary.Sign
	err := r.conn.QueryRow(ctx, `SELECT `+signColumns+` FROM signs WHERE id = $1`, id).Scan(
		&s.ID, &s.Word, &s.Description, &s.Category, &s.VideoURL, &s.ImageURL, &s.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrSignNotFound
		}
		return nil, fmt.Errorf("failed to get sign: %w", err)
	}
	return &s, nil
}

// Search returns signs matching term; exact word matches come first.
func (r *DictionaryRepository) Search(ctx context.Context, term string, limit int) ([]dictionary.Sign, error) {
	query := `
		SELECT ` + signColumns + `
		FROM signs
		WHERE word ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%'
		ORDER BY (LOWER(word) = LOWER($1)) DESC, word
		LIMIT $2
	`
	rows, err := r.conn.Query(ctx, query, term, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search signs: %w", err)
	}
	defer rows.Close()

	return scanSigns(rows)
}

func scanSigns(rows pgx.Rows) ([]dictionary.Sign, error) {
	signs := []dictionary.Sign{}
	for rows.Next() {
		var s dictionary.Sign
		if err := rows.Scan(&s.ID, &s.Word, &s.Description, &s.Category, &s.VideoURL, &s.ImageURL, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sign: %w", err)
		}
		signs = append(signs, s)
	}
	return signs, rows.Err()
}
