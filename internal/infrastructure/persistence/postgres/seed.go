package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	"gopkg.in/yaml.v3"
)

//go:embed seed/catalog.yaml
var catalogYAML []byte

// ══════════════════════════════════════════════════════════════════════════════
// CATALOG SEED
// ══════════════════════════════════════════════════════════════════════════════

// Catalog is the seed document for courses, lessons and dictionary signs.
type Catalog struct {
	Courses []SeedCourse `yaml:"courses"`
	Signs   []SeedSign   `yaml:"signs"`
}

// SeedCourse is a course with its lessons in order.
type SeedCourse struct {
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	Level       string       `yaml:"level"`
	Category    string       `yaml:"category"`
	ImageURL    *string      `yaml:"image_url"`
	OrderIndex  int          `yaml:"order_index"`
	Lessons     []SeedLesson `yaml:"lessons"`
}

// SeedLesson is a lesson; its order is its position in the course.
type SeedLesson struct {
	Title           string  `yaml:"title"`
	Description     string  `yaml:"description"`
	Content         string  `yaml:"content"`
	VideoURL        *string `yaml:"video_url"`
	DurationMinutes int     `yaml:"duration_minutes"`
}

// SeedSign is a dictionary entry.
type SeedSign struct {
	Word        string  `yaml:"word"`
	Description string  `yaml:"description"`
	Category    *string `yaml:"category"`
	VideoURL    *string `yaml:"video_url"`
	ImageURL    *string `yaml:"image_url"`
}

// SeedResult reports how many rows were inserted.
type SeedResult struct {
	Courses int
	Lessons int
	Signs   int
}

// ParseCatalog decodes a seed document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog seed: %w", err)
	}
	for i, course := range c.Courses {
		if course.Title == "" {
			return nil, fmt.Errorf("catalog seed: course #%d has no title", i+1)
		}
		if course.Level == "" {
			c.Courses[i].Level = "beginner"
		}
		if course.Category == "" {
			c.Courses[i].Category = "general"
		}
	}
	return &c, nil
}

// DefaultCatalog returns the embedded seed document.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

// Seeder loads a catalog into the database.
type Seeder struct {
	conn *Connection
}

// NewSeeder creates a new Seeder.
func NewSeeder(conn *Connection) *Seeder {
	return &Seeder{conn: conn}
}

// Seed inserts the catalog in one transaction. Existing rows are left untouched,
// so running it twice is safe.
func (s *Seeder) Seed(ctx context.Context, c *Catalog) (SeedResult, error) {
	var res SeedResult

	err := s.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		for _, course := range c.Courses {
			var courseID int64
			var inserted bool
			err := tx.QueryRow(ctx, `
				WITH ins AS (
					INSERT INTO courses (title, description, level, category, image_url, order_index)
					VALUES ($1, $2, $3, $4, $5, $6)
					ON CONFLICT (title) DO NOTHING
					RETURNING id
				)
				SELECT id, TRUE FROM ins
				UNION ALL
				SELECT id, FALSE FROM courses WHERE title = $1 AND NOT EXISTS (SELECT 1 FROM ins)
			`, course.Title, course.Description, course.Level, course.Category, course.ImageURL, course.OrderIndex,
			).Scan(&courseID, &inserted)
			if err != nil {
				return fmt.Errorf("failed to seed course %q: %w", course.Title, err)
			}
			if inserted {
				res.Courses++
			}

			for i, lesson := range course.Lessons {
				tag, err := tx.Exec(ctx, `
					INSERT INTO lessons (course_id, title, description, content, video_url, order_index, duration_minutes)
					VALUES ($1, $2, $3, $4, $5, $6, $7)
					ON CONFLICT (course_id, title) DO NOTHING
				`, courseID, lesson.Title, lesson.Description, lesson.Content, lesson.VideoURL, i+1, lesson.DurationMinutes)
				if err != nil {
					return fmt.Errorf("failed to seed lesson %q: %w", lesson.Title, err)
				}
				res.Lessons += int(tag.RowsAffected())
			}
		}

		for _, sign := range c.Signs {
			tag, err := tx.Exec(ctx, `
				INSERT INTO signs (word, description, category, video_url, image_url)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (word) DO NOTHING
			`, sign.Word, sign.Description, sign.Category, sign.VideoURL, sign.ImageURL)
			if err != nil {
				return fmt.Errorf("failed to seed sign %q: %w", sign.Word, err)
			}
			res.Signs += int(tag.RowsAffected())
		}
		return nil
	})

	return res, err
}
