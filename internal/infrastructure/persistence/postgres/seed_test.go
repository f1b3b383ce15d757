package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	require.NotEmpty(t, c.Courses)
	require.NotEmpty(t, c.Signs)

	for _, course := range c.Courses {
		assert.NotEmpty(t, course.Title)
		assert.Contains(t, []string{"beginner", "intermediate", "advanced"}, course.Level)
		assert.NotEmpty(t, course.Lessons, "course %q has no lessons", course.Title)
	}

	words := make(map[string]bool)
	for _, s := range c.Signs {
		assert.False(t, words[s.Word], "duplicate sign %q", s.Word)
		words[s.Word] = true
	}
}

func TestParseCatalog_Defaults(t *testing.T) {
	c, err := ParseCatalog([]byte(`
courses:
  - title: Intro
    lessons:
      - title: One
`))
	require.NoError(t, err)
	require.Len(t, c.Courses, 1)
	assert.Equal(t, "beginner", c.Courses[0].Level)
	assert.Equal(t, "general", c.Courses[0].Category)
}

func TestParseCatalog_Invalid(t *testing.T) {
	_, err := ParseCatalog([]byte("courses:\n  - description: no title\n"))
	assert.Error(t, err)

	_, err = ParseCatalog([]byte("courses: [unclosed"))
	assert.Error(t, err)
}

func TestGetMigrations(t *testing.T) {
	migs := GetMigrations()
	require.NotEmpty(t, migs)

	for i, m := range migs {
		assert.Equal(t, i+1, m.Version)
		assert.NotEmpty(t, m.UpSQL)
		assert.NotEmpty(t, m.DownSQL)
	}
}
