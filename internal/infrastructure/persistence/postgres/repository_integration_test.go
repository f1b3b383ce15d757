package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signlearn/signlearn-hub/internal/domain/achievement"
	"github.com/signlearn/signlearn-hub/internal/domain/progress"
	"github.com/signlearn/signlearn-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// DATABASE FIXTURE
// ══════════════════════════════════════════════════════════════════════════════

// testDB opens a connection bound to a fresh schema with all migrations
// applied. Runs only when TEST_DATABASE_URL points at a PostgreSQL server.
func testDB(t *testing.T) *Connection {
	t.Helper()

	raw := os.Getenv("TEST_DATABASE_URL")
	if raw == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	schema := "it_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	admin, err := NewConnection(ctx, Config{URL: raw}, logger.Nop())
	require.NoError(t, err)
	_, err = admin.Exec(ctx, "CREATE SCHEMA "+pgx.Identifier{schema}.Sanitize())
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	q.Set("search_path", schema+",public")
	u.RawQuery = q.Encode()

	cfg := DefaultConfig()
	cfg.URL = u.String()
	conn, err := NewConnection(ctx, cfg, logger.Nop())
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA "+pgx.Identifier{schema}.Sanitize()+" CASCADE")
		admin.Close()
	})

	_, err = NewMigrator(conn).Migrate(ctx)
	require.NoError(t, err)

	return conn
}

func insertUser(t *testing.T, conn *Connection, name string) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := conn.QueryRow(context.Background(),
		`INSERT INTO users (email, password_hash, name) VALUES ($1, 'x', $2) RETURNING id`,
		strings.ToLower(name)+"@example.com", name,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func insertLessons(t *testing.T, conn *Connection, n int) []int64 {
	t.Helper()
	ctx := context.Background()

	var courseID int64
	err := conn.QueryRow(ctx,
		`INSERT INTO courses (title) VALUES ($1) RETURNING id`, "Course "+uuid.NewString(),
	).Scan(&courseID)
	require.NoError(t, err)

	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		var id int64
		err := conn.QueryRow(ctx,
			`INSERT INTO lessons (course_id, title, order_index) VALUES ($1, $2, $3) RETURNING id`,
			courseID, fmt.Sprintf("Lesson %d", i+1), i,
		).Scan(&id)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func complete(t *testing.T, repo *ProgressRepository, userID uuid.UUID, lessonID int64, score float64) {
	t.Helper()
	_, err := repo.Upsert(context.Background(), progress.Submission{
		UserID: userID, LessonID: lessonID, Score: score, Completed: true,
	})
	require.NoError(t, err)
}

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS
// ══════════════════════════════════════════════════════════════════════════════

func TestProgressRepository_Upsert_Merge(t *testing.T) {
	conn := testDB(t)
	repo := NewProgressRepository(conn)
	ctx := context.Background()

	userID := insertUser(t, conn, "Aigerim")
	lessonID := insertLessons(t, conn, 1)[0]

	first, err := repo.Upsert(ctx, progress.Submission{
		UserID: userID, LessonID: lessonID, Score: 40,
		RecognitionData: json.RawMessage(`{"frames":3}`),
	})
	require.NoError(t, err)
	assert.False(t, first.Record.Completed)
	assert.Nil(t, first.Record.CompletedAt)
	assert.False(t, first.FirstCompletion)

	done, err := repo.Upsert(ctx, progress.Submission{
		UserID: userID, LessonID: lessonID, Score: 85, Completed: true,
		RecognitionData: json.RawMessage(`null`),
	})
	require.NoError(t, err)
	assert.Equal(t, 85.0, done.Record.Score)
	assert.True(t, done.Record.Completed)
	require.NotNil(t, done.Record.CompletedAt)
	assert.True(t, done.FirstCompletion)
	assert.JSONEq(t, `{"frames":3}`, string(done.Record.RecognitionData))

	lower, err := repo.Upsert(ctx, progress.Submission{
		UserID: userID, LessonID: lessonID, Score: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, 85.0, lower.Record.Score, "stored score is the best one")
	assert.True(t, lower.Record.Completed, "completion is never revoked")
	require.NotNil(t, lower.Record.CompletedAt)
	assert.True(t, lower.Record.CompletedAt.Equal(*done.Record.CompletedAt), "incomplete write keeps completed_at")
	assert.False(t, lower.FirstCompletion)

	again, err := repo.Upsert(ctx, progress.Submission{
		UserID: userID, LessonID: lessonID, Score: 90, Completed: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 90.0, again.Record.Score)
	require.NotNil(t, again.Record.CompletedAt)
	assert.False(t, again.Record.CompletedAt.Before(*done.Record.CompletedAt))
	assert.False(t, again.FirstCompletion)
}

func TestProgressRepository_Upsert_ConcurrentFirstCompletion(t *testing.T) {
	conn := testDB(t)
	repo := NewProgressRepository(conn)

	userID := insertUser(t, conn, "Dana")
	lessonID := insertLessons(t, conn, 1)[0]

	const writers = 8
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		firsts int
		errs   []error
	)
	start := make(chan struct{})
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(score float64) {
			defer wg.Done()
			<-start
			res, err := repo.Upsert(context.Background(), progress.Submission{
				UserID: userID, LessonID: lessonID, Score: score, Completed: true,
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			if res.FirstCompletion {
				firsts++
			}
		}(float64(50 + i))
	}
	close(start)
	wg.Wait()

	require.Empty(t, errs)
	assert.Equal(t, 1, firsts)

	rec, err := repo.Get(context.Background(), userID, lessonID)
	require.NoError(t, err)
	assert.Equal(t, float64(50+writers-1), rec.Score)
}

// ══════════════════════════════════════════════════════════════════════════════
// ACHIEVEMENTS
// ══════════════════════════════════════════════════════════════════════════════

func TestAchievementRepository_Grant(t *testing.T) {
	conn := testDB(t)
	repo := NewAchievementRepository(conn)
	ctx := context.Background()

	userID := insertUser(t, conn, "Erlan")

	a, granted, err := repo.Grant(ctx, userID, achievement.FiveLessons)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.True(t, granted)
	assert.Equal(t, achievement.FiveLessons, a.Type)

	a, granted, err = repo.Grant(ctx, userID, achievement.FiveLessons)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.False(t, granted)

	missing, granted, err := repo.Grant(ctx, userID, achievement.Type("unknown_type"))
	require.NoError(t, err)
	assert.Nil(t, missing)
	assert.False(t, granted)
}

func TestAchievementRepository_Grant_Concurrent(t *testing.T) {
	conn := testDB(t)
	repo := NewAchievementRepository(conn)

	userID := insertUser(t, conn, "Zhanna")

	const callers = 6
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
		errs    []error
	)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, ok, err := repo.Grant(context.Background(), userID, achievement.FiveLessons)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			if ok {
				granted++
			}
		}()
	}
	close(start)
	wg.Wait()

	require.Empty(t, errs)
	assert.Equal(t, 1, granted)

	earned, err := repo.ListEarned(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, earned, 1)
}

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD
// ══════════════════════════════════════════════════════════════════════════════

func TestLeaderboardRepository_WeeklyWindow(t *testing.T) {
	conn := testDB(t)
	progressRepo := NewProgressRepository(conn)
	repo := NewLeaderboardRepository(conn)
	ctx := context.Background()

	lessons := insertLessons(t, conn, 3)
	veteran := insertUser(t, conn, "Veteran")
	recent := insertUser(t, conn, "Recent")

	// Veteran: two old completions with high scores and one fresh low one.
	complete(t, progressRepo, veteran, lessons[0], 100)
	complete(t, progressRepo, veteran, lessons[1], 100)
	complete(t, progressRepo, veteran, lessons[2], 40)
	_, err := conn.Exec(ctx,
		`UPDATE user_progress SET completed_at = NOW() - INTERVAL '20 days'
		 WHERE user_id = $1 AND lesson_id = ANY($2)`,
		veteran, []int64{lessons[0], lessons[1]},
	)
	require.NoError(t, err)

	complete(t, progressRepo, recent, lessons[0], 70)

	since := time.Now().Add(-7 * 24 * time.Hour)

	weekly, err := repo.Top(ctx, &since, 10)
	require.NoError(t, err)
	require.Len(t, weekly, 2)

	assert.Equal(t, recent, weekly[0].UserID)
	assert.Equal(t, 1, weekly[0].Rank)
	assert.Equal(t, 70.0, weekly[0].TotalScore)

	assert.Equal(t, veteran, weekly[1].UserID)
	assert.Equal(t, 2, weekly[1].Rank)
	assert.Equal(t, 1, weekly[1].LessonsCompleted)
	assert.Equal(t, 40.0, weekly[1].TotalScore)
	assert.Equal(t, 40.0, weekly[1].AverageScore, "old completions stay out of the average")

	for _, e := range weekly {
		pos, err := repo.Position(ctx, &since, e.UserID)
		require.NoError(t, err)
		require.NotNil(t, pos)
		assert.Equal(t, e.Rank, *pos)
	}

	all, err := repo.Top(ctx, nil, 10)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, veteran, all[0].UserID)
	assert.Equal(t, 240.0, all[0].TotalScore)
	assert.Equal(t, 80.0, all[0].AverageScore)

	pos, err := repo.Position(ctx, nil, veteran)
	require.NoError(t, err)
	require.NotNil(t, pos)
	assert.Equal(t, 1, *pos)

	outsider := insertUser(t, conn, "Outsider")
	pos, err = repo.Position(ctx, &since, outsider)
	require.NoError(t, err)
	assert.Nil(t, pos)
}

func TestLeaderboardRepository_TiesShareRank(t *testing.T) {
	conn := testDB(t)
	progressRepo := NewProgressRepository(conn)
	repo := NewLeaderboardRepository(conn)
	ctx := context.Background()

	lessons := insertLessons(t, conn, 1)
	a := insertUser(t, conn, "Alma")
	b := insertUser(t, conn, "Bolat")
	c := insertUser(t, conn, "Cholpon")

	complete(t, progressRepo, a, lessons[0], 90)
	complete(t, progressRepo, b, lessons[0], 90)
	complete(t, progressRepo, c, lessons[0], 60)

	entries, err := repo.Top(ctx, nil, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	ranks := []int{entries[0].Rank, entries[1].Rank, entries[2].Rank}
	assert.Equal(t, []int{1, 1, 3}, ranks)

	pos, err := repo.Position(ctx, nil, c)
	require.NoError(t, err)
	require.NotNil(t, pos)
	assert.Equal(t, 3, *pos)
}
