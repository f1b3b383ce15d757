package query

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/signlearn/signlearn-hub/internal/domain/achievement"
	"github.com/signlearn/signlearn-hub/internal/domain/activity"
	"github.com/signlearn/signlearn-hub/internal/domain/course"
	"github.com/signlearn/signlearn-hub/internal/domain/level"
	"github.com/signlearn/signlearn-hub/internal/domain/notification"
	"github.com/signlearn/signlearn-hub/internal/domain/progress"
	"github.com/signlearn/signlearn-hub/internal/domain/user"
	"github.com/signlearn/signlearn-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE QUERIES
// Страница профиля собирается из нескольких независимых чтений,
// которые выполняются параллельно.
// ══════════════════════════════════════════════════════════════════════════════

const (
	// ProfileActivityDays - сколько последних дней активности показывать в профиле.
	ProfileActivityDays = 7

	// ProgressActivityDays - сколько дней статистики на странице прогресса.
	ProgressActivityDays = 30

	DefaultRecentLimit = 10
	MaxRecentLimit     = 100
)

// Profile - данные страницы профиля.
type Profile struct {
	User          *user.User                  `json:"user"`
	Level         level.Progress              `json:"level"`
	Stats         user.Stats                  `json:"stats"`
	Activity      []activity.DailyActivity    `json:"activity"`
	Notifications []notification.Notification `json:"notifications"`
}

// ProgressOverview - страница "мой прогресс".
type ProgressOverview struct {
	Courses    []course.Summary         `json:"courses"`
	Recent     []progress.Record        `json:"recent_lessons"`
	DailyStats []activity.DailyActivity `json:"daily_stats"`
	Stats      progress.Stats           `json:"stats"`
}

// ActivityReport - активность за неделю, месяц или год.
type ActivityReport struct {
	Range   activity.Range           `json:"period"`
	Days    []activity.DailyActivity `json:"activity"`
	Summary activity.Summary         `json:"summary"`
}

// RecentQuery - пагинация последних завершённых уроков.
type RecentQuery struct {
	Limit  int
	Offset int
}

func (q RecentQuery) normalize() RecentQuery {
	if q.Limit <= 0 {
		q.Limit = DefaultRecentLimit
	}
	if q.Limit > MaxRecentLimit {
		q.Limit = MaxRecentLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

// ProfileHandler обслуживает чтение профиля.
type ProfileHandler struct {
	users         user.Repository
	courses       course.Repository
	progress      progress.Repository
	achievements  achievement.Repository
	activity      activity.Repository
	notifications notification.Repository
	clock         timeutil.Clock
}

// NewProfileHandler создаёт обработчик профиля.
func NewProfileHandler(
	users user.Repository,
	courses course.Repository,
	progressRepo progress.Repository,
	achievements achievement.Repository,
	activityRepo activity.Repository,
	notifications notification.Repository,
	clock timeutil.Clock,
) *ProfileHandler {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	return &ProfileHandler{
		users:         users,
		courses:       courses,
		progress:      progressRepo,
		achievements:  achievements,
		activity:      activityRepo,
		notifications: notifications,
		clock:         clock,
	}
}

// GetProfile возвращает пользователя, статистику, последние 7 дней
// активности и непрочитанные уведомления.
func (h *ProfileHandler) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	p := &Profile{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		u, err := h.users.GetByID(gctx, userID)
		if err != nil {
			return err
		}
		p.User = u
		return nil
	})
	g.Go(func() error {
		st, err := h.users.Stats(gctx, userID)
		if err != nil {
			return fmt.Errorf("get_profile: stats: %w", err)
		}
		p.Stats = st
		return nil
	})
	g.Go(func() error {
		days, err := h.activity.List(gctx, userID, time.Time{}, ProfileActivityDays)
		if err != nil {
			return fmt.Errorf("get_profile: activity: %w", err)
		}
		p.Activity = days
		return nil
	})
	g.Go(func() error {
		list, err := h.notifications.ListUnread(gctx, userID, notification.UnreadLimit)
		if err != nil {
			return fmt.Errorf("get_profile: notifications: %w", err)
		}
		p.Notifications = list
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.Level = p.User.LevelProgress()
	if p.Activity == nil {
		p.Activity = []activity.DailyActivity{}
	}
	if p.Notifications == nil {
		p.Notifications = []notification.Notification{}
	}
	return p, nil
}

// GetUser возвращает пользователя и его уровень.
func (h *ProfileHandler) GetUser(ctx context.Context, userID uuid.UUID) (*user.User, level.Progress, error) {
	u, err := h.users.GetByID(ctx, userID)
	if err != nil {
		return nil, level.Progress{}, err
	}
	return u, u.LevelProgress(), nil
}

// GetStats возвращает агрегированную статистику пользователя.
func (h *ProfileHandler) GetStats(ctx context.Context, userID uuid.UUID) (user.Stats, error) {
	st, err := h.users.Stats(ctx, userID)
	if err != nil {
		return user.Stats{}, fmt.Errorf("get_stats: %w", err)
	}
	return st, nil
}

// GetProgress возвращает прогресс по курсам, последние завершённые уроки
// и статистику за 30 дней.
func (h *ProfileHandler) GetProgress(ctx context.Context, userID uuid.UUID, q RecentQuery) (*ProgressOverview, error) {
	q = q.normalize()
	out := &ProgressOverview{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s, err := h.courses.Summaries(gctx, userID)
		if err != nil {
			return fmt.Errorf("get_progress: courses: %w", err)
		}
		out.Courses = s
		return nil
	})
	g.Go(func() error {
		recs, err := h.progress.RecentCompleted(gctx, userID, q.Limit, q.Offset)
		if err != nil {
			return fmt.Errorf("get_progress: recent: %w", err)
		}
		out.Recent = recs
		return nil
	})
	g.Go(func() error {
		since := timeutil.DaysAgo(h.clock.Now(), ProgressActivityDays)
		days, err := h.activity.List(gctx, userID, since, ProgressActivityDays)
		if err != nil {
			return fmt.Errorf("get_progress: activity: %w", err)
		}
		out.DailyStats = days
		return nil
	})
	g.Go(func() error {
		st, err := h.progress.Stats(gctx, userID)
		if err != nil {
			return fmt.Errorf("get_progress: stats: %w", err)
		}
		out.Stats = st
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if out.Courses == nil {
		out.Courses = []course.Summary{}
	}
	if out.Recent == nil {
		out.Recent = []progress.Record{}
	}
	if out.DailyStats == nil {
		out.DailyStats = []activity.DailyActivity{}
	}
	return out, nil
}

// ListProgress возвращает весь прогресс пользователя.
func (h *ProfileHandler) ListProgress(ctx context.Context, userID uuid.UUID) ([]progress.Record, error) {
	recs, err := h.progress.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list_progress: %w", err)
	}
	if recs == nil {
		recs = []progress.Record{}
	}
	return recs, nil
}

// GetLessonProgress возвращает прогресс по уроку или ErrProgressNotFound.
func (h *ProfileHandler) GetLessonProgress(ctx context.Context, userID uuid.UUID, lessonID int64) (*progress.Record, error) {
	return h.progress.Get(ctx, userID, lessonID)
}

// GetAchievements возвращает каталог достижений, разделённый на полученные и нет.
func (h *ProfileHandler) GetAchievements(ctx context.Context, userID uuid.UUID) (achievement.Overview, error) {
	all, err := h.achievements.ListWithStatus(ctx, userID)
	if err != nil {
		return achievement.Overview{}, fmt.Errorf("get_achievements: %w", err)
	}
	return achievement.Split(all), nil
}

// ListEarned возвращает полученные достижения, сначала новые.
func (h *ProfileHandler) ListEarned(ctx context.Context, userID uuid.UUID) ([]achievement.Earned, error) {
	earned, err := h.achievements.ListEarned(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list_earned: %w", err)
	}
	if earned == nil {
		earned = []achievement.Earned{}
	}
	return earned, nil
}

// GetActivity возвращает активность за выбранный период и её сумму.
func (h *ProfileHandler) GetActivity(ctx context.Context, userID uuid.UUID, rangeValue string) (*ActivityReport, error) {
	r, err := activity.ParseRange(rangeValue)
	if err != nil {
		return nil, err
	}

	days, err := h.activity.List(ctx, userID, r.Since(h.clock.Now()), 0)
	if err != nil {
		return nil, fmt.Errorf("get_activity: %w", err)
	}
	if days == nil {
		days = []activity.DailyActivity{}
	}
	return &ActivityReport{Range: r, Days: days, Summary: activity.Summarize(days)}, nil
}
