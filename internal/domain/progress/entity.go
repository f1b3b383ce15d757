// Package progress содержит модель прогресса пользователя по урокам
// и правило слияния "лучший результат побеждает".
package progress

import (
	"bytes"
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/signlearn/signlearn-hub/internal/domain/shared"
)

// Границы допустимого результата урока.
const (
	MinScore = 0.0
	MaxScore = 100.0
)

// CompletionPoints - очки за первое прохождение урока.
const CompletionPoints = 10

// ══════════════════════════════════════════════════════════════════════════════
// RECORD
// ══════════════════════════════════════════════════════════════════════════════

// Record - прогресс пользователя по одному уроку.
// Для пары (пользователь, урок) существует ровно одна запись.
type Record struct {
	ID              int64           `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	LessonID        int64           `json:"lesson_id"`
	Score           float64         `json:"score"`
	Completed       bool            `json:"completed"`
	CompletedAt     *time.Time      `json:"completed_at"`
	RecognitionData json.RawMessage `json:"recognition_data,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Заполняются в выборках с JOIN на уроки и курсы.
	LessonTitle string `json:"lesson_title,omitempty"`
	CourseID    int64  `json:"course_id,omitempty"`
	CourseTitle string `json:"course_title,omitempty"`
}

// Submission - результат, присланный клиентом.
type Submission struct {
	UserID          uuid.UUID
	LessonID        int64
	Score           float64
	Completed       bool
	RecognitionData json.RawMessage
}

// HasRecognitionData сообщает, прислан ли непустой снимок распознавания.
// JSON null считается отсутствием данных.
func (s Submission) HasRecognitionData() bool {
	trimmed := bytes.TrimSpace(s.RecognitionData)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// Validate проверяет входные данные.
func (s Submission) Validate() error {
	if s.UserID == uuid.Nil {
		return shared.NewDomainError("progress", "Validate", shared.ErrInvalidID, "user id is required")
	}
	if s.LessonID <= 0 {
		return shared.ErrInvalidLessonID
	}
	if math.IsNaN(s.Score) || s.Score < MinScore || s.Score > MaxScore {
		return shared.ErrInvalidScore
	}
	return nil
}

// Merge применяет правило слияния к существующей записи (может быть nil).
//
//   - score: максимум из старого и нового значения, никогда не уменьшается
//   - completed: "липкий", однажды true остаётся true
//   - completed_at: now, если в новой записи completed = true; иначе прежнее значение
//   - recognition_data: заменяется только непустым значением (JSON null - пустое)
//
// Хранилище реализует то же правило одним INSERT ... ON CONFLICT DO UPDATE.
func Merge(existing *Record, s Submission, now time.Time) Record {
	if existing == nil {
		rec := Record{
			UserID:    s.UserID,
			LessonID:  s.LessonID,
			Score:     s.Score,
			Completed: s.Completed,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if s.HasRecognitionData() {
			rec.RecognitionData = s.RecognitionData
		}
		if s.Completed {
			at := now
			rec.CompletedAt = &at
		}
		return rec
	}

	rec := *existing
	if s.Score > rec.Score {
		rec.Score = s.Score
	}
	rec.Completed = existing.Completed || s.Completed
	if s.Completed {
		at := now
		rec.CompletedAt = &at
	}
	if s.HasRecognitionData() {
		rec.RecognitionData = s.RecognitionData
	}
	rec.UpdatedAt = now
	return rec
}

// IsFirstCompletion сообщает, завершил ли результат урок впервые.
func IsFirstCompletion(existing *Record, s Submission) bool {
	return s.Completed && (existing == nil || !existing.Completed)
}

// UpsertResult - результат записи прогресса.
type UpsertResult struct {
	Record          Record
	FirstCompletion bool
}

// ══════════════════════════════════════════════════════════════════════════════
// STATS
// ══════════════════════════════════════════════════════════════════════════════

// Stats - агрегаты по всем записям прогресса пользователя.
// Используются для выдачи достижений.
type Stats struct {
	TotalLessons     int     `json:"total_lessons"`
	CompletedLessons int     `json:"completed_lessons"`
	AverageScore     float64 `json:"average_score"`
}

// ComputeStats считает агрегаты по набору записей.
// Средний балл берётся по всем записям, не только по завершённым.
func ComputeStats(records []Record) Stats {
	var st Stats
	var sum float64
	for _, r := range records {
		st.TotalLessons++
		if r.Completed {
			st.CompletedLessons++
		}
		sum += r.Score
	}
	if st.TotalLessons > 0 {
		st.AverageScore = sum / float64(st.TotalLessons)
	}
	return st
}
