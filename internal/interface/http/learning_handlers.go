package http

import (
	"net/http"

	"github.com/signlearn/signlearn-hub/internal/application/command"
	"github.com/signlearn/signlearn-hub/internal/application/query"
	"github.com/signlearn/signlearn-hub/internal/domain/achievement"
	"github.com/signlearn/signlearn-hub/internal/domain/level"
	"github.com/signlearn/signlearn-hub/internal/domain/progress"
	"github.com/signlearn/signlearn-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS & LEADERBOARD HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type recordProgressResponse struct {
	Progress        progress.Record           `json:"progress"`
	FirstCompletion bool                      `json:"first_completion"`
	NewAchievements []achievement.Achievement `json:"new_achievements"`
	PointsAwarded   int                       `json:"points_awarded,omitempty"`
	TotalPoints     int                       `json:"total_points,omitempty"`
	Level           *level.Progress           `json:"level,omitempty"`
	LeveledUp       bool                      `json:"leveled_up,omitempty"`
}

// handleRecordProgress handles POST /api/progress
func (s *Server) handleRecordProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFrom(r.Context())
	if !ok {
		s.writeError(w, r, shared.ErrTokenMissing)
		return
	}

	var req recordProgressRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.deps.RecordProgress.Handle(r.Context(), command.RecordProgressCommand{
		Submission: progress.Submission{
			UserID:          id.UserID,
			LessonID:        req.LessonID,
			Score:           *req.Score,
			Completed:       req.Completed,
			RecognitionData: req.RecognitionData,
		},
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := recordProgressResponse{
		Progress:        result.Record,
		FirstCompletion: result.FirstCompletion,
		NewAchievements: result.NewAchievements,
	}
	if resp.NewAchievements == nil {
		resp.NewAchievements = []achievement.Achievement{}
	}
	if award := result.Award; award != nil {
		lvl := level.ProgressFor(award.TotalPoints)
		resp.PointsAwarded = award.Points
		resp.TotalPoints = award.TotalPoints
		resp.Level = &lvl
		resp.LeveledUp = award.LeveledUp()
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// handleListProgress handles GET /api/progress
func (s *Server) handleListProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFrom(r.Context())
	if !ok {
		s.writeError(w, r, shared.ErrTokenMissing)
		return
	}

	records, err := s.deps.Profile.ListProgress(r.Context(), id.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSONWithMeta(w, r, http.StatusOK, records, &ResponseMeta{TotalCount: len(records)})
}

// handleGetLessonProgress handles GET /api/progress/lesson/{lessonId}.
// A lesson without a record answers {"progress": null}.
func (s *Server) handleGetLessonProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFrom(r.Context())
	if !ok {
		s.writeError(w, r, shared.ErrTokenMissing)
		return
	}

	lessonID, err := pathID(r, "lessonId", "lesson")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	record, err := s.deps.Profile.GetLessonProgress(r.Context(), id.UserID, lessonID)
	if err != nil && !shared.IsNotFound(err) {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]*progress.Record{"progress": record})
}

// handleListEarned handles GET /api/progress/achievements
func (s *Server) handleListEarned(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFrom(r.Context())
	if !ok {
		s.writeError(w, r, shared.ErrTokenMissing)
		return
	}

	earned, err := s.deps.Profile.ListEarned(r.Context(), id.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, earned)
}

// handleGetLeaderboard handles GET /api/leaderboard?period=&limit=
func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := queryIntPtr(r, "limit")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	board, err := s.deps.Leaderboard.Handle(r.Context(), query.GetLeaderboardQuery{
		Period: r.URL.Query().Get("period"),
		Limit:  limit,
		UserID: callerID(r),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, board)
}
