package http

import (
	"net/http"

	"github.com/signlearn/signlearn-hub/internal/application/command"
	"github.com/signlearn/signlearn-hub/internal/application/query"
	"github.com/signlearn/signlearn-hub/internal/domain/shared"
	"github.com/signlearn/signlearn-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// avatarFormOverhead covers multipart boundaries and the other form fields.
const avatarFormOverhead = 1 << 20

// handleGetProfile handles GET /api/profile
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFrom(r.Context())
	if !ok {
		s.writeError(w, r, shared.ErrTokenMissing)
		return
	}

	profile, err := s.deps.Profile.GetProfile(r.Context(), id.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, profile)
}

// handleUpdateProfile handles PUT /api/profile
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFrom(r.Context())
	if !ok {
		s.writeError(w, r, shared.ErrTokenMissing)
		return
	}

	var req updateProfileRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	upd, err := req.toUpdate()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.deps.UpdateProfile.Handle(r.Context(), command.UpdateProfileCommand{
		UserID: id.UserID,
		Update: upd,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, userResponse{User: result.User, Level: result.Level})
}

// handleUploadAvatar handles POST /api/profile/avatar (multipart field "avatar").
func (s *Server) handleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFrom(r.Context())
	if !ok {
		s.writeError(w, r, shared.ErrTokenMissing)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, user.MaxAvatarSize+avatarFormOverhead)
	if err := r.ParseMultipartForm(user.MaxAvatarSize + avatarFormOverhead); err != nil {
		s.writeError(w, r, shared.WrapError("user", "UploadAvatar", shared.ErrValidation, "invalid multipart form", err))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("avatar")
	if err != nil {
		s.writeError(w, r, shared.NewDomainError("user", "UploadAvatar", shared.ErrValidation, "avatar file is required"))
		return
	}
	defer file.Close()

	result, err := s.deps.UploadAvatar.Handle(r.Context(), command.UploadAvatarCommand{
		UserID: id.UserID,
		Avatar: user.Avatar{
			UserID:      id.UserID,
			DisplayName: id.Name,
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		},
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"avatar_url": result.AvatarURL})
}

// handleGetProfileProgress handles GET /api/profile/progress?limit=&offset=
func (s *Server) handleGetProfileProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFrom(r.Context())
	if !ok {
		s.writeError(w, r, shared.ErrTokenMissing)
		return
	}

	limit, err := queryInt(r, "limit", query.DefaultRecentLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	overview, err := s.deps.Profile.GetProgress(r.Context(), id.UserID, query.RecentQuery{Limit: limit, Offset: offset})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	total := overview.Stats.CompletedLessons
	writeJSONWithMeta(w, r, http.StatusOK, overview, &ResponseMeta{
		TotalCount: total,
		PageSize:   limit,
		HasMore:    offset+len(overview.Recent) < total,
	})
}

// handleGetAchievements handles GET /api/profile/achievements
func (s *Server) handleGetAchievements(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFrom(r.Context())
	if !ok {
		s.writeError(w, r, shared.ErrTokenMissing)
		return
	}

	overview, err := s.deps.Profile.GetAchievements(r.Context(), id.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, overview)
}

// handleGetActivity handles GET /api/profile/activity?period=week|month|year
func (s *Server) handleGetActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFrom(r.Context())
	if !ok {
		s.writeError(w, r, shared.ErrTokenMissing)
		return
	}

	report, err := s.deps.Profile.GetActivity(r.Context(), id.UserID, r.URL.Query().Get("period"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, report)
}

// handleMarkNotificationsRead handles POST /api/profile/notifications/read
func (s *Server) handleMarkNotificationsRead(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFrom(r.Context())
	if !ok {
		s.writeError(w, r, shared.ErrTokenMissing)
		return
	}

	var req markReadRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	n, err := s.deps.MarkRead.Handle(r.Context(), command.MarkNotificationsReadCommand{
		UserID: id.UserID,
		IDs:    req.NotificationIDs,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]int64{"updated": n})
}

// handleGetStats handles GET /api/users/stats
func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFrom(r.Context())
	if !ok {
		s.writeError(w, r, shared.ErrTokenMissing)
		return
	}

	stats, err := s.deps.Profile.GetStats(r.Context(), id.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}
