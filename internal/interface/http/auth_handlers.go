package http

import (
	"net/http"
	"time"

	"github.com/signlearn/signlearn-hub/internal/application/command"
	"github.com/signlearn/signlearn-hub/internal/application/saga"
	"github.com/signlearn/signlearn-hub/internal/domain/level"
	"github.com/signlearn/signlearn-hub/internal/domain/shared"
	"github.com/signlearn/signlearn-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type authResponse struct {
	User      *user.User      `json:"user"`
	Level     level.Progress  `json:"level"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Streak    *streakResponse `json:"streak,omitempty"`
}

type streakResponse struct {
	Current   int  `json:"current"`
	Continued bool `json:"continued"`
	Broken    bool `json:"broken"`
}

type userResponse struct {
	User  *user.User     `json:"user"`
	Level level.Progress `json:"level"`
}

// handleRegister handles POST /api/auth/register
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	input := saga.OnboardingInput{
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		Phone:       req.Phone,
		SkillLevel:  req.SkillLevel,
		Preferences: req.Preferences,
	}
	if req.BirthDate != nil {
		d, err := parseDate(*req.BirthDate)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		input.BirthDate = &d
	}

	result, err := s.deps.Register.Execute(r.Context(), input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, authResponse{
		User:      result.User,
		Level:     result.User.LevelProgress(),
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
	})
}

// handleLogin handles POST /api/auth/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.deps.Login.Handle(r.Context(), command.LoginUserCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, authResponse{
		User:      result.User,
		Level:     result.Level,
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Streak: &streakResponse{
			Current:   result.Streak.Current,
			Continued: result.Streak.Continued,
			Broken:    result.Streak.Broken,
		},
	})
}

// handleLogout handles POST /api/auth/logout. Tokens are stateless; the client
// drops its copy.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"message": "logged out"})
}

// handleVerify handles GET /api/auth/verify and GET /api/users/profile
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFrom(r.Context())
	if !ok {
		s.writeError(w, r, shared.ErrTokenMissing)
		return
	}

	u, lvl, err := s.deps.Profile.GetUser(r.Context(), id.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, userResponse{User: u, Level: lvl})
}
