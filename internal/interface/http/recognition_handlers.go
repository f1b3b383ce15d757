package http

import (
	"bytes"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/signlearn/signlearn-hub/internal/application/command"
	"github.com/signlearn/signlearn-hub/internal/domain/recognition"
	"github.com/signlearn/signlearn-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECOGNITION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

const defaultDictionaryPageSize = 20

// handleRecordAttempt handles POST /api/recognition/attempt.
// Anonymous attempts are stored without a user.
func (s *Server) handleRecordAttempt(w http.ResponseWriter, r *http.Request) {
	var req recognitionAttemptRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if !bytes.HasPrefix(bytes.TrimSpace(req.FrameData), []byte("[")) {
		s.writeError(w, r, shared.NewDomainError("recognition", "RecordAttempt", shared.ErrInvalidFormat, "frameData must be an array"))
		return
	}

	attempt, err := s.deps.RecordAttempt.Handle(r.Context(), command.RecordAttemptCommand{
		Attempt: recognition.NewAttempt{
			UserID:        callerID(r),
			SignID:        req.SignID,
			FrameData:     req.FrameData,
			PredictedSign: req.PredictedSign,
			Confidence:    req.Confidence,
		},
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, attempt)
}

// handleFeedback handles POST /api/recognition/feedback
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req recognitionFeedbackRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	fb, err := s.deps.Recognition.Feedback(r.Context(), recognition.FeedbackRequest{
		FrameData:    req.FrameData,
		ExpectedSign: req.ExpectedSign,
	}, callerID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, fb)
}

// handleRecognitionHistory handles GET /api/recognition/history
func (s *Server) handleRecognitionHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFrom(r.Context())
	if !ok {
		s.writeError(w, r, shared.ErrTokenMissing)
		return
	}

	history, err := s.deps.Recognition.History(r.Context(), id.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, history)
}

// ══════════════════════════════════════════════════════════════════════════════
// DICTIONARY HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListSigns handles GET /api/dictionary?search=&page=&limit=
func (s *Server) handleListSigns(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", defaultDictionaryPageSize)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.deps.Dictionary.List(r.Context(), r.URL.Query().Get("search"), page, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	info := result.Pagination
	writeJSONWithMeta(w, r, http.StatusOK, result, &ResponseMeta{
		TotalCount: info.Total,
		Page:       info.Page,
		PageSize:   info.Limit,
		HasMore:    info.Page < info.TotalPages,
	})
}

// handleGetSign handles GET /api/dictionary/{id}
func (s *Server) handleGetSign(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "dictionary")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sign, err := s.deps.Dictionary.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sign)
}

// handleSearchSigns handles GET /api/dictionary/search/{query}
func (s *Server) handleSearchSigns(w http.ResponseWriter, r *http.Request) {
	signs, err := s.deps.Dictionary.Search(r.Context(), mux.Vars(r)["query"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSONWithMeta(w, r, http.StatusOK, signs, &ResponseMeta{TotalCount: len(signs)})
}
