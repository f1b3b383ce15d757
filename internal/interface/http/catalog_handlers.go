package http

import (
	"net/http"
	"strings"

	"github.com/signlearn/signlearn-hub/internal/application/query"
)

// ══════════════════════════════════════════════════════════════════════════════
// CATALOG HANDLERS
// Anonymous callers see the catalog without progress fields.
// ══════════════════════════════════════════════════════════════════════════════

// handleListCourses handles GET /api/courses?level=&category=
func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	courses, err := s.deps.Catalog.ListCourses(r.Context(), query.ListCoursesQuery{
		Level:    strings.TrimSpace(q.Get("level")),
		Category: strings.TrimSpace(q.Get("category")),
		UserID:   callerID(r),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSONWithMeta(w, r, http.StatusOK, courses, &ResponseMeta{TotalCount: len(courses)})
}

// handleGetCourse handles GET /api/courses/{id}
func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "course")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	c, err := s.deps.Catalog.GetCourse(r.Context(), id, callerID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, c)
}

// handleListLessons handles GET /api/lessons?courseId=
func (s *Server) handleListLessons(w http.ResponseWriter, r *http.Request) {
	courseID, err := queryInt64Ptr(r, "courseId", "course")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	lessons, err := s.deps.Catalog.ListLessons(r.Context(), query.ListLessonsQuery{
		CourseID: courseID,
		UserID:   callerID(r),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSONWithMeta(w, r, http.StatusOK, lessons, &ResponseMeta{TotalCount: len(lessons)})
}

// handleGetLesson handles GET /api/lessons/{id}
func (s *Server) handleGetLesson(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "lesson")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	lesson, err := s.deps.Catalog.GetLesson(r.Context(), id, callerID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, lesson)
}
