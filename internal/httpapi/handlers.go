package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/abhisek/kubika/internal/identity"
	"github.com/abhisek/kubika/internal/questionbank"
	"github.com/abhisek/kubika/internal/session"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}

// writeEngineError maps a rejected session event to a status code.
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrUnknownQuestion):
		writeError(w, http.StatusUnprocessableEntity, "UNKNOWN_QUESTION", err.Error())
	case errors.Is(err, session.ErrUnknownOption):
		writeError(w, http.StatusUnprocessableEntity, "UNKNOWN_OPTION", err.Error())
	case errors.Is(err, session.ErrAlreadyAnswered):
		writeError(w, http.StatusConflict, "ALREADY_ANSWERED", err.Error())
	case errors.Is(err, session.ErrEmptyWorkingSet):
		writeError(w, http.StatusUnprocessableEntity, "EMPTY_WORKING_SET", err.Error())
	case errors.Is(err, session.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "INVALID_TRANSITION", err.Error())
	default:
		s.logger.Error("session event failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
	}
}

// decodeBody decodes an optional JSON body into v. An empty body is allowed.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	checks := make(map[string]string, len(s.checks))
	for _, c := range s.checks {
		if err := c.check(r.Context()); err != nil {
			s.logger.Warn("health check failed", zap.String("check", c.name), zap.Error(err))
			checks[c.name] = err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		checks[c.name] = "ok"
	}

	body := map[string]any{
		"status":    status,
		"questions": s.bank.Len(),
		"sessions":  s.sessions.len(),
	}
	if len(checks) > 0 {
		body["checks"] = checks
	}
	writeJSON(w, code, body)
}

// listQuestions handles GET /api/v1/questions?topic=&difficulty=
func (s *Server) listQuestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := questionbank.ParseFilter(q.Get("topic"), q.Get("difficulty"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FILTER", err.Error())
		return
	}

	matched := s.bank.Filter(filter)
	out := make([]questionView, len(matched))
	for i, question := range matched {
		out[i] = newQuestionView(question)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"topic":      filter.TopicLabel(),
		"difficulty": filter.DifficultyLabel(),
		"total":      len(out),
		"questions":  out,
	})
}

type createSessionRequest struct {
	UserID     string `json:"user_id"`
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
}

// createSession handles POST /api/v1/sessions
func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	filter, err := questionbank.ParseFilter(req.Topic, req.Difficulty)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FILTER", err.Error())
		return
	}

	userID, _ := identity.NewStatic(req.UserID).CurrentUser()
	opts := []session.Option{
		session.WithUser(userID),
		session.WithLogger(s.logger),
	}
	if s.recorder != nil {
		opts = append(opts, session.WithRecorder(s.recorder))
	}
	var reporter session.Reporter
	if s.tracker != nil {
		reporter = newUserReporter(s.tracker, userID)
	}
	engine := session.NewEngine(s.bank, reporter, opts...)
	if err := engine.Build(filter); err != nil {
		s.writeEngineError(w, err)
		return
	}

	s.evictIdle()
	h := s.sessions.add(engine, s.now())
	s.metrics.sessionsStarted.Inc()
	s.metrics.activeSessions.Inc()

	h.mu.Lock()
	view := newSessionView(h)
	h.mu.Unlock()
	w.Header().Set("Location", "/api/v1/sessions/"+h.id)
	writeJSON(w, http.StatusCreated, view)
}

// withSession looks up the {id} session and runs fn under its lock.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(h *handle)) {
	h, ok := s.sessions.get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "SESSION_NOT_FOUND", "session not found")
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(h)
	h.touch(s.now())
	s.syncActive(h)
}

// syncActive keeps the active-sessions gauge in step with whether h holds
// a result. Caller must hold h.mu.
func (s *Server) syncActive(h *handle) {
	active := h.engine.Phase() != session.PhaseFinished
	if h.active.Swap(active) == active {
		return
	}
	if active {
		s.metrics.activeSessions.Inc()
	} else {
		s.metrics.activeSessions.Dec()
	}
}

// getSession handles GET /api/v1/sessions/{id}
func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(h *handle) {
		writeJSON(w, http.StatusOK, newSessionView(h))
	})
}

// deleteSession handles DELETE /api/v1/sessions/{id}
func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	h, ok := s.sessions.remove(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "SESSION_NOT_FOUND", "session not found")
		return
	}
	if h.active.Load() {
		s.metrics.activeSessions.Dec()
	}
	w.WriteHeader(http.StatusNoContent)
}

type answerRequest struct {
	QuestionID string `json:"question_id"`
	OptionID   string `json:"option_id"`
}

// submitAnswer handles POST /api/v1/sessions/{id}/answers
func (s *Server) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if strings.TrimSpace(req.QuestionID) == "" || strings.TrimSpace(req.OptionID) == "" {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "question_id and option_id are required")
		return
	}

	s.withSession(w, r, func(h *handle) {
		if err := h.engine.SubmitAnswer(req.QuestionID, req.OptionID); err != nil {
			s.writeEngineError(w, err)
			return
		}
		rec, _ := h.engine.Answer(req.QuestionID)
		s.metrics.observeAnswer(string(rec.Topic), rec.IsCorrect)
		writeJSON(w, http.StatusOK, newSessionView(h))
	})
}

type finishRequest struct {
	Confirm bool `json:"confirm"`
}

// finishSession handles POST /api/v1/sessions/{id}/finish. With unanswered
// questions and no confirmation it answers 409 and leaves the session open.
func (s *Server) finishSession(w http.ResponseWriter, r *http.Request) {
	var req finishRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}

	s.withSession(w, r, func(h *handle) {
		e := h.engine
		if err := e.RequestFinish(); err != nil {
			s.writeEngineError(w, err)
			return
		}
		if e.NeedsConfirmation() {
			if !req.Confirm {
				unanswered := e.UnansweredCount()
				_ = e.ConfirmFinish(false)
				writeJSON(w, http.StatusConflict, map[string]any{
					"error": errorDetail{
						Code:    "NEEDS_CONFIRMATION",
						Message: "session has unanswered questions",
					},
					"needs_confirmation": true,
					"unanswered":         unanswered,
				})
				return
			}
			if err := e.ConfirmFinish(true); err != nil {
				s.writeEngineError(w, err)
				return
			}
		}
		s.metrics.sessionsFinished.Inc()
		writeJSON(w, http.StatusOK, newSessionView(h))
	})
}

// repeatSession handles POST /api/v1/sessions/{id}/repeat
func (s *Server) repeatSession(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(h *handle) {
		if err := h.engine.Repeat(); err != nil {
			s.writeEngineError(w, err)
			return
		}
		s.metrics.sessionsStarted.Inc()
		writeJSON(w, http.StatusOK, newSessionView(h))
	})
}

// reshuffleSession handles POST /api/v1/sessions/{id}/reshuffle
func (s *Server) reshuffleSession(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(h *handle) {
		if err := h.engine.Reshuffle(); err != nil {
			s.writeEngineError(w, err)
			return
		}
		s.metrics.sessionsStarted.Inc()
		writeJSON(w, http.StatusOK, newSessionView(h))
	})
}

// progressUser resolves the {user} path parameter the same way sessions do.
func progressUser(r *http.Request) (string, bool) {
	return identity.NewStatic(chi.URLParam(r, "user")).CurrentUser()
}

// getProgress handles GET /api/v1/progress/{user}
func (s *Server) getProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := progressUser(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_USER", "user is required")
		return
	}
	if s.tracker == nil {
		writeError(w, http.StatusServiceUnavailable, "NO_TRACKER", "progress tracking is disabled")
		return
	}
	writeJSON(w, http.StatusOK, newProgressView(s.tracker.Load(r.Context(), userID)))
}

// resetProgress handles DELETE /api/v1/progress/{user}
func (s *Server) resetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := progressUser(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_USER", "user is required")
		return
	}
	if s.tracker == nil {
		writeError(w, http.StatusServiceUnavailable, "NO_TRACKER", "progress tracking is disabled")
		return
	}
	agg := s.tracker.Reset(r.Context(), userID)
	s.logger.Info("progress reset", zap.String("user_id", userID))
	writeJSON(w, http.StatusOK, newProgressView(agg))
}
