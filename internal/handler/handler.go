// Package handler wires the exam flow to HTTP: login, question
// issuance, submission and the admin report.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/quizserver/internal/bank"
	appI18n "github.com/pavelanni/quizserver/internal/i18n"
	"github.com/pavelanni/quizserver/internal/model"
	"github.com/pavelanni/quizserver/internal/session"
	"github.com/pavelanni/quizserver/internal/store"
)

const sessionCookieName = "session"

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store    store.Store
	bank     *bank.Bank
	sessions *session.Manager
	config   model.ServerConfig
}

// New creates a new Handler.
func New(s store.Store, b *bank.Bank, m *session.Manager, cfg model.ServerConfig) *Handler {
	return &Handler{store: s, bank: b, sessions: m, config: cfg}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Group(func(r chi.Router) {
		r.Use(h.requireSession)
		r.Get("/get_questions", h.handleGetQuestions)
		r.Post("/submit", h.handleSubmit)
	})
	r.Get("/admin", h.handleAdminPage)
	r.Get("/admin/results.json", h.handleAdminResults)
	r.Get("/healthz", h.handleHealthz)
}

type loginRequest struct {
	Name      string `json:"name"`
	RegNumber string `json:"reg_number"`
	Email     string `json:"email"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type questionsResponse struct {
	Questions []model.Question `json:"questions"`
}

type submitRequest struct {
	Answers          []model.SubmittedAnswer `json:"answers"`
	Cancelled        bool                    `json:"cancelled"`
	MalpracticeCount int                     `json:"malpractice_count"`
}

type submitResponse struct {
	Success   bool    `json:"success"`
	Score     int     `json:"score"`
	Total     int     `json:"total"`
	TimeTaken float64 `json:"time_taken"`
	Cancelled bool    `json:"cancelled"`
	ResultID  string  `json:"result_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// requireSession gates an endpoint on a live exam session. The session
// is placed in the request context for the handler.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: appI18n.T(r.Context(), "NotLoggedIn")})
			return
		}
		sess, ok := h.sessions.Get(cookie.Value)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: appI18n.T(r.Context(), "NotLoggedIn")})
			return
		}
		ctx := model.ContextWithSession(r.Context(), sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// handleLogin upserts the student identity by registration number and
// starts a fresh exam session bound to it.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, loginResponse{Success: false, Error: "invalid request body"})
		return
	}

	now := time.Now()
	student, err := h.store.UpsertStudent(r.Context(), model.Student{
		Name:        req.Name,
		RegNumber:   req.RegNumber,
		Email:       req.Email,
		LastLoginAt: now,
	})
	if err != nil {
		slog.Error("login failed", "reg_number", req.RegNumber, "error", err)
		writeJSON(w, http.StatusInternalServerError, loginResponse{Success: false, Error: err.Error()})
		return
	}

	token, err := h.sessions.Create(student.ID, student.Name, student.RegNumber)
	if err != nil {
		slog.Error("create session failed", "reg_number", req.RegNumber, "error", err)
		writeJSON(w, http.StatusInternalServerError, loginResponse{Success: false, Error: err.Error()})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.config.SecureCookies,
	})
	slog.Info("student logged in", "reg_number", student.RegNumber, "student_id", student.ID)
	writeJSON(w, http.StatusOK, loginResponse{Success: true, Message: appI18n.T(r.Context(), "LoginSuccess")})
}

// handleGetQuestions issues a fresh random sample and records the
// assignment on the session. Calling it again re-samples and overwrites
// the previous assignment. The response includes the correct-answer
// fields; clients are trusted not to look, which is a known weakness of
// the current design.
func (h *Handler) handleGetQuestions(w http.ResponseWriter, r *http.Request) {
	sess := model.SessionFromContext(r.Context())

	questions := h.bank.Sample(h.config.QuestionsPerExam)
	ids := make([]int, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	if !h.sessions.Assign(sess.Token, ids) {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: appI18n.T(r.Context(), "NotLoggedIn")})
		return
	}

	writeJSON(w, http.StatusOK, questionsResponse{Questions: questions})
}

// handleSubmit scores the submission, persists the result and consumes
// the session. Scoring runs whether or not the exam was cancelled; the
// cancellation flag and malpractice count are stored as metadata only.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess := model.SessionFromContext(r.Context())

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	now := time.Now()
	timeTaken := now.Sub(sess.LoginAt).Seconds()
	score := h.bank.Grade(req.Answers)

	result := model.Result{
		StudentID:        sess.StudentID,
		Name:             sess.Name,
		RegNumber:        sess.RegNumber,
		Answers:          req.Answers,
		Score:            score,
		Total:            len(req.Answers),
		TimeTakenSeconds: timeTaken,
		SubmittedAt:      now,
		Cancelled:        req.Cancelled,
	}
	if req.Cancelled {
		result.MalpracticeCount = req.MalpracticeCount
	}

	resultID, err := h.store.InsertResult(r.Context(), result)
	if err != nil {
		slog.Error("persist result failed", "reg_number", sess.RegNumber, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	// Session cleared only after the result is safely stored, so a
	// failed write leaves the student able to retry.
	h.sessions.Delete(sess.Token)

	slog.Info("exam submitted",
		"reg_number", sess.RegNumber,
		"score", score,
		"total", len(req.Answers),
		"time_taken", timeTaken,
		"cancelled", req.Cancelled,
	)
	writeJSON(w, http.StatusOK, submitResponse{
		Success:   true,
		Score:     score,
		Total:     len(req.Answers),
		TimeTaken: timeTaken,
		Cancelled: req.Cancelled,
		ResultID:  resultID,
	})
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
