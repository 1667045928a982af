package model

import (
	"context"
	"time"
)

// QuestionKind distinguishes single-answer from multi-answer questions.
type QuestionKind string

const (
	// SingleChoice questions have exactly one correct option.
	SingleChoice QuestionKind = "single-choice"
	// MultiChoice questions have a set of correct options, all of which
	// must be selected for credit.
	MultiChoice QuestionKind = "multi-choice"
)

// Question is one item in the question bank. Exactly one of
// CorrectOption / CorrectOptions is set, depending on Kind.
type Question struct {
	ID             int          `json:"id"`
	Kind           QuestionKind `json:"kind"`
	Prompt         string       `json:"prompt"`
	Options        []string     `json:"options"`
	CorrectOption  *int         `json:"correct_option,omitempty"`
	CorrectOptions []int        `json:"correct_options,omitempty"`
}

// Student is an identity record in the Details collection. RegNumber is
// the natural key; ID is assigned by the store.
type Student struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	RegNumber   string    `json:"reg_number"`
	Email       string    `json:"email"`
	LastLoginAt time.Time `json:"last_login_at"`
}

// ExamSession is the server-held state between login and submission.
// It lives only in memory, keyed by the token handed to the client.
type ExamSession struct {
	Token               string
	StudentID           string
	Name                string
	RegNumber           string
	LoginAt             time.Time
	ExpiresAt           time.Time
	AssignedQuestionIDs []int
}

// SubmittedAnswer is one answer entry in a submission. Answer is set
// for single-choice questions, Answers for multi-choice.
type SubmittedAnswer struct {
	QuestionID int   `json:"question_id" bson:"question_id"`
	Answer     *int  `json:"answer,omitempty" bson:"answer,omitempty"`
	Answers    []int `json:"answers,omitempty" bson:"answers,omitempty"`
}

// Result is one persisted submission in the Results collection.
// Immutable once written.
type Result struct {
	ID               string            `json:"id"`
	StudentID        string            `json:"student_id"`
	Name             string            `json:"name"`
	RegNumber        string            `json:"reg_number"`
	Answers          []SubmittedAnswer `json:"answers"`
	Score            int               `json:"score"`
	Total            int               `json:"total"`
	TimeTakenSeconds float64           `json:"time_taken"`
	SubmittedAt      time.Time         `json:"submitted_at"`
	Cancelled        bool              `json:"cancelled,omitempty"`
	MalpracticeCount int               `json:"malpractice_count,omitempty"`
}

// ServerConfig holds runtime parameters set via CLI flags.
type ServerConfig struct {
	QuestionsPerExam int  // size of the sample issued to each student
	SecureCookies    bool // Set Secure flag on cookies (disable for local dev)
}

type sessionCtxKey struct{}

// ContextWithSession stores an exam session in the request context.
func ContextWithSession(ctx context.Context, s *ExamSession) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, s)
}

// SessionFromContext retrieves the exam session from context, or nil.
func SessionFromContext(ctx context.Context) *ExamSession {
	s, _ := ctx.Value(sessionCtxKey{}).(*ExamSession)
	return s
}
