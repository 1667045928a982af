// Package session manages ephemeral exam sessions keyed by an opaque
// token. Sessions are held in memory only: a restart logs everyone out.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"slices"
	"sync"
	"time"

	"github.com/pavelanni/quizserver/internal/model"
)

// DefaultTTL bounds how long an abandoned session stays usable.
const DefaultTTL = 24 * time.Hour

// Manager is a token-keyed exam session store safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*model.ExamSession
	ttl      time.Duration

	now func() time.Time
}

// NewManager creates a Manager. ttl <= 0 falls back to DefaultTTL.
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		sessions: make(map[string]*model.ExamSession),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create starts a new exam session for a student and returns its token.
func (m *Manager) Create(studentID, name, regNumber string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = &model.ExamSession{
		Token:     token,
		StudentID: studentID,
		Name:      name,
		RegNumber: regNumber,
		LoginAt:   now,
		ExpiresAt: now.Add(m.ttl),
	}
	return token, nil
}

// Get returns a copy of the session for the given token. Expired
// sessions are removed on read and reported as missing.
func (m *Manager) Get(token string) (*model.ExamSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(token)
}

// Assign records the issued question ids on the session, replacing any
// prior assignment.
func (m *Manager) Assign(token string, questionIDs []int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.lookup(token)
	if !ok {
		return false
	}
	s.AssignedQuestionIDs = slices.Clone(questionIDs)
	return true
}

// Delete removes the session, making it single-use once a submission
// has been persisted.
func (m *Manager) Delete(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// Len returns the number of live sessions (expired ones included until
// their token is next presented).
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// get returns a copy of the session; callers must hold mu.
func (m *Manager) get(token string) (*model.ExamSession, bool) {
	s, ok := m.lookup(token)
	if !ok {
		return nil, false
	}
	cp := *s
	cp.AssignedQuestionIDs = slices.Clone(s.AssignedQuestionIDs)
	return &cp, true
}

// lookup returns the live session pointer, deleting it if expired;
// callers must hold mu.
func (m *Manager) lookup(token string) (*model.ExamSession, bool) {
	s, ok := m.sessions[token]
	if !ok {
		return nil, false
	}
	if m.now().After(s.ExpiresAt) {
		delete(m.sessions, token)
		return nil, false
	}
	return s, true
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
