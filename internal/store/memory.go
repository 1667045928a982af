package store

import (
	"context"
	"slices"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pavelanni/quizserver/internal/model"
)

// Memory is an in-process Store for tests and local development
// (serve --store memory). It mirrors the Mongo store's semantics,
// including the rank order of ListResults.
type Memory struct {
	mu       sync.Mutex
	students []model.Student
	results  []model.Result
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// UpsertStudent implements Store.
func (m *Memory) UpsertStudent(_ context.Context, s model.Student) (model.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.students {
		if m.students[i].RegNumber == s.RegNumber {
			m.students[i].Name = s.Name
			m.students[i].Email = s.Email
			m.students[i].LastLoginAt = s.LastLoginAt
			return m.students[i], nil
		}
	}
	s.ID = primitive.NewObjectID().Hex()
	m.students = append(m.students, s)
	return s, nil
}

// InsertResult implements Store.
func (m *Memory) InsertResult(_ context.Context, r model.Result) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = primitive.NewObjectID().Hex()
	if !r.Cancelled {
		r.MalpracticeCount = 0
	}
	r.Answers = slices.Clone(r.Answers)
	m.results = append(m.results, r)
	return r.ID, nil
}

// ListResults implements Store.
func (m *Memory) ListResults(_ context.Context) ([]model.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	results := slices.Clone(m.results)
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.TimeTakenSeconds != b.TimeTakenSeconds {
			return a.TimeTakenSeconds < b.TimeTakenSeconds
		}
		return a.SubmittedAt.Before(b.SubmittedAt)
	})
	return results, nil
}

// StudentCount returns the number of identity records.
func (m *Memory) StudentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.students)
}

// Ping implements Store.
func (m *Memory) Ping(context.Context) error { return nil }

// Close implements Store.
func (m *Memory) Close(context.Context) error { return nil }
