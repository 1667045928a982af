// Package store persists student identities and exam results.
package store

import (
	"context"
	"errors"

	"github.com/pavelanni/quizserver/internal/model"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("store: not found")

// Store is the persistence service behind the exam flow. Students live
// in the Details collection keyed by registration number; results live
// in the Results collection and are written once, never updated.
type Store interface {
	// UpsertStudent creates the student on first login by registration
	// number, or refreshes last_login_at on a repeat login. The upsert
	// is atomic: concurrent first logins for one registration number
	// resolve to a single record. Returns the stored record with its id.
	UpsertStudent(ctx context.Context, s model.Student) (model.Student, error)

	// InsertResult writes a result record and returns its id.
	InsertResult(ctx context.Context, r model.Result) (string, error)

	// ListResults returns all results in rank order: score descending,
	// then time taken ascending, then submission time ascending.
	ListResults(ctx context.Context) ([]model.Result, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
