// Package bank holds the static question catalog. It is loaded once at
// process start and never mutated afterwards.
package bank

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"slices"

	"github.com/pavelanni/quizserver/internal/model"
)

// Bank is an immutable question catalog with O(1) lookup by id.
type Bank struct {
	questions []model.Question
	byID      map[int]model.Question
}

// Load reads and validates question files. Files are concatenated into
// a single catalog.
func Load(paths ...string) (*Bank, error) {
	var all []model.Question
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var questions []model.Question
		if err := json.Unmarshal(data, &questions); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		all = append(all, questions...)
	}
	return New(all)
}

// New validates the given questions and builds a catalog from them.
func New(questions []model.Question) (*Bank, error) {
	byID := make(map[int]model.Question, len(questions))
	for _, q := range questions {
		if err := validate(q); err != nil {
			return nil, fmt.Errorf("question %d: %w", q.ID, err)
		}
		if _, dup := byID[q.ID]; dup {
			return nil, fmt.Errorf("question %d: duplicate id", q.ID)
		}
		byID[q.ID] = q
	}
	return &Bank{questions: slices.Clone(questions), byID: byID}, nil
}

func validate(q model.Question) error {
	if q.ID <= 0 {
		return fmt.Errorf("id must be positive")
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("need at least 2 options, got %d", len(q.Options))
	}
	switch q.Kind {
	case model.SingleChoice:
		if q.CorrectOption == nil {
			return fmt.Errorf("single-choice question missing correct_option")
		}
		if *q.CorrectOption < 0 || *q.CorrectOption >= len(q.Options) {
			return fmt.Errorf("correct_option %d out of range", *q.CorrectOption)
		}
	case model.MultiChoice:
		if len(q.CorrectOptions) == 0 {
			return fmt.Errorf("multi-choice question missing correct_options")
		}
		for _, i := range q.CorrectOptions {
			if i < 0 || i >= len(q.Options) {
				return fmt.Errorf("correct option index %d out of range", i)
			}
		}
	default:
		return fmt.Errorf("unknown kind %q", q.Kind)
	}
	return nil
}

// Len returns the number of questions in the catalog.
func (b *Bank) Len() int {
	return len(b.questions)
}

// Get returns the question with the given id.
func (b *Bank) Get(id int) (model.Question, bool) {
	q, ok := b.byID[id]
	return q, ok
}

// Sample returns a uniform random sample of min(n, Len()) questions
// without replacement, in sampled order. n <= 0 means all questions.
func (b *Bank) Sample(n int) []model.Question {
	picked := slices.Clone(b.questions)
	rand.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	if n > 0 && n < len(picked) {
		picked = picked[:n]
	}
	return picked
}

// Grade scores submitted answers against the catalog. Each answer is
// worth one point, all or nothing; answers referencing unknown question
// ids are skipped.
func (b *Bank) Grade(answers []model.SubmittedAnswer) int {
	score := 0
	for _, a := range answers {
		q, ok := b.byID[a.QuestionID]
		if !ok {
			continue
		}
		switch q.Kind {
		case model.SingleChoice:
			if a.Answer != nil && *a.Answer == *q.CorrectOption {
				score++
			}
		case model.MultiChoice:
			if sameSelection(a.Answers, q.CorrectOptions) {
				score++
			}
		}
	}
	return score
}

// sameSelection compares two option-index selections ignoring order.
// A selection with duplicates never matches.
func sameSelection(got, want []int) bool {
	if len(got) != len(want) {
		return false
	}
	g := slices.Clone(got)
	w := slices.Clone(want)
	slices.Sort(g)
	slices.Sort(w)
	return slices.Equal(g, w)
}
