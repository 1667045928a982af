package bank

import (
	"testing"

	"github.com/pavelanni/quizserver/internal/model"
)

func intPtr(i int) *int { return &i }

func testQuestions() []model.Question {
	return []model.Question{
		{ID: 1, Kind: model.SingleChoice, Prompt: "Q1", Options: []string{"a", "b", "c"}, CorrectOption: intPtr(2)},
		{ID: 2, Kind: model.MultiChoice, Prompt: "Q2", Options: []string{"a", "b", "c"}, CorrectOptions: []int{0, 1}},
		{ID: 3, Kind: model.SingleChoice, Prompt: "Q3", Options: []string{"a", "b"}, CorrectOption: intPtr(0)},
	}
}

func newTestBank(t *testing.T) *Bank {
	t.Helper()
	b, err := New(testQuestions())
	if err != nil {
		t.Fatalf("newTestBank: %v", err)
	}
	return b
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		q    model.Question
	}{
		{"zero id", model.Question{ID: 0, Kind: model.SingleChoice, Options: []string{"a", "b"}, CorrectOption: intPtr(0)}},
		{"one option", model.Question{ID: 1, Kind: model.SingleChoice, Options: []string{"a"}, CorrectOption: intPtr(0)}},
		{"unknown kind", model.Question{ID: 1, Kind: "essay", Options: []string{"a", "b"}}},
		{"single missing correct", model.Question{ID: 1, Kind: model.SingleChoice, Options: []string{"a", "b"}}},
		{"single correct out of range", model.Question{ID: 1, Kind: model.SingleChoice, Options: []string{"a", "b"}, CorrectOption: intPtr(2)}},
		{"single correct negative", model.Question{ID: 1, Kind: model.SingleChoice, Options: []string{"a", "b"}, CorrectOption: intPtr(-1)}},
		{"multi missing correct", model.Question{ID: 1, Kind: model.MultiChoice, Options: []string{"a", "b"}}},
		{"multi correct out of range", model.Question{ID: 1, Kind: model.MultiChoice, Options: []string{"a", "b"}, CorrectOptions: []int{0, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New([]model.Question{tt.q}); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	qs := testQuestions()
	qs = append(qs, qs[0])
	if _, err := New(qs); err == nil {
		t.Error("expected duplicate id error")
	}
}

func TestGet(t *testing.T) {
	b := newTestBank(t)

	q, ok := b.Get(2)
	if !ok {
		t.Fatal("expected question 2 to exist")
	}
	if q.Kind != model.MultiChoice {
		t.Errorf("expected multi-choice, got %q", q.Kind)
	}

	if _, ok := b.Get(99); ok {
		t.Error("expected question 99 to be missing")
	}
}

func TestSample(t *testing.T) {
	b := newTestBank(t)

	tests := []struct {
		name     string
		n        int
		wantSize int
	}{
		{"smaller than bank", 2, 2},
		{"equal to bank", 3, 3},
		{"larger than bank", 10, 3},
		{"zero means all", 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sample := b.Sample(tt.n)
			if len(sample) != tt.wantSize {
				t.Fatalf("expected %d questions, got %d", tt.wantSize, len(sample))
			}
			seen := make(map[int]bool)
			for _, q := range sample {
				if seen[q.ID] {
					t.Errorf("duplicate question id %d in sample", q.ID)
				}
				seen[q.ID] = true
				if _, ok := b.Get(q.ID); !ok {
					t.Errorf("sampled question %d not in bank", q.ID)
				}
			}
		})
	}
}

func TestGradeSingleChoice(t *testing.T) {
	b := newTestBank(t)

	// Question 1 has correct option 2.
	if got := b.Grade([]model.SubmittedAnswer{{QuestionID: 1, Answer: intPtr(2)}}); got != 1 {
		t.Errorf("correct answer scored %d, want 1", got)
	}
	for _, wrong := range []int{0, 1, 3, -1} {
		if got := b.Grade([]model.SubmittedAnswer{{QuestionID: 1, Answer: intPtr(wrong)}}); got != 0 {
			t.Errorf("answer %d scored %d, want 0", wrong, got)
		}
	}
	// Missing answer field scores nothing.
	if got := b.Grade([]model.SubmittedAnswer{{QuestionID: 1}}); got != 0 {
		t.Errorf("missing answer scored %d, want 0", got)
	}
}

func TestGradeMultiChoice(t *testing.T) {
	b := newTestBank(t)

	// Question 2 has correct options {0, 1}.
	tests := []struct {
		name    string
		answers []int
		want    int
	}{
		{"exact", []int{0, 1}, 1},
		{"any order", []int{1, 0}, 1},
		{"subset", []int{0}, 0},
		{"superset", []int{0, 1, 2}, 0},
		{"empty", nil, 0},
		{"duplicates", []int{0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.Grade([]model.SubmittedAnswer{{QuestionID: 2, Answers: tt.answers}})
			if got != tt.want {
				t.Errorf("answers %v scored %d, want %d", tt.answers, got, tt.want)
			}
		})
	}
}

func TestGradeSkipsUnknownQuestions(t *testing.T) {
	b := newTestBank(t)

	answers := []model.SubmittedAnswer{
		{QuestionID: 99, Answer: intPtr(0)},
		{QuestionID: 0},
		{QuestionID: 3, Answer: intPtr(0)},
	}
	if got := b.Grade(answers); got != 1 {
		t.Errorf("expected unknown questions skipped, score 1, got %d", got)
	}
}

func TestGradeMixed(t *testing.T) {
	b := newTestBank(t)

	answers := []model.SubmittedAnswer{
		{QuestionID: 1, Answer: intPtr(2)},
		{QuestionID: 2, Answers: []int{1, 0}},
		{QuestionID: 3, Answer: intPtr(1)},
	}
	if got := b.Grade(answers); got != 2 {
		t.Errorf("expected score 2, got %d", got)
	}
}
