package services

import (
	"context"
	"fmt"

	"github.com/mroshb/trivia_bot/internal/models"
	"github.com/mroshb/trivia_bot/internal/quiz"
	"github.com/mroshb/trivia_bot/pkg/errors"
	"github.com/mroshb/trivia_bot/pkg/logger"
)

// QuestionSource lists stored questions. Implemented by the postgres
// repository, the xlsx reader and StaticQuestions.
type QuestionSource interface {
	ListQuizQuestions(ctx context.Context) ([]models.Question, error)
}

// StaticQuestions serves a fixed in-memory catalog.
type StaticQuestions []models.Question

func (s StaticQuestions) ListQuizQuestions(_ context.Context) ([]models.Question, error) {
	return s, nil
}

// LoadBank reads every question from src and builds the bank.
func LoadBank(ctx context.Context, src QuestionSource) (*quiz.Bank, error) {
	questions, err := src.ListQuizQuestions(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to load questions")
	}
	return BuildBank(questions)
}

// BuildBank converts stored rows into bank entries. Rows that cannot be
// decoded or fail validation are skipped with a warning.
func BuildBank(questions []models.Question) (*quiz.Bank, error) {
	entries := make([]quiz.Entry, 0, len(questions))
	for _, q := range questions {
		entry, err := toEntry(q)
		if err != nil {
			logger.Warn("Skipping invalid question", "question_id", q.ID, "error", err)
			continue
		}
		entries = append(entries, entry)
	}

	if len(questions) > 0 && len(entries) == 0 {
		return nil, errors.New(errors.ErrCodeInsufficientQuestions, "no valid questions in source")
	}

	logger.Info("Question bank loaded", "questions", len(entries), "skipped", len(questions)-len(entries))
	return quiz.NewBank(entries)
}

func toEntry(q models.Question) (quiz.Entry, error) {
	options, err := q.OptionList()
	if err != nil {
		return quiz.Entry{}, err
	}
	if q.QuestionText == "" {
		return quiz.Entry{}, fmt.Errorf("question %d: empty text", q.ID)
	}
	if len(options) < 2 {
		return quiz.Entry{}, fmt.Errorf("question %d: %d options", q.ID, len(options))
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(options) {
		return quiz.Entry{}, fmt.Errorf("question %d: correct index %d out of range", q.ID, q.CorrectIndex)
	}
	for i, opt := range options {
		if opt == "" {
			return quiz.Entry{}, fmt.Errorf("question %d: option %d is empty", q.ID, i+1)
		}
	}

	return quiz.Entry{
		Prompt:       q.QuestionText,
		Category:     q.Category,
		Options:      options,
		CorrectIndex: q.CorrectIndex,
	}, nil
}
