package repositories

import (
	"context"

	"github.com/mroshb/trivia_bot/internal/models"
	"github.com/mroshb/trivia_bot/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// ListQuizQuestions returns the whole catalog ordered by id, so the bank index
// of a question is stable for the lifetime of the process.
func (r *QuestionRepository) ListQuizQuestions(ctx context.Context) ([]models.Question, error) {
	var questions []models.Question
	result := r.db.WithContext(ctx).Order("id").Find(&questions)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list questions")
	}

	return questions, nil
}

// Count returns the number of stored questions.
func (r *QuestionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Question{}).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to count questions")
	}
	return count, nil
}

// CreateBatch inserts questions, skipping any whose text already exists.
// It returns the number of rows inserted.
func (r *QuestionRepository) CreateBatch(ctx context.Context, questions []models.Question) (int64, error) {
	if len(questions) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "question_text"}}, DoNothing: true}).
		CreateInBatches(&questions, 100)

	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to insert questions")
	}

	return result.RowsAffected, nil
}
