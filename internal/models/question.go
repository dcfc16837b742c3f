package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type Question struct {
	ID           uint      `gorm:"primaryKey"`
	QuestionText string    `gorm:"type:text;not null;uniqueIndex"`
	Category     string    `gorm:"type:varchar(100);index"`
	Options      string    `gorm:"type:jsonb;not null"` // JSON array of option labels
	CorrectIndex int       `gorm:"not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (Question) TableName() string {
	return "questions"
}

// OptionList decodes the stored options.
func (q Question) OptionList() ([]string, error) {
	var options []string
	if err := json.Unmarshal([]byte(q.Options), &options); err != nil {
		return nil, fmt.Errorf("question %d: decode options: %w", q.ID, err)
	}
	return options, nil
}

// NewQuestion builds a row with options encoded the way they are stored.
func NewQuestion(text, category string, options []string, correctIndex int) Question {
	encoded, _ := json.Marshal(options)
	return Question{
		QuestionText: text,
		Category:     category,
		Options:      string(encoded),
		CorrectIndex: correctIndex,
	}
}
