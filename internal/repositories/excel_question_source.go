package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/mroshb/trivia_bot/internal/models"
	"github.com/mroshb/trivia_bot/pkg/errors"
	"github.com/mroshb/trivia_bot/pkg/logger"
	"github.com/mroshb/trivia_bot/pkg/utils"
	"github.com/xuri/excelize/v2"
)

// ExcelQuestionSource reads questions from a workbook. Every sheet is a
// category; the first row of each sheet is a header. Columns are:
// id, question, option 1..N, correct option number (1-based, e.g. "2" or "گزینه ۲").
type ExcelQuestionSource struct {
	path string
}

func NewExcelQuestionSource(path string) *ExcelQuestionSource {
	return &ExcelQuestionSource{path: path}
}

// ListQuizQuestions parses every sheet. Malformed rows are skipped with a warning.
func (s *ExcelQuestionSource) ListQuizQuestions(_ context.Context) ([]models.Question, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNotFound, "failed to open questions workbook")
	}
	defer f.Close()

	var questions []models.Question
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeValidation, fmt.Sprintf("failed to read sheet %s", sheetName))
		}

		for i, row := range rows {
			if i == 0 {
				continue
			}
			q, err := parseQuestionRow(sheetName, row)
			if err != nil {
				logger.Warn("Skipping question row", "sheet", sheetName, "row", i+1, "error", err)
				continue
			}
			questions = append(questions, q)
		}
	}

	return questions, nil
}

func parseQuestionRow(category string, row []string) (models.Question, error) {
	cells := make([]string, 0, len(row))
	for _, c := range row {
		cells = append(cells, strings.TrimSpace(c))
	}
	for len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}

	// id, question, at least two options, correct marker
	if len(cells) < 5 {
		return models.Question{}, fmt.Errorf("expected at least 5 columns, got %d", len(cells))
	}

	text := cells[1]
	if text == "" {
		return models.Question{}, fmt.Errorf("empty question text")
	}
	options := cells[2 : len(cells)-1]
	for i, opt := range options {
		if opt == "" {
			return models.Question{}, fmt.Errorf("option %d is empty", i+1)
		}
	}

	marker := cells[len(cells)-1]
	n, ok := utils.FirstNumber(marker)
	if !ok || n < 1 || n > len(options) {
		return models.Question{}, fmt.Errorf("invalid correct answer indicator %q", marker)
	}

	return models.NewQuestion(text, category, options, n-1), nil
}
