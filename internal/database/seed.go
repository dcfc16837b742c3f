package database

import (
	"context"

	"github.com/mroshb/trivia_bot/internal/models"
	"github.com/mroshb/trivia_bot/internal/repositories"
	"github.com/mroshb/trivia_bot/pkg/logger"
	"gorm.io/gorm"
)

type seedQuestion struct {
	text     string
	category string
	options  []string
	correct  int
}

var defaultQuestions = []seedQuestion{
	{"What is the capital of France?", "Geography", []string{"Paris", "London", "Berlin", "Rome"}, 0},
	{"Which planet is known as the Red Planet?", "Science", []string{"Earth", "Mars", "Jupiter", "Venus"}, 1},
	{"What is the largest ocean on Earth?", "Geography", []string{"Atlantic", "Indian", "Pacific", "Arctic"}, 2},
	{"Who is credited with inventing the telephone?", "History", []string{"Thomas Edison", "Alexander Graham Bell", "Nikola Tesla", "Isaac Newton"}, 1},
	{"What is the currency of Japan?", "Economy", []string{"Yuan", "Won", "Yen", "Ringgit"}, 2},
	{"How many continents are there?", "Geography", []string{"5", "6", "7", "8"}, 2},
	{"What is the chemical symbol for gold?", "Science", []string{"Au", "Ag", "Gd", "Go"}, 0},
	{"Which language has the most native speakers?", "Culture", []string{"English", "Spanish", "Hindi", "Mandarin Chinese"}, 3},
	{"What is the longest river in the world?", "Geography", []string{"Amazon", "Nile", "Yangtze", "Mississippi"}, 1},
	{"Who painted the Mona Lisa?", "Art", []string{"Michelangelo", "Raphael", "Leonardo da Vinci", "Donatello"}, 2},
	{"What is the hardest natural substance?", "Science", []string{"Iron", "Diamond", "Quartz", "Granite"}, 1},
	{"In which year did World War II end?", "History", []string{"1943", "1944", "1945", "1946"}, 2},
	{"What gas do plants absorb from the air?", "Science", []string{"Oxygen", "Nitrogen", "Carbon dioxide", "Helium"}, 2},
	{"Which country hosted the 2016 Summer Olympics?", "Sport", []string{"China", "Brazil", "United Kingdom", "Japan"}, 1},
	{"What is the smallest prime number?", "Math", []string{"0", "1", "2", "3"}, 2},
	{"How many sides does a hexagon have?", "Math", []string{"5", "6", "7", "8"}, 1},
	{"Which element has the atomic number 1?", "Science", []string{"Helium", "Oxygen", "Hydrogen", "Carbon"}, 2},
	{"What is the tallest mountain above sea level?", "Geography", []string{"K2", "Kangchenjunga", "Mount Everest", "Lhotse"}, 2},
	{"Who wrote \"Romeo and Juliet\"?", "Literature", []string{"Charles Dickens", "William Shakespeare", "Jane Austen", "Mark Twain"}, 1},
	{"What is the freezing point of water in Celsius?", "Science", []string{"0", "32", "-10", "100"}, 0},
	{"Which organ pumps blood through the body?", "Biology", []string{"Lungs", "Liver", "Heart", "Kidneys"}, 2},
	{"What is the capital of Australia?", "Geography", []string{"Sydney", "Melbourne", "Canberra", "Perth"}, 2},
	{"How many players does a football team have on the field?", "Sport", []string{"9", "10", "11", "12"}, 2},
	{"Which planet is closest to the Sun?", "Science", []string{"Venus", "Mercury", "Mars", "Earth"}, 1},
	{"What is 12 multiplied by 12?", "Math", []string{"124", "144", "132", "148"}, 1},
	{"Which animal is the largest mammal?", "Biology", []string{"Elephant", "Blue whale", "Giraffe", "Orca"}, 1},
	{"What language is primarily spoken in Brazil?", "Culture", []string{"Spanish", "Portuguese", "French", "English"}, 1},
	{"Who developed the theory of relativity?", "Science", []string{"Isaac Newton", "Niels Bohr", "Albert Einstein", "Galileo Galilei"}, 2},
	{"What is the largest desert in the world?", "Geography", []string{"Sahara", "Gobi", "Antarctic", "Arabian"}, 2},
	{"Which instrument has 88 keys?", "Music", []string{"Guitar", "Piano", "Violin", "Harp"}, 1},
	{"What is the boiling point of water at sea level in Celsius?", "Science", []string{"90", "100", "110", "120"}, 1},
	{"Which country gifted the Statue of Liberty to the USA?", "History", []string{"United Kingdom", "Spain", "France", "Italy"}, 2},
}

// DefaultQuizQuestions returns the builtin catalog used when no other source is configured.
func DefaultQuizQuestions() []models.Question {
	questions := make([]models.Question, len(defaultQuestions))
	for i, q := range defaultQuestions {
		questions[i] = models.NewQuestion(q.text, q.category, q.options, q.correct)
	}
	return questions
}

// SeedQuestions fills an empty questions table with the builtin catalog.
func SeedQuestions(ctx context.Context, db *gorm.DB) error {
	repo := repositories.NewQuestionRepository(db)

	count, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	logger.Info("Seeding quiz questions...")
	inserted, err := repo.CreateBatch(ctx, DefaultQuizQuestions())
	if err != nil {
		return err
	}
	logger.Info("Seeded quiz questions", "count", inserted)
	return nil
}
