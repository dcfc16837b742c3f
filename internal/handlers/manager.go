package handlers

import (
	"github.com/mroshb/trivia_bot/internal/config"
	"github.com/mroshb/trivia_bot/internal/quiz"
	"github.com/mroshb/trivia_bot/internal/services"
)

// BotInterface is the part of the transport the handlers talk to.
type BotInterface interface {
	SendMessage(chatID int64, text string, keyboard interface{}) int
	EditMessage(chatID int64, messageID int, text string, keyboard interface{})
	AnswerCallbackQuery(queryID string, text string, showAlert bool)
	GetJoinKeyboard(key quiz.SessionKey) interface{}
}

type HandlerManager struct {
	Config  *config.Config
	QuizSvc *services.QuizService
}

func NewHandlerManager(cfg *config.Config, quizSvc *services.QuizService) *HandlerManager {
	return &HandlerManager{
		Config:  cfg,
		QuizSvc: quizSvc,
	}
}
