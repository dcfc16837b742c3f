package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mroshb/trivia_bot/internal/quiz"
)

// JoinKeyboard creates the lobby keyboard with a single join button
func JoinKeyboard(key quiz.SessionKey) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(BtnJoin, joinCallbackData(key)),
		),
	)
}

// AnswerKeyboard creates one row per option, each bound to round
func AnswerKeyboard(key quiz.SessionKey, round int, options []string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(options))
	for i, opt := range options {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(opt, answerCallbackData(key, round, i)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
