package handlers

import (
	"context"

	"github.com/mroshb/trivia_bot/internal/quiz"
	"github.com/mroshb/trivia_bot/pkg/errors"
	"github.com/mroshb/trivia_bot/pkg/logger"
)

const (
	msgQuizAlreadyRunning = "🚫 A quiz is already running here! Wait for it to finish."
	msgNoQuizRunning      = "ℹ️ No quiz is running. Send /quiz to start one."
	msgSomethingWrong     = "❌ Something went wrong! Please try again later."

	ackJoined          = "🎉 You're in!"
	ackAlreadyJoined   = "✅ You have already joined!"
	ackLobbyClosed     = "🚫 The game is already running or was not started!"
	ackNotPlaying      = "🚫 You are not playing in this game."
	ackTooLate         = "⌛ Too late, this question is over."
	ackAlreadyAnswered = "⌛ This question has already been answered."
	ackCorrect         = "✅ Correct!"
	ackWrong           = "❌ Wrong!"
)

// HandleQuizCommand opens a lobby for the sender in chatID.
func (h *HandlerManager) HandleQuizCommand(ctx context.Context, chatID, userID int64, bot BotInterface) {
	key := h.QuizSvc.SessionFor(chatID, userID)

	_, err := h.QuizSvc.StartQuiz(ctx, quiz.StartEvent{Session: key, PlayerID: userID})
	if err == nil {
		return
	}

	if errors.CodeOf(err) == errors.ErrCodeAlreadyActive {
		bot.SendMessage(chatID, msgQuizAlreadyRunning, nil)
		return
	}
	logger.Error("Failed to start quiz", "error", err, "chat_id", chatID, "player_id", userID)
	bot.SendMessage(chatID, msgSomethingWrong, nil)
}

// HandleScoreCommand shows the standings of the game the sender plays in
// chatID, or of any game they play when sent from their private chat.
func (h *HandlerManager) HandleScoreCommand(ctx context.Context, chatID, userID int64, bot BotInterface) {
	text, err := h.QuizSvc.StandingsFor(ctx, chatID, userID)
	if err != nil {
		bot.SendMessage(chatID, msgNoQuizRunning, nil)
		return
	}
	bot.SendMessage(chatID, text, nil)
}

// HandleJoin adds the presser to the lobby and refreshes the roster on the
// lobby message they pressed.
func (h *HandlerManager) HandleJoin(ctx context.Context, queryID string, messageChatID int64, messageID int, ev quiz.JoinEvent, bot BotInterface) {
	added, err := h.QuizSvc.Join(ctx, ev)
	if err != nil {
		bot.AnswerCallbackQuery(queryID, ackFor(err), false)
		return
	}
	if !added {
		bot.AnswerCallbackQuery(queryID, ackAlreadyJoined, false)
		return
	}

	bot.AnswerCallbackQuery(queryID, ackJoined, false)
	if messageID == 0 {
		return
	}
	// Joins on other workers may have landed since ours; render the roster
	// as it is now rather than the one returned by Join.
	if text, ok := h.QuizSvc.LobbyText(ctx, ev.Session); ok {
		bot.EditMessage(messageChatID, messageID, text, bot.GetJoinKeyboard(ev.Session))
	}
}

// HandleAnswer submits a pressed option. The result goes back as a callback
// alert; round notices are broadcast by the service.
func (h *HandlerManager) HandleAnswer(ctx context.Context, queryID string, ev quiz.AnswerEvent, bot BotInterface) {
	ans, err := h.QuizSvc.SubmitAnswer(ctx, ev)
	if err != nil {
		bot.AnswerCallbackQuery(queryID, ackFor(err), false)
		return
	}

	if ans.Correct {
		bot.AnswerCallbackQuery(queryID, ackCorrect, true)
		return
	}
	bot.AnswerCallbackQuery(queryID, ackWrong, true)
}

// ackFor maps an engine rejection to the text shown on the pressed button.
// Malformed presses get an empty ack.
func ackFor(err error) string {
	switch errors.CodeOf(err) {
	case errors.ErrCodeLobbyClosed:
		return ackLobbyClosed
	case errors.ErrCodeNotEligible:
		return ackNotPlaying
	case errors.ErrCodeStaleRound:
		return ackTooLate
	case errors.ErrCodeAlreadyAnswered:
		return ackAlreadyAnswered
	case errors.ErrCodeInvalidOption, errors.ErrCodeValidation:
		return ""
	default:
		logger.Error("Unexpected quiz error", "error", err)
		return msgSomethingWrong
	}
}
