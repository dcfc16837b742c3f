package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mroshb/trivia_bot/internal/quiz"
	"github.com/mroshb/trivia_bot/pkg/errors"
)

// Callback data prefixes. Telegram caps callback data at 64 bytes, so the
// payload carries ids only.
const (
	callbackJoin   = "j"
	callbackAnswer = "a"
)

func joinCallbackData(key quiz.SessionKey) string {
	return fmt.Sprintf("%s:%d:%d", callbackJoin, key.ChatID, key.OwnerID)
}

func answerCallbackData(key quiz.SessionKey, round, option int) string {
	return fmt.Sprintf("%s:%d:%d:%d:%d", callbackAnswer, key.ChatID, key.OwnerID, round, option)
}

// parseCallback decodes button data pressed by playerID into a quiz.JoinEvent
// or a quiz.AnswerEvent. Anything else is a validation error.
func parseCallback(data string, playerID int64) (interface{}, error) {
	parts := strings.Split(data, ":")
	switch {
	case len(parts) == 3 && parts[0] == callbackJoin:
		key, err := parseSessionKey(parts[1], parts[2])
		if err != nil {
			return nil, err
		}
		ev := quiz.JoinEvent{Session: key, PlayerID: playerID}
		if err := ev.Validate(); err != nil {
			return nil, err
		}
		return ev, nil

	case len(parts) == 5 && parts[0] == callbackAnswer:
		key, err := parseSessionKey(parts[1], parts[2])
		if err != nil {
			return nil, err
		}
		round, err := strconv.Atoi(parts[3])
		if err != nil {
			return nil, malformed(data)
		}
		option, err := strconv.Atoi(parts[4])
		if err != nil {
			return nil, malformed(data)
		}
		ev := quiz.AnswerEvent{Session: key, PlayerID: playerID, Round: round, Option: option}
		if err := ev.Validate(); err != nil {
			return nil, err
		}
		return ev, nil
	}
	return nil, malformed(data)
}

func parseSessionKey(chat, owner string) (quiz.SessionKey, error) {
	chatID, err := strconv.ParseInt(chat, 10, 64)
	if err != nil || chatID == 0 {
		return quiz.SessionKey{}, errors.New(errors.ErrCodeValidation, "invalid chat id "+strconv.Quote(chat))
	}
	ownerID, err := strconv.ParseInt(owner, 10, 64)
	if err != nil || ownerID < 0 {
		return quiz.SessionKey{}, errors.New(errors.ErrCodeValidation, "invalid owner id "+strconv.Quote(owner))
	}
	return quiz.SessionKey{ChatID: chatID, OwnerID: ownerID}, nil
}

func malformed(data string) error {
	return errors.New(errors.ErrCodeValidation, "malformed callback data "+strconv.Quote(data))
}
