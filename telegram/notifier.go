package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mroshb/trivia_bot/internal/quiz"
)

// Broadcast sends msg with the keyboard its kind calls for.
func (b *Bot) Broadcast(ctx context.Context, msg quiz.Broadcast) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var keyboard interface{}
	switch msg.Kind {
	case quiz.KindLobby:
		keyboard = JoinKeyboard(msg.Session)
	case quiz.KindQuestion:
		keyboard = AnswerKeyboard(msg.Session, msg.Round, msg.Options)
	}

	_, err := b.sendMessage(msg.ChatID, msg.Text, keyboard)
	return err
}

// DisplayName resolves a member of chatID as @username, falling back to the
// full name.
func (b *Bot) DisplayName(ctx context.Context, chatID, playerID int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	member, err := b.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{ChatID: chatID, UserID: playerID},
	})
	if err != nil {
		return "", err
	}
	return userDisplayName(member.User), nil
}

func userDisplayName(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	if u.UserName != "" {
		return "@" + u.UserName
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
