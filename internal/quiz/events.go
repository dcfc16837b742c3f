package quiz

import (
	"fmt"
	"time"

	"github.com/mroshb/trivia_bot/pkg/errors"
)

// StartEvent asks for a new lobby in a session.
type StartEvent struct {
	Session  SessionKey
	PlayerID int64
}

// JoinEvent asks to add a player to a lobby.
type JoinEvent struct {
	Session  SessionKey
	PlayerID int64
}

func (e JoinEvent) Validate() error {
	if e.PlayerID == 0 {
		return errors.New(errors.ErrCodeValidation, "missing player")
	}
	if e.Session.ChatID == 0 {
		return errors.New(errors.ErrCodeValidation, "missing chat")
	}
	return nil
}

// AnswerEvent is a player's selection for a specific round.
type AnswerEvent struct {
	Session  SessionKey
	PlayerID int64
	Round    int
	Option   int
}

func (e AnswerEvent) Validate() error {
	if e.PlayerID == 0 {
		return errors.New(errors.ErrCodeValidation, "missing player")
	}
	if e.Round < 0 {
		return errors.New(errors.ErrCodeValidation, fmt.Sprintf("negative round %d", e.Round))
	}
	if e.Option < 0 {
		return errors.New(errors.ErrCodeValidation, fmt.Sprintf("negative option %d", e.Option))
	}
	return nil
}

// BroadcastKind tells the transport which controls to attach.
type BroadcastKind int

const (
	KindNotice BroadcastKind = iota
	// KindLobby carries a join control for Session.
	KindLobby
	// KindQuestion carries one selectable control per option, each bound to Round.
	KindQuestion
)

// Broadcast is an outgoing prompt or notice addressed to one chat.
type Broadcast struct {
	Session SessionKey
	ChatID  int64
	Text    string
	Kind    BroadcastKind
	Round   int
	Options []string
}

// Clock schedules the lobby close and round deadlines.
type Clock interface {
	AfterFunc(d time.Duration, f func())
}

// RealClock runs callbacks on time.AfterFunc goroutines.
type RealClock struct{}

func (RealClock) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}
