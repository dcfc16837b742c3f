package quiz

import "fmt"

// SessionKey scopes one game. OwnerID is zero for chat-wide games and carries
// the initiating player in private-delivery mode.
type SessionKey struct {
	ChatID  int64
	OwnerID int64
}

func (k SessionKey) String() string {
	return fmt.Sprintf("%d:%d", k.ChatID, k.OwnerID)
}

// Phase is the lifecycle position of a game.
type Phase int

const (
	PhaseLobby Phase = iota
	PhaseActive
	PhaseAwaitingAnswer
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhaseActive:
		return "active"
	case PhaseAwaitingAnswer:
		return "awaiting_answer"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// AnswerMode decides when a round closes.
type AnswerMode int

const (
	// FirstAnswerWins closes the round on the first eligible answer, right or wrong.
	FirstAnswerWins AnswerMode = iota
	// AllMustAnswer closes the round once every player answered.
	AllMustAnswer
)

func (m AnswerMode) String() string {
	if m == AllMustAnswer {
		return "all"
	}
	return "first"
}

// Outcome is how a round was resolved. Each round resolves exactly once.
type Outcome int

const (
	OutcomeCorrect Outcome = iota
	OutcomeIncorrect
	OutcomeTimeout
	OutcomeAllAnswered
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCorrect:
		return "correct"
	case OutcomeIncorrect:
		return "incorrect"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeAllAnswered:
		return "all_answered"
	default:
		return "unknown"
	}
}
