package quiz

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mroshb/trivia_bot/pkg/errors"
)

// Round is the question currently in play.
type Round struct {
	Cursor int
	Total  int
	Entry  Entry
}

// Resolution describes how a round closed. Correct lists the players who
// picked the right option, in join order.
type Resolution struct {
	Round    int
	Entry    Entry
	Outcome  Outcome
	Correct  []int64
	Answered int
	Players  int
}

// Answer is the result of an accepted submission. Resolution is nil while an
// all-must-answer round is still waiting for other players.
type Answer struct {
	PlayerID   int64
	Round      int
	Option     int
	Correct    bool
	Score      int
	Resolution *Resolution
}

// Game is one quiz session. Every field below mu is guarded by it; methods
// never perform I/O while holding it.
type Game struct {
	ID        string
	Key       SessionKey
	Mode      AnswerMode
	CreatedAt time.Time

	bank  *Bank
	order []int

	mu           sync.Mutex
	players      []int64
	scores       map[int64]int
	cursor       int
	phase        Phase
	answered     bool
	roundAnswers map[int64]int
	names        map[int64]string
}

// NewGame creates a game in the lobby phase. order must hold valid, distinct
// indices into bank.
func NewGame(key SessionKey, bank *Bank, order []int, mode AnswerMode) *Game {
	return &Game{
		ID:           uuid.NewString(),
		Key:          key,
		Mode:         mode,
		CreatedAt:    time.Now(),
		bank:         bank,
		order:        append([]int(nil), order...),
		scores:       make(map[int64]int),
		cursor:       -1,
		phase:        PhaseLobby,
		roundAnswers: make(map[int64]int),
		names:        make(map[int64]string),
	}
}

// TotalRounds is the fixed length of the question order.
func (g *Game) TotalRounds() int {
	return len(g.order)
}

// HasPlayer reports whether playerID is on the roster.
func (g *Game) HasPlayer(playerID int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.scores[playerID]
	return ok
}

// SetName caches a rendered display name for a rostered player.
func (g *Game) SetName(playerID int64, name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.scores[playerID]; ok {
		g.names[playerID] = name
	}
}

func (g *Game) Name(playerID int64) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	name, ok := g.names[playerID]
	return name, ok
}

// Join adds a player during the lobby. Re-joining reports added=false.
func (g *Game) Join(playerID int64) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseLobby {
		return false, errors.New(errors.ErrCodeLobbyClosed, fmt.Sprintf("game is %s", g.phase))
	}
	if _, ok := g.scores[playerID]; ok {
		return false, nil
	}
	g.players = append(g.players, playerID)
	g.scores[playerID] = 0
	return true, nil
}

// CloseLobby ends the join window. With no players the game finishes and
// started is false; otherwise it becomes active.
func (g *Game) CloseLobby() (started bool, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseLobby {
		return false, errors.New(errors.ErrCodeLobbyClosed, fmt.Sprintf("game is %s", g.phase))
	}
	if len(g.players) == 0 {
		g.phase = PhaseFinished
		return false, nil
	}
	g.phase = PhaseActive
	return true, nil
}

// Advance opens the round after from, or finishes the game when from was the
// last one. from must equal the live cursor and that round must be resolved,
// so a duplicate call for the same round is rejected instead of skipping one.
func (g *Game) Advance(from int) (*Round, *Results, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase == PhaseLobby || g.phase == PhaseFinished {
		return nil, nil, errors.New(errors.ErrCodeNotEligible, fmt.Sprintf("cannot advance a game in %s", g.phase))
	}
	if from != g.cursor {
		return nil, nil, errors.New(errors.ErrCodeStaleRound, fmt.Sprintf("advance from %d, cursor is %d", from, g.cursor))
	}
	if g.cursor >= 0 && !g.answered {
		return nil, nil, errors.New(errors.ErrCodeNotEligible, fmt.Sprintf("round %d is still open", g.cursor))
	}

	if g.cursor+1 == len(g.order) {
		g.phase = PhaseFinished
		results := g.resultsLocked()
		return nil, &results, nil
	}

	g.cursor++
	g.answered = false
	g.roundAnswers = make(map[int64]int)
	g.phase = PhaseAwaitingAnswer

	return &Round{
		Cursor: g.cursor,
		Total:  len(g.order),
		Entry:  g.bank.Entry(g.order[g.cursor]),
	}, nil, nil
}

// Submit records an answer for round. Checking and scoring happen under one
// lock, so a concurrent Expire for the same round can never also succeed.
func (g *Game) Submit(playerID int64, round, option int) (Answer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase == PhaseFinished {
		return Answer{}, errors.New(errors.ErrCodeNotEligible, "game is over")
	}
	if _, ok := g.scores[playerID]; !ok {
		return Answer{}, errors.New(errors.ErrCodeNotEligible, "not a player of this game")
	}
	if round != g.cursor {
		return Answer{}, errors.New(errors.ErrCodeStaleRound, fmt.Sprintf("round %d, cursor is %d", round, g.cursor))
	}
	if g.answered {
		return Answer{}, errors.New(errors.ErrCodeAlreadyAnswered, fmt.Sprintf("round %d already resolved", round))
	}
	if g.phase != PhaseAwaitingAnswer {
		return Answer{}, errors.New(errors.ErrCodeNotEligible, fmt.Sprintf("game is %s", g.phase))
	}
	if _, ok := g.roundAnswers[playerID]; ok {
		return Answer{}, errors.New(errors.ErrCodeAlreadyAnswered, fmt.Sprintf("player already answered round %d", round))
	}

	entry := g.bank.Entry(g.order[g.cursor])
	if option < 0 || option >= len(entry.Options) {
		return Answer{}, errors.New(errors.ErrCodeInvalidOption, fmt.Sprintf("option %d out of range [0,%d)", option, len(entry.Options)))
	}

	correct := option == entry.CorrectIndex
	if correct {
		g.scores[playerID]++
	}
	g.roundAnswers[playerID] = option

	ans := Answer{
		PlayerID: playerID,
		Round:    round,
		Option:   option,
		Correct:  correct,
		Score:    g.scores[playerID],
	}

	switch g.Mode {
	case AllMustAnswer:
		if len(g.roundAnswers) == len(g.players) {
			ans.Resolution = g.resolveLocked(OutcomeAllAnswered)
		}
	default:
		outcome := OutcomeIncorrect
		if correct {
			outcome = OutcomeCorrect
		}
		ans.Resolution = g.resolveLocked(outcome)
	}

	return ans, nil
}

// Expire resolves round as timed out. It reports false when the round was
// already resolved, the cursor moved on, or the game is over.
func (g *Game) Expire(round int) (*Resolution, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseAwaitingAnswer || g.cursor != round || g.answered {
		return nil, false
	}
	return g.resolveLocked(OutcomeTimeout), true
}

func (g *Game) resolveLocked(outcome Outcome) *Resolution {
	g.answered = true
	g.phase = PhaseActive

	entry := g.bank.Entry(g.order[g.cursor])
	res := &Resolution{
		Round:    g.cursor,
		Entry:    entry,
		Outcome:  outcome,
		Answered: len(g.roundAnswers),
		Players:  len(g.players),
	}
	for _, p := range g.players {
		if opt, ok := g.roundAnswers[p]; ok && opt == entry.CorrectIndex {
			res.Correct = append(res.Correct, p)
		}
	}
	return res
}

// Finish forces the game into its terminal phase. It reports false if the
// game had already finished.
func (g *Game) Finish() (Results, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase == PhaseFinished {
		return Results{}, false
	}
	g.phase = PhaseFinished
	return g.resultsLocked(), true
}

// Snapshot is a consistent read-only copy of a game's state.
type Snapshot struct {
	Phase     Phase
	Cursor    int
	Total     int
	Answered  bool
	Players   []int64
	Standings []Standing
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	return Snapshot{
		Phase:     g.phase,
		Cursor:    g.cursor,
		Total:     len(g.order),
		Answered:  g.answered,
		Players:   append([]int64(nil), g.players...),
		Standings: rankStandings(g.players, g.scores),
	}
}

func (g *Game) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

func (g *Game) resultsLocked() Results {
	return newResults(g.players, g.scores, g.cursor+1)
}
