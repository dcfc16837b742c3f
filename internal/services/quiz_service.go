package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/mroshb/trivia_bot/internal/config"
	"github.com/mroshb/trivia_bot/internal/metrics"
	"github.com/mroshb/trivia_bot/internal/quiz"
	"github.com/mroshb/trivia_bot/internal/security"
	"github.com/mroshb/trivia_bot/pkg/errors"
	"github.com/mroshb/trivia_bot/pkg/logger"
)

// Notifier delivers broadcasts to the chat platform and resolves names.
type Notifier interface {
	Broadcast(ctx context.Context, msg quiz.Broadcast) error
	DisplayName(ctx context.Context, chatID, playerID int64) (string, error)
}

type QuizSettings struct {
	LobbyWindow     time.Duration
	QuestionTimeout time.Duration
	RoundCount      int
	AnswerMode      quiz.AnswerMode
	Delivery        string
	// Seed fixes the question sampling when non-zero.
	Seed uint64
}

func NewQuizSettings(cfg *config.Config) QuizSettings {
	mode := quiz.FirstAnswerWins
	if cfg.AnswerMode == config.AnswerModeAll {
		mode = quiz.AllMustAnswer
	}
	return QuizSettings{
		LobbyWindow:     cfg.GetLobbyWindow(),
		QuestionTimeout: cfg.GetQuestionTimeout(),
		RoundCount:      cfg.RoundCount,
		AnswerMode:      mode,
		Delivery:        cfg.DeliveryMode,
	}
}

// QuizService drives games: it opens lobbies, schedules rounds and deadlines,
// and turns state changes into broadcasts. Game state lives in quiz.Game; the
// service never sends while holding a game lock.
type QuizService struct {
	settings QuizSettings
	bank     *quiz.Bank
	registry *quiz.Registry
	notifier Notifier
	clock    quiz.Clock
	metrics  *metrics.Metrics

	rngMu sync.Mutex
	rng   *rand.Rand

	// ctx bounds timer-driven work and is cancelled by Shutdown.
	ctx    context.Context
	cancel context.CancelFunc
}

func NewQuizService(settings QuizSettings, bank *quiz.Bank, registry *quiz.Registry, notifier Notifier, clock quiz.Clock, m *metrics.Metrics) *QuizService {
	seed := settings.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &QuizService{
		settings: settings,
		bank:     bank,
		registry: registry,
		notifier: notifier,
		clock:    clock,
		metrics:  m,
		rng:      rand.New(rand.NewPCG(seed, seed>>1|1)),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// SessionFor returns the session key a start request in chatID opens.
func (s *QuizService) SessionFor(chatID, playerID int64) quiz.SessionKey {
	if s.settings.Delivery == config.DeliveryPrivate {
		return quiz.SessionKey{ChatID: chatID, OwnerID: playerID}
	}
	return quiz.SessionKey{ChatID: chatID}
}

// StartQuiz opens a lobby and schedules its close. The initiator is not
// joined automatically.
func (s *QuizService) StartQuiz(ctx context.Context, ev quiz.StartEvent) (*quiz.Game, error) {
	if s.ctx.Err() != nil {
		return nil, errors.New(errors.ErrCodeInternalError, "quiz service is shutting down")
	}
	game, err := s.registry.Create(ctx, ev.Session, func() (*quiz.Game, error) {
		order, err := s.sample()
		if err != nil {
			return nil, err
		}
		return quiz.NewGame(ev.Session, s.bank, order, s.settings.AnswerMode), nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.GamesStarted.Inc()
	s.syncActiveGames()
	logger.Info("Quiz lobby opened",
		"game_id", game.ID,
		"chat_id", ev.Session.ChatID,
		"player_id", ev.PlayerID,
		"rounds", game.TotalRounds(),
		"mode", game.Mode.String(),
	)

	s.send(quiz.Broadcast{
		Session: game.Key,
		ChatID:  game.Key.ChatID,
		Kind:    quiz.KindLobby,
		Text:    lobbyText(s.lobbySeconds(), nil),
	})

	s.clock.AfterFunc(s.settings.LobbyWindow, func() {
		s.closeLobby(game)
	})
	return game, nil
}

// Join adds a player to the lobby of ev.Session and caches their name for
// later lobby, round and result messages.
// It reports false when the player was already in.
func (s *QuizService) Join(ctx context.Context, ev quiz.JoinEvent) (bool, error) {
	if err := ev.Validate(); err != nil {
		return false, err
	}

	game := s.registry.Get(ev.Session)
	if game == nil {
		return false, errors.New(errors.ErrCodeLobbyClosed, "no lobby for session "+ev.Session.String())
	}

	added, err := game.Join(ev.PlayerID)
	if err != nil {
		return false, err
	}
	if added {
		s.displayName(ctx, game, ev.PlayerID)
		logger.Debug("Player joined", "game_id", game.ID, "chat_id", ev.Session.ChatID, "player_id", ev.PlayerID)
	}
	return added, nil
}

// LobbyText renders the lobby message with the roster as it is now. It
// reports false once the lobby has closed.
func (s *QuizService) LobbyText(ctx context.Context, key quiz.SessionKey) (string, bool) {
	game := s.registry.Get(key)
	if game == nil {
		return "", false
	}
	snap := game.Snapshot()
	if snap.Phase != quiz.PhaseLobby {
		return "", false
	}

	names := make([]string, len(snap.Players))
	for i, p := range snap.Players {
		names[i] = s.displayName(ctx, game, p)
	}
	return lobbyText(s.lobbySeconds(), names), true
}

// SubmitAnswer scores an answer and, when it resolves the round, announces
// the outcome and moves to the next question without waiting for the deadline.
func (s *QuizService) SubmitAnswer(ctx context.Context, ev quiz.AnswerEvent) (quiz.Answer, error) {
	if err := ev.Validate(); err != nil {
		s.rejected(err)
		return quiz.Answer{}, err
	}

	game := s.registry.Get(ev.Session)
	if game == nil {
		err := errors.New(errors.ErrCodeNotEligible, "no game for session "+ev.Session.String())
		s.rejected(err)
		return quiz.Answer{}, err
	}

	ans, err := game.Submit(ev.PlayerID, ev.Round, ev.Option)
	if err != nil {
		s.rejected(err)
		logger.Debug("Answer rejected",
			"game_id", game.ID,
			"player_id", ev.PlayerID,
			"round", ev.Round,
			"reason", errors.CodeOf(err),
		)
		return quiz.Answer{}, err
	}

	logger.Debug("Answer accepted",
		"game_id", game.ID,
		"player_id", ev.PlayerID,
		"round", ev.Round,
		"correct", ans.Correct,
	)

	if ans.Resolution != nil {
		s.announce(ctx, game, ans.Resolution, ev.PlayerID)
		s.advance(game, ans.Resolution.Round)
	}
	return ans, nil
}

// StandingsFor renders the standings a score request from playerID in chatID
// refers to. In private delivery the game is keyed by its initiator, so other
// players are matched through the roster, from the group or their own chat.
func (s *QuizService) StandingsFor(ctx context.Context, chatID, playerID int64) (string, error) {
	game := s.registry.Get(s.SessionFor(chatID, playerID))
	if game == nil && s.settings.Delivery == config.DeliveryPrivate {
		game = s.registry.FindByPlayer(chatID, playerID)
	}
	if game == nil {
		return "", errors.New(errors.ErrCodeNotFound, "no quiz is running")
	}
	return s.standings(ctx, game), nil
}

func (s *QuizService) standings(ctx context.Context, game *quiz.Game) string {
	snap := game.Snapshot()
	if snap.Phase == quiz.PhaseLobby {
		return fmt.Sprintf(msgStandingsLobby, len(snap.Players))
	}

	var b strings.Builder
	fmt.Fprintf(&b, msgStandingsTitle, snap.Cursor+1, snap.Total)
	standingLines(&b, snap.Standings, s.namesFor(ctx, game, snap.Players))
	return strings.TrimRight(b.String(), "\n")
}

// Shutdown finishes every live game without announcing results and stops
// timer-driven work. Pending timers find their game finished and do nothing.
func (s *QuizService) Shutdown(ctx context.Context) {
	games := s.registry.All()
	for _, game := range games {
		if _, ok := game.Finish(); ok {
			logger.Info("Quiz stopped by shutdown", "game_id", game.ID, "chat_id", game.Key.ChatID, "age", time.Since(game.CreatedAt))
		}
		s.registry.Remove(ctx, game)
	}
	s.syncActiveGames()
	s.cancel()
	logger.Info("Quiz service stopped", "games", len(games))
}

func (s *QuizService) closeLobby(game *quiz.Game) {
	started, err := game.CloseLobby()
	if err != nil {
		logger.Debug("Lobby already closed", "game_id", game.ID, "error", err)
		return
	}

	if !started {
		s.registry.Remove(s.ctx, game)
		s.metrics.GamesCancelled.Inc()
		s.syncActiveGames()
		logger.Info("Quiz cancelled, nobody joined", "game_id", game.ID, "chat_id", game.Key.ChatID)
		s.notice(game.Key, game.Key.ChatID, msgLobbyCancelled)
		return
	}

	snap := game.Snapshot()
	logger.Info("Quiz started", "game_id", game.ID, "chat_id", game.Key.ChatID, "players", len(snap.Players))
	s.notice(game.Key, game.Key.ChatID, fmt.Sprintf(msgQuizStarting, snap.Total))
	s.advance(game, -1)
}

// advance opens the round after from. A duplicate call for the same round is
// refused by the game, so racing callers broadcast each question once.
func (s *QuizService) advance(game *quiz.Game, from int) {
	round, results, err := game.Advance(from)
	if err != nil {
		logger.Debug("Advance skipped", "game_id", game.ID, "from", from, "reason", errors.CodeOf(err))
		return
	}
	if results != nil {
		s.finalize(game, *results)
		return
	}

	text := questionText(round)
	for _, chatID := range s.roundTargets(game) {
		s.send(quiz.Broadcast{
			Session: game.Key,
			ChatID:  chatID,
			Kind:    quiz.KindQuestion,
			Text:    text,
			Round:   round.Cursor,
			Options: round.Entry.Options,
		})
	}

	cursor := round.Cursor
	s.clock.AfterFunc(s.settings.QuestionTimeout, func() {
		s.onDeadline(game, cursor)
	})
}

func (s *QuizService) onDeadline(game *quiz.Game, cursor int) {
	res, ok := game.Expire(cursor)
	if !ok {
		return
	}
	logger.Debug("Round expired", "game_id", game.ID, "round", cursor)
	s.announce(s.ctx, game, res, 0)
	s.advance(game, cursor)
}

// announce records a resolved round and tells the players how it ended.
// answeredBy is the player whose answer resolved a first-answer-wins round.
func (s *QuizService) announce(ctx context.Context, game *quiz.Game, res *quiz.Resolution, answeredBy int64) {
	s.metrics.Rounds.WithLabelValues(res.Outcome.String()).Inc()

	var text string
	switch res.Outcome {
	case quiz.OutcomeCorrect:
		text = fmt.Sprintf(msgCorrect, s.displayName(ctx, game, answeredBy))
	case quiz.OutcomeIncorrect:
		text = fmt.Sprintf(msgIncorrect, s.displayName(ctx, game, answeredBy))
	case quiz.OutcomeTimeout:
		if game.Mode == quiz.FirstAnswerWins || res.Answered == 0 {
			text = msgTimeUpNobody
		} else {
			text = msgTimeUp + s.summary(ctx, game, res)
		}
	case quiz.OutcomeAllAnswered:
		text = msgAllAnswered + s.summary(ctx, game, res)
	}

	for _, chatID := range s.roundTargets(game) {
		s.notice(game.Key, chatID, text)
	}
}

func (s *QuizService) summary(ctx context.Context, game *quiz.Game, res *quiz.Resolution) string {
	text := fmt.Sprintf(msgCorrectAnswer, security.SanitizeHTML(res.Entry.CorrectOption()))
	if len(res.Correct) == 0 {
		return text + msgNobodyScored
	}
	names := make([]string, len(res.Correct))
	for i, p := range res.Correct {
		names[i] = s.displayName(ctx, game, p)
	}
	return text + fmt.Sprintf(msgScored, strings.Join(names, ", "))
}

func (s *QuizService) finalize(game *quiz.Game, results quiz.Results) {
	s.registry.Remove(s.ctx, game)
	s.metrics.GamesFinished.Inc()
	s.syncActiveGames()

	logger.Info("Quiz finished",
		"game_id", game.ID,
		"chat_id", game.Key.ChatID,
		"rounds", results.Played,
		"top_score", results.TopScore,
		"winners", len(results.Winners),
		"duration", time.Since(game.CreatedAt),
	)

	players := make([]int64, len(results.Standings))
	for i, st := range results.Standings {
		players[i] = st.PlayerID
	}
	names := s.namesFor(s.ctx, game, players)

	var b strings.Builder
	b.WriteString(msgQuizFinished)
	if results.TopScore == 0 {
		b.WriteString(msgNoWinners)
	} else {
		b.WriteString(msgWinners)
		for _, w := range results.Winners {
			fmt.Fprintf(&b, "- %s: %s\n", names[w.PlayerID], pointsLabel(w.Score))
		}
	}
	b.WriteString("\n")
	b.WriteString(msgStandings)
	standingLines(&b, results.Standings, names)

	s.notice(game.Key, game.Key.ChatID, strings.TrimRight(b.String(), "\n"))
}

// roundTargets lists the chats that receive questions and round notices.
func (s *QuizService) roundTargets(game *quiz.Game) []int64 {
	if s.settings.Delivery != config.DeliveryPrivate {
		return []int64{game.Key.ChatID}
	}
	return game.Snapshot().Players
}

func (s *QuizService) sample() ([]int, error) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.bank.Sample(s.settings.RoundCount, s.rng)
}

// displayName returns the escaped name of a player, looking it up on the
// platform only the first time per game. Failed lookups are not cached.
func (s *QuizService) displayName(ctx context.Context, game *quiz.Game, playerID int64) string {
	if name, ok := game.Name(playerID); ok {
		return name
	}

	chatID := game.Key.ChatID
	name, err := s.notifier.DisplayName(ctx, chatID, playerID)
	if err != nil || name == "" {
		if err != nil {
			logger.Debug("Display name lookup failed", "chat_id", chatID, "player_id", playerID, "error", err)
		}
		return unknownPlayer
	}
	name = security.SanitizeDisplayName(name)
	game.SetName(playerID, name)
	return name
}

func (s *QuizService) namesFor(ctx context.Context, game *quiz.Game, players []int64) map[int64]string {
	names := make(map[int64]string, len(players))
	for _, p := range players {
		names[p] = s.displayName(ctx, game, p)
	}
	return names
}

func (s *QuizService) notice(key quiz.SessionKey, chatID int64, text string) {
	s.send(quiz.Broadcast{Session: key, ChatID: chatID, Kind: quiz.KindNotice, Text: text})
}

// send delivers msg on the service context. Failures are logged only; a lost
// message never blocks the game.
func (s *QuizService) send(msg quiz.Broadcast) {
	if err := s.notifier.Broadcast(s.ctx, msg); err != nil {
		logger.Warn("Broadcast failed", "chat_id", msg.ChatID, "session", msg.Session.String(), "error", err)
	}
}

func (s *QuizService) rejected(err error) {
	code := errors.CodeOf(err)
	if code == "" {
		code = errors.ErrCodeInternalError
	}
	s.metrics.AnswersRejected.WithLabelValues(code).Inc()
}

func (s *QuizService) syncActiveGames() {
	s.metrics.ActiveGames.Set(float64(s.registry.Len()))
}

func (s *QuizService) lobbySeconds() int {
	return int(s.settings.LobbyWindow / time.Second)
}
