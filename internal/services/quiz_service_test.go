package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mroshb/trivia_bot/internal/config"
	"github.com/mroshb/trivia_bot/internal/metrics"
	"github.com/mroshb/trivia_bot/internal/quiz"
	"github.com/mroshb/trivia_bot/pkg/errors"
)

const (
	groupChat = int64(-100777)
	right     = 0
	wrong     = 1
)

type fakeTimer struct {
	d     time.Duration
	f     func()
	fired bool
}

// fakeClock records scheduled callbacks; tests fire them explicitly.
type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timers = append(c.timers, &fakeTimer{d: d, f: f})
}

func (c *fakeClock) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// fire runs timer i once, outside the clock lock.
func (c *fakeClock) fire(t *testing.T, i int) {
	t.Helper()
	c.mu.Lock()
	require.Less(t, i, len(c.timers))
	timer := c.timers[i]
	timer.fired = true
	c.mu.Unlock()
	timer.f()
}

func (c *fakeClock) fireLast(t *testing.T) {
	t.Helper()
	c.fire(t, c.count()-1)
}

type fakeNotifier struct {
	mu      sync.Mutex
	sent    []quiz.Broadcast
	names   map[int64]string
	lookups int
	failOn quiz.BroadcastKind
	fail   bool
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{names: map[int64]string{1: "@alice", 2: "@bob", 3: "Carol <3"}}
}

func (n *fakeNotifier) Broadcast(_ context.Context, msg quiz.Broadcast) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail && msg.Kind == n.failOn {
		return fmt.Errorf("send failed")
	}
	n.sent = append(n.sent, msg)
	return nil
}

func (n *fakeNotifier) DisplayName(_ context.Context, _, playerID int64) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lookups++
	name, ok := n.names[playerID]
	if !ok {
		return "", fmt.Errorf("member %d not found", playerID)
	}
	return name, nil
}

func (n *fakeNotifier) all() []quiz.Broadcast {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]quiz.Broadcast(nil), n.sent...)
}

func (n *fakeNotifier) ofKind(kind quiz.BroadcastKind) []quiz.Broadcast {
	var out []quiz.Broadcast
	for _, b := range n.all() {
		if b.Kind == kind {
			out = append(out, b)
		}
	}
	return out
}

func (n *fakeNotifier) containing(text string) []quiz.Broadcast {
	var out []quiz.Broadcast
	for _, b := range n.all() {
		if strings.Contains(b.Text, text) {
			out = append(out, b)
		}
	}
	return out
}

// serviceBank has size entries; option 0 is always right.
func serviceBank(t *testing.T, size int) *quiz.Bank {
	t.Helper()
	entries := make([]quiz.Entry, size)
	for i := range entries {
		entries[i] = quiz.Entry{
			Prompt:       fmt.Sprintf("Question %d?", i),
			Options:      []string{"right", "wrong", "also wrong"},
			CorrectIndex: 0,
		}
	}
	bank, err := quiz.NewBank(entries)
	require.NoError(t, err)
	return bank
}

type harness struct {
	svc      *QuizService
	clock    *fakeClock
	notifier *fakeNotifier
	registry *quiz.Registry
	metrics  *metrics.Metrics
}

func newHarness(t *testing.T, rounds int, mode quiz.AnswerMode, delivery string) *harness {
	t.Helper()
	h := &harness{
		clock:    &fakeClock{},
		notifier: newFakeNotifier(),
		registry: quiz.NewRegistry(nil),
		metrics:  metrics.New(prometheus.NewRegistry()),
	}
	h.svc = NewQuizService(QuizSettings{
		LobbyWindow:     30 * time.Second,
		QuestionTimeout: 15 * time.Second,
		RoundCount:      rounds,
		AnswerMode:      mode,
		Delivery:        delivery,
		Seed:            42,
	}, serviceBank(t, rounds+2), h.registry, h.notifier, h.clock, h.metrics)
	return h
}

// start opens a lobby, joins players and closes it.
func (h *harness) start(t *testing.T, players ...int64) *quiz.Game {
	t.Helper()
	ctx := context.Background()
	key := h.svc.SessionFor(groupChat, 1)
	game, err := h.svc.StartQuiz(ctx, quiz.StartEvent{Session: key, PlayerID: 1})
	require.NoError(t, err)
	for _, p := range players {
		_, err := h.svc.Join(ctx, quiz.JoinEvent{Session: key, PlayerID: p})
		require.NoError(t, err)
	}
	h.clock.fire(t, 0)
	return game
}

func (h *harness) answer(player int64, round, option int) (quiz.Answer, error) {
	return h.svc.SubmitAnswer(context.Background(), quiz.AnswerEvent{
		Session:  h.svc.SessionFor(groupChat, 1),
		PlayerID: player,
		Round:    round,
		Option:   option,
	})
}

func TestQuizService_EmptyLobbyCancels(t *testing.T) {
	h := newHarness(t, 3, quiz.FirstAnswerWins, config.DeliveryGroup)
	ctx := context.Background()
	key := h.svc.SessionFor(groupChat, 1)

	_, err := h.svc.StartQuiz(ctx, quiz.StartEvent{Session: key, PlayerID: 1})
	require.NoError(t, err)
	require.Len(t, h.notifier.ofKind(quiz.KindLobby), 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.ActiveGames))

	h.clock.fire(t, 0)

	assert.Nil(t, h.registry.Get(key))
	assert.Len(t, h.notifier.containing("Nobody joined"), 1)
	assert.Empty(t, h.notifier.ofKind(quiz.KindQuestion))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.GamesCancelled))
	assert.Equal(t, 0.0, testutil.ToFloat64(h.metrics.ActiveGames))

	_, err = h.svc.StartQuiz(ctx, quiz.StartEvent{Session: key, PlayerID: 1})
	assert.NoError(t, err, "a cancelled lobby must not block a new start")
}

func TestQuizService_StartWhileActive(t *testing.T) {
	h := newHarness(t, 3, quiz.FirstAnswerWins, config.DeliveryGroup)
	ctx := context.Background()
	key := h.svc.SessionFor(groupChat, 1)

	first, err := h.svc.StartQuiz(ctx, quiz.StartEvent{Session: key, PlayerID: 1})
	require.NoError(t, err)

	_, err = h.svc.StartQuiz(ctx, quiz.StartEvent{Session: key, PlayerID: 2})
	assert.True(t, stderrors.Is(err, errors.ErrAlreadyActive))
	assert.Same(t, first, h.registry.Get(key))
	assert.Equal(t, 1, h.clock.count(), "rejected start must not schedule a lobby close")
}

func TestQuizService_CorrectAnswerAdvancesImmediately(t *testing.T) {
	h := newHarness(t, 3, quiz.FirstAnswerWins, config.DeliveryGroup)
	game := h.start(t, 1)

	questions := h.notifier.ofKind(quiz.KindQuestion)
	require.Len(t, questions, 1)
	assert.Equal(t, 0, questions[0].Round)
	assert.Equal(t, []string{"right", "wrong", "also wrong"}, questions[0].Options)
	assert.Contains(t, questions[0].Text, "Question 1 of 3")
	assert.Len(t, h.notifier.containing("starting! 3 questions"), 1)

	ans, err := h.answer(1, 0, right)
	require.NoError(t, err)
	assert.True(t, ans.Correct)
	assert.Equal(t, 1, ans.Score)
	require.NotNil(t, ans.Resolution)
	assert.Equal(t, quiz.OutcomeCorrect, ans.Resolution.Outcome)

	questions = h.notifier.ofKind(quiz.KindQuestion)
	require.Len(t, questions, 2, "next question goes out without waiting for the deadline")
	assert.Equal(t, 1, questions[1].Round)
	assert.Len(t, h.notifier.containing("@alice gets 1 point"), 1)

	snap := game.Snapshot()
	assert.Equal(t, 1, snap.Cursor)
	assert.Equal(t, 1, snap.Standings[0].Score)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Rounds.WithLabelValues("correct")))
}

func TestQuizService_DeadlineExpiresOnce(t *testing.T) {
	h := newHarness(t, 3, quiz.FirstAnswerWins, config.DeliveryGroup)
	game := h.start(t, 1)

	// timer 0 closed the lobby, timer 1 is the deadline of round 0
	require.Equal(t, 2, h.clock.count())
	h.clock.fire(t, 1)
	h.clock.fire(t, 1)

	assert.Len(t, h.notifier.containing("Time is up"), 1)
	questions := h.notifier.ofKind(quiz.KindQuestion)
	require.Len(t, questions, 2)
	assert.Equal(t, 1, questions[1].Round)
	assert.Equal(t, 0, game.Snapshot().Standings[0].Score)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Rounds.WithLabelValues("timeout")))
}

func TestQuizService_DeadlineAfterAnswerIsNoop(t *testing.T) {
	h := newHarness(t, 3, quiz.FirstAnswerWins, config.DeliveryGroup)
	h.start(t, 1)

	_, err := h.answer(1, 0, wrong)
	require.NoError(t, err)
	assert.Len(t, h.notifier.containing("@alice got it wrong"), 1)

	// the stale deadline for round 0 must not end round 1
	h.clock.fire(t, 1)
	assert.Empty(t, h.notifier.containing("Time is up"))
	assert.Len(t, h.notifier.ofKind(quiz.KindQuestion), 2)

	_, err = h.answer(1, 1, right)
	assert.NoError(t, err)
}

func TestQuizService_TiedWinners(t *testing.T) {
	h := newHarness(t, 3, quiz.AllMustAnswer, config.DeliveryGroup)
	h.start(t, 1, 2)
	key := h.svc.SessionFor(groupChat, 1)

	answers := [][2]int{{right, right}, {right, right}, {wrong, wrong}}
	for round, opts := range answers {
		_, err := h.answer(1, round, opts[0])
		require.NoError(t, err)
		_, err = h.answer(2, round, opts[1])
		require.NoError(t, err)
	}

	assert.Nil(t, h.registry.Get(key))
	finished := h.notifier.containing("The quiz is over")
	require.Len(t, finished, 1)
	text := finished[0].Text
	assert.Contains(t, text, "- @alice: 2 points\n- @bob: 2 points")
	assert.Less(t, strings.Index(text, "@alice"), strings.Index(text, "@bob"))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.GamesFinished))
	assert.Equal(t, 3.0, testutil.ToFloat64(h.metrics.Rounds.WithLabelValues("all_answered")))
}

func TestQuizService_StaleRoundRejected(t *testing.T) {
	h := newHarness(t, 8, quiz.FirstAnswerWins, config.DeliveryGroup)
	game := h.start(t, 1)

	for round := 0; round < 5; round++ {
		_, err := h.answer(1, round, wrong)
		require.NoError(t, err)
	}
	require.Equal(t, 5, game.Snapshot().Cursor)

	_, err := h.answer(1, 4, right)
	assert.True(t, stderrors.Is(err, errors.ErrStaleRound))
	assert.Equal(t, 0, game.Snapshot().Standings[0].Score)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.AnswersRejected.WithLabelValues(errors.ErrCodeStaleRound)))
}

func TestQuizService_Rejections(t *testing.T) {
	h := newHarness(t, 3, quiz.FirstAnswerWins, config.DeliveryGroup)

	_, err := h.answer(1, 0, right)
	assert.True(t, stderrors.Is(err, errors.ErrNotEligible), "no game")

	h.start(t, 1)

	tests := []struct {
		name   string
		player int64
		round  int
		option int
		want   error
	}{
		{"not a player", 9, 0, right, errors.ErrNotEligible},
		{"option out of range", 1, 0, 7, errors.ErrInvalidOption},
		{"future round", 1, 1, right, errors.ErrStaleRound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.answer(tt.player, tt.round, tt.option)
			assert.True(t, stderrors.Is(err, tt.want), "got %v", err)
		})
	}

	_, err = h.svc.SubmitAnswer(context.Background(), quiz.AnswerEvent{
		Session: h.svc.SessionFor(groupChat, 1), PlayerID: 1, Round: -1,
	})
	assert.Equal(t, errors.ErrCodeValidation, errors.CodeOf(err))
}

func TestQuizService_JoinAfterLobby(t *testing.T) {
	h := newHarness(t, 3, quiz.FirstAnswerWins, config.DeliveryGroup)
	ctx := context.Background()
	key := h.svc.SessionFor(groupChat, 1)

	_, err := h.svc.Join(ctx, quiz.JoinEvent{Session: key, PlayerID: 1})
	assert.True(t, stderrors.Is(err, errors.ErrLobbyClosed), "no lobby")

	_, err = h.svc.StartQuiz(ctx, quiz.StartEvent{Session: key, PlayerID: 1})
	require.NoError(t, err)

	added, err := h.svc.Join(ctx, quiz.JoinEvent{Session: key, PlayerID: 2})
	require.NoError(t, err)
	assert.True(t, added)
	added, err = h.svc.Join(ctx, quiz.JoinEvent{Session: key, PlayerID: 2})
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, []int64{2}, h.registry.Get(key).Snapshot().Players)

	h.clock.fire(t, 0)

	_, err = h.svc.Join(ctx, quiz.JoinEvent{Session: key, PlayerID: 3})
	assert.True(t, stderrors.Is(err, errors.ErrLobbyClosed))
}

func TestQuizService_ExactlyOneResolutionUnderRace(t *testing.T) {
	for i := 0; i < 100; i++ {
		h := newHarness(t, 2, quiz.FirstAnswerWins, config.DeliveryGroup)
		h.start(t, 1, 2, 3)

		var wg sync.WaitGroup
		var accepted sync.Map
		for _, p := range []int64{1, 2, 3} {
			wg.Add(1)
			go func(p int64) {
				defer wg.Done()
				if _, err := h.answer(p, 0, right); err == nil {
					accepted.Store(p, true)
				}
			}(p)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.clock.fire(t, 1)
		}()
		wg.Wait()

		resolved := 0
		accepted.Range(func(_, _ any) bool {
			resolved++
			return true
		})
		resolved += len(h.notifier.containing("Time is up"))

		assert.Equal(t, 1, resolved, "round 0 must resolve exactly once")
		assert.Len(t, h.notifier.ofKind(quiz.KindQuestion), 2, "round 1 must be broadcast exactly once")
	}
}

func TestQuizService_AllMustAnswerWaitsForEveryone(t *testing.T) {
	h := newHarness(t, 2, quiz.AllMustAnswer, config.DeliveryGroup)
	game := h.start(t, 1, 2)

	ans, err := h.answer(1, 0, right)
	require.NoError(t, err)
	assert.Nil(t, ans.Resolution)
	assert.Len(t, h.notifier.ofKind(quiz.KindQuestion), 1)

	_, err = h.answer(1, 0, right)
	assert.True(t, stderrors.Is(err, errors.ErrAlreadyAnswered))

	ans, err = h.answer(2, 0, wrong)
	require.NoError(t, err)
	require.NotNil(t, ans.Resolution)
	assert.Equal(t, quiz.OutcomeAllAnswered, ans.Resolution.Outcome)

	summary := h.notifier.containing("Everyone has answered")
	require.Len(t, summary, 1)
	assert.Contains(t, summary[0].Text, "Correct answer: <b>right</b>")
	assert.Contains(t, summary[0].Text, "Scored: @alice")
	assert.Equal(t, 1, game.Snapshot().Cursor)
}

func TestQuizService_AllMustAnswerPartialTimeout(t *testing.T) {
	h := newHarness(t, 2, quiz.AllMustAnswer, config.DeliveryGroup)
	h.start(t, 1, 2)

	_, err := h.answer(2, 0, right)
	require.NoError(t, err)
	h.clock.fire(t, 1)

	expired := h.notifier.containing("Time is up")
	require.Len(t, expired, 1)
	assert.Contains(t, expired[0].Text, "Scored: @bob")
	assert.Len(t, h.notifier.ofKind(quiz.KindQuestion), 2)
}

func TestQuizService_PrivateDelivery(t *testing.T) {
	h := newHarness(t, 2, quiz.FirstAnswerWins, config.DeliveryPrivate)
	key := h.svc.SessionFor(groupChat, 1)
	assert.Equal(t, quiz.SessionKey{ChatID: groupChat, OwnerID: 1}, key)

	h.start(t, 1, 2)

	lobby := h.notifier.ofKind(quiz.KindLobby)
	require.Len(t, lobby, 1)
	assert.Equal(t, groupChat, lobby[0].ChatID)

	questions := h.notifier.ofKind(quiz.KindQuestion)
	require.Len(t, questions, 2)
	assert.ElementsMatch(t, []int64{1, 2}, []int64{questions[0].ChatID, questions[1].ChatID})
	for _, q := range questions {
		assert.Equal(t, key, q.Session)
	}

	// another player's session in the same chat is independent
	_, err := h.svc.StartQuiz(context.Background(), quiz.StartEvent{Session: h.svc.SessionFor(groupChat, 2), PlayerID: 2})
	assert.NoError(t, err)
}

func TestQuizService_UnknownPlayerName(t *testing.T) {
	h := newHarness(t, 2, quiz.FirstAnswerWins, config.DeliveryGroup)
	h.start(t, 5)

	_, err := h.answer(5, 0, right)
	require.NoError(t, err)
	assert.Len(t, h.notifier.containing("Unknown player gets 1 point"), 1)
}

func TestQuizService_NamesAreEscaped(t *testing.T) {
	h := newHarness(t, 1, quiz.FirstAnswerWins, config.DeliveryGroup)
	h.start(t, 3)

	_, err := h.answer(3, 0, right)
	require.NoError(t, err)
	for _, b := range h.notifier.all() {
		assert.NotContains(t, b.Text, "Carol <3")
	}
	assert.Len(t, h.notifier.containing("Carol &lt;3"), 2)
}

func TestQuizService_BroadcastFailureDoesNotStall(t *testing.T) {
	h := newHarness(t, 2, quiz.FirstAnswerWins, config.DeliveryGroup)
	h.notifier.fail = true
	h.notifier.failOn = quiz.KindQuestion
	game := h.start(t, 1)

	_, err := h.answer(1, 0, right)
	require.NoError(t, err)
	assert.Equal(t, 1, game.Snapshot().Cursor)
}

func TestQuizService_Standings(t *testing.T) {
	h := newHarness(t, 3, quiz.FirstAnswerWins, config.DeliveryGroup)
	ctx := context.Background()
	key := h.svc.SessionFor(groupChat, 1)

	_, err := h.svc.StandingsFor(ctx, groupChat, 1)
	assert.Equal(t, errors.ErrCodeNotFound, errors.CodeOf(err))

	_, err = h.svc.StartQuiz(ctx, quiz.StartEvent{Session: key, PlayerID: 1})
	require.NoError(t, err)
	text, err := h.svc.StandingsFor(ctx, groupChat, 1)
	require.NoError(t, err)
	assert.Contains(t, text, "0 player(s)")

	for _, p := range []int64{1, 2} {
		_, err := h.svc.Join(ctx, quiz.JoinEvent{Session: key, PlayerID: p})
		require.NoError(t, err)
	}
	h.clock.fire(t, 0)
	_, err = h.answer(2, 0, right)
	require.NoError(t, err)

	text, err = h.svc.StandingsFor(ctx, groupChat, 1)
	require.NoError(t, err)
	assert.Contains(t, text, "Question 2 of 3")
	assert.Less(t, strings.Index(text, "@bob: 1 point"), strings.Index(text, "@alice: 0 points"))
}

func TestQuizService_LobbyText(t *testing.T) {
	h := newHarness(t, 2, quiz.FirstAnswerWins, config.DeliveryGroup)
	ctx := context.Background()
	key := h.svc.SessionFor(groupChat, 1)

	_, ok := h.svc.LobbyText(ctx, key)
	assert.False(t, ok, "no lobby")

	_, err := h.svc.StartQuiz(ctx, quiz.StartEvent{Session: key, PlayerID: 1})
	require.NoError(t, err)
	for _, p := range []int64{2, 1} {
		_, err := h.svc.Join(ctx, quiz.JoinEvent{Session: key, PlayerID: p})
		require.NoError(t, err)
	}

	text, ok := h.svc.LobbyText(ctx, key)
	require.True(t, ok)
	assert.Contains(t, text, "starts in 30 seconds")
	assert.Contains(t, text, "Players (2)")
	assert.Contains(t, text, "1. @bob\n2. @alice")

	h.clock.fire(t, 0)
	_, ok = h.svc.LobbyText(ctx, key)
	assert.False(t, ok, "lobby closed")
}

func TestQuizService_NamesLookedUpOncePerPlayer(t *testing.T) {
	h := newHarness(t, 3, quiz.FirstAnswerWins, config.DeliveryGroup)
	ctx := context.Background()
	key := h.svc.SessionFor(groupChat, 1)

	_, err := h.svc.StartQuiz(ctx, quiz.StartEvent{Session: key, PlayerID: 1})
	require.NoError(t, err)
	for _, p := range []int64{1, 2, 3} {
		_, err := h.svc.Join(ctx, quiz.JoinEvent{Session: key, PlayerID: p})
		require.NoError(t, err)
		_, ok := h.svc.LobbyText(ctx, key)
		require.True(t, ok)
	}
	h.clock.fire(t, 0)
	for round := 0; round < 3; round++ {
		_, err := h.answer(2, round, right)
		require.NoError(t, err)
	}

	h.notifier.mu.Lock()
	defer h.notifier.mu.Unlock()
	assert.Equal(t, 3, h.notifier.lookups)
}

func TestQuizService_StandingsForPrivateDelivery(t *testing.T) {
	h := newHarness(t, 3, quiz.FirstAnswerWins, config.DeliveryPrivate)
	ctx := context.Background()
	h.start(t, 1, 2)

	_, err := h.answer(2, 0, right)
	require.NoError(t, err)

	tests := []struct {
		name   string
		chatID int64
		player int64
	}{
		{"initiator in group", groupChat, 1},
		{"player in group", groupChat, 2},
		{"player in private chat", 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := h.svc.StandingsFor(ctx, tt.chatID, tt.player)
			require.NoError(t, err)
			assert.Contains(t, text, "Question 2 of 3")
			assert.Contains(t, text, "@bob: 1 point")
		})
	}

	_, err = h.svc.StandingsFor(ctx, groupChat, 3)
	assert.Equal(t, errors.ErrCodeNotFound, errors.CodeOf(err), "not on the roster")
	_, err = h.svc.StandingsFor(ctx, 3, 3)
	assert.Equal(t, errors.ErrCodeNotFound, errors.CodeOf(err))
}

func TestQuizService_Shutdown(t *testing.T) {
	h := newHarness(t, 3, quiz.FirstAnswerWins, config.DeliveryGroup)
	h.start(t, 1)
	sentBefore := len(h.notifier.all())

	h.svc.Shutdown(context.Background())

	assert.Equal(t, 0, h.registry.Len())
	assert.Equal(t, 0.0, testutil.ToFloat64(h.metrics.ActiveGames))

	// late deadline finds the game finished
	h.clock.fire(t, 1)
	assert.Len(t, h.notifier.all(), sentBefore)
	assert.Empty(t, h.notifier.containing("The quiz is over"))
}

func TestQuizService_NoStartAfterShutdown(t *testing.T) {
	h := newHarness(t, 3, quiz.FirstAnswerWins, config.DeliveryGroup)
	h.svc.Shutdown(context.Background())

	_, err := h.svc.StartQuiz(context.Background(), quiz.StartEvent{Session: h.svc.SessionFor(groupChat, 1), PlayerID: 1})
	assert.Equal(t, errors.ErrCodeInternalError, errors.CodeOf(err))
	assert.Equal(t, 0, h.registry.Len())
	assert.Empty(t, h.notifier.ofKind(quiz.KindLobby))
}

func TestNewQuizSettings(t *testing.T) {
	cfg := &config.Config{
		LobbyWindowSeconds:     10,
		QuestionTimeoutSeconds: 5,
		RoundCount:             7,
		AnswerMode:             config.AnswerModeAll,
		DeliveryMode:           config.DeliveryPrivate,
	}

	s := NewQuizSettings(cfg)
	assert.Equal(t, 10*time.Second, s.LobbyWindow)
	assert.Equal(t, 5*time.Second, s.QuestionTimeout)
	assert.Equal(t, 7, s.RoundCount)
	assert.Equal(t, quiz.AllMustAnswer, s.AnswerMode)
	assert.Equal(t, config.DeliveryPrivate, s.Delivery)
}
