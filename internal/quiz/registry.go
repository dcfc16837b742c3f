package quiz

import (
	"context"
	"fmt"
	"sync"

	"github.com/mroshb/trivia_bot/pkg/errors"
	"github.com/mroshb/trivia_bot/pkg/logger"
)

// SessionLocker claims a session key beyond this process, e.g. across bot
// replicas sharing a token.
type SessionLocker interface {
	Acquire(ctx context.Context, key SessionKey) (bool, error)
	Release(ctx context.Context, key SessionKey) error
}

// Registry maps session keys to live games. At most one game exists per key.
type Registry struct {
	mu     sync.Mutex
	games  map[SessionKey]*Game
	locker SessionLocker
}

// NewRegistry creates a registry. locker may be nil.
func NewRegistry(locker SessionLocker) *Registry {
	return &Registry{
		games:  make(map[SessionKey]*Game),
		locker: locker,
	}
}

// Create builds and stores a game for key, failing with ALREADY_ACTIVE when
// one is live. build runs under the registry lock and must not block.
func (r *Registry) Create(ctx context.Context, key SessionKey, build func() (*Game, error)) (*Game, error) {
	r.mu.Lock()
	if _, exists := r.games[key]; exists {
		r.mu.Unlock()
		return nil, alreadyActive(key)
	}
	game, err := build()
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}
	r.games[key] = game
	r.mu.Unlock()

	if r.locker == nil {
		return game, nil
	}

	acquired, err := r.locker.Acquire(ctx, key)
	if err != nil {
		logger.Warn("Session lock unavailable, continuing with local registry", "session", key.String(), "error", err)
		return game, nil
	}
	if !acquired {
		r.mu.Lock()
		if r.games[key] == game {
			delete(r.games, key)
		}
		r.mu.Unlock()
		return nil, alreadyActive(key)
	}
	return game, nil
}

func (r *Registry) Get(key SessionKey) *Game {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.games[key]
}

// Remove drops game from the registry if it is still the entry for its key.
// It reports whether an entry was removed.
func (r *Registry) Remove(ctx context.Context, game *Game) bool {
	r.mu.Lock()
	current, ok := r.games[game.Key]
	if !ok || current != game {
		r.mu.Unlock()
		return false
	}
	delete(r.games, game.Key)
	r.mu.Unlock()

	if r.locker != nil {
		if err := r.locker.Release(ctx, game.Key); err != nil {
			logger.Warn("Failed to release session lock", "session", game.Key.String(), "error", err)
		}
	}
	return true
}

// All returns the live games in no particular order.
func (r *Registry) All() []*Game {
	r.mu.Lock()
	defer r.mu.Unlock()

	games := make([]*Game, 0, len(r.games))
	for _, g := range r.games {
		games = append(games, g)
	}
	return games
}

// FindByPlayer returns a live game in which playerID is rostered and which
// belongs to chatID. A player's private chat (chatID == playerID) matches
// any of their games.
func (r *Registry) FindByPlayer(chatID, playerID int64) *Game {
	for _, g := range r.All() {
		if g.Key.ChatID != chatID && chatID != playerID {
			continue
		}
		if g.Phase() == PhaseFinished || !g.HasPlayer(playerID) {
			continue
		}
		return g
	}
	return nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.games)
}

func alreadyActive(key SessionKey) error {
	return errors.New(errors.ErrCodeAlreadyActive, fmt.Sprintf("session %s already has a live game", key))
}
