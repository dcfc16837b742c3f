package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mroshb/trivia_bot/internal/quiz"
	"github.com/mroshb/trivia_bot/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds our owner token, so
// an expired lock re-taken by another instance is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SessionLockRepository claims session keys in redis so that replicas sharing
// a bot token never run two games for one chat.
type SessionLockRepository struct {
	client *redis.Client
	ttl    time.Duration
	owner  string
}

func NewSessionLockRepository(client *redis.Client, ttl time.Duration) *SessionLockRepository {
	return &SessionLockRepository{
		client: client,
		ttl:    ttl,
		owner:  uuid.NewString(),
	}
}

func (r *SessionLockRepository) Acquire(ctx context.Context, key quiz.SessionKey) (bool, error) {
	ok, err := r.client.SetNX(ctx, r.key(key), r.owner, r.ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeInternalError, "failed to acquire session lock")
	}
	return ok, nil
}

func (r *SessionLockRepository) Release(ctx context.Context, key quiz.SessionKey) error {
	if err := releaseScript.Run(ctx, r.client, []string{r.key(key)}, r.owner).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to release session lock")
	}
	return nil
}

func (r *SessionLockRepository) key(key quiz.SessionKey) string {
	return "quiz:session:" + key.String()
}
