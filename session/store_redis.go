package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	errs "restaurante-portal/internal/errors"
)

// RedisStore keeps each session as a Redis hash whose fields are the
// storage keys, with the record TTL pinned to the session expiry.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisStore wraps an existing client. ttl is the fallback lifetime for
// sessions without an explicit expiry.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, now: time.Now}
}

func (s *RedisStore) Get(ctx context.Context, sid string) (Session, error) {
	if sid == "" {
		return Session{}, errs.ErrSessionNotFound
	}

	keys, err := s.client.HGetAll(ctx, s.key(sid)).Result()
	if err != nil {
		return Session{}, fmt.Errorf("redis store get: %w", err)
	}
	if len(keys) == 0 {
		return Session{}, errs.ErrSessionNotFound
	}

	sess, err := decodeKeys(keys)
	if err != nil {
		return Session{}, errs.Wrapf(err, "redis store get %q", sid)
	}

	if sess.Expired(s.now()) {
		_ = s.client.Del(ctx, s.key(sid)).Err()
		return Session{}, errs.ErrSessionNotFound
	}

	return sess, nil
}

func (s *RedisStore) Set(ctx context.Context, sid string, sess Session) error {
	if sid == "" {
		return errs.Wrapf(errs.ErrInternal, "redis store set: empty session id")
	}

	keys, err := encodeKeys(sess)
	if err != nil {
		return err
	}

	key := s.key(sid)
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key) // drop stale fields from a previous role
	pipe.HSet(ctx, key, keys)
	if !sess.ExpiresAt.IsZero() {
		pipe.ExpireAt(ctx, key, sess.ExpiresAt)
	} else {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis store set: %w", err)
	}
	return nil
}

func (s *RedisStore) SetAccessToken(ctx context.Context, sid string, role Role, access string) error {
	key := s.key(sid)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redis store access token: %w", err)
	}
	if exists == 0 {
		return errs.ErrSessionNotFound
	}

	if err := s.client.HSet(ctx, key, AccessTokenKey(role), access).Err(); err != nil {
		return fmt.Errorf("redis store access token: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, s.key(sid)).Err(); err != nil {
		return fmt.Errorf("redis store clear: %w", err)
	}
	return nil
}

func (s *RedisStore) key(sid string) string {
	return "session:" + sid
}
