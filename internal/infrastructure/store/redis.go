package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tastematch/backend/internal/domain"
)

// RedisStore keeps each profile under its own key plus a sorted-set index of
// user ids. Every index member has score 0, so the index reads back in
// lexicographic order.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	logger *zap.Logger
}

// NewRedisStore connects to the Redis server at redisURL (redis://...) and
// verifies the connection
func NewRedisStore(ctx context.Context, redisURL, prefix string, opts ...Option) (*RedisStore, error) {
	redisOpts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(redisOpts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%w: failed to connect to Redis at %s: %v", domain.ErrStoreUnavailable, redisOpts.Addr, err)
	}

	return NewRedisStoreFromClient(rdb, prefix, opts...), nil
}

// NewRedisStoreFromClient wraps an existing client
func NewRedisStoreFromClient(rdb *redis.Client, prefix string, opts ...Option) *RedisStore {
	if prefix == "" {
		prefix = "tastematch"
	}
	return &RedisStore{rdb: rdb, prefix: prefix, logger: applyOptions(opts).logger}
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func (s *RedisStore) profileKey(userID string) string {
	return s.prefix + ":profile:" + userID
}

func (s *RedisStore) indexKey() string {
	return s.prefix + ":profiles"
}

// Get retrieves the profile stored for a user
func (s *RedisStore) Get(ctx context.Context, userID string) (*domain.StoredProfile, error) {
	data, err := s.rdb.Get(ctx, s.profileKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	return decodeProfile(data)
}

// Save stores a profile, replacing any existing one for the same user
func (s *RedisStore) Save(ctx context.Context, profile *domain.StoredProfile) error {
	if err := validateForSave(profile); err != nil {
		return err
	}

	data, err := encodeProfile(profile)
	if err != nil {
		return err
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.profileKey(profile.UserID), data, 0)
		pipe.ZAdd(ctx, s.indexKey(), redis.Z{Score: 0, Member: profile.UserID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: saving profile %q: %v", domain.ErrStoreUnavailable, profile.UserID, err)
	}

	return nil
}

// Delete removes a user's profile. Deleting a missing profile is not an error.
func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.profileKey(userID))
		pipe.ZRem(ctx, s.indexKey(), userID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: deleting profile %q: %v", domain.ErrStoreUnavailable, userID, err)
	}
	return nil
}

// List returns up to limit profiles ordered by user id
func (s *RedisStore) List(ctx context.Context, limit int) ([]domain.StoredProfile, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	ids, err := s.rdb.ZRange(ctx, s.indexKey(), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: listing profiles: %v", domain.ErrStoreUnavailable, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.profileKey(id)
	}

	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: loading profiles: %v", domain.ErrStoreUnavailable, err)
	}

	profiles := make([]domain.StoredProfile, 0, len(values))
	for i, v := range values {
		// Index entries whose profile key vanished come back as nil
		str, ok := v.(string)
		if !ok {
			continue
		}
		p, err := decodeProfile([]byte(str))
		if err != nil {
			skipUnreadable(s.logger, ids[i], err)
			continue
		}
		profiles = append(profiles, *p)
	}

	return profiles, nil
}
