package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/taptext/internal/model"
	"github.com/mcoot/taptext/internal/storage"
)

// User hash fields
const (
	fieldUsername     = "username"
	fieldPasswordHash = "password_hash"
	fieldDisplayName  = "display_name"
	fieldRole         = "role"
)

// Storage is a Redis-backed implementation of the storage interface.
// A user is a HASH plus two SETs for follow edges; warnings and messages are LISTs
// so reads come back in insertion order.
type Storage struct {
	client *redis.Client
	keys   keys
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, persistErr("ping", err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = DefaultConfig().KeyPrefix
	}
	return &Storage{
		client: client,
		keys:   keys{prefix: prefix},
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func persistErr(op string, err error) error {
	return fmt.Errorf("redis %s: %w: %w", op, model.ErrPersistence, err)
}

// User operations

func (s *Storage) CreateUser(ctx context.Context, u *model.User) error {
	key := s.keys.user(u.Username)

	// WATCH makes the existence check and the write one unit: a racing
	// creator aborts our MULTI and we report the name as taken.
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return model.ErrUsernameTaken
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, map[string]any{
				fieldUsername:     u.Username,
				fieldPasswordHash: u.PasswordHash,
				fieldDisplayName:  u.DisplayName,
				fieldRole:         string(u.Role),
			})
			if len(u.Followers) > 0 {
				pipe.SAdd(ctx, s.keys.followers(u.Username), toMembers(u.Followers)...)
			}
			if len(u.Following) > 0 {
				pipe.SAdd(ctx, s.keys.following(u.Username), toMembers(u.Following)...)
			}
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, model.ErrUsernameTaken), errors.Is(err, redis.TxFailedErr):
		return model.ErrUsernameTaken
	default:
		return persistErr("create user", err)
	}
}

func (s *Storage) GetUser(ctx context.Context, username string) (*model.User, error) {
	pipe := s.client.Pipeline()
	fieldsCmd := pipe.HGetAll(ctx, s.keys.user(username))
	followersCmd := pipe.SMembers(ctx, s.keys.followers(username))
	followingCmd := pipe.SMembers(ctx, s.keys.following(username))
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, persistErr("get user", err)
	}

	fields := fieldsCmd.Val()
	if len(fields) == 0 {
		return nil, model.ErrUserNotFound
	}

	followers := followersCmd.Val()
	following := followingCmd.Val()
	slices.Sort(followers)
	slices.Sort(following)

	u := model.NewUser(fields[fieldUsername], fields[fieldPasswordHash], fields[fieldDisplayName], model.Role(fields[fieldRole]))
	u.Followers = append(u.Followers, followers...)
	u.Following = append(u.Following, following...)
	return u, nil
}

func (s *Storage) UpdateDisplayName(ctx context.Context, username, displayName string) error {
	return s.setExistingField(ctx, username, fieldDisplayName, displayName)
}

func (s *Storage) SetRole(ctx context.Context, username string, role model.Role) error {
	return s.setExistingField(ctx, username, fieldRole, string(role))
}

// setExistingField writes one hash field without creating the user
func (s *Storage) setExistingField(ctx context.Context, username, field, value string) error {
	key := s.keys.user(username)
	err := s.watchRetry(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n == 0 {
			return model.ErrUserNotFound
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, field, value)
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, model.ErrUserNotFound):
		return model.ErrUserNotFound
	default:
		return persistErr("set "+field, err)
	}
}

func (s *Storage) AddFollow(ctx context.Context, follower, followee string) error {
	watched := []string{s.keys.user(follower)}
	if followee != follower {
		watched = append(watched, s.keys.user(followee))
	}

	err := s.watchRetry(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, watched...).Result()
		if err != nil {
			return err
		}
		if int(n) != len(watched) {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SAdd(ctx, s.keys.following(follower), followee)
			pipe.SAdd(ctx, s.keys.followers(followee), follower)
			return nil
		})
		return err
	}, watched...)
	if err != nil {
		return persistErr("add follow", err)
	}
	return nil
}

// maxTxRetries bounds optimistic retries when a watched key changes under us
const maxTxRetries = 5

// watchRetry runs fn in a WATCH transaction, retrying while another client
// modifies a watched key first
func (s *Storage) watchRetry(ctx context.Context, fn func(*redis.Tx) error, watched ...string) error {
	var err error
	for range maxTxRetries {
		err = s.client.Watch(ctx, fn, watched...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return err
}

// Warning operations

func (s *Storage) AppendWarning(ctx context.Context, w *model.Warning) error {
	data, err := json.Marshal(w)
	if err != nil {
		return err
	}
	if err := s.client.RPush(ctx, s.keys.warnings(w.Target), data).Err(); err != nil {
		return persistErr("append warning", err)
	}
	return nil
}

func (s *Storage) ListWarnings(ctx context.Context, target string) ([]*model.Warning, error) {
	values, err := s.client.LRange(ctx, s.keys.warnings(target), 0, -1).Result()
	if err != nil {
		return nil, persistErr("list warnings", err)
	}
	return decodeAll[model.Warning](values)
}

// Message operations

func (s *Storage) AppendMessage(ctx context.Context, m *model.Message) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	if err := s.client.RPush(ctx, s.keys.messages(), data).Err(); err != nil {
		return persistErr("append message", err)
	}
	return nil
}

func (s *Storage) ListMessages(ctx context.Context) ([]*model.Message, error) {
	values, err := s.client.LRange(ctx, s.keys.messages(), 0, -1).Result()
	if err != nil {
		return nil, persistErr("list messages", err)
	}
	return decodeAll[model.Message](values)
}

func decodeAll[T any](values []string) ([]*T, error) {
	result := make([]*T, 0, len(values))
	for _, val := range values {
		var item T
		if err := json.Unmarshal([]byte(val), &item); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	return result, nil
}

func toMembers(values []string) []any {
	members := make([]any, len(values))
	for i, v := range values {
		members[i] = v
	}
	return members
}
