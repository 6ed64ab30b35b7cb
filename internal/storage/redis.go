package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pobbin/internal/model"

	"github.com/redis/go-redis/v9"
)

const (
	usersKey        = "users"
	connectionCheck = 5 * time.Second
)

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

var ErrEmptyAddress = errors.New("redis address is required")

type RedisStore struct {
	client *redis.Client
}

// Connect dials Redis and verifies the connection with a ping.
func Connect(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Address == "" {
		return nil, ErrEmptyAddress
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectionCheck)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewRedisStore(client), nil
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func pasteKey(id model.PasteID) string {
	if id.IsUserScoped() {
		return "paste:u:" + id.User + ":" + id.ID
	}
	return "paste:" + id.ID
}

func userPastesKey(user string) string {
	return "user:" + user + ":pastes"
}

func (s *RedisStore) GetPaste(ctx context.Context, id model.PasteID) (model.Paste, error) {
	payload, err := s.client.Get(ctx, pasteKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Paste{}, fmt.Errorf("paste %q: %w", id.String(), ErrNotFound)
	}
	if err != nil {
		return model.Paste{}, fmt.Errorf("get paste %q: %w", id.String(), err)
	}

	var paste model.Paste
	if err := json.Unmarshal(payload, &paste); err != nil {
		return model.Paste{}, fmt.Errorf("decode paste %q: %w", id.String(), err)
	}
	return paste, nil
}

func (s *RedisStore) ListUserPastes(ctx context.Context, user string, includePrivate bool) ([]model.PasteSummary, error) {
	known, err := s.client.SIsMember(ctx, usersKey, user).Result()
	if err != nil {
		return nil, fmt.Errorf("check user %q: %w", user, err)
	}
	if !known {
		return nil, fmt.Errorf("user %q: %w", user, ErrNotFound)
	}

	entries, err := s.client.HGetAll(ctx, userPastesKey(user)).Result()
	if err != nil {
		return nil, fmt.Errorf("list pastes of %q: %w", user, err)
	}

	pastes := make([]model.PasteSummary, 0, len(entries))
	for field, payload := range entries {
		var summary model.PasteSummary
		if err := json.Unmarshal([]byte(payload), &summary); err != nil {
			return nil, fmt.Errorf("decode summary %q of %q: %w", field, user, err)
		}
		if summary.Private && !includePrivate {
			continue
		}
		pastes = append(pastes, summary)
	}

	sortSummaries(pastes)
	return pastes, nil
}

func (s *RedisStore) PutPaste(ctx context.Context, paste model.Paste) error {
	if paste.ID.IsZero() {
		return fmt.Errorf("put paste: %w", model.ErrInvalidPasteID)
	}

	payload, err := json.Marshal(paste)
	if err != nil {
		return fmt.Errorf("encode paste %q: %w", paste.ID.String(), err)
	}

	var summary []byte
	if paste.ID.IsUserScoped() {
		if summary, err = json.Marshal(paste.Summary()); err != nil {
			return fmt.Errorf("encode summary %q: %w", paste.ID.String(), err)
		}
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, pasteKey(paste.ID), payload, 0)
		if paste.ID.IsUserScoped() {
			pipe.SAdd(ctx, usersKey, paste.ID.User)
			pipe.HSet(ctx, userPastesKey(paste.ID.User), paste.ID.ID, summary)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("put paste %q: %w", paste.ID.String(), err)
	}
	return nil
}

func (s *RedisStore) DeletePaste(ctx context.Context, id model.PasteID) error {
	var deleted *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		deleted = pipe.Del(ctx, pasteKey(id))
		if id.IsUserScoped() {
			pipe.HDel(ctx, userPastesKey(id.User), id.ID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete paste %q: %w", id.String(), err)
	}
	if deleted.Val() == 0 {
		return fmt.Errorf("paste %q: %w", id.String(), ErrNotFound)
	}
	return nil
}

func (s *RedisStore) EnsureUser(ctx context.Context, name string) error {
	if err := s.client.SAdd(ctx, usersKey, name).Err(); err != nil {
		return fmt.Errorf("ensure user %q: %w", name, err)
	}
	return nil
}
