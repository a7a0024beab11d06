// Package redis keeps driver bearer sessions in Redis with a TTL.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

const keyPrefix = "printke:driver-session:"

type SessionStore struct {
	client goredis.UniversalClient
}

func NewSessionStore(client goredis.UniversalClient) *SessionStore {
	return &SessionStore{client: client}
}

// NewClient opens a client from a redis:// URL and checks connectivity.
func NewClient(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("redis url", err)
	}
	client := goredis.NewClient(opts)
	if err = client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (s *SessionStore) Create(ctx context.Context, driverID kernel.UUID, ttl time.Duration) (string, error) {
	if err := driverID.Validate(); err != nil {
		return "", err
	}
	if ttl <= 0 {
		return "", errs.NewValueIsInvalidErrorWithCause("session ttl", fmt.Errorf("%s is not positive", ttl))
	}

	token := strings.ReplaceAll(uuid.NewString(), "-", "") + strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := s.client.Set(ctx, keyPrefix+token, driverID.String(), ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

func (s *SessionStore) Resolve(ctx context.Context, token string) (kernel.UUID, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return kernel.UUID{}, errs.NewObjectNotFoundError("session", "")
	}

	raw, err := s.client.Get(ctx, keyPrefix+token).Result()
	if errors.Is(err, goredis.Nil) {
		return kernel.UUID{}, errs.NewObjectNotFoundError("session", "token")
	}
	if err != nil {
		return kernel.UUID{}, fmt.Errorf("load session: %w", err)
	}

	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, fmt.Errorf("corrupt session: %w", err)
	}
	return id, nil
}

func (s *SessionStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, keyPrefix+strings.TrimSpace(token)).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
