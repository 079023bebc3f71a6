package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const deleteConfirmPrefix = "confirm:delete:"

// ConfirmationStore tracks pending delete confirmations. A marker expires on
// its own after the configured TTL, which is what makes a stale confirm
// control inert: the confirm handler finds no marker and refuses.
type ConfirmationStore interface {
	Arm(ctx context.Context, threadID string, ttl time.Duration) error
	Armed(ctx context.Context, threadID string) (bool, error)
	Clear(ctx context.Context, threadID string) error
}

type confirmationStore struct {
	client *redis.Client
}

// NewConfirmationStore instantiates the redis-backed store.
func NewConfirmationStore(client *redis.Client) ConfirmationStore {
	return &confirmationStore{client: client}
}

func (s *confirmationStore) Arm(ctx context.Context, threadID string, ttl time.Duration) error {
	return s.client.Set(ctx, deleteConfirmPrefix+threadID, uuid.NewString(), ttl).Err()
}

func (s *confirmationStore) Armed(ctx context.Context, threadID string) (bool, error) {
	if err := s.client.Get(ctx, deleteConfirmPrefix+threadID).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *confirmationStore) Clear(ctx context.Context, threadID string) error {
	return s.client.Del(ctx, deleteConfirmPrefix+threadID).Err()
}
