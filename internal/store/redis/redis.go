package redis

import (
	"context"
	"fmt"

	redislib "github.com/redis/go-redis/v9"

	"gameshop/backend/internal/domain"
	"gameshop/backend/internal/store"
)

const defaultKey = "gameshop:snapshot"

// Store keeps the whole snapshot as one JSON document under a single
// key. This is the remote key-document variant of the store: same
// read-all/write-all contract as the local file, just over the network.
type Store struct {
	client *redislib.Client
	key    string
}

func New(addr string, password string, db int, key string) *Store {
	client := redislib.NewClient(&redislib.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if key == "" {
		key = defaultKey
	}
	return &Store{client: client, key: key}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Load(ctx context.Context) (*domain.Snapshot, error) {
	val, err := s.client.Get(ctx, s.key).Result()
	if err == redislib.Nil {
		return domain.NewSnapshot(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: redis get %s: %v", store.ErrPersistence, s.key, err)
	}
	return store.DecodeDocument([]byte(val))
}

func (s *Store) Save(ctx context.Context, snap *domain.Snapshot) error {
	data, err := store.EncodeDocument(snap)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: redis set %s: %v", store.ErrPersistence, s.key, err)
	}
	return nil
}
