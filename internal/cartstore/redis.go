package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// cart:{token} -> JSON snapshot of the cart
	keyCart = "cart:%s"

	cartTTL = 7 * 24 * time.Hour
)

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(addr string) *RedisStore {
	return &RedisStore{rdb: redis.NewClient(&redis.Options{Addr: addr})}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisStore) Get(ctx context.Context, token string) ([]Item, error) {
	raw, err := s.rdb.Get(ctx, fmt.Sprintf(keyCart, token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *RedisStore) Save(ctx context.Context, token string, items []Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, fmt.Sprintf(keyCart, token), raw, cartTTL).Err()
}

func (s *RedisStore) Clear(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, fmt.Sprintf(keyCart, token)).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
