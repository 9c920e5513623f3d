package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"cotiza/internal/types"
)

const kvKeyNameTemplate = "_cotiza_%s"

// KV implements ports.KVStore on a redis string per key.
type KV struct {
	cli *redis.Client
}

func NewKV(cli *redis.Client) *KV {
	return &KV{cli: cli}
}

func (s *KV) Get(ctx context.Context, key string) ([]byte, error) {
	out := s.cli.Get(ctx, getKVKeyName(key))
	if out.Err() != nil {
		if errors.Is(out.Err(), redis.Nil) {
			return nil, types.ErrNotFound
		}
		return nil, out.Err()
	}
	return []byte(out.Val()), nil
}

func (s *KV) Put(ctx context.Context, key string, value []byte) error {
	out := s.cli.Set(ctx, getKVKeyName(key), string(value), 0)
	return out.Err()
}

func (s *KV) Delete(ctx context.Context, key string) error {
	out := s.cli.Del(ctx, getKVKeyName(key))
	return out.Err()
}

func getKVKeyName(key string) string {
	return fmt.Sprintf(kvKeyNameTemplate, key)
}
