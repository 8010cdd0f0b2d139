package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/julianstephens/gradecalc/internal/constants"
)

const redisTimeout = 5 * time.Second

// RedisStore keeps each record in a hash under gradecalc:record:<key>.
type RedisStore struct {
	url    string
	client *redis.Client
}

func NewRedisStore(url string) *RedisStore {
	return &RedisStore{url: url}
}

func (s *RedisStore) recordKey(key string) string {
	return constants.RedisKeyPrefix + "record:" + key
}

func (s *RedisStore) metaKey() string {
	return constants.RedisKeyPrefix + "meta"
}

func (s *RedisStore) connect(ctx context.Context) error {
	if s.client != nil {
		return nil
	}

	opt, err := redis.ParseURL(s.url)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}
	// Same variable redis-cli reads, so passwords stay out of the URL.
	if opt.Password == "" {
		opt.Password = os.Getenv("REDISCLI_AUTH")
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("redis connection failed: %w", err)
	}
	s.client = client
	return nil
}

func (s *RedisStore) Init() error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	if err := s.connect(ctx); err != nil {
		return err
	}
	if err := s.client.HSet(ctx, s.metaKey(), "version", 1).Err(); err != nil {
		return fmt.Errorf("failed to initialize redis storage: %w", err)
	}
	return nil
}

func (s *RedisStore) Load() error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	if err := s.connect(ctx); err != nil {
		return err
	}
	n, err := s.client.Exists(ctx, s.metaKey()).Result()
	if err != nil {
		return fmt.Errorf("failed to load redis storage: %w", err)
	}
	if n == 0 {
		return ErrNotInitialized
	}
	return nil
}

func (s *RedisStore) Close() error {
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

func (s *RedisStore) ReadRecord(key string) ([]byte, error) {
	if s.client == nil {
		return nil, ErrNotLoaded
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	value, err := s.client.HGet(ctx, s.recordKey(key), "value").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to read record %q: %w", key, err)
	}
	return []byte(value), nil
}

func (s *RedisStore) WriteRecord(key string, data []byte) error {
	if s.client == nil {
		return ErrNotLoaded
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	err := s.client.HSet(ctx, s.recordKey(key), map[string]any{
		"value":      string(data),
		"size":       len(data),
		"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to write record %q: %w", key, err)
	}
	return nil
}

func (s *RedisStore) DeleteRecord(key string) error {
	if s.client == nil {
		return ErrNotLoaded
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	if err := s.client.Del(ctx, s.recordKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete record %q: %w", key, err)
	}
	return nil
}

func (s *RedisStore) ListRecords() ([]RecordInfo, error) {
	if s.client == nil {
		return nil, ErrNotLoaded
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	prefix := s.recordKey("")
	var infos []RecordInfo
	iter := s.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		fields, err := s.client.HMGet(ctx, iter.Val(), "size", "updated_at").Result()
		if err != nil {
			return nil, fmt.Errorf("failed to list records: %w", err)
		}
		info := RecordInfo{Key: strings.TrimPrefix(iter.Val(), prefix)}
		if v, ok := fields[0].(string); ok {
			info.Size, _ = strconv.ParseInt(v, 10, 64)
		}
		if v, ok := fields[1].(string); ok {
			info.UpdatedAt, _ = time.Parse(time.RFC3339Nano, v)
		}
		infos = append(infos, info)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Key < infos[j].Key
	})
	return infos, nil
}

func (s *RedisStore) GetConfigPath() string {
	return "redis"
}
