package statestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/config"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/storage"
	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "gt:state:"
	fieldData      = "data"
	fieldVersion   = "version"
	fieldUpdated   = "updated_at"
)

// NewRedisClient parses cfg.URL, applies the timeouts and checks the server answers
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout
	opts.DialTimeout = cfg.DialTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// RedisStore keeps each document in a hash holding its data and version
type RedisStore struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, now: time.Now}
}

func (s *RedisStore) Get(ctx context.Context, key string) (storage.Record, error) {
	vals, err := s.rdb.HMGet(ctx, redisKey(key), fieldData, fieldVersion).Result()
	if err != nil {
		return storage.Record{}, fmt.Errorf("read %s: %w", key, err)
	}
	data, ok := vals[0].(string)
	if !ok {
		return storage.Record{}, storage.ErrNotFound
	}
	var version int64
	if v, ok := vals[1].(string); ok {
		version, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return storage.Record{}, fmt.Errorf("read %s version: %w", key, err)
		}
	}
	return storage.Record{Data: json.RawMessage(data), Version: version}, nil
}

// Put stores data and bumps the version in one MULTI block
func (s *RedisStore) Put(ctx context.Context, key string, data json.RawMessage) (int64, error) {
	k := redisKey(key)
	var incr *redis.IntCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, k, fieldData, string(data), fieldUpdated, s.now().UnixMilli())
		incr = pipe.HIncrBy(ctx, k, fieldVersion, 1)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("write %s: %w", key, err)
	}
	return incr.Val(), nil
}

// PutIf watches the hash so a concurrent writer aborts the transaction
func (s *RedisStore) PutIf(ctx context.Context, key string, data json.RawMessage, version int64) (int64, error) {
	k := redisKey(key)
	err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, k, fieldVersion).Int64()
		if errors.Is(err, redis.Nil) {
			current = 0
		} else if err != nil {
			return err
		}
		if current != version {
			return storage.ErrVersionConflict
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, k,
				fieldData, string(data),
				fieldVersion, version+1,
				fieldUpdated, s.now().UnixMilli())
			return nil
		})
		return err
	}, k)

	switch {
	case err == nil:
		return version + 1, nil
	case errors.Is(err, storage.ErrVersionConflict), errors.Is(err, redis.TxFailedErr):
		return 0, storage.ErrVersionConflict
	default:
		return 0, fmt.Errorf("conditional write %s: %w", key, err)
	}
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func redisKey(key string) string {
	return redisKeyPrefix + key
}
