package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is the tag-capable cache backend. Tag membership is kept in redis
// sets so a group flush is one SMEMBERS plus one DEL.
type Redis struct {
	client *redis.Client
}

func NewRedis(url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Redis{client: client}, nil
}

func (r *Redis) SupportsTags() bool { return true }

func (r *Redis) Get(ctx context.Context, key string, out any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration, tags ...string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, ttl)
	for _, tag := range tags {
		pipe.SAdd(ctx, tagKey(tag), key)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (r *Redis) Forget(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *Redis) FlushTags(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		members, err := r.client.SMembers(ctx, tagKey(tag)).Result()
		if err != nil {
			return err
		}
		if len(members) > 0 {
			if err := r.client.Del(ctx, members...).Err(); err != nil {
				return err
			}
		}
		if err := r.client.Del(ctx, tagKey(tag)).Err(); err != nil {
			return err
		}
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func tagKey(tag string) string {
	return keyPrefix + ":tag:" + tag
}
