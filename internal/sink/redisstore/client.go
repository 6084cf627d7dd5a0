// Package redisstore wraps the Redis operations used to mirror a preheat set.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	maintnotifications "github.com/redis/go-redis/v9/maintnotifications"
)

type Option func(*redis.Options)

func WithPoolSize(n int) Option {
	return func(o *redis.Options) { o.PoolSize = n }
}

func WithMinIdleConns(n int) Option {
	return func(o *redis.Options) { o.MinIdleConns = n }
}

func WithDialTimeout(d time.Duration) Option {
	return func(o *redis.Options) { o.DialTimeout = d }
}

func WithReadTimeout(d time.Duration) Option {
	return func(o *redis.Options) { o.ReadTimeout = d }
}

func WithWriteTimeout(d time.Duration) Option {
	return func(o *redis.Options) { o.WriteTimeout = d }
}

// Observer records the outcome of each Redis operation.
type Observer interface {
	Observe(sink, op string, err error)
}

type nopObserver struct{}

func (nopObserver) Observe(string, string, error) {}

type Client struct {
	rdb *redis.Client
	obs Observer
}

func New(ctx context.Context, addr string, opts ...Option) (*Client, error) {
	if addr == "" {
		return nil, errors.New("redis address is required")
	}

	ro := &redis.Options{
		Addr:         addr,
		PoolSize:     16,
		MinIdleConns: 2,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
		MaintNotificationsConfig: &maintnotifications.Config{
			Mode: maintnotifications.ModeDisabled,
		},
	}
	for _, f := range opts {
		f(ro)
	}

	rdb := redis.NewClient(ro)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Client{rdb: rdb, obs: nopObserver{}}, nil
}

// SetObserver replaces the operation observer. Passing nil disables it.
func (c *Client) SetObserver(o Observer) {
	if o == nil {
		o = nopObserver{}
	}
	c.obs = o
}

func (c *Client) observe(op string, err error) { c.obs.Observe("redis", op, err) }

// ApplyDelta mirrors one preheat delta in a single MULTI/EXEC: removed members
// leave the set and the queue, added members join the set and are appended to
// the queue in order. A positive ttl refreshes the expiry of both keys.
func (c *Client) ApplyDelta(
	ctx context.Context,
	setKey, queueKey string,
	added, removed []string,
	ttl time.Duration,
) error {
	if len(added) == 0 && len(removed) == 0 {
		return nil
	}
	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		if len(removed) > 0 {
			p.SRem(ctx, setKey, toArgs(removed)...)
			for _, m := range removed {
				p.LRem(ctx, queueKey, 0, m)
			}
		}
		if len(added) > 0 {
			p.SAdd(ctx, setKey, toArgs(added)...)
			p.RPush(ctx, queueKey, toArgs(added)...)
		}
		if ttl > 0 {
			p.Expire(ctx, setKey, ttl)
			p.Expire(ctx, queueKey, ttl)
		}
		return nil
	})
	c.observe("apply", err)
	if err != nil {
		return fmt.Errorf("redis apply delta +%d -%d on %q: %w", len(added), len(removed), setKey, err)
	}
	return nil
}

func (c *Client) SMembers(ctx context.Context, key string) ([]string, error) {
	out, err := c.rdb.SMembers(ctx, key).Result()
	c.observe("smembers", err)
	if err != nil {
		return nil, fmt.Errorf("redis SMEMBERS %q: %w", key, err)
	}
	return out, nil
}

func (c *Client) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	out, err := c.rdb.LRange(ctx, key, start, stop).Result()
	c.observe("lrange", err)
	if err != nil {
		return nil, fmt.Errorf("redis LRANGE %q: %w", key, err)
	}
	return out, nil
}

// LPopN pops up to n members from the head of a queue.
func (c *Client) LPopN(ctx context.Context, key string, n int) ([]string, error) {
	out, err := c.rdb.LPopCount(ctx, key, n).Result()
	if errors.Is(err, redis.Nil) {
		c.observe("lpop", nil)
		return nil, nil
	}
	c.observe("lpop", err)
	if err != nil {
		return nil, fmt.Errorf("redis LPOP %q %d: %w", key, n, err)
	}
	return out, nil
}

func (c *Client) TTL(ctx context.Context, key string) (time.Duration, error) {
	d, err := c.rdb.TTL(ctx, key).Result()
	c.observe("ttl", err)
	if err != nil {
		return 0, fmt.Errorf("redis TTL %q: %w", key, err)
	}
	return d, nil
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
	err := c.rdb.Del(ctx, keys...).Err()
	c.observe("del", err)
	if err != nil {
		return fmt.Errorf("redis DEL %d keys: %w", len(keys), err)
	}
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	err := c.rdb.Ping(ctx).Err()
	c.observe("ping", err)
	if err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	if err := c.rdb.Close(); err != nil {
		return fmt.Errorf("redis close: %w", err)
	}
	return nil
}

func toArgs(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
