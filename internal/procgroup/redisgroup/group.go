// Package redisgroup implements procgroup.Group on top of redis lists, for
// process groups whose members share nothing but a redis server.
//
// The i-th collective call of every member meets on the key
// `<namespace>:broadcast:<i>`. The origin pushes one copy of the value per
// receiving member; every other member pops its copy with BLPOP, polling so
// that a cancelled context is noticed within one poll interval.
package redisgroup

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/specialistvlad/extractgrid/internal/procgroup"
)

// Options configures a redis-backed group member.
type Options struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379")
	URL string
	// Namespace prefixes every key. All members of a group must agree on it,
	// and it must be unique per run.
	Namespace string
	Rank      int
	Size      int
	// TTL bounds how long an unconsumed broadcast survives.
	TTL time.Duration
	// ConnectTimeout is the maximum time to wait for connection establishment
	ConnectTimeout time.Duration
	// PollInterval bounds each BLPOP. Redis counts it in whole seconds.
	PollInterval time.Duration
}

// Group is one member of a redis-backed process group.
type Group struct {
	client    *redis.Client
	namespace string
	rank      int
	size      int
	ttl       time.Duration
	poll      time.Duration
	epoch     int
}

var _ procgroup.Group = (*Group)(nil)

// Dial connects to redis and returns a group member.
func Dial(ctx context.Context, opts Options) (*Group, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	redisOpts.DialTimeout = opts.ConnectTimeout

	client := redis.NewClient(redisOpts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	g, err := New(client, opts)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return g, nil
}

// New wraps an existing client.
func New(client *redis.Client, opts Options) (*Group, error) {
	if opts.Size < 1 {
		return nil, fmt.Errorf("group size must be positive, got %d", opts.Size)
	}
	if opts.Rank < 0 || opts.Rank >= opts.Size {
		return nil, fmt.Errorf("rank %d out of range for group of size %d", opts.Rank, opts.Size)
	}
	if opts.Namespace == "" {
		return nil, fmt.Errorf("a namespace is required")
	}
	if opts.TTL == 0 {
		opts.TTL = 10 * time.Minute
	}
	if opts.PollInterval < time.Second {
		opts.PollInterval = time.Second
	}
	return &Group{
		client:    client,
		namespace: opts.Namespace,
		rank:      opts.Rank,
		size:      opts.Size,
		ttl:       opts.TTL,
		poll:      opts.PollInterval,
	}, nil
}

// LocalRank implements procgroup.Group.
func (g *Group) LocalRank() int { return g.rank }

// Size implements procgroup.Group.
func (g *Group) Size() int { return g.size }

// Broadcast implements procgroup.Group.
func (g *Group) Broadcast(ctx context.Context, value *int, origin int) error {
	if origin < 0 || origin >= g.size {
		return fmt.Errorf("broadcast origin %d out of range for group of size %d", origin, g.size)
	}
	g.epoch++
	key := g.key(g.epoch)

	if g.rank == origin {
		if g.size == 1 {
			return nil
		}
		copies := make([]any, g.size-1)
		for i := range copies {
			copies[i] = strconv.Itoa(*value)
		}
		pipe := g.client.TxPipeline()
		pipe.RPush(ctx, key, copies...)
		pipe.Expire(ctx, key, g.ttl)
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("failed to publish broadcast %d: %w", g.epoch, err)
		}
		return nil
	}

	res, err := g.receive(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to receive broadcast %d: %w", g.epoch, err)
	}
	if len(res) != 2 {
		return fmt.Errorf("unexpected BLPOP reply for broadcast %d: %v", g.epoch, res)
	}
	received, err := strconv.Atoi(res[1])
	if err != nil {
		return fmt.Errorf("failed to decode broadcast %d: %w", g.epoch, err)
	}
	*value = received
	return nil
}

// receive pops this member's copy from key. go-redis does not interrupt a
// blocking read when ctx is cancelled, so each BLPOP is bounded by the poll
// interval and ctx is checked in between.
func (g *Group) receive(ctx context.Context, key string) ([]string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := g.client.BLPop(ctx, g.poll, key).Result()
		switch {
		case errors.Is(err, redis.Nil):
			continue
		case err != nil:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, err
		}
		return res, nil
	}
}

func (g *Group) key(epoch int) string {
	return fmt.Sprintf("%s:broadcast:%d", g.namespace, epoch)
}

// Close closes the Redis connection.
func (g *Group) Close() error {
	return g.client.Close()
}
