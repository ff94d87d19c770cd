package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/resicentral/resicentral/internal/domain/model"
	"github.com/resicentral/resicentral/pkg/metrics"
)

// NewRedisClient creates a go-redis client for the history store.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// RedisStore keeps each user's history in a Redis list, newest at the head.
//
// Keys:
//
//	<prefix>history:<user>  list of JSON-encoded calculations
//	<prefix>history:users   set of users that have a list
type RedisStore struct {
	client    *redis.Client
	retention int
	ttl       time.Duration
	prefix    string
	updater   *statsUpdater
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore wraps client. It does not take ownership of the client
// connection pool; callers close the client after Close.
func NewRedisStore(ctx context.Context, client *redis.Client, opts ...Option) *RedisStore {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	s := &RedisStore{
		client:    client,
		retention: o.retention,
		ttl:       o.ttl,
		prefix:    o.keyPrefix,
	}
	s.updater = startStatsUpdater(ctx, o.metricsUpdateInterval, s.Stats)
	return s
}

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) listKey(userID string) string { return s.prefix + "history:" + userID }
func (s *RedisStore) usersKey() string             { return s.prefix + "history:users" }

// Append implements Store.Append. Push, trim and expiry run in one MULTI/EXEC.
func (s *RedisStore) Append(ctx context.Context, c model.Calculation) error {
	if c.Anonymous() {
		return ErrInvalidUser
	}
	payload, err := json.Marshal(c)
	if err != nil {
		metrics.RecordHistoryError("append")
		return fmt.Errorf("encode calculation %s: %w", c.ID, err)
	}

	key := s.listKey(c.UserID)
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.LPush(ctx, key, payload)
		p.LTrim(ctx, key, 0, int64(s.retention-1))
		p.SAdd(ctx, s.usersKey(), c.UserID)
		if s.ttl > 0 {
			p.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		metrics.RecordHistoryError("append")
		return fmt.Errorf("append history for %s: %w", c.UserID, err)
	}
	metrics.RecordHistoryAppend()
	return nil
}

// List implements Store.List.
func (s *RedisStore) List(ctx context.Context, userID string, limit int) ([]model.Calculation, error) {
	start := time.Now()
	defer func() {
		metrics.RecordHistoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if limit < 1 {
		return nil, ErrInvalidLimit
	}

	raw, err := s.client.LRange(ctx, s.listKey(userID), 0, int64(limit-1)).Result()
	if err != nil {
		metrics.RecordHistoryError("list")
		return nil, fmt.Errorf("list history for %s: %w", userID, err)
	}
	out := make([]model.Calculation, 0, len(raw))
	for _, item := range raw {
		c, err := decodeCalculation(item)
		if err != nil {
			metrics.RecordHistoryError("decode")
			return nil, fmt.Errorf("decode history for %s: %w", userID, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// Stats implements Store.Stats. Users whose list expired are not counted.
func (s *RedisStore) Stats(ctx context.Context) (Stats, error) {
	users, err := s.client.SMembers(ctx, s.usersKey()).Result()
	if err != nil {
		return Stats{}, fmt.Errorf("history users: %w", err)
	}
	if len(users) == 0 {
		return Stats{}, nil
	}

	lens := make([]*redis.IntCmd, len(users))
	_, err = s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, u := range users {
			lens[i] = p.LLen(ctx, s.listKey(u))
		}
		return nil
	})
	if err != nil {
		return Stats{}, fmt.Errorf("history lengths: %w", err)
	}

	var st Stats
	for _, l := range lens {
		if n := l.Val(); n > 0 {
			st.Users++
			st.Entries += int(n)
		}
	}
	return st, nil
}

// Close stops the stats updater.
func (s *RedisStore) Close() error {
	s.updater.stop()
	return nil
}

// decodeCalculation restores a stored calculation. Numeric inputs come back
// as int when integral, matching what the calculators validated.
func decodeCalculation(item string) (model.Calculation, error) {
	var c model.Calculation
	dec := json.NewDecoder(strings.NewReader(item))
	dec.UseNumber()
	if err := dec.Decode(&c); err != nil {
		return c, err
	}
	for name, v := range c.Result.Inputs {
		n, ok := v.(json.Number)
		if !ok {
			continue
		}
		if i, err := n.Int64(); err == nil {
			c.Result.Inputs[name] = int(i)
		} else if f, err := n.Float64(); err == nil {
			c.Result.Inputs[name] = f
		}
	}
	return c, nil
}
