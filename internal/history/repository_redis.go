package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisRepo struct {
	rdb  *redis.Client
	keep int
	ttl  time.Duration
}

// NewRedisRepo keeps up to keep records per session; ttl 0 means no expiry.
func NewRedisRepo(rdb *redis.Client, keep int, ttl time.Duration) Repo {
	if keep <= 0 {
		keep = DefaultKeep
	}
	return &redisRepo{rdb: rdb, keep: keep, ttl: ttl}
}

// key 约定：
//
//	list: hh:session:{sessionID} -> JSON records, newest at the head
func sessionKey(sessionID string) string {
	return fmt.Sprintf("hh:session:%s", sessionID)
}

func (r *redisRepo) Append(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	key := sessionKey(rec.SessionID)
	p := r.rdb.Pipeline()
	p.LPush(ctx, key, data)
	p.LTrim(ctx, key, 0, int64(r.keep-1))
	if r.ttl > 0 {
		p.Expire(ctx, key, r.ttl)
	}
	_, err = p.Exec(ctx)
	return err
}

func (r *redisRepo) Recent(ctx context.Context, sessionID string, n int) ([]Record, error) {
	stop := int64(-1)
	if n > 0 {
		stop = int64(n - 1)
	}
	raw, err := r.rdb.LRange(ctx, sessionKey(sessionID), 0, stop).Result()
	if err == redis.Nil {
		return []Record{}, nil
	}
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(raw))
	for _, s := range raw {
		var rec Record
		if err := json.Unmarshal([]byte(s), &rec); err != nil {
			return nil, fmt.Errorf("decode hand record: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}
