package matchmaker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisRepo struct {
	rdb *redis.Client
}

func NewRedisRepo(rdb *redis.Client) Repo {
	return &redisRepo{rdb: rdb}
}

// key 约定：
//
//	set: mm:pool:{pool}:{tableSize}   -> Set(ticketID,...)
//	kv : mm:ticket:{ticketID}         -> Ticket JSON，带 TTL，避免长期遗留
func poolKey(pool string, tableSize int) string {
	return fmt.Sprintf("mm:pool:%s:%d", pool, tableSize)
}
func ticketKey(id string) string {
	return fmt.Sprintf("mm:ticket:%s", id)
}

// KEYS[1] = ticketKey, KEYS[2] = poolKey, ARGV[1] = ticketID
// 只有还在池里的票才删除；集合空了顺手删掉
var removeScript = redis.NewScript(`
	if redis.call("SREM", KEYS[2], ARGV[1]) == 0 then
		return 0
	end
	redis.call("DEL", KEYS[1])
	if redis.call("SCARD", KEYS[2]) == 0 then
		redis.call("DEL", KEYS[2])
	end
	return 1
`)

func (r *redisRepo) Enqueue(ctx context.Context, t *Ticket, ttl time.Duration) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	p := r.rdb.TxPipeline()
	p.Set(ctx, ticketKey(t.ID), data, ttl)
	p.SAdd(ctx, poolKey(t.Pool, t.TableSize), t.ID)
	_, err = p.Exec(ctx)
	return err
}

func (r *redisRepo) PopNRandom(ctx context.Context, pool string, tableSize int, n int) ([]*Ticket, error) {
	// SPOP COUNT 一次随机弹出 n 个并从集合删除（原子）
	ids, err := r.rdb.SPopN(ctx, poolKey(pool, tableSize), int64(n)).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*Ticket{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = ticketKey(id)
	}
	vals, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*Ticket, 0, len(ids))
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue // 已过期
		}
		var t Ticket
		if err := json.Unmarshal([]byte(s), &t); err != nil {
			continue
		}
		out = append(out, &t)
	}
	return out, nil
}

func (r *redisRepo) Remove(ctx context.Context, ticketID string) (bool, error) {
	t, err := r.GetTicket(ctx, ticketID)
	if errors.Is(err, ErrTicketNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	n, err := removeScript.Run(ctx, r.rdb, []string{ticketKey(t.ID), poolKey(t.Pool, t.TableSize)}, t.ID).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *redisRepo) Count(ctx context.Context, pool string, tableSize int) (int64, error) {
	return r.rdb.SCard(ctx, poolKey(pool, tableSize)).Result()
}

func (r *redisRepo) SaveTicket(ctx context.Context, t *Ticket, ttl time.Duration) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, ticketKey(t.ID), data, ttl).Err()
}

func (r *redisRepo) GetTicket(ctx context.Context, ticketID string) (*Ticket, error) {
	val, err := r.rdb.Get(ctx, ticketKey(ticketID)).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("%w: %s", ErrTicketNotFound, ticketID)
	}
	if err != nil {
		return nil, err
	}
	var t Ticket
	if err := json.Unmarshal([]byte(val), &t); err != nil {
		return nil, fmt.Errorf("decode ticket %s: %w", ticketID, err)
	}
	return &t, nil
}
