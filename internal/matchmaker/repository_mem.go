package matchmaker

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

type memRepo struct {
	mu      sync.Mutex
	pools   map[string]map[string]struct{} // key -> set(ticketID)
	tickets map[string]Ticket
}

func NewMemoryRepo() Repo {
	return &memRepo{
		pools:   make(map[string]map[string]struct{}),
		tickets: make(map[string]Ticket),
	}
}

func memKey(pool string, tableSize int) string {
	return fmt.Sprintf("mm:pool:%s:%d", pool, tableSize)
}

// 简单忽略 TTL，内存版仅供测试和单机部署
func (m *memRepo) Enqueue(ctx context.Context, t *Ticket, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := memKey(t.Pool, t.TableSize)
	if _, ok := m.pools[key]; !ok {
		m.pools[key] = make(map[string]struct{})
	}
	m.pools[key][t.ID] = struct{}{}
	m.tickets[t.ID] = *t
	return nil
}

func (m *memRepo) PopNRandom(ctx context.Context, pool string, tableSize int, n int) ([]*Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := memKey(pool, tableSize)
	s, ok := m.pools[key]
	if !ok || len(s) < n {
		return []*Ticket{}, nil
	}

	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	out := make([]*Ticket, 0, n)
	for _, id := range ids[:n] {
		delete(s, id)
		t := m.tickets[id]
		out = append(out, &t)
	}
	// ✅ 空池删除（与 Redis 行为对齐）
	if len(s) == 0 {
		delete(m.pools, key)
	}
	return out, nil
}

func (m *memRepo) Remove(ctx context.Context, ticketID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[ticketID]
	if !ok {
		return false, nil
	}
	key := memKey(t.Pool, t.TableSize)
	s := m.pools[key]
	if _, queued := s[ticketID]; !queued {
		return false, nil
	}
	delete(s, ticketID)
	if len(s) == 0 {
		delete(m.pools, key)
	}
	delete(m.tickets, ticketID)
	return true, nil
}

func (m *memRepo) Count(ctx context.Context, pool string, tableSize int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.pools[memKey(pool, tableSize)])), nil
}

func (m *memRepo) SaveTicket(ctx context.Context, t *Ticket, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tickets[t.ID] = *t
	return nil
}

func (m *memRepo) GetTicket(ctx context.Context, ticketID string) (*Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[ticketID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTicketNotFound, ticketID)
	}
	return &t, nil
}
