package history

import (
	"context"
	"sync"
)

type memRepo struct {
	mu   sync.Mutex
	keep int
	recs map[string][]Record // sessionID -> oldest first
}

func NewMemoryRepo(keep int) Repo {
	if keep <= 0 {
		keep = DefaultKeep
	}
	return &memRepo{keep: keep, recs: make(map[string][]Record)}
}

func (m *memRepo) Append(ctx context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := append(m.recs[rec.SessionID], rec)
	if len(list) > m.keep {
		list = list[len(list)-m.keep:]
	}
	m.recs[rec.SessionID] = list
	return nil
}

func (m *memRepo) Recent(ctx context.Context, sessionID string, n int) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.recs[sessionID]
	if n <= 0 || n > len(list) {
		n = len(list)
	}
	out := make([]Record, 0, n)
	for i := len(list) - 1; i >= len(list)-n; i-- {
		out = append(out, list[i])
	}
	return out, nil
}
