package history

import (
	"context"
	"time"

	"HoldemServer/internal/game/engine"
)

// Record 一手牌的结算记录
type Record struct {
	SessionID string `json:"session_id"`
	engine.HandResult
	At time.Time `json:"at"`
}

// Repo 保存每个对局最近的结算记录
type Repo interface {
	// Append 追加一条记录
	Append(ctx context.Context, rec Record) error
	// Recent 返回最近 n 条，最新的在前
	Recent(ctx context.Context, sessionID string, n int) ([]Record, error)
}

// DefaultKeep is how many records a session keeps in the bounded stores.
const DefaultKeep = 200
