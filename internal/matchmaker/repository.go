package matchmaker

import (
	"context"
	"time"
)

// Repo 定义对匹配池的抽象操作
type Repo interface {
	// Enqueue 保存 ticket 并加入对应的池（pool+tableSize）
	Enqueue(ctx context.Context, t *Ticket, ttl time.Duration) error
	// PopNRandom 随机弹出 n 张票（原子）；过期的票会被跳过
	PopNRandom(ctx context.Context, pool string, tableSize int, n int) ([]*Ticket, error)
	// Remove 把还在排队的票移出池并删除；不在排队返回 false
	Remove(ctx context.Context, ticketID string) (bool, error)
	// Count 返回池内人数
	Count(ctx context.Context, pool string, tableSize int) (int64, error)
	// SaveTicket 覆盖保存（写入成桌结果）
	SaveTicket(ctx context.Context, t *Ticket, ttl time.Duration) error
	// GetTicket 查询；不存在返回 ErrTicketNotFound
	GetTicket(ctx context.Context, ticketID string) (*Ticket, error)
}
