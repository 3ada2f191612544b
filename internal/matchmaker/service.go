package matchmaker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"HoldemServer/internal/utils"
)

const (
	DefaultPool      = "default"
	DefaultTicketTTL = 10 * time.Minute

	minTableSize = 2
	maxTableSize = 10
)

// Seater 把一桌票安排进新对局并开局，返回与 Tickets 一一对应的座位
type Seater func(ctx context.Context, room *Room) ([]Assignment, error)

type Service struct {
	repo      Repo
	ticketTTL time.Duration
	pools     map[string]Stakes
	now       func() time.Time

	OnRoomReady Seater // ✅ 成桌时同步调用
}

func NewService(repo Repo, ticketTTL time.Duration, pools map[string]Stakes) *Service {
	if ticketTTL <= 0 {
		ticketTTL = DefaultTicketTTL
	}
	return &Service{repo: repo, ticketTTL: ticketTTL, pools: pools, now: time.Now}
}

// Join 入队并尝试立即成桌（随机）。成桌时返回的票已带座位。
func (s *Service) Join(ctx context.Context, req JoinRequest) (*Ticket, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if req.Pool == "" {
		req.Pool = DefaultPool
	}
	if req.TableSize == 0 {
		req.TableSize = minTableSize
	}
	if req.TableSize < minTableSize || req.TableSize > maxTableSize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTableSize, req.TableSize)
	}
	stakes, ok := s.pools[req.Pool]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPool, req.Pool)
	}

	t := &Ticket{
		ID:        uuid.NewString(),
		Name:      name,
		Pool:      req.Pool,
		TableSize: req.TableSize,
		CreatedAt: s.now(),
	}
	if err := s.repo.Enqueue(ctx, t, s.ticketTTL); err != nil {
		return nil, err
	}
	utils.Log.Info("ticket queued", "ticket", t.ID, "name", name, "pool", t.Pool, "size", t.TableSize)

	// 判断人数是否满足，满足则原子随机弹出 N 张（不一定包含刚入队者）
	cnt, err := s.repo.Count(ctx, t.Pool, t.TableSize)
	if err != nil {
		return nil, err
	}
	if int(cnt) < t.TableSize {
		return t, nil
	}
	tickets, err := s.repo.PopNRandom(ctx, t.Pool, t.TableSize, t.TableSize)
	if err != nil {
		return nil, err
	}
	if len(tickets) < t.TableSize {
		// 并发竞争或票过期导致人数不足：弹出的放回去
		s.requeue(ctx, tickets)
		return t, nil
	}

	room := &Room{
		ID:        uuid.NewString(),
		Pool:      t.Pool,
		TableSize: t.TableSize,
		Stakes:    stakes,
		Tickets:   tickets,
		CreatedAt: s.now(),
	}
	if err := s.seat(ctx, room); err != nil {
		s.requeue(ctx, tickets)
		return nil, err
	}

	for _, mt := range tickets {
		if mt.ID == t.ID {
			return mt, nil
		}
	}
	return t, nil
}

func (s *Service) seat(ctx context.Context, room *Room) error {
	if s.OnRoomReady == nil {
		return fmt.Errorf("no seater configured")
	}
	seats, err := s.OnRoomReady(ctx, room)
	if err != nil {
		utils.Log.Error("seating matched room failed", "room", room.ID, "err", err)
		return err
	}
	if len(seats) != len(room.Tickets) {
		return fmt.Errorf("seater returned %d seats for %d tickets", len(seats), len(room.Tickets))
	}
	for i, t := range room.Tickets {
		a := seats[i]
		t.Assignment = &a
		if err := s.repo.SaveTicket(ctx, t, s.ticketTTL); err != nil {
			utils.Log.Error("save ticket failed", "ticket", t.ID, "err", err)
		}
	}
	utils.Log.Info("room matched", "room", room.ID, "session", seats[0].SessionID, "players", room.Names())
	return nil
}

func (s *Service) requeue(ctx context.Context, tickets []*Ticket) {
	for _, t := range tickets {
		t.Assignment = nil
		if err := s.repo.Enqueue(ctx, t, s.ticketTTL); err != nil {
			utils.Log.Error("requeue ticket failed", "ticket", t.ID, "err", err)
		}
	}
}

// Status 查询票：排队中或已分配座位
func (s *Service) Status(ctx context.Context, ticketID string) (*Ticket, error) {
	return s.repo.GetTicket(ctx, ticketID)
}

// Cancel 取消排队；已成桌或不存在的票返回 ErrTicketNotFound
func (s *Service) Cancel(ctx context.Context, ticketID string) error {
	ok, err := s.repo.Remove(ctx, ticketID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrTicketNotFound, ticketID)
	}
	utils.Log.Info("ticket cancelled", "ticket", ticketID)
	return nil
}

// Pools 返回可选的匹配池名字
func (s *Service) Pools() map[string]Stakes {
	out := make(map[string]Stakes, len(s.pools))
	for k, v := range s.pools {
		out[k] = v
	}
	return out
}
