package matchmaker

import (
	"errors"
	"time"
)

var (
	ErrTicketNotFound   = errors.New("ticket not found")
	ErrUnknownPool      = errors.New("unknown pool")
	ErrInvalidTableSize = errors.New("invalid table size")
	ErrNameRequired     = errors.New("name required")
)

// JoinRequest 快速开局请求
type JoinRequest struct {
	Name      string `json:"name" binding:"required"`
	Pool      string `json:"pool"`       // 例如 "default"、"high"；空则用默认池
	TableSize int    `json:"table_size"` // 2..10，空则 2
}

// JoinResponse 排队中只有 ticket；成桌后带上座位与令牌
type JoinResponse struct {
	Queued     bool        `json:"queued"`
	TicketID   string      `json:"ticket_id"`
	Pool       string      `json:"pool"`
	TableSize  int         `json:"table_size"`
	Assignment *Assignment `json:"assignment,omitempty"`
}

// CancelRequest 取消排队
type CancelRequest struct {
	TicketID string `json:"ticket_id" binding:"required"`
}

// Stakes 一个匹配池的盲注与初始筹码
type Stakes struct {
	StartingChips int64 `json:"starting_chips" mapstructure:"starting_chips"`
	SmallBlind    int64 `json:"small_blind" mapstructure:"small_blind"`
	BigBlind      int64 `json:"big_blind" mapstructure:"big_blind"`
}

// Assignment 成桌后分配给某张票的座位
type Assignment struct {
	SessionID string `json:"session_id"`
	PlayerID  string `json:"player_id"`
	AuthToken string `json:"auth_token"`
	Seat      int    `json:"seat_position"`
}

// Ticket 排队凭证；ID 本身就是查询结果的凭据
type Ticket struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Pool       string      `json:"pool"`
	TableSize  int         `json:"table_size"`
	CreatedAt  time.Time   `json:"created_at"`
	Assignment *Assignment `json:"assignment,omitempty"`
}

func (t *Ticket) Queued() bool { return t.Assignment == nil }

// Room 组桌结果
type Room struct {
	ID        string
	Pool      string
	TableSize int
	Stakes    Stakes
	Tickets   []*Ticket
	CreatedAt time.Time
}

func (r *Room) Names() []string {
	out := make([]string, len(r.Tickets))
	for i, t := range r.Tickets {
		out[i] = t.Name
	}
	return out
}
