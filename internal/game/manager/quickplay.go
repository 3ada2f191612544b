package manager

import (
	"context"
	"fmt"
	"strings"

	"HoldemServer/internal/matchmaker"
	"HoldemServer/internal/utils"
)

// SeatRoom turns a matched quick-play room into a running session: it
// creates the table with the pool's stakes, seats every ticket in order and
// deals the first hand. It is the matchmaker's OnRoomReady callback.
func (m *GameManager) SeatRoom(ctx context.Context, room *matchmaker.Room) ([]matchmaker.Assignment, error) {
	id, err := m.Create(Settings{
		Name:          "quick " + room.Pool,
		MaxPlayers:    room.TableSize,
		StartingChips: room.Stakes.StartingChips,
		SmallBlind:    room.Stakes.SmallBlind,
		BigBlind:      room.Stakes.BigBlind,
	})
	if err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(room.Tickets))
	out := make([]matchmaker.Assignment, 0, len(room.Tickets))
	for i, t := range room.Tickets {
		// 同名的票加序号区分
		name := t.Name
		if taken[strings.ToLower(name)] {
			name = fmt.Sprintf("%s#%d", name, i+1)
		}
		taken[strings.ToLower(name)] = true

		res, err := m.Join(ctx, id, name, Human)
		if err != nil {
			m.discard(id)
			return nil, fmt.Errorf("seat %s: %w", t.ID, err)
		}
		out = append(out, matchmaker.Assignment{
			SessionID: id,
			PlayerID:  res.PlayerID,
			AuthToken: res.Token,
			Seat:      res.Seat,
		})
	}

	if err := m.Start(ctx, id); err != nil {
		m.discard(id)
		return nil, err
	}
	utils.Log.Info("quick-play session started", "session", id, "room", room.ID, "pool", room.Pool)
	return out, nil
}

func (m *GameManager) discard(id string) {
	m.mu.Lock()
	delete(m.rooms, id)
	m.mu.Unlock()
}
