package manager

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"HoldemServer/internal/game/engine"
	"HoldemServer/internal/game/table"
	"HoldemServer/internal/utils"
	"HoldemServer/internal/websocket"
)

// Apply plays an action for an already authenticated player. Engine
// rejections come back unchanged so callers can errors.Is them.
func (m *GameManager) Apply(ctx context.Context, sessionID, playerID string, a table.Action) error {
	m.mu.Lock()
	r, err := m.room(sessionID)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	switch {
	case r.finished:
		err = ErrFinished
	case !r.started:
		err = ErrNotStarted
	}
	idx, ok := r.seatOf[playerID]
	if err == nil && !ok {
		err = fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	if err != nil {
		m.mu.Unlock()
		return err
	}

	results, err := r.eng.Apply(idx, a)
	if err != nil {
		m.mu.Unlock()
		utils.Log.Debug("action rejected", "session", sessionID, "player", playerID, "action", a, "err", err)
		return err
	}

	// 手动操作清零超时计数
	delete(r.strikes, playerID)
	r.lastAction = m.opts.Now()
	eff := m.settle(r, results)
	m.mu.Unlock()

	utils.Log.Debug("action applied", "session", sessionID, "player", playerID, "action", a)
	m.flush(ctx, eff)
	return nil
}

// Submit authenticates the token against the session, then applies.
func (m *GameManager) Submit(ctx context.Context, sessionID, token string, a table.Action) error {
	m.mu.Lock()
	_, err := m.room(sessionID)
	m.mu.Unlock()
	if err != nil {
		return err
	}

	claims, err := m.tokens.Verify(token, sessionID)
	if err != nil {
		return err
	}
	return m.Apply(ctx, sessionID, claims.PlayerID(), a)
}

// HandlePlayerMessage 处理 websocket 上行消息：action 走和 HTTP 一样的路径，chat 转发给同桌
func (m *GameManager) HandlePlayerMessage(msg websocket.IncomingMessage) {
	ctx := context.Background()

	switch msg.Event {
	case "action":
		var a table.Action
		raw, err := json.Marshal(msg.Data)
		if err == nil {
			err = json.Unmarshal(raw, &a)
		}
		if err == nil {
			err = m.Apply(ctx, msg.Session, msg.From, a)
		}
		if err != nil && m.hub != nil {
			m.hub.SendToPlayer(msg.From, websocket.OutgoingMessage{
				Event: websocket.EventActionRejected,
				Data:  map[string]any{"session_id": msg.Session, "error": err.Error()},
			})
		}

	case "chat":
		data, _ := msg.Data.(map[string]any)
		text, _ := data["text"].(string)
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}

		m.mu.Lock()
		r, err := m.room(msg.Session)
		if err != nil {
			m.mu.Unlock()
			return
		}
		idx, ok := r.seatOf[msg.From]
		if !ok {
			m.mu.Unlock()
			return
		}
		name := r.players[idx].Name
		ids := r.ids()
		m.mu.Unlock()

		if m.hub != nil {
			m.hub.BroadcastToPlayers(ids, websocket.OutgoingMessage{
				Event: websocket.EventChat,
				Data:  map[string]any{"session_id": msg.Session, "from": msg.From, "name": name, "text": text},
			})
		}

	default:
		utils.Log.Warn("unknown ws event", "player", msg.From, "event", msg.Event)
	}
}

// CheckTimeouts folds the seat on turn once it has been idle longer than the
// turn timeout. The MaxStrikes-th consecutive timeout ejects the seat for the
// rest of the session. Reports whether anything was forced.
func (m *GameManager) CheckTimeouts(ctx context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	r, err := m.room(sessionID)
	if err != nil {
		m.mu.Unlock()
		return false, err
	}
	now := m.opts.Now()
	if !r.started || r.finished || now.Sub(r.lastAction) <= m.opts.TurnTimeout {
		m.mu.Unlock()
		return false, nil
	}

	var results []engine.HandResult
	if r.eng.Phase() == table.Showdown {
		// 自动连发停在了两手之间，补发一手
		results = r.eng.StartNewHand()
		r.lastAction = now
		eff := m.settle(r, results)
		m.mu.Unlock()

		utils.Log.Warn("stalled table re-dealt", "session", sessionID)
		m.flush(ctx, eff)
		return true, nil
	}

	idx := r.eng.Turn()
	p := r.players[idx]
	r.strikes[p.ID]++
	n := r.strikes[p.ID]

	if n >= m.opts.MaxStrikes {
		r.eng.Annotate(fmt.Sprintf("⏰ %s timed out [%d/%d]", p.Name, n, m.opts.MaxStrikes))
		results, err = r.eng.Eject(idx)
	} else {
		results, err = r.eng.Apply(idx, table.Action{Kind: table.ActFold})
		if err == nil {
			r.eng.Annotate(fmt.Sprintf("⏰ %s timed out (fold) [%d/%d]", p.Name, n, m.opts.MaxStrikes))
		}
	}
	if err != nil {
		// 这一轮不算，下个 tick 再试
		r.strikes[p.ID]--
		m.mu.Unlock()
		utils.Log.Error("forced fold rejected", "session", sessionID, "player", p.ID, "err", err)
		return false, nil
	}

	r.lastAction = now
	eff := m.settle(r, results)
	m.mu.Unlock()

	if n >= m.opts.MaxStrikes {
		utils.Log.Warn("player ejected", "session", sessionID, "player", p.ID, "strikes", n)
	} else {
		utils.Log.Info("player timed out", "session", sessionID, "player", p.ID, "strikes", n)
	}
	m.flush(ctx, eff)
	return true, nil
}

// CheckAllTimeouts sweeps every session once and returns how many were forced.
func (m *GameManager) CheckAllTimeouts(ctx context.Context) int {
	m.mu.Lock()
	ids := make([]string, 0, len(m.rooms))
	for id := range m.rooms {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	forced := 0
	for _, id := range ids {
		ok, err := m.CheckTimeouts(ctx, id)
		if err != nil {
			continue
		}
		if ok {
			forced++
		}
	}
	return forced
}

// RunSweeper 后台定时检查超时，ctx 取消后退出
func (m *GameManager) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	utils.Log.Info("timeout sweeper started", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			utils.Log.Info("timeout sweeper stopped")
			return
		case <-ticker.C:
			m.CheckAllTimeouts(ctx)
		}
	}
}
