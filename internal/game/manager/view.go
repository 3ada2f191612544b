package manager

import "HoldemServer/internal/game/table"

type SeatView struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Chips      int64      `json:"chips"`
	CurrentBet int64      `json:"current_bet"`
	Status     string     `json:"status"`
	Kind       PlayerKind `json:"player_type"`
	Cards      []string   `json:"cards,omitempty"`
}

type LastHand struct {
	WinnerID    string   `json:"winner_id"`
	WinnerName  string   `json:"winner_name"`
	Amount      int64    `json:"amount"`
	Description string   `json:"description"`
	Cards       []string `json:"cards"`
}

// View 按观察者裁剪后的局面，只有观察者自己的底牌可见
type View struct {
	SessionID       string     `json:"session_id"`
	Name            string     `json:"name"`
	Phase           string     `json:"phase"`
	HandNumber      int        `json:"hand_number"`
	Pot             int64      `json:"pot"`
	CurrentBet      int64      `json:"current_bet"`
	MinRaise        int64      `json:"min_raise"`
	Community       []string   `json:"community_cards"`
	Players         []SeatView `json:"players"`
	DealerID        string     `json:"dealer_id,omitempty"`
	CurrentPlayerID string     `json:"current_player_id,omitempty"`
	YourPlayerID    string     `json:"your_player_id,omitempty"`
	YourChips       *int64     `json:"your_chips,omitempty"`
	YourCards       []string   `json:"your_cards,omitempty"`
	ValidActions    []string   `json:"valid_actions"`
	GameFinished    bool       `json:"game_finished"`
	WinnerID        string     `json:"winner_id,omitempty"`
	WinnerName      string     `json:"winner_name,omitempty"`
	ActionLog       []string   `json:"action_log"`
	LastHand        *LastHand  `json:"last_hand,omitempty"`
}

// View projects a session for viewerID. An empty or unknown viewer is a
// spectator and sees no hole cards at all.
func (m *GameManager) View(sessionID, viewerID string) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.room(sessionID)
	if err != nil {
		return View{}, err
	}
	e := r.eng
	seats := e.Seats()

	v := View{
		SessionID:    r.ID,
		Name:         r.Name,
		Phase:        r.phaseName(),
		HandNumber:   e.HandNumber(),
		Pot:          e.Pot(),
		CurrentBet:   e.CurrentBet(),
		MinRaise:     e.MinRaise(),
		Community:    table.CardStrings(e.Community()),
		Players:      make([]SeatView, len(seats)),
		ValidActions: []string{},
		GameFinished: r.finished,
	}

	viewer, seated := r.seatOf[viewerID]
	for i, p := range seats {
		sv := SeatView{
			ID:         p.ID,
			Name:       p.Name,
			Chips:      p.Chips,
			CurrentBet: p.Bet,
			Status:     p.Status.String(),
			Kind:       r.players[i].Kind,
		}
		if seated && i == viewer {
			sv.Cards = table.CardStrings(p.Hole)
			chips := p.Chips
			v.YourPlayerID = p.ID
			v.YourChips = &chips
			v.YourCards = sv.Cards
		}
		v.Players[i] = sv
	}

	live := r.started && !r.finished && e.Phase() != table.Showdown
	if r.started && len(seats) > 0 {
		v.DealerID = seats[e.Dealer()].ID
	}
	if live {
		v.CurrentPlayerID = seats[e.Turn()].ID
		if seated && viewer == e.Turn() {
			for _, a := range e.LegalActions() {
				v.ValidActions = append(v.ValidActions, a.Kind.String())
			}
		}
	}

	if r.finished && r.winner >= 0 {
		w := seats[r.winner]
		v.WinnerID = w.ID
		v.WinnerName = w.Name
		// 结束后 pot 显示冠军的最终筹码
		v.Pot = w.Chips
	}

	log := e.Log()
	if over := len(log) - m.opts.LogTail; over > 0 {
		log = log[over:]
	}
	v.ActionLog = log

	if h := r.lastHand; h != nil {
		v.LastHand = &LastHand{
			WinnerID:    h.PlayerID,
			WinnerName:  h.Name,
			Amount:      h.Amount,
			Description: h.Description,
			Cards:       table.CardStrings(h.Cards),
		}
	}
	return v, nil
}
