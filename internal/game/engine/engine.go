package engine

import (
	"errors"
	"fmt"
	"time"

	"HoldemServer/internal/game/dealer"
	"HoldemServer/internal/game/table"
)

var (
	ErrHandOver          = errors.New("no hand in progress")
	ErrNoSuchSeat        = errors.New("no such seat")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrNotActive         = errors.New("player cannot act")
	ErrCannotCheck       = errors.New("cannot check, a call is owed")
	ErrRaiseTooSmall     = errors.New("raise below the minimum")
	ErrRaiseExceedsStack = errors.New("raise exceeds stack")
	ErrUnknownAction     = errors.New("unknown action")
)

const (
	defaultLogLimit = 500

	// an all-in run-out may deal straight into another one
	maxAutoHands = 100
)

// Config holds the per-table betting structure.
type Config struct {
	SmallBlind int64
	BigBlind   int64
	LogLimit   int

	// Deck returns the deck for the next hand. Nil means a freshly shuffled
	// deck from a time-seeded dealer.
	Deck func() *dealer.Deck
}

// HandResult is the settlement of one hand.
type HandResult struct {
	HandNumber  int          `json:"hand_number"`
	Seat        int          `json:"seat"`
	PlayerID    string       `json:"player_id"`
	Name        string       `json:"name"`
	Amount      int64        `json:"amount"`
	Description string       `json:"description"`
	Cards       []table.Card `json:"cards"`
	ByShowdown  bool         `json:"by_showdown"`
}

// Engine is the state of one table: seats, the single pot and the phase
// machine driving a hand from the blinds to the showdown. It is not safe for
// concurrent use; the session manager serializes every call.
type Engine struct {
	cfg Config

	seats   []*table.Player
	acted   []bool
	ejected []bool

	pot        int64
	currentBet int64
	lastRaise  int64

	community []table.Card
	deck      *dealer.Deck
	phase     table.Phase
	dealer    int
	turn      int

	handNo int
	last   []HandResult
	log    []string
}

func New(cfg Config) *Engine {
	if cfg.LogLimit <= 0 {
		cfg.LogLimit = defaultLogLimit
	}
	if cfg.Deck == nil {
		d := dealer.NewDealer(time.Now().UnixNano())
		cfg.Deck = d.Fresh
	}
	return &Engine{
		cfg:       cfg,
		lastRaise: cfg.BigBlind,
		// nothing to act on until the first hand is dealt
		phase: table.Showdown,
	}
}

// Seat adds a player and returns its seat index.
func (e *Engine) Seat(id, name string, chips int64) int {
	p := table.NewPlayer(id, name, chips)
	if chips <= 0 {
		p.Status = table.Eliminated
	}
	e.seats = append(e.seats, p)
	e.acted = append(e.acted, false)
	e.ejected = append(e.ejected, false)
	return len(e.seats) - 1
}

// Annotate appends a table-level line to the action log.
func (e *Engine) Annotate(line string) {
	e.appendLog(line)
}

func (e *Engine) logf(format string, args ...any) {
	e.appendLog(fmt.Sprintf(format, args...))
}

func (e *Engine) appendLog(line string) {
	e.log = append(e.log, line)
	if over := len(e.log) - e.cfg.LogLimit; over > 0 {
		e.log = append([]string(nil), e.log[over:]...)
	}
}

func (e *Engine) Phase() table.Phase { return e.phase }
func (e *Engine) Pot() int64         { return e.pot }
func (e *Engine) CurrentBet() int64  { return e.currentBet }
func (e *Engine) Turn() int          { return e.turn }
func (e *Engine) Dealer() int        { return e.dealer }
func (e *Engine) HandNumber() int    { return e.handNo }
func (e *Engine) SeatCount() int     { return len(e.seats) }

// MinRaise is the smallest legal raise increment on this street.
func (e *Engine) MinRaise() int64 {
	return max(e.cfg.BigBlind, e.lastRaise)
}

func (e *Engine) Community() []table.Card {
	return append([]table.Card(nil), e.community...)
}

// Seats returns copies; callers never touch live seats.
func (e *Engine) Seats() []table.Player {
	out := make([]table.Player, len(e.seats))
	for i, p := range e.seats {
		out[i] = *p
		out[i].Hole = append([]table.Card(nil), p.Hole...)
	}
	return out
}

func (e *Engine) Log() []string {
	return append([]string(nil), e.log...)
}

// LastResult is the settlement of the most recently finished hand.
func (e *Engine) LastResult() (HandResult, bool) {
	if len(e.last) == 0 {
		return HandResult{}, false
	}
	r := e.last[len(e.last)-1]
	r.Cards = append([]table.Card{}, r.Cards...)
	return r, true
}

func (e *Engine) Ejected(seat int) bool {
	return seat >= 0 && seat < len(e.ejected) && e.ejected[seat]
}

// Playable counts seats that can be dealt into another hand. Only meaningful
// between hands: mid-hand an all-in seat shows no chips until the pot is settled.
func (e *Engine) Playable() int {
	n := 0
	for i, p := range e.seats {
		if p.Chips > 0 && !e.ejected[i] {
			n++
		}
	}
	return n
}

// LegalActions lists what the seat on turn may do. A Raise entry carries the
// minimum increment.
func (e *Engine) LegalActions() []table.Action {
	if e.phase == table.Showdown || len(e.seats) == 0 {
		return nil
	}
	p := e.seats[e.turn]
	if p.Status != table.Active {
		return nil
	}

	actions := []table.Action{{Kind: table.ActFold}}
	toCall := e.currentBet - p.Bet
	switch {
	case toCall <= 0:
		actions = append(actions, table.Action{Kind: table.ActCheck})
	case p.Chips >= toCall:
		actions = append(actions, table.Action{Kind: table.ActCall})
	}
	if minRaise := e.MinRaise(); p.Chips > max(toCall, 0)+minRaise {
		actions = append(actions, table.Action{Kind: table.ActRaise, Amount: minRaise})
	}
	if p.Chips > 0 {
		actions = append(actions, table.Action{Kind: table.ActAllIn})
	}
	return actions
}
