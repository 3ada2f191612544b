package table

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Phase of a hand. Showdown is terminal; the next hand loops back to PreFlop.
type Phase int

const (
	PreFlop Phase = iota
	Flop
	Turn
	River
	Showdown
)

func (p Phase) String() string {
	switch p {
	case PreFlop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	case Showdown:
		return "showdown"
	}
	return "unknown"
}

// Status of a seat within the current hand.
type Status int

const (
	Active Status = iota
	Folded
	AllIn
	SittingOut
	Eliminated
)

func (s Status) String() string {
	switch s {
	case Active:
		return "Active"
	case Folded:
		return "Folded"
	case AllIn:
		return "AllIn"
	case SittingOut:
		return "SittingOut"
	case Eliminated:
		return "Eliminated"
	}
	return "Unknown"
}

// Player is one seat at the table. Seats are never removed, eliminated
// players are skipped.
type Player struct {
	ID     string
	Name   string
	Chips  int64
	Hole   []Card
	Bet    int64 // contribution on the current street
	Status Status
}

func NewPlayer(id, name string, chips int64) *Player {
	return &Player{ID: id, Name: name, Chips: chips, Status: Active}
}

// Commit moves up to amount chips from the stack into the current street,
// returning what was actually paid. An emptied stack goes all-in.
func (p *Player) Commit(amount int64) int64 {
	if amount > p.Chips {
		amount = p.Chips
	}
	if amount < 0 {
		amount = 0
	}
	p.Chips -= amount
	p.Bet += amount
	if p.Chips == 0 {
		p.Status = AllIn
	}
	return amount
}

// ResetForHand clears per-hand state. Ejected seats stay out for good.
func (p *Player) ResetForHand(ejected bool) {
	p.Hole = p.Hole[:0]
	p.Bet = 0
	switch {
	case ejected:
		p.Status = Eliminated
	case p.Chips > 0:
		p.Status = Active
	default:
		p.Status = Eliminated
	}
}

// ActionKind enumerates the five player actions.
type ActionKind int

const (
	ActFold ActionKind = iota
	ActCheck
	ActCall
	ActRaise
	ActAllIn
)

func (k ActionKind) String() string {
	switch k {
	case ActFold:
		return "fold"
	case ActCheck:
		return "check"
	case ActCall:
		return "call"
	case ActRaise:
		return "raise"
	case ActAllIn:
		return "allin"
	}
	return "unknown"
}

// ParseActionKind accepts the wire names ("fold", "allin", "all_in", ...).
func ParseActionKind(s string) (ActionKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fold":
		return ActFold, nil
	case "check":
		return ActCheck, nil
	case "call":
		return ActCall, nil
	case "raise":
		return ActRaise, nil
	case "allin", "all_in", "all-in":
		return ActAllIn, nil
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// Action is what a seat does on its turn. Amount is only meaningful for
// ActRaise and is the increment above the current table bet, not the new total.
type Action struct {
	Kind   ActionKind
	Amount int64
}

func (a Action) String() string {
	if a.Kind == ActRaise {
		return fmt.Sprintf("raise(%d)", a.Amount)
	}
	return a.Kind.String()
}

type actionJSON struct {
	Type   string `json:"type"`
	Amount int64  `json:"amount,omitempty"`
}

func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(actionJSON{Type: a.Kind.String(), Amount: a.Amount})
}

func (a *Action) UnmarshalJSON(data []byte) error {
	var raw actionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	kind, err := ParseActionKind(raw.Type)
	if err != nil {
		return err
	}
	if kind == ActRaise && raw.Amount <= 0 {
		return fmt.Errorf("raise needs a positive amount")
	}
	a.Kind = kind
	a.Amount = 0
	if kind == ActRaise {
		a.Amount = raw.Amount
	}
	return nil
}
