package engine

import (
	"fmt"

	"HoldemServer/internal/game/table"
)

// Apply is the only way a seat changes the hand. The action is validated in
// full before anything is mutated, so a rejected action leaves the table as
// it was. The results of any hands settled as a consequence are returned.
func (e *Engine) Apply(seat int, a table.Action) ([]HandResult, error) {
	if e.phase == table.Showdown {
		return nil, ErrHandOver
	}
	if seat < 0 || seat >= len(e.seats) {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchSeat, seat)
	}
	if seat != e.turn {
		return nil, ErrNotYourTurn
	}
	p := e.seats[seat]
	if p.Status != table.Active {
		return nil, fmt.Errorf("%w (%s)", ErrNotActive, p.Status)
	}

	toCall := max(e.currentBet-p.Bet, 0)

	switch a.Kind {
	case table.ActFold:
		p.Status = table.Folded
		e.logf("%s folds", p.Name)

	case table.ActCheck:
		if toCall > 0 {
			return nil, fmt.Errorf("%w (%d to call)", ErrCannotCheck, toCall)
		}
		e.logf("%s checks", p.Name)

	case table.ActCall:
		if toCall == 0 {
			e.logf("%s checks", p.Name)
			break
		}
		paid := e.pay(p, toCall)
		if p.Status == table.AllIn {
			e.logf("%s calls %d and is all-in", p.Name, paid)
		} else {
			e.logf("%s calls %d", p.Name, paid)
		}

	case table.ActRaise:
		if minRaise := e.MinRaise(); a.Amount < minRaise {
			return nil, fmt.Errorf("%w (minimum %d, got %d)", ErrRaiseTooSmall, minRaise, a.Amount)
		}
		// 先比较再相加，超大的 amount 不能溢出
		if a.Amount > p.Chips-toCall {
			return nil, fmt.Errorf("%w (raise %d over a %d call, has %d)", ErrRaiseExceedsStack, a.Amount, toCall, p.Chips)
		}
		e.pay(p, toCall+a.Amount)
		e.currentBet += a.Amount
		e.lastRaise = a.Amount
		e.reopen(seat)
		e.logf("%s raises to %d", p.Name, e.currentBet)

	case table.ActAllIn:
		paid := e.pay(p, p.Chips)
		if p.Bet > e.currentBet {
			// only a full-sized raise sets the next minimum
			if inc := p.Bet - e.currentBet; inc >= e.lastRaise {
				e.lastRaise = inc
			}
			e.currentBet = p.Bet
			e.reopen(seat)
		}
		e.logf("%s goes all-in with %d", p.Name, paid)

	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownAction, a.Kind)
	}

	e.acted[seat] = true
	return e.afterAction(), nil
}

// Eject removes a seat for the rest of the session. If it is on turn it is
// folded and play moves on; otherwise it simply stops contending.
func (e *Engine) Eject(seat int) ([]HandResult, error) {
	if seat < 0 || seat >= len(e.seats) {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchSeat, seat)
	}
	if e.ejected[seat] {
		return nil, nil
	}
	e.ejected[seat] = true
	p := e.seats[seat]
	e.logf("%s is removed from the table", p.Name)

	if e.phase == table.Showdown {
		p.Status = table.Eliminated
		return nil, nil
	}

	switch p.Status {
	case table.Active:
		p.Status = table.Eliminated
		if seat == e.turn {
			return e.afterAction(), nil
		}
		if e.roundComplete() {
			return e.closeRound(), nil
		}
	case table.AllIn:
		// chips already in the pot stay live until the hand ends
	default:
		p.Status = table.Eliminated
	}
	return nil, nil
}

func (e *Engine) pay(p *table.Player, amount int64) int64 {
	paid := p.Commit(amount)
	e.pot += paid
	return paid
}

// reopen makes every other seat act again after a raise.
func (e *Engine) reopen(raiser int) {
	for i := range e.acted {
		if i != raiser {
			e.acted[i] = false
		}
	}
}

func (e *Engine) counts() (active, allIn int) {
	for _, p := range e.seats {
		switch p.Status {
		case table.Active:
			active++
		case table.AllIn:
			allIn++
		}
	}
	return active, allIn
}

// soleSurvivor: everyone else folded and nobody is all-in.
func (e *Engine) soleSurvivor() bool {
	active, allIn := e.counts()
	return active == 1 && allIn == 0
}

// bettingClosed reports that nobody is left to make a decision: no Active
// seat, or a single Active seat that already covers every all-in.
func (e *Engine) bettingClosed() bool {
	active, allIn := e.counts()
	if active == 0 {
		return true
	}
	if active > 1 || allIn == 0 {
		return false
	}
	for _, p := range e.seats {
		if p.Status == table.Active {
			return p.Bet >= e.currentBet
		}
	}
	return false
}

func (e *Engine) needsAction(i int) bool {
	p := e.seats[i]
	return p.Status == table.Active && p.Chips > 0 && (!e.acted[i] || p.Bet != e.currentBet)
}

func (e *Engine) roundComplete() bool {
	if e.soleSurvivor() || e.bettingClosed() {
		return true
	}
	for i := range e.seats {
		if e.needsAction(i) {
			return false
		}
	}
	return true
}

// afterAction closes the round or passes the turn to the next seat that
// still owes a decision. A full lap finding nobody closes the round too.
func (e *Engine) afterAction() []HandResult {
	if e.roundComplete() {
		return e.closeRound()
	}
	n := len(e.seats)
	for k := 1; k <= n; k++ {
		i := (e.turn + k) % n
		if e.needsAction(i) {
			e.turn = i
			return nil
		}
	}
	return e.closeRound()
}

// nextActive is the first Active seat clockwise after from, or from itself
// when there is none.
func (e *Engine) nextActive(from int) int {
	n := len(e.seats)
	for k := 1; k <= n; k++ {
		i := (from + k) % n
		if e.seats[i].Status == table.Active {
			return i
		}
	}
	return from
}
