package engine

import (
	"strings"

	"HoldemServer/internal/game/dealer"
	"HoldemServer/internal/game/hand"
	"HoldemServer/internal/game/table"
)

// StartNewHand deals the next hand. When nobody can act after the blinds the
// hand is run out to showdown and the following one is dealt, so several
// results may come back. With fewer than two playable seats nothing is dealt
// and the phase stays Showdown.
func (e *Engine) StartNewHand() []HandResult {
	return e.autoDeal(nil)
}

func (e *Engine) autoDeal(results []HandResult) []HandResult {
	for i := 0; i < maxAutoHands; i++ {
		if !e.dealHand() || !e.bettingClosed() {
			return results
		}
		results = append(results, e.runOut()...)
	}
	return results
}

func (e *Engine) dealHand() bool {
	e.phase = table.Showdown
	if e.Playable() < 2 {
		return false
	}

	e.handNo++
	for i, p := range e.seats {
		p.ResetForHand(e.ejected[i])
		e.acted[i] = false
	}
	e.community = nil
	e.pot = 0
	e.currentBet = 0
	e.lastRaise = e.cfg.BigBlind
	e.phase = table.PreFlop

	e.dealer = e.nextActive(e.dealer)
	e.deck = e.cfg.Deck()
	e.logf("--- hand #%d, %s deals ---", e.handNo, e.seats[e.dealer].Name)

	sb := e.nextActive(e.dealer)
	e.postBlind(sb, e.cfg.SmallBlind, "small")
	bb := e.nextActive(sb)
	e.postBlind(bb, e.cfg.BigBlind, "big")
	e.currentBet = e.cfg.BigBlind

	dealer.DealHoleCards(e.deck, e.seats)
	e.turn = e.nextActive(bb)
	return true
}

func (e *Engine) postBlind(seat int, amount int64, which string) {
	p := e.seats[seat]
	paid := e.pay(p, amount)
	if p.Status == table.AllIn {
		e.logf("%s posts %s blind %d and is all-in", p.Name, which, paid)
		return
	}
	e.logf("%s posts %s blind %d", p.Name, which, paid)
}

// closeRound settles an uncontested pot or moves to the next street, running
// further streets while nobody can bet. Bounded by the number of streets.
func (e *Engine) closeRound() []HandResult {
	if e.soleSurvivor() {
		return e.autoDeal(e.winUncontested())
	}
	for i := 0; i < int(table.Showdown); i++ {
		e.advancePhase()
		if e.phase == table.Showdown {
			return e.autoDeal(e.showdown())
		}
		if !e.bettingClosed() {
			return nil
		}
	}
	return nil
}

// runOut deals the remaining streets of a hand nobody can bet in.
func (e *Engine) runOut() []HandResult {
	for e.phase != table.Showdown {
		e.advancePhase()
	}
	return e.showdown()
}

func (e *Engine) advancePhase() {
	for i, p := range e.seats {
		p.Bet = 0
		e.acted[i] = false
	}
	e.currentBet = 0
	e.lastRaise = e.cfg.BigBlind

	switch e.phase {
	case table.PreFlop:
		e.community = append(e.community, dealer.BurnAndDeal(e.deck, 3)...)
		e.phase = table.Flop
	case table.Flop:
		e.community = append(e.community, dealer.BurnAndDeal(e.deck, 1)...)
		e.phase = table.Turn
	case table.Turn:
		e.community = append(e.community, dealer.BurnAndDeal(e.deck, 1)...)
		e.phase = table.River
	case table.River:
		e.phase = table.Showdown
		return
	}
	e.logf("*** %s *** %s", strings.ToUpper(e.phase.String()), strings.Join(table.CardStrings(e.community), " "))
	e.turn = e.nextActive(e.dealer)
}

// showdown awards the whole pot to the best hand among the seats still in.
// Ties are not split: the first of the best hands left of the button wins.
func (e *Engine) showdown() []HandResult {
	e.phase = table.Showdown
	n := len(e.seats)
	winner := -1
	var best hand.Hand
	for k := 1; k <= n; k++ {
		i := (e.dealer + k) % n
		p := e.seats[i]
		if (p.Status != table.Active && p.Status != table.AllIn) || len(p.Hole) != 2 {
			continue
		}
		cards := append(append([]table.Card(nil), p.Hole...), e.community...)
		h := hand.Evaluate(cards)
		if winner < 0 || h.Beats(best) {
			winner, best = i, h
		}
	}
	if winner < 0 {
		return nil
	}

	p := e.seats[winner]
	res := HandResult{
		HandNumber:  e.handNo,
		Seat:        winner,
		PlayerID:    p.ID,
		Name:        p.Name,
		Amount:      e.pot,
		Description: best.Describe(),
		Cards:       append([]table.Card(nil), p.Hole...),
		ByShowdown:  true,
	}
	p.Chips += e.pot
	e.pot = 0
	e.logf("%s wins %d chips with %s", p.Name, res.Amount, res.Description)
	e.last = []HandResult{res}
	return []HandResult{res}
}

func (e *Engine) winUncontested() []HandResult {
	e.phase = table.Showdown
	for i, p := range e.seats {
		if p.Status != table.Active {
			continue
		}
		res := HandResult{
			HandNumber:  e.handNo,
			Seat:        i,
			PlayerID:    p.ID,
			Name:        p.Name,
			Amount:      e.pot,
			Description: "Opponents folded",
			Cards:       []table.Card{},
		}
		p.Chips += e.pot
		e.pot = 0
		e.logf("%s wins %d chips (uncontested)", p.Name, res.Amount)
		e.last = []HandResult{res}
		return []HandResult{res}
	}
	return nil
}
