package dealer

import (
	"math/rand"

	"HoldemServer/internal/game/table"
)

// Deck 一副牌，顶牌在下标 0
type Deck struct {
	cards []table.Card
	rnd   *rand.Rand
}

// NewDeck returns all 52 cards exactly once, unshuffled.
func NewDeck(rnd *rand.Rand) *Deck {
	d := &Deck{cards: make([]table.Card, 0, 52), rnd: rnd}
	for _, s := range table.Suits() {
		for _, r := range table.Ranks() {
			d.cards = append(d.cards, table.NewCard(r, s))
		}
	}
	return d
}

// Stacked builds a deck whose top card is cards[0]. Used by tests and the demo.
func Stacked(cards []table.Card) *Deck {
	d := &Deck{cards: make([]table.Card, len(cards))}
	copy(d.cards, cards)
	return d
}

// Shuffle is a Fisher-Yates permutation.
func (d *Deck) Shuffle() {
	if d.rnd == nil {
		return
	}
	d.rnd.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Deal removes and returns the top card; false once the deck is exhausted.
func (d *Deck) Deal() (table.Card, bool) {
	if len(d.cards) == 0 {
		return table.Card{}, false
	}
	c := d.cards[0]
	d.cards = d.cards[1:]
	return c, true
}

// DealMany deals up to n cards, stopping early without error when empty.
func (d *Deck) DealMany(n int) []table.Card {
	out := make([]table.Card, 0, n)
	for i := 0; i < n; i++ {
		c, ok := d.Deal()
		if !ok {
			break
		}
		out = append(out, c)
	}
	return out
}

func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Dealer 只负责洗牌与发牌（无规则判断）
type Dealer struct {
	rnd *rand.Rand
}

func NewDealer(seed int64) *Dealer {
	return &Dealer{rnd: rand.New(rand.NewSource(seed))}
}

// Fresh returns a new shuffled deck. Every hand gets its own.
func (d *Dealer) Fresh() *Deck {
	deck := NewDeck(d.rnd)
	deck.Shuffle()
	return deck
}

// DealHoleCards gives every seat still in the hand two cards, one card per
// pass. Seats already all-in from posting a blind are dealt in too.
func DealHoleCards(deck *Deck, seats []*table.Player) {
	for i := 0; i < 2; i++ {
		for _, p := range seats {
			if p.Status != table.Active && p.Status != table.AllIn {
				continue
			}
			if c, ok := deck.Deal(); ok {
				p.Hole = append(p.Hole, c)
			}
		}
	}
}

// BurnAndDeal burns one card then deals n community cards.
func BurnAndDeal(deck *Deck, n int) []table.Card {
	deck.Deal()
	return deck.DealMany(n)
}
