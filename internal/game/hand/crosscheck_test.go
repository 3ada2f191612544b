package hand

import (
	"math/rand"
	"testing"

	chehsunliu "github.com/chehsunliu/poker"
	paulhankin "github.com/paulhankin/poker"
	"github.com/stretchr/testify/require"

	"HoldemServer/internal/game/dealer"
	"HoldemServer/internal/game/table"
)

// Both reference evaluators collapse a hand to a single score; the sign of
// a score difference must agree with Compare on every random showdown.

func toPaulhankin(t *testing.T, c table.Card) paulhankin.Card {
	t.Helper()
	rank := int(c.Rank)
	if c.Rank == table.Ace {
		rank = 1
	}
	card, err := paulhankin.MakeCard(paulhankin.Suit(c.Suit), paulhankin.Rank(rank))
	require.NoError(t, err)
	return card
}

func toChehsunliu(c table.Card) chehsunliu.Card {
	ranks := "23456789TJQKA"
	suits := map[table.Suit]byte{table.Hearts: 'h', table.Diamonds: 'd', table.Clubs: 'c', table.Spades: 's'}
	return chehsunliu.NewCard(string([]byte{ranks[c.Rank-table.Two], suits[c.Suit]}))
}

func sign[T int | int16 | int32](v T) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func randomShowdown(rnd *rand.Rand) (a, b []table.Card) {
	d := dealer.NewDeck(rnd)
	d.Shuffle()
	board := d.DealMany(5)
	a = append(d.DealMany(2), board...)
	b = append(d.DealMany(2), board...)
	return a, b
}

func TestAgreesWithPaulhankin(t *testing.T) {
	rnd := rand.New(rand.NewSource(2024))
	for i := 0; i < 2000; i++ {
		a, b := randomShowdown(rnd)

		var pa, pb [7]paulhankin.Card
		for j := range a {
			pa[j] = toPaulhankin(t, a[j])
			pb[j] = toPaulhankin(t, b[j])
		}
		// higher is better
		want := sign(paulhankin.Eval7(&pa) - paulhankin.Eval7(&pb))
		got := Compare(Evaluate(a), Evaluate(b))
		require.Equal(t, want, got, "a=%v b=%v", a, b)
	}
}

func TestAgreesWithChehsunliu(t *testing.T) {
	rnd := rand.New(rand.NewSource(77))
	for i := 0; i < 2000; i++ {
		a, b := randomShowdown(rnd)

		ca := make([]chehsunliu.Card, len(a))
		cb := make([]chehsunliu.Card, len(b))
		for j := range a {
			ca[j] = toChehsunliu(a[j])
			cb[j] = toChehsunliu(b[j])
		}
		// lower is better
		want := sign(chehsunliu.Evaluate(cb) - chehsunliu.Evaluate(ca))
		got := Compare(Evaluate(a), Evaluate(b))
		require.Equal(t, want, got, "a=%v b=%v", a, b)
	}
}
