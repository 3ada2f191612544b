package engine

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HoldemServer/internal/game/dealer"
	"HoldemServer/internal/game/table"
)

var names = []string{"Alice", "Bob", "Carol", "Dave", "Erin", "Frank"}

func seeded(seed int64) func() *dealer.Deck {
	return dealer.NewDealer(seed).Fresh
}

// first hand from a stacked deck, seeded decks afterwards
func stackedThen(t *testing.T, first string, seed int64) func() *dealer.Deck {
	t.Helper()
	cards := parseCards(t, first)
	rest := dealer.NewDealer(seed)
	used := false
	return func() *dealer.Deck {
		if !used {
			used = true
			return dealer.Stacked(cards)
		}
		return rest.Fresh()
	}
}

func parseCards(t *testing.T, s string) []table.Card {
	t.Helper()
	var out []table.Card
	for _, f := range strings.Fields(s) {
		r := strings.IndexByte("23456789TJQKA", f[0])
		su := strings.IndexByte("hdcs", f[1])
		require.True(t, r >= 0 && su >= 0, "bad card %q", f)
		out = append(out, table.NewCard(table.Two+table.Rank(r), table.Suit(su)))
	}
	return out
}

func newEngine(deck func() *dealer.Deck, stacks ...int64) *Engine {
	e := New(Config{SmallBlind: 10, BigBlind: 20, Deck: deck})
	for i, c := range stacks {
		e.Seat(fmt.Sprintf("p%d", i), names[i], c)
	}
	return e
}

func mustApply(t *testing.T, e *Engine, seat int, a table.Action) []HandResult {
	t.Helper()
	res, err := e.Apply(seat, a)
	require.NoError(t, err, "seat %d %v", seat, a)
	return res
}

func totalChips(e *Engine) int64 {
	sum := e.Pot()
	for _, p := range e.Seats() {
		sum += p.Chips
	}
	return sum
}

var (
	fold  = table.Action{Kind: table.ActFold}
	check = table.Action{Kind: table.ActCheck}
	call  = table.Action{Kind: table.ActCall}
	allIn = table.Action{Kind: table.ActAllIn}
)

func raise(n int64) table.Action { return table.Action{Kind: table.ActRaise, Amount: n} }

// ✅ 完整流程：盲注、跟注、加注、翻牌
func TestEndToEndPreflopToFlop(t *testing.T) {
	e := newEngine(seeded(1), 1000, 1000, 1000)
	e.StartNewHand()

	require.Equal(t, table.PreFlop, e.Phase())
	require.Equal(t, 1, e.Dealer())
	require.Equal(t, 1, e.Turn(), "under the gun follows the big blind")
	assert.Equal(t, int64(30), e.Pot())
	assert.Equal(t, int64(20), e.CurrentBet())

	seats := e.Seats()
	assert.Equal(t, int64(10), seats[2].Bet, "small blind")
	assert.Equal(t, int64(20), seats[0].Bet, "big blind")
	for i, p := range seats {
		assert.Len(t, p.Hole, 2, "seat %d", i)
	}

	mustApply(t, e, 1, call)
	mustApply(t, e, 2, raise(40))
	assert.Equal(t, int64(60), e.CurrentBet())
	mustApply(t, e, 0, call)
	require.Equal(t, table.PreFlop, e.Phase(), "the limper still owes the raise")
	mustApply(t, e, 1, call)

	assert.Equal(t, int64(180), e.Pot())
	assert.Equal(t, table.Flop, e.Phase())
	assert.Len(t, e.Community(), 3)
	assert.Equal(t, int64(0), e.CurrentBet())
	assert.Equal(t, 2, e.Turn(), "first active seat after the button")
	assert.Equal(t, int64(3000), totalChips(e))
}

// 回归：弃牌的座位不能在下一街拿到行动权
func TestTurnSkipsFoldedSeat(t *testing.T) {
	e := newEngine(seeded(2), 1000, 1000, 1000)
	e.StartNewHand()
	require.Equal(t, 1, e.Dealer())

	mustApply(t, e, 1, call)
	mustApply(t, e, 2, fold)
	mustApply(t, e, 0, check)

	require.Equal(t, table.Flop, e.Phase())
	assert.Equal(t, 0, e.Turn(), "seat 2 folded, seat 0 is next after the button")
}

func TestRoundComplete(t *testing.T) {
	e := newEngine(seeded(3), 1000, 1000, 1000)
	e.StartNewHand()

	for i, p := range e.seats {
		p.Bet = 60
		e.acted[i] = true
	}
	e.currentBet = 60
	assert.True(t, e.roundComplete())

	e.seats[1].Bet = 40
	assert.False(t, e.roundComplete(), "one unequal contribution keeps the round open")

	// an all-in seat is exempt from matching
	e.seats[1].Chips = 0
	e.seats[1].Status = table.AllIn
	assert.True(t, e.roundComplete())

	e.acted[2] = false
	assert.False(t, e.roundComplete())
}

func TestLegalActions(t *testing.T) {
	e := newEngine(seeded(4), 1000, 1000, 1000)
	e.StartNewHand()

	assert.Equal(t, []table.Action{fold, call, raise(20), allIn}, e.LegalActions())

	mustApply(t, e, 1, call)
	mustApply(t, e, 2, call)
	// big blind gets the option
	assert.Equal(t, []table.Action{fold, check, raise(20), allIn}, e.LegalActions())
}

func TestLegalActionsShortStack(t *testing.T) {
	e := newEngine(seeded(4), 1000, 15, 1000)
	e.StartNewHand()
	require.Equal(t, 1, e.Turn())

	// 15 chips cannot cover the 20 owed
	assert.Equal(t, []table.Action{fold, allIn}, e.LegalActions())
}

func TestMinimumRaiseFollowsLastRaise(t *testing.T) {
	e := newEngine(seeded(5), 1000, 1000, 1000)
	e.StartNewHand()

	_, err := e.Apply(1, raise(10))
	assert.ErrorIs(t, err, ErrRaiseTooSmall)

	mustApply(t, e, 1, raise(60))
	assert.Equal(t, int64(80), e.CurrentBet())
	assert.Equal(t, int64(60), e.MinRaise())

	_, err = e.Apply(2, raise(40))
	assert.ErrorIs(t, err, ErrRaiseTooSmall)

	mustApply(t, e, 2, raise(60))
	assert.Equal(t, int64(140), e.CurrentBet())

	// a new street resets the minimum to the big blind
	mustApply(t, e, 0, call)
	mustApply(t, e, 1, call)
	require.Equal(t, table.Flop, e.Phase())
	assert.Equal(t, int64(20), e.MinRaise())
}

func TestShortAllInDoesNotRaiseTheMinimum(t *testing.T) {
	e := newEngine(seeded(6), 1000, 50, 1000)
	e.StartNewHand()

	// seat 1 shoves 50: a 30 increment over the big blind, above the 20 minimum
	mustApply(t, e, 1, allIn)
	assert.Equal(t, int64(50), e.CurrentBet())
	assert.Equal(t, int64(30), e.MinRaise())

	e2 := newEngine(seeded(6), 1000, 1000, 1000)
	e2.StartNewHand()
	mustApply(t, e2, 1, raise(100))
	require.Equal(t, int64(120), e2.CurrentBet())
	e2.seats[2].Chips = 140 // 10 posted, 150 total
	mustApply(t, e2, 2, allIn)
	assert.Equal(t, int64(150), e2.CurrentBet())
	assert.Equal(t, int64(100), e2.MinRaise(), "30 over is not a full raise")
}

func TestRejectedActionsLeaveStateUntouched(t *testing.T) {
	e := newEngine(seeded(7), 1000, 1000, 1000)
	e.StartNewHand()

	before := e.Seats()
	pot, bet, turn, logLen := e.Pot(), e.CurrentBet(), e.Turn(), len(e.Log())

	tests := []struct {
		seat int
		a    table.Action
		want error
	}{
		{0, call, ErrNotYourTurn},
		{2, fold, ErrNotYourTurn},
		{1, check, ErrCannotCheck},
		{1, raise(5), ErrRaiseTooSmall},
		{1, raise(5000), ErrRaiseExceedsStack},
		{1, raise(math.MaxInt64), ErrRaiseExceedsStack},
		{1, raise(math.MaxInt64 - 10), ErrRaiseExceedsStack},
		{9, fold, ErrNoSuchSeat},
		{1, table.Action{Kind: table.ActionKind(42)}, ErrUnknownAction},
	}
	for _, tt := range tests {
		_, err := e.Apply(tt.seat, tt.a)
		assert.True(t, errors.Is(err, tt.want), "seat %d %v: got %v", tt.seat, tt.a, err)
	}

	assert.Equal(t, before, e.Seats())
	assert.Equal(t, pot, e.Pot())
	assert.Equal(t, bet, e.CurrentBet())
	assert.Equal(t, turn, e.Turn())
	assert.Equal(t, logLen, len(e.Log()))
}

func TestHugeRaiseCannotWrapTheBet(t *testing.T) {
	e := newEngine(seeded(9), 1000, 1000, 1000)
	e.StartNewHand()

	// seat 1 owes 20; a raise near MaxInt64 must not overflow the stack check
	_, err := e.Apply(1, raise(math.MaxInt64))
	require.ErrorIs(t, err, ErrRaiseExceedsStack)

	assert.Equal(t, int64(20), e.CurrentBet())
	assert.Equal(t, int64(20), e.MinRaise())
	assert.Equal(t, int64(1000), e.Seats()[1].Chips)
	assert.Equal(t, 1, e.Turn())

	// the largest legal raise still goes through
	mustApply(t, e, 1, raise(980))
	assert.Equal(t, int64(1000), e.CurrentBet())
	assert.Equal(t, table.AllIn, e.Seats()[1].Status)
	assert.Equal(t, int64(3000), totalChips(e))
}

func TestRaiseOfWholeStackGoesAllIn(t *testing.T) {
	e := newEngine(seeded(8), 1000, 200, 1000)
	e.StartNewHand()

	// 20 to call + 180 is exactly the stack
	mustApply(t, e, 1, raise(180))
	p := e.Seats()[1]
	assert.Equal(t, table.AllIn, p.Status)
	assert.Equal(t, int64(0), p.Chips)
	assert.Equal(t, int64(200), e.CurrentBet())
}

func TestEarlyWinStartsNextHand(t *testing.T) {
	e := newEngine(seeded(9), 1000, 1000, 1000)
	e.StartNewHand()

	mustApply(t, e, 1, fold)
	res := mustApply(t, e, 2, fold)

	require.Len(t, res, 1)
	assert.Equal(t, 0, res[0].Seat)
	assert.Equal(t, "p0", res[0].PlayerID)
	assert.Equal(t, int64(30), res[0].Amount)
	assert.False(t, res[0].ByShowdown)
	assert.Empty(t, res[0].Cards)
	assert.Contains(t, e.Log(), "Alice wins 30 chips (uncontested)")

	assert.Equal(t, 2, e.HandNumber())
	assert.Equal(t, table.PreFlop, e.Phase())
	assert.Equal(t, 2, e.Dealer(), "button moves on")
	assert.Equal(t, int64(3000), totalChips(e))

	last, ok := e.LastResult()
	require.True(t, ok)
	assert.Equal(t, res[0], last)
}

func TestAllInRunsOutTheBoard(t *testing.T) {
	// hole cards go one per pass: seat 0, seat 1, seat 0, seat 1
	deck := stackedThen(t, "As Kc Ad Kh 4c 2s 7h 9d 5c 3c 6c 8s", 10)
	e := newEngine(deck, 1000, 1000)
	e.StartNewHand()
	require.Equal(t, 0, e.Turn(), "heads-up: the small blind acts first")

	mustApply(t, e, 0, allIn)
	res := mustApply(t, e, 1, call)

	require.Len(t, res, 1)
	assert.True(t, res[0].ByShowdown)
	assert.Equal(t, 0, res[0].Seat)
	assert.Equal(t, int64(2000), res[0].Amount)
	assert.Equal(t, "Pair of Aces", res[0].Description)
	assert.Equal(t, parseCards(t, "As Ad"), res[0].Cards)

	assert.Len(t, e.Community(), 5, "every street was dealt")
	assert.Equal(t, table.Showdown, e.Phase(), "one stack left, nothing to deal")
	assert.Equal(t, 1, e.Playable())
	assert.Nil(t, e.LegalActions())
}

func TestStartNewHandCascadesWhenNobodyCanAct(t *testing.T) {
	// seat 0 is the small blind and cannot cover it
	deck := stackedThen(t, "Qc Ah 4d As 4c 2s 7h 9d 5c 3c 6c 8s", 11)
	e := newEngine(deck, 5, 1000)

	res := e.StartNewHand()

	require.Len(t, res, 1)
	assert.Equal(t, 1, res[0].Seat)
	assert.Equal(t, int64(25), res[0].Amount)
	assert.Equal(t, table.Showdown, e.Phase())
	assert.Equal(t, int64(1005), e.Seats()[1].Chips)
	assert.Equal(t, 1, e.Playable())

	assert.Empty(t, e.StartNewHand())
	assert.Equal(t, 1, e.HandNumber(), "nothing to deal with one stack left")
}

func TestLoneSeatMustAnswerAnAllIn(t *testing.T) {
	e := newEngine(seeded(12), 1000, 1000, 300)
	e.StartNewHand()

	mustApply(t, e, 1, fold)
	mustApply(t, e, 2, allIn)

	// seat 0 is the only Active seat left but still owes 280
	require.Equal(t, table.PreFlop, e.Phase())
	require.Equal(t, 0, e.Turn())
	assert.Equal(t, []table.Action{fold, call, raise(280), allIn}, e.LegalActions())

	res := mustApply(t, e, 0, call)
	require.Len(t, res, 1)
	assert.True(t, res[0].ByShowdown)
	assert.Equal(t, int64(3000), totalChips(e))
}

func TestEjectOnTurn(t *testing.T) {
	e := newEngine(seeded(13), 1000, 1000, 1000)
	e.StartNewHand()

	_, err := e.Eject(1)
	require.NoError(t, err)
	assert.True(t, e.Ejected(1))
	assert.Equal(t, table.Eliminated, e.Seats()[1].Status)
	assert.Equal(t, 2, e.Turn())

	res := mustApply(t, e, 2, fold)
	require.Len(t, res, 1)
	assert.Equal(t, 0, res[0].Seat)

	// seat 1 still has chips but is never dealt in again
	require.Equal(t, 2, e.HandNumber())
	p := e.Seats()[1]
	assert.Equal(t, int64(1000), p.Chips)
	assert.Equal(t, table.Eliminated, p.Status)
	assert.Empty(t, p.Hole)
	assert.Equal(t, 2, e.Playable())

	_, err = e.Eject(7)
	assert.ErrorIs(t, err, ErrNoSuchSeat)
}

func TestEjectOffTurnLeavesSoleSurvivor(t *testing.T) {
	e := newEngine(seeded(14), 1000, 1000)
	e.StartNewHand()
	require.Equal(t, 0, e.Turn())

	res, err := e.Eject(1)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, 0, res[0].Seat)
	assert.Equal(t, table.Showdown, e.Phase(), "nobody left to play against")
}

func TestLogIsBounded(t *testing.T) {
	e := New(Config{SmallBlind: 10, BigBlind: 20, LogLimit: 5, Deck: seeded(15)})
	e.Seat("a", "Alice", 1000)
	e.Seat("b", "Bob", 1000)
	e.Annotate("Alice joined")
	e.StartNewHand()
	mustApply(t, e, 0, call)
	mustApply(t, e, 1, check)

	log := e.Log()
	assert.Len(t, log, 5)
	assert.NotContains(t, log, "Alice joined")
	assert.True(t, strings.HasPrefix(log[len(log)-1], "*** FLOP ***"))
}

// 随机对局：筹码守恒，且引擎从不卡死
func TestRandomPlayConservesChips(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		rnd := rand.New(rand.NewSource(seed))
		e := newEngine(seeded(seed), 500, 500, 500, 500)
		e.StartNewHand()

		for step := 0; step < 3000 && e.Phase() != table.Showdown; step++ {
			legal := e.LegalActions()
			require.NotEmpty(t, legal, "seed %d step %d: seat %d has nothing to do", seed, step, e.Turn())
			a := legal[rnd.Intn(len(legal))]
			if a.Kind == table.ActRaise {
				a.Amount += rnd.Int63n(40)
				if e.Seats()[e.Turn()].Chips < e.CurrentBet()-e.Seats()[e.Turn()].Bet+a.Amount {
					a.Amount = legal[len(legal)-2].Amount
				}
			}
			mustApply(t, e, e.Turn(), a)
			require.Equal(t, int64(2000), totalChips(e), "seed %d step %d", seed, step)
		}
	}
}
