// Package hand evaluates the best five-card poker hand out of five to seven
// cards and orders the results.
package hand

import (
	"fmt"
	"sort"

	"HoldemServer/internal/game/table"
)

// Category of a five-card hand, weakest first.
type Category int

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	}
	return "Unknown"
}

// Hand is an evaluated five-card hand. Kickers hold the category-defining
// ranks first, then the remaining ranks descending; two hands of the same
// category are decided by comparing Kickers element-wise.
type Hand struct {
	Category Category
	Cards    []table.Card
	Kickers  []table.Rank
}

// Evaluate returns the best five-card hand from 5, 6 or 7 distinct cards.
// Any other count is a programming error and panics.
func Evaluate(cards []table.Card) Hand {
	if len(cards) < 5 || len(cards) > 7 {
		panic(fmt.Sprintf("hand: evaluate needs 5 to 7 cards, got %d", len(cards)))
	}
	if len(cards) == 5 {
		return evaluateFive(cards)
	}

	var best Hand
	first := true
	for _, combo := range combinations(cards, 5) {
		h := evaluateFive(combo)
		if first || Compare(h, best) > 0 {
			best = h
			first = false
		}
	}
	return best
}

// Compare returns -1, 0 or 1 as a is weaker than, equal to or stronger than b.
func Compare(a, b Hand) int {
	if a.Category != b.Category {
		if a.Category < b.Category {
			return -1
		}
		return 1
	}
	for i := 0; i < len(a.Kickers) && i < len(b.Kickers); i++ {
		if a.Kickers[i] != b.Kickers[i] {
			if a.Kickers[i] < b.Kickers[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a.Kickers) < len(b.Kickers):
		return -1
	case len(a.Kickers) > len(b.Kickers):
		return 1
	}
	return 0
}

func (h Hand) Beats(o Hand) bool {
	return Compare(h, o) > 0
}

func (h Hand) String() string {
	return fmt.Sprintf("%s %v", h.Describe(), table.CardStrings(h.Cards))
}

// Describe gives the human-readable name used in hand summaries.
func (h Hand) Describe() string {
	k := h.Kickers
	if len(k) == 0 {
		return h.Category.String()
	}
	switch h.Category {
	case RoyalFlush:
		return "Royal Flush"
	case StraightFlush:
		return fmt.Sprintf("Straight Flush, %s high", k[0].Name())
	case FourOfAKind:
		return fmt.Sprintf("Four of a Kind, %s", plural(k[0]))
	case FullHouse:
		return fmt.Sprintf("Full House, %s over %s", plural(k[0]), plural(k[1]))
	case Flush:
		return fmt.Sprintf("Flush, %s high", k[0].Name())
	case Straight:
		return fmt.Sprintf("Straight, %s high", k[0].Name())
	case ThreeOfAKind:
		return fmt.Sprintf("Three of a Kind, %s", plural(k[0]))
	case TwoPair:
		return fmt.Sprintf("Two Pair, %s and %s", plural(k[0]), plural(k[1]))
	case OnePair:
		return fmt.Sprintf("Pair of %s", plural(k[0]))
	}
	return fmt.Sprintf("High Card, %s", k[0].Name())
}

func plural(r table.Rank) string {
	if r == table.Six {
		return "Sixes"
	}
	return r.Name() + "s"
}

type group struct {
	rank  table.Rank
	count int
}

// evaluateFive classifies exactly five cards.
func evaluateFive(cards []table.Card) Hand {
	sorted := make([]table.Card, len(cards))
	copy(sorted, cards)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rank > sorted[j].Rank
	})

	groups := rankGroups(sorted)
	flush := isFlush(sorted)
	top, straight := straightTop(sorted)

	run := sorted
	if straight && top == table.Five {
		// the wheel: Ace plays low
		run = append(append([]table.Card{}, sorted[1:]...), sorted[0])
	}
	if straight && flush {
		if top == table.Ace {
			return Hand{Category: RoyalFlush, Cards: run, Kickers: []table.Rank{top}}
		}
		return Hand{Category: StraightFlush, Cards: run, Kickers: []table.Rank{top}}
	}

	byGroup := orderByGroups(sorted, groups)
	kickers := make([]table.Rank, len(groups))
	for i, g := range groups {
		kickers[i] = g.rank
	}

	switch {
	case groups[0].count == 4:
		return Hand{Category: FourOfAKind, Cards: byGroup, Kickers: kickers}
	case groups[0].count == 3 && groups[1].count == 2:
		return Hand{Category: FullHouse, Cards: byGroup, Kickers: kickers}
	case flush:
		return Hand{Category: Flush, Cards: sorted, Kickers: kickers}
	case straight:
		return Hand{Category: Straight, Cards: run, Kickers: []table.Rank{top}}
	case groups[0].count == 3:
		return Hand{Category: ThreeOfAKind, Cards: byGroup, Kickers: kickers}
	case groups[0].count == 2 && groups[1].count == 2:
		return Hand{Category: TwoPair, Cards: byGroup, Kickers: kickers}
	case groups[0].count == 2:
		return Hand{Category: OnePair, Cards: byGroup, Kickers: kickers}
	}
	return Hand{Category: HighCard, Cards: sorted, Kickers: kickers}
}

// rankGroups counts ranks and orders the groups by count, then rank, both
// descending. Read in order, the group ranks are exactly the kicker sequence
// of every non-straight category.
func rankGroups(cards []table.Card) []group {
	counts := make(map[table.Rank]int, len(cards))
	for _, c := range cards {
		counts[c.Rank]++
	}
	groups := make([]group, 0, len(counts))
	for r, n := range counts {
		groups = append(groups, group{rank: r, count: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})
	return groups
}

func orderByGroups(cards []table.Card, groups []group) []table.Card {
	out := make([]table.Card, 0, len(cards))
	for _, g := range groups {
		for _, c := range cards {
			if c.Rank == g.rank {
				out = append(out, c)
			}
		}
	}
	return out
}

func isFlush(cards []table.Card) bool {
	for _, c := range cards[1:] {
		if c.Suit != cards[0].Suit {
			return false
		}
	}
	return true
}

// straightTop expects cards sorted by rank descending.
func straightTop(cards []table.Card) (table.Rank, bool) {
	for i := 1; i < len(cards); i++ {
		if cards[i-1].Rank != cards[i].Rank+1 {
			if isWheel(cards) {
				return table.Five, true
			}
			return 0, false
		}
	}
	return cards[0].Rank, true
}

func isWheel(cards []table.Card) bool {
	want := []table.Rank{table.Ace, table.Five, table.Four, table.Three, table.Two}
	if len(cards) != len(want) {
		return false
	}
	for i, c := range cards {
		if c.Rank != want[i] {
			return false
		}
	}
	return true
}

// combinations generates all k-combinations of cards.
func combinations(cards []table.Card, k int) [][]table.Card {
	var out [][]table.Card
	var generate func(start int, current []table.Card)
	generate = func(start int, current []table.Card) {
		if len(current) == k {
			combo := make([]table.Card, k)
			copy(combo, current)
			out = append(out, combo)
			return
		}
		for i := start; i <= len(cards)-(k-len(current)); i++ {
			generate(i+1, append(current, cards[i]))
		}
	}
	generate(0, make([]table.Card, 0, k))
	return out
}
