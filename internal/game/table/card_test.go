package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankNames(t *testing.T) {
	tests := []struct {
		r     Rank
		label string
		name  string
	}{
		{Two, "2", "Two"},
		{Nine, "9", "Nine"},
		{Ten, "10", "Ten"},
		{Jack, "J", "Jack"},
		{Queen, "Q", "Queen"},
		{King, "K", "King"},
		{Ace, "A", "Ace"},
		{Rank(0), "?", "Unknown"},
		{Rank(1), "?", "Unknown"},
		{Rank(15), "?", "Unknown"},
		{Rank(255), "?", "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.label, tt.r.String(), "rank %d", tt.r)
		assert.Equal(t, tt.name, tt.r.Name(), "rank %d", tt.r)
	}
	for _, r := range Ranks() {
		assert.NotEqual(t, "Unknown", r.Name())
	}
}

func TestCardStrings(t *testing.T) {
	cards := []Card{NewCard(Ten, Hearts), NewCard(Ace, Spades), NewCard(Two, Clubs), NewCard(Queen, Diamonds)}
	assert.Equal(t, []string{"10♥", "A♠", "2♣", "Q♦"}, CardStrings(cards))
	assert.Empty(t, CardStrings(nil))
}
