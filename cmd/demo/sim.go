package main

import (
	"fmt"
	"math/rand"

	"HoldemServer/internal/game/dealer"
	"HoldemServer/internal/game/engine"
	"HoldemServer/internal/game/table"
)

type simulation struct {
	eng *engine.Engine
	rnd *rand.Rand
}

func newSimulation(players int, chips, sb, bb, seed int64) *simulation {
	d := dealer.NewDealer(seed)
	eng := engine.New(engine.Config{SmallBlind: sb, BigBlind: bb, Deck: d.Fresh})
	for i := 0; i < players; i++ {
		eng.Seat(fmt.Sprintf("bot-%d", i+1), fmt.Sprintf("Bot %d", i+1), chips)
	}
	return &simulation{eng: eng, rnd: rand.New(rand.NewSource(seed))}
}

// run plays until one stack is left or maxHands hands were dealt, reporting
// every settled hand. Returns the number of hands dealt.
func (s *simulation) run(maxHands int, report func(engine.HandResult)) int {
	emit := func(rs []engine.HandResult) {
		for _, r := range rs {
			if report != nil {
				report(r)
			}
		}
	}

	emit(s.eng.StartNewHand())
	for {
		if s.eng.Phase() == table.Showdown {
			// 两手之间才看剩几个筹码堆
			if s.eng.Playable() <= 1 || s.eng.HandNumber() >= maxHands {
				break
			}
			emit(s.eng.StartNewHand())
			continue
		}
		turn := s.eng.Turn()
		rs, err := s.eng.Apply(turn, s.choose(s.eng.LegalActions()))
		if err != nil {
			// 机器人选了非法动作就直接弃牌
			rs, err = s.eng.Apply(turn, table.Action{Kind: table.ActFold})
			if err != nil {
				break
			}
		}
		emit(rs)
	}
	return s.eng.HandNumber()
}

// choose 简单策略：大多数时候过牌或跟注，偶尔加注，很少全下
func (s *simulation) choose(legal []table.Action) table.Action {
	has := func(k table.ActionKind) (table.Action, bool) {
		for _, a := range legal {
			if a.Kind == k {
				return a, true
			}
		}
		return table.Action{}, false
	}

	roll := s.rnd.Intn(100)
	if a, ok := has(table.ActAllIn); ok && roll < 3 {
		return a
	}
	if a, ok := has(table.ActRaise); ok && roll < 20 {
		return a
	}
	if a, ok := has(table.ActCheck); ok {
		return a
	}
	if a, ok := has(table.ActCall); ok && roll < 80 {
		return a
	}
	return table.Action{Kind: table.ActFold}
}

func (s *simulation) winner() (table.Player, bool) {
	if s.eng.Playable() != 1 {
		return table.Player{}, false
	}
	for _, p := range s.eng.Seats() {
		if p.Chips > 0 {
			return p, true
		}
	}
	return table.Player{}, false
}
