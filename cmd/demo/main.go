// Command demo runs a local bot-only table against the engine and prints the
// evaluator's verdict on a few fixed boards. No server, no storage.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"HoldemServer/internal/game/engine"
	"HoldemServer/internal/game/hand"
	"HoldemServer/internal/game/table"
)

func main() {
	players := flag.Int("players", 4, "number of bots at the table (2-10)")
	chips := flag.Int64("chips", 500, "starting chips per bot")
	sb := flag.Int64("sb", 5, "small blind")
	bb := flag.Int64("bb", 10, "big blind")
	hands := flag.Int("hands", 50, "stop after this many hands")
	seed := flag.Int64("seed", 7, "deck and bot seed")
	flag.Parse()

	if *players < 2 || *players > 10 || *sb <= 0 || *bb < *sb || *chips <= 0 {
		pterm.Error.Println("invalid table settings")
		os.Exit(2)
	}

	title, _ := pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Hold", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("em", pterm.FgDarkGray.ToStyle()),
	).Srender()
	pterm.Print(title)

	pterm.DefaultSection.Println("Hand evaluator")
	if err := showcase(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	pterm.DefaultSection.Println("Bot table")
	sim := newSimulation(*players, *chips, *sb, *bb, *seed)
	rounds := sim.run(*hands, func(r engine.HandResult) {
		how := "uncontested"
		if r.ByShowdown {
			how = r.Description
		}
		pterm.Info.Printfln("hand #%d: %s wins %d (%s)", r.HandNumber, pterm.LightCyan(r.Name), r.Amount, how)
	})

	rows := pterm.TableData{{"Seat", "Player", "Chips", "Status"}}
	for i, p := range sim.eng.Seats() {
		rows = append(rows, []string{fmt.Sprint(i), p.Name, fmt.Sprint(p.Chips), p.Status.String()})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(rows).Render()

	if w, ok := sim.winner(); ok {
		pterm.Success.Printfln("%s takes the table after %d hands", w.Name, rounds)
	} else {
		pterm.Warning.Printfln("stopped after %d hands with %d stacks left", rounds, sim.eng.Playable())
	}
}

// showcase evaluates a fixed board per category and renders the results.
func showcase() error {
	c := table.NewCard
	boards := [][]table.Card{
		{c(table.Ace, table.Spades), c(table.King, table.Spades), c(table.Queen, table.Spades), c(table.Jack, table.Spades), c(table.Ten, table.Spades), c(table.Two, table.Hearts), c(table.Three, table.Clubs)},
		{c(table.Nine, table.Hearts), c(table.Eight, table.Hearts), c(table.Seven, table.Hearts), c(table.Six, table.Hearts), c(table.Five, table.Hearts), c(table.King, table.Clubs), c(table.Two, table.Diamonds)},
		{c(table.Queen, table.Hearts), c(table.Queen, table.Diamonds), c(table.Queen, table.Clubs), c(table.Queen, table.Spades), c(table.Four, table.Hearts), c(table.Nine, table.Clubs), c(table.Two, table.Diamonds)},
		{c(table.Ten, table.Hearts), c(table.Ten, table.Diamonds), c(table.Ten, table.Clubs), c(table.Four, table.Spades), c(table.Four, table.Hearts), c(table.Nine, table.Clubs), c(table.Two, table.Diamonds)},
		{c(table.Ace, table.Clubs), c(table.Jack, table.Clubs), c(table.Eight, table.Clubs), c(table.Six, table.Clubs), c(table.Two, table.Clubs), c(table.King, table.Hearts), c(table.Three, table.Diamonds)},
		{c(table.Ace, table.Hearts), c(table.Two, table.Diamonds), c(table.Three, table.Clubs), c(table.Four, table.Spades), c(table.Five, table.Hearts), c(table.King, table.Clubs), c(table.Nine, table.Diamonds)},
		{c(table.Seven, table.Hearts), c(table.Seven, table.Diamonds), c(table.Seven, table.Clubs), c(table.King, table.Spades), c(table.Four, table.Hearts), c(table.Nine, table.Clubs), c(table.Two, table.Diamonds)},
		{c(table.Jack, table.Hearts), c(table.Jack, table.Diamonds), c(table.Five, table.Clubs), c(table.Five, table.Spades), c(table.Ace, table.Hearts), c(table.Nine, table.Clubs), c(table.Two, table.Diamonds)},
		{c(table.Eight, table.Hearts), c(table.Eight, table.Diamonds), c(table.King, table.Clubs), c(table.Five, table.Spades), c(table.Ace, table.Hearts), c(table.Nine, table.Clubs), c(table.Two, table.Diamonds)},
		{c(table.Ace, table.Hearts), c(table.Queen, table.Diamonds), c(table.Ten, table.Clubs), c(table.Eight, table.Spades), c(table.Six, table.Hearts), c(table.Four, table.Clubs), c(table.Two, table.Diamonds)},
	}

	rows := pterm.TableData{{"Cards", "Category", "Best five"}}
	for _, b := range boards {
		h := hand.Evaluate(b)
		rows = append(rows, []string{
			fmt.Sprint(table.CardStrings(b)),
			pterm.LightGreen(h.Category.String()),
			h.Describe() + " " + fmt.Sprint(table.CardStrings(h.Cards)),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(rows).Render()
}
