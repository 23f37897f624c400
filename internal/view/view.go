// Package view builds the presentation model shared by the web page and the
// terminal client.
package view

import (
	"github.com/ashureev/rps-labs/internal/domain"
	"github.com/ashureev/rps-labs/internal/game"
)

// EmptyHistory is shown when the contract has no games.
const EmptyHistory = "No games yet"

// Game is one rendered history entry.
type Game struct {
	Player       string
	YourMove     string
	ContractMove string
	Result       string
	Win          bool
}

// Lines returns the entry as the labelled lines the page shows.
func (g Game) Lines() []string {
	return []string{
		"Player: " + g.Player,
		"Your move: " + g.YourMove,
		"Contract move: " + g.ContractMove,
		"Result: " + g.Result,
	}
}

// Button is one move trigger.
type Button struct {
	Label    string
	Value    int
	Disabled bool
}

// Page is everything the render surface needs.
type Page struct {
	Title     string
	Connected bool
	Address   string
	Pending   bool
	Buttons   []Button
	Games     []Game
	Empty     bool
	EmptyText string
}

// FromSnapshot builds the page model for a session snapshot.
func FromSnapshot(s game.Snapshot) Page {
	p := Page{
		Title:     "Rock-Paper-Scissors DApp",
		Connected: s.Connected,
		Address:   s.Address,
		Pending:   s.Pending,
		Games:     Games(s.History),
		EmptyText: EmptyHistory,
	}
	p.Empty = len(p.Games) == 0
	for _, m := range domain.Moves {
		p.Buttons = append(p.Buttons, Button{Label: m.String(), Value: int(m), Disabled: s.Pending})
	}
	return p
}

// Games converts records to entries, keeping contract order.
func Games(records []domain.GameRecord) []Game {
	games := make([]Game, 0, len(records))
	for _, r := range records {
		games = append(games, Game{
			Player:       r.Player.Hex(),
			YourMove:     r.PlayerMove.String(),
			ContractMove: r.ContractMove.String(),
			Result:       r.ResultText(),
			Win:          r.Win,
		})
	}
	return games
}
