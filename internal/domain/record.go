package domain

import (
	"github.com/ethereum/go-ethereum/common"
)

// GameRecord is one finished game as stored by the contract.
type GameRecord struct {
	Player       common.Address `json:"player"`
	PlayerMove   Move           `json:"player_move"`
	ContractMove Move           `json:"contract_move"`
	Win          bool           `json:"win"`
}

// ResultText returns the user-facing outcome of the game.
func (g GameRecord) ResultText() string {
	if g.Win {
		return "You Win!"
	}
	return "You Lose"
}
