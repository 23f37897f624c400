// Package contract binds the on-chain RPS game contract.
package contract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/ashureev/rps-labs/internal/domain"
)

// ErrReverted is returned when a play transaction is mined with a failed status.
var ErrReverted = errors.New("transaction reverted")

// Backend is the chain access the binding needs. *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// rawGame mirrors the contract's Game struct as decoded by the ABI package.
type rawGame struct {
	Player       common.Address
	PlayerMove   uint8
	ContractMove uint8
	Win          bool
}

// RPS is a handle on a deployed RPS contract bound to one signer.
type RPS struct {
	address  common.Address
	backend  Backend
	contract *bind.BoundContract
	signer   *bind.TransactOpts
}

var parsedABI = mustParseABI()

func mustParseABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(RPSABI))
	if err != nil {
		panic("contract: invalid RPS ABI: " + err.Error())
	}
	return parsed
}

// New binds the contract at address. signer may be nil for read-only use.
func New(address common.Address, backend Backend, signer *bind.TransactOpts) *RPS {
	return &RPS{
		address:  address,
		backend:  backend,
		contract: bind.NewBoundContract(address, parsedABI, backend, backend, backend),
		signer:   signer,
	}
}

// Address returns the bound contract address.
func (r *RPS) Address() common.Address {
	return r.address
}

// Play submits play(move) and returns the pending transaction.
func (r *RPS) Play(ctx context.Context, move domain.Move) (*types.Transaction, error) {
	if r.signer == nil {
		return nil, errors.New("contract bound without signer")
	}
	if !move.Valid() {
		return nil, fmt.Errorf("play: invalid move %d", uint8(move))
	}
	opts := *r.signer
	opts.Context = ctx
	tx, err := r.contract.Transact(&opts, methodPlay, uint8(move))
	if err != nil {
		return nil, fmt.Errorf("submit play: %w", err)
	}
	return tx, nil
}

// WaitConfirmed blocks until tx is mined and fails if it reverted.
func (r *RPS) WaitConfirmed(ctx context.Context, tx *types.Transaction) error {
	receipt, err := bind.WaitMined(ctx, r.backend, tx)
	if err != nil {
		return fmt.Errorf("wait for %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("%s in block %v: %w", tx.Hash().Hex(), receipt.BlockNumber, ErrReverted)
	}
	return nil
}

// History calls getHistory() and converts the result to domain records in
// contract order.
func (r *RPS) History(ctx context.Context) ([]domain.GameRecord, error) {
	opts := &bind.CallOpts{Context: ctx}
	if r.signer != nil {
		opts.From = r.signer.From
	}

	var out []interface{}
	if err := r.contract.Call(opts, &out, methodGetHistory); err != nil {
		return nil, fmt.Errorf("call getHistory: %w", err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("getHistory: expected 1 output, got %d", len(out))
	}

	raw := *abi.ConvertType(out[0], new([]rawGame)).(*[]rawGame)
	return toRecords(raw)
}

func toRecords(raw []rawGame) ([]domain.GameRecord, error) {
	records := make([]domain.GameRecord, 0, len(raw))
	for i, g := range raw {
		playerMove, err := domain.MoveFromUint8(g.PlayerMove)
		if err != nil {
			return nil, fmt.Errorf("game %d player move: %w", i, err)
		}
		contractMove, err := domain.MoveFromUint8(g.ContractMove)
		if err != nil {
			return nil, fmt.Errorf("game %d contract move: %w", i, err)
		}
		records = append(records, domain.GameRecord{
			Player:       g.Player,
			PlayerMove:   playerMove,
			ContractMove: contractMove,
			Win:          g.Win,
		})
	}
	return records, nil
}
