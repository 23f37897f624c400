package main

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashureev/rps-labs/internal/domain"
	"github.com/ashureev/rps-labs/internal/game"
)

var account = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

type stubProvider struct{}

func (stubProvider) RequestAccounts(context.Context) ([]common.Address, error) {
	return []common.Address{account}, nil
}

func (stubProvider) Signer(context.Context) (*bind.TransactOpts, error) {
	return &bind.TransactOpts{From: account}, nil
}

type stubContract struct {
	history    []domain.GameRecord
	historyErr error
}

func (stubContract) Play(context.Context, domain.Move) (*types.Transaction, error) {
	return nil, errors.New("not used")
}

func (stubContract) WaitConfirmed(context.Context, *types.Transaction) error { return nil }

func (c stubContract) History(context.Context) ([]domain.GameRecord, error) {
	return c.history, c.historyErr
}

func newTestShell(provider bool, c stubContract, notices *[]string) *game.Shell {
	opts := game.Options{
		Bind:     func(context.Context, *bind.TransactOpts) (game.Contract, error) { return c, nil },
		Notifier: game.NotifierFunc(func(msg string) { *notices = append(*notices, msg) }),
	}
	if provider {
		opts.Provider = stubProvider{}
	}
	return game.NewShell(opts)
}

func TestExecute_NoWalletReportsOnce(t *testing.T) {
	var notices []string
	shell := newTestShell(false, stubContract{}, &notices)

	err := execute(context.Background(), shell, game.RefreshAction())

	require.ErrorIs(t, err, game.ErrProviderUnavailable)
	assert.Equal(t, []string{game.NoticeNoWallet}, notices)
	assert.Empty(t, errorMessage(err))
}

func TestExecute_HistoryFailureIsAnError(t *testing.T) {
	var notices []string
	shell := newTestShell(true, stubContract{historyErr: errors.New("connection refused")}, &notices)

	err := execute(context.Background(), shell, game.RefreshAction())

	require.Error(t, err)
	assert.True(t, game.IsRemote(err))
	assert.Contains(t, errorMessage(err), "load history")
	assert.Empty(t, notices)
}

func TestExecute_HistoryLoaded(t *testing.T) {
	var notices []string
	records := []domain.GameRecord{{Player: account, PlayerMove: domain.Rock, ContractMove: domain.Scissors, Win: true}}
	shell := newTestShell(true, stubContract{history: records}, &notices)

	require.NoError(t, execute(context.Background(), shell, game.RefreshAction()))
	assert.Equal(t, records, shell.Session().History())
	assert.Empty(t, notices)
}
