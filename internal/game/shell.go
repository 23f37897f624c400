// Package game implements the client shell of the Rock-Paper-Scissors
// contract: wallet connection, move submission and history refresh.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/ashureev/rps-labs/internal/domain"
	"github.com/ashureev/rps-labs/internal/wallet"
)

// Contract is the remote RPS method set. *contract.RPS implements it.
type Contract interface {
	Play(ctx context.Context, move domain.Move) (*types.Transaction, error)
	WaitConfirmed(ctx context.Context, tx *types.Transaction) error
	History(ctx context.Context) ([]domain.GameRecord, error)
}

// Binder builds a contract handle for the given signer.
type Binder func(ctx context.Context, signer *bind.TransactOpts) (Contract, error)

// Options configures a Shell.
type Options struct {
	// Provider is nil when no wallet is available.
	Provider wallet.Provider
	Bind     Binder
	Notifier Notifier
	Metrics  *Metrics
	// OnChange receives a snapshot after every session transition.
	OnChange func(Snapshot)
	Logger   *slog.Logger
}

// Shell owns one Session and applies every transition to it.
type Shell struct {
	provider wallet.Provider
	bind     Binder
	notifier Notifier
	metrics  *Metrics
	onChange func(Snapshot)
	logger   *slog.Logger

	mu       sync.Mutex
	session  Session
	inFlight int
	// historySeq numbers history fetches as they start; historyApplied is
	// the newest fetch whose result reached the session.
	historySeq     uint64
	historyApplied uint64
}

// NewShell creates a disconnected shell.
func NewShell(opts Options) *Shell {
	s := &Shell{
		provider: opts.Provider,
		bind:     opts.Bind,
		notifier: opts.Notifier,
		metrics:  opts.Metrics,
		onChange: opts.OnChange,
		logger:   opts.Logger,
	}
	if s.notifier == nil {
		s.notifier = logNotifier{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Session returns the current session value.
func (s *Shell) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Snapshot returns the serializable view of the current session.
func (s *Shell) Snapshot() Snapshot {
	return s.Session().Snapshot()
}

// apply replaces the session with fn(current) and publishes the result.
// fn runs under the shell lock and must not block.
func (s *Shell) apply(fn func(Session) Session) Session {
	s.mu.Lock()
	s.session = fn(s.session)
	next := s.session
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange(next.Snapshot())
	}
	return next
}

// Connect requests the wallet account, binds the contract and loads the
// history once. Connecting an already connected session is a no-op.
func (s *Shell) Connect(ctx context.Context) error {
	if s.Session().Connected() {
		return nil
	}
	if s.provider == nil {
		s.logger.Warn("Connect requested without wallet provider")
		s.notifier.Notice(NoticeNoWallet)
		s.metrics.connect(outcomeUnavailable)
		return ErrProviderUnavailable
	}

	addr, handle, err := s.connectWallet(ctx)
	if err != nil {
		s.logger.Error("Wallet connection failed", "error", err)
		s.notifier.Notice(NoticeConnectFailed)
		s.metrics.connect(outcomeError)
		return err
	}

	first := false
	s.mu.Lock()
	if !s.session.Connected() {
		s.session = s.session.withConnection(addr, handle)
		first = true
	}
	s.mu.Unlock()
	if !first {
		return nil
	}
	if s.onChange != nil {
		s.onChange(s.Snapshot())
	}

	s.metrics.connect(outcomeOK)
	s.logger.Info("Wallet connected", "address", addr.Hex())

	// Failures are logged inside LoadHistory.
	_ = s.LoadHistory(ctx)
	return nil
}

func (s *Shell) connectWallet(ctx context.Context) (common.Address, Contract, error) {
	accounts, err := s.provider.RequestAccounts(ctx)
	if err != nil {
		return common.Address{}, nil, &RemoteError{Op: "request accounts", Err: err}
	}
	if len(accounts) == 0 {
		return common.Address{}, nil, ErrNoAccounts
	}
	signer, err := s.provider.Signer(ctx)
	if err != nil {
		return common.Address{}, nil, &RemoteError{Op: "signer", Err: err}
	}
	if s.bind == nil {
		return common.Address{}, nil, fmt.Errorf("no contract binder configured")
	}
	handle, err := s.bind(ctx, signer)
	if err != nil {
		return common.Address{}, nil, fmt.Errorf("bind contract: %w", err)
	}
	return accounts[0], handle, nil
}

// Play submits move, waits for confirmation and refreshes the history.
// Without a contract handle it does nothing.
func (s *Shell) Play(ctx context.Context, move domain.Move) error {
	handle := s.Session().contract
	if handle == nil {
		s.metrics.play(move.String(), outcomeSkipped)
		return nil
	}
	if !move.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidMove, uint8(move))
	}

	s.beginSubmission()
	defer s.endSubmission()

	log := s.logger.With("move", move.String())
	log.Info("Submitting move")

	tx, err := handle.Play(ctx, move)
	if err == nil {
		log = log.With("tx", tx.Hash().Hex())
		err = handle.WaitConfirmed(ctx, tx)
	}
	if err != nil {
		log.Error("Move submission failed", "error", err)
		s.notifier.Notice(NoticeTxError)
		s.metrics.play(move.String(), outcomeError)
		return &RemoteError{Op: "play", Err: err}
	}

	log.Info("Move confirmed")
	s.metrics.play(move.String(), outcomeOK)

	// Failures are logged inside LoadHistory.
	_ = s.LoadHistory(ctx)
	return nil
}

func (s *Shell) beginSubmission() {
	s.metrics.addInFlight(1)
	s.apply(func(sess Session) Session {
		s.inFlight++
		return sess.withPending(true)
	})
}

func (s *Shell) endSubmission() {
	s.metrics.addInFlight(-1)
	s.apply(func(sess Session) Session {
		s.inFlight--
		return sess.withPending(s.inFlight > 0)
	})
}

// LoadHistory replaces the session history with the contract's. A failure
// keeps the previous history and is only logged. When fetches overlap, a
// result older than the one already applied is dropped.
func (s *Shell) LoadHistory(ctx context.Context) error {
	s.mu.Lock()
	handle := s.session.contract
	s.historySeq++
	seq := s.historySeq
	s.mu.Unlock()
	if handle == nil {
		return nil
	}

	records, err := handle.History(ctx)
	if err != nil {
		s.logger.Warn("History refresh failed", "error", err)
		s.metrics.refresh(outcomeError)
		return &RemoteError{Op: "getHistory", Err: err}
	}

	s.mu.Lock()
	if seq < s.historyApplied {
		s.mu.Unlock()
		s.logger.Debug("Dropped stale history", "games", len(records))
		s.metrics.refresh(outcomeSkipped)
		return nil
	}
	s.historyApplied = seq
	s.session = s.session.withHistory(records)
	next := s.session
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange(next.Snapshot())
	}
	s.metrics.refresh(outcomeOK)
	s.logger.Debug("History refreshed", "games", len(records))
	return nil
}
