package game

import (
	"errors"
	"fmt"
)

var (
	// ErrProviderUnavailable is returned by Connect when no wallet is configured.
	ErrProviderUnavailable = errors.New("wallet provider unavailable")

	// ErrNoAccounts is returned by Connect when the wallet exposes no account.
	ErrNoAccounts = errors.New("wallet returned no accounts")

	// ErrInvalidMove is returned by Play for values outside Rock..Scissors.
	ErrInvalidMove = errors.New("invalid move")
)

// RemoteError wraps a failure of a wallet or contract call.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// IsRemote reports whether err is a wallet or contract call failure.
func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}
