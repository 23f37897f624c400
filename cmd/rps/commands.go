package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ashureev/rps-labs/internal/domain"
	"github.com/ashureev/rps-labs/internal/game"
	"github.com/ashureev/rps-labs/internal/view"
)

var playCmd = &cobra.Command{
	Use:       "play <rock|paper|scissors>",
	Short:     "Submit a move and wait for confirmation",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"rock", "paper", "scissors"},
	RunE: func(cmd *cobra.Command, args []string) error {
		move, err := domain.ParseMove(args[0])
		if err != nil {
			return err
		}
		return run(cmd, game.PlayAction(move))
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the game history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd, game.RefreshAction())
	},
}

var doCmd = &cobra.Command{
	Use:   "do <connect|refresh|play:<move>>",
	Short: "Run one shell action by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		action, err := game.ParseAction(args[0])
		if err != nil {
			return err
		}
		return run(cmd, action)
	},
}

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Show the wallet account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := newClient(cmd.Context())
		if err != nil {
			return err
		}
		defer c.close()

		if c.account == (common.Address{}) {
			pterm.Warning.Println(game.NoticeNoWallet)
			return nil
		}
		pterm.Info.Printfln("Account: %s", c.account.Hex())
		return nil
	},
}

// run connects, dispatches action unless it is the connect itself, and
// renders the resulting session.
func run(cmd *cobra.Command, action game.Action) error {
	c, err := newClient(cmd.Context())
	if err != nil {
		return err
	}
	defer c.close()

	if err := execute(cmd.Context(), c.shell, action); err != nil {
		return err
	}
	render(view.FromSnapshot(c.shell.Snapshot()))
	return nil
}

func execute(ctx context.Context, shell *game.Shell, action game.Action) error {
	if err := shell.Dispatch(ctx, game.ConnectAction()); err != nil {
		return noticed(fmt.Errorf("connect: %w", err))
	}

	switch action.Kind {
	case game.ActionConnect:
	case game.ActionRefresh:
		// The load inside Connect only logs; here a failure is the result.
		if err := shell.LoadHistory(ctx); err != nil {
			return fmt.Errorf("load history: %w", err)
		}
	default:
		spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("Submitting %s and waiting for confirmation ...", strings.ToLower(action.Move.String())))
		err := shell.Dispatch(ctx, action)
		if spinner != nil {
			if err != nil {
				spinner.Fail("Transaction failed")
			} else {
				spinner.Success("Move confirmed")
			}
		}
		if err != nil {
			return noticed(err)
		}
	}
	return nil
}

// noticedError marks an error the notifier has already shown.
type noticedError struct{ err error }

func (e *noticedError) Error() string { return e.err.Error() }
func (e *noticedError) Unwrap() error { return e.err }

func noticed(err error) error { return &noticedError{err: err} }

// errorMessage is the final line printed for err, or "" when the notifier
// already reported it.
func errorMessage(err error) string {
	var shown *noticedError
	if errors.As(err, &shown) {
		return ""
	}
	return err.Error()
}
