package game

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ashureev/rps-labs/internal/domain"
)

// ErrUnknownAction is returned for actions missing from the dispatch table.
var ErrUnknownAction = errors.New("unknown action")

// ActionKind names a user action.
type ActionKind string

const (
	ActionConnect ActionKind = "connect"
	ActionPlay    ActionKind = "play"
	ActionRefresh ActionKind = "refresh"
)

// Action is one user command. Move is only read for ActionPlay.
type Action struct {
	Kind ActionKind
	Move domain.Move
}

func (a Action) String() string {
	if a.Kind == ActionPlay {
		return string(a.Kind) + ":" + strings.ToLower(a.Move.String())
	}
	return string(a.Kind)
}

// ConnectAction, PlayAction and RefreshAction build the three actions.
func ConnectAction() Action              { return Action{Kind: ActionConnect} }
func PlayAction(move domain.Move) Action { return Action{Kind: ActionPlay, Move: move} }
func RefreshAction() Action              { return Action{Kind: ActionRefresh} }

// ParseAction parses "connect", "refresh" or "play:<move>".
func ParseAction(s string) (Action, error) {
	kind, arg, _ := strings.Cut(strings.TrimSpace(s), ":")
	switch ActionKind(strings.ToLower(kind)) {
	case ActionConnect:
		return ConnectAction(), nil
	case ActionRefresh:
		return RefreshAction(), nil
	case ActionPlay:
		move, err := domain.ParseMove(arg)
		if err != nil {
			return Action{}, fmt.Errorf("%w: %v", ErrInvalidMove, err)
		}
		return PlayAction(move), nil
	}
	return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

type handlerFunc func(ctx context.Context, s *Shell, a Action) error

var dispatchTable = map[ActionKind]handlerFunc{
	ActionConnect: func(ctx context.Context, s *Shell, _ Action) error { return s.Connect(ctx) },
	ActionPlay:    func(ctx context.Context, s *Shell, a Action) error { return s.Play(ctx, a.Move) },
	ActionRefresh: func(ctx context.Context, s *Shell, _ Action) error { return s.LoadHistory(ctx) },
}

// Dispatch runs the shell operation mapped to a.
func (s *Shell) Dispatch(ctx context.Context, a Action) error {
	h, ok := dispatchTable[a.Kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, a.Kind)
	}
	return h(ctx, s, a)
}
