package session

import (
	"log/slog"

	"github.com/ashureev/rps-labs/internal/game"
)

// ShellFactory returns a Factory whose shells push changes and notices for
// their key through hub. base supplies the wallet, binder and metrics.
func ShellFactory(base game.Options, hub *Hub) Factory {
	return func(key string) *game.Shell {
		opts := base
		opts.Logger = slog.Default().With("session", key)
		opts.OnChange = func(s game.Snapshot) { hub.PublishSession(key, s) }
		opts.Notifier = game.NotifierFunc(func(msg string) { hub.PublishNotice(key, msg) })
		return game.NewShell(opts)
	}
}
