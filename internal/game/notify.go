package game

import "log/slog"

// User-visible notices.
const (
	NoticeNoWallet      = "No wallet available: configure a wallet key"
	NoticeConnectFailed = "Wallet connection failed"
	NoticeTxError       = "Transaction error (see logs)"
)

// Notifier shows a blocking notice to the user.
type Notifier interface {
	Notice(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

// Notice calls f(msg).
func (f NotifierFunc) Notice(msg string) { f(msg) }

type logNotifier struct{}

func (logNotifier) Notice(msg string) {
	slog.Warn("User notice", "notice", msg)
}
