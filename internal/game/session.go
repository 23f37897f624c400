package game

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/ashureev/rps-labs/internal/domain"
)

// Session is the client state of one open game page. Values are immutable;
// the Shell replaces its session wholesale on every transition.
type Session struct {
	address  *common.Address
	contract Contract
	pending  bool
	history  []domain.GameRecord
}

// Connected reports whether a contract handle exists.
func (s Session) Connected() bool {
	return s.contract != nil
}

// Address returns the connected account, if any.
func (s Session) Address() (common.Address, bool) {
	if s.address == nil {
		return common.Address{}, false
	}
	return *s.address, true
}

// Pending reports whether a move submission is in flight.
func (s Session) Pending() bool {
	return s.pending
}

// History returns a copy of the last fetched game history.
func (s Session) History() []domain.GameRecord {
	out := make([]domain.GameRecord, len(s.history))
	copy(out, s.history)
	return out
}

func (s Session) withConnection(addr common.Address, c Contract) Session {
	s.address = &addr
	s.contract = c
	return s
}

func (s Session) withPending(pending bool) Session {
	s.pending = pending
	return s
}

func (s Session) withHistory(history []domain.GameRecord) Session {
	s.history = history
	return s
}

// Snapshot is the serializable view of a Session.
type Snapshot struct {
	Connected bool                `json:"connected"`
	Address   string              `json:"address,omitempty"`
	Pending   bool                `json:"pending"`
	History   []domain.GameRecord `json:"history"`
}

// Snapshot projects the session without its contract handle.
func (s Session) Snapshot() Snapshot {
	snap := Snapshot{
		Connected: s.Connected(),
		Pending:   s.pending,
		History:   s.History(),
	}
	if addr, ok := s.Address(); ok {
		snap.Address = addr.Hex()
	}
	return snap
}
