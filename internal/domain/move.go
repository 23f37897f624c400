// Package domain contains core domain types for the RPS client.
package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Move is a Rock-Paper-Scissors move as encoded by the contract (uint8).
type Move uint8

const (
	Rock Move = iota
	Paper
	Scissors
)

// Moves lists every valid move in contract order.
var Moves = []Move{Rock, Paper, Scissors}

var moveNames = [...]string{"Rock", "Paper", "Scissors"}

// Valid reports whether m is one of the three contract moves.
func (m Move) Valid() bool {
	return m <= Scissors
}

func (m Move) String() string {
	if !m.Valid() {
		return "Move(" + strconv.Itoa(int(m)) + ")"
	}
	return moveNames[m]
}

// MoveFromUint8 converts a raw contract value, rejecting out-of-range values.
func MoveFromUint8(v uint8) (Move, error) {
	m := Move(v)
	if !m.Valid() {
		return 0, fmt.Errorf("invalid move value %d", v)
	}
	return m, nil
}

// ParseMove accepts a move name in any case or its numeric value.
func ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(s)
	for i, name := range moveNames {
		if strings.EqualFold(s, name) {
			return Move(i), nil
		}
	}
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("unknown move %q", s)
	}
	return MoveFromUint8(uint8(n))
}

// MarshalJSON encodes the move as its contract value.
func (m Move) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(m))), nil
}

// UnmarshalJSON accepts either a number or a move name.
func (m *Move) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		parsed, err := ParseMove(name)
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("move must be a name or number: %w", err)
	}
	if n < 0 || n > 255 {
		return fmt.Errorf("invalid move value %d", n)
	}
	parsed, err := MoveFromUint8(uint8(n))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
