package model

import (
	"fmt"
	"strings"
)

// Move is a shot (or dive) direction as encoded by the contract.
type Move uint8

const (
	MoveLeft   Move = 0
	MoveCenter Move = 1
	MoveRight  Move = 2
)

// Moves lists every valid direction in contract order.
var Moves = []Move{MoveLeft, MoveCenter, MoveRight}

// Valid reports whether m is one of the three enumerated directions.
func (m Move) Valid() bool {
	return m <= MoveRight
}

func (m Move) String() string {
	switch m {
	case MoveLeft:
		return "LEFT"
	case MoveCenter:
		return "CENTER"
	case MoveRight:
		return "RIGHT"
	default:
		return fmt.Sprintf("MOVE(%d)", uint8(m))
	}
}

// ParseMove accepts a direction name (case-insensitive) or its numeric code.
func ParseMove(s string) (Move, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LEFT", "L", "0":
		return MoveLeft, nil
	case "CENTER", "CENTRE", "C", "1":
		return MoveCenter, nil
	case "RIGHT", "R", "2":
		return MoveRight, nil
	}
	return 0, fmt.Errorf("unknown move %q", s)
}

// MarshalText encodes the move by name.
func (m Move) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a move from its name or numeric code.
func (m *Move) UnmarshalText(text []byte) error {
	v, err := ParseMove(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
