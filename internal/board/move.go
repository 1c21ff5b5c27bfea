package board

import (
	"fmt"
	"strconv"
)

// Move is a cell coordinate on the board.
type Move struct {
	Row int
	Col int
}

// NoMove represents an invalid or null move.
var NoMove = Move{Row: -1, Col: -1}

// NewMove creates a move from a row and column (0-indexed).
func NewMove(row, col int) Move {
	return Move{Row: row, Col: col}
}

// IsNone reports whether m is NoMove.
func (m Move) IsNone() bool {
	return m == NoMove
}

// String returns the cell in Hex notation: column letter followed by the
// 1-based row, e.g. "c3" for row 2, column 2.
func (m Move) String() string {
	if m.Row < 0 || m.Col < 0 || m.Col >= 26 {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+m.Col, m.Row+1)
}

// ParseMove parses Hex cell notation for a board of the given size.
func ParseMove(s string, size int) (Move, error) {
	if len(s) < 2 {
		return NoMove, fmt.Errorf("invalid cell: %q", s)
	}

	c := s[0]
	if c >= 'A' && c <= 'Z' {
		c += 'a' - 'A'
	}
	col := int(c - 'a')

	digits := s[1:]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return NoMove, fmt.Errorf("invalid cell: %q", s)
		}
	}
	if len(digits) > len(strconv.Itoa(MaxSize)) {
		return NoMove, fmt.Errorf("cell %q outside %dx%d board", s, size, size)
	}
	row, err := strconv.Atoi(digits)
	if err != nil {
		return NoMove, fmt.Errorf("invalid cell: %q", s)
	}
	row--

	if col < 0 || col >= size || row < 0 || row >= size {
		return NoMove, fmt.Errorf("cell %q outside %dx%d board", s, size, size)
	}

	return NewMove(row, col), nil
}
