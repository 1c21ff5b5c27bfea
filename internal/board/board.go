package board

import (
	"errors"
	"fmt"
)

// Board size limits.
const (
	MinSize = 1
	MaxSize = 19
)

// ErrInvalidMove is returned by Play for an out-of-bounds or occupied cell.
var ErrInvalidMove = errors.New("invalid move")

// Board is an N×N Hex board. Cells are stored row-major.
// A cell, once claimed, is never emptied.
type Board struct {
	size    int
	cells   []Player
	empties int

	// Zobrist hash of the stones on the board
	Hash uint64
}

// New creates an empty board of the given size.
func New(size int) (*Board, error) {
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("board size %d outside [%d, %d]", size, MinSize, MaxSize)
	}
	return &Board{
		size:    size,
		cells:   make([]Player, size*size),
		empties: size * size,
	}, nil
}

// MustNew is like New but panics on an invalid size. Intended for tests and
// package-level tables.
func MustNew(size int) *Board {
	b, err := New(size)
	if err != nil {
		panic(err)
	}
	return b
}

// Size returns N.
func (b *Board) Size() int {
	return b.size
}

// InBounds reports whether (row, col) lies on the board.
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.size && col >= 0 && col < b.size
}

// At returns the owner of (row, col), NoPlayer for empty or out-of-bounds cells.
func (b *Board) At(row, col int) Player {
	if !b.InBounds(row, col) {
		return NoPlayer
	}
	return b.cells[row*b.size+col]
}

// Empties returns the number of empty cells.
func (b *Board) Empties() int {
	return b.empties
}

// Filled returns the number of claimed cells.
func (b *Board) Filled() int {
	return len(b.cells) - b.empties
}

// Count returns the number of stones owned by p.
func (b *Board) Count(p Player) int {
	n := 0
	for _, c := range b.cells {
		if c == p {
			n++
		}
	}
	return n
}

// Place claims (row, col) for p. It succeeds iff the cell is on the board and
// empty and p is a player; on failure the board is unchanged.
func (b *Board) Place(row, col int, p Player) bool {
	if !p.Valid() || !b.InBounds(row, col) {
		return false
	}
	idx := row*b.size + col
	if b.cells[idx] != NoPlayer {
		return false
	}
	b.cells[idx] = p
	b.empties--
	b.Hash ^= ZobristCell(p, row, col)
	return true
}

// Play is Place with an error result.
func (b *Board) Play(m Move, p Player) error {
	if !b.Place(m.Row, m.Col, p) {
		return fmt.Errorf("%w: %s for %s", ErrInvalidMove, m, p)
	}
	return nil
}

// IsLegal reports whether m is an empty cell on the board.
func (b *Board) IsLegal(m Move) bool {
	return b.InBounds(m.Row, m.Col) && b.cells[m.Row*b.size+m.Col] == NoPlayer
}

// LegalMoves returns every empty cell in row-major order.
func (b *Board) LegalMoves() []Move {
	moves := make([]Move, 0, b.empties)
	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			if b.cells[r*b.size+c] == NoPlayer {
				moves = append(moves, Move{Row: r, Col: c})
			}
		}
	}
	return moves
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	nb := *b
	nb.cells = make([]Player, len(b.cells))
	copy(nb.cells, b.cells)
	return &nb
}

// Phase returns the fraction of the board that is filled, in [0, 1].
func (b *Board) Phase() float64 {
	return float64(b.Filled()) / float64(len(b.cells))
}
