package engine

import (
	"context"
	"errors"
	"time"

	"github.com/hailam/hexplay/internal/board"
)

// Request errors. Deadline expiry is not among them: running out of time
// ends iterative deepening and the best move so far is returned.
var (
	ErrNoLegalMoves  = errors.New("no legal moves")
	ErrGameDecided   = errors.New("game already decided")
	ErrInvalidBudget = errors.New("time budget must be positive")
	ErrInvalidPlayer = errors.New("invalid player")
	ErrNoDecision    = errors.New("mover made no decision")
	errSearchAborted = errors.New("search aborted")
)

// Mover produces a move for p on b within budget.
// A Mover that has nothing to say returns ErrNoDecision.
type Mover interface {
	SelectMove(ctx context.Context, b *board.Board, p board.Player, budget time.Duration) (board.Move, error)
}

// MoverFunc adapts a function to the Mover interface.
type MoverFunc func(ctx context.Context, b *board.Board, p board.Player, budget time.Duration) (board.Move, error)

// SelectMove calls f.
func (f MoverFunc) SelectMove(ctx context.Context, b *board.Board, p board.Player, budget time.Duration) (board.Move, error) {
	return f(ctx, b, p, budget)
}

// Chain asks each mover in turn and returns the first decision.
type Chain []Mover

// SelectMove implements Mover.
func (c Chain) SelectMove(ctx context.Context, b *board.Board, p board.Player, budget time.Duration) (board.Move, error) {
	for _, m := range c {
		if m == nil {
			continue
		}
		move, err := m.SelectMove(ctx, b, p, budget)
		if errors.Is(err, ErrNoDecision) {
			continue
		}
		return move, err
	}
	return board.NoMove, ErrNoDecision
}

// OpeningBook supplies prepared moves for known positions.
type OpeningBook interface {
	Probe(b *board.Board, p board.Player) (board.Move, bool)
}

// BookMover plays from an opening book and declines on a miss.
type BookMover struct {
	Book OpeningBook
}

// SelectMove implements Mover.
func (bm BookMover) SelectMove(_ context.Context, b *board.Board, p board.Player, _ time.Duration) (board.Move, error) {
	if bm.Book == nil {
		return board.NoMove, ErrNoDecision
	}
	m, ok := bm.Book.Probe(b, p)
	if !ok || !b.IsLegal(m) {
		return board.NoMove, ErrNoDecision
	}
	return m, nil
}

// WinningMover plays a move that connects p immediately, if there is one.
type WinningMover struct{}

// SelectMove implements Mover.
func (WinningMover) SelectMove(_ context.Context, b *board.Board, p board.Player, _ time.Duration) (board.Move, error) {
	if m, ok := FindWin(b, p); ok {
		return m, nil
	}
	return board.NoMove, ErrNoDecision
}

// FindWin returns the first move in row-major order that connects p.
func FindWin(b *board.Board, p board.Player) (board.Move, bool) {
	for _, m := range b.LegalMoves() {
		if wins(b, m, p) {
			return m, true
		}
	}
	return board.NoMove, false
}

// Threats returns every move with which p would connect immediately.
func Threats(b *board.Board, p board.Player) []board.Move {
	var threats []board.Move
	for _, m := range b.LegalMoves() {
		if wins(b, m, p) {
			threats = append(threats, m)
		}
	}
	return threats
}

func wins(b *board.Board, m board.Move, p board.Player) bool {
	c := b.Clone()
	return c.Place(m.Row, m.Col, p) && c.IsConnected(p)
}

// ValidateRequest checks a move request. Only requests that pass may be
// searched.
func ValidateRequest(b *board.Board, p board.Player, budget time.Duration) error {
	if !p.Valid() {
		return ErrInvalidPlayer
	}
	if budget <= 0 {
		return ErrInvalidBudget
	}
	if b.Decided() {
		return ErrGameDecided
	}
	// A full Hex board always has a winner; kept for completeness.
	if b.Empties() == 0 {
		return ErrNoLegalMoves
	}
	return nil
}
