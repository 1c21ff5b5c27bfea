package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/hexplay/internal/board"
)

type fixedBook struct {
	move board.Move
}

func (fb fixedBook) Probe(*board.Board, board.Player) (board.Move, bool) {
	return fb.move, !fb.move.IsNone()
}

func TestChainSkipsUndecided(t *testing.T) {
	b := board.MustNew(3)
	var calls []string

	chain := Chain{
		MoverFunc(func(context.Context, *board.Board, board.Player, time.Duration) (board.Move, error) {
			calls = append(calls, "first")
			return board.NoMove, ErrNoDecision
		}),
		nil,
		MoverFunc(func(context.Context, *board.Board, board.Player, time.Duration) (board.Move, error) {
			calls = append(calls, "second")
			return board.NewMove(2, 2), nil
		}),
		MoverFunc(func(context.Context, *board.Board, board.Player, time.Duration) (board.Move, error) {
			calls = append(calls, "third")
			return board.NewMove(0, 0), nil
		}),
	}

	m, err := chain.SelectMove(context.Background(), b, board.PlayerA, time.Second)
	require.NoError(t, err)
	assert.Equal(t, board.NewMove(2, 2), m)
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestChainPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	chain := Chain{
		MoverFunc(func(context.Context, *board.Board, board.Player, time.Duration) (board.Move, error) {
			return board.NoMove, boom
		}),
		WinningMover{},
	}

	_, err := chain.SelectMove(context.Background(), board.MustNew(3), board.PlayerA, time.Second)
	require.ErrorIs(t, err, boom)

	_, err = Chain{}.SelectMove(context.Background(), board.MustNew(3), board.PlayerA, time.Second)
	require.ErrorIs(t, err, ErrNoDecision)
}

func TestBookMover(t *testing.T) {
	ctx := context.Background()
	b := mustParse(t, "3/1a1/3")

	_, err := BookMover{}.SelectMove(ctx, b, board.PlayerB, time.Second)
	require.ErrorIs(t, err, ErrNoDecision, "nil book")

	_, err = BookMover{Book: fixedBook{move: board.NoMove}}.SelectMove(ctx, b, board.PlayerB, time.Second)
	require.ErrorIs(t, err, ErrNoDecision, "miss")

	_, err = BookMover{Book: fixedBook{move: board.NewMove(1, 1)}}.SelectMove(ctx, b, board.PlayerB, time.Second)
	require.ErrorIs(t, err, ErrNoDecision, "occupied cell")

	m, err := BookMover{Book: fixedBook{move: board.NewMove(0, 2)}}.SelectMove(ctx, b, board.PlayerB, time.Second)
	require.NoError(t, err)
	assert.Equal(t, board.NewMove(0, 2), m)
}

func TestFindWinAndThreats(t *testing.T) {
	b := mustParse(t, "5/5/aaaa1/5/5")

	m, ok := FindWin(b, board.PlayerA)
	require.True(t, ok)
	assert.Equal(t, board.NewMove(2, 4), m)

	_, ok = FindWin(b, board.PlayerB)
	assert.False(t, ok)
	assert.Empty(t, Threats(b, board.PlayerB))

	b = mustParse(t, "5/aaa2/5/5/5")
	assert.Empty(t, Threats(b, board.PlayerA))
	b = mustParse(t, "5/aaaa1/5/5/5")
	assert.Equal(t, []board.Move{board.NewMove(1, 4)}, Threats(b, board.PlayerA))
}

func TestValidateRequestOrder(t *testing.T) {
	full := mustParse(t, "ab/ba")
	require.ErrorIs(t, ValidateRequest(full, board.NoPlayer, 0), ErrInvalidPlayer)
	require.ErrorIs(t, ValidateRequest(full, board.PlayerA, 0), ErrInvalidBudget)
	require.ErrorIs(t, ValidateRequest(full, board.PlayerA, time.Second), ErrGameDecided)
	require.NoError(t, ValidateRequest(board.MustNew(2), board.PlayerA, time.Second))
}
