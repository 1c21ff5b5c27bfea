package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/hexplay/internal/board"
)

func TestOracleMatchesDistance(t *testing.T) {
	oracle, err := NewOracle(4096)
	require.NoError(t, err)
	defer oracle.Close()

	positions := []string{"5/5/5/5/5", "5/1a3/2b2/5/5", "2b2/2b2/1b3/1b3/5", "7/2a4/7/3b3/7/4a2/7"}
	for round := 0; round < 2; round++ {
		for _, pos := range positions {
			b := mustParse(t, pos)
			for _, p := range []board.Player{board.PlayerA, board.PlayerB} {
				assert.Equal(t, b.Distance(p), oracle.Distance(b, p), "%s for %s", pos, p)
			}
		}
		oracle.Wait()
	}
	assert.Positive(t, oracle.HitRate())

	oracle.Clear()
	b := mustParse(t, positions[1])
	assert.Equal(t, b.Distance(board.PlayerA), oracle.Distance(b, board.PlayerA))
}

func TestOracleKeySeparatesSizes(t *testing.T) {
	small, large := board.MustNew(3), board.MustNew(4)
	require.NotEqual(t, oracleKey(small, board.PlayerA), oracleKey(large, board.PlayerA))
	require.NotEqual(t, oracleKey(small, board.PlayerA), oracleKey(small, board.PlayerB))
}

func TestOracleGain(t *testing.T) {
	for _, oracle := range []*Oracle{nil, mustOracle(t, 0), mustOracle(t, 128)} {
		b := board.MustNew(5)
		assert.Equal(t, 1, oracle.Gain(b, board.NewMove(2, 2), board.PlayerA))

		b.Place(2, 2, board.PlayerB)
		assert.Zero(t, oracle.Gain(b, board.NewMove(2, 2), board.PlayerA), "occupied cell")
		assert.Equal(t, 1, oracle.Gain(b, board.NewMove(3, 2), board.PlayerB))
	}
}

func mustOracle(t *testing.T, entries int64) *Oracle {
	t.Helper()
	o, err := NewOracle(entries)
	require.NoError(t, err)
	t.Cleanup(o.Close)
	return o
}
