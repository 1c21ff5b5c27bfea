package engine

import (
	"sort"
	"time"

	"github.com/hailam/hexplay/internal/board"
)

// Move ordering priorities
const (
	hintMoveScore = 1e6 // transposition-table move goes first
)

// MoveOrderer ranks candidate moves best-first so alpha-beta cuts early.
// It never modifies the board or the move slice it is given.
type MoveOrderer struct {
	eval   *Evaluator
	oracle *Oracle
}

// NewMoveOrderer creates a move orderer sharing the evaluator's weights and
// tables. oracle may be nil, which drops the root-only oracle term.
func NewMoveOrderer(eval *Evaluator, oracle *Oracle) *MoveOrderer {
	return &MoveOrderer{eval: eval, oracle: oracle}
}

// ScoreMoves assigns an ordering score to each move for mover.
// The Distance Oracle term is only computed when root is set: it costs a
// shortest-path search per candidate.
func (mo *MoveOrderer) ScoreMoves(b *board.Board, moves []board.Move, mover board.Player, root bool) []float64 {
	return mo.scoreMoves(b, moves, mover, root, time.Time{})
}

func (mo *MoveOrderer) scoreMoves(b *board.Board, moves []board.Move, mover board.Player, root bool, deadline time.Time) []float64 {
	scores := make([]float64, len(moves))
	if len(moves) == 0 {
		return scores
	}

	size := b.Size()
	w := mo.eval.weights
	t := mo.eval.Tables(size, mover)
	opp := mover.Opponent()

	var nbuf [6]board.Move
	for i, m := range moves {
		idx := m.Row*size + m.Col
		score := w.RankEdge*t.Edge[idx] + w.RankCenter*t.Center[idx]

		if board.IsTargetSide(mover, size, m.Row, m.Col) {
			score += w.RankTargetEdge
		}

		neighbours := b.AppendNeighbors(nbuf[:0], m.Row, m.Col)
		score += w.RankBridge * float64(bridgePairs(b, neighbours, mover))

		oppCount := 0
		for _, n := range neighbours {
			if b.At(n.Row, n.Col) == opp {
				oppCount++
			}
		}
		score -= w.RankOpponent * float64(oppCount) * t.Opponent[idx]

		scores[i] = score
	}

	if root && mo.oracle != nil && w.RankOracle != 0 {
		mo.addOracleGains(b, moves, mover, scores, deadline)
	}

	return scores
}

// addOracleGains adds the oracle term to scores. If deadline passes before
// every move is measured the term is dropped for all of them, so no move is
// favoured just for being measured first.
func (mo *MoveOrderer) addOracleGains(b *board.Board, moves []board.Move, mover board.Player, scores []float64, deadline time.Time) {
	w := mo.eval.weights
	base := mo.oracle.Distance(b, mover)
	gains := make([]float64, len(moves))

	for i, m := range moves {
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return
		}
		after := b.Clone()
		if after.Place(m.Row, m.Col, mover) {
			gains[i] = w.RankOracle * float64(base-mo.oracle.Distance(after, mover))
		}
	}

	for i, g := range gains {
		scores[i] += g
	}
}

// OrderRoot orders root candidates for mover, measuring oracle gains only
// while deadline has not passed.
func (mo *MoveOrderer) OrderRoot(b *board.Board, moves []board.Move, mover board.Player, deadline time.Time) []board.Move {
	return SortMoves(moves, mo.scoreMoves(b, moves, mover, true, deadline))
}

// Order returns moves sorted best-first for mover. Equal scores keep their
// input order. A hint move present in moves is placed first.
func (mo *MoveOrderer) Order(b *board.Board, moves []board.Move, mover board.Player, root bool, hint board.Move) []board.Move {
	scores := mo.ScoreMoves(b, moves, mover, root)
	if !hint.IsNone() {
		for i, m := range moves {
			if m == hint {
				scores[i] += hintMoveScore
				break
			}
		}
	}
	return SortMoves(moves, scores)
}

// SortMoves returns a copy of moves sorted by descending score; ties keep
// their original order.
func SortMoves(moves []board.Move, scores []float64) []board.Move {
	idx := make([]int, len(moves))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return scores[idx[i]] > scores[idx[j]]
	})

	sorted := make([]board.Move, len(moves))
	for i, k := range idx {
		sorted[i] = moves[k]
	}
	return sorted
}

// bridgePairs counts pairs of mover stones among an empty cell's
// neighbours that are not adjacent to each other: claiming the cell would
// join two groups a bridge apart.
func bridgePairs(b *board.Board, neighbours []board.Move, mover board.Player) int {
	var own [6]board.Move
	n := 0
	for _, m := range neighbours {
		if b.At(m.Row, m.Col) == mover {
			own[n] = m
			n++
		}
	}

	pairs := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if !b.Adjacent(own[i], own[j]) {
				pairs++
			}
		}
	}
	return pairs
}
