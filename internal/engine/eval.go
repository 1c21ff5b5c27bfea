// Package engine implements the Hex move-selection engine: evaluation, move
// ordering and the time-bounded alpha-beta search.
package engine

import (
	"errors"
	"math"
	"sync"

	"github.com/hailam/hexplay/internal/board"
)

// Score constants
const (
	Infinity = 1e9 // search window bound
	WinScore = 1e6 // a connected board; larger than any heuristic sum
	MaxPly   = 128
)

// Weights are the tunable scalars of the evaluator and the move orderer.
// None of them is load-bearing for correctness except that Edge must exceed
// Center, which keeps Evaluate monotone in the evaluated player's stones.
type Weights struct {
	// Evaluation
	Edge     float64 `json:"edge"`
	Bridge   float64 `json:"bridge"`
	Opponent float64 `json:"opponent"`
	Center   float64 `json:"center"`

	// Move ordering
	RankEdge       float64 `json:"rank_edge"`
	RankCenter     float64 `json:"rank_center"`
	RankTargetEdge float64 `json:"rank_target_edge"`
	RankBridge     float64 `json:"rank_bridge"`
	RankOpponent   float64 `json:"rank_opponent"`
	RankOracle     float64 `json:"rank_oracle"`
}

// DefaultWeights returns the stock weights.
func DefaultWeights() Weights {
	return Weights{
		Edge:     0.6,
		Bridge:   0.3,
		Opponent: 0.1,
		Center:   0.3,

		RankEdge:       1.0,
		RankCenter:     1.0,
		RankTargetEdge: 2.0,
		RankBridge:     0.8,
		RankOpponent:   0.6,
		RankOracle:     1.5,
	}
}

// ErrInvalidWeights is returned by Weights.Validate.
var ErrInvalidWeights = errors.New("invalid weights")

// Validate rejects negative weights and an Edge weight that does not
// dominate the game-phase center term.
func (w Weights) Validate() error {
	for _, v := range []float64{
		w.Edge, w.Bridge, w.Opponent, w.Center,
		w.RankEdge, w.RankCenter, w.RankTargetEdge, w.RankBridge, w.RankOpponent, w.RankOracle,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrInvalidWeights
		}
	}
	if w.Edge <= w.Center {
		return ErrInvalidWeights
	}
	return nil
}

// Tables holds per-cell weights for one player on one board size.
// Indexed row*N+col. Read-only once built.
type Tables struct {
	Size     int
	Edge     []float64 // higher nearer the player's target sides, >= 1
	Center   []float64 // 1 at the center, decays with distance
	Bridge   []float64 // checkerboard bonus for bridge-friendly cells
	Opponent []float64 // contested-area weight, higher on the main diagonal
}

// NewTables computes the weight tables for p on an N×N board.
func NewTables(size int, p board.Player) *Tables {
	n := size * size
	t := &Tables{
		Size:     size,
		Edge:     make([]float64, n),
		Center:   make([]float64, n),
		Bridge:   make([]float64, n),
		Opponent: make([]float64, n),
	}

	mid := float64(size-1) / 2
	maxCenter := 0.0
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			i := r*size + c

			axis := c
			if p == board.PlayerB {
				axis = r
			}
			t.Edge[i] = 1
			if mid > 0 {
				t.Edge[i] += math.Abs(float64(axis)-mid) / mid
			}

			dr, dc := float64(r)-mid, float64(c)-mid
			t.Center[i] = 1 / (1 + math.Sqrt(dr*dr+dc*dc))
			if t.Center[i] > maxCenter {
				maxCenter = t.Center[i]
			}

			if r < size-1 && c < size-1 {
				if (r+c)%2 == 0 {
					t.Bridge[i] = 2
				} else {
					t.Bridge[i] = 1
				}
			}

			t.Opponent[i] = 1.5 - 0.5*math.Abs(float64(r-c))/float64(size)
		}
	}
	for i := range t.Center {
		t.Center[i] /= maxCenter
	}

	return t
}

// tableSet caches the weight tables of both players for one board size.
type tableSet struct {
	mu     sync.Mutex
	size   int
	tables [3]*Tables
}

// get returns the tables for p, rebuilding both players' tables when the
// board size changes.
func (ts *tableSet) get(size int, p board.Player) *Tables {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.size != size || ts.tables[p] == nil {
		ts.size = size
		ts.tables[board.PlayerA] = NewTables(size, board.PlayerA)
		ts.tables[board.PlayerB] = NewTables(size, board.PlayerB)
	}
	return ts.tables[p]
}

// Evaluator scores positions statically.
type Evaluator struct {
	weights Weights
	tables  tableSet
}

// NewEvaluator creates an evaluator with the given weights.
func NewEvaluator(w Weights) *Evaluator {
	return &Evaluator{weights: w}
}

// Weights returns the evaluator's weights.
func (e *Evaluator) Weights() Weights {
	return e.weights
}

// Tables returns the weight tables for p on a board of the given size.
func (e *Evaluator) Tables(size int, p board.Player) *Tables {
	return e.tables.get(size, p)
}

// Evaluate returns the static value of b from p's point of view.
// A connected p scores +WinScore, a connected opponent -WinScore. Otherwise
// it is a single pass over the board summing table weights of each
// player's stones, self minus opponent; the center term fades as the board
// fills.
func (e *Evaluator) Evaluate(b *board.Board, p board.Player) float64 {
	opp := p.Opponent()
	if b.IsConnected(p) {
		return WinScore
	}
	if b.IsConnected(opp) {
		return -WinScore
	}

	size := b.Size()
	self := e.tables.get(size, p)
	other := e.tables.get(size, opp)

	var edge, bridge, area, center float64
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			i := r*size + c
			switch b.At(r, c) {
			case p:
				edge += self.Edge[i]
				bridge += self.Bridge[i]
				area += self.Opponent[i]
				center += self.Center[i]
			case opp:
				edge -= other.Edge[i]
				bridge -= other.Bridge[i]
				area -= other.Opponent[i]
				center -= other.Center[i]
			}
		}
	}

	w := e.weights
	phase := b.Phase()
	return edge*w.Edge + bridge*w.Bridge + area*w.Opponent + center*w.Center*(1-phase)
}

// Evaluate scores b for p with the default weights.
func Evaluate(b *board.Board, p board.Player) float64 {
	return defaultEvaluator.Evaluate(b, p)
}

var defaultEvaluator = NewEvaluator(DefaultWeights())
