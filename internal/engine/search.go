package engine

import (
	"sync/atomic"
	"time"

	"github.com/hailam/hexplay/internal/board"
)

// Searcher runs depth-limited alpha-beta for one root player. Each
// goroutine owns its own Searcher; the evaluator, orderer and
// transposition table behind it are shared read-only or lock-protected.
type Searcher struct {
	eval    *Evaluator
	orderer *MoveOrderer
	tt      *TranspositionTable

	root     board.Player
	deadline time.Time
	stopFlag *atomic.Bool
	aborted  bool

	nodes  uint64
	prunes uint64
}

// NewSearcher creates a searcher maximising for root. It stops once
// deadline passes or stopFlag is set. tt may be nil.
func NewSearcher(eval *Evaluator, orderer *MoveOrderer, tt *TranspositionTable, root board.Player, deadline time.Time, stopFlag *atomic.Bool) *Searcher {
	if stopFlag == nil {
		stopFlag = new(atomic.Bool)
	}
	return &Searcher{
		eval:     eval,
		orderer:  orderer,
		tt:       tt,
		root:     root,
		deadline: deadline,
		stopFlag: stopFlag,
	}
}

// Nodes returns the number of nodes searched.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Prunes returns the number of beta cutoffs.
func (s *Searcher) Prunes() uint64 {
	return s.prunes
}

// Aborted reports whether the last search was cut off by the deadline or a
// stop request. Its result must be discarded.
func (s *Searcher) Aborted() bool {
	return s.aborted
}

// stopped polls the deadline and the stop flag. Once tripped it stays
// tripped so every frame unwinds without further clock reads.
func (s *Searcher) stopped() bool {
	if s.aborted {
		return true
	}
	if s.stopFlag.Load() || !time.Now().Before(s.deadline) {
		s.aborted = true
	}
	return s.aborted
}

// SearchRoot searches the root moves, already in the order they should be
// tried, to the given depth. It returns the first move with the highest
// value; ok is false if the search was interrupted.
func (s *Searcher) SearchRoot(b *board.Board, moves []board.Move, depth int) (best board.Move, bestScore float64, ok bool) {
	best = board.NoMove
	bestScore = -Infinity
	alpha := -Infinity

	for _, m := range moves {
		if s.stopped() {
			return best, bestScore, false
		}
		v, done := s.searchChild(b, m, depth, alpha, Infinity)
		if !done {
			return best, bestScore, false
		}
		if v > bestScore {
			bestScore = v
			best = m
		}
		if v > alpha {
			alpha = v
		}
	}

	return best, bestScore, true
}

// SearchMove returns the exact minimax value of playing m at the root,
// searched with a full window.
func (s *Searcher) SearchMove(b *board.Board, m board.Move, depth int) (float64, bool) {
	if s.stopped() {
		return 0, false
	}
	return s.searchChild(b, m, depth, -Infinity, Infinity)
}

func (s *Searcher) searchChild(b *board.Board, m board.Move, depth int, alpha, beta float64) (float64, bool) {
	child := b.Clone()
	child.Place(m.Row, m.Col, s.root)
	v := s.alphaBeta(child, depth-1, 1, alpha, beta, false)
	return v, !s.aborted
}

// alphaBeta is minimax with alpha-beta pruning. Scores are from the root
// player's point of view; maximizing is true when the root player moves.
// Wins are shaded by ply so that nearer wins score higher.
func (s *Searcher) alphaBeta(b *board.Board, depth, ply int, alpha, beta float64, maximizing bool) float64 {
	if s.stopped() {
		return 0
	}
	s.nodes++

	if w := b.Winner(); w != board.NoPlayer {
		if w == s.root {
			return WinScore - float64(ply)
		}
		return -WinScore + float64(ply)
	}
	if depth <= 0 {
		return s.eval.Evaluate(b, s.root)
	}

	moves := b.LegalMoves()
	if len(moves) == 0 {
		return s.eval.Evaluate(b, s.root)
	}

	mover := s.root
	if !maximizing {
		mover = s.root.Opponent()
	}

	hash := b.Hash ^ board.ZobristToMove(mover)
	hint := board.NoMove
	if s.tt != nil {
		if e, found := s.tt.Probe(hash); found {
			hint = e.BestMove
			// Only an equal-depth entry stands in for this node, so values match
			// plain depth-limited minimax.
			if int(e.Depth) == depth {
				score := AdjustScoreFromTT(e.Score, ply)
				switch {
				case e.Flag == TTExact:
					return score
				case e.Flag == TTLowerBound && score >= beta:
					return score
				case e.Flag == TTUpperBound && score <= alpha:
					return score
				}
			}
		}
	}

	ordered := s.orderer.Order(b, moves, mover, false, hint)
	alphaOrig, betaOrig := alpha, beta
	best := board.NoMove

	var value float64
	if maximizing {
		value = -Infinity
		for _, m := range ordered {
			child := b.Clone()
			child.Place(m.Row, m.Col, mover)
			v := s.alphaBeta(child, depth-1, ply+1, alpha, beta, false)
			if s.aborted {
				return 0
			}
			if v > value {
				value = v
				best = m
			}
			if value > alpha {
				alpha = value
			}
			if beta <= alpha {
				s.prunes++
				break
			}
		}
	} else {
		value = Infinity
		for _, m := range ordered {
			child := b.Clone()
			child.Place(m.Row, m.Col, mover)
			v := s.alphaBeta(child, depth-1, ply+1, alpha, beta, true)
			if s.aborted {
				return 0
			}
			if v < value {
				value = v
				best = m
			}
			if value < beta {
				beta = value
			}
			if beta <= alpha {
				s.prunes++
				break
			}
		}
	}

	if s.tt != nil {
		flag := TTExact
		if value <= alphaOrig {
			flag = TTUpperBound
		} else if value >= betaOrig {
			flag = TTLowerBound
		}
		s.tt.Store(hash, depth, AdjustScoreToTT(value, ply), flag, best)
	}

	return value
}
