package engine

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/hexplay/internal/board"
)

// SearchInfo contains information about a completed search depth.
type SearchInfo struct {
	Depth    int
	Score    float64
	Nodes    uint64
	Prunes   uint64
	Time     time.Duration
	Move     board.Move
	HashFull int // Permille of hash table used
}

// SearchLimits specifies constraints on the search.
type SearchLimits struct {
	Depth    int           // Maximum depth (0 = engine default)
	MoveTime time.Duration // Time for this move
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // 2 ply, 500ms
	Medium                   // 4 ply, 2s
	Hard                     // engine depth limit, 5s
)

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]SearchLimits{
	Easy:   {Depth: 2, MoveTime: 500 * time.Millisecond},
	Medium: {Depth: 4, MoveTime: 2 * time.Second},
	Hard:   {Depth: 0, MoveTime: 5 * time.Second},
}

// String returns the difficulty name.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

// ParseDifficulty parses a difficulty name.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch s {
	case "easy":
		return Easy, true
	case "medium":
		return Medium, true
	case "hard":
		return Hard, true
	}
	return Medium, false
}

// Option configures an Engine.
type Option func(*config)

type config struct {
	book          OpeningBook
	threads       int
	maxDepth      int
	weights       Weights
	ttSizeMB      int
	oracleEntries int64
	margin        time.Duration
	logger        *zerolog.Logger
}

// WithBook consults book before searching.
func WithBook(book OpeningBook) Option {
	return func(c *config) {
		c.book = book
	}
}

// WithThreads searches root moves on up to n goroutines.
func WithThreads(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.threads = n
		}
	}
}

// WithMaxDepth caps iterative deepening. The default is min(20, 2N).
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// WithWeights replaces the evaluation and ordering weights.
func WithWeights(w Weights) Option {
	return func(c *config) {
		c.weights = w
	}
}

// WithTranspositionTable sets the transposition table size in MB; 0 disables it.
func WithTranspositionTable(sizeMB int) Option {
	return func(c *config) {
		if sizeMB >= 0 {
			c.ttSizeMB = sizeMB
		}
	}
}

// WithOracleCache sets how many Distance Oracle results are cached; 0 disables caching.
func WithOracleCache(entries int64) Option {
	return func(c *config) {
		if entries >= 0 {
			c.oracleEntries = entries
		}
	}
}

// WithSafetyMargin sets the time kept in reserve from every budget.
func WithSafetyMargin(margin time.Duration) Option {
	return func(c *config) {
		if margin >= 0 {
			c.margin = margin
		}
	}
}

// WithLogger sets the engine's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = &logger
	}
}

// Engine is the Hex AI engine. It serves one request at a time.
type Engine struct {
	eval    *Evaluator
	orderer *MoveOrderer
	oracle  *Oracle
	tt      *TranspositionTable
	tm      *TimeManager
	movers  Chain

	threads  int
	maxDepth int
	margin   time.Duration
	logger   zerolog.Logger

	stopFlag atomic.Bool
	nodes    atomic.Uint64
	prunes   atomic.Uint64

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine.
func NewEngine(options ...Option) (*Engine, error) {
	c := config{
		threads:       1,
		weights:       DefaultWeights(),
		ttSizeMB:      16,
		oracleEntries: 1 << 16,
		margin:        defaultSafetyMargin,
	}
	for _, option := range options {
		option(&c)
	}

	if err := c.weights.Validate(); err != nil {
		return nil, err
	}
	oracle, err := NewOracle(c.oracleEntries)
	if err != nil {
		return nil, fmt.Errorf("oracle cache: %w", err)
	}

	e := &Engine{
		eval:     NewEvaluator(c.weights),
		oracle:   oracle,
		tm:       NewTimeManager(),
		threads:  c.threads,
		maxDepth: c.maxDepth,
		margin:   c.margin,
		logger:   log.Logger,
	}
	if c.logger != nil {
		e.logger = *c.logger
	}
	if c.ttSizeMB > 0 {
		e.tt = NewTranspositionTable(c.ttSizeMB)
	}
	e.orderer = NewMoveOrderer(e.eval, e.oracle)

	e.movers = Chain{
		BookMover{Book: c.book},
		WinningMover{},
		MoverFunc(func(ctx context.Context, b *board.Board, p board.Player, budget time.Duration) (board.Move, error) {
			return e.search(ctx, b, p, SearchLimits{MoveTime: budget})
		}),
	}

	return e, nil
}

// Evaluator returns the engine's evaluator.
func (e *Engine) Evaluator() *Evaluator {
	return e.eval
}

// Oracle returns the engine's cached Distance Oracle.
func (e *Engine) Oracle() *Oracle {
	return e.oracle
}

// SelectMove picks a move for p on b within budget. b is not modified.
// It fails only when the request is invalid, the board is full or the game
// is already decided.
func (e *Engine) SelectMove(ctx context.Context, b *board.Board, p board.Player, budget time.Duration) (board.Move, error) {
	if err := ValidateRequest(b, p, budget); err != nil {
		return board.NoMove, err
	}
	return e.movers.SelectMove(ctx, b, p, budget)
}

// SearchWithLimits skips the book and searches with explicit limits.
func (e *Engine) SearchWithLimits(ctx context.Context, b *board.Board, p board.Player, limits SearchLimits) (board.Move, error) {
	if err := ValidateRequest(b, p, limits.MoveTime); err != nil {
		return board.NoMove, err
	}
	if m, ok := FindWin(b, p); ok {
		return m, nil
	}
	return e.search(ctx, b, p, limits)
}

// SelectMoveAt searches with the limits of a difficulty preset.
func (e *Engine) SelectMoveAt(ctx context.Context, b *board.Board, p board.Player, d Difficulty) (board.Move, error) {
	limits, ok := DifficultySettings[d]
	if !ok {
		limits = DifficultySettings[Medium]
	}
	return e.SearchWithLimits(ctx, b, p, limits)
}

// search runs the block check and iterative deepening.
func (e *Engine) search(ctx context.Context, b *board.Board, p board.Player, limits SearchLimits) (board.Move, error) {
	e.stopFlag.Store(false)
	e.nodes.Store(0)
	e.prunes.Store(0)
	if e.tt != nil {
		e.tt.NewSearch()
	}

	stop := context.AfterFunc(ctx, func() { e.stopFlag.Store(true) })
	defer stop()

	e.tm.Init(limits.MoveTime, e.margin)
	deadline := e.tm.Deadline()
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	candidates := Threats(b, p.Opponent())
	if len(candidates) == 0 {
		candidates = b.LegalMoves()
	} else {
		e.logger.Debug().Int("threats", len(candidates)).Msg("opponent threatens to connect")
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}

	if !time.Now().Before(deadline) {
		e.logger.Debug().Str("move", candidates[0].String()).Msg("deadline passed before ordering")
		return candidates[0], nil
	}

	root := e.orderer.OrderRoot(b, candidates, p, deadline)
	best := root[0]
	bestScore := -Infinity
	completed := 0

	maxDepth := e.depthLimit(b, limits)
	for depth := 1; depth <= maxDepth; depth++ {
		if e.stopFlag.Load() || !time.Now().Before(deadline) {
			break
		}

		iterStart := time.Now()
		move, score, ok := e.searchDepth(b, p, root, depth, deadline)
		if !ok {
			e.logger.Debug().Int("depth", depth).Msg("depth abandoned at deadline")
			break
		}

		best, bestScore, completed = move, score, depth
		root = promote(root, best)

		info := SearchInfo{
			Depth:  depth,
			Score:  score,
			Nodes:  e.nodes.Load(),
			Prunes: e.prunes.Load(),
			Time:   e.tm.Elapsed(),
			Move:   best,
		}
		if e.tt != nil {
			info.HashFull = e.tt.HashFull()
		}
		e.logger.Debug().
			Int("depth", depth).
			Float64("score", score).
			Uint64("nodes", info.Nodes).
			Str("move", best.String()).
			Msg("depth complete")
		if e.OnInfo != nil {
			e.OnInfo(info)
		}

		// A proven result will not change with more depth.
		if math.Abs(score) >= WinScore-MaxPly {
			break
		}
		if !e.tm.WorthDeepening(time.Since(iterStart)) {
			break
		}
	}

	if completed == 0 {
		e.logger.Debug().Str("move", best.String()).Msg("no depth completed, playing top-ranked move")
	}
	e.logger.Info().
		Str("player", p.String()).
		Str("move", best.String()).
		Int("depth", completed).
		Float64("score", bestScore).
		Uint64("nodes", e.nodes.Load()).
		Dur("elapsed", e.tm.Elapsed()).
		Msg("move selected")

	return best, nil
}

// depthLimit returns the deepest iteration worth running on b.
func (e *Engine) depthLimit(b *board.Board, limits SearchLimits) int {
	depth := e.maxDepth
	if depth == 0 {
		depth = min(20, 2*b.Size())
	}
	if limits.Depth > 0 && limits.Depth < depth {
		depth = limits.Depth
	}
	return min(depth, b.Empties(), MaxPly-1)
}

// searchDepth runs one full iteration over the ordered root moves.
func (e *Engine) searchDepth(b *board.Board, p board.Player, root []board.Move, depth int, deadline time.Time) (board.Move, float64, bool) {
	if e.threads <= 1 || len(root) < 2 {
		s := e.newSearcher(p, deadline)
		move, score, ok := s.SearchRoot(b, root, depth)
		e.collect(s)
		return move, score, ok
	}

	// Each root move gets an exact full-window value, so the chosen move is
	// the same one the sequential search picks.
	scores := make([]float64, len(root))
	var g errgroup.Group
	g.SetLimit(e.threads)
	for i, m := range root {
		g.Go(func() error {
			s := e.newSearcher(p, deadline)
			v, ok := s.SearchMove(b, m, depth)
			e.collect(s)
			if !ok {
				return errSearchAborted
			}
			scores[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return board.NoMove, 0, false
	}

	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return root[best], scores[best], true
}

func (e *Engine) newSearcher(p board.Player, deadline time.Time) *Searcher {
	return NewSearcher(e.eval, e.orderer, e.tt, p, deadline, &e.stopFlag)
}

func (e *Engine) collect(s *Searcher) {
	e.nodes.Add(s.Nodes())
	e.prunes.Add(s.Prunes())
}

// promote moves m to the front of moves, keeping the rest in order.
func promote(moves []board.Move, m board.Move) []board.Move {
	out := make([]board.Move, 0, len(moves))
	out = append(out, m)
	for _, x := range moves {
		if x != m {
			out = append(out, x)
		}
	}
	return out
}

// Stop stops the current search.
func (e *Engine) Stop() {
	e.stopFlag.Store(true)
}

// Nodes returns the number of nodes searched by the last request.
func (e *Engine) Nodes() uint64 {
	return e.nodes.Load()
}

// Prunes returns the number of beta cutoffs in the last request.
func (e *Engine) Prunes() uint64 {
	return e.prunes.Load()
}

// Clear clears the transposition table and the oracle cache.
func (e *Engine) Clear() {
	if e.tt != nil {
		e.tt.Clear()
	}
	e.oracle.Clear()
}

// Close releases the engine's caches.
func (e *Engine) Close() {
	e.oracle.Close()
}

// Evaluate returns the static evaluation of b for p.
func (e *Engine) Evaluate(b *board.Board, p board.Player) float64 {
	return e.eval.Evaluate(b, p)
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score float64) string {
	if score > WinScore-MaxPly {
		return fmt.Sprintf("win in %d", int(WinScore-score+1)/2)
	}
	if score < -WinScore+MaxPly {
		return fmt.Sprintf("loss in %d", int(WinScore+score+1)/2)
	}
	return fmt.Sprintf("%+.2f", score)
}
