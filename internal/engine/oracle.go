package engine

import (
	"github.com/dgraph-io/ristretto/v2"

	"github.com/hailam/hexplay/internal/board"
)

// Oracle answers virtual-connection-cost queries, memoising results by
// board hash. A nil cache falls through to board.Distance.
type Oracle struct {
	cache *ristretto.Cache[uint64, int]
}

// NewOracle creates an oracle caching up to maxEntries results.
// maxEntries <= 0 disables caching.
func NewOracle(maxEntries int64) (*Oracle, error) {
	if maxEntries <= 0 {
		return &Oracle{}, nil
	}
	cache, err := ristretto.NewCache(&ristretto.Config[uint64, int]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
		Metrics:     true,
	})
	if err != nil {
		return nil, err
	}
	return &Oracle{cache: cache}, nil
}

// Distance returns b.Distance(p), from the cache when possible.
func (o *Oracle) Distance(b *board.Board, p board.Player) int {
	if o == nil || o.cache == nil {
		return b.Distance(p)
	}

	key := oracleKey(b, p)
	if d, ok := o.cache.Get(key); ok {
		return d
	}
	d := b.Distance(p)
	o.cache.Set(key, d, 1)
	return d
}

// Gain returns how much claiming m lowers p's connection cost on b.
// b is not modified.
func (o *Oracle) Gain(b *board.Board, m board.Move, p board.Player) int {
	before := o.Distance(b, p)
	after := b.Clone()
	if !after.Place(m.Row, m.Col, p) {
		return 0
	}
	return before - o.Distance(after, p)
}

// Wait blocks until buffered cache writes are applied.
func (o *Oracle) Wait() {
	if o != nil && o.cache != nil {
		o.cache.Wait()
	}
}

// HitRate returns the cache hit ratio as a percentage.
func (o *Oracle) HitRate() float64 {
	if o == nil || o.cache == nil || o.cache.Metrics == nil {
		return 0
	}
	return o.cache.Metrics.Ratio() * 100
}

// Clear drops every cached result.
func (o *Oracle) Clear() {
	if o != nil && o.cache != nil {
		o.cache.Clear()
	}
}

// Close releases the cache.
func (o *Oracle) Close() {
	if o != nil && o.cache != nil {
		o.cache.Close()
	}
}

func oracleKey(b *board.Board, p board.Player) uint64 {
	// Boards of different sizes can share a stone layout hash; fold the size in.
	return b.Hash ^ board.ZobristToMove(p) ^ uint64(b.Size())*0x9E3779B97F4A7C15
}
