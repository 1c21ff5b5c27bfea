package engine

import (
	"testing"

	"github.com/hailam/hexplay/internal/board"
)

func TestTranspositionTable(t *testing.T) {
	tt := NewTranspositionTable(1)
	if tt.Size()&(tt.Size()-1) != 0 {
		t.Fatalf("size %d is not a power of two", tt.Size())
	}
	tt.NewSearch()

	hash := uint64(0xDEADBEEF12345678)
	move := board.NewMove(3, 4)
	tt.Store(hash, 5, 1.25, TTExact, move)

	entry, found := tt.Probe(hash)
	if !found {
		t.Fatal("entry not found after store")
	}
	if entry.Score != 1.25 || entry.Depth != 5 || entry.Flag != TTExact || entry.BestMove != move {
		t.Errorf("unexpected entry %+v", entry)
	}

	// Shallower results do not overwrite deeper ones from the same search.
	tt.Store(hash, 2, -3, TTUpperBound, board.NewMove(0, 0))
	entry, _ = tt.Probe(hash)
	if entry.Depth != 5 {
		t.Errorf("depth = %d, want 5", entry.Depth)
	}

	if _, found := tt.Probe(hash ^ 1); found {
		t.Error("probe matched a different key")
	}

	tt.NewSearch()
	if _, found := tt.Probe(hash); found {
		t.Error("entry from a previous search was returned")
	}

	tt.Store(hash, 1, 0, TTLowerBound, move)
	if _, found := tt.Probe(hash); !found {
		t.Error("stale entry was not replaced")
	}

	tt.Clear()
	if _, found := tt.Probe(hash); found {
		t.Error("entry survived Clear")
	}
}

func TestTranspositionAgeDoesNotWrap(t *testing.T) {
	tt := NewTranspositionTable(1)
	tt.NewSearch()
	tt.Store(42, 3, 123, TTExact, board.NewMove(1, 1))

	for i := 0; i < 256; i++ {
		tt.NewSearch()
		if _, found := tt.Probe(42); found {
			t.Fatalf("entry returned %d searches later", i+1)
		}
	}
	for i := 0; i < 1024; i++ {
		tt.NewSearch()
	}
	if _, found := tt.Probe(42); found {
		t.Error("entry returned after 1280 searches")
	}
	if tt.HashFull() != 0 {
		t.Errorf("HashFull() = %d with only stale entries", tt.HashFull())
	}
}

func TestTranspositionWinScores(t *testing.T) {
	// A win three plies below a node at ply 4 is stored relative to the node.
	score := WinScore - 7
	stored := AdjustScoreToTT(score, 4)
	if stored != WinScore-3 {
		t.Errorf("stored %v, want %v", stored, WinScore-3)
	}
	if got := AdjustScoreFromTT(stored, 2); got != WinScore-5 {
		t.Errorf("retrieved %v, want %v", got, WinScore-5)
	}
	if got := AdjustScoreFromTT(AdjustScoreToTT(-WinScore+6, 6), 1); got != -WinScore+1 {
		t.Errorf("loss retrieved as %v", got)
	}
	if got := AdjustScoreToTT(2.5, 9); got != 2.5 {
		t.Errorf("heuristic score adjusted to %v", got)
	}
}
