package board

import (
	"errors"
	"testing"
)

func TestNewRejectsBadSizes(t *testing.T) {
	for _, size := range []int{-1, 0, MaxSize + 1} {
		if _, err := New(size); err == nil {
			t.Errorf("New(%d) should fail", size)
		}
	}
}

func TestPlace(t *testing.T) {
	b := MustNew(5)

	if !b.Place(1, 2, PlayerA) {
		t.Fatal("Place on empty cell failed")
	}
	if b.At(1, 2) != PlayerA {
		t.Errorf("At(1,2) = %s, want a", b.At(1, 2))
	}
	if b.Empties() != 24 || b.Filled() != 1 {
		t.Errorf("Empties=%d Filled=%d, want 24/1", b.Empties(), b.Filled())
	}

	hash := b.Hash
	if b.Place(1, 2, PlayerB) {
		t.Error("Place on occupied cell succeeded")
	}
	if b.Place(5, 0, PlayerB) || b.Place(0, -1, PlayerB) {
		t.Error("Place out of bounds succeeded")
	}
	if b.Place(0, 0, NoPlayer) {
		t.Error("Place for NoPlayer succeeded")
	}
	if b.At(1, 2) != PlayerA || b.Empties() != 24 || b.Hash != hash {
		t.Error("failed Place changed the board")
	}

	err := b.Play(NewMove(1, 2), PlayerB)
	if !errors.Is(err, ErrInvalidMove) {
		t.Errorf("Play on occupied cell: err = %v, want ErrInvalidMove", err)
	}
}

func TestLegalMoves(t *testing.T) {
	b := MustNew(4)
	b.Place(0, 1, PlayerA)
	b.Place(3, 3, PlayerB)

	moves := b.LegalMoves()
	if len(moves) != 14 {
		t.Fatalf("len(LegalMoves) = %d, want 14", len(moves))
	}
	for _, m := range moves {
		if !b.IsLegal(m) {
			t.Errorf("%s listed but not legal", m)
		}
	}
	if moves[0] != NewMove(0, 0) || moves[1] != NewMove(0, 2) {
		t.Errorf("LegalMoves not row-major: %v", moves[:2])
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := MustNew(5)
	b.Place(2, 2, PlayerA)
	before := b.Notation()

	c := b.Clone()
	c.Place(0, 0, PlayerB)
	c.Place(4, 4, PlayerA)

	if b.Notation() != before {
		t.Errorf("source changed after mutating clone: %s", b.Notation())
	}
	if b.Empties() != 24 {
		t.Errorf("source empties = %d, want 24", b.Empties())
	}
	if c.At(0, 0) != PlayerB || c.Empties() != 22 {
		t.Error("clone did not record its own placements")
	}
}

func TestHashIsIncremental(t *testing.T) {
	b := MustNew(7)
	b.Place(3, 3, PlayerA)
	b.Place(2, 4, PlayerB)
	b.Place(6, 0, PlayerA)

	if b.Hash != b.ComputeHash() {
		t.Errorf("Hash %016x != ComputeHash %016x", b.Hash, b.ComputeHash())
	}

	// Same stones in a different order give the same hash.
	o := MustNew(7)
	o.Place(6, 0, PlayerA)
	o.Place(2, 4, PlayerB)
	o.Place(3, 3, PlayerA)
	if o.Hash != b.Hash {
		t.Error("hash depends on placement order")
	}

	c := MustNew(7)
	c.Place(3, 3, PlayerB)
	if c.Hash == ZobristCell(PlayerA, 3, 3) {
		t.Error("hash ignores stone owner")
	}
}

func TestNeighbors(t *testing.T) {
	b := MustNew(5)

	tests := []struct {
		row, col int
		want     int
	}{
		{2, 2, 6},
		{1, 2, 6},
		{0, 0, 3},
		{0, 4, 2},
		{4, 0, 3},
		{4, 4, 2},
		{1, 0, 3},
		{2, 0, 5},
	}
	for _, tt := range tests {
		if got := len(b.Neighbors(tt.row, tt.col)); got != tt.want {
			t.Errorf("Neighbors(%d,%d) has %d cells, want %d", tt.row, tt.col, got, tt.want)
		}
	}

	for _, m := range b.LegalMoves() {
		for _, n := range b.Neighbors(m.Row, m.Col) {
			if !b.Adjacent(n, m) {
				t.Errorf("%s lists %s but not the reverse", m, n)
			}
		}
	}
}

func TestNotation(t *testing.T) {
	b := MustNew(11)
	b.Place(0, 0, PlayerA)
	b.Place(5, 5, PlayerB)
	b.Place(10, 10, PlayerA)

	s := b.Notation()
	if s != "a10/11/11/11/11/5b5/11/11/11/11/10a" {
		t.Errorf("Notation() = %s", s)
	}

	parsed, err := ParseBoard(s)
	if err != nil {
		t.Fatalf("ParseBoard: %v", err)
	}
	if parsed.Notation() != s || parsed.Hash != b.Hash || parsed.Empties() != b.Empties() {
		t.Error("ParseBoard did not restore the board")
	}

	for _, bad := range []string{"", "3/3", "3a/3/3", "x2/3/3", "0a2/3/3"} {
		if _, err := ParseBoard(bad); err == nil {
			t.Errorf("ParseBoard(%q) should fail", bad)
		}
	}
}

func TestMoveNotation(t *testing.T) {
	m, err := ParseMove("c3", 5)
	if err != nil {
		t.Fatal(err)
	}
	if m != NewMove(2, 2) {
		t.Errorf("ParseMove(c3) = %+v", m)
	}
	if m.String() != "c3" {
		t.Errorf("String() = %s", m.String())
	}

	m, err = ParseMove("K11", 11)
	if err != nil || m != NewMove(10, 10) {
		t.Errorf("ParseMove(K11) = %+v, %v", m, err)
	}

	for _, bad := range []string{"", "c", "f1", "a0", "a6", "3c"} {
		if _, err := ParseMove(bad, 5); err == nil {
			t.Errorf("ParseMove(%q) should fail", bad)
		}
	}
}

func TestParseMoveRejectsLongRows(t *testing.T) {
	// 2^64+2 wraps to 2 if accumulated in an int.
	for _, bad := range []string{"a18446744073709551618", "b99999999999999999999", "c100", "a+1", "a-1"} {
		if m, err := ParseMove(bad, MaxSize); err == nil {
			t.Errorf("ParseMove(%q) = %s, want error", bad, m)
		}
	}
	if m, err := ParseMove("s19", MaxSize); err != nil || m != NewMove(18, 18) {
		t.Errorf("ParseMove(s19) = %+v, %v", m, err)
	}
}
