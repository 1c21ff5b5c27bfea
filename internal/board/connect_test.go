package board

import (
	"testing"

	"golang.org/x/exp/rand"
)

func TestEmptyBoardNotConnected(t *testing.T) {
	for size := MinSize; size <= 11; size++ {
		b := MustNew(size)
		if b.IsConnected(PlayerA) || b.IsConnected(PlayerB) {
			t.Errorf("size %d: empty board reports a connection", size)
		}
		if b.Winner() != NoPlayer {
			t.Errorf("size %d: empty board has winner %s", size, b.Winner())
		}
	}
}

func TestSingleStoneIsNotAWin(t *testing.T) {
	for size := 2; size <= 9; size++ {
		for _, m := range MustNew(size).LegalMoves() {
			for _, p := range []Player{PlayerA, PlayerB} {
				b := MustNew(size)
				b.Place(m.Row, m.Col, p)
				if b.IsConnected(p) {
					t.Fatalf("size %d: single %s stone on %s connects", size, p, m)
				}
			}
		}
	}

	// A single cell is both sides at once.
	b := MustNew(1)
	b.Place(0, 0, PlayerB)
	if !b.IsConnected(PlayerB) {
		t.Error("1x1 board: stone should connect")
	}
}

func TestStraightLinesConnect(t *testing.T) {
	b := MustNew(5)
	for c := 0; c < 5; c++ {
		b.Place(2, c, PlayerA)
	}
	if !b.IsConnected(PlayerA) {
		t.Error("PlayerA row should connect left to right")
	}
	if b.IsConnected(PlayerB) {
		t.Error("PlayerB has no stones")
	}

	b = MustNew(5)
	for r := 0; r < 5; r++ {
		b.Place(r, 3, PlayerB)
	}
	if !b.IsConnected(PlayerB) {
		t.Error("PlayerB column should connect top to bottom")
	}
	if b.IsConnected(PlayerA) {
		t.Error("PlayerB column must not count for PlayerA")
	}
}

func TestZigzagConnects(t *testing.T) {
	// Even rows reach down-right, odd rows down-left:
	// (0,2) (1,2) (2,1) (3,1) (4,0).
	b, err := ParseBoard("2b2/2b2/1b3/1b3/b4")
	if err != nil {
		t.Fatal(err)
	}
	if !b.IsConnected(PlayerB) {
		t.Errorf("expected zigzag chain to connect:\n%s", b)
	}

	// (1,2) -> (2,3) is not adjacent: odd rows reach (r+1, c-1), not (r+1, c+1).
	b, err = ParseBoard("2b2/2b2/3b1/3b1/3b1")
	if err != nil {
		t.Fatal(err)
	}
	if b.IsConnected(PlayerB) {
		t.Errorf("expected broken chain:\n%s", b)
	}
}

func TestFullBoardHasExactlyOneWinner(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		size := 2 + rng.Intn(9)
		b := MustNew(size)
		moves := b.LegalMoves()
		rng.Shuffle(len(moves), func(i, j int) { moves[i], moves[j] = moves[j], moves[i] })

		p := PlayerA
		for _, m := range moves {
			b.Place(m.Row, m.Col, p)
			p = p.Opponent()
		}

		a, bb := b.IsConnected(PlayerA), b.IsConnected(PlayerB)
		if a == bb {
			t.Fatalf("trial %d: full board A=%v B=%v\n%s", trial, a, bb, b)
		}
		if len(b.LegalMoves()) != 0 {
			t.Fatalf("trial %d: full board reports legal moves", trial)
		}
	}
}

func TestFullBoardQueries(t *testing.T) {
	b := MustNew(3)
	for _, m := range b.LegalMoves() {
		b.Place(m.Row, m.Col, PlayerA)
	}
	if got := len(b.LegalMoves()); got != 0 {
		t.Errorf("LegalMoves() = %d, want 0", got)
	}
	if b.Winner() != PlayerA {
		t.Errorf("Winner() = %s, want a", b.Winner())
	}
	if d := b.Distance(PlayerB); d != 3 {
		t.Errorf("Distance(b) on a full A board = %d, want 3", d)
	}
}
