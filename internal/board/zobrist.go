package board

// Zobrist hash keys for board hashing.
// Uses PRNG with fixed seed for reproducibility.
var (
	zobristCell   [3][MaxSize * MaxSize]uint64 // [Player][row*MaxSize+col]; NoPlayer row stays zero
	zobristToMove [3]uint64                    // XOR for the player to move
)

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x5EED4E7A11CE0B1D)

	for _, p := range []Player{PlayerA, PlayerB} {
		for i := range zobristCell[p] {
			zobristCell[p][i] = rng.next()
		}
		zobristToMove[p] = rng.next()
	}
}

// ZobristCell returns the Zobrist key for a stone of p on (row, col).
func ZobristCell(p Player, row, col int) uint64 {
	return zobristCell[p][row*MaxSize+col]
}

// ZobristToMove returns the Zobrist key for p being the player to move.
func ZobristToMove(p Player) uint64 {
	return zobristToMove[p]
}

// ComputeHash recomputes the Zobrist hash from scratch.
// Used to verify the incrementally maintained Hash.
func (b *Board) ComputeHash() uint64 {
	var h uint64
	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			if p := b.cells[r*b.size+c]; p != NoPlayer {
				h ^= ZobristCell(p, r, c)
			}
		}
	}
	return h
}
