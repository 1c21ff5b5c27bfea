package board

// Neighbour offsets for the even-r offset layout: odd rows are shifted half
// a cell to the left of even rows. Every component walks neighbours through
// this table so connectivity, distance and pattern tests agree.
var neighbourOffsets = [2][6][2]int{
	// even rows
	{{0, -1}, {0, 1}, {-1, 0}, {1, 0}, {-1, 1}, {1, 1}},
	// odd rows
	{{0, -1}, {0, 1}, {-1, 0}, {1, 0}, {-1, -1}, {1, -1}},
}

// Neighbors returns the in-bounds cells adjacent to (row, col).
func (b *Board) Neighbors(row, col int) []Move {
	return b.AppendNeighbors(make([]Move, 0, 6), row, col)
}

// AppendNeighbors appends the in-bounds neighbours of (row, col) to dst.
func (b *Board) AppendNeighbors(dst []Move, row, col int) []Move {
	for _, d := range neighbourOffsets[row&1] {
		r, c := row+d[0], col+d[1]
		if b.InBounds(r, c) {
			dst = append(dst, Move{Row: r, Col: c})
		}
	}
	return dst
}

// Adjacent reports whether two cells share an edge.
func (b *Board) Adjacent(a, c Move) bool {
	for _, d := range neighbourOffsets[a.Row&1] {
		if a.Row+d[0] == c.Row && a.Col+d[1] == c.Col {
			return true
		}
	}
	return false
}

// IsStartSide reports whether (row, col) lies on the side p starts from:
// the left column for PlayerA, the top row for PlayerB.
func IsStartSide(p Player, row, col int) bool {
	if p == PlayerA {
		return col == 0
	}
	return row == 0
}

// IsGoalSide reports whether (row, col) lies on the side p must reach on a
// board of the given size: the right column for PlayerA, the bottom row for
// PlayerB.
func IsGoalSide(p Player, size, row, col int) bool {
	if p == PlayerA {
		return col == size-1
	}
	return row == size-1
}

// IsTargetSide reports whether (row, col) lies on either of p's sides.
func IsTargetSide(p Player, size, row, col int) bool {
	return IsStartSide(p, row, col) || IsGoalSide(p, size, row, col)
}

// startCells returns the cells of p's start side.
func (b *Board) startCells(p Player) []Move {
	cells := make([]Move, b.size)
	for i := 0; i < b.size; i++ {
		if p == PlayerA {
			cells[i] = Move{Row: i, Col: 0}
		} else {
			cells[i] = Move{Row: 0, Col: i}
		}
	}
	return cells
}
