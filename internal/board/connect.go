package board

// IsConnected reports whether p's stones link p's start side to its goal
// side. Breadth-first from every start-side stone, following only p's
// stones; O(N²).
func (b *Board) IsConnected(p Player) bool {
	if !p.Valid() {
		return false
	}

	visited := make([]bool, len(b.cells))
	queue := make([]Move, 0, b.size)

	for _, m := range b.startCells(p) {
		idx := m.Row*b.size + m.Col
		if b.cells[idx] == p {
			visited[idx] = true
			queue = append(queue, m)
		}
	}

	var nbuf [6]Move
	for head := 0; head < len(queue); head++ {
		m := queue[head]
		if IsGoalSide(p, b.size, m.Row, m.Col) {
			return true
		}
		for _, n := range b.AppendNeighbors(nbuf[:0], m.Row, m.Col) {
			idx := n.Row*b.size + n.Col
			if !visited[idx] && b.cells[idx] == p {
				visited[idx] = true
				queue = append(queue, n)
			}
		}
	}

	return false
}

// Winner returns the connected player, or NoPlayer if neither is connected.
func (b *Board) Winner() Player {
	if b.IsConnected(PlayerA) {
		return PlayerA
	}
	if b.IsConnected(PlayerB) {
		return PlayerB
	}
	return NoPlayer
}

// Decided reports whether either player is connected.
func (b *Board) Decided() bool {
	return b.Winner() != NoPlayer
}
