package board

import "container/heap"

// NoPath is returned by Distance when the goal side is unreachable. It is
// finite so callers can do arithmetic on it.
const NoPath = 1000

// Distance returns the virtual connection cost for p: the fewest cells p
// still has to claim to link its sides, treating every cell not owned by p
// as claimable at cost 1. Lower is closer to winning.
//
// Dijkstra from all start-side cells at once. Relaxation runs until the
// queue is empty and the result is the cheapest label on the goal side.
func (b *Board) Distance(p Player) int {
	if !p.Valid() {
		return NoPath
	}

	n := len(b.cells)
	dist := make([]int, n)
	for i := range dist {
		dist[i] = NoPath
	}

	pq := make(distQueue, 0, n)
	for _, m := range b.startCells(p) {
		idx := m.Row*b.size + m.Col
		cost := b.stepCost(p, idx)
		if cost < dist[idx] {
			dist[idx] = cost
			heap.Push(&pq, distItem{idx: idx, cost: cost})
		}
	}

	var nbuf [6]Move
	for pq.Len() > 0 {
		it := heap.Pop(&pq).(distItem)
		if it.cost > dist[it.idx] {
			continue // stale entry
		}
		row, col := it.idx/b.size, it.idx%b.size
		for _, nm := range b.AppendNeighbors(nbuf[:0], row, col) {
			nidx := nm.Row*b.size + nm.Col
			nc := it.cost + b.stepCost(p, nidx)
			if nc < dist[nidx] {
				dist[nidx] = nc
				heap.Push(&pq, distItem{idx: nidx, cost: nc})
			}
		}
	}

	best := NoPath
	for i := 0; i < b.size; i++ {
		var idx int
		if p == PlayerA {
			idx = i*b.size + b.size - 1
		} else {
			idx = (b.size-1)*b.size + i
		}
		if dist[idx] < best {
			best = dist[idx]
		}
	}
	return best
}

func (b *Board) stepCost(p Player, idx int) int {
	if b.cells[idx] == p {
		return 0
	}
	return 1
}

type distItem struct {
	idx  int
	cost int
}

// distQueue is a min-heap on cost, ties broken by cell index so the
// settle order is deterministic.
type distQueue []distItem

func (q distQueue) Len() int { return len(q) }
func (q distQueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	return q[i].idx < q[j].idx
}
func (q distQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *distQueue) Push(x any)   { *q = append(*q, x.(distItem)) }
func (q *distQueue) Pop() any {
	old := *q
	it := old[len(old)-1]
	*q = old[:len(old)-1]
	return it
}
