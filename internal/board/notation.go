package board

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseBoard parses board notation: rows from top to bottom separated by
// '/', 'a' and 'b' for stones and decimal runs for empty cells. The board
// is square, so the row count gives N.
//
//	5/5/2a2/5/5   a 5×5 board with PlayerA on c3
func ParseBoard(s string) (*Board, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("invalid board notation: empty")
	}

	rows := strings.Split(s, "/")
	b, err := New(len(rows))
	if err != nil {
		return nil, fmt.Errorf("invalid board notation: %w", err)
	}

	for r, row := range rows {
		col := 0
		for i := 0; i < len(row); {
			ch := row[i]
			switch {
			case ch >= '0' && ch <= '9':
				j := i
				for j < len(row) && row[j] >= '0' && row[j] <= '9' {
					j++
				}
				run, _ := strconv.Atoi(row[i:j])
				if run == 0 {
					return nil, fmt.Errorf("invalid board notation: zero run in row %d", r+1)
				}
				col += run
				i = j
			case ch == 'a' || ch == 'b':
				p := PlayerA
				if ch == 'b' {
					p = PlayerB
				}
				if !b.Place(r, col, p) {
					return nil, fmt.Errorf("invalid board notation: row %d overflows", r+1)
				}
				col++
				i++
			default:
				return nil, fmt.Errorf("invalid board notation: unexpected %q in row %d", ch, r+1)
			}
		}
		if col != b.size {
			return nil, fmt.Errorf("invalid board notation: row %d has %d cells, want %d", r+1, col, b.size)
		}
	}

	return b, nil
}

// Notation returns the board notation accepted by ParseBoard.
func (b *Board) Notation() string {
	var sb strings.Builder
	for r := 0; r < b.size; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		run := 0
		for c := 0; c < b.size; c++ {
			p := b.cells[r*b.size+c]
			if p == NoPlayer {
				run++
				continue
			}
			if run > 0 {
				sb.WriteString(strconv.Itoa(run))
				run = 0
			}
			sb.WriteString(p.String())
		}
		if run > 0 {
			sb.WriteString(strconv.Itoa(run))
		}
	}
	return sb.String()
}

// String returns the board notation.
func (b *Board) String() string {
	return b.Notation()
}
