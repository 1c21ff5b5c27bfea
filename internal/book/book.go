// Package book implements the Hex opening book.
package book

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/exp/rand"

	"github.com/hailam/hexplay/internal/board"
)

// entrySize is the size of one encoded entry:
// 8 bytes position key, 1 byte player, 1 byte row, 1 byte column,
// 1 byte padding, 2 bytes weight, 2 bytes reserved. All big-endian.
const entrySize = 16

// ErrCorrupt is returned when a book file cannot be decoded.
var ErrCorrupt = errors.New("corrupt opening book")

// Entry is a single book move.
type Entry struct {
	Key    uint64
	Player board.Player
	Move   board.Move
	Weight uint16
}

// Book maps positions to weighted candidate moves.
type Book struct {
	mu      sync.Mutex
	entries map[uint64][]Entry
	rng     *rand.Rand
}

// Option configures a Book.
type Option func(*Book)

// WithSeed makes Probe's choices reproducible.
func WithSeed(seed uint64) Option {
	return func(b *Book) {
		b.rng = rand.New(rand.NewSource(seed))
	}
}

// New creates an empty book.
func New(opts ...Option) *Book {
	b := &Book{
		entries: make(map[uint64][]Entry),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.rng == nil {
		b.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return b
}

// Default returns the built-in openings for 7x7 and 11x11 boards. They apply
// to the empty board only.
func Default(opts ...Option) *Book {
	bk := New(opts...)
	openings := []struct {
		size  int
		p     board.Player
		cells []string
	}{
		{7, board.PlayerA, []string{"d4"}},
		{7, board.PlayerB, []string{"d4", "c3", "e5"}},
		{11, board.PlayerA, []string{"f6"}},
		{11, board.PlayerB, []string{"f6", "e5", "g7"}},
	}
	for _, o := range openings {
		empty := board.MustNew(o.size)
		for _, cell := range o.cells {
			m, err := board.ParseMove(cell, o.size)
			if err != nil {
				panic(err)
			}
			bk.Add(empty, o.p, m, 1)
		}
	}
	return bk
}

// Key returns the book key of b with p to move.
func Key(b *board.Board, p board.Player) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(b.Notation())
	_, _ = d.Write([]byte{byte(p)})
	return d.Sum64()
}

// Add records m as a candidate for p on b. Adding the same move twice
// accumulates its weight.
func (bk *Book) Add(b *board.Board, p board.Player, m board.Move, weight uint16) {
	bk.AddEntry(Entry{Key: Key(b, p), Player: p, Move: m, Weight: weight})
}

// AddEntry records a raw entry.
func (bk *Book) AddEntry(e Entry) {
	bk.mu.Lock()
	defer bk.mu.Unlock()

	list := bk.entries[e.Key]
	for i := range list {
		if list[i].Move == e.Move && list[i].Player == e.Player {
			list[i].Weight = addWeight(list[i].Weight, e.Weight)
			return
		}
	}
	bk.entries[e.Key] = append(list, e)
}

func addWeight(a, b uint16) uint16 {
	if s := uint32(a) + uint32(b); s <= 0xFFFF {
		return uint16(s)
	}
	return 0xFFFF
}

// Probe looks up b with p to move and picks a move by weighted random
// selection. Entries for occupied cells never come back.
func (bk *Book) Probe(b *board.Board, p board.Player) (board.Move, bool) {
	if bk == nil {
		return board.NoMove, false
	}

	candidates := bk.legalEntries(b, p)
	if len(candidates) == 0 {
		return board.NoMove, false
	}

	total := uint32(0)
	for _, e := range candidates {
		total += uint32(e.Weight)
	}
	if total == 0 {
		// All weights are 0, just pick the first
		return candidates[0].Move, true
	}

	bk.mu.Lock()
	r := bk.rng.Uint32() % total
	bk.mu.Unlock()

	cumulative := uint32(0)
	for _, e := range candidates {
		cumulative += uint32(e.Weight)
		if r < cumulative {
			return e.Move, true
		}
	}
	return candidates[0].Move, true
}

// ProbeAll returns the playable book moves for b, heaviest first.
func (bk *Book) ProbeAll(b *board.Board, p board.Player) []Entry {
	if bk == nil {
		return nil
	}
	return bk.legalEntries(b, p)
}

func (bk *Book) legalEntries(b *board.Board, p board.Player) []Entry {
	key := Key(b, p)

	bk.mu.Lock()
	var out []Entry
	for _, e := range bk.entries[key] {
		if e.Player == p && b.IsLegal(e.Move) {
			out = append(out, e)
		}
	}
	bk.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Weight > out[j].Weight
	})
	return out
}

// Len returns the number of unique positions in the book.
func (bk *Book) Len() int {
	if bk == nil {
		return 0
	}
	bk.mu.Lock()
	defer bk.mu.Unlock()
	return len(bk.entries)
}

// Entries returns every entry ordered by key, then by insertion.
func (bk *Book) Entries() []Entry {
	if bk == nil {
		return nil
	}
	bk.mu.Lock()
	defer bk.mu.Unlock()

	keys := make([]uint64, 0, len(bk.entries))
	for k := range bk.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var out []Entry
	for _, k := range keys {
		out = append(out, bk.entries[k]...)
	}
	return out
}

// Load loads a book from a file.
func Load(filename string, opts ...Option) (*Book, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadReader(bufio.NewReader(file), opts...)
}

// LoadReader loads a book from a reader.
func LoadReader(r io.Reader, opts ...Option) (*Book, error) {
	bk := New(opts...)

	var buf [entrySize]byte
	for {
		_, err := io.ReadFull(r, buf[:])
		if err == io.EOF {
			break
		}
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: truncated entry", ErrCorrupt)
		}
		if err != nil {
			return nil, err
		}

		e, err := DecodeEntry(buf[:])
		if err != nil {
			return nil, err
		}
		bk.AddEntry(e)
	}

	return bk, nil
}

// WriteTo writes the book in its binary format.
func (bk *Book) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for _, e := range bk.Entries() {
		buf := EncodeEntry(e)
		k, err := w.Write(buf[:])
		n += int64(k)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// EncodeEntry encodes e in the binary book format.
func EncodeEntry(e Entry) [entrySize]byte {
	var buf [entrySize]byte
	binary.BigEndian.PutUint64(buf[0:8], e.Key)
	buf[8] = byte(e.Player)
	buf[9] = byte(e.Move.Row)
	buf[10] = byte(e.Move.Col)
	binary.BigEndian.PutUint16(buf[12:14], e.Weight)
	return buf
}

// DecodeEntry decodes one binary book entry.
func DecodeEntry(buf []byte) (Entry, error) {
	if len(buf) != entrySize {
		return Entry{}, fmt.Errorf("%w: entry is %d bytes", ErrCorrupt, len(buf))
	}
	p := board.Player(buf[8])
	row, col := int(buf[9]), int(buf[10])
	if !p.Valid() || row >= board.MaxSize || col >= board.MaxSize {
		return Entry{}, fmt.Errorf("%w: player %d cell (%d,%d)", ErrCorrupt, buf[8], row, col)
	}
	return Entry{
		Key:    binary.BigEndian.Uint64(buf[0:8]),
		Player: p,
		Move:   board.NewMove(row, col),
		Weight: binary.BigEndian.Uint16(buf[12:14]),
	}, nil
}
