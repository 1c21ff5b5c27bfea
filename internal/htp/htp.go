// Package htp implements a line-oriented text protocol for driving the engine,
// modelled on the Go Text Protocol as used by Hex programs.
package htp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hailam/hexplay/internal/board"
	"github.com/hailam/hexplay/internal/engine"
)

// Version is reported by the version command.
const Version = "0.1.0"

var commands = []string{
	"boardsize",
	"clear_board",
	"genmove",
	"legal_moves",
	"list_commands",
	"name",
	"play",
	"position",
	"protocol_version",
	"quit",
	"setposition",
	"time_budget",
	"version",
	"winner",
}

var errQuit = errors.New("quit")

// HTP is a protocol session bound to one engine and one board.
type HTP struct {
	engine *engine.Engine
	board  *board.Board
	budget time.Duration
	info   io.Writer
}

// New creates a session with an empty size×size board.
func New(eng *engine.Engine, size int, budget time.Duration) (*HTP, error) {
	b, err := board.New(size)
	if err != nil {
		return nil, err
	}
	if budget <= 0 {
		return nil, engine.ErrInvalidBudget
	}
	h := &HTP{
		engine: eng,
		board:  b,
		budget: budget,
	}
	eng.OnInfo = h.sendInfo
	return h, nil
}

// SetInfoWriter sends search progress lines to w. Nil disables them.
func (h *HTP) SetInfoWriter(w io.Writer) {
	h.info = w
}

// Board returns the session's board.
func (h *HTP) Board() *board.Board {
	return h.board
}

// Run reads commands from r and writes replies to w until quit or end of
// input.
func (h *HTP) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	out := bufio.NewWriter(w)
	defer out.Flush()

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		id := ""
		if _, err := strconv.Atoi(parts[0]); err == nil {
			id = parts[0]
			parts = parts[1:]
			if len(parts) == 0 {
				continue
			}
		}

		result, err := h.Execute(ctx, parts[0], parts[1:])
		quit := errors.Is(err, errQuit)
		if err != nil && !quit {
			writeReply(out, '?', id, err.Error())
		} else {
			writeReply(out, '=', id, result)
		}
		if err := out.Flush(); err != nil {
			return err
		}
		if quit {
			return nil
		}
	}

	return scanner.Err()
}

// writeReply writes "=id result" or "?id message" followed by a blank line.
func writeReply(w io.Writer, status byte, id, text string) {
	if text == "" {
		fmt.Fprintf(w, "%c%s\n\n", status, id)
		return
	}
	fmt.Fprintf(w, "%c%s %s\n\n", status, id, text)
}

// Execute runs one command and returns its reply text.
func (h *HTP) Execute(ctx context.Context, cmd string, args []string) (string, error) {
	switch cmd {
	case "name":
		return "hexplay", nil
	case "version":
		return Version, nil
	case "protocol_version":
		return "2", nil
	case "list_commands":
		return strings.Join(commands, "\n"), nil
	case "boardsize":
		return h.handleBoardSize(args)
	case "clear_board":
		h.board = board.MustNew(h.board.Size())
		h.engine.Clear()
		return "", nil
	case "play":
		return h.handlePlay(args)
	case "genmove":
		return h.handleGenMove(ctx, args)
	case "time_budget":
		return h.handleTimeBudget(args)
	case "position":
		return h.board.Notation(), nil
	case "setposition":
		return h.handleSetPosition(args)
	case "winner":
		if w := h.board.Winner(); w != board.NoPlayer {
			return w.String(), nil
		}
		return "none", nil
	case "legal_moves":
		moves := h.board.LegalMoves()
		cells := make([]string, len(moves))
		for i, m := range moves {
			cells[i] = m.String()
		}
		return strings.Join(cells, " "), nil
	case "quit":
		return "", errQuit
	}
	return "", fmt.Errorf("unknown command %q", cmd)
}

func (h *HTP) handleBoardSize(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("boardsize takes one argument")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return "", fmt.Errorf("invalid size %q", args[0])
	}
	b, err := board.New(n)
	if err != nil {
		return "", errors.New("unacceptable size")
	}
	h.board = b
	h.engine.Clear()
	return "", nil
}

func (h *HTP) handlePlay(args []string) (string, error) {
	if len(args) != 2 {
		return "", errors.New("play takes a player and a cell")
	}
	p, ok := board.ParsePlayer(args[0])
	if !ok {
		return "", fmt.Errorf("invalid player %q", args[0])
	}
	m, err := board.ParseMove(args[1], h.board.Size())
	if err != nil {
		return "", err
	}
	if err := h.board.Play(m, p); err != nil {
		return "", errors.New("illegal move")
	}
	return "", nil
}

func (h *HTP) handleGenMove(ctx context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("genmove takes a player")
	}
	p, ok := board.ParsePlayer(args[0])
	if !ok {
		return "", fmt.Errorf("invalid player %q", args[0])
	}

	m, err := h.engine.SelectMove(ctx, h.board, p, h.budget)
	if err != nil {
		h.infof("genmove %s: %v", p, err)
		return "resign", nil
	}
	if err := h.board.Play(m, p); err != nil {
		return "", err
	}
	return m.String(), nil
}

func (h *HTP) handleTimeBudget(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("time_budget takes seconds")
	}
	secs, err := strconv.ParseFloat(args[0], 64)
	if err != nil || secs <= 0 {
		return "", fmt.Errorf("invalid time budget %q", args[0])
	}
	h.budget = time.Duration(secs * float64(time.Second))
	return "", nil
}

func (h *HTP) handleSetPosition(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("setposition takes a board notation")
	}
	b, err := board.ParseBoard(args[0])
	if err != nil {
		return "", err
	}
	h.board = b
	return "", nil
}

// sendInfo outputs search progress.
func (h *HTP) sendInfo(info engine.SearchInfo) {
	if h.info == nil {
		return
	}

	parts := []string{
		fmt.Sprintf("depth %d", info.Depth),
		"score " + engine.ScoreToString(info.Score),
		"nodes " + humanize.Comma(int64(info.Nodes)),
		"prunes " + humanize.Comma(int64(info.Prunes)),
		fmt.Sprintf("time %d", info.Time.Milliseconds()),
	}
	if info.Time > 0 {
		nps := float64(info.Nodes) / info.Time.Seconds()
		parts = append(parts, "nps "+humanize.Comma(int64(nps)))
	}
	if info.HashFull > 0 {
		parts = append(parts, fmt.Sprintf("hashfull %d", info.HashFull))
	}
	parts = append(parts, "move "+info.Move.String())

	fmt.Fprintf(h.info, "info %s\n", strings.Join(parts, " "))
}

func (h *HTP) infof(format string, args ...any) {
	if h.info != nil {
		fmt.Fprintf(h.info, "info string "+format+"\n", args...)
	}
}
