package board

// Player identifies the owner of a cell. NoPlayer marks an empty cell.
type Player uint8

const (
	NoPlayer Player = iota
	PlayerA         // connects the left column to the right column
	PlayerB         // connects the top row to the bottom row
)

// Opponent returns the other player. NoPlayer has no opponent.
func (p Player) Opponent() Player {
	switch p {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	default:
		return NoPlayer
	}
}

// Valid reports whether p is one of the two players.
func (p Player) Valid() bool {
	return p == PlayerA || p == PlayerB
}

// String returns the protocol name of the player.
func (p Player) String() string {
	switch p {
	case PlayerA:
		return "a"
	case PlayerB:
		return "b"
	default:
		return "-"
	}
}

// ParsePlayer parses a player name. Both the short protocol names and the
// common colour aliases are accepted.
func ParsePlayer(s string) (Player, bool) {
	switch s {
	case "a", "A", "red", "r", "1":
		return PlayerA, true
	case "b", "B", "blue", "2":
		return PlayerB, true
	}
	return NoPlayer, false
}
