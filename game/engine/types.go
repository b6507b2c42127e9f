package engine

import (
	"fmt"
	"math"
	"strings"
)

// Direction is the wire code of a move.
type Direction int

const (
	Up    Direction = 1
	Down  Direction = 2
	Left  Direction = 3
	Right Direction = 4
)

// Directions lists every valid direction in wire order.
var Directions = []Direction{Up, Down, Left, Right}

const (
	// Validation constants
	MinBoardSize     = 2
	MaxBoardSize     = 6
	DefaultBoardSize = 4
	DefaultWinTile   = 2048
	MinWinTile       = 8
	InitialTiles     = 2

	// MaxTileValue is the largest tile a board may hold. Two tiles of this
	// value do not merge.
	MaxTileValue = 1 << 30
	// MaxScore is the largest score a request may carry.
	MaxScore = math.MaxInt / 2

	// Spawn policy
	DefaultFourProbability = 0.1
)

// String returns the lower-case name of the direction.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Valid reports whether d is one of the four wire codes.
func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

// ParseDirection accepts a direction name ("up", "LEFT", ...) or its wire
// code ("1".."4").
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "1":
		return Up, nil
	case "down", "2":
		return Down, nil
	case "left", "3":
		return Left, nil
	case "right", "4":
		return Right, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// Progress is the state of a game after a move.
type Progress int

const (
	InProgress Progress = iota + 1
	GameWon
	GameOver
)

// String returns the wire name of the progress value.
func (p Progress) String() string {
	switch p {
	case InProgress:
		return "IN_PROGRESS"
	case GameWon:
		return "GAME_WON"
	case GameOver:
		return "GAME_OVER"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether no further moves should be sent.
func (p Progress) Terminal() bool {
	return p == GameWon || p == GameOver
}

// MarshalText encodes the progress as its string enum.
func (p Progress) MarshalText() ([]byte, error) {
	switch p {
	case InProgress, GameWon, GameOver:
		return []byte(p.String()), nil
	}
	return nil, fmt.Errorf("unknown progress %d", int(p))
}

// UnmarshalText decodes the string enum.
func (p *Progress) UnmarshalText(text []byte) error {
	switch string(text) {
	case "IN_PROGRESS":
		*p = InProgress
	case "GAME_WON":
		*p = GameWon
	case "GAME_OVER":
		*p = GameOver
	default:
		return fmt.Errorf("unknown progress %q", string(text))
	}
	return nil
}

// Board is a square grid of tile values indexed [row][column]. Zero marks an
// empty cell.
type Board [][]int

// NewEmptyBoard returns a size×size board of zeros.
func NewEmptyBoard(size int) Board {
	b := make(Board, size)
	for r := range b {
		b[r] = make([]int, size)
	}
	return b
}

// Size returns N for an N×N board.
func (b Board) Size() int {
	return len(b)
}

// Clone returns a deep copy.
func (b Board) Clone() Board {
	c := make(Board, len(b))
	for r, row := range b {
		c[r] = append([]int(nil), row...)
	}
	return c
}

// Equal reports whether both boards have the same shape and values.
func (b Board) Equal(other Board) bool {
	if len(b) != len(other) {
		return false
	}
	for r := range b {
		if len(b[r]) != len(other[r]) {
			return false
		}
		for c := range b[r] {
			if b[r][c] != other[r][c] {
				return false
			}
		}
	}
	return true
}

// String renders the board as right-aligned columns, "." for empty cells.
func (b Board) String() string {
	width := len(fmt.Sprint(MaxTile(b)))
	if width < 1 {
		width = 1
	}

	var sb strings.Builder
	for r, row := range b {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c, v := range row {
			if c > 0 {
				sb.WriteByte(' ')
			}
			cell := "."
			if v != 0 {
				cell = fmt.Sprint(v)
			}
			sb.WriteString(fmt.Sprintf("%*s", width, cell))
		}
	}
	return sb.String()
}

// Position addresses a single cell.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// GameState is the complete snapshot a client holds between requests.
type GameState struct {
	Board     Board    `json:"board"`
	Score     int      `json:"score"`
	Progress  Progress `json:"progress"`
	WinTile   int      `json:"win_tile"`
	BoardSize int      `json:"board_size"`
}

// MoveOutcome is the result of applying one direction to a board.
type MoveOutcome struct {
	Board      Board
	Score      int
	ScoreDelta int
	Merges     int
	Effective  bool
	Spawned    *Position
	Progress   Progress
}
