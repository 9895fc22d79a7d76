package game

import (
	"errors"
	"strings"
)

// Dim is the side length of the board
const Dim = 3

// Cell represents a cell state on the board
type Cell int

const (
	Empty Cell = iota
	CrossMark
	NoughtMark
)

func (c Cell) String() string {
	switch c {
	case Empty:
		return "_"
	case CrossMark:
		return "X"
	case NoughtMark:
		return "0"
	default:
		return "?"
	}
}

// Player is one of the two sides
type Player int

const (
	Cross Player = iota
	Nought
)

// Mark returns the cell value placed by the player
func (p Player) Mark() Cell {
	if p == Nought {
		return NoughtMark
	}
	return CrossMark
}

// Opponent returns the opposing player
func (p Player) Opponent() Player {
	if p == Cross {
		return Nought
	}
	return Cross
}

func (p Player) String() string {
	if p == Nought {
		return "O"
	}
	return "X"
}

// State is the terminal-state classification of a board
type State int

const (
	InProgress State = iota
	CrossWin
	NoughtWin
	Draw
)

func (s State) String() string {
	switch s {
	case InProgress:
		return "IN_PROGRESS"
	case CrossWin:
		return "CROSS_WIN"
	case NoughtWin:
		return "NOUGHT_WIN"
	case Draw:
		return "DRAW"
	default:
		return "UNKNOWN"
	}
}

// IsTerminal returns true if the round has ended
func (s State) IsTerminal() bool {
	return s == CrossWin || s == NoughtWin || s == Draw
}

// Winner returns the winning player, if any
func (s State) Winner() (Player, bool) {
	switch s {
	case CrossWin:
		return Cross, true
	case NoughtWin:
		return Nought, true
	default:
		return Cross, false
	}
}

var (
	ErrInvalidCoordinate = errors.New("invalid coordinate: out of bounds")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrRoundOver         = errors.New("round is already over")
)

// lines are the winning index triples, checked in this order
var lines = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board holds Dim*Dim cells indexed row*Dim+col
type Board [Dim * Dim]Cell

// Index converts a coordinate into a cell index
func Index(row, col int) (int, error) {
	if row < 0 || row >= Dim || col < 0 || col >= Dim {
		return 0, ErrInvalidCoordinate
	}
	return row*Dim + col, nil
}

// Get returns the cell at the given position
func (b *Board) Get(row, col int) (Cell, error) {
	idx, err := Index(row, col)
	if err != nil {
		return Empty, err
	}
	return b[idx], nil
}

// IsFull returns true if no cell is empty
func (b *Board) IsFull() bool {
	for _, cell := range b {
		if cell == Empty {
			return false
		}
	}
	return true
}

// Evaluate classifies the board. The first complete line wins; a full
// board without one is a draw.
func (b *Board) Evaluate() State {
	for _, line := range lines {
		first := b[line[0]]
		if first != Empty && first == b[line[1]] && first == b[line[2]] {
			if first == CrossMark {
				return CrossWin
			}
			return NoughtWin
		}
	}

	if b.IsFull() {
		return Draw
	}
	return InProgress
}

// Clear empties every cell
func (b *Board) Clear() {
	*b = Board{}
}

// String renders the board one row per line
func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < Dim; row++ {
		for col := 0; col < Dim; col++ {
			sb.WriteString(b[row*Dim+col].String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
