package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"lessontictactoe/internal/game"
)

// NewOutput wraps w for board rendering. Without color the output is plain
// text regardless of the terminal.
func NewOutput(w io.Writer, color bool) *termenv.Output {
	if !color {
		return termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))
	}
	return termenv.NewOutput(w)
}

// Render writes the board one row per line: _ for empty, X and 0 for marks
func Render(out *termenv.Output, board game.Board) {
	if out.Profile == termenv.Ascii {
		fmt.Fprint(out, board.String())
		return
	}

	var sb strings.Builder
	for row := 0; row < game.Dim; row++ {
		for col := 0; col < game.Dim; col++ {
			sb.WriteString(styleCell(out, board[row*game.Dim+col]))
		}
		sb.WriteByte('\n')
	}
	fmt.Fprint(out, sb.String())
}

func styleCell(out *termenv.Output, cell game.Cell) string {
	style := out.String(cell.String())
	switch cell {
	case game.CrossMark:
		style = style.Foreground(out.Color("1")).Bold()
	case game.NoughtMark:
		style = style.Foreground(out.Color("4")).Bold()
	default:
		style = style.Faint()
	}
	return style.String()
}

// outcome returns the line printed when a round ends
func outcome(state game.State) string {
	switch state {
	case game.CrossWin:
		return "Win X"
	case game.NoughtWin:
		return "Win 0"
	case game.Draw:
		return "Draw"
	default:
		return ""
	}
}

// ParseMove reads "row col" from a line of input
func ParseMove(line string) (row, col int, err error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("%w: expected row and col, got %q", game.ErrInvalidCoordinate, line)
	}

	row, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: row %q is not a number", game.ErrInvalidCoordinate, fields[0])
	}
	col, err = strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: col %q is not a number", game.ErrInvalidCoordinate, fields[1])
	}

	if _, err := game.Index(row, col); err != nil {
		return 0, 0, fmt.Errorf("%w: (%d, %d)", err, row, col)
	}
	return row, col, nil
}
