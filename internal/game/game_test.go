package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// play applies moves alternating the turn while the round is in progress
func play(t *testing.T, e *Engine, moves [][2]int) State {
	t.Helper()

	state := e.Evaluate()
	for _, m := range moves {
		require.NoError(t, e.ApplyMove(m[0], m[1]))
		state = e.Evaluate()
		if state.IsTerminal() {
			return state
		}
		e.AdvanceTurn()
	}
	return state
}

func TestNewEngine(t *testing.T) {
	e := NewEngine()

	assert.Equal(t, Board{}, e.Board())
	assert.Equal(t, Cross, e.CurrentPlayer())
	assert.Equal(t, 0, e.XScore())
	assert.Equal(t, 0, e.OScore())
	assert.Equal(t, 1, e.RoundNumber())
	assert.Equal(t, InProgress, e.Evaluate())
}

func TestEngine_ApplyMove(t *testing.T) {
	e := NewEngine()

	require.NoError(t, e.ApplyMove(0, 0))
	cell, err := e.Cell(0, 0)
	require.NoError(t, err)
	assert.Equal(t, CrossMark, cell)

	// The turn is not switched by ApplyMove
	assert.Equal(t, Cross, e.CurrentPlayer())

	e.AdvanceTurn()
	require.NoError(t, e.ApplyMove(1, 1))
	cell, err = e.Cell(1, 1)
	require.NoError(t, err)
	assert.Equal(t, NoughtMark, cell)
}

func TestEngine_ApplyMove_CellOccupied(t *testing.T) {
	e := NewEngine()

	require.NoError(t, e.ApplyMove(0, 0))
	e.AdvanceTurn()
	before := e.Board()

	err := e.ApplyMove(0, 0)
	assert.ErrorIs(t, err, ErrCellOccupied)
	assert.Equal(t, before, e.Board())
	assert.Equal(t, Nought, e.CurrentPlayer())

	// Rejection is repeatable and never mutates
	err = e.ApplyMove(0, 0)
	assert.ErrorIs(t, err, ErrCellOccupied)
	assert.Equal(t, before, e.Board())
}

func TestEngine_ApplyMove_InvalidCoordinate(t *testing.T) {
	coords := [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {5, 5}}

	for _, c := range coords {
		e := NewEngine()
		err := e.ApplyMove(c[0], c[1])
		assert.ErrorIs(t, err, ErrInvalidCoordinate, "coordinate %v", c)
		assert.Equal(t, Board{}, e.Board())
	}
}

func TestEngine_ApplyMove_RoundOver(t *testing.T) {
	e := NewEngine()

	state := play(t, e, [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0, 2}})
	require.Equal(t, CrossWin, state)
	before := e.Board()

	err := e.ApplyMove(2, 2)
	assert.ErrorIs(t, err, ErrRoundOver)
	assert.Equal(t, before, e.Board())
}

func TestEngine_Scenarios(t *testing.T) {
	t.Run("A: empty board is in progress", func(t *testing.T) {
		e := NewEngine()
		assert.Equal(t, InProgress, e.Evaluate())
	})

	t.Run("B: cross top row wins", func(t *testing.T) {
		e := NewEngine()
		for col := 0; col < Dim; col++ {
			require.NoError(t, e.ApplyMove(0, col))
		}
		assert.Equal(t, CrossWin, e.Evaluate())
	})

	t.Run("C: full board without a line is a draw", func(t *testing.T) {
		// X O X
		// X O O
		// O X X
		e := NewEngine()
		state := play(t, e, [][2]int{
			{0, 0}, {0, 1}, {0, 2}, {1, 1}, {1, 0},
			{1, 2}, {2, 1}, {2, 0}, {2, 2},
		})
		assert.Equal(t, Draw, state)
		assert.Equal(t, Board{X, O, X, X, O, O, O, X, X}, e.Board())
	})

	t.Run("D: second move on the same cell is rejected", func(t *testing.T) {
		e := NewEngine()
		require.NoError(t, e.ApplyMove(0, 0))
		e.AdvanceTurn()
		before := e.Board()

		assert.ErrorIs(t, e.ApplyMove(0, 0), ErrCellOccupied)
		assert.Equal(t, before, e.Board())
	})

	t.Run("E: first mover alternates with the round", func(t *testing.T) {
		e := NewEngine()
		e.AdvanceTurn()

		e.ResetRound()
		assert.Equal(t, 1, e.RoundNumber())
		assert.Equal(t, Cross, e.CurrentPlayer())

		e.StartNextRound()
		assert.Equal(t, 2, e.RoundNumber())
		assert.Equal(t, Nought, e.CurrentPlayer())
	})
}

func TestEngine_NoughtWin(t *testing.T) {
	e := NewEngine()

	// X X .
	// O O O
	// X . .
	state := play(t, e, [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {2, 0}, {1, 2}})
	assert.Equal(t, NoughtWin, state)
	assert.Equal(t, Nought, e.CurrentPlayer())
}

func TestEngine_ResetRound(t *testing.T) {
	e := NewEngine()
	play(t, e, [][2]int{{0, 0}, {1, 1}, {2, 2}})
	e.RecordWin(Nought)

	e.ResetRound()
	assert.Equal(t, Board{}, e.Board())
	assert.Equal(t, Cross, e.CurrentPlayer())
	assert.Equal(t, 1, e.OScore())
	assert.Equal(t, 1, e.RoundNumber())

	for round := 2; round <= 5; round++ {
		e.StartNextRound()
		require.Equal(t, round, e.RoundNumber())

		want := Cross
		if round%2 == 0 {
			want = Nought
		}
		assert.Equal(t, want, e.CurrentPlayer(), "round %d", round)

		// Reset keeps the parity rule regardless of whose turn it was
		e.AdvanceTurn()
		e.ResetRound()
		assert.Equal(t, want, e.CurrentPlayer(), "round %d", round)
		assert.Equal(t, Board{}, e.Board())
	}
}

func TestEngine_StartNextRound(t *testing.T) {
	e := NewEngine()
	play(t, e, [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0, 2}})
	e.RecordWin(Cross)

	e.StartNextRound()
	assert.Equal(t, 2, e.RoundNumber())
	assert.Equal(t, Board{}, e.Board())
	assert.Equal(t, Nought, e.CurrentPlayer())
	assert.Equal(t, 1, e.XScore())
	assert.Equal(t, InProgress, e.Evaluate())
}

func TestEngine_ResetGame(t *testing.T) {
	e := NewEngine()
	e.RecordWin(Cross)
	e.RecordWin(Nought)
	e.RecordWin(Nought)
	e.StartNextRound()
	e.StartNextRound()
	require.NoError(t, e.ApplyMove(1, 1))

	e.ResetGame()
	assert.Equal(t, Board{}, e.Board())
	assert.Equal(t, 0, e.XScore())
	assert.Equal(t, 0, e.OScore())
	assert.Equal(t, 1, e.RoundNumber())
	assert.Equal(t, Cross, e.CurrentPlayer())
}

func TestEngine_RecordWin(t *testing.T) {
	e := NewEngine()

	e.RecordWin(Cross)
	e.RecordWin(Cross)
	e.RecordWin(Nought)

	assert.Equal(t, 2, e.XScore())
	assert.Equal(t, 1, e.OScore())
}

func TestEngine_Snapshot(t *testing.T) {
	e := NewEngine()
	play(t, e, [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0, 2}})
	e.RecordWin(Cross)

	snapshot := e.Snapshot()
	assert.Equal(t, e.Board(), snapshot.Board)
	assert.Equal(t, Cross, snapshot.CurrentPlayer)
	assert.Equal(t, CrossWin, snapshot.State)
	assert.Equal(t, 1, snapshot.XScore)
	assert.Equal(t, 0, snapshot.OScore)
	assert.Equal(t, 1, snapshot.RoundNumber)

	winner, ok := snapshot.Winner()
	assert.True(t, ok)
	assert.Equal(t, Cross, winner)
	assert.False(t, snapshot.IsDraw())

	// Snapshot is a copy
	snapshot.Board[8] = NoughtMark
	cell, _ := e.Cell(2, 2)
	assert.Equal(t, Empty, cell)
}
