package game

// Engine owns one board together with the turn and round/score counters.
// It is not safe for concurrent use.
type Engine struct {
	board         Board
	currentPlayer Player
	xScore        int
	oScore        int
	roundNumber   int
}

// NewEngine creates an engine at round 1 with Cross to move
func NewEngine() *Engine {
	return &Engine{
		currentPlayer: Cross,
		roundNumber:   1,
	}
}

// ApplyMove places the current player's mark at the given position.
// The turn is not switched; see AdvanceTurn.
func (e *Engine) ApplyMove(row, col int) error {
	idx, err := Index(row, col)
	if err != nil {
		return err
	}

	if e.board.Evaluate().IsTerminal() {
		return ErrRoundOver
	}

	if e.board[idx] != Empty {
		return ErrCellOccupied
	}

	e.board[idx] = e.currentPlayer.Mark()
	return nil
}

// Evaluate returns the state of the current board
func (e *Engine) Evaluate() State {
	return e.board.Evaluate()
}

// AdvanceTurn hands the move to the other player
func (e *Engine) AdvanceTurn() {
	e.currentPlayer = e.currentPlayer.Opponent()
}

// ResetRound clears the board. Cross opens odd rounds, Nought even ones.
func (e *Engine) ResetRound() {
	e.board.Clear()
	if e.roundNumber%2 == 0 {
		e.currentPlayer = Nought
	} else {
		e.currentPlayer = Cross
	}
}

// StartNextRound advances the round counter and resets the board
func (e *Engine) StartNextRound() {
	e.roundNumber++
	e.ResetRound()
}

// ResetGame returns the engine to its initial state
func (e *Engine) ResetGame() {
	e.board.Clear()
	e.xScore = 0
	e.oScore = 0
	e.roundNumber = 1
	e.currentPlayer = Cross
}

// RecordWin credits a won round to the given player
func (e *Engine) RecordWin(winner Player) {
	if winner == Nought {
		e.oScore++
		return
	}
	e.xScore++
}

// Board returns a copy of the board
func (e *Engine) Board() Board {
	return e.board
}

// Cell returns the cell at the given position
func (e *Engine) Cell(row, col int) (Cell, error) {
	return e.board.Get(row, col)
}

func (e *Engine) CurrentPlayer() Player { return e.currentPlayer }
func (e *Engine) XScore() int           { return e.xScore }
func (e *Engine) OScore() int           { return e.oScore }
func (e *Engine) RoundNumber() int      { return e.roundNumber }

// Snapshot returns a copy of the engine state
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Board:         e.board,
		CurrentPlayer: e.currentPlayer,
		State:         e.board.Evaluate(),
		XScore:        e.xScore,
		OScore:        e.oScore,
		RoundNumber:   e.roundNumber,
	}
}

// Snapshot is an immutable copy of engine state
type Snapshot struct {
	Board         Board
	CurrentPlayer Player
	State         State
	XScore        int
	OScore        int
	RoundNumber   int
}

// Winner returns the round winner, if the round was won
func (s *Snapshot) Winner() (Player, bool) {
	return s.State.Winner()
}

// IsDraw returns true if the round ended in a draw
func (s *Snapshot) IsDraw() bool {
	return s.State == Draw
}
