// Package console runs a game on a text terminal: the board is printed
// after every move and moves are read as "row col" lines.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/muesli/termenv"
	"github.com/sirupsen/logrus"

	"lessontictactoe/internal/game"
)

// Options configures a console game
type Options struct {
	In  io.Reader
	Out io.Writer
	// Rounds to play before exiting; values below 1 mean one round.
	Rounds int
	Color  bool
	Logger logrus.FieldLogger
}

// Game is an interactive console game
type Game struct {
	engine *game.Engine
	in     *bufio.Scanner
	out    *termenv.Output
	rounds int
	log    logrus.FieldLogger
}

// New creates a console game reading from opts.In and writing to opts.Out
func New(opts Options) *Game {
	rounds := opts.Rounds
	if rounds < 1 {
		rounds = 1
	}

	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Game{
		engine: game.NewEngine(),
		in:     bufio.NewScanner(opts.In),
		out:    NewOutput(opts.Out, opts.Color),
		rounds: rounds,
		log:    log.WithField("component", "console"),
	}
}

// Engine exposes the underlying engine
func (g *Game) Engine() *game.Engine {
	return g.engine
}

// Run plays the configured number of rounds. It returns
// io.ErrUnexpectedEOF if input ends before the last round is over.
func (g *Game) Run(ctx context.Context) error {
	for round := 1; ; round++ {
		state, err := g.playRound(ctx)
		if err != nil {
			return err
		}

		if winner, ok := state.Winner(); ok {
			g.engine.RecordWin(winner)
		}
		g.log.WithFields(logrus.Fields{
			"round": g.engine.RoundNumber(),
			"state": state,
		}).Debug("round finished")

		if round >= g.rounds {
			break
		}
		g.engine.StartNextRound()
		fmt.Fprintln(g.out)
	}

	if g.rounds > 1 {
		fmt.Fprintf(g.out, "Score X:%d 0:%d after %d rounds\n",
			g.engine.XScore(), g.engine.OScore(), g.engine.RoundNumber())
	}
	return nil
}

func (g *Game) playRound(ctx context.Context) (game.State, error) {
	for {
		if err := ctx.Err(); err != nil {
			return game.InProgress, err
		}

		Render(g.out, g.engine.Board())
		fmt.Fprintf(g.out, "Player's move %s\n", g.engine.CurrentPlayer().Mark())
		fmt.Fprintln(g.out, "Enter the move(row and col, separated by space)")

		line, err := g.readLine()
		if err != nil {
			return game.InProgress, err
		}

		row, col, err := ParseMove(line)
		if err == nil {
			err = g.engine.ApplyMove(row, col)
		}
		if err != nil {
			g.log.WithError(err).Debug("move rejected")
			fmt.Fprintln(g.out, "Try again")
			continue
		}

		state := g.engine.Evaluate()
		if state.IsTerminal() {
			Render(g.out, g.engine.Board())
			fmt.Fprintln(g.out, outcome(state))
			return state, nil
		}

		g.engine.AdvanceTurn()
		fmt.Fprintln(g.out)
	}
}

func (g *Game) readLine() (string, error) {
	if g.in.Scan() {
		return g.in.Text(), nil
	}
	if err := g.in.Err(); err != nil {
		return "", fmt.Errorf("reading move: %w", err)
	}
	return "", io.ErrUnexpectedEOF
}
