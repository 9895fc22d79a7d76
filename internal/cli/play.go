package cli

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"lessontictactoe/internal/console"
)

func Play() *cobra.Command {
	var (
		rounds int
		color  bool
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game on the terminal",
		Args:  cobra.NoArgs,
		Long: heredoc.Doc(`play starts a console game for two players sharing the
			terminal. The board is printed before every move, X moves
			first and each player enters "row col" in turn.

			With --rounds the game continues for that many rounds,
			alternating the first mover, and prints the score at the
			end.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, rounds, color)
		},
	}

	cmd.Flags().IntVarP(&rounds, "rounds", "r", 1, "Number of rounds to play")
	cmd.Flags().BoolVar(&color, "color", false, "Colour the marks on the board")

	return cmd
}

func runPlay(cmd *cobra.Command, rounds int, color bool) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}

	g := console.New(console.Options{
		In:     cmd.InOrStdin(),
		Out:    cmd.OutOrStdout(),
		Rounds: rounds,
		Color:  color,
		Logger: logrus.StandardLogger(),
	})
	return g.Run(cmd.Context())
}
