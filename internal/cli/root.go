package cli

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"lessontictactoe/internal/config"
)

func Root() *cobra.Command {
	root := &cobra.Command{
		Use:   "tictactoe",
		Short: "Play tic-tac-toe on the terminal or serve it to a touch front-end",
		Long: heredoc.Doc(`tictactoe plays a two player game of tic-tac-toe on a 3x3 grid.

			Run without a command it starts a console game on stdin and
			stdout. Moves are entered as "row col" with both numbers in
			the range 0 to 2.`),
		Args: cobra.NoArgs,

		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// If --trace flag is provided, set logging level to Trace.
			if cmd.Flag("trace").Changed {
				logrus.SetLevel(logrus.TraceLevel)
			}
		},

		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, 1, false)
		},
	}

	// global flags
	root.PersistentFlags().BoolP("trace", "t", false, "Show Trace Information")
	root.PersistentFlags().StringP("config", "c", "",
		fmt.Sprintf("Path to the configuration file (searched as %s when unset)", config.DefaultPath()))

	versionStr := "v0.1.0\n"
	root.SetVersionTemplate(versionStr)
	root.Version = versionStr

	// Register the various commands.
	root.AddCommand(Play())
	root.AddCommand(Serve())
	root.AddCommand(Score())
	root.AddCommand(Config())

	return root
}
