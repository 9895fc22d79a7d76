package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"lessontictactoe/internal/server"
)

func Score() *cobra.Command {
	var (
		addr      string
		sessionID string
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Print the scoreboard of a served session",
		Args:  cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flag("addr").Changed {
				addr = fmt.Sprintf("localhost:%d", cfg.GRPCPort)
			}

			client, conn, err := server.Dial(addr)
			if err != nil {
				return err
			}
			defer conn.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			summary, err := client.GetSummary(ctx, sessionID)
			if err != nil {
				return fmt.Errorf("fetching summary of %s: %w", sessionID, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Session %s\n", summary.SessionID)
			fmt.Fprintf(out, "- %-8s %d\n", "round:", summary.RoundNumber)
			fmt.Fprintf(out, "- %-8s %d\n", "X:", summary.XScore)
			fmt.Fprintf(out, "- %-8s %d\n", "O:", summary.OScore)
			fmt.Fprintf(out, "- %-8s %d\n", "draws:", summary.Draws)
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Address of the gRPC server (default localhost:<grpc-port>)")
	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "Session id")
	cmd.MarkFlagRequired("session")

	return cmd
}
