package cmd

import (
	"context"
	"fmt"

	"grouptalk/internal/app"

	"github.com/spf13/cobra"
)

var unreadServerURL string

// unreadCmd prints the unread count once.
var unreadCmd = &cobra.Command{
	Use:   "unread",
	Short: "Print the total unread message count and badge text",
	Long: `Queries the chat backend once and prints the total unread message count
together with the text the Channels tab badge would show.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		cfg := app.NewConfig(false, configPath)
		cfg.ServerURL = unreadServerURL

		application, err := app.NewApplication(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		defer application.Close()

		return application.PrintUnread(ctx, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(unreadCmd)

	unreadCmd.Flags().StringVar(&unreadServerURL, "server", "", "URL of a grouptalk server")
}
