package cmd

import (
	"context"
	"fmt"

	"grouptalk/internal/app"

	"github.com/spf13/cobra"
)

var mcpServerURL string

// mcpCmd serves the chat tools to MCP hosts.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve chat tools over MCP on stdio",
	Long: `Runs an MCP server on stdin/stdout exposing the chat backend as tools:

  get_unread_count  total unread count, badge text and per custom type totals
  list_channels     channels with unread counts and last message
  list_messages     recent messages of a channel
  send_message      post a message as the configured user
  mark_as_read      reset a channel's unread count

Add it to an MCP host as a stdio server running 'grouptalk mcp'. Logs are
written to stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		cfg := app.NewConfig(false, configPath)
		cfg.ServerURL = mcpServerURL
		cfg.Version = rootCmd.Version

		application, err := app.NewApplication(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		defer application.Close()

		return application.ServeMCP(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().StringVar(&mcpServerURL, "server", "", "URL of a grouptalk server")
}
