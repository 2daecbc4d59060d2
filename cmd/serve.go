package cmd

import (
	"context"
	"fmt"

	"grouptalk/internal/app"
	"grouptalk/internal/config"

	"github.com/spf13/cobra"
)

var serveDebug bool

// serveCmd runs the demo chat backend.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the demo chat backend over HTTP and websocket",
	Long: `Starts an in-memory chat backend seeded with demo channels and serves it
on server.listenAddr (default 127.0.0.1:8088).

Endpoints live under /api/v1. Events are streamed on /api/v1/events as
websocket JSON frames. POST /api/v1/channels/{url}/inject delivers a
message from another member, which is handy for trying the unread badge.

Connect a client with 'grouptalk chat --server http://127.0.0.1:8088'.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

// runServe is the main entry point for the serve command
func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := app.NewConfig(serveDebug, configPath)
	cfg.Backend = config.BackendMemory

	application, err := app.NewApplication(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer application.Close()

	return application.Serve(ctx)
}

// init registers the serve command and its flags with the root command.
func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable general debug logging")
}
