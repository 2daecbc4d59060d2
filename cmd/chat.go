package cmd

import (
	"context"
	"fmt"

	"grouptalk/internal/app"

	"github.com/spf13/cobra"
)

var (
	chatDebug               bool
	chatBackend             string
	chatServerURL           string
	chatRedirectChannel     string
	chatLaunchedFromHistory bool
)

// chatCmd starts the interactive chat client.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive chat client",
	Long: `Opens the terminal chat client.

The main screen has two tabs: Channels, which carries a badge with the total
unread message count, and Settings. The badge is kept up to date while the
main screen is visible and stops updating while a channel is open or the
terminal loses focus.

Launching from a notification:
  --redirect-channel <url> opens that channel once the main screen is up.
  --launched-from-history marks a relaunch from history; the pending
  redirect is discarded instead of followed.

Backends:
  By default a seeded in-memory backend with simulated traffic is used.
  Pass --server (or --backend remote) to connect to 'grouptalk serve'.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	application, err := app.NewApplication(ctx, newChatConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer application.Close()

	return application.RunChat(ctx)
}

// newChatConfig builds the application config from the chat flags.
func newChatConfig() *app.Config {
	cfg := app.NewConfig(chatDebug, configPath)
	cfg.Backend = chatBackend
	cfg.ServerURL = chatServerURL
	cfg.RedirectChannel = chatRedirectChannel
	cfg.LaunchedFromHistory = chatLaunchedFromHistory
	return cfg
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().BoolVar(&chatDebug, "debug", false, "Enable debug logging in the activity log")
	chatCmd.Flags().StringVar(&chatBackend, "backend", "", "Chat backend: memory or remote (overrides config)")
	chatCmd.Flags().StringVar(&chatServerURL, "server", "", "URL of a grouptalk server; implies --backend remote")
	chatCmd.Flags().StringVar(&chatRedirectChannel, "redirect-channel", "", "Channel URL to open on launch")
	chatCmd.Flags().BoolVar(&chatLaunchedFromHistory, "launched-from-history", false, "Treat this launch as a relaunch from history")
}
