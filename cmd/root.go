package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// configPath points at a single config file instead of the layered lookup.
var configPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "grouptalk",
	Short: "Terminal client for group chat channels",
	Long: `grouptalk is a terminal client for group chat channels.

It shows your channels with a live unread badge, opens a channel straight
from a notification and serves a demo chat backend and MCP tools for
assistants.`,
	// SilenceUsage is set to true to prevent printing usage message on errors
	// handled by us (e.g. invalid arguments, failed connections)
	SilenceUsage: true,
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v // Set cobra's version field as well
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate(`{{printf "grouptalk version %s\n" .Version}}`)
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is layered ~/.config/grouptalk/config.yaml and ./.grouptalk/config.yaml)")
}
