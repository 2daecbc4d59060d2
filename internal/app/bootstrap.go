package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"grouptalk/internal/config"
	"grouptalk/pkg/logging"
)

// Application is the main application structure that bootstraps and runs grouptalk
type Application struct {
	config   *Config
	services *Services
}

// NewApplication loads configuration and connects to the chat backend.
func NewApplication(ctx context.Context, cfg *Config) (*Application, error) {
	// Logs go to stderr so stdout stays free for command output and MCP.
	logging.InitForCLI(logging.LevelInfo, os.Stderr)

	var chatCfg config.Config
	var err error

	if cfg.ConfigPath != "" {
		chatCfg, err = config.LoadFile(cfg.ConfigPath)
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load configuration from path: %s", cfg.ConfigPath)
			return nil, fmt.Errorf("failed to load configuration from path %s: %w", cfg.ConfigPath, err)
		}
		logging.Debug("Bootstrap", "Loaded configuration from custom path: %s", cfg.ConfigPath)
	} else {
		chatCfg, err = config.LoadConfig()
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load configuration")
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
	}

	chatCfg = cfg.applyOverrides(chatCfg)
	if err := chatCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logging.InitForCLI(logging.ParseLevel(chatCfg.LogLevel), os.Stderr)
	cfg.Chat = &chatCfg

	services, err := InitializeServices(ctx, chatCfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

// Services returns the initialized backend.
func (a *Application) Services() *Services {
	return a.services
}

// Close releases the backend.
func (a *Application) Close() error {
	return a.services.Close()
}

// RunChat runs the interactive chat client until the user quits.
func (a *Application) RunChat(ctx context.Context) error {
	return runTUIMode(ctx, a.config, a.services)
}

// Serve exposes the memory backend over HTTP until ctx is cancelled or the
// process is interrupted.
func (a *Application) Serve(ctx context.Context) error {
	return runServeMode(ctx, a.config, a.services)
}

// ServeMCP serves the MCP tools on stdio.
func (a *Application) ServeMCP(ctx context.Context) error {
	return runMCPMode(ctx, a.config, a.services)
}

// PrintUnread writes the total unread count and the badge text to w.
func (a *Application) PrintUnread(ctx context.Context, w io.Writer) error {
	return runUnreadMode(ctx, a.services, w)
}
