package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"grouptalk/internal/mcpserver"
	"grouptalk/internal/transport"
	"grouptalk/internal/tui/controller"
	"grouptalk/internal/tui/model"
	"grouptalk/pkg/logging"
)

const shutdownTimeout = 5 * time.Second

// runTUIMode executes the interactive terminal UI mode
func runTUIMode(ctx context.Context, config *Config, services *Services) error {
	logging.Info("CLI", "Starting TUI mode...")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	services.StartSimulator(ctx)

	// Switch logging to channel-based system for TUI integration
	logLevel := logging.ParseLevel(config.Chat.LogLevel)
	logChan := logging.InitForTUI(logLevel)
	defer logging.CloseTUIChannel()

	p, _ := controller.NewProgram(model.Options{
		Client:       services.Client,
		Config:       *config.Chat,
		DebugMode:    config.Debug,
		LaunchSignal: config.LaunchSignal(),
		LogChannel:   logChan,
	})

	// Run the TUI until user exits
	if _, err := p.Run(); err != nil {
		logging.Error("TUI-Lifecycle", err, "Error running TUI program")
		return err
	}
	logging.Info("TUI-Lifecycle", "TUI exited.")

	return nil
}

// runServeMode serves the memory store over HTTP and the event websocket.
func runServeMode(ctx context.Context, config *Config, services *Services) error {
	if services.Store == nil {
		return fmt.Errorf("serve requires the %q backend", "memory")
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	services.StartSimulator(ctx)

	srv := &http.Server{
		Addr:              config.Chat.Server.ListenAddr,
		Handler:           transport.NewServer(services.Store),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("Serve", "Listening on http://%s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("chat server failed: %w", err)
	case <-ctx.Done():
	}

	logging.Info("Serve", "Shutting down chat server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	// Hijacked websocket connections are not tracked by Shutdown; closing
	// the store ends their subscriptions.
	_ = services.Store.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down chat server: %w", err)
	}
	return nil
}

// runMCPMode serves the chat tools over stdio.
func runMCPMode(ctx context.Context, config *Config, services *Services) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	services.StartSimulator(ctx)

	s := mcpserver.New(services.Client, services.Renderer, config.Version)
	return s.ServeStdio()
}

// runUnreadMode prints the total unread count and its badge text.
func runUnreadMode(ctx context.Context, services *Services, w io.Writer) error {
	total, err := services.Client.TotalUnreadMessageCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to get unread count: %w", err)
	}
	state := services.Renderer.Render(total)
	if !state.Visible {
		_, err = fmt.Fprintf(w, "%d unread\n", total)
		return err
	}
	_, err = fmt.Fprintf(w, "%d unread (badge: %s)\n", total, state.Text)
	return err
}
