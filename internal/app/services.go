package app

import (
	"context"
	"fmt"

	"grouptalk/internal/badge"
	"grouptalk/internal/chat"
	"grouptalk/internal/config"
	"grouptalk/internal/transport"
	"grouptalk/pkg/logging"
)

// Services holds the chat backend the commands run against.
type Services struct {
	Client    chat.Client
	Store     *chat.Store // nil for a remote backend
	Simulator *chat.Simulator
	Renderer  badge.Renderer
}

// InitializeServices connects to the configured backend. The memory backend
// is seeded with demo channels.
func InitializeServices(ctx context.Context, cfg config.Config) (*Services, error) {
	svc := &Services{
		Renderer: badge.NewRenderer(cfg.Badge.MaxCount, cfg.Badge.OverflowLabel),
	}

	switch cfg.Backend.Mode {
	case config.BackendRemote:
		client, err := transport.Dial(ctx, cfg.Backend.ServerURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Backend.ServerURL, err)
		}
		logging.Info("Bootstrap", "Connected to chat server %s", cfg.Backend.ServerURL)
		svc.Client = client
	default:
		store := chat.NewStore(chat.User{ID: cfg.User.ID, Nickname: cfg.User.Nickname})
		if err := store.Seed(); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to seed demo channels: %w", err)
		}
		svc.Store = store
		svc.Client = store
		if cfg.Simulator.IsEnabled() {
			svc.Simulator = chat.NewSimulator(store, cfg.Simulator.Interval, 0)
		}
	}
	return svc, nil
}

// StartSimulator runs the demo traffic generator until ctx is done.
func (s *Services) StartSimulator(ctx context.Context) {
	if s.Simulator == nil {
		return
	}
	go s.Simulator.Run(ctx)
}

// Close releases the backend.
func (s *Services) Close() error {
	if s.Client == nil {
		return nil
	}
	return s.Client.Close()
}
