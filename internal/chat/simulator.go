package chat

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"grouptalk/pkg/logging"
)

var demoChannels = []struct {
	url, name, customType string
	members               int
}{
	{"general", "General", "", 12},
	{"random", "Random", "", 9},
	{"support", "Support", "support", 4},
	{"release-train", "Release train", "team", 6},
	{"design-review", "Design review", "team", 5},
}

var demoMembers = []User{
	{ID: "alice", Nickname: "Alice"},
	{ID: "bob", Nickname: "Bob"},
	{ID: "carol", Nickname: "Carol"},
	{ID: "dave", Nickname: "Dave"},
}

var demoLines = []string{
	"Has anyone looked at the latest build?",
	"Lunch in ten minutes",
	"I pushed a fix for the flaky test",
	"Can someone review my PR?",
	"The staging deploy is green",
	"Meeting moved to 3pm",
	"Thanks!",
	"Looks good to me",
}

// Seed fills the store with demo channels and a little history. Channels
// whose URL already exists are skipped.
func (s *Store) Seed() error {
	for _, dc := range demoChannels {
		if _, err := s.addChannel(GroupChannel{
			URL:         dc.url,
			Name:        dc.name,
			CustomType:  dc.customType,
			MemberCount: dc.members,
		}); err != nil {
			logging.Debug(storeSubsystem, "skipping seed channel %s: %v", dc.url, err)
			continue
		}
	}
	for i, dc := range demoChannels {
		sender := demoMembers[i%len(demoMembers)]
		if _, err := s.Receive(dc.url, sender, demoLines[i%len(demoLines)]); err != nil {
			return fmt.Errorf("seed channel %s: %w", dc.url, err)
		}
	}
	logging.Info(storeSubsystem, "Seeded %d demo channels", len(demoChannels))
	return nil
}

// Simulator injects incoming messages from other members at a fixed
// interval so the unread badge and push toasts have something to show.
type Simulator struct {
	store    *Store
	interval time.Duration
	rng      *rand.Rand
}

// NewSimulator creates a simulator. A zero seed uses the current time.
func NewSimulator(store *Store, interval time.Duration, seed int64) *Simulator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulator{
		store:    store,
		interval: interval,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Step injects one message into a random channel.
func (sim *Simulator) Step(ctx context.Context) (Message, error) {
	channels, err := sim.store.ListChannels(ctx)
	if err != nil {
		return Message{}, err
	}
	if len(channels) == 0 {
		return Message{}, ErrChannelNotFound
	}
	ch := channels[sim.rng.Intn(len(channels))]
	sender := demoMembers[sim.rng.Intn(len(demoMembers))]
	line := demoLines[sim.rng.Intn(len(demoLines))]
	return sim.store.Receive(ch.URL, sender, line)
}

// Run steps until ctx is done. A non-positive interval disables it.
func (sim *Simulator) Run(ctx context.Context) {
	if sim.interval <= 0 {
		return
	}
	ticker := time.NewTicker(sim.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			msg, err := sim.Step(ctx)
			if err != nil {
				logging.Debug(storeSubsystem, "simulator step failed: %v", err)
				continue
			}
			logging.Debug(storeSubsystem, "simulated message in %s from %s", msg.ChannelURL, msg.Sender.ID)
		}
	}
}
