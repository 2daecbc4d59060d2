package model

import (
	"fmt"

	"grouptalk/internal/chat"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// Navigator opens the channel screen for a channel URL.
type Navigator func(channelURL string) tea.Cmd

type channelItem struct {
	channel chat.GroupChannel
}

func (i channelItem) Title() string {
	if i.channel.UnreadMessageCount > 0 {
		return fmt.Sprintf("%s (%d)", i.channel.Name, i.channel.UnreadMessageCount)
	}
	return i.channel.Name
}

func (i channelItem) Description() string {
	desc := fmt.Sprintf("%d members", i.channel.MemberCount)
	if i.channel.CustomType != "" {
		desc += " · " + i.channel.CustomType
	}
	if last := i.channel.LastMessage; last != nil {
		desc += " · " + last.Sender.DisplayName() + ": " + last.Text
	}
	return desc
}

func (i channelItem) FilterValue() string { return i.channel.Name }

// ChannelList is the group channel list page. Selecting an entry hands its
// URL to the navigator it was built with.
type ChannelList struct {
	List     list.Model
	navigate Navigator
}

// NewChannelList creates an empty list that navigates through navigate.
func NewChannelList(navigate Navigator) *ChannelList {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Group channels"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.DisableQuitKeybindings()
	return &ChannelList{List: l, navigate: navigate}
}

// SetChannels replaces the entries, keeping the selection on the same
// channel when it still exists.
func (c *ChannelList) SetChannels(channels []chat.GroupChannel) tea.Cmd {
	selected, hadSelection := c.Selected()

	items := make([]list.Item, 0, len(channels))
	index := 0
	for i, ch := range channels {
		items = append(items, channelItem{channel: ch})
		if hadSelection && ch.URL == selected.URL {
			index = i
		}
	}
	cmd := c.List.SetItems(items)
	if len(items) > 0 {
		c.List.Select(index)
	}
	return cmd
}

// Selected returns the highlighted channel.
func (c *ChannelList) Selected() (chat.GroupChannel, bool) {
	item, ok := c.List.SelectedItem().(channelItem)
	if !ok {
		return chat.GroupChannel{}, false
	}
	return item.channel, true
}

// Select navigates to the highlighted channel.
func (c *ChannelList) Select() tea.Cmd {
	ch, ok := c.Selected()
	if !ok || c.navigate == nil {
		return nil
	}
	return c.navigate(ch.URL)
}

// Len returns the number of channels.
func (c *ChannelList) Len() int {
	return len(c.List.Items())
}

// Filtering reports whether the user is typing a filter.
func (c *ChannelList) Filtering() bool {
	return c.List.FilterState() == list.Filtering
}

func (c *ChannelList) SetSize(width, height int) {
	c.List.SetSize(width, height)
}

func (c *ChannelList) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	c.List, cmd = c.List.Update(msg)
	return cmd
}

func (c *ChannelList) View() string {
	return c.List.View()
}
