package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"grouptalk/internal/chat"

	"github.com/mark3labs/mcp-go/mcp"
)

type badgeResult struct {
	Visible bool   `json:"visible"`
	Text    string `json:"text,omitempty"`
}

type unreadResult struct {
	Total        int            `json:"total"`
	Badge        badgeResult    `json:"badge"`
	ByCustomType map[string]int `json:"byCustomType,omitempty"`
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func chatError(action string, err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, chat.ErrChannelNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("Channel not found: %v", err))
	case errors.Is(err, chat.ErrEmptyMessage):
		return mcp.NewToolResultError("Message text must not be empty")
	default:
		return mcp.NewToolResultError(fmt.Sprintf("Failed to %s: %v", action, err))
	}
}

func (s *Server) handleGetUnreadCount(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	total, err := s.client.TotalUnreadMessageCount(ctx)
	if err != nil {
		return chatError("get unread count", err), nil
	}
	channels, err := s.client.ListChannels(ctx)
	if err != nil {
		return chatError("list channels", err), nil
	}

	state := s.renderer.Render(total)
	return jsonResult(unreadResult{
		Total:        total,
		Badge:        badgeResult{Visible: state.Visible, Text: state.Text},
		ByCustomType: chat.UnreadByCustomType(channels),
	})
}

func (s *Server) handleListChannels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	channels, err := s.client.ListChannels(ctx)
	if err != nil {
		return chatError("list channels", err), nil
	}
	if len(channels) == 0 {
		return mcp.NewToolResultText("No channels available"), nil
	}
	return jsonResult(channels)
}

func (s *Server) handleListMessages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	channelURL, err := request.RequireString("channel_url")
	if err != nil {
		return mcp.NewToolResultError("channel_url parameter is required"), nil
	}
	limit := request.GetInt("limit", DefaultMessageLimit)
	if limit <= 0 {
		limit = DefaultMessageLimit
	}

	msgs, err := s.client.ListMessages(ctx, channelURL, limit)
	if err != nil {
		return chatError("list messages", err), nil
	}
	if len(msgs) == 0 {
		return mcp.NewToolResultText("No messages in this channel"), nil
	}
	return jsonResult(msgs)
}

func (s *Server) handleSendMessage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	channelURL, err := request.RequireString("channel_url")
	if err != nil {
		return mcp.NewToolResultError("channel_url parameter is required"), nil
	}
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text parameter is required"), nil
	}

	msg, err := s.client.SendMessage(ctx, channelURL, text)
	if err != nil {
		return chatError("send message", err), nil
	}
	return jsonResult(msg)
}

func (s *Server) handleMarkAsRead(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	channelURL, err := request.RequireString("channel_url")
	if err != nil {
		return mcp.NewToolResultError("channel_url parameter is required"), nil
	}
	if err := s.client.MarkAsRead(ctx, channelURL); err != nil {
		return chatError("mark channel as read", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Marked %s as read", channelURL)), nil
}
