// Package mcpserver exposes the chat client to MCP hosts over stdio so an
// assistant can read unread counts and channels, and post messages.
package mcpserver

import (
	"grouptalk/internal/badge"
	"grouptalk/internal/chat"
	"grouptalk/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const subsystem = "MCPServer"

// DefaultMessageLimit caps list_messages when no limit is given.
const DefaultMessageLimit = 20

// Server wires chat tools onto an MCP server.
type Server struct {
	client   chat.Client
	renderer badge.Renderer
	mcp      *server.MCPServer
}

// New creates a server for client. Badge text in get_unread_count follows
// renderer.
func New(client chat.Client, renderer badge.Renderer, version string) *Server {
	s := &Server{
		client:   client,
		renderer: renderer,
		mcp: server.NewMCPServer(
			"grouptalk",
			version,
			server.WithToolCapabilities(true),
		),
	}
	for _, t := range s.Tools() {
		s.mcp.AddTool(t.Tool, t.Handler)
	}
	return s
}

// MCP returns the underlying server.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves MCP over stdin and stdout until the peer disconnects.
func (s *Server) ServeStdio() error {
	logging.Info(subsystem, "serving MCP on stdio")
	return server.ServeStdio(s.mcp)
}

// Tools returns every chat tool with its handler.
func (s *Server) Tools() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: mcp.NewTool("get_unread_count",
				mcp.WithDescription("Get the total unread message count and the badge text shown for it"),
			),
			Handler: s.handleGetUnreadCount,
		},
		{
			Tool: mcp.NewTool("list_channels",
				mcp.WithDescription("List group channels with their unread counts and last message"),
			),
			Handler: s.handleListChannels,
		},
		{
			Tool: mcp.NewTool("list_messages",
				mcp.WithDescription("List the most recent messages of a group channel"),
				mcp.WithString("channel_url",
					mcp.Required(),
					mcp.Description("URL of the group channel"),
				),
				mcp.WithNumber("limit",
					mcp.Description("Maximum number of messages to return"),
				),
			),
			Handler: s.handleListMessages,
		},
		{
			Tool: mcp.NewTool("send_message",
				mcp.WithDescription("Send a message to a group channel as the current user"),
				mcp.WithString("channel_url",
					mcp.Required(),
					mcp.Description("URL of the group channel"),
				),
				mcp.WithString("text",
					mcp.Required(),
					mcp.Description("Message text"),
				),
			),
			Handler: s.handleSendMessage,
		},
		{
			Tool: mcp.NewTool("mark_as_read",
				mcp.WithDescription("Mark every message in a group channel as read"),
				mcp.WithString("channel_url",
					mcp.Required(),
					mcp.Description("URL of the group channel"),
				),
			),
			Handler: s.handleMarkAsRead,
		},
	}
}
