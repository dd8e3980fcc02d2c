// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes read-only Daymark countdown tools for LLM integration via stdio
// transport. The server is scoped to a single account chosen at startup.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mirrwin/daymark/internal/eventservice"
	"github.com/mirrwin/daymark/internal/sharelink"
	"github.com/mirrwin/daymark/internal/store"
)

// Server wraps the MCP server with Daymark tools.
type Server struct {
	mcp      *server.MCPServer
	db       *store.DB
	events   *eventservice.Service
	shares   *sharelink.Manager
	username string
}

// New creates an MCP server with all Daymark tools registered, scoped to the
// events owned by username.
func New(db *store.DB, events *eventservice.Service, shares *sharelink.Manager, username string) *Server {
	s := &Server{db: db, events: events, shares: shares, username: username}

	s.mcp = server.NewMCPServer(
		"Daymark",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_events",
		mcp.WithDescription("List the account's events with freshly computed countdown days, "+
			"next occurrence date and anniversary number, in display order (pinned first, "+
			"then soonest)."),
		mcp.WithString("type", mcp.Description("Optional type filter: BIRTHDAY, ANNIVERSARY, FESTIVAL or CUSTOM")),
	), s.listEvents)

	s.mcp.AddTool(mcp.NewTool("get_event",
		mcp.WithDescription("Get a single event with its resolved countdown fields."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Event id")),
	), s.getEvent)

	s.mcp.AddTool(mcp.NewTool("create_share_link",
		mcp.WithDescription("Create a public, expiring share link for one event. "+
			"Anyone with the link can read that event's countdown until it expires."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Event id")),
		mcp.WithNumber("ttl_days", mcp.Description("Link lifetime in days (default 7)")),
	), s.createShareLink)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) userID() (string, error) {
	u, err := s.db.GetUserByUsername(s.username)
	if err != nil {
		return "", fmt.Errorf("account %q not found", s.username)
	}
	return u.ID, nil
}

func (s *Server) listEvents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := s.userID()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	typeFilter := ""
	if v, tErr := req.RequireString("type"); tErr == nil {
		typeFilter = v
	}
	views, err := s.events.List(ctx, userID, typeFilter, time.Now())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(views, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getEvent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	userID, err := s.userID()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	view, err := s.events.Get(ctx, userID, id, time.Now())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(view, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createShareLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	userID, err := s.userID()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ttlDays := 0
	if v, tErr := req.RequireFloat("ttl_days"); tErr == nil {
		ttlDays = int(v)
	}
	link, err := s.shares.Issue(ctx, userID, id, ttlDays, time.Now())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(map[string]any{
		"shareUrl":  "/share/" + link.Token,
		"expiresAt": link.ExpiresAt,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
