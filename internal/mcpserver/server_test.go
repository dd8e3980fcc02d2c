package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mirrwin/daymark/internal/countdown"
	"github.com/mirrwin/daymark/internal/eventservice"
	"github.com/mirrwin/daymark/internal/lunar"
	"github.com/mirrwin/daymark/internal/models"
	"github.com/mirrwin/daymark/internal/sharelink"
	"github.com/mirrwin/daymark/internal/store"
	"github.com/mirrwin/daymark/internal/testutil"
)

func testServer(t *testing.T) (*Server, *store.DB, *models.User) {
	t.Helper()

	db := testutil.TestDB(t)
	u := testutil.SeedUser(t, db, "alice", models.RoleUser)

	events := eventservice.NewService(db, countdown.NewResolver(lunar.NewConverter()), nil)
	shares := sharelink.NewManager(db, events)
	return New(db, events, shares, "alice"), db, u
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so the handler
	// functions are invoked directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_events":
		result, err = srv.listEvents(ctx, req)
	case "get_event":
		result, err = srv.getEvent(ctx, req)
	case "create_share_link":
		result, err = srv.createShareLink(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestListAndGetEvent(t *testing.T) {
	srv, db, u := testServer(t)
	ev := testutil.SeedEvent(t, db, u.ID, models.Event{
		Title: "Launch day",
		Date:  time.Now().AddDate(0, 0, 10),
		Type:  models.TypeCustom,
	})

	r := callTool(t, srv, "list_events", map[string]interface{}{})
	var views []eventservice.EventView
	if err := json.Unmarshal([]byte(resultText(r)), &views); err != nil {
		t.Fatalf("list output not JSON: %v", err)
	}
	if len(views) != 1 || views[0].Title != "Launch day" {
		t.Fatalf("views = %+v", views)
	}
	if views[0].CountdownDays != 10 {
		t.Errorf("countdown = %d, want 10", views[0].CountdownDays)
	}

	r = callTool(t, srv, "get_event", map[string]interface{}{"id": ev.ID})
	var view eventservice.EventView
	if err := json.Unmarshal([]byte(resultText(r)), &view); err != nil {
		t.Fatalf("get output not JSON: %v", err)
	}
	if view.ID != ev.ID {
		t.Errorf("view.ID = %q, want %q", view.ID, ev.ID)
	}
}

func TestListEventsTypeFilter(t *testing.T) {
	srv, db, u := testServer(t)
	testutil.SeedEvent(t, db, u.ID, models.Event{
		Title: "b", Date: time.Now(), Type: models.TypeBirthday,
	})
	testutil.SeedEvent(t, db, u.ID, models.Event{
		Title: "c", Date: time.Now(), Type: models.TypeCustom,
	})

	r := callTool(t, srv, "list_events", map[string]interface{}{"type": models.TypeBirthday})
	var views []eventservice.EventView
	if err := json.Unmarshal([]byte(resultText(r)), &views); err != nil {
		t.Fatal(err)
	}
	if len(views) != 1 || views[0].Title != "b" {
		t.Errorf("filtered views = %+v", views)
	}
}

func TestGetEventMissing(t *testing.T) {
	srv, _, _ := testServer(t)
	r := callTool(t, srv, "get_event", map[string]interface{}{"id": "nope"})
	if !r.IsError {
		t.Error("expected error for missing event")
	}
}

func TestCreateShareLink(t *testing.T) {
	srv, db, u := testServer(t)
	ev := testutil.SeedEvent(t, db, u.ID, models.Event{
		Title: "share me", Date: time.Now(), Type: models.TypeCustom,
	})

	r := callTool(t, srv, "create_share_link", map[string]interface{}{"id": ev.ID})
	text := resultText(r)
	if r.IsError {
		t.Fatalf("share link error: %s", text)
	}
	var out struct {
		ShareURL  string    `json:"shareUrl"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.ShareURL, "/share/") {
		t.Errorf("shareUrl = %q", out.ShareURL)
	}
	tok := strings.TrimPrefix(out.ShareURL, "/share/")
	if _, err := db.GetShareLink(tok); err != nil {
		t.Errorf("issued token not stored: %v", err)
	}
}

func TestUnknownAccount(t *testing.T) {
	db := testutil.TestDB(t)
	events := eventservice.NewService(db, countdown.NewResolver(lunar.NewConverter()), nil)
	shares := sharelink.NewManager(db, events)
	srv := New(db, events, shares, "ghost")

	r := callTool(t, srv, "list_events", map[string]interface{}{})
	if !r.IsError {
		t.Error("expected error for unknown account")
	}
}
