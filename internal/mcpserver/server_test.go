package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/balestra/internal/bout"
	"github.com/starford/balestra/internal/models"
	"github.com/starford/balestra/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	return New(testutil.TestService(t))
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "get_armory":
		result, err = srv.getArmory(ctx, req)
	case "get_catalog":
		result, err = srv.getCatalog(ctx, req)
	case "list_bouts":
		result, err = srv.listBouts(ctx, req)
	case "record_bout":
		result, err = srv.recordBout(ctx, req)
	case "get_bout_stats":
		result, err = srv.getBoutStats(ctx, req)
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

func boutArgs() map[string]interface{} {
	return map[string]interface{}{
		"opponent_name":  "Sarah",
		"date":           "2024-01-15",
		"weapon":         "epee",
		"user_score":     float64(15),
		"opponent_score": float64(12),
		"type":           "practice",
	}
}

func TestRecordAndListBouts(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "record_bout", boutArgs())
	if r.IsError {
		t.Fatalf("record_bout: %s", resultText(r))
	}
	var b models.Bout
	if err := json.Unmarshal([]byte(resultText(r)), &b); err != nil {
		t.Fatalf("decode bout: %v", err)
	}
	if b.ID != "id-1" || !b.Won || b.Weapon != models.WeaponEpee {
		t.Errorf("bout = %+v", b)
	}

	r = callTool(t, srv, "list_bouts", map[string]interface{}{"weapon": "epee"})
	var bouts []models.Bout
	if err := json.Unmarshal([]byte(resultText(r)), &bouts); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(bouts) != 1 || bouts[0].OpponentName != "Sarah" {
		t.Errorf("bouts = %+v", bouts)
	}

	r = callTool(t, srv, "list_bouts", map[string]interface{}{"weapon": "sabre"})
	if text := resultText(r); text != "no bouts found" {
		t.Errorf("sabre list = %q", text)
	}
}

func TestRecordBout_Invalid(t *testing.T) {
	srv := testServer(t)

	tied := boutArgs()
	tied["opponent_score"] = float64(15)
	r := callTool(t, srv, "record_bout", tied)
	if !r.IsError || resultText(r) != "userScore: Scores cannot be tied" {
		t.Errorf("tied = %q", resultText(r))
	}

	fractional := boutArgs()
	fractional["user_score"] = 14.5
	if r := callTool(t, srv, "record_bout", fractional); !r.IsError {
		t.Error("expected error for fractional score")
	}

	r = callTool(t, srv, "record_bout", map[string]interface{}{})
	if !r.IsError {
		t.Fatal("expected error for empty arguments")
	}
	lines := strings.Split(resultText(r), "\n")
	if len(lines) < 5 || !strings.HasPrefix(lines[0], "opponentName: ") {
		t.Errorf("errors = %q", lines)
	}
}

func TestGetBoutStats(t *testing.T) {
	srv := testServer(t)
	callTool(t, srv, "record_bout", boutArgs())

	r := callTool(t, srv, "get_bout_stats", nil)
	var stats bout.Stats
	if err := json.Unmarshal([]byte(resultText(r)), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Bouts != 1 || stats.Wins != 1 || stats.Indicator != 3 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestGetArmory(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "get_armory", map[string]interface{}{"filter": "equipped"})
	if r.IsError {
		t.Fatalf("get_armory: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), `"categories": []`) {
		t.Errorf("empty inventory should have no equipped categories: %s", resultText(r))
	}

	r = callTool(t, srv, "get_armory", map[string]interface{}{"filter": "broken"})
	if !r.IsError || !strings.HasPrefix(resultText(r), "filter: ") {
		t.Errorf("bad filter = %q", resultText(r))
	}
}

func TestGetCatalog(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "get_catalog", nil)
	var cats []models.EquipmentCategory
	if err := json.Unmarshal([]byte(resultText(r)), &cats); err != nil {
		t.Fatalf("decode catalog: %v", err)
	}
	if len(cats) != 13 || cats[0].Key != models.CategoryWeapon || cats[12].Key != models.CategoryOther {
		t.Errorf("catalog = %+v", cats)
	}
}

func TestBoutFormatResource(t *testing.T) {
	srv := testServer(t)
	contents, err := srv.readBoutFormatResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok || tc.URI != boutFormatURI || !strings.Contains(tc.Text, "Scores cannot be tied") {
		t.Errorf("resource = %+v", contents[0])
	}
}

func TestToolsRegistered(t *testing.T) {
	srv := testServer(t)
	ctx := context.Background()
	srv.MCPServer().HandleMessage(ctx, json.RawMessage(
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","clientInfo":{"name":"test","version":"0"}}}`))
	resp := srv.MCPServer().HandleMessage(ctx, json.RawMessage(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`))

	out, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"get_armory", "get_catalog", "list_bouts", "record_bout", "get_bout_stats"} {
		if !strings.Contains(string(out), `"name":"`+name+`"`) {
			t.Errorf("tool %s not listed: %s", name, out)
		}
	}
}
