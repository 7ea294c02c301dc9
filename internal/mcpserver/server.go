// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Balestra tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/balestra/internal/apperr"
	"github.com/starford/balestra/internal/armory"
	"github.com/starford/balestra/internal/bout"
	"github.com/starford/balestra/internal/models"
	"github.com/starford/balestra/internal/service"
)

const boutFormatURI = "balestra://bout-format"

// Server wraps the MCP server with Balestra tools.
type Server struct {
	mcp *server.MCPServer
	svc *service.Service
}

// New creates a new MCP server with all Balestra tools registered.
func New(svc *service.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Balestra",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_armory",
		mcp.WithDescription("Equipment grouped by category with equipped item, maintenance count and inventory totals."),
		mcp.WithString("query", mcp.Description("Case-insensitive search over category names and item brand, model or subtype")),
		mcp.WithString("filter", mcp.Description("View mode"), mcp.Enum("all", "equipped", "maintenance")),
	), s.getArmory)

	s.mcp.AddTool(mcp.NewTool("get_catalog",
		mcp.WithDescription("List the equipment categories with their subtypes, in display order."),
	), s.getCatalog)

	s.mcp.AddTool(mcp.NewTool("list_bouts",
		mcp.WithDescription("List recorded bouts, newest first."),
		mcp.WithString("weapon", mcp.Description("Only bouts fenced with this weapon"), mcp.Enum(weaponNames()...)),
		mcp.WithString("type", mcp.Description("Only bouts of this type"), mcp.Enum(typeNames()...)),
		mcp.WithString("query", mcp.Description("Search opponent name or nickname, tournament and location")),
	), s.listBouts)

	s.mcp.AddTool(mcp.NewTool("record_bout",
		mcp.WithDescription("Record a bout result. Scores cannot be tied; the win is derived from the scores. "+
			"Read the balestra://bout-format resource for the full field rules."),
		mcp.WithString("opponent_name", mcp.Required(), mcp.Description("Opponent's name")),
		mcp.WithString("date", mcp.Required(), mcp.Description("Bout date, e.g. 2024-12-15 or 2024-12-15T14:30")),
		mcp.WithString("weapon", mcp.Required(), mcp.Enum(weaponNames()...)),
		mcp.WithNumber("user_score", mcp.Required(), mcp.Description("Your touches, 0-50")),
		mcp.WithNumber("opponent_score", mcp.Required(), mcp.Description("Opponent's touches, 0-50")),
		mcp.WithString("type", mcp.Required(), mcp.Enum(typeNames()...)),
		mcp.WithString("opponent_nickname"),
		mcp.WithString("opponent_weapon", mcp.Enum(weaponNames()...)),
		mcp.WithString("opponent_ranking"),
		mcp.WithString("opponent_division"),
		mcp.WithString("tournament_name"),
		mcp.WithString("location"),
		mcp.WithString("notes"),
		mcp.WithString("equipment_used"),
	), s.recordBout)

	s.mcp.AddTool(mcp.NewTool("get_bout_stats",
		mcp.WithDescription("Win/loss record, touch indicator, current streak and per-weapon and per-type breakdowns."),
	), s.getBoutStats)

	// Resource: bout format contract.
	s.mcp.AddResource(
		mcp.NewResource(boutFormatURI, "Bout Format",
			mcp.WithResourceDescription("Fields and rules of a bout record."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readBoutFormatResource,
	)

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

func weaponNames() []string {
	out := make([]string, 0, len(models.Weapons))
	for _, w := range models.Weapons {
		out = append(out, string(w))
	}
	return out
}

func typeNames() []string {
	out := make([]string, 0, len(models.BoutTypes))
	for _, t := range models.BoutTypes {
		out = append(out, string(t))
	}
	return out
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// errorResult renders validation failures one field per line.
func errorResult(err error) *mcp.CallToolResult {
	var verr *apperr.ValidationError
	if errors.As(err, &verr) {
		lines := make([]string, 0, len(verr.Errors))
		for _, fe := range verr.Errors {
			lines = append(lines, fe.Field+": "+fe.Message)
		}
		return mcp.NewToolResultError(strings.Join(lines, "\n"))
	}
	return mcp.NewToolResultError(err.Error())
}

func (s *Server) getArmory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	view, err := s.svc.Armory(ctx, req.GetString("query", ""), armory.FilterMode(req.GetString("filter", "")))
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(view)
}

func (s *Server) getCatalog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Catalog().Categories())
}

func (s *Server) listBouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bouts, err := s.svc.ListBouts(ctx, bout.Query{
		Weapon: models.Weapon(req.GetString("weapon", "")),
		Type:   models.BoutType(req.GetString("type", "")),
		Search: req.GetString("query", ""),
	})
	if err != nil {
		return errorResult(err), nil
	}
	if len(bouts) == 0 {
		return mcp.NewToolResultText("no bouts found"), nil
	}
	return jsonResult(bouts)
}

// score reads a whole-number argument. A missing argument yields nil so the
// validator reports it alongside the other fields.
func score(req mcp.CallToolRequest, name string) (*int, error) {
	if _, ok := req.GetArguments()[name]; !ok {
		return nil, nil
	}
	v, err := req.RequireFloat(name)
	if err != nil {
		return nil, err
	}
	if v != math.Trunc(v) {
		return nil, fmt.Errorf("%s: must be a whole number", name)
	}
	n := int(v)
	return &n, nil
}

func (s *Server) recordBout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userScore, err := score(req, "user_score")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	opponentScore, err := score(req, "opponent_score")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	b, err := s.svc.RecordBout(ctx, bout.Form{
		OpponentName:     req.GetString("opponent_name", ""),
		OpponentNickname: req.GetString("opponent_nickname", ""),
		OpponentWeapon:   req.GetString("opponent_weapon", ""),
		OpponentRanking:  req.GetString("opponent_ranking", ""),
		OpponentDivision: req.GetString("opponent_division", ""),
		Date:             req.GetString("date", ""),
		Location:         req.GetString("location", ""),
		TournamentName:   req.GetString("tournament_name", ""),
		Weapon:           req.GetString("weapon", ""),
		UserScore:        userScore,
		OpponentScore:    opponentScore,
		Notes:            req.GetString("notes", ""),
		Type:             req.GetString("type", ""),
		EquipmentUsed:    req.GetString("equipment_used", ""),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(b)
}

func (s *Server) getBoutStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.svc.BoutStats(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(stats)
}

func (s *Server) readBoutFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      boutFormatURI,
			MIMEType: "text/markdown",
			Text:     BoutFormatContract,
		},
	}, nil
}
