// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Catime font tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vladelaina/Catime/internal/fontservice"
)

// Server wraps the MCP server with Catime font tools.
type Server struct {
	mcp *server.MCPServer
	svc *fontservice.Service
}

// New creates a new MCP server with all font tools registered.
func New(svc *fontservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Catime",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_fonts",
		mcp.WithDescription("List the fonts in the managed folder, in menu order, "+
			"with the snapshot state (empty, fresh, stale, scanning)."),
	), s.listFonts)

	s.mcp.AddTool(mcp.NewTool("get_font_menu",
		mcp.WithDescription("Get the synthesized font menu tree. Leaves carry menu "+
			"identifiers usable with select_font; the current font is checked."),
	), s.getFontMenu)

	s.mcp.AddTool(mcp.NewTool("select_font",
		mcp.WithDescription("Select a font by its menu identifier and persist the choice."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Menu identifier of the font leaf")),
	), s.selectFont)

	s.mcp.AddTool(mcp.NewTool("resolve_font_path",
		mcp.WithDescription("Resolve a menu identifier to the config-path form of the "+
			"font it denotes, without changing the selection."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Menu identifier of the font leaf")),
	), s.resolveFontPath)

	s.mcp.AddTool(mcp.NewTool("set_current_font",
		mcp.WithDescription("Record a font selection by reference. Accepts a managed "+
			"relative path, a bare font file name, or an absolute system path."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Font reference to make current")),
	), s.setCurrentFont)

	s.mcp.AddTool(mcp.NewTool("refresh_fonts",
		mcp.WithDescription("Queue a background rescan of the managed fonts folder. "+
			"Returns immediately; concurrent requests coalesce."),
	), s.refreshFonts)

	// Resource: current snapshot.
	s.mcp.AddResource(
		mcp.NewResource("catime://fonts", "Managed Fonts Snapshot",
			mcp.WithResourceDescription("The current font snapshot in menu order, as JSON."),
			mcp.WithMIMEType("application/json"),
		),
		s.readFontsResource,
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

func (s *Server) listFonts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fonts, state := s.svc.ListFonts(ctx)
	out, _ := json.MarshalIndent(map[string]any{
		"fonts": fonts,
		"state": state.String(),
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getFontMenu(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	menu, err := s.svc.BuildMenu(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(menu, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) selectFont(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path, err := s.svc.SelectFont(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("selected: %s", path)), nil
}

func (s *Server) resolveFontPath(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path, err := s.svc.ResolvePath(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(path), nil
}

func (s *Server) setCurrentFont(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.NotifyCurrentFontChanged(ctx, path); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("current font set: %s", path)), nil
}

func (s *Server) refreshFonts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.svc.RequestRefresh(ctx)
	return mcp.NewToolResultText("rescan queued"), nil
}

func (s *Server) readFontsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	fonts, state := s.svc.ListFonts(ctx)
	out, _ := json.MarshalIndent(map[string]any{
		"fonts": fonts,
		"state": state.String(),
	}, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "catime://fonts",
			MIMEType: "application/json",
			Text:     string(out),
		},
	}, nil
}
