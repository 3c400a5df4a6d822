package mcpserver

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/vladelaina/Catime/internal/fontcache"
	"github.com/vladelaina/Catime/internal/fontservice"
	"github.com/vladelaina/Catime/internal/menu"
	"github.com/vladelaina/Catime/internal/settings"
	"github.com/vladelaina/Catime/internal/testutil"
)

func testServer(t *testing.T) (*Server, string) {
	t.Helper()
	logger := testutil.Logger()
	fontsRoot, fs := testutil.FontsRoot(t)

	st, err := settings.New(filepath.Join(t.TempDir(), "state.json"), logger)
	if err != nil {
		t.Fatal(err)
	}
	cache := fontcache.New(fs, logger, fontcache.Options{})
	svc := fontservice.NewService(cache, st, "", logger, fontservice.Options{})

	return New(svc), fontsRoot
}

func writeFont(t *testing.T, root, rel string) {
	t.Helper()
	testutil.WriteFont(t, root, rel)
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so we call
	// the handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_fonts":
		result, err = srv.listFonts(ctx, req)
	case "get_font_menu":
		result, err = srv.getFontMenu(ctx, req)
	case "select_font":
		result, err = srv.selectFont(ctx, req)
	case "resolve_font_path":
		result, err = srv.resolveFontPath(ctx, req)
	case "set_current_font":
		result, err = srv.setCurrentFont(ctx, req)
	case "refresh_fonts":
		result, err = srv.refreshFonts(ctx, req)
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

func TestGetFontMenuAndSelect(t *testing.T) {
	srv, root := testServer(t)
	writeFont(t, root, "a.ttf")
	writeFont(t, root, "b.ttf")

	r := callTool(t, srv, "get_font_menu", map[string]interface{}{})
	if r.IsError {
		t.Fatalf("get_font_menu failed: %s", resultText(r))
	}
	text := resultText(r)
	if !strings.Contains(text, `"name": "a"`) || !strings.Contains(text, `"name": "b"`) {
		t.Errorf("menu missing entries: %s", text)
	}

	r = callTool(t, srv, "select_font", map[string]interface{}{"id": float64(menu.BaseID + 1)})
	if r.IsError {
		t.Fatalf("select_font failed: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), "b.ttf") {
		t.Errorf("select result = %q", resultText(r))
	}
}

func TestListFonts(t *testing.T) {
	srv, root := testServer(t)
	writeFont(t, root, "nerd/Hack.ttf")

	// Menu build populates the cache.
	callTool(t, srv, "get_font_menu", map[string]interface{}{})

	r := callTool(t, srv, "list_fonts", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "nerd/Hack.ttf") {
		t.Errorf("list missing font: %s", text)
	}
	if !strings.Contains(text, `"state": "fresh"`) {
		t.Errorf("list missing state: %s", text)
	}
}

func TestResolveFontPath(t *testing.T) {
	srv, root := testServer(t)
	writeFont(t, root, "a.ttf")
	callTool(t, srv, "get_font_menu", map[string]interface{}{})

	r := callTool(t, srv, "resolve_font_path", map[string]interface{}{"id": float64(menu.BaseID)})
	if r.IsError {
		t.Fatalf("resolve failed: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), "a.ttf") {
		t.Errorf("resolved path = %q", resultText(r))
	}

	r = callTool(t, srv, "resolve_font_path", map[string]interface{}{"id": float64(menu.BaseID + 50)})
	if !r.IsError {
		t.Error("stale id should resolve to an error")
	}
}

func TestSetCurrentFont(t *testing.T) {
	srv, root := testServer(t)
	writeFont(t, root, "nerd/Hack.ttf")
	callTool(t, srv, "get_font_menu", map[string]interface{}{})

	r := callTool(t, srv, "set_current_font", map[string]interface{}{"path": "Hack.ttf"})
	if r.IsError {
		t.Fatalf("set_current_font failed: %s", resultText(r))
	}

	r = callTool(t, srv, "get_font_menu", map[string]interface{}{})
	if !strings.Contains(resultText(r), `"checked": true`) {
		t.Error("menu should check the selected font")
	}
}

func TestSelectFont_MissingID(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "select_font", map[string]interface{}{})
	if !r.IsError {
		t.Error("select without id should fail")
	}
}

func TestRefreshFonts(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "refresh_fonts", map[string]interface{}{})
	if r.IsError {
		t.Fatalf("refresh failed: %s", resultText(r))
	}
	if resultText(r) != "rescan queued" {
		t.Errorf("refresh result = %q", resultText(r))
	}
}
