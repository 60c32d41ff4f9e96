package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPageTools() {
	// ── list_pages ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List all pages with their id, title, publish state and version"),
	), s.handleListPages)

	// ── create_page ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_page",
		mcp.WithDescription("Create a new empty page"),
		mcp.WithString("title", mcp.Description("Page title"), mcp.Required()),
	), s.handleCreatePage)

	// ── open_page ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("open_page",
		mcp.WithDescription("Open a page for editing. All structure and widget tools operate on the open page."),
		mcp.WithString("pageId", mcp.Description("Page ID"), mcp.Required()),
	), s.handleOpenPage)

	// ── get_page_tree ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_page_tree",
		mcp.WithDescription("Get the full section/column/widget tree of the open page as JSON"),
	), s.handleGetPageTree)

	// ── save_page ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("save_page",
		mcp.WithDescription("Persist the open page immediately instead of waiting for auto-save"),
	), s.handleSavePage)

	// ── get_page_css ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_page_css",
		mcp.WithDescription("Get the generated stylesheet for the open page"),
	), s.handleGetPageCSS)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleListPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pages, err := s.editor.ListPages()
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	return jsonResult(pages)
}

func (s *Server) handleCreatePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := requireString(req.GetArguments(), "title")
	if err != nil {
		return nil, err
	}
	page, err := s.editor.CreatePage(title)
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	return jsonResult(page)
}

func (s *Server) handleOpenPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := requireString(req.GetArguments(), "pageId")
	if err != nil {
		return nil, err
	}
	if _, err := s.editor.LoadPage(pageID); err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	return textResult(fmt.Sprintf("Opened page %s", pageID)), nil
}

func (s *Server) handleGetPageTree(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pc := s.editor.Store().Content()
	if pc == nil {
		return nil, fmt.Errorf("no page open (use open_page first)")
	}
	return jsonResult(pc)
}

func (s *Server) handleSavePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.editor.SaveNow()
	return textResult("Save requested"), nil
}

func (s *Server) handleGetPageCSS(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textResult(s.editor.PageCSS()), nil
}
