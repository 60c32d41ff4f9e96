package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerStructureTools() {
	// ── add_section ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_section",
		mcp.WithDescription("Add an empty one-column section to the open page. Appends unless index is given."),
		mcp.WithNumber("index", mcp.Description("Insertion index (optional, appends if omitted)")),
	), s.handleAddSection)

	// ── remove_section (destructive) ───────────────────
	s.mcp.AddTool(mcp.NewTool("remove_section",
		mcp.WithDescription("🛑 DESTRUCTIVE: Remove a section and all widgets inside it"),
		mcp.WithString("sectionId", mcp.Description("Section ID"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleRemoveSection)

	// ── reorder_sections ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("reorder_sections",
		mcp.WithDescription("Move the section at oldIndex to newIndex"),
		mcp.WithNumber("oldIndex", mcp.Description("Current index"), mcp.Required()),
		mcp.WithNumber("newIndex", mcp.Description("Target index"), mcp.Required()),
	), s.handleReorderSections)

	// ── add_column ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_column",
		mcp.WithDescription("Add a column to a section. Existing columns are rebalanced to equal widths."),
		mcp.WithString("sectionId", mcp.Description("Section ID"), mcp.Required()),
	), s.handleAddColumn)

	// ── set_column_width ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_column_width",
		mcp.WithDescription("Set an explicit width on a column, e.g. \"33.33%\""),
		mcp.WithString("columnId", mcp.Description("Column ID"), mcp.Required()),
		mcp.WithString("width", mcp.Description("CSS width value"), mcp.Required()),
	), s.handleSetColumnWidth)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleAddSection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	store := s.editor.Store()
	index := getInt(args, "index", -1)
	sec := store.AddSection(nil)
	if index >= 0 {
		store.ReorderSections(store.SectionIndex(sec.ID), index)
	}
	s.emitContentChanged(ctx, "add-section")
	return jsonResult(sec)
}

func (s *Server) handleRemoveSection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sectionID, err := requireString(req.GetArguments(), "sectionId")
	if err != nil {
		return nil, err
	}
	if !s.editor.Store().RemoveSection(sectionID) {
		return nil, fmt.Errorf("section not found: %s", sectionID)
	}
	s.emitContentChanged(ctx, "remove-section")
	return textResult(fmt.Sprintf("Removed section %s", sectionID)), nil
}

func (s *Server) handleReorderSections(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	oldIndex := getInt(args, "oldIndex", -1)
	newIndex := getInt(args, "newIndex", -1)
	if !s.editor.Store().ReorderSections(oldIndex, newIndex) {
		return nil, fmt.Errorf("invalid move %d -> %d", oldIndex, newIndex)
	}
	s.emitContentChanged(ctx, "reorder-sections")
	return textResult(fmt.Sprintf("Moved section %d -> %d", oldIndex, newIndex)), nil
}

func (s *Server) handleAddColumn(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sectionID, err := requireString(req.GetArguments(), "sectionId")
	if err != nil {
		return nil, err
	}
	col := s.editor.Store().AddColumn(sectionID)
	if col == nil {
		return nil, fmt.Errorf("section not found: %s", sectionID)
	}
	s.emitContentChanged(ctx, "add-column")
	return jsonResult(col)
}

func (s *Server) handleSetColumnWidth(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	columnID, err := requireString(args, "columnId")
	if err != nil {
		return nil, err
	}
	width, err := requireString(args, "width")
	if err != nil {
		return nil, err
	}
	if !s.editor.Store().SetColumnWidth(columnID, width) {
		return nil, fmt.Errorf("column not found: %s", columnID)
	}
	return textResult(fmt.Sprintf("Column %s width set to %s", columnID, width)), nil
}
