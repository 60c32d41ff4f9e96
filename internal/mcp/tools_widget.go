package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"pagecraft/internal/domain"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerWidgetTools() {
	// ── list_widget_types ──────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_widget_types",
		mcp.WithDescription("List all registered widget types available for add_widget"),
	), s.handleListWidgetTypes)

	// ── add_widget ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_widget",
		mcp.WithDescription("Add a widget of the given type to a column on the open page"),
		mcp.WithString("type",
			mcp.Description("Widget type: heading, text, image, button, divider, spacer, video, icon, list, quote, embed, or a custom type"),
			mcp.Required(),
		),
		mcp.WithString("columnId", mcp.Description("Target column ID"), mcp.Required()),
		mcp.WithString("sectionId", mcp.Description("Section containing the column"), mcp.Required()),
	), s.handleAddWidget)

	// ── move_widget ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_widget",
		mcp.WithDescription("Move a widget to another column at the given index"),
		mcp.WithString("widgetId", mcp.Description("Widget ID"), mcp.Required()),
		mcp.WithString("fromColumnId", mcp.Description("Current column ID"), mcp.Required()),
		mcp.WithString("toColumnId", mcp.Description("Target column ID"), mcp.Required()),
		mcp.WithNumber("index", mcp.Description("Insertion index in the target column"), mcp.Required()),
	), s.handleMoveWidget)

	// ── reorder_widgets ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("reorder_widgets",
		mcp.WithDescription("Move a widget within its column from oldIndex to newIndex"),
		mcp.WithString("columnId", mcp.Description("Column ID"), mcp.Required()),
		mcp.WithNumber("oldIndex", mcp.Description("Current index"), mcp.Required()),
		mcp.WithNumber("newIndex", mcp.Description("Target index"), mcp.Required()),
	), s.handleReorderWidgets)

	// ── remove_widget (destructive) ────────────────────
	s.mcp.AddTool(mcp.NewTool("remove_widget",
		mcp.WithDescription("🛑 DESTRUCTIVE: Remove a widget from the open page"),
		mcp.WithString("widgetId", mcp.Description("Widget ID"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleRemoveWidget)

	// ── update_widget_settings ─────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_widget_settings",
		mcp.WithDescription("Update one settings group of a widget. Values are validated and sanitized against the widget schema; undeclared keys are dropped."),
		mcp.WithString("widgetId", mcp.Description("Widget ID"), mcp.Required()),
		mcp.WithString("group", mcp.Description("Settings group: general, style or advanced"), mcp.Required()),
		mcp.WithString("settings", mcp.Description("JSON object of field values"), mcp.Required()),
	), s.handleUpdateWidgetSettings)

	// ── get_widget_fields ──────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_widget_fields",
		mcp.WithDescription("Get the rendered field groups of a widget with current values and defaults"),
		mcp.WithString("widgetId", mcp.Description("Widget ID"), mcp.Required()),
	), s.handleGetWidgetFields)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleListWidgetTypes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var lines []string
	for _, t := range s.catalog.Types() {
		lines = append(lines, fmt.Sprintf("%s - %s", t, s.catalog.WidgetLabel(t)))
	}
	return textResult(strings.Join(lines, "\n")), nil
}

func (s *Server) handleAddWidget(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	widgetType, err := requireString(args, "type")
	if err != nil {
		return nil, err
	}
	columnID, err := requireString(args, "columnId")
	if err != nil {
		return nil, err
	}
	sectionID, err := requireString(args, "sectionId")
	if err != nil {
		return nil, err
	}

	w, err := s.editor.AddWidget(widgetType, columnID, sectionID)
	if err != nil {
		return nil, fmt.Errorf("add widget: %w", err)
	}
	s.emitContentChanged(ctx, "add-widget")
	return jsonResult(w)
}

func (s *Server) handleMoveWidget(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	widgetID, err := requireString(args, "widgetId")
	if err != nil {
		return nil, err
	}
	fromColumnID, err := requireString(args, "fromColumnId")
	if err != nil {
		return nil, err
	}
	toColumnID, err := requireString(args, "toColumnId")
	if err != nil {
		return nil, err
	}
	index := getInt(args, "index", 0)

	if !s.editor.Store().MoveWidget(widgetID, fromColumnID, toColumnID, index) {
		return nil, fmt.Errorf("cannot move widget %s", widgetID)
	}
	s.emitContentChanged(ctx, "move-widget")
	return textResult(fmt.Sprintf("Moved widget %s to column %s", widgetID, toColumnID)), nil
}

func (s *Server) handleReorderWidgets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	columnID, err := requireString(args, "columnId")
	if err != nil {
		return nil, err
	}
	oldIndex := getInt(args, "oldIndex", -1)
	newIndex := getInt(args, "newIndex", -1)

	if !s.editor.Store().ReorderWidgets(columnID, oldIndex, newIndex) {
		return nil, fmt.Errorf("invalid move %d -> %d in column %s", oldIndex, newIndex, columnID)
	}
	s.emitContentChanged(ctx, "reorder-widgets")
	return textResult(fmt.Sprintf("Moved widget %d -> %d", oldIndex, newIndex)), nil
}

func (s *Server) handleRemoveWidget(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	widgetID, err := requireString(req.GetArguments(), "widgetId")
	if err != nil {
		return nil, err
	}
	if !s.editor.Store().RemoveWidget(widgetID) {
		return nil, fmt.Errorf("widget not found: %s", widgetID)
	}
	s.emitContentChanged(ctx, "remove-widget")
	return textResult(fmt.Sprintf("Removed widget %s", widgetID)), nil
}

func (s *Server) handleUpdateWidgetSettings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	widgetID, err := requireString(args, "widgetId")
	if err != nil {
		return nil, err
	}
	group, err := requireString(args, "group")
	if err != nil {
		return nil, err
	}
	raw, err := requireString(args, "settings")
	if err != nil {
		return nil, err
	}

	var values map[string]any
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("settings must be a JSON object: %w", err)
	}

	if problems := s.editor.ValidateWidgetSettings(widgetID, group, values); len(problems) > 0 {
		return nil, fmt.Errorf("invalid settings: %s", strings.Join(problems, "; "))
	}

	var updates domain.WidgetUpdates
	switch group {
	case "general":
		updates.General = values
	case "style":
		updates.Style = values
	case "advanced":
		updates.Advanced = values
	default:
		return nil, fmt.Errorf("unknown group: %s", group)
	}

	if err := s.editor.UpdateWidgetSettings(widgetID, updates); err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	s.emitContentChanged(ctx, "update-widget-settings")
	return textResult(fmt.Sprintf("Updated %s settings of widget %s", group, widgetID)), nil
}

func (s *Server) handleGetWidgetFields(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	widgetID, err := requireString(req.GetArguments(), "widgetId")
	if err != nil {
		return nil, err
	}
	groups, err := s.editor.GetWidgetFields(widgetID)
	if err != nil {
		return nil, fmt.Errorf("get widget fields: %w", err)
	}
	return jsonResult(groups)
}
