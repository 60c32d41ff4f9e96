package schema

import (
	"fmt"

	"pagecraft/internal/domain"
	"pagecraft/internal/fields"
)

// GroupRender is one settings group prepared for the panel: the field
// renders in declaration order, stored values layered over schema
// defaults.
type GroupRender struct {
	Group  string           `json:"group"`
	Fields []*fields.Render `json:"fields"`
}

// MergeValues produces the populated settings panel for a widget: for
// each of the three groups, every declared field rendered with the
// stored value when present and the schema default otherwise. Stored
// keys the schema no longer declares are ignored, so removing a field
// from a widget's schema degrades cleanly for existing pages.
func (c *Catalog) MergeValues(w *domain.Widget) ([]GroupRender, error) {
	ws, ok := c.Lookup(w.Type)
	if !ok {
		return nil, fmt.Errorf("widget type %q not registered", w.Type)
	}
	return []GroupRender{
		{Group: "general", Fields: c.renderGroup(ws.General, w.General)},
		{Group: "style", Fields: c.renderGroup(ws.Style, w.Style)},
		{Group: "advanced", Fields: c.renderGroup(ws.Advanced, w.Advanced)},
	}, nil
}

func (c *Catalog) renderGroup(defs []domain.FieldDefinition, values map[string]any) []*fields.Render {
	out := make([]*fields.Render, 0, len(defs))
	for _, def := range defs {
		var v any
		if values != nil {
			v = values[def.Name]
		}
		if r := c.registry.Render(def, v); r != nil {
			out = append(out, r)
		}
	}
	return out
}

// MergedSettings returns one group's effective values: schema defaults
// with the stored values layered on top. The CSS generator consumes
// this so unset style fields still contribute their defaults.
func (c *Catalog) MergedSettings(widgetType, group string, values map[string]any) map[string]any {
	ws, ok := c.Lookup(widgetType)
	if !ok {
		return values
	}
	out := defaultsFor(groupFields(ws, group))
	for k, v := range values {
		if v != nil {
			out[k] = v
		}
	}
	return out
}
