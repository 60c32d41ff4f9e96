package content

import "pagecraft/internal/domain"

// deepCopyValue copies the JSON-shaped value types settings maps hold.
func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		return v
	}
}

func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

// ensureObject coerces a widget settings group to a non-nil map. The
// wire format distinguishes {} from [], so empty arrays collapse here.
func ensureObject(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

func cloneWidget(w *domain.Widget) *domain.Widget {
	if w == nil {
		return nil
	}
	return &domain.Widget{
		ID:        w.ID,
		Type:      w.Type,
		General:   deepCopyMap(ensureObject(w.General)),
		Style:     deepCopyMap(ensureObject(w.Style)),
		Advanced:  deepCopyMap(ensureObject(w.Advanced)),
		IsVisible: w.IsVisible,
		IsEnabled: w.IsEnabled,
		Version:   w.Version,
	}
}

func cloneColumn(c *domain.Column) *domain.Column {
	out := &domain.Column{
		ID:       c.ID,
		Width:    c.Width,
		Settings: deepCopyMap(c.Settings),
		Widgets:  make([]*domain.Widget, len(c.Widgets)),
	}
	for i, w := range c.Widgets {
		out.Widgets[i] = cloneWidget(w)
	}
	return out
}

func cloneSection(s *domain.Section) *domain.Section {
	out := &domain.Section{
		ID:       s.ID,
		Type:     s.Type,
		Settings: deepCopyMap(s.Settings),
		Columns:  make([]*domain.Column, len(s.Columns)),
	}
	if s.Responsive != nil {
		out.Responsive = &domain.ResponsiveSettings{
			Tablet: deepCopyMap(s.Responsive.Tablet),
			Mobile: deepCopyMap(s.Responsive.Mobile),
		}
	}
	for i, c := range s.Columns {
		out.Columns[i] = cloneColumn(c)
	}
	return out
}

func cloneContent(pc *domain.PageContent) *domain.PageContent {
	if pc == nil {
		return &domain.PageContent{}
	}
	out := &domain.PageContent{Sections: make([]*domain.Section, len(pc.Sections))}
	for i, s := range pc.Sections {
		out.Sections[i] = cloneSection(s)
	}
	return out
}

func cloneSnapshot(w *domain.Widget) *domain.WidgetSnapshot {
	return &domain.WidgetSnapshot{
		General:  deepCopyMap(ensureObject(w.General)),
		Style:    deepCopyMap(ensureObject(w.Style)),
		Advanced: deepCopyMap(ensureObject(w.Advanced)),
	}
}
