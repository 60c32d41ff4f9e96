package content

import "pagecraft/internal/domain"

// Extract produces the wire payload for a full save: the layout-only
// section structure (widget stubs) plus a flat map of full widget
// records with sort order computed from array position. Layout and
// widget settings are persisted to different stores, hence the split.
func (s *Store) Extract(pageID string, version int64, published bool) *domain.SavePayload {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload := &domain.SavePayload{
		PageID:      pageID,
		Content:     make([]domain.LayoutSection, 0, len(s.content.Sections)),
		Widgets:     map[string]*domain.Widget{},
		SortOrder:   map[string]int{},
		IsPublished: published,
		Version:     version,
	}

	for _, sec := range s.content.Sections {
		ls := domain.LayoutSection{
			ID:       sec.ID,
			Type:     sec.Type,
			Settings: deepCopyMap(sec.Settings),
			Columns:  make([]domain.LayoutColumn, 0, len(sec.Columns)),
		}
		if sec.Responsive != nil {
			ls.Responsive = &domain.ResponsiveSettings{
				Tablet: deepCopyMap(sec.Responsive.Tablet),
				Mobile: deepCopyMap(sec.Responsive.Mobile),
			}
		}
		for _, col := range sec.Columns {
			lc := domain.LayoutColumn{
				ID:       col.ID,
				Width:    col.Width,
				Settings: deepCopyMap(col.Settings),
				Widgets:  make([]domain.WidgetStub, 0, len(col.Widgets)),
			}
			for i, w := range col.Widgets {
				lc.Widgets = append(lc.Widgets, domain.WidgetStub{ID: w.ID, Type: w.Type})
				payload.Widgets[w.ID] = cloneWidget(w)
				payload.SortOrder[w.ID] = i
			}
			ls.Columns = append(ls.Columns, lc)
		}
		payload.Content = append(payload.Content, ls)
	}
	return payload
}
