package content

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"pagecraft/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Content store — the one mutator of the page tree
// ─────────────────────────────────────────────────────────────

// SaveScheduler receives a signal after every structural mutation so the
// auto-save coordinator can decide when to persist. Settings-only edits
// never reach it.
type SaveScheduler interface {
	StructuralChange(reason string)
}

type noopScheduler struct{}

func (noopScheduler) StructuralChange(string) {}

// Store holds the normalized page content tree and is the only place
// structural mutations happen. The drag interpreter and the outline
// projector call into it; they never touch the tree directly, which
// keeps dirty tracking and persistence triggering centralized.
//
// Every operation is atomic: it fully applies or leaves the tree
// untouched (unresolvable ids degrade to a logged no-op).
type Store struct {
	mu        sync.Mutex
	content   *domain.PageContent
	original  *domain.PageContent
	dirty     bool
	selected  *domain.Widget
	snapshots map[string]*domain.WidgetSnapshot
	scheduler SaveScheduler
}

// NewStore creates an empty store. scheduler may be nil.
func NewStore(scheduler SaveScheduler) *Store {
	if scheduler == nil {
		scheduler = noopScheduler{}
	}
	return &Store{
		content:   &domain.PageContent{},
		original:  &domain.PageContent{},
		snapshots: make(map[string]*domain.WidgetSnapshot),
		scheduler: scheduler,
	}
}

// SetContent replaces the tree with freshly loaded content. The loaded
// state becomes the clean snapshot: not dirty, no selection, no widget
// snapshots.
func (s *Store) SetContent(pc *domain.PageContent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pc == nil {
		pc = &domain.PageContent{}
	}
	for _, sec := range pc.Sections {
		normalizeSection(sec)
	}
	s.content = pc
	s.original = cloneContent(pc)
	s.dirty = false
	s.selected = nil
	s.snapshots = make(map[string]*domain.WidgetSnapshot)
}

// Content returns the live tree. Callers must treat it as read-only;
// all mutation goes through Store operations.
func (s *Store) Content() *domain.PageContent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content
}

// IsDirty reports whether the serialized tree differs from the last
// loaded or saved snapshot.
func (s *Store) IsDirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// MarkSaved records the current tree as the clean snapshot after a
// successful full save.
func (s *Store) MarkSaved() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.original = cloneContent(s.content)
	s.dirty = false
}

// ResetChanges discards everything since the last clean snapshot.
func (s *Store) ResetChanges() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content = cloneContent(s.original)
	s.dirty = false
	s.selected = nil
	s.snapshots = make(map[string]*domain.WidgetSnapshot)
}

// ── section operations ─────────────────────────────────────

// AddSection appends a section, filling in an id, type and a single
// full-width column where the caller left them empty.
func (s *Store) AddSection(partial *domain.Section) *domain.Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	sec := s.prepareSection(partial)
	s.content.Sections = append(s.content.Sections, sec)
	s.afterStructural("add section")
	return sec
}

// InsertSectionAt splices a section in at index (clamped to the valid
// range).
func (s *Store) InsertSectionAt(index int, partial *domain.Section) *domain.Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	sec := s.prepareSection(partial)
	if index < 0 {
		index = 0
	}
	if index > len(s.content.Sections) {
		index = len(s.content.Sections)
	}
	s.content.Sections = append(s.content.Sections, nil)
	copy(s.content.Sections[index+1:], s.content.Sections[index:])
	s.content.Sections[index] = sec
	s.afterStructural("insert section")
	return sec
}

// RemoveSection deletes the section and its whole subtree. The selected
// widget is cleared if it lived inside it.
func (s *Store) RemoveSection(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.sectionIndex(id)
	if idx < 0 {
		log.Printf("content: remove section %s: not found", id)
		return false
	}
	sec := s.content.Sections[idx]
	if s.selected != nil && sectionContainsWidget(sec, s.selected.ID) {
		s.selected = nil
	}
	s.content.Sections = append(s.content.Sections[:idx], s.content.Sections[idx+1:]...)
	s.afterStructural("remove section")
	return true
}

// ReorderSections performs a stable remove-then-insert move. Equal or
// out-of-range indices are a no-op.
func (s *Store) ReorderSections(oldIndex, newIndex int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.content.Sections)
	if oldIndex == newIndex || oldIndex < 0 || oldIndex >= n || newIndex < 0 || newIndex >= n {
		return false
	}
	sec := s.content.Sections[oldIndex]
	rest := append(s.content.Sections[:oldIndex:oldIndex], s.content.Sections[oldIndex+1:]...)
	rest = append(rest, nil)
	copy(rest[newIndex+1:], rest[newIndex:])
	rest[newIndex] = sec
	s.content.Sections = rest
	s.afterStructural("reorder sections")
	return true
}

// SectionIndex returns the position of a section, or -1.
func (s *Store) SectionIndex(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sectionIndex(id)
}

// UpdateSectionSettings merges settings into the section. breakpoint ""
// or "desktop" targets the base settings, "tablet"/"mobile" the
// responsive overrides. Marks dirty without scheduling a save; section
// settings follow the explicit-save flow like widget settings.
func (s *Store) UpdateSectionSettings(id, breakpoint string, settings map[string]any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.sectionIndex(id)
	if idx < 0 {
		log.Printf("content: update section %s: not found", id)
		return false
	}
	sec := s.content.Sections[idx]
	switch breakpoint {
	case "", "desktop":
		sec.Settings = mergeInto(sec.Settings, settings)
	case "tablet", "mobile":
		if sec.Responsive == nil {
			sec.Responsive = &domain.ResponsiveSettings{}
		}
		if breakpoint == "tablet" {
			sec.Responsive.Tablet = mergeInto(sec.Responsive.Tablet, settings)
		} else {
			sec.Responsive.Mobile = mergeInto(sec.Responsive.Mobile, settings)
		}
	default:
		log.Printf("content: update section %s: unknown breakpoint %q", id, breakpoint)
		return false
	}
	s.recomputeDirty()
	return true
}

// ── column operations ──────────────────────────────────────

// AddColumn appends an empty column to the section and rebalances all
// column widths to equal shares.
func (s *Store) AddColumn(sectionID string) *domain.Column {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.sectionIndex(sectionID)
	if idx < 0 {
		log.Printf("content: add column to %s: section not found", sectionID)
		return nil
	}
	sec := s.content.Sections[idx]
	col := &domain.Column{ID: newID(), Widgets: []*domain.Widget{}, Settings: map[string]any{}}
	sec.Columns = append(sec.Columns, col)
	rebalanceColumns(sec)
	s.afterStructural("add column")
	return col
}

// RemoveColumn deletes a column and its widgets, then rebalances. The
// last column of a section cannot be removed; remove the section instead.
func (s *Store) RemoveColumn(sectionID, columnID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.sectionIndex(sectionID)
	if idx < 0 {
		log.Printf("content: remove column %s: section %s not found", columnID, sectionID)
		return false
	}
	sec := s.content.Sections[idx]
	if len(sec.Columns) <= 1 {
		log.Printf("content: remove column %s: section %s has a single column", columnID, sectionID)
		return false
	}
	for i, col := range sec.Columns {
		if col.ID != columnID {
			continue
		}
		if s.selected != nil && columnContainsWidget(col, s.selected.ID) {
			s.selected = nil
		}
		sec.Columns = append(sec.Columns[:i], sec.Columns[i+1:]...)
		rebalanceColumns(sec)
		s.afterStructural("remove column")
		return true
	}
	log.Printf("content: remove column %s: not found in section %s", columnID, sectionID)
	return false
}

// SetColumnWidth sets an explicit width (a CSS length string). Explicit
// widths survive widget operations; only column add/remove rebalances.
func (s *Store) SetColumnWidth(columnID, width string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, col := s.findColumn(columnID)
	if col == nil {
		log.Printf("content: set width of column %s: not found", columnID)
		return false
	}
	col.Width = width
	s.recomputeDirty()
	return true
}

// UpdateColumnSettings merges settings into the column.
func (s *Store) UpdateColumnSettings(columnID string, settings map[string]any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, col := s.findColumn(columnID)
	if col == nil {
		log.Printf("content: update column %s: not found", columnID)
		return false
	}
	col.Settings = mergeInto(col.Settings, settings)
	s.recomputeDirty()
	return true
}

// ── widget operations ──────────────────────────────────────

// AddWidget constructs a widget from the template and appends it to the
// column. sectionID narrows the lookup when set; "" searches the whole
// tree.
func (s *Store) AddWidget(t *domain.WidgetTemplate, columnID, sectionID string) *domain.Widget {
	return s.AddWidgetAt(t, columnID, sectionID, -1)
}

// AddWidgetAt inserts the new widget at index within the column; a
// negative index appends.
func (s *Store) AddWidgetAt(t *domain.WidgetTemplate, columnID, sectionID string, index int) *domain.Widget {
	s.mu.Lock()
	defer s.mu.Unlock()
	col := s.resolveColumn(columnID, sectionID)
	if col == nil {
		log.Printf("content: add widget %s: column %s not found", t.Type, columnID)
		return nil
	}
	w := newWidgetFromTemplate(t)
	insertWidget(col, w, index)
	s.afterStructural("add widget")
	return w
}

// InsertWrappedSection synthesizes a new section with a single column
// holding a widget built from the template and splices it in at index
// (negative appends). This is the auto-wrap affordance: dropping a
// widget on the canvas never requires creating a section first.
func (s *Store) InsertWrappedSection(t *domain.WidgetTemplate, index int) (*domain.Section, *domain.Widget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := newWidgetFromTemplate(t)
	sec := &domain.Section{
		ID:       newID(),
		Type:     "section",
		Settings: defaultSectionSettings(),
		Columns: []*domain.Column{{
			ID:       newID(),
			Width:    "100%",
			Widgets:  []*domain.Widget{w},
			Settings: map[string]any{},
		}},
	}
	if index < 0 || index > len(s.content.Sections) {
		index = len(s.content.Sections)
	}
	s.content.Sections = append(s.content.Sections, nil)
	copy(s.content.Sections[index+1:], s.content.Sections[index:])
	s.content.Sections[index] = sec
	s.afterStructural("wrap widget in section")
	return sec, w
}

// UpdateWidget shallow-merges updates into the widget wherever it is in
// the tree. The selected widget is the same object, so an open settings
// panel reflects new values immediately. Marks dirty but does not
// schedule a save: settings changes persist only on explicit save.
func (s *Store) UpdateWidget(id string, updates domain.WidgetUpdates) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _, w := s.findWidget(id)
	if w == nil {
		log.Printf("content: update widget %s: not found", id)
		return false
	}
	w.General = mergeInto(w.General, updates.General)
	w.Style = mergeInto(w.Style, updates.Style)
	w.Advanced = mergeInto(w.Advanced, updates.Advanced)
	if updates.IsVisible != nil {
		w.IsVisible = *updates.IsVisible
	}
	if updates.IsEnabled != nil {
		w.IsEnabled = *updates.IsEnabled
	}
	s.recomputeDirty()
	return true
}

// RemoveWidget filters the widget out of whichever column holds it.
func (s *Store) RemoveWidget(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, col, w := s.findWidget(id)
	if w == nil {
		log.Printf("content: remove widget %s: not found", id)
		return false
	}
	for i, cw := range col.Widgets {
		if cw.ID == id {
			col.Widgets = append(col.Widgets[:i], col.Widgets[i+1:]...)
			break
		}
	}
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
	}
	delete(s.snapshots, id)
	s.afterStructural("remove widget")
	return true
}

// ReorderWidgets moves a widget within its column by splice. Equal or
// out-of-range indices are a no-op.
func (s *Store) ReorderWidgets(columnID string, oldIndex, newIndex int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, col := s.findColumn(columnID)
	if col == nil {
		log.Printf("content: reorder in column %s: not found", columnID)
		return false
	}
	n := len(col.Widgets)
	if oldIndex == newIndex || oldIndex < 0 || oldIndex >= n || newIndex < 0 || newIndex >= n {
		return false
	}
	w := col.Widgets[oldIndex]
	rest := append(col.Widgets[:oldIndex:oldIndex], col.Widgets[oldIndex+1:]...)
	rest = append(rest, nil)
	copy(rest[newIndex+1:], rest[newIndex:])
	rest[newIndex] = w
	col.Widgets = rest
	s.afterStructural("reorder widgets")
	return true
}

// MoveWidget transfers ownership of a widget from one column to another
// atomically: the same object is removed from the source and inserted
// into the destination at insertIndex (clamped; negative appends). If
// the widget is not in the source column the whole operation is a
// logged no-op.
func (s *Store) MoveWidget(widgetID, fromColumnID, toColumnID string, insertIndex int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, from := s.findColumn(fromColumnID)
	_, to := s.findColumn(toColumnID)
	if from == nil || to == nil {
		log.Printf("content: move widget %s: column unresolvable (%s → %s)", widgetID, fromColumnID, toColumnID)
		return false
	}
	var w *domain.Widget
	for i, cw := range from.Widgets {
		if cw.ID == widgetID {
			w = cw
			from.Widgets = append(from.Widgets[:i], from.Widgets[i+1:]...)
			break
		}
	}
	if w == nil {
		log.Printf("content: move widget %s: not found in column %s", widgetID, fromColumnID)
		return false
	}
	insertWidget(to, w, insertIndex)
	s.afterStructural("move widget")
	return true
}

// ── selection and snapshots ────────────────────────────────

// SelectWidget marks the widget as being edited, taking a settings
// snapshot the first time it is selected so changes can be discarded.
func (s *Store) SelectWidget(id string) *domain.Widget {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _, w := s.findWidget(id)
	if w == nil {
		log.Printf("content: select widget %s: not found", id)
		return nil
	}
	s.selected = w
	if _, ok := s.snapshots[id]; !ok {
		s.snapshots[id] = cloneSnapshot(w)
	}
	return w
}

// SelectedWidget returns the widget currently open in the settings
// panel, or nil.
func (s *Store) SelectedWidget() *domain.Widget {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// ClearSelection closes the editing session of the selected widget,
// dropping its snapshot.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected != nil {
		delete(s.snapshots, s.selected.ID)
	}
	s.selected = nil
}

// RevertWidget restores the widget's settings from the snapshot taken
// at edit start, deep-copied to avoid aliasing.
func (s *Store) RevertWidget(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snapshots[id]
	if !ok {
		log.Printf("content: revert widget %s: no snapshot", id)
		return false
	}
	_, _, w := s.findWidget(id)
	if w == nil {
		log.Printf("content: revert widget %s: not found", id)
		return false
	}
	w.General = deepCopyMap(snap.General)
	w.Style = deepCopyMap(snap.Style)
	w.Advanced = deepCopyMap(snap.Advanced)
	s.recomputeDirty()
	return true
}

// ClearSnapshot drops a widget's snapshot after an explicit save.
func (s *Store) ClearSnapshot(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, id)
}

// ── lookups (exported for the interpreter and projector) ───

// FindWidget returns the section and column owning the widget, or nils.
func (s *Store) FindWidget(id string) (*domain.Section, *domain.Column, *domain.Widget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findWidget(id)
}

// FindColumn returns the owning section and the column, or nils.
func (s *Store) FindColumn(id string) (*domain.Section, *domain.Column) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findColumn(id)
}

// WidgetIndex returns the widget's position in its column, or -1.
func (s *Store) WidgetIndex(columnID, widgetID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, col := s.findColumn(columnID)
	if col == nil {
		return -1
	}
	for i, w := range col.Widgets {
		if w.ID == widgetID {
			return i
		}
	}
	return -1
}

// ── internals ──────────────────────────────────────────────

func (s *Store) prepareSection(partial *domain.Section) *domain.Section {
	sec := partial
	if sec == nil {
		sec = &domain.Section{}
	}
	if sec.ID == "" {
		sec.ID = newID()
	}
	sec.Type = "section"
	sec.Settings = mergeInto(defaultSectionSettings(), sec.Settings)
	if len(sec.Columns) == 0 {
		sec.Columns = []*domain.Column{{
			ID:       newID(),
			Width:    "100%",
			Widgets:  []*domain.Widget{},
			Settings: map[string]any{},
		}}
	}
	normalizeSection(sec)
	return sec
}

func (s *Store) sectionIndex(id string) int {
	for i, sec := range s.content.Sections {
		if sec.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) findColumn(id string) (*domain.Section, *domain.Column) {
	for _, sec := range s.content.Sections {
		for _, col := range sec.Columns {
			if col.ID == id {
				return sec, col
			}
		}
	}
	return nil, nil
}

func (s *Store) resolveColumn(columnID, sectionID string) *domain.Column {
	if sectionID != "" {
		idx := s.sectionIndex(sectionID)
		if idx < 0 {
			return nil
		}
		for _, col := range s.content.Sections[idx].Columns {
			if col.ID == columnID {
				return col
			}
		}
		return nil
	}
	_, col := s.findColumn(columnID)
	return col
}

func (s *Store) findWidget(id string) (*domain.Section, *domain.Column, *domain.Widget) {
	for _, sec := range s.content.Sections {
		for _, col := range sec.Columns {
			for _, w := range col.Widgets {
				if w.ID == id {
					return sec, col, w
				}
			}
		}
	}
	return nil, nil, nil
}

func sectionContainsWidget(sec *domain.Section, widgetID string) bool {
	for _, col := range sec.Columns {
		if columnContainsWidget(col, widgetID) {
			return true
		}
	}
	return false
}

func columnContainsWidget(col *domain.Column, widgetID string) bool {
	for _, w := range col.Widgets {
		if w.ID == widgetID {
			return true
		}
	}
	return false
}

func (s *Store) afterStructural(reason string) {
	s.recomputeDirty()
	s.scheduler.StructuralChange(reason)
}

func (s *Store) recomputeDirty() {
	s.dirty = !jsonEqual(s.content, s.original)
}

func jsonEqual(a, b *domain.PageContent) bool {
	ab, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return string(ab) == string(bb)
}

func newID() string { return uuid.NewString() }

func newWidgetFromTemplate(t *domain.WidgetTemplate) *domain.Widget {
	return &domain.Widget{
		ID:        newID(),
		Type:      t.Type,
		General:   deepCopyMap(ensureObject(t.DefaultGeneral)),
		Style:     deepCopyMap(ensureObject(t.DefaultStyle)),
		Advanced:  deepCopyMap(ensureObject(t.DefaultAdvanced)),
		IsVisible: true,
		IsEnabled: true,
		Version:   t.Version,
	}
}

func insertWidget(col *domain.Column, w *domain.Widget, index int) {
	if index < 0 || index > len(col.Widgets) {
		index = len(col.Widgets)
	}
	col.Widgets = append(col.Widgets, nil)
	copy(col.Widgets[index+1:], col.Widgets[index:])
	col.Widgets[index] = w
}

// normalizeSection fills nil maps and slices so serialization is stable
// and group settings are always objects.
func normalizeSection(sec *domain.Section) {
	if sec.Settings == nil {
		sec.Settings = map[string]any{}
	}
	for _, col := range sec.Columns {
		if col.Settings == nil {
			col.Settings = map[string]any{}
		}
		if col.Widgets == nil {
			col.Widgets = []*domain.Widget{}
		}
		for _, w := range col.Widgets {
			w.General = ensureObject(w.General)
			w.Style = ensureObject(w.Style)
			w.Advanced = ensureObject(w.Advanced)
		}
	}
}

// rebalanceColumns assigns equal percentage shares after a column is
// added or removed. Explicit widths set between such operations are
// preserved until the next add/remove.
func rebalanceColumns(sec *domain.Section) {
	n := len(sec.Columns)
	if n == 0 {
		return
	}
	share := fmt.Sprintf("%.4f%%", 100.0/float64(n))
	// Keep round numbers readable for the common counts.
	switch n {
	case 1:
		share = "100%"
	case 2:
		share = "50%"
	case 4:
		share = "25%"
	case 5:
		share = "20%"
	}
	for _, col := range sec.Columns {
		col.Width = share
	}
}

func defaultSectionSettings() map[string]any {
	return map[string]any{
		"padding": map[string]any{"top": 20.0, "right": 0.0, "bottom": 20.0, "left": 0.0, "unit": "px"},
		"margin":  map[string]any{"top": 0.0, "right": 0.0, "bottom": 0.0, "left": 0.0, "unit": "px"},
	}
}

func mergeInto(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = map[string]any{}
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
