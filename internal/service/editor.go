package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"pagecraft/internal/autosave"
	"pagecraft/internal/content"
	"pagecraft/internal/css"
	"pagecraft/internal/domain"
	"pagecraft/internal/publish"
	"pagecraft/internal/schema"
)

// ─────────────────────────────────────────────────────────────
// Editor Service — business logic for page editing
// ─────────────────────────────────────────────────────────────

// EditorService owns one open page: the content store, the save
// lifecycle, and the persistence stores behind them. Structural edits
// flow store → autosave → persist; settings edits persist only on
// explicit save calls.
type EditorService struct {
	pages    domain.PageStore
	widgets  domain.WidgetStore
	settings domain.SettingsStore
	catalog  *schema.Catalog
	emitter  EventEmitter
	remote   *RemoteClient // optional backend sync; nil when local-only

	store *content.Store
	saver *autosave.Coordinator

	mu        sync.Mutex
	pageID    string
	title     string
	version   int64
	published bool
}

// NewEditorService wires the store, the autosave coordinator, and the
// persistence stores together. remote may be nil.
func NewEditorService(
	pages domain.PageStore,
	widgets domain.WidgetStore,
	settings domain.SettingsStore,
	catalog *schema.Catalog,
	emitter EventEmitter,
	remote *RemoteClient,
) *EditorService {
	s := &EditorService{
		pages:    pages,
		widgets:  widgets,
		settings: settings,
		catalog:  catalog,
		emitter:  emitter,
		remote:   remote,
	}
	s.saver = autosave.New(s.persist, 0, func(st autosave.State) {
		s.emitter.Emit(context.Background(), "save:state", st)
	})
	s.store = content.NewStore(s.saver)
	return s
}

// Store exposes the content store for the DnD interpreter and the
// outline projector.
func (s *EditorService) Store() *content.Store {
	return s.store
}

// SaveState returns the current save status.
func (s *EditorService) SaveState() autosave.State {
	return s.saver.State()
}

// ── pages ──────────────────────────────────────────────────

func (s *EditorService) CreatePage(title string) (*domain.PageRecord, error) {
	p := &domain.PageRecord{
		ID:    uuid.NewString(),
		Title: title,
	}
	if err := s.pages.CreatePage(p); err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	return p, nil
}

func (s *EditorService) ListPages() ([]domain.PageRecord, error) {
	return s.pages.ListPages()
}

// LoadPage reads the page layout and its widget records and rebuilds
// the full in-memory tree. After a load the store is clean: isDirty is
// false until the first mutation.
func (s *EditorService) LoadPage(pageID string) (*domain.PageContent, error) {
	rec, err := s.pages.GetPage(pageID)
	if err != nil {
		return nil, fmt.Errorf("load page: %w", err)
	}
	records, err := s.widgets.ListWidgets(pageID)
	if err != nil {
		return nil, fmt.Errorf("load page widgets: %w", err)
	}

	var layout struct {
		Sections []domain.LayoutSection `json:"sections"`
	}
	if err := json.Unmarshal([]byte(rec.ContentJSON), &layout); err != nil {
		return nil, fmt.Errorf("decode page layout: %w", err)
	}

	byID := make(map[string]*domain.WidgetRecord, len(records))
	for i := range records {
		byID[records[i].ID] = &records[i]
	}

	pc := &domain.PageContent{Sections: make([]*domain.Section, 0, len(layout.Sections))}
	for _, ls := range layout.Sections {
		sec := &domain.Section{
			ID:         ls.ID,
			Type:       ls.Type,
			Settings:   ls.Settings,
			Responsive: ls.Responsive,
			Columns:    make([]*domain.Column, 0, len(ls.Columns)),
		}
		for _, lc := range ls.Columns {
			col := &domain.Column{
				ID:       lc.ID,
				Width:    lc.Width,
				Settings: lc.Settings,
				Widgets:  make([]*domain.Widget, 0, len(lc.Widgets)),
			}
			for _, stub := range lc.Widgets {
				col.Widgets = append(col.Widgets, hydrateWidget(stub, byID[stub.ID]))
			}
			sec.Columns = append(sec.Columns, col)
		}
		pc.Sections = append(pc.Sections, sec)
	}

	s.mu.Lock()
	s.pageID = rec.ID
	s.title = rec.Title
	s.version = rec.Version
	s.published = rec.IsPublished
	s.mu.Unlock()

	s.store.SetContent(pc)
	s.emitter.Emit(context.Background(), "page:loaded", rec.ID)
	return s.store.Content(), nil
}

// hydrateWidget joins a layout stub with its settings record. A stub
// with no record (interrupted two-phase save) becomes an empty widget
// of the right type rather than breaking the whole page.
func hydrateWidget(stub domain.WidgetStub, rec *domain.WidgetRecord) *domain.Widget {
	w := &domain.Widget{
		ID:        stub.ID,
		Type:      stub.Type,
		General:   map[string]any{},
		Style:     map[string]any{},
		Advanced:  map[string]any{},
		IsVisible: true,
		IsEnabled: true,
	}
	if rec == nil {
		log.Printf("editor: widget %s has no settings record", stub.ID)
		return w
	}
	w.IsVisible = rec.IsVisible
	w.IsEnabled = rec.IsEnabled
	w.Version = rec.Version
	w.General = decodeSettings(rec.General)
	w.Style = decodeSettings(rec.Style)
	w.Advanced = decodeSettings(rec.Advanced)
	return w
}

func decodeSettings(raw string) map[string]any {
	m := map[string]any{}
	if raw == "" {
		return m
	}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		log.Printf("editor: decode settings: %v", err)
		return map[string]any{}
	}
	return m
}

// ── saving ─────────────────────────────────────────────────

// SaveNow requests an immediate full save, e.g. from the toolbar save
// button after settings edits.
func (s *EditorService) SaveNow() {
	s.saver.Request("manual save")
}

// persist is the autosave coordinator's save function: one full save
// of the current tree. Widgets write first, then the page layout, in
// that order — the layout references widget ids, so a layout row must
// never point at settings that were not stored yet. Failures leave the
// in-memory tree untouched; the user keeps working and retries.
func (s *EditorService) persist(reason string) error {
	s.mu.Lock()
	pageID := s.pageID
	title := s.title
	next := s.version + 1
	published := s.published
	s.mu.Unlock()
	if pageID == "" {
		return nil
	}

	payload := s.store.Extract(pageID, next, published)

	keep := make([]string, 0, len(payload.Widgets))
	for id, w := range payload.Widgets {
		rec, err := widgetToRecord(pageID, w, payload.SortOrder[id])
		if err != nil {
			return fmt.Errorf("encode widget %s: %w", id, err)
		}
		if err := s.widgets.UpsertWidget(rec); err != nil {
			return fmt.Errorf("save widget %s: %w", id, err)
		}
		keep = append(keep, id)
	}
	if err := s.widgets.PruneWidgets(pageID, keep); err != nil {
		return fmt.Errorf("prune widgets: %w", err)
	}

	layoutJSON, err := json.Marshal(struct {
		Sections []domain.LayoutSection `json:"sections"`
	}{Sections: payload.Content})
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	err = s.pages.SavePage(&domain.PageRecord{
		ID:          pageID,
		Title:       title,
		ContentJSON: string(layoutJSON),
		IsPublished: published,
		Version:     next,
	})
	if errors.Is(err, domain.ErrStaleVersion) {
		// A newer save already landed; this one is obsolete, not failed.
		log.Printf("editor: save (%s) superseded by a newer version", reason)
		return nil
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	if next > s.version {
		s.version = next
	}
	s.mu.Unlock()
	s.store.MarkSaved()

	if s.remote != nil {
		if err := s.remote.Save(context.Background(), payload); err != nil {
			return fmt.Errorf("sync to backend: %w", err)
		}
	}
	return nil
}

func widgetToRecord(pageID string, w *domain.Widget, sortOrder int) (*domain.WidgetRecord, error) {
	general, err := encodeSettings(w.General)
	if err != nil {
		return nil, err
	}
	style, err := encodeSettings(w.Style)
	if err != nil {
		return nil, err
	}
	advanced, err := encodeSettings(w.Advanced)
	if err != nil {
		return nil, err
	}
	return &domain.WidgetRecord{
		ID:        w.ID,
		PageID:    pageID,
		Type:      w.Type,
		General:   general,
		Style:     style,
		Advanced:  advanced,
		SortOrder: sortOrder,
		IsVisible: w.IsVisible,
		IsEnabled: w.IsEnabled,
		Version:   w.Version,
	}, nil
}

func encodeSettings(m map[string]any) (string, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ── widgets ────────────────────────────────────────────────

// AddWidget drops a new widget of the given type into a column. The
// resulting structural change triggers an immediate save through the
// store's scheduler hook.
func (s *EditorService) AddWidget(widgetType, columnID, sectionID string) (*domain.Widget, error) {
	tpl, err := s.catalog.Template(widgetType)
	if err != nil {
		return nil, err
	}
	w := s.store.AddWidget(tpl, columnID, sectionID)
	if w == nil {
		return nil, fmt.Errorf("add widget: column %s not found", columnID)
	}
	return w, nil
}

// UpdateWidgetSettings merges settings edits into the widget. Values
// are sanitized against the widget's schema first. The edit marks the
// tree dirty but does not auto-save.
func (s *EditorService) UpdateWidgetSettings(widgetID string, updates domain.WidgetUpdates) error {
	_, _, w := s.store.FindWidget(widgetID)
	if w == nil {
		return fmt.Errorf("widget %s not found", widgetID)
	}
	if updates.General != nil {
		updates.General = s.catalog.SanitizeGroup(w.Type, "general", updates.General)
	}
	if updates.Style != nil {
		updates.Style = s.catalog.SanitizeGroup(w.Type, "style", updates.Style)
	}
	if updates.Advanced != nil {
		updates.Advanced = s.catalog.SanitizeGroup(w.Type, "advanced", updates.Advanced)
	}
	if !s.store.UpdateWidget(widgetID, updates) {
		return fmt.Errorf("widget %s not found", widgetID)
	}
	return nil
}

// ValidateWidgetSettings checks one settings group against the widget's
// schema, returning field-level messages for inline display.
func (s *EditorService) ValidateWidgetSettings(widgetID, group string, values map[string]any) []string {
	_, _, w := s.store.FindWidget(widgetID)
	if w == nil {
		return []string{fmt.Sprintf("widget %s not found", widgetID)}
	}
	return s.catalog.ValidateGroup(w.Type, group, values)
}

// SaveWidgetSettings persists one widget's settings immediately — the
// explicit per-widget save from the settings panel. Clears the revert
// snapshot on success.
func (s *EditorService) SaveWidgetSettings(widgetID string) error {
	_, col, w := s.store.FindWidget(widgetID)
	if w == nil {
		return fmt.Errorf("widget %s not found", widgetID)
	}
	s.mu.Lock()
	pageID := s.pageID
	s.mu.Unlock()

	rec, err := widgetToRecord(pageID, w, s.store.WidgetIndex(col.ID, widgetID))
	if err != nil {
		return fmt.Errorf("encode widget %s: %w", widgetID, err)
	}
	if err := s.widgets.UpsertWidget(rec); err != nil {
		return fmt.Errorf("save widget settings: %w", err)
	}
	s.store.ClearSnapshot(widgetID)
	s.emitter.Emit(context.Background(), "widget:saved", widgetID)
	return nil
}

// GetWidgetFields returns the populated settings panel for a widget:
// schema fields merged with stored values.
func (s *EditorService) GetWidgetFields(widgetID string) ([]schema.GroupRender, error) {
	_, _, w := s.store.FindWidget(widgetID)
	if w == nil {
		return nil, fmt.Errorf("widget %s not found", widgetID)
	}
	return s.catalog.MergeValues(w)
}

// ── section & column settings ──────────────────────────────

// SaveElementSettings persists section or column settings — the
// explicit save analogous to SaveWidgetSettings.
func (s *EditorService) SaveElementSettings(kind, elementID string, settings map[string]any) error {
	s.mu.Lock()
	pageID := s.pageID
	s.mu.Unlock()

	raw, err := encodeSettings(settings)
	if err != nil {
		return fmt.Errorf("encode %s settings: %w", kind, err)
	}
	err = s.settings.UpsertSettings(&domain.SettingsRecord{
		ID:           elementID,
		PageID:       pageID,
		Kind:         kind,
		SettingsJSON: raw,
	})
	if err != nil {
		return fmt.Errorf("save %s settings: %w", kind, err)
	}
	return nil
}

// ── css ────────────────────────────────────────────────────

// WidgetCSS generates the stylesheet for one widget from its effective
// style settings (schema defaults under stored values).
func (s *EditorService) WidgetCSS(widgetID string) (string, error) {
	_, _, w := s.store.FindWidget(widgetID)
	if w == nil {
		return "", fmt.Errorf("widget %s not found", widgetID)
	}
	return css.Generate(css.Request{
		Kind:       "widget",
		ID:         w.ID,
		WidgetType: w.Type,
		Settings:   s.catalog.MergedSettings(w.Type, "style", w.Style),
	}), nil
}

// PageCSS generates the stylesheet for the whole tree: sections,
// columns, and widgets in document order.
func (s *EditorService) PageCSS() string {
	pc := s.store.Content()
	var reqs []css.Request
	for _, sec := range pc.Sections {
		req := css.Request{
			Kind:     "section",
			ID:       sec.ID,
			Settings: s.catalog.MergedSettings("section", "style", sec.Settings),
		}
		if sec.Responsive != nil {
			req.Responsive = map[string]map[string]any{}
			if len(sec.Responsive.Tablet) > 0 {
				req.Responsive["tablet"] = sec.Responsive.Tablet
			}
			if len(sec.Responsive.Mobile) > 0 {
				req.Responsive["mobile"] = sec.Responsive.Mobile
			}
		}
		reqs = append(reqs, req)
		for _, col := range sec.Columns {
			reqs = append(reqs, css.Request{
				Kind:     "column",
				ID:       col.ID,
				Settings: s.catalog.MergedSettings("column", "style", col.Settings),
			})
			for _, w := range col.Widgets {
				reqs = append(reqs, css.Request{
					Kind:       "widget",
					ID:         w.ID,
					WidgetType: w.Type,
					Settings:   s.catalog.MergedSettings(w.Type, "style", w.Style),
				})
			}
		}
	}
	return css.GenerateBulk(reqs)
}

// ── publishing ─────────────────────────────────────────────

// Publish marks the page published and, when a target is configured,
// pushes the rendered payload to the external site database. The local
// working copy is saved first so the published output matches what the
// editor shows.
func (s *EditorService) Publish(ctx context.Context, target publish.Target) error {
	s.mu.Lock()
	s.published = true
	pageID := s.pageID
	title := s.title
	s.mu.Unlock()
	if pageID == "" {
		return fmt.Errorf("publish: no page loaded")
	}

	if err := s.persist("publish"); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	if err := s.pages.SetPublished(pageID, true); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	if target != nil {
		s.mu.Lock()
		version := s.version
		s.mu.Unlock()
		payload := s.store.Extract(pageID, version, true)
		layoutJSON, err := json.Marshal(payload.Content)
		if err != nil {
			return fmt.Errorf("publish: encode layout: %w", err)
		}
		widgetsJSON, err := json.Marshal(payload.Widgets)
		if err != nil {
			return fmt.Errorf("publish: encode widgets: %w", err)
		}
		err = target.Publish(ctx, &domain.PublishPayload{
			PageID:      pageID,
			Title:       title,
			LayoutJSON:  string(layoutJSON),
			WidgetsJSON: string(widgetsJSON),
			CSS:         s.PageCSS(),
			Version:     version,
		})
		if err != nil {
			return err
		}
	}

	s.emitter.Emit(ctx, "page:published", pageID)
	return nil
}

// Unpublish clears the published flag locally and removes the page from
// the target when one is configured.
func (s *EditorService) Unpublish(ctx context.Context, target publish.Target) error {
	s.mu.Lock()
	s.published = false
	pageID := s.pageID
	s.mu.Unlock()
	if pageID == "" {
		return fmt.Errorf("unpublish: no page loaded")
	}
	if err := s.pages.SetPublished(pageID, false); err != nil {
		return fmt.Errorf("unpublish: %w", err)
	}
	if target != nil {
		if err := target.Unpublish(ctx, pageID); err != nil {
			return err
		}
	}
	s.emitter.Emit(ctx, "page:unpublished", pageID)
	return nil
}

// Shutdown flushes in-flight saves. Bounded by ctx.
func (s *EditorService) Shutdown(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		s.saver.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		log.Printf("editor: shutdown with saves still in flight: %v", ctx.Err())
	}
}
