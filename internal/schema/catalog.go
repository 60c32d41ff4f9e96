// Package schema owns the widget catalog: which widget types exist,
// what fields they expose, and what a freshly dropped instance looks
// like. Built-in widgets are registered at startup; additional widgets
// load from YAML files and hot-reload while the editor runs.
package schema

import (
	"fmt"
	"sort"
	"sync"

	"pagecraft/internal/domain"
	"pagecraft/internal/fields"
)

// Catalog is the widget type registry. Registration validates every
// field definition against the field-kind registry, so a malformed
// widget schema fails loudly at startup instead of crashing the
// settings panel later.
type Catalog struct {
	mu       sync.RWMutex
	registry *fields.Registry
	widgets  map[string]*domain.WidgetSchema
}

// NewCatalog creates a catalog with the built-in widgets registered.
func NewCatalog(registry *fields.Registry) *Catalog {
	c := &Catalog{
		registry: registry,
		widgets:  make(map[string]*domain.WidgetSchema),
	}
	for _, ws := range Builtin() {
		if err := c.Register(ws); err != nil {
			// Builtin schemas are fixed at compile time; a bad one is a bug.
			panic(err)
		}
	}
	return c
}

// Register adds or replaces a widget schema. Every referenced field
// kind must exist in the registry.
func (c *Catalog) Register(ws *domain.WidgetSchema) error {
	if ws.Type == "" {
		return fmt.Errorf("register widget schema: empty type")
	}
	if ws.Kind == "" {
		ws.Kind = "widget"
	}
	for _, group := range [][]domain.FieldDefinition{ws.General, ws.Style, ws.Advanced} {
		if err := c.checkFields(ws.Type, group); err != nil {
			return err
		}
	}
	c.mu.Lock()
	c.widgets[ws.Type] = ws
	c.mu.Unlock()
	return nil
}

// Unregister removes a widget type, e.g. when its YAML file is deleted.
func (c *Catalog) Unregister(widgetType string) {
	c.mu.Lock()
	delete(c.widgets, widgetType)
	c.mu.Unlock()
}

func (c *Catalog) checkFields(widgetType string, defs []domain.FieldDefinition) error {
	for _, def := range defs {
		if def.Name == "" {
			return fmt.Errorf("widget %s: field with empty name", widgetType)
		}
		if _, ok := c.registry.Lookup(def.Type); !ok {
			return fmt.Errorf("widget %s: field %s has unknown kind %q", widgetType, def.Name, def.Type)
		}
		if len(def.Fields) > 0 {
			if err := c.checkFields(widgetType, def.Fields); err != nil {
				return err
			}
		}
	}
	return nil
}

// Lookup returns the schema for a widget type.
func (c *Catalog) Lookup(widgetType string) (*domain.WidgetSchema, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ws, ok := c.widgets[widgetType]
	return ws, ok
}

// Types returns every registered widget type, sorted for a stable
// palette order.
func (c *Catalog) Types() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.widgets))
	for t := range c.widgets {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// WidgetLabel returns the display name for a widget type, or "" when
// the type is unknown. The outline projector uses this for node labels.
func (c *Catalog) WidgetLabel(widgetType string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if ws, ok := c.widgets[widgetType]; ok {
		return ws.Label
	}
	return ""
}

// Template builds the palette drag payload for a widget type: defaults
// collected from the field definitions, ready for the store to stamp
// into a new widget instance.
func (c *Catalog) Template(widgetType string) (*domain.WidgetTemplate, error) {
	ws, ok := c.Lookup(widgetType)
	if !ok {
		return nil, fmt.Errorf("widget type %q not registered", widgetType)
	}
	return &domain.WidgetTemplate{
		Type:            ws.Type,
		Kind:            ws.Kind,
		Label:           ws.Label,
		Version:         ws.Version,
		DefaultGeneral:  defaultsFor(ws.General),
		DefaultStyle:    defaultsFor(ws.Style),
		DefaultAdvanced: defaultsFor(ws.Advanced),
	}, nil
}

// defaultsFor collects declared defaults into a settings map. Composite
// kinds with child fields produce a nested map of the children's
// defaults when they declare no default of their own.
func defaultsFor(defs []domain.FieldDefinition) map[string]any {
	out := map[string]any{}
	for _, def := range defs {
		switch {
		case def.Default != nil:
			out[def.Name] = def.Default
		case def.Type == "group" && len(def.Fields) > 0:
			if nested := defaultsFor(def.Fields); len(nested) > 0 {
				out[def.Name] = nested
			}
		}
	}
	return out
}

// ValidateGroup validates stored values for one settings group against
// the widget's schema. Returned strings are human-readable, keyed by
// field path, and meant for inline display next to the offending
// control.
func (c *Catalog) ValidateGroup(widgetType, group string, values map[string]any) []string {
	ws, ok := c.Lookup(widgetType)
	if !ok {
		return []string{fmt.Sprintf("unknown widget type %q", widgetType)}
	}
	var errs []string
	for _, def := range groupFields(ws, group) {
		if !conditionMet(def.Condition, values) {
			continue
		}
		errs = append(errs, c.registry.Validate(values[def.Name], def)...)
	}
	return errs
}

// SanitizeGroup normalizes stored values for one settings group,
// dropping keys the schema does not declare.
func (c *Catalog) SanitizeGroup(widgetType, group string, values map[string]any) map[string]any {
	ws, ok := c.Lookup(widgetType)
	if !ok {
		return values
	}
	out := map[string]any{}
	for _, def := range groupFields(ws, group) {
		v, present := values[def.Name]
		if !present || v == nil {
			continue
		}
		out[def.Name] = c.registry.Sanitize(def.Type, v)
	}
	return out
}

func groupFields(ws *domain.WidgetSchema, group string) []domain.FieldDefinition {
	switch group {
	case "general":
		return ws.General
	case "style":
		return ws.Style
	case "advanced":
		return ws.Advanced
	}
	return nil
}

// conditionMet evaluates a field's visibility condition against the
// sibling values; hidden fields are exempt from validation.
func conditionMet(cond *domain.FieldCondition, values map[string]any) bool {
	if cond == nil {
		return true
	}
	actual := values[cond.Field]
	switch cond.Operator {
	case "", "eq":
		return actual == cond.Value
	case "ne":
		return actual != cond.Value
	case "in":
		opts, ok := cond.Value.([]any)
		if !ok {
			return false
		}
		for _, o := range opts {
			if actual == o {
				return true
			}
		}
		return false
	}
	return false
}
