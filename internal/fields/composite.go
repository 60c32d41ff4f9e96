package fields

import (
	"fmt"

	"pagecraft/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Composite kinds — group and repeater delegate per child field
// ─────────────────────────────────────────────────────────────

// groupType is a named bundle of child fields stored as one object.
type groupType struct {
	registry *Registry
}

func (t *groupType) Kind() string { return "group" }

func (t *groupType) Validate(value any, def domain.FieldDefinition) []string {
	if value == nil {
		if def.Required {
			return []string{requiredError(def)}
		}
		return nil
	}
	m := toMap(value)
	if m == nil {
		return []string{fmt.Sprintf("%s must be an object", fieldName(def))}
	}
	var errs []string
	for _, child := range def.Fields {
		for _, e := range t.registry.Validate(m[child.Name], child) {
			errs = append(errs, fmt.Sprintf("%s: %s", fieldName(def), e))
		}
	}
	return errs
}

func (t *groupType) Sanitize(value any) any {
	m := toMap(value)
	if m == nil {
		return value
	}
	out := map[string]any{}
	for k, v := range m {
		out[k] = v
	}
	return out
}

// SanitizeWithSchema cleans each child value through its declared kind.
// Plain Sanitize cannot recurse because the child schema lives on the
// definition, not the value.
func (t *groupType) SanitizeWithSchema(value any, def domain.FieldDefinition) any {
	m := toMap(value)
	if m == nil {
		return value
	}
	out := map[string]any{}
	for _, child := range def.Fields {
		if v, ok := m[child.Name]; ok {
			out[child.Name] = t.registry.Sanitize(child.Type, v)
		}
	}
	return out
}

func (t *groupType) Render(def domain.FieldDefinition, value any) *Render {
	r := baseRender("group", def, value)
	m := toMap(value)
	if len(def.Fields) > 0 {
		r.Children = map[string]*Render{}
		for _, child := range def.Fields {
			var cv any
			if m != nil {
				cv = m[child.Name]
			}
			if cr := t.registry.Render(child, cv); cr != nil {
				r.Children[child.Name] = cr
			}
		}
	}
	return r
}

func (t *groupType) Schema() Schema {
	return Schema{Kind: "group", ValueType: "object", Description: "Named bundle of child fields"}
}

// repeaterType is an ordered list of items, each validated against the
// declared child schema. Errors are keyed by item index.
type repeaterType struct {
	registry *Registry
}

func (t *repeaterType) Kind() string { return "repeater" }

func (t *repeaterType) Validate(value any, def domain.FieldDefinition) []string {
	if value == nil {
		if def.Required {
			return []string{requiredError(def)}
		}
		return nil
	}
	items, ok := value.([]any)
	if !ok {
		// An empty object is the wire form of an empty list.
		if m := toMap(value); m != nil && len(m) == 0 {
			items = nil
		} else {
			return []string{fmt.Sprintf("%s must be a list", fieldName(def))}
		}
	}
	var errs []string
	name := fieldName(def)
	if def.Rules.MinItems != nil && len(items) < *def.Rules.MinItems {
		errs = append(errs, fmt.Sprintf("%s needs at least %d items", name, *def.Rules.MinItems))
	}
	if def.Rules.MaxItems != nil && len(items) > *def.Rules.MaxItems {
		errs = append(errs, fmt.Sprintf("%s allows at most %d items", name, *def.Rules.MaxItems))
	}
	if len(def.Fields) == 0 {
		return errs
	}
	for i, item := range items {
		m := toMap(item)
		if m == nil {
			errs = append(errs, fmt.Sprintf("%s[%d]: must be an object", name, i))
			continue
		}
		for _, child := range def.Fields {
			for _, e := range t.registry.Validate(m[child.Name], child) {
				errs = append(errs, fmt.Sprintf("%s[%d]: %s", name, i, e))
			}
		}
	}
	return errs
}

func (t *repeaterType) Sanitize(value any) any {
	items, ok := value.([]any)
	if !ok {
		return value
	}
	out := make([]any, len(items))
	copy(out, items)
	return out
}

func (t *repeaterType) Render(def domain.FieldDefinition, value any) *Render {
	r := baseRender("repeater", def, value)
	r.Constraints = constraints(def.Rules)
	if len(def.Fields) > 0 {
		r.Children = map[string]*Render{}
		for _, child := range def.Fields {
			if cr := t.registry.Render(child, nil); cr != nil {
				r.Children[child.Name] = cr
			}
		}
	}
	return r
}

func (t *repeaterType) Schema() Schema {
	return Schema{Kind: "repeater", ValueType: "array", Description: "Ordered list of items sharing a child schema"}
}
