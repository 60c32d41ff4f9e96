package fields

import (
	"fmt"
	"strconv"
	"strings"

	"pagecraft/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Field type contract — validate / sanitize / render / schema
// ─────────────────────────────────────────────────────────────

// Type is the contract a field kind implements. All four operations are
// pure: no I/O, no mutation of inputs.
type Type interface {
	// Kind returns the field kind string this type handles (e.g. "color").
	Kind() string
	// Validate runs per-kind semantic checks and returns human-readable
	// error strings. An empty slice means the value is acceptable.
	Validate(value any, def domain.FieldDefinition) []string
	// Sanitize coerces a raw value into the kind's canonical form.
	Sanitize(value any) any
	// Render merges a field's declared config with a current value into
	// the structure the settings UI consumes.
	Render(def domain.FieldDefinition, value any) *Render
	// Schema returns static shape metadata for tooling and introspection.
	Schema() Schema
}

// Render is the populated form of one field: declaration plus current
// value, with the default applied when the value is absent.
type Render struct {
	Name        string             `json:"name"`
	Kind        string             `json:"kind"`
	Label       string             `json:"label"`
	Value       any                `json:"value"`
	Default     any                `json:"default,omitempty"`
	Placeholder string             `json:"placeholder,omitempty"`
	Required    bool               `json:"required,omitempty"`
	Options     map[string]string  `json:"options,omitempty"`
	Constraints map[string]any     `json:"constraints,omitempty"`
	Children    map[string]*Render `json:"children,omitempty"`
}

// Schema describes a field kind's value shape.
type Schema struct {
	Kind        string            `json:"kind"`
	ValueType   string            `json:"value_type"` // "string","number","bool","object","array"
	Description string            `json:"description,omitempty"`
	Properties  map[string]string `json:"properties,omitempty"` // property → value type, object kinds only
}

// baseRender fills the parts of Render every kind shares.
func baseRender(kind string, def domain.FieldDefinition, value any) *Render {
	if value == nil {
		value = def.Default
	}
	r := &Render{
		Name:        def.Name,
		Kind:        kind,
		Label:       def.Label,
		Value:       value,
		Default:     def.Default,
		Placeholder: def.Placeholder,
		Required:    def.Required,
	}
	if len(def.Options) > 0 {
		r.Options = def.Options
	}
	return r
}

// constraints collects the set rules into a map for the UI.
func constraints(rules domain.ValidationRules) map[string]any {
	c := map[string]any{}
	if rules.Min != nil {
		c["min"] = *rules.Min
	}
	if rules.Max != nil {
		c["max"] = *rules.Max
	}
	if rules.Step != nil {
		c["step"] = *rules.Step
	}
	if rules.MinLength != nil {
		c["min_length"] = *rules.MinLength
	}
	if rules.MaxLength != nil {
		c["max_length"] = *rules.MaxLength
	}
	if rules.MinItems != nil {
		c["min_items"] = *rules.MinItems
	}
	if rules.MaxItems != nil {
		c["max_items"] = *rules.MaxItems
	}
	if rules.Pattern != "" {
		c["pattern"] = rules.Pattern
	}
	if len(c) == 0 {
		return nil
	}
	return c
}

// ── value coercion helpers ─────────────────────────────────

// toString renders scalars as strings; non-scalars return "".
func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

// toFloat converts numeric-ish values. Returns (0, false) when the value
// is not a number.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// toBool applies the wire format's truthy set: true, 1, "1", "yes", "on"
// (plus "true" for symmetry).
func toBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case float64:
		return b == 1
	case int:
		return b == 1
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "1", "yes", "on":
			return true
		}
	}
	return false
}

// toMap returns the value as a settings map. Empty arrays collapse to an
// empty map; the wire format distinguishes {} from [].
func toMap(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	case []any:
		if len(m) == 0 {
			return map[string]any{}
		}
	}
	return nil
}

func fieldName(def domain.FieldDefinition) string {
	if def.Name != "" {
		return def.Name
	}
	return def.Label
}

func requiredError(def domain.FieldDefinition) string {
	return fmt.Sprintf("%s is required", fieldName(def))
}
