package domain

// FieldDefinition is a declarative, immutable-after-construction
// descriptor for a single settings field. It is never persisted; it is
// schema, merged at read time with a widget's stored values to produce
// a populated field for the settings UI.
type FieldDefinition struct {
	Name        string            `json:"name" yaml:"name"`
	Type        string            `json:"type" yaml:"type"`
	Label       string            `json:"label" yaml:"label"`
	Default     any               `json:"default,omitempty" yaml:"default"`
	Required    bool              `json:"required,omitempty" yaml:"required"`
	Placeholder string            `json:"placeholder,omitempty" yaml:"placeholder"`
	Options     map[string]string `json:"options,omitempty" yaml:"options"`
	Condition   *FieldCondition   `json:"condition,omitempty" yaml:"condition"`
	Rules       ValidationRules   `json:"rules,omitempty" yaml:"rules"`
	// Fields holds the child schema for composite kinds (group, repeater).
	Fields []FieldDefinition `json:"fields,omitempty" yaml:"fields"`
}

// FieldCondition makes a field visible only when another field in the
// same group matches.
type FieldCondition struct {
	Field    string `json:"field" yaml:"field"`
	Value    any    `json:"value" yaml:"value"`
	Operator string `json:"operator,omitempty" yaml:"operator"` // "eq" (default), "ne", "in"
}

// ValidationRules carries the per-kind constraints a field type checks
// during Validate. Pointer fields distinguish "unset" from zero.
type ValidationRules struct {
	Min       *float64 `json:"min,omitempty" yaml:"min"`
	Max       *float64 `json:"max,omitempty" yaml:"max"`
	Step      *float64 `json:"step,omitempty" yaml:"step"`
	MinLength *int     `json:"min_length,omitempty" yaml:"min_length"`
	MaxLength *int     `json:"max_length,omitempty" yaml:"max_length"`
	MinItems  *int     `json:"min_items,omitempty" yaml:"min_items"`
	MaxItems  *int     `json:"max_items,omitempty" yaml:"max_items"`
	Pattern   string   `json:"pattern,omitempty" yaml:"pattern"`
}

// WidgetSchema declares a widget kind's settings surface: three field
// groups plus palette metadata.
type WidgetSchema struct {
	Type     string            `json:"type" yaml:"type"`
	Kind     string            `json:"kind" yaml:"kind"` // "widget" | "section" | "container"
	Label    string            `json:"label" yaml:"label"`
	Icon     string            `json:"icon,omitempty" yaml:"icon"`
	Version  string            `json:"version,omitempty" yaml:"version"`
	General  []FieldDefinition `json:"general,omitempty" yaml:"general"`
	Style    []FieldDefinition `json:"style,omitempty" yaml:"style"`
	Advanced []FieldDefinition `json:"advanced,omitempty" yaml:"advanced"`
}
