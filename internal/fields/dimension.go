package fields

import (
	"fmt"
	"strconv"
	"strings"

	"pagecraft/internal/domain"
)

var cssUnits = map[string]bool{
	"px": true, "em": true, "rem": true, "%": true,
	"vh": true, "vw": true, "pt": true, "ch": true,
}

// Dimension is a single CSS length: value plus unit.
type Dimension struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// String renders the dimension as a CSS length.
func (d Dimension) String() string {
	return trimFloat(d.Value) + d.Unit
}

// ParseDimension splits a CSS length like "12px" or "1.5em". A bare
// number defaults to px.
func ParseDimension(s string) (Dimension, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Dimension{}, fmt.Errorf("empty dimension")
	}
	i := len(s)
	for i > 0 {
		c := s[i-1]
		if c >= '0' && c <= '9' || c == '.' || c == '-' {
			break
		}
		i--
	}
	num, unit := s[:i], s[i:]
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Dimension{}, fmt.Errorf("parse dimension %q: %w", s, err)
	}
	if unit == "" {
		unit = "px"
	}
	if !cssUnits[unit] {
		return Dimension{}, fmt.Errorf("parse dimension %q: unknown unit %q", s, unit)
	}
	return Dimension{Value: v, Unit: unit}, nil
}

// Spacing is a four-sided box value (padding, margin) with a shared unit.
type Spacing struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Unit   string  `json:"unit"`
}

// ParseSpacing expands a 1-, 2-, 3- or 4-part space-separated CSS
// shorthand into explicit sides, following standard CSS rules:
// 1 → all sides; 2 → vertical/horizontal; 3 → top/horizontal/bottom;
// 4 → top/right/bottom/left.
func ParseSpacing(s string) (Spacing, error) {
	parts := strings.Fields(strings.TrimSpace(s))
	if len(parts) == 0 || len(parts) > 4 {
		return Spacing{}, fmt.Errorf("parse spacing %q: want 1-4 parts, got %d", s, len(parts))
	}
	dims := make([]Dimension, len(parts))
	for i, p := range parts {
		d, err := ParseDimension(p)
		if err != nil {
			return Spacing{}, err
		}
		dims[i] = d
	}
	unit := dims[0].Unit
	for _, d := range dims[1:] {
		if d.Unit != unit {
			return Spacing{}, fmt.Errorf("parse spacing %q: mixed units", s)
		}
	}
	sp := Spacing{Unit: unit}
	switch len(dims) {
	case 1:
		sp.Top, sp.Right, sp.Bottom, sp.Left = dims[0].Value, dims[0].Value, dims[0].Value, dims[0].Value
	case 2:
		sp.Top, sp.Bottom = dims[0].Value, dims[0].Value
		sp.Right, sp.Left = dims[1].Value, dims[1].Value
	case 3:
		sp.Top = dims[0].Value
		sp.Right, sp.Left = dims[1].Value, dims[1].Value
		sp.Bottom = dims[2].Value
	case 4:
		sp.Top, sp.Right, sp.Bottom, sp.Left = dims[0].Value, dims[1].Value, dims[2].Value, dims[3].Value
	}
	return sp, nil
}

// FormatSpacing renders the shortest equivalent CSS shorthand.
func FormatSpacing(sp Spacing) string {
	u := sp.Unit
	if u == "" {
		u = "px"
	}
	t := trimFloat(sp.Top) + u
	r := trimFloat(sp.Right) + u
	b := trimFloat(sp.Bottom) + u
	l := trimFloat(sp.Left) + u
	switch {
	case t == r && r == b && b == l:
		return t
	case t == b && r == l:
		return t + " " + r
	case r == l:
		return t + " " + r + " " + b
	default:
		return t + " " + r + " " + b + " " + l
	}
}

// spacingMap is the stored object form of a Spacing value.
func spacingMap(sp Spacing) map[string]any {
	return map[string]any{
		"top":    sp.Top,
		"right":  sp.Right,
		"bottom": sp.Bottom,
		"left":   sp.Left,
		"unit":   sp.Unit,
	}
}

// SpacingFromMap rebuilds a Spacing from its stored object form.
func SpacingFromMap(m map[string]any) Spacing {
	sp := Spacing{Unit: "px"}
	if v, ok := toFloat(m["top"]); ok {
		sp.Top = v
	}
	if v, ok := toFloat(m["right"]); ok {
		sp.Right = v
	}
	if v, ok := toFloat(m["bottom"]); ok {
		sp.Bottom = v
	}
	if v, ok := toFloat(m["left"]); ok {
		sp.Left = v
	}
	if u := toString(m["unit"]); u != "" {
		sp.Unit = u
	}
	return sp
}

// dimensionType stores a single {value, unit} length.
type dimensionType struct{}

func (t *dimensionType) Kind() string { return "dimension" }

func (t *dimensionType) Validate(value any, def domain.FieldDefinition) []string {
	if value == nil {
		if def.Required {
			return []string{requiredError(def)}
		}
		return nil
	}
	name := fieldName(def)
	var v float64
	switch d := value.(type) {
	case string:
		dim, err := ParseDimension(d)
		if err != nil {
			return []string{fmt.Sprintf("%s is not a valid CSS length", name)}
		}
		v = dim.Value
	case map[string]any:
		f, ok := toFloat(d["value"])
		if !ok {
			return []string{fmt.Sprintf("%s is missing a numeric value", name)}
		}
		v = f
	default:
		return []string{fmt.Sprintf("%s is not a valid CSS length", name)}
	}
	var errs []string
	if def.Rules.Min != nil && v < *def.Rules.Min {
		errs = append(errs, fmt.Sprintf("%s must be at least %s", name, trimFloat(*def.Rules.Min)))
	}
	if def.Rules.Max != nil && v > *def.Rules.Max {
		errs = append(errs, fmt.Sprintf("%s must be at most %s", name, trimFloat(*def.Rules.Max)))
	}
	return errs
}

// Sanitize coerces strings like "12px" into the stored object form.
func (t *dimensionType) Sanitize(value any) any {
	switch d := value.(type) {
	case string:
		dim, err := ParseDimension(d)
		if err != nil {
			return value
		}
		return map[string]any{"value": dim.Value, "unit": dim.Unit}
	case map[string]any:
		out := map[string]any{"value": 0.0, "unit": "px"}
		if v, ok := toFloat(d["value"]); ok {
			out["value"] = v
		}
		if u := toString(d["unit"]); cssUnits[u] {
			out["unit"] = u
		}
		return out
	default:
		return value
	}
}

func (t *dimensionType) Render(def domain.FieldDefinition, value any) *Render {
	r := baseRender("dimension", def, value)
	r.Constraints = constraints(def.Rules)
	return r
}

func (t *dimensionType) Schema() Schema {
	return Schema{
		Kind:       "dimension",
		ValueType:  "object",
		Properties: map[string]string{"value": "number", "unit": "string"},
	}
}

// spacingType stores a four-sided box value and accepts CSS shorthand
// strings on input.
type spacingType struct{}

func (t *spacingType) Kind() string { return "spacing" }

func (t *spacingType) Validate(value any, def domain.FieldDefinition) []string {
	if value == nil {
		if def.Required {
			return []string{requiredError(def)}
		}
		return nil
	}
	switch v := value.(type) {
	case string:
		if _, err := ParseSpacing(v); err != nil {
			return []string{fmt.Sprintf("%s is not a valid spacing shorthand", fieldName(def))}
		}
	case map[string]any:
		// Stored object form is always acceptable.
	default:
		return []string{fmt.Sprintf("%s must be a spacing value", fieldName(def))}
	}
	return nil
}

func (t *spacingType) Sanitize(value any) any {
	switch v := value.(type) {
	case string:
		sp, err := ParseSpacing(v)
		if err != nil {
			return value
		}
		return spacingMap(sp)
	case map[string]any:
		return spacingMap(SpacingFromMap(v))
	default:
		return value
	}
}

func (t *spacingType) Render(def domain.FieldDefinition, value any) *Render {
	return baseRender("spacing", def, value)
}

func (t *spacingType) Schema() Schema {
	return Schema{
		Kind:      "spacing",
		ValueType: "object",
		Properties: map[string]string{
			"top": "number", "right": "number", "bottom": "number",
			"left": "number", "unit": "string",
		},
	}
}
