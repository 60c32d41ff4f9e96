package fields

import (
	"fmt"

	"pagecraft/internal/domain"
)

// borderType stores {style, color, width:{value,unit}, radius:{top,right,bottom,left,unit}}.
type borderType struct{}

var borderStyles = map[string]bool{
	"": true, "none": true, "solid": true, "dashed": true,
	"dotted": true, "double": true,
}

func (t *borderType) Kind() string { return "border" }

func (t *borderType) Validate(value any, def domain.FieldDefinition) []string {
	if value == nil {
		if def.Required {
			return []string{requiredError(def)}
		}
		return nil
	}
	m := toMap(value)
	if m == nil {
		return []string{fmt.Sprintf("%s must be a border object", fieldName(def))}
	}
	var errs []string
	name := fieldName(def)
	if s := toString(m["style"]); !borderStyles[s] {
		errs = append(errs, fmt.Sprintf("%s: unknown border style %q", name, s))
	}
	if c := toString(m["color"]); c != "" && !hexColorRe.MatchString(c) {
		errs = append(errs, fmt.Sprintf("%s: color must be a hex color", name))
	}
	return errs
}

func (t *borderType) Sanitize(value any) any {
	m := toMap(value)
	if m == nil {
		return value
	}
	dim := dimensionType{}
	sp := spacingType{}
	color := colorType{}
	out := map[string]any{}
	if s := toString(m["style"]); s != "" {
		out["style"] = s
	}
	if c, ok := m["color"]; ok && c != nil {
		out["color"] = color.Sanitize(c)
	}
	if w, ok := m["width"]; ok && w != nil {
		out["width"] = dim.Sanitize(w)
	}
	if r, ok := m["radius"]; ok && r != nil {
		out["radius"] = sp.Sanitize(r)
	}
	return out
}

func (t *borderType) Render(def domain.FieldDefinition, value any) *Render {
	return baseRender("border", def, value)
}

func (t *borderType) Schema() Schema {
	return Schema{
		Kind:      "border",
		ValueType: "object",
		Properties: map[string]string{
			"style": "string", "color": "string", "width": "object", "radius": "object",
		},
	}
}

// shadowType stores {x,y,blur,spread,color,inset}. Offsets are plain
// pixel numbers, matching the stored form the CSS generator consumes.
type shadowType struct{}

func (t *shadowType) Kind() string { return "shadow" }

func (t *shadowType) Validate(value any, def domain.FieldDefinition) []string {
	if value == nil {
		if def.Required {
			return []string{requiredError(def)}
		}
		return nil
	}
	m := toMap(value)
	if m == nil {
		return []string{fmt.Sprintf("%s must be a shadow object", fieldName(def))}
	}
	var errs []string
	name := fieldName(def)
	for _, k := range []string{"x", "y", "blur", "spread"} {
		if v, ok := m[k]; ok && v != nil {
			if _, ok := toFloat(v); !ok {
				errs = append(errs, fmt.Sprintf("%s: %s must be a number", name, k))
			}
		}
	}
	if c := toString(m["color"]); c != "" && !hexColorRe.MatchString(c) {
		errs = append(errs, fmt.Sprintf("%s: color must be a hex color", name))
	}
	return errs
}

func (t *shadowType) Sanitize(value any) any {
	m := toMap(value)
	if m == nil {
		return value
	}
	color := colorType{}
	out := map[string]any{"x": 0.0, "y": 0.0, "blur": 0.0, "spread": 0.0}
	for _, k := range []string{"x", "y", "blur", "spread"} {
		if v, ok := toFloat(m[k]); ok {
			out[k] = v
		}
	}
	if c, ok := m["color"]; ok && c != nil {
		out["color"] = color.Sanitize(c)
	}
	out["inset"] = toBool(m["inset"])
	return out
}

func (t *shadowType) Render(def domain.FieldDefinition, value any) *Render {
	return baseRender("shadow", def, value)
}

func (t *shadowType) Schema() Schema {
	return Schema{
		Kind:      "shadow",
		ValueType: "object",
		Properties: map[string]string{
			"x": "number", "y": "number", "blur": "number",
			"spread": "number", "color": "string", "inset": "bool",
		},
	}
}
