package fields

import (
	"fmt"

	"pagecraft/internal/domain"
)

// backgroundType stores a composite background:
// {type: "color"|"image"|"gradient", color, image:{url,position,repeat,size},
//  gradient:{from,to,angle}}.
type backgroundType struct{}

var backgroundKinds = map[string]bool{"": true, "color": true, "image": true, "gradient": true}

func (t *backgroundType) Kind() string { return "background" }

func (t *backgroundType) Validate(value any, def domain.FieldDefinition) []string {
	if value == nil {
		if def.Required {
			return []string{requiredError(def)}
		}
		return nil
	}
	m := toMap(value)
	if m == nil {
		return []string{fmt.Sprintf("%s must be a background object", fieldName(def))}
	}
	var errs []string
	name := fieldName(def)
	kind := toString(m["type"])
	if !backgroundKinds[kind] {
		errs = append(errs, fmt.Sprintf("%s: unknown background type %q", name, kind))
	}
	if c := toString(m["color"]); c != "" && !hexColorRe.MatchString(c) {
		errs = append(errs, fmt.Sprintf("%s: color must be a hex color", name))
	}
	if g, ok := m["gradient"].(map[string]any); ok {
		for _, stop := range []string{"from", "to"} {
			if c := toString(g[stop]); c != "" && !hexColorRe.MatchString(c) {
				errs = append(errs, fmt.Sprintf("%s: gradient %s must be a hex color", name, stop))
			}
		}
		if a, ok := g["angle"]; ok && a != nil {
			if deg, ok := toFloat(a); !ok || deg < 0 || deg > 360 {
				errs = append(errs, fmt.Sprintf("%s: gradient angle must be 0-360", name))
			}
		}
	}
	return errs
}

func (t *backgroundType) Sanitize(value any) any {
	m := toMap(value)
	if m == nil {
		return value
	}
	color := colorType{}
	out := map[string]any{}
	if kind := toString(m["type"]); kind != "" {
		out["type"] = kind
	}
	if c, ok := m["color"]; ok && c != nil {
		out["color"] = color.Sanitize(c)
	}
	if img, ok := m["image"].(map[string]any); ok {
		out["image"] = map[string]any{
			"url":      toString(img["url"]),
			"position": toString(img["position"]),
			"repeat":   toString(img["repeat"]),
			"size":     toString(img["size"]),
		}
	}
	if g, ok := m["gradient"].(map[string]any); ok {
		angle := 180.0
		if a, ok := toFloat(g["angle"]); ok {
			angle = a
		}
		out["gradient"] = map[string]any{
			"from":  color.Sanitize(g["from"]),
			"to":    color.Sanitize(g["to"]),
			"angle": angle,
		}
	}
	return out
}

func (t *backgroundType) Render(def domain.FieldDefinition, value any) *Render {
	return baseRender("background", def, value)
}

func (t *backgroundType) Schema() Schema {
	return Schema{
		Kind:      "background",
		ValueType: "object",
		Properties: map[string]string{
			"type": "string", "color": "string", "image": "object", "gradient": "object",
		},
	}
}
