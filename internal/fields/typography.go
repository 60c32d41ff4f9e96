package fields

import (
	"fmt"

	"pagecraft/internal/domain"
)

// typographyType stores a multi-property text style:
// {font_family, font_size:{value,unit}, font_weight, line_height:{value,unit},
//  letter_spacing:{value,unit}, text_transform, font_style, text_decoration}.
type typographyType struct{}

var typographyDims = []string{"font_size", "line_height", "letter_spacing"}

var fontWeights = map[string]bool{
	"": true, "normal": true, "bold": true,
	"100": true, "200": true, "300": true, "400": true, "500": true,
	"600": true, "700": true, "800": true, "900": true,
}

func (t *typographyType) Kind() string { return "typography" }

func (t *typographyType) Validate(value any, def domain.FieldDefinition) []string {
	if value == nil {
		if def.Required {
			return []string{requiredError(def)}
		}
		return nil
	}
	m := toMap(value)
	if m == nil {
		return []string{fmt.Sprintf("%s must be a typography object", fieldName(def))}
	}
	var errs []string
	name := fieldName(def)
	for _, k := range typographyDims {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		switch d := v.(type) {
		case string:
			if _, err := ParseDimension(d); err != nil {
				errs = append(errs, fmt.Sprintf("%s: %s is not a valid CSS length", name, k))
			}
		case map[string]any:
			if _, ok := toFloat(d["value"]); !ok {
				errs = append(errs, fmt.Sprintf("%s: %s is missing a numeric value", name, k))
			}
		default:
			errs = append(errs, fmt.Sprintf("%s: %s is not a valid CSS length", name, k))
		}
	}
	if w := toString(m["font_weight"]); !fontWeights[w] {
		errs = append(errs, fmt.Sprintf("%s: unknown font weight %q", name, w))
	}
	return errs
}

// Sanitize coerces every length subproperty into {value, unit} form and
// drops null entries.
func (t *typographyType) Sanitize(value any) any {
	m := toMap(value)
	if m == nil {
		return value
	}
	dim := dimensionType{}
	out := map[string]any{}
	for k, v := range m {
		if v == nil {
			continue
		}
		isDim := false
		for _, dk := range typographyDims {
			if k == dk {
				isDim = true
				break
			}
		}
		if isDim {
			out[k] = dim.Sanitize(v)
		} else {
			out[k] = toString(v)
		}
	}
	return out
}

func (t *typographyType) Render(def domain.FieldDefinition, value any) *Render {
	return baseRender("typography", def, value)
}

func (t *typographyType) Schema() Schema {
	return Schema{
		Kind:      "typography",
		ValueType: "object",
		Properties: map[string]string{
			"font_family": "string", "font_size": "object", "font_weight": "string",
			"line_height": "object", "letter_spacing": "object",
			"text_transform": "string", "font_style": "string", "text_decoration": "string",
		},
	}
}
