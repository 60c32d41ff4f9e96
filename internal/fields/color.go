package fields

import (
	"fmt"
	"regexp"
	"strings"

	"pagecraft/internal/domain"
)

var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

const defaultColor = "#000000"

// colorType stores a six-digit hex color.
type colorType struct{}

func (t *colorType) Kind() string { return "color" }

func (t *colorType) Validate(value any, def domain.FieldDefinition) []string {
	s := toString(value)
	if s == "" {
		if def.Required {
			return []string{requiredError(def)}
		}
		return nil
	}
	if !hexColorRe.MatchString(s) {
		return []string{fmt.Sprintf("%s must be a hex color like #1A2B3C", fieldName(def))}
	}
	return nil
}

// Sanitize normalizes to uppercase "#RRGGBB". Three-digit shorthand is
// expanded; anything unparseable falls back to the kind default.
func (t *colorType) Sanitize(value any) any {
	s := strings.TrimSpace(toString(value))
	if s == "" {
		return defaultColor
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) == 4 { // #abc → #aabbcc
		var b strings.Builder
		b.WriteByte('#')
		for _, c := range s[1:] {
			b.WriteRune(c)
			b.WriteRune(c)
		}
		s = b.String()
	}
	if !hexColorRe.MatchString(s) {
		return defaultColor
	}
	return strings.ToUpper(s)
}

func (t *colorType) Render(def domain.FieldDefinition, value any) *Render {
	r := baseRender("color", def, value)
	if r.Value == nil || toString(r.Value) == "" {
		r.Value = defaultColor
	}
	return r
}

func (t *colorType) Schema() Schema {
	return Schema{Kind: "color", ValueType: "string", Description: "Hex color (#RRGGBB)"}
}
