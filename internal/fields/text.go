package fields

import (
	"fmt"
	"regexp"
	"strings"

	"pagecraft/internal/domain"
)

// textType covers single-line "text" and multiline "textarea" fields.
type textType struct {
	kind      string
	multiline bool
}

func (t *textType) Kind() string { return t.kind }

func (t *textType) Validate(value any, def domain.FieldDefinition) []string {
	var errs []string
	s, isString := value.(string)
	if value == nil || (isString && s == "") {
		if def.Required {
			errs = append(errs, requiredError(def))
		}
		return errs
	}
	if !isString {
		s = toString(value)
	}
	name := fieldName(def)
	if def.Rules.MinLength != nil && len(s) < *def.Rules.MinLength {
		errs = append(errs, fmt.Sprintf("%s must be at least %d characters", name, *def.Rules.MinLength))
	}
	if def.Rules.MaxLength != nil && len(s) > *def.Rules.MaxLength {
		errs = append(errs, fmt.Sprintf("%s must be at most %d characters", name, *def.Rules.MaxLength))
	}
	if def.Rules.Pattern != "" {
		re, err := regexp.Compile(def.Rules.Pattern)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s has an invalid pattern rule", name))
		} else if !re.MatchString(s) {
			errs = append(errs, fmt.Sprintf("%s does not match the required format", name))
		}
	}
	return errs
}

// Sanitize trims surrounding whitespace and strips null bytes. Textarea
// values keep interior newlines.
func (t *textType) Sanitize(value any) any {
	s := toString(value)
	s = strings.ReplaceAll(s, "\x00", "")
	if t.multiline {
		return strings.Trim(s, " \t")
	}
	return strings.TrimSpace(s)
}

func (t *textType) Render(def domain.FieldDefinition, value any) *Render {
	r := baseRender(t.kind, def, value)
	r.Constraints = constraints(def.Rules)
	return r
}

func (t *textType) Schema() Schema {
	desc := "Single-line text input"
	if t.multiline {
		desc = "Multi-line text input"
	}
	return Schema{Kind: t.kind, ValueType: "string", Description: desc}
}

// richTextType stores HTML produced by the frontend editor. Sanitizing
// keeps markup intact and only strips null bytes; the rendering layer is
// responsible for output escaping.
type richTextType struct{}

func (t *richTextType) Kind() string { return "richtext" }

func (t *richTextType) Validate(value any, def domain.FieldDefinition) []string {
	if def.Required {
		if s := toString(value); strings.TrimSpace(s) == "" {
			return []string{requiredError(def)}
		}
	}
	return nil
}

func (t *richTextType) Sanitize(value any) any {
	return strings.ReplaceAll(toString(value), "\x00", "")
}

func (t *richTextType) Render(def domain.FieldDefinition, value any) *Render {
	return baseRender("richtext", def, value)
}

func (t *richTextType) Schema() Schema {
	return Schema{Kind: "richtext", ValueType: "string", Description: "Rich text (HTML) content"}
}
