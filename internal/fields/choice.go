package fields

import (
	"fmt"

	"pagecraft/internal/domain"
)

// choiceType covers "select", "radio" and icon-button "choose" fields:
// a single value constrained to the declared option keys.
type choiceType struct {
	kind string
}

func (t *choiceType) Kind() string { return t.kind }

func (t *choiceType) Validate(value any, def domain.FieldDefinition) []string {
	s := toString(value)
	if s == "" {
		if def.Required {
			return []string{requiredError(def)}
		}
		return nil
	}
	if len(def.Options) == 0 {
		return nil
	}
	if _, ok := def.Options[s]; !ok {
		return []string{fmt.Sprintf("%s has no option %q", fieldName(def), s)}
	}
	return nil
}

func (t *choiceType) Sanitize(value any) any {
	return toString(value)
}

func (t *choiceType) Render(def domain.FieldDefinition, value any) *Render {
	return baseRender(t.kind, def, value)
}

func (t *choiceType) Schema() Schema {
	return Schema{Kind: t.kind, ValueType: "string", Description: "Single choice among declared options"}
}

// toggleType is a boolean switch. Sanitize applies the wire format's
// truthy coercion set.
type toggleType struct{}

func (t *toggleType) Kind() string { return "toggle" }

func (t *toggleType) Validate(value any, def domain.FieldDefinition) []string {
	if def.Required && value == nil {
		return []string{requiredError(def)}
	}
	return nil
}

func (t *toggleType) Sanitize(value any) any {
	if value == nil {
		return false
	}
	return toBool(value)
}

func (t *toggleType) Render(def domain.FieldDefinition, value any) *Render {
	r := baseRender("toggle", def, value)
	if r.Value == nil {
		r.Value = false
	}
	return r
}

func (t *toggleType) Schema() Schema {
	return Schema{Kind: "toggle", ValueType: "bool", Description: "Boolean on/off switch"}
}
