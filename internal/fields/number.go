package fields

import (
	"fmt"
	"math"
	"strings"

	"pagecraft/internal/domain"
)

// numberType covers "number" and its slider presentation. Both share
// min/max/step semantics.
type numberType struct {
	kind string
}

func (t *numberType) Kind() string { return t.kind }

func (t *numberType) Validate(value any, def domain.FieldDefinition) []string {
	var errs []string
	if value == nil || value == "" {
		if def.Required {
			errs = append(errs, requiredError(def))
		}
		return errs
	}
	name := fieldName(def)
	n, ok := toFloat(value)
	if !ok {
		return []string{fmt.Sprintf("%s must be a number", name)}
	}
	if def.Rules.Min != nil && n < *def.Rules.Min {
		errs = append(errs, fmt.Sprintf("%s must be at least %s", name, trimFloat(*def.Rules.Min)))
	}
	if def.Rules.Max != nil && n > *def.Rules.Max {
		errs = append(errs, fmt.Sprintf("%s must be at most %s", name, trimFloat(*def.Rules.Max)))
	}
	if def.Rules.Step != nil && *def.Rules.Step > 0 {
		base := 0.0
		if def.Rules.Min != nil {
			base = *def.Rules.Min
		}
		rem := math.Mod(n-base, *def.Rules.Step)
		// Tolerate float drift on either side of a step boundary.
		if math.Abs(rem) > 1e-9 && math.Abs(rem-*def.Rules.Step) > 1e-9 {
			errs = append(errs, fmt.Sprintf("%s must be a multiple of %s", name, trimFloat(*def.Rules.Step)))
		}
	}
	return errs
}

// Sanitize coerces numeric strings, preserving int vs float: "42" stays
// an int-valued number, "4.2" a float.
func (t *numberType) Sanitize(value any) any {
	switch n := value.(type) {
	case int, int64, float64, float32:
		return normalizeNumber(n)
	case string:
		f, ok := toFloat(n)
		if !ok {
			return value
		}
		return normalizeNumber(f)
	default:
		return value
	}
}

func (t *numberType) Render(def domain.FieldDefinition, value any) *Render {
	r := baseRender(t.kind, def, value)
	r.Constraints = constraints(def.Rules)
	return r
}

func (t *numberType) Schema() Schema {
	return Schema{Kind: t.kind, ValueType: "number", Description: "Numeric input with min/max/step constraints"}
}

// normalizeNumber collapses whole floats to ints so the wire format does
// not grow spurious ".0" suffixes.
func normalizeNumber(v any) any {
	f, _ := toFloat(v)
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return int(f)
	}
	return f
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%g", f)
	return strings.TrimSuffix(s, ".0")
}
