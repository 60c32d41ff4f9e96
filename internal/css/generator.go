// Package css turns stored settings objects into stylesheet text for
// the live preview. It understands the value shapes the field types
// sanitize into (dimension, spacing, typography, background, border,
// shadow) and emits one rule block per element, plus media-query
// blocks for tablet and mobile overrides.
package css

import (
	"fmt"
	"strconv"
	"strings"

	"pagecraft/internal/fields"
)

// Breakpoint widths shared with the frontend's preview frames.
const (
	TabletMaxWidth = 1024
	MobileMaxWidth = 767
)

// Request describes one element to generate CSS for.
type Request struct {
	Kind       string                    `json:"kind"` // widget, section, column
	ID         string                    `json:"id"`
	WidgetType string                    `json:"widget_type,omitempty"`
	Settings   map[string]any            `json:"settings"`
	Responsive map[string]map[string]any `json:"responsive,omitempty"` // keyed tablet, mobile
}

// Selector derives the element's stylesheet selector from its kind and
// id, matching the class names the renderer stamps on each node.
func Selector(kind, id string) string {
	return fmt.Sprintf(".pc-%s-%s", kind, id)
}

// Generate renders the full CSS for one element: the base rule followed
// by tablet and mobile media blocks when responsive overrides exist.
// Settings with no known style mapping are skipped, so widget-specific
// behavior settings never leak into the stylesheet.
func Generate(req Request) string {
	var b strings.Builder
	writeRule(&b, Selector(req.Kind, req.ID), req.Settings)
	writeBreakpoint(&b, req, "tablet", TabletMaxWidth)
	writeBreakpoint(&b, req, "mobile", MobileMaxWidth)
	return b.String()
}

// GenerateBulk concatenates the CSS for many elements in order. Used
// for the initial render of a loaded page, one request per styled node.
func GenerateBulk(reqs []Request) string {
	var b strings.Builder
	for _, req := range reqs {
		css := Generate(req)
		if css == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(css)
	}
	return b.String()
}

func writeBreakpoint(b *strings.Builder, req Request, name string, maxWidth int) {
	settings := req.Responsive[name]
	if len(settings) == 0 {
		return
	}
	var inner strings.Builder
	writeRule(&inner, Selector(req.Kind, req.ID), settings)
	if inner.Len() == 0 {
		return
	}
	fmt.Fprintf(b, "@media (max-width: %dpx) {\n", maxWidth)
	for _, line := range strings.Split(strings.TrimRight(inner.String(), "\n"), "\n") {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("}\n")
}

func writeRule(b *strings.Builder, selector string, settings map[string]any) {
	decls := declarations(settings)
	if len(decls) == 0 {
		return
	}
	b.WriteString(selector + " {\n")
	for _, d := range decls {
		b.WriteString("  " + d + ";\n")
	}
	b.WriteString("}\n")
}

// declOrder fixes the emission order so generated output is stable
// across runs regardless of map iteration.
var declOrder = []string{
	"width", "height", "max_width", "min_height",
	"color", "background", "typography",
	"padding", "margin", "border", "shadow",
	"text_align", "vertical_align", "opacity", "z_index",
}

func declarations(settings map[string]any) []string {
	var out []string
	for _, key := range declOrder {
		v, ok := settings[key]
		if !ok || v == nil {
			continue
		}
		out = append(out, declare(key, v)...)
	}
	return out
}

func declare(key string, v any) []string {
	switch key {
	case "width", "height":
		if s := lengthValue(v); s != "" {
			return []string{key + ": " + s}
		}
	case "max_width":
		if s := lengthValue(v); s != "" {
			return []string{"max-width: " + s}
		}
	case "min_height":
		if s := lengthValue(v); s != "" {
			return []string{"min-height: " + s}
		}
	case "color":
		if s := stringValue(v); s != "" {
			return []string{"color: " + s}
		}
	case "background":
		return backgroundDecls(v)
	case "typography":
		return typographyDecls(v)
	case "padding", "margin":
		if m, ok := v.(map[string]any); ok {
			return []string{key + ": " + fields.FormatSpacing(fields.SpacingFromMap(m))}
		}
		if s := stringValue(v); s != "" {
			return []string{key + ": " + s}
		}
	case "border":
		return borderDecls(v)
	case "shadow":
		return shadowDecls(v)
	case "text_align":
		if s := stringValue(v); s != "" {
			return []string{"text-align: " + s}
		}
	case "vertical_align":
		if s := stringValue(v); s != "" {
			return []string{"align-items: " + s}
		}
	case "opacity":
		if f, ok := floatValue(v); ok {
			return []string{"opacity: " + formatFloat(f)}
		}
	case "z_index":
		if f, ok := floatValue(v); ok {
			return []string{"z-index: " + formatFloat(f)}
		}
	}
	return nil
}

func backgroundDecls(v any) []string {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	var out []string
	if c := stringValue(m["color"]); c != "" {
		out = append(out, "background-color: "+c)
	}
	if img, ok := m["image"].(map[string]any); ok {
		if url := stringValue(img["url"]); url != "" {
			out = append(out, fmt.Sprintf("background-image: url(%q)", url))
			if p := stringValue(img["position"]); p != "" {
				out = append(out, "background-position: "+p)
			}
			if r := stringValue(img["repeat"]); r != "" {
				out = append(out, "background-repeat: "+r)
			}
			if s := stringValue(img["size"]); s != "" {
				out = append(out, "background-size: "+s)
			}
		}
	}
	if g, ok := m["gradient"].(map[string]any); ok {
		from, to := stringValue(g["from"]), stringValue(g["to"])
		if from != "" && to != "" {
			angle := 180.0
			if a, ok := floatValue(g["angle"]); ok {
				angle = a
			}
			out = append(out, fmt.Sprintf("background: linear-gradient(%sdeg, %s, %s)",
				formatFloat(angle), from, to))
		}
	}
	return out
}

var typographyProps = []struct{ key, prop string }{
	{"font_family", "font-family"},
	{"font_size", "font-size"},
	{"font_weight", "font-weight"},
	{"font_style", "font-style"},
	{"line_height", "line-height"},
	{"letter_spacing", "letter-spacing"},
	{"text_transform", "text-transform"},
	{"text_decoration", "text-decoration"},
}

func typographyDecls(v any) []string {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	var out []string
	for _, p := range typographyProps {
		val, ok := m[p.key]
		if !ok || val == nil {
			continue
		}
		var s string
		switch p.key {
		case "font_size", "line_height", "letter_spacing":
			s = lengthValue(val)
		default:
			s = stringValue(val)
		}
		if s != "" {
			out = append(out, p.prop+": "+s)
		}
	}
	return out
}

func borderDecls(v any) []string {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	var out []string
	width := lengthValue(m["width"])
	style := stringValue(m["style"])
	color := stringValue(m["color"])
	if width != "" && style != "" {
		border := width + " " + style
		if color != "" {
			border += " " + color
		}
		out = append(out, "border: "+border)
	}
	if r, ok := m["radius"].(map[string]any); ok {
		out = append(out, "border-radius: "+cornerRadius(fields.SpacingFromMap(r)))
	} else if r := stringValue(m["radius"]); r != "" {
		out = append(out, "border-radius: "+r)
	}
	return out
}

// cornerRadius reuses the spacing shape for the four corners in
// top-left, top-right, bottom-right, bottom-left order.
func cornerRadius(sp fields.Spacing) string {
	return fields.FormatSpacing(fields.Spacing{
		Top: sp.Top, Right: sp.Right, Bottom: sp.Bottom, Left: sp.Left, Unit: sp.Unit,
	})
}

func shadowDecls(v any) []string {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	x, _ := floatValue(m["x"])
	y, _ := floatValue(m["y"])
	blur, _ := floatValue(m["blur"])
	spread, _ := floatValue(m["spread"])
	color := stringValue(m["color"])
	if color == "" {
		color = "rgba(0, 0, 0, 0.25)"
	}
	shadow := fmt.Sprintf("%spx %spx %spx %spx %s",
		formatFloat(x), formatFloat(y), formatFloat(blur), formatFloat(spread), color)
	if inset, ok := m["inset"].(bool); ok && inset {
		shadow = "inset " + shadow
	}
	return []string{"box-shadow: " + shadow}
}

// lengthValue accepts the stored {value, unit} object, a raw number
// (treated as px), or a preformatted string.
func lengthValue(v any) string {
	switch t := v.(type) {
	case map[string]any:
		val, ok := floatValue(t["value"])
		if !ok {
			return ""
		}
		unit := stringValue(t["unit"])
		if unit == "" {
			unit = "px"
		}
		return formatFloat(val) + unit
	case string:
		return strings.TrimSpace(t)
	default:
		if f, ok := floatValue(v); ok {
			return formatFloat(f) + "px"
		}
	}
	return ""
}

func stringValue(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func floatValue(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
