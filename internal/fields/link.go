package fields

import (
	"fmt"
	"net/url"
	"strings"

	"pagecraft/internal/domain"
)

// linkType stores {url, target, rel, nofollow}.
type linkType struct{}

func (t *linkType) Kind() string { return "link" }

func (t *linkType) Validate(value any, def domain.FieldDefinition) []string {
	m, raw := linkValue(value)
	if raw == "" {
		if def.Required {
			return []string{requiredError(def)}
		}
		return nil
	}
	name := fieldName(def)
	// Relative links and anchors are fine; only absolute URLs get parsed.
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https" && u.Scheme != "mailto") {
			return []string{fmt.Sprintf("%s must be a valid http(s) URL", name)}
		}
	}
	if m != nil {
		if tg := toString(m["target"]); tg != "" && tg != "_self" && tg != "_blank" {
			return []string{fmt.Sprintf("%s: unknown link target %q", name, tg)}
		}
	}
	return nil
}

func (t *linkType) Sanitize(value any) any {
	m, raw := linkValue(value)
	out := map[string]any{
		"url":      strings.TrimSpace(strings.ReplaceAll(raw, "\x00", "")),
		"target":   "_self",
		"nofollow": false,
	}
	if m != nil {
		if tg := toString(m["target"]); tg == "_blank" {
			out["target"] = "_blank"
		}
		if rel := toString(m["rel"]); rel != "" {
			out["rel"] = rel
		}
		out["nofollow"] = toBool(m["nofollow"])
	}
	return out
}

func (t *linkType) Render(def domain.FieldDefinition, value any) *Render {
	return baseRender("link", def, value)
}

func (t *linkType) Schema() Schema {
	return Schema{
		Kind:      "link",
		ValueType: "object",
		Properties: map[string]string{
			"url": "string", "target": "string", "rel": "string", "nofollow": "bool",
		},
	}
}

// linkValue accepts either a bare URL string or the stored object form.
func linkValue(value any) (map[string]any, string) {
	switch v := value.(type) {
	case string:
		return nil, v
	case map[string]any:
		return v, toString(v["url"])
	default:
		return nil, ""
	}
}

// iconType stores {library, name}.
type iconType struct{}

func (t *iconType) Kind() string { return "icon" }

func (t *iconType) Validate(value any, def domain.FieldDefinition) []string {
	if value == nil {
		if def.Required {
			return []string{requiredError(def)}
		}
		return nil
	}
	m := toMap(value)
	if m == nil {
		if _, ok := value.(string); ok {
			return nil
		}
		return []string{fmt.Sprintf("%s must be an icon reference", fieldName(def))}
	}
	if def.Required && toString(m["name"]) == "" {
		return []string{requiredError(def)}
	}
	return nil
}

func (t *iconType) Sanitize(value any) any {
	switch v := value.(type) {
	case string:
		return map[string]any{"library": "default", "name": strings.TrimSpace(v)}
	case map[string]any:
		lib := toString(v["library"])
		if lib == "" {
			lib = "default"
		}
		return map[string]any{"library": lib, "name": strings.TrimSpace(toString(v["name"]))}
	default:
		return value
	}
}

func (t *iconType) Render(def domain.FieldDefinition, value any) *Render {
	return baseRender("icon", def, value)
}

func (t *iconType) Schema() Schema {
	return Schema{
		Kind:       "icon",
		ValueType:  "object",
		Properties: map[string]string{"library": "string", "name": "string"},
	}
}

// mediaType stores {id, url, alt} for images and video posters.
type mediaType struct{}

func (t *mediaType) Kind() string { return "media" }

func (t *mediaType) Validate(value any, def domain.FieldDefinition) []string {
	if value == nil {
		if def.Required {
			return []string{requiredError(def)}
		}
		return nil
	}
	m := toMap(value)
	if m == nil {
		return []string{fmt.Sprintf("%s must be a media reference", fieldName(def))}
	}
	if def.Required && toString(m["url"]) == "" && toString(m["id"]) == "" {
		return []string{requiredError(def)}
	}
	return nil
}

func (t *mediaType) Sanitize(value any) any {
	m := toMap(value)
	if m == nil {
		return value
	}
	return map[string]any{
		"id":  toString(m["id"]),
		"url": strings.TrimSpace(toString(m["url"])),
		"alt": strings.ReplaceAll(toString(m["alt"]), "\x00", ""),
	}
}

func (t *mediaType) Render(def domain.FieldDefinition, value any) *Render {
	return baseRender("media", def, value)
}

func (t *mediaType) Schema() Schema {
	return Schema{
		Kind:       "media",
		ValueType:  "object",
		Properties: map[string]string{"id": "string", "url": "string", "alt": "string"},
	}
}
