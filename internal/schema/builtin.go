package schema

import "pagecraft/internal/domain"

// Builtin returns the widget schemas shipped with the editor. Custom
// widgets loaded from YAML extend — and may shadow — this set.
func Builtin() []*domain.WidgetSchema {
	return []*domain.WidgetSchema{
		headingSchema(),
		textSchema(),
		imageSchema(),
		buttonSchema(),
		dividerSchema(),
		spacerSchema(),
		videoSchema(),
		iconSchema(),
		listSchema(),
		quoteSchema(),
		embedSchema(),
		sectionSchema(),
		columnSchema(),
	}
}

// ── field shorthands ───────────────────────────────────────

func f(name, kind, label string) domain.FieldDefinition {
	return domain.FieldDefinition{Name: name, Type: kind, Label: label}
}

func fDefault(name, kind, label string, def any) domain.FieldDefinition {
	return domain.FieldDefinition{Name: name, Type: kind, Label: label, Default: def}
}

func fSelect(name, label string, def string, options map[string]string) domain.FieldDefinition {
	return domain.FieldDefinition{Name: name, Type: "select", Label: label, Default: def, Options: options}
}

var alignOptions = map[string]string{
	"left": "Left", "center": "Center", "right": "Right", "justify": "Justify",
}

func styleGroup() []domain.FieldDefinition {
	return []domain.FieldDefinition{
		f("color", "color", "Text Color"),
		f("background", "background", "Background"),
		f("typography", "typography", "Typography"),
		f("padding", "spacing", "Padding"),
		f("margin", "spacing", "Margin"),
		f("border", "border", "Border"),
		f("shadow", "shadow", "Shadow"),
		fSelect("text_align", "Alignment", "", alignOptions),
	}
}

func advancedGroup() []domain.FieldDefinition {
	return []domain.FieldDefinition{
		f("css_id", "text", "CSS ID"),
		f("css_classes", "text", "CSS Classes"),
		fDefault("hide_on_mobile", "toggle", "Hide on Mobile", false),
		fDefault("hide_on_tablet", "toggle", "Hide on Tablet", false),
		f("z_index", "number", "Z-Index"),
	}
}

// ── widgets ────────────────────────────────────────────────

func headingSchema() *domain.WidgetSchema {
	return &domain.WidgetSchema{
		Type: "heading", Kind: "widget", Label: "Heading", Icon: "type", Version: "1.0",
		General: []domain.FieldDefinition{
			fDefault("text", "text", "Text", "Heading"),
			fSelect("html_tag", "HTML Tag", "h2", map[string]string{
				"h1": "H1", "h2": "H2", "h3": "H3", "h4": "H4", "h5": "H5", "h6": "H6",
			}),
			f("link", "link", "Link"),
		},
		Style:    styleGroup(),
		Advanced: advancedGroup(),
	}
}

func textSchema() *domain.WidgetSchema {
	return &domain.WidgetSchema{
		Type: "text", Kind: "widget", Label: "Text", Icon: "align-left", Version: "1.0",
		General: []domain.FieldDefinition{
			fDefault("content", "richtext", "Content", "<p>Your text here.</p>"),
			fDefault("drop_cap", "toggle", "Drop Cap", false),
		},
		Style:    styleGroup(),
		Advanced: advancedGroup(),
	}
}

func imageSchema() *domain.WidgetSchema {
	return &domain.WidgetSchema{
		Type: "image", Kind: "widget", Label: "Image", Icon: "image", Version: "1.0",
		General: []domain.FieldDefinition{
			f("source", "media", "Image"),
			f("alt", "text", "Alt Text"),
			f("caption", "text", "Caption"),
			f("link", "link", "Link"),
			fSelect("size", "Size", "full", map[string]string{
				"thumbnail": "Thumbnail", "medium": "Medium", "large": "Large", "full": "Full",
			}),
		},
		Style: []domain.FieldDefinition{
			f("width", "dimension", "Width"),
			f("max_width", "dimension", "Max Width"),
			f("padding", "spacing", "Padding"),
			f("margin", "spacing", "Margin"),
			f("border", "border", "Border"),
			f("shadow", "shadow", "Shadow"),
			fDefault("opacity", "slider", "Opacity", 1.0),
		},
		Advanced: advancedGroup(),
	}
}

func buttonSchema() *domain.WidgetSchema {
	return &domain.WidgetSchema{
		Type: "button", Kind: "widget", Label: "Button", Icon: "square", Version: "1.0",
		General: []domain.FieldDefinition{
			fDefault("text", "text", "Text", "Click here"),
			f("link", "link", "Link"),
			f("icon", "icon", "Icon"),
			fSelect("icon_position", "Icon Position", "left", map[string]string{
				"left": "Left", "right": "Right",
			}),
		},
		Style:    styleGroup(),
		Advanced: advancedGroup(),
	}
}

func dividerSchema() *domain.WidgetSchema {
	return &domain.WidgetSchema{
		Type: "divider", Kind: "widget", Label: "Divider", Icon: "minus", Version: "1.0",
		General: []domain.FieldDefinition{
			fSelect("style", "Style", "solid", map[string]string{
				"solid": "Solid", "dashed": "Dashed", "dotted": "Dotted", "double": "Double",
			}),
			fDefault("weight", "number", "Weight", 1),
			fDefault("width", "slider", "Width %", 100.0),
		},
		Style: []domain.FieldDefinition{
			fDefault("color", "color", "Color", "#DDDDDD"),
			f("margin", "spacing", "Margin"),
		},
		Advanced: advancedGroup(),
	}
}

func spacerSchema() *domain.WidgetSchema {
	return &domain.WidgetSchema{
		Type: "spacer", Kind: "widget", Label: "Spacer", Icon: "move-vertical", Version: "1.0",
		General: []domain.FieldDefinition{
			fDefault("height", "dimension", "Height", map[string]any{"value": 40.0, "unit": "px"}),
		},
		Advanced: advancedGroup(),
	}
}

func videoSchema() *domain.WidgetSchema {
	return &domain.WidgetSchema{
		Type: "video", Kind: "widget", Label: "Video", Icon: "video", Version: "1.0",
		General: []domain.FieldDefinition{
			f("url", "text", "Video URL"),
			fDefault("autoplay", "toggle", "Autoplay", false),
			fDefault("loop", "toggle", "Loop", false),
			fDefault("muted", "toggle", "Muted", false),
			fDefault("controls", "toggle", "Show Controls", true),
		},
		Style: []domain.FieldDefinition{
			f("width", "dimension", "Width"),
			f("margin", "spacing", "Margin"),
			f("border", "border", "Border"),
		},
		Advanced: advancedGroup(),
	}
}

func iconSchema() *domain.WidgetSchema {
	return &domain.WidgetSchema{
		Type: "icon", Kind: "widget", Label: "Icon", Icon: "star", Version: "1.0",
		General: []domain.FieldDefinition{
			fDefault("icon", "icon", "Icon", "star"),
			f("link", "link", "Link"),
		},
		Style: []domain.FieldDefinition{
			fDefault("color", "color", "Color", "#333333"),
			fDefault("size", "dimension", "Size", map[string]any{"value": 24.0, "unit": "px"}),
			f("padding", "spacing", "Padding"),
			fSelect("text_align", "Alignment", "center", alignOptions),
		},
		Advanced: advancedGroup(),
	}
}

func listSchema() *domain.WidgetSchema {
	return &domain.WidgetSchema{
		Type: "list", Kind: "widget", Label: "List", Icon: "list", Version: "1.0",
		General: []domain.FieldDefinition{
			{
				Name: "items", Type: "repeater", Label: "Items",
				Fields: []domain.FieldDefinition{
					f("text", "text", "Text"),
					f("icon", "icon", "Icon"),
					f("link", "link", "Link"),
				},
				Rules: domain.ValidationRules{MinItems: intp(1)},
			},
			fSelect("marker", "Marker", "disc", map[string]string{
				"disc": "Bullet", "decimal": "Numbered", "none": "None", "icon": "Icon",
			}),
		},
		Style:    styleGroup(),
		Advanced: advancedGroup(),
	}
}

func quoteSchema() *domain.WidgetSchema {
	return &domain.WidgetSchema{
		Type: "quote", Kind: "widget", Label: "Quote", Icon: "quote", Version: "1.0",
		General: []domain.FieldDefinition{
			f("text", "textarea", "Quote"),
			f("cite", "text", "Citation"),
		},
		Style:    styleGroup(),
		Advanced: advancedGroup(),
	}
}

func embedSchema() *domain.WidgetSchema {
	return &domain.WidgetSchema{
		Type: "embed", Kind: "widget", Label: "Embed", Icon: "code", Version: "1.0",
		General: []domain.FieldDefinition{
			f("html", "textarea", "HTML"),
		},
		Style: []domain.FieldDefinition{
			f("padding", "spacing", "Padding"),
			f("margin", "spacing", "Margin"),
		},
		Advanced: advancedGroup(),
	}
}

// ── structural elements ────────────────────────────────────

func sectionSchema() *domain.WidgetSchema {
	return &domain.WidgetSchema{
		Type: "section", Kind: "section", Label: "Section", Icon: "layout", Version: "1.0",
		Style: []domain.FieldDefinition{
			f("background", "background", "Background"),
			fDefault("padding", "spacing", "Padding", map[string]any{
				"top": 40.0, "right": 0.0, "bottom": 40.0, "left": 0.0, "unit": "px",
			}),
			f("margin", "spacing", "Margin"),
			f("min_height", "dimension", "Min Height"),
			fSelect("content_width", "Content Width", "boxed", map[string]string{
				"boxed": "Boxed", "full": "Full Width",
			}),
			f("border", "border", "Border"),
		},
		Advanced: advancedGroup(),
	}
}

func columnSchema() *domain.WidgetSchema {
	return &domain.WidgetSchema{
		Type: "column", Kind: "container", Label: "Column", Icon: "columns", Version: "1.0",
		Style: []domain.FieldDefinition{
			f("background", "background", "Background"),
			f("padding", "spacing", "Padding"),
			fSelect("vertical_align", "Vertical Align", "flex-start", map[string]string{
				"flex-start": "Top", "center": "Middle", "flex-end": "Bottom",
			}),
			f("border", "border", "Border"),
		},
		Advanced: advancedGroup(),
	}
}

func intp(i int) *int { return &i }
