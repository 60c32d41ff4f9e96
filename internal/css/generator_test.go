package css_test

import (
	"strings"
	"testing"

	"pagecraft/internal/css"
)

func TestSelector(t *testing.T) {
	if got := css.Selector("widget", "abc123"); got != ".pc-widget-abc123" {
		t.Errorf("Selector = %q", got)
	}
}

func TestGenerate_BasicDeclarations(t *testing.T) {
	out := css.Generate(css.Request{
		Kind: "widget",
		ID:   "w1",
		Settings: map[string]any{
			"color":      "#FF0000",
			"text_align": "center",
			"padding":    map[string]any{"top": 10.0, "right": 5.0, "bottom": 10.0, "left": 5.0, "unit": "px"},
			"width":      map[string]any{"value": 50.0, "unit": "%"},
		},
	})

	for _, want := range []string{
		".pc-widget-w1 {",
		"width: 50%;",
		"color: #FF0000;",
		"padding: 10px 5px;",
		"text-align: center;",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestGenerate_SkipsUnknownAndBehaviorSettings(t *testing.T) {
	out := css.Generate(css.Request{
		Kind: "widget",
		ID:   "w1",
		Settings: map[string]any{
			"text":      "Hello",
			"link":      map[string]any{"url": "https://example.com"},
			"html_tag":  "h2",
			"animation": "fade",
		},
	})
	if out != "" {
		t.Errorf("behavior-only settings must produce no CSS, got:\n%s", out)
	}
}

func TestGenerate_Background(t *testing.T) {
	out := css.Generate(css.Request{
		Kind: "section",
		ID:   "s1",
		Settings: map[string]any{
			"background": map[string]any{
				"color": "#FFFFFF",
				"image": map[string]any{
					"url":      "/media/hero.jpg",
					"size":     "cover",
					"position": "center",
				},
			},
		},
	})
	for _, want := range []string{
		"background-color: #FFFFFF;",
		`background-image: url("/media/hero.jpg");`,
		"background-size: cover;",
		"background-position: center;",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestGenerate_Gradient(t *testing.T) {
	out := css.Generate(css.Request{
		Kind: "section",
		ID:   "s1",
		Settings: map[string]any{
			"background": map[string]any{
				"gradient": map[string]any{"from": "#000000", "to": "#FFFFFF", "angle": 90.0},
			},
		},
	})
	if !strings.Contains(out, "background: linear-gradient(90deg, #000000, #FFFFFF);") {
		t.Errorf("gradient missing:\n%s", out)
	}
}

func TestGenerate_TypographyAndBorder(t *testing.T) {
	out := css.Generate(css.Request{
		Kind: "widget",
		ID:   "w1",
		Settings: map[string]any{
			"typography": map[string]any{
				"font_family": "Inter",
				"font_size":   map[string]any{"value": 1.25, "unit": "rem"},
				"font_weight": "600",
			},
			"border": map[string]any{
				"width":  map[string]any{"value": 1.0, "unit": "px"},
				"style":  "solid",
				"color":  "#333333",
				"radius": map[string]any{"top": 4.0, "right": 4.0, "bottom": 4.0, "left": 4.0, "unit": "px"},
			},
		},
	})
	for _, want := range []string{
		"font-family: Inter;",
		"font-size: 1.25rem;",
		"font-weight: 600;",
		"border: 1px solid #333333;",
		"border-radius: 4px;",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestGenerate_Shadow(t *testing.T) {
	out := css.Generate(css.Request{
		Kind: "widget",
		ID:   "w1",
		Settings: map[string]any{
			"shadow": map[string]any{
				"x": 0.0, "y": 2.0, "blur": 8.0, "spread": 0.0,
				"color": "#00000040", "inset": false,
			},
		},
	})
	if !strings.Contains(out, "box-shadow: 0px 2px 8px 0px #00000040;") {
		t.Errorf("shadow missing:\n%s", out)
	}
}

func TestGenerate_ResponsiveBlocks(t *testing.T) {
	out := css.Generate(css.Request{
		Kind:     "section",
		ID:       "s1",
		Settings: map[string]any{"padding": "40px"},
		Responsive: map[string]map[string]any{
			"tablet": {"padding": "20px"},
			"mobile": {"padding": "10px"},
		},
	})

	if !strings.Contains(out, "@media (max-width: 1024px) {") {
		t.Errorf("tablet block missing:\n%s", out)
	}
	if !strings.Contains(out, "@media (max-width: 767px) {") {
		t.Errorf("mobile block missing:\n%s", out)
	}
	// Base rule comes first, then tablet, then mobile.
	base := strings.Index(out, ".pc-section-s1 {")
	tablet := strings.Index(out, "1024px")
	mobile := strings.Index(out, "767px")
	if !(base < tablet && tablet < mobile) {
		t.Errorf("blocks out of order:\n%s", out)
	}
}

func TestGenerate_StableOrder(t *testing.T) {
	req := css.Request{
		Kind: "widget",
		ID:   "w1",
		Settings: map[string]any{
			"margin":  "0px",
			"color":   "#111111",
			"width":   "100%",
			"padding": "8px",
		},
	}
	first := css.Generate(req)
	for i := 0; i < 10; i++ {
		if css.Generate(req) != first {
			t.Fatal("output order must not depend on map iteration")
		}
	}
	if !(strings.Index(first, "width:") < strings.Index(first, "color:") &&
		strings.Index(first, "color:") < strings.Index(first, "padding:")) {
		t.Errorf("fixed declaration order violated:\n%s", first)
	}
}

func TestGenerateBulk(t *testing.T) {
	out := css.GenerateBulk([]css.Request{
		{Kind: "section", ID: "s1", Settings: map[string]any{"padding": "24px"}},
		{Kind: "widget", ID: "w1", Settings: map[string]any{"color": "#222222"}},
		{Kind: "widget", ID: "w2", Settings: map[string]any{"note": "style-free"}},
	})
	if !strings.Contains(out, ".pc-section-s1") || !strings.Contains(out, ".pc-widget-w1") {
		t.Errorf("bulk output incomplete:\n%s", out)
	}
	if strings.Contains(out, "w2") {
		t.Errorf("style-free element should emit nothing:\n%s", out)
	}
}
