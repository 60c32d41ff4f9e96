package fields_test

import (
	"reflect"
	"testing"

	"pagecraft/internal/domain"
	"pagecraft/internal/fields"
)

func TestRegistry_UnknownKind(t *testing.T) {
	r := fields.NewRegistry()

	errs := r.Validate("x", domain.FieldDefinition{Name: "mystery", Type: "hologram"})
	if len(errs) != 1 {
		t.Fatalf("expected 1 error for unknown kind, got %v", errs)
	}

	if got := r.Sanitize("hologram", "as-is"); got != "as-is" {
		t.Errorf("sanitize of unknown kind should return input unchanged, got %v", got)
	}
	if got := r.Render(domain.FieldDefinition{Type: "hologram"}, "x"); got != nil {
		t.Errorf("render of unknown kind should return nil, got %v", got)
	}
}

func TestRegistry_DuplicateRegistrationPanics(t *testing.T) {
	r := fields.NewRegistry()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	// "color" is a builtin; re-registering any builtin must panic. Reuse
	// the registry's own implementation to trigger the collision.
	impl, _ := r.Lookup("color")
	r.Register(impl)
}

func TestColorSanitize(t *testing.T) {
	r := fields.NewRegistry()

	if got := r.Sanitize("color", "ff0000"); got != "#FF0000" {
		t.Errorf(`sanitize("ff0000") = %v, want "#FF0000"`, got)
	}
	if got := r.Sanitize("color", "not-a-color"); got != "#000000" {
		t.Errorf(`sanitize("not-a-color") = %v, want "#000000"`, got)
	}
	if got := r.Sanitize("color", "#abc"); got != "#AABBCC" {
		t.Errorf(`sanitize("#abc") = %v, want "#AABBCC"`, got)
	}
}

func TestColorValidate(t *testing.T) {
	r := fields.NewRegistry()
	def := domain.FieldDefinition{Name: "text_color", Type: "color"}

	if errs := r.Validate("#1A2B3C", def); len(errs) != 0 {
		t.Errorf("valid color rejected: %v", errs)
	}
	if errs := r.Validate("#1A2B3", def); len(errs) != 1 {
		t.Errorf("five-digit color should fail, got %v", errs)
	}
}

func TestNumberValidate_MinMaxStep(t *testing.T) {
	r := fields.NewRegistry()
	min, max, step := 0.0, 100.0, 0.5
	def := domain.FieldDefinition{
		Name: "opacity", Type: "number",
		Rules: domain.ValidationRules{Min: &min, Max: &max, Step: &step},
	}

	if errs := r.Validate(42.5, def); len(errs) != 0 {
		t.Errorf("42.5 should pass, got %v", errs)
	}
	if errs := r.Validate(42.3, def); len(errs) != 1 {
		t.Errorf("42.3 violates step 0.5, got %v", errs)
	}
	if errs := r.Validate(-1, def); len(errs) != 1 {
		t.Errorf("-1 violates min, got %v", errs)
	}
	if errs := r.Validate(101, def); len(errs) != 1 {
		t.Errorf("101 violates max, got %v", errs)
	}
	if errs := r.Validate("nope", def); len(errs) != 1 {
		t.Errorf("non-number should fail once, got %v", errs)
	}
}

func TestNumberSanitize_PreservesIntVsFloat(t *testing.T) {
	r := fields.NewRegistry()

	if got := r.Sanitize("number", "42"); got != 42 {
		t.Errorf(`sanitize("42") = %v (%T), want int 42`, got, got)
	}
	if got := r.Sanitize("number", "4.2"); got != 4.2 {
		t.Errorf(`sanitize("4.2") = %v, want 4.2`, got)
	}
	if got := r.Sanitize("number", 7.0); got != 7 {
		t.Errorf("sanitize(7.0) = %v (%T), want int 7", got, got)
	}
}

func TestTextSanitize(t *testing.T) {
	r := fields.NewRegistry()

	if got := r.Sanitize("text", "  hello\x00world  "); got != "helloworld" {
		t.Errorf("text sanitize = %q", got)
	}
}

func TestToggleSanitize_TruthySet(t *testing.T) {
	r := fields.NewRegistry()
	for _, v := range []any{true, 1, "1", "yes", "on"} {
		if got := r.Sanitize("toggle", v); got != true {
			t.Errorf("sanitize(%v) = %v, want true", v, got)
		}
	}
	for _, v := range []any{false, 0, "no", "off", ""} {
		if got := r.Sanitize("toggle", v); got != false {
			t.Errorf("sanitize(%v) = %v, want false", v, got)
		}
	}
}

func TestSelectValidate_Membership(t *testing.T) {
	r := fields.NewRegistry()
	def := domain.FieldDefinition{
		Name: "align", Type: "select",
		Options: map[string]string{"left": "Left", "center": "Center", "right": "Right"},
	}

	if errs := r.Validate("center", def); len(errs) != 0 {
		t.Errorf("member value rejected: %v", errs)
	}
	if errs := r.Validate("justify", def); len(errs) != 1 {
		t.Errorf("non-member should fail, got %v", errs)
	}
}

func TestSpacingShorthandRoundTrip(t *testing.T) {
	cases := []struct {
		in   string
		want fields.Spacing
		out  string
	}{
		{"10px", fields.Spacing{Top: 10, Right: 10, Bottom: 10, Left: 10, Unit: "px"}, "10px"},
		{"10px 5px", fields.Spacing{Top: 10, Right: 5, Bottom: 10, Left: 5, Unit: "px"}, "10px 5px"},
		{"10px 5px 2px", fields.Spacing{Top: 10, Right: 5, Bottom: 2, Left: 5, Unit: "px"}, "10px 5px 2px"},
		{"1px 2px 3px 4px", fields.Spacing{Top: 1, Right: 2, Bottom: 3, Left: 4, Unit: "px"}, "1px 2px 3px 4px"},
		{"10px 5px 10px 5px", fields.Spacing{Top: 10, Right: 5, Bottom: 10, Left: 5, Unit: "px"}, "10px 5px"},
		{"1.5em", fields.Spacing{Top: 1.5, Right: 1.5, Bottom: 1.5, Left: 1.5, Unit: "em"}, "1.5em"},
	}
	for _, tc := range cases {
		sp, err := fields.ParseSpacing(tc.in)
		if err != nil {
			t.Errorf("ParseSpacing(%q): %v", tc.in, err)
			continue
		}
		if sp != tc.want {
			t.Errorf("ParseSpacing(%q) = %+v, want %+v", tc.in, sp, tc.want)
		}
		if got := fields.FormatSpacing(sp); got != tc.out {
			t.Errorf("FormatSpacing(ParseSpacing(%q)) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestParseSpacing_Errors(t *testing.T) {
	for _, in := range []string{"", "1px 2px 3px 4px 5px", "10px 2em", "banana"} {
		if _, err := fields.ParseSpacing(in); err == nil {
			t.Errorf("ParseSpacing(%q) should fail", in)
		}
	}
}

func TestRepeaterValidate(t *testing.T) {
	r := fields.NewRegistry()
	min, max := 1, 3
	def := domain.FieldDefinition{
		Name: "slides", Type: "repeater",
		Rules: domain.ValidationRules{MinItems: &min, MaxItems: &max},
		Fields: []domain.FieldDefinition{
			{Name: "title", Type: "text", Required: true},
			{Name: "tint", Type: "color"},
		},
	}

	ok := []any{map[string]any{"title": "One", "tint": "#FF0000"}}
	if errs := r.Validate(ok, def); len(errs) != 0 {
		t.Errorf("valid repeater rejected: %v", errs)
	}

	if errs := r.Validate([]any{}, def); len(errs) != 1 {
		t.Errorf("below min_items should fail once, got %v", errs)
	}

	bad := []any{
		map[string]any{"title": "One"},
		map[string]any{"tint": "#ZZZZZZ"},
	}
	errs := r.Validate(bad, def)
	if len(errs) != 2 {
		t.Fatalf("expected 2 item errors, got %v", errs)
	}
	// Errors are keyed by item index.
	if errs[0] != "slides[1]: title is required" && errs[1] != "slides[1]: title is required" {
		t.Errorf("missing index-keyed required error: %v", errs)
	}
}

func TestGroupRender_Children(t *testing.T) {
	r := fields.NewRegistry()
	def := domain.FieldDefinition{
		Name: "button", Type: "group",
		Fields: []domain.FieldDefinition{
			{Name: "label", Type: "text", Default: "Click"},
			{Name: "color", Type: "color", Default: "#336699"},
		},
	}

	rd := r.Render(def, map[string]any{"label": "Buy"})
	if rd == nil {
		t.Fatal("render returned nil")
	}
	if rd.Children["label"].Value != "Buy" {
		t.Errorf("child value = %v, want Buy", rd.Children["label"].Value)
	}
	if rd.Children["color"].Value != "#336699" {
		t.Errorf("absent child should fall back to default, got %v", rd.Children["color"].Value)
	}
}

func TestRenderDefaultFallback(t *testing.T) {
	r := fields.NewRegistry()
	def := domain.FieldDefinition{Name: "size", Type: "number", Default: 16}

	if rd := r.Render(def, nil); rd.Value != 16 {
		t.Errorf("nil value should render default, got %v", rd.Value)
	}
	if rd := r.Render(def, 24); rd.Value != 24 {
		t.Errorf("explicit value should win, got %v", rd.Value)
	}
}

func TestDimensionSanitize(t *testing.T) {
	r := fields.NewRegistry()
	got := r.Sanitize("dimension", "12px")
	want := map[string]any{"value": 12.0, "unit": "px"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sanitize(\"12px\") = %v, want %v", got, want)
	}
}

func TestSchemaIntrospection(t *testing.T) {
	r := fields.NewRegistry()
	s, ok := r.Schema("typography")
	if !ok {
		t.Fatal("typography schema missing")
	}
	if s.ValueType != "object" || s.Properties["font_size"] != "object" {
		t.Errorf("unexpected typography schema: %+v", s)
	}
	if len(r.Kinds()) < 20 {
		t.Errorf("expected at least 20 builtin kinds, got %d", len(r.Kinds()))
	}
}
