package fields

import (
	"fmt"
	"sort"
	"sync"

	"pagecraft/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Registry — pluggable field kinds
// ─────────────────────────────────────────────────────────────

// Registry maps field kind strings to implementations. It is an
// explicitly constructed value so editors and tests can hold isolated
// registries; there is no package-level singleton.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]Type
}

// NewRegistry creates a registry pre-loaded with the builtin kinds.
// Callers may register additional kinds afterwards.
func NewRegistry() *Registry {
	r := &Registry{kinds: make(map[string]Type)}
	r.registerBuiltins()
	return r
}

// Register adds a field kind. Panics on duplicate registration — a
// malformed plugin configuration is a programmer error surfaced at
// registration time, not a runtime validation failure.
func (r *Registry) Register(t Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := t.Kind()
	if _, exists := r.kinds[k]; exists {
		panic(fmt.Sprintf("field registry: duplicate registration for kind %q", k))
	}
	r.kinds[k] = t
}

// Lookup returns the implementation for a kind.
func (r *Registry) Lookup(kind string) (Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.kinds[kind]
	return t, ok
}

// Kinds returns all registered kind names, sorted.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.kinds))
	for k := range r.kinds {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Validate dispatches to the kind's validator. An unknown kind yields a
// single descriptive error so an unrecognized schema degrades gracefully
// instead of crashing the editor.
func (r *Registry) Validate(value any, def domain.FieldDefinition) []string {
	t, ok := r.Lookup(def.Type)
	if !ok {
		return []string{fmt.Sprintf("unknown field kind %q", def.Type)}
	}
	return t.Validate(value, def)
}

// Sanitize dispatches to the kind's sanitizer; unknown kinds return the
// input unchanged.
func (r *Registry) Sanitize(kind string, value any) any {
	t, ok := r.Lookup(kind)
	if !ok {
		return value
	}
	return t.Sanitize(value)
}

// Render dispatches to the kind's renderer; unknown kinds return nil.
func (r *Registry) Render(def domain.FieldDefinition, value any) *Render {
	t, ok := r.Lookup(def.Type)
	if !ok {
		return nil
	}
	return t.Render(def, value)
}

// Schema returns the kind's shape metadata; unknown kinds return a zero
// Schema and false.
func (r *Registry) Schema(kind string) (Schema, bool) {
	t, ok := r.Lookup(kind)
	if !ok {
		return Schema{}, false
	}
	return t.Schema(), true
}

func (r *Registry) registerBuiltins() {
	for _, t := range []Type{
		&textType{kind: "text", multiline: false},
		&textType{kind: "textarea", multiline: true},
		&richTextType{},
		&numberType{kind: "number"},
		&numberType{kind: "slider"},
		&toggleType{},
		&choiceType{kind: "select"},
		&choiceType{kind: "radio"},
		&choiceType{kind: "choose"},
		&colorType{},
		&dimensionType{},
		&spacingType{},
		&typographyType{},
		&backgroundType{},
		&borderType{},
		&shadowType{},
		&linkType{},
		&iconType{},
		&mediaType{},
		&groupType{registry: r},
		&repeaterType{registry: r},
	} {
		r.Register(t)
	}
}
