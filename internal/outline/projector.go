package outline

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"pagecraft/internal/content"
	"pagecraft/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Projector — read-only labeled view of the page tree
// ─────────────────────────────────────────────────────────────

// ErrTooManyOps is returned when the rapid-operation breaker trips.
var ErrTooManyOps = errors.New("outline: too many drag operations, resetting drag state")

// Node is one entry in the projected outline tree.
type Node struct {
	ID       string  `json:"id"`
	Kind     string  `json:"kind"` // section, column, widget
	Label    string  `json:"label"`
	Path     string  `json:"path"` // breadcrumb, root first
	Children []*Node `json:"children,omitempty"`
}

// Labeler resolves a widget type to its display name. The schema
// catalog satisfies this; without one the projector titleizes the raw
// type string.
type Labeler interface {
	WidgetLabel(widgetType string) string
}

// Projector builds outline trees from the store's current content. It
// never mutates the tree itself; drag gestures initiated from the
// outline are translated into the store's operations, behind a
// breaker that stops runaway drag loops.
type Projector struct {
	store  *content.Store
	labels Labeler
	guard  *rapidOpGuard
}

// NewProjector creates a projector over the store. labels may be nil.
func NewProjector(store *content.Store, labels Labeler) *Projector {
	return &Projector{
		store:  store,
		labels: labels,
		guard:  newRapidOpGuard(10, time.Second),
	}
}

// Tree projects the full outline in a single top-down pass.
func (p *Projector) Tree() []*Node {
	pc := p.store.Content()
	nodes := make([]*Node, 0, len(pc.Sections))
	for i, sec := range pc.Sections {
		nodes = append(nodes, p.sectionNode(sec, i))
	}
	return nodes
}

// Filter projects the outline pruned to nodes whose label or kind
// contains query (case-insensitive). Ancestors of a match are kept so
// the path to every hit stays visible. An empty query returns the full
// tree.
func (p *Projector) Filter(query string) []*Node {
	tree := p.Tree()
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return tree
	}
	out := make([]*Node, 0, len(tree))
	for _, n := range tree {
		if kept := pruneNode(n, q); kept != nil {
			out = append(out, kept)
		}
	}
	return out
}

func pruneNode(n *Node, q string) *Node {
	var kids []*Node
	for _, c := range n.Children {
		if kept := pruneNode(c, q); kept != nil {
			kids = append(kids, kept)
		}
	}
	if len(kids) == 0 && !nodeMatches(n, q) {
		return nil
	}
	clone := *n
	clone.Children = kids
	return &clone
}

func nodeMatches(n *Node, q string) bool {
	return strings.Contains(strings.ToLower(n.Label), q) ||
		strings.Contains(strings.ToLower(n.Kind), q)
}

func (p *Projector) sectionNode(sec *domain.Section, index int) *Node {
	label := fmt.Sprintf("Section %d", index+1)
	node := &Node{ID: sec.ID, Kind: "section", Label: label, Path: label}
	for j, col := range sec.Columns {
		node.Children = append(node.Children, p.columnNode(col, j, node.Path))
	}
	return node
}

func (p *Projector) columnNode(col *domain.Column, index int, parentPath string) *Node {
	label := fmt.Sprintf("Column %d", index+1)
	if col.Width != "" {
		label = fmt.Sprintf("Column %d (%s)", index+1, col.Width)
	}
	node := &Node{ID: col.ID, Kind: "column", Label: label, Path: parentPath + " / " + label}
	for _, w := range col.Widgets {
		label := p.widgetLabel(w.Type)
		node.Children = append(node.Children, &Node{
			ID:    w.ID,
			Kind:  "widget",
			Label: label,
			Path:  node.Path + " / " + label,
		})
	}
	return node
}

func (p *Projector) widgetLabel(widgetType string) string {
	if p.labels != nil {
		if l := p.labels.WidgetLabel(widgetType); l != "" {
			return l
		}
	}
	return titleize(widgetType)
}

func titleize(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' })
	for i, part := range parts {
		r := []rune(part)
		if len(r) > 0 {
			r[0] = unicode.ToUpper(r[0])
		}
		parts[i] = string(r)
	}
	return strings.Join(parts, " ")
}

// ── outline-initiated drag operations ──────────────────────

// MoveSection reorders a section to the given target index, adjusting
// for remove-then-insert the same way the canvas interpreter does.
func (p *Projector) MoveSection(sectionID string, index int) error {
	if !p.guard.Allow() {
		return ErrTooManyOps
	}
	source := p.store.SectionIndex(sectionID)
	if source < 0 {
		return fmt.Errorf("move section: %s not found", sectionID)
	}
	if source < index {
		index--
	}
	if !p.store.ReorderSections(source, index) {
		return fmt.Errorf("move section: index %d out of range", index)
	}
	return nil
}

// MoveWidget reorders within the widget's own column or transfers it to
// another column, preserving the store's owner-exclusive guarantee.
func (p *Projector) MoveWidget(widgetID, targetColumnID string, index int) error {
	if !p.guard.Allow() {
		return ErrTooManyOps
	}
	_, col, w := p.store.FindWidget(widgetID)
	if w == nil {
		return fmt.Errorf("move widget: %s not found", widgetID)
	}
	if col.ID == targetColumnID {
		source := p.store.WidgetIndex(col.ID, widgetID)
		if source < index {
			index--
		}
		if !p.store.ReorderWidgets(col.ID, source, index) {
			return fmt.Errorf("move widget: index %d out of range", index)
		}
		return nil
	}
	if !p.store.MoveWidget(widgetID, col.ID, targetColumnID, index) {
		return fmt.Errorf("move widget: column %s not found", targetColumnID)
	}
	return nil
}

// Blocked reports whether the rapid-operation breaker is open.
func (p *Projector) Blocked() bool {
	return p.guard.Tripped()
}

// ResetDragState closes the breaker after a runaway drag loop. The
// frontend calls this when it has torn down and rebuilt its drag
// context.
func (p *Projector) ResetDragState() {
	p.guard.Reset()
}
