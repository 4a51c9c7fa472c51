// Package rewrite holds a name-keyed registry of AST rewrite hooks the CLI
// driver can invoke before the tree reaches the printer.
package rewrite

import "github.com/tk0miya/herbfmt/ast"

// Func mutates n in place before formatting.
type Func func(n *ast.Node) error

// Registry is a name-keyed map of rewriters, mirroring the import-by-name
// lookup used for components elsewhere in the corpus.
type Registry struct {
	rewriters map[string]Func
}

// NewRegistry returns a Registry pre-populated with herbfmt's built-ins.
func NewRegistry() *Registry {
	r := &Registry{rewriters: map[string]Func{}}
	r.Register("sort-attributes", SortAttributes)
	return r
}

// Register adds or replaces the rewriter named name.
func (r *Registry) Register(name string, fn Func) {
	r.rewriters[name] = fn
}

// Get looks up a rewriter by name.
func (r *Registry) Get(name string) (Func, bool) {
	fn, ok := r.rewriters[name]
	return fn, ok
}

// Names returns the registered rewriter names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.rewriters))
	for name := range r.rewriters {
		names = append(names, name)
	}
	return names
}

// SortAttributes reorders each html_open_tag's attribute children
// alphabetically by name, leaving ERB control-flow children and whitespace
// in their original relative position.
func SortAttributes(n *ast.Node) error {
	if n == nil {
		return nil
	}
	if n.Kind == ast.KindHTMLElement && n.OpenTag != nil {
		sortAttributeChildren(n.OpenTag)
	}
	// ChildNodes already yields open_tag, body and close_tag for
	// html_element (ast.Node.ChildNodes), so a single pass over it covers
	// the body too -- recursing into n.Body again here would visit every
	// descendant twice.
	for _, c := range n.ChildNodes() {
		if err := SortAttributes(c); err != nil {
			return err
		}
	}
	return nil
}

func sortAttributeChildren(open *ast.Node) {
	attrName := func(a *ast.Node) string {
		if a.AttrName == nil {
			return ""
		}
		var s string
		for _, c := range a.AttrName.Children {
			if c.Kind == ast.KindLiteral {
				s += c.Content
			}
		}
		return s
	}

	// Stable insertion sort over attribute runs only: whitespace keeps its
	// slot without ending a run; other non-attribute children (ERB) keep
	// their position as sort barriers.
	children := open.Children
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		var slots []int
		for i := start; i < end; i++ {
			if children[i].Kind == ast.KindHTMLAttribute {
				slots = append(slots, i)
			}
		}
		for i := 1; i < len(slots); i++ {
			for j := i; j > 0 && attrName(children[slots[j-1]]) > attrName(children[slots[j]]); j-- {
				children[slots[j-1]], children[slots[j]] = children[slots[j]], children[slots[j-1]]
			}
		}
		start = -1
	}
	for i, c := range children {
		if c.Kind == ast.KindWhitespace {
			continue
		}
		if c.Kind == ast.KindHTMLAttribute {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(children))
}
