package format

import "github.com/tk0miya/herbfmt/ast"

// ElementAnalysis is the once-per-element decision of how an html_element's
// open tag, content and close tag should lay out, computed speculatively by
// the element analyzer (§4.3).
type ElementAnalysis struct {
	OpenTagInline  bool
	ContentInline  bool
	CloseTagInline bool
}

// inProgress is the sentinel installed in the analysis cache while an
// element's speculative analysis is running, breaking infinite recursion if
// the speculative render re-enters the same element.
var inProgress = &ElementAnalysis{OpenTagInline: true, ContentInline: true, CloseTagInline: true}

// analyze returns n's ElementAnalysis, computing and caching it on first
// use. Preserved elements are never analyzed (their content is emitted
// verbatim and their own layout is decided directly by the tag renderer).
func (p *Printer) analyze(n *ast.Node) *ElementAnalysis {
	if cached, ok := p.analysisCache[n]; ok {
		return cached
	}
	p.analysisCache[n] = inProgress
	result := p.computeAnalysis(n)
	p.analysisCache[n] = result
	return result
}

func (p *Printer) computeAnalysis(n *ast.Node) *ElementAnalysis {
	a := &ElementAnalysis{OpenTagInline: true}

	// Rules 1 and 2: a multi-line ERB control-flow child or a literal
	// newline in an attribute value forces a multiline open tag.
	if openTagForcedMultiline(n) {
		a.OpenTagInline = false
	}

	// Rule 3: the open tag fits on one line at the current indent.
	if a.OpenTagInline && !p.openTagFits(n) {
		a.OpenTagInline = false
	}

	// Rule 4: content_inline.
	a.ContentInline = p.computeContentInline(n, a.OpenTagInline)
	a.CloseTagInline = a.ContentInline

	return a
}

// openTagForcedMultiline reports whether n's open tag must be rendered
// multiline regardless of whether it would otherwise fit on one line: a
// multi-line ERB control-flow child (rule 1), or a literal newline in an
// attribute value (rule 2). Applies equally to preserved and non-preserved
// elements -- a preserved element's content may be emitted verbatim, but its
// own open tag still follows these layout rules.
func openTagForcedMultiline(n *ast.Node) bool {
	if n.OpenTag == nil {
		return false
	}
	for _, c := range n.OpenTag.Children {
		if erbControlFlow(c) && c.Location.MultiLine() {
			return true
		}
	}
	for _, c := range n.OpenTag.Children {
		if c.Kind != ast.KindHTMLAttribute || c.AttrValue == nil {
			continue
		}
		for _, part := range c.AttrValue.ValueParts {
			if part.Kind == ast.KindLiteral && containsNewline(part.Content) {
				return true
			}
		}
	}
	return false
}

func (p *Printer) computeContentInline(n *ast.Node, openTagInline bool) bool {
	if isInlineElement(n) {
		return true
	}
	if len(n.Body) == 0 {
		return true
	}
	if !openTagInline {
		return false
	}
	for _, c := range n.Body {
		if !childIsInlineClassified(c) {
			return false
		}
	}
	rendered := p.buf.capture(func() {
		p.buf.withInlineMode(func() {
			p.renderOpenTag(n, true)
			for _, c := range n.Body {
				p.visit(c)
			}
			p.renderCloseTag(n, true)
		})
	})
	if len(rendered) != 1 {
		return false
	}
	return p.buf.lastLineWidthOf(rendered)+p.currentIndentWidth() <= p.ctx.MaxLineLength
}

// childIsInlineClassified reports whether c is safe to consider for a
// single-line content render: whitespace, text, inline elements, or ERB.
func childIsInlineClassified(c *ast.Node) bool {
	switch c.Kind {
	case ast.KindWhitespace, ast.KindHTMLText, ast.KindERBContent:
		return true
	case ast.KindHTMLElement:
		return isInlineElement(c)
	default:
		return false
	}
}

func containsNewline(s string) bool {
	for _, r := range s {
		if r == '\n' {
			return true
		}
	}
	return false
}

func (b *lineBuffer) lastLineWidthOf(lines []string) int {
	if len(lines) == 0 {
		return 0
	}
	return len(lines[len(lines)-1])
}

func (p *Printer) currentIndentWidth() int {
	return p.buf.level * len(p.buf.indentStr)
}

// openTagFits reports whether n's open tag, rendered with all attributes on
// one line, fits within max_line_length at the current indent.
func (p *Printer) openTagFits(n *ast.Node) bool {
	rendered := p.buf.capture(func() {
		p.buf.withInlineMode(func() {
			p.renderOpenTag(n, true)
		})
	})
	return len(rendered) == 1 && p.buf.lastLineWidthOf(rendered)+p.currentIndentWidth() <= p.ctx.MaxLineLength
}
