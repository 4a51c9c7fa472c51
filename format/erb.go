package format

import (
	"strings"

	"github.com/tk0miya/herbfmt/ast"
)

// normalizedInner reconstructs an ERB tag's interior per §4.5: empty content
// stays empty, a heredoc literal closes with a trailing newline instead of a
// space, everything else is padded with a single leading and trailing space.
func normalizedInner(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(strings.TrimLeft(raw, " \t"), "<<") {
		return " " + trimmed + "\n"
	}
	return " " + trimmed + " "
}

func erbTag(opening, content string) string {
	return opening + normalizedInner(content) + "%>"
}

// visitERBContent dispatches an erb_content node (output, statement, or
// comment) to the appropriate renderer and emits it respecting inline_mode.
func (p *Printer) visitERBContent(n *ast.Node) {
	if n.ContentToken == ast.ERBComment {
		p.visitComment(n)
		return
	}
	p.buf.emit(erbTag(n.ContentToken, n.Content))
}

// renderERBInline renders an erb_content node as a string, for use inside an
// attribute value or as a text-flow content unit, where the caller controls
// placement rather than the buffer's current mode.
func (p *Printer) renderERBInline(n *ast.Node) string {
	if n.ContentToken == ast.ERBComment {
		return p.commentInlineString(n)
	}
	return erbTag(n.ContentToken, n.Content)
}

// visitComment implements the four comment cases from §4.5.
func (p *Printer) visitComment(n *ast.Node) {
	if strings.TrimSpace(n.Content) == "" {
		p.buf.emit("<%#%>")
		return
	}
	lines := trimmedContentLines(n.Content)
	if len(lines) <= 1 {
		p.buf.emit("<%# " + strings.TrimSpace(n.Content) + " %>")
		return
	}
	if p.buf.inlineMode {
		p.buf.appendToLast(p.commentInlineString(n))
		return
	}
	p.buf.pushWithIndent("<%#")
	p.buf.withIndent(func() {
		for _, l := range lines {
			p.buf.pushWithIndent(l)
		}
	})
	p.buf.pushWithIndent("%>")
}

func (p *Printer) commentInlineString(n *ast.Node) string {
	if strings.TrimSpace(n.Content) == "" {
		return "<%#%>"
	}
	lines := trimmedContentLines(n.Content)
	if len(lines) <= 1 {
		return "<%# " + strings.TrimSpace(n.Content) + " %>"
	}
	return "<%# " + strings.Join(lines, " ") + " %>"
}

// trimmedContentLines splits a comment's content into lines, trimming
// leading/trailing blank lines while preserving internal blank lines, and
// trimming surrounding whitespace on each remaining line.
func trimmedContentLines(content string) []string {
	raw := strings.Split(content, "\n")
	start, end := 0, len(raw)
	for start < end && strings.TrimSpace(raw[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(raw[end-1]) == "" {
		end--
	}
	out := make([]string, 0, end-start)
	for _, l := range raw[start:end] {
		out = append(out, strings.TrimSpace(l))
	}
	return out
}

// visitIf renders an erb_if: opening tag, indented statements, any chained
// elsif/else branch at the original indent, then the end node (§4.5).
func (p *Printer) visitIf(n *ast.Node) {
	p.buf.emit(erbTag(ast.ERBStatement, "if "+n.Header))
	p.buf.withIndent(func() {
		for _, s := range n.Statements {
			p.visit(s)
		}
	})
	if n.Subsequent != nil {
		p.visitIfBranch(n.Subsequent)
	}
	p.visitEnd(n.EndNode)
}

// visitIfBranch renders a chained elsif (itself an erb_if with Header set)
// or a trailing else (erb_else), without emitting its own end node - that
// belongs to the top of the chain.
func (p *Printer) visitIfBranch(n *ast.Node) {
	switch n.Kind {
	case ast.KindERBIf:
		p.buf.emit(erbTag(ast.ERBStatement, "elsif "+n.Header))
		p.buf.withIndent(func() {
			for _, s := range n.Statements {
				p.visit(s)
			}
		})
		if n.Subsequent != nil {
			p.visitIfBranch(n.Subsequent)
		}
	case ast.KindERBElse:
		p.buf.emit(erbTag(ast.ERBStatement, "else"))
		p.buf.withIndent(func() {
			for _, s := range n.Statements {
				p.visit(s)
			}
		})
	}
}

func (p *Printer) visitUnless(n *ast.Node) {
	p.buf.emit(erbTag(ast.ERBStatement, "unless "+n.Header))
	p.buf.withIndent(func() {
		for _, s := range n.Statements {
			p.visit(s)
		}
	})
	if n.ElseClause != nil {
		p.buf.emit(erbTag(ast.ERBStatement, "else"))
		p.buf.withIndent(func() {
			for _, s := range n.ElseClause.Statements {
				p.visit(s)
			}
		})
	}
	p.visitEnd(n.EndNode)
}

func (p *Printer) visitCase(n *ast.Node) {
	keyword := "case"
	if n.Header != "" {
		keyword = "case " + n.Header
	}
	p.buf.emit(erbTag(ast.ERBStatement, keyword))
	p.buf.withIndent(func() {
		// Direct children passed through between `case` and the first
		// when/in are a lint offense, not a formatting concern (§4.5,
		// Open Question 2): visited in place, one level deeper than the
		// case tag, through the ordinary visitor (not copied byte for byte).
		for _, c := range n.Children {
			p.visit(c)
		}
	})
	for _, w := range n.Cases {
		p.visitWhenOrIn(w)
	}
	if n.ElseClause != nil {
		p.buf.emit(erbTag(ast.ERBStatement, "else"))
		p.buf.withIndent(func() {
			for _, s := range n.ElseClause.Statements {
				p.visit(s)
			}
		})
	}
	p.visitEnd(n.EndNode)
}

func (p *Printer) visitWhenOrIn(n *ast.Node) {
	keyword := "when"
	if n.Kind == ast.KindERBIn {
		keyword = "in"
	}
	p.buf.emit(erbTag(ast.ERBStatement, keyword+" "+n.Header))
	p.buf.withIndent(func() {
		for _, s := range n.Statements {
			p.visit(s)
		}
	})
}

func (p *Printer) visitForWhileUntil(n *ast.Node, keyword string) {
	p.buf.emit(erbTag(ast.ERBStatement, keyword+" "+n.Header))
	p.buf.withIndent(func() {
		for _, s := range n.Statements {
			p.visit(s)
		}
	})
	p.visitEnd(n.EndNode)
}

func (p *Printer) visitBlock(n *ast.Node) {
	p.buf.emit(erbTag(ast.ERBStatement, n.BlockHeader))
	if inTextFlowContext(n.Body) {
		p.renderTextFlow(n.Body)
	} else {
		p.buf.withIndent(func() {
			for _, c := range n.Body {
				if pureWhitespaceNode(c) {
					continue
				}
				p.visit(c)
			}
		})
	}
	p.visitEnd(n.EndNode)
}

func (p *Printer) visitEnd(n *ast.Node) {
	if n == nil {
		p.buf.emit(erbTag(ast.ERBStatement, "end"))
		return
	}
	p.buf.emit(erbTag(ast.ERBStatement, "end"))
}

// renderAttributeConditionalInline renders an erb_if/erb_unless/erb_case
// control-flow node as an inline expression inside the attribute list; an
// inline open tag uses it for every conditional, attribute branches
// included (§4.4 last paragraph, §4.5 "inline mode for if inside
// attribute").
func (p *Printer) renderAttributeConditionalInline(n *ast.Node) {
	p.buf.appendToLast(p.renderAttributeConditionalInlineString(n))
}

func (p *Printer) renderAttributeConditionalInlineString(n *ast.Node) string {
	var b strings.Builder
	b.WriteString(erbTag(ast.ERBStatement, "if "+n.Header))
	trailingSpace := p.attributeBranchInline(&b, n.Statements)
	cur := n.Subsequent
	for cur != nil {
		switch cur.Kind {
		case ast.KindERBIf:
			b.WriteString(erbTag(ast.ERBStatement, "elsif "+cur.Header))
			if p.attributeBranchInline(&b, cur.Statements) {
				trailingSpace = true
			}
			cur = cur.Subsequent
		case ast.KindERBElse:
			b.WriteString(erbTag(ast.ERBStatement, "else"))
			if p.attributeBranchInline(&b, cur.Statements) {
				trailingSpace = true
			}
			cur = nil
		default:
			cur = nil
		}
	}
	if trailingSpace || isTokenListAttribute(p.currentAttributeName) {
		b.WriteString(" ")
	}
	b.WriteString(erbTag(ast.ERBStatement, "end"))
	return b.String()
}

// attributeBranchInline appends each statement of a branch, leading-spaced,
// and reports whether any statement was an html_attribute (which requires a
// trailing space before the closing "<% end %>").
func (p *Printer) attributeBranchInline(b *strings.Builder, statements []*ast.Node) (hadAttribute bool) {
	for _, s := range statements {
		b.WriteString(" ")
		if s.Kind == ast.KindHTMLAttribute {
			b.WriteString(p.renderAttribute(s))
			hadAttribute = true
		} else {
			p.renderStatementInline(b, s)
		}
	}
	return hadAttribute
}

func (p *Printer) renderStatementInline(b *strings.Builder, s *ast.Node) {
	switch s.Kind {
	case ast.KindERBContent:
		b.WriteString(p.renderERBInline(s))
	default:
		if s.ControlFlow() {
			b.WriteString(p.renderAttributeConditionalInlineString(s))
		}
	}
}

// renderAttributeConditionalBlock renders an ERB if/unless/case construct
// whose branches hold html_attribute children, each attribute on its own
// indented line, nested consistently (§4.4 "ERB control flow inside open
// tag").
func (p *Printer) renderAttributeConditionalBlock(n *ast.Node) {
	p.buf.pushWithIndent(erbTag(ast.ERBStatement, "if "+n.Header))
	p.buf.withIndent(func() {
		for _, s := range n.Statements {
			p.renderOpenTagChildBlock(s)
		}
	})
	cur := n.Subsequent
	for cur != nil {
		switch cur.Kind {
		case ast.KindERBIf:
			p.buf.pushWithIndent(erbTag(ast.ERBStatement, "elsif "+cur.Header))
			p.buf.withIndent(func() {
				for _, s := range cur.Statements {
					p.renderOpenTagChildBlock(s)
				}
			})
			cur = cur.Subsequent
		case ast.KindERBElse:
			p.buf.pushWithIndent(erbTag(ast.ERBStatement, "else"))
			p.buf.withIndent(func() {
				for _, s := range cur.Statements {
					p.renderOpenTagChildBlock(s)
				}
			})
			cur = nil
		default:
			cur = nil
		}
	}
	p.buf.pushWithIndent(erbTag(ast.ERBStatement, "end"))
}
