// Package format implements the canonical ERB+HTML printer: a tree-walking
// visitor over an already-parsed syntax tree (package ast) that produces a
// formatted source string. The printer is pure and total: one instance is
// constructed per Format call and discarded afterwards: no state persists
// across calls, and no node kind is left unhandled.
package format

import (
	"strings"

	"github.com/tk0miya/herbfmt/ast"
)

// FormatContext carries the inputs the core needs beyond the tree itself.
type FormatContext struct {
	FilePath      string
	Source        string
	IndentWidth   int
	MaxLineLength int
}

// Printer is the per-call visitor state (§3 "Printer state (owned)").
type Printer struct {
	buf *lineBuffer
	ctx FormatContext

	elementStack         []*ast.Node
	currentAttributeName string
	analysisCache        map[*ast.Node]*ElementAnalysis
	nodeIsMultiline      map[*ast.Node]bool
}

// Format walks root and returns the formatted source. It never returns an
// error: the printer is total over a well-formed tree (§7), and malformed
// nodes are handled by omission rather than by failing the whole format.
func Format(root *ast.Node, ctx FormatContext) string {
	if ctx.IndentWidth <= 0 {
		ctx.IndentWidth = 2
	}
	if ctx.MaxLineLength <= 0 {
		ctx.MaxLineLength = 80
	}
	p := &Printer{
		buf:             newLineBuffer(ctx.IndentWidth),
		ctx:             ctx,
		analysisCache:   map[*ast.Node]*ElementAnalysis{},
		nodeIsMultiline: map[*ast.Node]bool{},
	}
	if root != nil {
		p.visitChildrenBlock(root.ChildNodes())
	}
	return p.buf.String()
}

// visit dispatches on n.Kind. Every kind that occurs in a body or statement
// list has an arm; the document, tag and attribute kinds reach the default,
// which emits a node's Content if it has any and otherwise emits nothing.
func (p *Printer) visit(n *ast.Node) {
	if n == nil {
		return
	}
	grew := p.buf.trackBoundary(func() {
		p.visitDispatch(n)
	})
	if grew {
		p.nodeIsMultiline[n] = true
	}
}

func (p *Printer) visitDispatch(n *ast.Node) {
	switch n.Kind {
	case ast.KindHTMLElement:
		p.visitElement(n)
	case ast.KindHTMLText:
		p.visitText(n)
	case ast.KindWhitespace:
		// Bare whitespace nodes contribute nothing; blank-line
		// preservation looks only at whitespace-only html_text
		// (isUserBlankLine).
	case ast.KindLiteral:
		p.buf.emit(n.Content)
	case ast.KindERBContent:
		p.visitERBContent(n)
	case ast.KindERBIf:
		p.visitIf(n)
	case ast.KindERBUnless:
		p.visitUnless(n)
	case ast.KindERBCase, ast.KindERBCaseMatch:
		p.visitCase(n)
	case ast.KindERBFor:
		p.visitForWhileUntil(n, "for")
	case ast.KindERBWhile:
		p.visitForWhileUntil(n, "while")
	case ast.KindERBUntil:
		p.visitForWhileUntil(n, "until")
	case ast.KindERBBlock:
		p.visitBlock(n)
	case ast.KindERBEnd:
		p.visitEnd(n)
	case ast.KindERBElse:
		// Only reached if an else is visited outside of its owning
		// if/unless chain, which a well-formed tree never does; omit
		// silently (§7, malformed AST disposition).
	case ast.KindERBWhen, ast.KindERBIn:
		// Same as above: normally consumed by visitCase.
	default:
		// Unknown kind: emit its literal content if it carries any,
		// rather than dropping the node.
		if n.Content != "" {
			p.buf.emit(n.Content)
		}
	}
}

// visitElement handles an html_element: push/pop the element stack
// (paired even across a panic), dispatch to the preserved-content path or
// the analyzed path, then visit the body and close tag.
func (p *Printer) visitElement(n *ast.Node) {
	p.elementStack = append(p.elementStack, n)
	defer func() { p.elementStack = p.elementStack[:len(p.elementStack)-1] }()

	if isPreservedElement(n) {
		p.visitPreservedElement(n)
		return
	}

	analysis := p.analyze(n)
	p.renderOpenTag(n, analysis.OpenTagInline)
	if n.IsVoid {
		return
	}
	p.dispatchBody(n, analysis)
	p.renderCloseTag(n, analysis.CloseTagInline)
}

// currentElement returns the top of the element stack.
func (p *Printer) currentElement() *ast.Node {
	if len(p.elementStack) == 0 {
		return nil
	}
	return p.elementStack[len(p.elementStack)-1]
}

// dispatchBody implements the body dispatcher (§4.7): inline content,
// text-flow context, or block mode with blank-line preservation.
func (p *Printer) dispatchBody(n *ast.Node, analysis *ElementAnalysis) {
	if analysis.ContentInline {
		p.buf.withInlineMode(func() {
			for _, c := range n.Body {
				p.visit(c)
			}
		})
		return
	}
	if inTextFlowContext(n.Body) {
		p.buf.withIndent(func() {
			p.renderTextFlow(n.Body)
		})
		return
	}
	p.buf.withIndent(func() {
		p.visitChildrenBlock(n.Body)
	})
}

// visitChildrenBlock visits siblings in block mode, skipping pure-whitespace
// nodes except where they represent a user-intentional blank line.
func (p *Printer) visitChildrenBlock(children []*ast.Node) {
	for i, c := range children {
		if pureWhitespaceNode(c) {
			if isUserBlankLine(c, children, i) {
				p.buf.push("")
			}
			continue
		}
		p.visit(c)
	}
}

// isUserBlankLine reports whether whitespace node c at index idx within
// siblings represents a deliberate blank line the user left in the source:
// an html_text containing two or more newlines, bracketed by meaningful
// nodes on both sides.
func isUserBlankLine(c *ast.Node, siblings []*ast.Node, idx int) bool {
	if c.Kind != ast.KindHTMLText {
		return false
	}
	if strings.Count(c.Content, "\n") < 2 {
		return false
	}
	if idx == 0 || idx == len(siblings)-1 {
		return false
	}
	return nonWhitespaceNode(siblings[idx-1]) && nonWhitespaceNode(siblings[idx+1])
}

// visitText handles an html_text node: internal ASCII-whitespace runs
// collapse to a single space (§8, "single child text" property); a
// standalone text node outside of text-flow context is otherwise emitted as
// one normalized string.
func (p *Printer) visitText(n *ast.Node) {
	if pureWhitespaceNode(n) {
		return
	}
	p.buf.emit(collapseWhitespace(n.Content))
}

// visitPreservedElement emits a content-preserving element's open tag, then
// its body bytes byte-identical to input, then its close tag.
func (p *Printer) visitPreservedElement(n *ast.Node) {
	openTagInline := !openTagForcedMultiline(n) && p.openTagFits(n)
	p.renderOpenTag(n, openTagInline)
	if n.IsVoid {
		return
	}
	p.emitPreservedContent(rawBodyContent(n.Body))
	p.buf.appendToLast("</" + n.TagName + ">")
}

func rawBodyContent(body []*ast.Node) string {
	var b strings.Builder
	for _, c := range body {
		b.WriteString(c.Content)
	}
	return b.String()
}

// emitPreservedContent appends content to the buffer without altering a
// single byte of it: the first line is appended to whatever is already on
// the last buffer line, and every subsequent line is pushed with no added
// indentation.
func (p *Printer) emitPreservedContent(content string) {
	if content == "" {
		return
	}
	lines := strings.Split(content, "\n")
	p.buf.appendToLast(lines[0])
	for _, l := range lines[1:] {
		p.buf.push(l)
	}
}
