package format

import (
	"strings"

	"github.com/tk0miya/herbfmt/ast"
)

// flowWord is one accumulated unit in the text-flow engine's word buffer: a
// single word from a text node, or an atomic rendering of an inline element
// or ERB tag. isDisable units are pinned to the preceding line and never
// trigger a wrap (§4.6).
type flowWord struct {
	text      string
	isDisable bool
}

// renderTextFlow implements the text-flow engine (§4.6): it walks children
// in order building up flowWords, flushing (wrapping) whenever a
// block-level child breaks the flow, and visits that breaking child in
// block mode before resuming.
func (p *Printer) renderTextFlow(children []*ast.Node) {
	var words []flowWord
	flush := func() {
		if len(words) == 0 {
			return
		}
		p.flushWords(words)
		words = nil
	}

	for _, c := range children {
		switch {
		case c.Kind == ast.KindWhitespace:
			continue
		case c.Kind == ast.KindHTMLText:
			if pureWhitespaceNode(c) {
				continue
			}
			for _, w := range strings.Fields(c.Content) {
				words = append(words, flowWord{text: w})
			}
		case c.Kind == ast.KindERBContent:
			words = append(words, flowWord{text: p.renderERBInline(c), isDisable: herbDisableComment(c)})
		case c.Kind == ast.KindHTMLElement && isInlineElement(c):
			rendered := p.buf.capture(func() {
				p.buf.withInlineMode(func() {
					p.visitElement(c)
				})
			})
			words = append(words, flowWord{text: strings.Join(rendered, "\n")})
		default:
			// block-level child: breaks the flow.
			flush()
			p.visit(c)
		}
	}
	flush()
}

// flushWords wraps the accumulated words to fit max_line_length minus the
// current indent width, never breaking immediately before an isDisable word.
func (p *Printer) flushWords(words []flowWord) {
	budget := p.ctx.MaxLineLength - p.currentIndentWidth()
	var cur string
	for i, w := range words {
		if i == 0 {
			cur = w.text
			continue
		}
		sep := ""
		if needsSpaceBetween(cur, w.text) {
			sep = " "
		}
		if w.isDisable {
			cur += sep + w.text
			continue
		}
		candidate := cur + sep + w.text
		if len(candidate) > budget {
			p.buf.pushWithIndent(cur)
			cur = w.text
			continue
		}
		cur = candidate
	}
	if cur != "" {
		p.buf.pushWithIndent(cur)
	}
}
