package format

import (
	"strings"

	"github.com/tk0miya/herbfmt/ast"
)

// renderOpenTag emits n's open tag. openInline selects between the
// all-attributes-on-one-line layout and the one-attribute-per-line layout
// (§4.4 "Open tag").
func (p *Printer) renderOpenTag(n *ast.Node, openInline bool) {
	open := n.OpenTag
	tagStart := "<" + n.TagName

	if openInline {
		p.buf.emit(tagStart)
		for _, c := range nonWhitespaceChildren(open) {
			p.renderOpenTagChildInline(c)
		}
		p.buf.appendToLast(tagClosing(n))
		return
	}

	leading, rest := splitLeadingDisableComments(nonWhitespaceChildren(open))
	line := tagStart
	for _, c := range leading {
		line += " " + p.renderERBInline(c)
	}
	p.buf.emit(line)
	p.buf.withIndent(func() {
		for _, c := range rest {
			p.renderOpenTagChildBlock(c)
		}
	})
	p.buf.pushWithIndent(tagClosing(n))
}

// renderCloseTag emits n's close tag, inline (appended to the last line) if
// closeInline is true or the buffer is already in inline mode, otherwise
// pushed at the current indent (§4.4 "Close tag").
func (p *Printer) renderCloseTag(n *ast.Node, closeInline bool) {
	if n.IsVoid {
		return
	}
	text := "</" + n.TagName + ">"
	if closeInline || p.buf.inlineMode {
		p.buf.appendToLast(text)
		return
	}
	p.buf.pushWithIndent(text)
}

func tagClosing(n *ast.Node) string {
	if n.IsVoid {
		return " />"
	}
	return ">"
}

func nonWhitespaceChildren(open *ast.Node) []*ast.Node {
	if open == nil {
		return nil
	}
	var out []*ast.Node
	for _, c := range open.Children {
		if c.Kind == ast.KindWhitespace {
			continue
		}
		out = append(out, c)
	}
	return out
}

func splitLeadingDisableComments(children []*ast.Node) (leading, rest []*ast.Node) {
	i := 0
	for i < len(children) && herbDisableComment(children[i]) {
		leading = append(leading, children[i])
		i++
	}
	return leading, children[i:]
}

// renderOpenTagChildInline renders one open-tag child (attribute, bare ERB
// token, or ERB-conditional attribute group) into the current line,
// space-separated.
func (p *Printer) renderOpenTagChildInline(c *ast.Node) {
	switch c.Kind {
	case ast.KindHTMLAttribute:
		p.buf.appendToLast(" ")
		p.buf.appendToLast(p.renderAttribute(c))
	case ast.KindERBContent:
		p.buf.appendToLast(" ")
		p.buf.appendToLast(p.renderERBInline(c))
	default:
		if c.ControlFlow() {
			p.buf.appendToLast(" ")
			p.renderAttributeConditionalInline(c)
		}
	}
}

// renderOpenTagChildBlock renders one open-tag child on its own indented
// line, except an ERB-conditional group whose branches hold attributes,
// which is rendered as a nested block construct (§4.4 "ERB control flow
// inside open tag").
func (p *Printer) renderOpenTagChildBlock(c *ast.Node) {
	switch c.Kind {
	case ast.KindHTMLAttribute:
		p.buf.pushWithIndent(p.renderAttribute(c))
	case ast.KindERBContent:
		p.buf.pushWithIndent(p.renderERBInline(c))
	default:
		if c.ControlFlow() && branchesHaveAttributes(c) {
			p.renderAttributeConditionalBlock(c)
		} else if c.ControlFlow() {
			p.buf.pushWithIndent(p.renderAttributeConditionalInlineString(c))
		}
	}
}

func branchesHaveAttributes(c *ast.Node) bool {
	for _, s := range c.Statements {
		if s.Kind == ast.KindHTMLAttribute {
			return true
		}
	}
	if c.Subsequent != nil {
		return branchesHaveAttributes(c.Subsequent)
	}
	if c.ElseClause != nil {
		return branchesHaveAttributes(c.ElseClause)
	}
	return false
}

// renderAttribute formats a single html_attribute: bare name, or
// name="value" with embedded ERB rendered inline and class-token wrapping
// applied when applicable (§4.4 "Attributes inline" / "Class attribute
// wrapping").
func (p *Printer) renderAttribute(attr *ast.Node) string {
	name := p.renderAttributeName(attr.AttrName)
	if attr.AttrValue == nil {
		return name
	}

	saved := p.currentAttributeName
	p.currentAttributeName = name
	defer func() { p.currentAttributeName = saved }()

	if isTokenListAttribute(name) && !valueContainsERB(attr.AttrValue) {
		return name + `="` + p.renderClassValue(attr.AttrValue) + `"`
	}

	quote, content := p.renderAttributeValueContent(attr.AttrValue)
	return name + "=" + quote + content + quote
}

func (p *Printer) renderAttributeName(n *ast.Node) string {
	var b strings.Builder
	for _, c := range n.Children {
		if c.Kind == ast.KindLiteral {
			b.WriteString(c.Content)
		}
	}
	return b.String()
}

func valueContainsERB(v *ast.Node) bool {
	for _, p := range v.ValueParts {
		if p.Kind == ast.KindERBContent {
			return true
		}
	}
	return false
}

// renderAttributeValueContent renders an attribute value's literal/ERB parts
// and decides the surrounding quote character per the quote-normalization
// rule: '"' is preferred, "'" is preserved only when the content holds a
// literal '"', unquoted source values are wrapped in '"'.
func (p *Printer) renderAttributeValueContent(v *ast.Node) (quote, content string) {
	var b strings.Builder
	for _, part := range v.ValueParts {
		switch part.Kind {
		case ast.KindLiteral:
			b.WriteString(part.Content)
		case ast.KindERBContent:
			b.WriteString(p.renderERBInline(part))
		}
	}
	content = b.String()
	quote = `"`
	if v.OpenQuote == "'" && strings.Contains(content, `"`) {
		quote = "'"
	}
	return quote, content
}

// normalizedClassValue collapses a class attribute value to a single
// normalized string (§4.4 "Class attribute wrapping").
func normalizedClassValue(content string) string {
	return strings.TrimSpace(collapseWhitespace(content))
}

// renderClassValue implements the wrapping rule: inline if it fits, else as
// many tokens per line as fit the width, two-space indented inside the value.
func (p *Printer) renderClassValue(v *ast.Node) string {
	var raw strings.Builder
	for _, part := range v.ValueParts {
		if part.Kind == ast.KindLiteral {
			raw.WriteString(part.Content)
		}
	}
	normalized := normalizedClassValue(raw.String())

	prefixLen := p.currentIndentWidth() + len(p.currentAttributeName) + len(`="`) + len(`"`)
	if prefixLen+len(normalized) <= p.ctx.MaxLineLength {
		return normalized
	}

	tokens := strings.Fields(normalized)
	const tokenIndent = "  "
	var lines []string
	var cur strings.Builder
	for _, tok := range tokens {
		candidate := tok
		if cur.Len() > 0 {
			candidate = cur.String() + " " + tok
		}
		if cur.Len() > 0 && len(tokenIndent)+len(candidate) > p.ctx.MaxLineLength {
			lines = append(lines, cur.String())
			cur.Reset()
			cur.WriteString(tok)
			continue
		}
		cur.Reset()
		cur.WriteString(candidate)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}

	var b strings.Builder
	b.WriteString("\n")
	for _, l := range lines {
		b.WriteString(tokenIndent)
		b.WriteString(l)
		b.WriteString("\n")
	}
	return b.String()
}
