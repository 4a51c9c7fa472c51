package format

import (
	"regexp"
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/tk0miya/herbfmt/ast"
)

// tagSet holds a case-insensitive set of HTML tag names. Known HTML5 tags
// are matched through golang.org/x/net/html/atom (avoiding a string compare
// for the common case, the way titpetric-vuego/formatter and
// dpotapov-go-pages/chtml classify elements); custom/component tag names
// fall back to the string set.
type tagSet struct {
	atoms   map[atom.Atom]struct{}
	strings map[string]struct{}
}

func newTagSet(tags string) tagSet {
	ts := tagSet{atoms: map[atom.Atom]struct{}{}, strings: map[string]struct{}{}}
	for _, t := range strings.Fields(tags) {
		lower := strings.ToLower(t)
		if a := atom.Lookup([]byte(lower)); a != 0 {
			ts.atoms[a] = struct{}{}
		}
		ts.strings[lower] = struct{}{}
	}
	return ts
}

func (ts tagSet) has(tagName string) bool {
	lower := strings.ToLower(tagName)
	if a := atom.Lookup([]byte(lower)); a != 0 {
		if _, ok := ts.atoms[a]; ok {
			return true
		}
	}
	_, ok := ts.strings[lower]
	return ok
}

var (
	inlineElements = newTagSet("a abbr acronym b bdo big br cite code dfn em hr i img kbd label map " +
		"object q samp small span strong sub sup tt var del ins mark s u time wbr")
	contentPreservingElements = newTagSet("script style pre textarea")
	voidElements              = newTagSet("area base br col embed hr img input link meta param source track wbr")
	tokenListAttributes       = map[string]struct{}{"class": {}, "data-controller": {}, "data-action": {}}
)

func isInlineElement(n *ast.Node) bool {
	return n != nil && n.Kind == ast.KindHTMLElement && inlineElements.has(n.TagName)
}

func isPreservedElement(n *ast.Node) bool {
	return n != nil && n.Kind == ast.KindHTMLElement && contentPreservingElements.has(n.TagName)
}

func isVoidTag(tagName string) bool {
	return voidElements.has(tagName)
}

func isTokenListAttribute(name string) bool {
	_, ok := tokenListAttributes[strings.ToLower(name)]
	return ok
}

// blockLevelNode reports whether n is an html_element whose tag is not in
// the inline set.
func blockLevelNode(n *ast.Node) bool {
	return n != nil && n.Kind == ast.KindHTMLElement && !inlineElements.has(n.TagName)
}

// pureWhitespaceNode reports whether n is html_text containing only ASCII
// whitespace.
func pureWhitespaceNode(n *ast.Node) bool {
	if n == nil || n.Kind != ast.KindHTMLText {
		return false
	}
	return strings.TrimFunc(n.Content, isASCIIWhitespace) == ""
}

func isASCIIWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	default:
		return false
	}
}

// nonWhitespaceNode is false for whitespace nodes and whitespace-only
// html_text, true otherwise.
func nonWhitespaceNode(n *ast.Node) bool {
	if n == nil {
		return false
	}
	if n.Kind == ast.KindWhitespace {
		return false
	}
	if n.Kind == ast.KindHTMLText && pureWhitespaceNode(n) {
		return false
	}
	return true
}

// erbControlFlow reports whether n is a control-flow ERB construct.
func erbControlFlow(n *ast.Node) bool {
	return n.ControlFlow()
}

// herbDisableComment reports whether n is an erb_content comment whose
// content begins with "herb:disable".
func herbDisableComment(n *ast.Node) bool {
	if n == nil || n.Kind != ast.KindERBContent || n.ContentToken != ast.ERBComment {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(n.Content), "herb:disable")
}

// herbFormatterIgnore reports whether n is the file-level
// "<%# herb:formatter ignore %>" directive.
func herbFormatterIgnore(n *ast.Node) bool {
	if n == nil || n.Kind != ast.KindERBContent || n.ContentToken != ast.ERBComment {
		return false
	}
	return strings.TrimSpace(n.Content) == "herb:formatter ignore"
}

// inTextFlowContext reports whether children mix non-empty text with at
// least one non-text child, where every non-text child is either erb_content
// or an inline html_element -- the trigger condition for the text-flow
// engine (§4.6 / §4.7 body dispatcher).
func inTextFlowContext(children []*ast.Node) bool {
	hasText := false
	hasNonText := false
	for _, c := range children {
		switch c.Kind {
		case ast.KindHTMLText:
			if nonWhitespaceNode(c) {
				hasText = true
			}
		case ast.KindWhitespace:
			// ignored for the purposes of this classification
		case ast.KindERBContent:
			hasNonText = true
		case ast.KindHTMLElement:
			hasNonText = true
			if !isInlineElement(c) {
				return false
			}
		default:
			return false
		}
	}
	return hasText && hasNonText
}

// closingPunctuation matches a word made up only of closing punctuation,
// which gets no preceding space when flushed by the text-flow engine.
var closingPunctuation = regexp.MustCompile(`^[.,;:!?)\]}]+$`)

// needsSpaceBetween decides whether the text-flow engine should insert a
// single space between the accumulated line and the next word.
func needsSpaceBetween(currentLine, word string) bool {
	if closingPunctuation.MatchString(word) {
		return false
	}
	if currentLine != "" {
		last := currentLine[len(currentLine)-1]
		if last == '(' || last == '[' || last == '{' {
			return false
		}
	}
	if strings.HasPrefix(word, "<%") && currentLine != "" {
		last := rune(currentLine[len(currentLine)-1])
		if !isWordRune(last) && last != '"' && last != '\'' && last != ')' {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
}

// IsInlineElement reports whether n is one of the inline HTML elements, for
// use by collaborators (e.g. the lint engine) that need the same
// classification the printer uses.
func IsInlineElement(n *ast.Node) bool { return isInlineElement(n) }

// IsVoidElement reports whether tagName is a void HTML element.
func IsVoidElement(tagName string) bool { return isVoidTag(tagName) }

// IsPreservedElement reports whether n is a content-preserving element
// (script/style/pre/textarea).
func IsPreservedElement(n *ast.Node) bool { return isPreservedElement(n) }

// collapseWhitespace collapses ASCII-whitespace runs to single spaces.
func collapseWhitespace(s string) string {
	var b strings.Builder
	lastWasSpace := false
	for _, r := range s {
		if isASCIIWhitespace(r) {
			if !lastWasSpace {
				b.WriteByte(' ')
			}
			lastWasSpace = true
			continue
		}
		lastWasSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
