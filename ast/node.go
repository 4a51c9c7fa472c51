// Package ast defines the ERB+HTML syntax tree consumed by the formatter
// and lint engine. The tree is produced by an upstream parser; this package
// only describes its shape and how to decode it from that parser's JSON
// output.
package ast

import (
	"encoding/json"
	"fmt"
)

// Kind discriminates the variant a Node represents. Visitors switch on Kind
// instead of inspecting a node's dynamic type or a string tag name.
type Kind int

const (
	KindDocument Kind = iota
	KindHTMLElement
	KindHTMLOpenTag
	KindHTMLCloseTag
	KindHTMLAttribute
	KindHTMLAttributeName
	KindHTMLAttributeValue
	KindHTMLText
	KindWhitespace
	KindLiteral
	KindERBContent
	KindERBEnd
	KindERBIf
	KindERBUnless
	KindERBElse
	KindERBCase
	KindERBCaseMatch
	KindERBWhen
	KindERBIn
	KindERBFor
	KindERBWhile
	KindERBUntil
	KindERBBlock
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindHTMLElement:
		return "html_element"
	case KindHTMLOpenTag:
		return "html_open_tag"
	case KindHTMLCloseTag:
		return "html_close_tag"
	case KindHTMLAttribute:
		return "html_attribute"
	case KindHTMLAttributeName:
		return "html_attribute_name"
	case KindHTMLAttributeValue:
		return "html_attribute_value"
	case KindHTMLText:
		return "html_text"
	case KindWhitespace:
		return "whitespace"
	case KindLiteral:
		return "literal"
	case KindERBContent:
		return "erb_content"
	case KindERBEnd:
		return "erb_end"
	case KindERBIf:
		return "erb_if"
	case KindERBUnless:
		return "erb_unless"
	case KindERBElse:
		return "erb_else"
	case KindERBCase:
		return "erb_case"
	case KindERBCaseMatch:
		return "erb_case_match"
	case KindERBWhen:
		return "erb_when"
	case KindERBIn:
		return "erb_in"
	case KindERBFor:
		return "erb_for"
	case KindERBWhile:
		return "erb_while"
	case KindERBUntil:
		return "erb_until"
	case KindERBBlock:
		return "erb_block"
	default:
		return "unknown"
	}
}

// Location is the source span of a node, expressed in 1-based line numbers.
type Location struct {
	StartLine int
	EndLine   int
}

// MultiLine reports whether the node's source span covers more than one line.
func (l Location) MultiLine() bool {
	return l.EndLine > l.StartLine
}

// ERB tag-opening tokens, used by Node.TagOpening for KindERBContent nodes.
const (
	ERBOutput    = "<%="
	ERBStatement = "<%"
	ERBComment   = "<%#"
)

// Node is a single entry in the ERB+HTML syntax tree. It is a tagged union:
// only the fields relevant to Kind are populated, and every visitor in this
// module switches on Kind to decide which fields to read. Node identity
// (pointer equality) is used as the key for the printer's per-node analysis
// and multiline caches.
type Node struct {
	Kind     Kind     `json:"kind"`
	Location Location `json:"location"`

	// Document children; html_open_tag attribute/whitespace children; and,
	// for erb_case/erb_case_match, the passthrough children that appear
	// between `case` and the first when/in.
	Children []*Node `json:"children,omitempty"`

	// html_element
	TagName  string `json:"tag_name,omitempty"`
	IsVoid   bool   `json:"is_void,omitempty"`
	OpenTag  *Node  `json:"open_tag,omitempty"`
	Body     []*Node `json:"body,omitempty"`
	CloseTag *Node  `json:"close_tag,omitempty"`

	// html_open_tag / html_close_tag
	TagOpening string `json:"tag_opening,omitempty"` // "<" / "</"
	TagClosing string `json:"tag_closing,omitempty"` // ">" / "/>"

	// html_attribute
	AttrName  *Node `json:"attr_name,omitempty"`  // html_attribute_name
	AttrValue *Node `json:"attr_value,omitempty"` // html_attribute_value, nil if the attribute has no value

	// html_attribute_value
	OpenQuote  string  `json:"open_quote,omitempty"`
	CloseQuote string  `json:"close_quote,omitempty"`
	ValueParts []*Node `json:"value_parts,omitempty"` // literal and erb_content children

	// html_text / literal / whitespace
	Content string `json:"content,omitempty"`

	// erb_content: tag_opening is one of ERBOutput, ERBStatement, ERBComment
	ContentToken string `json:"content_token,omitempty"`

	// control-flow shared fields. Header carries the raw source text that
	// follows the keyword: the condition for if/unless/while/until, the
	// subject expression for case/case_match, the pattern for when/in.
	Header     string  `json:"header,omitempty"`
	Statements []*Node `json:"statements,omitempty"` // body statements of the current branch
	Subsequent *Node   `json:"subsequent,omitempty"` // erb_if: chained elsif (erb_if) / trailing else (erb_else)
	ElseClause *Node   `json:"else_clause,omitempty"` // erb_unless / erb_case / erb_case_match trailing else
	EndNode    *Node   `json:"end_node,omitempty"`   // erb_end terminating the construct

	// erb_case / erb_case_match
	Cases []*Node `json:"cases,omitempty"` // erb_when / erb_in children, in source order

	// erb_block
	BlockHeader string `json:"block_header,omitempty"` // e.g. "items.each do |item|"
}

// MarshalJSON renders Kind as its snake_case name instead of its ordinal, so
// the wire form matches the grammar's own node-type names.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON parses Kind from its snake_case name.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	kind, ok := kindFromString(s)
	if !ok {
		return fmt.Errorf("ast: unknown node kind %q", s)
	}
	*k = kind
	return nil
}

func kindFromString(s string) (Kind, bool) {
	for k := KindDocument; k <= KindERBBlock; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// ChildNodes returns n's children in source order, regardless of kind. It is
// the uniform traversal entry point required by the data model: every node
// exposes child_nodes even though the concrete fields differ by kind.
//
// For KindHTMLElement this already includes open_tag, every node in Body,
// and close_tag -- a visitor that walks ChildNodes() must NOT also walk
// n.Body separately, or every body descendant is visited twice (and, for a
// recursive visitor, the duplication compounds at every nested element).
func (n *Node) ChildNodes() []*Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindDocument:
		return n.Children
	case KindHTMLElement:
		out := make([]*Node, 0, 2+len(n.Body))
		if n.OpenTag != nil {
			out = append(out, n.OpenTag)
		}
		out = append(out, n.Body...)
		if n.CloseTag != nil {
			out = append(out, n.CloseTag)
		}
		return out
	case KindHTMLOpenTag, KindHTMLCloseTag:
		return n.Children
	case KindHTMLAttribute:
		var out []*Node
		if n.AttrName != nil {
			out = append(out, n.AttrName)
		}
		if n.AttrValue != nil {
			out = append(out, n.AttrValue)
		}
		return out
	case KindHTMLAttributeName:
		return n.Children
	case KindHTMLAttributeValue:
		return n.ValueParts
	case KindERBIf:
		out := append([]*Node{}, n.Statements...)
		if n.Subsequent != nil {
			out = append(out, n.Subsequent)
		}
		if n.EndNode != nil {
			out = append(out, n.EndNode)
		}
		return out
	case KindERBUnless:
		out := append([]*Node{}, n.Statements...)
		if n.ElseClause != nil {
			out = append(out, n.ElseClause)
		}
		if n.EndNode != nil {
			out = append(out, n.EndNode)
		}
		return out
	case KindERBElse, KindERBWhen, KindERBIn:
		return n.Statements
	case KindERBCase, KindERBCaseMatch:
		out := append([]*Node{}, n.Children...)
		out = append(out, n.Cases...)
		if n.ElseClause != nil {
			out = append(out, n.ElseClause)
		}
		if n.EndNode != nil {
			out = append(out, n.EndNode)
		}
		return out
	case KindERBFor, KindERBWhile, KindERBUntil:
		out := append([]*Node{}, n.Statements...)
		if n.EndNode != nil {
			out = append(out, n.EndNode)
		}
		return out
	case KindERBBlock:
		out := append([]*Node{}, n.Body...)
		if n.EndNode != nil {
			out = append(out, n.EndNode)
		}
		return out
	default:
		return nil
	}
}

// ControlFlow reports whether n is one of the ERB control-flow constructs
// that carry nested statements and an end node.
func (n *Node) ControlFlow() bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case KindERBIf, KindERBUnless, KindERBCase, KindERBCaseMatch,
		KindERBFor, KindERBWhile, KindERBUntil, KindERBBlock:
		return true
	default:
		return false
	}
}
