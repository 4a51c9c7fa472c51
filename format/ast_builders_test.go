package format

import "github.com/tk0miya/herbfmt/ast"

// Builder helpers for constructing ast.Node trees by hand in tests. The
// core package consumes an already-parsed tree, so these stand in for the
// upstream parser the way the teacher's checkPrint helper stands in for a
// real browser-grade HTML parse.

func doc(children ...*ast.Node) *ast.Node {
	return &ast.Node{Kind: ast.KindDocument, Children: children}
}

func el(tag string, attrs []*ast.Node, body ...*ast.Node) *ast.Node {
	n := &ast.Node{Kind: ast.KindHTMLElement, TagName: tag, Body: body}
	n.OpenTag = &ast.Node{Kind: ast.KindHTMLOpenTag, Children: attrs}
	n.CloseTag = &ast.Node{Kind: ast.KindHTMLCloseTag}
	return n
}

func voidEl(tag string, attrs []*ast.Node) *ast.Node {
	n := &ast.Node{Kind: ast.KindHTMLElement, TagName: tag, IsVoid: true}
	n.OpenTag = &ast.Node{Kind: ast.KindHTMLOpenTag, Children: attrs}
	return n
}

func txt(s string) *ast.Node {
	return &ast.Node{Kind: ast.KindHTMLText, Content: s}
}

func ws(s string) *ast.Node {
	return &ast.Node{Kind: ast.KindWhitespace, Content: s}
}

func attr(name, value string) *ast.Node {
	return &ast.Node{
		Kind:     ast.KindHTMLAttribute,
		AttrName: attrName(name),
		AttrValue: &ast.Node{
			Kind:       ast.KindHTMLAttributeValue,
			OpenQuote:  `"`,
			CloseQuote: `"`,
			ValueParts: []*ast.Node{{Kind: ast.KindLiteral, Content: value}},
		},
	}
}

func attrNoValue(name string) *ast.Node {
	return &ast.Node{Kind: ast.KindHTMLAttribute, AttrName: attrName(name)}
}

func attrName(name string) *ast.Node {
	return &ast.Node{Kind: ast.KindHTMLAttributeName, Children: []*ast.Node{{Kind: ast.KindLiteral, Content: name}}}
}

func erbOutput(code string) *ast.Node {
	return &ast.Node{Kind: ast.KindERBContent, ContentToken: ast.ERBOutput, Content: code}
}

func erbStatement(code string) *ast.Node {
	return &ast.Node{Kind: ast.KindERBContent, ContentToken: ast.ERBStatement, Content: code}
}

func erbComment(content string) *ast.Node {
	return &ast.Node{Kind: ast.KindERBContent, ContentToken: ast.ERBComment, Content: content}
}

func ifStmt(cond string, stmts ...*ast.Node) *ast.Node {
	return &ast.Node{Kind: ast.KindERBIf, Header: cond, Statements: stmts, EndNode: &ast.Node{Kind: ast.KindERBEnd}}
}
