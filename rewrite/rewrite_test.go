package rewrite_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tk0miya/herbfmt/ast"
	"github.com/tk0miya/herbfmt/rewrite"
)

func attrName(name string) *ast.Node {
	return &ast.Node{Kind: ast.KindHTMLAttributeName, Children: []*ast.Node{{Kind: ast.KindLiteral, Content: name}}}
}

func attr(name string) *ast.Node {
	return &ast.Node{Kind: ast.KindHTMLAttribute, AttrName: attrName(name)}
}

func TestNewRegistryHasSortAttributesBuiltin(t *testing.T) {
	r := rewrite.NewRegistry()
	require.Contains(t, r.Names(), "sort-attributes")

	fn, ok := r.Get("sort-attributes")
	require.True(t, ok)
	require.NotNil(t, fn)
}

func TestRegisterAndGet(t *testing.T) {
	r := rewrite.NewRegistry()
	called := false
	r.Register("noop", func(n *ast.Node) error {
		called = true
		return nil
	})

	fn, ok := r.Get("noop")
	require.True(t, ok)
	require.NoError(t, fn(nil))
	require.True(t, called)
}

func TestGetUnknownReturnsFalse(t *testing.T) {
	r := rewrite.NewRegistry()
	_, ok := r.Get("does-not-exist")
	require.False(t, ok)
}

func TestSortAttributesOrdersAlphabetically(t *testing.T) {
	open := &ast.Node{Kind: ast.KindHTMLOpenTag, Children: []*ast.Node{
		attr("id"),
		{Kind: ast.KindWhitespace, Content: " "},
		attr("class"),
		{Kind: ast.KindWhitespace, Content: " "},
		attr("aria-label"),
	}}
	el := &ast.Node{Kind: ast.KindHTMLElement, TagName: "div", OpenTag: open}

	require.NoError(t, rewrite.SortAttributes(el))

	var names []string
	for _, c := range open.Children {
		if c.Kind == ast.KindHTMLAttribute {
			names = append(names, c.AttrName.Children[0].Content)
		}
	}
	require.Equal(t, []string{"aria-label", "class", "id"}, names)
}

func TestSortAttributesRecursesIntoChildren(t *testing.T) {
	innerOpen := &ast.Node{Kind: ast.KindHTMLOpenTag, Children: []*ast.Node{attr("id"), attr("class")}}
	inner := &ast.Node{Kind: ast.KindHTMLElement, TagName: "span", OpenTag: innerOpen}
	outerOpen := &ast.Node{Kind: ast.KindHTMLOpenTag}
	outer := &ast.Node{Kind: ast.KindHTMLElement, TagName: "div", OpenTag: outerOpen, Body: []*ast.Node{inner}}

	require.NoError(t, rewrite.SortAttributes(outer))

	require.Equal(t, "class", innerOpen.Children[0].AttrName.Children[0].Content)
	require.Equal(t, "id", innerOpen.Children[1].AttrName.Children[0].Content)
}

func elWithOpen(tag string, open *ast.Node, body ...*ast.Node) *ast.Node {
	return &ast.Node{Kind: ast.KindHTMLElement, TagName: tag, OpenTag: open, Body: body}
}

func TestSortAttributesHandlesDeeplyNestedTree(t *testing.T) {
	// Each level's open tag must be sorted exactly once: ChildNodes()
	// already yields open_tag/body/close_tag for html_element, so walking
	// it and then walking Body again would revisit (and previously,
	// before the fix, re-sort) every descendant at every ancestor level.
	leafOpen := &ast.Node{Kind: ast.KindHTMLOpenTag, Children: []*ast.Node{attr("id"), attr("aria-label")}}
	leaf := elWithOpen("span", leafOpen)

	level3Open := &ast.Node{Kind: ast.KindHTMLOpenTag, Children: []*ast.Node{attr("id"), attr("data-x")}}
	level3 := elWithOpen("section", level3Open, leaf)

	level2Open := &ast.Node{Kind: ast.KindHTMLOpenTag, Children: []*ast.Node{attr("role"), attr("class")}}
	level2 := elWithOpen("article", level2Open, level3)

	level1Open := &ast.Node{Kind: ast.KindHTMLOpenTag, Children: []*ast.Node{attr("id"), attr("class")}}
	level1 := elWithOpen("div", level1Open, level2)

	require.NoError(t, rewrite.SortAttributes(level1))

	require.Equal(t, "class", level1Open.Children[0].AttrName.Children[0].Content)
	require.Equal(t, "class", level2Open.Children[0].AttrName.Children[0].Content)
	require.Equal(t, "data-x", level3Open.Children[0].AttrName.Children[0].Content)
	require.Equal(t, "aria-label", leafOpen.Children[0].AttrName.Children[0].Content)
}
