package parser_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tk0miya/herbfmt/ast"
	"github.com/tk0miya/herbfmt/parser"
)

func TestDecodeSimpleDocument(t *testing.T) {
	data := []byte(`{
		"kind": "document",
		"children": [
			{"kind": "html_text", "content": "hello"}
		]
	}`)

	root, err := parser.Decode(data)
	require.NoError(t, err)
	require.Equal(t, ast.KindDocument, root.Kind)
	require.Len(t, root.Children, 1)
	require.Equal(t, ast.KindHTMLText, root.Children[0].Kind)
	require.Equal(t, "hello", root.Children[0].Content)
}

func TestDecodeElement(t *testing.T) {
	data := []byte(`{
		"kind": "html_element",
		"tag_name": "div",
		"open_tag": {"kind": "html_open_tag"},
		"close_tag": {"kind": "html_close_tag"}
	}`)

	root, err := parser.Decode(data)
	require.NoError(t, err)
	require.Equal(t, ast.KindHTMLElement, root.Kind)
	require.Equal(t, "div", root.TagName)
	require.NotNil(t, root.OpenTag)
	require.Equal(t, ast.KindHTMLOpenTag, root.OpenTag.Kind)
}

func TestDecodeUnknownKindErrors(t *testing.T) {
	_, err := parser.Decode([]byte(`{"kind": "not_a_real_kind"}`))
	require.Error(t, err)
}

func TestDecodeInvalidJSONErrors(t *testing.T) {
	_, err := parser.Decode([]byte(`{not json`))
	require.Error(t, err)
}

func TestNewExternalDefaultsCommand(t *testing.T) {
	os.Unsetenv("HERBFMT_PARSER")
	e := parser.NewExternal()
	require.Equal(t, "herb-parse", e.Command)
}

func TestNewExternalHonorsEnvOverride(t *testing.T) {
	require.NoError(t, os.Setenv("HERBFMT_PARSER", "custom-herb-parse"))
	defer os.Unsetenv("HERBFMT_PARSER")

	e := parser.NewExternal()
	require.Equal(t, "custom-herb-parse", e.Command)
}

func TestParsePropagatesCommandError(t *testing.T) {
	e := &parser.External{Command: "herbfmt-parser-that-does-not-exist"}
	_, err := e.Parse("<div></div>")
	require.Error(t, err)
}
