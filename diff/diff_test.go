package diff_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tk0miya/herbfmt/diff"
)

func TestUnifiedIdenticalInputsIsEmpty(t *testing.T) {
	require.Equal(t, "", diff.Unified("view.html.erb", "<div></div>", "<div></div>"))
}

func TestUnifiedShowsHeader(t *testing.T) {
	out := diff.Unified("view.html.erb", "<div>\n", "<div></div>\n")
	require.True(t, strings.HasPrefix(out, "--- view.html.erb (original)\n+++ view.html.erb (formatted)\n"))
}

func TestUnifiedMarksChangedLines(t *testing.T) {
	out := diff.Unified("view.html.erb", "a\nb\n", "a\nc\n")
	require.Contains(t, out, "- b\n")
	require.Contains(t, out, "+ c\n")
	require.Contains(t, out, "  a\n")
}

func TestUnifiedHandlesLengthMismatch(t *testing.T) {
	out := diff.Unified("view.html.erb", "a\n", "a\nb\n")
	require.Contains(t, out, "+ b\n")
}
