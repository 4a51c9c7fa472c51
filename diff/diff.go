// Package diff renders a unified-style diff between a file's original and
// formatted contents, used by herbfmt's check subcommand.
package diff

import (
	"fmt"
	"strings"
)

// Unified returns a unified-style diff of before and after, headed by
// "--- path (original)" / "+++ path (formatted)". Identical inputs produce
// an empty string.
func Unified(path, before, after string) string {
	if before == after {
		return ""
	}

	beforeLines := strings.Split(before, "\n")
	afterLines := strings.Split(after, "\n")

	var b strings.Builder
	fmt.Fprintf(&b, "--- %s (original)\n", path)
	fmt.Fprintf(&b, "+++ %s (formatted)\n", path)

	max := len(beforeLines)
	if len(afterLines) > max {
		max = len(afterLines)
	}

	for i := 0; i < max; i++ {
		var a, c string
		haveA, haveC := i < len(beforeLines), i < len(afterLines)
		if haveA {
			a = beforeLines[i]
		}
		if haveC {
			c = afterLines[i]
		}

		switch {
		case haveA && haveC && a == c:
			fmt.Fprintf(&b, "  %s\n", a)
		default:
			if haveA {
				fmt.Fprintf(&b, "- %s\n", a)
			}
			if haveC {
				fmt.Fprintf(&b, "+ %s\n", c)
			}
		}
	}

	return b.String()
}
