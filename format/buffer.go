package format

import "strings"

// lineBuffer is the printer's output accumulator: an ordered sequence of
// newline-free lines, joined with "\n" at the end. It mirrors the line/
// indent bookkeeping in derat-htmlpretty's printer (lineStart, lineWidth,
// write, endl, maybeIndent), generalized into named scoped operations so the
// rest of the formatter never pokes at raw indentation math.
type lineBuffer struct {
	lines     []string
	indentStr string

	level           int
	stringLineCount int
	inlineMode      bool
}

func newLineBuffer(indentWidth int) *lineBuffer {
	return &lineBuffer{indentStr: strings.Repeat(" ", indentWidth)}
}

// appendToLast concatenates text onto the last buffer line, starting the
// first line if the buffer is empty. It never introduces a newline.
func (b *lineBuffer) appendToLast(text string) {
	if len(b.lines) == 0 {
		b.lines = append(b.lines, text)
		return
	}
	b.lines[len(b.lines)-1] += text
}

// push appends line as a new buffer entry.
func (b *lineBuffer) push(line string) {
	b.lines = append(b.lines, line)
	b.stringLineCount += strings.Count(line, "\n")
}

// pushWithIndent pushes line prefixed by the current indent, unless line is
// blank, in which case it is pushed unindented so trailing whitespace never
// accumulates on blank lines.
func (b *lineBuffer) pushWithIndent(line string) {
	if strings.TrimSpace(line) == "" {
		b.push(line)
		return
	}
	b.push(b.indent() + line)
}

// emit is push or appendToLast depending on whether the buffer is currently
// in inline mode; callers that must respect inline_mode's "no new-line push"
// invariant should route all emission through this method.
func (b *lineBuffer) emit(text string) {
	if b.inlineMode {
		b.appendToLast(text)
		return
	}
	b.pushWithIndent(text)
}

func (b *lineBuffer) indent() string {
	return strings.Repeat(b.indentStr, b.level)
}

// capture runs fn against a fresh, empty buffer and returns what it
// produced, restoring the prior lines/count/inline-mode unconditionally
// (including when fn panics) so a speculative or nested render can never
// leak into the enclosing buffer.
func (b *lineBuffer) capture(fn func()) (captured []string) {
	savedLines, savedCount, savedInline := b.lines, b.stringLineCount, b.inlineMode
	b.lines = nil
	b.stringLineCount = 0
	defer func() {
		captured = b.lines
		b.lines, b.stringLineCount, b.inlineMode = savedLines, savedCount, savedInline
	}()
	fn()
	return
}

// withIndent increments the indent level for the duration of fn, restoring
// it on every exit path including a panic.
func (b *lineBuffer) withIndent(fn func()) {
	b.level++
	defer func() { b.level-- }()
	fn()
}

// withInlineMode sets inline mode for the duration of fn, restoring the
// previous value on every exit path.
func (b *lineBuffer) withInlineMode(fn func()) {
	saved := b.inlineMode
	b.inlineMode = true
	defer func() { b.inlineMode = saved }()
	fn()
}

// trackBoundary runs fn and reports whether it caused the buffer's line
// count to grow, i.e. whether fn's sub-visit produced multiline output.
func (b *lineBuffer) trackBoundary(fn func()) (grew bool) {
	before := b.stringLineCount
	fn()
	return b.stringLineCount > before
}

// String joins the buffer with newlines; no trailing newline is added.
func (b *lineBuffer) String() string {
	return strings.Join(b.lines, "\n")
}

// lastLineWidth returns the byte length of the last line.
func (b *lineBuffer) lastLineWidth() int {
	if len(b.lines) == 0 {
		return 0
	}
	return len(b.lines[len(b.lines)-1])
}
