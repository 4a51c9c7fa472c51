// Package parser is the collaborator boundary between raw ERB+HTML source
// and the ast package: parsing the grammar itself is out of scope for this
// module (it belongs to the upstream tree-sitter-based herb parser), so
// this package only knows how to invoke that external parser and decode
// its JSON tree output into an *ast.Node, the way derat-htmlpretty's CLI
// hands raw bytes to an external parser (golang.org/x/net/html.Parse)
// before ever touching its own printer.
package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/tk0miya/herbfmt/ast"
)

// defaultCommand is the external parser binary NewExternal configures when
// HERBFMT_PARSER is not set. It is expected to read ERB+HTML source on stdin
// and write the JSON-encoded tree (per ast.Node's json tags) to stdout.
const defaultCommand = "herb-parse"

// External parses source by shelling out to an external ERB+HTML parser.
type External struct {
	// Command is the executable to run. NewExternal sets it to the
	// HERBFMT_PARSER environment variable when set, else to defaultCommand;
	// Parse runs it as given.
	Command string
	Args    []string
}

// NewExternal returns an External configured from the environment.
func NewExternal() *External {
	cmd := defaultCommand
	if v := os.Getenv("HERBFMT_PARSER"); v != "" {
		cmd = v
	}
	return &External{Command: cmd, Args: []string{"--format", "json"}}
}

// Parse runs the configured parser against source and decodes its output.
func (e *External) Parse(source string) (*ast.Node, error) {
	cmd := exec.Command(e.Command, e.Args...)
	cmd.Stdin = strings.NewReader(source)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("run %s: %w: %s", e.Command, err, stderr.String())
	}

	return Decode(stdout.Bytes())
}

// Decode parses the JSON wire form of an ERB+HTML tree, as produced by the
// upstream parser, into an *ast.Node.
func Decode(data []byte) (*ast.Node, error) {
	var root ast.Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode parsed tree: %w", err)
	}
	return &root, nil
}
