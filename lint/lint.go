// Package lint implements a read-only visitor over the same ERB+HTML tree
// the formatter walks, reporting style offenses. Built-in rules are plain
// Go predicates; project-configured rules are boolean expr-lang expressions
// evaluated against each node.
package lint

import (
	"fmt"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/tk0miya/herbfmt/ast"
	"github.com/tk0miya/herbfmt/format"
)

// Offense is a single reported lint finding.
type Offense struct {
	Rule    string
	Line    int
	Message string
}

// Config selects which built-in rules run and carries user-defined
// expression rules.
type Config struct {
	Disabled []string
	Rules    map[string]string // name -> expr-lang boolean expression
}

func (c Config) disabled(name string) bool {
	for _, d := range c.Disabled {
		if d == name {
			return true
		}
	}
	return false
}

// builtins is every rule shipped with herbfmt, keyed by name so Config.Disabled
// can turn any of them off.
var builtins = map[string]func(n *ast.Node, offenses *[]Offense){
	"tag-name-lowercase":   ruleTagNameLowercase,
	"void-element-no-body": ruleVoidElementNoBody,
	"erb-disable-has-rule": ruleDisableHasRuleName,
}

// Run walks root and returns every offense found. It never mutates the tree.
func Run(root *ast.Node, cfg Config) ([]Offense, error) {
	var offenses []Offense

	evalRules, err := compileExprRules(cfg.Rules)
	if err != nil {
		return nil, err
	}

	var walk func(n *ast.Node, depth int)
	walk = func(n *ast.Node, depth int) {
		if n == nil {
			return
		}
		for name, rule := range builtins {
			if !cfg.disabled(name) {
				rule(n, &offenses)
			}
		}
		for name, prog := range evalRules {
			fired, err := evalExprRule(prog, n, depth)
			if err == nil && fired {
				offenses = append(offenses, Offense{
					Rule:    name,
					Line:    n.Location.StartLine,
					Message: fmt.Sprintf("%s matched node %s", name, n.Kind),
				})
			}
		}
		// ChildNodes already yields open_tag, body and close_tag for
		// html_element (ast.Node.ChildNodes), so a single pass over it
		// covers the body too -- walking n.Body again here would visit
		// every descendant twice.
		for _, c := range n.ChildNodes() {
			walk(c, depth+1)
		}
	}
	walk(root, 0)

	return offenses, nil
}

func ruleTagNameLowercase(n *ast.Node, offenses *[]Offense) {
	if n.Kind != ast.KindHTMLElement {
		return
	}
	if n.TagName != strings.ToLower(n.TagName) {
		*offenses = append(*offenses, Offense{
			Rule:    "tag-name-lowercase",
			Line:    n.Location.StartLine,
			Message: fmt.Sprintf("tag name %q should be lowercase", n.TagName),
		})
	}
}

func ruleVoidElementNoBody(n *ast.Node, offenses *[]Offense) {
	if n.Kind != ast.KindHTMLElement {
		return
	}
	if format.IsVoidElement(n.TagName) && len(n.Body) > 0 {
		*offenses = append(*offenses, Offense{
			Rule:    "void-element-no-body",
			Line:    n.Location.StartLine,
			Message: fmt.Sprintf("void element <%s> must not have content", n.TagName),
		})
	}
}

func ruleDisableHasRuleName(n *ast.Node, offenses *[]Offense) {
	if n.Kind != ast.KindERBContent || n.ContentToken != ast.ERBComment {
		return
	}
	trimmed := strings.TrimSpace(n.Content)
	if strings.HasPrefix(trimmed, "herb:disable") && strings.TrimSpace(strings.TrimPrefix(trimmed, "herb:disable")) == "" {
		*offenses = append(*offenses, Offense{
			Rule:    "erb-disable-has-rule",
			Line:    n.Location.StartLine,
			Message: "herb:disable comment must name the rule it disables",
		})
	}
}

// nodeEnv is the expression environment bound for a user-configured rule,
// mirroring the bound-environment pattern used to evaluate expr-lang
// expressions elsewhere in the corpus.
type nodeEnv struct {
	Tag       string   `expr:"tag"`
	Kind      string   `expr:"kind"`
	Depth     int      `expr:"depth"`
	AttrNames []string `expr:"attr_names"`
}

// exprCache holds compiled user rule programs across Run calls, so walking
// many files in a project only compiles each configured rule expression
// once.
var exprCache = newEvaluatorCache()

func compileExprRules(rules map[string]string) (map[string]*vm.Program, error) {
	out := make(map[string]*vm.Program, len(rules))
	for name, src := range rules {
		prog, err := exprCache.compile(name, src)
		if err != nil {
			return nil, err
		}
		out[name] = prog
	}
	return out, nil
}

func evalExprRule(prog *vm.Program, n *ast.Node, depth int) (bool, error) {
	env := nodeEnv{Tag: n.TagName, Kind: n.Kind.String(), Depth: depth, AttrNames: attrNames(n)}
	result, err := expr.Run(prog, env)
	if err != nil {
		return false, err
	}
	fired, _ := result.(bool)
	return fired, nil
}

func attrNames(n *ast.Node) []string {
	if n.Kind != ast.KindHTMLElement || n.OpenTag == nil {
		return nil
	}
	var names []string
	for _, c := range n.OpenTag.Children {
		if c.Kind == ast.KindHTMLAttribute && c.AttrName != nil {
			var s strings.Builder
			for _, lit := range c.AttrName.Children {
				if lit.Kind == ast.KindLiteral {
					s.WriteString(lit.Content)
				}
			}
			names = append(names, s.String())
		}
	}
	return names
}

// evaluatorCache lets a process that lints many files avoid recompiling the
// same project's expr rules on every Run call.
type evaluatorCache struct {
	mu    sync.RWMutex
	cache map[string]*vm.Program
}

func newEvaluatorCache() *evaluatorCache {
	return &evaluatorCache{cache: map[string]*vm.Program{}}
}

func (c *evaluatorCache) compile(name, src string) (*vm.Program, error) {
	c.mu.RLock()
	if p, ok := c.cache[src]; ok {
		c.mu.RUnlock()
		return p, nil
	}
	c.mu.RUnlock()

	prog, err := expr.Compile(src, expr.Env(nodeEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile lint rule %q: %w", name, err)
	}

	c.mu.Lock()
	c.cache[src] = prog
	c.mu.Unlock()
	return prog, nil
}
