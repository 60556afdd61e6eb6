package extractor

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// ErrParse is returned (wrapped in a *ParseError) when source text does not
// conform to the configured dialect.
var ErrParse = errors.New("parse failure")

// Options selects the source dialect accepted by Extract.
type Options struct {
	// JSX enables JSX element syntax. When false, a file containing JSX is
	// rejected with ErrParse.
	JSX bool
}

// ParseError describes where a file failed to parse.
type ParseError struct {
	Line   int // 1-based
	Column int // 1-based
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", e.Reason, e.Line, e.Column)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}

// tree-sitter javascript node types
const (
	nodeCallExpression   = "call_expression"
	nodeMemberExpression = "member_expression"
	nodeImportStatement  = "import_statement"
	nodeIdentifier       = "identifier"
	nodeString           = "string"
	nodeStringFragment   = "string_fragment"
	nodeEscapeSequence   = "escape_sequence"
	nodeError            = "ERROR"
)

const loadNpmTasks = "loadNpmTasks"

// Extract parses src as a JavaScript module and returns the module
// specifiers it references, in source order: the literal argument of
// require(...) and of <expr>.loadNpmTasks(...) calls, and the source of
// every static import declaration. Calls whose first argument is not a
// string literal are skipped.
func Extract(ctx context.Context, src []byte, opts Options) ([]string, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxError(root)
	}

	var specifiers []string
	var walkErr error
	walk(root, func(n *sitter.Node) bool {
		switch n.Type() {
		case nodeCallExpression:
			if spec, ok := callReference(n, src); ok {
				specifiers = append(specifiers, spec)
			}
		case nodeImportStatement:
			if source := n.ChildByFieldName("source"); source != nil && source.Type() == nodeString {
				if spec := stringValue(source, src); spec != "" {
					specifiers = append(specifiers, spec)
				}
			}
		default:
			if !opts.JSX && strings.HasPrefix(n.Type(), "jsx_") {
				p := n.StartPoint()
				walkErr = &ParseError{
					Line:   int(p.Row) + 1,
					Column: int(p.Column) + 1,
					Reason: "unexpected JSX syntax",
				}
				return false
			}
		}
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return specifiers, nil
}

// walk visits n and its descendants in pre-order until fn returns false.
func walk(n *sitter.Node, fn func(*sitter.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if !walk(n.Child(i), fn) {
			return false
		}
	}
	return true
}

// callReference reports the specifier loaded by a require or loadNpmTasks call.
func callReference(call *sitter.Node, src []byte) (string, bool) {
	callee := call.ChildByFieldName("function")
	if callee == nil {
		return "", false
	}

	switch callee.Type() {
	case nodeIdentifier:
		if callee.Content(src) != "require" {
			return "", false
		}
	case nodeMemberExpression:
		prop := callee.ChildByFieldName("property")
		if prop == nil || prop.Content(src) != loadNpmTasks {
			return "", false
		}
	default:
		return "", false
	}

	args := call.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return "", false
	}
	first := args.NamedChild(0)
	if first.Type() != nodeString {
		return "", false
	}

	spec := stringValue(first, src)
	return spec, spec != ""
}

// stringValue decodes a string literal node into its runtime value.
func stringValue(n *sitter.Node, src []byte) string {
	var b strings.Builder
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case nodeStringFragment:
			b.WriteString(child.Content(src))
		case nodeEscapeSequence:
			b.WriteString(unescape(child.Content(src)))
		}
	}
	return b.String()
}

var simpleEscapes = map[byte]string{
	'n': "\n", 't': "\t", 'r': "\r", 'b': "\b", 'f': "\f", 'v': "\v", '0': "\x00",
}

func unescape(seq string) string {
	if len(seq) < 2 || seq[0] != '\\' {
		return seq
	}
	body := seq[1:]
	switch body[0] {
	case 'u':
		hex := strings.TrimSuffix(strings.TrimPrefix(body[1:], "{"), "}")
		if r, err := strconv.ParseUint(hex, 16, 32); err == nil {
			return string(rune(r))
		}
	case 'x':
		if r, err := strconv.ParseUint(body[1:], 16, 8); err == nil {
			return string(rune(r))
		}
	case '\n', '\r':
		// line continuation
		return ""
	}
	if s, ok := simpleEscapes[body[0]]; ok && len(body) == 1 {
		return s
	}
	return body
}

// syntaxError locates the first ERROR or MISSING node below root.
func syntaxError(root *sitter.Node) error {
	found := findError(root)
	if found == nil {
		return &ParseError{Line: 1, Column: 1, Reason: "syntax error"}
	}

	p := found.StartPoint()
	reason := "syntax error"
	if found.IsMissing() {
		reason = fmt.Sprintf("missing %q", found.Type())
	}
	return &ParseError{Line: int(p.Row) + 1, Column: int(p.Column) + 1, Reason: reason}
}

func findError(n *sitter.Node) *sitter.Node {
	if n.Type() == nodeError || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if !child.HasError() {
			continue
		}
		if found := findError(child); found != nil {
			return found
		}
	}
	return nil
}
