// Package promptscan extracts inline prompt literals from Go sources.
//
// The extractor is a best-effort heuristic over a small whitelisted
// expression grammar: plain string literals, + concatenation of reducible
// operands, and fmt.Sprintf templates whose verbs are replaced with a
// placeholder token. Expressions outside that grammar are skipped quietly.
// Non-Go sources are not parsed, which trades recall for precision compared
// with language-specific AST tooling.
package promptscan

import (
	"go/ast"
	"go/parser"
	"go/token"
	"regexp"
	"strconv"
	"strings"

	"github.com/rz-ai/aicheck/internal/audit"
	"github.com/rz-ai/aicheck/internal/treescan"
)

// Placeholder substitutes every non-literal hole in a templated string.
const Placeholder = "{...}"

// Prompt is a single extracted prompt occurrence.
type Prompt struct {
	Path  string `json:"path"`
	Line  int    `json:"line"`
	Var   string `json:"var_name"`
	Value string `json:"value"`
}

// Options bound one extraction run.
type Options struct {
	// Suffixes are the case-insensitive identifier suffixes that mark a
	// prompt variable. Matching normalizes away underscores so snake_case
	// and camelCase spellings both hit.
	Suffixes []string
	// MinLength drops reduced strings whose trimmed length is below it.
	// The filter runs after reduction, not before.
	MinLength int
	// IgnoreNames excludes subtrees from the walk.
	IgnoreNames []string
	// Extensions limit which files are walked; empty means .go only.
	// Non-Go sources pass the walk but fail the parse gate, so widening
	// the set cannot produce false positives, only recall the walk misses.
	Extensions []string
}

// Result is the informational extraction report: it never fails compliance.
type Result struct {
	Target  string   `json:"target"`
	Prompts []Prompt `json:"prompts"`
}

// Compliant always reports true; extraction enumerates, it does not enforce.
func (Result) Compliant() bool { return true }

// MarshalJSON appends the derived compliance flag.
func (r Result) MarshalJSON() ([]byte, error) {
	type alias Result
	return audit.MarshalWithCompliance(alias(r), r.Compliant())
}

// Extract walks root for source files and collects prompt-suffixed
// assignments that reduce to a string of at least MinLength characters.
func Extract(root string, opts Options) Result {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = []string{".go"}
	}
	policy := treescan.NewPolicy(opts.IgnoreNames, exts, 0, 0)
	scan := treescan.Scan(root, policy)

	prompts := []Prompt{}
	for _, rel := range scan.Paths {
		text, failed := treescan.ReadText(root, rel)
		if failed != nil {
			continue
		}
		for _, p := range fromSource(rel, text, opts) {
			prompts = append(prompts, p)
		}
	}
	return Result{Target: root, Prompts: prompts}
}

func fromSource(rel, source string, opts Options) []Prompt {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, rel, source, 0)
	if err != nil {
		// Unparsable sources yield nothing; extraction is best effort.
		return nil
	}

	prompts := []Prompt{}
	record := func(name string, pos token.Pos, expr ast.Expr) {
		if !looksLikePromptVar(name, opts.Suffixes) {
			return
		}
		value, ok := reduce(expr)
		if !ok {
			return
		}
		if len(strings.TrimSpace(value)) < opts.MinLength {
			return
		}
		prompts = append(prompts, Prompt{
			Path:  rel,
			Line:  fset.Position(pos).Line,
			Var:   name,
			Value: value,
		})
	}

	ast.Inspect(file, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.AssignStmt:
			for i, lhs := range node.Lhs {
				ident, ok := lhs.(*ast.Ident)
				if !ok || i >= len(node.Rhs) {
					continue
				}
				record(ident.Name, node.Pos(), node.Rhs[i])
			}
		case *ast.ValueSpec:
			for i, name := range node.Names {
				if i >= len(node.Values) {
					continue
				}
				record(name.Name, node.Pos(), node.Values[i])
			}
		}
		return true
	})
	return prompts
}

func looksLikePromptVar(name string, suffixes []string) bool {
	normalized := strings.ReplaceAll(strings.ToLower(name), "_", "")
	for _, suffix := range suffixes {
		s := strings.ReplaceAll(strings.ToLower(suffix), "_", "")
		if strings.HasSuffix(normalized, s) {
			return true
		}
	}
	return false
}

// reduce tries to collapse expr to a single string value. It accepts string
// literals, + concatenation of two reducible operands, and fmt.Sprintf
// templates with Placeholder substituted for every verb. Anything else
// fails quietly.
func reduce(expr ast.Expr) (string, bool) {
	switch node := expr.(type) {
	case *ast.BasicLit:
		if node.Kind != token.STRING {
			return "", false
		}
		value, err := strconv.Unquote(node.Value)
		if err != nil {
			return "", false
		}
		return value, true
	case *ast.BinaryExpr:
		if node.Op != token.ADD {
			return "", false
		}
		left, ok := reduce(node.X)
		if !ok {
			return "", false
		}
		right, ok := reduce(node.Y)
		if !ok {
			return "", false
		}
		return left + right, true
	case *ast.ParenExpr:
		return reduce(node.X)
	case *ast.CallExpr:
		return reduceSprintf(node)
	}
	return "", false
}

var verbPattern = regexp.MustCompile(`%[#+\- 0]*(?:\*|\d+)?(?:\.(?:\*|\d+))?[a-zA-Z]`)

func reduceSprintf(call *ast.CallExpr) (string, bool) {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "Sprintf" {
		return "", false
	}
	pkg, ok := sel.X.(*ast.Ident)
	if !ok || pkg.Name != "fmt" {
		return "", false
	}
	if len(call.Args) == 0 {
		return "", false
	}
	format, ok := reduce(call.Args[0])
	if !ok {
		return "", false
	}
	format = strings.ReplaceAll(format, "%%", "\x00")
	format = verbPattern.ReplaceAllString(format, Placeholder)
	return strings.ReplaceAll(format, "\x00", "%"), true
}
