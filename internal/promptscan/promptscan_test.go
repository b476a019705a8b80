package promptscan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOptions = Options{
	Suffixes:  []string{"prompt", "template", "system_msg"},
	MinLength: 40,
}

func writeSource(t *testing.T, root, rel, source string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
}

func byVar(prompts []Prompt) map[string]Prompt {
	out := map[string]Prompt{}
	for _, p := range prompts {
		out[p.Var] = p
	}
	return out
}

func TestExtractStringLiteral(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "gen.go", `package gen

var systemPrompt = "You are a precise assistant. Answer with citations only."
`)
	result := Extract(root, testOptions)

	require.Len(t, result.Prompts, 1)
	p := result.Prompts[0]
	assert.Equal(t, "gen.go", p.Path)
	assert.Equal(t, "systemPrompt", p.Var)
	assert.Equal(t, 3, p.Line)
	assert.Contains(t, p.Value, "precise assistant")
}

func TestExtractConcatenationAndRawStrings(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "gen.go", "package gen\n\nfunc f() {\n\tuserTemplate := \"Summarize the following document \" + `and keep the tone neutral.`\n\t_ = userTemplate\n}\n")
	result := Extract(root, testOptions)

	require.Len(t, result.Prompts, 1)
	assert.Equal(t, "Summarize the following document and keep the tone neutral.", result.Prompts[0].Value)
}

func TestExtractSprintfTemplate(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "gen.go", `package gen

import "fmt"

func f(name string, n int) string {
	reviewPrompt := fmt.Sprintf("Review %s carefully and list the top %d problems, 100%% honestly.", name, n)
	return reviewPrompt
}
`)
	result := Extract(root, testOptions)

	require.Len(t, result.Prompts, 1)
	assert.Equal(t,
		"Review {...} carefully and list the top {...} problems, 100% honestly.",
		result.Prompts[0].Value)
}

func TestExtractSuffixMatchingNormalizesUnderscores(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "gen.go", `package gen

var system_msg = "Respond in formal English and cite every claim you make."
var SystemMsg = "Respond in casual English and keep answers short and friendly."
`)
	result := Extract(root, testOptions)

	vars := byVar(result.Prompts)
	assert.Contains(t, vars, "system_msg")
	assert.Contains(t, vars, "SystemMsg")
}

func TestExtractFiltersAndSkips(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "gen.go", `package gen

func f(dynamic string) {
	shortPrompt := "hi"
	configValue := "this string is long enough but its name does not match any suffix"
	dynamicPrompt := dynamic + "tail"
	_, _, _ = shortPrompt, configValue, dynamicPrompt
}
`)
	result := Extract(root, testOptions)
	assert.Empty(t, result.Prompts,
		"short values, non-matching names, and irreducible expressions are all skipped quietly")
}

func TestExtractIgnoresConfiguredSubtrees(t *testing.T) {
	root := t.TempDir()
	source := `package gen

var hiddenPrompt = "You are a precise assistant. Answer with citations only."
`
	writeSource(t, root, "vendor/dep/gen.go", source)
	writeSource(t, root, "visible/gen.go", source)

	opts := testOptions
	opts.IgnoreNames = []string{"vendor"}
	result := Extract(root, opts)

	require.Len(t, result.Prompts, 1)
	assert.Equal(t, "visible/gen.go", result.Prompts[0].Path)
}

func TestExtractUnparsableSourceIsSkipped(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "broken.go", "package gen\n\nvar brokenPrompt = \n")
	result := Extract(root, testOptions)
	assert.Empty(t, result.Prompts)
}

func TestResultIsAlwaysCompliant(t *testing.T) {
	result := Result{Target: "/repo", Prompts: []Prompt{{Var: "p"}}}
	assert.True(t, result.Compliant(), "extraction enumerates, it never enforces")
}

func TestExtractExtensionsWidenTheWalk(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "gen.go", `package gen

var systemPrompt = "You are a precise assistant. Answer with citations only."
`)
	writeSource(t, root, "gen.py", `system_prompt = "You are a precise assistant. Answer with citations only."
`)

	opts := testOptions
	opts.Extensions = []string{".go", ".py"}
	result := Extract(root, opts)

	// The .py file is walked but never parses, so only the Go prompt lands.
	require.Len(t, result.Prompts, 1)
	assert.Equal(t, "gen.go", result.Prompts[0].Path)
}

func TestExtractExtensionsExcludeGoWhenNarrowed(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "gen.go", `package gen

var systemPrompt = "You are a precise assistant. Answer with citations only."
`)

	opts := testOptions
	opts.Extensions = []string{".py"}
	result := Extract(root, opts)
	assert.Empty(t, result.Prompts)
}
