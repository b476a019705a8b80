package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rz-ai/aicheck/internal/promptscan"
	"github.com/rz-ai/aicheck/internal/report"
)

func runPrompts(args []string) {
	fs := flag.NewFlagSet("prompts", flag.ExitOnError)
	targetRoot := fs.String("target-root", "", "Path to target repo root")
	jsonOut := fs.Bool("json", false, "Emit JSON instead of human-readable output")
	yamlOut := fs.Bool("yaml", false, "Emit prompts.yaml skeleton to stdout")
	reportPath := fs.String("report", "", "Where to write the extraction report (JSON)")
	minLength := fs.Int("min-length", config.Prompts.MinLength, "Minimum prompt length to include")
	extensions := fs.String("extensions", ".go", "Comma-separated list of file extensions to scan (e.g. .go,.py)")
	_ = fs.Parse(args)

	var exts []string
	for _, ext := range strings.Split(*extensions, ",") {
		if ext = strings.TrimSpace(ext); ext != "" {
			exts = append(exts, ext)
		}
	}

	root := resolveTarget(*targetRoot)
	result := promptscan.Extract(root, promptscan.Options{
		Suffixes:    config.Prompts.Suffixes,
		MinLength:   *minLength,
		IgnoreNames: config.Prompts.IgnoreNames,
		Extensions:  exts,
	})

	switch {
	case *yamlOut:
		printPromptSkeleton(result)
	case *jsonOut:
		if err := report.PrintJSON(os.Stdout, result); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			os.Exit(1)
		}
	default:
		printPromptsHuman(result)
	}

	if err := report.Write(*reportPath, result); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	// Extraction is informational; it never fails the process.
}

func printPromptsHuman(result promptscan.Result) {
	fmt.Printf("Extracting prompts from: %s\n\n", result.Target)
	if len(result.Prompts) == 0 {
		fmt.Println("No inline prompts found.")
		return
	}
	fmt.Printf("Found %d prompt(s):\n", len(result.Prompts))
	for _, prompt := range result.Prompts {
		preview := strings.ReplaceAll(strings.TrimSpace(prompt.Value), "\n", " ")
		if len(preview) > 80 {
			preview = preview[:77] + "..."
		}
		fmt.Printf("- %s:%d :: %s -> %s\n", prompt.Path, prompt.Line, prompt.Var, preview)
	}
}

// printPromptSkeleton renders the extracted prompts as a config/prompts.yaml
// starting point for manual migration.
func printPromptSkeleton(result promptscan.Result) {
	lines := []string{"prompts:"}
	for idx, prompt := range result.Prompts {
		lines = append(lines, fmt.Sprintf("  prompt_%d:", idx+1))
		lines = append(lines, "    description: TODO")
		lines = append(lines, "    system: |")
		body := strings.Split(prompt.Value, "\n")
		if len(body) == 0 {
			body = []string{""}
		}
		for _, line := range body {
			lines = append(lines, "      "+line)
		}
		lines = append(lines, "    user_template: TODO")
		lines = append(lines, fmt.Sprintf("    _source: %s:%d (%s)", prompt.Path, prompt.Line, prompt.Var))
	}
	fmt.Println(strings.Join(lines, "\n"))
}
