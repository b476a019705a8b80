package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rz-ai/aicheck/internal/llmusage"
	"github.com/rz-ai/aicheck/internal/report"
)

func runLLMUsage(args []string) {
	fs := flag.NewFlagSet("llm-usage", flag.ExitOnError)
	targetRoot := fs.String("target-root", "", "Path to target repo root")
	jsonOut := fs.Bool("json", false, "Emit JSON instead of human-readable output")
	reportPath := fs.String("report", "", "Where to write the report (JSON)")
	maxSize := fs.Int64("max-size-bytes", config.LLMUsage.MaxFileSizeBytes, "Skip files larger than this many bytes (0 disables)")
	_ = fs.Parse(args)

	root := resolveTarget(*targetRoot)
	result := llmusage.Audit(root, config.LLMUsage, *maxSize)

	if *jsonOut {
		if err := report.PrintJSON(os.Stdout, result); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Printf("Auditing LLM usage: %s\n\n", result.Target)
		for _, finding := range result.Findings {
			if finding.Line > 0 {
				fmt.Printf("%s:%d: %s\n", finding.Path, finding.Line, finding.Message)
				if finding.Snippet != "" {
					fmt.Printf("    %s\n", finding.Snippet)
				}
			} else {
				fmt.Printf("%s: %s\n", finding.Path, finding.Message)
			}
		}
		if len(result.Findings) > 0 {
			fmt.Println()
		}
		report.Verdict(os.Stdout, "llm-usage", result.Compliant())
	}

	if err := report.Write(*reportPath, result); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	exitCompliance(result.Compliant())
}
