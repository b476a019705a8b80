package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rz-ai/aicheck/internal/docs"
	"github.com/rz-ai/aicheck/internal/report"
)

func runDocs(args []string) {
	fs := flag.NewFlagSet("docs", flag.ExitOnError)
	targetRoot := fs.String("target-root", "", "Path to target repo root")
	jsonOut := fs.Bool("json", false, "Emit JSON instead of human-readable output")
	reportPath := fs.String("report", "", "Where to write the report (JSON)")
	_ = fs.Parse(args)

	root := resolveTarget(*targetRoot)
	result := docs.Audit(root, config.Docs)

	if *jsonOut {
		if err := report.PrintJSON(os.Stdout, result); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Printf("Auditing documentation: %s\n\n", result.Target)
		report.PrintBlock(os.Stdout, "Missing required docs", result.MissingRequired)
		report.PrintBlock(os.Stdout, "Missing recommended docs", result.MissingRecommended)
		if result.ReadmeMissing {
			report.WarnLine(os.Stdout, "README.md is missing or unreadable")
		}
		report.PrintBlock(os.Stdout, "Required docs not linked from README", result.UnlinkedRequired)
		report.Verdict(os.Stdout, "docs", result.Compliant())
	}

	if err := report.Write(*reportPath, result); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	exitCompliance(result.Compliant())
}
