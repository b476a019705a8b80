package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rz-ai/aicheck/internal/report"
	"github.com/rz-ai/aicheck/internal/tooling"
)

func runTooling(args []string) {
	fs := flag.NewFlagSet("tooling", flag.ExitOnError)
	targetRoot := fs.String("target-root", "", "Path to target repo root")
	jsonOut := fs.Bool("json", false, "Emit JSON instead of human-readable output")
	reportPath := fs.String("report", "", "Where to write the report (JSON)")
	_ = fs.Parse(args)

	root := resolveTarget(*targetRoot)
	result := tooling.Audit(root, config.Tooling)

	if *jsonOut {
		if err := report.PrintJSON(os.Stdout, result); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Printf("Auditing tooling and CI: %s\n\n", result.Target)
		if len(result.Languages) > 0 {
			fmt.Printf("Detected languages: %s\n", strings.Join(result.Languages, ", "))
		}
		report.PrintBlock(os.Stdout, "Missing required tooling files", result.MissingRequired)
		report.PrintBlock(os.Stdout, "Missing recommended tooling files", result.MissingRecommended)
		report.PrintBlock(os.Stdout, "Missing recommended directories", result.MissingRecommendedDirs)
		report.Verdict(os.Stdout, "tooling", result.Compliant())
	}

	if err := report.Write(*reportPath, result); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	exitCompliance(result.Compliant())
}
