package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rz-ai/aicheck/internal/configcheck"
	"github.com/rz-ai/aicheck/internal/report"
	"github.com/rz-ai/aicheck/internal/structure"
)

func runStructure(args []string) {
	fs := flag.NewFlagSet("structure", flag.ExitOnError)
	targetRoot := fs.String("target-root", "", "Path to target repo root")
	jsonOut := fs.Bool("json", false, "Emit JSON instead of human-readable output")
	reportPath := fs.String("report", "", "Where to write the report (JSON)")
	validateConfigs := fs.Bool("validate-configs", false, "Also validate standard config documents")
	_ = fs.Parse(args)

	root := resolveTarget(*targetRoot)
	result := structure.Audit(root, config.Structure)

	if *validateConfigs {
		validation := configcheck.Validate(root, configcheck.StandardDocuments(root), newValidator())
		passed := validation.OK
		result.ConfigValidation = &passed
	}

	if *jsonOut {
		if err := report.PrintJSON(os.Stdout, result); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Printf("Auditing project structure: %s\n\n", result.Target)
		report.PrintBlock(os.Stdout, "Missing required directories", result.MissingDirs)
		report.PrintBlock(os.Stdout, "Missing required files", result.MissingFiles)
		report.PrintBlock(os.Stdout, "Missing recommended items", result.MissingRecommended)
		if result.ConfigValidation != nil && !*result.ConfigValidation {
			report.WarnLine(os.Stdout, "config document validation failed; run 'aicheck validate-config' for details")
		}
		report.Verdict(os.Stdout, "structure", result.Compliant())
	}

	if err := report.Write(*reportPath, result); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	exitCompliance(result.Compliant())
}
