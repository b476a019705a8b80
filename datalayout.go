package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rz-ai/aicheck/internal/datalayout"
	"github.com/rz-ai/aicheck/internal/report"
)

func runDataLayout(args []string) {
	fs := flag.NewFlagSet("data-layout", flag.ExitOnError)
	targetRoot := fs.String("target-root", "", "Path to target repo root")
	jsonOut := fs.Bool("json", false, "Emit JSON instead of human-readable output")
	reportPath := fs.String("report", "", "Where to write the report (JSON)")
	maxOutputFiles := fs.Int("max-output-files", config.DataLayout.MaxOutputFiles, "Cap on output files checked (0 = unlimited)")
	schemaPath := fs.String("metadata-schema", "", "Override the output metadata schema file")
	_ = fs.Parse(args)

	root := resolveTarget(*targetRoot)
	result := datalayout.Audit(root, config.DataLayout, datalayout.Options{
		MaxOutputFiles: *maxOutputFiles,
		SchemaPath:     *schemaPath,
	}, newValidator())

	if *jsonOut {
		if err := report.PrintJSON(os.Stdout, result); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Printf("Auditing data layout: %s\n\n", result.Target)
		report.PrintBlock(os.Stdout, "Missing required directories", result.MissingDirs)
		report.PrintBlock(os.Stdout, "Stray items under data/", result.StrayItems)
		report.PrintBlock(os.Stdout, "Output metadata issues", result.MetadataIssues)
		report.Verdict(os.Stdout, "data-layout", result.Compliant())
	}

	if err := report.Write(*reportPath, result); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	exitCompliance(result.Compliant())
}
