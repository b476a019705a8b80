package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rz-ai/aicheck/internal/configcheck"
	"github.com/rz-ai/aicheck/internal/report"
)

func runValidateConfig(args []string) {
	fs := flag.NewFlagSet("validate-config", flag.ExitOnError)
	targetRoot := fs.String("target-root", "", "Path to target repo root")
	jsonOut := fs.Bool("json", false, "Emit JSON instead of human-readable output")
	reportPath := fs.String("report", "", "Where to write the validation report (JSON)")
	modelsPath := fs.String("models", "", "Override models config path")
	promptsPath := fs.String("prompts", "", "Override prompts config path")
	projectPath := fs.String("project", "", "Override project config path")
	evalsPath := fs.String("evals", "", "Override evals config path")
	modelsSchema := fs.String("models-schema", "", "Override models schema path")
	promptsSchema := fs.String("prompts-schema", "", "Override prompts schema path")
	projectSchema := fs.String("project-schema", "", "Override project schema path")
	evalsSchema := fs.String("evals-schema", "", "Override evals schema path")
	_ = fs.Parse(args)

	root := resolveTarget(*targetRoot)
	docs := configcheck.StandardDocuments(root)
	overridePaths := map[string]string{
		"models": *modelsPath, "prompts": *promptsPath,
		"project": *projectPath, "evals": *evalsPath,
	}
	overrideSchemas := map[string]string{
		"models": *modelsSchema, "prompts": *promptsSchema,
		"project": *projectSchema, "evals": *evalsSchema,
	}
	for i := range docs {
		if path := overridePaths[docs[i].Label]; path != "" {
			docs[i].DataPath = path
			// Explicitly requested documents must exist.
			docs[i].Required = true
		}
		if path := overrideSchemas[docs[i].Label]; path != "" {
			docs[i].SchemaPath = path
		}
	}

	result := configcheck.Validate(root, docs, newValidator())

	if *jsonOut {
		if err := report.PrintJSON(os.Stdout, result); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Printf("Validating config documents: %s\n\n", result.Target)
		for _, doc := range result.Documents {
			fmt.Printf("%s %s (%s)\n", report.Mark(doc.OK), doc.Label, doc.DataPath)
			for _, issue := range doc.Errors {
				fmt.Printf("    %s\n", issue)
			}
		}
		fmt.Println()
		report.Verdict(os.Stdout, "validate-config", result.Compliant())
	}

	if err := report.Write(*reportPath, result); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	exitCompliance(result.Compliant())
}
