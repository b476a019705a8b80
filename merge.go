package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rz-ai/aicheck/internal/merge"
	"github.com/rz-ai/aicheck/internal/report"
)

func runMerge(args []string) {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	targetRoot := fs.String("target-root", "", "Root against which default paths resolve")
	corePath := fs.String("core", "", "Path to core prompts file (required to exist)")
	templatePath := fs.String("template", "", "Path to template prompts file (optional)")
	projectPath := fs.String("project", "", "Path to project prompts file (optional)")
	outputPath := fs.String("output", "", "Output merged prompts path")
	dryRun := fs.Bool("dry-run", false, "Do not write output; just report")
	showOverrides := fs.Bool("show-overrides", false, "Print which prompt IDs were overridden and source order")
	reportPath := fs.String("report", "", "Where to write the merge report (JSON)")
	_ = fs.Parse(args)

	root := resolveTarget(*targetRoot)
	core := defaultPath(*corePath, root, config.Merge.CorePath)
	template := defaultPath(*templatePath, root, config.Merge.TemplatePath)
	project := defaultPath(*projectPath, root, config.Merge.ProjectPath)
	output := defaultPath(*outputPath, root, config.Merge.OutputPath)

	sources := []merge.Source{}
	layers := []struct {
		path     string
		required bool
		name     string
	}{
		{core, true, "core"},
		{template, false, "template"},
		{project, false, "project"},
	}
	for _, layer := range layers {
		source, warning, err := merge.LoadSource(layer.path, layer.required, layer.name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			os.Exit(1)
		}
		if warning != "" {
			report.WarnLine(os.Stderr, warning)
		}
		sources = append(sources, source)
	}

	merged := merge.Merge(sources)

	if *showOverrides {
		printOverrides(merged.Overrides)
	}

	if *dryRun {
		fmt.Printf("[dry-run] Would merge %d prompt(s)\n", len(merged.Merged))
	} else {
		if err := merge.WriteYAML(output, merged.Merged); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Merged %d prompt(s) -> %s\n", len(merged.Merged), output)
	}

	if err := report.Write(*reportPath, merged); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func defaultPath(flagValue, root, fallback string) string {
	if flagValue != "" {
		return flagValue
	}
	return filepath.Join(root, filepath.FromSlash(fallback))
}

func printOverrides(overrides map[string][]string) {
	if len(overrides) == 0 {
		return
	}
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	fmt.Fprintln(os.Stderr, "Overrides detected (later source overrides earlier):")
	for _, key := range keys {
		fmt.Fprintf(os.Stderr, "  - %s: %s\n", key, strings.Join(overrides[key], " -> "))
	}
	fmt.Fprintln(os.Stderr)
}
