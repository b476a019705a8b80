package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/rz-ai/aicheck/internal/health"
	"github.com/rz-ai/aicheck/internal/report"
	"github.com/rz-ai/aicheck/internal/support"
)

func runCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	targetRoot := fs.String("target-root", "", "Path to target repo root")
	jsonOut := fs.Bool("json", false, "Emit JSON instead of human-readable output")
	reportPath := fs.String("report", "", "Where to write the consolidated report (JSON)")
	history := fs.Bool("history", false, "Append this run to <target>/<reportDir>/history.jsonl")
	_ = fs.Parse(args)

	root := resolveTarget(*targetRoot)
	result := health.Run(root, *config, newValidator())

	if *jsonOut {
		if err := report.PrintJSON(os.Stdout, result); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Printf("Running AI-Core consolidated checks for: %s\n\n", result.Target)
		for _, check := range result.Checks {
			fmt.Printf("%s %s\n", report.Mark(check.Status == health.StatusPass), check.Name)
		}
		fmt.Println()
		report.Verdict(os.Stdout, "check", result.Passed)
	}

	if err := report.Write(*reportPath, result); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	// The journal writes into the audited tree, so it is opt-in.
	if *history {
		historyDir := filepath.Join(root, config.Paths.ReportDir)
		entry := support.HistoryEntry{
			RunID:        uuid.NewString(),
			Command:      "check",
			Target:       root,
			Passed:       result.Passed,
			FailedChecks: len(result.FailedNames()),
		}
		if err := support.AppendHistory(historyDir, entry); err != nil {
			slog.Warn("failed to append run history", "error", err)
		}
	}

	exitCompliance(result.Passed)
}
