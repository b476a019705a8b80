package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rz-ai/aicheck/internal/tasks"
)

func runTasks(args []string) {
	fs := flag.NewFlagSet("tasks", flag.ExitOnError)
	listOnly := fs.Bool("list", false, "List tasks and exit")
	runTasksFlag := fs.Bool("run", false, "Run tasks (default: list only)")
	only := fs.String("only", "", "Comma-separated task keys to run (e.g. structure,schema)")
	dryRun := fs.Bool("dry-run", false, "Do not execute commands; show what would run")
	failOnMissing := fs.Bool("fail-on-missing", false, "Return non-zero if any requested task is missing")
	standardsRoot := fs.String("standards-root", "", "Path to the standards repo containing audit scripts")
	targetRoot := fs.String("target-root", "", "Path to the target project to audit")
	planPath := fs.String("plan-path", "", "Where to write the remediation plan (default: <target>/fix_audit_plan.md)")
	loop := fs.Bool("loop", false, "Re-run tasks up to max iterations until success")
	maxIterations := fs.Int("max-iterations", tasks.DefaultMaxIterations, "Max iterations when --loop is set")
	skipPlan := fs.Bool("skip-plan", false, "Do not write the remediation plan file")
	_ = fs.Parse(args)

	target := resolveTarget(*targetRoot)
	standards := *standardsRoot
	if standards == "" {
		standards = config.Paths.StandardsRoot
	}
	standardsAbs, err := filepath.Abs(standards)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: cannot resolve standards root %s: %v\n", standards, err)
		os.Exit(1)
	}

	selfPath, err := os.Executable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: cannot locate checker binary: %v\n", err)
		os.Exit(1)
	}

	catalogue := tasks.Catalogue(selfPath, standardsAbs, target)
	var onlyKeys []string
	if *only != "" {
		onlyKeys = strings.Split(*only, ",")
	}
	selected := tasks.Filter(catalogue, onlyKeys)

	if *listOnly && !*runTasksFlag {
		for _, task := range selected {
			availability := "available"
			if !task.Available() {
				availability = "missing"
			}
			fmt.Printf("%-15s %-10s - %s\n", task.Key, availability, task.Title)
		}
		return
	}

	if !*runTasksFlag {
		fs.Usage()
		return
	}

	plan := *planPath
	if plan == "" {
		plan = filepath.Join(target, "fix_audit_plan.md")
	}

	iterations := 1
	if *loop {
		iterations = *maxIterations
	}

	var results []tasks.Result
	for i := 0; i < iterations; i++ {
		results = tasks.RunSequence(selected, target, *dryRun)
		fmt.Println(tasks.Summarize(results))
		if !*skipPlan {
			if err := tasks.WritePlan(plan, results); err != nil {
				fmt.Fprintf(os.Stderr, "ERROR: failed to write plan: %v\n", err)
				os.Exit(1)
			}
		}

		outcome := tasks.Classify(results)
		if len(outcome.Failures) == 0 && (!*failOnMissing || len(outcome.Missing) == 0) {
			break
		}
	}

	outcome := tasks.Classify(results)
	if len(outcome.Failures) > 0 {
		os.Exit(1)
	}
	if *failOnMissing && len(outcome.Missing) > 0 {
		os.Exit(2)
	}
}
