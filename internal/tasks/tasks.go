// Package tasks coordinates the audit remediation task catalogue: resolving
// named tasks to runnable commands, executing them against a target, and
// summarizing results across bounded retry iterations.
package tasks

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rz-ai/aicheck/internal/support"
)

// Task statuses.
const (
	StatusOK      = "ok"
	StatusFail    = "fail"
	StatusMissing = "missing"
	StatusSkipped = "skipped"
)

// DefaultMaxIterations bounds the retry loop.
const DefaultMaxIterations = 3

// Task is one catalogued remediation step. Builtin tasks run the checker
// binary itself; external tasks depend on a script shipped with the
// standards repository and may legitimately be missing.
type Task struct {
	Key         string
	Title       string
	Description string
	// Subcommand names a builtin subcommand of this binary; empty for
	// external tasks.
	Subcommand string
	// Command is the fully resolved argv. Nil means the task cannot run.
	Command []string
	// Sentinel is a path that must exist for the task to be available.
	Sentinel string
}

// Available reports whether the task can be executed right now.
func (t Task) Available() bool {
	if len(t.Command) == 0 {
		return false
	}
	if t.Sentinel == "" {
		return true
	}
	_, err := os.Stat(t.Sentinel)
	return err == nil
}

// Result is one task execution outcome.
type Result struct {
	Task     Task
	Status   string
	ExitCode int // -1 when the task never ran
	Stdout   string
	Stderr   string
}

// Catalogue resolves the fixed task set. selfPath is the checker binary,
// standardsRoot hosts external scripts, targetRoot is the audited project.
func Catalogue(selfPath, standardsRoot, targetRoot string) []Task {
	builtin := func(key, title, description, subcommand string, extra ...string) Task {
		argv := append([]string{selfPath, subcommand, "--target-root", targetRoot}, extra...)
		return Task{
			Key:         key,
			Title:       title,
			Description: description,
			Subcommand:  subcommand,
			Command:     argv,
		}
	}
	schemaScript := filepath.Join(standardsRoot, "scripts", "ajv-validate.mjs")
	return []Task{
		builtin("structure", "Structure Audit",
			"Check required files and folders against the standard.", "structure"),
		{
			Key:         "schema",
			Title:       "Config & Schema Validation",
			Description: "Run ajv-validate.mjs to validate models/prompts YAML.",
			Command:     []string{"node", schemaScript},
			Sentinel:    schemaScript,
		},
		builtin("prompt-extract", "Prompt Extraction",
			"Enumerate inline prompts that belong in config/prompts.yaml.", "prompts"),
		builtin("prompt-merge", "Prompt Merging",
			"Merge core/template/custom prompt layers.", "merge"),
		builtin("llm-usage", "LLM Usage Audit",
			"Detect raw provider calls that bypass the standard clients.", "llm-usage"),
		builtin("data-layout", "Data Layout & Traceability",
			"Enforce data/ layout and output metadata.", "data-layout"),
		builtin("tooling", "Tooling & CI",
			"Align pre-commit and CI with the standard.", "tooling"),
		builtin("docs", "Docs & Standards",
			"Align README and docs with the standard.", "docs"),
		builtin("health", "Master Health Check",
			"Consolidated health check across audits.", "check"),
	}
}

// Filter keeps only the tasks whose key appears in only; an empty only
// keeps everything. Catalogue order is preserved.
func Filter(catalogue []Task, only []string) []Task {
	if len(only) == 0 {
		return catalogue
	}
	keep := map[string]struct{}{}
	for _, key := range only {
		key = strings.TrimSpace(key)
		if key != "" {
			keep[key] = struct{}{}
		}
	}
	selected := []Task{}
	for _, task := range catalogue {
		if _, ok := keep[task.Key]; ok {
			selected = append(selected, task)
		}
	}
	return selected
}

// Run executes one task in cwd. Missing tasks never run; dry runs report
// skipped with what would have executed.
func Run(task Task, cwd string, dryRun bool) Result {
	if !task.Available() {
		return Result{Task: task, Status: StatusMissing, ExitCode: -1}
	}
	if dryRun {
		return Result{
			Task:     task,
			Status:   StatusSkipped,
			ExitCode: 0,
			Stdout:   "DRY-RUN: " + strings.Join(task.Command, " "),
		}
	}

	cmd := exec.Command(task.Command[0], task.Command[1:]...)
	cmd.Dir = cwd
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
		Task:   task,
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	switch {
	case err == nil:
		result.Status = StatusOK
		result.ExitCode = 0
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.Status = StatusFail
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.Status = StatusMissing
			result.ExitCode = -1
			result.Stderr = err.Error()
		}
	}
	return result
}

// RunSequence executes tasks in order against targetRoot.
func RunSequence(selected []Task, targetRoot string, dryRun bool) []Result {
	results := make([]Result, 0, len(selected))
	for _, task := range selected {
		results = append(results, Run(task, targetRoot, dryRun))
	}
	return results
}

// Outcome classifies a full result set.
type Outcome struct {
	Failures []Result
	Missing  []Result
}

// Classify splits results into failures and missing tasks.
func Classify(results []Result) Outcome {
	var out Outcome
	for _, result := range results {
		switch result.Status {
		case StatusFail:
			out.Failures = append(out.Failures, result)
		case StatusMissing:
			out.Missing = append(out.Missing, result)
		}
	}
	return out
}

// Summarize renders one result set as a fixed-order text table.
func Summarize(results []Result) string {
	lines := []string{
		"Task Key | Status | Exit | Notes",
		"--------|--------|------|------",
	}
	for _, result := range results {
		note := ""
		switch result.Status {
		case StatusMissing:
			note = "missing task"
		case StatusSkipped:
			note = "dry-run"
		case StatusFail:
			note = firstLine(result.Stderr, result.Stdout)
			if note == "" {
				note = "failed"
			}
		}
		exit := "-"
		if result.ExitCode >= 0 {
			exit = fmt.Sprintf("%d", result.ExitCode)
		}
		lines = append(lines, fmt.Sprintf("%s | %s | %s | %s", result.Task.Key, result.Status, exit, note))
	}
	return strings.Join(lines, "\n")
}

// WritePlan persists the remediation plan markdown for one iteration. The
// run id and timestamp tie the plan to its run; audit reports themselves
// stay deterministic.
func WritePlan(path string, results []Result) error {
	lines := []string{
		"# Audit Remediation Plan",
		"",
		fmt.Sprintf("Run: %s", uuid.NewString()),
		fmt.Sprintf("Generated: %s", time.Now().UTC().Format(time.RFC3339)),
		"",
	}
	for _, result := range results {
		lines = append(lines, fmt.Sprintf("## %s (%s)", result.Task.Title, result.Task.Key))
		lines = append(lines, fmt.Sprintf("Status: %s", result.Status))
		if result.ExitCode >= 0 {
			lines = append(lines, fmt.Sprintf("Exit code: %d", result.ExitCode))
		}
		if strings.TrimSpace(result.Stdout) != "" {
			lines = append(lines, "### Output", "```\n"+strings.TrimSpace(result.Stdout)+"\n```")
		}
		if strings.TrimSpace(result.Stderr) != "" {
			lines = append(lines, "### Errors", "```\n"+strings.TrimSpace(result.Stderr)+"\n```")
		}
		if result.Status == StatusMissing {
			lines = append(lines, "_Task unavailable; install the standards scripts or rebuild the checker._")
		}
		lines = append(lines, "")
	}
	return support.WriteFileAtomic(path, []byte(strings.Join(lines, "\n")))
}

func firstLine(primary, fallback string) string {
	text := strings.TrimSpace(primary)
	if text == "" {
		text = strings.TrimSpace(fallback)
	}
	if text == "" {
		return ""
	}
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}
