// Package health composes several auditors into one consolidated report.
package health

import (
	"github.com/rz-ai/aicheck/internal/audit"
	"github.com/rz-ai/aicheck/internal/config"
	"github.com/rz-ai/aicheck/internal/datalayout"
	"github.com/rz-ai/aicheck/internal/promptscan"
	"github.com/rz-ai/aicheck/internal/schema"
	"github.com/rz-ai/aicheck/internal/tooling"
)

// Check statuses.
const (
	StatusPass = "pass"
	StatusFail = "fail"
)

// CheckResult is one member check's outcome with its full detail preserved.
type CheckResult struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Details any    `json:"details"`
}

// Report is the consolidated view; Passed is the AND over member checks.
type Report struct {
	Target string        `json:"target"`
	Passed bool          `json:"passed"`
	Checks []CheckResult `json:"checks"`
}

// Compliant mirrors Passed.
func (r Report) Compliant() bool { return r.Passed }

// MarshalJSON appends the derived compliance flag.
func (r Report) MarshalJSON() ([]byte, error) {
	type alias Report
	return audit.MarshalWithCompliance(alias(r), r.Compliant())
}

// FailedNames lists the names of failing member checks, in report order.
func (r Report) FailedNames() []string {
	failed := []string{}
	for _, check := range r.Checks {
		if check.Status != StatusPass {
			failed = append(failed, check.Name)
		}
	}
	return failed
}

// Run executes the consolidated check sequence against root. Member order
// is fixed; prompt discovery is informational and always passes.
func Run(root string, cfg config.Config, validator *schema.Validator) Report {
	report := Report{Target: root, Passed: true, Checks: []CheckResult{}}

	toolingResult := tooling.Audit(root, cfg.Tooling)
	report.Checks = append(report.Checks, CheckResult{
		Name:    "tooling",
		Status:  statusOf(toolingResult.Compliant()),
		Details: toolingResult,
	})

	layoutResult := datalayout.Audit(root, cfg.DataLayout,
		datalayout.Options{MaxOutputFiles: cfg.DataLayout.MaxOutputFiles}, validator)
	report.Checks = append(report.Checks, CheckResult{
		Name:    "data_layout",
		Status:  statusOf(layoutResult.Compliant()),
		Details: layoutResult,
	})

	prompts := promptscan.Extract(root, promptscan.Options{
		Suffixes:    cfg.Prompts.Suffixes,
		MinLength:   cfg.Prompts.MinLength,
		IgnoreNames: cfg.Prompts.IgnoreNames,
	})
	report.Checks = append(report.Checks, CheckResult{
		Name:   "prompt_extract",
		Status: StatusPass,
		Details: map[string]any{
			"target":       root,
			"prompt_count": len(prompts.Prompts),
		},
	})

	for _, check := range report.Checks {
		if check.Status != StatusPass {
			report.Passed = false
			break
		}
	}
	return report
}

func statusOf(ok bool) string {
	if ok {
		return StatusPass
	}
	return StatusFail
}
