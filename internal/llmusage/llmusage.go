// Package llmusage detects raw LLM provider calls that bypass the standard
// client abstraction.
package llmusage

import (
	"github.com/rz-ai/aicheck/internal/audit"
	"github.com/rz-ai/aicheck/internal/config"
	"github.com/rz-ai/aicheck/internal/pattern"
	"github.com/rz-ai/aicheck/internal/treescan"
)

// Result holds every raw-call finding for one target.
type Result struct {
	Target   string          `json:"target"`
	Findings []audit.Finding `json:"findings"`
}

// Compliant reports true when no raw provider usage was found.
func (r Result) Compliant() bool {
	return len(r.Findings) == 0
}

// MarshalJSON appends the derived compliance flag.
func (r Result) MarshalJSON() ([]byte, error) {
	type alias Result
	return audit.MarshalWithCompliance(alias(r), r.Compliant())
}

// Audit scans code files under root for the catalogue's raw-call patterns.
// maxSizeBytes of 0 disables the per-file size cap; oversized files are
// skipped, not flagged.
func Audit(root string, catalogue config.LLMUsageConfig, maxSizeBytes int64) Result {
	policy := treescan.NewPolicy(catalogue.IgnoreNames, catalogue.Extensions, maxSizeBytes, 0)
	scan := treescan.Scan(root, policy)

	findings := append([]audit.Finding{}, scan.Findings...)
	for _, rel := range scan.Paths {
		text, failed := treescan.ReadText(root, rel)
		if failed != nil {
			findings = append(findings, *failed)
			continue
		}
		findings = append(findings, pattern.ScanText(rel, text, catalogue.Patterns)...)
	}
	return Result{Target: root, Findings: findings}
}
