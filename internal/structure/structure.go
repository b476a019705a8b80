// Package structure audits a project tree against the AI Core Standard's
// required directory and file catalogue.
package structure

import (
	"github.com/rz-ai/aicheck/internal/audit"
	"github.com/rz-ai/aicheck/internal/config"
	"github.com/rz-ai/aicheck/internal/pathset"
)

// Result describes missing required and recommended structure items.
// ConfigValidation is tri-state: nil when config validation was not
// requested, otherwise the outcome of the schema check over config/.
type Result struct {
	Target             string   `json:"target"`
	MissingDirs        []string `json:"missing_dirs"`
	MissingFiles       []string `json:"missing_files"`
	MissingRecommended []string `json:"missing_recommended"`
	ConfigValidation   *bool    `json:"config_validation_passed"`
}

// Compliant reports whether every required item exists and, when config
// validation ran, whether it passed. Recommended gaps never fail the audit.
func (r Result) Compliant() bool {
	if len(r.MissingDirs) > 0 || len(r.MissingFiles) > 0 {
		return false
	}
	return r.ConfigValidation == nil || *r.ConfigValidation
}

// MarshalJSON appends the derived compliance flag.
func (r Result) MarshalJSON() ([]byte, error) {
	type alias Result
	return audit.MarshalWithCompliance(alias(r), r.Compliant())
}

// Audit checks root for the catalogue's required and recommended items.
func Audit(root string, catalogue config.StructureConfig) Result {
	return Result{
		Target:             root,
		MissingDirs:        pathset.FindMissing(root, catalogue.RequiredDirs),
		MissingFiles:       pathset.FindMissing(root, catalogue.RequiredFiles),
		MissingRecommended: pathset.FindMissing(root, catalogue.RecommendedItems),
	}
}
