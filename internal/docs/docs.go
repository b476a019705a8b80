// Package docs audits documentation presence and README linkage.
package docs

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rz-ai/aicheck/internal/audit"
	"github.com/rz-ai/aicheck/internal/config"
	"github.com/rz-ai/aicheck/internal/pathset"
)

// Result describes missing docs and README linkage gaps.
type Result struct {
	Target             string   `json:"target"`
	MissingRequired    []string `json:"missing_required"`
	MissingRecommended []string `json:"missing_recommended"`
	ReadmeMissing      bool     `json:"readme_missing"`
	UnlinkedRequired   []string `json:"unlinked_required"`
}

// Compliant requires every catalogued doc to exist and to be referenced
// from README.md.
func (r Result) Compliant() bool {
	return len(r.MissingRequired) == 0 && !r.ReadmeMissing && len(r.UnlinkedRequired) == 0
}

// MarshalJSON appends the derived compliance flag.
func (r Result) MarshalJSON() ([]byte, error) {
	type alias Result
	return audit.MarshalWithCompliance(alias(r), r.Compliant())
}

// Audit checks root for the docs catalogue and for README references to
// each existing required doc (by relative path or basename, case
// insensitively).
func Audit(root string, catalogue config.DocsConfig) Result {
	missingRequired := pathset.FindMissing(root, catalogue.RequiredDocs)
	missingRecommended := pathset.FindMissing(root, catalogue.RecommendedDocs)

	readme, readmeMissing := loadReadme(root)

	missingSet := make(map[string]struct{}, len(missingRequired))
	for _, m := range missingRequired {
		missingSet[m] = struct{}{}
	}
	existing := []string{}
	for _, doc := range catalogue.RequiredDocs {
		if _, gone := missingSet[doc]; !gone {
			existing = append(existing, doc)
		}
	}

	return Result{
		Target:             root,
		MissingRequired:    missingRequired,
		MissingRecommended: missingRecommended,
		ReadmeMissing:      readmeMissing,
		UnlinkedRequired:   findUnlinked(existing, readme, readmeMissing),
	}
}

// loadReadme treats an unreadable README the same as a missing one.
func loadReadme(root string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(root, "README.md"))
	if err != nil {
		return "", true
	}
	return string(data), false
}

// findUnlinked returns required docs that exist but are never referenced in
// README. A missing README is already signalled elsewhere, so the unlinked
// list stays empty to avoid redundant noise.
func findUnlinked(existing []string, readme string, readmeMissing bool) []string {
	if readmeMissing {
		return []string{}
	}
	lower := strings.ToLower(readme)
	unlinked := []string{}
	for _, rel := range existing {
		relLower := strings.ToLower(rel)
		baseLower := strings.ToLower(path.Base(rel))
		if !strings.Contains(lower, relLower) && !strings.Contains(lower, baseLower) {
			unlinked = append(unlinked, rel)
		}
	}
	return unlinked
}
