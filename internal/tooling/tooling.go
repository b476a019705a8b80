// Package tooling audits presence of core tooling configuration: CI
// workflows, lint/type/test configs, and language-conditional manifests.
package tooling

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rz-ai/aicheck/internal/audit"
	"github.com/rz-ai/aicheck/internal/config"
	"github.com/rz-ai/aicheck/internal/pathset"
)

// Result describes missing tooling artifacts. Only required gaps affect
// compliance.
type Result struct {
	Target                 string   `json:"target"`
	MissingRequired        []string `json:"missing_required"`
	MissingRecommended     []string `json:"missing_recommended"`
	MissingRecommendedDirs []string `json:"missing_recommended_dirs"`
	Languages              []string `json:"languages"`
}

// Compliant requires every required tooling file for the detected
// languages.
func (r Result) Compliant() bool {
	return len(r.MissingRequired) == 0
}

// MarshalJSON appends the derived compliance flag.
func (r Result) MarshalJSON() ([]byte, error) {
	type alias Result
	return audit.MarshalWithCompliance(alias(r), r.Compliant())
}

// Audit checks root against the tooling catalogue. The CI sentinel is
// satisfied by any workflow YAML; the ruff pair counts as present when
// either spelling exists; language requirements key off extensions seen in
// a bounded sample of the tree.
func Audit(root string, catalogue config.ToolingConfig) Result {
	missingRequired := pathset.FindMissing(root, catalogue.RequiredFiles)
	if contains(missingRequired, catalogue.CISentinel) && hasCIWorkflow(root) {
		missingRequired = remove(missingRequired, catalogue.CISentinel)
	}

	langs := DetectLanguages(root, catalogue.LanguageByExt, catalogue.DetectMaxFiles)
	missingRequired = append(missingRequired, languageRequired(root, langs, catalogue)...)

	missingRecommended := normalizeRuff(
		pathset.FindMissing(root, catalogue.RecommendedFiles),
		catalogue.RuffGroup,
	)
	for _, lang := range langs {
		rec := pathset.FindMissing(root, catalogue.LanguageRecommended[lang])
		if lang == "python" {
			rec = normalizeRuff(rec, catalogue.RuffGroup)
		}
		missingRecommended = append(missingRecommended, rec...)
	}

	return Result{
		Target:                 root,
		MissingRequired:        missingRequired,
		MissingRecommended:     dedupe(missingRecommended),
		MissingRecommendedDirs: pathset.FindMissingDirs(root, catalogue.RecommendedDirs),
		Languages:              langs,
	}
}

// DetectLanguages samples up to maxFiles files under root and maps their
// extensions onto the catalogue's language names. The result is sorted for
// deterministic reports.
func DetectLanguages(root string, byExt map[string]string, maxFiles int) []string {
	seen := map[string]struct{}{}
	count := 0
	_ = filepath.WalkDir(root, func(current string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		count++
		if maxFiles > 0 && count > maxFiles {
			return fs.SkipAll
		}
		if lang, ok := byExt[strings.ToLower(filepath.Ext(current))]; ok {
			seen[lang] = struct{}{}
		}
		return nil
	})
	langs := make([]string, 0, len(seen))
	for lang := range seen {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

func languageRequired(root string, langs []string, catalogue config.ToolingConfig) []string {
	missing := []string{}
	for _, lang := range langs {
		langMissing := pathset.FindMissing(root, catalogue.LanguageRequired[lang])
		for _, group := range catalogue.LanguageAltGroups[lang] {
			if !anyExists(root, group) {
				sorted := append([]string(nil), group...)
				sort.Strings(sorted)
				langMissing = append(langMissing, sorted...)
			}
		}
		missing = append(missing, dedupe(langMissing)...)
	}
	return missing
}

func anyExists(root string, candidates []string) bool {
	for _, rel := range candidates {
		if _, err := os.Stat(filepath.Join(root, rel)); err == nil {
			return true
		}
	}
	return false
}

func hasCIWorkflow(root string) bool {
	entries, err := os.ReadDir(filepath.Join(root, ".github", "workflows"))
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".yml", ".yaml":
			return true
		}
	}
	return false
}

// normalizeRuff drops the whole ruff config group from the missing list
// when at least one spelling exists on disk.
func normalizeRuff(missing, group []string) []string {
	if len(group) == 0 {
		return missing
	}
	missingInGroup := 0
	for _, item := range missing {
		if contains(group, item) {
			missingInGroup++
		}
	}
	if missingInGroup == len(group) {
		return missing
	}
	out := []string{}
	for _, item := range missing {
		if !contains(group, item) {
			out = append(out, item)
		}
	}
	return out
}

// dedupe removes duplicates while preserving first-seen order.
func dedupe(items []string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, item := range items {
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

func contains(items []string, needle string) bool {
	for _, item := range items {
		if item == needle {
			return true
		}
	}
	return false
}

func remove(items []string, needle string) []string {
	out := []string{}
	for _, item := range items {
		if item != needle {
			out = append(out, item)
		}
	}
	return out
}
