// Package merge layers prompt configuration sources by precedence and
// records full provenance for every key.
package merge

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/rz-ai/aicheck/internal/support"
)

// Source is one named configuration layer. Later sources in the merge
// order win conflicts.
type Source struct {
	Name   string
	Values map[string]any
}

// Report is the merged view plus provenance: which source supplied each
// key, and the full contribution chain for keys set by more than one
// source.
type Report struct {
	Merged      map[string]any      `json:"merged"`
	SourceByKey map[string]string   `json:"source_by_key"`
	Overrides   map[string][]string `json:"overrides"`
	Warnings    []string            `json:"warnings,omitempty"`
}

// Merge applies sources in order with last-writer-wins semantics. Values
// are replaced whole; nested mappings are not merged recursively.
func Merge(sources []Source) Report {
	report := Report{
		Merged:      map[string]any{},
		SourceByKey: map[string]string{},
		Overrides:   map[string][]string{},
	}
	contributions := map[string][]string{}
	for _, src := range sources {
		for _, key := range sortedKeys(src.Values) {
			report.Merged[key] = src.Values[key]
			report.SourceByKey[key] = src.Name
			contributions[key] = append(contributions[key], src.Name)
		}
	}
	for key, chain := range contributions {
		if len(chain) > 1 {
			report.Overrides[key] = chain
		}
	}
	return report
}

// LoadSource reads one YAML layer. A missing optional file yields an empty
// layer and a warning; a missing required file or a non-mapping root is
// fatal.
func LoadSource(path string, required bool, label string) (Source, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if required {
				return Source{}, "", fmt.Errorf("missing required prompts file: %s", path)
			}
			return Source{Name: label, Values: map[string]any{}},
				fmt.Sprintf("optional prompts file not found, skipping: %s", path), nil
		}
		return Source{}, "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc any
	if err := yaml.Unmarshal(support.StripBOM(data), &doc); err != nil {
		return Source{}, "", fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if doc == nil {
		return Source{Name: label, Values: map[string]any{}}, "", nil
	}
	values, ok := doc.(map[string]any)
	if !ok {
		return Source{}, "", fmt.Errorf("expected mapping at top level in %s", label)
	}
	return Source{Name: label, Values: values}, "", nil
}

// WriteYAML persists the merged mapping. yaml.v3 emits map keys sorted, so
// output is deterministic for identical inputs.
func WriteYAML(path string, merged map[string]any) error {
	data, err := yaml.Marshal(merged)
	if err != nil {
		return fmt.Errorf("failed to encode merged prompts: %w", err)
	}
	return support.WriteFileAtomic(path, data)
}

func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
