// Package datalayout audits the data/ directory policy and the
// traceability metadata of generated outputs.
package datalayout

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/rz-ai/aicheck/internal/audit"
	"github.com/rz-ai/aicheck/internal/config"
	"github.com/rz-ai/aicheck/internal/pathset"
	"github.com/rz-ai/aicheck/internal/schema"
	"github.com/rz-ai/aicheck/internal/support"
)

// DefaultSchemaName is the embedded schema applied to output metadata when
// no override is supplied.
const DefaultSchemaName = "outputs_metadata.schema.json"

// Options bound one data layout audit.
type Options struct {
	// MaxOutputFiles caps how many output JSON files are validated; 0 means
	// unlimited. Hitting the cap appends a single truncation issue and
	// stops enumeration, so partial coverage is always disclosed.
	MaxOutputFiles int
	// SchemaPath overrides the embedded outputs metadata schema.
	SchemaPath string
}

// Result describes layout and metadata issues for one target.
type Result struct {
	Target         string   `json:"target"`
	MissingDirs    []string `json:"missing_dirs"`
	StrayItems     []string `json:"stray_items"`
	MetadataIssues []string `json:"metadata_issues"`
}

// Compliant requires all catalogued dirs, no stray entries, and clean
// output metadata.
func (r Result) Compliant() bool {
	return len(r.MissingDirs) == 0 && len(r.StrayItems) == 0 && len(r.MetadataIssues) == 0
}

// MarshalJSON appends the derived compliance flag.
func (r Result) MarshalJSON() ([]byte, error) {
	type alias Result
	return audit.MarshalWithCompliance(alias(r), r.Compliant())
}

// Audit checks root's data/ subtree: required directories, stray direct
// children, and per-file metadata compliance under data/outputs.
func Audit(root string, catalogue config.DataLayoutConfig, opts Options, validator *schema.Validator) Result {
	return Result{
		Target:         root,
		MissingDirs:    pathset.FindMissing(root, catalogue.RequiredDirs),
		StrayItems:     findStrayItems(filepath.Join(root, "data"), catalogue),
		MetadataIssues: checkOutputMetadata(root, catalogue, opts, validator),
	}
}

// findStrayItems flags direct children of data/ whose names are outside the
// allow-sets, one level deep only. Paths are reported relative to data/'s
// parent, e.g. "data/scratch".
func findStrayItems(dataRoot string, catalogue config.DataLayoutConfig) []string {
	stray := []string{}
	entries, err := os.ReadDir(dataRoot)
	if err != nil {
		return stray
	}
	allowedDirs := toSet(catalogue.AllowedDirs)
	allowedFiles := toSet(catalogue.AllowedFiles)
	for _, entry := range entries {
		allowed := allowedFiles
		if entry.IsDir() {
			allowed = allowedDirs
		}
		if _, ok := allowed[entry.Name()]; !ok {
			stray = append(stray, path.Join(filepath.Base(dataRoot), entry.Name()))
		}
	}
	return stray
}

// checkOutputMetadata validates every JSON file under data/outputs against
// the metadata schema and the required-keys catalogue, honoring the
// max-files cap.
func checkOutputMetadata(root string, catalogue config.DataLayoutConfig, opts Options, validator *schema.Validator) []string {
	outputsRel := path.Join("data", "outputs")
	outputsRoot := filepath.Join(root, "data", "outputs")
	if _, err := os.Stat(outputsRoot); err != nil {
		return []string{}
	}

	metadataSchema, schemaErr := loadSchema(opts, validator)

	issues := []string{}
	if schemaErr != nil {
		issues = append(issues, fmt.Sprintf("%s: metadata schema unavailable (%v); key checks only", outputsRel, schemaErr))
	}

	count := 0
	_ = filepath.WalkDir(outputsRoot, func(current string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || !strings.EqualFold(filepath.Ext(current), ".json") {
			return nil
		}
		if opts.MaxOutputFiles > 0 && count >= opts.MaxOutputFiles {
			issues = append(issues, fmt.Sprintf(
				"%s: metadata check truncated at %d files; consider running without --max-output-files for full coverage.",
				outputsRel, opts.MaxOutputFiles))
			return fs.SkipAll
		}
		count++
		rel, err := filepath.Rel(root, current)
		if err != nil {
			rel = current
		}
		rel = filepath.ToSlash(rel)
		issues = append(issues, validateOutputFile(current, rel, catalogue.MetadataKeys, metadataSchema, validator)...)
		return nil
	})
	return issues
}

func loadSchema(opts Options, validator *schema.Validator) (*jsonschema.Schema, error) {
	if opts.SchemaPath != "" {
		return validator.CompileFile(opts.SchemaPath)
	}
	return validator.CompileEmbedded(DefaultSchemaName)
}

// validateOutputFile reduces every problem with one output document to
// issue strings. Parsing and root-shape problems are fail-fast per file;
// later files still run.
func validateOutputFile(abs, rel string, metadataKeys []string, metadataSchema *jsonschema.Schema, validator *schema.Validator) []string {
	data, err := os.ReadFile(abs)
	if err != nil {
		return []string{fmt.Sprintf("%s: failed to read (%v)", rel, err)}
	}

	var doc any
	if err := json.Unmarshal(support.StripBOM(data), &doc); err != nil {
		return []string{fmt.Sprintf("%s: failed to parse JSON (%v)", rel, err)}
	}
	mapping, ok := doc.(map[string]any)
	if !ok {
		return []string{fmt.Sprintf("%s: expected top-level JSON object with metadata", rel)}
	}

	if metadataSchema != nil {
		schemaIssues := validator.Issues(mapping, metadataSchema, nil)
		if len(schemaIssues) > 0 {
			return []string{fmt.Sprintf("%s: schema validation failed: %s", rel, strings.Join(schemaIssues, ", "))}
		}
	}

	if raw, present := mapping["timestamp"]; present {
		if err := checkTimestamp(raw); err != nil {
			return []string{fmt.Sprintf("%s: invalid timestamp format: %v", rel, err)}
		}
	}

	missing := []string{}
	for _, key := range metadataKeys {
		if _, present := mapping[key]; !present {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return []string{fmt.Sprintf("%s: missing metadata keys: %s", rel, strings.Join(missing, ", "))}
	}
	return []string{}
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// timestampLayouts are the accepted date-time representations, most
// specific first. A trailing Z is equivalent to an explicit zero UTC
// offset.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func checkTimestamp(raw any) error {
	value, ok := raw.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", raw)
	}
	var lastErr error
	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}
	return lastErr
}
