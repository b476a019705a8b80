// Package configcheck validates the standard configuration documents
// (models, prompts, project, evals) against their embedded schemas and a
// set of typed structural rules the schemas cannot express.
package configcheck

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/rz-ai/aicheck/internal/audit"
	"github.com/rz-ai/aicheck/internal/schema"
	"github.com/rz-ai/aicheck/internal/support"
)

// Document binds one config file to its schema and model rules.
type Document struct {
	Label      string
	DataPath   string
	SchemaName string // embedded schema file name
	SchemaPath string // optional override, wins over SchemaName
	Required   bool
	Model      schema.ModelFunc
}

// DocumentResult is one document's validation outcome. Schema issues carry
// a "schema:" prefix, model issues "model:".
type DocumentResult struct {
	Label      string   `json:"label"`
	DataPath   string   `json:"data_path"`
	SchemaPath string   `json:"schema_path"`
	OK         bool     `json:"ok"`
	Errors     []string `json:"errors"`
}

// Result is the whole validation run; OK is the AND over documents.
type Result struct {
	Target    string           `json:"target"`
	OK        bool             `json:"ok"`
	Documents []DocumentResult `json:"documents"`
}

// Compliant mirrors OK so the result renders like every other auditor.
func (r Result) Compliant() bool { return r.OK }

// MarshalJSON appends the derived compliance flag.
func (r Result) MarshalJSON() ([]byte, error) {
	type alias Result
	return audit.MarshalWithCompliance(alias(r), r.Compliant())
}

// StandardDocuments returns the default document set rooted at root, in
// fixed validation order.
func StandardDocuments(root string) []Document {
	return []Document{
		{Label: "models", DataPath: filepath.Join(root, "config", "models.yaml"), SchemaName: "models.schema.json", Required: true, Model: modelsModel},
		{Label: "prompts", DataPath: filepath.Join(root, "config", "prompts.yaml"), SchemaName: "prompts.schema.json", Required: true, Model: promptsModel},
		{Label: "project", DataPath: filepath.Join(root, "config", "project.yaml"), SchemaName: "project_config.schema.json", Required: false, Model: projectModel},
		{Label: "evals", DataPath: filepath.Join(root, "config", "evals.yaml"), SchemaName: "eval_config.schema.json", Required: false, Model: evalsModel},
	}
}

// Validate runs every document through parse, schema, and model stages.
// Optional documents that do not exist are skipped without an issue.
func Validate(target string, docs []Document, validator *schema.Validator) Result {
	result := Result{Target: target, OK: true, Documents: []DocumentResult{}}
	for _, doc := range docs {
		dr := validateDocument(doc, validator)
		if dr == nil {
			continue
		}
		if !dr.OK {
			result.OK = false
		}
		result.Documents = append(result.Documents, *dr)
	}
	return result
}

func validateDocument(doc Document, validator *schema.Validator) *DocumentResult {
	dr := DocumentResult{
		Label:      doc.Label,
		DataPath:   doc.DataPath,
		SchemaPath: doc.SchemaPath,
		Errors:     []string{},
	}
	if dr.SchemaPath == "" {
		dr.SchemaPath = "embedded:" + doc.SchemaName
	}

	data, err := os.ReadFile(doc.DataPath)
	if err != nil {
		if os.IsNotExist(err) && !doc.Required {
			return nil
		}
		dr.Errors = append(dr.Errors, fmt.Sprintf("failed to read %s (%v)", doc.DataPath, err))
		return &dr
	}

	mapping, parseIssue := schema.ParseMapping(doc.DataPath, support.StripBOM(data))
	if parseIssue != "" {
		dr.Errors = append(dr.Errors, parseIssue)
		return &dr
	}

	compiled, err := compileSchema(doc, validator)
	if err != nil {
		dr.Errors = append(dr.Errors, fmt.Sprintf("schema: %v", err))
		return &dr
	}

	for _, issue := range validator.Issues(mapping, compiled, nil) {
		dr.Errors = append(dr.Errors, "schema: "+issue)
	}
	if doc.Model != nil {
		for _, issue := range doc.Model(mapping) {
			dr.Errors = append(dr.Errors, "model: "+issue)
		}
	}
	dr.OK = len(dr.Errors) == 0
	return &dr
}

func compileSchema(doc Document, validator *schema.Validator) (*jsonschema.Schema, error) {
	if doc.SchemaPath != "" {
		return validator.CompileFile(doc.SchemaPath)
	}
	return validator.CompileEmbedded(doc.SchemaName)
}

// validRuntimes and validStatuses mirror the project schema enums so model
// issues stay readable even when a custom schema override drops them.
var (
	validRuntimes = []string{"batch", "service", "cli", "notebook", "library", "hybrid"}
	validStatuses = []string{"active", "maintenance", "deprecated", "archived"}
)

func modelsModel(doc map[string]any) []string {
	issues := []string{}
	def, ok := doc["default"].(map[string]any)
	if !ok {
		issues = append(issues, "default: expected mapping")
	} else {
		issues = append(issues, requireNonEmptyString(def, "default", "provider")...)
		issues = append(issues, requireNonEmptyString(def, "default", "model")...)
		if temp, present := def["temperature"]; present {
			if v, ok := toFloat(temp); !ok || v < 0 || v > 2 {
				issues = append(issues, "default.temperature: must be a number between 0 and 2")
			}
		}
		if mt, present := def["max_tokens"]; present {
			if v, ok := toFloat(mt); !ok || v < 1 {
				issues = append(issues, "default.max_tokens: must be an integer >= 1")
			}
		}
	}
	providers, ok := doc["providers"].(map[string]any)
	if !ok {
		issues = append(issues, "providers: expected mapping")
		return issues
	}
	for _, name := range sortedKeys(providers) {
		entry, ok := providers[name].(map[string]any)
		if !ok {
			issues = append(issues, fmt.Sprintf("providers.%s: expected mapping", name))
			continue
		}
		issues = append(issues, requireNonEmptyString(entry, "providers."+name, "default_model")...)
		for _, key := range []string{"coding_models", "general_models"} {
			if models, present := entry[key]; present {
				if _, ok := models.([]any); !ok {
					issues = append(issues, fmt.Sprintf("providers.%s.%s: expected list", name, key))
				}
			}
		}
	}
	return issues
}

func promptsModel(doc map[string]any) []string {
	issues := []string{}
	for _, id := range sortedKeys(doc) {
		entry, ok := doc[id].(map[string]any)
		if !ok {
			issues = append(issues, fmt.Sprintf("%s: expected mapping", id))
			continue
		}
		issues = append(issues, requireNonEmptyString(entry, id, "description")...)
		issues = append(issues, requireNonEmptyString(entry, id, "system")...)
		issues = append(issues, requireNonEmptyString(entry, id, "user_template")...)
	}
	return issues
}

func projectModel(doc map[string]any) []string {
	issues := []string{}
	issues = append(issues, requireNonEmptyString(doc, "", "name")...)
	issues = append(issues, requireNonEmptyString(doc, "", "description")...)

	if langs, ok := doc["languages"].([]any); !ok || len(langs) == 0 {
		issues = append(issues, "languages: expected non-empty list")
	}
	if runtime, present := doc["runtime"]; present {
		if s, ok := runtime.(string); !ok || !contains(validRuntimes, s) {
			issues = append(issues, fmt.Sprintf("runtime: must be one of %s", strings.Join(validRuntimes, ", ")))
		}
	}
	if status, present := doc["status"]; present {
		if s, ok := status.(string); !ok || !contains(validStatuses, s) {
			issues = append(issues, fmt.Sprintf("status: must be one of %s", strings.Join(validStatuses, ", ")))
		}
	}
	if version, present := doc["version"]; present {
		s, ok := version.(string)
		if !ok {
			issues = append(issues, "version: expected string")
		} else if _, err := semver.NewVersion(s); err != nil {
			issues = append(issues, fmt.Sprintf("version: %q is not a valid semantic version", s))
		}
	}
	if policy, present := doc["data_policy"]; present {
		mapping, ok := policy.(map[string]any)
		if !ok {
			issues = append(issues, "data_policy: expected mapping")
		} else if retention, present := mapping["retention_days"]; present {
			if v, ok := toFloat(retention); !ok || v < 0 {
				issues = append(issues, "data_policy.retention_days: must be an integer >= 0")
			}
		}
	}
	return issues
}

func evalsModel(doc map[string]any) []string {
	issues := []string{}
	evals, ok := doc["evals"].([]any)
	if !ok {
		issues = append(issues, "evals: expected list")
		return issues
	}
	for i, raw := range evals {
		loc := fmt.Sprintf("evals[%d]", i)
		entry, ok := raw.(map[string]any)
		if !ok {
			issues = append(issues, loc+": expected mapping")
			continue
		}
		issues = append(issues, requireNonEmptyString(entry, loc, "id")...)
		issues = append(issues, requireNonEmptyString(entry, loc, "description")...)
		if dataset, ok := entry["dataset"].(map[string]any); !ok {
			issues = append(issues, loc+".dataset: expected mapping")
		} else {
			_, hasID := dataset["dataset_id"]
			_, hasPath := dataset["data_path"]
			if !hasID && !hasPath {
				issues = append(issues, loc+".dataset: requires dataset_id or data_path")
			}
		}
		if models, ok := entry["models"].([]any); !ok || len(models) == 0 {
			issues = append(issues, loc+".models: expected non-empty list")
		}
		if metrics, ok := entry["metrics"].([]any); !ok || len(metrics) == 0 {
			issues = append(issues, loc+".metrics: expected non-empty list")
		}
		if promptID, present := entry["prompt_id"]; present {
			switch v := promptID.(type) {
			case string:
			case []any:
				if len(v) == 0 {
					issues = append(issues, loc+".prompt_id: list must not be empty")
				}
			default:
				issues = append(issues, loc+".prompt_id: expected string or list")
			}
		}
	}
	return issues
}

func requireNonEmptyString(entry map[string]any, prefix, key string) []string {
	loc := key
	if prefix != "" {
		loc = prefix + "." + key
	}
	value, present := entry[key]
	if !present {
		return []string{loc + ": required"}
	}
	s, ok := value.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return []string{loc + ": expected non-empty string"}
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
