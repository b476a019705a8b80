// Package schema loads YAML/JSON documents and validates them against JSON
// Schema (draft 2020-12) plus optional structural model checks.
//
// Stage semantics: syntax parsing and the root-shape check are fail-fast
// (one issue, nothing else runs); schema and model validation are exhaustive
// and collect every violation they can find.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/rz-ai/aicheck/internal/support"
)

//go:embed schemas/*.json
var embeddedSchemas embed.FS

// RootMarker labels root-level schema violations in issue strings.
const RootMarker = "<root>"

// DefaultCacheSize bounds the validator's compiled-schema cache.
const DefaultCacheSize = 4

// ModelFunc runs structural field constraints over a parsed mapping and
// returns every violation it finds.
type ModelFunc func(doc map[string]any) []string

// Validator compiles schema documents (memoized in a bounded cache) and
// reduces all validation failures to flat, ordered issue lists.
type Validator struct {
	cache *cache
}

// NewValidator returns a validator whose schema cache holds up to capacity
// compiled documents.
func NewValidator(capacity int) *Validator {
	return &Validator{cache: newCache(capacity)}
}

// CompileFile compiles a schema document from disk, memoizing by absolute
// path.
func (v *Validator) CompileFile(path string) (*jsonschema.Schema, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if s, ok := v.cache.get(abs); ok {
		return s, nil
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	s, err := compile(abs, support.StripBOM(data))
	if err != nil {
		return nil, err
	}
	v.cache.put(abs, s)
	return s, nil
}

// CompileEmbedded compiles one of the standard schemas shipped with the
// tool, memoizing under a synthetic key.
func (v *Validator) CompileEmbedded(name string) (*jsonschema.Schema, error) {
	key := "embedded:" + name
	if s, ok := v.cache.get(key); ok {
		return s, nil
	}
	data, err := embeddedSchemas.ReadFile("schemas/" + name)
	if err != nil {
		return nil, fmt.Errorf("unknown embedded schema %s: %w", name, err)
	}
	s, err := compile(key, data)
	if err != nil {
		return nil, err
	}
	v.cache.put(key, s)
	return s, nil
}

// CachedSchemas reports how many compiled schemas are currently memoized.
func (v *Validator) CachedSchemas() int { return v.cache.len() }

func compile(id string, data []byte) (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	c.AssertFormat = true
	url := "file:///" + filepath.ToSlash(strings.TrimPrefix(id, "/"))
	if err := c.AddResource(url, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("schema load failed for %s: %w", id, err)
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("schema compile failed for %s: %w", id, err)
	}
	return s, nil
}

// ParseMapping parses YAML or JSON source into a string-keyed mapping.
// Syntax failures and non-mapping roots are each reduced to a single issue.
func ParseMapping(label string, data []byte) (map[string]any, string) {
	var doc any
	if err := yaml.Unmarshal(support.StripBOM(data), &doc); err != nil {
		return nil, fmt.Sprintf("%s: failed to parse document (%v)", label, err)
	}
	if doc == nil {
		return map[string]any{}, ""
	}
	mapping, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Sprintf("%s: expected mapping at document root, got %T", label, doc)
	}
	return mapping, ""
}

// Issues validates an already-parsed mapping: schema issues first (location
// prefixed), then model issues. Both stages are exhaustive.
func (v *Validator) Issues(doc map[string]any, s *jsonschema.Schema, model ModelFunc) []string {
	issues := []string{}
	if s != nil {
		normalized, err := normalizeJSON(doc)
		if err != nil {
			return []string{fmt.Sprintf("%s: document is not JSON-representable (%v)", RootMarker, err)}
		}
		if err := s.Validate(normalized); err != nil {
			issues = append(issues, schemaIssues(err)...)
		}
	}
	if model != nil {
		issues = append(issues, model(doc)...)
	}
	return issues
}

// ValidateDocument runs the full pipeline over one document file: parse
// (fail fast), root-shape check (fail fast), then schema and model stages.
func (v *Validator) ValidateDocument(docPath string, s *jsonschema.Schema, model ModelFunc) []string {
	data, err := os.ReadFile(docPath)
	if err != nil {
		return []string{fmt.Sprintf("%s: failed to read document (%v)", docPath, err)}
	}
	doc, parseIssue := ParseMapping(docPath, data)
	if parseIssue != "" {
		return []string{parseIssue}
	}
	return v.Issues(doc, s, model)
}

// normalizeJSON round-trips a YAML-decoded value through encoding/json so
// the schema library sees canonical JSON types.
func normalizeJSON(doc any) (any, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// schemaIssues flattens a validation error tree into ordered
// "location: message" strings, one per leaf cause.
func schemaIssues(err error) []string {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{fmt.Sprintf("%s: %v", RootMarker, err)}
	}
	leaves := []string{}
	collectLeaves(ve, &leaves)
	return leaves
}

func collectLeaves(ve *jsonschema.ValidationError, out *[]string) {
	if len(ve.Causes) == 0 {
		location := strings.TrimPrefix(ve.InstanceLocation, "/")
		if location == "" {
			location = RootMarker
		}
		*out = append(*out, fmt.Sprintf("%s: %s", location, ve.Message))
		return
	}
	for _, cause := range ve.Causes {
		collectLeaves(cause, out)
	}
}
