package configcheck

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rz-ai/aicheck/internal/schema"
)

const validModels = `default:
  provider: openai
  model: gpt-4.1
  temperature: 0.2
  max_tokens: 2048
providers:
  openai:
    default_model: gpt-4.1
    coding_models:
      - gpt-4.1
      - gpt-4.1-mini
`

const validPrompts = `summarize_v2:
  description: Summarize a document.
  system: You are a careful summarizer.
  user_template: "Summarize: {document}"
`

func testValidator() *schema.Validator {
	return schema.NewValidator(schema.DefaultCacheSize)
}

func writeConfig(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func documentByLabel(result Result, label string) (DocumentResult, bool) {
	for _, doc := range result.Documents {
		if doc.Label == label {
			return doc, true
		}
	}
	return DocumentResult{}, false
}

func TestValidateRequiredDocumentsOnly(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "config/models.yaml", validModels)
	writeConfig(t, root, "config/prompts.yaml", validPrompts)

	result := Validate(root, StandardDocuments(root), testValidator())
	assert.True(t, result.OK)
	assert.Len(t, result.Documents, 2, "optional project/evals documents are skipped when absent")
}

func TestValidateMissingRequiredDocumentFails(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "config/models.yaml", validModels)

	result := Validate(root, StandardDocuments(root), testValidator())
	assert.False(t, result.OK)

	prompts, ok := documentByLabel(result, "prompts")
	require.True(t, ok)
	assert.False(t, prompts.OK)
	require.Len(t, prompts.Errors, 1)
	assert.Contains(t, prompts.Errors[0], "failed to read")
}

func TestValidateModelIssuesArePrefixed(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "config/models.yaml", `default:
  provider: openai
  model: gpt-4.1
  temperature: 3.5
providers:
  openai:
    default_model: gpt-4.1
`)
	writeConfig(t, root, "config/prompts.yaml", validPrompts)

	result := Validate(root, StandardDocuments(root), testValidator())
	models, ok := documentByLabel(result, "models")
	require.True(t, ok)
	assert.False(t, models.OK)

	found := false
	for _, issue := range models.Errors {
		if strings.HasPrefix(issue, "model:") && strings.Contains(issue, "temperature") {
			found = true
		}
	}
	assert.True(t, found, "temperature out of range surfaces as a model: issue, got %v", models.Errors)
}

func TestValidateProjectSemver(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "config/models.yaml", validModels)
	writeConfig(t, root, "config/prompts.yaml", validPrompts)
	writeConfig(t, root, "config/project.yaml", `name: demo
description: A demo project.
languages: [python]
runtime: cli
status: active
version: not-a-version
`)

	result := Validate(root, StandardDocuments(root), testValidator())
	project, ok := documentByLabel(result, "project")
	require.True(t, ok)
	assert.False(t, project.OK)

	joined := strings.Join(project.Errors, " | ")
	assert.Contains(t, joined, "version")
	assert.Contains(t, joined, "not a valid semantic version")
}

func TestValidateProjectRuntimeEnum(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "config/models.yaml", validModels)
	writeConfig(t, root, "config/prompts.yaml", validPrompts)
	writeConfig(t, root, "config/project.yaml", `name: demo
description: A demo project.
languages: [python]
runtime: spaceship
status: active
version: 1.2.3
`)

	result := Validate(root, StandardDocuments(root), testValidator())
	project, ok := documentByLabel(result, "project")
	require.True(t, ok)
	assert.False(t, project.OK)

	joined := strings.Join(project.Errors, " | ")
	assert.Contains(t, joined, "runtime")
}

func TestValidateEvalsDatasetRequiresIDOrPath(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "config/models.yaml", validModels)
	writeConfig(t, root, "config/prompts.yaml", validPrompts)
	writeConfig(t, root, "config/evals.yaml", `evals:
  - id: summarization_quality
    description: Judge summaries against references.
    dataset:
      split: test
    models: [gpt-4.1]
    metrics: [rougeL]
    prompt_id: summarize_v2
`)

	result := Validate(root, StandardDocuments(root), testValidator())
	evals, ok := documentByLabel(result, "evals")
	require.True(t, ok)
	assert.False(t, evals.OK)

	joined := strings.Join(evals.Errors, " | ")
	assert.Contains(t, joined, "dataset")
}

func TestValidateMalformedDocumentFailFast(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "config/models.yaml", "default: [unclosed")
	writeConfig(t, root, "config/prompts.yaml", validPrompts)

	result := Validate(root, StandardDocuments(root), testValidator())
	models, ok := documentByLabel(result, "models")
	require.True(t, ok)
	require.Len(t, models.Errors, 1, "parse failures stop all later stages for that document")
	assert.Contains(t, models.Errors[0], "failed to parse document")
}
