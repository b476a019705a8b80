package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogues(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "1.0", cfg.SchemaVersion)
	assert.Equal(t, ".aicheck", cfg.Paths.ReportDir)
	assert.NotEmpty(t, cfg.Structure.RequiredDirs)
	assert.Contains(t, cfg.Structure.RequiredFiles, "config/prompts.yaml")
	assert.NotEmpty(t, cfg.Docs.RequiredDocs)
	assert.NotEmpty(t, cfg.Tooling.LanguageByExt)
	assert.NotEmpty(t, cfg.LLMUsage.Patterns)
	assert.Equal(t, []string{"run_id", "model", "prompt_id", "timestamp"}, cfg.DataLayout.MetadataKeys)
	assert.Equal(t, 40, cfg.Prompts.MinLength)
	assert.Equal(t, "config/prompts.core.yaml", cfg.Merge.CorePath)
	require.NoError(t, cfg.Validate())
}

func TestResolveWithoutOverride(t *testing.T) {
	cfg, path, warnings, err := Resolve(Flags{})
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Empty(t, warnings)
	assert.Equal(t, Default().Structure.RequiredDirs, cfg.Structure.RequiredDirs)
}

func TestResolvePartialOverrideKeepsCatalogues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`paths:
  reportDir: custom-reports
logging:
  level: debug
prompts:
  minLength: 10
  suffixes: [prompt]
`), 0o644))

	cfg, cfgPath, warnings, err := Resolve(Flags{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, path, cfgPath)
	assert.Empty(t, warnings)

	assert.Equal(t, "custom-reports", cfg.Paths.ReportDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"prompt"}, cfg.Prompts.Suffixes)
	assert.Equal(t, 10, cfg.Prompts.MinLength)

	defaults := Default()
	assert.Equal(t, defaults.Structure.RequiredDirs, cfg.Structure.RequiredDirs)
	assert.Equal(t, defaults.LLMUsage.Patterns, cfg.LLMUsage.Patterns)
	assert.Equal(t, defaults.Paths.TargetRoot, cfg.Paths.TargetRoot)
}

func TestResolveUnknownSchemaVersionWarns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schemaVersion: \"2.0\"\n"), 0o644))

	_, _, warnings, err := Resolve(Flags{ConfigPath: path})
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "schemaVersion")
}

func TestResolveMissingFileFails(t *testing.T) {
	_, _, _, err := Resolve(Flags{ConfigPath: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}

func TestResolveMalformedYAMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("paths: [broken"), 0o644))

	_, _, _, err := Resolve(Flags{ConfigPath: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestValidateRejectsEmptyPaths(t *testing.T) {
	cfg := Default()
	cfg.Paths.TargetRoot = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Paths.ReportDir = ""
	assert.Error(t, cfg.Validate())
}
