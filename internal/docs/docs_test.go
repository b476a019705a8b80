package docs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rz-ai/aicheck/internal/config"
)

func catalogue() config.DocsConfig {
	return config.Default().Docs
}

func buildDocs(t *testing.T, readme string) string {
	t.Helper()
	root := t.TempDir()
	for _, doc := range catalogue().RequiredDocs {
		path := filepath.Join(root, filepath.FromSlash(doc))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("# doc\n"), 0o644))
	}
	if readme != "" {
		require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte(readme), 0o644))
	}
	return root
}

func readmeLinkingAll() string {
	var b strings.Builder
	b.WriteString("# Project\n\nSee the standards docs:\n")
	for _, doc := range catalogue().RequiredDocs {
		b.WriteString("- [" + doc + "](" + doc + ")\n")
	}
	return b.String()
}

func TestAuditCompliantDocs(t *testing.T) {
	root := buildDocs(t, readmeLinkingAll())
	result := Audit(root, catalogue())

	assert.Empty(t, result.MissingRequired)
	assert.False(t, result.ReadmeMissing)
	assert.Empty(t, result.UnlinkedRequired)
	assert.True(t, result.Compliant())
}

func TestAuditMissingDoc(t *testing.T) {
	root := buildDocs(t, readmeLinkingAll())
	require.NoError(t, os.Remove(filepath.Join(root, "docs", "DATA_ORGANIZATION.md")))

	result := Audit(root, catalogue())
	assert.Contains(t, result.MissingRequired, "docs/DATA_ORGANIZATION.md")
	assert.False(t, result.Compliant())
}

func TestLinkageByBasenameIsEnough(t *testing.T) {
	root := buildDocs(t, "# Project\n\nRead PROJECT_STRUCTURE.md, ai_prompting_standards.md, COPILOT_USAGE.md, DATA_ORGANIZATION.md, SCHEMAS_AND_VALIDATION.md, LINTING_AND_CI_STANDARDS.md and AI_PROJECT_REVIEW_CHECKLIST.md first.\n")
	result := Audit(root, catalogue())

	assert.Empty(t, result.UnlinkedRequired, "basename mentions count, case-insensitively")
	assert.True(t, result.Compliant())
}

func TestUnlinkedDocReported(t *testing.T) {
	readme := "# Project\n\nOnly mentions docs/PROJECT_STRUCTURE.md here.\n"
	root := buildDocs(t, readme)
	result := Audit(root, catalogue())

	assert.Contains(t, result.UnlinkedRequired, "docs/COPILOT_USAGE.md")
	assert.NotContains(t, result.UnlinkedRequired, "docs/PROJECT_STRUCTURE.md")
	assert.False(t, result.Compliant())
}

func TestMissingReadmeSuppressesUnlinkedList(t *testing.T) {
	root := buildDocs(t, "")
	result := Audit(root, catalogue())

	assert.True(t, result.ReadmeMissing)
	assert.Empty(t, result.UnlinkedRequired, "a missing README is one finding, not eight")
	assert.False(t, result.Compliant())
}

func TestMissingDocsAreNotAlsoUnlinked(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# empty\n"), 0o644))

	result := Audit(root, catalogue())
	assert.Len(t, result.MissingRequired, len(catalogue().RequiredDocs))
	assert.Empty(t, result.UnlinkedRequired)
}
