package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	cfgpkg "github.com/rz-ai/aicheck/internal/config"
)

func useDefaultConfig(t *testing.T) {
	t.Helper()
	cfg := cfgpkg.Default()
	config = &cfg
	configPath = ""
}

// scaffoldCompliant builds a target tree that satisfies the structure
// catalogue so commands exit zero.
func scaffoldCompliant(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, dir := range cfgpkg.Default().Structure.RequiredDirs {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(dir)), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	for _, file := range cfgpkg.Default().Structure.RequiredFiles {
		path := filepath.Join(root, filepath.FromSlash(file))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", file, err)
		}
		if err := os.WriteFile(path, []byte("placeholder\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", file, err)
		}
	}
	return root
}

func TestRunStructureWritesReport(t *testing.T) {
	useDefaultConfig(t)
	root := scaffoldCompliant(t)
	reportPath := filepath.Join(t.TempDir(), "structure.json")

	runStructure([]string{"--target-root", root, "--json", "--report", reportPath})

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("missing report: %v", err)
	}
	var decoded struct {
		Target       string   `json:"target"`
		MissingDirs  []string `json:"missing_dirs"`
		MissingFiles []string `json:"missing_files"`
		IsCompliant  bool     `json:"is_compliant"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("parse report: %v", err)
	}
	if !decoded.IsCompliant {
		t.Fatalf("expected compliant report, got %s", data)
	}
	if len(decoded.MissingDirs) != 0 || len(decoded.MissingFiles) != 0 {
		t.Fatalf("expected no missing items, got %s", data)
	}
	if decoded.Target != root {
		t.Fatalf("target = %q, want %q", decoded.Target, root)
	}
}

func TestRunPromptsNeverFails(t *testing.T) {
	useDefaultConfig(t)
	root := t.TempDir()
	source := `package demo

const reviewPrompt = "You are a meticulous reviewer. Inspect the change set and list every defect you find."
`
	if err := os.WriteFile(filepath.Join(root, "go.mod"), []byte("module demo\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "demo.go"), []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}
	reportPath := filepath.Join(t.TempDir(), "prompts.json")

	runPrompts([]string{"--target-root", root, "--extensions", ".go,.py", "--report", reportPath})

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("missing report: %v", err)
	}
	var decoded struct {
		Prompts []struct {
			Var  string `json:"var_name"`
			Line int    `json:"line"`
		} `json:"prompts"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("parse report: %v", err)
	}
	if len(decoded.Prompts) != 1 || decoded.Prompts[0].Var != "reviewPrompt" {
		t.Fatalf("unexpected prompts: %s", data)
	}
}

func TestRunMergeDryRun(t *testing.T) {
	useDefaultConfig(t)
	root := t.TempDir()
	corePath := filepath.Join(root, "config", "prompts.core.yaml")
	if err := os.MkdirAll(filepath.Dir(corePath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(corePath, []byte("greet:\n  system: hello\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	runMerge([]string{"--target-root", root, "--dry-run"})

	merged := filepath.Join(root, "config", "prompts.merged.yaml")
	if _, err := os.Stat(merged); !os.IsNotExist(err) {
		t.Fatalf("dry run must not write %s", merged)
	}
}

func TestDefaultPath(t *testing.T) {
	cases := []struct {
		flag, root, fallback, want string
	}{
		{"/explicit/prompts.yaml", "/work", "config/prompts.core.yaml", "/explicit/prompts.yaml"},
		{"", "/work", "config/prompts.core.yaml", filepath.Join("/work", "config", "prompts.core.yaml")},
	}
	for _, tc := range cases {
		if got := defaultPath(tc.flag, tc.root, tc.fallback); got != tc.want {
			t.Errorf("defaultPath(%q, %q, %q) = %q, want %q", tc.flag, tc.root, tc.fallback, got, tc.want)
		}
	}
}

func TestUnderDir(t *testing.T) {
	sep := string(filepath.Separator)
	cases := []struct {
		path, dir string
		want      bool
	}{
		{filepath.Join("work", ".aicheck", "check.json"), ".aicheck", true},
		{filepath.Join("work", ".aicheck"), ".aicheck", true},
		{filepath.Join("work", "data", "raw"), ".aicheck", false},
		{"work" + sep + "aicheck-docs" + sep + "x", ".aicheck", false},
	}
	for _, tc := range cases {
		if got := underDir(tc.path, tc.dir); got != tc.want {
			t.Errorf("underDir(%q, %q) = %v, want %v", tc.path, tc.dir, got, tc.want)
		}
	}
}

func TestRunCheckHistoryIsOptIn(t *testing.T) {
	useDefaultConfig(t)
	root := scaffoldCompliant(t)
	for _, file := range []string{".pre-commit-config.yaml", ".github/workflows/ci.yml"} {
		path := filepath.Join(root, filepath.FromSlash(file))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", file, err)
		}
		if err := os.WriteFile(path, []byte("placeholder\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", file, err)
		}
	}
	historyPath := filepath.Join(root, ".aicheck", "history.jsonl")

	runCheck([]string{"--target-root", root, "--json"})
	if _, err := os.Stat(historyPath); !os.IsNotExist(err) {
		t.Fatalf("history written without --history (stat err: %v)", err)
	}

	runCheck([]string{"--target-root", root, "--json", "--history"})
	if _, err := os.Stat(historyPath); err != nil {
		t.Fatalf("missing history after --history: %v", err)
	}
}

func TestSplitConfigFlag(t *testing.T) {
	cases := []struct {
		name     string
		args     []string
		wantPath string
		wantRest []string
	}{
		{"absent", []string{"structure", "--json"}, "", []string{"structure", "--json"}},
		{"spaced", []string{"--config", "a.yaml", "check"}, "a.yaml", []string{"check"}},
		{"equals", []string{"--config=a.yaml", "check"}, "a.yaml", []string{"check"}},
		{"after command", []string{"check", "--config=a.yaml", "--json"}, "a.yaml", []string{"check", "--json"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path, rest := splitConfigFlag(tc.args)
			if path != tc.wantPath {
				t.Errorf("config path = %q, want %q", path, tc.wantPath)
			}
			if len(rest) != len(tc.wantRest) {
				t.Fatalf("rest = %v, want %v", rest, tc.wantRest)
			}
			for i := range rest {
				if rest[i] != tc.wantRest[i] {
					t.Fatalf("rest = %v, want %v", rest, tc.wantRest)
				}
			}
		})
	}
}
