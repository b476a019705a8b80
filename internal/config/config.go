// Package config carries the compiled-in audit catalogues with optional
// YAML overrides. Catalogues are declarative data, not code branches: the
// auditors stay generic and are fed these tables.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rz-ai/aicheck/internal/pattern"
)

// Config is the compiled-in configuration with optional overrides.
type Config struct {
	SchemaVersion string           `yaml:"schemaVersion"`
	App           AppConfig        `yaml:"app"`
	Paths         PathsConfig      `yaml:"paths"`
	Logging       LoggingConfig    `yaml:"logging"`
	Structure     StructureConfig  `yaml:"structure"`
	Docs          DocsConfig       `yaml:"docs"`
	Tooling       ToolingConfig    `yaml:"tooling"`
	LLMUsage      LLMUsageConfig   `yaml:"llmUsage"`
	DataLayout    DataLayoutConfig `yaml:"dataLayout"`
	Prompts       PromptsConfig    `yaml:"prompts"`
	Merge         MergeConfig      `yaml:"merge"`
}

type AppConfig struct {
	Name string `yaml:"name"`
}

type PathsConfig struct {
	TargetRoot    string `yaml:"targetRoot"`
	StandardsRoot string `yaml:"standardsRoot"`
	ReportDir     string `yaml:"reportDir"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// StructureConfig is the project-structure catalogue.
type StructureConfig struct {
	RequiredDirs     []string `yaml:"requiredDirs"`
	RequiredFiles    []string `yaml:"requiredFiles"`
	RecommendedItems []string `yaml:"recommendedItems"`
}

// DocsConfig is the documentation catalogue.
type DocsConfig struct {
	RequiredDocs    []string `yaml:"requiredDocs"`
	RecommendedDocs []string `yaml:"recommendedDocs"`
}

// ToolingConfig is the tooling/CI catalogue, including language-conditional
// requirements keyed off detected file extensions.
type ToolingConfig struct {
	RequiredFiles       []string              `yaml:"requiredFiles"`
	CISentinel          string                `yaml:"ciSentinel"`
	RecommendedFiles    []string              `yaml:"recommendedFiles"`
	RecommendedDirs     []string              `yaml:"recommendedDirs"`
	RuffGroup           []string              `yaml:"ruffGroup"`
	LanguageByExt       map[string]string     `yaml:"languageByExt"`
	LanguageRequired    map[string][]string   `yaml:"languageRequired"`
	LanguageRecommended map[string][]string   `yaml:"languageRecommended"`
	LanguageAltGroups   map[string][][]string `yaml:"languageAltGroups"`
	DetectMaxFiles      int                   `yaml:"detectMaxFiles"`
}

// LLMUsageConfig bounds the raw-provider-call scan.
type LLMUsageConfig struct {
	Extensions       []string       `yaml:"extensions"`
	IgnoreNames      []string       `yaml:"ignoreNames"`
	Patterns         []pattern.Rule `yaml:"patterns"`
	MaxFileSizeBytes int64          `yaml:"maxFileSizeBytes"`
}

// DataLayoutConfig governs the data/ directory policy and output metadata
// audit.
type DataLayoutConfig struct {
	RequiredDirs   []string `yaml:"requiredDirs"`
	AllowedDirs    []string `yaml:"allowedDirs"`
	AllowedFiles   []string `yaml:"allowedFiles"`
	MetadataKeys   []string `yaml:"metadataKeys"`
	MaxOutputFiles int      `yaml:"maxOutputFiles"`
}

// PromptsConfig bounds inline prompt extraction.
type PromptsConfig struct {
	Suffixes    []string `yaml:"suffixes"`
	IgnoreNames []string `yaml:"ignoreNames"`
	MinLength   int      `yaml:"minLength"`
}

// MergeConfig names the layered prompt sources in priority order.
type MergeConfig struct {
	CorePath     string `yaml:"corePath"`
	TemplatePath string `yaml:"templatePath"`
	ProjectPath  string `yaml:"projectPath"`
	OutputPath   string `yaml:"outputPath"`
}

// Flags are the resolved global CLI flags.
type Flags struct {
	ConfigPath string
}

// Default returns the compiled-in defaults: the AI Core Standard catalogues.
func Default() Config {
	return Config{
		SchemaVersion: "1.0",
		App: AppConfig{
			Name: "AI Core Standards Checker",
		},
		Paths: PathsConfig{
			TargetRoot:    ".",
			StandardsRoot: ".",
			ReportDir:     ".aicheck",
		},
		Logging: LoggingConfig{
			Level: "info",
			JSON:  false,
		},
		Structure: StructureConfig{
			RequiredDirs: []string{
				"config",
				"data",
				"data/raw",
				"data/processed",
				"data/prompts",
				"data/outputs",
				"data/cache",
				"data/embeddings",
				"docs",
			},
			RequiredFiles: []string{
				"config/prompts.yaml",
				"config/models.yaml",
				"README.md",
			},
			RecommendedItems: []string{
				".gitignore",
				".editorconfig",
				"docs/AI_PROMPTING_STANDARDS.md",
				"docs/COPILOT_USAGE.md",
			},
		},
		Docs: DocsConfig{
			RequiredDocs: []string{
				"docs/PROJECT_STRUCTURE.md",
				"docs/AI_PROMPTING_STANDARDS.md",
				"docs/COPILOT_USAGE.md",
				"docs/DATA_ORGANIZATION.md",
				"docs/SCHEMAS_AND_VALIDATION.md",
				"docs/LINTING_AND_CI_STANDARDS.md",
				"docs/AI_PROJECT_REVIEW_CHECKLIST.md",
			},
			RecommendedDocs: []string{
				"docs/STATUS.md",
			},
		},
		Tooling: ToolingConfig{
			RequiredFiles: []string{
				".pre-commit-config.yaml",
				".github/workflows/ci.yml",
			},
			CISentinel: ".github/workflows/ci.yml",
			RecommendedFiles: []string{
				"mypy.ini",
				"pytest.ini",
				"ruff.toml",
				".ruff.toml",
			},
			RecommendedDirs: []string{
				"tests",
			},
			RuffGroup: []string{"ruff.toml", ".ruff.toml"},
			LanguageByExt: map[string]string{
				".py":  "python",
				".ts":  "typescript",
				".tsx": "typescript",
				".js":  "javascript",
				".go":  "go",
				".c":   "c_cpp",
				".cc":  "c_cpp",
				".cpp": "c_cpp",
				".cxx": "c_cpp",
				".h":   "c_cpp",
				".hpp": "c_cpp",
				".hxx": "c_cpp",
				".ps1": "powershell",
				".sh":  "shell",
			},
			LanguageRequired: map[string][]string{
				"python":     {"pyproject.toml"},
				"javascript": {"package.json"},
				"typescript": {"package.json", "tsconfig.json"},
				"go":         {"go.mod"},
				"c_cpp":      {},
				"powershell": {},
				"shell":      {},
			},
			LanguageRecommended: map[string][]string{
				"python": {"mypy.ini", "pytest.ini", "ruff.toml", ".ruff.toml"},
				"javascript": {
					"package-lock.json",
					"yarn.lock",
					"pnpm-lock.yaml",
					".eslintrc.json",
					".eslintrc.js",
					"eslint.config.js",
				},
				"typescript": {"tsconfig.json"},
				"go":         {".golangci.yml"},
				"c_cpp":      {"CMakeLists.txt", "Makefile"},
				"powershell": {"PSScriptAnalyzerSettings.psd1"},
				"shell":      {".shellcheckrc"},
			},
			LanguageAltGroups: map[string][][]string{
				"c_cpp": {{"CMakeLists.txt", "Makefile"}},
			},
			DetectMaxFiles: 2000,
		},
		LLMUsage: LLMUsageConfig{
			Extensions: []string{".py", ".ts", ".tsx", ".js", ".go"},
			IgnoreNames: []string{
				".git",
				".hg",
				".svn",
				"__pycache__",
				"node_modules",
				"dist",
				"build",
				"venv",
				".venv",
				"vendor",
			},
			Patterns: []pattern.Rule{
				{
					Pattern: "openai.ChatCompletion.create",
					Message: "Raw OpenAI ChatCompletion call; use standard client abstraction.",
				},
				{
					Pattern: "openai.Completion.create",
					Message: "Raw OpenAI Completion call; use standard client abstraction.",
				},
				{
					Pattern: "client.chat.completions.create",
					Message: "Raw Azure OpenAI chat call; use standard client abstraction.",
				},
				{
					Pattern: "client.completions.create",
					Message: "Raw Azure OpenAI completion call; use standard client abstraction.",
				},
			},
			MaxFileSizeBytes: 1_000_000,
		},
		DataLayout: DataLayoutConfig{
			RequiredDirs: []string{
				"data",
				"data/raw",
				"data/processed",
				"data/prompts",
				"data/outputs",
				"data/cache",
				"data/embeddings",
			},
			AllowedDirs: []string{
				"raw",
				"processed",
				"prompts",
				"outputs",
				"cache",
				"embeddings",
			},
			AllowedFiles: []string{
				".gitkeep",
				".gitignore",
				"README.md",
			},
			MetadataKeys: []string{"run_id", "model", "prompt_id", "timestamp"},
			MaxOutputFiles: 0,
		},
		Prompts: PromptsConfig{
			Suffixes: []string{
				"prompt",
				"template",
				"system_msg",
				"user_msg",
				"instruction",
				"system_prompt",
				"user_prompt",
			},
			IgnoreNames: []string{
				".git",
				".hg",
				".svn",
				"__pycache__",
				"venv",
				".venv",
				"vendor",
				"node_modules",
			},
			MinLength: 40,
		},
		Merge: MergeConfig{
			CorePath:     "config/prompts.core.yaml",
			TemplatePath: "config/prompts.defaults.yaml",
			ProjectPath:  "config/prompts.custom.yaml",
			OutputPath:   "config/prompts.merged.yaml",
		},
	}
}

// Load reads a YAML config override from disk.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve applies defaults and optional overrides, then validates.
func Resolve(flags Flags) (Config, string, []string, error) {
	cfg := Default()
	var cfgPath string
	var warnings []string

	if flags.ConfigPath != "" {
		loaded, err := Load(flags.ConfigPath)
		if err != nil {
			return Config{}, "", nil, err
		}
		mergeConfigDefaults(&loaded, &cfg)
		cfg = loaded
		cfgPath = flags.ConfigPath
	}

	if cfg.SchemaVersion == "" {
		cfg.SchemaVersion = "1.0"
	}
	if cfg.SchemaVersion != "1.0" {
		warnings = append(warnings, fmt.Sprintf("unknown config schemaVersion %q, proceeding with defaults semantics", cfg.SchemaVersion))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, "", nil, err
	}
	return cfg, cfgPath, warnings, nil
}

// Validate rejects configurations no auditor could run against.
func (c *Config) Validate() error {
	if c.Paths.TargetRoot == "" {
		return fmt.Errorf("paths.targetRoot must not be empty")
	}
	if c.Paths.ReportDir == "" {
		return fmt.Errorf("paths.reportDir must not be empty")
	}
	return nil
}

// mergeConfigDefaults fills zero-valued fields from defaults so a partial
// override file does not hollow out the catalogues.
func mergeConfigDefaults(cfg *Config, defaults *Config) {
	if cfg.App.Name == "" {
		cfg.App = defaults.App
	}
	if cfg.Paths.TargetRoot == "" {
		cfg.Paths.TargetRoot = defaults.Paths.TargetRoot
	}
	if cfg.Paths.StandardsRoot == "" {
		cfg.Paths.StandardsRoot = defaults.Paths.StandardsRoot
	}
	if cfg.Paths.ReportDir == "" {
		cfg.Paths.ReportDir = defaults.Paths.ReportDir
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaults.Logging.Level
	}
	if len(cfg.Structure.RequiredDirs) == 0 {
		cfg.Structure.RequiredDirs = defaults.Structure.RequiredDirs
	}
	if len(cfg.Structure.RequiredFiles) == 0 {
		cfg.Structure.RequiredFiles = defaults.Structure.RequiredFiles
	}
	if len(cfg.Structure.RecommendedItems) == 0 {
		cfg.Structure.RecommendedItems = defaults.Structure.RecommendedItems
	}
	if len(cfg.Docs.RequiredDocs) == 0 {
		cfg.Docs = defaults.Docs
	}
	if len(cfg.Tooling.RequiredFiles) == 0 {
		cfg.Tooling = defaults.Tooling
	}
	if len(cfg.LLMUsage.Patterns) == 0 {
		cfg.LLMUsage = defaults.LLMUsage
	}
	if len(cfg.DataLayout.RequiredDirs) == 0 {
		cfg.DataLayout = defaults.DataLayout
	}
	if len(cfg.Prompts.Suffixes) == 0 {
		cfg.Prompts = defaults.Prompts
	}
	if cfg.Merge.CorePath == "" {
		cfg.Merge = defaults.Merge
	}
}
