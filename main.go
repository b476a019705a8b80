// aicheck - AI Core Standards compliance checker
//
// Commands:
//   structure        Audit required directories and files
//   docs             Audit documentation catalogue and README linkage
//   tooling          Audit tooling and CI configuration
//   llm-usage        Detect raw LLM provider calls
//   data-layout      Audit data/ layout and output metadata
//   prompts          Extract inline prompt literals
//   merge            Merge layered prompt configuration
//   validate-config  Validate standard config documents
//   check            Run the consolidated health check
//   tasks            Run or list remediation tasks
//   watch            Re-run the consolidated check on file changes
//   version          Show version information

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	cfgpkg "github.com/rz-ai/aicheck/internal/config"
	"github.com/rz-ai/aicheck/internal/logging"
	"github.com/rz-ai/aicheck/internal/schema"
)

// Version information (set at build time)
var (
	Version   = "1.0.0"
	BuildDate = "unknown"
)

// Global config
var config *cfgpkg.Config
var configPath string

func main() {
	// Parse args for --config flag first
	configFlag, filteredArgs := splitConfigFlag(os.Args[1:])

	if configFlag != "" {
		if _, err := os.Stat(configFlag); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "ERROR: Config not found: %s\n", configFlag)
				os.Exit(1)
			}
			fmt.Fprintf(os.Stderr, "ERROR: Config stat failed: %v\n", err)
			os.Exit(1)
		}
	}

	cfg, cfgPath, warnings, err := cfgpkg.Resolve(cfgpkg.Flags{ConfigPath: configFlag})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Config load failed: %v\n", err)
		os.Exit(1)
	}
	config = &cfg
	configPath = cfgPath

	logger := logging.Setup(os.Stderr, cfg.Logging)
	for _, w := range warnings {
		logger.Warn(w)
	}

	if len(filteredArgs) < 1 {
		printUsage()
		os.Exit(1)
	}

	cmd := filteredArgs[0]
	cmdArgs := filteredArgs[1:]

	switch cmd {
	case "--version", "-v", "version":
		fmt.Printf("aicheck v%s (built %s)\n", Version, BuildDate)
		if configPath != "" {
			fmt.Printf("Config: %s\n", configPath)
		}

	case "structure":
		runStructure(cmdArgs)
	case "docs":
		runDocs(cmdArgs)
	case "tooling":
		runTooling(cmdArgs)
	case "llm-usage":
		runLLMUsage(cmdArgs)
	case "data-layout":
		runDataLayout(cmdArgs)
	case "prompts":
		runPrompts(cmdArgs)
	case "merge":
		runMerge(cmdArgs)
	case "validate-config":
		runValidateConfig(cmdArgs)
	case "check":
		runCheck(cmdArgs)
	case "tasks":
		runTasks(cmdArgs)
	case "watch":
		runWatch(cmdArgs)
	case "help", "--help", "-h":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: aicheck [--config <path>] <command> [options]

Commands:
  structure        Audit required directories and files
  docs             Audit documentation catalogue and README linkage
  tooling          Audit tooling and CI configuration
  llm-usage        Detect raw LLM provider calls
  data-layout      Audit data/ layout and output metadata
  prompts          Extract inline prompt literals
  merge            Merge layered prompt configuration
  validate-config  Validate standard config documents
  check            Run the consolidated health check
  tasks            Run or list remediation tasks
  watch            Re-run the consolidated check on file changes
  version          Show version information

Run 'aicheck <command> --help' for command options.`)
}

// splitConfigFlag pulls the global --config flag out of args before any
// subcommand flag set sees it. Both "--config path" and "--config=path"
// spellings are accepted.
func splitConfigFlag(args []string) (string, []string) {
	configFlag := ""
	rest := []string{}
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--config" && i+1 < len(args):
			configFlag = args[i+1]
			i++
		case strings.HasPrefix(args[i], "--config="):
			configFlag = strings.TrimPrefix(args[i], "--config=")
		default:
			rest = append(rest, args[i])
		}
	}
	return configFlag, rest
}

// resolveTarget absolutizes a --target-root value, defaulting to the
// configured target root.
func resolveTarget(flagValue string) string {
	root := flagValue
	if root == "" {
		root = config.Paths.TargetRoot
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: cannot resolve target root %s: %v\n", root, err)
		os.Exit(1)
	}
	return abs
}

// newValidator builds the shared schema validator for one command run.
func newValidator() *schema.Validator {
	return schema.NewValidator(schema.DefaultCacheSize)
}

// exitCompliance maps a compliance verdict to the process exit contract.
func exitCompliance(compliant bool) {
	if !compliant {
		os.Exit(1)
	}
}
