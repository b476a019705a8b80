package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/rz-ai/aicheck/internal/health"
	"github.com/rz-ai/aicheck/internal/report"
	"github.com/rz-ai/aicheck/internal/support"
)

const watchDebounce = 300 * time.Millisecond

func runWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	targetRoot := fs.String("target-root", "", "Path to target repo root")
	_ = fs.Parse(args)

	runWatchWithStop(resolveTarget(*targetRoot), nil)
}

func runWatchWithStop(root string, stop <-chan struct{}) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: watch init failed: %v\n", err)
		os.Exit(1)
	}
	defer watcher.Close()

	reportDir := config.Paths.ReportDir
	if err := addWatchRecursive(watcher, root, reportDir); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: watch failed: %v\n", err)
		os.Exit(1)
	}

	trigger := func() {
		result := health.Run(root, *config, newValidator())
		fmt.Printf("[watch] re-checked %s\n", root)
		for _, check := range result.Checks {
			fmt.Printf("%s %s\n", report.Mark(check.Status == health.StatusPass), check.Name)
		}
		report.Verdict(os.Stdout, "check", result.Passed)
		path := filepath.Join(root, reportDir, "check.json")
		if err := support.WriteJSONAtomic(path, result); err != nil {
			slog.Warn("failed to write watch report", "error", err)
		}
	}

	slog.Info("watching for changes", "root", root)
	trigger()

	var timer *time.Timer
	for {
		select {
		case <-stop:
			return
		case ev := <-watcher.Events:
			if underDir(ev.Name, reportDir) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, trigger)
		case err := <-watcher.Errors:
			fmt.Fprintf(os.Stderr, "ERROR: watch error: %v\n", err)
		}
	}
}

func addWatchRecursive(w *fsnotify.Watcher, root, reportDir string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if underDir(path, reportDir) || info.Name() == ".git" {
				return filepath.SkipDir
			}
			return w.Add(path)
		}
		return nil
	})
}

// underDir reports whether path contains the named directory as a segment.
func underDir(path, dir string) bool {
	sep := string(filepath.Separator)
	return strings.Contains(path, sep+dir+sep) || strings.HasSuffix(path, sep+dir)
}
