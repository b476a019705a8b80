// Package report renders auditor results for humans and persists the JSON
// artifacts.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/rz-ai/aicheck/internal/support"
)

var (
	passMark = color.New(color.FgGreen, color.Bold).SprintFunc()
	failMark = color.New(color.FgRed, color.Bold).SprintFunc()
	warnMark = color.New(color.FgYellow).SprintFunc()
)

// Verdict prints the binary compliant/non-compliant line.
func Verdict(w io.Writer, label string, compliant bool) {
	if compliant {
		fmt.Fprintf(w, "%s %s\n", passMark("PASS"), label)
	} else {
		fmt.Fprintf(w, "%s %s\n", failMark("FAIL"), label)
	}
}

// Mark returns the status symbol for one member check line.
func Mark(ok bool) string {
	if ok {
		return passMark("✔")
	}
	return failMark("✘")
}

// WarnLine prints one advisory line.
func WarnLine(w io.Writer, text string) {
	fmt.Fprintf(w, "%s %s\n", warnMark("!"), text)
}

// PrintBlock prints a titled, indented item list; empty lists print nothing.
func PrintBlock(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}

// PrintJSON writes the indented JSON rendering of v to w.
func PrintJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// Write persists the JSON report when path is non-empty.
func Write(path string, v any) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := support.WriteJSONAtomic(path, v); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
