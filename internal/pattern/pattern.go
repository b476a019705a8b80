// Package pattern applies substring detectors to file text line by line.
package pattern

import (
	"strings"

	"github.com/rz-ai/aicheck/internal/audit"
)

// Rule pairs a substring pattern with the message reported on a match.
type Rule struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	Message string `json:"message" yaml:"message"`
}

// ScanText finds every line where any rule's pattern appears, case
// insensitively, as a substring. Each (line, rule) match produces a separate
// finding; nothing is deduplicated. Line numbers are 1-based and the snippet
// is the stripped source line, truncated for display.
func ScanText(path, text string, rules []Rule) []audit.Finding {
	findings := []audit.Finding{}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lower := strings.ToLower(line)
		for _, rule := range rules {
			if strings.Contains(lower, strings.ToLower(rule.Pattern)) {
				findings = append(findings, audit.NewFinding(path, i+1, rule.Message, line))
			}
		}
	}
	return findings
}
