// Package audit defines the shared finding shape produced by content scans.
package audit

import "strings"

// MaxSnippetLen is the display width past which snippets are truncated.
const MaxSnippetLen = 160

// Finding is one located issue discovered during a scan. Line is 1-based;
// a Line of 0 means the finding applies to the whole file.
type Finding struct {
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Message string `json:"message"`
	Snippet string `json:"snippet,omitempty"`
}

// NewFinding builds a finding with a normalized snippet: leading/trailing
// whitespace stripped and truncated past MaxSnippetLen.
func NewFinding(path string, line int, message, snippet string) Finding {
	return Finding{
		Path:    path,
		Line:    line,
		Message: message,
		Snippet: TruncateSnippet(snippet),
	}
}

// TruncateSnippet strips a source line and caps its display length.
func TruncateSnippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > MaxSnippetLen {
		return s[:MaxSnippetLen-3] + "..."
	}
	return s
}
