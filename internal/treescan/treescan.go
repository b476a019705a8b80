// Package treescan walks a target tree under a bounded scan policy and
// yields candidate files for content inspection.
package treescan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rz-ai/aicheck/internal/audit"
)

// Policy bounds one tree scan. Ignored names exclude whole subtrees (for
// directories) or single files. Extensions filter which files are yielded.
// MaxFileSize of 0 disables the size cap; MaxFiles of 0 disables the count
// cap.
type Policy struct {
	IgnoreNames map[string]struct{}
	Extensions  map[string]struct{}
	MaxFileSize int64
	MaxFiles    int
}

// NewPolicy builds a Policy from slices, lowercasing names and extensions.
func NewPolicy(ignoreNames, extensions []string, maxFileSize int64, maxFiles int) Policy {
	p := Policy{
		IgnoreNames: make(map[string]struct{}, len(ignoreNames)),
		Extensions:  make(map[string]struct{}, len(extensions)),
		MaxFileSize: maxFileSize,
		MaxFiles:    maxFiles,
	}
	for _, n := range ignoreNames {
		p.IgnoreNames[strings.ToLower(n)] = struct{}{}
	}
	for _, e := range extensions {
		p.Extensions[strings.ToLower(e)] = struct{}{}
	}
	return p
}

func (p Policy) ignored(name string) bool {
	_, ok := p.IgnoreNames[strings.ToLower(name)]
	return ok
}

func (p Policy) wantsExt(path string) bool {
	if len(p.Extensions) == 0 {
		return true
	}
	_, ok := p.Extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Result carries the outcome of one scan. Paths are relative to the scanned
// root and sorted in walk (lexical) order. Findings report stat and walk
// failures; Truncated is set when MaxFiles stopped the walk early.
type Result struct {
	Paths     []string
	Findings  []audit.Finding
	Truncated bool
}

// Scan walks root applying the policy. Files larger than MaxFileSize are
// skipped silently (a skip, not a violation); stat and directory-read
// failures produce file-level findings. The walk is recomputed fresh on
// every call.
func Scan(root string, policy Policy) Result {
	var res Result
	_ = filepath.WalkDir(root, func(current string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			rel, relErr := filepath.Rel(root, current)
			if relErr != nil {
				rel = current
			}
			res.Findings = append(res.Findings, audit.Finding{
				Path:    filepath.ToSlash(rel),
				Line:    0,
				Message: fmt.Sprintf("unable to walk path: %v", walkErr),
			})
			return nil
		}
		if d.IsDir() {
			if current != root && policy.ignored(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || policy.ignored(d.Name()) {
			return nil
		}
		if !policy.wantsExt(current) {
			return nil
		}
		rel, err := filepath.Rel(root, current)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		info, err := d.Info()
		if err != nil {
			res.Findings = append(res.Findings, audit.Finding{
				Path:    rel,
				Line:    0,
				Message: "unable to stat file for scanning",
			})
			return nil
		}
		if policy.MaxFileSize > 0 && info.Size() > policy.MaxFileSize {
			return nil
		}
		if policy.MaxFiles > 0 && len(res.Paths) >= policy.MaxFiles {
			res.Truncated = true
			return fs.SkipAll
		}
		res.Paths = append(res.Paths, rel)
		return nil
	})
	return res
}

// ReadText reads a previously yielded file. A read failure is converted into
// a file-level finding so scans degrade instead of aborting.
func ReadText(root, rel string) (string, *audit.Finding) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		f := audit.Finding{
			Path:    rel,
			Line:    0,
			Message: fmt.Sprintf("unable to read file for scanning: %v", err),
		}
		return "", &f
	}
	return string(data), nil
}
