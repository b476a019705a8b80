package support

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomicCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "nested", "out.txt")

	require.NoError(t, WriteFileAtomic(path, []byte("hello")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestWriteFileAtomicReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, WriteFileAtomic(path, []byte("first")))
	require.NoError(t, WriteFileAtomic(path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
}

func TestWriteJSONAtomicTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	require.NoError(t, WriteJSONAtomic(path, map[string]int{"count": 3}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "\n"))

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 3, decoded["count"])
}

func TestStripBOM(t *testing.T) {
	assert.Equal(t, []byte("abc"), StripBOM([]byte{0xEF, 0xBB, 0xBF, 'a', 'b', 'c'}))
	assert.Equal(t, []byte("abc"), StripBOM([]byte("abc")))
	assert.Equal(t, []byte{0xEF, 0xBB}, StripBOM([]byte{0xEF, 0xBB}))
}

func TestAppendHistory(t *testing.T) {
	reportDir := filepath.Join(t.TempDir(), "reports")

	require.NoError(t, AppendHistory(reportDir, HistoryEntry{
		RunID:   "run-1",
		Command: "check",
		Target:  "/work/project",
		Passed:  true,
	}))
	require.NoError(t, AppendHistory(reportDir, HistoryEntry{
		RunID:        "run-2",
		Command:      "check",
		Target:       "/work/project",
		Passed:       false,
		FailedChecks: 2,
	}))

	f, err := os.Open(filepath.Join(reportDir, "history.jsonl"))
	require.NoError(t, err)
	defer f.Close()

	var entries []HistoryEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry HistoryEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, entries, 2)
	assert.Equal(t, "run-1", entries[0].RunID)
	assert.True(t, entries[0].Passed)
	assert.NotEmpty(t, entries[0].TimestampUtc)
	assert.Equal(t, 2, entries[1].FailedChecks)
}
