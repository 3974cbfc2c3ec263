package main

import (
	"fmt"
	"maps"
	"strings"

	"github.com/germanamz/modelgate/pkg/gatedir"
	"github.com/pmezard/go-difflib/difflib"
)

// snapshotDiff returns a unified diff between two discovery snapshots. It
// returns an empty string when they list the same models.
func snapshotDiff(prev, cur gatedir.Snapshot) string {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(prev.Lines()),
		B:        difflib.SplitLines(cur.Lines()),
		FromFile: "previous",
		ToFile:   "current",
		Context:  3,
	}

	result, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Sprintf("(diff error: %v)", err)
	}

	return result
}

// mergeSnapshot returns prev with the providers of cur replaced.
func mergeSnapshot(prev, cur gatedir.Snapshot) gatedir.Snapshot {
	out := make(gatedir.Snapshot, len(prev)+len(cur))
	maps.Copy(out, prev)
	maps.Copy(out, cur)
	return out
}

// colorizeDiff styles the added, removed and hunk lines of a unified diff.
func colorizeDiff(diff string) string {
	lines := strings.Split(strings.TrimRight(diff, "\n"), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			lines[i] = dimStyle.Render(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = hunkStyle.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = addedStyle.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = removedStyle.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
