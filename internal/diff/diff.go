// Package diff computes the side-by-side rows shown under the editor once a
// transformation has run.
package diff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Kind classifies a split-view row.
type Kind string

const (
	Equal    Kind = "equal"
	Added    Kind = "added"
	Removed  Kind = "removed"
	Modified Kind = "modified"
)

// Row is one line of the split view. A zero line number means the side is
// empty for this row.
type Row struct {
	Kind  Kind   `json:"kind"`
	OldNo int    `json:"old_no"`
	Old   string `json:"old"`
	NewNo int    `json:"new_no"`
	New   string `json:"new"`
}

// SplitView aligns old and new line by line. Runs of removed lines followed
// by added lines are paired into Modified rows.
func SplitView(oldText, newText string) []Row {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var (
		rows    []Row
		oldNo   int
		newNo   int
		removed []string
	)

	flushRemoved := func() {
		for _, line := range removed {
			oldNo++
			rows = append(rows, Row{Kind: Removed, OldNo: oldNo, Old: line})
		}
		removed = nil
	}

	for _, d := range diffs {
		chunk := splitLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flushRemoved()
			for _, line := range chunk {
				oldNo++
				newNo++
				rows = append(rows, Row{Kind: Equal, OldNo: oldNo, Old: line, NewNo: newNo, New: line})
			}
		case diffmatchpatch.DiffDelete:
			removed = append(removed, chunk...)
		case diffmatchpatch.DiffInsert:
			for _, line := range chunk {
				newNo++
				if len(removed) > 0 {
					oldNo++
					rows = append(rows, Row{Kind: Modified, OldNo: oldNo, Old: removed[0], NewNo: newNo, New: line})
					removed = removed[1:]
					continue
				}
				rows = append(rows, Row{Kind: Added, NewNo: newNo, New: line})
			}
		}
	}
	flushRemoved()
	return rows
}

// Stats counts changed rows per kind.
func Stats(rows []Row) map[Kind]int {
	out := make(map[Kind]int, 4)
	for _, r := range rows {
		out[r.Kind]++
	}
	return out
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}
