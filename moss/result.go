package moss

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// SubName derives a submission's display name: the lowest directory
// component (with a trailing slash) in multi-file mode, or the bare
// filename of its single document otherwise.
func SubName(sub *ProcessedSubmission, multi bool) string {
	if multi {
		return filepath.Base(sub.DirName) + "/"
	}
	return filepath.Base(sub.Docs[0].Path)
}

// lineRange is a coalesced, inclusive span of source lines.
type lineRange struct {
	start, end int
}

// coalesceInsert appends a line range into an already-coalesced slice,
// merging it into the last entry when it overlaps or is adjacent.
func coalesceInsert(lines []lineRange, next lineRange) []lineRange {
	if len(lines) == 0 {
		return append(lines, next)
	}
	last := lines[len(lines)-1]
	if next.start <= last.end+1 {
		end := last.end
		if next.end > end {
			end = next.end
		}
		lines[len(lines)-1] = lineRange{last.start, end}
		return lines
	}
	return append(lines, next)
}

// formatLineNumbers renders, for each document referenced by entries, the
// coalesced line ranges at which entries occur, prefixed with the
// document's filename in multi-file mode. entries need not arrive sorted
// or grouped by document.
func formatLineNumbers(sub *ProcessedSubmission, entries []Entry, multi bool) []string {
	byDoc := make(map[int][]Entry)
	var docOrder []int
	for _, e := range entries {
		if _, ok := byDoc[e.DocIdx]; !ok {
			docOrder = append(docOrder, e.DocIdx)
		}
		byDoc[e.DocIdx] = append(byDoc[e.DocIdx], e)
	}
	sort.Ints(docOrder)

	var formatted []string
	for _, docIdx := range docOrder {
		doc := &sub.Docs[docIdx]
		docEntries := byDoc[docIdx]
		sort.Slice(docEntries, func(i, j int) bool { return docEntries[i].Start < docEntries[j].Start })

		var ranges []lineRange
		for _, e := range docEntries {
			ranges = coalesceInsert(ranges, lineRange{e.Start, e.End})
		}

		var b strings.Builder
		if multi {
			fmt.Fprintf(&b, "%s ", filepath.Base(doc.Path))
		}

		if len(ranges) > 1 || ranges[0].end-ranges[0].start > 0 {
			b.WriteString("lines ")
		} else {
			b.WriteString("line ")
		}

		for i, r := range ranges {
			if i > 0 {
				b.WriteString(", ")
			}
			if r.end-r.start == 0 {
				fmt.Fprintf(&b, "%d", r.start)
			} else {
				fmt.Fprintf(&b, "%d-%d", r.start, r.end)
			}
		}

		formatted = append(formatted, b.String())
	}

	return formatted
}

// PairTable renders a text table summarizing every Match found between a
// pair's two submissions: one row per Match, with the matching line ranges
// on each side.
func PairTable(pair *SubPair, matches []Match, a, b *ProcessedSubmission, aName, bName string, multi bool) string {
	var buf bytes.Buffer
	tbl := tablewriter.NewWriter(&buf)
	tbl.SetAutoFormatHeaders(false)

	aTitle := fmt.Sprintf("%s (%.2f%%)", aName, pair.APercent*100)
	bTitle := fmt.Sprintf("%s (%.2f%%)", bName, pair.BPercent*100)
	tbl.SetHeader([]string{"", aTitle, bTitle})

	for _, m := range matches {
		aLines := strings.Join(formatLineNumbers(a, m.AEntries, multi), "\n")
		bLines := strings.Join(formatLineNumbers(b, m.BEntries, multi), "\n")
		tbl.Append([]string{fmt.Sprintf("%d", m.Size), aLines, bLines})
	}

	tbl.Render()
	return buf.String()
}
