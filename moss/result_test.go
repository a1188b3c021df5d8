package moss

import (
	"strings"
	"testing"
)

// TestSubNameModes checks display-name derivation for both discovery modes.
func TestSubNameModes(t *testing.T) {
	single := &ProcessedSubmission{Docs: []ProcessedDoc{{Path: "/subs/sub1.arr"}}}
	if got := SubName(single, false); got != "sub1.arr" {
		t.Errorf("SubName(single) = %q, want %q", got, "sub1.arr")
	}

	multi := &ProcessedSubmission{DirName: "/subs/student1", Docs: []ProcessedDoc{{Path: "/subs/student1/main.arr"}}}
	if got := SubName(multi, true); got != "student1/" {
		t.Errorf("SubName(multi) = %q, want %q", got, "student1/")
	}
}

// TestFormatLineNumbersCoalescesAndOmitsPrefixInSingleFileMode covers
// scenario F: fingerprints at (11,15),(16,19),(18,22) in one document
// coalesce to a single "lines 11-22" entry, with no filename prefix in
// single-file mode.
func TestFormatLineNumbersCoalescesAndOmitsPrefixInSingleFileMode(t *testing.T) {
	sub := &ProcessedSubmission{Docs: []ProcessedDoc{{Path: "/subs/sub2.arr"}}}
	entries := []Entry{
		{DocIdx: 0, Start: 11, End: 15},
		{DocIdx: 0, Start: 16, End: 19},
		{DocIdx: 0, Start: 18, End: 22},
	}

	got := formatLineNumbers(sub, entries, false)
	if len(got) != 1 {
		t.Fatalf("expected a single coalesced entry, got %v", got)
	}
	if got[0] != "lines 11-22" {
		t.Errorf("formatLineNumbers = %q, want %q", got[0], "lines 11-22")
	}
	if strings.Contains(got[0], "sub2.arr") {
		t.Errorf("single-file mode must not prefix the filename: %q", got[0])
	}
}

// TestFormatLineNumbersSingleLineSingular checks the "line N" (singular)
// rendering for a one-line entry, as distinct from "lines A-B".
func TestFormatLineNumbersSingleLineSingular(t *testing.T) {
	sub := &ProcessedSubmission{Docs: []ProcessedDoc{{Path: "/subs/sub1.arr"}}}
	entries := []Entry{{DocIdx: 0, Start: 7, End: 7}}

	got := formatLineNumbers(sub, entries, false)
	if len(got) != 1 || got[0] != "line 7" {
		t.Errorf("formatLineNumbers = %v, want [%q]", got, "line 7")
	}
}

// TestFormatLineNumbersMultiFilePrefixesFilename checks that multi-file mode
// prefixes each document's ranges with its basename, and that ranges across
// two separate documents are not merged together.
func TestFormatLineNumbersMultiFilePrefixesFilename(t *testing.T) {
	sub := &ProcessedSubmission{
		DirName: "/subs/student1",
		Docs: []ProcessedDoc{
			{Path: "/subs/student1/main.arr"},
			{Path: "/subs/student1/helper.arr"},
		},
	}
	entries := []Entry{
		{DocIdx: 0, Start: 3, End: 5},
		{DocIdx: 1, Start: 10, End: 10},
	}

	got := formatLineNumbers(sub, entries, true)
	if len(got) != 2 {
		t.Fatalf("expected one formatted entry per document, got %v", got)
	}
	if got[0] != "main.arr lines 3-5" {
		t.Errorf("doc 0 formatted as %q, want %q", got[0], "main.arr lines 3-5")
	}
	if got[1] != "helper.arr line 10" {
		t.Errorf("doc 1 formatted as %q, want %q", got[1], "helper.arr line 10")
	}
}

// TestPairTableRendersOneRowPerMatch covers scenario F's table shape: three
// matches produce a three-row table with the submission names and
// percentages in the header.
func TestPairTableRendersOneRowPerMatch(t *testing.T) {
	a := &ProcessedSubmission{Docs: []ProcessedDoc{{Path: "/subs/sub1.arr"}}}
	b := &ProcessedSubmission{Docs: []ProcessedDoc{{Path: "/subs/sub2.arr"}}}

	pair := &SubPair{A: 0, B: 1, APercent: 0.5, BPercent: 0.75, Percentile: 1.0,
		Matches: map[int64]struct{}{12: {}, 17: {}, 28: {}}}

	matches := []Match{
		{Size: 3, Hashes: []int64{12, 13, 14}, AEntries: []Entry{{DocIdx: 0, Start: 1, End: 3}}, BEntries: []Entry{{DocIdx: 0, Start: 1, End: 3}}},
		{Size: 2, Hashes: []int64{17, 18}, AEntries: []Entry{{DocIdx: 0, Start: 5, End: 6}}, BEntries: []Entry{{DocIdx: 0, Start: 5, End: 6}}},
		{Size: 1, Hashes: []int64{28}, AEntries: []Entry{{DocIdx: 0, Start: 8, End: 8}}, BEntries: []Entry{{DocIdx: 0, Start: 8, End: 8}}},
	}

	out := PairTable(pair, matches, a, b, SubName(a, false), SubName(b, false), false)

	if !strings.Contains(out, "sub1.arr") || !strings.Contains(out, "sub2.arr") {
		t.Errorf("table header should name both submissions, got:\n%s", out)
	}
	for _, want := range []string{"lines 1-3", "lines 5-6", "line 8"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected table to contain %q, got:\n%s", want, out)
		}
	}

	// The leftmost column carries each Match's size, not a row counter.
	rows := []struct {
		size  string
		lines string
	}{
		{"3", "lines 1-3"},
		{"2", "lines 5-6"},
		{"1", "line 8"},
	}
	for _, row := range rows {
		found := false
		for _, line := range strings.Split(out, "\n") {
			if strings.Contains(line, row.lines) && strings.Contains(line, " "+row.size+" ") {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected the row with %q to show size %s in its first column, got:\n%s", row.lines, row.size, out)
		}
	}
}
