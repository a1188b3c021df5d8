package moss

import (
	"sort"
	"strconv"
	"strings"
)

// Entry references a line range within one document of one submission in a
// pair under analysis.
type Entry struct {
	DocIdx int
	Start  int
	End    int
}

// Match is a maximal shared run of fingerprint hashes between the two
// submissions of a pair, with every place it occurs on each side.
type Match struct {
	Size     int
	Hashes   []int64
	AEntries []Entry
	BEntries []Entry
}

// fpSlot is one position in a flattened document sequence: either a
// Fingerprint, or nil to mark a document boundary (which breaks substring
// continuity, the same way a separator breaks the DP recurrence below).
type fpSlot struct {
	fp *Fingerprint
}

// flattenDocs lays out every fingerprint across all of a submission's
// documents into a single sequence, with a boundary slot preceding each
// document (including the first).
func flattenDocs(docs []ProcessedDoc) []fpSlot {
	var flat []fpSlot
	for _, doc := range docs {
		flat = append(flat, fpSlot{nil})
		for i := range doc.Fingerprints {
			fp := doc.Fingerprints[i]
			flat = append(flat, fpSlot{fp: &fp})
		}
	}
	return flat
}

// substrTable builds the longest-common-substring DP table over two
// flattened fingerprint sequences: T[r][c] is 0 at a boundary or hash
// mismatch, otherwise T[r-1][c-1]+1.
func substrTable(rows, cols []fpSlot) [][]int {
	table := make([][]int, len(rows))
	for r := range rows {
		table[r] = make([]int, len(cols))
		for c := range cols {
			if rows[r].fp != nil && cols[c].fp != nil && rows[r].fp.Hash == cols[c].fp.Hash {
				diag := 0
				if r > 0 && c > 0 {
					diag = table[r-1][c-1]
				}
				table[r][c] = diag + 1
			}
		}
	}
	return table
}

// subString is a shared run of fingerprint hashes located at a specific
// diagonal of the DP table. startR/startC record the diagonal's starting
// cell, needed to break selection ties by rightmost starting column/row.
type subString struct {
	size   int
	hashes []int64
	aEntry Entry
	bEntry Entry
	startR int
	startC int
}

// traceDiagonal follows the DP table down-right from a cell with value 1
// (the start of a common substring) until it runs off the table or hits a
// zero cell, assembling the SubString that diagonal represents. Tracing a
// cell whose value isn't 1 is a programming error in the caller.
func traceDiagonal(table [][]int, rows, cols []fpSlot, r, c, aDocIdx, bDocIdx int) (*subString, *MossError) {
	if table[r][c] != 1 {
		return nil, InvariantErrorf("traceDiagonal called on cell (%d,%d) with value %d, expected 1", r, c, table[r][c])
	}

	startR, startC := r, c
	var hashes []int64
	var aStart, aEnd, bStart, bEnd int
	have := false

	for r < len(rows) && c < len(cols) && table[r][c] != 0 {
		aFp := rows[r].fp
		bFp := cols[c].fp

		hashes = append(hashes, aFp.Hash)

		if !have {
			aStart, aEnd = aFp.Start, aFp.End
			bStart, bEnd = bFp.Start, bFp.End
			have = true
		} else {
			if aFp.Start < aStart {
				aStart = aFp.Start
			}
			if aFp.End > aEnd {
				aEnd = aFp.End
			}
			if bFp.Start < bStart {
				bStart = bFp.Start
			}
			if bFp.End > bEnd {
				bEnd = bFp.End
			}
		}

		r++
		c++
	}

	return &subString{
		size:   len(hashes),
		hashes: hashes,
		aEntry: Entry{DocIdx: aDocIdx, Start: aStart, End: aEnd},
		bEntry: Entry{DocIdx: bDocIdx, Start: bStart, End: bEnd},
		startR: startR,
		startC: startC,
	}, nil
}

// chooseSubstrs finds every candidate substring (by tracing every DP cell
// that starts one), then selects, for every row and then every column, a
// maximal substring covering it -- preferring one already chosen -- so that
// every shared fingerprint position is covered by at least one chosen
// SubString (the coverage property).
func chooseSubstrs(rows, cols []fpSlot, table [][]int) ([]subString, *MossError) {
	var allSubstrs []subString
	rowToSubstrs := make(map[int][]int)
	colToSubstrs := make(map[int][]int)

	aDocIdx := 0
	for r := range rows {
		if rows[r].fp == nil && r > 0 {
			aDocIdx++
			continue
		}

		bDocIdx := 0
		for c := range cols {
			if cols[c].fp == nil && c > 0 {
				bDocIdx++
				continue
			}

			if table[r][c] == 0 || table[r][c] > 1 {
				continue
			}

			ss, ferr := traceDiagonal(table, rows, cols, r, c, aDocIdx, bDocIdx)
			if ferr != nil {
				return nil, ferr
			}

			allSubstrs = append(allSubstrs, *ss)
			newIdx := len(allSubstrs) - 1

			for rowIdx := r; rowIdx < r+ss.size; rowIdx++ {
				rowToSubstrs[rowIdx] = append(rowToSubstrs[rowIdx], newIdx)
			}
			for colIdx := c; colIdx < c+ss.size; colIdx++ {
				colToSubstrs[colIdx] = append(colToSubstrs[colIdx], newIdx)
			}
		}
	}

	chosenForRows := chooseForDim(rowToSubstrs, allSubstrs, map[int]bool{}, func(ss subString) int { return ss.startC })
	chosenForCols := chooseForDim(colToSubstrs, allSubstrs, chosenForRows, func(ss subString) int { return ss.startR })

	union := make(map[int]bool, len(chosenForRows)+len(chosenForCols))
	for i := range chosenForRows {
		union[i] = true
	}
	for i := range chosenForCols {
		union[i] = true
	}

	idxs := make([]int, 0, len(union))
	for i := range union {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)

	result := make([]subString, 0, len(idxs))
	for _, i := range idxs {
		result = append(result, allSubstrs[i])
	}
	return result, nil
}

// chooseForDim picks, for each position along one dimension (row or
// column), the longest substring covering it. Ties are broken, in order, by
// preferring a SubString already chosen (this dimension or a prior pass, to
// keep the chosen set idempotent across the two selection passes), then by
// the rightmost starting column/row (per secondaryAxis), then by
// lexicographically-least hash vector.
func chooseForDim(dimToSubstrs map[int][]int, allSubstrs []subString, chosen map[int]bool, secondaryAxis func(subString) int) map[int]bool {
	chosenThisDim := make(map[int]bool)

	keys := make([]int, 0, len(dimToSubstrs))
	for k := range dimToSubstrs {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	for _, key := range keys {
		idxs := dimToSubstrs[key]

		haveMax := false
		maxIdx := -1

		for _, idx := range idxs {
			if !haveMax {
				maxIdx, haveMax = idx, true
				continue
			}
			if substrBetter(allSubstrs, chosen, chosenThisDim, idx, maxIdx, secondaryAxis) {
				maxIdx = idx
			}
		}

		if haveMax && !(chosen[maxIdx] || chosenThisDim[maxIdx]) {
			chosenThisDim[maxIdx] = true
		}
	}

	return chosenThisDim
}

// substrBetter reports whether candidate should be preferred over current as
// the representative SubString for a row/column: larger size wins; ties
// prefer an already-chosen SubString; further ties prefer the rightmost
// starting column/row; final ties prefer the lexicographically-least hash
// vector (for reproducibility when neither is chosen).
func substrBetter(all []subString, chosen, chosenThisDim map[int]bool, candidate, current int, secondaryAxis func(subString) int) bool {
	cand, cur := all[candidate], all[current]

	if cand.size != cur.size {
		return cand.size > cur.size
	}

	candChosen := chosen[candidate] || chosenThisDim[candidate]
	curChosen := chosen[current] || chosenThisDim[current]
	if candChosen != curChosen {
		return candChosen
	}

	if ca, cb := secondaryAxis(cand), secondaryAxis(cur); ca != cb {
		return ca > cb
	}

	return hashVectorLess(cand.hashes, cur.hashes)
}

// hashVectorLess reports whether a sorts strictly before b in the
// lexicographic order over hash sequences.
func hashVectorLess(a, b []int64) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// hashVectorKey renders a hash sequence into a map key for grouping
// SubStrings that share the same hash vector into one Match.
func hashVectorKey(hashes []int64) string {
	parts := make([]string, len(hashes))
	for i, h := range hashes {
		parts[i] = strconv.FormatInt(h, 10)
	}
	return strings.Join(parts, ",")
}

func entryIn(entries []Entry, e Entry) bool {
	for _, existing := range entries {
		if existing == e {
			return true
		}
	}
	return false
}

// assembleMatches groups chosen SubStrings by shared hash vector into
// Matches, ordering the result by size descending then by total entry
// count descending.
func assembleMatches(chosen []subString) []Match {
	groups := make(map[string]*Match)
	var order []string

	for _, ss := range chosen {
		key := hashVectorKey(ss.hashes)
		m, ok := groups[key]
		if !ok {
			m = &Match{Size: ss.size, Hashes: ss.hashes}
			groups[key] = m
			order = append(order, key)
		}
		if !entryIn(m.AEntries, ss.aEntry) {
			m.AEntries = append(m.AEntries, ss.aEntry)
		}
		if !entryIn(m.BEntries, ss.bEntry) {
			m.BEntries = append(m.BEntries, ss.bEntry)
		}
	}

	matches := make([]Match, 0, len(order))
	for _, key := range order {
		matches = append(matches, *groups[key])
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Size != matches[j].Size {
			return matches[i].Size > matches[j].Size
		}
		ei := len(matches[i].AEntries) + len(matches[i].BEntries)
		ej := len(matches[j].AEntries) + len(matches[j].BEntries)
		return ei > ej
	})

	return matches
}

// AnalyzePair converts a pair's shared fingerprints into the ranked list of
// maximal shared substrings reported as Matches, guaranteeing that every
// shared fingerprint is covered by at least one.
func AnalyzePair(a, b *ProcessedSubmission) ([]Match, *MossError) {
	rows := flattenDocs(a.Docs)
	cols := flattenDocs(b.Docs)

	table := substrTable(rows, cols)

	chosen, ferr := chooseSubstrs(rows, cols, table)
	if ferr != nil {
		return nil, ferr
	}

	return assembleMatches(chosen), nil
}
