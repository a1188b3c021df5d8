// Package moss implements a MOSS-style copy detector for Pyret (.arr)
// source submissions: lexical normalization, winnowing fingerprinting,
// and pairwise substring analysis over the resulting fingerprint streams.
package moss

import "fmt"

// NormText is the output of the normalizer: a semantic-only rendering of a
// source file alongside a mapping from normalized-text position back to the
// original line it came from.
type NormText struct {
	Value    []rune
	LineEnds []int
}

// LineNumber returns the 1-indexed original source line containing the
// character at norm_idx, the smallest i+1 such that LineEnds[i] > norm_idx.
func (n *NormText) LineNumber(idx int) int {
	for i, end := range n.LineEnds {
		if end > idx {
			return i + 1
		}
	}
	panic(fmt.Sprintf("moss: normalized index %d has no enclosing line in LineEnds %v", idx, n.LineEnds))
}

// Fingerprint is one winnowing-selected (hash, position) pair, resolved to
// the original-source line range it spans.
type Fingerprint struct {
	Hash  int64
	Start int // 1-indexed original line, inclusive
	End   int // 1-indexed original line, inclusive
}

// UnprocessedDoc is a discovered source file awaiting normalization and
// fingerprinting.
type UnprocessedDoc struct {
	Path string
}

// ProcessedDoc is a source file that has been normalized and fingerprinted.
// Fingerprints preserve left-to-right winnowing selection order.
type ProcessedDoc struct {
	Path         string
	Fingerprints []Fingerprint
}

// Submission is a discovered, not-yet-analyzed unit of authorship: either a
// single .arr file (DirName == "") or a directory of .arr files.
type Submission struct {
	DirName string
	Docs    []UnprocessedDoc
}

// IsMulti reports whether this submission is a multi-file (directory-backed)
// submission rather than a single loose .arr file.
func (s *Submission) IsMulti() bool {
	return s.DirName != ""
}

// ProcessedSubmission is a Submission whose documents have all been
// normalized and fingerprinted exactly once. Constructed strictly from a
// Submission by the index builder; never mutated afterward.
type ProcessedSubmission struct {
	DirName string
	Docs    []ProcessedDoc
}

// IsMulti reports whether this submission is a multi-file submission.
func (s *ProcessedSubmission) IsMulti() bool {
	return s.DirName != ""
}

// UniqueHashes returns the count of distinct fingerprint hashes across all
// of this submission's documents.
func (s *ProcessedSubmission) UniqueHashes() int {
	seen := make(map[int64]struct{})
	for _, doc := range s.Docs {
		for _, fp := range doc.Fingerprints {
			seen[fp.Hash] = struct{}{}
		}
	}
	return len(seen)
}
