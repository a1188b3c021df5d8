package moss

import "testing"

// mkProcessed builds a minimal ProcessedSubmission with one document whose
// fingerprints have the given hashes (line numbers are irrelevant here).
func mkProcessed(hashes ...int64) ProcessedSubmission {
	fps := make([]Fingerprint, len(hashes))
	for i, h := range hashes {
		fps[i] = Fingerprint{Hash: h, Start: i + 1, End: i + 1}
	}
	return ProcessedSubmission{Docs: []ProcessedDoc{{Path: "sub.arr", Fingerprints: fps}}}
}

// TestEnumeratePairsRanking: pairs (S1,S2), (S1,S3), (S2,S3) share hash
// sets of size 3, 2, and 1 respectively, producing percentile 1.0, 2/3,
// and 1/3; a threshold of 0.5 keeps only the first two.
func TestEnumeratePairsRanking(t *testing.T) {
	s1 := mkProcessed(1, 2, 3, 4, 5)
	s2 := mkProcessed(1, 2, 3, 6)
	s3 := mkProcessed(4, 5, 6)
	subs := []ProcessedSubmission{s1, s2, s3}

	index := HashToSubs{
		1: {0, 1}, // shared only by (S1,S2)
		2: {0, 1}, // shared only by (S1,S2)
		3: {0, 1}, // shared only by (S1,S2)
		4: {0, 2}, // shared only by (S1,S3)
		5: {0, 2}, // shared only by (S1,S3)
		6: {1, 2}, // shared only by (S2,S3)
	}

	pairs, total := EnumeratePairs(subs, index, 0.0)
	if total != 3 {
		t.Fatalf("expected 3 candidate pairs (S1,S2) (S1,S3) (S2,S3), got %d", total)
	}
	if len(pairs) != 3 {
		t.Fatalf("expected 3 pairs with threshold 0, got %d", len(pairs))
	}

	find := func(a, b int) *SubPair {
		for i := range pairs {
			if (pairs[i].A == a && pairs[i].B == b) || (pairs[i].A == b && pairs[i].B == a) {
				return &pairs[i]
			}
		}
		return nil
	}

	p12 := find(0, 1)
	p13 := find(0, 2)
	p23 := find(1, 2)
	if p12 == nil || p13 == nil || p23 == nil {
		t.Fatalf("expected all three pairs present: %+v", pairs)
	}

	if p12.Percentile != 1.0 {
		t.Errorf("(S1,S2) percentile = %v, want 1.0", p12.Percentile)
	}
	if got := p13.Percentile; !almostEqual(got, 2.0/3.0) {
		t.Errorf("(S1,S3) percentile = %v, want 2/3", got)
	}
	if got := p23.Percentile; !almostEqual(got, 1.0/3.0) {
		t.Errorf("(S2,S3) percentile = %v, want 1/3", got)
	}

	// Ranking is descending by percentile: (S1,S2) first.
	if pairs[0].A != 0 || pairs[0].B != 1 {
		t.Errorf("expected (S1,S2) ranked first, got pair %+v", pairs[0])
	}

	filtered, _ := EnumeratePairs(subs, index, 0.5)
	if len(filtered) != 2 {
		t.Fatalf("threshold 0.5 should keep (S1,S2) and (S1,S3), got %d pairs: %+v", len(filtered), filtered)
	}
	if filtered[0].A != 0 || filtered[0].B != 1 {
		t.Errorf("expected (S1,S2) ranked first after filtering, got %+v", filtered[0])
	}
	if filtered[1].A != 0 || filtered[1].B != 2 {
		t.Errorf("expected (S1,S3) ranked second after filtering, got %+v", filtered[1])
	}
}

// TestEnumeratePairsPercentInRange is the universal invariant from
// spec.md §8.6: a_percent, b_percent, percentile all land in [0,1].
func TestEnumeratePairsPercentInRange(t *testing.T) {
	s1 := mkProcessed(1, 2, 3, 4)
	s2 := mkProcessed(1, 2)
	subs := []ProcessedSubmission{s1, s2}
	index := HashToSubs{1: {0, 1}, 2: {0, 1}, 3: {0}, 4: {0}}

	pairs, _ := EnumeratePairs(subs, index, 0.0)
	for _, p := range pairs {
		for _, v := range []float64{p.Percentile, p.APercent, p.BPercent} {
			if v < 0.0 || v > 1.0 {
				t.Errorf("pair value %v out of [0,1]: %+v", v, p)
			}
		}
	}
}

func almostEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
