package moss

import "sort"

// SubPair records two overlapping submissions, referenced by stable index
// into the root submissions slice (an arena, per the spec's own resolution
// of the SubPair/Sub reference-cycle problem), along with the fingerprint
// hashes they share and the derived ranking figures.
type SubPair struct {
	A, B       int
	Matches    map[int64]struct{}
	Percentile float64
	APercent   float64
	BPercent   float64
}

type pairKey struct{ a, b int }

// EnumeratePairs derives every candidate submission pair from the inverted
// index, computes each pair's percentile and per-submission match
// percentages, filters by threshold, and returns the pairs ordered by
// percentile descending (ties broken by match count, then by submission
// index), along with the total candidate count before filtering.
func EnumeratePairs(subs []ProcessedSubmission, index HashToSubs, threshold float64) ([]SubPair, int) {
	pairToHashes := make(map[pairKey]map[int64]struct{})

	for hash, idxs := range index {
		if len(idxs) < 2 {
			continue
		}
		for i := 0; i < len(idxs)-1; i++ {
			for j := i + 1; j < len(idxs); j++ {
				key := pairKey{idxs[i], idxs[j]}
				set, ok := pairToHashes[key]
				if !ok {
					set = make(map[int64]struct{})
					pairToHashes[key] = set
				}
				set[hash] = struct{}{}
			}
		}
	}

	totalCandidates := len(pairToHashes)

	maxMatches := 0
	for _, hashes := range pairToHashes {
		if len(hashes) > maxMatches {
			maxMatches = len(hashes)
		}
	}

	var pairs []SubPair
	for key, hashes := range pairToHashes {
		var percentile float64
		if maxMatches > 0 {
			percentile = float64(len(hashes)) / float64(maxMatches)
		}

		pairs = append(pairs, SubPair{
			A:          key.a,
			B:          key.b,
			Matches:    hashes,
			Percentile: percentile,
			APercent:   float64(len(hashes)) / float64(subs[key.a].UniqueHashes()),
			BPercent:   float64(len(hashes)) / float64(subs[key.b].UniqueHashes()),
		})
	}

	var kept []SubPair
	for _, p := range pairs {
		if p.Percentile >= threshold {
			kept = append(kept, p)
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Percentile != kept[j].Percentile {
			return kept[i].Percentile > kept[j].Percentile
		}
		if len(kept[i].Matches) != len(kept[j].Matches) {
			return len(kept[i].Matches) > len(kept[j].Matches)
		}
		if kept[i].A != kept[j].A {
			return kept[i].A < kept[j].A
		}
		return kept[i].B < kept[j].B
	})

	return kept, totalCandidates
}
