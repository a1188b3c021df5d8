package moss

import (
	"unicode"

	"golang.org/x/text/cases"
)

const (
	hashBase  int64 = 256
	primeMod  int64 = 2147483647
)

var foldCaser = cases.Fold()

// foldRune lowercases a single rune the way the hash function requires,
// using golang.org/x/text's Unicode case folding rather than a byte-wise
// ASCII lowercasing so multi-byte letters fold correctly too.
func foldRune(r rune) rune {
	if r < utf8RuneSelf {
		return unicode.ToLower(r)
	}
	folded := []rune(foldCaser.String(string(r)))
	if len(folded) == 0 {
		return r
	}
	return folded[0]
}

const utf8RuneSelf = 0x80

// modExp computes base^exponent mod modulus by repeated squaring, matching
// the reference implementation's treatment of modulus == 1 (returns 0).
func modExp(base, exponent, modulus int64) int64 {
	if modulus == 1 {
		return 0
	}

	result := int64(1)
	base = base % modulus
	for exponent > 0 {
		if exponent%2 == 1 {
			result = (result * base) % modulus
		}
		exponent /= 2
		base = (base * base) % modulus
	}
	return result
}

// hash computes the naive base-256 polynomial hash of a k-gram modulo
// primeMod, case-folding each rune first.
func hash(kgram []rune) int64 {
	n := len(kgram)
	var hv int64
	for i, r := range kgram {
		c := int64(foldRune(r))
		hv = (hv + (c*modExp(hashBase, int64(n-i-1), primeMod))%primeMod) % primeMod
	}
	return hv
}

// rollingHash computes the hash of every k-gram in kgrams, using the first
// k-gram's naive hash and a rolling update for every subsequent one.
func rollingHash(kgrams [][]rune) []int64 {
	if len(kgrams) == 0 {
		return nil
	}

	hashes := make([]int64, len(kgrams))
	hashes[0] = hash(kgrams[0])

	strLen := int64(len(kgrams[0]))
	prevFirstChar := int64(foldRune(kgrams[0][0]))

	for i := 1; i < len(kgrams); i++ {
		kgram := kgrams[i]
		prevHash := hashes[i-1]

		prevFirstComponent := (prevFirstChar * modExp(hashBase, strLen-1, primeMod)) % primeMod
		curLastChar := int64(foldRune(kgram[len(kgram)-1]))

		hashes[i] = ((prevHash+primeMod-prevFirstComponent)*hashBase + curLastChar) % primeMod

		prevFirstChar = int64(foldRune(kgram[0]))
	}

	return hashes
}

// hashedPos pairs a hash value with its position in the hash sequence.
type hashedPos struct {
	hash int64
	idx  int
}

// robustWinnow selects one position per window of windowSize consecutive
// hashes, choosing the rightmost minimum and reusing the previous selection
// whenever it remains a minimum of the current window.
func robustWinnow(hashes []int64, windowSize int) []hashedPos {
	if len(hashes) == 0 {
		return nil
	}

	if windowSize > len(hashes) {
		// entire sequence is a single window: emit the rightmost minimum.
		best := hashedPos{hash: hashes[0], idx: 0}
		for i := 1; i < len(hashes); i++ {
			if hashes[i] <= best.hash {
				best = hashedPos{hash: hashes[i], idx: i}
			}
		}
		return []hashedPos{best}
	}

	var selected []hashedPos
	var prev *hashedPos

	for start := 0; start+windowSize <= len(hashes); start++ {
		var curMins []hashedPos
		for i := start; i < start+windowSize; i++ {
			if len(curMins) == 0 || hashes[i] < curMins[0].hash {
				curMins = []hashedPos{{hash: hashes[i], idx: i}}
			} else if hashes[i] == curMins[0].hash {
				curMins = append(curMins, hashedPos{hash: hashes[i], idx: i})
			}
		}

		rightmost := curMins[len(curMins)-1]

		if prev == nil {
			selected = append(selected, rightmost)
			prevCopy := rightmost
			prev = &prevCopy
			continue
		}

		stillPresent := false
		for _, m := range curMins {
			if m.idx == prev.idx && m.hash == prev.hash {
				stillPresent = true
				break
			}
		}

		if !stillPresent {
			selected = append(selected, rightmost)
			prevCopy := rightmost
			prev = &prevCopy
		}
	}

	return selected
}

// kgrams splits value into every contiguous run of exactly k runes.
func kgrams(value []rune, k int) [][]rune {
	if len(value) < k {
		return nil
	}
	out := make([][]rune, 0, len(value)-k+1)
	for i := 0; i+k <= len(value); i++ {
		out = append(out, value[i:i+k])
	}
	return out
}

// FingerprintText extracts the document's fingerprints: k-grams are hashed with
// a rolling polynomial hash, then robust winnowing with window w = t-k+1
// selects the reported positions, which are resolved to original source
// line ranges via norm's line mapping.
func FingerprintText(norm *NormText, k, t int) []Fingerprint {
	if len(norm.Value) <= k {
		return nil
	}

	grams := kgrams(norm.Value, k)
	hashes := rollingHash(grams)

	w := t - k + 1
	selected := robustWinnow(hashes, w)

	fps := make([]Fingerprint, 0, len(selected))
	for _, sel := range selected {
		fps = append(fps, Fingerprint{
			Hash:  sel.hash,
			Start: norm.LineNumber(sel.idx),
			End:   norm.LineNumber(sel.idx + k - 1),
		})
	}
	return fps
}
