package moss

import "testing"

// TestModExp covers scenario C: modular exponentiation spot checks.
func TestModExp(t *testing.T) {
	cases := []struct {
		base, exp, mod int64
		want           int64
	}{
		{3, 4, 82, 81},
		{2, 5, 32, 0},
		{19, 7, 123, 112},
	}
	for _, c := range cases {
		if got := modExp(c.base, c.exp, c.mod); got != c.want {
			t.Errorf("modExp(%d, %d, %d) = %d, want %d", c.base, c.exp, c.mod, got, c.want)
		}
	}
}

// TestRollingHashMatchesNaive is the universal invariant from spec.md §8.3:
// the rolling hash at every position must exactly equal the naive hash of
// the same k-gram, not merely an equivalent value modulo remapping.
func TestRollingHashMatchesNaive(t *testing.T) {
	text := []rune("the quick brown fox jumps over the lazy dog again and again")
	const k = 5

	grams := kgrams(text, k)
	rolling := rollingHash(grams)

	for i, g := range grams {
		naive := hash(g)
		if rolling[i] != naive {
			t.Fatalf("rolling hash at %d = %d, naive hash = %d (k-gram %q)", i, rolling[i], naive, string(g))
		}
	}
}

// TestRobustWinnowCanonicalExample covers scenario B, the Schleimer/
// Wilkerson/Aiken paper's own winnowing walkthrough.
func TestRobustWinnowCanonicalExample(t *testing.T) {
	hashes := []int64{77, 74, 42, 17, 98, 50, 17, 98, 8, 88, 67, 39, 77, 74, 42, 17, 98}
	const window = 4

	want := []hashedPos{
		{17, 3}, {17, 6}, {8, 8}, {39, 11}, {17, 15},
	}

	got := robustWinnow(hashes, window)

	if len(got) != len(want) {
		t.Fatalf("robustWinnow selected %d positions %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("selection[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

// TestRobustWinnowSingleOversizedWindow covers the edge case where the
// window is larger than the whole hash sequence: the entire sequence acts
// as one window and the rightmost minimum is emitted.
func TestRobustWinnowSingleOversizedWindow(t *testing.T) {
	hashes := []int64{9, 3, 3, 7}
	got := robustWinnow(hashes, 10)
	want := []hashedPos{{3, 2}}
	if len(got) != 1 || got[0] != want[0] {
		t.Fatalf("robustWinnow(oversized window) = %v, want %v", got, want)
	}
}

// TestRobustWinnowDensity is the winnowing density guarantee from spec.md
// §8.4: every window of w consecutive hash positions contains at least one
// selected position.
func TestRobustWinnowDensity(t *testing.T) {
	norm := Normalize(`fun sum(lst :: List<Number>) -> Number:
  cases (List) lst:
    | empty => 0
    | link(f, r) => f + sum(r)
  end
end`)
	const k, w = 5, 4

	grams := kgrams(norm.Value, k)
	hashes := rollingHash(grams)
	if len(hashes) < w {
		t.Fatalf("test document too short: %d hashes", len(hashes))
	}

	selected := make(map[int]bool)
	for _, sel := range robustWinnow(hashes, w) {
		selected[sel.idx] = true
	}

	for start := 0; start+w <= len(hashes); start++ {
		found := false
		for i := start; i < start+w; i++ {
			if selected[i] {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("window [%d, %d) contains no selected position", start, start+w)
		}
	}
}

// TestFingerprintTextShortDocument checks that documents no longer than k
// produce no fingerprints at all.
func TestFingerprintTextShortDocument(t *testing.T) {
	norm := Normalize("v")
	fps := FingerprintText(norm, 5, 8)
	if fps != nil {
		t.Fatalf("expected no fingerprints for a document shorter than k, got %v", fps)
	}
}

// TestFingerprintInvariants is the universal invariant from spec.md §8.2:
// every produced Fingerprint has 0 <= hash < PRIME and 1 <= start <= end.
func TestFingerprintInvariants(t *testing.T) {
	norm := Normalize(`fun fact(n :: Number) -> Number:
  if n == 0: 1
  else: n * fact(n - 1)
  end
end`)
	fps := FingerprintText(norm, 5, 8)
	if len(fps) == 0 {
		t.Fatal("expected at least one fingerprint")
	}
	for _, fp := range fps {
		if fp.Hash < 0 || fp.Hash >= primeMod {
			t.Errorf("fingerprint hash %d out of [0, PRIME)", fp.Hash)
		}
		if fp.Start < 1 || fp.Start > fp.End {
			t.Errorf("fingerprint line range (%d, %d) invalid", fp.Start, fp.End)
		}
	}
}

// TestFingerprintTextDeterministic runs extraction twice on the same
// normalized text and checks the resulting sequences are identical, per the
// round-trip property in spec.md §8.
func TestFingerprintTextDeterministic(t *testing.T) {
	norm := Normalize(`fun square(n :: Number) -> Number: n * n end`)
	a := FingerprintText(norm, 3, 5)
	b := FingerprintText(norm, 3, 5)

	if len(a) != len(b) {
		t.Fatalf("fingerprint counts differ across runs: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("fingerprint %d differs across runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
