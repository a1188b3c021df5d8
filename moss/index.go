package moss

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const arrExt = ".arr"

// DiscoverSubmissions walks root and builds the Submission list according to
// multi (directory-per-submission) or single-file (file-per-submission)
// mode. Results are sorted lexicographically by path immediately after
// discovery so that downstream pairing and reporting are invariant under
// filesystem enumeration order.
func DiscoverSubmissions(root string, multi bool, ignoreFiles map[string]bool) ([]Submission, *MossError) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, IOErrorf("submission root `%s` is not a directory", root)
	}

	var subs []Submission

	if multi {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, IOErrorf("failed to read submission root `%s`: %s", root, err)
		}
		var dirNames []string
		for _, e := range entries {
			if e.IsDir() {
				dirNames = append(dirNames, e.Name())
			}
		}
		sort.Strings(dirNames)

		for _, name := range dirNames {
			dirPath := filepath.Join(root, name)
			files, ferr := arrFilesInDir(dirPath)
			if ferr != nil {
				return nil, ferr
			}

			var docs []UnprocessedDoc
			for _, f := range files {
				if ignoreFiles != nil && ignoreFiles[filepath.Base(f)] {
					continue
				}
				docs = append(docs, UnprocessedDoc{Path: f})
			}

			if len(docs) == 0 {
				return nil, IOErrorf("submission directory `%s` has no (non-ignored) .arr files", dirPath)
			}

			subs = append(subs, Submission{DirName: dirPath, Docs: docs})
		}
	} else {
		files, ferr := arrFilesInDir(root)
		if ferr != nil {
			return nil, ferr
		}
		for _, f := range files {
			subs = append(subs, Submission{DirName: "", Docs: []UnprocessedDoc{{Path: f}}})
		}
	}

	if len(subs) == 0 {
		return nil, IOErrorf("no submissions found under `%s`", root)
	}

	sort.Slice(subs, func(i, j int) bool {
		return subKey(subs[i]) < subKey(subs[j])
	})

	return subs, nil
}

func subKey(s Submission) string {
	if s.DirName != "" {
		return s.DirName
	}
	if len(s.Docs) > 0 {
		return s.Docs[0].Path
	}
	return ""
}

// arrFilesInDir lists every .arr file directly within dir, sorted by name.
func arrFilesInDir(dir string) ([]string, *MossError) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, IOErrorf("failed to read directory `%s`: %s", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), arrExt) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// analyzeFile reads, normalizes, and fingerprints a single source file.
func analyzeFile(path string, k, t int) ([]Fingerprint, *MossError) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, IOErrorf("failed to read file `%s`: %s", path, err)
	}

	norm := Normalize(string(contents))
	return FingerprintText(norm, k, t), nil
}

// BuildIgnoreSet reads every .arr file in ignoreDir, fingerprints it with
// the given parameters, and unions all resulting hashes into a set to be
// stripped from submission content before indexing.
func BuildIgnoreSet(ignoreDir string, k, t int) (map[int64]struct{}, *MossError) {
	files, ferr := arrFilesInDir(ignoreDir)
	if ferr != nil {
		return nil, ferr
	}
	if len(files) == 0 {
		return nil, IOErrorf("no .arr files to ignore in `%s`", ignoreDir)
	}

	ignore := make(map[int64]struct{})
	for _, f := range files {
		fps, ferr := analyzeFile(f, k, t)
		if ferr != nil {
			return nil, ferr
		}
		for _, fp := range fps {
			ignore[fp.Hash] = struct{}{}
		}
	}
	return ignore, nil
}

// HashToSubs maps a fingerprint hash to the set (as sorted submission
// indices into the root slice) of submissions containing it.
type HashToSubs map[int64][]int

// AnalyzeSubmissions normalizes and fingerprints every document of every
// submission, strips any hash present in ignore, and builds the inverted
// index from fingerprint hash to the submissions that contain it. verbose
// diagnostics are written to diagOut when non-nil.
func AnalyzeSubmissions(subs []Submission, ignore map[int64]struct{}, k, t int, diagOut io.Writer) ([]ProcessedSubmission, HashToSubs, *MossError) {
	processed := make([]ProcessedSubmission, len(subs))
	hashSets := make(map[int64]map[int]struct{})

	if diagOut != nil {
		fmt.Fprintln(diagOut, "Analyzing all submission content...")
	}

	for si, sub := range subs {
		if diagOut != nil {
			fmt.Fprintf(diagOut, "\tprocessing %s\n", subKey(sub))
		}

		subFps := make(map[int64]struct{})
		docs := make([]ProcessedDoc, len(sub.Docs))

		for di, doc := range sub.Docs {
			fps, ferr := analyzeFile(doc.Path, k, t)
			if ferr != nil {
				return nil, nil, ferr
			}

			origCount := len(fps)

			if ignore != nil {
				kept := fps[:0:0]
				for _, fp := range fps {
					if _, skip := ignore[fp.Hash]; !skip {
						kept = append(kept, fp)
					}
				}
				fps = kept
			}

			if diagOut != nil {
				fmt.Fprintf(diagOut, "\t\tanalyzing %s: %d fingerprints (%d ignored)\n",
					filepath.Base(doc.Path), len(fps), origCount-len(fps))
			}

			for _, fp := range fps {
				subFps[fp.Hash] = struct{}{}
			}

			docs[di] = ProcessedDoc{Path: doc.Path, Fingerprints: fps}
		}

		processed[si] = ProcessedSubmission{DirName: sub.DirName, Docs: docs}

		for h := range subFps {
			set, ok := hashSets[h]
			if !ok {
				set = make(map[int]struct{})
				hashSets[h] = set
			}
			set[si] = struct{}{}
		}
	}

	index := make(HashToSubs, len(hashSets))
	for h, set := range hashSets {
		idxs := make([]int, 0, len(set))
		for i := range set {
			idxs = append(idxs, i)
		}
		sort.Ints(idxs)
		index[h] = idxs
	}

	return processed, index, nil
}
