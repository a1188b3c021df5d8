package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"arrmoss/moss"
)

func main() {
	args := os.Args[1:]

	opts, help, ferr := ParseArgs(args)
	if help {
		printHelp(os.Args[0])
		os.Exit(0)
	}
	if ferr != nil {
		fail(ferr)
	}

	var diagOut io.Writer
	if opts.Verbose {
		diagOut = os.Stderr
		moss.PrintStats(diagOut)
	}

	subs, ferr := moss.DiscoverSubmissions(opts.SubDir, !opts.SingleFileMode, opts.IgnoreFiles)
	if ferr != nil {
		fail(ferr)
	}

	var ignore map[int64]struct{}
	if opts.IgnoreContentDir != "" {
		ignore, ferr = moss.BuildIgnoreSet(opts.IgnoreContentDir, opts.K, opts.T)
		if ferr != nil {
			fail(ferr)
		}
	}

	processed, index, ferr := moss.AnalyzeSubmissions(subs, ignore, opts.K, opts.T, diagOut)
	if ferr != nil {
		fail(ferr)
	}

	pairs, totalCandidates := moss.EnumeratePairs(processed, index, opts.MatchThreshold)

	out := os.Stdout
	if opts.OutFile != "" {
		f, err := os.Create(opts.OutFile)
		if err != nil {
			fail(moss.IOErrorf("failed to create output file `%s`: %s", opts.OutFile, err))
		}
		defer f.Close()
		out = f
		// reports written to a file carry no escape sequences and never
		// pause for input.
		color.NoColor = true
		opts.NoPauses = true
	}

	renderResults(pairs, totalCandidates, processed, !opts.SingleFileMode, opts.MatchThreshold, opts.NoPauses, out)

	if opts.Verbose {
		moss.PrintMemory(os.Stderr)
	}
}

// renderResults prints a summary of every reported pair to out, pausing for
// confirmation between pairs unless noPauses (which main sets when -o names
// an output file).
func renderResults(pairs []moss.SubPair, totalCandidates int, subs []moss.ProcessedSubmission, multi bool, threshold float64, noPauses bool, out *os.File) {
	if len(pairs) == 0 {
		fmt.Fprintln(out, "\n"+color.New(color.FgCyan, color.Bold).Sprint("Aye, no overlap was found!"))
		return
	}

	fmt.Fprintln(out, "\n"+color.New(color.FgGreen, color.Bold).Sprint("Avast ye, there be submission overlap!"))

	if threshold > 0.0 {
		fmt.Fprintf(out, "Rendering pairs at least %.2f%% of max matches: %d kept out of %d total\n",
			threshold*100.0, len(pairs), totalCandidates)
	} else {
		fmt.Fprintf(out, "Rendering all submission pairs (%d total)\n", len(pairs))
	}

	stdinReader := bufio.NewReader(os.Stdin)

	for i, pair := range pairs {
		if !noPauses && i > 0 {
			msg := color.New(color.FgYellow, color.Bold).Sprintf("Pausing at %d / %d pairs rendered.", i, len(pairs))
			fmt.Fprintf(out, "\n%s\n", msg)
			fmt.Fprint(out, "Press enter to continue...")
			stdinReader.ReadString('\n')
		}

		a := &subs[pair.A]
		b := &subs[pair.B]
		aName := moss.SubName(a, multi)
		bName := moss.SubName(b, multi)

		fmt.Fprintf(out, "\nPair %d: %s and %s: %s (%.2f%% of max)\n",
			i+1,
			color.New(color.FgWhite, color.Bold).Sprint(aName),
			color.New(color.FgWhite, color.Bold).Sprint(bName),
			color.New(color.FgGreen, color.Bold).Sprintf("%d matches", len(pair.Matches)),
			pair.Percentile*100.0)

		matches, ferr := moss.AnalyzePair(a, b)
		if ferr != nil {
			fail(ferr)
		}

		fmt.Fprint(out, moss.PairTable(&pair, matches, a, b, aName, bName, multi))
	}
}

func fail(err *moss.MossError) {
	fmt.Fprintf(os.Stderr, "\nERROR: %s\n", err.Error())
	os.Exit(1)
}
