package main

import (
	"fmt"
	"strconv"
	"strings"

	"arrmoss/moss"
)

// Options holds every system parameter settable from the command line, with
// the same defaults as a bare invocation against a submission directory.
type Options struct {
	SubDir           string
	SingleFileMode   bool
	K                int
	T                int
	MatchThreshold   float64
	IgnoreContentDir string
	IgnoreFiles      map[string]bool
	OutFile          string
	Verbose          bool
	NoPauses         bool
}

func defaultOptions() Options {
	return Options{
		K: 15,
		T: 20,
	}
}

// ParseArgs parses a program's argument vector (excluding argv[0]) into
// Options. help reports whether -h/--help was seen, in which case the
// returned Options is not meaningful and the caller should print usage and
// exit 0 without further validation.
func ParseArgs(args []string) (opts Options, help bool, err *moss.MossError) {
	opts = defaultOptions()

	if len(args) == 0 {
		return opts, false, moss.UsageErrorf("usage: arrmoss [options] <submission-dir>. See --help for more.")
	}

	var subDir string
	haveSubDir := false

	next := func(i *int, flag string) (string, *moss.MossError) {
		*i++
		if *i >= len(args) {
			return "", moss.UsageErrorf("expected an argument for %s", flag)
		}
		return args[*i], nil
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "--help", "-h":
			return opts, true, nil

		case "--single-file-mode", "-s":
			opts.SingleFileMode = true

		case "--noise", "-k":
			v, ferr := next(&i, arg)
			if ferr != nil {
				return opts, false, ferr
			}
			k, convErr := strconv.Atoi(v)
			if convErr != nil || k <= 0 {
				return opts, false, moss.UsageErrorf("invalid value for noise threshold (k): `%s`", v)
			}
			opts.K = k

		case "--guarantee", "-t":
			v, ferr := next(&i, arg)
			if ferr != nil {
				return opts, false, ferr
			}
			t, convErr := strconv.Atoi(v)
			if convErr != nil || t <= 0 {
				return opts, false, moss.UsageErrorf("invalid value for guarantee threshold (t): `%s`", v)
			}
			opts.T = t

		case "--output", "-o":
			v, ferr := next(&i, arg)
			if ferr != nil {
				return opts, false, ferr
			}
			opts.OutFile = v

		case "--ignore-content":
			v, ferr := next(&i, arg)
			if ferr != nil {
				return opts, false, ferr
			}
			opts.IgnoreContentDir = v

		case "--ignore-files":
			v, ferr := next(&i, arg)
			if ferr != nil {
				return opts, false, ferr
			}
			files := make(map[string]bool)
			for _, name := range strings.Split(v, " ") {
				if name == "" {
					return opts, false, moss.UsageErrorf("invalid argument to --ignore-files: `%s`", v)
				}
				files[name] = true
			}
			if len(files) == 0 {
				return opts, false, moss.UsageErrorf("--ignore-files expected at least 1 filename to ignore")
			}
			opts.IgnoreFiles = files

		case "--match-threshold":
			v, ferr := next(&i, arg)
			if ferr != nil {
				return opts, false, ferr
			}
			pct, convErr := strconv.ParseFloat(v, 64)
			if convErr != nil {
				return opts, false, moss.UsageErrorf("invalid value for --match-threshold: `%s`", v)
			}
			opts.MatchThreshold = pct / 100.0

		case "--verbose", "-v":
			opts.Verbose = true

		case "--no-pauses", "-p":
			opts.NoPauses = true

		default:
			if strings.HasPrefix(arg, "-") {
				return opts, false, moss.UsageErrorf("unrecognized flag `%s`", arg)
			}
			if !haveSubDir {
				subDir = arg
				haveSubDir = true
			} else {
				return opts, false, moss.UsageErrorf("unexpected argument: `%s`", arg)
			}
		}
	}

	if opts.K <= 0 || opts.K > opts.T {
		return opts, false, moss.ConfigErrorf("invalid value for noise threshold (k): `%d` (remember: 0 < k <= t)", opts.K)
	}
	if opts.T <= 0 || opts.T < opts.K {
		return opts, false, moss.ConfigErrorf("invalid value for guarantee threshold (t): `%d` (remember: 0 < k <= t)", opts.T)
	}
	if opts.MatchThreshold < 0.0 || opts.MatchThreshold > 1.0 {
		return opts, false, moss.ConfigErrorf("invalid value for --match-threshold: `%.2f` (remember: must be a percentage value (0-100))", opts.MatchThreshold*100.0)
	}

	if !haveSubDir {
		return opts, false, moss.UsageErrorf("no submission directory given")
	}
	opts.SubDir = subDir

	return opts, false, nil
}

const helpText = `
Copy-detection for Pyret

Usage:
    %s <SUBMISSIONS-DIR> [OPTIONS]

SUBMISSIONS-DIR indicates a directory containing submissions.

Submissions can be either
    1) individual .arr files (single-file mode)
    2) subdirectories of .arr files (multi-file mode (default))

OPTIONS:
    -h, --help                              Prints this help information
    -s, --single-file-mode                  Submissions are assumed to be single .arr files
    -k, --noise <VALUE>                     Sets the noise threshold
    -t, --guarantee <VALUE>                 Sets the guarantee threshold
        --ignore-content <DIR>              Ignore portions of submissions that match any file's content in DIR
        --ignore-files "<FILE>[ <FILE>]"    Ignore submission files with the given names
        --match-threshold <VALUE>           Only report submission pairs with pair percentile at least VALUE (0-100)
    -o, --output <FILE>                     Write analysis to FILE instead of stdout
    -v, --verbose                           More logging
    -p, --no-pauses                         Don't pause for confirmation to continue when rendering results

Note: abbreviated flags cannot be combined
`

func printHelp(exec string) {
	fmt.Printf(helpText, exec)
}
