package moss

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// normIdentifier replaces every identifier token in normalized output.
const normIdentifier = 'v'

var (
	whitespaceRe    = regexp.MustCompile("^\\s+")
	commentRe       = regexp.MustCompile("^(?:(?s:#\\|.*?\\|#)|#[^\\n]*)")
	docPrefixRe     = regexp.MustCompile("^doc:\\s*")
	typeParamsRe    = regexp.MustCompile("^<([_a-zA-Z][-_a-zA-Z0-9]*(,\\s*)?)*>")
	annotPrefixRe   = regexp.MustCompile("^::\\s+")
	outTypePrefixRe = regexp.MustCompile("^->\\s*")
	simpleTypeRe    = regexp.MustCompile("^[_a-zA-Z][-_a-zA-Z0-9<>]*")
	identRe         = regexp.MustCompile("^([_a-zA-Z][_a-zA-Z0-9]*(?:-+[_a-zA-Z0-9]+)*)")

	// Each delimiter is tried closed-form first (non-greedy up to its own
	// closing delimiter); if that fails, per the failure model an
	// unterminated literal runs to end of input rather than falling
	// through to character-by-character fallback.
	doubleQuoteRe = regexp.MustCompile(`^"(?:(?s:.*?)"|(?s:.*))`)
	singleQuoteRe = regexp.MustCompile(`^'(?:(?s:.*?)'|(?s:.*))`)
	backtickRe    = regexp.MustCompile("^```(?:(?s:.*?)```|(?s:.*))")
)

// matchStringLiteral matches a double-quoted, single-quoted, or
// triple-backtick string literal at the head of s, per the delimiter
// present. Returns ok=false if s starts with none of the three delimiters.
func matchStringLiteral(s string) (string, bool) {
	switch {
	case strings.HasPrefix(s, "```"):
		return backtickRe.FindString(s), true
	case strings.HasPrefix(s, "\""):
		return doubleQuoteRe.FindString(s), true
	case strings.HasPrefix(s, "'"):
		return singleQuoteRe.FindString(s), true
	default:
		return "", false
	}
}

// keywords lists the closed set of Pyret keywords/compound tokens recognized
// ahead of the identifier rule. Matching picks the longest keyword that
// prefixes the remaining input; ties against an identifier match favor the
// keyword (see matchKeywordOrIdent).
var keywords = []string{
	"raises-other-than", "raises-satisfies", "raises-violates", "does-not-raise",
	"provide-types", "otherwise:", "load-table", "is-roughly", "descending", "transform",
	"satisfies", "is-not<=>", "examples:", "ascending", "violates", "type-let", "sharing:",
	"sanitize", "provide:", "is-not=~", "is-not==", "examples", "source:", "reactor", "provide",
	"newtype", "include", "extract", "else if", "because", "where:", "table:", "shadow", "select",
	"raises", "module", "method", "letrec", "is-not", "import", "hiding", "extend", "check:", "block:",
	"with:", "using", "then:", "sieve", "order", "is<=>", "false", "else:", "check", "cases", "when", "type",
	"true", "row:", "lazy", "is=~", "is==", "from", "else", "doc:", "data", "var", "spy", "ref", "rec", "let", "lam",
	"fun", "for", "end", "ask", "and", "or", "of", "is", "if", "do", "by", "as",
}

// Normalize strips whitespace, comments, docstrings, type annotations, and
// identifier names from raw Pyret source while preserving keywords and
// string literals verbatim, recording enough position information to map
// the result back to original source lines.
func Normalize(program string) *NormText {
	head := program
	norm := make([]rune, 0, len(program))
	normIdx := 0
	lineEnds := make([]int, 0)

	for head != "" {
		if m := whitespaceRe.FindString(head); m != "" {
			accountForNewlines(m, normIdx, &lineEnds, false)
			head = head[len(m):]
			continue
		}

		if m := commentRe.FindString(head); m != "" {
			accountForNewlines(m, normIdx, &lineEnds, false)
			head = head[len(m):]
			continue
		}

		if m, ok := matchDocstring(head); ok {
			accountForNewlines(m, normIdx, &lineEnds, false)
			head = head[len(m):]
			continue
		}

		if m, ok := matchType(head); ok {
			accountForNewlines(m, normIdx, &lineEnds, false)
			head = head[len(m):]
			continue
		}

		if m, ok := matchStringLiteral(head); ok && m != "" {
			// newlines inside a preserved literal are accounted for
			// relative to normIdx *before* it advances past the literal.
			accountForNewlines(m, normIdx, &lineEnds, true)
			norm = append(norm, []rune(m)...)
			normIdx += utf8.RuneCountInString(m)
			head = head[len(m):]
			continue
		}

		if isKeyword, m, ok := matchKeywordOrIdent(head); ok {
			head = head[len(m):]
			if isKeyword {
				norm = append(norm, []rune(m)...)
				normIdx += utf8.RuneCountInString(m)
			} else {
				norm = append(norm, normIdentifier)
				normIdx++
			}
			continue
		}

		r, size := utf8.DecodeRuneInString(head)
		norm = append(norm, r)
		normIdx++
		head = head[size:]
	}

	lineEnds = append(lineEnds, len(norm))

	return &NormText{Value: norm, LineEnds: lineEnds}
}

// matchDocstring matches the `doc:` prefix followed by optional whitespace
// and a quoted string, eliding the combination as a unit. The quoted part
// uses the same closed-or-run-to-end-of-input rule as any other string
// literal.
func matchDocstring(s string) (string, bool) {
	loc := docPrefixRe.FindStringIndex(s)
	if loc == nil {
		return "", false
	}
	rest := s[loc[1]:]
	lit, ok := matchStringLiteral(rest)
	if !ok || lit == "" {
		return "", false
	}
	return s[:loc[1]+len(lit)], true
}

// matchType attempts, in order, a `::`-prefixed type, a `->`-prefixed output
// type, or a standalone type-parameter list `<A, B, C>` at the head of s.
func matchType(s string) (string, bool) {
	if loc := annotPrefixRe.FindStringIndex(s); loc != nil {
		if m, ok := parseType(s, s[:loc[1]]); ok {
			return m, true
		}
		return "", false
	}

	if loc := outTypePrefixRe.FindStringIndex(s); loc != nil {
		if m, ok := parseType(s, s[:loc[1]]); ok {
			return m, true
		}
		return "", false
	}

	if m := typeParamsRe.FindString(s); m != "" {
		return m, true
	}

	return "", false
}

// parseType consumes the type following a matched `::`/`->` prefix: either a
// fully balanced parenthesized type, or a simple identifier-like atom.
func parseType(head, prefix string) (string, bool) {
	rest := head[len(prefix):]

	if strings.HasPrefix(rest, "(") {
		depth := 0
		matchedLen := -1
		for i, r := range rest {
			switch r {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					matchedLen = i + utf8.RuneLen(r)
				}
			}
			if matchedLen != -1 {
				break
			}
		}
		if matchedLen == -1 {
			return "", false
		}
		return head[:len(prefix)+matchedLen], true
	}

	if loc := simpleTypeRe.FindStringIndex(rest); loc != nil {
		return head[:len(prefix)+loc[1]], true
	}

	return "", false
}

// matchKeywordOrIdent finds the longest keyword and/or identifier match at
// the head of s. When both match, the identifier wins only if its match is
// strictly longer than the keyword's; ties favor the keyword.
func matchKeywordOrIdent(s string) (isKeyword bool, matched string, ok bool) {
	var kw string
	for _, k := range keywords {
		if len(k) > len(kw) && strings.HasPrefix(s, k) {
			kw = k
		}
	}

	var id string
	if loc := identRe.FindStringIndex(s); loc != nil {
		id = s[:loc[1]]
	}

	switch {
	case kw != "" && id != "":
		if utf8.RuneCountInString(id) > utf8.RuneCountInString(kw) {
			return false, id, true
		}
		return true, kw, true
	case id != "":
		return false, id, true
	case kw != "":
		return true, kw, true
	default:
		return false, "", false
	}
}

// accountForNewlines records, for each newline in slice, the normalized-text
// index of the first character following it. For elided spans that index is
// always idx (the position before the elision); for preserved spans
// (string literals) it is idx plus the newline's rune offset within slice,
// plus one.
func accountForNewlines(slice string, idx int, lineEnds *[]int, preserveNewlines bool) {
	i := 0
	for _, r := range slice {
		if r == '\n' {
			if preserveNewlines {
				*lineEnds = append(*lineEnds, idx+i+1)
			} else {
				*lineEnds = append(*lineEnds, idx)
			}
		}
		i++
	}
}
