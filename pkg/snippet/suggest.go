package snippet

import (
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// suggestionThreshold is the minimum similarity a stored name needs before it is
// offered as a "Did you mean" candidate.
const suggestionThreshold = 0.6

// similarity returns 1 - levenshtein(a, b) / max(len(a), len(b)), compared
// case-insensitively. Two empty strings are identical.
func similarity(dmp *diffmatchpatch.DiffMatchPatch, a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	distance := dmp.DiffLevenshtein(dmp.DiffMain(a, b, false))
	return 1 - float64(distance)/float64(longest)
}

// closestMatch returns the single candidate most similar to name.
// It reports false when nothing reaches suggestionThreshold or when the best
// score is shared by more than one candidate.
func closestMatch(name string, candidates []string) (string, bool) {
	dmp := diffmatchpatch.New()

	best, bestScore, tied := "", 0.0, false
	for _, candidate := range candidates {
		score := similarity(dmp, name, candidate)
		if score < suggestionThreshold {
			continue
		}
		switch {
		case best == "" || score > bestScore:
			best, bestScore, tied = candidate, score, false
		case score == bestScore:
			tied = true
		}
	}

	if best == "" || tied {
		return "", false
	}
	return best, true
}

// unknownSnippetError builds the error for a lookup of a name that is not stored.
func unknownSnippetError(name string, stored []string) *Error {
	prefix := quote(name) + " is not a valid snippet identifier."

	if candidate, ok := closestMatch(name, stored); ok {
		return newError(KindUnknownSnippet, name, "%s Did you mean %s?", prefix, quote(candidate))
	}

	quoted := make([]string, len(stored))
	for i, s := range stored {
		quoted[i] = quote(s)
	}
	return newError(KindUnknownSnippet, name, "%s Valid identifiers are %s.", prefix, strings.Join(quoted, ", "))
}

func quote(s string) string {
	return `"` + s + `"`
}
