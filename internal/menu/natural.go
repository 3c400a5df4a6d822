// Package menu synthesizes hierarchical font menus from cache snapshots
// and resolves issued menu identifiers back to font paths.
//
// Menu construction and identifier resolution share one comparator and one
// id-assignment routine; identifiers are only meaningful against the exact
// snapshot ordering they were issued for.
package menu

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ComparePaths is the canonical menu ordering for relative font paths.
// Paths compare segment by segment with NaturalCompare; when a file and a
// folder collide at the same level, the file sorts first. The result is a
// total order on relative paths: within one directory the plain files come
// first in natural order, followed by the contents of each subfolder.
//
// Build and Resolve must use this exact comparator — identifier assignment
// is defined by it.
func ComparePaths(a, b string) int {
	sa := strings.Split(a, "/")
	sb := strings.Split(b, "/")
	for i := 0; i < len(sa) && i < len(sb); i++ {
		fileA := i == len(sa)-1
		fileB := i == len(sb)-1
		if fileA != fileB {
			if fileA {
				return -1
			}
			return 1
		}
		if cmp := NaturalCompare(sa[i], sb[i]); cmp != 0 {
			return cmp
		}
	}
	// Case-insensitively identical; segment counts are equal because a
	// shorter path would have hit the file-vs-folder branch above. Break
	// the tie byte-wise so case-only twins ("A.ttf" vs "a.ttf") keep one
	// order in every enumeration and ids stay stable across rescans.
	return strings.Compare(a, b)
}

// NaturalCompare orders a and b case-insensitively with numeric awareness:
// runs of digits compare by value rather than byte order, so "font2" sorts
// before "font10". Digit runs are compared after stripping leading zeros;
// when two runs are all zeros of different lengths the longer run sorts
// first, and equal-value runs fall through to the next segment.
//
// Returns -1, 0, or 1.
func NaturalCompare(a, b string) int {
	for len(a) > 0 && len(b) > 0 {
		ra, sa := utf8.DecodeRuneInString(a)
		rb, sb := utf8.DecodeRuneInString(b)

		if unicode.IsDigit(ra) && unicode.IsDigit(rb) {
			var cmp int
			a, b, cmp = compareDigitRuns(a, b)
			if cmp != 0 {
				return cmp
			}
			continue
		}

		la := unicode.ToLower(ra)
		lb := unicode.ToLower(rb)
		if la != lb {
			if la < lb {
				return -1
			}
			return 1
		}
		a = a[sa:]
		b = b[sb:]
	}

	if len(a) > 0 {
		return 1
	}
	if len(b) > 0 {
		return -1
	}
	return 0
}

// compareDigitRuns compares the leading digit runs of a and b and returns
// the remainders past those runs. Both inputs must start with a digit.
func compareDigitRuns(a, b string) (restA, restB string, cmp int) {
	endA := digitRunEnd(a)
	endB := digitRunEnd(b)
	runA, runB := a[:endA], b[:endB]

	// Strip leading zeros; a run with more of them sorts first.
	trimA := trimLeadingZeros(runA)
	trimB := trimLeadingZeros(runB)
	leadA := len(runA) - len(trimA)
	leadB := len(runB) - len(trimB)
	if leadA != leadB {
		if leadA > leadB {
			return "", "", -1
		}
		return "", "", 1
	}

	// Longer run of significant digits means larger value.
	if len(trimA) != len(trimB) {
		if len(trimA) < len(trimB) {
			return "", "", -1
		}
		return "", "", 1
	}

	// Same length: plain byte comparison decides.
	if trimA != trimB {
		if trimA < trimB {
			return "", "", -1
		}
		return "", "", 1
	}

	return a[endA:], b[endB:], 0
}

func digitRunEnd(s string) int {
	for i, r := range s {
		if !unicode.IsDigit(r) {
			return i
		}
	}
	return len(s)
}

func trimLeadingZeros(s string) string {
	for len(s) > 0 && s[0] == '0' {
		s = s[1:]
	}
	return s
}
