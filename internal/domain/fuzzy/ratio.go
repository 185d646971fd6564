// Package fuzzy implements the string similarity measures used for vendor
// name matching.
//
// Four ratios are provided, each blind to a different kind of legitimate
// variation between a document vendor name and a bank description:
//
//   - Ratio: plain edit-distance similarity
//   - PartialRatio: tolerates truncation ("acme" vs "acme payment svc 99")
//   - TokenSortRatio: tolerates word reordering
//   - TokenSetRatio: tolerates one side carrying extra boilerplate words
//
// All ratios return an integer 0-100.
package fuzzy

import (
	"math"
	"sort"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// Ratio returns the normalized edit-distance similarity of two strings.
// Two empty strings are considered identical.
func Ratio(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)

	if len(r1) == 0 && len(r2) == 0 {
		return 100
	}
	if len(r1) == 0 || len(r2) == 0 {
		return 0
	}

	longer := len(r1)
	if len(r2) > longer {
		longer = len(r2)
	}

	dist := levenshtein.DistanceForStrings(r1, r2, levenshtein.DefaultOptions)
	return int(math.Round(100 * (1 - float64(dist)/float64(longer))))
}

// PartialRatio slides the shorter string across the longer one and returns
// the best window Ratio, so a name embedded in a longer description still
// scores highly.
func PartialRatio(s1, s2 string) int {
	shorter := []rune(s1)
	longer := []rune(s2)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}

	if len(shorter) == 0 {
		if len(longer) == 0 {
			return 100
		}
		return 0
	}

	best := 0
	for i := 0; i+len(shorter) <= len(longer); i++ {
		window := string(longer[i : i+len(shorter)])
		if score := Ratio(string(shorter), window); score > best {
			best = score
		}
		if best == 100 {
			break
		}
	}
	return best
}

// TokenSortRatio compares the two strings with their words sorted, making
// the comparison independent of word order.
func TokenSortRatio(s1, s2 string) int {
	return Ratio(sortTokens(s1), sortTokens(s2))
}

// TokenSetRatio splits both strings into token sets and compares the
// shared tokens against each side's full token list. One string being a
// superset of the other still scores 100.
func TokenSetRatio(s1, s2 string) int {
	set1 := tokenSet(s1)
	set2 := tokenSet(s2)

	var shared, only1, only2 []string
	for tok := range set1 {
		if set2[tok] {
			shared = append(shared, tok)
		} else {
			only1 = append(only1, tok)
		}
	}
	for tok := range set2 {
		if !set1[tok] {
			only2 = append(only2, tok)
		}
	}
	sort.Strings(shared)
	sort.Strings(only1)
	sort.Strings(only2)

	base := strings.Join(shared, " ")
	combined1 := strings.TrimSpace(base + " " + strings.Join(only1, " "))
	combined2 := strings.TrimSpace(base + " " + strings.Join(only2, " "))

	best := Ratio(base, combined1)
	if score := Ratio(base, combined2); score > best {
		best = score
	}
	if score := Ratio(combined1, combined2); score > best {
		best = score
	}
	return best
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool, 8)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}
