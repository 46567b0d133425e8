// Package similarity scores how alike two entity display names are.
package similarity

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	ExactScore       = 1.0
	ContainmentScore = 0.85
	SurnameScore     = 0.82

	// FuzzyThreshold is the lowest score reported as a "similar" pair.
	FuzzyThreshold = 0.80

	// Containment and surname matches need at least this many characters so
	// short fragments ("Li" inside "Olivia") do not match.
	minMatchLength = 4

	epsilon = 1e-9
)

// Normalize trims, lower-cases and NFC-composes a display name.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
}

// LevenshteinDistance is the unit-cost edit distance between a and b,
// counted in runes.
func LevenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	rows, cols := len(ra)+1, len(rb)+1

	dp := make([][]int, rows)
	for i := range dp {
		dp[i] = make([]int, cols)
		dp[i][0] = i
	}
	for j := 0; j < cols; j++ {
		dp[0][j] = j
	}
	for i := 1; i < rows; i++ {
		for j := 1; j < cols; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			dp[i][j] = min(dp[i-1][j]+1, dp[i][j-1]+1, dp[i-1][j-1]+cost)
		}
	}
	return dp[rows-1][cols-1]
}

// NameSimilarity scores two names in [0,1]. Rules are tried in order and the
// first that applies wins: exact, containment, shared surname, edit distance.
func NameSimilarity(a, b string) float64 {
	return NormalizedSimilarity(Normalize(a), Normalize(b))
}

// NormalizedSimilarity is NameSimilarity for inputs already passed through
// Normalize.
func NormalizedSimilarity(na, nb string) float64 {
	if na == nb {
		return ExactScore
	}

	la, lb := utf8.RuneCountInString(na), utf8.RuneCountInString(nb)
	shorter, longer, shortLen := na, nb, la
	if lb < la {
		shorter, longer, shortLen = nb, na, lb
	}
	if shortLen >= minMatchLength && strings.Contains(longer, shorter) {
		return ContainmentScore
	}

	if sa, sb := lastToken(na), lastToken(nb); sa != "" && sa == sb && utf8.RuneCountInString(sa) >= minMatchLength {
		return SurnameScore
	}

	maxLen := max(la, lb)
	if maxLen == 0 {
		return ExactScore
	}
	return 1 - float64(LevenshteinDistance(na, nb))/float64(maxLen)
}

func lastToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// IsSimilar reports whether score falls in the fuzzy band [threshold, 1.0).
// A score of exactly 1.0 belongs to the exact-match path.
func IsSimilar(score, threshold float64) bool {
	return score+epsilon >= threshold && score < ExactScore
}
