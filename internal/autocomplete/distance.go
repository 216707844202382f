package autocomplete

// editDistance computes the optimal string alignment variant of
// Damerau-Levenshtein distance (single-character inserts, deletes,
// substitutions and adjacent transpositions). maxDist allows early exit:
// once every cell of a row exceeds it, the result is reported as maxDist+1.
// Category labels are short, so the quadratic table is fine.
func editDistance(a, b string, maxDist int) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}
	if maxDist >= 0 && abs(la-lb) > maxDist {
		return maxDist + 1
	}

	dp := make([][]int, la+1)
	for i := range dp {
		dp[i] = make([]int, lb+1)
		dp[i][0] = i
	}
	for j := 0; j <= lb; j++ {
		dp[0][j] = j
	}

	for i := 1; i <= la; i++ {
		rowMin := -1
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			d := min3(
				dp[i-1][j]+1,      // deletion
				dp[i][j-1]+1,      // insertion
				dp[i-1][j-1]+cost, // substitution
			)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				if t := dp[i-2][j-2] + 1; t < d {
					d = t // transposition
				}
			}
			dp[i][j] = d
			if rowMin < 0 || d < rowMin {
				rowMin = d
			}
		}
		if maxDist >= 0 && rowMin > maxDist {
			return maxDist + 1
		}
	}

	return dp[la][lb]
}

// isSubsequence reports whether the characters of needle appear in order
// (not necessarily contiguously) within haystack, ignoring spaces in the
// haystack.
func isSubsequence(needle, haystack string) bool {
	if needle == "" {
		return true
	}
	n := []rune(needle)
	pos := 0
	for _, r := range haystack {
		if r == ' ' {
			continue
		}
		if r == n[pos] {
			pos++
			if pos == len(n) {
				return true
			}
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
