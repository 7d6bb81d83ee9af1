// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

// Ratio returns the normalized similarity of a and b in [0, 1]:
// (len(a)+len(b)-d) / (len(a)+len(b)), where d is the edit distance with
// insertions and deletions costing 1 and substitutions costing 2. Lengths
// are counted in runes. Two empty strings are identical.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return float64(total-distance(ra, rb)) / float64(total)
}

func distance(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			sub := prev[j-1]
			if a[i-1] != b[j-1] {
				sub += 2
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, sub)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
