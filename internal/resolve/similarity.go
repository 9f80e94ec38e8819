package resolve

// Ratio computes a similarity score in [0,1] between two strings using the
// matching-blocks algorithm: greedily find the longest matching contiguous
// block, recurse on the unmatched pieces on either side, and score 2*M/T
// where M is the total matched length and T the combined input length.
// Identical non-empty strings score 1.0; strings with no common characters
// score 0.0. The result is deterministic for a given input pair.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	matched := matchingLen(ra, rb, 0, len(ra), 0, len(rb))
	return 2 * float64(matched) / float64(total)
}

// matchingLen sums the lengths of all matching blocks inside
// a[alo:ahi] x b[blo:bhi].
func matchingLen(a, b []rune, alo, ahi, blo, bhi int) int {
	i, j, k := longestMatch(a, b, alo, ahi, blo, bhi)
	if k == 0 {
		return 0
	}
	return matchingLen(a, b, alo, i, blo, j) + k + matchingLen(a, b, i+k, ahi, j+k, bhi)
}

// longestMatch finds the longest block a[i:i+k] == b[j:j+k] within the given
// windows. Ties go to the lowest i, then the lowest j, which keeps the
// overall score independent of anything but the inputs themselves.
func longestMatch(a, b []rune, alo, ahi, blo, bhi int) (besti, bestj, bestk int) {
	b2j := make(map[rune][]int, bhi-blo)
	for j := blo; j < bhi; j++ {
		b2j[b[j]] = append(b2j[b[j]], j)
	}

	besti, bestj = alo, blo
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newJ2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			k := j2len[j-1] + 1
			newJ2len[j] = k
			if k > bestk {
				besti, bestj, bestk = i-k+1, j-k+1, k
			}
		}
		j2len = newJ2len
	}
	return besti, bestj, bestk
}
