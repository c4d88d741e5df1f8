package categorize

// Ratio is the normalized Indel similarity of a and b in [0, 100]:
// 200*LCS / (len(a)+len(b)), computed on runes.
func Ratio(a, b string) float64 {
	return ratio([]rune(a), []rune(b))
}

// PartialRatio scores the best alignment of the shorter string against the
// longer one. Windows include the partial overlaps at both ends of the
// longer string as well as every full-length window.
func PartialRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 100
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	best := partialWindows(ra, rb)
	if len(ra) == len(rb) && best < 100 {
		if s := partialWindows(rb, ra); s > best {
			best = s
		}
	}
	return best
}

func partialWindows(short, long []rune) float64 {
	n, m := len(short), len(long)
	best := 0.0
	consider := func(window []rune) bool {
		s := ratio(short, window)
		if s > best {
			best = s
		}
		return best == 100
	}

	for i := 1; i < n; i++ {
		if consider(long[:i]) {
			return best
		}
	}
	for i := 0; i <= m-n; i++ {
		if consider(long[i : i+n]) {
			return best
		}
	}
	for i := m - n + 1; i < m; i++ {
		if consider(long[i:]) {
			return best
		}
	}
	return best
}

func ratio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	return 200 * float64(lcs(a, b)) / float64(total)
}

// lcs is the longest common subsequence length using two rolling rows.
func lcs(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
