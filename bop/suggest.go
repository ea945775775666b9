package bop

import "sort"

// damerauLevenshtein computes the Damerau-Levenshtein edit distance
// between a and b (insertions, deletions, substitutions, and
// transpositions of adjacent characters all cost 1), operating on
// runes so multi-byte identifiers are measured correctly.
func damerauLevenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)

	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	// d[i][j] holds the distance between ra[:i] and rb[:j].
	d := make([][]int, la+1)
	for i := range d {
		d[i] = make([]int, lb+1)
		d[i][0] = i
	}
	for j := 0; j <= lb; j++ {
		d[0][j] = j
	}

	for i := 1; i <= la; i++ {
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := d[i-1][j] + 1
			ins := d[i][j-1] + 1
			sub := d[i-1][j-1] + cost
			best := del
			if ins < best {
				best = ins
			}
			if sub < best {
				best = sub
			}
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				trans := d[i-2][j-2] + 1
				if trans < best {
					best = trans
				}
			}
			d[i][j] = best
		}
	}
	return d[la][lb]
}

// suggest picks the candidate closest to name under
// damerauLevenshtein, returning "" when nothing is close enough.
// spec.md §4.7: the distance threshold is max(1, len(name)/3) and ties
// break lexicographically.
func suggest(name string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}

	threshold := len(name) / 3
	if threshold < 1 {
		threshold = 1
	}

	best := ""
	bestDist := threshold + 1
	for _, c := range candidates {
		dist := damerauLevenshtein(name, c)
		if dist > threshold {
			continue
		}
		switch {
		case dist < bestDist:
			bestDist = dist
			best = c
		case dist == bestDist && c < best:
			best = c
		}
	}
	return best
}

// sortedUnique returns a deduplicated, sorted copy of names, used to
// make candidate-set construction order-independent before suggest
// picks a winner.
func sortedUnique(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
