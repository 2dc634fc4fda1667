package barcode

import "strings"

// Mismatches counts positions where a and b differ, plus one for every
// character by which the longer string overhangs the shorter. There are no
// wildcards: 'N' only matches 'N'.
func Mismatches(a, b string) int {
	if a == b {
		return 0
	}
	n := len(a) - len(b)
	short := len(b)
	if n < 0 {
		n = -n
		short = len(a)
	}
	for i := 0; i < short; i++ {
		if a[i] != b[i] {
			n++
		}
	}
	return n
}

// CombinedMismatches splits token at the first occurrence of sep and scores
// each half against its index. A half whose skip flag is set contributes
// nothing and is not compared.
func CombinedMismatches(token, sep, index1, index2 string, skip1, skip2 bool) (int, error) {
	part1, part2, ok := strings.Cut(token, sep)
	if !ok {
		return 0, &SeparatorError{Token: token, Separator: sep}
	}
	n := 0
	if !skip1 {
		n += Mismatches(part1, index1)
	}
	if !skip2 {
		n += Mismatches(part2, index2)
	}
	return n, nil
}
