package barcode

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// variants returns every barcode within distance substitutions of input,
// input included.
func variants(input string, distance int) (out []string) {
	mutations := []rune{'A', 'C', 'G', 'T', 'N'}
	toCheck := []string{input}
	seen := make(map[string]struct{})

	for ; distance >= 0; distance-- {
		nextCheck := make([]string, 0, len(input)*(len(mutations)-1))

		for _, curBC := range toCheck {
			seen[curBC] = struct{}{}
			if distance == 0 {
				continue
			}
			for i, c := range curBC {
				for _, replacement := range mutations {
					if replacement == c {
						continue
					}
					newBC := curBC[:i] + string(replacement) + curBC[i+1:]
					if _, alreadySeen := seen[newBC]; !alreadySeen {
						nextCheck = append(nextCheck, newBC)
					}
				}
			}
		}
		toCheck = nextCheck
	}
	for k := range seen {
		out = append(out, k)
	}
	return out
}

func TestMismatches(t *testing.T) {
	type test struct {
		a, b string
		want int
	}

	tests := []test{
		{"GATCGTGT", "GATCGTGT", 0},
		{"GATCGTCT", "GATCGTGT", 1},
		{"TGACCAAT", "NNNCCAAT", 3},
		{"NNNNNNNN", "TGACCAAT", 8},
		{"gatcgtgt", "GATCGTGT", 8},
		{"GATC", "GATCGTGT", 4},
		{"GATCGTGTAA", "GATCGTGT", 2},
		{"TATC", "GATCGTGT", 5},
		{"", "GATCGTGT", 8},
		{"", "", 0},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, Mismatches(test.a, test.b), "%q vs %q", test.a, test.b)
		assert.Equal(t, test.want, Mismatches(test.b, test.a), "%q vs %q", test.b, test.a)
	}
}

func TestMismatchesProperties(t *testing.T) {
	for _, s := range []string{"", "A", "GATCGTGT", "TGACCAAT+NNNN", "acgtn"} {
		assert.Equal(t, 0, Mismatches(s, s), s)
		assert.Equal(t, len(s), Mismatches("", s), s)
	}
	for distance := 0; distance <= 2; distance++ {
		for _, v := range variants("TGACCAAT", distance) {
			got := Mismatches(v, "TGACCAAT")
			assert.LessOrEqual(t, got, distance, v)
			assert.Equal(t, got, Mismatches("TGACCAAT", v), v)
		}
	}
}

func TestCombinedMismatches(t *testing.T) {
	type test struct {
		token        string
		skip1, skip2 bool
		want         int
	}

	tests := []test{
		{"AAAA+TTTT", false, false, 0},
		{"AAAC+TTTT", false, false, 1},
		{"AAAC+TTGG", false, false, 3},
		{"AAAC+TTGG", true, false, 2},
		{"AAAC+TTGG", false, true, 1},
		{"AAAC+TTGG", true, true, 0},
		{"AAAA+TT+T", false, false, 1},
		{"+TTTT", false, false, 4},
		{"AAAA+", false, false, 4},
	}

	for _, test := range tests {
		got, err := CombinedMismatches(test.token, "+", "AAAA", "TTTT", test.skip1, test.skip2)
		require.NoError(t, err, test.token)
		assert.Equal(t, test.want, got, "%+v", test)
	}
}

func TestCombinedMismatchesNoSeparator(t *testing.T) {
	_, err := CombinedMismatches("AAAATTTT", "+", "AAAA", "TTTT", false, false)

	var sepErr *SeparatorError
	require.True(t, errors.As(err, &sepErr))
	assert.Equal(t, "AAAATTTT", sepErr.Token)
	assert.Equal(t, "+", sepErr.Separator)

	// a skipped half does not make the separator optional
	_, err = CombinedMismatches("AAAATTTT", "+", "", "TTTT", true, false)
	assert.True(t, errors.As(err, &sepErr))
}

func BenchmarkMismatches(b *testing.B) {
	b.ReportAllocs()
	for mm := 0; mm <= 4; mm++ {
		candidates := variants("ACGTACGT", mm)
		b.Run(fmt.Sprintf("Mismatches%d", mm),
			func(b *testing.B) {
				for n := 0; n < b.N; n++ {
					for _, c := range candidates {
						Mismatches(c, "ACGTACGT")
					}
				}
			})
	}
}
