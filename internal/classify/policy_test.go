package classify

import (
	"errors"
	"testing"

	"github.com/Altius/stampipes/programs/filter_index/internal/barcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const readPrefix = "NB501234:12:HXXXXXXXX:1:11101:10000:1000 1:N:0:"

func strPtr(s string) *string { return &s }

func TestValidate(t *testing.T) {
	type test struct {
		name    string
		targets Targets
		budget  int
		ok      bool
	}

	tests := []test{
		{"single", Single("GATCGTGT"), 2, true},
		{"dual", Dual("AAAA", "TTTT", "+"), 1, true},
		{"passthrough", Single(""), 0, true},
		{"dual passthrough", Dual("", "", "+"), 0, true},
		{"half passthrough with budget", Dual("", "TTTT", "+"), 3, true},
		{"separator without index2", Targets{Index: "AAAA", Separator: strPtr("+")}, 0, false},
		{"index2 without separator", Targets{Index: "AAAA", Index2: strPtr("TTTT")}, 0, false},
		{"empty separator", Dual("AAAA", "TTTT", ""), 0, false},
		{"negative budget", Single("AAAA"), -1, false},
		{"passthrough with budget", Single(""), 1, false},
		{"dual passthrough with budget", Dual("", "", "+"), 2, false},
	}

	for _, test := range tests {
		err := test.targets.Validate(test.budget)
		if test.ok {
			assert.NoError(t, err, test.name)
			continue
		}
		var cfgErr *ConfigError
		assert.True(t, errors.As(err, &cfgErr), test.name)
	}
}

func TestNewPolicyDispatch(t *testing.T) {
	p, err := NewPolicy(Single("GATCGTGT"), 0)
	require.NoError(t, err)
	assert.Equal(t, SingleTarget{Index: "GATCGTGT"}, p.Target())
	assert.Equal(t, 8, p.MaxTracked())
	assert.False(t, p.Passthrough())

	p, err = NewPolicy(Dual("", "TTTTTT", "+"), 0)
	require.NoError(t, err)
	assert.Equal(t, DualTarget{Index2: "TTTTTT", Separator: "+", Passthrough1: true}, p.Target())
	assert.Equal(t, 6, p.MaxTracked())
	assert.False(t, p.Passthrough())

	_, err = NewPolicy(Single(""), 3)
	assert.Error(t, err)
}

func TestClassifySingle(t *testing.T) {
	exact, err := NewPolicy(Single("GATCGTGT"), 0)
	require.NoError(t, err)

	out, err := exact.Classify(readPrefix + "GATCGTGT")
	require.NoError(t, err)
	assert.Equal(t, Outcome{Filtered: true, Index: "GATCGTGT"}, out)

	out, err = exact.Classify(readPrefix + "GATCGTCT")
	require.NoError(t, err)
	assert.Equal(t, Outcome{Filtered: false, Index: "GATCGTCT", Mismatches: 1}, out)

	loose, err := NewPolicy(Single("GATCGTGT"), 1)
	require.NoError(t, err)
	out, err = loose.Classify(readPrefix + "GATCGTCT")
	require.NoError(t, err)
	assert.True(t, out.Filtered)
	assert.Equal(t, 1, out.Mismatches)
}

func TestClassifyDual(t *testing.T) {
	p, err := NewPolicy(Dual("AAAA", "TTTT", "+"), 0)
	require.NoError(t, err)

	out, err := p.Classify(readPrefix + "AAAA+TTTT")
	require.NoError(t, err)
	assert.Equal(t, Outcome{Filtered: true, Index: "AAAA+TTTT"}, out)

	_, err = p.Classify(readPrefix + "AAAATTTT")
	var sepErr *barcode.SeparatorError
	assert.True(t, errors.As(err, &sepErr))
}

func TestClassifyMalformedName(t *testing.T) {
	p, err := NewPolicy(Single("GATCGTGT"), 0)
	require.NoError(t, err)

	_, err = p.Classify("read-without-index")
	var exErr *barcode.ExtractionError
	assert.True(t, errors.As(err, &exErr))
}

func TestClassifyPassthrough(t *testing.T) {
	for _, targets := range []Targets{Single(""), Dual("", "", "+")} {
		p, err := NewPolicy(targets, 0)
		require.NoError(t, err)
		assert.True(t, p.Passthrough())

		out, err := p.Classify("read-without-index")
		require.NoError(t, err, targets.String())
		assert.Equal(t, Outcome{Filtered: true, Passthrough: true}, out)
	}
}

func TestClassifyMonotonicInBudget(t *testing.T) {
	names := []string{"TGACCAAT", "TGACCAAA", "TGACCTTT", "TGAGGTTT", "AAAAAAAA", "TG", "TGACCAATGG"}
	for _, name := range names {
		wasFiltered := false
		for budget := 0; budget <= 12; budget++ {
			p, err := NewPolicy(Single("TGACCAAT"), budget)
			require.NoError(t, err)
			out, err := p.Classify(readPrefix + name)
			require.NoError(t, err)
			if wasFiltered {
				assert.True(t, out.Filtered, "%s at budget %d", name, budget)
			}
			wasFiltered = out.Filtered
		}
	}
}
