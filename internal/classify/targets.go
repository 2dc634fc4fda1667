// Package classify decides whether a read's index is close enough to the
// expected index (or pair of indices) to keep.
package classify

import "fmt"

// ConfigError reports an index configuration that cannot be run.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid index configuration: " + e.Reason
}

// Targets holds the expected indices. Index2 and Separator are set together
// for dual-index runs and left nil otherwise. An empty index is not compared.
type Targets struct {
	Index     string
	Index2    *string
	Separator *string
}

// Single returns Targets for a single-index run.
func Single(index string) Targets {
	return Targets{Index: index}
}

// Dual returns Targets for a dual-index run.
func Dual(index1, index2, separator string) Targets {
	return Targets{Index: index1, Index2: &index2, Separator: &separator}
}

// IsDual reports whether a second index is configured.
func (t Targets) IsDual() bool { return t.Index2 != nil }

// Passthrough reports whether every configured index is empty, in which case
// reads are kept without looking at their names.
func (t Targets) Passthrough() bool {
	if t.Index != "" {
		return false
	}
	return t.Index2 == nil || *t.Index2 == ""
}

// MaxTracked is the length of the longest configured index.
func (t Targets) MaxTracked() int {
	n := len(t.Index)
	if t.Index2 != nil && len(*t.Index2) > n {
		n = len(*t.Index2)
	}
	return n
}

// Validate checks t together with the mismatch budget.
func (t Targets) Validate(budget int) error {
	switch {
	case t.Separator != nil && t.Index2 == nil:
		return &ConfigError{Reason: "separator given without a second index"}
	case t.Separator == nil && t.Index2 != nil:
		return &ConfigError{Reason: "second index given without a separator"}
	case t.Separator != nil && *t.Separator == "":
		return &ConfigError{Reason: "separator must not be empty"}
	case budget < 0:
		return &ConfigError{Reason: fmt.Sprintf("mismatches must be >= 0, got %d", budget)}
	case t.Passthrough() && budget != 0:
		return &ConfigError{Reason: fmt.Sprintf("mismatches (%d) cannot be set in passthrough mode", budget)}
	}
	return nil
}

func (t Targets) String() string {
	if !t.IsDual() {
		return fmt.Sprintf("%q", t.Index)
	}
	return fmt.Sprintf("%q %q %q", t.Index, *t.Separator, *t.Index2)
}
