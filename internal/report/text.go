// Package report presents the outcome of a run: a human-readable summary on
// stdout, a JSON summary, and a Prometheus textfile.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/Altius/stampipes/programs/filter_index/internal/config"
	"github.com/Altius/stampipes/programs/filter_index/internal/stats"
	"github.com/Altius/stampipes/programs/filter_index/internal/version"
)

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

// Parameters writes the banner and the settings of a run.
func Parameters(w io.Writer, c *config.Config) error {
	t := c.Targets()
	mode := ""
	if t.Passthrough() {
		mode = " (passthrough mode)"
	}
	budget := fmt.Sprint(c.Mismatches)
	if t.Passthrough() {
		budget = "n/a"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", version.Name, version.Version)
	fmt.Fprintf(&sb, "Input file: %s\n", strings.Join(c.Inputs, ", "))
	if t.IsDual() {
		fmt.Fprintf(&sb, "Filtering for sequence index: %s%s%s%s\n", t.Index, *t.Separator, *t.Index2, mode)
	} else {
		fmt.Fprintf(&sb, "Filtering for sequence index: %s%s\n", t.Index, mode)
	}
	fmt.Fprintf(&sb, "Max mismatches tolerated: %s\n", budget)
	fmt.Fprintf(&sb, "Output filtered file: %s\n", orNone(c.Filtered))
	fmt.Fprintf(&sb, "Output unfiltered file: %s\n", orNone(c.Unfiltered))
	_, err := io.WriteString(w, sb.String())
	return err
}

// Summary writes the read counts and, unless every read was passed through,
// one line per histogram bucket.
func Summary(w io.Writer, s stats.Snapshot, passthrough bool) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Total reads: %d\n", s.Total)
	if passthrough {
		fmt.Fprintf(&sb, "Filtered reads: %d (passthrough mode)\n", s.Filtered)
	} else {
		fmt.Fprintf(&sb, "Filtered reads: %d\n", s.Filtered)
		fmt.Fprintf(&sb, "Unfiltered reads: %d\n", s.Unfiltered)
		for i, n := range s.Mismatches {
			fmt.Fprintf(&sb, " Reads with %s mismatches: %d\n", s.Mismatches.Label(i), n)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
