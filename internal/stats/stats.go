// Package stats counts reads and their index mismatches over one run.
package stats

import (
	"bytes"
	"strconv"

	"github.com/Altius/stampipes/programs/filter_index/internal/classify"
)

// Histogram counts reads per mismatch count. Bucket i holds reads with i
// mismatches for i <= MaxTracked(); the last bucket holds everything above.
type Histogram []int

// NewHistogram makes a histogram with maxTracked+2 buckets.
func NewHistogram(maxTracked int) Histogram {
	return make(Histogram, maxTracked+2)
}

// MaxTracked is the largest mismatch count with a bucket of its own.
func (h Histogram) MaxTracked() int { return len(h) - 2 }

// Label names bucket i: its mismatch count, or ">N" for the overflow bucket.
func (h Histogram) Label(i int) string {
	if i > h.MaxTracked() {
		return ">" + strconv.Itoa(h.MaxTracked())
	}
	return strconv.Itoa(i)
}

// Sum is the number of reads counted in h.
func (h Histogram) Sum() int {
	n := 0
	for _, c := range h {
		n += c
	}
	return n
}

// MarshalJSON writes h as an object keyed by Label, in bucket order.
func (h Histogram) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range h {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(h.Label(i)))
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(c))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Bucket maps a mismatch count to its histogram index. Counts strictly
// greater than maxTracked share the overflow bucket.
func Bucket(mismatches, maxTracked int) int {
	if mismatches > maxTracked {
		return maxTracked + 1
	}
	return mismatches
}

// Snapshot is the read-only result of a run.
type Snapshot struct {
	Total      int       `json:"total"`
	Filtered   int       `json:"filtered"`
	Unfiltered int       `json:"unfiltered"`
	Mismatches Histogram `json:"mismatches"`
}

// Aggregator accumulates Outcomes. It belongs to a single run and is not
// safe for concurrent use.
type Aggregator struct {
	snap       Snapshot
	maxTracked int
}

// NewAggregator sizes the histogram for maxTracked. In passthrough runs no
// histogram is kept.
func NewAggregator(maxTracked int, passthrough bool) *Aggregator {
	a := &Aggregator{maxTracked: maxTracked}
	if !passthrough {
		a.snap.Mismatches = NewHistogram(maxTracked)
	}
	return a
}

// Add counts one classified read.
func (a *Aggregator) Add(out classify.Outcome) {
	a.snap.Total++
	if out.Filtered {
		a.snap.Filtered++
	} else {
		a.snap.Unfiltered++
	}
	if out.Passthrough || a.snap.Mismatches == nil {
		return
	}
	a.snap.Mismatches[Bucket(out.Mismatches, a.maxTracked)]++
}

// Snapshot returns a copy of the counts so far.
func (a *Aggregator) Snapshot() Snapshot {
	s := a.snap
	if s.Mismatches != nil {
		s.Mismatches = append(Histogram(nil), s.Mismatches...)
	}
	return s
}
