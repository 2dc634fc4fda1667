package report

import (
	"bytes"
	"os"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/Altius/stampipes/programs/filter_index/internal/stats"
)

// MarshalSummary encodes s the way golden summaries are stored: two-space
// indent, keys unescaped (the overflow bucket is ">N"), trailing newline.
func MarshalSummary(s stats.Snapshot) ([]byte, error) {
	hist, err := s.Mismatches.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "encode summary")
	}
	doc := struct {
		Total      int             `json:"total"`
		Filtered   int             `json:"filtered"`
		Unfiltered int             `json:"unfiltered"`
		Mismatches json.RawMessage `json:"mismatches"`
	}{s.Total, s.Filtered, s.Unfiltered, hist}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, errors.Wrap(err, "encode summary")
	}
	return buf.Bytes(), nil
}

// WriteJSON writes s to filename.
func WriteJSON(filename string, s stats.Snapshot) error {
	data, err := MarshalSummary(s)
	if err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(filename, data, 0o644), "write %s", filename)
}

// ReadJSON loads a summary written by WriteJSON. Only the scalar counts and
// histogram values are restored; the histogram keeps its bucket order.
func ReadJSON(filename string) (stats.Snapshot, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return stats.Snapshot{}, errors.Wrapf(err, "read %s", filename)
	}
	var raw struct {
		Total      int             `json:"total"`
		Filtered   int             `json:"filtered"`
		Unfiltered int             `json:"unfiltered"`
		Mismatches json.RawMessage `json:"mismatches"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return stats.Snapshot{}, errors.Wrapf(err, "parse %s", filename)
	}
	s := stats.Snapshot{Total: raw.Total, Filtered: raw.Filtered, Unfiltered: raw.Unfiltered}

	var buckets map[string]int
	if err := json.Unmarshal(raw.Mismatches, &buckets); err != nil {
		return stats.Snapshot{}, errors.Wrapf(err, "parse %s", filename)
	}
	if len(buckets) == 0 {
		return s, nil
	}
	s.Mismatches = stats.NewHistogram(len(buckets) - 2)
	for i := range s.Mismatches {
		n, ok := buckets[s.Mismatches.Label(i)]
		if !ok {
			return stats.Snapshot{}, errors.Errorf("parse %s: missing mismatch bucket %q", filename, s.Mismatches.Label(i))
		}
		s.Mismatches[i] = n
	}
	return s, nil
}
