package report

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Altius/stampipes/programs/filter_index/internal/stats"
)

// WriteTextfile writes s in the Prometheus text format for the node
// exporter's textfile collector.
func WriteTextfile(filename string, s stats.Snapshot, now time.Time) error {
	reg := prometheus.NewRegistry()

	reads := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "filter_index",
		Name:      "reads",
		Help:      "Reads seen by the last run, by outcome.",
	}, []string{"outcome"})
	mismatches := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "filter_index",
		Name:      "index_mismatch_reads",
		Help:      "Reads of the last run by number of index mismatches.",
	}, []string{"mismatches"})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "filter_index",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the last run finished.",
	})
	reg.MustRegister(reads, mismatches, lastRun)

	reads.WithLabelValues("total").Set(float64(s.Total))
	reads.WithLabelValues("filtered").Set(float64(s.Filtered))
	reads.WithLabelValues("unfiltered").Set(float64(s.Unfiltered))
	for i, n := range s.Mismatches {
		mismatches.WithLabelValues(s.Mismatches.Label(i)).Set(float64(n))
	}
	lastRun.Set(float64(now.Unix()))

	return errors.Wrapf(prometheus.WriteToTextfile(filename, reg), "write %s", filename)
}
