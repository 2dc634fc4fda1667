package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Altius/stampipes/programs/filter_index/internal/classify"
	"github.com/Altius/stampipes/programs/filter_index/internal/config"
	"github.com/Altius/stampipes/programs/filter_index/internal/fastq"
	"github.com/Altius/stampipes/programs/filter_index/internal/logger"
	"github.com/Altius/stampipes/programs/filter_index/internal/pipeline"
	"github.com/Altius/stampipes/programs/filter_index/internal/report"
	"github.com/Altius/stampipes/programs/filter_index/internal/version"
)

const (
	exitOK    = 0
	exitRun   = 1
	exitUsage = 2
)

// usageError marks errors caused by the command line or configuration.
type usageError struct{ error }

func (e usageError) Unwrap() error { return e.error }

type flags struct {
	configFile string
	filtered   string
	unfiltered string
	index      string
	index2     string
	separator  string
	mismatches int
	verbose    int

	summaryJSON     string
	metricsTextfile string
	cpuprofile      string
	memprofile      string
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(stdout, stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return exitOK
	}

	fmt.Fprintln(stderr, "Error:", err)
	var uErr usageError
	var cfgErr *classify.ConfigError
	if errors.As(err, &uErr) || errors.As(err, &cfgErr) {
		fmt.Fprintln(stderr, cmd.UsageString())
		return exitUsage
	}
	return exitRun
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   version.Name + " [flags] INPUT...",
		Short: "Filter an Illumina FASTQ file on the index sequence in each read name",
		Long: `Reads FASTQ files (plain or compressed; "-" is stdin) and compares the index
after the last ':' of every read name with the expected index. Reads within
--mismatches of it go to the filtered file, the others to the unfiltered file.
Output compression follows the file extension.

With --index "" every read is kept without looking at its name (passthrough).
Dual indices such as ACGTACGT+TTGGCCAA are matched with --index2 and
--separator; an empty index on either side is not compared.`,
		Version:       version.Version,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, &f, args)
			if err != nil {
				return usageError{err}
			}
			return execute(cfg, &f, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	fl := cmd.Flags()
	fl.StringVarP(&f.configFile, "config", "c", "", "read settings from `file` (JSON, YAML or TOML); flags override it")
	fl.StringVarP(&f.filtered, "filtered", "f", "", "output `file` for reads matching the index")
	fl.StringVarP(&f.unfiltered, "unfiltered", "u", "", "output `file` for reads not matching the index")
	fl.StringVarP(&f.index, "index", "i", "", `index to filter for; "" keeps every read (passthrough)`)
	fl.StringVarP(&f.index2, "index2", "I", "", "second index of a dual-index read (needs --separator)")
	fl.StringVarP(&f.separator, "separator", "s", "", "separator between the two indices in the read name")
	fl.IntVarP(&f.mismatches, "mismatches", "m", 0, "maximum number of mismatches to tolerate")
	fl.CountVarP(&f.verbose, "verbose", "v", "increase logging verbosity (-v run details, -vv every read)")
	fl.StringVar(&f.summaryJSON, "summary-json", "", "write the read counts as JSON to `file`")
	fl.StringVar(&f.metricsTextfile, "metrics-textfile", "", "write the read counts in Prometheus text format to `file`")
	fl.StringVar(&f.cpuprofile, "cpuprofile", "", "write cpu profile to `file`")
	fl.StringVar(&f.memprofile, "memprofile", "", "write memory profile to `file`")

	return cmd
}

// resolveConfig starts from the config file, if any, and applies the flags
// that were given on the command line.
func resolveConfig(cmd *cobra.Command, f *flags, args []string) (*config.Config, error) {
	cfg := &config.Config{}
	if f.configFile != "" {
		loaded, err := config.Load(f.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	fl := cmd.Flags()
	if len(args) > 0 {
		cfg.Inputs = args
	}
	if fl.Changed("filtered") {
		cfg.Filtered = f.filtered
	}
	if fl.Changed("unfiltered") {
		cfg.Unfiltered = f.unfiltered
	}
	if fl.Changed("index") {
		cfg.Index = &f.index
	}
	if fl.Changed("index2") {
		cfg.Index2 = &f.index2
	}
	if fl.Changed("separator") {
		cfg.Separator = &f.separator
	}
	if fl.Changed("mismatches") {
		cfg.Mismatches = f.mismatches
	}
	if fl.Changed("verbose") {
		cfg.Verbose = f.verbose
	}
	if fl.Changed("summary-json") {
		cfg.SummaryJSON = f.summaryJSON
	}
	if fl.Changed("metrics-textfile") {
		cfg.MetricsTextfile = f.metricsTextfile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func execute(cfg *config.Config, f *flags, stdout, stderr io.Writer) error {
	log, err := logger.New(logger.Config{Verbosity: cfg.Verbose, Output: stderr})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if f.cpuprofile != "" {
		fh, err := os.Create(f.cpuprofile)
		if err != nil {
			return errors.Wrap(err, "could not create CPU profile")
		}
		defer fh.Close()
		if err := pprof.StartCPUProfile(fh); err != nil {
			return errors.Wrap(err, "could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
	}

	// reads own stdout when an output is "-"
	out := stdout
	if cfg.WritesStdout() {
		out = stderr
	}

	if err := report.Parameters(out, cfg); err != nil {
		return err
	}
	log.Info("starting run",
		zap.Strings("inputs", cfg.Inputs),
		zap.Stringer("targets", cfg.Targets()),
		zap.Int("mismatches", cfg.Mismatches),
		zap.Int("verbosity", cfg.Verbose),
	)

	start := time.Now()
	p := pipeline.New(pipeline.Options{
		Targets:    cfg.Targets(),
		Mismatches: cfg.Mismatches,
		Input: func() (pipeline.Source, error) {
			r, err := fastq.Open(cfg.Inputs...)
			if err != nil {
				return nil, err
			}
			return r, nil
		},
		Filtered:   sinkFor(cfg.Filtered, stdout),
		Unfiltered: sinkFor(cfg.Unfiltered, stdout),
		Logger:     log,
	})
	snap, err := p.Run()
	if err != nil {
		log.Error("run failed", zap.Stringer("state", p.State()), zap.Int("reads", snap.Total), zap.Error(err))
		return err
	}
	log.Info("run finished", zap.Int("reads", snap.Total), zap.Duration("elapsed", time.Since(start)))

	if err := report.Summary(out, snap, cfg.Passthrough()); err != nil {
		return err
	}
	if cfg.SummaryJSON != "" {
		if err := report.WriteJSON(cfg.SummaryJSON, snap); err != nil {
			return err
		}
	}
	if cfg.MetricsTextfile != "" {
		if err := report.WriteTextfile(cfg.MetricsTextfile, snap, time.Now()); err != nil {
			return err
		}
	}

	if f.memprofile != "" {
		fh, err := os.Create(f.memprofile)
		if err != nil {
			return errors.Wrap(err, "could not create memory profile")
		}
		defer fh.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.WriteHeapProfile(fh); err != nil {
			return errors.Wrap(err, "could not write memory profile")
		}
	}
	return nil
}

// sinkFor opens filename for writing when the run starts. No file, no sink.
// "-" writes to stdout without closing it.
func sinkFor(filename string, stdout io.Writer) pipeline.SinkOpener {
	switch filename {
	case "":
		return nil
	case config.Stdout:
		return func() (pipeline.Sink, error) {
			return fastq.NewStreamWriter(stdout, "stdout", fastq.DefaultCacheSize), nil
		}
	}
	return func() (pipeline.Sink, error) {
		w, err := fastq.NewRecordWriter(filename, fastq.DefaultCacheSize)
		if err != nil {
			return nil, err
		}
		return w, nil
	}
}
