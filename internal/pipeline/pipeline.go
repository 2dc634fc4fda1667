package pipeline

import (
	"io"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seqio/fastx"
	"go.uber.org/zap"

	"github.com/Altius/stampipes/programs/filter_index/internal/classify"
	"github.com/Altius/stampipes/programs/filter_index/internal/stats"
)

// State is where a Pipeline is in its run.
type State int

// Run moves a Pipeline from Init through Validating and Streaming to either
// Finalized or Failed.
const (
	Init       State = iota // not yet run
	Validating              // checking targets and budget
	Streaming               // resources open, records flowing
	Finalized               // every record handled, sinks closed
	Failed                  // stopped on an error, everything closed
)

func (s State) String() string {
	switch s {
	case Init:
		return "init"
	case Validating:
		return "validating"
	case Streaming:
		return "streaming"
	case Finalized:
		return "finalized"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Source produces records in order; Read returns io.EOF at the end.
type Source interface {
	Read() (*fastx.Record, error)
	Close() error
}

// Sink receives the records of one outcome.
type Sink interface {
	Write(*fastx.Record) error
	Close() error
}

// SourceOpener and SinkOpener are called by Run once the configuration is
// valid, so nothing is opened for a run that cannot start.
type (
	SourceOpener func() (Source, error)
	SinkOpener   func() (Sink, error)
)

// ErrAlreadyRun is returned when Run is called on a used Pipeline.
var ErrAlreadyRun = errors.New("pipeline has already run")

// Options configures one run. Filtered and Unfiltered may be nil, in which
// case reads with that outcome are counted and dropped.
type Options struct {
	Targets    classify.Targets
	Mismatches int

	Input      SourceOpener
	Filtered   SinkOpener
	Unfiltered SinkOpener

	Logger *zap.Logger
}

// Pipeline runs Options once.
type Pipeline struct {
	opts  Options
	log   *zap.Logger
	state State
}

// New returns a Pipeline in the Init state. A nil Logger discards logs.
func New(opts Options) *Pipeline {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{opts: opts, log: log}
}

// State reports the current state.
func (p *Pipeline) State() State { return p.state }

// Run validates the configuration, streams every input record and returns
// the counts. On error the counts cover the records handled before it, and
// whatever was already written to the sinks stays there.
func (p *Pipeline) Run() (stats.Snapshot, error) {
	if p.state != Init {
		return stats.Snapshot{}, ErrAlreadyRun
	}

	p.state = Validating
	policy, err := classify.NewPolicy(p.opts.Targets, p.opts.Mismatches)
	if err != nil {
		p.state = Failed
		return stats.Snapshot{}, err
	}
	agg := stats.NewAggregator(policy.MaxTracked(), policy.Passthrough())

	res, err := p.open()
	if err != nil {
		p.state = Failed
		return agg.Snapshot(), err
	}

	p.state = Streaming
	err = p.stream(policy, agg, res)
	if cerr := res.close(); err == nil {
		err = cerr
	}
	if err != nil {
		p.state = Failed
		return agg.Snapshot(), err
	}
	p.state = Finalized
	return agg.Snapshot(), nil
}

func (p *Pipeline) stream(policy *classify.Policy, agg *stats.Aggregator, res *resources) error {
	for n := 1; ; n++ {
		record, err := res.input.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		out, err := policy.Classify(string(record.Name))
		if err != nil {
			return errors.Wrapf(err, "record %d", n)
		}
		agg.Add(out)
		p.logRecord(record, out)

		sink := res.unfiltered
		if out.Filtered {
			sink = res.filtered
		}
		if sink == nil {
			continue
		}
		if err := sink.Write(record); err != nil {
			return errors.Wrapf(err, "record %d", n)
		}
	}
}

func (p *Pipeline) logRecord(record *fastx.Record, out classify.Outcome) {
	ce := p.log.Check(zap.DebugLevel, "read")
	if ce == nil {
		return
	}
	if out.Passthrough {
		ce.Write(zap.ByteString("name", record.Name), zap.Bool("passthrough", true), zap.Bool("filtered", true))
		return
	}
	ce.Write(
		zap.ByteString("name", record.Name),
		zap.String("index", out.Index),
		zap.Int("mismatches", out.Mismatches),
		zap.Bool("filtered", out.Filtered),
	)
}

type resources struct {
	input      Source
	filtered   Sink
	unfiltered Sink
}

// open acquires the input and then each configured sink. If any of them
// fails, the ones already opened are closed again.
func (p *Pipeline) open() (*resources, error) {
	if p.opts.Input == nil {
		return nil, errors.New("no input configured")
	}
	res := &resources{}
	input, err := p.opts.Input()
	if err != nil {
		return nil, err
	}
	res.input = input

	if p.opts.Filtered != nil {
		if res.filtered, err = p.opts.Filtered(); err != nil {
			res.filtered = nil
			_ = res.close()
			return nil, errors.Wrap(err, "open filtered output")
		}
	}
	if p.opts.Unfiltered != nil {
		if res.unfiltered, err = p.opts.Unfiltered(); err != nil {
			res.unfiltered = nil
			_ = res.close()
			return nil, errors.Wrap(err, "open unfiltered output")
		}
	}
	return res, nil
}

// close closes sinks before the input and returns the first error.
func (res *resources) close() error {
	var first error
	keep := func(err error) {
		if first == nil && err != nil {
			first = err
		}
	}
	if res.filtered != nil {
		keep(errors.Wrap(res.filtered.Close(), "close filtered output"))
	}
	if res.unfiltered != nil {
		keep(errors.Wrap(res.unfiltered.Close(), "close unfiltered output"))
	}
	if res.input != nil {
		keep(res.input.Close())
	}
	return first
}
