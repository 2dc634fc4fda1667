package fastq

import (
	"io"
	"sync"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/xopen"
)

// DefaultCacheSize is how many records a RecordWriter batches per flush.
const DefaultCacheSize = 128

// RecordWriter writes records in an async fashion: records are formatted on
// the caller's goroutine and handed over in batches to a single writer
// goroutine, so output order matches call order.
// Call Close() when you're done!
type RecordWriter struct {
	filename  string
	writer    io.Writer
	closeFn   func() error
	cache     []byte
	cached    int
	cachesize int
	batches   chan []byte
	done      chan struct{}

	mu  sync.Mutex
	err error

	closed bool
}

// NewRecordWriter creates a writer for filename, compressing according to
// its extension.
// cachesize: How many records to buffer at a time
func NewRecordWriter(filename string, cachesize int) (*RecordWriter, error) {
	writer, err := xopen.Wopen(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", filename)
	}
	return newRecordWriter(filename, writer, writer.Close, cachesize), nil
}

// NewStreamWriter writes uncompressed records to out, which Close leaves
// open. name is only used in error messages.
func NewStreamWriter(out io.Writer, name string, cachesize int) *RecordWriter {
	return newRecordWriter(name, out, func() error { return nil }, cachesize)
}

func newRecordWriter(name string, out io.Writer, closeFn func() error, cachesize int) *RecordWriter {
	if cachesize < 1 {
		cachesize = 1
	}
	w := &RecordWriter{
		filename:  name,
		writer:    out,
		closeFn:   closeFn,
		cachesize: cachesize,
		batches:   make(chan []byte),
		done:      make(chan struct{}),
	}
	go w.drain()
	return w
}

func (w *RecordWriter) drain() {
	defer close(w.done)
	for batch := range w.batches {
		if w.failed() != nil {
			continue
		}
		if _, err := w.writer.Write(batch); err != nil {
			w.setErr(errors.Wrapf(err, "write %s", w.filename))
		}
	}
}

func (w *RecordWriter) failed() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

func (w *RecordWriter) setErr(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err == nil {
		w.err = err
	}
}

// Write queues record. It reports any error the writer goroutine has hit so
// far.
func (w *RecordWriter) Write(record *fastx.Record) error {
	if w.closed {
		return errors.Errorf("write %s: writer is closed", w.filename)
	}
	w.cache = append(w.cache, record.Format(0)...)
	w.cached++
	if w.cached == w.cachesize {
		w.Flush()
	}
	return w.failed()
}

// Flush hands the cached records to the writer goroutine.
func (w *RecordWriter) Flush() {
	if w.cached == 0 {
		return
	}
	w.batches <- w.cache
	// the goroutine owns the sent batch now
	w.cache = make([]byte, 0, cap(w.cache))
	w.cached = 0
}

// Close flushes what is left, waits for the writer goroutine and closes the
// underlying file, if the writer opened one. Only the first call does
// anything.
func (w *RecordWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.Flush()
	close(w.batches)
	<-w.done

	if err := w.closeFn(); err != nil {
		w.setErr(errors.Wrapf(err, "close %s", w.filename))
	}
	return w.failed()
}
