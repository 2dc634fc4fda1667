// Package fastq reads and writes sequence records with shenwei356/bio,
// opening plain or compressed files by extension.
package fastq

import (
	"io"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/xopen"
)

// Reader yields the records of several files one after another, in the
// order the files were given. "-" reads stdin.
type Reader struct {
	paths   []string
	next    int
	cur     *fastx.Reader
	curPath string
}

// Open opens the first of paths; the rest are opened as they are reached.
func Open(paths ...string) (*Reader, error) {
	if len(paths) == 0 {
		return nil, errors.New("no input files")
	}
	r := &Reader{paths: paths}
	if err := r.advance(); err != nil {
		return nil, err
	}
	return r, nil
}

// advance opens the next non-empty file, if any.
func (r *Reader) advance() error {
	for r.next < len(r.paths) {
		path := r.paths[r.next]
		r.next++
		fq, err := fastx.NewReader(seq.Unlimit, path, "")
		if errors.Is(err, xopen.ErrNoContent) {
			continue
		}
		if err != nil {
			return errors.Wrapf(err, "open %s", path)
		}
		r.cur, r.curPath = fq, path
		return nil
	}
	return nil
}

// Read returns the next record, or io.EOF once every file is exhausted.
// The record is only valid until the next call.
func (r *Reader) Read() (*fastx.Record, error) {
	for r.cur != nil {
		record, err := r.cur.Read()
		if err == nil {
			return record, nil
		}
		if err != io.EOF {
			return nil, errors.Wrapf(err, "read %s", r.curPath)
		}
		r.cur.Close()
		r.cur = nil
		if err := r.advance(); err != nil {
			return nil, err
		}
	}
	return nil, io.EOF
}

// Close closes the file currently being read. It is safe to call twice.
func (r *Reader) Close() error {
	if r.cur != nil {
		r.cur.Close()
		r.cur = nil
	}
	return nil
}
