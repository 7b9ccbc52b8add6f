package csv

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sparkprep/sparkprep"
)

// Row is one data line of a primed archive. Values is keyed by the primed
// schema's column names; empty fields are omitted.
type Row struct {
	Values map[string]string
	Source string
	Line   int
}

// Source streams the data rows of primed local archives, checking each
// file's header against the schema they were primed with. Source is safe for
// concurrent use.
type Source struct {
	schema  sparkprep.Schema
	paths   []string
	bufSize int

	rows chan result
}

type result struct {
	row Row
	err error
}

// Option is a functional option to pass to NewSource.
type Option func(*Source)

// WithPaths returns an Option adding local archive paths to read from, in
// order.
func WithPaths(paths ...string) Option {
	return func(s *Source) {
		s.paths = append(s.paths, paths...)
	}
}

// WithBufferSize returns an Option setting how many rows to buffer ahead of
// Row being called.
func WithBufferSize(n int) Option {
	return func(s *Source) {
		if n > 0 {
			s.bufSize = n
		}
	}
}

// NewSource creates a Source over archives primed with schema. e.g.
//
// src := csv.NewSource(schema, csv.WithPaths("data/trips-08.csv", "data/trips-09.csv"))
func NewSource(schema sparkprep.Schema, opts ...Option) *Source {
	s := &Source{schema: schema}
	for _, opt := range opts {
		opt(s)
	}
	s.rows = make(chan result, s.bufSize)
	go s.run()
	return s
}

// Row returns the next data row across all paths, and io.EOF once every
// archive is drained.
func (s *Source) Row() (Row, error) {
	res, ok := <-s.rows
	if !ok {
		return Row{}, io.EOF
	}
	return res.row, res.err
}

func (s *Source) run() {
	defer close(s.rows)
	for _, path := range s.paths {
		if err := s.scanFile(path); err != nil {
			s.rows <- result{err: err}
			return
		}
	}
}

func (s *Source) scanFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening archive")
	}
	defer f.Close()

	scan := bufio.NewScanner(f)
	if !scan.Scan() {
		if err := scan.Err(); err != nil {
			return errors.Wrapf(err, "scanning header of '%s'", path)
		}
		return errors.Errorf("no header line in '%s'", path)
	}
	if err := s.checkHeader(strings.Split(scan.Text(), ",")); err != nil {
		return errors.Wrapf(err, "checking header of '%s'", path)
	}

	line := 1
	for scan.Scan() {
		line++
		txt := scan.Text()
		if strings.TrimSpace(txt) == "" {
			continue
		}
		fields := strings.Split(txt, ",")
		if len(fields) != len(s.schema) {
			s.rows <- result{err: errors.Errorf("line %d of '%s': %d fields, header has %d", line, path, len(fields), len(s.schema))}
			continue
		}
		vals := make(map[string]string, len(fields))
		for i, col := range s.schema {
			if fields[i] == "" {
				continue
			}
			vals[col.Name] = fields[i]
		}
		s.rows <- result{row: Row{Values: vals, Source: path, Line: line}}
	}
	return errors.Wrapf(scan.Err(), "scanning '%s'", path)
}

func (s *Source) checkHeader(header []string) error {
	if len(header) != len(s.schema) {
		return errors.Errorf("%d columns, schema has %d", len(header), len(s.schema))
	}
	for i, h := range header {
		if strings.TrimSpace(h) != s.schema[i].Name {
			return errors.Errorf("column %d is '%s', schema says '%s'", i, h, s.schema[i].Name)
		}
	}
	return nil
}
