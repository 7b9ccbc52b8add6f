// Package features implements the features subcommand: stream primed
// archives through the binarize/bucketize transforms and write the derived
// columns out as a new archive directory, ready to register alongside (or
// instead of) the raw one.
package features

import (
	"bufio"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sparkprep/sparkprep"
	"github.com/sparkprep/sparkprep/csv"
	"github.com/sparkprep/sparkprep/transform"
	"github.com/sparkprep/sparkprep/usecase/prime"
)

// Main holds the options for deriving feature columns.
type Main struct {
	prime.Main `flag:"!embed"`

	OutDir    string   `help:"Directory to write derived archives into. Created if absent."`
	Binarize  []string `help:"Binarize specs, field:threshold:out. e.g. Tip_amount:2:Tipped_well"`
	Bucketize []string `help:"Bucketize specs, field:split|split|...:out. e.g. Trip_distance:0|1|5|25:Distance_bucket"`
}

func NewMain() *Main {
	return &Main{
		Main:   *prime.NewMain(),
		OutDir: "webinar-features",
		Binarize: []string{
			"Tip_amount:2:Tipped_well",
		},
		Bucketize: []string{
			"Trip_distance:0|1|5|25:Distance_bucket",
		},
	}
}

// Run primes the archives, then rewrites each one with the derived columns
// appended.
func (m *Main) Run() error {
	paths, err := m.Prime()
	if err != nil {
		return err
	}
	schema, err := sparkprep.DeriveSchema(paths[0], m.SampleRows)
	if err != nil {
		return err
	}
	ts, outs, err := m.transformers()
	if err != nil {
		return err
	}
	outSchema := derivedSchema(schema, outs)

	if err := os.MkdirAll(m.OutDir, 0755); err != nil {
		return errors.Wrap(err, "creating feature directory")
	}
	for _, path := range paths {
		outPath := filepath.Join(m.OutDir, filepath.Base(path))
		n, err := deriveFile(path, outPath, schema, outSchema, ts)
		if err != nil {
			return err
		}
		log.Printf("derived %s: %d rows", outPath, n)
	}
	return nil
}

// transformers builds the transform list from the Binarize and Bucketize
// specs, returning the derived column names in spec order.
func (m *Main) transformers() ([]transform.Transformer, []string, error) {
	var ts []transform.Transformer
	var outs []string
	for _, spec := range m.Binarize {
		b, err := parseBinarize(spec)
		if err != nil {
			return nil, nil, err
		}
		ts = append(ts, b)
		outs = append(outs, b.Out)
	}
	for _, spec := range m.Bucketize {
		b, err := parseBucketize(spec)
		if err != nil {
			return nil, nil, err
		}
		ts = append(ts, b)
		outs = append(outs, b.Out)
	}
	if len(ts) == 0 {
		return nil, nil, errors.New("no transforms specified")
	}
	return ts, outs, nil
}

func parseBinarize(spec string) (*transform.Binarizer, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
		return nil, errors.Errorf("binarize spec '%s' is not field:threshold:out", spec)
	}
	threshold, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing threshold of '%s'", spec)
	}
	return &transform.Binarizer{Field: parts[0], Threshold: threshold, Out: parts[2]}, nil
}

func parseBucketize(spec string) (*transform.Bucketizer, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
		return nil, errors.Errorf("bucketize spec '%s' is not field:splits:out", spec)
	}
	var splits []float64
	for _, s := range strings.Split(parts[1], "|") {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing split of '%s'", spec)
		}
		splits = append(splits, v)
	}
	return &transform.Bucketizer{Field: parts[0], Splits: splits, Out: parts[2]}, nil
}

// derivedSchema appends each new out column to the primed schema, still all
// text. Transforms that rewrite an existing column in place add nothing.
func derivedSchema(schema sparkprep.Schema, outs []string) sparkprep.Schema {
	derived := append(sparkprep.Schema{}, schema...)
	have := make(map[string]bool, len(schema))
	for _, col := range schema {
		have[col.Name] = true
	}
	for _, out := range outs {
		if have[out] {
			continue
		}
		have[out] = true
		derived = append(derived, sparkprep.Column{Name: out, Type: sparkprep.TypeText})
	}
	return derived
}

func deriveFile(path, outPath string, schema, outSchema sparkprep.Schema, ts []transform.Transformer) (n int, err error) {
	f, err := os.Create(outPath)
	if err != nil {
		return 0, errors.Wrap(err, "creating derived archive")
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	names := outSchema.Names()
	if _, err := w.WriteString(strings.Join(names, ",") + "\n"); err != nil {
		return 0, errors.Wrap(err, "writing header")
	}

	src := csv.NewSource(schema, csv.WithPaths(path), csv.WithBufferSize(1024))
	fields := make([]string, len(names))
	for {
		row, err := src.Row()
		if err == io.EOF {
			break
		}
		if err != nil {
			return n, err
		}
		if err := transform.Apply(&row, ts...); err != nil {
			return n, err
		}
		for i, name := range names {
			fields[i] = row.Values[name]
		}
		if _, err := w.WriteString(strings.Join(fields, ",") + "\n"); err != nil {
			return n, errors.Wrap(err, "writing row")
		}
		n++
	}
	if err := w.Flush(); err != nil {
		return n, errors.Wrap(err, "flushing derived archive")
	}
	return n, nil
}
