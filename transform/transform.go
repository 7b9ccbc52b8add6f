// Package transform holds simple row transforms used by the walkthrough's
// feature-engineering steps: binarize a numeric column against a threshold
// and bucketize one into split-bounded bins. They operate on csv.Rows
// locally; anything heavier runs engine-side in SQL.
package transform

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/sparkprep/sparkprep/csv"
)

// Transformer mutates or annotates a single row.
type Transformer interface {
	Transform(r *csv.Row) error
}

// TransformerFunc can be wrapped around a function to make it implement the
// Transformer interface. Similar to http.HandlerFunc.
type TransformerFunc func(r *csv.Row) error

// Transform implements Transformer for TransformerFunc.
func (t TransformerFunc) Transform(r *csv.Row) error {
	return t(r)
}

// Apply runs r through each transformer in order, stopping at the first
// error.
func Apply(r *csv.Row, ts ...Transformer) error {
	for _, t := range ts {
		if err := t.Transform(r); err != nil {
			return err
		}
	}
	return nil
}

// Binarizer writes "1" to Out when Field's numeric value is strictly greater
// than Threshold and "0" otherwise. Out defaults to Field.
type Binarizer struct {
	Field     string
	Threshold float64
	Out       string
}

// Transform implements Transformer.
func (b *Binarizer) Transform(r *csv.Row) error {
	v, err := fieldValue(r, b.Field)
	if err != nil {
		return err
	}
	out := b.Out
	if out == "" {
		out = b.Field
	}
	if v > b.Threshold {
		r.Values[out] = "1"
	} else {
		r.Values[out] = "0"
	}
	return nil
}

// Bucketizer writes to Out the index of the half-open interval
// [Splits[i], Splits[i+1]) containing Field's numeric value. Splits must be
// ascending; values outside the covered range are an error. Out defaults to
// Field.
type Bucketizer struct {
	Field  string
	Splits []float64
	Out    string
}

// Transform implements Transformer.
func (b *Bucketizer) Transform(r *csv.Row) error {
	if len(b.Splits) < 2 {
		return errors.Errorf("bucketizing '%s': need at least 2 splits, have %d", b.Field, len(b.Splits))
	}
	for i := 1; i < len(b.Splits); i++ {
		if b.Splits[i] <= b.Splits[i-1] {
			return errors.Errorf("bucketizing '%s': splits not ascending at %d", b.Field, i)
		}
	}
	v, err := fieldValue(r, b.Field)
	if err != nil {
		return err
	}
	if v < b.Splits[0] || v >= b.Splits[len(b.Splits)-1] {
		return errors.Errorf("bucketizing '%s': %v outside [%v, %v)", b.Field, v, b.Splits[0], b.Splits[len(b.Splits)-1])
	}
	bucket := 0
	for v >= b.Splits[bucket+1] {
		bucket++
	}
	out := b.Out
	if out == "" {
		out = b.Field
	}
	r.Values[out] = strconv.Itoa(bucket)
	return nil
}

func fieldValue(r *csv.Row, field string) (float64, error) {
	raw, ok := r.Values[field]
	if !ok {
		return 0, errors.Errorf("field '%s' missing from row at %s:%d", field, r.Source, r.Line)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing '%s' at %s:%d", field, r.Source, r.Line)
	}
	return v, nil
}
