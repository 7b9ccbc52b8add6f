// Package spark registers primed archives as named tables on a Spark
// cluster over Spark Connect and runs SQL against them. The engine is an
// opaque remote service: nothing here plans, caches, or executes anything
// itself.
package spark

import (
	"fmt"
	"strings"

	"github.com/apache/spark-connect-go/v34/client/sql"
	"github.com/pkg/errors"
	"github.com/sparkprep/sparkprep"
)

// Session is the slice of the Spark Connect client used here.
type Session interface {
	Sql(query string) (sql.DataFrame, error)
	Stop() error
}

// Connect builds a Spark Connect session for a remote address like
// "sc://localhost:15002".
func Connect(remote string) (Session, error) {
	s, err := sql.SparkSession.Builder.Remote(remote).Build()
	if err != nil {
		return nil, errors.Wrap(err, "building spark session")
	}
	return s, nil
}

// Registrar names primed archives as tables on one session.
type Registrar struct {
	s Session
}

// NewRegistrar wraps an existing session. The caller keeps ownership unless
// it lets Close stop it.
func NewRegistrar(s Session) *Registrar {
	return &Registrar{s: s}
}

// RegisterCSV registers the csv archives under dir as table with an
// explicit all-string column list. Schema inference stays off - the files
// are header-first text by the priming contract - and nothing is loaded
// into memory; caching is a separate, deliberate step.
func (r *Registrar) RegisterCSV(table, dir string, schema sparkprep.Schema) error {
	if len(schema) == 0 {
		return errors.Errorf("registering '%s': empty schema", table)
	}
	stmt := fmt.Sprintf(
		"CREATE TEMPORARY VIEW `%s` (%s) USING csv OPTIONS (path '%s', header 'true', inferSchema 'false')",
		table, DDL(schema), dir)
	_, err := r.s.Sql(stmt)
	return errors.Wrapf(err, "registering '%s'", table)
}

// Cache asks the engine to pin table in cluster memory.
func (r *Registrar) Cache(table string) error {
	_, err := r.s.Sql(fmt.Sprintf("CACHE TABLE `%s`", table))
	return errors.Wrapf(err, "caching '%s'", table)
}

// SQL runs one query on the session.
func (r *Registrar) SQL(query string) (sql.DataFrame, error) {
	df, err := r.s.Sql(query)
	return df, errors.Wrap(err, "running sql")
}

// Show runs query and prints up to n rows of the result.
func (r *Registrar) Show(query string, n int) error {
	df, err := r.s.Sql(query)
	if err != nil {
		return errors.Wrap(err, "running sql")
	}
	return errors.Wrap(df.Show(n, false), "showing result")
}

// Close stops the underlying session.
func (r *Registrar) Close() error {
	return r.s.Stop()
}

// DDL renders schema as a Spark column list. Every primed column is declared
// text, so every rendered column is STRING.
func DDL(schema sparkprep.Schema) string {
	cols := make([]string, len(schema))
	for i, c := range schema {
		cols[i] = fmt.Sprintf("`%s` STRING", c.Name)
	}
	return strings.Join(cols, ", ")
}
