package webinar_test

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apache/spark-connect-go/v34/client/sql"
	"github.com/sparkprep/sparkprep"
	"github.com/sparkprep/sparkprep/spark"
	"github.com/sparkprep/sparkprep/usecase/webinar"
)

type fakeSession struct {
	queries []string
}

func (f *fakeSession) Sql(query string) (sql.DataFrame, error) {
	f.queries = append(f.queries, query)
	return nil, nil
}

func (f *fakeSession) Stop() error { return nil }

func TestLoad(t *testing.T) {
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "trips.csv")
	if err := ioutil.WriteFile(src, []byte("VendorID,Trip_distance\n2,1.71\n"), 0644); err != nil {
		t.Fatalf("writing source: %v", err)
	}

	m := webinar.NewMain()
	m.Dir = filepath.Join(t.TempDir(), "data")
	m.URLs = []string{src}
	m.Queries = nil

	paths, err := m.Prime()
	if err != nil {
		t.Fatalf("priming: %v", err)
	}
	schema, err := sparkprep.DeriveSchema(paths[0], m.SampleRows)
	if err != nil {
		t.Fatalf("deriving schema: %v", err)
	}

	sess := &fakeSession{}
	if err := m.Load(spark.NewRegistrar(sess), schema); err != nil {
		t.Fatalf("loading: %v", err)
	}
	if len(sess.queries) != 2 {
		t.Fatalf("expected register + cache, got %v", sess.queries)
	}
	if !strings.HasPrefix(sess.queries[0], "CREATE TEMPORARY VIEW `trips` (`VendorID` STRING, `Trip_distance` STRING)") {
		t.Fatalf("wrong register statement: %s", sess.queries[0])
	}
	if !strings.Contains(sess.queries[0], "inferSchema 'false'") {
		t.Fatalf("inference not disabled: %s", sess.queries[0])
	}
	if sess.queries[1] != "CACHE TABLE `trips`" {
		t.Fatalf("wrong cache statement: %s", sess.queries[1])
	}
}

func TestLoadNoCache(t *testing.T) {
	m := webinar.NewMain()
	m.Dir = "data"
	m.Cache = false
	m.Queries = nil

	sess := &fakeSession{}
	schema := sparkprep.Schema{{Name: "A", Type: sparkprep.TypeText}}
	if err := m.Load(spark.NewRegistrar(sess), schema); err != nil {
		t.Fatalf("loading: %v", err)
	}
	if len(sess.queries) != 1 {
		t.Fatalf("expected register only, got %v", sess.queries)
	}
}
