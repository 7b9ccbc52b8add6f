package csv_test

import (
	"io"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/sparkprep/sparkprep"
	"github.com/sparkprep/sparkprep/csv"
)

var schema = sparkprep.Schema{
	{Name: "blah", Type: sparkprep.TypeText},
	{Name: "bleh", Type: sparkprep.TypeText},
	{Name: "blue", Type: sparkprep.TypeText},
}

func mustWriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := ioutil.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return path
}

func TestSource(t *testing.T) {
	dir := t.TempDir()
	path := mustWriteFile(t, dir, "data.csv", `blah,bleh,blue
1,asdf,3

2,,4
`)

	src := csv.NewSource(schema, csv.WithPaths(path))
	row, err := src.Row()
	if err != nil {
		t.Fatalf("getting first row: %v", err)
	}
	if row.Values["blah"] != "1" || row.Values["bleh"] != "asdf" || row.Values["blue"] != "3" {
		t.Fatalf("wrong first row: %v", row.Values)
	}
	if row.Line != 2 || row.Source != path {
		t.Fatalf("wrong row position: %+v", row)
	}

	// blank line skipped, empty field omitted
	row, err = src.Row()
	if err != nil {
		t.Fatalf("getting second row: %v", err)
	}
	if len(row.Values) != 2 || row.Values["blah"] != "2" || row.Values["blue"] != "4" {
		t.Fatalf("wrong second row: %v", row.Values)
	}
	if row.Line != 4 {
		t.Fatalf("blank line miscounted: %+v", row)
	}

	if _, err = src.Row(); err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestSourceMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	a := mustWriteFile(t, dir, "a.csv", "blah,bleh,blue\n1,2,3\n")
	b := mustWriteFile(t, dir, "b.csv", "blah,bleh,blue\n4,5,6\n")

	src := csv.NewSource(schema, csv.WithPaths(a, b), csv.WithBufferSize(10))
	var rows int
	for {
		row, err := src.Row()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("getting row: %v", err)
		}
		rows++
		if rows == 2 && row.Source != b {
			t.Fatalf("second row from wrong file: %+v", row)
		}
	}
	if rows != 2 {
		t.Fatalf("expected 2 rows, got %d", rows)
	}
}

func TestSourceHeaderMismatch(t *testing.T) {
	dir := t.TempDir()
	path := mustWriteFile(t, dir, "bad.csv", "blah,nope,blue\n1,2,3\n")

	src := csv.NewSource(schema, csv.WithPaths(path))
	if _, err := src.Row(); err == nil {
		t.Fatal("expected header mismatch error")
	}
	if _, err := src.Row(); err != io.EOF {
		t.Fatalf("expected EOF after fatal error, got %v", err)
	}
}

func TestSourceRaggedRow(t *testing.T) {
	dir := t.TempDir()
	path := mustWriteFile(t, dir, "ragged.csv", "blah,bleh,blue\n1,2\n3,4,5\n")

	src := csv.NewSource(schema, csv.WithPaths(path))
	if _, err := src.Row(); err == nil {
		t.Fatal("expected error for ragged row")
	}
	row, err := src.Row()
	if err != nil {
		t.Fatalf("source should keep going after ragged row: %v", err)
	}
	if row.Values["blah"] != "3" {
		t.Fatalf("wrong row after ragged: %v", row.Values)
	}
}
