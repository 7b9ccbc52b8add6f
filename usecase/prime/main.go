// Package prime implements the prime subcommand: make sure every archive
// exists locally, record it in the manifest, and report the derived schema.
package prime

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sparkprep/sparkprep"
	"github.com/sparkprep/sparkprep/s3"
)

// Main holds the options for priming archives.
type Main struct {
	Dir        string   `help:"Directory to store primed archives. Created if absent."`
	URLs       []string `help:"Archive URLs to prime. May be http(s), s3://, or local paths."`
	SampleRows int      `help:"Data rows to sample when deriving the schema."`
	Region     string   `help:"AWS region for s3:// URLs."`
	Manifest   string   `help:"Path of the prime manifest db. Defaults to <dir>.manifest.db."`

	Out io.Writer `flag:"-"`
}

// NewMain returns a Main primed (sorry) with defaults: the two public green
// trip archives the webinar walks through.
func NewMain() *Main {
	return &Main{
		Dir: "webinar-data",
		URLs: []string{
			"https://s3.amazonaws.com/nyc-tlc/trip+data/green_tripdata_2013-08.csv",
			"https://s3.amazonaws.com/nyc-tlc/trip+data/green_tripdata_2013-09.csv",
		},
		SampleRows: sparkprep.DefaultSampleRows,
		Region:     "us-east-1",

		Out: os.Stdout,
	}
}

// Run primes every archive and prints the schema derived from the first one
// as JSON.
func (m *Main) Run() error {
	paths, err := m.Prime()
	if err != nil {
		return err
	}
	schema, err := sparkprep.DeriveSchema(paths[0], m.SampleRows)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(m.Out)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(schema), "encoding schema")
}

// Prime ensures every URL exists under Dir and returns the local paths in
// URL order. Archives already on disk cost no network access; newly fetched
// ones are sized, hashed and recorded in the manifest.
func (m *Main) Prime() ([]string, error) {
	if len(m.URLs) == 0 {
		return nil, errors.New("no archive urls to prime")
	}
	if err := os.MkdirAll(m.Dir, 0755); err != nil {
		return nil, errors.Wrap(err, "creating data directory")
	}
	manPath := m.Manifest
	if manPath == "" {
		// next to the data directory, not inside it - the engine reads the
		// whole directory as csv
		manPath = filepath.Clean(m.Dir) + ".manifest.db"
	}
	man, err := sparkprep.NewManifest(manPath)
	if err != nil {
		return nil, err
	}
	defer man.Close()

	paths := make([]string, 0, len(m.URLs))
	for _, url := range m.URLs {
		path := filepath.Join(m.Dir, sparkprep.LocalName(url))
		start := time.Now()
		if err := sparkprep.EnsureLocalWith(m.opener(url), url, path); err != nil {
			return nil, err
		}
		_, ok, err := man.Get(url)
		if err != nil {
			return nil, err
		}
		if ok {
			log.Printf("%s already primed", path)
		} else {
			info, err := sparkprep.Describe(url, path)
			if err != nil {
				return nil, err
			}
			if err := man.Record(info); err != nil {
				return nil, err
			}
			log.Printf("primed %s: %d bytes in %s", path, info.Bytes, time.Since(start))
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (m *Main) opener(url string) sparkprep.Opener {
	if strings.HasPrefix(url, "s3://") {
		return &s3.Opener{Region: m.Region}
	}
	return sparkprep.DefaultOpener
}
