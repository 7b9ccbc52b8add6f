package sparkprep

import (
	"bufio"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// TypeText is the declared type assigned to every primed column. Types are
// never inferred from content here; the engine casts later.
const TypeText = "text"

// DefaultSampleRows is the number of data lines DeriveSchema samples when
// the caller passes a non-positive count.
const DefaultSampleRows = 5

// Column is a named column with its declared type.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Schema is the ordered column list derived from an archive header.
type Schema []Column

// Names returns the column names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, col := range s {
		names[i] = col.Name
	}
	return names
}

// TransferError is returned when fetching an archive or persisting it to
// disk fails. The target path is left absent - never truncated.
type TransferError struct {
	URL  string
	Path string
	Err  error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transferring '%s' to '%s': %v", e.URL, e.Path, e.Err)
}

// Cause implements the pkg/errors causer interface.
func (e *TransferError) Cause() error { return e.Err }

// SchemaError is returned when an archive is empty or its header line is
// unusable.
type SchemaError struct {
	Path string
	Err  error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("deriving schema from '%s': %v", e.Path, e.Err)
}

// Cause implements the pkg/errors causer interface.
func (e *SchemaError) Cause() error { return e.Err }

// EnsureLocal makes sure the archive at url exists at path, fetching it with
// the DefaultOpener if it doesn't. See EnsureLocalWith.
func EnsureLocal(url, path string) error {
	return EnsureLocalWith(DefaultOpener, url, path)
}

// EnsureLocalWith is EnsureLocal with an explicit Opener (e.g. the s3
// package's). If path already exists the opener is never invoked, so
// repeated calls fetch at most once. On failure no partial file is left at
// path: content is written to a temp file in the same directory and renamed
// into place only after a complete copy.
func EnsureLocalWith(opener Opener, url, path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return &TransferError{URL: url, Path: path, Err: errors.Wrap(err, "statting target")}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &TransferError{URL: url, Path: path, Err: errors.Wrap(err, "creating data directory")}
	}

	content, err := opener.Open(url)
	if err != nil {
		return &TransferError{URL: url, Path: path, Err: err}
	}
	defer content.Close()

	tmp, err := ioutil.TempFile(filepath.Dir(path), "."+filepath.Base(path)+".fetch")
	if err != nil {
		return &TransferError{URL: url, Path: path, Err: errors.Wrap(err, "creating temp file")}
	}
	n, err := io.Copy(tmp, content)
	if err == nil && n == 0 {
		err = errors.New("empty response")
	}
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return &TransferError{URL: url, Path: path, Err: errors.Wrap(err, "copying content")}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return &TransferError{URL: url, Path: path, Err: errors.Wrap(err, "closing temp file")}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return &TransferError{URL: url, Path: path, Err: errors.Wrap(err, "moving into place")}
	}
	return nil
}

// DeriveSchema reads the header line of the delimited file at path plus at
// most sampleRows data lines (DefaultSampleRows if non-positive) and returns
// one text-typed Column per header token. The file is never read end to end;
// the archives this feeds are far too large for that.
func DeriveSchema(path string, sampleRows int) (Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &SchemaError{Path: path, Err: errors.Wrap(err, "opening")}
	}
	defer f.Close()
	schema, err := deriveSchema(f, sampleRows)
	if err != nil {
		return nil, &SchemaError{Path: path, Err: err}
	}
	return schema, nil
}

func deriveSchema(r io.Reader, sampleRows int) (Schema, error) {
	if sampleRows <= 0 {
		sampleRows = DefaultSampleRows
	}
	scan := bufio.NewScanner(r)
	if !scan.Scan() {
		if err := scan.Err(); err != nil {
			return nil, errors.Wrap(err, "scanning header")
		}
		return nil, errors.New("no header line")
	}
	header := strings.Split(scan.Text(), ",")
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	// Peek at a handful of data lines so ragged files fail loudly at prime
	// time instead of at load time. This is a sample, not a scan.
	for i := 0; i < sampleRows && scan.Scan(); i++ {
		txt := scan.Text()
		if strings.TrimSpace(txt) == "" {
			continue
		}
		if got := len(strings.Split(txt, ",")); got != len(header) {
			log.Printf("sampled line %d has %d fields, header has %d", i+1, got, len(header))
		}
	}

	schema := make(Schema, len(header))
	for i, name := range header {
		schema[i] = Column{Name: strings.TrimSpace(name), Type: TypeText}
	}
	return schema, nil
}

func validateHeader(header []string) error {
	fields := make(map[string]int)
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			return errors.Errorf("header contains empty name at %d: %v", i, header)
		}
		if pos, exists := fields[h]; exists {
			return errors.Errorf("'%s' appears at both %d and %d in header", h, pos, i)
		}
		fields[h] = i
	}
	return nil
}
