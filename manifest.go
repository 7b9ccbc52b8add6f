package sparkprep

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"
)

var archiveBucket = []byte("archives")

// ArchiveInfo describes a primed archive.
type ArchiveInfo struct {
	URL       string    `json:"url"`
	Path      string    `json:"path"`
	Bytes     int64     `json:"bytes"`
	SHA256    string    `json:"sha256"`
	FetchedAt time.Time `json:"fetched-at"`
}

// Manifest is a boltdb-backed record of which archives have been primed into
// a data directory. It is advisory: EnsureLocal is correct without it, but
// recording size and digest at prime time means later runs can report on
// multi-gigabyte archives without re-hashing them.
type Manifest struct {
	db *bolt.DB
}

// NewManifest opens (creating if needed) the manifest db at filename.
func NewManifest(filename string) (*Manifest, error) {
	db, err := bolt.Open(filename, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "opening manifest db '%v'", filename)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(archiveBucket)
		return errors.Wrap(err, "creating archives bucket")
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Manifest{db: db}, nil
}

// Record stores info keyed by its URL, replacing any previous entry.
func (m *Manifest) Record(info ArchiveInfo) error {
	val, err := json.Marshal(info)
	if err != nil {
		return errors.Wrap(err, "marshalling archive info")
	}
	return m.db.Update(func(tx *bolt.Tx) error {
		return errors.Wrap(tx.Bucket(archiveBucket).Put([]byte(info.URL), val), "putting archive info")
	})
}

// Get returns the recorded info for url, and whether any was recorded.
func (m *Manifest) Get(url string) (info ArchiveInfo, ok bool, err error) {
	err = m.db.View(func(tx *bolt.Tx) error {
		val := tx.Bucket(archiveBucket).Get([]byte(url))
		if val == nil {
			return nil
		}
		ok = true
		return errors.Wrap(json.Unmarshal(val, &info), "unmarshalling archive info")
	})
	return info, ok, err
}

// All returns every recorded archive in key order.
func (m *Manifest) All() ([]ArchiveInfo, error) {
	var infos []ArchiveInfo
	err := m.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(archiveBucket).ForEach(func(k, v []byte) error {
			var info ArchiveInfo
			if err := json.Unmarshal(v, &info); err != nil {
				return errors.Wrapf(err, "unmarshalling archive info for '%s'", k)
			}
			infos = append(infos, info)
			return nil
		})
	})
	return infos, err
}

// Close syncs and closes the underlying db.
func (m *Manifest) Close() error {
	return m.db.Close()
}

// Describe stats and hashes the primed file at path. This is the one place
// that reads an archive end to end, and it only runs the first time an
// archive is recorded.
func Describe(url, path string) (ArchiveInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return ArchiveInfo{}, errors.Wrap(err, "opening archive")
	}
	defer f.Close()
	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return ArchiveInfo{}, errors.Wrap(err, "hashing archive")
	}
	return ArchiveInfo{
		URL:       url,
		Path:      path,
		Bytes:     n,
		SHA256:    hex.EncodeToString(h.Sum(nil)),
		FetchedAt: time.Now().UTC(),
	}, nil
}
