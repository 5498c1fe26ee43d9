// file: internal/idindex/store.go
// version: 1.1.0
// guid: c3d4e5f6-a7b8-9c0d-1e2f-3a4b5c6d7e8f

package idindex

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cockroachdb/pebble/v2"
)

// Key prefixes
const (
	prefixISBN  = "bn:isbn:"
	prefixCover = "bn:cover:"
)

// Entry is the persisted ISBN mapping.
type Entry struct {
	ISBN        string    `json:"isbn"`
	BiblionetID string    `json:"biblionet_id"`
	IndexedAt   time.Time `json:"indexed_at"`
}

// Store persists the ISBN -> Biblionet id index and the cover URL cache in
// PebbleDB so they survive restarts.
type Store struct {
	db *pebble.DB
}

// Open opens or creates the store at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("idindex: path required")
	}
	db, err := pebble.Open(path, &pebble.Options{
		FormatMajorVersion: pebble.FormatNewest,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open identifier index: %w", err)
	}
	log.Printf("[INFO] identifier index opened at %s (format version: %s)", path, db.FormatMajorVersion())
	return &Store{db: db}, nil
}

// Close closes the underlying PebbleDB.
func (s *Store) Close() error {
	return s.db.Close()
}

// LookupISBN returns the Biblionet id an ISBN previously resolved to.
func (s *Store) LookupISBN(isbn string) (string, bool) {
	e, err := s.Entry(isbn)
	if err != nil || e == nil {
		return "", false
	}
	return e.BiblionetID, true
}

// Entry returns the full index entry for isbn, or nil when absent.
func (s *Store) Entry(isbn string) (*Entry, error) {
	isbn = normalizeISBN(isbn)
	if isbn == "" {
		return nil, nil
	}
	val, closer, err := s.db.Get([]byte(prefixISBN + isbn))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	var e Entry
	if err := json.Unmarshal(val, &e); err != nil {
		return nil, fmt.Errorf("corrupt index entry for %s: %w", isbn, err)
	}
	return &e, nil
}

// Remember stores isbn -> id.
func (s *Store) Remember(isbn, id string) error {
	isbn = normalizeISBN(isbn)
	id = strings.TrimSpace(id)
	if isbn == "" || id == "" {
		return nil
	}
	data, err := json.Marshal(Entry{ISBN: isbn, BiblionetID: id, IndexedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	if err := s.db.Set([]byte(prefixISBN+isbn), data, pebble.Sync); err != nil {
		return fmt.Errorf("failed to store isbn %s: %w", isbn, err)
	}
	return nil
}

// Forget removes the mapping for isbn. Missing entries are not an error.
func (s *Store) Forget(isbn string) error {
	isbn = normalizeISBN(isbn)
	if isbn == "" {
		return nil
	}
	if err := s.db.Delete([]byte(prefixISBN+isbn), pebble.Sync); err != nil {
		return fmt.Errorf("failed to forget isbn %s: %w", isbn, err)
	}
	return nil
}

// Entries returns up to limit ISBN mappings in key order. limit <= 0
// returns all of them.
func (s *Store) Entries(limit int) ([]Entry, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(prefixISBN),
		UpperBound: []byte(prefixISBN + "\xff"),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []Entry
	for iter.First(); iter.Valid(); iter.Next() {
		if limit > 0 && len(out) >= limit {
			break
		}
		var e Entry
		if err := json.Unmarshal(iter.Value(), &e); err != nil {
			log.Printf("[WARN] skipping corrupt index entry %q: %v", iter.Key(), err)
			continue
		}
		out = append(out, e)
	}
	return out, iter.Error()
}

// Covers returns a cover URL cache backed by this store.
func (s *Store) Covers() *CoverCache {
	return &CoverCache{db: s.db}
}

// Counts reports how many ISBN mappings and cover URLs are stored.
func (s *Store) Counts() (isbns, covers int, err error) {
	if isbns, err = s.count(prefixISBN); err != nil {
		return 0, 0, err
	}
	if covers, err = s.count(prefixCover); err != nil {
		return 0, 0, err
	}
	return isbns, covers, nil
}

func (s *Store) count(prefix string) (int, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(prefix),
		UpperBound: []byte(prefix + "\xff"),
	})
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	n := 0
	for iter.First(); iter.Valid(); iter.Next() {
		n++
	}
	return n, iter.Error()
}

// CoverCache is a persistent id -> cover URL map.
type CoverCache struct {
	db *pebble.DB
}

// Get returns the cover URL stored under key.
func (c *CoverCache) Get(key string) (string, bool) {
	val, closer, err := c.db.Get([]byte(prefixCover + key))
	if err != nil {
		return "", false
	}
	defer closer.Close()
	return string(val), true
}

// Set stores a cover URL. Write errors are logged; the cache is best effort.
func (c *CoverCache) Set(key, value string) {
	if key == "" {
		return
	}
	if err := c.db.Set([]byte(prefixCover+key), []byte(value), pebble.Sync); err != nil {
		log.Printf("[WARN] failed to persist cover url for %s: %v", key, err)
	}
}

// normalizeISBN strips spaces and hyphens; no checksum validation.
func normalizeISBN(isbn string) string {
	isbn = strings.TrimSpace(isbn)
	isbn = strings.ReplaceAll(isbn, "-", "")
	isbn = strings.ReplaceAll(isbn, " ", "")
	return strings.ToUpper(isbn)
}
