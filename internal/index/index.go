// internal/index/index.go
package index

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/creativeyann17/go-mrsh/pkg/mrsh"
)

const (
	bucketDigests = "digests" // sequence -> encoded digest
	bucketLabels  = "labels"  // label -> sequence
)

// ErrClosed is returned by operations on a closed index
var ErrClosed = errors.New("index: closed")

// Store persists fingerprints keyed by label, in insertion order.
// Adding a label that is already present replaces its fingerprint in place.
type Store struct {
	db     *bolt.DB
	closed atomic.Bool

	// Statistics
	added    atomic.Uint64
	replaced atomic.Uint64
	loaded   atomic.Uint64
}

// Open opens (or creates) the index file at path
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open index %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range []string{bucketDigests, bucketLabels} {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init index %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the database file
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

// Put stores fp under its label. Returns true when the label was new.
func (s *Store) Put(fp *mrsh.Fingerprint) (bool, error) {
	if s.closed.Load() {
		return false, ErrClosed
	}
	encoded := []byte(mrsh.Encode(fp))
	label := []byte(fp.Label())

	isNew := false
	err := s.db.Update(func(tx *bolt.Tx) error {
		digests := tx.Bucket([]byte(bucketDigests))
		labels := tx.Bucket([]byte(bucketLabels))

		key := labels.Get(label)
		if key == nil {
			seq, err := digests.NextSequence()
			if err != nil {
				return err
			}
			key = seqKey(seq)
			if err := labels.Put(label, key); err != nil {
				return err
			}
			isNew = true
		} else {
			key = append([]byte(nil), key...)
		}
		return digests.Put(key, encoded)
	})
	if err != nil {
		return false, fmt.Errorf("put %q: %w", fp.Label(), err)
	}

	if isNew {
		s.added.Add(1)
	} else {
		s.replaced.Add(1)
	}
	return isNew, nil
}

// Get returns the fingerprint stored under label
func (s *Store) Get(label string) (*mrsh.Fingerprint, bool, error) {
	if s.closed.Load() {
		return nil, false, ErrClosed
	}
	var encoded string
	err := s.db.View(func(tx *bolt.Tx) error {
		key := tx.Bucket([]byte(bucketLabels)).Get([]byte(label))
		if key == nil {
			return nil
		}
		encoded = string(tx.Bucket([]byte(bucketDigests)).Get(key))
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if encoded == "" {
		return nil, false, nil
	}
	fp, err := mrsh.Decode(encoded)
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", label, err)
	}
	s.loaded.Add(1)
	return fp, true, nil
}

// Delete removes label from the index. Returns false when it was absent.
func (s *Store) Delete(label string) (bool, error) {
	if s.closed.Load() {
		return false, ErrClosed
	}
	found := false
	err := s.db.Update(func(tx *bolt.Tx) error {
		labels := tx.Bucket([]byte(bucketLabels))
		key := labels.Get([]byte(label))
		if key == nil {
			return nil
		}
		found = true
		if err := tx.Bucket([]byte(bucketDigests)).Delete(key); err != nil {
			return err
		}
		return labels.Delete([]byte(label))
	})
	return found, err
}

// Count returns the number of indexed fingerprints
func (s *Store) Count() (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}
	n := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(bucketDigests)).Stats().KeyN
		return nil
	})
	return n, err
}

// Collection loads every fingerprint in insertion order
func (s *Store) Collection() (*mrsh.Collection, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	c := mrsh.NewCollection()
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketDigests)).ForEach(func(k, v []byte) error {
			fp, err := mrsh.Decode(string(v))
			if err != nil {
				return fmt.Errorf("entry %d: %w", binary.BigEndian.Uint64(k), err)
			}
			return c.AddFingerprint(fp)
		})
	})
	if err != nil {
		return nil, err
	}
	s.loaded.Add(uint64(c.Len()))
	return c, nil
}

// Query compares fp against every indexed fingerprint and returns the
// matches with Score >= threshold, in insertion order.
func (s *Store) Query(ctx context.Context, fp *mrsh.Fingerprint, threshold uint8, workers int) ([]mrsh.ComparisonResult, error) {
	c, err := s.Collection()
	if err != nil {
		return nil, err
	}
	return mrsh.CompareOneVsCollectionContext(ctx, fp, c, threshold, workers)
}

// Stats returns usage statistics since Open
func (s *Store) Stats() Stats {
	return Stats{
		Added:    s.added.Load(),
		Replaced: s.replaced.Load(),
		Loaded:   s.loaded.Load(),
	}
}

// Stats contains index usage statistics
type Stats struct {
	Added    uint64 // Fingerprints stored under a new label
	Replaced uint64 // Fingerprints that replaced an existing label
	Loaded   uint64 // Fingerprints decoded from disk
}

// seqKey encodes a sequence number so keys sort in insertion order
func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
