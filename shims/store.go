// Package shims implements the narrow host-platform integrations: the
// persistent key/value store, clipboard, desktop notifications, and the
// explicitly out-of-scope surfaces (window, menu bar, screenshot,
// keyboard/mouse synthesis, selected text) that return a permission-denied
// style error rather than doing anything.
package shims

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	bolt "go.etcd.io/bbolt"
)

var bucketStore = []byte("store")

// Store wraps a bbolt database providing the host-backed key/value store
// used by the guest library's Store* operations (§4.6.4).
type Store struct {
	db *bolt.DB
}

// OpenStore opens (creating if absent) the store database at path,
// grounded on kiosk404-echoryn's boltdb.Open (create dir, open 0600,
// ensure bucket).
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("shims: create store dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("shims: open store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketStore)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("shims: create bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Get reads a key's raw JSON value, or nil if absent.
func (s *Store) Get(key string) (json.RawMessage, error) {
	var out json.RawMessage
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketStore).Get([]byte(key))
		if v != nil {
			out = append(json.RawMessage(nil), v...)
		}
		return nil
	})
	return out, err
}

// Set writes a key's raw JSON value.
func (s *Store) Set(key string, value json.RawMessage) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketStore).Put([]byte(key), value)
	})
}

// Delete removes a key.
func (s *Store) Delete(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketStore).Delete([]byte(key))
	})
}

// Clear removes every key, recreating an empty bucket.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketStore); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketStore)
		return err
	})
}
