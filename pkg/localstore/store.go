package localstore

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketName = []byte("worklist")
	recordKey  = []byte("items")
)

// Store is a single-key bbolt store. The worklist is serialized as one
// JSON document and overwritten wholesale on every mutation.
type Store struct {
	db *bolt.DB
}

// Open creates or opens the bolt file and ensures the bucket exists.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Save replaces the stored document.
func (s *Store) Save(data []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put(recordKey, data)
	})
	if err != nil {
		return fmt.Errorf("saving worklist: %w", err)
	}
	return nil
}

// Load returns the stored document, or nil when nothing was saved yet.
func (s *Store) Load() ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketName).Get(recordKey)
		if raw != nil {
			data = make([]byte, len(raw))
			copy(data, raw)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading worklist: %w", err)
	}
	return data, nil
}

// Close releases the underlying file handle.
func (s *Store) Close() error {
	return s.db.Close()
}
