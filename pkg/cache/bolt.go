package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var responsesBucket = []byte("responses")

// BoltStore keeps entries in a single bbolt database file.
type BoltStore struct {
	db *bolt.DB
}

// OpenBoltStore opens (or creates) the database file at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(responsesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Get retrieves a cache entry by key.
func (s *BoltStore) Get(_ context.Context, key string) (*Entry, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(responsesBucket).Get([]byte(key)); v != nil {
			// v is only valid for the life of the transaction
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		CacheErrors.WithLabelValues(LayerBolt, "get").Inc()
		return nil, fmt.Errorf("bolt get: %w", err)
	}

	if data == nil {
		CacheMisses.WithLabelValues(LayerBolt).Inc()
		return nil, ErrCacheMiss
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		CacheErrors.WithLabelValues(LayerBolt, "get").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	CacheHits.WithLabelValues(LayerBolt).Inc()
	return &entry, nil
}

// Set stores a cache entry under key.
func (s *BoltStore) Set(_ context.Context, key string, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}

	data, err := json.Marshal(entry)
	if err != nil {
		CacheErrors.WithLabelValues(LayerBolt, "set").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(responsesBucket).Put([]byte(key), data)
	})
	if err != nil {
		CacheErrors.WithLabelValues(LayerBolt, "set").Inc()
		return fmt.Errorf("bolt put: %w", err)
	}

	return nil
}

// Close closes the underlying database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
