package respond

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var bucketResponses = []byte("responses")

// Cache stores completions on disk so reruns skip prompts already answered.
// It is safe for concurrent use.
type Cache struct {
	db *bbolt.DB
}

// OpenCache opens or creates the cache database at path.
func OpenCache(path string) (*Cache, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open response cache: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketResponses)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create bucket %s: %w", bucketResponses, err)
	}

	return &Cache{db: db}, nil
}

// cacheKey identifies a completion by model and prompt.
func cacheKey(model, prompt string) []byte {
	sum := sha256.Sum256([]byte(model + "\x00" + prompt))
	return []byte(hex.EncodeToString(sum[:]))
}

// Get returns the cached completion, if any.
func (c *Cache) Get(model, prompt string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := c.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(bucketResponses).Get(cacheKey(model, prompt)); v != nil {
			value, found = string(v), true
		}
		return nil
	})
	return value, found, err
}

// Put stores a completion.
func (c *Cache) Put(model, prompt, response string) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketResponses).Put(cacheKey(model, prompt), []byte(response))
	})
}

// Len returns the number of cached completions.
func (c *Cache) Len() (int, error) {
	var n int
	err := c.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketResponses).Stats().KeyN
		return nil
	})
	return n, err
}

// Close releases the database.
func (c *Cache) Close() error {
	return c.db.Close()
}
