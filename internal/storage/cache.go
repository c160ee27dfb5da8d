package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"

	"github.com/rohankatakam/teamgraph/internal/errors"
)

var reportsBucket = []byte("reports")

// RunCache memoises serialized analytics results across CLI invocations in a
// local bbolt file. Values are stored as JSON.
type RunCache struct {
	db     *bolt.DB
	logger *logrus.Logger
}

// OpenRunCache opens (or creates) the cache file at path
func OpenRunCache(path string, logger *logrus.Logger) (*RunCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeStorage, errors.SeverityMedium, "create cache directory").
			WithContext("path", path)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeStorage, errors.SeverityMedium, "open run cache").
			WithContext("path", path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(reportsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeStorage, errors.SeverityMedium, "init run cache")
	}

	return &RunCache{db: db, logger: logger}, nil
}

// CacheKey joins key parts with "|"
func CacheKey(parts ...string) string {
	return strings.Join(parts, "|")
}

// Get decodes the cached value for key into v. It reports false when the key
// is absent.
func (c *RunCache) Get(key string, v interface{}) (bool, error) {
	var data []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(reportsBucket)
		if b == nil {
			return bolt.ErrBucketNotFound
		}
		if raw := b.Get([]byte(key)); raw != nil {
			// raw is only valid inside the transaction
			data = append([]byte(nil), raw...)
		}
		return nil
	})
	if err != nil {
		return false, errors.Wrap(err, errors.ErrorTypeStorage, errors.SeverityMedium, "read run cache")
	}
	if data == nil {
		return false, nil
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, errors.Wrap(err, errors.ErrorTypeStorage, errors.SeverityMedium, "decode cached value").
			WithContext("key", key)
	}
	c.logger.WithField("key", key).Debug("run cache hit")
	return true, nil
}

// Put stores v under key
func (c *RunCache) Put(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeStorage, errors.SeverityMedium, "encode cache value").
			WithContext("key", key)
	}

	err = c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(reportsBucket)
		if b == nil {
			return bolt.ErrBucketNotFound
		}
		return b.Put([]byte(key), data)
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeStorage, errors.SeverityMedium, "write run cache").
			WithContext("key", key)
	}
	return nil
}

// Close closes the cache file
func (c *RunCache) Close() error {
	return c.db.Close()
}
