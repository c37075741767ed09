package storage

import (
	"encoding/json"
	stderrors "errors"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/keyframe-studio/keyframe/internal/errors"
	"github.com/keyframe-studio/keyframe/internal/model"
)

var (
	// ErrKeyNotFound is returned when a key is not found in the database.
	ErrKeyNotFound = stderrors.New("key not found")
)

// IsErrKeyNotFound returns true if the error is a key not found error.
func IsErrKeyNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound) || errors.Is(err, badger.ErrKeyNotFound)
}

// Get retrieves a value by key and unmarshals it into v.
func (d *DB) Get(key string, v model.Model) error {
	return d.db.View(func(txn *badger.Txn) error {
		return getTxn(txn, key, v)
	})
}

func getTxn(txn *badger.Txn, key string, v model.Model) error {
	item, err := txn.Get([]byte(key))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrKeyNotFound
		}
		return err
	}

	return item.Value(func(val []byte) error {
		if err := json.Unmarshal(val, v); err != nil {
			return errors.Wrapf(errors.Join(errors.ErrDatabaseCorrupted, err), "decode %s", key)
		}
		v.SetKey(key)
		return nil
	})
}

// Set stores a model in the database.
func (d *DB) Set(v model.Model) error {
	return d.Update(func(txn *badger.Txn) error {
		return setTxn(txn, v)
	})
}

func setTxn(txn *badger.Txn, v model.Model) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set([]byte(v.GetKey()), data)
}

// Update runs fn in a read-write transaction after checking disk space.
func (d *DB) Update(fn func(txn *badger.Txn) error) error {
	if err := d.checkSpace(); err != nil {
		return err
	}
	err := d.db.Update(fn)
	if isDiskFullError(err) {
		return errors.NewSystemErrorWithOp("write", "disk full", errors.ErrDiskFull)
	}
	return err
}

// Delete removes a key from the database.
func (d *DB) Delete(key string) error {
	return d.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Exists checks if a key exists in the database.
func (d *DB) Exists(key string) (bool, error) {
	var exists bool
	err := d.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		exists = true
		return nil
	})
	return exists, err
}

// ListByPrefix retrieves all keys with the given prefix.
func (d *DB) ListByPrefix(prefix string) ([]string, error) {
	var keys []string
	err := d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefixBytes := []byte(prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	return keys, err
}

// GetAllByPrefix retrieves all values with the given prefix in key order.
func GetAllByPrefix[T model.Model](d *DB, prefix string, newFunc func() T) ([]T, error) {
	var results []T
	err := d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchSize = 100
		it := txn.NewIterator(opts)
		defer it.Close()

		prefixBytes := []byte(prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.KeyCopy(nil))
			err := item.Value(func(val []byte) error {
				v := newFunc()
				if err := json.Unmarshal(val, v); err != nil {
					return errors.Wrapf(errors.Join(errors.ErrDatabaseCorrupted, err), "decode %s", key)
				}
				v.SetKey(key)
				results = append(results, v)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return results, err
}
