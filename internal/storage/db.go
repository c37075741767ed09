// Package storage provides the Badger-backed persistence layer for keyframe:
// stage elements, the history journal and user settings.
package storage

import (
	"path/filepath"

	"github.com/adrg/xdg"
	badger "github.com/dgraph-io/badger/v4"

	"github.com/keyframe-studio/keyframe/internal/errors"
	"github.com/keyframe-studio/keyframe/internal/logging"
)

const (
	// AppName is the application name used for data directories.
	AppName = "keyframe"
)

// DB wraps a Badger database connection.
type DB struct {
	db      *badger.DB
	path    string
	minFree uint64
	lock    *FileLock
}

// Options configures the database connection.
type Options struct {
	// Path is the database directory path. Empty string uses in-memory mode.
	Path string
	// InMemory forces in-memory mode regardless of Path.
	InMemory bool
	// MinFreeSpace is the free space required before each write on disk.
	// Zero uses MinFreeSpace.
	MinFreeSpace uint64
}

// DefaultPath returns the default database path under the XDG data directory.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, AppName, "db")
}

// Open opens or creates a database at the given path.
func Open(opts Options) (*DB, error) {
	var badgerOpts badger.Options
	var lock *FileLock
	path := ""

	if opts.InMemory || opts.Path == "" {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		path = opts.Path
		if err := EnsureDirectory(path); err != nil {
			return nil, err
		}
		lock = NewFileLock(path)
		if err := lock.Acquire(); err != nil {
			return nil, NewLockError(err)
		}
		badgerOpts = badger.DefaultOptions(path)
	}

	// Reduce logging noise
	badgerOpts = badgerOpts.WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		if lock != nil {
			lock.Release()
		}
		if IsDatabaseCorrupted(err) {
			return nil, errors.NewSystemErrorWithOp("open", "database is damaged", errors.Join(errors.ErrDatabaseCorrupted, err))
		}
		return nil, errors.NewSystemErrorWithOp("open", "cannot open database", err)
	}

	minFree := opts.MinFreeSpace
	if minFree == 0 {
		minFree = MinFreeSpace
	}

	logging.DebugLog("database opened", logging.KeyOperation, "open", "path", path)
	return &DB{db: db, path: path, minFree: minFree, lock: lock}, nil
}

// Close closes the database connection and releases the process lock.
func (d *DB) Close() error {
	err := d.db.Close()
	if d.lock != nil {
		if lerr := d.lock.Release(); err == nil {
			err = lerr
		}
		d.lock = nil
	}
	return err
}

// Path returns the database directory, or "" for in-memory databases.
func (d *DB) Path() string {
	return d.path
}

// InMemory reports whether the database lives only in memory.
func (d *DB) InMemory() bool {
	return d.path == ""
}

// checkSpace refuses writes when the database volume is nearly full.
func (d *DB) checkSpace() error {
	if d.InMemory() {
		return nil
	}
	return CheckDiskSpace(d.path, d.minFree)
}
