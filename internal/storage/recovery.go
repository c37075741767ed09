package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/keyframe-studio/keyframe/internal/errors"
	"github.com/keyframe-studio/keyframe/internal/logging"
	"github.com/keyframe-studio/keyframe/internal/model"
)

// maxIntegrityErrors caps how many problems CheckDatabaseIntegrity records.
const maxIntegrityErrors = 10

// RecoveryStatus represents the result of a database health check.
type RecoveryStatus struct {
	Healthy    bool      `json:"healthy"`
	Corrupted  bool      `json:"corrupted"`
	LastCheck  time.Time `json:"last_check"`
	Checked    int       `json:"checked"`
	ErrorCount int       `json:"error_count"`
	Errors     []string  `json:"errors,omitempty"`
}

func (s *RecoveryStatus) fail(msg string) {
	s.Healthy = false
	s.Corrupted = true
	s.ErrorCount++
	if len(s.Errors) < maxIntegrityErrors {
		s.Errors = append(s.Errors, msg)
	}
}

// CheckDatabaseIntegrity reads every record and decodes the ones keyframe
// owns, reporting any that cannot be read back.
func CheckDatabaseIntegrity(db *DB) *RecoveryStatus {
	status := &RecoveryStatus{
		LastCheck: time.Now(),
		Healthy:   true,
	}

	if db == nil || db.db == nil {
		status.fail("database not initialized")
		return status
	}

	err := db.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.KeyCopy(nil))
			status.Checked++
			if err := item.Value(func(val []byte) error {
				return decodeRecord(key, val)
			}); err != nil {
				status.fail(fmt.Sprintf("%s: %v", key, err))
			}
		}
		return nil
	})
	if err != nil {
		status.fail(fmt.Sprintf("iteration error: %v", err))
	}

	if !status.Healthy {
		logging.Warn("database integrity check failed", logging.KeyCount, status.ErrorCount)
	}
	return status
}

// decodeRecord checks that val decodes as the model stored under key.
func decodeRecord(key string, val []byte) error {
	var v any
	switch {
	case strings.HasPrefix(key, model.PrefixElement+":"):
		v = &model.Element{}
	case key == model.KeyHistory:
		v = &model.HistoryState{}
	case key == model.KeySettings:
		v = &model.Settings{}
	default:
		return nil
	}
	return json.Unmarshal(val, v)
}

// CheckIntegrity returns errors.ErrDatabaseCorrupted if any record fails to
// decode.
func (d *DB) CheckIntegrity() error {
	return CheckDatabaseIntegrity(d).Err()
}

// Err converts an unhealthy status into errors.ErrDatabaseCorrupted.
func (s *RecoveryStatus) Err() error {
	if s.Healthy {
		return nil
	}
	return errors.NewSystemErrorWithOp("integrity check",
		fmt.Sprintf("%d damaged records (%s)", s.ErrorCount, strings.Join(s.Errors, "; ")),
		errors.ErrDatabaseCorrupted)
}

var corruptionPatterns = []string{
	"checksum mismatch",
	"corrupt",
	"invalid",
	"unexpected eof",
	"bad magic",
	"truncated",
}

// IsDatabaseCorrupted checks if the given error indicates database corruption.
func IsDatabaseCorrupted(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, errors.ErrDatabaseCorrupted) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range corruptionPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
