package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/keyframe-studio/keyframe/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// FileLock Tests
// =============================================================================

func TestFileLockAcquireRelease(t *testing.T) {
	t.Run("writes_pid_and_removes_file", func(t *testing.T) {
		dir := t.TempDir()
		lock := NewFileLock(dir)
		require.NoError(t, lock.Acquire())

		data, err := os.ReadFile(lock.Path())
		require.NoError(t, err)
		assert.Equal(t, strconv.Itoa(os.Getpid()), string(data))

		require.NoError(t, lock.Release())
		_, err = os.Stat(lock.Path())
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("second_lock_fails_while_held", func(t *testing.T) {
		dir := t.TempDir()
		first := NewFileLock(dir)
		second := NewFileLock(dir)

		require.NoError(t, first.Acquire())
		defer first.Release()

		err := second.Acquire()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrLockAlreadyHeld)
	})

	t.Run("reacquire_after_release", func(t *testing.T) {
		dir := t.TempDir()
		first := NewFileLock(dir)
		second := NewFileLock(dir)

		require.NoError(t, first.Acquire())
		require.NoError(t, first.Release())

		require.NoError(t, second.Acquire())
		defer second.Release()
	})

	t.Run("release_is_idempotent", func(t *testing.T) {
		lock := NewFileLock(t.TempDir())
		require.NoError(t, lock.Acquire())
		require.NoError(t, lock.Release())
		assert.NoError(t, lock.Release())
	})
}

func TestFileLockStaleCleanup(t *testing.T) {
	dir := t.TempDir()
	stalePID := 99999999
	require.NoError(t, os.WriteFile(filepath.Join(dir, LockFileName), []byte(strconv.Itoa(stalePID)), 0644))

	if isProcessRunning(stalePID) {
		t.Skip("stale PID is unexpectedly running")
	}

	lock := NewFileLock(dir)
	require.NoError(t, lock.Acquire())
	defer lock.Release()
}

func TestFileLockReadPID(t *testing.T) {
	tests := []struct {
		name    string
		content *string
		want    int
	}{
		{"valid", strPtr("12345"), 12345},
		{"padded", strPtr(" 42\n"), 42},
		{"garbage", strPtr("not-a-number"), 0},
		{"missing", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.content != nil {
				require.NoError(t, os.WriteFile(filepath.Join(dir, LockFileName), []byte(*tt.content), 0644))
			}
			assert.Equal(t, tt.want, NewFileLock(dir).readPID())
		})
	}
}

func strPtr(s string) *string { return &s }

// =============================================================================
// LockError Tests
// =============================================================================

func TestLockError(t *testing.T) {
	t.Run("without_pid", func(t *testing.T) {
		err := NewLockError(ErrLockAlreadyHeld)
		assert.Contains(t, err.Error(), "cannot access database")
		assert.Zero(t, err.PID)
	})

	t.Run("extracts_pid", func(t *testing.T) {
		err := NewLockError(wrapPID(4242))
		assert.Equal(t, 4242, err.PID)
		assert.Contains(t, err.Error(), "another keyframe instance (PID 4242)")
	})

	t.Run("maps_to_lock_held", func(t *testing.T) {
		err := NewLockError(ErrLockAlreadyHeld)
		assert.ErrorIs(t, err, ErrLockAlreadyHeld)
		assert.ErrorIs(t, err, errors.ErrLockHeld)
	})

	t.Run("other_failures_do_not_map", func(t *testing.T) {
		err := NewLockError(ErrLockAcquireFailed)
		assert.ErrorIs(t, err, ErrLockAcquireFailed)
		assert.False(t, errors.Is(err, errors.ErrLockHeld))
	})
}

func wrapPID(pid int) error {
	return fmt.Errorf("%w: PID %d", ErrLockAlreadyHeld, pid)
}

// =============================================================================
// DB Lock Tests
// =============================================================================

func TestOpenTakesLock(t *testing.T) {
	t.Run("disk_database_holds_lock", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "db")

		db, err := Open(Options{Path: dbPath})
		require.NoError(t, err)
		defer db.Close()

		assert.NotNil(t, db.lock)
		_, err = os.Stat(filepath.Join(dbPath, LockFileName))
		assert.NoError(t, err)
	})

	t.Run("in_memory_has_no_lock", func(t *testing.T) {
		db, err := Open(Options{InMemory: true})
		require.NoError(t, err)
		defer db.Close()

		assert.Nil(t, db.lock)
	})

	t.Run("second_open_fails", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "db")

		db, err := Open(Options{Path: dbPath})
		require.NoError(t, err)
		defer db.Close()

		_, err = Open(Options{Path: dbPath})
		require.Error(t, err)
		var lockErr *LockError
		assert.ErrorAs(t, err, &lockErr)
		assert.ErrorIs(t, err, errors.ErrLockHeld)
	})

	t.Run("close_releases_lock", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "db")

		db, err := Open(Options{Path: dbPath})
		require.NoError(t, err)
		require.NoError(t, db.Close())

		_, err = os.Stat(filepath.Join(dbPath, LockFileName))
		assert.True(t, os.IsNotExist(err))

		db2, err := Open(Options{Path: dbPath})
		require.NoError(t, err)
		defer db2.Close()
	})
}
