package storage

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/keyframe-studio/keyframe/internal/errors"
)

const (
	// LockFileName is the name of the lock file in the data directory.
	LockFileName = AppName + ".lock"
)

var (
	// ErrLockAcquireFailed is returned when the lock cannot be acquired.
	ErrLockAcquireFailed = stderrors.New("failed to acquire database lock")
	// ErrLockAlreadyHeld is returned when another process holds the lock.
	ErrLockAlreadyHeld = stderrors.New("database is locked by another process")
)

// FileLock is an advisory lock that keeps two keyframe processes from
// replaying the same history at once.
type FileLock struct {
	path string
	file *os.File
}

// NewFileLock creates a new file lock in dir.
func NewFileLock(dir string) *FileLock {
	return &FileLock{
		path: filepath.Join(dir, LockFileName),
	}
}

// Path returns the lock file path.
func (l *FileLock) Path() string {
	return l.path
}

// Acquire takes the lock without blocking. The holder's PID is written into
// the lock file so a second process can report who holds it.
func (l *FileLock) Acquire() error {
	if err := l.cleanStaleLock(); err != nil {
		return err
	}

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLockAcquireFailed, err)
	}

	if err := flockAcquire(file); err != nil {
		file.Close()
		if errors.Is(err, ErrLockAlreadyHeld) {
			if pid := l.readPID(); pid > 0 {
				return fmt.Errorf("%w: PID %d", ErrLockAlreadyHeld, pid)
			}
		}
		return err
	}

	if err := writePID(file); err != nil {
		flockRelease(file)
		file.Close()
		return fmt.Errorf("%w: %v", ErrLockAcquireFailed, err)
	}

	l.file = file
	return nil
}

func writePID(file *os.File) error {
	if err := file.Truncate(0); err != nil {
		return err
	}
	if _, err := file.Seek(0, 0); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(file, "%d", os.Getpid()); err != nil {
		return err
	}
	return file.Sync()
}

// Release releases the lock and removes the lock file. Releasing an unheld
// lock is a no-op.
func (l *FileLock) Release() error {
	if l.file == nil {
		return nil
	}

	if err := flockRelease(l.file); err != nil {
		l.file.Close()
		l.file = nil
		return err
	}

	if err := l.file.Close(); err != nil {
		l.file = nil
		return err
	}
	l.file = nil

	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// cleanStaleLock removes a lock file left behind by a process that is gone.
func (l *FileLock) cleanStaleLock() error {
	pid := l.readPID()
	if pid <= 0 || isProcessRunning(pid) {
		return nil
	}

	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clean stale lock: %v", err)
	}
	return nil
}

// readPID reads the PID from the lock file, or 0 if none is recorded.
func (l *FileLock) readPID() int {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return 0
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return pid
}

// LockError provides a user-friendly error message for lock failures.
type LockError struct {
	Err error
	PID int
}

func (e *LockError) Error() string {
	if e.PID > 0 {
		return fmt.Sprintf("cannot access database: another %s instance (PID %d) is running", AppName, e.PID)
	}
	return fmt.Sprintf("cannot access database: %v", e.Err)
}

func (e *LockError) Unwrap() []error {
	if errors.Is(e.Err, ErrLockAlreadyHeld) {
		return []error{e.Err, errors.ErrLockHeld}
	}
	return []error{e.Err}
}

// NewLockError wraps a lock failure, extracting the holder's PID if the
// error carries one.
func NewLockError(err error) *LockError {
	lockErr := &LockError{Err: err}

	if errors.Is(err, ErrLockAlreadyHeld) {
		if _, after, ok := strings.Cut(err.Error(), "PID "); ok {
			if pid, parseErr := strconv.Atoi(strings.TrimSpace(after)); parseErr == nil {
				lockErr.PID = pid
			}
		}
	}

	return lockErr
}
