//go:build !windows

package storage

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// flockAcquire takes a non-blocking exclusive flock on file.
func flockAcquire(file *os.File) error {
	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		if errors.Is(err, syscall.EWOULDBLOCK) {
			return ErrLockAlreadyHeld
		}
		return fmt.Errorf("%w: %v", ErrLockAcquireFailed, err)
	}
	return nil
}

func flockRelease(file *os.File) error {
	return syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
}

// isProcessRunning sends signal 0 to pid to check that it exists.
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
