//go:build windows

package storage

import (
	"os"
)

// flockAcquire is a no-op on Windows; the PID file alone guards access.
func flockAcquire(file *os.File) error {
	return nil
}

// flockRelease is a no-op on Windows; closing the file releases it.
func flockRelease(file *os.File) error {
	return nil
}

// isProcessRunning reports whether pid is alive. Processes that cannot be
// waited on are assumed to be running.
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	ws, err := process.Wait()
	if err != nil {
		return true
	}
	return !ws.Exited()
}
