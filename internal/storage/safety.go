package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/keyframe-studio/keyframe/internal/errors"
)

const (
	// MinFreeSpace is the minimum free space required for write operations (10MB).
	MinFreeSpace = 10 * 1024 * 1024
	// MinFreeSpaceWarning is the threshold for warning about low disk space (50MB).
	MinFreeSpaceWarning = 50 * 1024 * 1024
)

// DiskSpaceInfo contains information about available disk space.
type DiskSpaceInfo struct {
	Path       string
	TotalBytes uint64
	FreeBytes  uint64
	UsedBytes  uint64
}

// FreePercent returns the percentage of free space.
func (d *DiskSpaceInfo) FreePercent() float64 {
	if d.TotalBytes == 0 {
		return 0
	}
	return float64(d.FreeBytes) / float64(d.TotalBytes) * 100
}

// CheckDiskSpace returns errors.ErrDiskFull if free space at path is below min.
// A path whose volume cannot be inspected is allowed through.
func CheckDiskSpace(path string, min uint64) error {
	info, err := GetDiskSpace(path)
	if err != nil {
		return nil
	}

	if info.FreeBytes < min {
		return errors.NewSystemError(
			fmt.Sprintf("insufficient disk space: %d MB free, need at least %d MB",
				info.FreeBytes/(1024*1024),
				min/(1024*1024)),
			errors.ErrDiskFull,
		)
	}

	return nil
}

// CheckDiskSpaceWarning returns a warning message if free space at path is
// below threshold, or "" otherwise.
func CheckDiskSpaceWarning(path string, threshold uint64) string {
	info, err := GetDiskSpace(path)
	if err != nil {
		return ""
	}

	if info.FreeBytes < threshold {
		return fmt.Sprintf("Warning: Low disk space (%d MB free)", info.FreeBytes/(1024*1024))
	}

	return ""
}

// SafeWrite writes data to path atomically via a temp file and rename.
func SafeWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := CheckDiskSpace(dir, MinFreeSpace); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, "."+AppName+"-*.tmp")
	if err != nil {
		return writeError("create temp file", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return writeError("write", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return writeError("sync", err)
	}
	if err := tmpFile.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return errors.Wrap(err, "set permissions")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return errors.Wrap(err, "rename temp file")
	}

	success = true
	return nil
}

// EnsureDirectory creates a directory with safe permissions if it doesn't exist.
func EnsureDirectory(path string) error {
	if err := CheckDiskSpace(filepath.Dir(path), MinFreeSpace); err != nil {
		return err
	}

	if err := os.MkdirAll(path, 0700); err != nil {
		if os.IsPermission(err) {
			return errors.NewSystemErrorWithOp("mkdir", "cannot create data directory", errors.Join(errors.ErrPermissionDenied, err))
		}
		return writeError("mkdir", err)
	}

	return nil
}

func writeError(op string, err error) error {
	if isDiskFullError(err) {
		return errors.NewSystemErrorWithOp(op, "disk full", errors.ErrDiskFull)
	}
	return errors.Wrap(err, op)
}

// existingAncestor walks up from path to the nearest directory that exists.
func existingAncestor(path string) string {
	for {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(path)
		if parent == path {
			return path
		}
		path = parent
	}
}
