// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package assetstore

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// publishNoReplace atomically renames tmpPath to finalPath, failing
// with an fs.ErrExist error if finalPath exists. Filesystems without
// RENAME_NOREPLACE support fall back to link-and-unlink.
func publishNoReplace(tmpPath, finalPath string) error {
	err := unix.Renameat2(unix.AT_FDCWD, tmpPath, unix.AT_FDCWD, finalPath, unix.RENAME_NOREPLACE)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, unix.EINVAL), errors.Is(err, unix.ENOSYS), errors.Is(err, unix.EOPNOTSUPP):
		return publishLink(tmpPath, finalPath)
	default:
		return &os.LinkError{Op: "renameat2", Old: tmpPath, New: finalPath, Err: err}
	}
}
