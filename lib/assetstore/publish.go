// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package assetstore

import "os"

// publishLink moves tmpPath to finalPath without replacing an existing
// file: the hard link fails with an fs.ErrExist error if finalPath is
// taken. The temp name is unlinked on success.
func publishLink(tmpPath, finalPath string) error {
	if err := os.Link(tmpPath, finalPath); err != nil {
		return err
	}
	os.Remove(tmpPath)
	return nil
}
