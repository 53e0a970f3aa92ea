// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package assetstore

func publishNoReplace(tmpPath, finalPath string) error {
	return publishLink(tmpPath, finalPath)
}
