// Copyright (c) 2020-2025 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Stores hold the documents that are sent as bodies.

package hemi

import (
	"os"
)

// Store is a byte-addressable document store queried by path.
type Store interface {
	Read(path string) ([]byte, error)
	IsFile(path string) bool // exists and is a regular file
}

// LocalStore is a Store on the local file system.
type LocalStore struct{}

func (LocalStore) Read(path string) ([]byte, error) { return os.ReadFile(path) }
func (LocalStore) IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
