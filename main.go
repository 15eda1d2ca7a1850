// Copyright (c) 2020-2025 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Tinyrox serves files and a few computed routes over HTTP/1.1, one request per connection.

package main

import (
	"github.com/hexinfra/tinyrox/hemi/procman"
)

func main() {
	procman.Main(&procman.Opts{
		ProgramName:  "tinyrox",
		ProgramTitle: "Tinyrox",
		DebugLevel:   0,
	})
}
