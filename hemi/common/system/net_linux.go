// Copyright (c) 2020-2025 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Net for Linux.

package system

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// SetDeferAccept makes accept return only after the client has sent data.
func SetDeferAccept(rawConn syscall.RawConn) error {
	var err error
	if ctlErr := rawConn.Control(func(fd uintptr) {
		err = unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_DEFER_ACCEPT, 1)
	}); ctlErr != nil {
		return ctlErr
	}
	return err
}
