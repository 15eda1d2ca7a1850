// Copyright (c) 2020-2025 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Basic elements shared by the whole engine.

package hemi

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
)

const Version = "0.1.0"

var (
	_debugLevel atomic.Int32
	_topDir     atomic.Value // directory of the executable, or -base
	_topOnce    sync.Once    // protects _topDir
	_logDir     atomic.Value // directory of the log files
	_logOnce    sync.Once    // protects _logDir
)

func DebugLevel() int32 { return _debugLevel.Load() }

func SetDebugLevel(level int32) { _debugLevel.Store(level) }

func TopDir() string {
	if dir, ok := _topDir.Load().(string); ok {
		return dir
	}
	return "."
}
func LogDir() string {
	if dir, ok := _logDir.Load().(string); ok {
		return dir
	}
	return TopDir() + "/logs"
}

func SetTopDir(dir string) { // only once!
	_topOnce.Do(func() {
		_topDir.Store(dir)
	})
}
func SetLogDir(dir string) { // only once!
	_logOnce.Do(func() {
		_logDir.Store(dir)
		_mustMkdir(dir)
	})
}

func _mustMkdir(dir string) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		EnvExitln(err.Error())
	}
}

// Printf and Println are for debugging only. They are silent when debug level is 0.
func Printf(f string, v ...any) {
	if DebugLevel() > 0 {
		fmt.Printf(f, v...)
	}
}
func Println(v ...any) {
	if DebugLevel() > 0 {
		fmt.Println(v...)
	}
}

const ( // exit codes
	CodeBug = 20
	CodeUse = 21
	CodeEnv = 22
)

func BugExitln(v ...any)          { _exitln(CodeBug, "[BUG] ", v...) }
func BugExitf(f string, v ...any) { _exitf(CodeBug, "[BUG] ", f, v...) }

func UseExitln(v ...any)          { _exitln(CodeUse, "[USE] ", v...) }
func UseExitf(f string, v ...any) { _exitf(CodeUse, "[USE] ", f, v...) }

func EnvExitln(v ...any)          { _exitln(CodeEnv, "[ENV] ", v...) }
func EnvExitf(f string, v ...any) { _exitf(CodeEnv, "[ENV] ", f, v...) }

func _exitln(exitCode int, prefix string, v ...any) {
	fmt.Fprint(os.Stderr, prefix)
	fmt.Fprintln(os.Stderr, v...)
	os.Exit(exitCode)
}
func _exitf(exitCode int, prefix, f string, v ...any) {
	fmt.Fprintf(os.Stderr, prefix+f, v...)
	os.Exit(exitCode)
}
