// Copyright (c) 2020-2025 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// File logger buffers events and saves them to a file in its own goroutine.

package hemi

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

func init() {
	RegisterLogger("file", func(config *LogConfig) Logger {
		target := config.Target
		if target == "" {
			target = LogDir() + "/access.log"
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return nil
		}
		logFile, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			return nil
		}
		bufSize := config.BufSize
		if bufSize <= 0 {
			bufSize = 4 << 10
		}
		l := new(fileLogger)
		l.file = logFile
		l.queue = make(chan string)
		l.done = make(chan struct{})
		l.buffer = make([]byte, bufSize)
		l.size = len(l.buffer)
		go l.saver()
		return l
	})
}

// fileLogger implements Logger.
type fileLogger struct {
	file   *os.File
	queue  chan string
	done   chan struct{} // closed when saver quits
	buffer []byte
	size   int
	used   int
}

func (l *fileLogger) Logf(f string, v ...any) {
	s := fmt.Sprintf(f, v...)
	if s == "" {
		return
	}
	if s[len(s)-1] != '\n' {
		s += "\n"
	}
	l.queue <- time.Now().Format(loggerTimeFormat) + s
}
func (l *fileLogger) Close() {
	l.queue <- ""
	<-l.done
}

func (l *fileLogger) saver() { // runner
	defer close(l.done)
	for {
		s := <-l.queue
		if s == "" {
			goto over
		}
		l.write(s)
	more:
		for {
			select {
			case s = <-l.queue:
				if s == "" {
					goto over
				}
				l.write(s)
			default:
				l.clear()
				break more
			}
		}
	}
over:
	l.clear()
	l.file.Close()
}
func (l *fileLogger) write(s string) {
	n := len(s)
	if n >= l.size {
		l.clear()
		l.flush([]byte(s))
		return
	}
	if l.used+n > l.size {
		l.clear()
	}
	l.used += copy(l.buffer[l.used:], s)
}
func (l *fileLogger) clear() {
	if l.used > 0 {
		l.flush(l.buffer[:l.used])
		l.used = 0
	}
}
func (l *fileLogger) flush(logs []byte) {
	l.file.Write(logs)
}
