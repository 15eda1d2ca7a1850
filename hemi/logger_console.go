// Copyright (c) 2020-2025 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Console logger writes events to stderr or stdout, colored on terminals.

package hemi

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

func init() {
	RegisterLogger("console", func(config *LogConfig) Logger {
		file := os.Stderr
		if config.Target == "stdout" {
			file = os.Stdout
		}
		fd := file.Fd()
		if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
			return newConsoleLogger(colorable.NewColorable(file), true)
		}
		return newConsoleLogger(colorable.NewNonColorable(file), false)
	})
}

const loggerTimeFormat = "[2006-01-02 15:04:05.000] "

// consoleLogger
type consoleLogger struct {
	mutex    sync.Mutex
	output   io.Writer
	stamp    *color.Color
	statuses [6]*color.Color // indexed by status/100
}

func newConsoleLogger(output io.Writer, colored bool) *consoleLogger {
	l := new(consoleLogger)
	l.output = output
	l.stamp = color.New(color.Faint)
	l.statuses[1] = color.New(color.FgWhite)
	l.statuses[2] = color.New(color.FgGreen)
	l.statuses[3] = color.New(color.FgCyan)
	l.statuses[4] = color.New(color.FgYellow)
	l.statuses[5] = color.New(color.FgRed, color.Bold)
	for _, c := range append([]*color.Color{l.stamp}, l.statuses[1:]...) {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return l
}

func (l *consoleLogger) Logf(f string, v ...any) {
	s := fmt.Sprintf(f, v...)
	if n := len(s); n == 0 || s[n-1] != '\n' {
		s += "\n"
	}
	l.write(s)
}
func (l *consoleLogger) Close() {}

func (l *consoleLogger) logAccess(remote string, line string, status int16, size int) {
	code := strconv.Itoa(int(status))
	if class := status / 100; class >= 1 && class <= 5 {
		code = l.statuses[class].Sprint(code)
	}
	l.write(fmt.Sprintf("%s %q %s %d\n", remote, line, code, size))
}

func (l *consoleLogger) write(s string) {
	stamp := l.stamp.Sprint(time.Now().Format(loggerTimeFormat))
	l.mutex.Lock()
	io.WriteString(l.output, stamp+s)
	l.mutex.Unlock()
}
