// Copyright (c) 2020-2025 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Unit tests for loggers.

package hemi

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggerRegistry(t *testing.T) {
	for _, sign := range []string{"noop", "console", "file"} {
		if !loggerRegistered(sign) {
			t.Errorf("logger %s is not registered", sign)
		}
	}
	if loggerRegistered("syslog") {
		t.Error("syslog should not be registered")
	}
	if logger := createLogger("syslog", &LogConfig{}); logger != nil {
		t.Error("unknown logger should be nil")
	}
}

func TestConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	l := newConsoleLogger(&buf, false)
	l.Logf("server is listening on %s", "127.0.0.1:80")
	l.logAccess("127.0.0.1:5000", "GET / HTTP/1.1", 200, 14)
	l.Close()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines=%q", lines)
	}
	stampSize := len(loggerTimeFormat)
	for idx, expect := range []string{"server is listening on 127.0.0.1:80", `127.0.0.1:5000 "GET / HTTP/1.1" 200 14`} {
		if len(lines[idx]) < stampSize || lines[idx][0] != '[' || lines[idx][stampSize:] != expect {
			t.Errorf("#%d: line=%q, expect=%q", idx, lines[idx], expect)
		}
	}
}

func TestConsoleLoggerColored(t *testing.T) {
	var buf bytes.Buffer
	l := newConsoleLogger(&buf, true)
	l.logAccess("-", "GET /t HTTP/1.1", 404, 4)
	l.logAccess("-", "GET / HTTP/1.1", 200, 14)
	s := buf.String()
	if !strings.Contains(s, "\x1b[33m404") {
		t.Errorf("404 should be yellow: %q", s)
	}
	if !strings.Contains(s, "\x1b[32m200") {
		t.Errorf("200 should be green: %q", s)
	}
}

func TestFileLogger(t *testing.T) {
	target := filepath.Join(t.TempDir(), "sub", "app.log")
	logger := createLogger("file", &LogConfig{Target: target, BufSize: 64})
	if logger == nil {
		t.Fatal("file logger is not created")
	}
	long := strings.Repeat("x", 100) // larger than the buffer
	logger.Logf("first %d", 1)
	logger.Logf("%s\n", long)
	logger.Logf("")
	logger.Logf("last")
	logger.Close()

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines=%q", lines)
	}
	for idx, expect := range []string{"first 1", long, "last"} {
		if !strings.HasSuffix(lines[idx], "] "+expect) {
			t.Errorf("#%d: line=%q, expect=%q", idx, lines[idx], expect)
		}
	}
}
