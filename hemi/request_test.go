// Copyright (c) 2020-2025 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Unit tests for request parsing.

package hemi

import (
	"testing"
)

func TestParseRequest(t *testing.T) {
	tests := []struct {
		input  string
		path   string
		query  string
		expect error
	}{
		{"GET / HTTP/1.1\r\n\r\n", "/", "", nil},
		{"GET /index.html HTTP/1.1\r\nHost: 127.0.0.1\r\n\r\n", "/index.html", "", nil},
		{"GET /calculate-area?height=3&width=4 HTTP/1.1\r\n", "/calculate-area", "height=3&width=4", nil},
		{"GET /a?b?c HTTP/1.1", "/a", "b?c", nil},
		{"GET /a? HTTP/1.1", "/a", "", nil},
		{"GET\t/tab\tHTTP/1.1\n", "/tab", "", nil},
		{"GET  /twice  HTTP/1.1\r\n", "/twice", "", nil},
		{"", "", "", ErrEmptyRequest},
		{"\r\n", "", "", ErrMalformedRequest},
		{"POST / HTTP/1.1\r\n", "", "", ErrMalformedRequest},
		{"get / HTTP/1.1\r\n", "", "", ErrMalformedRequest},
		{"GET / HTTP/1.0\r\n", "", "", ErrMalformedRequest},
		{"GET / http/1.1\r\n", "", "", ErrMalformedRequest},
		{"GET HTTP/1.1\r\n", "", "", ErrMalformedRequest},
		{"GET / HTTP/1.1 extra\r\n", "", "", ErrMalformedRequest},
		{"hello", "", "", ErrMalformedRequest},
	}
	for idx, test := range tests {
		req, err := ParseRequest([]byte(test.input))
		if err != test.expect {
			t.Errorf("#%d: err=%v, expect=%v", idx, err, test.expect)
			continue
		}
		if err != nil {
			if req != nil {
				t.Errorf("#%d: req should be nil", idx)
			}
			continue
		}
		if req.Path != test.path || req.Query != test.query {
			t.Errorf("#%d: path=%q query=%q, expect path=%q query=%q", idx, req.Path, req.Query, test.path, test.query)
		}
		if req.Method != "GET" || req.Version != "HTTP/1.1" {
			t.Errorf("#%d: method=%q version=%q", idx, req.Method, req.Version)
		}
	}
}

func TestRequestLine(t *testing.T) {
	req, err := ParseRequest([]byte("GET\t/a?b=1  HTTP/1.1\r\n"))
	if err != nil {
		t.Fatal(err)
	}
	if line := req.Line(); line != "GET /a?b=1 HTTP/1.1" {
		t.Errorf("line=%q", line)
	}
}

func BenchmarkParseRequest(b *testing.B) {
	input := []byte("GET /calculate-area?height=3&width=4 HTTP/1.1\r\nHost: 127.0.0.1\r\n\r\n")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ParseRequest(input)
	}
}
