// Copyright (c) 2020-2025 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Requests and the validator of request lines.

package hemi

import (
	"errors"
	"strings"
)

const (
	methodGET   = "GET"
	versionHTTP = "HTTP/1.1"
)

var (
	ErrEmptyRequest     = errors.New("empty request")
	ErrMalformedRequest = errors.New("malformed request line")
)

// Request is the parsed request line. It is immutable after parsing.
type Request struct {
	Method  string // always GET
	Target  string // path and optional query, as received
	Version string // always HTTP/1.1
	Path    string // target before the first '?'
	Query   string // target after the first '?', without it
}

// ParseRequest validates the first line of input, which is whatever the connection sent in its
// first read. No trailing CRLF is required. ErrEmptyRequest means nothing was sent, and the
// caller should not respond. ErrMalformedRequest means the line is not "GET SP target SP HTTP/1.1".
func ParseRequest(input []byte) (*Request, error) {
	if len(input) == 0 {
		return nil, ErrEmptyRequest
	}
	line := input
	for i, b := range input {
		if b == '\r' || b == '\n' {
			line = input[:i]
			break
		}
	}

	// request-line = method SP request-target SP HTTP-version
	var elems [3]string
	n := 0
	for back, fore := 0, 0; fore <= len(line); fore++ {
		if fore < len(line) && line[fore] != ' ' && line[fore] != '\t' {
			continue
		}
		if fore > back {
			if n == len(elems) { // too many elems
				return nil, ErrMalformedRequest
			}
			elems[n] = string(line[back:fore])
			n++
		}
		back = fore + 1
	}
	if n != len(elems) || elems[0] != methodGET || elems[2] != versionHTTP {
		return nil, ErrMalformedRequest
	}

	req := &Request{Method: elems[0], Target: elems[1], Version: elems[2]}
	req.Path, req.Query, _ = strings.Cut(req.Target, "?")
	return req, nil
}

// Line returns the request line without CRLF.
func (r *Request) Line() string { return r.Method + " " + r.Target + " " + r.Version }
