// Copyright (c) 2020-2025 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Responses and their assembly into bytes.

package hemi

import (
	"io"
	"strconv"
)

const (
	headerContentType   = "Content-Type"
	headerContentLength = "Content-Length"
	headerLocation      = "Location"
)

var bytesCRLF = []byte("\r\n")

// Response is an assembled response: status line, header lines, blank line, then raw body.
type Response struct {
	Status  int16
	headers [][2]string // name, value. in sending order
	Body    []byte
}

// newResponse creates a response with its Content-Type (omitted if empty) and Content-Length set.
func newResponse(status int16, contentType string, body []byte) *Response {
	r := &Response{Status: status, Body: body}
	if contentType != "" {
		r.AddHeader(headerContentType, contentType)
	}
	r.AddHeader(headerContentLength, strconv.Itoa(len(body)))
	return r
}

func (r *Response) AddHeader(name string, value string) {
	r.headers = append(r.headers, [2]string{name, value})
}
func (r *Response) Header(name string) (value string, ok bool) {
	for _, header := range r.headers {
		if header[0] == name {
			return header[1], true
		}
	}
	return "", false
}
func (r *Response) setHeader(name string, value string) {
	for i := range r.headers {
		if r.headers[i][0] == name {
			r.headers[i][1] = value
			return
		}
	}
	r.AddHeader(name, value)
}

// Bytes returns the whole response. The body is appended as is.
func (r *Response) Bytes() []byte {
	size := len(versionHTTP) + 16 + len(r.Body)
	for _, header := range r.headers {
		size += len(header[0]) + len(header[1]) + 4
	}
	p := make([]byte, 0, size)
	// status-line = HTTP-version SP status-code SP reason-phrase CRLF
	p = append(p, versionHTTP...)
	p = append(p, ' ')
	p = strconv.AppendInt(p, int64(r.Status), 10)
	p = append(p, ' ')
	p = append(p, StatusText(r.Status)...)
	p = append(p, bytesCRLF...)
	for _, header := range r.headers {
		p = append(p, header[0]...)
		p = append(p, ':', ' ')
		p = append(p, header[1]...)
		p = append(p, bytesCRLF...)
	}
	p = append(p, bytesCRLF...)
	return append(p, r.Body...)
}

func (r *Response) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.Bytes())
	return int64(n), err
}
