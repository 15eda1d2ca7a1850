// Copyright (c) 2020-2025 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Resolver maps validated requests to outcomes, and outcomes to responses.

package hemi

import (
	"path/filepath"
	"strings"
)

// Resolver
type Resolver struct {
	// Assocs
	config *Config // read only
	store  Store
}

func NewResolver(config *Config, store Store) *Resolver {
	return &Resolver{config: config, store: store}
}

// Handle parses input and returns the response to send. It returns nil if nothing should be sent.
func (r *Resolver) Handle(input []byte) *Response {
	req, err := ParseRequest(input)
	if err == ErrEmptyRequest {
		return nil
	}
	if err != nil {
		return r.Respond(&Outcome{Kind: OutcomeInternalError})
	}
	return r.Respond(r.Resolve(req))
}

// LocalPath maps a request path to a path in the web root. "/" and " " map to the index file.
// Paths are not confined to the web root: ".." segments are kept as is.
func (r *Resolver) LocalPath(path string) string {
	if path == "/" || path == " " {
		return r.config.IndexPath()
	}
	if path == "" || path[0] != '/' {
		path = "/" + path
	}
	return filepath.FromSlash(r.config.webRoot + path)
}

// Resolve chooses the outcome of req. Computed routes come first, then redirects, forbidden
// resources, and at last the file system.
func (r *Resolver) Resolve(req *Request) *Outcome {
	localPath := r.LocalPath(req.Path)
	segment := localPath[strings.LastIndexAny(localPath, `/\`)+1:]
	if DebugLevel() >= 1 {
		Printf("the client request = %s\n", localPath)
	}

	switch segment {
	case r.config.calculators[calcArea]:
		if params, area, ok := evalArea(req.Query); ok {
			return &Outcome{Kind: OutcomeComputed, Calc: calcArea, Params: params, Result: formatReal(area)}
		}
	case r.config.calculators[calcNext]:
		if params, next, ok := evalNext(req.Query); ok {
			return &Outcome{Kind: OutcomeComputed, Calc: calcNext, Params: params, Result: next}
		}
	}

	resource := r.config.localAddress + segment
	if r.config.redirects[resource] {
		return &Outcome{Kind: OutcomeRedirect, Resource: resource}
	}
	if r.config.forbidden[resource] {
		return &Outcome{Kind: OutcomeForbidden, Resource: resource}
	}
	if !r.store.IsFile(localPath) {
		return &Outcome{Kind: OutcomeNotFound}
	}
	return &Outcome{Kind: OutcomeSuccess, Path: localPath}
}

// Respond builds the response of outcome. Store errors never fail the response: the error
// text is sent as body with the status of the outcome.
func (r *Resolver) Respond(outcome *Outcome) *Response {
	switch outcome.Kind {
	case OutcomeSuccess:
		mimeType, _ := r.config.MimeType(outcome.Path)
		return newResponse(StatusOK, mimeType, r.read(outcome.Path))
	case OutcomeComputed:
		resp := newResponse(StatusOK, calcContentType, []byte(outcome.Result))
		if outcome.Calc == calcArea && r.config.areaLengthQuirk {
			if _, area, ok := evalArea(_paramsQuery(outcome.Params)); ok {
				resp.setHeader(headerContentLength, formatReal(area/4))
			}
		}
		return resp
	default:
		status := outcome.Status()
		file := filepath.FromSlash(r.config.StatusFile(status))
		mimeType, _ := r.config.MimeType(file)
		resp := newResponse(status, mimeType, r.read(file))
		if outcome.Kind == OutcomeRedirect {
			if location, ok := r.config.redirectLocations[outcome.Resource]; ok {
				resp.AddHeader(headerLocation, location)
			}
		}
		return resp
	}
}

func (r *Resolver) read(path string) []byte {
	data, err := r.store.Read(path)
	if err != nil {
		if DebugLevel() >= 1 {
			Printf("read %s error: %s\n", path, err.Error())
		}
		return []byte(err.Error())
	}
	return data
}

func _paramsQuery(params map[string]string) string {
	return "height=" + params["height"] + "&width=" + params["width"]
}
