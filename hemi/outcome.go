// Copyright (c) 2020-2025 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Outcomes of resolving a request, and the statuses they map to.

package hemi

const ( // supported statuses
	StatusOK                  = 200
	StatusFound               = 302
	StatusForbidden           = 403
	StatusNotFound            = 404
	StatusInternalServerError = 500
)

var statusTexts = map[int16]string{
	StatusOK:                  "OK",
	StatusFound:               "Moved Temporarily",
	StatusForbidden:           "Forbidden",
	StatusNotFound:            "Not Found",
	StatusInternalServerError: "Internal Server Error",
}

// StatusText returns the reason phrase of a supported status, or "" if not supported.
func StatusText(status int16) string { return statusTexts[status] }

const ( // outcome kinds
	OutcomeSuccess = iota
	OutcomeRedirect
	OutcomeForbidden
	OutcomeNotFound
	OutcomeComputed
	OutcomeInternalError
)

var outcomeNames = [...]string{
	OutcomeSuccess:       "success",
	OutcomeRedirect:      "redirect",
	OutcomeForbidden:     "forbidden",
	OutcomeNotFound:      "notFound",
	OutcomeComputed:      "computed",
	OutcomeInternalError: "internalError",
}

// Outcome is the result category chosen once per request. Only the fields of its kind are set.
type Outcome struct {
	Kind     int8
	Path     string            // for success, the file to send
	Resource string            // for redirect and forbidden, the matched resource
	Calc     string            // for computed, calcArea or calcNext
	Params   map[string]string // for computed, the validated params
	Result   string            // for computed, the body
}

func (o *Outcome) Name() string { return outcomeNames[o.Kind] }

// Status returns the status code that the outcome is answered with.
func (o *Outcome) Status() int16 {
	switch o.Kind {
	case OutcomeSuccess, OutcomeComputed:
		return StatusOK
	case OutcomeRedirect:
		return StatusFound
	case OutcomeForbidden:
		return StatusForbidden
	case OutcomeNotFound:
		return StatusNotFound
	default:
		return StatusInternalServerError
	}
}
