// Copyright (c) 2020-2025 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Calculators answer computed routes with arithmetic results instead of files.

package hemi

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

const ( // calculator kinds
	calcArea = "area" // calculate-area?height=3&width=4
	calcNext = "next" // calculate-next?num=66
)

const calcContentType = "text/html; charset=utf-8"

// queryValue returns the value of the first "key=value" pair in query whose key is key.
// Pairs are joined by '&'. Nothing is URL-decoded.
func queryValue(query string, key string) (value string, ok bool) {
	for query != "" {
		var pair string
		pair, query, _ = strings.Cut(query, "&")
		if k, v, found := strings.Cut(pair, "="); found && k == key {
			return v, true
		}
	}
	return "", false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !byteIsDigit(s[i]) {
			return false
		}
	}
	return true
}

// evalArea returns the area of a right triangle of height and width, and whether the
// params are valid. Both must be unsigned decimal integers.
func evalArea(query string) (params map[string]string, area float64, ok bool) {
	height, okHeight := queryValue(query, "height")
	width, okWidth := queryValue(query, "width")
	if !okHeight || !okWidth || !isDigits(height) || !isDigits(width) {
		return nil, 0, false
	}
	h, _ := new(big.Int).SetString(height, 10)
	w, _ := new(big.Int).SetString(width, 10)
	area, _ = new(big.Rat).SetFrac(h.Mul(h, w), big.NewInt(2)).Float64()
	if math.IsInf(area, 0) { // too large to be a real number
		return nil, 0, false
	}
	return map[string]string{"height": height, "width": width}, area, true
}

// evalNext returns num+1, where num is an unsigned or '-'-prefixed unsigned decimal integer.
// For "-n" the result is -(n)+1.
func evalNext(query string) (params map[string]string, next string, ok bool) {
	num, ok := queryValue(query, "num")
	if !ok {
		return nil, "", false
	}
	n := new(big.Int)
	if isDigits(num) {
		n.SetString(num, 10)
	} else if len(num) > 1 && num[0] == '-' && isDigits(num[1:]) {
		n.SetString(num[1:], 10)
		n.Neg(n)
	} else {
		return nil, "", false
	}
	return map[string]string{"num": num}, n.Add(n, big.NewInt(1)).String(), true
}

// formatReal renders a non-negative real number the way it appears in bodies: "6.0", "7.5",
// and "1.2e+16" once it has 17 or more integer digits.
func formatReal(f float64) string {
	if f >= 1e16 {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if strings.IndexByte(s, '.') == -1 {
		s += ".0"
	}
	return s
}
