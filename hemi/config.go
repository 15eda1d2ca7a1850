// Copyright (c) 2020-2025 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Config language: lexer, values, and the configurator that builds a Config.

package hemi

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func ConfigFromText(configText string) (*Config, error) {
	var c configurator
	return c.configFromText(configText)
}
func ConfigFromFile(configBase string, configFile string) (*Config, error) {
	var c configurator
	return c.configFromFile(configBase, configFile)
}

// configurator parses config tokens and creates a new Config.
type configurator struct {
	// States
	tokens []token // the token list
	index  int     // token index
}

func (c *configurator) configFromText(text string) (config *Config, err error) {
	defer func() {
		if x := recover(); x != nil {
			config, err = nil, _recoveredError(x)
		}
	}()
	var l lexer
	c.tokens = l.scanText(text)
	return c.newConfig(), nil
}
func (c *configurator) configFromFile(base string, file string) (config *Config, err error) {
	defer func() {
		if x := recover(); x != nil {
			config, err = nil, fmt.Errorf("config file %s: %w", file, _recoveredError(x))
		}
	}()
	var l lexer
	c.tokens = l.scanFile(base, file)
	return c.newConfig(), nil
}

func _recoveredError(x any) error {
	if err, ok := x.(error); ok {
		return err
	}
	return fmt.Errorf("%v", x)
}

func (c *configurator) currentToken() *token { return &c.tokens[c.index] }
func (c *configurator) forwardToken() *token {
	c._forwardCheckEOF()
	return &c.tokens[c.index]
}
func (c *configurator) currentTokenIs(kind int16) bool { return c.tokens[c.index].kind == kind }
func (c *configurator) nextTokenIs(kind int16) bool {
	if c.index+1 >= len(c.tokens) {
		return false
	}
	return c.tokens[c.index+1].kind == kind
}
func (c *configurator) expectToken(kind int16) *token {
	current := &c.tokens[c.index]
	if current.kind != kind {
		panic(fmt.Errorf("configurator: expect %s, but get %s=%s (in line %d)", tokenNames[kind], tokenNames[current.kind], current.text, current.line))
	}
	return current
}
func (c *configurator) forwardExpectToken(kind int16) *token {
	c._forwardCheckEOF()
	return c.expectToken(kind)
}
func (c *configurator) _forwardCheckEOF() {
	if c.index++; c.index == len(c.tokens) {
		panic(errors.New("configurator: unexpected EOF"))
	}
}

func (c *configurator) newConfig() *Config {
	config := new(Config)
	config.onCreate()
	gotServer := false
	for c.index = 0; c.index < len(c.tokens); c.index++ {
		current := c.currentToken()
		if current.kind != tokenComponent {
			panic(fmt.Errorf("configurator: unknown token %s=%s (in line %d) in config", current.name(), current.text, current.line))
		}
		switch current.info {
		case compServer: // server <name> {}
			if gotServer {
				panic(fmt.Errorf("configurator: duplicated server (in line %d)", current.line))
			}
			gotServer = true
			name := c.forwardExpectToken(tokenString)
			config.MakeComp(name.text)
			c.forwardToken()
			c._parseLeaf(&config.Component_)
		case compLogger: // logger <sign> {}
			sign := c.forwardExpectToken(tokenString)
			if !loggerRegistered(sign.text) {
				panic(fmt.Errorf("configurator: unknown logger '%s' (in line %d)", sign.text, sign.line))
			}
			config.logger.MakeComp(sign.text)
			c.forwardToken()
			c._parseLeaf(&config.logger)
		default:
			panic(fmt.Errorf("configurator: unknown component '%s' (in line %d)", current.text, current.line))
		}
	}
	if !gotServer {
		panic(errors.New("configurator: server is required"))
	}
	config.OnConfigure()
	return config
}

func (c *configurator) _parseLeaf(component *Component_) {
	c.expectToken(tokenLeftBrace) // {
	for {
		current := c.forwardToken()
		if current.kind == tokenRightBrace { // }
			return
		}
		if current.kind == tokenProperty { // .property
			c._parseAssign(current, component)
			continue
		}
		panic(fmt.Errorf("configurator: unknown token %s=%s (in line %d) in component", current.name(), current.text, current.line))
	}
}
func (c *configurator) _parseAssign(prop *token, component *Component_) {
	c.forwardExpectToken(tokenEqual) // =
	c.forwardToken()
	var value Value
	c._parseValue(component, prop.text, &value)
	component.setProp(prop.text, value)
}

func (c *configurator) _parseValue(component *Component_, prop string, value *Value) {
	current := c.currentToken()
	switch current.kind {
	case tokenBool:
		value.kind, value.value = tokenBool, current.text == "true"
	case tokenInteger:
		last := current.text[len(current.text)-1]
		if byteIsDigit(last) {
			n64, err := strconv.ParseInt(current.text, 10, 64)
			if err != nil {
				panic(fmt.Errorf("configurator: bad integer %s", current.text))
			}
			value.value = n64
		} else {
			size, err := strconv.ParseInt(current.text[:len(current.text)-1], 10, 64)
			if err != nil {
				panic(fmt.Errorf("configurator: bad size %s", current.text))
			}
			switch last {
			case 'K':
				size <<= 10
			case 'M':
				size <<= 20
			case 'G':
				size <<= 30
			}
			value.value = size
		}
		value.kind = tokenInteger
	case tokenString:
		value.kind, value.value = tokenString, current.text
	case tokenDuration:
		var n int64
		var err error
		var d time.Duration
		if text := current.text; strings.HasSuffix(text, "ms") {
			n, err = strconv.ParseInt(text[:len(text)-2], 10, 64)
			d = time.Duration(n) * time.Millisecond
		} else {
			last := len(text) - 1
			n, err = strconv.ParseInt(text[:last], 10, 64)
			switch text[last] {
			case 's':
				d = time.Duration(n) * time.Second
			case 'm':
				d = time.Duration(n) * time.Minute
			case 'h':
				d = time.Duration(n) * time.Hour
			case 'd':
				d = time.Duration(n) * 24 * time.Hour
			}
		}
		if err != nil {
			panic(fmt.Errorf("configurator: bad duration %s", current.text))
		}
		value.kind, value.value = tokenDuration, d
	case tokenLeftParen: // (...)
		c._parseList(component, prop, value)
	case tokenLeftBracket: // [...]
		c._parseDict(component, prop, value)
	case tokenProperty: // .property
		if propRef := current.text; prop == propRef {
			panic(errors.New("configurator: cannot refer to self"))
		} else if valueRef, ok := component.Find(propRef); !ok {
			panic(fmt.Errorf("configurator: refer to a prop that doesn't exist in line %d", current.line))
		} else {
			*value = valueRef
		}
	default:
		panic(fmt.Errorf("configurator: expect a value, but get token %s=%s (in line %d)", current.name(), current.text, current.line))
	}

	if value.kind != tokenString {
		// Currently only strings can be concatenated
		return
	}

	for c.nextTokenIs(tokenPlus) { // any concatenations?
		c.forwardToken() // +
		current = c.forwardToken()
		var str Value
		if current.kind == tokenString || current.kind == tokenProperty {
			c._parseValue(component, prop, &str)
		}
		if str.kind != tokenString {
			panic(fmt.Errorf("configurator: cannot concat string with other types (in line %d)", current.line))
		}
		value.value = value.value.(string) + str.value.(string)
	}
}
func (c *configurator) _parseList(component *Component_, prop string, value *Value) {
	list := []Value{}
	c.expectToken(tokenLeftParen) // (
	for {
		current := c.forwardToken()
		if current.kind == tokenRightParen { // )
			break
		}
		var elem Value
		c._parseValue(component, prop, &elem)
		list = append(list, elem)
		current = c.forwardToken()
		if current.kind == tokenRightParen { // )
			break
		} else if current.kind != tokenComma { // ,
			panic(fmt.Errorf("configurator: bad list in line %d", current.line))
		}
	}
	value.kind, value.value = tokenList, list
}
func (c *configurator) _parseDict(component *Component_, prop string, value *Value) {
	dict := make(map[string]Value)
	c.expectToken(tokenLeftBracket) // [
	for {
		current := c.forwardToken()
		if current.kind == tokenRightBracket { // ]
			break
		}
		k := c.expectToken(tokenString)  // k
		c.forwardExpectToken(tokenColon) // :
		c.forwardToken()                 // v
		var v Value
		c._parseValue(component, prop, &v)
		dict[k.text] = v
		current = c.forwardToken()
		if current.kind == tokenRightBracket { // ]
			break
		} else if current.kind != tokenComma { // ,
			panic(fmt.Errorf("configurator: bad dict in line %d", current.line))
		}
	}
	value.kind, value.value = tokenDict, dict
}

const ( // component list
	compServer = 1 + iota // server
	compLogger            // logger
)

var signedComps = map[string]int16{ // static comps. more dynamic comps are not supported
	"server": compServer,
	"logger": compLogger,
}

const ( // token list. if you change this list, change tokenNames too.
	// Components
	tokenComponent = 1 + iota // server, logger
	// Properties
	tokenProperty // .address, .webRoot, ...
	// Operators
	tokenLeftBrace    // {
	tokenRightBrace   // }
	tokenLeftBracket  // [
	tokenRightBracket // ]
	tokenLeftParen    // (
	tokenRightParen   // )
	tokenComma        // ,
	tokenColon        // :
	tokenPlus         // +
	tokenEqual        // =
	// Values
	tokenBool     // true, false
	tokenInteger  // 123, 16K, 256M, ...
	tokenString   // "", "abc", `def`, ...
	tokenDuration // 100ms, 1s, 2m, 3h, 4d, ...
	tokenList     // lists: (...)
	tokenDict     // dicts: [...]
)

var tokenNames = [...]string{ // token names. if you change this list, change token list too.
	// Components
	tokenComponent: "component",
	// Properties
	tokenProperty: "property",
	// Operators
	tokenLeftBrace:    "leftBrace",
	tokenRightBrace:   "rightBrace",
	tokenLeftBracket:  "leftBracket",
	tokenRightBracket: "rightBracket",
	tokenLeftParen:    "leftParen",
	tokenRightParen:   "rightParen",
	tokenComma:        "comma",
	tokenColon:        "colon",
	tokenPlus:         "plus",
	tokenEqual:        "equal",
	// Values
	tokenBool:     "bool",
	tokenInteger:  "integer",
	tokenString:   "string",
	tokenDuration: "duration",
	tokenList:     "list",
	tokenDict:     "dict",
}

var ( // solo tokens
	soloKinds = [256]int16{ // keep sync with soloTexts
		'{': tokenLeftBrace,
		'}': tokenRightBrace,
		'[': tokenLeftBracket,
		']': tokenRightBracket,
		'(': tokenLeftParen,
		')': tokenRightParen,
		',': tokenComma,
		':': tokenColon,
		'+': tokenPlus,
		'=': tokenEqual,
	}
	soloTexts = [...]string{ // keep sync with soloKinds
		'{': "{",
		'}': "}",
		'[': "[",
		']': "]",
		'(': "(",
		')': ")",
		',': ",",
		':': ":",
		'+': "+",
		'=': "=",
	}
)

// token is a token in config file.
type token struct { // 40 bytes
	kind int16  // tokenXXX
	info int16  // compXXX for components
	line int32  // at line number
	file string // file path
	text string // text literal
}

func (t token) name() string { return tokenNames[t.kind] }

// lexer scans tokens in config file.
type lexer struct {
	index int
	limit int
	text  string // the config text
	base  string
	file  string
}

func (l *lexer) scanText(text string) []token {
	l.text = text
	return l.scan()
}
func (l *lexer) scanFile(base string, file string) []token {
	l.text = l.load(base, file)
	l.base, l.file = base, file
	return l.scan()
}

func (l *lexer) scan() []token {
	l.index, l.limit = 0, len(l.text)
	var tokens []token
	line := int32(1)
	for l.index < l.limit {
		from := l.index
		switch b := l.text[l.index]; b {
		case ' ', '\t', '\r': // blank, ignore
			l.index++
		case '\n': // new line
			line++
			l.index++
		case '#': // shell comment
			l.nextUntil('\n')
		case '/': // line comment or stream comment
			if c := l.mustNext(); c == '/' { // line comment
				l.nextUntil('\n')
			} else if c == '*' { // stream comment
				l.index++
				for l.index < l.limit {
					if d := l.text[l.index]; d == '/' && l.text[l.index-1] == '*' {
						break
					} else {
						if d == '\n' {
							line++
						}
						l.index++
					}
				}
				l.checkEOF()
				l.index++
			} else {
				panic(fmt.Errorf("lexer: unknown character %c (ascii %v) in line %d (%s)", b, b, line, l.file))
			}
		case '"', '`': // "string" or `string`
			s := l.text[l.index] // " or `
			l.index++
			l.nextUntil(s) // " or `
			l.checkEOF()
			tokens = append(tokens, token{tokenString, 0, line, l.file, l.text[from+1 : l.index]})
			l.index++
		case '<': // <includedFile>
			if l.base == "" {
				panic(errors.New("lexer: include is not allowed in text mode"))
			}
			l.index++
			l.nextUntil('>')
			l.checkEOF()
			file := l.text[from+1 : l.index]
			l.index++
			var ll lexer
			tokens = append(tokens, ll.scanFile(l.base, file)...)
		case '%': // %constant
			l.nextAlnums()
			name := l.text[from+1 : l.index]
			var value string
			switch name {
			case "topDir":
				value = TopDir()
			case "logDir":
				value = LogDir()
			default:
				panic(fmt.Errorf("lexer: '%%%s' is not a valid constant in line %d (%s)", name, line, l.file))
			}
			tokens = append(tokens, token{tokenString, 0, line, l.file, value})
		case '.': // .property
			l.nextAlnums()
			if l.index == from+1 {
				panic(fmt.Errorf("lexer: empty property in line %d (%s)", line, l.file))
			}
			tokens = append(tokens, token{tokenProperty, 0, line, l.file, l.text[from+1 : l.index]})
		default:
			if kind := soloKinds[b]; kind != 0 { // kind starts from 1
				tokens = append(tokens, token{kind, 0, line, l.file, soloTexts[b]})
				l.index++
			} else if byteIsAlpha(b) { // 'a-zA-Z'
				l.nextAlnums() // '0-9a-zA-Z'
				if identifier := l.text[from:l.index]; identifier == "true" || identifier == "false" {
					tokens = append(tokens, token{tokenBool, 0, line, l.file, identifier})
				} else if comp, ok := signedComps[identifier]; ok {
					tokens = append(tokens, token{tokenComponent, comp, line, l.file, identifier})
				} else {
					panic(fmt.Errorf("lexer: '%s' is not a valid component in line %d (%s)", identifier, line, l.file))
				}
			} else if byteIsDigit(b) { // '0-9'
				l.nextDigits()
				digits := true
				if l.index < l.limit {
					switch l.text[l.index] {
					case 'm':
						if l.index+1 < l.limit && l.text[l.index+1] == 's' { // ms
							l.index++
						}
						fallthrough
					case 's', 'h', 'd':
						digits = false
						l.index++
						tokens = append(tokens, token{tokenDuration, 0, line, l.file, l.text[from:l.index]})
					case 'K', 'M', 'G':
						digits = false
						l.index++
						tokens = append(tokens, token{tokenInteger, 0, line, l.file, l.text[from:l.index]})
					}
				}
				if digits {
					tokens = append(tokens, token{tokenInteger, 0, line, l.file, l.text[from:l.index]})
				}
			} else {
				panic(fmt.Errorf("lexer: unknown character %c (ascii %v) in line %d (%s)", b, b, line, l.file))
			}
		}
	}
	return tokens
}

func (l *lexer) nextUntil(b byte) {
	if i := strings.IndexByte(l.text[l.index:], b); i == -1 {
		l.index = l.limit
	} else {
		l.index += i
	}
}
func (l *lexer) mustNext() byte {
	l.index++
	l.checkEOF()
	return l.text[l.index]
}
func (l *lexer) checkEOF() {
	if l.index == l.limit {
		panic(errors.New("lexer: unexpected eof"))
	}
}
func (l *lexer) nextAlnums() {
	for l.index++; l.index < l.limit && byteIsAlnum(l.text[l.index]); l.index++ {
	}
}
func (l *lexer) nextDigits() {
	for l.index++; l.index < l.limit && byteIsDigit(l.text[l.index]); l.index++ {
	}
}

func (l *lexer) load(base string, file string) string {
	path := file
	if file == "" {
		panic(errors.New("lexer: empty file name"))
	}
	if file[0] != '/' && base != "" {
		if base[len(base)-1] == '/' {
			path = base + file
		} else {
			path = base + "/" + file
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	return string(data)
}

func byteIsAlpha(b byte) bool { return b >= 'A' && b <= 'Z' || b >= 'a' && b <= 'z' }
func byteIsDigit(b byte) bool { return b >= '0' && b <= '9' }
func byteIsAlnum(b byte) bool { return byteIsAlpha(b) || byteIsDigit(b) }

// Value is a value in config file.
type Value struct {
	kind  int16 // tokenXXX in values
	value any   // bools, integers, strings, durations, lists, and dicts
}

func (v *Value) IsBool() bool     { return v.kind == tokenBool }
func (v *Value) IsInteger() bool  { return v.kind == tokenInteger }
func (v *Value) IsString() bool   { return v.kind == tokenString }
func (v *Value) IsDuration() bool { return v.kind == tokenDuration }
func (v *Value) IsList() bool     { return v.kind == tokenList }
func (v *Value) IsDict() bool     { return v.kind == tokenDict }

func (v *Value) Bool() (b bool, ok bool) {
	b, ok = v.value.(bool)
	return
}
func (v *Value) Int64() (i64 int64, ok bool) {
	i64, ok = v.value.(int64)
	return
}
func (v *Value) Int32() (i32 int32, ok bool) { return toInt[int32](v) }
func (v *Value) Int() (i int, ok bool)       { return toInt[int](v) }
func toInt[T ~int | ~int8 | ~int16 | ~int32 | ~int64](v *Value) (i T, ok bool) {
	i64, ok := v.Int64()
	i = T(i64)
	if ok && int64(i) != i64 {
		ok = false
	}
	return
}
func (v *Value) String() (s string, ok bool) {
	s, ok = v.value.(string)
	return
}
func (v *Value) Duration() (d time.Duration, ok bool) {
	d, ok = v.value.(time.Duration)
	return
}
func (v *Value) List() (list []Value, ok bool) {
	list, ok = v.value.([]Value)
	return
}
func (v *Value) StringList() (list []string, ok bool) {
	l, ok := v.value.([]Value)
	if !ok {
		return
	}
	for _, value := range l {
		s, isString := value.String()
		if !isString {
			return nil, false
		}
		list = append(list, s)
	}
	return
}
func (v *Value) Dict() (dict map[string]Value, ok bool) {
	dict, ok = v.value.(map[string]Value)
	return
}
func (v *Value) StringDict() (dict map[string]string, ok bool) {
	d, ok := v.value.(map[string]Value)
	if !ok {
		return
	}
	dict = make(map[string]string, len(d))
	for name, value := range d {
		s, isString := value.String()
		if !isString {
			return nil, false
		}
		dict[name] = s
	}
	return
}
