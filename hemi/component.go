// Copyright (c) 2020-2025 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Components and the immutable server config built from them.

package hemi

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Component_ is the parent for all components.
type Component_ struct {
	// States
	name  string           // main, console, ...
	props map[string]Value // name1=value1, ...
}

func (c *Component_) MakeComp(name string) {
	c.name = name
	if c.props == nil {
		c.props = make(map[string]Value)
	}
}
func (c *Component_) Name() string { return c.name }

func (c *Component_) Find(name string) (value Value, ok bool) {
	value, ok = c.props[name]
	return
}

func (c *Component_) ConfigureBool(name string, prop *bool, defaultValue bool) {
	_configureProp(c, name, prop, (*Value).Bool, nil, defaultValue)
}
func (c *Component_) ConfigureInt32(name string, prop *int32, check func(value int32) error, defaultValue int32) {
	_configureProp(c, name, prop, (*Value).Int32, check, defaultValue)
}
func (c *Component_) ConfigureString(name string, prop *string, check func(value string) error, defaultValue string) {
	_configureProp(c, name, prop, (*Value).String, check, defaultValue)
}
func (c *Component_) ConfigureDuration(name string, prop *time.Duration, check func(value time.Duration) error, defaultValue time.Duration) {
	_configureProp(c, name, prop, (*Value).Duration, check, defaultValue)
}
func (c *Component_) ConfigureStringList(name string, prop *[]string, check func(value []string) error, defaultValue []string) {
	_configureProp(c, name, prop, (*Value).StringList, check, defaultValue)
}
func (c *Component_) ConfigureStringDict(name string, prop *map[string]string, check func(value map[string]string) error, defaultValue map[string]string) {
	_configureProp(c, name, prop, (*Value).StringDict, check, defaultValue)
}

func _configureProp[T any](c *Component_, name string, prop *T, conv func(*Value) (T, bool), check func(value T) error, defaultValue T) {
	if v, ok := c.Find(name); ok {
		if value, ok := conv(&v); ok && check == nil {
			*prop = value
		} else if ok && check != nil {
			if err := check(value); err == nil {
				*prop = value
			} else {
				panic(fmt.Errorf("%s is error in %s: %s", name, c.name, err.Error()))
			}
		} else {
			panic(fmt.Errorf("invalid %s in %s", name, c.name))
		}
	} else {
		*prop = defaultValue
	}
}

func (c *Component_) setProp(name string, value Value) { c.props[name] = value }

// Config is the immutable configuration of a server. It is built once by the configurator
// and shared read-only by the resolver and the server afterwards.
type Config struct {
	// Mixins
	Component_
	// Assocs
	logger Component_ // logger <sign> {}
	// States
	address           string            // 0.0.0.0:80, :3080, ...
	webRoot           string            // root dir for the web
	indexFile         string            // the default document
	localAddress      string            // prefix of resources in forbidden and redirects
	readTimeout       time.Duration     // timeout of the single read after accept
	writeTimeout      time.Duration     // timeout of writing the response
	deferAccept       bool              // accept only after data arrives? linux only
	readBufferSize    int32             // max size of the request head we read
	statusFiles       map[int16]string  // status -> file that is used as body
	forbidden         map[string]bool   // resources that get 403
	redirects         map[string]bool   // resources that get 302
	redirectLocations map[string]string // resource -> location, optional
	calculators       map[string]string // calculator kind -> route name
	mimeTypes         map[string]string // file extension -> content type
	areaLengthQuirk   bool              // send area/4 as content-length of calculate-area?
	logConfig         LogConfig         // config of the logger
}

func (c *Config) onCreate() {
	c.MakeComp("")
	c.logger.MakeComp("noop")
}

func (c *Config) OnConfigure() {
	// address
	c.ConfigureString("address", &c.address, func(value string) error {
		if p := strings.LastIndexByte(value, ':'); p == -1 || p == len(value)-1 {
			return errors.New(".address needs a port")
		}
		return nil
	}, "0.0.0.0:80")

	// webRoot
	c.ConfigureString("webRoot", &c.webRoot, func(value string) error {
		if value != "" {
			return nil
		}
		return errors.New(".webRoot has an invalid value")
	}, TopDir()+"/root")
	c.webRoot = strings.TrimRight(c.webRoot, "/")

	// indexFile
	c.ConfigureString("indexFile", &c.indexFile, func(value string) error {
		if value != "" {
			return nil
		}
		return errors.New(".indexFile has an invalid value")
	}, "index.html")

	// localAddress
	c.ConfigureString("localAddress", &c.localAddress, nil, "127.0.0.1/")

	// readTimeout
	c.ConfigureDuration("readTimeout", &c.readTimeout, func(value time.Duration) error {
		if value > 0 {
			return nil
		}
		return errors.New(".readTimeout has an invalid value")
	}, 100*time.Millisecond)

	// writeTimeout
	c.ConfigureDuration("writeTimeout", &c.writeTimeout, func(value time.Duration) error {
		if value > 0 {
			return nil
		}
		return errors.New(".writeTimeout has an invalid value")
	}, 5*time.Second)

	// deferAccept
	c.ConfigureBool("deferAccept", &c.deferAccept, false)

	// readBufferSize
	c.ConfigureInt32("readBufferSize", &c.readBufferSize, func(value int32) error {
		if value >= 64 && value <= 64<<10 {
			return nil
		}
		return errors.New(".readBufferSize has an invalid value")
	}, 1024)

	// statusFiles
	files := make(map[string]string)
	c.ConfigureStringDict("statusFiles", &files, nil, files)
	c.statusFiles = make(map[int16]string)
	for _, status := range []int16{StatusFound, StatusForbidden, StatusNotFound, StatusInternalServerError} {
		c.statusFiles[status] = c.webRoot + "/status/" + strconv.Itoa(int(status)) + ".html"
	}
	for code, file := range files {
		status, err := strconv.ParseInt(code, 10, 16)
		if _, known := c.statusFiles[int16(status)]; err != nil || !known {
			panic(fmt.Errorf("statusFiles is error in %s: no status file for %s", c.name, code))
		}
		if file == "" {
			panic(fmt.Errorf("statusFiles is error in %s: empty file for %s", c.name, code))
		}
		c.statusFiles[int16(status)] = file
	}

	// forbidden & redirects
	var list []string
	c.ConfigureStringList("forbidden", &list, nil, nil)
	c.forbidden = makeSet(list)
	c.ConfigureStringList("redirects", &list, nil, nil)
	c.redirects = makeSet(list)

	// redirectLocations
	c.ConfigureStringDict("redirectLocations", &c.redirectLocations, func(value map[string]string) error {
		for resource := range value {
			if !c.redirects[resource] {
				return fmt.Errorf("%s is not in .redirects", resource)
			}
		}
		return nil
	}, map[string]string{})

	// calculators
	c.calculators = map[string]string{
		calcArea: "calculate-area",
		calcNext: "calculate-next",
	}
	var calculators map[string]string
	c.ConfigureStringDict("calculators", &calculators, func(value map[string]string) error {
		for kind, route := range value {
			if kind != calcArea && kind != calcNext {
				return fmt.Errorf("unknown calculator %s", kind)
			}
			if route == "" || strings.ContainsAny(route, "/?") {
				return fmt.Errorf("bad route for calculator %s", kind)
			}
		}
		return nil
	}, nil)
	for kind, route := range calculators {
		c.calculators[kind] = route
	}

	// mimeTypes
	c.mimeTypes = make(map[string]string, len(defaultMimeTypes))
	for ext, mimeType := range defaultMimeTypes {
		c.mimeTypes[ext] = mimeType
	}
	var mimeTypes map[string]string
	c.ConfigureStringDict("mimeTypes", &mimeTypes, nil, nil)
	for ext, mimeType := range mimeTypes { // overwrite default
		c.mimeTypes[ext] = mimeType
	}

	// areaLengthQuirk
	c.ConfigureBool("areaLengthQuirk", &c.areaLengthQuirk, false)

	// logger
	c.logger.ConfigureString("target", &c.logConfig.Target, nil, "")
	c.logger.ConfigureInt32("bufSize", &c.logConfig.BufSize, func(value int32) error {
		if value >= 0 {
			return nil
		}
		return errors.New(".bufSize has an invalid value")
	}, 4<<10)
}

func makeSet(list []string) map[string]bool {
	set := make(map[string]bool, len(list))
	for _, s := range list {
		set[s] = true
	}
	return set
}

func (c *Config) Address() string                { return c.address }
func (c *Config) WebRoot() string                { return c.webRoot }
func (c *Config) IndexFile() string              { return c.indexFile }
func (c *Config) ReadTimeout() time.Duration     { return c.readTimeout }
func (c *Config) WriteTimeout() time.Duration    { return c.writeTimeout }
func (c *Config) DeferAccept() bool              { return c.deferAccept }
func (c *Config) ReadBufferSize() int32          { return c.readBufferSize }
func (c *Config) StatusFile(status int16) string { return c.statusFiles[status] }
func (c *Config) LoggerSign() string             { return c.logger.name }
func (c *Config) LogConfig() *LogConfig          { return &c.logConfig }

// IndexPath returns the path of the default document.
func (c *Config) IndexPath() string { return filepath.FromSlash(c.webRoot + "/" + c.indexFile) }

// MimeType returns the content type of a file path, derived from its extension.
func (c *Config) MimeType(path string) (mimeType string, ok bool) {
	p := strings.LastIndexByte(path, '.')
	if p == -1 || strings.ContainsAny(path[p+1:], `/\`) {
		return "", false
	}
	mimeType, ok = c.mimeTypes[path[p+1:]]
	return
}

var defaultMimeTypes = map[string]string{
	"html": "text/html; charset=utf-8",
	"jpg":  "image/jpeg",
	"js":   "text/javascript; charset=UTF-8",
	"css":  "text/css",
	"ico":  "favicon/ico",
	"png":  "image/png",
}
