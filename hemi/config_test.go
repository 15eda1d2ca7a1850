// Copyright (c) 2020-2025 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Unit tests for the configurator.

package hemi

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// newTestConfig returns a config of a server rooted at webRoot, with more props appended.
func newTestConfig(t *testing.T, webRoot string, props string) *Config {
	t.Helper()
	config, err := ConfigFromText(`server "test" { .webRoot = "` + filepath.ToSlash(webRoot) + `" ` + props + ` }`)
	if err != nil {
		t.Fatalf("config: %s", err.Error())
	}
	return config
}

func TestConfigDefaults(t *testing.T) {
	config, err := ConfigFromText(`server "main" {}`)
	if err != nil {
		t.Fatal(err)
	}
	if config.Name() != "main" {
		t.Errorf("name=%s", config.Name())
	}
	if config.Address() != "0.0.0.0:80" {
		t.Errorf("address=%s", config.Address())
	}
	if config.WebRoot() != TopDir()+"/root" {
		t.Errorf("webRoot=%s", config.WebRoot())
	}
	if config.IndexFile() != "index.html" {
		t.Errorf("indexFile=%s", config.IndexFile())
	}
	if config.ReadTimeout() != 100*time.Millisecond || config.WriteTimeout() != 5*time.Second {
		t.Errorf("readTimeout=%s writeTimeout=%s", config.ReadTimeout(), config.WriteTimeout())
	}
	if config.ReadBufferSize() != 1024 {
		t.Errorf("readBufferSize=%d", config.ReadBufferSize())
	}
	if config.DeferAccept() || config.areaLengthQuirk {
		t.Error("deferAccept and areaLengthQuirk should be off")
	}
	if config.localAddress != "127.0.0.1/" {
		t.Errorf("localAddress=%s", config.localAddress)
	}
	if config.LoggerSign() != "noop" {
		t.Errorf("logger=%s", config.LoggerSign())
	}
	if file := config.StatusFile(StatusNotFound); file != config.WebRoot()+"/status/404.html" {
		t.Errorf("statusFile=%s", file)
	}
	if config.calculators[calcArea] != "calculate-area" || config.calculators[calcNext] != "calculate-next" {
		t.Errorf("calculators=%v", config.calculators)
	}
}

func TestConfigProps(t *testing.T) {
	text := `
# comments are allowed
logger "console" {
    .target = "stdout"
    .bufSize = 8K
}
server "main" {
    .address = ":3080"   // line comment
    .webRoot = "/srv/www/"
    .indexFile = "home.html"
    .localAddress = "localhost/"
    .readTimeout = 2s
    .writeTimeout = 1m
    .readBufferSize = 4K
    .deferAccept = true
    .areaLengthQuirk = true
    /* stream
       comment */
    .forbidden = ("localhost/secret.txt", "localhost/" + "secret2.txt")
    .redirects = ("localhost/old.txt")
    .redirectLocations = [ "localhost/old.txt": "/new.txt" ]
    .statusFiles = [ "404": .webRoot + "missing.html" ]
    .calculators = [ "next": "increment" ]
    .mimeTypes = [ "txt": "text/plain", "ico": "image/x-icon" ]
}
`
	config, err := ConfigFromText(text)
	if err != nil {
		t.Fatal(err)
	}
	if config.Address() != ":3080" || config.WebRoot() != "/srv/www" || config.IndexFile() != "home.html" {
		t.Errorf("address=%s webRoot=%s indexFile=%s", config.Address(), config.WebRoot(), config.IndexFile())
	}
	if config.ReadTimeout() != 2*time.Second || config.WriteTimeout() != time.Minute {
		t.Errorf("readTimeout=%s writeTimeout=%s", config.ReadTimeout(), config.WriteTimeout())
	}
	if config.ReadBufferSize() != 4096 || !config.DeferAccept() || !config.areaLengthQuirk {
		t.Errorf("readBufferSize=%d deferAccept=%v", config.ReadBufferSize(), config.DeferAccept())
	}
	if !config.forbidden["localhost/secret.txt"] || !config.forbidden["localhost/secret2.txt"] || len(config.forbidden) != 2 {
		t.Errorf("forbidden=%v", config.forbidden)
	}
	if !config.redirects["localhost/old.txt"] || config.redirectLocations["localhost/old.txt"] != "/new.txt" {
		t.Errorf("redirects=%v locations=%v", config.redirects, config.redirectLocations)
	}
	if file := config.StatusFile(StatusNotFound); file != "/srv/www/missing.html" {
		t.Errorf("statusFile=%s", file)
	}
	if file := config.StatusFile(StatusForbidden); file != "/srv/www/status/403.html" {
		t.Errorf("statusFile=%s", file)
	}
	if config.calculators[calcNext] != "increment" || config.calculators[calcArea] != "calculate-area" {
		t.Errorf("calculators=%v", config.calculators)
	}
	if mimeType, _ := config.MimeType("a.txt"); mimeType != "text/plain" {
		t.Errorf("txt=%s", mimeType)
	}
	if mimeType, _ := config.MimeType("a.ico"); mimeType != "image/x-icon" {
		t.Errorf("ico=%s", mimeType)
	}
	if config.LoggerSign() != "console" || config.LogConfig().Target != "stdout" || config.LogConfig().BufSize != 8192 {
		t.Errorf("logger=%s config=%v", config.LoggerSign(), config.LogConfig())
	}
}

func TestConfigErrors(t *testing.T) {
	tests := []struct {
		text   string
		expect string
	}{
		{``, "server is required"},
		{`server "a" {} server "b" {}`, "duplicated server"},
		{`logger "nosuch" {} server "a" {}`, "unknown logger"},
		{`proxy "a" {}`, "not a valid component"},
		{`server "a" { .address = "127.0.0.1" }`, "address"},
		{`server "a" { .readTimeout = "fast" }`, "invalid readTimeout"},
		{`server "a" { .readBufferSize = 16 }`, "readBufferSize"},
		{`server "a" { .statusFiles = [ "200": "ok.html" ] }`, "statusFiles"},
		{`server "a" { .redirectLocations = [ "127.0.0.1/x": "/y" ] }`, "not in .redirects"},
		{`server "a" { .calculators = [ "sum": "calculate-sum" ] }`, "unknown calculator"},
		{`server "a" { .address = .address }`, "cannot refer to self"},
		{`server "a" { .webRoot = "/x" + 1 }`, "cannot concat"},
		{`server "a" { .forbidden = ("x" "y") }`, "bad list"},
		{`server "a" { .address = ":80"`, "unexpected EOF"},
		{`server "a" { .webRoot = "/x" <include.conf> }`, "include is not allowed"},
		{`server "a" { .address = %nosuch }`, "not a valid constant"},
	}
	for idx, test := range tests {
		config, err := ConfigFromText(test.text)
		if err == nil {
			t.Errorf("#%d: expect error, config=%v", idx, config)
			continue
		}
		if config != nil {
			t.Errorf("#%d: config should be nil on error", idx)
		}
		if !strings.Contains(err.Error(), test.expect) {
			t.Errorf("#%d: err=%q, expect=%q", idx, err.Error(), test.expect)
		}
	}
}

func TestConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "lists.conf"), []byte(`.forbidden = ("127.0.0.1/f.txt")`), 0644); err != nil {
		t.Fatal(err)
	}
	main := "server \"main\" {\n    .address = \":8080\"\n    <lists.conf>\n}\n"
	if err := os.WriteFile(filepath.Join(dir, "main.conf"), []byte(main), 0644); err != nil {
		t.Fatal(err)
	}
	config, err := ConfigFromFile(filepath.ToSlash(dir), "main.conf")
	if err != nil {
		t.Fatal(err)
	}
	if config.Address() != ":8080" || !config.forbidden["127.0.0.1/f.txt"] {
		t.Errorf("address=%s forbidden=%v", config.Address(), config.forbidden)
	}

	if _, err := ConfigFromFile(filepath.ToSlash(dir), "nosuch.conf"); err == nil || !strings.Contains(err.Error(), "nosuch.conf") {
		t.Errorf("err=%v", err)
	}
}

func TestMimeType(t *testing.T) {
	config := newTestConfig(t, "/www", "")
	tests := []struct {
		path   string
		expect string
		ok     bool
	}{
		{"/www/index.html", "text/html; charset=utf-8", true},
		{"/www/a.b/logo.png", "image/png", true},
		{"/www/photo.jpg", "image/jpeg", true},
		{"/www/app.js", "text/javascript; charset=UTF-8", true},
		{"/www/site.css", "text/css", true},
		{"/www/favicon.ico", "favicon/ico", true},
		{"/www/readme.txt", "", false},
		{"/www/a.b/README", "", false},
		{"/www/Makefile", "", false},
	}
	for idx, test := range tests {
		mimeType, ok := config.MimeType(test.path)
		if mimeType != test.expect || ok != test.ok {
			t.Errorf("#%d: mimeType=%q ok=%v, expect=%q ok=%v", idx, mimeType, ok, test.expect, test.ok)
		}
	}
}
