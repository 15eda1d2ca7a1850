// Copyright (c) 2020-2025 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Procman package implements the command line and the lifetime of the server process.

package procman

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/hexinfra/tinyrox/hemi"
	"github.com/hexinfra/tinyrox/hemi/common/system"
)

// Opts
type Opts struct {
	ProgramName  string
	ProgramTitle string
	DebugLevel   int
}

const usage = `
%s (%s)
================================================================================

  %s [ACTION] [OPTIONS]

ACTION
------

  help         # show this message
  version      # show version info
  check        # dry run to check config
  serve        # start as server

  Only one action is allowed at a time.
  If ACTION is missing, the default action is "serve".

OPTIONS
-------

  -debug  <level>   # debug level (default: %d. min: 0, max: 2)
  -config <config>  # path to config file (default: conf/%s.conf)
  -base   <path>    # base directory of the program
  -logs   <path>    # logs directory to use

`

var (
	debugLevel int
	configFile string
	baseDir    string
	logsDir    string
)

func Main(opts *Opts) {
	flag.Usage = func() {
		fmt.Printf(usage, opts.ProgramTitle, hemi.Version, opts.ProgramName, opts.DebugLevel, opts.ProgramName)
	}
	flag.IntVar(&debugLevel, "debug", opts.DebugLevel, "")
	flag.StringVar(&configFile, "config", "", "")
	flag.StringVar(&baseDir, "base", "", "")
	flag.StringVar(&logsDir, "logs", "", "")
	action := "serve"
	if len(os.Args) > 1 && os.Args[1][0] != '-' {
		action = os.Args[1]
		flag.CommandLine.Parse(os.Args[2:])
	} else {
		flag.Parse()
	}

	switch action {
	case "help":
		flag.Usage()
	case "version":
		fmt.Println(hemi.Version)
	case "check", "serve":
		hemi.SetDebugLevel(int32(debugLevel))
		setDirs(opts.ProgramName)
		config, err := hemi.ConfigFromFile(baseDir, configFile)
		if err != nil {
			if action == "check" {
				fmt.Println(err.Error())
				return
			}
			hemi.UseExitln(err.Error())
		}
		if action == "check" { // dry run
			fmt.Println("PASS")
			return
		}
		serve(config)
	default:
		hemi.UseExitln("unknown action: " + action)
	}
}

func setDirs(program string) {
	if baseDir == "" {
		baseDir = system.ExeDir
	} else { // baseDir is specified.
		dir, err := filepath.Abs(baseDir)
		if err != nil {
			hemi.EnvExitln(err.Error())
		}
		baseDir = filepath.ToSlash(dir)
	}
	hemi.SetTopDir(baseDir)

	if logsDir == "" {
		logsDir = baseDir + "/logs"
	} else if !filepath.IsAbs(logsDir) {
		logsDir = baseDir + "/" + logsDir
	}
	logsDir = filepath.ToSlash(logsDir)
	hemi.SetLogDir(logsDir)

	if configFile == "" {
		configFile = "conf/" + program + ".conf"
	}
}

func serve(config *hemi.Config) {
	server := hemi.NewServer(config, hemi.LocalStore{})
	if err := server.Open(); err != nil {
		hemi.EnvExitln(err.Error())
	}

	done := make(chan struct{})
	go func() {
		server.Serve()
		close(done)
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-signals:
		if hemi.DebugLevel() >= 1 {
			hemi.Printf("received signal: %s\n", sig.String())
		}
		server.Shut()
		<-done
	case <-done:
	}
}
