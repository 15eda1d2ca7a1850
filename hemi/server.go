// Copyright (c) 2020-2025 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Server accepts connections and answers one request per connection.

package hemi

import (
	"context"
	"fmt"
	"net"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/hexinfra/tinyrox/hemi/common/system"
)

// Server
type Server struct {
	// Assocs
	config   *Config
	resolver *Resolver
	logger   Logger
	// States
	gate   *net.TCPListener
	connID int64
	shut   atomic.Bool
}

func NewServer(config *Config, store Store) *Server {
	s := new(Server)
	s.config = config
	s.resolver = NewResolver(config, store)
	if s.logger = createLogger(config.LoggerSign(), config.LogConfig()); s.logger == nil {
		s.logger = noopLogger{}
	}
	return s
}

func (s *Server) Config() *Config { return s.config }

func (s *Server) Open() error {
	listenConfig := new(net.ListenConfig)
	if s.config.deferAccept {
		listenConfig.Control = func(network string, address string, rawConn syscall.RawConn) error {
			return system.SetDeferAccept(rawConn)
		}
	}
	gate, err := listenConfig.Listen(context.Background(), "tcp", s.config.address)
	if err != nil {
		return err
	}
	s.gate = gate.(*net.TCPListener)
	s.logger.Logf("server is listening on %s\n", s.gate.Addr().String())
	return nil
}

// Addr returns the bound address, which differs from the configured one when the port is 0.
func (s *Server) Addr() net.Addr { return s.gate.Addr() }

func (s *Server) Shut() error {
	s.shut.Store(true)
	return s.gate.Close()
}
func (s *Server) IsShut() bool { return s.shut.Load() }

// Serve runs the accept loop until Shut is called. Connections are served one at a time.
func (s *Server) Serve() { // runner
	for {
		tcpConn, err := s.gate.AcceptTCP()
		if err != nil {
			if s.IsShut() {
				break
			} else {
				if DebugLevel() >= 1 {
					Printf("accept error: %s\n", err.Error())
				}
				continue
			}
		}
		s.serveConn(tcpConn)
		s.connID++
	}
	if DebugLevel() >= 2 {
		Printf("server=%s done\n", s.config.Name())
	}
	s.logger.Logf("server is shut\n")
	s.logger.Close()
}

// serveConn reads once from conn, answers it, then closes it. Faults never escape the connection.
func (s *Server) serveConn(conn net.Conn) {
	defer func() {
		if x := recover(); x != nil {
			s.logger.Logf("conn=%d panic: %v\n", s.connID, x)
		}
		conn.Close()
	}()

	input := make([]byte, s.config.readBufferSize)
	conn.SetReadDeadline(time.Now().Add(s.config.readTimeout))
	n, err := conn.Read(input)
	if n == 0 {
		if err != nil && DebugLevel() >= 2 {
			Printf("conn=%d read error: %s\n", s.connID, err.Error())
		}
		return
	}
	input = input[:n]

	resp := s.resolver.Handle(input)
	if resp == nil {
		return
	}
	conn.SetWriteDeadline(time.Now().Add(s.config.writeTimeout))
	if _, err := resp.WriteTo(conn); err != nil {
		s.logger.Logf("conn=%d write error: %s\n", s.connID, err.Error())
		return
	}
	s.logAccess(conn.RemoteAddr(), requestLine(input), resp)
}

func (s *Server) logAccess(remote net.Addr, line string, resp *Response) {
	remoteAddr := "-"
	if remote != nil {
		remoteAddr = remote.String()
	}
	if logger, ok := s.logger.(accessLogger); ok {
		logger.logAccess(remoteAddr, line, resp.Status, len(resp.Body))
	} else {
		s.logger.Logf("%s %q %d %d\n", remoteAddr, line, resp.Status, len(resp.Body))
	}
}

// requestLine returns the first line of input for logging, malformed or not.
func requestLine(input []byte) string {
	for i, b := range input {
		if b == '\r' || b == '\n' {
			return string(input[:i])
		}
	}
	return string(input)
}

func (s *Server) String() string { return fmt.Sprintf("server=%s address=%s", s.config.Name(), s.config.address) }
