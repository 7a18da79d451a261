/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2024 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

package appserver

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/n4rclss/classfabric/clientdir"
	"github.com/n4rclss/classfabric/dispatcher"
	"github.com/n4rclss/classfabric/envelope"
	"github.com/n4rclss/classfabric/handlers"
	liblog "github.com/n4rclss/classfabric/logger"
	"github.com/n4rclss/classfabric/serverconn"
)

// Server is the top-level Application Server runtime: a Client Directory
// store, a shared request dispatcher, and an accept loop that hands every
// inbound LB connection its own serverconn.Conn decode loop.
type Server struct {
	cfg Config
	log liblog.FuncLog

	directory clientdir.Store
	dispatch  *dispatcher.Dispatcher

	m        sync.Mutex
	ctx      context.Context
	cnl      context.CancelFunc
	listener net.Listener
	running  bool
	lastErr  error
	wg       sync.WaitGroup
}

// New builds a Server from cfg, opening the Client Directory store and
// wiring the dispatcher's handler registry against auth and rooms. Call
// Start to begin serving.
func New(cfg Config, auth handlers.AuthStore, rooms handlers.RoomStore, log liblog.FuncLog) (*Server, error) {
	if log == nil {
		log = func() liblog.Logger { return liblog.Discard() }
	}

	directory, err := clientdir.Open(cfg.DBDSN)
	if err != nil {
		return nil, err
	}

	disp := dispatcher.New(handlers.Default(), directory, auth, rooms, envelope.NewFramer(cfg.MaxFrameBytes), log)

	return &Server{
		cfg:       cfg,
		log:       log,
		directory: directory,
		dispatch:  disp,
	}, nil
}

// Start binds the LB-facing listener and begins accepting connections in
// the background. It returns once the listener is bound; Serve errors
// surface through Err() after Stop.
func (s *Server) Start(ctx context.Context) error {
	s.m.Lock()
	defer s.m.Unlock()

	if s.running {
		return fmt.Errorf("application server already running")
	}

	s.ctx, s.cnl = context.WithCancel(ctx)

	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		s.cnl()
		return err
	}
	s.listener = ln
	s.running = true

	go s.acceptLoop()

	s.log().Entry(liblog.InfoLevel, "application server started").FieldAdd("listen", s.cfg.ListenAddr).Log()
	return nil
}

func (s *Server) acceptLoop() {
	var err error
	defer func() {
		s.setErr(err)
		s.m.Lock()
		s.running = false
		s.m.Unlock()
		s.wg.Wait()
		s.log().Entry(liblog.InfoLevel, "application server accept loop stopped").ErrorAdd(true, err).Check(liblog.NilLevel)
	}()

	for {
		var conn net.Conn
		conn, err = s.listener.Accept()
		if err != nil {
			if s.ctx.Err() != nil {
				err = nil
			}
			return
		}

		sc := serverconn.New(conn, s.dispatch, s.directory, envelope.NewFramer(s.cfg.MaxFrameBytes), s.log)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			_ = sc.Serve(s.ctx)
		}()
	}
}

func (s *Server) setErr(err error) {
	s.m.Lock()
	defer s.m.Unlock()
	s.lastErr = err
}

// Err returns the accept loop's terminal error, if it exited abnormally.
func (s *Server) Err() error {
	s.m.Lock()
	defer s.m.Unlock()
	return s.lastErr
}

// IsRunning reports whether the server is currently accepting LB
// connections.
func (s *Server) IsRunning() bool {
	s.m.Lock()
	defer s.m.Unlock()
	return s.running
}

// Stop cancels every in-flight connection loop, closes the listener, and
// waits for all connections to finish their own directory cleanup.
func (s *Server) Stop(ctx context.Context) error {
	s.m.Lock()
	cnl := s.cnl
	ln := s.listener
	s.m.Unlock()

	if cnl != nil {
		cnl()
	}
	var err error
	if ln != nil {
		err = ln.Close()
	}
	s.wg.Wait()

	s.log().Entry(liblog.InfoLevel, "application server stopped").ErrorAdd(true, err).Check(liblog.NilLevel)
	return err
}
