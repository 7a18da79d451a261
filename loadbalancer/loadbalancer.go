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

package loadbalancer

import (
	"context"
	"fmt"
	"sync"

	"github.com/n4rclss/classfabric/backend"
	"github.com/n4rclss/classfabric/envelope"
	"github.com/n4rclss/classfabric/frontend"
	liblog "github.com/n4rclss/classfabric/logger"
	"github.com/n4rclss/classfabric/watch"
)

// LB is the top-level load balancer runtime: a backend directory, a
// filesystem watcher that keeps it reloaded, and a client-facing
// front-end that dispatches inbound chunks over it.
type LB struct {
	cfg Config
	log liblog.FuncLog

	directory *backend.Directory
	sessions  *frontend.ClientSessions
	front     *frontend.Frontend
	watcher   *watch.Watcher

	m       sync.Mutex
	ctx     context.Context
	cnl     context.CancelFunc
	running bool
	lastErr error
}

// New builds an LB runtime from cfg. Call Start to begin serving.
func New(cfg Config, log liblog.FuncLog) *LB {
	if log == nil {
		log = func() liblog.Logger { return liblog.Discard() }
	}

	sessions := frontend.NewClientSessions()
	directory := backend.NewDirectory(sessions, envelope.NewFramer(cfg.MaxFrameBytes), cfg.HealthCheckTimeout, cfg.ProbeConcurrency, log)
	front := frontend.New(directory, sessions, log)

	return &LB{
		cfg:       cfg,
		log:       log,
		directory: directory,
		sessions:  sessions,
		front:     front,
	}
}

// Start launches the filesystem watcher (which performs the initial
// backend-list load synchronously) and begins accepting client
// connections in the background. It returns once the client listener is
// bound; Serve errors surface through Err() after Stop.
func (o *LB) Start(ctx context.Context) error {
	o.m.Lock()
	defer o.m.Unlock()

	if o.running {
		return fmt.Errorf("load balancer already running")
	}

	o.ctx, o.cnl = context.WithCancel(ctx)

	reload := func(ctx context.Context) error {
		return o.directory.Reload(ctx, o.cfg.ServersFile)
	}
	w, err := watch.New(o.ctx, o.cfg.ServersFile, reload, o.log)
	if err != nil {
		o.cnl()
		return err
	}
	o.watcher = w

	if err = o.front.Listen(o.cfg.ListenAddr); err != nil {
		_ = w.Close()
		o.cnl()
		return err
	}

	o.running = true
	go o.runFrontend()

	o.log().Entry(liblog.InfoLevel, "load balancer started").FieldAdd("listen", o.cfg.ListenAddr).Log()
	return nil
}

func (o *LB) runFrontend() {
	err := o.front.Accept(o.ctx)
	o.setErr(err)

	o.m.Lock()
	o.running = false
	o.m.Unlock()
	o.log().Entry(liblog.InfoLevel, "load balancer front-end stopped").ErrorAdd(true, err).Check(liblog.NilLevel)
}

func (o *LB) setErr(err error) {
	o.m.Lock()
	defer o.m.Unlock()
	o.lastErr = err
}

// Err returns the front-end's terminal error, if Serve exited abnormally.
func (o *LB) Err() error {
	o.m.Lock()
	defer o.m.Unlock()
	return o.lastErr
}

// IsRunning reports whether the LB is currently accepting clients.
func (o *LB) IsRunning() bool {
	o.m.Lock()
	defer o.m.Unlock()
	return o.running
}

// Directory exposes the backend directory, mainly for diagnostics/tests.
func (o *LB) Directory() *backend.Directory {
	return o.directory
}

// Stop stops the watcher, closes all client sockets (without draining),
// then closes all backend connections, awaiting every reader task.
func (o *LB) Stop(ctx context.Context) error {
	o.m.Lock()
	cnl := o.cnl
	w := o.watcher
	o.m.Unlock()

	if cnl != nil {
		cnl()
	}
	if w != nil {
		_ = w.Close()
	}

	if err := o.front.Close(); err != nil {
		o.log().Entry(liblog.WarnLevel, "error closing client front-end").ErrorAdd(true, err).Log()
	}

	err := o.directory.Close()
	o.log().Entry(liblog.InfoLevel, "load balancer stopped").ErrorAdd(true, err).Check(liblog.NilLevel)
	return err
}
