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

// Package watch posts a reload task whenever the LB's backend list file
// changes on disk. Events are coalesced: while a reload is running, a
// single pending flag absorbs any further events and triggers exactly
// one more reload once the current one finishes.
package watch

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	liblog "github.com/n4rclss/classfabric/logger"
)

// ReloadFunc performs one reload cycle; its error is logged but never
// stops the watcher.
type ReloadFunc func(ctx context.Context) error

// Watcher watches the directory containing path and invokes fn whenever
// path itself is created, written, or renamed into place.
type Watcher struct {
	fsw  *fsnotify.Watcher
	path string
	fn   ReloadFunc
	log  liblog.FuncLog

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	running bool
	pending bool
}

// New starts watching path's parent directory and runs fn on every
// relevant change. fn is also invoked once synchronously before New
// returns, so the caller observes the initial state without waiting for
// a filesystem event.
func New(ctx context.Context, path string, fn ReloadFunc, log liblog.FuncLog) (*Watcher, error) {
	if log == nil {
		log = func() liblog.Logger { return liblog.Discard() }
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err = fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	wctx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		fsw:    fsw,
		path:   filepath.Clean(path),
		fn:     fn,
		log:    log,
		ctx:    wctx,
		cancel: cancel,
	}

	go w.loop()

	if err = fn(wctx); err != nil {
		log().Entry(liblog.WarnLevel, "initial backend list load failed").ErrorAdd(true, err).Log()
	}

	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.trigger()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log().Entry(liblog.WarnLevel, "filesystem watcher error").ErrorAdd(true, err).Log()
		}
	}
}

func (w *Watcher) trigger() {
	w.mu.Lock()
	if w.running {
		w.pending = true
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	go w.drain()
}

// drain runs fn, then runs it again once more per pending flag set while
// it was running, never letting more than one extra reload queue up.
func (w *Watcher) drain() {
	for {
		if err := w.fn(w.ctx); err != nil {
			w.log().Entry(liblog.WarnLevel, "reload triggered by filesystem event failed").ErrorAdd(true, err).Log()
		}

		w.mu.Lock()
		if w.pending {
			w.pending = false
			w.mu.Unlock()
			continue
		}
		w.running = false
		w.mu.Unlock()
		return
	}
}

// Close stops the watcher and releases its OS resources.
func (w *Watcher) Close() error {
	w.cancel()
	return w.fsw.Close()
}
